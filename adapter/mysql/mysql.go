// Copyright (c) The sqlport authors. All rights reserved.
//
// Permission is hereby granted, free of charge, to any person obtaining
// a copy of this software and associated documentation files (the
// "Software"), to deal in the Software without restriction, including
// without limitation the rights to use, copy, modify, merge, publish,
// distribute, sublicense, and/or sell copies of the Software, and to
// permit persons to whom the Software is furnished to do so, subject to
// the following conditions:
//
// The above copyright notice and this permission notice shall be
// included in all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
// NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE
// LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION
// OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION
// WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

// Package mysql connects sqlport to MySQL-family servers through
// github.com/go-sql-driver/mysql.
package mysql

import (
	"database/sql"

	"github.com/sqlport/sqlport"
	"github.com/sqlport/sqlport/internal/sqladapter"
)

// Adapter is the name this adapter registers under.
const Adapter = `mysql`

func init() {
	sqlport.RegisterAdapter(Adapter, sqlport.AdapterFunc(Open))
}

// Open validates the parameter set eagerly and returns a Connection that
// dials lazily, on the first operation that needs a session.
func Open(params sqlport.Params) (sqlport.Connection, error) {
	sets, err := sqlport.Parse(params)
	if err != nil {
		return nil, err
	}

	d := &database{params: params}
	if _, err := d.DSN(sets); err != nil {
		return nil, err
	}
	return sqladapter.NewConnection(sqladapter.NewSQLClient(d), sets, NewResultFactory()), nil
}

// New wraps an already-open database handle into a Connection, skipping the
// parameter-based connect path. A session is pinned from the handle right
// away, and the Connection owns the handle from here on.
func New(sqlDB *sql.DB) (sqlport.Connection, error) {
	client, err := sqladapter.BindSQLClient(&database{}, sqlDB)
	if err != nil {
		return nil, err
	}

	conn := sqladapter.NewConnection(client, &sqlport.Settings{}, NewResultFactory())
	if err := conn.Bind(); err != nil {
		return nil, err
	}
	return conn, nil
}
