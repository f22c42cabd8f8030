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

package mysql

import (
	"context"
	"os"

	"github.com/sqlport/sqlport"
	"github.com/sqlport/sqlport/internal/testsuite"
)

// testDSN points the adapter tests at a live server, e.g.:
//
//	SQLPORT_MYSQL_DSN="sqlport:secret@tcp(127.0.0.1:3306)/sqlport_test" go test ./adapter/mysql/...
var testDSN = os.Getenv("SQLPORT_MYSQL_DSN")

type Helper struct {
	conn sqlport.Connection
}

var _ testsuite.Helper = &Helper{}

func (h *Helper) Adapter() string {
	return Adapter
}

// Params parses testDSN anew on every call so tests can tweak their copy
// without stepping on each other.
func (h *Helper) Params() sqlport.Params {
	params, err := ParseURL(testDSN)
	if err != nil {
		// TearUp validates testDSN before any test runs.
		panic(err)
	}
	return params
}

func (h *Helper) Connection() sqlport.Connection {
	return h.conn
}

func (h *Helper) TearUp() error {
	conn, err := sqlport.Open(h.Params())
	if err != nil {
		return err
	}

	batch := []string{
		`DROP TABLE IF EXISTS artist`,

		`CREATE TABLE artist (
			id BIGINT(20) UNSIGNED NOT NULL AUTO_INCREMENT,
			name VARCHAR(60),
			PRIMARY KEY (id)
		)`,
	}

	ctx := context.Background()
	for _, query := range batch {
		if _, err := conn.Exec(ctx, query); err != nil {
			return err
		}
	}

	h.conn = conn
	return nil
}

func (h *Helper) TearDown() error {
	return h.conn.Disconnect()
}
