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

package sqlite

import (
	"context"
	"os"
	"path/filepath"

	"github.com/sqlport/sqlport"
	"github.com/sqlport/sqlport/internal/testsuite"
)

// The adapter tests run against a throwaway file, no server required.
var testFile = filepath.Join(os.TempDir(), "sqlport_sqlite_test.db")

type Helper struct {
	conn sqlport.Connection
}

var _ testsuite.Helper = &Helper{}

func (h *Helper) Adapter() string {
	return Adapter
}

// Params builds a fresh parameter set on every call so tests can tweak their
// copy without stepping on each other.
func (h *Helper) Params() sqlport.Params {
	return sqlport.Params{
		"driver":   Adapter,
		"database": testFile,
	}
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
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name VARCHAR(60)
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
