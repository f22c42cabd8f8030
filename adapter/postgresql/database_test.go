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

package postgresql

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlport/sqlport"
)

func TestCurrvalQuery(t *testing.T) {
	assert.Equal(t, `SELECT CURRVAL('artist_id_seq')`, currvalQuery("artist_id_seq"))

	// Sequence names are quoted as string literals, whatever they carry.
	assert.Equal(t, `SELECT CURRVAL('artist''s seq')`, currvalQuery("artist's seq"))
}

func TestLastValueNeedsHint(t *testing.T) {
	d := &database{}

	// No hint, no query: the nil session is never touched.
	value, err := d.LastValue(context.Background(), "")
	assert.NoError(t, err)
	assert.Zero(t, value)
}

func TestErrTaxonomy(t *testing.T) {
	d := &database{}

	assert.NoError(t, d.err(`SELECT 1`, nil))

	// Session-level SQLSTATE classes turn into connection errors, with the
	// server message kept verbatim.
	for _, code := range []string{"08006", "28P01", "3D000"} {
		cause := &pgconn.PgError{Code: code, Message: "session trouble"}
		err := d.err(``, cause)
		assert.ErrorIs(t, err, sqlport.ErrConnectionFailed, code)

		var connErr *sqlport.ConnectionError
		require.ErrorAs(t, err, &connErr)
		assert.Equal(t, "session trouble", connErr.Detail)
	}

	// Statement-level errors keep the statement and the server message.
	cause := &pgconn.PgError{Code: "42P01", Message: `relation "nowhere" does not exist`}
	err := d.err(`SELECT nothing FROM nowhere`, cause)
	assert.ErrorIs(t, err, sqlport.ErrInvalidQuery)
	assert.ErrorIs(t, err, cause)

	var queryErr *sqlport.QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, `SELECT nothing FROM nowhere`, queryErr.Query)
	assert.Equal(t, `relation "nowhere" does not exist`, queryErr.Message)

	// Errors the driver raises on its own ride along untouched.
	plain := errors.New("conn closed")
	err = d.err(`SELECT 1`, plain)
	assert.ErrorIs(t, err, sqlport.ErrInvalidQuery)
	assert.ErrorIs(t, err, plain)
}

func TestEscape(t *testing.T) {
	d := &database{}

	assert.Equal(t, `plain`, d.Escape(`plain`))
	assert.Equal(t, `O''Brien`, d.Escape(`O'Brien`))
}

func TestResultRows(t *testing.T) {
	res := &Result{res: &pgconn.Result{
		FieldDescriptions: []pgconn.FieldDescription{{Name: "id"}, {Name: "name"}},
		Rows: [][][]byte{
			{[]byte("1"), []byte("Ozzie")},
			{[]byte("2"), nil},
		},
	}}

	cols, err := res.Columns()
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, cols)

	require.True(t, res.Next())

	var id int64
	var name interface{}
	require.NoError(t, res.Scan(&id, &name))
	assert.Equal(t, int64(1), id)
	assert.Equal(t, "Ozzie", name)

	// NULL values scan as nil through the empty interface.
	require.True(t, res.Next())
	require.NoError(t, res.Scan(&id, &name))
	assert.Equal(t, int64(2), id)
	assert.Nil(t, name)

	assert.False(t, res.Next())
	assert.NoError(t, res.Err())
	assert.NoError(t, res.Close())
}

func TestResultScanChecks(t *testing.T) {
	res := &Result{res: &pgconn.Result{
		FieldDescriptions: []pgconn.FieldDescription{{Name: "n"}, {Name: "b"}},
		Rows:              [][][]byte{{[]byte("42"), []byte("t")}},
	}}

	// Scanning before Next is refused.
	var n int
	assert.ErrorIs(t, res.Scan(&n), sqlport.ErrNoMoreRows)

	require.True(t, res.Next())

	// One destination per column.
	assert.Error(t, res.Scan(&n))

	var b bool
	require.NoError(t, res.Scan(&n, &b))
	assert.Equal(t, 42, n)
	assert.True(t, b)
}

func TestResultPlainSuccess(t *testing.T) {
	// A statement with nothing to read still normalizes into a Result.
	res := &Result{}

	assert.False(t, res.Next())
	assert.ErrorIs(t, res.Scan(new(int)), sqlport.ErrNoMoreRows)

	cols, err := res.Columns()
	assert.NoError(t, err)
	assert.Empty(t, cols)

	assert.Zero(t, res.RowsAffected())
	assert.NoError(t, res.Err())
	assert.NoError(t, res.Close())
}
