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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlport/sqlport"
)

func TestDSN(t *testing.T) {
	d := &database{}
	sets := &sqlport.Settings{}

	// The zero descriptor dials the driver's defaults on localhost.
	dsn, err := d.DSN(sets)
	require.NoError(t, err)
	assert.Equal(t, `tcp(127.0.0.1)/`, dsn)

	// Adding a database name.
	sets.Database = "mydbname"

	dsn, err = d.DSN(sets)
	require.NoError(t, err)
	assert.Equal(t, `tcp(127.0.0.1)/mydbname`, dsn)

	// Setting user and password.
	sets.User = "user"
	sets.Password = "pass"

	dsn, err = d.DSN(sets)
	require.NoError(t, err)
	assert.Equal(t, `user:pass@tcp(127.0.0.1)/mydbname`, dsn)

	// Setting host and port.
	sets.Host = "1.2.3.4"
	sets.Port = 3306

	dsn, err = d.DSN(sets)
	require.NoError(t, err)
	assert.Equal(t, `user:pass@tcp(1.2.3.4:3306)/mydbname`, dsn)

	// Adding options.
	sets.Options = map[string]string{
		"charset": "utf8mb4,utf8",
		"sys_var": "esc@ped",
	}

	dsn, err = d.DSN(sets)
	require.NoError(t, err)
	assert.Equal(t, `user:pass@tcp(1.2.3.4:3306)/mydbname?charset=utf8mb4%2Cutf8&sys_var=esc%40ped`, dsn)

	// The session charset never travels in the DSN; it is applied as a
	// post-connect step instead.
	sets.Options = nil
	sets.Charset = "utf8mb4"

	dsn, err = d.DSN(sets)
	require.NoError(t, err)
	assert.Equal(t, `user:pass@tcp(1.2.3.4:3306)/mydbname`, dsn)

	// Switching to a socket.
	sets.Host = ""
	sets.Port = 0
	sets.Socket = "/path/to/socket"

	dsn, err = d.DSN(sets)
	require.NoError(t, err)
	assert.Equal(t, `user:pass@unix(/path/to/socket)/mydbname`, dsn)

	// A socket and a host cannot both be given.
	sets.Host = "1.2.3.4"

	_, err = d.DSN(sets)
	assert.ErrorIs(t, err, sqlport.ErrSocketOrHost)
}

func TestParseURL(t *testing.T) {
	u, err := ParseURL(`user:pass@unix(/path/to/socket)/mydbname?sys_var=esc%40ped`)
	require.NoError(t, err)

	assert.Equal(t, Adapter, u["driver"])
	assert.Equal(t, "user", u["username"])
	assert.Equal(t, "pass", u["password"])
	assert.Equal(t, "/path/to/socket", u["socket"])
	assert.Equal(t, "mydbname", u["database"])
	assert.Equal(t, map[string]string{"sys_var": "esc@ped"}, u["driver_options"])

	u, err = ParseURL(`user:pass@tcp(1.2.3.4:5678)/mydbname`)
	require.NoError(t, err)

	assert.Equal(t, "user", u["username"])
	assert.Equal(t, "pass", u["password"])
	assert.Equal(t, "1.2.3.4", u["host"])
	assert.Equal(t, 5678, u["port"])
	assert.Equal(t, "mydbname", u["database"])

	// A DSN has a mandatory slash before the database name.
	_, err = ParseURL(`user:pass@tcp(1.2.3.4:3306)`)
	assert.Error(t, err)
}

func TestParseURLRoundTrip(t *testing.T) {
	in := `user:pass@tcp(1.2.3.4:5678)/mydbname?sys_var=esc%40ped`

	u, err := ParseURL(in)
	require.NoError(t, err)

	sets, err := sqlport.Parse(u)
	require.NoError(t, err)

	out, err := (&database{}).DSN(sets)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
