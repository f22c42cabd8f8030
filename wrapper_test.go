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

package sqlport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	RegisterAdapter(`fakesql`, AdapterFunc(func(params Params) (Connection, error) {
		return nil, errors.New(`fakesql: not a real engine`)
	}))
}

func TestRegisterAdapter(t *testing.T) {
	adapter, err := LookupAdapter(`fakesql`)
	require.NoError(t, err)
	assert.NotNil(t, adapter)

	// Lookups are case-insensitive.
	adapter, err = LookupAdapter(`FakeSQL`)
	require.NoError(t, err)
	assert.NotNil(t, adapter)

	assert.Panics(t, func() {
		RegisterAdapter(``, AdapterFunc(func(Params) (Connection, error) {
			return nil, nil
		}))
	})

	assert.Panics(t, func() {
		RegisterAdapter(`fakesql`, AdapterFunc(func(Params) (Connection, error) {
			return nil, nil
		}))
	})
}

func TestLookupAdapterUnknown(t *testing.T) {
	_, err := LookupAdapter(`not-an-adapter`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownAdapter))
}

func TestLookupAdapterAliases(t *testing.T) {
	// Aliases resolve to their canonical adapter name before the lookup, so
	// the error reports the name that was actually looked for.
	for alias, canonical := range map[string]string{
		`mariadb`:   `mysql`,
		`postgres`:  `postgresql`,
		`pgsql`:     `postgresql`,
		`sqlite3`:   `sqlite`,
		`sqlserver`: `mssql`,
	} {
		_, err := LookupAdapter(alias)
		require.Error(t, err)
		assert.Contains(t, err.Error(), canonical)
	}
}

func TestOpenRoutesToAdapter(t *testing.T) {
	var got Params

	RegisterAdapter(`routed`, AdapterFunc(func(params Params) (Connection, error) {
		got = params
		return nil, nil
	}))

	params := Params{
		"driver":   "routed",
		"host":     "db4",
		"username": "maria",
	}
	_, err := Open(params)
	require.NoError(t, err)

	// The adapter receives the complete parameter set, driver included.
	assert.Equal(t, params, got)
}

func TestOpenDriverKeyIsCaseInsensitive(t *testing.T) {
	_, err := Open(Params{"DRIVER": "fakesql"})
	require.Error(t, err)
	assert.Equal(t, `fakesql: not a real engine`, err.Error())
}

func TestOpenWithoutDriver(t *testing.T) {
	_, err := Open(Params{"host": "db5"})
	assert.True(t, errors.Is(err, ErrMissingAdapterName))

	_, err = Open(Params{"driver": ""})
	assert.True(t, errors.Is(err, ErrMissingAdapterName))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(Params{"driver": "paradox"})
	assert.True(t, errors.Is(err, ErrUnknownAdapter))
}
