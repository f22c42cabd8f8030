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
	"net/url"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sqlport/sqlport"
)

const connectionScheme = `file`

// DSN renders the canonical descriptor into a go-sqlite3 DSN. The database
// parameter is the file path, or ":memory:" for a throwaway in-memory
// database; host, port and socket mean nothing to this engine and are
// ignored. Options ride as URI query parameters, with a _busy_timeout
// default so concurrent openers wait instead of failing right away.
func (d *database) DSN(sets *sqlport.Settings) (string, error) {
	if sets.Database == "" {
		return "", &sqlport.InvalidParamsError{Key: "database", Value: sets.Database, Params: d.params}
	}

	vv := url.Values{}
	for k, v := range sets.Options {
		vv.Set(k, v)
	}
	if _, ok := sets.Options["_busy_timeout"]; !ok {
		vv.Set("_busy_timeout", "10000")
	}

	if sets.Database == ":memory:" {
		// Assembled by hand; url.URL would mangle the leading colon.
		return "file::memory:?" + vv.Encode(), nil
	}

	database := sets.Database
	if !strings.HasPrefix(database, "/") {
		database, _ = filepath.Abs(database)
		if runtime.GOOS == "windows" {
			database = "/" + strings.ReplaceAll(database, `\`, `/`)
		}
	}

	u := url.URL{
		Scheme:   connectionScheme,
		Path:     database,
		RawQuery: vv.Encode(),
	}
	return u.String(), nil
}

// ParseURL converts a "file://" database URL into a parameter set.
func ParseURL(connURL string) (sqlport.Params, error) {
	u, err := url.Parse(connURL)
	if err != nil {
		return nil, err
	}

	params := sqlport.Params{
		"driver":   Adapter,
		"database": u.Host + u.Path,
	}
	if u.Opaque != "" {
		// "file::memory:" parses as an opaque reference, not a path.
		params["database"] = u.Opaque
	}

	vv, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return nil, err
	}
	if len(vv) > 0 {
		opts := make(map[string]string, len(vv))
		for k := range vv {
			opts[k] = vv.Get(k)
		}
		params["driver_options"] = opts
	}

	return params, nil
}
