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

package mssql

import (
	"net"
	"net/url"
	"strconv"

	"github.com/sqlport/sqlport"
)

// DSN renders the canonical descriptor into a go-mssqldb "sqlserver://"
// URL. The engine has no UNIX socket transport, so a socket parameter is
// rejected. An "instance" entry in the options selects a named instance;
// the other options ride as query parameters. The charset parameter does
// not apply to this engine; collations are fixed per database.
func (d *database) DSN(sets *sqlport.Settings) (string, error) {
	if sets.Socket != "" {
		return "", &sqlport.InvalidParamsError{Key: "socket", Value: sets.Socket, Params: d.params}
	}

	host := sets.Host
	if host == "" {
		host = "127.0.0.1"
	}
	if sets.Port > 0 {
		host = net.JoinHostPort(host, strconv.Itoa(sets.Port))
	}

	vv := url.Values{}
	for k, v := range sets.Options {
		if k == "instance" {
			continue
		}
		vv.Set(k, v)
	}
	if sets.Database != "" {
		vv.Set("database", sets.Database)
	}

	u := url.URL{
		Scheme:   "sqlserver",
		Host:     host,
		RawQuery: vv.Encode(),
	}
	u.Path = sets.Options["instance"]
	if sets.User != "" || sets.Password != "" {
		u.User = url.UserPassword(sets.User, sets.Password)
	}

	return u.String(), nil
}

// ParseURL converts a "sqlserver://" or "mssql://" URL into a parameter
// set.
func ParseURL(connURL string) (sqlport.Params, error) {
	u, err := url.Parse(connURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "sqlserver" && u.Scheme != "mssql" {
		return nil, &sqlport.InvalidParamsError{Key: "driver", Value: u.Scheme}
	}

	params := sqlport.Params{"driver": Adapter}

	if u.User != nil {
		params["username"] = u.User.Username()
		if password, ok := u.User.Password(); ok {
			params["password"] = password
		}
	}

	host, port, err := net.SplitHostPort(u.Host)
	if err != nil {
		host = u.Host
	}
	if host != "" {
		params["host"] = host
	}
	if n, err := strconv.Atoi(port); err == nil {
		params["port"] = n
	}

	opts := map[string]string{}
	if instance := u.Path; instance != "" && instance != "/" {
		opts["instance"] = instance[1:]
	}
	for k := range u.Query() {
		if k == "database" {
			params["database"] = u.Query().Get(k)
			continue
		}
		opts[k] = u.Query().Get(k)
	}
	if len(opts) > 0 {
		params["driver_options"] = opts
	}

	return params, nil
}
