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
	"net"
	"strconv"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/sqlport/sqlport"
)

// DSN renders the canonical descriptor into a go-sql-driver DSN. The session
// charset is deliberately left out of it: the adapter applies it as a
// post-connect step so that a charset the server refuses is reported against
// the parameter that caused it.
func (d *database) DSN(sets *sqlport.Settings) (string, error) {
	cfg := gomysql.NewConfig()

	cfg.User = sets.User
	cfg.Passwd = sets.Password
	cfg.DBName = sets.Database

	switch {
	case sets.Socket != "" && sets.Host != "":
		return "", sqlport.ErrSocketOrHost
	case sets.Socket != "":
		cfg.Net = "unix"
		cfg.Addr = sets.Socket
	default:
		cfg.Net = "tcp"
		host := sets.Host
		if host == "" {
			host = "127.0.0.1"
		}
		if sets.Port > 0 {
			cfg.Addr = net.JoinHostPort(host, strconv.Itoa(sets.Port))
		} else {
			// The driver fills in the default port.
			cfg.Addr = host
		}
	}

	if len(sets.Options) > 0 {
		cfg.Params = make(map[string]string, len(sets.Options))
		for k, v := range sets.Options {
			cfg.Params[k] = v
		}
	}

	return cfg.FormatDSN(), nil
}

// ParseURL converts a go-sql-driver DSN, like
// "user:pass@tcp(10.0.0.11:3306)/mydb", into a parameter set.
func ParseURL(dsn string) (sqlport.Params, error) {
	cfg, err := gomysql.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	params := sqlport.Params{"driver": Adapter}

	if cfg.User != "" {
		params["username"] = cfg.User
	}
	if cfg.Passwd != "" {
		params["password"] = cfg.Passwd
	}
	if cfg.DBName != "" {
		params["database"] = cfg.DBName
	}

	switch cfg.Net {
	case "unix":
		params["socket"] = cfg.Addr
	default:
		host, port, err := net.SplitHostPort(cfg.Addr)
		if err != nil {
			params["host"] = cfg.Addr
			break
		}
		params["host"] = host
		if n, err := strconv.Atoi(port); err == nil {
			params["port"] = n
		}
	}

	if len(cfg.Params) > 0 {
		opts := make(map[string]string, len(cfg.Params))
		for k, v := range cfg.Params {
			opts[k] = v
		}
		params["driver_options"] = opts
	}

	return params, nil
}
