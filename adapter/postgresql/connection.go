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
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/lib/pq"

	"github.com/sqlport/sqlport"
)

// conninfoEscaper prepares a value for a single-quoted conninfo run.
var conninfoEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// conninfoValue renders one conninfo value. Anything the scanner would
// split on gets single-quoted; pgx keeps backslashed spaces in bare
// values literal, so quoting is the only spelling both parsers agree on.
func conninfoValue(in string) string {
	if in != "" && !strings.ContainsAny(in, " \t\n\r\v\f'\\") {
		return in
	}
	return "'" + conninfoEscaper.Replace(in) + "'"
}

// ConnInfo renders the canonical descriptor into a libpq-style conninfo
// string. The session charset is deliberately left out of it: the adapter
// applies it as a post-connect step so that an encoding the server refuses
// is reported against the parameter that caused it. TLS is not negotiated
// on the parameter path; sessions that need it are established by the
// caller and handed in through New.
func (d *database) ConnInfo(sets *sqlport.Settings) (string, error) {
	pairs := []string{}

	if sets.User != "" {
		pairs = append(pairs, "user="+conninfoValue(sets.User))
	}
	if sets.Password != "" {
		pairs = append(pairs, "password="+conninfoValue(sets.Password))
	}

	switch {
	case sets.Socket != "" && sets.Host != "":
		return "", sqlport.ErrSocketOrHost
	case sets.Socket != "":
		// libpq reads a host that is a path as the directory holding the
		// UNIX socket.
		pairs = append(pairs, "host="+conninfoValue(sets.Socket))
	default:
		host := sets.Host
		if host == "" {
			host = "127.0.0.1"
		}
		pairs = append(pairs, "host="+conninfoValue(host))
		if sets.Port > 0 {
			pairs = append(pairs, "port="+strconv.Itoa(sets.Port))
		}
	}

	if sets.Database != "" {
		pairs = append(pairs, "dbname="+conninfoValue(sets.Database))
	}
	if opts := sets.OptionString(); opts != "" {
		pairs = append(pairs, "options="+conninfoValue(opts))
	}

	pairs = append(pairs, "sslmode=disable")

	return strings.Join(pairs, " "), nil
}

// ParseURL converts a connection source — either a "postgres://" URL or a
// libpq-style conninfo string — into a parameter set. Keys the parameter
// form has no slot for, such as sslmode, are dropped.
func ParseURL(connURL string) (sqlport.Params, error) {
	conninfo := connURL
	if strings.HasPrefix(connURL, "postgres://") || strings.HasPrefix(connURL, "postgresql://") {
		var err error
		if conninfo, err = pq.ParseURL(connURL); err != nil {
			return nil, err
		}
	}

	vals, err := parseConnInfo(conninfo)
	if err != nil {
		return nil, err
	}

	params := sqlport.Params{"driver": Adapter}

	for key, value := range vals {
		if value == "" {
			continue
		}
		switch key {
		case "user":
			params["username"] = value
		case "password":
			params["password"] = value
		case "host":
			if strings.HasPrefix(value, "/") {
				params["socket"] = value
				continue
			}
			params["host"] = value
		case "port":
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid port %q in connection string", value)
			}
			params["port"] = n
		case "dbname":
			params["database"] = value
		case "client_encoding":
			params["charset"] = value
		case "options":
			opts, err := sqlport.ParseOptionString(value)
			if err != nil {
				return nil, err
			}
			params["driver_options"] = opts
		}
	}

	return params, nil
}

// parseConnInfo collects the key=value pairs of a conninfo string. The
// scanning rules follow conninfo_parse from libpq's fe-connect.c: keys run
// up to "=" with optional whitespace around it, values are either bare
// tokens ending at whitespace or single-quoted runs, with backslash
// escaping either way.
func parseConnInfo(conninfo string) (map[string]string, error) {
	vals := map[string]string{}
	s := &conninfoScanner{input: []rune(conninfo)}

	for {
		var key, value []rune

		r, ok := s.SkipSpaces()
		if !ok {
			break
		}

		for r != '=' {
			if unicode.IsSpace(r) {
				if r, ok = s.SkipSpaces(); !ok || r != '=' {
					return nil, fmt.Errorf("missing \"=\" after %q in connection string", string(key))
				}
				break
			}
			key = append(key, r)
			if r, ok = s.Next(); !ok {
				return nil, fmt.Errorf("missing \"=\" after %q in connection string", string(key))
			}
		}

		if r, ok = s.SkipSpaces(); !ok {
			// Nothing after the "=" reads as an empty value.
			vals[string(key)] = ""
			break
		}

		if r != '\'' {
			for !unicode.IsSpace(r) {
				if r == '\\' {
					if r, ok = s.Next(); !ok {
						return nil, fmt.Errorf("missing character after backslash in connection string")
					}
				}
				value = append(value, r)
				if r, ok = s.Next(); !ok {
					break
				}
			}
		} else {
		quoted:
			for {
				if r, ok = s.Next(); !ok {
					return nil, fmt.Errorf("unterminated quoted value in connection string")
				}
				switch r {
				case '\'':
					break quoted
				case '\\':
					r, _ = s.Next()
					fallthrough
				default:
					value = append(value, r)
				}
			}
		}

		vals[string(key)] = string(value)
	}

	return vals, nil
}

// conninfoScanner walks a conninfo string one rune at a time.
type conninfoScanner struct {
	input []rune
	pos   int
}

// Next returns the rune at the cursor and advances. It reports false once
// the input is exhausted.
func (s *conninfoScanner) Next() (rune, bool) {
	if s.pos >= len(s.input) {
		return 0, false
	}
	r := s.input[s.pos]
	s.pos++
	return r, true
}

// SkipSpaces advances past whitespace and returns the first rune after it.
func (s *conninfoScanner) SkipSpaces() (rune, bool) {
	r, ok := s.Next()
	for ok && unicode.IsSpace(r) {
		r, ok = s.Next()
	}
	return r, ok
}
