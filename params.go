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
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Params is an unordered set of loosely-named connection parameters, the form
// in which callers usually have them (a config file section, a DSN, a map
// assembled by hand). Keys are matched case-insensitively and most fields
// accept several aliases:
//
//	host      host, hostname
//	username  username, user
//	password  password, passwd, pw
//	database  database, dbname, db, schema
//	port      port
//	charset   charset
//	socket    socket
//	driver    driver (consumed by Open, ignored by adapters)
//
// The special key "driver_options" takes either a single option name or a
// map of option names to values; see Settings.Options.
type Params map[string]interface{}

var paramAliases = map[string]string{
	`host`:     `host`,
	`hostname`: `host`,

	`username`: `username`,
	`user`:     `username`,

	`password`: `password`,
	`passwd`:   `password`,
	`pw`:       `password`,

	`database`: `database`,
	`dbname`:   `database`,
	`db`:       `database`,
	`schema`:   `database`,

	`port`:    `port`,
	`charset`: `charset`,
	`socket`:  `socket`,

	`driver`:         `driver`,
	`driver_options`: `driver_options`,
}

// Parse folds a loose parameter set into its canonical Settings form. A key
// that matches no known alias, a port that is not a whole number and a
// malformed driver_options value all fail with an *InvalidParamsError that
// names the offending key.
func Parse(params Params) (*Settings, error) {
	sets := &Settings{}

	for key, value := range params {
		name, ok := paramAliases[strings.ToLower(key)]
		if !ok {
			return nil, &InvalidParamsError{Key: key, Value: value, Params: params}
		}

		switch name {
		case `host`:
			sets.Host = stringValue(value)
		case `username`:
			sets.User = stringValue(value)
		case `password`:
			sets.Password = stringValue(value)
		case `database`:
			sets.Database = stringValue(value)
		case `charset`:
			sets.Charset = stringValue(value)
		case `socket`:
			sets.Socket = stringValue(value)
		case `port`:
			port, err := intValue(value)
			if err != nil {
				return nil, &InvalidParamsError{Key: key, Value: value, Params: params}
			}
			sets.Port = port
		case `driver`:
			// Recognized so that the same map can be passed to Open and to an
			// adapter; the descriptor itself has no use for it.
		case `driver_options`:
			opts, err := optionsValue(value)
			if err != nil {
				return nil, &InvalidParamsError{Key: key, Value: value, Params: params}
			}
			sets.Options = opts
		}
	}

	return sets, nil
}

func stringValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprintf("%v", v)
}

func intValue(v interface{}) (int, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case int:
		return t, nil
	case int8:
		return int(t), nil
	case int16:
		return int(t), nil
	case int32:
		return int(t), nil
	case int64:
		return int(t), nil
	case uint:
		return int(t), nil
	case uint8:
		return int(t), nil
	case uint16:
		return int(t), nil
	case uint32:
		return int(t), nil
	case uint64:
		return int(t), nil
	case float32:
		return intValue(float64(t))
	case float64:
		// Config decoders hand numbers over as floats.
		if t != math.Trunc(t) {
			return 0, fmt.Errorf("%v is not a whole number", t)
		}
		return int(t), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(t))
	}
	return 0, fmt.Errorf("cannot use %T as a number", v)
}

func optionsValue(v interface{}) (map[string]string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case map[string]string:
		opts := make(map[string]string, len(t))
		for k, v := range t {
			opts[k] = v
		}
		return opts, nil
	case map[string]interface{}:
		opts := make(map[string]string, len(t))
		for k, v := range t {
			opts[k] = stringValue(v)
		}
		return opts, nil
	case Params:
		return optionsValue(map[string]interface{}(t))
	case string:
		// A single option with no value.
		return map[string]string{t: ""}, nil
	}
	return nil, fmt.Errorf("cannot use %T as driver options", v)
}
