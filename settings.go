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
	"sort"
	"strings"
	"unicode"
)

// Settings is the canonical connection descriptor every adapter consumes.
// Not all fields are mandatory; a skipped field makes the adapter fall back
// to the engine default. Refer to the specific adapter to see which fields
// it requires.
//
// Example:
//
//	sqlport.Settings{
//		Host:     "127.0.0.1",
//		Database: "tests",
//		User:     "john",
//		Password: "doe",
//	}
type Settings struct {
	// Database server hostname or IP. Ignored when connecting through a UNIX
	// socket or when the engine does not speak to a host (SQLite).
	Host string
	// Database server port. Leave as zero to use the engine's default port.
	Port int
	// Name of the database. File-backed engines (SQLite) take a filename
	// here instead.
	Database string
	// Username for authentication, if required.
	User string
	// Password for authentication, if required.
	Password string
	// Path to a UNIX socket file. Leave blank to connect over TCP.
	Socket string
	// Session character set. Leave blank to keep the engine default. Engines
	// apply it as a configuration step right after connecting, so a charset
	// the server refuses surfaces as an *InvalidParamsError.
	Charset string
	// Options collects the entries of the driver_options parameter. How they
	// reach the engine is adapter-specific: the PostgreSQL adapter renders
	// them into a command-line option string (see OptionString), the others
	// fold them into the connect request.
	Options map[string]string
}

// OptionString renders Options as a POSIX-style option string: single-letter
// names become short options (-n value), longer names become long options
// (--name="value"), and an option with an empty value becomes a bare flag.
// Values are double-quoted with backslashes and quote characters escaped, so
// a shell-style parser reads back exactly the value that went in. Names are
// emitted in sorted order to keep the result stable.
func (sets *Settings) OptionString() string {
	if len(sets.Options) == 0 {
		return ""
	}

	names := make([]string, 0, len(sets.Options))
	for name := range sets.Options {
		names = append(names, name)
	}
	sort.Strings(names)

	opts := make([]string, 0, len(names))
	for _, name := range names {
		value := sets.Options[name]
		switch {
		case value == "" && len(name) == 1:
			opts = append(opts, "-"+name)
		case value == "":
			opts = append(opts, "--"+name)
		case len(name) == 1:
			opts = append(opts, "-"+name+" "+quoteOptionValue(value))
		default:
			opts = append(opts, "--"+name+"="+quoteOptionValue(value))
		}
	}

	return strings.Join(opts, " ")
}

var optionValueEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quoteOptionValue(value string) string {
	return `"` + optionValueEscaper.Replace(value) + `"`
}

// ParseOptionString reads a POSIX-style option string back into an option
// map. It understands the forms OptionString produces: bare flags ("-n",
// "--name") and valued options ("-n value", `--name="value"`), with
// double-quoted values using backslash escapes.
func ParseOptionString(s string) (map[string]string, error) {
	opts := map[string]string{}

	rs := []rune(s)
	for i := 0; i < len(rs); {
		for i < len(rs) && unicode.IsSpace(rs[i]) {
			i++
		}
		if i >= len(rs) {
			break
		}
		if rs[i] != '-' {
			return nil, fmt.Errorf("unexpected character %q in option string", rs[i])
		}
		i++
		long := false
		if i < len(rs) && rs[i] == '-' {
			long = true
			i++
		}
		start := i
		for i < len(rs) && !unicode.IsSpace(rs[i]) && rs[i] != '=' {
			i++
		}
		name := string(rs[start:i])
		if name == "" {
			return nil, fmt.Errorf("missing option name in option string")
		}

		if long {
			if i < len(rs) && rs[i] == '=' {
				value, next, err := scanOptionValue(rs, i+1)
				if err != nil {
					return nil, err
				}
				opts[name], i = value, next
				continue
			}
			opts[name] = ""
			continue
		}

		// A short option takes the next token as its value, unless
		// another option follows.
		j := i
		for j < len(rs) && unicode.IsSpace(rs[j]) {
			j++
		}
		if j >= len(rs) || rs[j] == '-' {
			opts[name], i = "", j
			continue
		}
		value, next, err := scanOptionValue(rs, j)
		if err != nil {
			return nil, err
		}
		opts[name], i = value, next
	}

	return opts, nil
}

func scanOptionValue(rs []rune, i int) (string, int, error) {
	if i < len(rs) && rs[i] == '"' {
		i++
		value := []rune{}
		for i < len(rs) {
			switch rs[i] {
			case '\\':
				i++
				if i >= len(rs) {
					return "", 0, fmt.Errorf("missing character after backslash in option string")
				}
				value = append(value, rs[i])
				i++
			case '"':
				return string(value), i + 1, nil
			default:
				value = append(value, rs[i])
				i++
			}
		}
		return "", 0, fmt.Errorf("unterminated quoted value in option string")
	}
	start := i
	for i < len(rs) && !unicode.IsSpace(rs[i]) {
		i++
	}
	return string(rs[start:i]), i, nil
}
