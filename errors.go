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
	"fmt"
	"sort"
	"strings"
)

// Error messages
var (
	ErrAlreadyInTransaction = errors.New(`already within a transaction`)
	ErrConnectionFailed     = errors.New(`connection error`)
	ErrInvalidParams        = errors.New(`invalid connection parameters`)
	ErrInvalidQuery         = errors.New(`invalid query`)
	ErrMissingAdapterName   = errors.New(`missing adapter name`)
	ErrNoMoreRows           = errors.New(`no more rows in this result set`)
	ErrNotConnected         = errors.New(`not connected to a database`)
	ErrNotInTransaction     = errors.New(`not within a transaction`)
	ErrSocketOrHost         = errors.New(`you may connect either to a UNIX socket or a TCP address, but not both`)
	ErrUnknownAdapter       = errors.New(`unknown adapter`)
)

// InvalidParamsError is returned when a parameter set cannot be folded into a
// canonical connection descriptor, or when the native client rejects a
// session configuration step derived from a parameter. It carries the
// offending key along with the full parameter set.
type InvalidParamsError struct {
	// Key is the parameter that could not be accepted.
	Key string
	// Value is the value supplied for Key.
	Value interface{}
	// Params is the complete parameter set that was being normalized.
	Params Params
}

func (e *InvalidParamsError) Error() string {
	return fmt.Sprintf("invalid connection parameter %q (value: %v), given: %s", e.Key, e.Value, e.Params.keys())
}

func (e *InvalidParamsError) Unwrap() error {
	return ErrInvalidParams
}

// ConnectionError is returned when the native client fails to establish or
// configure a session. The underlying engine error, when the client produced
// one, is kept as the cause.
type ConnectionError struct {
	// Detail holds the engine error text, verbatim, when available.
	Detail string
	// Cause is the native client error.
	Cause error
}

func (e *ConnectionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("connection error: %s", e.Detail)
	}
	return "connection error"
}

func (e *ConnectionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrConnectionFailed}
	}
	return []error{ErrConnectionFailed, e.Cause}
}

// QueryError is returned when the native client rejects a statement. Message
// holds the engine's error text verbatim.
type QueryError struct {
	// Query is the statement that was rejected.
	Query string
	// Message is the native error message, untouched.
	Message string
	// Cause is the native client error.
	Cause error
}

func (e *QueryError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("invalid query: %s", e.Message)
	}
	return "invalid query"
}

func (e *QueryError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrInvalidQuery}
	}
	return []error{ErrInvalidQuery, e.Cause}
}

func (p Params) keys() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
