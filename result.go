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

// Result is whatever a ResultFactory makes out of an executed statement. The
// Connection never looks inside it; the value flows straight back to the
// caller. Adapter default factories return values that satisfy Rows for
// row-bearing statements.
type Result interface{}

// ResultFactory turns the raw outcome of a statement into a Result. Exec
// invokes it exactly once per successful statement, with raw holding the
// engine's row-result handle when the statement produced one and the live
// session handle otherwise. Some native clients report plain success instead
// of a result handle for non-SELECT statements; funneling both shapes
// through the factory keeps that difference out of the caller's way.
type ResultFactory interface {
	CreateResult(raw interface{}) (Result, error)
}

// ResultFactoryFunc adapts a function to the ResultFactory interface.
type ResultFactoryFunc func(raw interface{}) (Result, error)

func (fn ResultFactoryFunc) CreateResult(raw interface{}) (Result, error) {
	return fn(raw)
}

// Rows is the iterator contract the adapters' default Results satisfy when a
// statement yields rows. It deliberately mirrors the database/sql cursor
// surface.
type Rows interface {
	// Next advances to the next row, reporting false when the set is
	// exhausted.
	Next() bool
	// Scan copies the current row's values into dest, one target per
	// column.
	Scan(dest ...interface{}) error
	// Columns returns the column names of the row set.
	Columns() ([]string, error)
	// Close releases the row set.
	Close() error
	// Err reports the error, if any, that stopped iteration.
	Err() error
}
