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
	"context"
	"time"
)

// DefaultConnectTimeout bounds the native dial whenever the context handed
// to a connecting operation carries no deadline of its own.
const DefaultConnectTimeout = time.Second * 5

// Connection drives a single native database session, whatever the engine.
//
// Connections are lazy: operations that need a live session (Exec, Begin,
// Commit, CurrentSchema, LastGeneratedValue) establish one on first use, and
// exactly one native dial happens per Connection until Disconnect. A
// Connection holds one session and no pool; it is not safe for concurrent
// use without external synchronization.
type Connection interface {
	// Connect establishes the native session described by Settings. It is a
	// no-op when the session is already established.
	Connect(ctx context.Context) error

	// IsConnected reports whether the Connection currently holds a native
	// session handle.
	IsConnected() bool

	// Disconnect closes the native session and clears the internal handle,
	// whatever the engine, so that a later Connect can establish a fresh
	// session. Disconnecting an unconnected Connection is a no-op.
	Disconnect() error

	// Exec hands a statement to the native client verbatim: no translation,
	// no placeholder binding. A statement the engine rejects comes back as a
	// *QueryError carrying the native message; a successful statement is
	// normalized through the Connection's ResultFactory.
	Exec(ctx context.Context, query string) (Result, error)

	// Begin puts the session in non-autocommit mode using the engine's own
	// primitive and marks the Connection as within a transaction. It fails
	// with ErrAlreadyInTransaction when a transaction is already open.
	Begin(ctx context.Context) error

	// Commit commits the open transaction, connecting first if needed. The
	// transaction mark is cleared only when the native commit succeeds.
	Commit(ctx context.Context) error

	// Rollback aborts the open transaction. It fails with ErrNotConnected on
	// an unconnected Connection and with ErrNotInTransaction when no
	// transaction is open; the connection check takes precedence.
	Rollback(ctx context.Context) error

	// InTransaction reports whether a transaction is open, which is the case
	// strictly between a successful Begin and a successful Commit or
	// Rollback.
	InTransaction() bool

	// CurrentSchema reports the schema or database the session is bound to.
	// It returns "" without error when the engine yields no row or a null
	// value for it.
	CurrentSchema(ctx context.Context) (string, error)

	// LastGeneratedValue retrieves the last engine-generated identifier
	// visible to this session. Engines with session-tracked auto-increment
	// counters (MySQL, SQLite, SQL Server) ignore name; PostgreSQL requires
	// name as a sequence name and returns 0 without querying when it is
	// empty.
	LastGeneratedValue(ctx context.Context, name string) (int64, error)

	// SetResultFactory replaces the factory Exec normalizes results through.
	// Passing nil restores the adapter's default factory.
	SetResultFactory(ResultFactory)

	// Settings returns the canonical descriptor this Connection was built
	// from.
	Settings() *Settings

	// Driver returns the native session handle (an engine-specific type,
	// e.g. *sql.Conn or *pgx.Conn), or nil when unconnected.
	Driver() interface{}
}
