package sqladapter

import (
	"context"

	"github.com/sqlport/sqlport"
)

// Client is the set of native-driver primitives an adapter contributes: how
// to dial, run, escape and tear down one session of its engine. The shared
// Connection logic is written against this interface, never against a
// concrete driver type.
type Client interface {
	// Connect establishes the native session described by sets. Failures
	// come back as *sqlport.ConnectionError, or as
	// *sqlport.InvalidParamsError when the engine rejects a session
	// configuration step derived from a parameter.
	Connect(ctx context.Context, sets *sqlport.Settings) error

	// Exec runs one verbatim statement. When the engine hands back a
	// dedicated result handle, Exec returns it with ok true. Engines that
	// report plain success for non-SELECT statements return ok false, and
	// the caller substitutes the live session handle. Rejected statements
	// come back as *sqlport.QueryError.
	Exec(ctx context.Context, query string) (result interface{}, ok bool, err error)

	// Begin, Commit and Rollback drive the engine's own autocommit and
	// transaction primitives.
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// CurrentSchema reports the schema or database the session is bound to,
	// "" when the engine yields none.
	CurrentSchema(ctx context.Context) (string, error)

	// LastValue retrieves the last generated identifier visible to the
	// session. Engines with session-tracked counters ignore name.
	LastValue(ctx context.Context, name string) (int64, error)

	// Escape escapes in for embedding in a single-quoted SQL literal.
	Escape(in string) string

	// Raw returns the native session handle, nil when no session is
	// established.
	Raw() interface{}

	// Close tears the native session down and drops the handle.
	Close() error
}
