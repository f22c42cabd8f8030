package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/sqlport/sqlport"
	"github.com/sqlport/sqlport/internal/sqladapter"
)

// database carries the engine-specific half of the client. params keeps the
// caller's original parameter set around for error reporting.
type database struct {
	params sqlport.Params
}

var _ sqladapter.PartialClient = (*database)(nil)

func (*database) DriverName() string {
	return `sqlite3`
}

// Setup is a no-op. The engine stores text as UTF-8 and a session charset
// does not apply; pragmas travel as DSN options instead.
func (*database) Setup(context.Context, *sql.Conn, *sqlport.Settings) error {
	return nil
}

func (*database) BeginStatements() []string {
	return []string{`BEGIN`}
}

func (*database) CommitStatements() []string {
	return []string{`COMMIT`}
}

func (*database) RollbackStatements() []string {
	return []string{`ROLLBACK`}
}

// SchemaQuery reads the name of the primary attached database, "main"
// unless the session renamed it.
func (*database) SchemaQuery() string {
	return `SELECT name FROM pragma_database_list() WHERE seq = 0`
}

// LastValueQuery reads the session's rowid counter; the name hint means
// nothing to SQLite and is ignored. The counter is 0 before the first
// insert of the session.
func (*database) LastValueQuery(string) (string, bool) {
	return `SELECT last_insert_rowid()`, true
}

// Err converts a driver error into the package taxonomy, keeping the engine
// message verbatim.
func (*database) Err(query string, err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrCantOpen, sqlite3.ErrNotADB, sqlite3.ErrAuth:
			return &sqlport.ConnectionError{Detail: sqliteErr.Error(), Cause: err}
		}
		return &sqlport.QueryError{Query: query, Message: sqliteErr.Error(), Cause: err}
	}

	return &sqlport.QueryError{Query: query, Message: err.Error(), Cause: err}
}

// Escape escapes a string for a single-quoted literal, doubling quote
// characters the way the engine expects.
func (*database) Escape(in string) string {
	return strings.ReplaceAll(in, `'`, `''`)
}
