package mssql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	mssqldb "github.com/denisenkom/go-mssqldb"

	"github.com/sqlport/sqlport"
	"github.com/sqlport/sqlport/internal/sqladapter"
)

// SQL Server error numbers that indicate a session-level problem rather
// than a bad statement.
// Full list: https://learn.microsoft.com/en-us/sql/relational-databases/errors-events/database-engine-events-and-errors
const (
	errCannotOpenDatabase = 4060
	errLoginFailed        = 18456
)

// database carries the engine-specific half of the client. params keeps the
// caller's original parameter set around for error reporting.
type database struct {
	params sqlport.Params
}

var _ sqladapter.PartialClient = (*database)(nil)

func (*database) DriverName() string {
	return `sqlserver`
}

// Setup is a no-op. The engine has no session charset statement; collations
// are fixed per database.
func (*database) Setup(context.Context, *sql.Conn, *sqlport.Settings) error {
	return nil
}

func (*database) BeginStatements() []string {
	return []string{`BEGIN TRANSACTION`}
}

func (*database) CommitStatements() []string {
	return []string{`COMMIT TRANSACTION`}
}

func (*database) RollbackStatements() []string {
	return []string{`ROLLBACK TRANSACTION`}
}

func (*database) SchemaQuery() string {
	return `SELECT SCHEMA_NAME()`
}

// LastValueQuery reads the session's identity counter; the name hint means
// nothing to SQL Server and is ignored. The counter is NULL before the
// first insert of the session, which reads as 0.
func (*database) LastValueQuery(string) (string, bool) {
	return `SELECT CONVERT(BIGINT, @@IDENTITY)`, true
}

// Err converts a driver error into the package taxonomy, keeping the server
// message verbatim.
func (*database) Err(query string, err error) error {
	if err == nil {
		return nil
	}

	var mssqlErr mssqldb.Error
	if errors.As(err, &mssqlErr) {
		switch mssqlErr.Number {
		case errCannotOpenDatabase, errLoginFailed:
			return &sqlport.ConnectionError{Detail: mssqlErr.Message, Cause: err}
		}
		return &sqlport.QueryError{Query: query, Message: mssqlErr.Message, Cause: err}
	}

	return &sqlport.QueryError{Query: query, Message: err.Error(), Cause: err}
}

// Escape escapes a string for a single-quoted literal, doubling quote
// characters the way the server expects.
func (*database) Escape(in string) string {
	return strings.ReplaceAll(in, `'`, `''`)
}
