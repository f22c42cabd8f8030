package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/sqlport/sqlport"
	"github.com/sqlport/sqlport/internal/sqladapter"
)

// MySQL error numbers that indicate a session-level problem rather than a
// bad statement.
// Full list: https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	errAccessDenied    = 1045
	errUnknownDatabase = 1049
	errConnRefused     = 2003
)

// database carries the engine-specific half of the client. params keeps the
// caller's original parameter set around for error reporting.
type database struct {
	params sqlport.Params
}

var _ sqladapter.PartialClient = (*database)(nil)

func (*database) DriverName() string {
	return `mysql`
}

// Setup applies the session charset, the way the native client library's
// set_charset call would.
func (d *database) Setup(ctx context.Context, sess *sql.Conn, sets *sqlport.Settings) error {
	if sets.Charset == "" {
		return nil
	}

	query := fmt.Sprintf("SET NAMES '%s'", escapeString(sets.Charset))
	if _, err := sess.ExecContext(ctx, query); err != nil {
		return &sqlport.InvalidParamsError{Key: "charset", Value: sets.Charset, Params: d.params}
	}
	return nil
}

func (*database) BeginStatements() []string {
	return []string{`SET autocommit=0`}
}

func (*database) CommitStatements() []string {
	return []string{`COMMIT`, `SET autocommit=1`}
}

func (*database) RollbackStatements() []string {
	return []string{`ROLLBACK`, `SET autocommit=1`}
}

func (*database) SchemaQuery() string {
	return `SELECT DATABASE()`
}

// LastValueQuery reads the session's auto-increment counter; the name hint
// means nothing to MySQL and is ignored. The counter is 0 before the first
// insert of the session.
func (*database) LastValueQuery(string) (string, bool) {
	return `SELECT LAST_INSERT_ID()`, true
}

// Err converts a driver error into the package taxonomy, keeping the server
// message verbatim.
func (*database) Err(query string, err error) error {
	if err == nil {
		return nil
	}

	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case errAccessDenied, errConnRefused, errUnknownDatabase:
			return &sqlport.ConnectionError{Detail: mysqlErr.Message, Cause: err}
		}
		return &sqlport.QueryError{Query: query, Message: mysqlErr.Message, Cause: err}
	}

	return &sqlport.QueryError{Query: query, Message: err.Error(), Cause: err}
}

// Escape escapes a string for a single-quoted MySQL literal, following the
// same rules as the client library's escape call.
func (*database) Escape(in string) string {
	return escapeString(in)
}

func escapeString(in string) string {
	out := make([]byte, 0, len(in)*2)
	for i := 0; i < len(in); i++ {
		c := in[i]
		switch c {
		case 0x00:
			out = append(out, '\\', '0')
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			out = append(out, '\\', 'r')
		case 0x1a:
			out = append(out, '\\', 'Z')
		case '\'':
			out = append(out, '\\', '\'')
		case '"':
			out = append(out, '\\', '"')
		case '\\':
			out = append(out, '\\', '\\')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
