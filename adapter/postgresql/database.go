package postgresql

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/sqlport/sqlport"
	"github.com/sqlport/sqlport/internal/sqladapter"
)

// SQLSTATE classes that indicate a session-level problem rather than a bad
// statement.
// Full list: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	classConnectionException  = "08"
	classInvalidAuthorization = "28"
	classInvalidCatalogName   = "3D"
)

// database implements the engine-specific client on a native pgx session,
// driving the wire protocol in simple-query mode the way the native client
// library does. params keeps the caller's original parameter set around for
// error reporting.
type database struct {
	params sqlport.Params
	conn   *pgx.Conn
}

var _ sqladapter.Client = (*database)(nil)

func (d *database) Connect(ctx context.Context, sets *sqlport.Settings) error {
	conninfo, err := d.ConnInfo(sets)
	if err != nil {
		return err
	}

	cfg, err := pgx.ParseConfig(conninfo)
	if err != nil {
		return &sqlport.ConnectionError{Detail: err.Error(), Cause: err}
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		detail := err.Error()
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			detail = pgErr.Message
		}
		return &sqlport.ConnectionError{Detail: detail, Cause: err}
	}

	// Apply the session charset the way the native client library's
	// set_client_encoding call would.
	if sets.Charset != "" {
		query := `SET client_encoding = ` + pq.QuoteLiteral(sets.Charset)
		if _, err := conn.PgConn().Exec(ctx, query).ReadAll(); err != nil {
			_ = conn.Close(ctx)
			return &sqlport.InvalidParamsError{Key: "charset", Value: sets.Charset, Params: d.params}
		}
	}

	d.conn = conn
	return nil
}

// Exec runs query in simple-query mode and buffers everything the server
// sends back. Several statements can ride in one string; the last result is
// the one reported, matching what the native client library returns.
func (d *database) Exec(ctx context.Context, query string) (interface{}, bool, error) {
	results, err := d.conn.PgConn().Exec(ctx, query).ReadAll()
	if err != nil {
		return nil, false, d.err(query, err)
	}
	if len(results) == 0 {
		// An empty statement produces no result at all.
		return nil, false, nil
	}
	return results[len(results)-1], true, nil
}

func (d *database) Begin(ctx context.Context) error {
	return d.run(ctx, `BEGIN`)
}

func (d *database) Commit(ctx context.Context) error {
	return d.run(ctx, `COMMIT`)
}

func (d *database) Rollback(ctx context.Context) error {
	return d.run(ctx, `ROLLBACK`)
}

func (d *database) run(ctx context.Context, query string) error {
	if _, err := d.conn.PgConn().Exec(ctx, query).ReadAll(); err != nil {
		return d.err(query, err)
	}
	return nil
}

func (d *database) CurrentSchema(ctx context.Context) (string, error) {
	query := `SELECT CURRENT_SCHEMA`
	results, err := d.conn.PgConn().Exec(ctx, query).ReadAll()
	if err != nil {
		return "", d.err(query, err)
	}
	// A NULL schema, possible when the search path names no existing
	// schema, reads as "".
	value, _ := firstValue(results)
	return string(value), nil
}

// currvalQuery builds the CURRVAL probe for a sequence, quoting the name as
// a string literal so that arbitrary sequence names ride safely.
func currvalQuery(name string) string {
	return `SELECT CURRVAL(` + pq.QuoteLiteral(name) + `)`
}

// LastValue reads the current value of the named sequence with CURRVAL. The
// engine keeps no session counter of its own, so the name hint is required;
// an empty hint reports 0 without querying.
func (d *database) LastValue(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, nil
	}

	query := currvalQuery(name)
	results, err := d.conn.PgConn().Exec(ctx, query).ReadAll()
	if err != nil {
		return 0, d.err(query, err)
	}

	value, ok := firstValue(results)
	if !ok || value == nil {
		return 0, nil
	}
	return strconv.ParseInt(string(value), 10, 64)
}

// Escape escapes a string for a single-quoted literal, doubling quote
// characters the way the server expects with standard conforming strings.
func (*database) Escape(in string) string {
	return strings.ReplaceAll(in, `'`, `''`)
}

func (d *database) Raw() interface{} {
	if d.conn == nil || d.conn.IsClosed() {
		return nil
	}
	return d.conn
}

func (d *database) Close() error {
	defer func() {
		d.conn = nil
	}()
	if d.conn == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqlport.DefaultConnectTimeout)
	defer cancel()
	return d.conn.Close(ctx)
}

// err converts a driver error into the package taxonomy, keeping the server
// message verbatim.
func (d *database) err(query string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, classConnectionException),
			strings.HasPrefix(pgErr.Code, classInvalidAuthorization),
			strings.HasPrefix(pgErr.Code, classInvalidCatalogName):
			return &sqlport.ConnectionError{Detail: pgErr.Message, Cause: err}
		}
		return &sqlport.QueryError{Query: query, Message: pgErr.Message, Cause: err}
	}

	return &sqlport.QueryError{Query: query, Message: err.Error(), Cause: err}
}

// firstValue digs the first column of the first row out of a result batch.
func firstValue(results []*pgconn.Result) ([]byte, bool) {
	for _, res := range results {
		for _, row := range res.Rows {
			if len(row) > 0 {
				return row[0], true
			}
		}
	}
	return nil, false
}
