package sqladapter

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sqlport/sqlport"
)

// PartialClient supplies the engine-specific pieces a database/sql backed
// client needs: how to build the DSN, which statements drive transactions
// and how to translate native errors.
type PartialClient interface {
	// DriverName names the database/sql driver to open.
	DriverName() string

	// DSN renders the canonical descriptor into the driver's DSN form.
	// Descriptor combinations the engine cannot express come back as
	// *sqlport.InvalidParamsError.
	DSN(sets *sqlport.Settings) (string, error)

	// Setup runs right after the session is pinned, for configuration steps
	// such as applying the session charset. A step the engine rejects comes
	// back as *sqlport.InvalidParamsError.
	Setup(ctx context.Context, sess *sql.Conn, sets *sqlport.Settings) error

	// BeginStatements, CommitStatements and RollbackStatements list the
	// statements that switch the session out of and back into autocommit
	// mode. They run in order; the first failure aborts the sequence.
	BeginStatements() []string
	CommitStatements() []string
	RollbackStatements() []string

	// SchemaQuery is the single-scalar query reporting the current schema.
	SchemaQuery() string

	// LastValueQuery is the single-scalar query reporting the last
	// generated identifier, given the caller's name hint. Returning false
	// skips querying altogether.
	LastValueQuery(name string) (string, bool)

	// Escape escapes in for embedding in a single-quoted SQL literal.
	Escape(in string) string

	// Err translates a native statement error into the package taxonomy.
	Err(query string, err error) error
}

// SQLClient implements Client for engines spoken to through database/sql. It
// pins a single *sql.Conn, so session state (autocommit mode, tracked
// identifiers, temporary tables) stays on one wire connection.
type SQLClient struct {
	partial PartialClient

	db   *sql.DB
	sess *sql.Conn
}

var _ Client = (*SQLClient)(nil)

// NewSQLClient builds an unconnected SQLClient around the engine partial.
func NewSQLClient(partial PartialClient) *SQLClient {
	return &SQLClient{partial: partial}
}

// BindSQLClient pins a session from an already-open *sql.DB. The client owns
// the handle from here on.
func BindSQLClient(partial PartialClient, db *sql.DB) (*SQLClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), sqlport.DefaultConnectTimeout)
	defer cancel()

	sess, err := db.Conn(ctx)
	if err != nil {
		return nil, &sqlport.ConnectionError{Detail: err.Error(), Cause: err}
	}
	return &SQLClient{partial: partial, db: db, sess: sess}, nil
}

func (c *SQLClient) Connect(ctx context.Context, sets *sqlport.Settings) error {
	dsn, err := c.partial.DSN(sets)
	if err != nil {
		return err
	}

	db, err := sql.Open(c.partial.DriverName(), dsn)
	if err != nil {
		return &sqlport.ConnectionError{Detail: err.Error(), Cause: err}
	}

	// One session, no pool.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	sess, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return &sqlport.ConnectionError{Detail: err.Error(), Cause: err}
	}

	if err := c.partial.Setup(ctx, sess, sets); err != nil {
		sess.Close()
		db.Close()
		return err
	}

	c.db, c.sess = db, sess
	return nil
}

func (c *SQLClient) Exec(ctx context.Context, query string) (interface{}, bool, error) {
	rows, err := c.sess.QueryContext(ctx, query)
	if err != nil {
		return nil, false, c.partial.Err(query, err)
	}

	// database/sql surfaces non-SELECT statements as row sets with no
	// columns; those are plain-success statements.
	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, false, c.partial.Err(query, err)
	}
	if len(columns) == 0 {
		rows.Close()
		return nil, false, nil
	}
	return rows, true, nil
}

func (c *SQLClient) execAll(ctx context.Context, statements []string) error {
	for _, query := range statements {
		if _, err := c.sess.ExecContext(ctx, query); err != nil {
			return c.partial.Err(query, err)
		}
	}
	return nil
}

func (c *SQLClient) Begin(ctx context.Context) error {
	return c.execAll(ctx, c.partial.BeginStatements())
}

func (c *SQLClient) Commit(ctx context.Context) error {
	return c.execAll(ctx, c.partial.CommitStatements())
}

func (c *SQLClient) Rollback(ctx context.Context) error {
	return c.execAll(ctx, c.partial.RollbackStatements())
}

func (c *SQLClient) CurrentSchema(ctx context.Context) (string, error) {
	query := c.partial.SchemaQuery()

	var schema sql.NullString
	if err := c.sess.QueryRowContext(ctx, query).Scan(&schema); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", c.partial.Err(query, err)
	}
	return schema.String, nil
}

func (c *SQLClient) LastValue(ctx context.Context, name string) (int64, error) {
	query, ok := c.partial.LastValueQuery(name)
	if !ok {
		return 0, nil
	}

	var value sql.NullInt64
	if err := c.sess.QueryRowContext(ctx, query).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, c.partial.Err(query, err)
	}
	return value.Int64, nil
}

func (c *SQLClient) Escape(in string) string {
	return c.partial.Escape(in)
}

func (c *SQLClient) Raw() interface{} {
	if c.sess == nil {
		return nil
	}
	return c.sess
}

func (c *SQLClient) Close() error {
	defer func() {
		c.sess = nil
		c.db = nil
	}()

	if c.sess != nil {
		c.sess.Close()
	}
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
