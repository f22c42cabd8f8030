package mssql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sqlport/sqlport"
)

// Result is what the default factory produces: a cursor over the row set for
// row-bearing statements, or a handle on the session for plain-success
// statements.
type Result struct {
	rows *sql.Rows
	sess *sql.Conn
}

var _ sqlport.Rows = (*Result)(nil)

func (r *Result) Next() bool {
	if r.rows == nil {
		return false
	}
	return r.rows.Next()
}

func (r *Result) Scan(dest ...interface{}) error {
	if r.rows == nil {
		return sqlport.ErrNoMoreRows
	}
	return r.rows.Scan(dest...)
}

func (r *Result) Columns() ([]string, error) {
	if r.rows == nil {
		return nil, nil
	}
	return r.rows.Columns()
}

func (r *Result) Close() error {
	if r.rows == nil {
		return nil
	}
	return r.rows.Close()
}

func (r *Result) Err() error {
	if r.rows == nil {
		return nil
	}
	return r.rows.Err()
}

// RowsAffected reads the session's @@ROWCOUNT counter for a plain-success
// statement. The counter belongs to the session, so it is only meaningful
// until the next statement runs. Row-bearing results report 0.
func (r *Result) RowsAffected(ctx context.Context) (int64, error) {
	if r.sess == nil {
		return 0, nil
	}
	var n int64
	if err := r.sess.QueryRowContext(ctx, `SELECT @@ROWCOUNT`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// NewResultFactory returns the factory Exec normalizes results through
// unless the caller installs another one.
func NewResultFactory() sqlport.ResultFactory {
	return sqlport.ResultFactoryFunc(func(raw interface{}) (sqlport.Result, error) {
		switch t := raw.(type) {
		case *sql.Rows:
			return &Result{rows: t}, nil
		case *sql.Conn:
			return &Result{sess: t}, nil
		}
		return nil, fmt.Errorf("unexpected result handle of type %T", raw)
	})
}
