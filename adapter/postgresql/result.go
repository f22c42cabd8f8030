package postgresql

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sqlport/sqlport"
)

// Result is what the default factory produces: a cursor over one statement's
// buffered outcome. The server sends row values in text format; Scan
// converts them on the way out.
type Result struct {
	res *pgconn.Result
	row int
}

var _ sqlport.Rows = (*Result)(nil)

func (r *Result) Next() bool {
	if r.res == nil || r.row >= len(r.res.Rows) {
		return false
	}
	r.row++
	return true
}

func (r *Result) Scan(dest ...interface{}) error {
	if r.res == nil || r.row == 0 || r.row > len(r.res.Rows) {
		return sqlport.ErrNoMoreRows
	}

	row := r.res.Rows[r.row-1]
	if len(dest) != len(row) {
		return fmt.Errorf("expected %d destination arguments in Scan, got %d", len(row), len(dest))
	}
	for i, value := range row {
		if err := assign(dest[i], value); err != nil {
			return err
		}
	}
	return nil
}

func (r *Result) Columns() ([]string, error) {
	if r.res == nil {
		return nil, nil
	}
	cols := make([]string, len(r.res.FieldDescriptions))
	for i, fd := range r.res.FieldDescriptions {
		cols[i] = fd.Name
	}
	return cols, nil
}

// Close is a no-op; the outcome is fully buffered.
func (r *Result) Close() error {
	return nil
}

func (r *Result) Err() error {
	if r.res == nil {
		return nil
	}
	return r.res.Err
}

// RowsAffected reports the statement's command tag count. Unlike the
// session counters of other engines, it belongs to this result and stays
// valid after further statements run.
func (r *Result) RowsAffected() int64 {
	if r.res == nil {
		return 0
	}
	return r.res.CommandTag.RowsAffected()
}

// assign converts one text-format value into dest. NULL arrives as a nil
// byte slice.
func assign(dest interface{}, value []byte) error {
	if scanner, ok := dest.(sql.Scanner); ok {
		if value == nil {
			return scanner.Scan(nil)
		}
		return scanner.Scan(append([]byte(nil), value...))
	}

	switch d := dest.(type) {
	case *interface{}:
		if value == nil {
			*d = nil
			return nil
		}
		*d = string(value)
	case *[]byte:
		if value == nil {
			*d = nil
			return nil
		}
		*d = append([]byte(nil), value...)
	case *string:
		if value == nil {
			return fmt.Errorf("cannot scan NULL into %T", dest)
		}
		*d = string(value)
	case *int:
		if value == nil {
			return fmt.Errorf("cannot scan NULL into %T", dest)
		}
		n, err := strconv.Atoi(string(value))
		if err != nil {
			return err
		}
		*d = n
	case *int64:
		if value == nil {
			return fmt.Errorf("cannot scan NULL into %T", dest)
		}
		n, err := strconv.ParseInt(string(value), 10, 64)
		if err != nil {
			return err
		}
		*d = n
	case *uint64:
		if value == nil {
			return fmt.Errorf("cannot scan NULL into %T", dest)
		}
		n, err := strconv.ParseUint(string(value), 10, 64)
		if err != nil {
			return err
		}
		*d = n
	case *float64:
		if value == nil {
			return fmt.Errorf("cannot scan NULL into %T", dest)
		}
		n, err := strconv.ParseFloat(string(value), 64)
		if err != nil {
			return err
		}
		*d = n
	case *bool:
		if value == nil {
			return fmt.Errorf("cannot scan NULL into %T", dest)
		}
		b, err := strconv.ParseBool(string(value))
		if err != nil {
			return err
		}
		*d = b
	default:
		return fmt.Errorf("unsupported Scan destination type %T", dest)
	}
	return nil
}

// NewResultFactory returns the factory Exec normalizes results through
// unless the caller installs another one.
func NewResultFactory() sqlport.ResultFactory {
	return sqlport.ResultFactoryFunc(func(raw interface{}) (sqlport.Result, error) {
		switch t := raw.(type) {
		case *pgconn.Result:
			return &Result{res: t}, nil
		case *pgx.Conn:
			// Plain success with nothing to read.
			return &Result{}, nil
		}
		return nil, fmt.Errorf("unexpected result handle of type %T", raw)
	})
}
