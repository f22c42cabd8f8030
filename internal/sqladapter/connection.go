package sqladapter

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sqlport/sqlport"
)

// Connection implements sqlport.Connection on top of a Client. It owns the
// engine-neutral parts of the contract: the lazy connect lifecycle, the
// transaction mark and the result-factory dispatch.
type Connection struct {
	client Client
	sets   *sqlport.Settings

	defaultFactory sqlport.ResultFactory
	factory        sqlport.ResultFactory

	sessID uint64
	txID   uint64

	connectMu sync.Mutex
}

var _ sqlport.Connection = (*Connection)(nil)

// NewConnection wires a Client into the shared session logic. The given
// factory becomes the Connection's default result factory.
func NewConnection(client Client, sets *sqlport.Settings, factory sqlport.ResultFactory) *Connection {
	return &Connection{
		client:         client,
		sets:           sets,
		defaultFactory: factory,
		factory:        factory,
	}
}

// Bind adopts a native session the caller established through other means.
// The Connection starts out connected and owns the session from here on.
func (c *Connection) Bind() error {
	if c.client.Raw() == nil {
		return sqlport.ErrNotConnected
	}
	atomic.StoreUint64(&c.sessID, newSessionID())
	return nil
}

func (c *Connection) Connect(ctx context.Context) error {
	return c.connect(ctx)
}

func (c *Connection) connect(ctx context.Context) (err error) {
	if c.IsConnected() {
		return nil
	}

	c.connectMu.Lock()
	defer c.connectMu.Unlock()

	if c.IsConnected() {
		return nil
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, sqlport.DefaultConnectTimeout)
		defer cancel()
	}

	if sqlport.LC().Enabled(sqlport.LogLevelDebug) {
		defer func(start time.Time) {
			sqlport.Log(&sqlport.QueryStatus{
				SessID: atomic.LoadUint64(&c.sessID),
				Query:  "-- connect",
				Err:    err,
				Start:  start,
				End:    time.Now(),
			})
		}(time.Now())
	}

	if err = c.client.Connect(ctx, c.sets); err != nil {
		return err
	}

	atomic.StoreUint64(&c.sessID, newSessionID())
	return nil
}

// IsConnected reports whether the Connection holds a live native session
// handle.
func (c *Connection) IsConnected() bool {
	return atomic.LoadUint64(&c.sessID) != 0 && c.client.Raw() != nil
}

// Disconnect closes the native session. The internal handle is cleared no
// matter how the close goes, so a later Connect starts from scratch.
func (c *Connection) Disconnect() error {
	defer func() {
		atomic.StoreUint64(&c.sessID, 0)
		atomic.StoreUint64(&c.txID, 0)
	}()

	if !c.IsConnected() {
		return nil
	}
	return c.client.Close()
}

func (c *Connection) Exec(ctx context.Context, query string) (res sqlport.Result, err error) {
	if err = c.connect(ctx); err != nil {
		return nil, err
	}

	if sqlport.LC().Enabled(sqlport.LogLevelDebug) {
		defer func(start time.Time) {
			sqlport.Log(&sqlport.QueryStatus{
				SessID: atomic.LoadUint64(&c.sessID),
				TxID:   atomic.LoadUint64(&c.txID),
				Query:  query,
				Err:    err,
				Start:  start,
				End:    time.Now(),
			})
		}(time.Now())
	}

	raw, ok, err := c.client.Exec(ctx, query)
	if err != nil {
		return nil, err
	}
	if !ok {
		// The engine reported plain success with no result handle; give the
		// factory the session handle instead.
		raw = c.client.Raw()
	}
	return c.factory.CreateResult(raw)
}

func (c *Connection) Begin(ctx context.Context) error {
	if err := c.connect(ctx); err != nil {
		return err
	}
	if c.InTransaction() {
		return sqlport.ErrAlreadyInTransaction
	}
	if err := c.client.Begin(ctx); err != nil {
		return err
	}
	atomic.StoreUint64(&c.txID, newTxID())
	return nil
}

func (c *Connection) Commit(ctx context.Context) error {
	if err := c.connect(ctx); err != nil {
		return err
	}
	if err := c.client.Commit(ctx); err != nil {
		// The transaction mark stays set; the caller decides whether to
		// retry or roll back.
		return err
	}
	atomic.StoreUint64(&c.txID, 0)
	return nil
}

func (c *Connection) Rollback(ctx context.Context) error {
	if !c.IsConnected() {
		return sqlport.ErrNotConnected
	}
	if !c.InTransaction() {
		return sqlport.ErrNotInTransaction
	}
	if err := c.client.Rollback(ctx); err != nil {
		return err
	}
	atomic.StoreUint64(&c.txID, 0)
	return nil
}

// InTransaction reports whether the session sits between a successful Begin
// and a successful Commit or Rollback.
func (c *Connection) InTransaction() bool {
	return atomic.LoadUint64(&c.txID) != 0
}

func (c *Connection) CurrentSchema(ctx context.Context) (string, error) {
	if err := c.connect(ctx); err != nil {
		return "", err
	}
	return c.client.CurrentSchema(ctx)
}

func (c *Connection) LastGeneratedValue(ctx context.Context, name string) (int64, error) {
	if err := c.connect(ctx); err != nil {
		return 0, err
	}
	return c.client.LastValue(ctx, name)
}

// SetResultFactory replaces the factory Exec normalizes results through.
// Passing nil restores the default factory.
func (c *Connection) SetResultFactory(factory sqlport.ResultFactory) {
	if factory == nil {
		factory = c.defaultFactory
	}
	c.factory = factory
}

func (c *Connection) Settings() *sqlport.Settings {
	return c.sets
}

// Driver returns the native session handle, nil when unconnected.
func (c *Connection) Driver() interface{} {
	if atomic.LoadUint64(&c.sessID) == 0 {
		return nil
	}
	return c.client.Raw()
}

var (
	lastSessID uint64
	lastTxID   uint64
)

func newSessionID() uint64 {
	if atomic.LoadUint64(&lastSessID) == math.MaxUint64 {
		atomic.StoreUint64(&lastSessID, 1)
		return 1
	}
	return atomic.AddUint64(&lastSessID, 1)
}

func newTxID() uint64 {
	if atomic.LoadUint64(&lastTxID) == math.MaxUint64 {
		atomic.StoreUint64(&lastTxID, 1)
		return 1
	}
	return atomic.AddUint64(&lastTxID, 1)
}
