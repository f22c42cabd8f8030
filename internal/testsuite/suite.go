package testsuite

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	detectrace "github.com/ipfs/go-detect-race"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/sqlport/sqlport"
)

// Helper prepares one engine for the generic connection tests. TearUp
// leaves an empty "artist" table behind, with an auto-generated id column
// and a varchar name column; everything else the suite needs goes through
// the public Connection surface.
type Helper interface {
	Adapter() string
	Params() sqlport.Params
	Connection() sqlport.Connection

	TearUp() error
	TearDown() error
}

// ConnectionTestSuite runs the behavior every adapter shares. Engine
// particulars, like DSN rendering or error numbers, stay in the adapters'
// own tests.
type ConnectionTestSuite struct {
	suite.Suite

	Helper
}

func (s *ConnectionTestSuite) BeforeTest(suiteName, testName string) {
	err := s.TearUp()
	s.Require().NoError(err)
}

func (s *ConnectionTestSuite) AfterTest(suiteName, testName string) {
	err := s.TearDown()
	s.Require().NoError(err)
}

func (s *ConnectionTestSuite) insertArtist(ctx context.Context, c sqlport.Connection, name string) {
	_, err := c.Exec(ctx, fmt.Sprintf(`INSERT INTO artist (name) VALUES ('%s')`, name))
	s.Require().NoError(err)
}

func (s *ConnectionTestSuite) countArtists(ctx context.Context, c sqlport.Connection) int {
	res, err := c.Exec(ctx, `SELECT COUNT(*) FROM artist`)
	s.Require().NoError(err)

	rows, ok := res.(sqlport.Rows)
	s.Require().True(ok)
	defer rows.Close()

	s.Require().True(rows.Next())
	var n int
	s.Require().NoError(rows.Scan(&n))
	return n
}

func (s *ConnectionTestSuite) TestConnectCycle() {
	ctx := context.Background()

	c, err := sqlport.Open(s.Params())
	s.Require().NoError(err)
	s.False(c.IsConnected())

	s.Require().NoError(c.Connect(ctx))
	s.True(c.IsConnected())
	s.NotNil(c.Driver())

	// A second Connect reuses the session.
	driver := c.Driver()
	s.Require().NoError(c.Connect(ctx))
	s.Same(driver, c.Driver())

	s.Require().NoError(c.Disconnect())
	s.False(c.IsConnected())
	s.Nil(c.Driver())

	// An explicit disconnect does not retire the Connection.
	s.Require().NoError(c.Connect(ctx))
	s.True(c.IsConnected())
	s.NoError(c.Disconnect())
}

func (s *ConnectionTestSuite) TestLazyConnectOnExec() {
	ctx := context.Background()

	c, err := sqlport.Open(s.Params())
	s.Require().NoError(err)
	s.False(c.IsConnected())

	res, err := c.Exec(ctx, `SELECT 1`)
	s.Require().NoError(err)
	s.True(c.IsConnected())
	defer func() {
		s.NoError(c.Disconnect())
	}()

	rows, ok := res.(sqlport.Rows)
	s.Require().True(ok)
	defer rows.Close()

	s.Require().True(rows.Next())
	var n int
	s.Require().NoError(rows.Scan(&n))
	s.Equal(1, n)
}

func (s *ConnectionTestSuite) TestExecRows() {
	ctx := context.Background()
	c := s.Connection()

	name := "artist-" + uuid.New().String()
	s.insertArtist(ctx, c, name)

	res, err := c.Exec(ctx, fmt.Sprintf(`SELECT name FROM artist WHERE name = '%s'`, name))
	s.Require().NoError(err)

	rows, ok := res.(sqlport.Rows)
	s.Require().True(ok)
	defer rows.Close()

	cols, err := rows.Columns()
	s.NoError(err)
	s.Equal([]string{"name"}, cols)

	names := []string{}
	for rows.Next() {
		var got string
		s.Require().NoError(rows.Scan(&got))
		names = append(names, got)
	}
	s.NoError(rows.Err())
	s.Equal([]string{name}, names)
}

func (s *ConnectionTestSuite) TestInvalidQuery() {
	ctx := context.Background()
	c := s.Connection()

	_, err := c.Exec(ctx, `SELECT nothing FROM nowhere_at_all`)
	s.Require().Error(err)
	s.ErrorIs(err, sqlport.ErrInvalidQuery)

	var queryErr *sqlport.QueryError
	s.Require().ErrorAs(err, &queryErr)
	s.NotEmpty(queryErr.Message)
	s.Equal(`SELECT nothing FROM nowhere_at_all`, queryErr.Query)
}

func (s *ConnectionTestSuite) TestTransactionCommit() {
	ctx := context.Background()
	c := s.Connection()

	before := s.countArtists(ctx, c)

	s.Require().NoError(c.Begin(ctx))
	s.True(c.InTransaction())

	s.insertArtist(ctx, c, "artist-"+uuid.New().String())

	s.Require().NoError(c.Commit(ctx))
	s.False(c.InTransaction())

	s.Equal(before+1, s.countArtists(ctx, c))
}

func (s *ConnectionTestSuite) TestTransactionRollback() {
	ctx := context.Background()
	c := s.Connection()

	before := s.countArtists(ctx, c)

	s.Require().NoError(c.Begin(ctx))
	s.insertArtist(ctx, c, "artist-"+uuid.New().String())

	s.Require().NoError(c.Rollback(ctx))
	s.False(c.InTransaction())

	s.Equal(before, s.countArtists(ctx, c))
}

func (s *ConnectionTestSuite) TestNestedTransaction() {
	ctx := context.Background()
	c := s.Connection()

	s.Require().NoError(c.Begin(ctx))
	s.ErrorIs(c.Begin(ctx), sqlport.ErrAlreadyInTransaction)

	// The rejected Begin leaves the open transaction alone.
	s.True(c.InTransaction())
	s.NoError(c.Rollback(ctx))
}

func (s *ConnectionTestSuite) TestBeginConnects() {
	ctx := context.Background()

	c, err := sqlport.Open(s.Params())
	s.Require().NoError(err)

	s.Require().NoError(c.Begin(ctx))
	s.True(c.IsConnected())
	s.True(c.InTransaction())

	s.NoError(c.Rollback(ctx))
	s.NoError(c.Disconnect())
}

func (s *ConnectionTestSuite) TestRollbackWithoutTransaction() {
	ctx := context.Background()
	c := s.Connection()

	s.ErrorIs(c.Rollback(ctx), sqlport.ErrNotInTransaction)
}

func (s *ConnectionTestSuite) TestRollbackDisconnected() {
	ctx := context.Background()

	c, err := sqlport.Open(s.Params())
	s.Require().NoError(err)

	s.ErrorIs(c.Rollback(ctx), sqlport.ErrNotConnected)
}

func (s *ConnectionTestSuite) TestCommitWithoutTransaction() {
	ctx := context.Background()
	c := s.Connection()

	// The commit goes to the engine as-is; some engines shrug it off and
	// some reject it.
	err := c.Commit(ctx)
	switch s.Adapter() {
	case "sqlite", "mssql":
		s.Error(err)
	default:
		s.NoError(err)
	}
	s.False(c.InTransaction())
}

func (s *ConnectionTestSuite) TestDisconnectClearsTransaction() {
	ctx := context.Background()

	c, err := sqlport.Open(s.Params())
	s.Require().NoError(err)

	s.Require().NoError(c.Begin(ctx))
	s.True(c.InTransaction())

	s.Require().NoError(c.Disconnect())
	s.False(c.InTransaction())
}

func (s *ConnectionTestSuite) TestCurrentSchema() {
	ctx := context.Background()
	c := s.Connection()

	schema, err := c.CurrentSchema(ctx)
	s.NoError(err)
	s.NotEmpty(schema)
}

func (s *ConnectionTestSuite) TestLastGeneratedValue() {
	ctx := context.Background()
	c := s.Connection()

	s.insertArtist(ctx, c, "artist-"+uuid.New().String())

	name := ""
	if s.Adapter() == "postgresql" {
		name = "artist_id_seq"
	}

	value, err := c.LastGeneratedValue(ctx, name)
	s.NoError(err)
	s.True(value > 0)
}

func (s *ConnectionTestSuite) TestResultFactory() {
	ctx := context.Background()
	c := s.Connection()

	type rawResult struct {
		raw interface{}
	}

	c.SetResultFactory(sqlport.ResultFactoryFunc(func(raw interface{}) (sqlport.Result, error) {
		return &rawResult{raw: raw}, nil
	}))

	res, err := c.Exec(ctx, fmt.Sprintf(`INSERT INTO artist (name) VALUES ('%s')`, uuid.New().String()))
	s.Require().NoError(err)

	custom, ok := res.(*rawResult)
	s.Require().True(ok)
	s.NotNil(custom.raw)

	// nil restores the adapter's default factory.
	c.SetResultFactory(nil)

	res, err = c.Exec(ctx, `SELECT COUNT(*) FROM artist`)
	s.Require().NoError(err)

	rows, ok := res.(sqlport.Rows)
	s.Require().True(ok)
	s.NoError(rows.Close())
}

func (s *ConnectionTestSuite) TestQueryLogger() {
	logLevel := sqlport.LC().Level()

	sqlport.LC().SetLogger(logrus.New())
	sqlport.LC().SetLevel(sqlport.LogLevelDebug)

	defer func() {
		sqlport.LC().SetLogger(nil)
		sqlport.LC().SetLevel(logLevel)
	}()

	c := s.Connection()

	res, err := c.Exec(context.Background(), `SELECT COUNT(*) FROM artist`)
	s.Equal(nil, err)
	if rows, ok := res.(sqlport.Rows); ok {
		s.NoError(rows.Close())
	}

	_, err = c.Exec(context.Background(), `SELECT COUNT(*) FROM artist_x`)
	s.NotEqual(nil, err)
}

func (s *ConnectionTestSuite) TestConcurrentConnections() {
	ctx := context.Background()

	limit := 24
	if detectrace.WithRace() {
		// The race detector caps how many goroutines it can watch; keep
		// the pressure low when it is on.
		limit = 8
	}

	var wg sync.WaitGroup
	for i := 0; i < limit; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			c, err := sqlport.Open(s.Params())
			if err != nil {
				s.T().Errorf("open: %v", err)
				return
			}
			defer func() {
				_ = c.Disconnect()
			}()

			name := fmt.Sprintf("artist-%d-%s", i, uuid.New().String())
			if _, err := c.Exec(ctx, fmt.Sprintf(`INSERT INTO artist (name) VALUES ('%s')`, name)); err != nil {
				s.T().Errorf("exec: %v", err)
			}
		}(i)
	}
	wg.Wait()
}
