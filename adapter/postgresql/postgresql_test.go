// Copyright (c) The sqlport authors. All rights reserved.
//
// Permission is hereby granted, free of charge, to any person obtaining
// a copy of this software and associated documentation files (the
// "Software"), to deal in the Software without restriction, including
// without limitation the rights to use, copy, modify, merge, publish,
// distribute, sublicense, and/or sell copies of the Software, and to
// permit persons to whom the Software is furnished to do so, subject to
// the following conditions:
//
// The above copyright notice and this permission notice shall be
// included in all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
// NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE
// LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION
// OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION
// WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package postgresql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/sqlport/sqlport"
	"github.com/sqlport/sqlport/internal/testsuite"
)

type AdapterTests struct {
	testsuite.ConnectionTestSuite
}

func (s *AdapterTests) SetupSuite() {
	s.Helper = &Helper{}
}

func (s *AdapterTests) TestSequenceValues() {
	ctx := context.Background()
	c := s.Connection()

	_, err := c.Exec(ctx, `INSERT INTO artist (name) VALUES ('Benedicte')`)
	s.Require().NoError(err)

	// Without a sequence hint the engine has nothing to report.
	value, err := c.LastGeneratedValue(ctx, "")
	s.NoError(err)
	s.Zero(value)

	value, err = c.LastGeneratedValue(ctx, "artist_id_seq")
	s.NoError(err)
	s.Equal(int64(1), value)

	// A second insert moves the sequence along.
	_, err = c.Exec(ctx, `INSERT INTO artist (name) VALUES ('Luz')`)
	s.Require().NoError(err)

	value, err = c.LastGeneratedValue(ctx, "artist_id_seq")
	s.NoError(err)
	s.Equal(int64(2), value)
}

func (s *AdapterTests) TestUnknownSequence() {
	_, err := s.Connection().LastGeneratedValue(context.Background(), "no_such_seq")
	s.Error(err)
	s.ErrorIs(err, sqlport.ErrInvalidQuery)
}

func (s *AdapterTests) TestMultiStatementExec() {
	ctx := context.Background()
	c := s.Connection()

	// Several statements can ride in one simple-protocol round trip; the
	// last outcome is the one reported.
	res, err := c.Exec(ctx, `INSERT INTO artist (name) VALUES ('Solo'); SELECT name FROM artist ORDER BY name`)
	s.Require().NoError(err)

	rows, ok := res.(sqlport.Rows)
	s.Require().True(ok)

	names := []string{}
	for rows.Next() {
		var name string
		s.Require().NoError(rows.Scan(&name))
		names = append(names, name)
	}
	s.NoError(rows.Err())
	s.Equal([]string{"Solo"}, names)
}

func (s *AdapterTests) TestCurrentSchemaIsPublic() {
	schema, err := s.Connection().CurrentSchema(context.Background())
	s.NoError(err)
	s.Equal("public", schema)
}

func TestAdapter(t *testing.T) {
	if testDSN == "" {
		t.Skip("SQLPORT_POSTGRESQL_DSN is not set")
	}
	suite.Run(t, &AdapterTests{})
}
