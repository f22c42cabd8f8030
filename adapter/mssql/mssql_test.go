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

package mssql

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

func (s *AdapterTests) TestCurrentSchemaIsDbo() {
	schema, err := s.Connection().CurrentSchema(context.Background())
	s.NoError(err)
	s.Equal("dbo", schema)
}

func (s *AdapterTests) TestFreshSessionCounter() {
	ctx := context.Background()

	conn, err := sqlport.Open(s.Params())
	s.Require().NoError(err)
	defer func() {
		s.NoError(conn.Disconnect())
	}()

	// @@IDENTITY is NULL until the session inserts something, which reads
	// back as zero.
	value, err := conn.LastGeneratedValue(ctx, "")
	s.NoError(err)
	s.Zero(value)
}

func TestAdapter(t *testing.T) {
	if testDSN == "" {
		t.Skip("SQLPORT_MSSQL_DSN is not set")
	}
	suite.Run(t, &AdapterTests{})
}
