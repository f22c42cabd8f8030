// Package sqlport offers a uniform way to open, drive and tear down single
// database sessions across different SQL engines.
//
// A session is described by a loose set of connection parameters (Params)
// that the package folds into one canonical form, regardless of which alias
// the caller picked for each field:
//
//	sess, err := sqlport.Open(sqlport.Params{
//		"driver":   "mysql",
//		"hostname": "127.0.0.1",
//		"user":     "john",
//		"pw":       "doe",
//		"dbname":   "main",
//	})
//
// The resulting Connection exposes the same lifecycle on every engine: lazy
// connect, verbatim statement execution, autocommit mediation and session
// teardown. Statements are delegated to the native client untouched; this
// package performs no SQL translation, no placeholder binding and no
// connection pooling.
//
// Each engine lives in its own adapter package under adapter/. Importing an
// adapter registers it:
//
//	import (
//		"github.com/sqlport/sqlport"
//		_ "github.com/sqlport/sqlport/adapter/mysql"
//	)
//
// Adapters can also be used directly, skipping the registry, via their Open
// and New functions.
package sqlport
