//go:build sqlite_vec
// +build sqlite_vec

package store

// Built with CGO and the sqlite_vec tag: a real C SQLite driver, faster
// for write-heavy indexing runs. Build with:
//
//	CGO_ENABLED=1 go build -tags sqlite_vec ./...

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// driverName is the SQLite driver registered under this build.
	driverName = "sqlite3"
	// buildMode describes this build configuration.
	buildMode = "cgo"
)
