//go:build purego || !sqlite_vec
// +build purego !sqlite_vec

package store

// Built without CGO, or with the purego tag: a pure-Go SQLite driver, no
// C compiler required, cross-compiles cleanly. This is the default.

import (
	_ "modernc.org/sqlite"
)

const (
	driverName = "sqlite"
	buildMode  = "purego"
)
