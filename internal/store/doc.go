// Package store is the engine's embedded durable storage layer: three
// SQLite relations (file registry, dependency edges, code chunks) plus
// the two secondary indexes spec.md section 6 calls for. It is the only
// package that knows SQL; every other component talks to it through the
// Store interface in terms of pkg/types values.
//
// The store file lives at <root>/.agent/<name> and is created, with its
// enclosing directory, on first use. Write-ahead logging is enabled for
// write throughput, matching the teacher's own openDatabase convention.
//
// Two build configurations select the SQLite driver, exactly as the
// teacher splits them:
//
//	go build -tags "sqlite_vec" ./...    // CGO, github.com/mattn/go-sqlite3
//	go build -tags "purego" ./...        // no CGO, modernc.org/sqlite
package store
