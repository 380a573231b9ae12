package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CurrentSchemaVersion is the schema version this build writes.
const CurrentSchemaVersion = "1.0.0"

// migration is one versioned step of schema evolution.
type migration struct {
	Version string
	Up      string
}

// allMigrations runs in order; each is applied once, tracked in
// schema_version.
var allMigrations = []migration{
	{
		Version: "1.0.0",
		Up:      migrationV1Up,
	},
}

const migrationV1Up = `
CREATE TABLE IF NOT EXISTS schema_version (
    version TEXT PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- File registry: one row per tracked source file.
CREATE TABLE IF NOT EXISTS files (
    path TEXT PRIMARY KEY,
    hash TEXT NOT NULL,
    last_indexed INTEGER NOT NULL,
    skeleton TEXT
);

-- Dependency edges. target is intentionally unconstrained: it may name
-- a file outside the scanned source directory, or one not yet indexed.
CREATE TABLE IF NOT EXISTS edges (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source TEXT NOT NULL,
    target TEXT NOT NULL,
    relation TEXT NOT NULL,
    FOREIGN KEY (source) REFERENCES files(path) ON DELETE CASCADE,
    UNIQUE (source, target, relation)
);

CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source);

-- Code chunks: the embeddable units the retriever scores.
CREATE TABLE IF NOT EXISTS chunks (
    id TEXT PRIMARY KEY,
    file_path TEXT NOT NULL,
    type TEXT NOT NULL,
    content TEXT NOT NULL,
    parent_id TEXT,
    vector TEXT NOT NULL,
    metadata TEXT NOT NULL,
    FOREIGN KEY (file_path) REFERENCES files(path) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_chunks_file_path ON chunks(file_path);
`

// applyMigrations brings db up to CurrentSchemaVersion.
func applyMigrations(ctx context.Context, db *sql.DB) error {
	var currentVersionStr string
	err := db.QueryRowContext(ctx,
		"SELECT version FROM schema_version ORDER BY applied_at DESC LIMIT 1",
	).Scan(&currentVersionStr)

	var current *semver.Version
	switch {
	case err == sql.ErrNoRows, isNoSuchTable(err):
		current = semver.MustParse("0.0.0")
	case err != nil:
		return fmt.Errorf("read schema_version: %w", err)
	default:
		current, err = semver.NewVersion(currentVersionStr)
		if err != nil {
			return fmt.Errorf("invalid schema version %q: %w", currentVersionStr, err)
		}
	}

	for _, m := range allMigrations {
		v, err := semver.NewVersion(m.Version)
		if err != nil {
			return fmt.Errorf("invalid migration version %q: %w", m.Version, err)
		}
		if !current.LessThan(v) {
			continue
		}

		if _, err := db.ExecContext(ctx, m.Up); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.Version, err)
		}
		if _, err := db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("record migration %s: %w", m.Version, err)
		}
		current = v
	}

	return nil
}

// isNoSuchTable reports whether err is the "no such table" error either
// SQLite driver returns when schema_version doesn't exist yet.
func isNoSuchTable(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such table")
}
