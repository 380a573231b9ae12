package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dastbal/codekb/internal/paths"
	"github.com/dastbal/codekb/pkg/types"
)

// Store is the durable persistence contract every other component talks
// to. It never returns SQL error types to callers — only pkg/types
// sentinels and wrapped errors.
type Store interface {
	// UpsertFile writes or updates a file registry row.
	UpsertFile(ctx context.Context, file *types.File) error
	// GetFile returns a file registry row, or types.ErrNotFound.
	GetFile(ctx context.Context, path string) (*types.File, error)

	// InsertEdges persists a batch of edges in a single transaction using
	// insert-or-ignore semantics on the unique (source, target, relation)
	// key. Safe to call with edges whose target has no File row.
	InsertEdges(ctx context.Context, edges []types.Edge) error
	// EdgesByDirection returns the 1-hop dependency refs for path in the
	// given direction, trying both the forward-slash and caller-supplied
	// form of path.
	EdgesByDirection(ctx context.Context, path string, direction types.Direction) ([]types.DependencyRef, error)

	// UpsertChunksBatch writes or replaces a batch of chunks by id, in a
	// single transaction.
	UpsertChunksBatch(ctx context.Context, chunks []types.Chunk) error
	// DeleteChunksByFile removes every chunk owned by path, used before
	// re-indexing a modified file.
	DeleteChunksByFile(ctx context.Context, path string) error
	// AllChunks returns every stored chunk, for the retriever's linear
	// vector scan.
	AllChunks(ctx context.Context) ([]types.Chunk, error)

	// CompactRemoved deletes File rows (and their owned chunks/edges, via
	// cascade) whose path no longer exists on disk under root. Not
	// invoked by IndexProject; cleanup is not a core requirement.
	CompactRemoved(ctx context.Context, root string) (int, error)

	Close() error
}

// SQLiteStore implements Store over a single SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// ErrNotFound is returned by GetFile when the path isn't registered.
var ErrNotFound = types.ErrNotFound

// Open creates the store's directory if needed and opens (creating on
// first use) the SQLite database at <root>/.agent/<name>.
func Open(root, name string) (*SQLiteStore, error) {
	dir := filepath.Join(root, ".agent")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	dbPath := filepath.Join(dir, name)
	db, err := sql.Open(driverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertFile(ctx context.Context, file *types.File) error {
	var skeletonJSON sql.NullString
	if file.Skeleton != nil {
		b, err := json.Marshal(file.Skeleton)
		if err != nil {
			return fmt.Errorf("marshal skeleton: %w", err)
		}
		skeletonJSON = sql.NullString{String: string(b), Valid: true}
	}

	path := paths.ToSlash(file.Path)
	lastIndexed := file.LastIndexed
	if lastIndexed.IsZero() {
		lastIndexed = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO files (path, hash, last_indexed, skeleton)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			hash = excluded.hash,
			last_indexed = excluded.last_indexed,
			skeleton = excluded.skeleton
	`, path, file.Hash, lastIndexed.Unix(), skeletonJSON)
	if err != nil {
		return fmt.Errorf("upsert file %s: %w", path, err)
	}
	return nil
}

func (s *SQLiteStore) GetFile(ctx context.Context, path string) (*types.File, error) {
	var lastErr error
	for _, candidate := range paths.Candidates(path) {
		file, err := s.getFileExact(ctx, candidate)
		if err == nil {
			return file, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *SQLiteStore) getFileExact(ctx context.Context, path string) (*types.File, error) {
	var (
		hash         string
		lastIndexed  int64
		skeletonJSON sql.NullString
	)

	row := s.db.QueryRowContext(ctx, `SELECT hash, last_indexed, skeleton FROM files WHERE path = ?`, path)
	if err := row.Scan(&hash, &lastIndexed, &skeletonJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("get file %s: %w", path, err)
	}

	file := &types.File{
		Path:        path,
		Hash:        hash,
		LastIndexed: time.Unix(lastIndexed, 0),
	}
	if skeletonJSON.Valid {
		var skel types.Skeleton
		if err := json.Unmarshal([]byte(skeletonJSON.String), &skel); err != nil {
			return nil, fmt.Errorf("unmarshal skeleton for %s: %w", path, err)
		}
		file.Skeleton = &skel
	}

	return file, nil
}

func (s *SQLiteStore) InsertEdges(ctx context.Context, edges []types.Edge) error {
	if len(edges) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin edge transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO edges (source, target, relation) VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare edge insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range edges {
		if _, err := stmt.ExecContext(ctx, paths.ToSlash(e.Source), paths.ToSlash(e.Target), string(e.Relation)); err != nil {
			return fmt.Errorf("insert edge %s -> %s: %w", e.Source, e.Target, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit edge transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) EdgesByDirection(ctx context.Context, path string, direction types.Direction) ([]types.DependencyRef, error) {
	column := "target"
	matchColumn := "source"
	if direction == types.Inbound {
		column = "source"
		matchColumn = "target"
	}

	query := fmt.Sprintf(`SELECT %s, relation FROM edges WHERE %s = ?`, column, matchColumn)

	seen := make(map[string]bool)
	var refs []types.DependencyRef
	for _, candidate := range paths.Candidates(path) {
		rows, err := s.db.QueryContext(ctx, query, candidate)
		if err != nil {
			return nil, fmt.Errorf("query edges for %s: %w", path, err)
		}
		err = func() error {
			defer func() { _ = rows.Close() }()
			for rows.Next() {
				var other, relation string
				if err := rows.Scan(&other, &relation); err != nil {
					return fmt.Errorf("scan edge row: %w", err)
				}
				key := other + "|" + relation
				if seen[key] {
					continue
				}
				seen[key] = true
				refs = append(refs, types.DependencyRef{Other: other, Relation: types.EdgeRelation(relation)})
			}
			return rows.Err()
		}()
		if err != nil {
			return nil, err
		}
	}

	return refs, nil
}

func (s *SQLiteStore) UpsertChunksBatch(ctx context.Context, chunks []types.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin chunk transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, file_path, type, content, parent_id, vector, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			file_path = excluded.file_path,
			type = excluded.type,
			content = excluded.content,
			parent_id = excluded.parent_id,
			vector = excluded.vector,
			metadata = excluded.metadata
	`)
	if err != nil {
		return fmt.Errorf("prepare chunk upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range chunks {
		vectorJSON, err := json.Marshal(c.Vector)
		if err != nil {
			return fmt.Errorf("marshal vector for chunk %s: %w", c.ID, err)
		}
		metadataJSON, err := json.Marshal(c.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata for chunk %s: %w", c.ID, err)
		}

		var parentID sql.NullString
		if c.ParentID != nil {
			parentID = sql.NullString{String: *c.ParentID, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, c.ID, paths.ToSlash(c.FilePath), string(c.Type), c.Content, parentID, string(vectorJSON), string(metadataJSON)); err != nil {
			return fmt.Errorf("upsert chunk %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit chunk transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteChunksByFile(ctx context.Context, path string) error {
	for _, candidate := range paths.Candidates(path) {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM chunks WHERE file_path = ?`, candidate); err != nil {
			return fmt.Errorf("delete chunks for %s: %w", path, err)
		}
	}
	return nil
}

func (s *SQLiteStore) AllChunks(ctx context.Context) ([]types.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, file_path, type, content, parent_id, vector, metadata FROM chunks`)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var chunks []types.Chunk
	for rows.Next() {
		var (
			id, filePath, chunkType, content, vectorJSON, metadataJSON string
			parentID                                                   sql.NullString
		)
		if err := rows.Scan(&id, &filePath, &chunkType, &content, &parentID, &vectorJSON, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scan chunk row: %w", err)
		}

		var vector []float32
		if err := json.Unmarshal([]byte(vectorJSON), &vector); err != nil {
			return nil, fmt.Errorf("unmarshal vector for chunk %s: %w", id, err)
		}
		var metadata types.ChunkMetadata
		if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata for chunk %s: %w", id, err)
		}

		chunk := types.Chunk{
			ID:       id,
			FilePath: filePath,
			Type:     types.ChunkType(chunkType),
			Content:  content,
			Vector:   vector,
			Metadata: metadata,
		}
		if parentID.Valid {
			chunk.ParentID = &parentID.String
		}
		chunks = append(chunks, chunk)
	}

	return chunks, rows.Err()
}

func (s *SQLiteStore) CompactRemoved(ctx context.Context, root string) (int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM files`)
	if err != nil {
		return 0, fmt.Errorf("list files: %w", err)
	}

	var stale []string
	err = func() error {
		defer func() { _ = rows.Close() }()
		for rows.Next() {
			var p string
			if err := rows.Scan(&p); err != nil {
				return fmt.Errorf("scan file row: %w", err)
			}
			abs := filepath.Join(root, filepath.FromSlash(p))
			if _, statErr := os.Stat(abs); os.IsNotExist(statErr) {
				stale = append(stale, p)
			}
		}
		return rows.Err()
	}()
	if err != nil {
		return 0, err
	}

	if len(stale) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin compaction transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range stale {
		if _, err := tx.ExecContext(ctx, `DELETE FROM files WHERE path = ?`, p); err != nil {
			return 0, fmt.Errorf("delete stale file %s: %w", p, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit compaction: %w", err)
	}
	return len(stale), nil
}
