package indexer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dastbal/codekb/internal/embedder"
	"github.com/dastbal/codekb/internal/store"
	"github.com/dastbal/codekb/pkg/types"
)

type embedRequestBody struct {
	Input []string `json:"input"`
	Model string   `json:"model,omitempty"`
}

// newFakeEmbeddingBackend returns an HTTP server whose vectors are
// trivially distinguishable: one keyword-weight dimension per word
// embeddingFor looks for, so tests can assert relative ranking without
// depending on a real model.
func newFakeEmbeddingBackend(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embedRequestBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		type datum struct {
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		}
		resp := struct {
			Data  []datum `json:"data"`
			Model string  `json:"model"`
		}{Model: req.Model}

		for i, text := range req.Input {
			resp.Data = append(resp.Data, datum{
				Embedding: embeddingFor(text),
				Index:     i,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

// embeddingFor derives a deterministic vector from text, weighted so
// text containing "create" or "repository" scores closer to a query
// mentioning the same words, used to make ranking assertions concrete
// without a real embedding model.
func embeddingFor(text string) []float32 {
	var createWeight, repoWeight, findWeight float32
	if contains(text, "create") {
		createWeight = 1
	}
	if contains(text, "repo") || contains(text, "Repository") {
		repoWeight = 1
	}
	if contains(text, "findAll") {
		findWeight = 1
	}
	return []float32{createWeight, repoWeight, findWeight}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (func() bool {
		for i := 0; i+len(substr) <= len(s); i++ {
			if s[i:i+len(substr)] == substr {
				return true
			}
		}
		return false
	})()
}

func newTestIndexer(t *testing.T) (*Indexer, string, *embedder.Embedder) {
	t.Helper()
	root := t.TempDir()
	st, err := store.Open(root, "indexer.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	backend := newFakeEmbeddingBackend(t)
	t.Cleanup(backend.Close)

	emb, err := embedder.New(embedder.Config{BaseURL: backend.URL, Model: "test-model"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = emb.Close() })

	return New(root, st, emb, nil), root, emb
}

func writeFile(t *testing.T, root, relPath, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

// Scenario 1: empty project.
func TestIndexProjectEmptyProject(t *testing.T) {
	idx, root, _ := newTestIndexer(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))

	stats, err := idx.IndexProject(context.Background(), Config{})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.FilesIndexed)
	assert.Equal(t, 0, stats.FilesFailed)
	assert.Equal(t, 0, stats.EdgesPersisted)
	assert.Equal(t, 0, stats.ChunksEmbedded)
}

// Scenario 2: single atomic file.
func TestIndexProjectSingleAtomicFile(t *testing.T) {
	idx, root, _ := newTestIndexer(t)
	writeFile(t, root, "src/create-user.dto.ts", `export class CreateUserDto {
  name: string;
  email: string;
  age: number;
}
`)

	stats, err := idx.IndexProject(context.Background(), Config{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesIndexed)
	assert.Equal(t, 1, stats.ChunksEmbedded)
	assert.Equal(t, 0, stats.EdgesPersisted)

	all, err := idx.store.AllChunks(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, types.ChunkFile, all[0].Type)
}

// Scenario 3: parent-child split with ranking.
func TestIndexProjectParentChildSplitAndRanking(t *testing.T) {
	idx, root, emb := newTestIndexer(t)
	writeFile(t, root, "src/users/user-repository.interface.ts", "export interface UserRepository {}")
	writeFile(t, root, "src/users/users.service.ts", `import { Injectable } from '@nestjs/common';
import { UserRepository } from './user-repository.interface';

@Injectable()
export class UsersService {
  constructor(private readonly repo: UserRepository) {}

  findAll(): User[] {
    return this.repo.findAll();
  }

  create(dto: CreateUserDto): User {
    return this.repo.save(dto);
  }
}
`)

	stats, err := idx.IndexProject(context.Background(), Config{})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.FilesIndexed)
	assert.Equal(t, 4, stats.ChunksEmbedded) // 1 atomic chunk + 1 class-signature + 2 methods

	all, err := idx.store.AllChunks(context.Background())
	require.NoError(t, err)

	var createChunk, findAllChunk *types.Chunk
	for i := range all {
		switch all[i].Metadata.MethodName {
		case "create":
			createChunk = &all[i]
		case "findAll":
			findAllChunk = &all[i]
		}
	}
	require.NotNil(t, createChunk)
	require.NotNil(t, findAllChunk)
	require.NotNil(t, createChunk.ParentID)
	assert.Equal(t, *createChunk.ParentID, *findAllChunk.ParentID)

	queryVec, err := emb.Embed(context.Background(), "create user with repository")
	require.NoError(t, err)

	scoreOf := func(c *types.Chunk) float64 {
		var dot float64
		for i := range queryVec {
			dot += float64(queryVec[i]) * float64(c.Vector[i])
		}
		return dot
	}
	assert.Greater(t, scoreOf(createChunk), scoreOf(findAllChunk))
}

// Scenario 4: dependency edge resolution.
func TestIndexProjectDependencyEdgeResolution(t *testing.T) {
	idx, root, _ := newTestIndexer(t)
	writeFile(t, root, "src/b.ts", "export class B {}")
	writeFile(t, root, "src/barrel/index.ts", "export class Shared {}")
	writeFile(t, root, "src/a.ts", `import { B } from './b';
import { Shared } from './barrel';
import { Injectable } from 'some-package';

@Injectable()
export class A {
  constructor() {}

  use(): void {}
}
`)

	stats, err := idx.IndexProject(context.Background(), Config{})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.EdgesPersisted)

	deps, err := idx.store.EdgesByDirection(context.Background(), "src/a.ts", types.Outbound)
	require.NoError(t, err)
	require.Len(t, deps, 2)
}

// Idempotence of re-index.
func TestIndexProjectIdempotentReindex(t *testing.T) {
	idx, root, _ := newTestIndexer(t)
	writeFile(t, root, "src/a.dto.ts", "export class ADto { x: number; }")

	_, err := idx.IndexProject(context.Background(), Config{})
	require.NoError(t, err)

	first, err := idx.store.AllChunks(context.Background())
	require.NoError(t, err)

	stats, err := idx.IndexProject(context.Background(), Config{})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.FilesIndexed, "unchanged file must not be re-analyzed")
	assert.Equal(t, 1, stats.FilesSkipped)

	second, err := idx.store.AllChunks(context.Background())
	require.NoError(t, err)
	assert.Len(t, second, len(first), "re-index must not duplicate chunk rows")
}

// Change detection: altering one file re-analyzes only that file.
func TestIndexProjectChangeDetection(t *testing.T) {
	idx, root, _ := newTestIndexer(t)
	writeFile(t, root, "src/a.dto.ts", "export class ADto { x: number; }")
	writeFile(t, root, "src/b.dto.ts", "export class BDto { y: number; }")

	_, err := idx.IndexProject(context.Background(), Config{})
	require.NoError(t, err)

	writeFile(t, root, "src/a.dto.ts", "export class ADto { x: number; z: string; }")

	stats, err := idx.IndexProject(context.Background(), Config{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesIndexed)
	assert.Equal(t, 1, stats.FilesSkipped)

	all, err := idx.store.AllChunks(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2, "re-index of a changed file must not leave its old chunk rows behind")
}

// Re-indexing a changed logic file (parent-child split) must drop the
// prior run's chunk rows for that file rather than accumulate them.
func TestIndexProjectReindexReplacesChunksForChangedLogicFile(t *testing.T) {
	idx, root, _ := newTestIndexer(t)
	writeFile(t, root, "src/users/users.service.ts", `import { Injectable } from '@nestjs/common';

@Injectable()
export class UsersService {
  constructor() {}

  findAll(): User[] {
    return [];
  }
}
`)

	_, err := idx.IndexProject(context.Background(), Config{})
	require.NoError(t, err)

	first, err := idx.store.AllChunks(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 2) // 1 class-signature + 1 method

	writeFile(t, root, "src/users/users.service.ts", `import { Injectable } from '@nestjs/common';

@Injectable()
export class UsersService {
  constructor() {}

  findAll(): User[] {
    return [];
  }

  create(dto: CreateUserDto): User {
    return dto as unknown as User;
  }
}
`)

	_, err = idx.IndexProject(context.Background(), Config{})
	require.NoError(t, err)

	second, err := idx.store.AllChunks(context.Background())
	require.NoError(t, err)
	assert.Len(t, second, 3, "changed file must be replaced, not appended to, across re-index") // 1 class-signature + 2 methods
}
