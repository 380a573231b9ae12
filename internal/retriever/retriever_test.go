package retriever

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dastbal/codekb/internal/embedder"
	"github.com/dastbal/codekb/internal/store"
	"github.com/dastbal/codekb/pkg/types"
)

type fakeReq struct {
	Input []string `json:"input"`
	Model string   `json:"model,omitempty"`
}

// newFixedVectorBackend returns a backend that yields vec for any text
// it is asked to embed, used when the test wants full control over
// scoring rather than a content-derived vector.
func newFixedVectorBackend(t *testing.T, vec func(text string) []float32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req fakeReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		type datum struct {
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		}
		var data []datum
		for i, text := range req.Input {
			data = append(data, datum{Embedding: vec(text), Index: i})
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(struct {
			Data  []datum `json:"data"`
			Model string  `json:"model"`
		}{Data: data, Model: req.Model}))
	}))
}

func TestQueryEmptyStoreReturnsEmptySlice(t *testing.T) {
	root := t.TempDir()
	st, err := store.Open(root, "r.db")
	require.NoError(t, err)
	defer func() { _ = st.Close() }()

	backend := newFixedVectorBackend(t, func(string) []float32 { return []float32{1, 0} })
	defer backend.Close()
	emb, err := embedder.New(embedder.Config{BaseURL: backend.URL})
	require.NoError(t, err)
	defer func() { _ = emb.Close() }()

	r := New(st, emb)
	hits, err := r.Query(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestQueryRanksByCosineSimilarity(t *testing.T) {
	root := t.TempDir()
	st, err := store.Open(root, "r.db")
	require.NoError(t, err)
	defer func() { _ = st.Close() }()

	ctx := context.Background()
	require.NoError(t, st.UpsertFile(ctx, &types.File{Path: "src/a.ts", Hash: "h", LastIndexed: time.Now()}))
	require.NoError(t, st.UpsertChunksBatch(ctx, []types.Chunk{
		{ID: "close", FilePath: "src/a.ts", Type: types.ChunkMethod, Content: "close", Vector: []float32{1, 0}},
		{ID: "far", FilePath: "src/a.ts", Type: types.ChunkMethod, Content: "far", Vector: []float32{0, 1}},
	}))

	backend := newFixedVectorBackend(t, func(string) []float32 { return []float32{1, 0} })
	defer backend.Close()
	emb, err := embedder.New(embedder.Config{BaseURL: backend.URL})
	require.NoError(t, err)
	defer func() { _ = emb.Close() }()

	r := New(st, emb)
	hits, err := r.Query(ctx, "query text", 5)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "close", hits[0].Chunk.ID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
	assert.Equal(t, "far", hits[1].Chunk.ID)
	assert.InDelta(t, 0.0, hits[1].Score, 1e-9)
}

func TestQueryDefaultsLimitWhenZero(t *testing.T) {
	root := t.TempDir()
	st, err := store.Open(root, "r.db")
	require.NoError(t, err)
	defer func() { _ = st.Close() }()

	ctx := context.Background()
	require.NoError(t, st.UpsertFile(ctx, &types.File{Path: "src/a.ts", Hash: "h", LastIndexed: time.Now()}))
	var chunks []types.Chunk
	for i := 0; i < 8; i++ {
		chunks = append(chunks, types.Chunk{ID: string(rune('a' + i)), FilePath: "src/a.ts", Type: types.ChunkMethod, Content: "x", Vector: []float32{1, 0}})
	}
	require.NoError(t, st.UpsertChunksBatch(ctx, chunks))

	backend := newFixedVectorBackend(t, func(string) []float32 { return []float32{1, 0} })
	defer backend.Close()
	emb, err := embedder.New(embedder.Config{BaseURL: backend.URL})
	require.NoError(t, err)
	defer func() { _ = emb.Close() }()

	r := New(st, emb)
	hits, err := r.Query(ctx, "q", 0)
	require.NoError(t, err)
	assert.Len(t, hits, defaultQueryLimit)
}

func TestContextReportEmptyProject(t *testing.T) {
	root := t.TempDir()
	st, err := store.Open(root, "r.db")
	require.NoError(t, err)
	defer func() { _ = st.Close() }()

	backend := newFixedVectorBackend(t, func(string) []float32 { return []float32{1, 0} })
	defer backend.Close()
	emb, err := embedder.New(embedder.Config{BaseURL: backend.URL})
	require.NoError(t, err)
	defer func() { _ = emb.Close() }()

	r := New(st, emb)
	report, err := r.ContextReport(context.Background(), "anything")
	require.NoError(t, err)
	assert.Contains(t, report, "Found 0 relevant files.")
}

func TestContextReportFormat(t *testing.T) {
	root := t.TempDir()
	st, err := store.Open(root, "r.db")
	require.NoError(t, err)
	defer func() { _ = st.Close() }()

	ctx := context.Background()
	skeleton := &types.Skeleton{
		Kind:    types.SkeletonStructured,
		Imports: []string{"./user-repository.interface"},
		Classes: []types.ClassSkeleton{{Name: "UsersService", Methods: []string{"create(dto: CreateUserDto): User;"}}},
	}
	require.NoError(t, st.UpsertFile(ctx, &types.File{Path: "src/users/users.service.ts", Hash: "h", LastIndexed: time.Now(), Skeleton: skeleton}))
	require.NoError(t, st.InsertEdges(ctx, []types.Edge{
		{Source: "src/users/users.service.ts", Target: "src/users/user-repository.interface.ts", Relation: types.RelationImport},
	}))

	parentID := "parent-1"
	require.NoError(t, st.UpsertChunksBatch(ctx, []types.Chunk{
		{
			ID:       "create-chunk",
			FilePath: "src/users/users.service.ts",
			Type:     types.ChunkMethod,
			Content:  "create(dto: CreateUserDto): User {\n  return this.repo.save(dto);\n}",
			ParentID: &parentID,
			Metadata: types.ChunkMetadata{MethodName: "create"},
			Vector:   []float32{1, 0},
		},
	}))

	backend := newFixedVectorBackend(t, func(string) []float32 { return []float32{1, 0} })
	defer backend.Close()
	emb, err := embedder.New(embedder.Config{BaseURL: backend.URL})
	require.NoError(t, err)
	defer func() { _ = emb.Close() }()

	r := New(st, emb)
	report, err := r.ContextReport(ctx, "user creation")
	require.NoError(t, err)

	assert.Contains(t, report, `Query: "user creation"`)
	assert.Contains(t, report, "FILE:** src/users/users.service.ts")
	assert.Contains(t, report, "user-repository.interface.ts")
	assert.Contains(t, report, "FILE SKELETON (MAP)")
	assert.Contains(t, report, "create(dto: CreateUserDto): User;")
	assert.Contains(t, report, "CODE SNIPPETS")
	assert.Contains(t, report, "return this.repo.save(dto);")
}

func TestAnalyzeStructureMissReturnsSentinelNotError(t *testing.T) {
	root := t.TempDir()
	st, err := store.Open(root, "r.db")
	require.NoError(t, err)
	defer func() { _ = st.Close() }()

	backend := newFixedVectorBackend(t, func(string) []float32 { return []float32{1, 0} })
	defer backend.Close()
	emb, err := embedder.New(embedder.Config{BaseURL: backend.URL})
	require.NoError(t, err)
	defer func() { _ = emb.Close() }()

	r := New(st, emb)
	text, err := r.AnalyzeStructure(context.Background(), "src/never-indexed.ts")
	require.NoError(t, err)
	assert.Contains(t, text, "no skeleton on record")
}

func TestAnalyzeStructureHit(t *testing.T) {
	root := t.TempDir()
	st, err := store.Open(root, "r.db")
	require.NoError(t, err)
	defer func() { _ = st.Close() }()

	ctx := context.Background()
	require.NoError(t, st.UpsertFile(ctx, &types.File{
		Path: "src/a.dto.ts", Hash: "h", LastIndexed: time.Now(),
		Skeleton: &types.Skeleton{Kind: types.SkeletonFull},
	}))

	backend := newFixedVectorBackend(t, func(string) []float32 { return []float32{1, 0} })
	defer backend.Close()
	emb, err := embedder.New(embedder.Config{BaseURL: backend.URL})
	require.NoError(t, err)
	defer func() { _ = emb.Close() }()

	r := New(st, emb)
	text, err := r.AnalyzeStructure(ctx, "src/a.dto.ts")
	require.NoError(t, err)
	assert.Contains(t, text, "skeleton for src/a.dto.ts")
	assert.Contains(t, text, "full")
}
