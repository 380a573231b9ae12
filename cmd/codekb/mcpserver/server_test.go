package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dastbal/codekb/internal/config"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		type req struct {
			Input []string `json:"input"`
		}
		var body req
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		type datum struct {
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		}
		var data []datum
		for i := range body.Input {
			data = append(data, datum{Embedding: []float32{0.1, 0.2, 0.3}, Index: i})
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(struct {
			Data []datum `json:"data"`
		}{Data: data}))
	}))
	t.Cleanup(backend.Close)

	cfg := &config.Config{
		ProjectRoot:    root,
		SourceDir:      "src",
		StoreFileName:  "mcp-test.db",
		EmbeddingURL:   backend.URL,
		EmbeddingModel: "test-model",
	}

	srv, err := NewServer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.store.Close() })

	return srv, root
}

func callToolRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func TestNewServerWiresCoreComponents(t *testing.T) {
	srv, _ := newTestServer(t)
	assert.NotNil(t, srv.indexer)
	assert.NotNil(t, srv.retriever)
	assert.NotNil(t, srv.graph)
	assert.NotNil(t, srv.store)
}

func TestHandleIndexProjectOverEmptyProject(t *testing.T) {
	srv, root := newTestServer(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))

	result, err := srv.handleIndexProject(context.Background(), callToolRequest(nil))
	require.NoError(t, err)
	require.NotNil(t, result)
}

func TestHandleQueryRequiresText(t *testing.T) {
	srv, _ := newTestServer(t)

	_, err := srv.handleQuery(context.Background(), callToolRequest(map[string]interface{}{}))
	require.Error(t, err)

	mcpErr, ok := err.(*MCPError)
	require.True(t, ok)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestHandleAnalyzeStructureRequiresPath(t *testing.T) {
	srv, _ := newTestServer(t)

	_, err := srv.handleAnalyzeStructure(context.Background(), callToolRequest(map[string]interface{}{}))
	require.Error(t, err)

	mcpErr, ok := err.(*MCPError)
	require.True(t, ok)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestHandleDependenciesOfDefaultsToOutbound(t *testing.T) {
	srv, _ := newTestServer(t)

	result, err := srv.handleDependenciesOf(context.Background(), callToolRequest(map[string]interface{}{
		"path": "src/never-indexed.ts",
	}))
	require.NoError(t, err)
	require.NotNil(t, result)
}

func TestGetStringDefault(t *testing.T) {
	args := map[string]interface{}{"text": "hello"}
	assert.Equal(t, "hello", getStringDefault(args, "text", "fallback"))
	assert.Equal(t, "fallback", getStringDefault(args, "missing", "fallback"))
}

func TestGetIntDefault(t *testing.T) {
	args := map[string]interface{}{"limit": float64(7)}
	assert.Equal(t, 7, getIntDefault(args, "limit", 5))
	assert.Equal(t, 5, getIntDefault(args, "missing", 5))
}
