package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dastbal/codekb/internal/config"
	"github.com/dastbal/codekb/internal/embedder"
	"github.com/dastbal/codekb/internal/graphquery"
	"github.com/dastbal/codekb/internal/indexer"
	"github.com/dastbal/codekb/internal/retriever"
	"github.com/dastbal/codekb/internal/store"
)

const (
	// ServerName is the MCP server name.
	ServerName = "codekb"
	// ServerVersion is the current server version.
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with the core's dependencies.
type Server struct {
	mcp       *server.MCPServer
	store     *store.SQLiteStore
	indexer   *indexer.Indexer
	retriever *retriever.Retriever
	graph     *graphquery.GraphQuery
	cfg       *config.Config
}

// NewServer builds a Server over a freshly opened Store and Embedder,
// wired from cfg.
func NewServer(cfg *config.Config) (*Server, error) {
	st, err := store.Open(cfg.ProjectRoot, cfg.StoreFileName)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	emb, err := embedder.New(embedder.Config{
		BaseURL: cfg.EmbeddingURL,
		Model:   cfg.EmbeddingModel,
		APIKey:  cfg.EmbeddingKey,
	})
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	s := &Server{
		mcp:       server.NewMCPServer(ServerName, ServerVersion),
		store:     st,
		indexer:   indexer.New(cfg.ProjectRoot, st, emb, nil),
		retriever: retriever.New(st, emb),
		graph:     graphquery.New(st),
		cfg:       cfg,
	}

	if err := s.registerTools(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.store.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers the core's five operations as MCP tools.
func (s *Server) registerTools() error {
	s.mcp.AddTool(indexProjectTool(), s.handleIndexProject)
	s.mcp.AddTool(queryTool(), s.handleQuery)
	s.mcp.AddTool(contextReportTool(), s.handleContextReport)
	s.mcp.AddTool(analyzeStructureTool(), s.handleAnalyzeStructure)
	s.mcp.AddTool(dependenciesOfTool(), s.handleDependenciesOf)
	return nil
}
