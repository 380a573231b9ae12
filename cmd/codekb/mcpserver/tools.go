package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dastbal/codekb/internal/indexer"
	"github.com/dastbal/codekb/pkg/types"
)

// MCP error codes, matching the JSON-RPC reserved ranges the teacher
// uses for this same protocol.
const (
	ErrorCodeInvalidParams = -32602
	ErrorCodeInternalError = -32603
)

// MCPError is a protocol-level error; the framework handles encoding.
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("mcp error %d: %s", e.Code, e.Message)
}

func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{Code: code, Message: message, Data: data}
}

func (s *Server) handleIndexProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	sourceDir := getStringDefault(args, "source_dir", "")

	stats, err := s.indexer.IndexProject(ctx, indexer.Config{SourceDir: sourceDir})
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "index_project failed", map[string]interface{}{"error": err.Error()})
	}

	response := map[string]interface{}{
		"files_indexed":   stats.FilesIndexed,
		"files_skipped":   stats.FilesSkipped,
		"files_failed":    stats.FilesFailed,
		"edges_persisted": stats.EdgesPersisted,
		"chunks_embedded": stats.ChunksEmbedded,
		"duration_ms":     stats.Duration.Milliseconds(),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

func (s *Server) handleQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	text := getStringDefault(args, "text", "")
	if text == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "text parameter is required", map[string]interface{}{"param": "text"})
	}
	limit := getIntDefault(args, "limit", 5)

	hits, err := s.retriever.Query(ctx, text, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "query failed", map[string]interface{}{"error": err.Error()})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{"hits": hits})), nil
}

func (s *Server) handleContextReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	text := getStringDefault(args, "text", "")
	if text == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "text parameter is required", map[string]interface{}{"param": "text"})
	}

	report, err := s.retriever.ContextReport(ctx, text)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "context_report failed", map[string]interface{}{"error": err.Error()})
	}

	return mcp.NewToolResultText(report), nil
}

func (s *Server) handleAnalyzeStructure(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	path := getStringDefault(args, "path", "")
	if path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{"param": "path"})
	}

	text, err := s.retriever.AnalyzeStructure(ctx, path)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "analyze_structure failed", map[string]interface{}{"error": err.Error()})
	}

	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleDependenciesOf(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	path := getStringDefault(args, "path", "")
	if path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{"param": "path"})
	}
	direction := types.Direction(getStringDefault(args, "direction", string(types.Outbound)))

	deps, err := s.graph.DependenciesOf(ctx, path, direction)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "dependencies_of failed", map[string]interface{}{"error": err.Error()})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{"dependencies": deps})), nil
}

// formatJSON formats a map as indented JSON.
func formatJSON(data map[string]interface{}) string {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(b)
}

// getStringDefault extracts a string parameter with a default value.
func getStringDefault(args map[string]interface{}, key, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value.
// MCP arguments decode numbers as float64.
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}
