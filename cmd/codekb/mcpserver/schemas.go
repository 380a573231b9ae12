package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func indexProjectTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_project",
		Description: "Scan the project's source directory, detect changed files, and bring the structural index up to date.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"source_dir": map[string]interface{}{
					"type":        "string",
					"description": "Source directory relative to the project root (default \"src\")",
				},
			},
		},
	}
}

func queryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "query",
		Description: "Embed a natural-language query and return the top-scoring code chunks by cosine similarity.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Natural-language query text",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of hits to return (default 5)",
					"default":     5,
				},
			},
			Required: []string{"text"},
		},
	}
}

func contextReportTool() mcp.Tool {
	return mcp.Tool{
		Name:        "context_report",
		Description: "Produce the formatted context report for a query: top hits grouped by file, with dependencies and skeleton.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Natural-language query text",
				},
			},
			Required: []string{"text"},
		},
	}
}

func analyzeStructureTool() mcp.Tool {
	return mcp.Tool{
		Name:        "analyze_structure",
		Description: "Return the stored skeleton for a single file path, for targeted structural introspection.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Project-relative file path",
				},
			},
			Required: []string{"path"},
		},
	}
}

func dependenciesOfTool() mcp.Tool {
	return mcp.Tool{
		Name:        "dependencies_of",
		Description: "Return the 1-hop dependency edges for a file path, in the given direction.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Project-relative file path",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"description": "Edge direction to follow",
					"enum":        []string{"outbound", "inbound"},
					"default":     "outbound",
				},
			},
			Required: []string{"path"},
		},
	}
}
