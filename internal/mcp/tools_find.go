package mcp

import (
	"context"

	"vaultmcp/internal/pathmatch"

	"github.com/mark3labs/mcp-go/mcp"
)

func findFilesTool() mcp.Tool {
	return mcp.NewTool("find_files",
		mcp.WithDescription("Find files by name. Tries an exact path match, then a case-insensitive substring match, and with fuzzy=true also typo-tolerant matching."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("File name or partial path, e.g. \"project notes\""),
		),
		mcp.WithBoolean("fuzzy",
			mcp.DefaultBool(false),
			mcp.Description("Enable typo-tolerant matching"),
		),
		mcp.WithNumber("max_results",
			mcp.DefaultNumber(pathmatch.DefaultMaxResults),
			mcp.Description("Maximum number of matches"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

type findFilesResult struct {
	Matches []pathmatch.Match `json:"matches"`
	Count   int               `json:"count"`
}

func (s *Server) handleFindFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return errorResult(err), nil
	}

	matches, err := s.index.Find(ctx, pathmatch.Options{
		Query:      query,
		Fuzzy:      req.GetBool("fuzzy", false),
		MaxResults: req.GetInt("max_results", pathmatch.DefaultMaxResults),
	})
	if err != nil {
		return errorResult(err), nil
	}
	if matches == nil {
		matches = []pathmatch.Match{}
	}

	return jsonResult(findFilesResult{Matches: matches, Count: len(matches)})
}
