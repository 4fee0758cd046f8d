package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mark3labs/mcp-go/mcp"
)

func listDirTool() mcp.Tool {
	return mcp.NewTool("list_dir",
		mcp.WithDescription("List subdirectories in a path"),
		mcp.WithString("path", mcp.Description("Path to list (optional, default: root)")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func listFilesTool() mcp.Tool {
	return mcp.NewTool("list_files",
		mcp.WithDescription("List files in a directory"),
		mcp.WithString("path", mcp.Description("Path to list (optional, default: root)")),
		mcp.WithString("extension", mcp.Description("Filter by extension (e.g., \"md\")")),
		mcp.WithString("pattern", mcp.Description("Filter file names by glob (e.g., \"2024-*.md\")")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func (s *Server) handleListDir(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := cleanDir(req.GetString("path", ""))
	if err != nil {
		return errorResult(err), nil
	}

	listing, err := s.backend.List(ctx, dir)
	if err != nil {
		return dirError(dir, err), nil
	}

	dirs := listing.Folders
	if dirs == nil {
		dirs = []string{}
	}
	return jsonResult(map[string]any{"directories": dirs})
}

func (s *Server) handleListFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := cleanDir(req.GetString("path", ""))
	if err != nil {
		return errorResult(err), nil
	}

	ext := req.GetString("extension", "")
	pattern := req.GetString("pattern", "")
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return errorResult(fmt.Errorf("invalid pattern %q", pattern)), nil
	}

	listing, err := s.backend.List(ctx, dir)
	if err != nil {
		return dirError(dir, err), nil
	}

	files := make([]string, 0, len(listing.Files))
	for _, name := range listing.Files {
		if ext != "" && !strings.HasSuffix(name, ext) {
			continue
		}
		if pattern != "" {
			if ok, _ := doublestar.Match(pattern, name); !ok {
				continue
			}
		}
		files = append(files, name)
	}

	return jsonResult(map[string]any{"files": files})
}
