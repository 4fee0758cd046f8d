package mcp

import (
	"context"
	"errors"
	"strings"
	"time"

	"vaultmcp/internal/vault"

	"github.com/mark3labs/mcp-go/mcp"
)

func readFileTool() mcp.Tool {
	return mcp.NewTool("read_file",
		mcp.WithDescription("Read content of a file"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to file")),
		mcp.WithBoolean("parse_frontmatter",
			mcp.DefaultBool(false),
			mcp.Description("Return YAML frontmatter and body separately"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func getFileInfoTool() mcp.Tool {
	return mcp.NewTool("get_file_info",
		mcp.WithDescription("Get file size and modification time without reading content. Missing files report exists=false."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to file (no trailing slash)")),
		mcp.WithBoolean("include_frontmatter",
			mcp.DefaultBool(false),
			mcp.Description("Also return the note's YAML frontmatter"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

type readFileResult struct {
	Path        string         `json:"path"`
	Content     string         `json:"content"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	Body        *string        `json:"body,omitempty"`
}

func (s *Server) handleReadFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("path")
	if err != nil {
		return errorResult(err), nil
	}

	path, err := s.resolveFile(ctx, raw, resolveMatch)
	if err != nil {
		return errorResult(err), nil
	}

	content, err := s.backend.Read(ctx, path)
	if err != nil {
		return errorResult(err), nil
	}

	res := readFileResult{Path: path, Content: content}
	if req.GetBool("parse_frontmatter", false) {
		matter, body, err := splitFrontmatter(content)
		if err != nil {
			s.logger.Debug("Invalid frontmatter", "path", path, "error", err)
		}
		res.Frontmatter = matter
		res.Body = &body
	}
	return jsonResult(res)
}

type fileInfoResult struct {
	Path        string         `json:"path"`
	Size        int64          `json:"size"`
	Modified    string         `json:"modified"`
	Exists      bool           `json:"exists"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	Suggestions []string       `json:"suggestions,omitempty"`
}

func (s *Server) handleGetFileInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("path")
	if err != nil {
		return errorResult(err), nil
	}
	if strings.HasSuffix(strings.TrimSpace(raw), "/") {
		return mcp.NewToolResultError("Path must be a file (no trailing slash). Use list_dir for directories."), nil
	}

	path, err := s.resolveFile(ctx, raw, resolveMatch)
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return jsonResult(fileInfoResult{Path: nf.Path, Suggestions: nf.Suggestions})
	}
	if err != nil {
		return errorResult(err), nil
	}

	info, err := s.backend.Stat(ctx, path)
	if errors.Is(err, vault.ErrNotFound) {
		return jsonResult(fileInfoResult{Path: path})
	}
	if err != nil {
		return errorResult(err), nil
	}

	res := fileInfoResult{
		Path:     path,
		Size:     info.Size,
		Modified: info.Modified.UTC().Format(time.RFC3339),
		Exists:   true,
	}

	if req.GetBool("include_frontmatter", false) {
		content, err := s.backend.Read(ctx, path)
		if err != nil {
			return errorResult(err), nil
		}
		if matter, _, err := splitFrontmatter(content); err == nil {
			res.Frontmatter = matter
		}
	}
	return jsonResult(res)
}
