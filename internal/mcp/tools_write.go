package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vaultmcp/internal/vault"
	"vaultmcp/pkg/fileops"

	"github.com/mark3labs/mcp-go/mcp"
)

// Write modes accepted by write_file.
const (
	ModeCreate    = "create"
	ModeOverwrite = "overwrite"
	ModeAppend    = "append"
)

func writeFileTool() mcp.Tool {
	return mcp.NewTool("write_file",
		mcp.WithDescription("Create or update a file"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to file")),
		mcp.WithString("content", mcp.Required(), mcp.Description("File content")),
		mcp.WithString("mode",
			mcp.Enum(ModeCreate, ModeOverwrite, ModeAppend),
			mcp.DefaultString(ModeCreate),
			mcp.Description("Write mode (default: create)"),
		),
		mcp.WithDestructiveHintAnnotation(true),
	)
}

func createDirectoryTool() mcp.Tool {
	return mcp.NewTool("create_directory",
		mcp.WithDescription("Create a directory, including missing parents"),
		mcp.WithString("path", mcp.Required(), mcp.Description(`Directory path without trailing slash (e.g., "Projects/2024")`)),
		mcp.WithDestructiveHintAnnotation(false),
	)
}

type writeFileResult struct {
	Path    string `json:"path"`
	Mode    string `json:"mode"`
	Message string `json:"message"`
}

func (s *Server) handleWriteFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("path")
	if err != nil {
		return errorResult(err), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return errorResult(err), nil
	}
	mode := req.GetString("mode", ModeCreate)

	var path string
	switch mode {
	case ModeCreate:
		if path, err = fileops.CleanVaultFile(raw); err != nil {
			return errorResult(err), nil
		}
		exists, statErr := vault.Exists(ctx, s.backend, path)
		if statErr != nil {
			return errorResult(statErr), nil
		}
		if exists {
			return mcp.NewToolResultErrorf("File already exists: %s. Use mode=overwrite to replace it or mode=append to add to it.", path), nil
		}
		err = s.backend.Write(ctx, path, content)
	case ModeOverwrite:
		if path, err = fileops.CleanVaultFile(raw); err != nil {
			return errorResult(err), nil
		}
		err = s.backend.Write(ctx, path, content)
	case ModeAppend:
		if path, err = s.resolveFile(ctx, raw, resolveMatch); err != nil {
			return errorResult(err), nil
		}
		err = s.backend.Append(ctx, path, content)
	default:
		return mcp.NewToolResultErrorf("invalid mode %q: must be one of create, overwrite, append", mode), nil
	}
	if err != nil {
		return errorResult(err), nil
	}

	s.changed("write", path)
	return jsonResult(writeFileResult{
		Path:    path,
		Mode:    mode,
		Message: fmt.Sprintf("File written successfully (%s)", mode),
	})
}

type createDirectoryResult struct {
	Path    string `json:"path"`
	Created bool   `json:"created"`
	Message string `json:"message"`
}

func (s *Server) handleCreateDirectory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("path")
	if err != nil {
		return errorResult(err), nil
	}
	if strings.HasSuffix(strings.TrimSpace(raw), "/") {
		return mcp.NewToolResultError(`Path must not end with / (use "Notes" not "Notes/")`), nil
	}

	dir, err := cleanDir(raw)
	if err != nil {
		return errorResult(err), nil
	}
	if dir == "" {
		return mcp.NewToolResultError("path parameter is required"), nil
	}

	created, err := s.backend.Mkdir(ctx, dir)
	if errors.Is(err, vault.ErrExists) {
		return mcp.NewToolResultErrorf("A file already exists at %s", dir), nil
	}
	if err != nil {
		return errorResult(err), nil
	}

	msg := fmt.Sprintf("Directory already exists: %s/", dir)
	if created {
		msg = fmt.Sprintf("Directory created: %s/", dir)
		s.changed("mkdir", dir)
	}
	return jsonResult(createDirectoryResult{Path: dir, Created: created, Message: msg})
}
