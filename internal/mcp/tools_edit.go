package mcp

import (
	"context"
	"fmt"
	"strings"

	"vaultmcp/internal/vault"
	"vaultmcp/pkg/fileops"

	"github.com/mark3labs/mcp-go/mcp"
)

func editFileTool() mcp.Tool {
	return mcp.NewTool("edit_file",
		mcp.WithDescription("Replace text in a file. old_string must match exactly and be unique unless replace_all is set."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to file")),
		mcp.WithString("old_string", mcp.Required(), mcp.Description("Exact text to replace")),
		mcp.WithString("new_string", mcp.Required(), mcp.Description("Replacement text")),
		mcp.WithBoolean("replace_all",
			mcp.DefaultBool(false),
			mcp.Description("Replace every occurrence (default: false)"),
		),
		mcp.WithDestructiveHintAnnotation(true),
	)
}

func moveFileTool() mcp.Tool {
	return mcp.NewTool("move_file",
		mcp.WithDescription("Move or rename a file"),
		mcp.WithString("source", mcp.Required(), mcp.Description("Source path")),
		mcp.WithString("destination", mcp.Required(), mcp.Description("Destination path")),
		mcp.WithBoolean("overwrite",
			mcp.DefaultBool(false),
			mcp.Description("Overwrite if exists (default: false)"),
		),
		mcp.WithDestructiveHintAnnotation(true),
	)
}

func deleteFileTool() mcp.Tool {
	return mcp.NewTool("delete_file",
		mcp.WithDescription("Delete a file (requires confirm: true)"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to file")),
		mcp.WithBoolean("confirm", mcp.Required(), mcp.Description("Confirm deletion (required: must be true)")),
		mcp.WithDestructiveHintAnnotation(true),
	)
}

type editFileResult struct {
	Path                string `json:"path"`
	OccurrencesReplaced int    `json:"occurrences_replaced"`
	Message             string `json:"message"`
}

func (s *Server) handleEditFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("path")
	if err != nil {
		return errorResult(err), nil
	}
	oldString, err := req.RequireString("old_string")
	if err != nil {
		return errorResult(err), nil
	}
	newString, err := req.RequireString("new_string")
	if err != nil {
		return errorResult(err), nil
	}
	if oldString == "" {
		return mcp.NewToolResultError("old_string must not be empty"), nil
	}
	replaceAll := req.GetBool("replace_all", false)

	path, err := s.resolveFile(ctx, raw, resolveMatch)
	if err != nil {
		return errorResult(err), nil
	}

	content, err := s.backend.Read(ctx, path)
	if err != nil {
		return errorResult(err), nil
	}

	occurrences := strings.Count(content, oldString)
	switch {
	case occurrences == 0:
		return mcp.NewToolResultErrorf("old_string not found in %s. Make sure it matches exactly (including whitespace).", path), nil
	case occurrences > 1 && !replaceAll:
		return mcp.NewToolResultErrorf("Found %d occurrences of old_string. Either:\n"+
			"1. Set replace_all=true to replace all %d occurrences, OR\n"+
			"2. Include more context in old_string to make it unique", occurrences, occurrences), nil
	}

	replaced := 1
	if replaceAll {
		replaced = occurrences
		content = strings.ReplaceAll(content, oldString, newString)
	} else {
		content = strings.Replace(content, oldString, newString, 1)
	}

	if err := s.backend.Write(ctx, path, content); err != nil {
		return errorResult(err), nil
	}

	s.changed("edit", path)
	return jsonResult(editFileResult{
		Path:                path,
		OccurrencesReplaced: replaced,
		Message:             fmt.Sprintf("Successfully replaced %d occurrence(s)", replaced),
	})
}

type moveFileResult struct {
	OldPath string `json:"old_path"`
	NewPath string `json:"new_path"`
	Message string `json:"message"`
}

func (s *Server) handleMoveFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawSrc, err := req.RequireString("source")
	if err != nil {
		return errorResult(err), nil
	}
	rawDst, err := req.RequireString("destination")
	if err != nil {
		return errorResult(err), nil
	}

	src, err := s.resolveFile(ctx, rawSrc, resolveStrict)
	if err != nil {
		return errorResult(err), nil
	}
	dst, err := fileops.CleanVaultFile(rawDst)
	if err != nil {
		return errorResult(err), nil
	}
	if src == dst {
		return mcp.NewToolResultError("source and destination are the same file"), nil
	}

	exists, err := vault.Exists(ctx, s.backend, dst)
	if err != nil {
		return errorResult(err), nil
	}
	if exists && !req.GetBool("overwrite", false) {
		return mcp.NewToolResultErrorf("Destination file already exists: %s. Use overwrite=true to replace.", dst), nil
	}

	content, err := s.backend.Read(ctx, src)
	if err != nil {
		return errorResult(err), nil
	}
	if err := s.backend.Write(ctx, dst, content); err != nil {
		return errorResult(err), nil
	}
	if err := s.backend.Delete(ctx, src); err != nil {
		s.changed("move", dst)
		return mcp.NewToolResultErrorf("copied to %s but failed to remove %s: %v", dst, src, err), nil
	}

	s.changed("move", dst)
	return jsonResult(moveFileResult{OldPath: src, NewPath: dst, Message: "File moved successfully"})
}

type deleteFileResult struct {
	DeletedPath string `json:"deleted_path"`
	Message     string `json:"message"`
}

func (s *Server) handleDeleteFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("path")
	if err != nil {
		return errorResult(err), nil
	}
	if !req.GetBool("confirm", false) {
		return mcp.NewToolResultError("confirm=true is required to delete a file (safety check)"), nil
	}

	path, err := s.resolveFile(ctx, raw, resolveStrict)
	if err != nil {
		return errorResult(err), nil
	}

	if err := s.backend.Delete(ctx, path); err != nil {
		return errorResult(err), nil
	}

	s.changed("delete", path)
	return jsonResult(deleteFileResult{DeletedPath: path, Message: "File deleted successfully"})
}
