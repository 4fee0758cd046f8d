package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	"vaultmcp/internal/vault"

	"github.com/mark3labs/mcp-go/mcp"
)

// jsonResult renders v as indented JSON text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult turns err into a tool error the client can read.
func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}

// dirError names the directory in not-found errors.
func dirError(dir string, err error) *mcp.CallToolResult {
	if errors.Is(err, vault.ErrNotFound) {
		if dir == "" {
			dir = "/"
		}
		return mcp.NewToolResultErrorf("Directory not found: %s", dir)
	}
	return errorResult(err)
}
