package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"vaultmcp/internal/logging"
	"vaultmcp/internal/vault"

	"github.com/stretchr/testify/require"
)

// testVault is the default note set used across tool tests.
func testVault() map[string]string {
	return map[string]string{
		"Cooking/Recipe.md":          "---\ntags: [food]\nserves: 4\n---\n# Pancakes\nFlour\nEggs\nMilk\n",
		"Work/Project Notes.md":      "# Project\nDeadline is Friday\nTODO: budget\n",
		"Work/Meeting 2024-01-01.md": "Attendees: Ana, Ben\nTODO: follow up\n",
		"Daily/2024-01-01.md":        "Slept well\n",
		"Assets/diagram.png":         "PNG",
	}
}

func newTestServer(t *testing.T, files map[string]string) (*Server, *vault.MemoryBackend) {
	t.Helper()
	logger, _ := logging.NewTestLogger()
	backend := vault.NewMemoryBackend(files)
	ix := vault.NewIndex(backend, time.Minute, logger)
	return NewServer(ix, "test", logger), backend
}

type rpcResponse struct {
	Result *struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// callTool sends a tools/call request through the full server, middleware
// included, and returns the text content and error flag.
func callTool(t *testing.T, s *Server, name string, args map[string]any) (string, bool) {
	t.Helper()

	msg, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]any{
			"name":      name,
			"arguments": args,
		},
	})
	require.NoError(t, err)

	resp := s.MCPServer().HandleMessage(context.Background(), msg)
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var r rpcResponse
	require.NoError(t, json.Unmarshal(raw, &r))
	require.Nil(t, r.Error, "unexpected protocol error: %s", raw)
	require.NotNil(t, r.Result)
	require.Len(t, r.Result.Content, 1)
	require.Equal(t, "text", r.Result.Content[0].Type)

	return r.Result.Content[0].Text, r.Result.IsError
}

// callOK calls a tool that must succeed and decodes its JSON result.
func callOK[T any](t *testing.T, s *Server, name string, args map[string]any) T {
	t.Helper()
	text, isErr := callTool(t, s, name, args)
	require.False(t, isErr, "tool %s failed: %s", name, text)

	var out T
	require.NoError(t, json.Unmarshal([]byte(text), &out), text)
	return out
}

// callErr calls a tool that must fail and returns the error text.
func callErr(t *testing.T, s *Server, name string, args map[string]any) string {
	t.Helper()
	text, isErr := callTool(t, s, name, args)
	require.True(t, isErr, "tool %s should fail, got: %s", name, text)
	return text
}

func readBackend(t *testing.T, b vault.Backend, path string) string {
	t.Helper()
	content, err := b.Read(context.Background(), path)
	require.NoError(t, err)
	return content
}
