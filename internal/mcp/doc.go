// Package mcp exposes an Obsidian vault as a Model Context Protocol server
// built on the mcp-go library.
//
// The server registers a fixed set of file tools (find, list, read, write,
// edit, move, delete, directory creation, metadata and full-text search).
// Every file path a client supplies is resolved against the vault index: the
// literal path wins when it exists, otherwise a single exact or contains match
// is accepted and anything else fails with "did you mean" suggestions.
//
// Two transports are available. ServeStdio speaks JSON-RPC over stdin/stdout
// for locally spawned clients, and HTTPServer mounts a stateless streamable
// HTTP endpoint at /mcp next to a /health probe.
//
// Tool failures are reported as MCP tool errors (IsError results) so that
// clients see the message; protocol-level errors are reserved for malformed
// requests.
package mcp
