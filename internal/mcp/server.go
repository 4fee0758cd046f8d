package mcp

import (
	"context"
	"time"

	"vaultmcp/internal/logging"
	"vaultmcp/internal/vault"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ServerName is reported to clients during initialization.
const ServerName = "vaultmcp"

const instructions = `Tools for reading and editing an Obsidian vault.
Paths are relative to the vault root and use "/" separators.
If a file path does not exist, the server tries to resolve it against the vault:
a unique exact or substring match is used, otherwise the error lists similar paths.
Use find_files to locate notes by approximate name and search to grep note contents.`

// Server represents an MCP server instance bound to one vault.
type Server struct {
	index   *vault.Index
	backend vault.Backend
	logger  *logging.AppLogger
	mcp     *server.MCPServer
}

// NewServer creates an MCP server over ix and registers all tools.
func NewServer(ix *vault.Index, version string, logger *logging.AppLogger) *Server {
	if logger == nil {
		logger = logging.GetDefault()
	}

	s := &Server{
		index:   ix,
		backend: ix.Backend(),
		logger:  logger,
	}

	s.mcp = server.NewMCPServer(ServerName, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(instructions),
		server.WithToolHandlerMiddleware(s.logToolCalls),
	)
	s.registerTools()

	logger.Debug("MCP server created", "version", version)
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) registerTools() {
	s.mcp.AddTools(
		server.ServerTool{Tool: findFilesTool(), Handler: s.handleFindFiles},
		server.ServerTool{Tool: listDirTool(), Handler: s.handleListDir},
		server.ServerTool{Tool: listFilesTool(), Handler: s.handleListFiles},
		server.ServerTool{Tool: readFileTool(), Handler: s.handleReadFile},
		server.ServerTool{Tool: getFileInfoTool(), Handler: s.handleGetFileInfo},
		server.ServerTool{Tool: writeFileTool(), Handler: s.handleWriteFile},
		server.ServerTool{Tool: editFileTool(), Handler: s.handleEditFile},
		server.ServerTool{Tool: moveFileTool(), Handler: s.handleMoveFile},
		server.ServerTool{Tool: deleteFileTool(), Handler: s.handleDeleteFile},
		server.ServerTool{Tool: createDirectoryTool(), Handler: s.handleCreateDirectory},
		server.ServerTool{Tool: searchTool(), Handler: s.handleSearch},
	)
}

// logToolCalls records the name, duration and outcome of every tool call.
func (s *Server) logToolCalls(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := s.logger.With("tool", req.Params.Name)
		start := time.Now()
		res, err := next(ctx, req)

		failed := err != nil || (res != nil && res.IsError)
		logger.Debug("Tool call", "duration", time.Since(start), "error", failed)
		if err != nil {
			logger.Warn("Tool call failed", "error", err)
		}
		return res, err
	}
}

// changed drops the index snapshot after a mutation.
func (s *Server) changed(op, path string) {
	s.index.Invalidate()
	s.logger.Info("Vault modified", "op", op, "path", path)
}
