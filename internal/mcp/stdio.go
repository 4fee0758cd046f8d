package mcp

import (
	"context"
	"errors"
	"io"

	"github.com/mark3labs/mcp-go/server"
)

// ServeStdio speaks MCP over in and out until ctx is cancelled or in is
// exhausted. Nothing but protocol messages may be written to out, so all
// logging goes through the server's logger.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(s.logger.StandardLog())

	s.logger.Info("Stdio transport ready")
	err := stdio.Listen(ctx, in, out)
	if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
