package main

import (
	"context"
	"fmt"
	"io"

	"vaultmcp/internal/mcp"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the vault over MCP streamable HTTP",
		Long:  "Start the HTTP transport. MCP clients connect to http://<host>:<port>" + mcp.EndpointPath + "; GET /health reports liveness.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd.Context(), cmd.ErrOrStderr())
		},
	}
}

func (a *app) runServe(ctx context.Context, status io.Writer) error {
	cfg, err := a.resolveConfig()
	if err != nil {
		return err
	}

	v, err := a.openVault(cfg)
	if err != nil {
		return err
	}
	defer v.Close()

	srv := mcp.NewServer(v.index, version, a.logger)
	httpSrv, err := mcp.NewHTTPServer(srv, mcp.HTTPConfig{
		Addr:        cfg.Addr(),
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(status, "vaultmcp %s serving MCP on http://%s%s\n", version, cfg.Addr(), mcp.EndpointPath)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpSrv.Start(gctx) })
	g.Go(func() error { return a.watch(gctx, v) })
	return g.Wait()
}

func newStdioCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stdio",
		Short: "Serve the vault over MCP stdio",
		Long:  "Speak MCP over stdin/stdout, for clients that launch the server as a subprocess. Logs go to stderr.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runStdio(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func (a *app) runStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	cfg, err := a.resolveConfig()
	if err != nil {
		return err
	}

	v, err := a.openVault(cfg)
	if err != nil {
		return err
	}
	defer v.Close()

	srv := mcp.NewServer(v.index, version, a.logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.watch(gctx, v) })
	g.Go(func() error {
		// Input closed: stop the watcher too.
		defer cancel()
		return srv.ServeStdio(gctx, in, out)
	})
	return g.Wait()
}
