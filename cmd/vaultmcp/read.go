package main

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"vaultmcp/internal/mcp"
	"vaultmcp/internal/tui/styles"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

const readWrapWidth = 100

func newReadCmd(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "read <path>",
		Short: "Print a vault file",
		Long: `Print a vault file. Partial or misspelled paths are resolved like the
read_file tool does; ambiguous ones fail with suggestions. Markdown is
rendered when stdout is a color terminal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.resolveConfig()
			if err != nil {
				return err
			}
			v, err := a.openVault(cfg)
			if err != nil {
				return err
			}
			defer v.Close()

			ctx := cmd.Context()
			srv := mcp.NewServer(v.index, version, a.logger)
			resolved, err := srv.ResolvePath(ctx, args[0])
			if err != nil {
				return err
			}
			content, err := v.index.Backend().Read(ctx, resolved)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if raw || !isMarkdown(resolved) || !colorTerminal(out) {
				_, err = io.WriteString(out, content)
				return err
			}

			rendered, err := renderMarkdown(content)
			if err != nil {
				a.logger.Warn("Markdown rendering failed, printing raw", "error", err)
				_, err = io.WriteString(out, content)
				return err
			}
			_, err = fmt.Fprintf(out, "%s\n%s", styles.TitleStyle.Render(resolved), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the file as stored, without rendering")
	return cmd
}

func isMarkdown(p string) bool {
	return strings.EqualFold(path.Ext(p), ".md")
}

func colorTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return termenv.NewOutput(f).ColorProfile() != termenv.Ascii
}

func renderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(detectGlamourStyle(50*time.Millisecond)),
		glamour.WithWordWrap(readWrapWidth),
	)
	if err != nil {
		return "", err
	}
	return r.Render(content)
}

// detectGlamourStyle honours GLAMOUR_STYLE and otherwise asks the terminal
// for its background, falling back to dark when it does not answer in time.
func detectGlamourStyle(timeout time.Duration) string {
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" && style != "auto" {
		return style
	}

	ch := make(chan string, 1)
	go func() {
		if termenv.NewOutput(os.Stdout).HasDarkBackground() {
			ch <- "dark"
			return
		}
		ch <- "light"
	}()

	select {
	case style := <-ch:
		return style
	case <-time.After(timeout):
		return "dark"
	}
}
