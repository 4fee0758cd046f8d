package main

import (
	"encoding/json"
	"fmt"
	"io"

	"vaultmcp/internal/pathmatch"
	"vaultmcp/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

type findOptions struct {
	max     int
	noFuzzy bool
	json    bool
}

func newFindCmd(a *app) *cobra.Command {
	var opts findOptions

	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Find vault files by path",
		Long: `Search vault file paths the same way the find_files tool does: an exact
path wins outright, then case- and punctuation-insensitive substring matches,
then fuzzy matches for typos.`,
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

			matches, err := v.index.Find(cmd.Context(), pathmatch.Options{
				Query:      args[0],
				MaxResults: opts.max,
				Fuzzy:      !opts.noFuzzy,
			})
			if err != nil {
				return err
			}

			if opts.json {
				return writeJSON(cmd.OutOrStdout(), matches)
			}
			return printMatches(cmd.OutOrStdout(), matches)
		},
	}

	cmd.Flags().IntVarP(&opts.max, "max", "n", pathmatch.DefaultMaxResults, "maximum number of results")
	cmd.Flags().BoolVar(&opts.noFuzzy, "no-fuzzy", false, "disable fuzzy matching")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print matches as JSON")

	return cmd
}

func writeJSON(w io.Writer, matches []pathmatch.Match) error {
	if matches == nil {
		matches = []pathmatch.Match{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(matches)
}

func matchBadge(t pathmatch.MatchType) lipgloss.Style {
	switch t {
	case pathmatch.MatchExact:
		return styles.ExactBadge
	case pathmatch.MatchContains:
		return styles.ContainsBadge
	default:
		return styles.FuzzyBadge
	}
}

func printMatches(w io.Writer, matches []pathmatch.Match) error {
	if len(matches) == 0 {
		_, err := fmt.Fprintln(w, "No matches.")
		return err
	}
	for _, m := range matches {
		_, err := fmt.Fprintf(w, "%s %s %s\n",
			matchBadge(m.Type).Render(fmt.Sprintf("%-8s", m.Type)),
			styles.PathStyle.Render(m.Path),
			styles.ScoreStyle.Render(fmt.Sprintf("%.2f", m.Score)),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
