package mcp

import (
	"context"
	"fmt"
	"strings"

	"vaultmcp/internal/pathmatch"
	"vaultmcp/internal/vault"
	"vaultmcp/pkg/fileops"
)

// suggestionLimit caps both resolution candidates and "did you mean" lists.
const suggestionLimit = 5

// NotFoundError reports a file path that could not be resolved.
type NotFoundError struct {
	Path        string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "File not found: %s", e.Path)
	if len(e.Suggestions) > 0 {
		b.WriteString("\nDid you mean:")
		for _, s := range e.Suggestions {
			b.WriteString("\n  - ")
			b.WriteString(s)
		}
	}
	return b.String()
}

// Unwrap lets errors.Is match vault.ErrNotFound.
func (e *NotFoundError) Unwrap() error {
	return vault.ErrNotFound
}

// resolveMode selects how far resolveFile may stray from the literal path.
type resolveMode int

const (
	// resolveStrict accepts only the literal path. Used before destructive
	// operations.
	resolveStrict resolveMode = iota
	// resolveMatch also accepts a single exact or contains match.
	resolveMatch
)

// ResolvePath resolves raw the way read_file does: the literal path if it
// exists, else a single unambiguous exact or contains match.
func (s *Server) ResolvePath(ctx context.Context, raw string) (string, error) {
	return s.resolveFile(ctx, raw, resolveMatch)
}

// resolveFile maps a client-supplied path to an existing vault file.
//
// The literal path is returned when it exists. In resolveMatch mode the
// index is queried with fuzzy matching on, and a unique exact or contains
// hit is used instead. Every other outcome yields a *NotFoundError carrying
// the closest paths.
func (s *Server) resolveFile(ctx context.Context, raw string, mode resolveMode) (string, error) {
	rel, err := fileops.CleanVaultFile(raw)
	if err != nil {
		return "", err
	}

	ok, err := vault.Exists(ctx, s.backend, rel)
	if err != nil {
		return "", err
	}
	if ok {
		return rel, nil
	}

	if mode == resolveStrict {
		return "", &NotFoundError{Path: rel, Suggestions: s.index.Suggest(ctx, rel, suggestionLimit)}
	}

	matches, err := s.index.Find(ctx, pathmatch.Options{
		Query:      rel,
		Fuzzy:      true,
		MaxResults: suggestionLimit,
	})
	if err != nil {
		return "", err
	}

	if target, ok := soleDirectHit(matches); ok {
		s.logger.Debug("Resolved path", "requested", rel, "resolved", target)
		return target, nil
	}
	return "", &NotFoundError{Path: rel, Suggestions: uniquePaths(matches)}
}

// soleDirectHit returns the only path matched by the exact or contains tier.
func soleDirectHit(matches []pathmatch.Match) (string, bool) {
	var hit string
	for _, m := range matches {
		if m.Type == pathmatch.MatchFuzzy || m.Path == hit {
			continue
		}
		if hit != "" {
			return "", false
		}
		hit = m.Path
	}
	return hit, hit != ""
}

func uniquePaths(matches []pathmatch.Match) []string {
	out := make([]string, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		if !seen[m.Path] {
			seen[m.Path] = true
			out = append(out, m.Path)
		}
	}
	return out
}

// cleanDir normalizes a directory argument; "" and "/" mean the vault root.
func cleanDir(raw string) (string, error) {
	return fileops.CleanVaultPath(raw)
}
