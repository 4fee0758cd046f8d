package mcp

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"vaultmcp/internal/vault"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/sync/errgroup"
)

const (
	defaultSearchResults = 100
	searchContextLines   = 2
	noteExtension        = ".md"
)

func searchTool() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription("Search for text across all notes"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
		mcp.WithBoolean("case_sensitive",
			mcp.DefaultBool(false),
			mcp.Description("Case sensitive search (default: false)"),
		),
		mcp.WithBoolean("regex",
			mcp.DefaultBool(false),
			mcp.Description("Use regex pattern (default: false)"),
		),
		mcp.WithNumber("max_results",
			mcp.DefaultNumber(defaultSearchResults),
			mcp.Description("Maximum results (default: 100)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

// SearchMatch is one matching line with its surrounding context.
type SearchMatch struct {
	File          string   `json:"file"`
	Line          int      `json:"line"`
	Content       string   `json:"content"`
	ContextBefore []string `json:"context_before"`
	ContextAfter  []string `json:"context_after"`
}

type searchResult struct {
	Matches   []SearchMatch `json:"matches"`
	Count     int           `json:"count"`
	Truncated bool          `json:"truncated"`
}

// lineMatcher compiles the query into a per-line predicate.
func lineMatcher(query string, caseSensitive, useRegex bool) (func(string) bool, error) {
	if query == "" {
		return nil, errors.New("query must not be empty")
	}

	if useRegex {
		expr := query
		if !caseSensitive {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid regex: %w", err)
		}
		return re.MatchString, nil
	}

	if caseSensitive {
		return func(line string) bool { return strings.Contains(line, query) }, nil
	}
	lower := strings.ToLower(query)
	return func(line string) bool { return strings.Contains(strings.ToLower(line), lower) }, nil
}

// searchContent returns every line of content accepted by match.
func searchContent(file, content string, match func(string) bool) []SearchMatch {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	var out []SearchMatch
	for i, line := range lines {
		if !match(line) {
			continue
		}
		before := lines[max(0, i-searchContextLines):i]
		after := lines[i+1 : min(len(lines), i+1+searchContextLines)]
		out = append(out, SearchMatch{
			File:          file,
			Line:          i + 1,
			Content:       line,
			ContextBefore: append([]string{}, before...),
			ContextAfter:  append([]string{}, after...),
		})
	}
	return out
}

func (s *Server) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return errorResult(err), nil
	}
	match, err := lineMatcher(query, req.GetBool("case_sensitive", false), req.GetBool("regex", false))
	if err != nil {
		return errorResult(err), nil
	}
	limit := req.GetInt("max_results", defaultSearchResults)
	if limit <= 0 {
		limit = defaultSearchResults
	}

	files, err := s.index.Files(ctx)
	if err != nil {
		return errorResult(err), nil
	}

	notes := make([]string, 0, len(files))
	for _, f := range files {
		if strings.HasSuffix(strings.ToLower(f), noteExtension) {
			notes = append(notes, f)
		}
	}

	perFile := make([][]SearchMatch, len(notes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(vault.WalkConcurrency)
	for i, note := range notes {
		g.Go(func() error {
			content, err := s.backend.Read(gctx, note)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.logger.Debug("Skipping unreadable note", "path", note, "error", err)
				return nil
			}
			perFile[i] = searchContent(note, content, match)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return errorResult(err), nil
	}

	res := searchResult{Matches: []SearchMatch{}}
	for _, matches := range perFile {
		for _, m := range matches {
			if len(res.Matches) == limit {
				res.Truncated = true
				break
			}
			res.Matches = append(res.Matches, m)
		}
	}
	res.Count = len(res.Matches)

	s.logger.Debug("Search completed", "query", query, "notes", len(notes), "matches", res.Count)
	return jsonResult(res)
}
