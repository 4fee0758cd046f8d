// Package obsidian is a client for the Obsidian Local REST API plugin.
package obsidian

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vaultmcp/internal/logging"
	"vaultmcp/internal/vault"
)

const (
	contentTypeMarkdown = "text/markdown"
	acceptNoteJSON      = "application/vnd.olrapi.note+json"

	// keepFile marks folders created through Mkdir, since the API has no
	// folder endpoint and only lists folders that contain files.
	keepFile = ".keep"
)

// Client talks to the Local REST API. It implements vault.Backend.
type Client struct {
	baseURL *url.URL
	apiKey  string
	http    *http.Client
	logger  *logging.AppLogger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger for request tracing.
func WithLogger(l *logging.AppLogger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the API at baseURL, authenticating with
// apiKey. Requests time out after timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", baseURL)
	}

	c := &Client{
		baseURL: u,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logging.GetDefault(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ vault.Backend = (*Client)(nil)

// vaultURL builds /vault/<path>, escaping each segment. A trailing slash
// addresses a directory.
func (c *Client) vaultURL(p string, dir bool) string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, url.PathEscape(s))
		}
	}

	target := strings.TrimRight(c.baseURL.String(), "/") + "/vault/" + strings.Join(segs, "/")
	if dir && len(segs) > 0 {
		target += "/"
	}
	return target
}

func (c *Client) do(ctx context.Context, method, target string, body []byte, header http.Header) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	for k, v := range header {
		req.Header[k] = v
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	c.logger.Debug("Obsidian API request",
		"method", method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, readAPIError(resp)
	}
	return resp, nil
}

// doDiscard performs a request whose response body is not needed.
func (c *Client) doDiscard(ctx context.Context, method, target string, body []byte, header http.Header) error {
	resp, err := c.do(ctx, method, target, body, header)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// Ping checks that the API is reachable and the key is accepted.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, strings.TrimRight(c.baseURL.String(), "/")+"/", nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var status struct {
		Status        string `json:"status"`
		Authenticated bool   `json:"authenticated"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return fmt.Errorf("unexpected response from %s: %w", c.baseURL, err)
	}
	if !status.Authenticated {
		return &APIError{StatusCode: http.StatusUnauthorized, Message: "API key was not accepted"}
	}
	return nil
}

// List returns the files and folders directly inside dir. Dotfiles such as
// folder markers are left out.
func (c *Client) List(ctx context.Context, dir string) (vault.Listing, error) {
	resp, err := c.do(ctx, http.MethodGet, c.vaultURL(dir, true), nil, http.Header{"Accept": {"application/json"}})
	if err != nil {
		return vault.Listing{}, wrapNotFound(err, dir)
	}
	defer resp.Body.Close()

	var payload struct {
		Files []string `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return vault.Listing{}, fmt.Errorf("failed to decode listing of %q: %w", dir, err)
	}

	listing := vault.Listing{Files: []string{}, Folders: []string{}}
	for _, name := range payload.Files {
		if folder, ok := strings.CutSuffix(name, "/"); ok {
			if !strings.HasPrefix(folder, ".") {
				listing.Folders = append(listing.Folders, folder)
			}
			continue
		}
		if !strings.HasPrefix(name, ".") {
			listing.Files = append(listing.Files, name)
		}
	}
	return listing, nil
}

func (c *Client) Read(ctx context.Context, path string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, c.vaultURL(path, false), nil, http.Header{"Accept": {contentTypeMarkdown}})
	if err != nil {
		return "", wrapNotFound(err, path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", path, err)
	}
	return string(body), nil
}

func (c *Client) Write(ctx context.Context, path, content string) error {
	err := c.doDiscard(ctx, http.MethodPut, c.vaultURL(path, false), []byte(content),
		http.Header{"Content-Type": {contentTypeMarkdown}})
	return wrapNotFound(err, path)
}

// Append adds content to the end of an existing note. The API would create
// a missing file, so existence is checked first.
func (c *Client) Append(ctx context.Context, path, content string) error {
	if _, err := c.Stat(ctx, path); err != nil {
		return err
	}
	err := c.doDiscard(ctx, http.MethodPost, c.vaultURL(path, false), []byte(content),
		http.Header{"Content-Type": {contentTypeMarkdown}})
	return wrapNotFound(err, path)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return wrapNotFound(c.doDiscard(ctx, http.MethodDelete, c.vaultURL(path, false), nil, nil), path)
}

// NoteJSON is the note representation returned for the olrapi note media type.
type NoteJSON struct {
	Content     string         `json:"content"`
	Frontmatter map[string]any `json:"frontmatter"`
	Path        string         `json:"path"`
	Tags        []string       `json:"tags"`
	Stat        struct {
		Ctime int64 `json:"ctime"`
		Mtime int64 `json:"mtime"`
		Size  int64 `json:"size"`
	} `json:"stat"`
}

// Note fetches a note with its metadata.
func (c *Client) Note(ctx context.Context, path string) (NoteJSON, error) {
	resp, err := c.do(ctx, http.MethodGet, c.vaultURL(path, false), nil, http.Header{"Accept": {acceptNoteJSON}})
	if err != nil {
		return NoteJSON{}, wrapNotFound(err, path)
	}
	defer resp.Body.Close()

	var note NoteJSON
	if err := json.NewDecoder(resp.Body).Decode(&note); err != nil {
		return NoteJSON{}, fmt.Errorf("failed to decode metadata of %q: %w", path, err)
	}
	return note, nil
}

func (c *Client) Stat(ctx context.Context, path string) (vault.FileInfo, error) {
	note, err := c.Note(ctx, path)
	if err != nil {
		return vault.FileInfo{}, err
	}

	info := vault.FileInfo{Path: vault.Join(path), Size: note.Stat.Size}
	if note.Path != "" {
		info.Path = note.Path
	}
	if note.Stat.Mtime > 0 {
		info.Modified = time.UnixMilli(note.Stat.Mtime).UTC()
	}
	return info, nil
}

// Mkdir creates dir by writing a marker file into it, unless the folder is
// already listed.
func (c *Client) Mkdir(ctx context.Context, dir string) (bool, error) {
	dir = vault.Join(dir)
	if dir == "" {
		return false, nil
	}

	_, err := c.List(ctx, dir)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, vault.ErrNotFound):
		return false, err
	}

	if err := c.Write(ctx, vault.Join(dir, keepFile), ""); err != nil {
		return false, fmt.Errorf("failed to create directory %q: %w", dir, err)
	}
	return true, nil
}

func wrapNotFound(err error, path string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, vault.ErrNotFound) {
		return fmt.Errorf("%q: %w", vault.Join(path), err)
	}
	return err
}
