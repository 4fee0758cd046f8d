package vault

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"vaultmcp/internal/logging"
	"vaultmcp/internal/pathmatch"

	"golang.org/x/sync/singleflight"
)

// Index caches the vault's file list and answers path queries against it.
//
// The snapshot is reused for ttl after a walk; a ttl of zero walks on every
// call. Concurrent refreshes are coalesced into one walk. Invalidate drops
// the snapshot so the next query sees the backend's current state.
type Index struct {
	backend Backend
	ttl     time.Duration
	logger  *logging.AppLogger
	now     func() time.Time

	mu         sync.RWMutex
	files      []string
	loadedAt   time.Time
	valid      bool
	generation uint64

	group singleflight.Group
}

// NewIndex creates an empty index over b.
func NewIndex(b Backend, ttl time.Duration, logger *logging.AppLogger) *Index {
	if logger == nil {
		logger = logging.GetDefault()
	}
	return &Index{
		backend: b,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// Backend returns the backend the index walks.
func (ix *Index) Backend() Backend {
	return ix.backend
}

// Files returns a copy of the cached file list, refreshing it when stale.
func (ix *Index) Files(ctx context.Context) ([]string, error) {
	ix.mu.RLock()
	if ix.valid && ix.ttl > 0 && ix.now().Sub(ix.loadedAt) < ix.ttl {
		files := slices.Clone(ix.files)
		ix.mu.RUnlock()
		return files, nil
	}
	gen := ix.generation
	ix.mu.RUnlock()

	// Keyed by generation so callers arriving after Invalidate never join a
	// walk that started before it. The walk is shared, so it runs detached
	// from any one caller's cancellation.
	ch := ix.group.DoChan(strconv.FormatUint(gen, 10), func() (any, error) {
		return ix.refresh(context.WithoutCancel(ctx), gen)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]string)), nil
	}
}

func (ix *Index) refresh(ctx context.Context, gen uint64) ([]string, error) {
	start := time.Now()
	files, err := Walk(ctx, ix.backend, "")
	if err != nil {
		ix.logger.Warn("Vault walk failed", "error", err)
		return nil, err
	}
	ix.logger.LogPerformance("vault walk", start)
	ix.logger.Debug("Vault index refreshed", "files", len(files))

	ix.mu.Lock()
	if ix.generation == gen {
		ix.files = files
		ix.loadedAt = ix.now()
		ix.valid = true
	}
	ix.mu.Unlock()

	return files, nil
}

// Invalidate discards the cached snapshot.
func (ix *Index) Invalidate() {
	ix.mu.Lock()
	ix.valid = false
	ix.files = nil
	ix.generation++
	ix.mu.Unlock()
}

// Find resolves opts.Query against the current file list.
func (ix *Index) Find(ctx context.Context, opts pathmatch.Options) ([]pathmatch.Match, error) {
	files, err := ix.Files(ctx)
	if err != nil {
		return nil, err
	}
	return pathmatch.Search(opts, files), nil
}

// Suggest returns up to n paths resembling path, for "not found" messages.
// Lookup failures yield no suggestions.
func (ix *Index) Suggest(ctx context.Context, path string, n int) []string {
	matches, err := ix.Find(ctx, pathmatch.Options{Query: path, MaxResults: n, Fuzzy: true})
	if err != nil {
		return nil
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if !slices.Contains(out, m.Path) {
			out = append(out, m.Path)
		}
	}
	return out
}
