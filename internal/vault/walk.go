package vault

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

// WalkConcurrency bounds the number of List calls Walk keeps in flight.
const WalkConcurrency = 8

// Walk returns every file below dir, as vault-relative paths in
// lexicographic order.
//
// Directories are listed level by level with at most WalkConcurrency
// concurrent List calls. The first error cancels the walk.
func Walk(ctx context.Context, b Backend, dir string) ([]string, error) {
	var (
		mu    sync.Mutex
		files []string
	)

	level := []string{Join(dir)}
	for len(level) > 0 {
		var next []string

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(WalkConcurrency)
		for _, d := range level {
			g.Go(func() error {
				listing, err := b.List(gctx, d)
				if err != nil {
					return fmt.Errorf("list %q: %w", d, err)
				}

				mu.Lock()
				defer mu.Unlock()
				for _, f := range listing.Files {
					files = append(files, Join(d, f))
				}
				for _, sub := range listing.Folders {
					next = append(next, Join(d, sub))
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		level = next
	}

	slices.Sort(files)
	return files, nil
}
