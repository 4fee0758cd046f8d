package vault

import (
	"context"
	"fmt"
	"path/filepath"

	"vaultmcp/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// Invalidator is implemented by *Index.
type Invalidator interface {
	Invalidate()
}

// Watch invalidates ix whenever a visible file or folder in the local vault
// changes. Folders created while watching are watched too. Watch blocks until
// ctx is done.
func Watch(ctx context.Context, lb *LocalBackend, ix Invalidator, logger *logging.AppLogger) error {
	if logger == nil {
		logger = logging.GetDefault()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := addWatches(w, lb, "", logger); err != nil {
		return fmt.Errorf("failed to watch %s: %w", lb.Dir(), err)
	}
	logger.Info("Watching vault for changes", "dir", lb.Dir())

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			handleEvent(w, lb, ix, event, logger)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Vault watcher error", "error", err)
		}
	}
}

// addWatches watches dir and every visible folder below it.
func addWatches(w *fsnotify.Watcher, lb *LocalBackend, dir string, logger *logging.AppLogger) error {
	if err := w.Add(filepath.Join(lb.Dir(), filepath.FromSlash(dir))); err != nil {
		return err
	}

	entries, err := lb.root.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir {
			continue
		}
		if err := addWatches(w, lb, e.Path, logger); err != nil {
			// Keep watching the rest of the vault.
			logger.Warn("Failed to watch folder", "path", e.Path, "error", err)
		}
	}
	return nil
}

func handleEvent(w *fsnotify.Watcher, lb *LocalBackend, ix Invalidator, event fsnotify.Event, logger *logging.AppLogger) {
	rel, err := filepath.Rel(lb.Dir(), event.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)

	isDir := false
	if info, err := lb.root.Stat(rel); err == nil {
		isDir = info.IsDir
	}
	if lb.Hidden(rel, isDir) {
		return
	}

	logger.Debug("Vault changed", "op", event.Op.String(), "path", rel)
	ix.Invalidate()

	if isDir && event.Op&fsnotify.Create != 0 {
		if err := addWatches(w, lb, rel, logger); err != nil {
			logger.Warn("Failed to watch new folder", "path", rel, "error", err)
		}
	}
}
