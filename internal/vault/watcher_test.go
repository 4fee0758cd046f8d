package vault

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"vaultmcp/internal/logging"

	"github.com/stretchr/testify/require"
)

type countingInvalidator struct {
	n      atomic.Int32
	signal chan struct{}
}

func newCountingInvalidator() *countingInvalidator {
	return &countingInvalidator{signal: make(chan struct{}, 64)}
}

func (c *countingInvalidator) Invalidate() {
	c.n.Add(1)
	select {
	case c.signal <- struct{}{}:
	default:
	}
}

func (c *countingInvalidator) wait(t *testing.T) {
	t.Helper()
	select {
	case <-c.signal:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for invalidation")
	}
}

func (c *countingInvalidator) drain() {
	for {
		select {
		case <-c.signal:
		default:
			return
		}
	}
}

func startWatch(t *testing.T, lb *LocalBackend, inv Invalidator) {
	t.Helper()
	logger, _ := logging.NewTestLogger()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, lb, inv, logger) }()

	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	// Let Watch register its watches before the vault is touched.
	time.Sleep(100 * time.Millisecond)
}

func TestWatchInvalidatesOnChange(t *testing.T) {
	lb, dir := newLocalVault(t, map[string]string{"a.md": ""})
	inv := newCountingInvalidator()
	startWatch(t, lb, inv)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("new"), 0o644))
	inv.wait(t)

	require.NoError(t, os.Remove(filepath.Join(dir, "a.md")))
	inv.wait(t)
}

func TestWatchFollowsNewFolders(t *testing.T) {
	lb, dir := newLocalVault(t, map[string]string{"a.md": ""})
	inv := newCountingInvalidator()
	startWatch(t, lb, inv)

	require.NoError(t, os.Mkdir(filepath.Join(dir, "Fresh"), 0o755))
	inv.wait(t)
	time.Sleep(100 * time.Millisecond)
	inv.drain()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Fresh", "note.md"), []byte("x"), 0o644))
	inv.wait(t)
}
