package vault

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"
	"time"
)

// MemoryBackend is an in-memory Backend. It backs tests and dry runs; folders
// exist implicitly as prefixes of file paths or explicitly through Mkdir.
type MemoryBackend struct {
	mu      sync.RWMutex
	files   map[string]memFile
	folders map[string]bool
	now     func() time.Time
	calls   int
}

type memFile struct {
	content  string
	modified time.Time
}

// NewMemoryBackend seeds a backend with path → content pairs.
func NewMemoryBackend(files map[string]string) *MemoryBackend {
	m := &MemoryBackend{
		files:   make(map[string]memFile, len(files)),
		folders: make(map[string]bool),
		now:     time.Now,
	}
	for p, c := range files {
		m.files[Join(p)] = memFile{content: c, modified: m.now()}
	}
	return m
}

func (m *MemoryBackend) List(ctx context.Context, dir string) (Listing, error) {
	if err := ctx.Err(); err != nil {
		return Listing{}, err
	}
	dir = Join(dir)

	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}

	files := []string{}
	folders := []string{}
	found := dir == "" || m.folders[dir]
	addFolder := func(name string) {
		if !slices.Contains(folders, name) {
			folders = append(folders, name)
		}
	}

	for p := range m.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		found = true
		rest := strings.TrimPrefix(p, prefix)
		if head, _, ok := strings.Cut(rest, "/"); ok {
			addFolder(head)
		} else {
			files = append(files, rest)
		}
	}
	for f := range m.folders {
		if rest, ok := strings.CutPrefix(f, prefix); ok && rest != "" {
			head, _, _ := strings.Cut(rest, "/")
			addFolder(head)
		}
	}

	if !found {
		return Listing{}, fmt.Errorf("%q: %w", dir, ErrNotFound)
	}
	slices.Sort(files)
	slices.Sort(folders)
	return Listing{Files: files, Folders: folders}, nil
}

// ListCalls reports how many times List has been called.
func (m *MemoryBackend) ListCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

func (m *MemoryBackend) Read(ctx context.Context, p string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[Join(p)]
	if !ok {
		return "", fmt.Errorf("%q: %w", p, ErrNotFound)
	}
	return f.content, nil
}

func (m *MemoryBackend) Write(ctx context.Context, p, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[Join(p)] = memFile{content: content, modified: m.now()}
	return nil
}

func (m *MemoryBackend) Append(ctx context.Context, p, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[Join(p)]
	if !ok {
		return fmt.Errorf("%q: %w", p, ErrNotFound)
	}
	m.files[Join(p)] = memFile{content: f.content + content, modified: m.now()}
	return nil
}

func (m *MemoryBackend) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[Join(p)]; !ok {
		return fmt.Errorf("%q: %w", p, ErrNotFound)
	}
	delete(m.files, Join(p))
	return nil
}

func (m *MemoryBackend) Stat(ctx context.Context, p string) (FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return FileInfo{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[Join(p)]
	if !ok {
		return FileInfo{}, fmt.Errorf("%q: %w", p, ErrNotFound)
	}
	return FileInfo{Path: Join(p), Size: int64(len(f.content)), Modified: f.modified}, nil
}

func (m *MemoryBackend) Mkdir(ctx context.Context, dir string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	dir = Join(dir)
	if dir == "" {
		return false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[dir]; ok {
		return false, fmt.Errorf("%q: %w", dir, ErrExists)
	}
	if m.folders[dir] {
		return false, nil
	}
	for p := range m.files {
		if strings.HasPrefix(p, dir+"/") {
			return false, nil
		}
	}
	for d := dir; d != "." && d != ""; d = path.Dir(d) {
		m.folders[d] = true
	}
	return true, nil
}
