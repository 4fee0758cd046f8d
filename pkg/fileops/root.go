package fileops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxFileSize caps how much of a single note ReadFile will load.
const DefaultMaxFileSize int64 = 32 * 1024 * 1024

// RootOptions configures which entries a VaultRoot exposes.
type RootOptions struct {
	// IncludeHidden exposes files and directories whose name starts with '.'.
	IncludeHidden bool

	// SkipPatterns contains directory names that are never listed.
	// These are exact matches against directory names (not full paths).
	SkipPatterns []string

	// Ignore is an optional predicate over vault-relative paths. Entries for
	// which it returns true are hidden from listings.
	Ignore func(rel string, isDir bool) bool

	// MaxFileSize limits ReadFile. Zero means DefaultMaxFileSize.
	MaxFileSize int64
}

// FileInfo describes a vault entry.
type FileInfo struct {
	// Name is the base name without path components
	Name string

	// Path is the vault-relative path, "/" separated
	Path string

	IsDir   bool
	Size    int64
	ModTime time.Time
}

// VaultRoot confines file operations to a vault directory. The zero value is
// not usable; call OpenVaultRoot.
type VaultRoot struct {
	root *os.Root
	dir  string
	opts *RootOptions
}

// OpenVaultRoot opens dir as a vault.
//
// Parameters:
//   - dir: vault directory, "~/" is expanded
//   - opts: entry filtering (if nil, sensible defaults are used)
//
// Returns:
//   - *VaultRoot: the opened vault, to be closed by the caller
//   - error: if dir is missing, not a directory, or a reserved system path
func OpenVaultRoot(dir string, opts *RootOptions) (*VaultRoot, error) {
	if opts == nil {
		opts = DefaultRootOptions()
	}

	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("vault path cannot be empty")
	}

	absPath, err := filepath.Abs(ExpandPath(strings.TrimSpace(dir)))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve vault path: %w", err)
	}

	if IsReservedDirectory(absPath) {
		return nil, fmt.Errorf("cannot serve reserved/system directory: %s", absPath)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("cannot access vault path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault path is not a directory: %s", absPath)
	}

	root, err := os.OpenRoot(absPath)
	if err != nil {
		return nil, fmt.Errorf("cannot create secure vault root: %w", err)
	}

	return &VaultRoot{root: root, dir: absPath, opts: opts}, nil
}

// DefaultRootOptions hides dotfiles and the Obsidian, git and trash folders.
func DefaultRootOptions() *RootOptions {
	return &RootOptions{
		IncludeHidden: false,
		SkipPatterns:  DefaultSkipPatterns(),
	}
}

// DefaultSkipPatterns returns directory names that never hold notes.
func DefaultSkipPatterns() []string {
	return []string{
		".obsidian",
		".git",
		".trash",
	}
}

// Dir returns the absolute vault directory.
func (r *VaultRoot) Dir() string {
	return r.dir
}

// Close releases the underlying root.
func (r *VaultRoot) Close() error {
	if r.root != nil {
		err := r.root.Close()
		r.root = nil
		return err
	}
	return nil
}

func (r *VaultRoot) open() (*os.Root, error) {
	if r.root == nil {
		return nil, fmt.Errorf("vault root has been closed")
	}
	return r.root, nil
}

// native converts a cleaned vault path into the form os.Root expects.
func native(rel string) string {
	if rel == "" {
		return "."
	}
	return filepath.FromSlash(rel)
}

// Hidden reports whether rel is filtered out by the root options.
func (r *VaultRoot) Hidden(rel string, isDir bool) bool {
	if rel == "" {
		return false
	}
	if !r.opts.IncludeHidden && IsHiddenPath(rel) {
		return true
	}
	for _, seg := range strings.Split(rel, "/") {
		if slices.Contains(r.opts.SkipPatterns, seg) {
			return true
		}
	}
	if r.opts.Ignore != nil {
		segs := strings.Split(rel, "/")
		for i := range segs {
			prefixIsDir := isDir || i < len(segs)-1
			if r.opts.Ignore(strings.Join(segs[:i+1], "/"), prefixIsDir) {
				return true
			}
		}
	}
	return false
}

// ReadDir lists the visible entries of a vault directory, sorted by name.
//
// Parameters:
//   - rel: vault-relative directory ("" for the root)
//
// Returns:
//   - []FileInfo: entries that pass the root's filters
//   - error: fs.ErrNotExist (wrapped) if the directory is missing
func (r *VaultRoot) ReadDir(rel string) ([]FileInfo, error) {
	root, err := r.open()
	if err != nil {
		return nil, err
	}
	rel, err = CleanVaultPath(rel)
	if err != nil {
		return nil, err
	}

	dir, err := root.Open(native(rel))
	if err != nil {
		return nil, fmt.Errorf("failed to open directory %q: %w", rel, err)
	}
	defer dir.Close()

	entries, err := dir.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %q: %w", rel, err)
	}

	results := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		entryPath := path.Join(rel, entry.Name())
		isDir := entry.IsDir()
		if entry.Type()&fs.ModeSymlink != 0 {
			// Follow the link inside the root; links leaving the vault fail here.
			info, err := root.Stat(native(entryPath))
			if err != nil {
				continue
			}
			isDir = info.IsDir()
		}
		if r.Hidden(entryPath, isDir) {
			continue
		}

		fi := FileInfo{Name: entry.Name(), Path: entryPath, IsDir: isDir}
		if info, err := entry.Info(); err == nil {
			fi.ModTime = info.ModTime()
			if !isDir {
				fi.Size = info.Size()
			}
		}
		results = append(results, fi)
	}

	slices.SortFunc(results, func(a, b FileInfo) int {
		return strings.Compare(a.Name, b.Name)
	})
	return results, nil
}

// Stat describes a single vault entry.
func (r *VaultRoot) Stat(rel string) (FileInfo, error) {
	root, err := r.open()
	if err != nil {
		return FileInfo{}, err
	}
	rel, err = CleanVaultPath(rel)
	if err != nil {
		return FileInfo{}, err
	}

	info, err := root.Stat(native(rel))
	if err != nil {
		return FileInfo{}, err
	}

	fi := FileInfo{
		Name:    path.Base(rel),
		Path:    rel,
		IsDir:   info.IsDir(),
		ModTime: info.ModTime(),
	}
	if !info.IsDir() {
		fi.Size = info.Size()
	}
	return fi, nil
}

// ReadFile returns the contents of a vault file.
func (r *VaultRoot) ReadFile(rel string) ([]byte, error) {
	root, err := r.open()
	if err != nil {
		return nil, err
	}
	rel, err = CleanVaultFile(rel)
	if err != nil {
		return nil, err
	}

	info, err := root.Stat(native(rel))
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%q is a directory", rel)
	}
	limit := r.opts.MaxFileSize
	if limit <= 0 {
		limit = DefaultMaxFileSize
	}
	if info.Size() > limit {
		return nil, fmt.Errorf("file %q is %d bytes, larger than the %d byte limit", rel, info.Size(), limit)
	}

	return root.ReadFile(native(rel))
}

// WriteFileAtomic replaces rel with data, creating parent directories.
//
// The data goes to a temporary sibling which is synced and renamed over the
// destination, so a failed write leaves the previous contents untouched.
func (r *VaultRoot) WriteFileAtomic(rel string, data []byte) error {
	root, err := r.open()
	if err != nil {
		return err
	}
	rel, err = CleanVaultFile(rel)
	if err != nil {
		return err
	}

	if parent := path.Dir(rel); parent != "." {
		if err := root.MkdirAll(native(parent), 0o755); err != nil {
			return fmt.Errorf("failed to create parent directory: %w", err)
		}
	}

	tempPath, err := tempName(rel)
	if err != nil {
		return err
	}
	tempFile, err := root.OpenFile(native(tempPath), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	var success bool
	defer func() {
		tempFile.Close()
		if !success {
			root.Remove(native(tempPath))
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write file contents: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := root.Rename(native(tempPath), native(rel)); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	success = true
	return nil
}

// AppendFile appends data to rel. The file must already exist.
func (r *VaultRoot) AppendFile(rel string, data []byte) error {
	root, err := r.open()
	if err != nil {
		return err
	}
	rel, err = CleanVaultFile(rel)
	if err != nil {
		return err
	}

	f, err := root.OpenFile(native(rel), os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to %q: %w", rel, err)
	}
	return f.Close()
}

// Remove deletes a file or an empty directory.
func (r *VaultRoot) Remove(rel string) error {
	root, err := r.open()
	if err != nil {
		return err
	}
	rel, err = CleanVaultPath(rel)
	if err != nil {
		return err
	}
	if rel == "" {
		return fmt.Errorf("cannot remove the vault root")
	}
	return root.Remove(native(rel))
}

// MkdirAll creates rel and any missing parents. created is false when the
// directory already existed.
func (r *VaultRoot) MkdirAll(rel string) (created bool, err error) {
	root, err := r.open()
	if err != nil {
		return false, err
	}
	rel, err = CleanVaultPath(rel)
	if err != nil {
		return false, err
	}
	if rel == "" {
		return false, nil
	}

	info, err := root.Stat(native(rel))
	switch {
	case err == nil && info.IsDir():
		return false, nil
	case err == nil:
		return false, fmt.Errorf("%q exists and is not a directory", rel)
	case !errors.Is(err, fs.ErrNotExist):
		return false, err
	}

	if err := root.MkdirAll(native(rel), 0o755); err != nil {
		return false, fmt.Errorf("failed to create directory %q: %w", rel, err)
	}
	return true, nil
}

func tempName(rel string) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate temporary name: %w", err)
	}
	dir, base := path.Split(rel)
	return dir + "." + base + ".tmp-" + id.String(), nil
}
