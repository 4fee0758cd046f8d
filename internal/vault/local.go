package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"vaultmcp/pkg/fileops"

	"github.com/bmatcuk/doublestar/v4"
)

// LocalBackend serves a vault directory on disk. All access goes through an
// os.Root, so paths cannot leave the vault.
type LocalBackend struct {
	root   *fileops.VaultRoot
	ignore []string
}

// NewLocalBackend opens dir. ignore holds doublestar patterns matched against
// vault-relative paths; matching files and folders are hidden.
func NewLocalBackend(dir string, ignore []string) (*LocalBackend, error) {
	for _, pattern := range ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid ignore pattern %q", pattern)
		}
	}

	lb := &LocalBackend{ignore: ignore}

	opts := fileops.DefaultRootOptions()
	opts.Ignore = lb.ignored
	root, err := fileops.OpenVaultRoot(dir, opts)
	if err != nil {
		return nil, err
	}
	lb.root = root
	return lb, nil
}

// Dir returns the absolute vault directory.
func (lb *LocalBackend) Dir() string {
	return lb.root.Dir()
}

// Close releases the vault root.
func (lb *LocalBackend) Close() error {
	return lb.root.Close()
}

func (lb *LocalBackend) ignored(rel string, isDir bool) bool {
	for _, pattern := range lb.ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		// "Archive/**" should hide the Archive folder itself.
		if isDir {
			if ok, _ := doublestar.Match(pattern, rel+"/"); ok {
				return true
			}
		}
	}
	return false
}

// Hidden reports whether a vault-relative path is excluded from this vault.
func (lb *LocalBackend) Hidden(rel string, isDir bool) bool {
	return lb.root.Hidden(rel, isDir)
}

func (lb *LocalBackend) List(ctx context.Context, dir string) (Listing, error) {
	if err := ctx.Err(); err != nil {
		return Listing{}, err
	}

	entries, err := lb.root.ReadDir(dir)
	if err != nil {
		return Listing{}, mapFSError(err, dir)
	}

	listing := Listing{Files: []string{}, Folders: []string{}}
	for _, e := range entries {
		if e.IsDir {
			listing.Folders = append(listing.Folders, e.Name)
		} else {
			listing.Files = append(listing.Files, e.Name)
		}
	}
	return listing, nil
}

func (lb *LocalBackend) Read(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := lb.visible(path); err != nil {
		return "", err
	}

	data, err := lb.root.ReadFile(path)
	if err != nil {
		return "", mapFSError(err, path)
	}
	return string(data), nil
}

func (lb *LocalBackend) Write(ctx context.Context, path, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := lb.visible(path); err != nil {
		return err
	}
	return mapFSError(lb.root.WriteFileAtomic(path, []byte(content)), path)
}

func (lb *LocalBackend) Append(ctx context.Context, path, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := lb.visible(path); err != nil {
		return err
	}
	return mapFSError(lb.root.AppendFile(path, []byte(content)), path)
}

func (lb *LocalBackend) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := lb.visible(path); err != nil {
		return err
	}
	return mapFSError(lb.root.Remove(path), path)
}

func (lb *LocalBackend) Stat(ctx context.Context, path string) (FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return FileInfo{}, err
	}
	if err := lb.visible(path); err != nil {
		return FileInfo{}, err
	}

	info, err := lb.root.Stat(path)
	if err != nil {
		return FileInfo{}, mapFSError(err, path)
	}
	if info.IsDir {
		return FileInfo{}, fmt.Errorf("%q is a directory: %w", path, ErrNotFound)
	}
	return FileInfo{Path: info.Path, Size: info.Size, Modified: info.ModTime}, nil
}

func (lb *LocalBackend) Mkdir(ctx context.Context, dir string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	created, err := lb.root.MkdirAll(dir)
	return created, mapFSError(err, dir)
}

// visible rejects paths the listing would hide, so hidden files cannot be
// reached by name either.
func (lb *LocalBackend) visible(path string) error {
	rel, err := fileops.CleanVaultPath(path)
	if err != nil {
		return err
	}
	if lb.root.Hidden(rel, false) {
		return fmt.Errorf("%q: %w", rel, ErrNotFound)
	}
	return nil
}

func mapFSError(err error, path string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%q: %w", strings.Trim(path, "/"), ErrNotFound)
	case errors.Is(err, fs.ErrExist):
		return fmt.Errorf("%q: %w", strings.Trim(path, "/"), ErrExists)
	default:
		return err
	}
}
