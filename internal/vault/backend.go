package vault

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a file or directory does not exist.
	ErrNotFound = errors.New("not found")
	// ErrExists is returned when a create would overwrite an existing file.
	ErrExists = errors.New("already exists")
)

// Listing is the content of one vault directory. Names are relative to the
// listed directory; folder names carry no trailing slash.
type Listing struct {
	Files   []string `json:"files"`
	Folders []string `json:"folders"`
}

// FileInfo describes a single vault file.
type FileInfo struct {
	Path     string    `json:"path"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// Backend is the storage a vault is served from. Paths are vault-relative
// and "/" separated; "" is the vault root.
type Backend interface {
	List(ctx context.Context, dir string) (Listing, error)
	Read(ctx context.Context, path string) (string, error)
	// Write creates or overwrites path.
	Write(ctx context.Context, path, content string) error
	// Append adds content to the end of an existing file.
	Append(ctx context.Context, path, content string) error
	Delete(ctx context.Context, path string) error
	Stat(ctx context.Context, path string) (FileInfo, error)
	// Mkdir creates dir and reports whether it was missing.
	Mkdir(ctx context.Context, dir string) (created bool, err error)
}

// Exists reports whether path names an existing file.
func Exists(ctx context.Context, b Backend, path string) (bool, error) {
	_, err := b.Stat(ctx, path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Join concatenates vault path elements, skipping empty ones.
func Join(elem ...string) string {
	parts := make([]string, 0, len(elem))
	for _, e := range elem {
		e = strings.Trim(e, "/")
		if e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, "/")
}
