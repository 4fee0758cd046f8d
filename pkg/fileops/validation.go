package fileops

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

// CleanVaultPath normalizes a vault-relative path.
//
// Backslashes become forward slashes, leading slashes and surrounding
// whitespace are dropped, and "." segments collapse. The empty string denotes
// the vault root.
//
// Parameters:
//   - p: path as supplied by a client
//
// Returns:
//   - string: cleaned relative path using "/" separators
//   - error: if p contains a ".." segment or a NUL byte
//
// Usage example:
//
//	rel, err := fileops.CleanVaultPath("/Daily/./2024-01-01.md")
//	// rel == "Daily/2024-01-01.md"
func CleanVaultPath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if strings.ContainsRune(p, 0) {
		return "", fmt.Errorf("path contains NUL byte")
	}

	p = strings.ReplaceAll(p, `\`, "/")
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", fmt.Errorf("path traversal not allowed")
		}
	}

	cleaned := strings.TrimPrefix(path.Clean("/"+p), "/")
	return cleaned, nil
}

// CleanVaultFile is CleanVaultPath for paths that must name a file: the
// vault root and paths ending in "/" are rejected.
func CleanVaultFile(p string) (string, error) {
	trimmed := strings.TrimSpace(p)
	if strings.HasSuffix(trimmed, "/") || strings.HasSuffix(trimmed, `\`) {
		return "", fmt.Errorf("path %q names a directory, not a file", p)
	}

	rel, err := CleanVaultPath(trimmed)
	if err != nil {
		return "", err
	}
	if rel == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	return rel, nil
}

// IsHiddenPath reports whether any segment of rel starts with a dot.
func IsHiddenPath(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if strings.HasPrefix(seg, ".") && seg != "." {
			return true
		}
	}
	return false
}

// ExpandPath expands a leading "~/" to the user's home directory.
//
// Parameters:
//   - path: The path to expand, which may start with "~/"
//
// Returns:
//   - string: The expanded path, or the original path if it doesn't start with "~/"
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// IsReservedDirectory checks if the path is a system or reserved directory
// that must never be served as a vault.
//
// The function checks:
//   - System directories (like /etc, /bin, C:\Windows, etc.)
//   - Critical user directories (like ~/.ssh, ~/.gnupg)
//   - Resolves symlinks to check final destinations
//
// Usage example:
//
//	if fileops.IsReservedDirectory("/etc") {
//	    return fmt.Errorf("cannot use system directory")
//	}
func IsReservedDirectory(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return true // If we can't resolve it, treat as reserved
	}
	absPath = filepath.Clean(absPath)

	if resolvedPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = resolvedPath
	}

	// Always treat root as reserved
	if absPath == "/" || absPath == "\\" || absPath == "C:\\" {
		return true
	}

	if isUserTempDirectory(absPath) {
		return false
	}

	pathLower := strings.ToLower(absPath)
	for _, reserved := range getReservedDirectories() {
		reservedAbs := filepath.Clean(reserved)
		if resolved, err := filepath.EvalSymlinks(reservedAbs); err == nil {
			reservedAbs = filepath.Clean(resolved)
		}

		if strings.EqualFold(absPath, reservedAbs) {
			return true
		}

		reservedPrefix := strings.ToLower(reservedAbs) + string(os.PathSeparator)
		if strings.HasPrefix(pathLower, reservedPrefix) {
			return true
		}
	}

	return false
}

// getReservedDirectories returns platform-specific reserved directories
func getReservedDirectories() []string {
	var reservedDirs []string

	switch runtime.GOOS {
	case "windows":
		reservedDirs = []string{
			"C:\\Windows",
			"C:\\Program Files",
			"C:\\Program Files (x86)",
			"C:\\ProgramData\\Microsoft",
		}

	case "darwin":
		reservedDirs = []string{
			"/System",
			"/usr/bin",
			"/usr/sbin",
			"/bin",
			"/sbin",
			"/etc",
			"/var/log",
			"/var/db",
			"/var/root",
			"/Library/System",
			"/private/etc",
		}

	default:
		reservedDirs = []string{
			"/bin",
			"/sbin",
			"/usr/bin",
			"/usr/sbin",
			"/etc",
			"/boot",
			"/dev",
			"/proc",
			"/sys",
			"/var/log",
			"/var/lib",
			"/var/cache",
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		reservedDirs = append(reservedDirs,
			filepath.Join(home, ".ssh"),
			filepath.Join(home, ".gnupg"),
		)
	}

	return reservedDirs
}

// isUserTempDirectory detects user temp directories, which are always allowed.
func isUserTempDirectory(path string) bool {
	if runtime.GOOS == "darwin" && strings.Contains(path, "/var/folders/") {
		return true
	}
	if runtime.GOOS == "linux" && (strings.HasPrefix(path, "/tmp/") || path == "/tmp") {
		return true
	}

	cleanSystemTemp := filepath.Clean(os.TempDir())
	if resolved, err := filepath.EvalSymlinks(cleanSystemTemp); err == nil {
		cleanSystemTemp = resolved
	}
	return path == cleanSystemTemp || strings.HasPrefix(path, cleanSystemTemp+string(os.PathSeparator))
}
