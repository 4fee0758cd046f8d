// Package fileops provides secure file operations on a vault directory.
//
// Every operation goes through a VaultRoot, which wraps an os.Root opened on
// the vault directory. Paths are vault-relative, forward-slash separated, and
// cleaned by CleanVaultPath before they reach the filesystem, so neither ".."
// segments nor symlinks can escape the vault.
//
// # Path Handling
//
//	rel, err := fileops.CleanVaultPath(`Projects\Plan.md`)
//	// rel == "Projects/Plan.md"
//
//	_, err = fileops.CleanVaultPath("../secrets.txt")
//	// err: path traversal not allowed
//
// # Opening a Vault
//
//	root, err := fileops.OpenVaultRoot("~/Vaults/Work", nil)
//	if err != nil {
//	    return fmt.Errorf("open vault: %w", err)
//	}
//	defer root.Close()
//
//	entries, err := root.ReadDir("Projects")
//
// OpenVaultRoot refuses system directories (see IsReservedDirectory). Hidden
// entries and the Obsidian housekeeping folders are filtered from listings
// unless RootOptions say otherwise.
//
// # Atomic Writes
//
// WriteFileAtomic writes to a temporary sibling and renames it into place,
// so readers observe either the old note or the new one.
package fileops
