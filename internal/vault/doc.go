// Package vault provides access to an Obsidian vault and the cached file
// list that path resolution runs against.
//
// A Backend is either the Obsidian Local REST API (package obsidian) or a
// directory on disk (LocalBackend). Walk flattens a backend into a sorted
// list of vault-relative file paths. Index caches that list, serves
// pathmatch queries against it, and is invalidated by every mutation and,
// for local vaults, by the fsnotify Watch loop.
package vault
