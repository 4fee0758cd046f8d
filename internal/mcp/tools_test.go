package mcp

import (
	"context"
	"strings"
	"testing"

	"vaultmcp/internal/pathmatch"
	"vaultmcp/internal/vault"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFiles(t *testing.T) {
	s, _ := newTestServer(t, testVault())

	t.Run("exact path", func(t *testing.T) {
		res := callOK[findFilesResult](t, s, "find_files", map[string]any{"query": "Daily/2024-01-01.md"})
		require.Equal(t, 1, res.Count)
		assert.Equal(t, pathmatch.MatchExact, res.Matches[0].Type)
	})

	t.Run("contains ignores punctuation", func(t *testing.T) {
		res := callOK[findFilesResult](t, s, "find_files", map[string]any{"query": "2024-01-01"})
		assert.Equal(t, 2, res.Count)
		for _, m := range res.Matches {
			assert.Equal(t, pathmatch.MatchContains, m.Type)
		}
	})

	t.Run("typo needs fuzzy", func(t *testing.T) {
		res := callOK[findFilesResult](t, s, "find_files", map[string]any{"query": "Cooking/Recipie.md"})
		assert.Zero(t, res.Count)
		assert.NotNil(t, res.Matches)

		res = callOK[findFilesResult](t, s, "find_files", map[string]any{"query": "Cooking/Recipie.md", "fuzzy": true})
		require.Equal(t, 1, res.Count)
		assert.Equal(t, "Cooking/Recipe.md", res.Matches[0].Path)
		assert.Equal(t, pathmatch.MatchFuzzy, res.Matches[0].Type)
		assert.Greater(t, res.Matches[0].Score, pathmatch.FuzzyThreshold)
	})

	t.Run("max results", func(t *testing.T) {
		res := callOK[findFilesResult](t, s, "find_files", map[string]any{"query": "md", "max_results": 2})
		assert.Equal(t, 2, res.Count)
	})

	t.Run("query required", func(t *testing.T) {
		msg := callErr(t, s, "find_files", map[string]any{})
		assert.Contains(t, msg, "query")
	})
}

func TestListDir(t *testing.T) {
	s, _ := newTestServer(t, testVault())

	res := callOK[map[string][]string](t, s, "list_dir", map[string]any{})
	assert.Equal(t, []string{"Assets", "Cooking", "Daily", "Work"}, res["directories"])

	res = callOK[map[string][]string](t, s, "list_dir", map[string]any{"path": "Work"})
	assert.Equal(t, []string{}, res["directories"])

	msg := callErr(t, s, "list_dir", map[string]any{"path": "Nope"})
	assert.Equal(t, "Directory not found: Nope", msg)

	msg = callErr(t, s, "list_dir", map[string]any{"path": "../etc"})
	assert.Contains(t, msg, "traversal")
}

func TestListFiles(t *testing.T) {
	s, _ := newTestServer(t, testVault())

	res := callOK[map[string][]string](t, s, "list_files", map[string]any{"path": "Work"})
	assert.Equal(t, []string{"Meeting 2024-01-01.md", "Project Notes.md"}, res["files"])

	res = callOK[map[string][]string](t, s, "list_files", map[string]any{"path": "Assets", "extension": "md"})
	assert.Empty(t, res["files"])

	res = callOK[map[string][]string](t, s, "list_files", map[string]any{"path": "Work", "pattern": "Meeting *"})
	assert.Equal(t, []string{"Meeting 2024-01-01.md"}, res["files"])

	msg := callErr(t, s, "list_files", map[string]any{"pattern": "[unclosed"})
	assert.Contains(t, msg, "invalid pattern")
}

func TestReadFile(t *testing.T) {
	s, _ := newTestServer(t, testVault())

	t.Run("literal path", func(t *testing.T) {
		res := callOK[readFileResult](t, s, "read_file", map[string]any{"path": "Daily/2024-01-01.md"})
		assert.Equal(t, "Daily/2024-01-01.md", res.Path)
		assert.Equal(t, "Slept well\n", res.Content)
		assert.Nil(t, res.Body)
	})

	t.Run("leading slash is cleaned", func(t *testing.T) {
		res := callOK[readFileResult](t, s, "read_file", map[string]any{"path": "/Daily/2024-01-01.md"})
		assert.Equal(t, "Daily/2024-01-01.md", res.Path)
	})

	t.Run("unique contains match resolves", func(t *testing.T) {
		res := callOK[readFileResult](t, s, "read_file", map[string]any{"path": "project notes"})
		assert.Equal(t, "Work/Project Notes.md", res.Path)
	})

	t.Run("ambiguous match lists candidates", func(t *testing.T) {
		msg := callErr(t, s, "read_file", map[string]any{"path": "2024-01-01"})
		assert.Contains(t, msg, "File not found: 2024-01-01")
		assert.Contains(t, msg, "Daily/2024-01-01.md")
		assert.Contains(t, msg, "Work/Meeting 2024-01-01.md")
	})

	t.Run("typo suggests but does not resolve", func(t *testing.T) {
		msg := callErr(t, s, "read_file", map[string]any{"path": "Cooking/Recipie.md"})
		assert.Contains(t, msg, "Did you mean:\n  - Cooking/Recipe.md")
	})

	t.Run("frontmatter", func(t *testing.T) {
		res := callOK[readFileResult](t, s, "read_file", map[string]any{
			"path":              "Cooking/Recipe.md",
			"parse_frontmatter": true,
		})
		assert.Equal(t, []any{"food"}, res.Frontmatter["tags"])
		assert.EqualValues(t, 4, res.Frontmatter["serves"])
		require.NotNil(t, res.Body)
		assert.Equal(t, "# Pancakes\nFlour\nEggs\nMilk", strings.TrimSpace(*res.Body))
	})

	t.Run("directory path rejected", func(t *testing.T) {
		callErr(t, s, "read_file", map[string]any{"path": "Work/"})
	})
}

func TestGetFileInfo(t *testing.T) {
	s, _ := newTestServer(t, testVault())

	res := callOK[fileInfoResult](t, s, "get_file_info", map[string]any{"path": "Daily/2024-01-01.md"})
	assert.True(t, res.Exists)
	assert.EqualValues(t, len("Slept well\n"), res.Size)
	assert.NotEmpty(t, res.Modified)
	assert.Nil(t, res.Frontmatter)

	res = callOK[fileInfoResult](t, s, "get_file_info", map[string]any{"path": "Cooking/Recipe.md", "include_frontmatter": true})
	assert.EqualValues(t, 4, res.Frontmatter["serves"])

	missing := callOK[fileInfoResult](t, s, "get_file_info", map[string]any{"path": "Cooking/Recipie.md"})
	assert.False(t, missing.Exists)
	assert.Zero(t, missing.Size)
	assert.Empty(t, missing.Modified)
	assert.Equal(t, "Cooking/Recipie.md", missing.Path)
	assert.Equal(t, []string{"Cooking/Recipe.md"}, missing.Suggestions)

	msg := callErr(t, s, "get_file_info", map[string]any{"path": "Work/"})
	assert.Equal(t, "Path must be a file (no trailing slash). Use list_dir for directories.", msg)
}

func TestWriteFile(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		s, b := newTestServer(t, testVault())
		res := callOK[writeFileResult](t, s, "write_file", map[string]any{"path": "New/Note.md", "content": "hello"})
		assert.Equal(t, "New/Note.md", res.Path)
		assert.Equal(t, ModeCreate, res.Mode)
		assert.Equal(t, "hello", readBackend(t, b, "New/Note.md"))
	})

	t.Run("create refuses existing file", func(t *testing.T) {
		s, b := newTestServer(t, testVault())
		msg := callErr(t, s, "write_file", map[string]any{"path": "Daily/2024-01-01.md", "content": "x"})
		assert.Contains(t, msg, "File already exists: Daily/2024-01-01.md")
		assert.Equal(t, "Slept well\n", readBackend(t, b, "Daily/2024-01-01.md"))
	})

	t.Run("overwrite", func(t *testing.T) {
		s, b := newTestServer(t, testVault())
		callOK[writeFileResult](t, s, "write_file", map[string]any{
			"path": "Daily/2024-01-01.md", "content": "Rewritten", "mode": "overwrite",
		})
		assert.Equal(t, "Rewritten", readBackend(t, b, "Daily/2024-01-01.md"))
	})

	t.Run("append resolves path", func(t *testing.T) {
		s, b := newTestServer(t, testVault())
		res := callOK[writeFileResult](t, s, "write_file", map[string]any{
			"path": "project notes", "content": "More\n", "mode": "append",
		})
		assert.Equal(t, "Work/Project Notes.md", res.Path)
		assert.Equal(t, "# Project\nDeadline is Friday\nTODO: budget\nMore\n", readBackend(t, b, "Work/Project Notes.md"))
	})

	t.Run("append to missing file", func(t *testing.T) {
		s, _ := newTestServer(t, testVault())
		msg := callErr(t, s, "write_file", map[string]any{"path": "Nope.md", "content": "x", "mode": "append"})
		assert.Contains(t, msg, "File not found: Nope.md")
	})

	t.Run("invalid mode", func(t *testing.T) {
		s, _ := newTestServer(t, testVault())
		msg := callErr(t, s, "write_file", map[string]any{"path": "a.md", "content": "x", "mode": "upsert"})
		assert.Contains(t, msg, `invalid mode "upsert"`)
	})

	t.Run("traversal rejected", func(t *testing.T) {
		s, _ := newTestServer(t, testVault())
		callErr(t, s, "write_file", map[string]any{"path": "../outside.md", "content": "x"})
	})
}

func TestEditFile(t *testing.T) {
	t.Run("unique occurrence", func(t *testing.T) {
		s, b := newTestServer(t, testVault())
		res := callOK[editFileResult](t, s, "edit_file", map[string]any{
			"path": "Work/Project Notes.md", "old_string": "Friday", "new_string": "Monday",
		})
		assert.Equal(t, 1, res.OccurrencesReplaced)
		assert.Equal(t, "Successfully replaced 1 occurrence(s)", res.Message)
		assert.Contains(t, readBackend(t, b, "Work/Project Notes.md"), "Deadline is Monday")
	})

	t.Run("not found", func(t *testing.T) {
		s, _ := newTestServer(t, testVault())
		msg := callErr(t, s, "edit_file", map[string]any{
			"path": "Work/Project Notes.md", "old_string": "friday", "new_string": "x",
		})
		assert.Equal(t, "old_string not found in Work/Project Notes.md. Make sure it matches exactly (including whitespace).", msg)
	})

	t.Run("ambiguous without replace_all", func(t *testing.T) {
		s, b := newTestServer(t, map[string]string{"a.md": "x y x"})
		msg := callErr(t, s, "edit_file", map[string]any{"path": "a.md", "old_string": "x", "new_string": "z"})
		assert.Contains(t, msg, "Found 2 occurrences of old_string")
		assert.Equal(t, "x y x", readBackend(t, b, "a.md"))
	})

	t.Run("replace_all", func(t *testing.T) {
		s, b := newTestServer(t, map[string]string{"a.md": "x y x"})
		res := callOK[editFileResult](t, s, "edit_file", map[string]any{
			"path": "a.md", "old_string": "x", "new_string": "z", "replace_all": true,
		})
		assert.Equal(t, 2, res.OccurrencesReplaced)
		assert.Equal(t, "z y z", readBackend(t, b, "a.md"))
	})

	t.Run("empty old_string", func(t *testing.T) {
		s, _ := newTestServer(t, map[string]string{"a.md": "x"})
		callErr(t, s, "edit_file", map[string]any{"path": "a.md", "old_string": "", "new_string": "z"})
	})
}

func TestMoveFile(t *testing.T) {
	t.Run("moves content", func(t *testing.T) {
		s, b := newTestServer(t, testVault())
		res := callOK[moveFileResult](t, s, "move_file", map[string]any{
			"source": "Daily/2024-01-01.md", "destination": "Archive/2024-01-01.md",
		})
		assert.Equal(t, "Daily/2024-01-01.md", res.OldPath)
		assert.Equal(t, "Archive/2024-01-01.md", res.NewPath)
		assert.Equal(t, "File moved successfully", res.Message)

		assert.Equal(t, "Slept well\n", readBackend(t, b, "Archive/2024-01-01.md"))
		exists, err := vault.Exists(context.Background(), b, "Daily/2024-01-01.md")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("destination exists", func(t *testing.T) {
		s, _ := newTestServer(t, testVault())
		msg := callErr(t, s, "move_file", map[string]any{
			"source": "Daily/2024-01-01.md", "destination": "Cooking/Recipe.md",
		})
		assert.Equal(t, "Destination file already exists: Cooking/Recipe.md. Use overwrite=true to replace.", msg)
	})

	t.Run("overwrite", func(t *testing.T) {
		s, b := newTestServer(t, testVault())
		callOK[moveFileResult](t, s, "move_file", map[string]any{
			"source": "Daily/2024-01-01.md", "destination": "Cooking/Recipe.md", "overwrite": true,
		})
		assert.Equal(t, "Slept well\n", readBackend(t, b, "Cooking/Recipe.md"))
	})

	t.Run("source is never guessed", func(t *testing.T) {
		s, _ := newTestServer(t, testVault())
		msg := callErr(t, s, "move_file", map[string]any{"source": "project notes", "destination": "x.md"})
		assert.Contains(t, msg, "File not found: project notes")
	})

	t.Run("same path", func(t *testing.T) {
		s, _ := newTestServer(t, testVault())
		callErr(t, s, "move_file", map[string]any{"source": "Daily/2024-01-01.md", "destination": "/Daily/2024-01-01.md"})
	})
}

func TestDeleteFile(t *testing.T) {
	t.Run("requires confirm", func(t *testing.T) {
		s, _ := newTestServer(t, testVault())
		msg := callErr(t, s, "delete_file", map[string]any{"path": "Daily/2024-01-01.md", "confirm": false})
		assert.Equal(t, "confirm=true is required to delete a file (safety check)", msg)
	})

	t.Run("deletes", func(t *testing.T) {
		s, b := newTestServer(t, testVault())
		res := callOK[deleteFileResult](t, s, "delete_file", map[string]any{"path": "Daily/2024-01-01.md", "confirm": true})
		assert.Equal(t, "Daily/2024-01-01.md", res.DeletedPath)
		assert.Equal(t, "File deleted successfully", res.Message)

		exists, err := vault.Exists(context.Background(), b, "Daily/2024-01-01.md")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("missing file with suggestion", func(t *testing.T) {
		s, b := newTestServer(t, testVault())
		msg := callErr(t, s, "delete_file", map[string]any{"path": "Cooking/Recipie.md", "confirm": true})
		assert.Contains(t, msg, "File not found: Cooking/Recipie.md")
		assert.Contains(t, msg, "Cooking/Recipe.md")

		exists, err := vault.Exists(context.Background(), b, "Cooking/Recipe.md")
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

func TestCreateDirectory(t *testing.T) {
	s, _ := newTestServer(t, testVault())

	res := callOK[createDirectoryResult](t, s, "create_directory", map[string]any{"path": "Projects/2024"})
	assert.True(t, res.Created)
	assert.Equal(t, "Directory created: Projects/2024/", res.Message)

	res = callOK[createDirectoryResult](t, s, "create_directory", map[string]any{"path": "Projects/2024"})
	assert.False(t, res.Created)
	assert.Equal(t, "Directory already exists: Projects/2024/", res.Message)

	dirs := callOK[map[string][]string](t, s, "list_dir", map[string]any{"path": "Projects"})
	assert.Equal(t, []string{"2024"}, dirs["directories"])

	msg := callErr(t, s, "create_directory", map[string]any{"path": "Notes/"})
	assert.Equal(t, `Path must not end with / (use "Notes" not "Notes/")`, msg)

	msg = callErr(t, s, "create_directory", map[string]any{"path": "Daily/2024-01-01.md"})
	assert.Contains(t, msg, "A file already exists")
}
