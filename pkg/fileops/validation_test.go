package fileops

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCleanVaultPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "simple file", input: "note.md", want: "note.md"},
		{name: "nested", input: "Projects/Plan.md", want: "Projects/Plan.md"},
		{name: "leading slash", input: "/Projects/Plan.md", want: "Projects/Plan.md"},
		{name: "trailing slash", input: "Projects/", want: "Projects"},
		{name: "backslashes", input: `Projects\Plan.md`, want: "Projects/Plan.md"},
		{name: "dot segments", input: "./Daily/./2024.md", want: "Daily/2024.md"},
		{name: "double slashes", input: "Daily//2024.md", want: "Daily/2024.md"},
		{name: "whitespace", input: "  note.md  ", want: "note.md"},
		{name: "root", input: "", want: ""},
		{name: "root slash", input: "/", want: ""},
		{name: "dots inside a name", input: "v1..2 notes.md", want: "v1..2 notes.md"},
		{name: "traversal", input: "../secret.md", wantErr: true},
		{name: "nested traversal", input: "a/../../b.md", wantErr: true},
		{name: "windows traversal", input: `a\..\b.md`, wantErr: true},
		{name: "nul byte", input: "a\x00b.md", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanVaultPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CleanVaultPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("CleanVaultPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanVaultFile(t *testing.T) {
	if got, err := CleanVaultFile("/Inbox/idea.md"); err != nil || got != "Inbox/idea.md" {
		t.Errorf("CleanVaultFile() = %q, %v", got, err)
	}

	for _, input := range []string{"", "/", "Inbox/", `Inbox\`, "../x.md"} {
		if _, err := CleanVaultFile(input); err == nil {
			t.Errorf("CleanVaultFile(%q) expected error", input)
		}
	}
}

func TestIsHiddenPath(t *testing.T) {
	tests := map[string]bool{
		"note.md":              false,
		".obsidian":            true,
		".obsidian/app.json":   true,
		"Projects/.keep":       true,
		"Projects/.git/HEAD":   true,
		"Projects/notes.v2.md": false,
		"":                     false,
	}

	for input, want := range tests {
		if got := IsHiddenPath(input); got != want {
			t.Errorf("IsHiddenPath(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := ExpandPath("~/Vaults/Work"); got != filepath.Join(home, "Vaults", "Work") {
		t.Errorf("ExpandPath() = %s", got)
	}
	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandPath() should leave absolute paths alone, got %s", got)
	}
	if got := ExpandPath("relative/~/x"); got != "relative/~/x" {
		t.Errorf("ExpandPath() should only expand a leading tilde, got %s", got)
	}
}

func TestIsReservedDirectory(t *testing.T) {
	if !IsReservedDirectory("/") {
		t.Error("Expected filesystem root to be reserved")
	}

	tmp := t.TempDir()
	if IsReservedDirectory(tmp) {
		t.Errorf("Expected temp dir %s to be allowed", tmp)
	}

	if home, err := os.UserHomeDir(); err == nil {
		if !IsReservedDirectory(filepath.Join(home, ".ssh")) {
			t.Error("Expected ~/.ssh to be reserved")
		}
	}

	for _, dir := range getReservedDirectories() {
		if strings.HasPrefix(dir, "/etc") && !IsReservedDirectory(dir) {
			t.Errorf("Expected %s to be reserved", dir)
		}
	}
}
