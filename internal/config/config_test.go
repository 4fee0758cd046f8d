package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/zalando/go-keyring"
)

func useTempConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vaultmcp", "config.yaml")
	t.Setenv(EnvConfigPath, path)
	for _, env := range []string{EnvAPIKey, EnvBaseURL, EnvPort, EnvVaultDir} {
		t.Setenv(env, "")
	}
	return path
}

func TestConfigPath_EnvOverride(t *testing.T) {
	path := useTempConfig(t)

	if got := ConfigPath(); got != path {
		t.Errorf("ConfigPath() = %s, want %s", got, path)
	}
}

func TestConfigPath_XDG(t *testing.T) {
	t.Setenv(EnvConfigPath, "")

	got := ConfigPath()
	if !strings.HasSuffix(got, filepath.Join(APP_NAME, "config.yaml")) {
		t.Errorf("ConfigPath() = %s, want suffix %s", got, filepath.Join(APP_NAME, "config.yaml"))
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %s, want %s", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.Host != "0.0.0.0" {
		t.Errorf("Host = %s, want 0.0.0.0", cfg.Host)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("CacheTTL = %v, want 30s", cfg.CacheTTL)
	}
	if cfg.InitTime != 0 {
		t.Errorf("InitTime = %d, want 0 before first save", cfg.InitTime)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := useTempConfig(t)

	if !IsFirstRun() {
		t.Fatal("Expected first run before any save")
	}

	cfg := DefaultConfig()
	cfg.Port = 4100
	cfg.VaultDir = "/vaults/work"
	cfg.Ignore = []string{"Archive/**"}
	cfg.CacheTTL = time.Minute
	cfg.APIKey = "secret-key"

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if cfg.InitTime == 0 {
		t.Error("Expected InitTime to be set on first save")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Expected config file at %s: %v", path, err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("Config file permissions = %o, want 600", perm)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "secret-key") {
		t.Error("API key must never be written to the config file")
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Port != 4100 || loaded.VaultDir != "/vaults/work" {
		t.Errorf("Loaded config = %+v", loaded)
	}
	if loaded.CacheTTL != time.Minute {
		t.Errorf("CacheTTL = %v, want 1m", loaded.CacheTTL)
	}
	if len(loaded.Ignore) != 1 || loaded.Ignore[0] != "Archive/**" {
		t.Errorf("Ignore = %v", loaded.Ignore)
	}
	if loaded.APIKey != "" {
		t.Errorf("APIKey = %q, want empty after load", loaded.APIKey)
	}
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: 8080\ncache_ttl: 5s\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.CacheTTL != 5*time.Second {
		t.Errorf("CacheTTL = %v, want 5s", cfg.CacheTTL)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %s, want default", cfg.BaseURL)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want default", cfg.Timeout)
	}
}

func TestLoadFrom_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want default", cfg.Port)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("Expected parse error")
	}
}

func TestLoad_NoConfig(t *testing.T) {
	useTempConfig(t)

	if _, err := Load(); err != ErrNoConfig {
		t.Errorf("Load() error = %v, want ErrNoConfig", err)
	}

	cfg, err := LoadOrDefault()
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want default", cfg.Port)
	}
}

func TestApplyEnv(t *testing.T) {
	useTempConfig(t)
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvBaseURL, "https://obsidian.local:27124")
	t.Setenv(EnvPort, "4000")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if cfg.APIKey != "env-key" || cfg.BaseURL != "https://obsidian.local:27124" || cfg.Port != 4000 {
		t.Errorf("ApplyEnv() gave %+v", cfg)
	}

	t.Setenv(EnvPort, "not-a-port")
	if err := cfg.ApplyEnv(); err == nil {
		t.Error("Expected error for non-numeric PORT")
	}
}

func TestResolve_Precedence(t *testing.T) {
	keyring.MockInit()
	useTempConfig(t)

	file := DefaultConfig()
	file.Port = 4100
	file.BaseURL = "http://file.example:1"
	if err := file.Save(); err != nil {
		t.Fatal(err)
	}

	cm := NewCredentialManager()
	if err := cm.StoreAPIKey("keyring-key"); err != nil {
		t.Fatal(err)
	}

	cfg, err := Resolve(Overrides{}, cm)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Port != 4100 || cfg.BaseURL != "http://file.example:1" || cfg.APIKey != "keyring-key" {
		t.Errorf("file/keyring values not applied: %+v", cfg)
	}

	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvPort, "4200")
	cfg, err = Resolve(Overrides{}, cm)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Port != 4200 || cfg.APIKey != "env-key" {
		t.Errorf("env did not override file/keyring: %+v", cfg)
	}

	cfg, err = Resolve(Overrides{Port: 4300, APIKey: "flag-key", Host: "127.0.0.1"}, cm)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Port != 4300 || cfg.APIKey != "flag-key" || cfg.Addr() != "127.0.0.1:4300" {
		t.Errorf("flags did not override env: %+v", cfg)
	}
}

func TestResolve_RequiresKeyOrVault(t *testing.T) {
	keyring.MockInit()
	useTempConfig(t)

	if _, err := Resolve(Overrides{}, NewCredentialManager()); err == nil {
		t.Error("Expected error without API key or vault dir")
	}

	cfg, err := Resolve(Overrides{VaultDir: t.TempDir()}, nil)
	if err != nil {
		t.Fatalf("Resolve() with vault dir error = %v", err)
	}
	if !cfg.UsesLocalVault() {
		t.Error("Expected local vault mode")
	}
}
