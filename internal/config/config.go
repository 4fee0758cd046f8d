package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"vaultmcp/internal/logging"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const APP_NAME = "vaultmcp" // application name used for config directory

const (
	DefaultBaseURL  = "http://127.0.0.1:27123"
	DefaultHost     = "0.0.0.0"
	DefaultPort     = 3000
	DefaultCacheTTL = 30 * time.Second
	DefaultTimeout  = 10 * time.Second
	CurrentVersion  = "1.0"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvConfigPath = "VAULTMCP_CONFIG_PATH"
	EnvAPIKey     = "OBSIDIAN_API_KEY"
	EnvBaseURL    = "OBSIDIAN_BASE_URL"
	EnvPort       = "PORT"
	EnvVaultDir   = "VAULTMCP_VAULT_DIR"
)

// ErrNoConfig is returned by Load when no config file exists yet.
var ErrNoConfig = errors.New("no configuration found, run `vaultmcp setup` first")

// Config holds user configuration for vaultmcp.
type Config struct {
	// BaseURL is the Obsidian Local REST API endpoint.
	BaseURL string `yaml:"base_url"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	// VaultDir, when set, serves the vault straight from disk instead of the REST API.
	VaultDir string `yaml:"vault_dir,omitempty"`
	// Ignore lists doublestar globs hidden from the local backend.
	Ignore []string `yaml:"ignore,omitempty"`
	// CORSOrigins enables CORS on the HTTP transport for browser-based clients.
	CORSOrigins []string      `yaml:"cors_origins,omitempty"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
	Timeout     time.Duration `yaml:"timeout"`
	Version     string        `yaml:"version"`   // Track config version
	InitTime    int64         `yaml:"init_time"` // Unix timestamp of first setup

	// APIKey lives in the keyring or the environment, never on disk.
	APIKey string `yaml:"-"`
}

// ConfigPath returns the config file path for the current platform.
// VAULTMCP_CONFIG_PATH takes precedence over the XDG location.
func ConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	configPath := filepath.Join(xdg.ConfigHome, APP_NAME, "config.yaml")

	logging.Debug("Determined config path", "path", configPath)
	return configPath
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		Host:     DefaultHost,
		Port:     DefaultPort,
		CacheTTL: DefaultCacheTTL,
		Timeout:  DefaultTimeout,
		Version:  CurrentVersion,
		InitTime: 0, // Will be set during first save
	}
}

// Load loads the config from the standard location.
// If no config exists, it returns ErrNoConfig.
func Load() (*Config, error) {
	configPath, exists := FindConfigFile()
	if !exists {
		return nil, ErrNoConfig
	}

	return LoadFrom(configPath)
}

// LoadFrom loads config from a specific path. Fields missing from the file
// keep their defaults.
func LoadFrom(path string) (*Config, error) {
	logging.Debug("Reading config file", "path", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads the config file if present and falls back to defaults
// otherwise. Parse errors are still returned.
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if errors.Is(err, ErrNoConfig) {
		def := DefaultConfig()
		return &def, nil
	}
	return cfg, err
}

// FindConfigFile returns the path to an existing config file, and whether it exists.
func FindConfigFile() (string, bool) {
	primary := ConfigPath()

	if _, err := os.Stat(primary); err == nil {
		logging.Debug("Config found at primary path", "path", primary)
		return primary, true
	} else if !errors.Is(err, fs.ErrNotExist) {
		logging.Warn("Failed to stat config file", "path", primary, "error", err)
	}

	// Return primary path for new config
	return primary, false
}

// IsFirstRun checks if this is the first time the application is run
func IsFirstRun() bool {
	_, exists := FindConfigFile()
	return !exists
}

// Save writes the config to the standard location
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes the config to a specific path
func (c *Config) SaveTo(path string) error {
	// Set init time if this is the first save
	if c.InitTime == 0 {
		c.InitTime = time.Now().Unix()
	}
	if c.Version == "" {
		c.Version = CurrentVersion
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create file with restrictive permissions (600) for security
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	defer enc.Close()

	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	logging.Info("Configuration saved", "path", path)
	return nil
}

// UsesLocalVault reports whether the vault is read from disk.
func (c *Config) UsesLocalVault() bool {
	return c.VaultDir != ""
}

// Addr returns the host:port the HTTP transport listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
