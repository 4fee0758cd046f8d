package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Overrides carries values set on the command line. Zero values mean "not set".
type Overrides struct {
	APIKey   string
	BaseURL  string
	VaultDir string
	Host     string
	Port     int
}

// ApplyEnv overlays the OBSIDIAN_* / PORT / VAULTMCP_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		c.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		c.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvVaultDir)); v != "" {
		c.VaultDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPort)); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		c.Port = port
	}
	return nil
}

// ApplyOverrides overlays command-line values.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.APIKey != "" {
		c.APIKey = o.APIKey
	}
	if o.BaseURL != "" {
		c.BaseURL = o.BaseURL
	}
	if o.VaultDir != "" {
		c.VaultDir = o.VaultDir
	}
	if o.Host != "" {
		c.Host = o.Host
	}
	if o.Port != 0 {
		c.Port = o.Port
	}
}

// Resolve builds the effective configuration.
//
// Precedence, highest first: command-line overrides, environment, keyring
// (API key only), config file, defaults.
//
// Parameters:
//   - o: values set on the command line
//   - cm: credential store for the API key; nil skips the keyring
//
// Returns:
//   - *Config: the merged configuration, validated
//   - error: parse or validation errors
func Resolve(o Overrides, cm *CredentialManager) (*Config, error) {
	cfg, err := LoadOrDefault()
	if err != nil {
		return nil, err
	}

	if cm != nil {
		if key, err := cm.GetAPIKey(); err == nil {
			cfg.APIKey = key
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.ApplyOverrides(o)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
