package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Validate checks that the configuration can start a server.
func (c *Config) Validate() error {
	var errs []error

	if err := ValidatePort(strconv.Itoa(c.Port)); err != nil {
		errs = append(errs, err)
	}
	if c.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("cache_ttl must not be negative"))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive"))
	}

	if c.UsesLocalVault() {
		if err := ValidateVaultDir(c.VaultDir); err != nil {
			errs = append(errs, err)
		}
	} else {
		if err := ValidateBaseURL(c.BaseURL); err != nil {
			errs = append(errs, err)
		}
		if strings.TrimSpace(c.APIKey) == "" {
			errs = append(errs, fmt.Errorf("an API key (%s or keyring) or a vault directory is required", EnvAPIKey))
		}
	}

	return errors.Join(errs...)
}

// ValidateBaseURL accepts absolute http(s) URLs.
func ValidateBaseURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}
	return nil
}

// ValidatePort accepts 1-65535.
func ValidatePort(raw string) error {
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("port must be a number")
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}

// ValidateAPIKey rejects blank keys and keys with embedded whitespace.
func ValidateAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("API key cannot be empty")
	}
	if strings.ContainsAny(key, " \t\r\n") {
		return fmt.Errorf("API key must not contain whitespace")
	}
	return nil
}

// ValidateVaultDir requires an existing directory.
func ValidateVaultDir(dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return fmt.Errorf("vault directory cannot be empty")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("vault directory is not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("vault path %q is not a directory", dir)
	}
	return nil
}
