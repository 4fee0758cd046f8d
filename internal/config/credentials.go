package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// Service name for OS credential store
	credentialService = "vaultmcp"
	// Key for the Obsidian Local REST API key
	apiKeyKey = "obsidian_api_key"
)

// ErrNoAPIKey is returned when the keyring holds no API key.
var ErrNoAPIKey = errors.New("no Obsidian API key stored, run `vaultmcp setup` or set " + EnvAPIKey)

// CredentialManager handles secure storage and retrieval of the REST API key.
type CredentialManager struct {
	service string
}

// NewCredentialManager creates a new credential manager instance
func NewCredentialManager() *CredentialManager {
	return &CredentialManager{
		service: credentialService,
	}
}

// StoreAPIKey validates key and stores it in the OS credential store.
//
// Parameters:
//   - key: Obsidian Local REST API key
//
// Returns:
//   - error: Storage errors or validation failures
func (cm *CredentialManager) StoreAPIKey(key string) error {
	if err := ValidateAPIKey(key); err != nil {
		return err
	}

	if err := keyring.Set(cm.service, apiKeyKey, strings.TrimSpace(key)); err != nil {
		return fmt.Errorf("failed to store API key in credential store: %w", err)
	}

	return nil
}

// GetAPIKey retrieves the stored API key.
//
// Returns:
//   - string: The stored key
//   - error: ErrNoAPIKey when nothing is stored, or a keyring failure
func (cm *CredentialManager) GetAPIKey() (string, error) {
	key, err := keyring.Get(cm.service, apiKeyKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoAPIKey
		}
		return "", fmt.Errorf("failed to retrieve API key from credential store: %w", err)
	}

	if strings.TrimSpace(key) == "" {
		return "", ErrNoAPIKey
	}

	return key, nil
}

// DeleteAPIKey removes the stored key. Deleting a missing key is not an error.
func (cm *CredentialManager) DeleteAPIKey() error {
	err := keyring.Delete(cm.service, apiKeyKey)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete API key from credential store: %w", err)
	}
	return nil
}

// HasAPIKey checks if a key is stored without returning it.
func (cm *CredentialManager) HasAPIKey() bool {
	_, err := cm.GetAPIKey()
	return err == nil
}
