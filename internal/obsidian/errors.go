package obsidian

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"vaultmcp/internal/vault"
)

// APIError is a non-2xx response from the Local REST API.
type APIError struct {
	StatusCode int    `json:"-"`
	ErrorCode  int    `json:"errorCode"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("obsidian API: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("obsidian API: %d %s", e.StatusCode, e.Message)
}

// Is lets errors.Is(err, vault.ErrNotFound) hold for 404 responses.
func (e *APIError) Is(target error) bool {
	return target == vault.ErrNotFound && e.StatusCode == http.StatusNotFound
}

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 * 1024

func readAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}
