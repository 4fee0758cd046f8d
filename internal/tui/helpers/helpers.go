package helpers

import (
	"strings"

	"vaultmcp/internal/config"
	"vaultmcp/internal/logging"
)

// UIContext carries environment information needed for creating UI models
type UIContext struct {
	Width  int
	Height int
	// Config seeds the wizard; nil means defaults.
	Config *config.Config
	Logger *logging.AppLogger
}

// NewUIContext creates a new UI context with the provided parameters
func NewUIContext(width, height int, cfg *config.Config, logger *logging.AppLogger) UIContext {
	return UIContext{
		Width:  width,
		Height: height,
		Config: cfg,
		Logger: logger,
	}
}

// HasValidDimensions checks if the context has valid window dimensions
func (ctx UIContext) HasValidDimensions() bool {
	return ctx.Width > 0 && ctx.Height > 0
}

// MaskSecret hides all but the last four characters of s.
func MaskSecret(s string) string {
	const visible = 4
	if s == "" {
		return ""
	}
	r := []rune(s)
	if len(r) <= visible {
		return strings.Repeat("•", len(r))
	}
	return strings.Repeat("•", len(r)-visible) + string(r[len(r)-visible:])
}
