package logging

import (
	"bytes"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// LogFileName is the development log written to the working directory when DEBUG is set.
const LogFileName = "vaultmcp.log"

type AppLogger struct {
	logger *log.Logger
	debug  bool
}

var (
	defaultLogger *AppLogger
	once          sync.Once
)

// GetDefault returns the default logger instance (singleton-like for convenience)
func GetDefault() *AppLogger {
	once.Do(func() {
		defaultLogger = NewAppLogger()
	})
	return defaultLogger
}

// Package-level convenience functions for quick logging
func Info(msg string, keyvals ...interface{}) {
	GetDefault().Info(msg, keyvals...)
}

func Warn(msg string, keyvals ...interface{}) {
	GetDefault().Warn(msg, keyvals...)
}

func Debug(msg string, keyvals ...interface{}) {
	GetDefault().Debug(msg, keyvals...)
}

// NewAppLogger builds the process logger.
//
// With DEBUG set, everything down to debug level goes to LogFileName in the
// working directory, truncated on each run. Otherwise warnings and errors go
// to stderr. Stdout is never used: in stdio mode it carries the MCP protocol.
func NewAppLogger() *AppLogger {
	debug := os.Getenv("DEBUG") != ""

	if !debug {
		return newStderrLogger(os.Stderr)
	}

	cwd, err := os.Getwd()
	if err != nil {
		panic(fmt.Sprintf("Failed to get current working directory: %v", err))
	}

	logPath := filepath.Join(cwd, LogFileName)

	// Clear the log file on each run for development
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		panic(fmt.Sprintf("Failed to create debug log file: %v", err))
	}

	logger := log.NewWithOptions(logFile, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "vaultmcp",
	})
	logger.SetLevel(log.DebugLevel)

	logger.Info("Debug logging enabled", "log_file", logPath)

	return &AppLogger{
		logger: logger,
		debug:  true,
	}
}

func newStderrLogger(w io.Writer) *AppLogger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "vaultmcp",
	})
	logger.SetLevel(log.WarnLevel)

	return &AppLogger{logger: logger}
}

// SetVerbose lowers the level to info when verbose is set. Debug builds are
// left at debug level.
func (al *AppLogger) SetVerbose(verbose bool) {
	if al.debug {
		return
	}
	if verbose {
		al.logger.SetLevel(log.InfoLevel)
	} else {
		al.logger.SetLevel(log.WarnLevel)
	}
}

// With returns a child logger that prefixes every entry with keyvals.
func (al *AppLogger) With(keyvals ...interface{}) *AppLogger {
	return &AppLogger{
		logger: al.logger.With(keyvals...),
		debug:  al.debug,
	}
}

// IsDebug reports whether debug-only output is enabled.
func (al *AppLogger) IsDebug() bool {
	return al.debug
}

// Log application events
func (al *AppLogger) Info(msg string, keyvals ...interface{}) {
	al.logger.Info(msg, keyvals...)
}

func (al *AppLogger) Warn(msg string, keyvals ...interface{}) {
	al.logger.Warn(msg, keyvals...)
}

func (al *AppLogger) Error(msg string, keyvals ...interface{}) {
	al.logger.Error(msg, keyvals...)
}

func (al *AppLogger) Debug(msg string, keyvals ...interface{}) {
	if al.debug {
		al.logger.Debug(msg, keyvals...)
	}
}

// Infof and Errorf let the logger stand in for printf-style library loggers.
func (al *AppLogger) Infof(format string, args ...interface{}) {
	al.logger.Infof(format, args...)
}

func (al *AppLogger) Errorf(format string, args ...interface{}) {
	al.logger.Errorf(format, args...)
}

// StandardLog adapts the logger for APIs that take a *log.Logger. Lines
// written through it are logged at error level.
func (al *AppLogger) StandardLog() *stdlog.Logger {
	return al.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel})
}

// Log a bubbletea message (debug only)
func (al *AppLogger) LogMessage(msg tea.Msg) {
	if !al.debug {
		return
	}

	al.logger.Debug("Message received",
		"type", fmt.Sprintf("%T", msg),
		"content", fmt.Sprintf("%+v", msg),
	)
}

// Pretty print any object
func (al *AppLogger) DebugObject(name string, obj interface{}) {
	if al.debug {
		al.logger.Debug("Object dump", "name", name, "object", fmt.Sprintf("%+v", obj))
	}
}

// Log performance metrics
func (al *AppLogger) LogPerformance(operation string, start time.Time) {
	if al.debug {
		duration := time.Since(start)
		al.logger.Debug("Performance",
			"operation", operation,
			"duration", duration,
		)
	}
}

// Log state transitions for debugging
func (al *AppLogger) LogStateTransition(component, from, to string) {
	if al.debug {
		al.logger.Debug("State transition",
			"component", component,
			"from", from,
			"to", to,
		)
	}
}

// Testing Helper - NewTestLogger creates a logger that writes to a buffer for testing
func NewTestLogger() (*AppLogger, *bytes.Buffer) {
	var buf bytes.Buffer

	logger := log.NewWithOptions(&buf, log.Options{
		ReportTimestamp: false, // Easier to test without timestamps
		ReportCaller:    false,
		Prefix:          "Test",
	})
	logger.SetLevel(log.DebugLevel)

	return &AppLogger{
		logger: logger,
		debug:  true,
	}, &buf
}
