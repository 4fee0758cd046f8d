package setupmenu

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vaultmcp/internal/config"
	"vaultmcp/internal/logging"
	"vaultmcp/internal/tui/helpers"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/zalando/go-keyring"
)

// pingRecorder replaces the REST API check in tests.
type pingRecorder struct {
	err     error
	calls   int
	baseURL string
	apiKey  string
}

func (p *pingRecorder) ping(_ context.Context, baseURL, apiKey string, _ time.Duration) error {
	p.calls++
	p.baseURL = baseURL
	p.apiKey = apiKey
	return p.err
}

var errUnreachable = errors.New("connection refused")

// setTestConfigPath points the config file at a temp dir and mocks the keyring.
func setTestConfigPath(t *testing.T) string {
	t.Helper()
	keyring.MockInit()
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(config.EnvConfigPath, path)
	return path
}

func createTestModel(t *testing.T, seed *config.Config) (*SetupModel, *pingRecorder) {
	t.Helper()
	keyring.MockInit()
	logger, _ := logging.NewTestLogger()
	m := NewSetupModel(helpers.NewUIContext(100, 30, seed, logger))
	// A static cursor keeps Focus from returning a blocking blink command.
	m.textInput.Cursor.SetMode(cursor.CursorStatic)
	p := &pingRecorder{}
	m.ping = p.ping
	return m, p
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds a key through Update and runs the resulting command
// synchronously when it yields a wizard message.
func press(t *testing.T, m *SetupModel, s string) {
	t.Helper()
	_, cmd := m.Update(key(s))
	runWizardCmd(m, cmd)
}

func typeText(m *SetupModel, s string) {
	m.Update(key("ctrl+u"))
	if s != "" {
		m.Update(key(s))
	}
}

// runWizardCmd executes cmd and feeds back setup messages. Batches are
// unpacked; blink, tick and quit commands are ignored.
func runWizardCmd(m *SetupModel, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case setupErrorMsg, setupCompleteMsg:
		m.Update(msg)
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			switch inner := c().(type) {
			case setupErrorMsg, setupCompleteMsg:
				m.Update(inner)
			}
		}
	}
}

func waitForString(t *testing.T, tm *teatest.TestModel, s string) {
	t.Helper()
	teatest.WaitFor(
		t,
		tm.Output(),
		func(b []byte) bool {
			return strings.Contains(string(b), s)
		},
		teatest.WithCheckInterval(100*time.Millisecond),
		teatest.WithDuration(3*time.Second),
	)
}
