// Package setupmenu provides the interactive setup wizard behind `vaultmcp setup`.
//
// The wizard walks through:
//   - Welcome
//   - Backend selection: Obsidian Local REST API or a vault directory on disk
//   - REST flow: base URL, then API key (masked)
//   - Local flow: vault directory
//   - HTTP port for the MCP server
//   - Confirmation, then save
//
// On confirmation the config file is written, the API key goes to the OS
// keyring, and the REST API is pinged once. A failed ping is reported as a
// warning; the configuration is kept.
package setupmenu

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"vaultmcp/internal/config"
	"vaultmcp/internal/logging"
	"vaultmcp/internal/obsidian"
	"vaultmcp/internal/tui/components"
	"vaultmcp/internal/tui/helpers"
	"vaultmcp/internal/tui/styles"
	"vaultmcp/pkg/fileops"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// SetupState represents the current screen of the wizard.
type SetupState int

const (
	SetupStateWelcome      SetupState = iota
	SetupStateBackendType             // REST API or local directory
	SetupStateBaseURL                 // REST API base URL input
	SetupStateAPIKey                  // REST API key input (password-masked)
	SetupStateVaultDir                // Local vault directory input
	SetupStatePort                    // MCP HTTP port input
	SetupStateConfirmation            // Review settings
	SetupStateSaving                  // Writing config and pinging the API
	SetupStateComplete
	SetupStateCancelled
)

var stateNames = map[SetupState]string{
	SetupStateWelcome:      "welcome",
	SetupStateBackendType:  "backend_type",
	SetupStateBaseURL:      "base_url",
	SetupStateAPIKey:       "api_key",
	SetupStateVaultDir:     "vault_dir",
	SetupStatePort:         "port",
	SetupStateConfirmation: "confirmation",
	SetupStateSaving:       "saving",
	SetupStateComplete:     "complete",
	SetupStateCancelled:    "cancelled",
}

func (s SetupState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// BackendType selects where the server reads the vault from.
type BackendType int

const (
	BackendREST  BackendType = iota // Obsidian Local REST API plugin
	BackendLocal                    // Vault directory on disk
)

// Pinger checks that the REST API at baseURL accepts apiKey.
type Pinger func(ctx context.Context, baseURL, apiKey string, timeout time.Duration) error

type (
	setupErrorMsg    struct{ err error }
	setupCompleteMsg struct {
		path    string
		pingErr error
	}
)

// SetupModel is the Bubble Tea model for the setup wizard.
type SetupModel struct {
	state        SetupState
	backend      BackendType
	backendIndex int

	// Collected values
	BaseURL  string
	APIKey   string
	VaultDir string
	Port     int

	// seed carries settings the wizard does not ask about (host, ignore, CORS, TTLs)
	seed config.Config

	Cancelled   bool
	SavedPath   string
	PingWarning error

	logger      *logging.AppLogger
	credManager *config.CredentialManager
	ping        Pinger

	textInput textinput.Model
	spinner   spinner.Model
	layout    components.LayoutModel
}

// NewSetupModel creates the wizard. Values from ctx.Config, when present,
// prefill every screen.
func NewSetupModel(ctx helpers.UIContext) *SetupModel {
	seed := config.DefaultConfig()
	if ctx.Config != nil {
		seed = *ctx.Config
	}
	seed.APIKey = ""

	logger := ctx.Logger
	if logger == nil {
		logger = logging.GetDefault()
	}

	ti := textinput.New()
	ti.CharLimit = 512
	ti.Focus()

	s := spinner.New()
	s.Style = styles.SpinnerStyle
	s.Spinner = spinner.Pulse

	layout := components.NewLayout(components.LayoutConfig{})
	if ctx.HasValidDimensions() {
		layout, _ = layout.Update(tea.WindowSizeMsg{Width: ctx.Width, Height: ctx.Height})
		ti.Width = layout.InputWidth()
	}

	m := &SetupModel{
		state:       SetupStateWelcome,
		BaseURL:     seed.BaseURL,
		VaultDir:    seed.VaultDir,
		Port:        seed.Port,
		seed:        seed,
		logger:      logger,
		credManager: config.NewCredentialManager(),
		ping:        pingRESTAPI,
		textInput:   ti,
		spinner:     s,
		layout:      layout,
	}
	if seed.UsesLocalVault() {
		m.backend = BackendLocal
		m.backendIndex = int(BackendLocal)
	}
	return m
}

// State returns the current screen.
func (m *SetupModel) State() SetupState {
	return m.state
}

// Backend returns the selected backend.
func (m *SetupModel) Backend() BackendType {
	return m.backend
}

func (m *SetupModel) Init() tea.Cmd {
	m.logger.Debug("Setup wizard started")
	return textinput.Blink
}

func (m *SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.logger.LogMessage(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout, _ = m.layout.Update(msg)
		m.textInput.Width = m.layout.InputWidth()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case spinner.TickMsg:
		if m.state != SetupStateSaving {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case setupErrorMsg:
		if m.state == SetupStateSaving {
			m.setState(SetupStateConfirmation)
		}
		m.layout = m.layout.SetError(msg.err)
		return m, nil

	case setupCompleteMsg:
		if m.state != SetupStateSaving {
			return m, nil
		}
		m.SavedPath = msg.path
		m.PingWarning = msg.pingErr
		m.setState(SetupStateComplete)
		return m, nil
	}

	return m, nil
}

func (m *SetupModel) setState(next SetupState) {
	m.logger.LogStateTransition("SetupModel", m.state.String(), next.String())
	m.state = next
	m.layout = m.layout.ClearError()
}

// isInputState reports whether the screen has a focused text input, where q is a character.
func (m *SetupModel) isInputState() bool {
	switch m.state {
	case SetupStateBaseURL, SetupStateAPIKey, SetupStateVaultDir, SetupStatePort:
		return true
	}
	return false
}

func (m *SetupModel) handleKeyPress(msg tea.KeyMsg) (*SetupModel, tea.Cmd) {
	if m.state == SetupStateComplete || m.state == SetupStateCancelled {
		return m, tea.Quit
	}

	key := msg.String()
	if key == "ctrl+c" || (key == "q" && !m.isInputState() && m.state != SetupStateSaving) {
		return m.handleQuit()
	}

	switch m.state {
	case SetupStateWelcome:
		return m.handleWelcomeKeys(msg)
	case SetupStateBackendType:
		return m.handleBackendTypeKeys(msg)
	case SetupStateBaseURL:
		return m.handleBaseURLKeys(msg)
	case SetupStateAPIKey:
		return m.handleAPIKeyKeys(msg)
	case SetupStateVaultDir:
		return m.handleVaultDirKeys(msg)
	case SetupStatePort:
		return m.handlePortKeys(msg)
	case SetupStateConfirmation:
		return m.handleConfirmationKeys(msg)
	case SetupStateSaving:
		return m, nil
	default:
		return m, tea.Quit
	}
}

func (m *SetupModel) handleWelcomeKeys(msg tea.KeyMsg) (*SetupModel, tea.Cmd) {
	switch msg.String() {
	case "enter", " ":
		m.setState(SetupStateBackendType)
	case "esc":
		return m.handleQuit()
	}
	return m, nil
}

func (m *SetupModel) handleBackendTypeKeys(msg tea.KeyMsg) (*SetupModel, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.backendIndex > 0 {
			m.backendIndex--
		}
	case "down", "j", "tab":
		if m.backendIndex < int(BackendLocal) {
			m.backendIndex++
		}
	case "enter", " ":
		m.backend = BackendType(m.backendIndex)
		if m.backend == BackendLocal {
			return m, m.resetTextInputForState(SetupStateVaultDir, m.VaultDir, "~/Documents/MyVault", textinput.EchoNormal)
		}
		return m, m.resetTextInputForState(SetupStateBaseURL, m.BaseURL, config.DefaultBaseURL, textinput.EchoNormal)
	case "esc":
		m.setState(SetupStateWelcome)
	}
	return m, nil
}

func (m *SetupModel) handleBaseURLKeys(msg tea.KeyMsg) (*SetupModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		input := strings.TrimSpace(m.textInput.Value())
		if input == "" {
			input = config.DefaultBaseURL
		}
		if err := config.ValidateBaseURL(input); err != nil {
			m.logger.Debug("Base URL rejected", "error", err)
			return m, errorCmd(err)
		}
		m.BaseURL = strings.TrimRight(input, "/")
		return m, m.resetTextInputForState(SetupStateAPIKey, "", m.apiKeyPlaceholder(), textinput.EchoPassword)
	case "esc":
		m.setState(SetupStateBackendType)
		return m, nil
	default:
		return m.updateTextInput(msg)
	}
}

func (m *SetupModel) apiKeyPlaceholder() string {
	if m.credManager.HasAPIKey() {
		return "leave empty to keep the stored key"
	}
	return "Settings → Local REST API → API Key"
}

func (m *SetupModel) handleAPIKeyKeys(msg tea.KeyMsg) (*SetupModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		input := strings.TrimSpace(m.textInput.Value())
		if input == "" {
			if stored, err := m.credManager.GetAPIKey(); err == nil {
				input = stored
			}
		}
		if err := config.ValidateAPIKey(input); err != nil {
			return m, errorCmd(err)
		}
		m.APIKey = input
		return m, m.resetTextInputForState(SetupStatePort, strconv.Itoa(m.Port), strconv.Itoa(config.DefaultPort), textinput.EchoNormal)
	case "esc":
		return m, m.resetTextInputForState(SetupStateBaseURL, m.BaseURL, config.DefaultBaseURL, textinput.EchoNormal)
	default:
		return m.updateTextInput(msg)
	}
}

func (m *SetupModel) handleVaultDirKeys(msg tea.KeyMsg) (*SetupModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		input := fileops.ExpandPath(strings.TrimSpace(m.textInput.Value()))
		if err := config.ValidateVaultDir(input); err != nil {
			m.logger.Debug("Vault directory rejected", "error", err)
			return m, errorCmd(err)
		}
		abs, err := filepath.Abs(input)
		if err != nil {
			return m, errorCmd(fmt.Errorf("failed to resolve vault directory: %w", err))
		}
		if fileops.IsReservedDirectory(abs) {
			return m, errorCmd(fmt.Errorf("%s is a system directory and cannot be served as a vault", abs))
		}
		m.VaultDir = abs
		return m, m.resetTextInputForState(SetupStatePort, strconv.Itoa(m.Port), strconv.Itoa(config.DefaultPort), textinput.EchoNormal)
	case "esc":
		m.setState(SetupStateBackendType)
		return m, nil
	default:
		return m.updateTextInput(msg)
	}
}

func (m *SetupModel) handlePortKeys(msg tea.KeyMsg) (*SetupModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		input := strings.TrimSpace(m.textInput.Value())
		if input == "" {
			input = strconv.Itoa(config.DefaultPort)
		}
		if err := config.ValidatePort(input); err != nil {
			return m, errorCmd(err)
		}
		m.Port, _ = strconv.Atoi(input)
		m.textInput.Blur()
		m.setState(SetupStateConfirmation)
		return m, nil
	case "esc":
		if m.backend == BackendLocal {
			return m, m.resetTextInputForState(SetupStateVaultDir, m.VaultDir, "~/Documents/MyVault", textinput.EchoNormal)
		}
		return m, m.resetTextInputForState(SetupStateAPIKey, "", m.apiKeyPlaceholder(), textinput.EchoPassword)
	default:
		return m.updateTextInput(msg)
	}
}

func (m *SetupModel) handleConfirmationKeys(msg tea.KeyMsg) (*SetupModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.setState(SetupStateSaving)
		return m, tea.Batch(m.spinner.Tick, m.saveConfig())
	case "n", "N", "esc":
		return m, m.resetTextInputForState(SetupStatePort, strconv.Itoa(m.Port), strconv.Itoa(config.DefaultPort), textinput.EchoNormal)
	}
	return m, nil
}

func (m *SetupModel) handleQuit() (*SetupModel, tea.Cmd) {
	m.logger.Debug("Setup cancelled", "state", m.state.String())
	m.Cancelled = true
	m.setState(SetupStateCancelled)
	return m, tea.Quit
}

func (m *SetupModel) updateTextInput(msg tea.Msg) (*SetupModel, tea.Cmd) {
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	if m.layout.Error() != nil {
		m.layout = m.layout.ClearError()
	}
	return m, cmd
}

// resetTextInputForState moves to an input screen with a fresh text field.
func (m *SetupModel) resetTextInputForState(state SetupState, value, placeholder string, echo textinput.EchoMode) tea.Cmd {
	m.setState(state)
	m.textInput.Reset()
	m.textInput.SetValue(value)
	m.textInput.Placeholder = placeholder
	m.textInput.EchoMode = echo
	m.textInput.CursorEnd()
	return m.textInput.Focus()
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg { return setupErrorMsg{err} }
}

// Config returns the configuration the wizard will save. The API key is
// kept off the returned value since it never goes to disk.
func (m *SetupModel) Config() config.Config {
	cfg := m.seed
	cfg.Port = m.Port
	if m.backend == BackendLocal {
		cfg.VaultDir = m.VaultDir
	} else {
		cfg.VaultDir = ""
		cfg.BaseURL = m.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultTimeout
	}
	cfg.APIKey = ""
	return cfg
}

// saveConfig stores the key, writes the config file and pings the REST API.
func (m *SetupModel) saveConfig() tea.Cmd {
	cfg := m.Config()
	backend, key := m.backend, m.APIKey
	creds, ping, logger := m.credManager, m.ping, m.logger

	return func() tea.Msg {
		logger.DebugObject("setup_config", cfg)
		if backend == BackendREST {
			if err := creds.StoreAPIKey(key); err != nil {
				logger.Error("Failed to store API key", "error", err)
				return setupErrorMsg{err}
			}
		}

		path := config.ConfigPath()
		if err := cfg.SaveTo(path); err != nil {
			logger.Error("Failed to save configuration", "error", err)
			return setupErrorMsg{fmt.Errorf("failed to save configuration: %w", err)}
		}

		var pingErr error
		if backend == BackendREST {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
			defer cancel()
			if pingErr = ping(ctx, cfg.BaseURL, key, cfg.Timeout); pingErr != nil {
				logger.Warn("Obsidian REST API not reachable", "base_url", cfg.BaseURL, "error", pingErr)
			}
		}
		return setupCompleteMsg{path: path, pingErr: pingErr}
	}
}

func pingRESTAPI(ctx context.Context, baseURL, apiKey string, timeout time.Duration) error {
	client, err := obsidian.NewClient(baseURL, apiKey, timeout)
	if err != nil {
		return err
	}
	return client.Ping(ctx)
}

func (m *SetupModel) View() string {
	switch m.state {
	case SetupStateWelcome:
		return m.viewWelcome()
	case SetupStateBackendType:
		return m.viewBackendType()
	case SetupStateBaseURL:
		return m.viewInput("Obsidian REST API", "Where is the Local REST API plugin listening?",
			"Install and enable the Local REST API community plugin in Obsidian. The default insecure HTTP endpoint is "+config.DefaultBaseURL+".",
			"Base URL:")
	case SetupStateAPIKey:
		return m.viewInput("API Key", "Paste the key shown in the plugin settings",
			"The key is stored in your OS keyring and never written to the config file.",
			"API key:")
	case SetupStateVaultDir:
		return m.viewInput("Vault Directory", "Which folder holds your vault?",
			"Files are read and written directly on disk. Obsidian does not need to be running.",
			"Vault path:")
	case SetupStatePort:
		return m.viewInput("Server Port", "Which port should the MCP HTTP endpoint use?",
			"Clients connect to http://localhost:<port>/mcp. The stdio transport ignores this setting.",
			"Port:")
	case SetupStateConfirmation:
		return m.viewConfirmation()
	case SetupStateSaving:
		return m.viewSaving()
	case SetupStateComplete:
		return m.viewComplete()
	case SetupStateCancelled:
		return m.viewCancelled()
	}
	return ""
}

func (m *SetupModel) viewWelcome() string {
	m.layout = m.layout.SetConfig(components.LayoutConfig{
		Title:    "Welcome to vaultmcp",
		Subtitle: "Let's connect your Obsidian vault.",
		HelpText: "Enter to continue • Esc or q to cancel",
	})

	content := `vaultmcp exposes your vault to AI assistants over the Model Context Protocol.

We'll set up:
  • Where the vault is read from
  • The port for the MCP HTTP endpoint`

	return m.layout.Render(content)
}

func (m *SetupModel) viewBackendType() string {
	m.layout = m.layout.SetConfig(components.LayoutConfig{
		Title:    "Vault Access",
		Subtitle: "How should vaultmcp reach your notes?",
		HelpText: "↑/↓ to select • Enter to continue • Esc to go back",
	})

	options := []struct{ name, desc string }{
		{"Obsidian Local REST API", "Talk to the running Obsidian app through the Local REST API plugin."},
		{"Local directory", "Read the vault folder from disk. Works without Obsidian running."},
	}

	var b strings.Builder
	for i, opt := range options {
		indicator, name := "  ", opt.name
		if i == m.backendIndex {
			indicator, name = "▶ ", styles.SelectedStyle.Render(opt.name)
		}
		fmt.Fprintf(&b, "%s%s\n     %s\n\n", indicator, name, opt.desc)
	}

	return m.layout.Render(strings.TrimRight(b.String(), "\n"))
}

func (m *SetupModel) viewInput(title, subtitle, explanation, prompt string) string {
	m.layout = m.layout.SetConfig(components.LayoutConfig{
		Title:    title,
		Subtitle: subtitle,
		HelpText: "Enter to continue • Esc to go back • Ctrl+C to cancel",
	})

	input := styles.InputStyle.Render(m.textInput.View())
	return m.layout.Render(fmt.Sprintf("%s\n\n%s\n%s", explanation, prompt, input))
}

func (m *SetupModel) summary() string {
	cfg := m.Config()
	var b strings.Builder
	if m.backend == BackendLocal {
		fmt.Fprintf(&b, "Backend:    local directory\nVault:      %s\n", cfg.VaultDir)
	} else {
		fmt.Fprintf(&b, "Backend:    Obsidian REST API\nBase URL:   %s\nAPI key:    %s\n", cfg.BaseURL, helpers.MaskSecret(m.APIKey))
	}
	fmt.Fprintf(&b, "MCP server: http://%s:%d/mcp", cfg.Host, cfg.Port)
	return b.String()
}

func (m *SetupModel) viewConfirmation() string {
	m.layout = m.layout.SetConfig(components.LayoutConfig{
		Title:    "Confirm Configuration",
		Subtitle: "Review your settings",
		HelpText: "y/Enter to save • n/Esc to go back • q to cancel",
	})

	return m.layout.Render(m.summary() + "\n\nConfig file: " + config.ConfigPath())
}

func (m *SetupModel) viewSaving() string {
	m.layout = m.layout.SetConfig(components.LayoutConfig{
		Title:    "Saving",
		HelpText: "Ctrl+C to cancel",
	})

	text := "Writing configuration..."
	if m.backend == BackendREST {
		text = "Saving configuration and checking the REST API..."
	}
	return m.layout.Render(m.spinner.View() + " " + text)
}

func (m *SetupModel) viewComplete() string {
	m.layout = m.layout.SetConfig(components.LayoutConfig{
		Title:    "Setup Complete",
		HelpText: "Press any key to exit",
	})

	content := styles.SuccessStyle.Render("✓ Configuration saved to "+m.SavedPath) + "\n\n" + m.summary()
	if m.PingWarning != nil {
		content += "\n\n" + styles.WarningStyle.Render("⚠ Could not reach the REST API: "+m.PingWarning.Error()) +
			"\n  Make sure Obsidian is running with the Local REST API plugin enabled."
	}
	content += "\n\nStart the server with `vaultmcp serve` or `vaultmcp stdio`."
	return m.layout.Render(content)
}

func (m *SetupModel) viewCancelled() string {
	m.layout = m.layout.SetConfig(components.LayoutConfig{
		Title: "Setup Cancelled",
	})
	return m.layout.Render("No changes were saved. Run `vaultmcp setup` again at any time.")
}
