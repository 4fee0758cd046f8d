package components

import (
	"strings"

	"vaultmcp/internal/tui/styles"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
)

type LayoutConfig struct {
	Title    string
	Subtitle string
	HelpText string
	MarginX  int
	MarginY  int
	MaxWidth int
}

// LayoutModel renders a titled screen with an optional error and help footer.
type LayoutModel struct {
	config LayoutConfig
	width  int
	height int
	err    error
}

func NewLayout(config LayoutConfig) LayoutModel {
	return LayoutModel{}.SetConfig(config)
}

func (m LayoutModel) Update(msg tea.Msg) (LayoutModel, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// SetConfig replaces the screen text. Zero margins keep the current values.
func (m LayoutModel) SetConfig(config LayoutConfig) LayoutModel {
	if config.MarginX == 0 {
		config.MarginX = max(m.config.MarginX, 2)
	}
	if config.MarginY == 0 {
		config.MarginY = max(m.config.MarginY, 1)
	}
	if config.MaxWidth == 0 {
		config.MaxWidth = max(m.config.MaxWidth, 100)
	}
	m.config = config
	return m
}

func (m LayoutModel) SetError(err error) LayoutModel {
	if err != nil {
		m.err = err
	}
	return m
}

func (m LayoutModel) ClearError() LayoutModel {
	m.err = nil
	return m
}

func (m LayoutModel) Error() error {
	return m.err
}

// Render joins title, subtitle, content, error and help into one screen.
func (m LayoutModel) Render(content string) string {
	width := m.ContentWidth()
	var sections []string

	add := func(text string, style interface{ Render(...string) string }) {
		if text != "" {
			sections = append(sections, style.Render(wrapText(text, width)))
		}
	}

	add(m.config.Title, styles.TitleStyle)
	add(m.config.Subtitle, styles.SubtitleStyle)
	add(content, styles.NormalTextStyle)
	if m.err != nil {
		add("Error: "+m.err.Error(), styles.ErrorStyle)
	}
	add(m.config.HelpText, styles.HelpStyle)

	return m.addMargins(strings.Join(sections, "\n\n"))
}

// wrapText word-wraps each line, keeping blank lines and manual breaks.
// Leading indentation survives so list items stay aligned.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " \t")
		trimmed := strings.TrimLeft(line, " ")
		indent := line[:len(line)-len(trimmed)]
		if trimmed == "" {
			lines[i] = ""
			continue
		}
		wrapped := wordwrap.String(trimmed, width-len(indent))
		lines[i] = indent + strings.ReplaceAll(wrapped, "\n", "\n"+indent)
	}
	return strings.Join(lines, "\n")
}

func (m LayoutModel) addMargins(content string) string {
	lines := strings.Split(content, "\n")
	marginLeft := strings.Repeat(" ", m.config.MarginX)
	for i, line := range lines {
		lines[i] = marginLeft + line
	}

	margin := strings.Repeat("\n", m.config.MarginY)
	return margin + strings.Join(lines, "\n") + margin
}

// ContentWidth is the usable width inside the margins, clamped to [40, MaxWidth].
func (m LayoutModel) ContentWidth() int {
	available := m.width - (m.config.MarginX * 2)
	if available > m.config.MaxWidth {
		return m.config.MaxWidth
	}
	if available < 40 {
		return 40
	}
	return available
}

// InputWidth sizes text inputs to the content width, clamped to [30, 80].
func (m LayoutModel) InputWidth() int {
	return min(max(m.ContentWidth()-8, 30), 80)
}
