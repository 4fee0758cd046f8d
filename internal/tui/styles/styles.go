package styles

import "github.com/charmbracelet/lipgloss"

// Lip Gloss styles shared by the setup wizard and the CLI output.

var (
	accent = lipgloss.Color("#a882ff") // Obsidian purple
	muted  = lipgloss.Color("#7f7f7f")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			MarginBottom(1).
			PaddingLeft(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(muted).
			MarginBottom(1).
			PaddingLeft(1)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff005f")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffaf00"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00d75f")).
			Bold(true)

	NormalTextStyle = lipgloss.NewStyle().
			MarginBottom(1)

	HelpStyle = lipgloss.NewStyle().
			Faint(true).
			Foreground(muted).
			MarginTop(1).
			Padding(0, 1)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(accent)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)

	// Match rows printed by `vaultmcp find`.
	PathStyle  = lipgloss.NewStyle().Bold(true)
	ScoreStyle = lipgloss.NewStyle().Foreground(muted)

	ExactBadge    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00d75f"))
	ContainsBadge = lipgloss.NewStyle().Foreground(lipgloss.Color("#5fd7ff"))
	FuzzyBadge    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffaf00"))
)
