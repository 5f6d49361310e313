package tui

import "github.com/charmbracelet/lipgloss"

// Color palette. Adaptive colors follow the dark mode preference through
// applyTheme.
var (
	colorPrimary   = lipgloss.AdaptiveColor{Light: "#5A52E0", Dark: "#6C63FF"}
	colorSecondary = lipgloss.AdaptiveColor{Light: "#1F9E92", Dark: "#2EC4B6"}
	colorAccent    = lipgloss.AdaptiveColor{Light: "#E04848", Dark: "#FF6B6B"}
	colorMuted     = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#666666"}
	colorSuccess   = lipgloss.AdaptiveColor{Light: "#1E9E55", Dark: "#2ECC71"}
	colorWarning   = lipgloss.AdaptiveColor{Light: "#C77C02", Dark: "#F39C12"}
	colorError     = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#E74C3C"}
	colorFg        = lipgloss.AdaptiveColor{Light: "#1A1B26", Dark: "#C0CAF5"}
	colorSubtle    = lipgloss.AdaptiveColor{Light: "#C8CCE0", Dark: "#414868"}
	colorHighlight = lipgloss.AdaptiveColor{Light: "#3D6FD9", Dark: "#7AA2F7"}
)

// Styles
var (
	// Tabs
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(1, 2)

	celebrationPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				BorderForeground(colorSuccess).
				Padding(1, 2)

	// Clock faces
	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Align(lipgloss.Center)

	clockFocusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			Align(lipgloss.Center)

	clockPausedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWarning).
				Align(lipgloss.Center)

	clockBreakStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSecondary).
			Align(lipgloss.Center)

	// Text
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)
)

func applyTheme(dark bool) {
	lipgloss.SetHasDarkBackground(dark)
}
