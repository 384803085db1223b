// Package ui renders a terminal dashboard over internal/state's aggregator:
// an agent-control tab and one tab per tracked symbol, in the spirit of
// original_source/src/tui/ (ratatui) but built on bubbletea/bubbles/
// lipgloss, the way NimbleMarkets-dbn-go's internal/tui structures a
// multi-page terminal application (AppModel, per-page tea.Model, a shared
// key.Binding map, lipgloss-styled header/footer).
//
// spec.md's C9 treats the renderer as out of scope; this is a supplemental,
// deliberately minimal implementation so the client has a usable front end.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorGreen    = lipgloss.Color("#4E9A06")
	colorRed      = lipgloss.Color("#CC0000")
	colorYellow   = lipgloss.Color("#FBF4A5")
	colorCyan     = lipgloss.Color("#4495AA")
	colorGray     = lipgloss.Color("#6B6B6B")
	colorWhite    = lipgloss.Color("#FFFFFF")
	colorDarkBg   = lipgloss.Color("#262626")

	headerStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(colorDarkBg).
			Bold(true)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(colorCyan).
			Bold(true).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorGray).
				Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(colorDarkBg)

	focusedBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(colorCyan)

	unfocusedBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(colorGray)

	helpStyle = lipgloss.NewStyle().Foreground(colorGray)

	errorStyle = lipgloss.NewStyle().Foreground(colorRed).Bold(true)

	buyStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	sellStyle = lipgloss.NewStyle().Foreground(colorRed)
)

func connColor(label string) lipgloss.Color {
	switch label {
	case "connected":
		return colorGreen
	case "reconnecting":
		return colorYellow
	default:
		return colorRed
	}
}

func sideStyle(side string) lipgloss.Style {
	if side == "buy" {
		return buyStyle
	}
	return sellStyle
}

func panelBorder(focused bool) lipgloss.Style {
	if focused {
		return focusedBorder
	}
	return unfocusedBorder
}
