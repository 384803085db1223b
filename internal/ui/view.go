package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	header := m.headerView()
	status := m.statusBarView()
	footer := m.footerView()

	var body string
	if sym, ok := m.currentTabIsSymbol(); ok {
		body = m.symbolTabView(sym)
	} else {
		body = m.agentTabView()
	}

	return lipglossJoin(header, status, body, footer)
}

func (m Model) headerView() string {
	var tabs []string
	for i, name := range m.tabNames {
		if i == m.activeTab {
			tabs = append(tabs, activeTabStyle.Render(fmt.Sprintf("[ %s ]", name)))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(fmt.Sprintf("| %s |", name)))
		}
	}
	line := strings.Join(tabs, "")
	width := m.width
	if width <= 0 {
		width = lipgloss.Width(line)
	}
	return headerStyle.Width(width).Render(line)
}

func (m Model) statusBarView() string {
	conn := "disconnected"
	if m.agg != nil {
		conn = m.agg.ConnectionState().String()
	}
	label := strings.ToUpper(conn[:1]) + conn[1:]

	segments := []string{lipgloss.NewStyle().Foreground(connColor(conn)).Render(" " + label + " ")}

	if m.agg != nil {
		segments = append(segments, fmt.Sprintf("token: %s", m.agg.TokenState().String()))
		segments = append(segments, fmt.Sprintf("heartbeat: %s", humanAgo(m.agg.LastHeartbeat())))
	}

	right := fmt.Sprintf(" %d/%d ", m.activeTab+1, len(m.tabNames))

	if m.errorMsg != "" {
		segments = append(segments, errorStyle.Render(m.errorMsg))
	}

	line := strings.Join(segments, "  ")
	width := m.width
	if width <= 0 {
		width = lipgloss.Width(line) + lipgloss.Width(right)
	}
	pad := width - lipgloss.Width(line) - lipgloss.Width(right)
	if pad < 0 {
		pad = 0
	}
	return statusBarStyle.Width(width).Render(line + strings.Repeat(" ", pad) + right)
}

func (m Model) footerView() string {
	var help string
	switch m.mode {
	case modeInsert:
		help = "[Esc]cancel [Enter]submit"
	case modeConfirm:
		help = "[y]yes [n]no [Esc]cancel"
	default:
		if _, ok := m.currentTabIsSymbol(); ok {
			help = "[h/l]focus [o]orders view [1-6]timeframe [n]ew order [Tab]switch tab [q]uit"
		} else {
			help = "[Tab]switch tab [Space]toggle pair [i]agent input [1-3]focus agent [q]uit"
		}
	}
	if m.mode == modeInsert {
		help = m.input.View() + "  " + help
	}
	return helpStyle.Render(help)
}
