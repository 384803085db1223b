package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// agentTabView renders the Agent tab: one output column per agent slot
// (slots with no spawned agent are marked "[not spawned]"),
// an account/risk overview, an executed-trades table, a pair-selector grid,
// and the agent-input box, following the layout of
// original_source/src/tui/tabs/agent.rs.
func (m Model) agentTabView() string {
	columns := lipgloss.JoinHorizontal(lipgloss.Top,
		m.agentColumnView(0), m.agentColumnView(1), m.agentColumnView(2))

	overview := m.accountOverviewView()
	executed := m.executedTradesView()
	pairs := m.pairSelectorView()
	input := m.agentInputView()

	return lipglossJoin(columns, overview, executed, pairs, input)
}

func (m Model) agentColumnView(index int) string {
	title := fmt.Sprintf(" Agent %d ", index+1)
	h := m.agents[index]
	if h == nil {
		title += "[not spawned] "
	}

	focused := (index == 0 && m.focus == focusAgentInput) ||
		(index == 1 && m.focus == focusAgentOutput2) ||
		(index == 2 && m.focus == focusAgentOutput3)

	lines := m.agentOutputs[index]
	if len(lines) == 0 {
		lines = []string{helpStyle.Render("(no output yet)")}
	}
	body := strings.Join(lines, "\n")

	style := panelBorder(focused)
	if index == 0 && focused {
		style = style.BorderForeground(colorYellow)
	}
	return style.Width(40).Height(12).Render(title + "\n" + body)
}

func (m Model) accountOverviewView() string {
	if m.agg == nil {
		return statusBarStyle.Render(" balances unavailable ")
	}
	balances := m.agg.Balances()
	if len(balances) == 0 {
		return statusBarStyle.Render(" no balances ")
	}
	var parts []string
	for asset, b := range balances {
		parts = append(parts, fmt.Sprintf("%s: %s", asset, b.Total.StringFixed(4)))
	}
	line := strings.Join(parts, "  ")
	if m.guard != nil {
		line += "  |  " + m.guard.Config().DescribeLimits()
	}
	return statusBarStyle.Render(" " + line + " ")
}

func (m Model) executedTradesView() string {
	title := " Executed Orders "
	var rows []string
	if m.agg != nil {
		for _, o := range m.agg.ExecutedOrders() {
			rows = append(rows, orderLine(o.OrderID, o.Side, o.OrderType, valueOrZero(o.AvgPrice), o.OrderQty)+"  "+o.Symbol)
		}
	}
	if len(rows) == 0 {
		rows = []string{helpStyle.Render("no executed orders")}
	}
	if len(rows) > 8 {
		rows = rows[len(rows)-8:]
	}
	return unfocusedBorder.Width(120).Render(title + "\n" + strings.Join(rows, "\n"))
}

func (m Model) pairSelectorView() string {
	focused := m.focus == focusPairSelector
	title := " Symbols "

	var rows []string
	var row []string
	for i, sym := range m.availablePairs {
		box := "[ ]"
		if contains(m.selectedPairs, sym) {
			box = "[x]"
		}
		cell := fmt.Sprintf("%s %s", box, sym)
		if focused && i == m.pairSelectorIndex {
			cell = activeTabStyle.Render(cell)
		}
		row = append(row, cell)
		if len(row) == 4 {
			rows = append(rows, strings.Join(row, "  "))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, strings.Join(row, "  "))
	}
	if len(rows) == 0 {
		rows = []string{helpStyle.Render("no symbols configured")}
	}

	return panelBorder(focused).Width(120).Render(title + "\n" + strings.Join(rows, "\n"))
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func (m Model) agentInputView() string {
	if m.mode == modeInsert && m.focus == focusAgentInput {
		return focusedBorder.Width(120).Render(m.input.View())
	}
	return unfocusedBorder.Width(120).Render(helpStyle.Render("[i] to message Agent 1"))
}
