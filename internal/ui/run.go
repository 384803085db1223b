package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"krakenmate/internal/agent"
	"krakenmate/internal/pipeline"
	"krakenmate/internal/risk"
	"krakenmate/internal/state"
)

// Run starts the terminal renderer and blocks until the operator quits.
func Run(agg *state.Aggregator, pl *pipeline.Pipeline, guard *risk.Guard, agents [3]*agent.Handle, availablePairs, initialSymbols []string) error {
	model := New(agg, pl, guard, agents, availablePairs, initialSymbols)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
