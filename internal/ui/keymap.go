package ui

import "github.com/charmbracelet/bubbles/key"

// GlobalKeyMap holds the bindings active regardless of which tab is focused.
type GlobalKeyMap struct {
	NextTab key.Binding
	PrevTab key.Binding
	Quit    key.Binding
	Risk    key.Binding
	Creds   key.Binding
}

func defaultGlobalKeyMap() GlobalKeyMap {
	return GlobalKeyMap{
		NextTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Risk:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "risk editor")),
		Creds:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "credential editor")),
	}
}

// AgentKeyMap holds the bindings active on the Agent tab in normal mode.
type AgentKeyMap struct {
	FocusAgent1 key.Binding
	FocusAgent2 key.Binding
	FocusAgent3 key.Binding
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Toggle      key.Binding
	Insert      key.Binding
	Enter       key.Binding
	Esc         key.Binding
}

func defaultAgentKeyMap() AgentKeyMap {
	return AgentKeyMap{
		FocusAgent1: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "agent 1")),
		FocusAgent2: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "agent 2")),
		FocusAgent3: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "agent 3")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j", "down")),
		Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("h", "left")),
		Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("l", "right")),
		Toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle pair")),
		Insert:      key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "edit")),
		Enter:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Esc:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "exit entry")),
	}
}

// SymbolKeyMap holds the bindings active on a per-symbol tab.
type SymbolKeyMap struct {
	Up, Down, Left, Right key.Binding
	ToggleChart           key.Binding
	ToggleOrdersView      key.Binding
	Timeframe1            key.Binding
	Timeframe2            key.Binding
	Timeframe3            key.Binding
	Timeframe4            key.Binding
	Timeframe5            key.Binding
	Timeframe6            key.Binding
	NewOrder              key.Binding
	CancelOrder           key.Binding
	EditOrder             key.Binding
}

func defaultSymbolKeyMap() SymbolKeyMap {
	return SymbolKeyMap{
		Up:               key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k", "up")),
		Down:             key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j", "down")),
		Left:             key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("h", "left")),
		Right:            key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("l", "right")),
		ToggleChart:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "chart type")),
		ToggleOrdersView: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "orders view")),
		Timeframe1:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "1m")),
		Timeframe2:       key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "5m")),
		Timeframe3:       key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "15m")),
		Timeframe4:       key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "1h")),
		Timeframe5:       key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "4h")),
		Timeframe6:       key.NewBinding(key.WithKeys("6"), key.WithHelp("6", "1d")),
		NewOrder:         key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new order")),
		CancelOrder:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cancel order")),
		EditOrder:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit order")),
	}
}

// ConfirmKeyMap holds the bindings active while a confirmation modal is open.
type ConfirmKeyMap struct {
	Yes key.Binding
	No  key.Binding
	Esc key.Binding
}

func defaultConfirmKeyMap() ConfirmKeyMap {
	return ConfirmKeyMap{
		Yes: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		No:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		Esc: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// timeframeLabels maps the 1-6 timeframe keys to their Kraken OHLC interval
// labels, in the order original_source/src/tui/app.rs's Timeframe enum lists
// them.
var timeframeLabels = []string{"1m", "5m", "15m", "1h", "4h", "1d"}
