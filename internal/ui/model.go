package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"krakenmate/internal/agent"
	"krakenmate/internal/pipeline"
	"krakenmate/internal/risk"
	"krakenmate/internal/state"
	"krakenmate/internal/wire"
)

const maxAgentOutputLines = 50

// focus mirrors original_source/src/tui/app.rs's Focus enum, narrowed to what
// this minimal renderer actually drives.
type focus int

const (
	focusAgentInput focus = iota
	focusAgentOutput1
	focusAgentOutput2
	focusAgentOutput3
	focusPairSelector
	focusOrderBook
	focusOrders
)

type mode int

const (
	modeNormal mode = iota
	modeInsert
	modeConfirm
)

type ordersView int

const (
	ordersViewOpen ordersView = iota
	ordersViewExecuted
)

// tickMsg drives periodic re-render off the aggregator's live state.
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// agentEventMsg forwards one agent.Event into the bubbletea loop.
type agentEventMsg struct {
	index int
	event agent.Event
}

func waitForAgentEvent(index int, h *agent.Handle) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-h.Events()
		if !ok {
			return nil
		}
		return agentEventMsg{index: index, event: ev}
	}
}

// Model is the top-level bubbletea model: an Agent tab plus one tab per
// tracked symbol, reading off a shared aggregator.
type Model struct {
	agg      *state.Aggregator
	pipeline *pipeline.Pipeline
	guard    *risk.Guard
	agents   [3]*agent.Handle

	availablePairs []string
	selectedPairs  []string
	tabNames       []string
	activeTab      int

	focus  focus
	mode   mode
	input  textinput.Model

	agentOutputs      [3][]string
	pairSelectorIndex int

	ordersView  map[string]ordersView
	timeframe   map[string]int
	symbolFocus map[string]focus

	errorMsg string
	errorAt  time.Time

	width, height int

	global  GlobalKeyMap
	agentKM AgentKeyMap
	symKM   SymbolKeyMap
	confKM  ConfirmKeyMap
}

// New constructs the renderer's model. agents[i] may be nil if that slot
// isn't spawned. initialSymbols are pre-selected and already tracked on the
// aggregator (typically config.Symbols); availablePairs is the full list the
// operator can toggle from the pair-selector grid.
func New(agg *state.Aggregator, pl *pipeline.Pipeline, guard *risk.Guard, agents [3]*agent.Handle, availablePairs, initialSymbols []string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 256

	tabNames := append([]string{"Agent"}, initialSymbols...)
	selected := append([]string{}, initialSymbols...)

	return Model{
		agg:            agg,
		pipeline:       pl,
		guard:          guard,
		agents:         agents,
		availablePairs: availablePairs,
		selectedPairs:  selected,
		tabNames:       tabNames,
		focus:          focusAgentInput,
		input:          ti,
		ordersView:     map[string]ordersView{},
		timeframe:      map[string]int{},
		symbolFocus:    map[string]focus{},
		global:         defaultGlobalKeyMap(),
		agentKM:        defaultAgentKeyMap(),
		symKM:          defaultSymbolKeyMap(),
		confKM:         defaultConfirmKeyMap(),
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tick()}
	for i, h := range m.agents {
		if h != nil {
			cmds = append(cmds, waitForAgentEvent(i, h))
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) currentTabIsSymbol() (string, bool) {
	if m.activeTab == 0 {
		return "", false
	}
	idx := m.activeTab - 1
	if idx < 0 || idx >= len(m.selectedPairs) {
		return "", false
	}
	return m.selectedPairs[idx], true
}

func (m *Model) nextTab() {
	if len(m.tabNames) == 0 {
		return
	}
	m.activeTab = (m.activeTab + 1) % len(m.tabNames)
	m.resetFocusForTab()
}

func (m *Model) prevTab() {
	if len(m.tabNames) == 0 {
		return
	}
	m.activeTab--
	if m.activeTab < 0 {
		m.activeTab = len(m.tabNames) - 1
	}
	m.resetFocusForTab()
}

func (m *Model) resetFocusForTab() {
	if sym, ok := m.currentTabIsSymbol(); ok {
		if f, ok := m.symbolFocus[sym]; ok {
			m.focus = f
		} else {
			m.focus = focusOrderBook
		}
		return
	}
	m.focus = focusAgentInput
}

func (m *Model) togglePair(symbol string) {
	for i, s := range m.selectedPairs {
		if s == symbol {
			m.selectedPairs = append(m.selectedPairs[:i], m.selectedPairs[i+1:]...)
			m.tabNames = append(m.tabNames[:i+1], m.tabNames[i+2:]...)
			if m.agg != nil {
				m.agg.UntrackSymbol(symbol)
			}
			if m.activeTab >= len(m.tabNames) && m.activeTab > 0 {
				m.activeTab = len(m.tabNames) - 1
			}
			return
		}
	}
	m.selectedPairs = append(m.selectedPairs, symbol)
	m.tabNames = append(m.tabNames, symbol)
	if m.agg != nil {
		m.agg.TrackSymbol(symbol)
	}
}

func (m *Model) showError(msg string) {
	m.errorMsg = msg
	m.errorAt = time.Now()
}

func (m *Model) clearStaleError() {
	if m.errorMsg != "" && time.Since(m.errorAt) > 5*time.Second {
		m.errorMsg = ""
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tickMsg:
		m.clearStaleError()
		return m, tick()

	case agentEventMsg:
		return m.handleAgentEvent(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleAgentEvent(msg agentEventMsg) (tea.Model, tea.Cmd) {
	i := msg.index
	if i < 0 || i >= 3 {
		return m, waitForAgentEvent(i, m.agents[i])
	}
	ev := msg.event
	if ev.Output != "" {
		out := append(m.agentOutputs[i], ev.Output)
		if len(out) > maxAgentOutputLines {
			out = out[len(out)-maxAgentOutputLines:]
		}
		m.agentOutputs[i] = out
	}
	if ev.Order != nil && m.pipeline != nil {
		m.submitAgentOrder(*ev.Order)
	}
	return m, waitForAgentEvent(i, m.agents[i])
}

func (m *Model) submitAgentOrder(o agent.OrderIntent) {
	params := wire.AddOrderParams{
		OrderType: o.OrderType,
		Side:      o.Side,
		Symbol:    o.Symbol,
		OrderQty:  o.Qty,
		ClOrdID:   o.ClOrdID,
	}
	if o.Price != nil {
		params.LimitPrice = o.Price
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := m.pipeline.Submit(ctx, pipeline.Intent{Params: params, Source: fmt.Sprintf("agent-%d", o.AgentIndex)})
	if err != nil {
		m.showError(err.Error())
		return
	}
	if res.Outcome == pipeline.Rejected {
		m.showError("order rejected: " + res.Reason)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeConfirm {
		return m.handleConfirmKey(msg)
	}
	if m.mode == modeInsert {
		return m.handleInsertKey(msg)
	}

	switch {
	case key.Matches(msg, m.global.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.global.NextTab):
		m.nextTab()
		return m, nil
	case key.Matches(msg, m.global.PrevTab):
		m.prevTab()
		return m, nil
	}

	if sym, ok := m.currentTabIsSymbol(); ok {
		return m.handleSymbolKey(msg, sym)
	}
	return m.handleAgentKey(msg)
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.confKM.Yes):
		m.mode = modeNormal
		if m.pipeline != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if _, err := m.pipeline.Confirm(ctx, true); err != nil {
				m.showError(err.Error())
			}
		}
	case key.Matches(msg, m.confKM.No), key.Matches(msg, m.confKM.Esc):
		m.mode = modeNormal
		if m.pipeline != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_, _ = m.pipeline.Confirm(ctx, false)
		}
	}
	return m, nil
}

func (m Model) handleInsertKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	case "enter":
		text := m.input.Value()
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeNormal

		if sym, ok := m.currentTabIsSymbol(); ok && m.focus == focusOrders {
			m.submitTypedOrder(sym, text)
		} else if m.agents[0] != nil && strings.TrimSpace(text) != "" {
			if err := m.agents[0].Send(agent.UserMessage(text)); err != nil {
				m.showError(err.Error())
			}
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitTypedOrder parses "buy 0.1" (market) or "sell 0.1 50000" (limit)
// from the order-entry text field.
func (m *Model) submitTypedOrder(symbol, text string) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		m.showError("usage: buy|sell qty [price]")
		return
	}
	side := wire.OrderSide(strings.ToLower(fields[0]))
	if side != wire.SideBuy && side != wire.SideSell {
		m.showError("side must be buy or sell")
		return
	}
	qty, err := decimal.NewFromString(fields[1])
	if err != nil {
		m.showError("invalid qty: " + fields[1])
		return
	}

	params := wire.AddOrderParams{
		Side:     side,
		Symbol:   symbol,
		OrderQty: qty,
	}
	if len(fields) >= 3 {
		price, err := decimal.NewFromString(fields[2])
		if err != nil {
			m.showError("invalid price: " + fields[2])
			return
		}
		params.OrderType = wire.OrderTypeLimit
		params.LimitPrice = &price
	} else {
		params.OrderType = wire.OrderTypeMarket
	}

	if m.pipeline == nil {
		m.showError("pipeline unavailable")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := m.pipeline.Submit(ctx, pipeline.Intent{Params: params, Source: "operator"})
	if err != nil {
		m.showError(err.Error())
		return
	}
	switch res.Outcome {
	case pipeline.Rejected:
		m.showError("rejected: " + res.Reason)
	case pipeline.PendingConfirmation:
		m.mode = modeConfirm
	}
}

func (m Model) handleAgentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.agentKM.FocusAgent1):
		m.focus = focusAgentInput
	case key.Matches(msg, m.agentKM.FocusAgent2):
		m.focus = focusAgentOutput2
	case key.Matches(msg, m.agentKM.FocusAgent3):
		m.focus = focusAgentOutput3
	case key.Matches(msg, m.agentKM.Insert):
		if m.focus == focusAgentInput {
			m.mode = modeInsert
			return m, m.input.Focus()
		}
	case key.Matches(msg, m.agentKM.Enter):
		if m.focus == focusAgentInput {
			m.mode = modeInsert
			return m, m.input.Focus()
		}
	case key.Matches(msg, m.agentKM.Down):
		if m.focus != focusPairSelector {
			m.focus = focusPairSelector
		} else if m.pairSelectorIndex+4 < len(m.availablePairs) {
			m.pairSelectorIndex += 4
		}
	case key.Matches(msg, m.agentKM.Up):
		if m.focus == focusPairSelector && m.pairSelectorIndex-4 >= 0 {
			m.pairSelectorIndex -= 4
		}
	case key.Matches(msg, m.agentKM.Left):
		if m.focus == focusPairSelector && m.pairSelectorIndex > 0 {
			m.pairSelectorIndex--
		}
	case key.Matches(msg, m.agentKM.Right):
		if m.focus == focusPairSelector && m.pairSelectorIndex < len(m.availablePairs)-1 {
			m.pairSelectorIndex++
		}
	case key.Matches(msg, m.agentKM.Toggle):
		if m.focus == focusPairSelector && m.pairSelectorIndex < len(m.availablePairs) {
			m.togglePair(m.availablePairs[m.pairSelectorIndex])
		}
	}
	return m, nil
}

func (m Model) handleSymbolKey(msg tea.KeyMsg, sym string) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.symKM.Left):
		m.focus = focusOrderBook
	case key.Matches(msg, m.symKM.Right):
		m.focus = focusOrders
	case key.Matches(msg, m.symKM.Up), key.Matches(msg, m.symKM.Down):
		// no scrollable lists in the minimal renderer yet
	case key.Matches(msg, m.symKM.ToggleOrdersView):
		if m.ordersView[sym] == ordersViewOpen {
			m.ordersView[sym] = ordersViewExecuted
		} else {
			m.ordersView[sym] = ordersViewOpen
		}
	case key.Matches(msg, m.symKM.Timeframe1):
		m.timeframe[sym] = 0
	case key.Matches(msg, m.symKM.Timeframe2):
		m.timeframe[sym] = 1
	case key.Matches(msg, m.symKM.Timeframe3):
		m.timeframe[sym] = 2
	case key.Matches(msg, m.symKM.Timeframe4):
		m.timeframe[sym] = 3
	case key.Matches(msg, m.symKM.Timeframe5):
		m.timeframe[sym] = 4
	case key.Matches(msg, m.symKM.Timeframe6):
		m.timeframe[sym] = 5
	case key.Matches(msg, m.symKM.NewOrder):
		m.focus = focusOrders
		m.mode = modeInsert
		m.input.Placeholder = "buy|sell qty [price]"
		return m, m.input.Focus()
	}
	m.symbolFocus[sym] = m.focus
	return m, nil
}

func humanAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

func lipglossJoin(lines ...string) string {
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
