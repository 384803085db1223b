package ui

import (
	"testing"

	"krakenmate/internal/agent"
	"krakenmate/internal/state"
)

func newTestModel(initial []string) Model {
	agg := state.New()
	for _, sym := range initial {
		agg.TrackSymbol(sym)
	}
	return New(agg, nil, nil, [3]*agent.Handle{}, []string{"BTC/USD", "ETH/USD", "SOL/USD"}, initial)
}

func TestNewStartsOnAgentTab(t *testing.T) {
	m := newTestModel(nil)
	if m.activeTab != 0 || m.tabNames[0] != "Agent" {
		t.Fatalf("expected to start on Agent tab, got tab %d (%v)", m.activeTab, m.tabNames)
	}
	if m.focus != focusAgentInput {
		t.Fatalf("expected initial focus on agent input, got %v", m.focus)
	}
}

func TestNewPreselectsInitialSymbols(t *testing.T) {
	m := newTestModel([]string{"BTC/USD", "ETH/USD"})
	if len(m.tabNames) != 3 {
		t.Fatalf("expected Agent + 2 symbol tabs, got %v", m.tabNames)
	}
	if m.tabNames[1] != "BTC/USD" || m.tabNames[2] != "ETH/USD" {
		t.Fatalf("unexpected tab order: %v", m.tabNames)
	}
}

func TestNextTabWrapsAround(t *testing.T) {
	m := newTestModel([]string{"BTC/USD"})
	m.nextTab()
	if m.activeTab != 1 {
		t.Fatalf("expected tab 1, got %d", m.activeTab)
	}
	m.nextTab()
	if m.activeTab != 0 {
		t.Fatalf("expected wraparound to tab 0, got %d", m.activeTab)
	}
}

func TestPrevTabWrapsAround(t *testing.T) {
	m := newTestModel([]string{"BTC/USD"})
	m.prevTab()
	if m.activeTab != 1 {
		t.Fatalf("expected wraparound to last tab, got %d", m.activeTab)
	}
}

func TestCurrentTabIsSymbol(t *testing.T) {
	m := newTestModel([]string{"BTC/USD"})
	if _, ok := m.currentTabIsSymbol(); ok {
		t.Fatalf("tab 0 should be the Agent tab, not a symbol tab")
	}
	m.nextTab()
	sym, ok := m.currentTabIsSymbol()
	if !ok || sym != "BTC/USD" {
		t.Fatalf("expected symbol tab BTC/USD, got %q ok=%v", sym, ok)
	}
}

func TestTogglePairAddsAndRemoves(t *testing.T) {
	m := newTestModel(nil)
	m.togglePair("BTC/USD")
	if len(m.selectedPairs) != 1 || m.selectedPairs[0] != "BTC/USD" {
		t.Fatalf("expected BTC/USD selected, got %v", m.selectedPairs)
	}
	if len(m.tabNames) != 2 || m.tabNames[1] != "BTC/USD" {
		t.Fatalf("expected a new tab for BTC/USD, got %v", m.tabNames)
	}

	m.togglePair("BTC/USD")
	if len(m.selectedPairs) != 0 {
		t.Fatalf("expected BTC/USD deselected, got %v", m.selectedPairs)
	}
	if len(m.tabNames) != 1 {
		t.Fatalf("expected the symbol tab removed, got %v", m.tabNames)
	}
}

func TestSubmitTypedOrderRequiresPipeline(t *testing.T) {
	m := newTestModel([]string{"BTC/USD"})
	m.submitTypedOrder("BTC/USD", "buy 0.1")
	if m.errorMsg != "pipeline unavailable" {
		t.Fatalf("expected pipeline unavailable error, got %q", m.errorMsg)
	}
}

func TestSubmitTypedOrderRejectsBadSide(t *testing.T) {
	m := newTestModel([]string{"BTC/USD"})
	m.submitTypedOrder("BTC/USD", "hold 0.1")
	if m.errorMsg != "side must be buy or sell" {
		t.Fatalf("expected side validation error, got %q", m.errorMsg)
	}
}

func TestSubmitTypedOrderRejectsBadQty(t *testing.T) {
	m := newTestModel([]string{"BTC/USD"})
	m.submitTypedOrder("BTC/USD", "buy notaqty")
	if m.errorMsg != "invalid qty: notaqty" {
		t.Fatalf("expected qty validation error, got %q", m.errorMsg)
	}
}

func TestSubmitTypedOrderRejectsMissingFields(t *testing.T) {
	m := newTestModel([]string{"BTC/USD"})
	m.submitTypedOrder("BTC/USD", "buy")
	if m.errorMsg == "" {
		t.Fatalf("expected a usage error for a missing qty field")
	}
}

func TestShowErrorClearsAfterTTL(t *testing.T) {
	m := newTestModel(nil)
	m.showError("boom")
	if m.errorMsg != "boom" {
		t.Fatalf("expected error to be recorded")
	}
	// errorAt defaults to "now"; clearStaleError only clears once stale, so
	// a fresh error should survive an immediate check.
	m.clearStaleError()
	if m.errorMsg != "boom" {
		t.Fatalf("a fresh error should not be cleared immediately")
	}
}
