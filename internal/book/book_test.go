package book

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"krakenmate/internal/wire"
)

func level(price, qty string) wire.PriceLevel {
	return wire.PriceLevel{Price: decimal.RequireFromString(price), Qty: decimal.RequireFromString(qty)}
}

func snapshotMsg(symbol string, bids, asks []wire.PriceLevel) wire.BookUpdateResponse {
	return wire.BookUpdateResponse{
		Channel: "book",
		Type:    "snapshot",
		Data: []wire.BookData{
			{Symbol: symbol, Bids: bids, Asks: asks, Checksum: Checksum(asks, bids)},
		},
	}
}

func TestSnapshotReplacesBookAndClearsStale(t *testing.T) {
	m := NewManager()
	if !m.Get("BTC/USD").IsStale() {
		t.Fatal("new book should start stale")
	}

	msg := snapshotMsg("BTC/USD",
		[]wire.PriceLevel{level("50000", "1.0"), level("49990", "2.0")},
		[]wire.PriceLevel{level("50010", "1.5"), level("50020", "0.5")},
	)
	actions := m.ApplyBatch(msg)
	if len(actions) != 0 {
		t.Fatalf("snapshot should never request resync, got %v", actions)
	}

	state := m.Get("BTC/USD")
	if state.IsStale() {
		t.Fatal("book should not be stale after snapshot")
	}
	bid, ask, ok := state.BestBidAsk()
	if !ok {
		t.Fatal("expected best bid/ask after snapshot")
	}
	if !bid.Price.Equal(decimal.RequireFromString("50000")) {
		t.Fatalf("best bid price = %s, want 50000", bid.Price)
	}
	if !ask.Price.Equal(decimal.RequireFromString("50010")) {
		t.Fatalf("best ask price = %s, want 50010", ask.Price)
	}
}

func TestDeltaInsertUpdateRemovePreservesOrder(t *testing.T) {
	m := NewManager()
	snap := snapshotMsg("BTC/USD",
		[]wire.PriceLevel{level("50000", "1.0"), level("49990", "2.0")},
		[]wire.PriceLevel{level("50010", "1.5"), level("50020", "0.5")},
	)
	m.ApplyBatch(snap)

	// Insert a new best bid, update an existing ask, remove a bid (qty 0).
	newBids := []wire.PriceLevel{level("50005", "3.0"), level("49990", "0")}
	newAsks := []wire.PriceLevel{level("50010", "9.0")}
	delta := wire.BookUpdateResponse{
		Channel: "book",
		Type:    "update",
		Data: []wire.BookData{
			{Symbol: "BTC/USD", Bids: newBids, Asks: newAsks, Checksum: 0},
		},
	}

	state := m.Get("BTC/USD")
	bids, asks := state.Snapshot()
	delta.Data[0].Checksum = Checksum(applyDeltaCopy(asks, newAsks, false), applyDeltaCopy(bids, newBids, true))

	m.ApplyBatch(delta)

	bids, asks = state.Snapshot()
	if len(bids) != 2 {
		t.Fatalf("expected 2 bid levels after insert+remove, got %d: %+v", len(bids), bids)
	}
	if !bids[0].Price.Equal(decimal.RequireFromString("50005")) {
		t.Fatalf("best bid after delta = %s, want 50005", bids[0].Price)
	}
	if !bids[1].Price.Equal(decimal.RequireFromString("50000")) {
		t.Fatalf("second bid after delta = %s, want 50000", bids[1].Price)
	}
	if !asks[0].Qty.Equal(decimal.RequireFromString("9.0")) {
		t.Fatalf("ask qty after update = %s, want 9.0", asks[0].Qty)
	}
}

// applyDeltaCopy is a test helper that applies a batch of deltas to a copy of
// levels, used only to compute the expected post-delta checksum.
func applyDeltaCopy(base []wire.PriceLevel, deltas []wire.PriceLevel, descending bool) []wire.PriceLevel {
	out := append([]wire.PriceLevel(nil), base...)
	for _, d := range deltas {
		applyDelta(&out, d, descending)
	}
	truncate(&out, MaxDepth)
	return out
}

func TestChecksumMismatchTriggersResyncOnce(t *testing.T) {
	m := NewManager()
	snap := snapshotMsg("BTC/USD", []wire.PriceLevel{level("100", "1")}, []wire.PriceLevel{level("101", "1")})
	m.ApplyBatch(snap)
	snap2 := snapshotMsg("ETH/USD", []wire.PriceLevel{level("10", "1")}, []wire.PriceLevel{level("11", "1")})
	m.ApplyBatch(snap2)

	bad := wire.BookUpdateResponse{
		Channel: "book",
		Type:    "update",
		Data: []wire.BookData{
			{Symbol: "BTC/USD", Bids: []wire.PriceLevel{level("99", "1")}, Asks: nil, Checksum: 0xDEADBEEF},
			{Symbol: "ETH/USD", Bids: []wire.PriceLevel{level("9", "1")}, Asks: nil, Checksum: 0xDEADBEEF},
		},
	}

	actions := m.ApplyBatch(bad)
	if len(actions) != 1 {
		t.Fatalf("expected exactly one resync action across the batch, got %d: %+v", len(actions), actions)
	}
	if actions[0].Symbol != "BTC/USD" {
		t.Fatalf("expected first offender BTC/USD to win, got %s", actions[0].Symbol)
	}
}

func TestResyncRespectsCooldown(t *testing.T) {
	m := NewManager()
	m.ApplyBatch(snapshotMsg("BTC/USD", []wire.PriceLevel{level("100", "1")}, []wire.PriceLevel{level("101", "1")}))

	badDelta := func() wire.BookUpdateResponse {
		return wire.BookUpdateResponse{
			Channel: "book",
			Type:    "update",
			Data: []wire.BookData{
				{Symbol: "BTC/USD", Bids: []wire.PriceLevel{level("99", "1")}, Checksum: 0xDEADBEEF},
			},
		}
	}

	first := m.ApplyBatch(badDelta())
	if len(first) != 1 {
		t.Fatalf("expected first checksum failure to request resync, got %v", first)
	}

	second := m.ApplyBatch(badDelta())
	if len(second) != 0 {
		t.Fatalf("expected cooldown to suppress a second resync request, got %v", second)
	}

	state := m.Get("BTC/USD")
	state.mu.Lock()
	state.lastResyncAt = timePtr(time.Now().Add(-2 * ResyncCooldown))
	state.mu.Unlock()

	third := m.ApplyBatch(badDelta())
	if len(third) != 1 {
		t.Fatalf("expected resync to be allowed again after cooldown elapses, got %v", third)
	}
}

func TestStaleAfterMaxChecksumFailures(t *testing.T) {
	m := NewManager()
	m.ApplyBatch(snapshotMsg("BTC/USD", []wire.PriceLevel{level("100", "1")}, []wire.PriceLevel{level("101", "1")}))
	state := m.Get("BTC/USD")

	badDelta := wire.BookUpdateResponse{
		Channel: "book",
		Type:    "update",
		Data:    []wire.BookData{{Symbol: "BTC/USD", Bids: []wire.PriceLevel{level("99", "1")}, Checksum: 0xDEADBEEF}},
	}

	for i := 0; i < MaxChecksumFailures+1; i++ {
		m.ApplyBatch(badDelta)
		state.mu.Lock()
		state.lastResyncAt = timePtr(time.Now().Add(-2 * ResyncCooldown))
		state.mu.Unlock()
	}

	if !state.IsStale() {
		t.Fatal("book should be marked stale after exceeding max checksum failures")
	}
}

func timePtr(t time.Time) *time.Time { return &t }
