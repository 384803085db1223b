package agent

import (
	"context"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	"krakenmate/internal/wire"
)

func testHandle() *Handle {
	return &Handle{
		agentIndex: 1,
		limiter:    NewTokenBucket(100, 1000), // effectively unthrottled for these tests
		logger:     slog.New(slog.DiscardHandler),
		events:     make(chan Event, 16),
	}
}

func TestParseOrderIntentFillsClOrdIDWhenMissing(t *testing.T) {
	h := testHandle()
	intent, err := h.parseOrderIntent(Inbound{
		Type: "place_order", Symbol: "BTC/USD", Side: "buy", OrderType: "market", Qty: "1.5",
	})
	if err != nil {
		t.Fatalf("parseOrderIntent: %v", err)
	}
	if intent.ClOrdID == "" {
		t.Fatal("expected a generated cl_ord_id")
	}
	if intent.Side != wire.SideBuy {
		t.Errorf("side = %v, want buy", intent.Side)
	}
	if !intent.Qty.Equal(mustDec("1.5")) {
		t.Errorf("qty = %s, want 1.5", intent.Qty)
	}
}

func TestParseOrderIntentKeepsSuppliedClOrdID(t *testing.T) {
	h := testHandle()
	intent, err := h.parseOrderIntent(Inbound{Symbol: "BTC/USD", Side: "buy", OrderType: "market", Qty: "1", ClOrdID: "my-id"})
	if err != nil {
		t.Fatalf("parseOrderIntent: %v", err)
	}
	if intent.ClOrdID != "my-id" {
		t.Errorf("cl_ord_id = %q, want my-id", intent.ClOrdID)
	}
}

func TestParseOrderIntentRejectsBadQty(t *testing.T) {
	h := testHandle()
	if _, err := h.parseOrderIntent(Inbound{Qty: "not-a-number"}); err == nil {
		t.Fatal("expected an error for a malformed quantity")
	}
}

func TestParseOrderIntentParsesOptionalPrice(t *testing.T) {
	h := testHandle()
	intent, err := h.parseOrderIntent(Inbound{Symbol: "BTC/USD", Side: "sell", OrderType: "limit", Qty: "1", Price: "50000"})
	if err != nil {
		t.Fatalf("parseOrderIntent: %v", err)
	}
	if intent.Price == nil || !intent.Price.Equal(mustDec("50000")) {
		t.Fatalf("price = %v, want 50000", intent.Price)
	}
}

func TestHandleInboundReadyEmitsReadyEvent(t *testing.T) {
	h := testHandle()
	h.handleInbound(context.Background(), Inbound{Type: "ready"}, "")
	ev := <-h.events
	if !ev.Ready {
		t.Fatal("expected a ready event")
	}
}

func TestHandleInboundOutputEmitsLine(t *testing.T) {
	h := testHandle()
	h.handleInbound(context.Background(), Inbound{Type: "output", Line: "hello"}, "")
	ev := <-h.events
	if ev.Output != "hello" {
		t.Errorf("output = %q, want hello", ev.Output)
	}
}

func TestHandleInboundPlaceOrderEmitsOrderIntent(t *testing.T) {
	h := testHandle()
	h.handleInbound(context.Background(), Inbound{
		Type: "place_order", Symbol: "ETH/USD", Side: "buy", OrderType: "market", Qty: "2",
	}, "")
	ev := <-h.events
	if ev.Order == nil {
		t.Fatal("expected an order intent event")
	}
	if ev.Order.Symbol != "ETH/USD" {
		t.Errorf("symbol = %q, want ETH/USD", ev.Order.Symbol)
	}
}

func TestHandleInboundPlaceOrderBadQtySurfacesErrorOutput(t *testing.T) {
	h := testHandle()
	h.handleInbound(context.Background(), Inbound{Type: "place_order", Qty: "garbage"}, "")
	ev := <-h.events
	if ev.Order != nil {
		t.Fatal("expected no order intent for a malformed request")
	}
	if ev.Output == "" {
		t.Fatal("expected an error line for the agent panel")
	}
}

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
