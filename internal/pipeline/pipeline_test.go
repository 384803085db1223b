package pipeline

import (
	"context"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	"krakenmate/internal/risk"
	"krakenmate/internal/session"
	"krakenmate/internal/simulation"
	"krakenmate/internal/state"
	"krakenmate/internal/wire"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(nullWriter{}, nil))
}

type nullWriter struct{}

func (nullWriter) Write(p []byte) (int, error) { return len(p), nil }

func testGuard() *risk.Guard {
	return risk.NewGuard(&risk.Config{
		Defaults: risk.SymbolLimits{
			MaxOrderQty:          dec("10"),
			MaxNotionalValue:     dec("100000"),
			ConfirmAboveNotional: dec("20000"),
			MaxTradesPerDay:      50,
			MaxTradesPerWeek:     200,
			MaxTradesPerMonth:    500,
		},
	})
}

func marketBuy(symbol, qty string) wire.AddOrderParams {
	return wire.AddOrderParams{
		OrderType: wire.OrderTypeMarket,
		Side:      wire.SideBuy,
		Symbol:    symbol,
		OrderQty:  dec(qty),
	}
}

func limitBuy(symbol, qty, price string) wire.AddOrderParams {
	p := dec(price)
	return wire.AddOrderParams{
		OrderType:  wire.OrderTypeLimit,
		Side:       wire.SideBuy,
		Symbol:     symbol,
		OrderQty:   dec(qty),
		LimitPrice: &p,
	}
}

func newSimPipeline() (*Pipeline, *state.Aggregator) {
	agg := state.New()
	agg.Apply(session.Event{Kind: session.EventTicker, Ticker: &wire.TickerUpdateResponse{
		Data: []wire.TickerData{{Symbol: "BTC/USD", Bid: dec("49990"), Ask: dec("50010")}},
	}})
	p := New(session.NewManager("", "", nil, discardLogger()), testGuard(), simulation.NewEngine(), agg, discardLogger())
	return p, agg
}

func TestSubmitApprovedSimulatedOrderFills(t *testing.T) {
	p, agg := newSimPipeline()
	res, err := p.Submit(context.Background(), Intent{Params: marketBuy("BTC/USD", "1"), Source: "operator"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != Approved {
		t.Fatalf("outcome = %v, want Approved", res.Outcome)
	}
	if res.OrderID == "" {
		t.Fatal("expected a synthesized order id")
	}
	if len(agg.ExecutedOrders()) != 1 {
		t.Fatalf("executed orders = %d, want 1", len(agg.ExecutedOrders()))
	}
}

func TestSubmitRejectsOverMaxQty(t *testing.T) {
	p, _ := newSimPipeline()
	res, err := p.Submit(context.Background(), Intent{Params: marketBuy("BTC/USD", "50")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != Rejected {
		t.Fatalf("outcome = %v, want Rejected", res.Outcome)
	}
}

func TestSubmitRequiresConfirmationAboveThreshold(t *testing.T) {
	p, _ := newSimPipeline()
	res, err := p.Submit(context.Background(), Intent{Params: limitBuy("BTC/USD", "1", "50000")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != PendingConfirmation {
		t.Fatalf("outcome = %v, want PendingConfirmation", res.Outcome)
	}
	if reason, ok := p.PendingReason(); !ok || reason == "" {
		t.Fatal("expected a pending order with a reason")
	}
}

func TestSecondConfirmationRequiredIntentRejectedWhilePending(t *testing.T) {
	p, _ := newSimPipeline()
	if _, err := p.Submit(context.Background(), Intent{Params: limitBuy("BTC/USD", "1", "50000")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := p.Submit(context.Background(), Intent{Params: limitBuy("BTC/USD", "1", "50000")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != Rejected || res.Reason != "pending confirmation in progress" {
		t.Fatalf("second intent = %+v, want rejected with pending-in-progress reason", res)
	}
}

func TestConfirmApproveDispatchesPendingOrder(t *testing.T) {
	p, agg := newSimPipeline()
	if _, err := p.Submit(context.Background(), Intent{Params: limitBuy("BTC/USD", "1", "50000")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := p.Confirm(context.Background(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != Approved {
		t.Fatalf("outcome = %v, want Approved", res.Outcome)
	}
	if _, ok := p.PendingReason(); ok {
		t.Fatal("expected no pending order after confirmation")
	}
	if len(agg.ExecutedOrders()) != 1 {
		t.Fatalf("executed orders = %d, want 1", len(agg.ExecutedOrders()))
	}
}

func TestConfirmDeclineDropsPendingOrder(t *testing.T) {
	p, agg := newSimPipeline()
	if _, err := p.Submit(context.Background(), Intent{Params: limitBuy("BTC/USD", "1", "50000")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := p.Confirm(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != Rejected {
		t.Fatalf("outcome = %v, want Rejected", res.Outcome)
	}
	if len(agg.ExecutedOrders()) != 0 {
		t.Fatal("declined order must not execute")
	}
}

func TestConfirmWithNoPendingOrderErrors(t *testing.T) {
	p, _ := newSimPipeline()
	if _, err := p.Confirm(context.Background(), true); err == nil {
		t.Fatal("expected an error confirming with nothing pending")
	}
}

func TestSubmitLiveWithoutTokenErrors(t *testing.T) {
	agg := state.New()
	p := New(session.NewManager("", "", nil, discardLogger()), testGuard(), nil, agg, discardLogger())
	_, err := p.Submit(context.Background(), Intent{Params: marketBuy("BTC/USD", "1")})
	if err == nil {
		t.Fatal("expected an error submitting live with no private token available")
	}
}
