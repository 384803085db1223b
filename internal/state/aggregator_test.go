package state

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"krakenmate/internal/session"
	"krakenmate/internal/wire"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestApplyTickerUpdatesSymbol(t *testing.T) {
	a := New()
	a.Apply(session.Event{Kind: session.EventTicker, Ticker: &wire.TickerUpdateResponse{
		Channel: "ticker", Type: "update",
		Data: []wire.TickerData{{Symbol: "BTC/USD", Bid: dec("50000"), Ask: dec("50010")}},
	}})
	got, ok := a.Ticker("BTC/USD")
	if !ok {
		t.Fatal("expected a ticker for BTC/USD")
	}
	if !got.Bid.Equal(dec("50000")) {
		t.Fatalf("bid = %s, want 50000", got.Bid)
	}
}

func TestApplyTradeAppendsToSymbolAndAllRings(t *testing.T) {
	a := New()
	a.Apply(session.Event{Kind: session.EventTrade, Trade: &wire.TradeUpdateResponse{
		Channel: "trade", Type: "update",
		Data: []wire.TradeData{{Symbol: "BTC/USD", Side: wire.SideBuy, Price: dec("50000"), Qty: dec("1")}},
	}})
	if len(a.Trades("BTC/USD")) != 1 {
		t.Fatalf("per-symbol trades = %d, want 1", len(a.Trades("BTC/USD")))
	}
	if len(a.AllTrades()) != 1 {
		t.Fatalf("all-trades = %d, want 1", len(a.AllTrades()))
	}
}

func TestTradeRingEvictsOldest(t *testing.T) {
	a := New()
	for i := 0; i < tradeRingSize+10; i++ {
		a.Apply(session.Event{Kind: session.EventTrade, Trade: &wire.TradeUpdateResponse{
			Data: []wire.TradeData{{Symbol: "BTC/USD", Price: dec("1")}},
		}})
	}
	if got := len(a.Trades("BTC/USD")); got != tradeRingSize {
		t.Fatalf("ring size = %d, want capped at %d", got, tradeRingSize)
	}
}

func TestApplyExecutionOpensThenMovesToExecuted(t *testing.T) {
	a := New()
	a.Apply(session.Event{Kind: session.EventExecution, Execution: &wire.ExecutionUpdateResponse{
		Data: []wire.ExecutionData{{OrderID: "O1", Symbol: "BTC/USD", OrderStatus: "new"}},
	}})
	if len(a.OpenOrders()) != 1 {
		t.Fatalf("open orders = %d, want 1 after new", len(a.OpenOrders()))
	}

	a.Apply(session.Event{Kind: session.EventExecution, Execution: &wire.ExecutionUpdateResponse{
		Data: []wire.ExecutionData{{OrderID: "O1", Symbol: "BTC/USD", OrderStatus: "filled"}},
	}})
	if len(a.OpenOrders()) != 0 {
		t.Fatalf("open orders = %d, want 0 after fill", len(a.OpenOrders()))
	}
	if len(a.ExecutedOrders()) != 1 {
		t.Fatalf("executed orders = %d, want 1 after fill", len(a.ExecutedOrders()))
	}
}

func TestRecordSubmittedOrderShowsAsOpen(t *testing.T) {
	a := New()
	a.RecordSubmittedOrder(OrderView{OrderID: "SIM-000001", Symbol: "BTC/USD", Status: "new"})
	if len(a.OpenOrders()) != 1 {
		t.Fatalf("open orders = %d, want 1", len(a.OpenOrders()))
	}
}

func TestOpenOrdersEvictOldestPast200(t *testing.T) {
	a := New()
	for i := 0; i < maxOpenOrders+5; i++ {
		a.Apply(session.Event{Kind: session.EventExecution, Execution: &wire.ExecutionUpdateResponse{
			Data: []wire.ExecutionData{{OrderID: fmt.Sprintf("O%d", i), Symbol: "BTC/USD", OrderStatus: "new"}},
		}})
	}
	if got := len(a.OpenOrders()); got != maxOpenOrders {
		t.Fatalf("open order count = %d, want capped at %d", got, maxOpenOrders)
	}
}

func TestApplyBalanceMergesByAsset(t *testing.T) {
	a := New()
	a.Apply(session.Event{Kind: session.EventBalance, Balance: &wire.BalanceUpdateResponse{
		Data: []wire.BalanceData{{Asset: "USD", Total: dec("1000")}},
	}})
	a.Apply(session.Event{Kind: session.EventBalance, Balance: &wire.BalanceUpdateResponse{
		Data: []wire.BalanceData{{Asset: "BTC", Total: dec("0.5")}},
	}})
	balances := a.Balances()
	if len(balances) != 2 {
		t.Fatalf("balances = %d, want 2", len(balances))
	}
}

func TestConnectionAndTokenStateTransitions(t *testing.T) {
	a := New()
	a.Apply(session.Event{Kind: session.EventConnected})
	if a.ConnectionState() != ConnConnected {
		t.Fatalf("connection state = %v, want connected", a.ConnectionState())
	}
	a.Apply(session.Event{Kind: session.EventTokenState, TokenState: session.TokenExpiringSoon})
	if a.TokenState() != session.TokenExpiringSoon {
		t.Fatalf("token state = %v, want expiring_soon", a.TokenState())
	}
}

func TestActiveSymbolsTrackAndUntrack(t *testing.T) {
	a := New()
	a.TrackSymbol("BTC/USD")
	a.TrackSymbol("ETH/USD")
	if len(a.ActiveSymbols()) != 2 {
		t.Fatalf("active symbols = %d, want 2", len(a.ActiveSymbols()))
	}
	a.UntrackSymbol("ETH/USD")
	if len(a.ActiveSymbols()) != 1 {
		t.Fatalf("active symbols after untrack = %d, want 1", len(a.ActiveSymbols()))
	}
}
