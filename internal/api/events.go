package api

import (
	"time"

	"krakenmate/internal/state"
	"krakenmate/internal/wire"
)

// DashboardEvent wraps every event pushed to connected WebSocket clients.
type DashboardEvent struct {
	Type      string      `json:"type"` // "snapshot", "ticker", "trade", "order", "balance"
	Timestamp time.Time   `json:"timestamp"`
	Symbol    string      `json:"symbol,omitempty"`
	Data      interface{} `json:"data"`
}

// TickerEvent is a throttled top-of-book price update for one symbol.
type TickerEvent struct {
	Symbol string `json:"symbol"`
	Ticker wire.TickerData `json:"ticker"`
}

// TradeEvent is a public trade print.
type TradeEvent struct {
	Symbol string        `json:"symbol"`
	Trade  wire.TradeData `json:"trade"`
}

// OrderEvent is an order lifecycle change (submission, fill, cancel).
type OrderEvent struct {
	Order OrderStatus `json:"order"`
}

// BalanceEvent is an asset balance change.
type BalanceEvent struct {
	Balance BalanceStatus `json:"balance"`
}

// NewTickerEvent builds a dashboard event from a ticker update.
func NewTickerEvent(symbol string, t wire.TickerData) DashboardEvent {
	return DashboardEvent{
		Type:      "ticker",
		Timestamp: time.Now(),
		Symbol:    symbol,
		Data:      TickerEvent{Symbol: symbol, Ticker: t},
	}
}

// NewTradeEvent builds a dashboard event from a public trade print.
func NewTradeEvent(t wire.TradeData) DashboardEvent {
	return DashboardEvent{
		Type:      "trade",
		Timestamp: time.Now(),
		Symbol:    t.Symbol,
		Data:      TradeEvent{Symbol: t.Symbol, Trade: t},
	}
}

// NewOrderEvent builds a dashboard event from an order view.
func NewOrderEvent(v state.OrderView) DashboardEvent {
	return DashboardEvent{
		Type:      "order",
		Timestamp: time.Now(),
		Symbol:    v.Symbol,
		Data:      OrderEvent{Order: newOrderStatus(v)},
	}
}

// NewBalanceEvent builds a dashboard event from a balance update.
func NewBalanceEvent(b wire.BalanceData) DashboardEvent {
	return DashboardEvent{
		Type:      "balance",
		Timestamp: time.Now(),
		Data: BalanceEvent{Balance: BalanceStatus{
			Asset: b.Asset,
			Total: b.Total,
			Spot:  b.Spot,
			Earn:  b.Earn,
		}},
	}
}
