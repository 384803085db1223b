package api

import (
	"time"

	"github.com/shopspring/decimal"

	"krakenmate/internal/config"
	"krakenmate/internal/state"
)

// DashboardSnapshot is the full read-only view of the client's state, served
// both as a one-shot HTTP response and as the initial frame on a new
// WebSocket connection.
type DashboardSnapshot struct {
	Timestamp time.Time `json:"timestamp"`

	Connection    string    `json:"connection"`     // "connected", "reconnecting", "disconnected"
	TokenState    string    `json:"token_state"`
	LastHeartbeat time.Time `json:"last_heartbeat,omitempty"`

	Symbols []SymbolStatus `json:"symbols"`

	OpenOrders     []OrderStatus   `json:"open_orders"`
	ExecutedOrders []OrderStatus   `json:"executed_orders"`
	Balances       []BalanceStatus `json:"balances"`

	Risk   RiskSnapshot  `json:"risk"`
	Config ConfigSummary `json:"config"`
}

// SymbolStatus is per-pair ticker and book state for one tracked symbol.
type SymbolStatus struct {
	Symbol string          `json:"symbol"`
	Bid    decimal.Decimal `json:"bid"`
	Ask    decimal.Decimal `json:"ask"`
	Last   decimal.Decimal `json:"last"`
	Volume decimal.Decimal `json:"volume"`

	BestBid decimal.Decimal `json:"best_bid"`
	BestAsk decimal.Decimal `json:"best_ask"`
	HasBook bool            `json:"has_book"`
	Stale   bool            `json:"stale"`
}

// OrderStatus is the dashboard's projection of one order's lifecycle.
type OrderStatus struct {
	OrderID    string           `json:"order_id"`
	ClOrdID    string           `json:"cl_ord_id,omitempty"`
	Symbol     string           `json:"symbol"`
	Side       string           `json:"side"`
	OrderType  string           `json:"order_type"`
	OrderQty   decimal.Decimal  `json:"order_qty"`
	LeavesQty  decimal.Decimal  `json:"leaves_qty"`
	CumQty     decimal.Decimal  `json:"cum_qty"`
	LimitPrice *decimal.Decimal `json:"limit_price,omitempty"`
	AvgPrice   *decimal.Decimal `json:"avg_price,omitempty"`
	Status     string           `json:"status"`
	Timestamp  string           `json:"timestamp,omitempty"`
}

// BalanceStatus is one asset's balance breakdown.
type BalanceStatus struct {
	Asset string          `json:"asset"`
	Total decimal.Decimal `json:"balance"`
	Spot  decimal.Decimal `json:"spot"`
	Earn  decimal.Decimal `json:"earn,omitempty"`
}

// RiskSnapshot surfaces the guard's configured limits in human-readable form;
// the check-order algorithm itself is internal/risk's responsibility.
type RiskSnapshot struct {
	Limits string `json:"limits"`
}

// ConfigSummary is a read-only view of the running configuration, with
// credentials never included.
type ConfigSummary struct {
	Symbols           []string `json:"symbols"`
	SimulationEnabled bool     `json:"simulation_enabled"`
	DashboardPort     int      `json:"dashboard_port"`
	LogLevel          string   `json:"log_level"`
}

// NewConfigSummary builds a ConfigSummary from a loaded config.
func NewConfigSummary(cfg config.Config) ConfigSummary {
	return ConfigSummary{
		Symbols:           cfg.Symbols,
		SimulationEnabled: cfg.Simulation.Enabled,
		DashboardPort:     cfg.Dashboard.Port,
		LogLevel:          cfg.Logging.Level,
	}
}

// newOrderStatus converts an aggregator order view into its dashboard form.
func newOrderStatus(v state.OrderView) OrderStatus {
	return OrderStatus{
		OrderID:    v.OrderID,
		ClOrdID:    v.ClOrdID,
		Symbol:     v.Symbol,
		Side:       string(v.Side),
		OrderType:  string(v.OrderType),
		OrderQty:   v.OrderQty,
		LeavesQty:  v.LeavesQty,
		CumQty:     v.CumQty,
		LimitPrice: v.LimitPrice,
		AvgPrice:   v.AvgPrice,
		Status:     v.Status,
		Timestamp:  v.Timestamp,
	}
}
