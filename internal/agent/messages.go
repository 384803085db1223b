// Package agent spawns agent subprocesses and bridges their stdin/stdout/
// stderr with the rest of the client via line-delimited JSON, the way
// original_source/src/agent.rs wires a Python subprocess's pipes to the TUI
// message channel.
package agent

import "krakenmate/internal/wire"

// Outbound tags every message the core writes to an agent's stdin.
type Outbound struct {
	Type         string             `json:"type"`
	Content      string             `json:"content,omitempty"`
	Description  string             `json:"description,omitempty"`
	Success      *bool              `json:"success,omitempty"`
	OrderID      *string            `json:"order_id,omitempty"`
	ClOrdID      *string            `json:"cl_ord_id,omitempty"`
	OrderUserref *int64             `json:"order_userref,omitempty"`
	Error        *string            `json:"error,omitempty"`
	State        string             `json:"state,omitempty"`
	Executions   []wire.ExecutionData `json:"data,omitempty"`
	Ticker       *wire.TickerData   `json:"ticker,omitempty"`
	Trades       []wire.TradeData   `json:"trades,omitempty"`
	Balances     []wire.BalanceData `json:"balances,omitempty"`
	Pairs        []string           `json:"pairs,omitempty"`
}

func ptr[T any](v T) *T { return &v }

// UserMessage wraps an operator-typed line to forward to the agent.
func UserMessage(content string) Outbound {
	return Outbound{Type: "user_message", Content: content}
}

// RiskLimitsMessage carries the risk guard's human-readable limit summary
// for inclusion in the agent's system prompt.
func RiskLimitsMessage(description string) Outbound {
	return Outbound{Type: "risk_limits", Description: description}
}

// OrderResponseMessage reports the outcome of an order the agent requested.
func OrderResponseMessage(success bool, orderID, clOrdID string, orderUserref int64, errMsg string) Outbound {
	out := Outbound{Type: "order_response", Success: ptr(success)}
	if orderID != "" {
		out.OrderID = ptr(orderID)
	}
	if clOrdID != "" {
		out.ClOrdID = ptr(clOrdID)
	}
	if orderUserref != 0 {
		out.OrderUserref = ptr(orderUserref)
	}
	if errMsg != "" {
		out.Error = ptr(errMsg)
	}
	return out
}

// TokenStateMessage reports a private-feed token health change.
func TokenStateMessage(state string) Outbound {
	return Outbound{Type: "token_state", State: state}
}

// ExecutionUpdateMessage reports order status changes and fills.
func ExecutionUpdateMessage(data []wire.ExecutionData) Outbound {
	return Outbound{Type: "execution_update", Executions: data}
}

// TickerUpdateMessage reports a throttled price snapshot for one symbol.
func TickerUpdateMessage(data wire.TickerData) Outbound {
	return Outbound{Type: "ticker_update", Ticker: &data}
}

// TradeUpdateMessage reports recent market trades.
func TradeUpdateMessage(data []wire.TradeData) Outbound {
	return Outbound{Type: "trade_update", Trades: data}
}

// BalanceUpdateMessage reports asset balance changes.
func BalanceUpdateMessage(data []wire.BalanceData) Outbound {
	return Outbound{Type: "balance_update", Balances: data}
}

// ActivePairsMessage reports which trading pairs the operator has selected.
func ActivePairsMessage(pairs []string) Outbound {
	return Outbound{Type: "active_pairs", Pairs: pairs}
}

// ShutdownMessage asks the agent to exit gracefully.
func ShutdownMessage() Outbound {
	return Outbound{Type: "shutdown"}
}

// Inbound is a line-delimited JSON message from the agent's stdout.
type Inbound struct {
	Type    string `json:"type"`
	Agent   int    `json:"agent,omitempty"`
	Line    string `json:"line,omitempty"`
	Message string `json:"message,omitempty"`

	Symbol    string `json:"symbol,omitempty"`
	Side      string `json:"side,omitempty"`
	OrderType string `json:"order_type,omitempty"`
	Qty       string `json:"qty,omitempty"`
	Price     string `json:"price,omitempty"`
	ClOrdID   string `json:"cl_ord_id,omitempty"`
}
