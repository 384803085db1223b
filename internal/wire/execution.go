package wire

import "github.com/shopspring/decimal"

// Fee is the fee charged on an execution, in the given asset.
type Fee struct {
	Asset string          `json:"asset"`
	Qty   decimal.Decimal `json:"qty"`
}

// Triggers mirrors the state of a conditional order's trigger watcher.
type Triggers struct {
	Reference   *TriggerReference `json:"reference,omitempty"`
	Price       *decimal.Decimal  `json:"price,omitempty"`
	PriceType   *TriggerPriceType `json:"price_type,omitempty"`
	ActualPrice *decimal.Decimal  `json:"actual_price,omitempty"`
	PeakPrice   *decimal.Decimal  `json:"peak_price,omitempty"`
	LastPrice   *decimal.Decimal  `json:"last_price,omitempty"`
	Status      *string           `json:"status,omitempty"`
	Timestamp   *string           `json:"timestamp,omitempty"`
}

// Contingent mirrors a conditional close order attached to a parent order.
type Contingent struct {
	OrderType        *OrderType        `json:"order_type,omitempty"`
	TriggerPrice     *decimal.Decimal  `json:"trigger_price,omitempty"`
	TriggerPriceType *TriggerPriceType `json:"trigger_price_type,omitempty"`
	LimitPrice       *decimal.Decimal  `json:"limit_price,omitempty"`
	LimitPriceType   *TriggerPriceType `json:"limit_price_type,omitempty"`
}

// ExecutionData is one order-state-change or trade-execution event from the
// private executions channel. Field set mirrors
// original_source/src/models/execution.rs's ~35-field ExecutionData.
type ExecutionData struct {
	ExecType     string           `json:"exec_type"` // "new", "trade", "canceled", "expired", "amended", "filled", ...
	OrderID      string           `json:"order_id"`
	ClOrdID      string           `json:"cl_ord_id,omitempty"`
	OrderUserref int64            `json:"order_userref,omitempty"`
	Symbol       string           `json:"symbol"`
	Side         OrderSide        `json:"side"`
	OrderType    OrderType        `json:"order_type"`
	OrderStatus  string           `json:"order_status"`
	OrderQty     decimal.Decimal  `json:"order_qty"`
	CumQty       decimal.Decimal  `json:"cum_qty"`
	LeavesQty    decimal.Decimal  `json:"leaves_qty"`
	LimitPrice   *decimal.Decimal `json:"limit_price,omitempty"`
	LastPrice    *decimal.Decimal `json:"last_price,omitempty"`
	LastQty      *decimal.Decimal `json:"last_qty,omitempty"`
	AvgPrice     *decimal.Decimal `json:"avg_price,omitempty"`
	ExecID       string           `json:"exec_id,omitempty"`
	TradeID      uint64           `json:"trade_id,omitempty"`
	Fees         []Fee            `json:"fees,omitempty"`
	TimeInForce  TimeInForce      `json:"time_in_force,omitempty"`
	Timestamp    string           `json:"timestamp"`
	DisplayQty   *decimal.Decimal `json:"display_qty,omitempty"`
	ReduceOnly   bool             `json:"reduce_only,omitempty"`
	Margin       bool             `json:"margin,omitempty"`
	Triggers     *Triggers        `json:"triggers,omitempty"`
	Contingent   *Contingent      `json:"contingent,omitempty"`
	LiquidityInd string           `json:"liquidity_ind,omitempty"` // "maker"/"taker"
	ReasonCode   string           `json:"reason,omitempty"`
}

// ExecutionUpdateResponse is the executions channel's event envelope.
// sequence is a monotonic per-connection counter, not a timestamp.
type ExecutionUpdateResponse struct {
	Channel  string          `json:"channel"` // "executions"
	Type     string          `json:"type"`    // "snapshot" or "update"
	Sequence int64           `json:"sequence"`
	Data     []ExecutionData `json:"data"`
}
