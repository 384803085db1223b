package wire

import (
	"github.com/shopspring/decimal"

	"krakenmate/internal/xerrors"
)

const (
	minBatchAddSize    = 2
	maxBatchAddSize    = 15
	minBatchCancelSize = 2
	maxBatchCancelSize = 50
)

// BatchOrderEntry is a single order within a batch_add request. All entries
// in a batch must target the same symbol (Kraken's batch_add constraint).
type BatchOrderEntry struct {
	OrderType   OrderType        `json:"order_type"`
	Side        OrderSide        `json:"side"`
	OrderQty    decimal.Decimal  `json:"order_qty"`
	LimitPrice  *decimal.Decimal `json:"limit_price,omitempty"`
	TimeInForce TimeInForce      `json:"time_in_force,omitempty"`
	ClOrdID     string           `json:"cl_ord_id,omitempty"`
}

// NewMarketBatchEntry builds a market-order batch entry.
func NewMarketBatchEntry(side OrderSide, qty decimal.Decimal) BatchOrderEntry {
	return BatchOrderEntry{OrderType: OrderTypeMarket, Side: side, OrderQty: qty}
}

// NewLimitBatchEntry builds a limit-order batch entry.
func NewLimitBatchEntry(side OrderSide, qty, price decimal.Decimal) BatchOrderEntry {
	return BatchOrderEntry{OrderType: OrderTypeLimit, Side: side, OrderQty: qty, LimitPrice: &price}
}

// BatchAddParams is the parameter set for the batch_add RPC.
type BatchAddParams struct {
	Symbol string            `json:"symbol"`
	Orders []BatchOrderEntry `json:"orders"`
	Token  RedactedToken     `json:"token"`
}

// NewBatchAddParams validates the 2-15 orders/same-symbol constraint
// (spec.md C1; original_source/src/models/batch_add.rs MIN/MAX_BATCH_SIZE).
func NewBatchAddParams(symbol string, orders []BatchOrderEntry, token RedactedToken) (BatchAddParams, error) {
	if len(orders) < minBatchAddSize || len(orders) > maxBatchAddSize {
		return BatchAddParams{}, xerrors.Newf(xerrors.MalformedMessage,
			"batch_add: order count %d outside allowed range [%d,%d]", len(orders), minBatchAddSize, maxBatchAddSize)
	}
	return BatchAddParams{Symbol: symbol, Orders: orders, Token: token}, nil
}

// BatchAddRequest is the outbound RPC envelope for batch_add.
type BatchAddRequest struct {
	Method string         `json:"method"` // "batch_add"
	Params BatchAddParams `json:"params"`
	ReqID  int64          `json:"req_id,omitempty"`
}

// BatchAddResult is one order's outcome within a batch_add response.
type BatchAddResult struct {
	OrderID string `json:"order_id"`
	ClOrdID string `json:"cl_ord_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BatchAddResponse is the RPC response envelope for batch_add.
type BatchAddResponse struct {
	Method  string            `json:"method"`
	Success bool              `json:"success"`
	Error   string            `json:"error,omitempty"`
	Result  []BatchAddResult  `json:"result,omitempty"`
	ReqID   int64             `json:"req_id,omitempty"`
}

// BatchCancelParams is the parameter set for the batch_cancel RPC.
type BatchCancelParams struct {
	OrderIDs []string      `json:"order_ids"`
	Token    RedactedToken `json:"token"`
}

// NewBatchCancelParams validates the 2-50 ids constraint
// (original_source/src/models/batch_cancel.rs MIN/MAX_BATCH_CANCEL_SIZE).
func NewBatchCancelParams(ids []string, token RedactedToken) (BatchCancelParams, error) {
	if len(ids) < minBatchCancelSize || len(ids) > maxBatchCancelSize {
		return BatchCancelParams{}, xerrors.Newf(xerrors.MalformedMessage,
			"batch_cancel: id count %d outside allowed range [%d,%d]", len(ids), minBatchCancelSize, maxBatchCancelSize)
	}
	return BatchCancelParams{OrderIDs: ids, Token: token}, nil
}

// BatchCancelRequest is the outbound RPC envelope for batch_cancel.
type BatchCancelRequest struct {
	Method string            `json:"method"` // "batch_cancel"
	Params BatchCancelParams `json:"params"`
	ReqID  int64             `json:"req_id,omitempty"`
}

// BatchCancelResult reports which ids were cancelled.
type BatchCancelResult struct {
	Count    int      `json:"count"`
	Warnings []string `json:"warnings,omitempty"`
}

// BatchCancelResponse is the RPC response envelope for batch_cancel.
type BatchCancelResponse struct {
	Method  string             `json:"method"`
	Success bool               `json:"success"`
	Error   string             `json:"error,omitempty"`
	Result  *BatchCancelResult `json:"result,omitempty"`
	ReqID   int64              `json:"req_id,omitempty"`
}
