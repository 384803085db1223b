package wire

import (
	"github.com/shopspring/decimal"

	"krakenmate/internal/xerrors"
)

// AmendOrderParams mutates a resting order in place. At least one of
// OrderID/ClOrdID must identify the order, and at least one mutable field
// (qty/limit_price/trigger fields) must be set — both constraints from
// spec.md's C1 edge cases and grounded on original_source/src/models/
// amend_order.rs's MissingOrderIdentifier/NoAmendmentFields errors.
type AmendOrderParams struct {
	OrderID      string           `json:"order_id,omitempty"`
	ClOrdID      string           `json:"cl_ord_id,omitempty"`
	OrderQty     *decimal.Decimal `json:"order_qty,omitempty"`
	LimitPrice   *decimal.Decimal `json:"limit_price,omitempty"`
	TriggerPrice *decimal.Decimal `json:"trigger_price,omitempty"`
	PostOnly     *bool            `json:"post_only,omitempty"`
	Token        RedactedToken    `json:"token"`
}

// Validate enforces the identifier-present / mutation-present rules.
func (p AmendOrderParams) Validate() error {
	if p.OrderID == "" && p.ClOrdID == "" {
		return xerrors.New(xerrors.MalformedMessage, "amend_order: requires order_id or cl_ord_id")
	}
	if p.OrderQty == nil && p.LimitPrice == nil && p.TriggerPrice == nil && p.PostOnly == nil {
		return xerrors.New(xerrors.MalformedMessage, "amend_order: requires at least one mutable field")
	}
	return nil
}

// AmendOrderRequest is the outbound RPC envelope for amend_order.
type AmendOrderRequest struct {
	Method string           `json:"method"` // "amend_order"
	Params AmendOrderParams `json:"params"`
	ReqID  int64            `json:"req_id,omitempty"`
}

// AmendOrderResult reports the amended order's identifiers.
type AmendOrderResult struct {
	OrderID     string `json:"order_id"`
	ClOrdID     string `json:"cl_ord_id,omitempty"`
	AmendID     string `json:"amend_id"`
}

// AmendOrderResponse is the RPC response envelope for amend_order.
type AmendOrderResponse struct {
	Method  string            `json:"method"`
	Success bool              `json:"success"`
	Error   string            `json:"error,omitempty"`
	Result  *AmendOrderResult `json:"result,omitempty"`
	ReqID   int64             `json:"req_id,omitempty"`
}

// EditOrderParams replaces a resting order with a new order_id (Kraken's
// older edit_order RPC, kept alongside amend_order — amend mutates in
// place and preserves queue priority; edit cancels and re-submits).
type EditOrderParams struct {
	OrderID    string           `json:"order_id"`
	Symbol     string           `json:"symbol"`
	OrderQty   decimal.Decimal  `json:"order_qty"`
	LimitPrice *decimal.Decimal `json:"limit_price,omitempty"`
	Token      RedactedToken    `json:"token"`
}

// EditOrderRequest is the outbound RPC envelope for edit_order.
type EditOrderRequest struct {
	Method string          `json:"method"` // "edit_order"
	Params EditOrderParams `json:"params"`
	ReqID  int64           `json:"req_id,omitempty"`
}

// EditOrderResult reports the new order's identifiers.
type EditOrderResult struct {
	OrderID    string `json:"order_id"`
	OriginalOrderID string `json:"original_order_id"`
}

// EditOrderResponse is the RPC response envelope for edit_order.
type EditOrderResponse struct {
	Method  string           `json:"method"`
	Success bool             `json:"success"`
	Error   string           `json:"error,omitempty"`
	Result  *EditOrderResult `json:"result,omitempty"`
	ReqID   int64            `json:"req_id,omitempty"`
}
