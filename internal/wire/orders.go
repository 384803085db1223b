package wire

import (
	"github.com/shopspring/decimal"

	"krakenmate/internal/xerrors"
)

// TriggerParams describes a stop/take-profit trigger condition.
type TriggerParams struct {
	Reference TriggerReference `json:"reference"`
	Price     decimal.Decimal  `json:"price"`
	PriceType TriggerPriceType `json:"price_type"`
}

// ConditionalOrder describes the order placed once a trigger fires, for
// order types that carry both a trigger and a resting conditional leg.
type ConditionalOrder struct {
	OrderType        OrderType        `json:"order_type"`
	LimitPrice       *decimal.Decimal `json:"limit_price,omitempty"`
	TriggerPrice     *decimal.Decimal `json:"trigger_price,omitempty"`
	TriggerPriceType TriggerPriceType `json:"trigger_price_type,omitempty"`
}

// AddOrderParams is the fully-built, validated parameter set for Kraken's
// add_order RPC. Decimal fields serialize as JSON strings (shopspring/
// decimal's default MarshalJSON), matching Kraken's wire convention; the
// integer fields expire_time and order_userref serialize as JSON numbers.
type AddOrderParams struct {
	OrderType   OrderType             `json:"order_type"`
	Side        OrderSide             `json:"side"`
	Symbol      string                `json:"symbol"`
	OrderQty    decimal.Decimal       `json:"order_qty"`
	LimitPrice  *decimal.Decimal      `json:"limit_price,omitempty"`
	TimeInForce TimeInForce           `json:"time_in_force,omitempty"`
	ExpireTime  *int64                `json:"expire_time,omitempty"`
	Triggers    *TriggerParams        `json:"triggers,omitempty"`
	Conditional *ConditionalOrder     `json:"conditional,omitempty"`
	DisplayQty  *decimal.Decimal      `json:"display_qty,omitempty"`
	ReduceOnly  bool                  `json:"reduce_only,omitempty"`
	PostOnly    bool                  `json:"post_only,omitempty"`
	ClOrdID     string                `json:"cl_ord_id,omitempty"`
	OrderUserref int64                `json:"order_userref,omitempty"`
	StpType     StpType               `json:"stp_type,omitempty"`
	FeePreference FeeCurrencyPreference `json:"fee_preference,omitempty"`
	Token       RedactedToken         `json:"token"`
}

// AddOrderRequest is the outbound RPC envelope for add_order.
type AddOrderRequest struct {
	Method string         `json:"method"` // "add_order"
	Params AddOrderParams `json:"params"`
	ReqID  int64          `json:"req_id,omitempty"`
}

// AddOrderResult is the payload of a successful add_order response.
type AddOrderResult struct {
	OrderID      string `json:"order_id"`
	ClOrdID      string `json:"cl_ord_id,omitempty"`
	OrderUserref int64  `json:"order_userref,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
}

// AddOrderResponse is the full RPC response envelope for add_order.
type AddOrderResponse struct {
	Method  string          `json:"method"`
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Result  *AddOrderResult `json:"result,omitempty"`
	ReqID   int64           `json:"req_id,omitempty"`
	TimeIn  string          `json:"time_in,omitempty"`
	TimeOut string          `json:"time_out,omitempty"`
}

// AddOrderBuilder constructs and validates AddOrderParams. Grounded on
// original_source/src/models/add_order.rs's AddOrderBuilder: a per-type
// constructor followed by fluent with_* setters, ending in Build() which
// runs the same validation rules as the original's validate().
type AddOrderBuilder struct {
	params AddOrderParams
}

// NewMarketOrder starts a market order builder.
func NewMarketOrder(symbol string, side OrderSide, qty decimal.Decimal) *AddOrderBuilder {
	return &AddOrderBuilder{params: AddOrderParams{
		OrderType: OrderTypeMarket,
		Symbol:    symbol,
		Side:      side,
		OrderQty:  qty,
	}}
}

// NewLimitOrder starts a limit order builder.
func NewLimitOrder(symbol string, side OrderSide, qty, price decimal.Decimal) *AddOrderBuilder {
	return &AddOrderBuilder{params: AddOrderParams{
		OrderType:  OrderTypeLimit,
		Symbol:     symbol,
		Side:       side,
		OrderQty:   qty,
		LimitPrice: &price,
	}}
}

// NewStopLossOrder starts a stop-loss (trigger, market fill) order builder.
func NewStopLossOrder(symbol string, side OrderSide, qty decimal.Decimal, triggers TriggerParams) *AddOrderBuilder {
	return &AddOrderBuilder{params: AddOrderParams{
		OrderType: OrderTypeStopLoss,
		Symbol:    symbol,
		Side:      side,
		OrderQty:  qty,
		Triggers:  &triggers,
	}}
}

// NewStopLossLimitOrder starts a stop-loss-limit order builder.
func NewStopLossLimitOrder(symbol string, side OrderSide, qty, limitPrice decimal.Decimal, triggers TriggerParams) *AddOrderBuilder {
	return &AddOrderBuilder{params: AddOrderParams{
		OrderType:  OrderTypeStopLossLimit,
		Symbol:     symbol,
		Side:       side,
		OrderQty:   qty,
		LimitPrice: &limitPrice,
		Triggers:   &triggers,
	}}
}

// NewTakeProfitOrder starts a take-profit (trigger, market fill) order builder.
func NewTakeProfitOrder(symbol string, side OrderSide, qty decimal.Decimal, triggers TriggerParams) *AddOrderBuilder {
	return &AddOrderBuilder{params: AddOrderParams{
		OrderType: OrderTypeTakeProfit,
		Symbol:    symbol,
		Side:      side,
		OrderQty:  qty,
		Triggers:  &triggers,
	}}
}

// NewTakeProfitLimitOrder starts a take-profit-limit order builder.
func NewTakeProfitLimitOrder(symbol string, side OrderSide, qty, limitPrice decimal.Decimal, triggers TriggerParams) *AddOrderBuilder {
	return &AddOrderBuilder{params: AddOrderParams{
		OrderType:  OrderTypeTakeProfitLimit,
		Symbol:     symbol,
		Side:       side,
		OrderQty:   qty,
		LimitPrice: &limitPrice,
		Triggers:   &triggers,
	}}
}

// NewIcebergOrder starts an iceberg (limit + display_qty) order builder.
func NewIcebergOrder(symbol string, side OrderSide, qty, price, displayQty decimal.Decimal) *AddOrderBuilder {
	return &AddOrderBuilder{params: AddOrderParams{
		OrderType:  OrderTypeIceberg,
		Symbol:     symbol,
		Side:       side,
		OrderQty:   qty,
		LimitPrice: &price,
		DisplayQty: &displayQty,
	}}
}

// WithTimeInForce sets the time-in-force. GTD additionally requires WithExpireTime.
func (b *AddOrderBuilder) WithTimeInForce(tif TimeInForce) *AddOrderBuilder {
	b.params.TimeInForce = tif
	return b
}

// WithExpireTime sets the GTD expiry as a unix timestamp.
func (b *AddOrderBuilder) WithExpireTime(unix int64) *AddOrderBuilder {
	b.params.ExpireTime = &unix
	return b
}

// WithClOrdID sets the caller-supplied client order id.
func (b *AddOrderBuilder) WithClOrdID(id string) *AddOrderBuilder {
	b.params.ClOrdID = id
	return b
}

// WithOrderUserref sets the integer user reference.
func (b *AddOrderBuilder) WithOrderUserref(ref int64) *AddOrderBuilder {
	b.params.OrderUserref = ref
	return b
}

// WithReduceOnly marks the order reduce-only.
func (b *AddOrderBuilder) WithReduceOnly() *AddOrderBuilder {
	b.params.ReduceOnly = true
	return b
}

// WithPostOnly marks the order post-only.
func (b *AddOrderBuilder) WithPostOnly() *AddOrderBuilder {
	b.params.PostOnly = true
	return b
}

// WithStpType sets the self-trade-prevention behavior.
func (b *AddOrderBuilder) WithStpType(t StpType) *AddOrderBuilder {
	b.params.StpType = t
	return b
}

// WithFeePreference sets which side of the pair fees are paid in.
func (b *AddOrderBuilder) WithFeePreference(p FeeCurrencyPreference) *AddOrderBuilder {
	b.params.FeePreference = p
	return b
}

// WithConditional attaches a conditional close order (stop/take-profit
// placed once the primary order fills).
func (b *AddOrderBuilder) WithConditional(c ConditionalOrder) *AddOrderBuilder {
	b.params.Conditional = &c
	return b
}

// WithToken attaches the private-feed auth token.
func (b *AddOrderBuilder) WithToken(token RedactedToken) *AddOrderBuilder {
	b.params.Token = token
	return b
}

// Build validates the accumulated params and returns them, or the first
// validation error encountered. Rules mirror
// original_source/src/models/add_order.rs's validate():
//   - limit-family order types require limit_price
//   - stop/take-profit order types require triggers
//   - GTD time-in-force requires expire_time
//   - display_qty is only valid on iceberg orders
func (b *AddOrderBuilder) Build() (AddOrderParams, error) {
	p := b.params

	if p.Symbol == "" {
		return p, xerrors.New(xerrors.MalformedMessage, "add_order: symbol is required")
	}
	if p.OrderQty.LessThanOrEqual(decimal.Zero) {
		return p, xerrors.New(xerrors.MalformedMessage, "add_order: order_qty must be positive")
	}
	if p.OrderType.RequiresLimitPrice() && p.LimitPrice == nil {
		return p, xerrors.Newf(xerrors.MalformedMessage, "add_order: %s requires limit_price", p.OrderType)
	}
	if p.OrderType.RequiresTriggers() && p.Triggers == nil {
		return p, xerrors.Newf(xerrors.MalformedMessage, "add_order: %s requires triggers", p.OrderType)
	}
	if p.TimeInForce == TimeInForceGTD && p.ExpireTime == nil {
		return p, xerrors.New(xerrors.MalformedMessage, "add_order: gtd time_in_force requires expire_time")
	}
	if p.DisplayQty != nil && p.OrderType != OrderTypeIceberg {
		return p, xerrors.New(xerrors.MalformedMessage, "add_order: display_qty is only valid for iceberg orders")
	}
	if p.OrderType == OrderTypeIceberg && p.DisplayQty == nil {
		return p, xerrors.New(xerrors.MalformedMessage, "add_order: iceberg orders require display_qty")
	}

	return p, nil
}
