// Package wire implements krakenmate's JSON wire codec: the request/response/
// event envelopes exchanged over Kraken's WebSocket v2 API, in their exact
// canonical (kebab-case / lowercase) enum serialization, with every decimal
// price/quantity field carried as a JSON string per Kraken's convention.
//
// Grounded on original_source/src/models/*.rs (rommeld/leeson), adapted from
// Rust enums/structs to Go string-backed types and struct tags, with
// shopspring/decimal replacing rust_decimal throughout.
package wire

// OrderType enumerates the order lifecycles Kraken's add_order RPC accepts.
type OrderType string

const (
	OrderTypeMarket             OrderType = "market"
	OrderTypeLimit              OrderType = "limit"
	OrderTypeStopLoss           OrderType = "stop-loss"
	OrderTypeStopLossLimit      OrderType = "stop-loss-limit"
	OrderTypeTakeProfit         OrderType = "take-profit"
	OrderTypeTakeProfitLimit    OrderType = "take-profit-limit"
	OrderTypeTrailingStop       OrderType = "trailing-stop"
	OrderTypeTrailingStopLimit  OrderType = "trailing-stop-limit"
	OrderTypeSettlePosition     OrderType = "settle-position"
	OrderTypeIceberg            OrderType = "iceberg"
)

// RequiresLimitPrice reports whether this order type must carry limit_price.
func (t OrderType) RequiresLimitPrice() bool {
	switch t {
	case OrderTypeLimit, OrderTypeStopLossLimit, OrderTypeTakeProfitLimit,
		OrderTypeTrailingStopLimit, OrderTypeIceberg:
		return true
	default:
		return false
	}
}

// RequiresTriggers reports whether this order type must carry trigger params.
func (t OrderType) RequiresTriggers() bool {
	switch t {
	case OrderTypeStopLoss, OrderTypeStopLossLimit, OrderTypeTakeProfit,
		OrderTypeTakeProfitLimit, OrderTypeTrailingStop, OrderTypeTrailingStopLimit:
		return true
	default:
		return false
	}
}

// OrderSide is the direction of an order.
type OrderSide string

const (
	SideBuy  OrderSide = "buy"
	SideSell OrderSide = "sell"
)

// TimeInForce controls how long an order rests on the book.
type TimeInForce string

const (
	TimeInForceGTC TimeInForce = "gtc"
	TimeInForceGTD TimeInForce = "gtd"
	TimeInForceIOC TimeInForce = "ioc"
)

// TriggerReference is the price feed a stop/take-profit trigger watches.
type TriggerReference string

const (
	TriggerReferenceLast  TriggerReference = "last"
	TriggerReferenceIndex TriggerReference = "index"
)

// TriggerPriceType determines how a trigger's price field is interpreted.
type TriggerPriceType string

const (
	TriggerPriceStatic TriggerPriceType = "static"
	TriggerPricePct    TriggerPriceType = "pct"
	TriggerPriceQuote  TriggerPriceType = "quote"
)

// StpType selects Kraken's self-trade-prevention behavior.
type StpType string

const (
	StpCancelNewest StpType = "cancel_newest"
	StpCancelOldest StpType = "cancel_oldest"
	StpCancelBoth   StpType = "cancel_both"
	StpDisabled     StpType = "disabled"
)

// FeeCurrencyPreference selects which side of the pair fees are charged in.
type FeeCurrencyPreference string

const (
	FeeCurrencyBase  FeeCurrencyPreference = "base"
	FeeCurrencyQuote FeeCurrencyPreference = "quote"
)

// Channel enumerates the public/private streaming channels.
type Channel string

const (
	ChannelBook        Channel = "book"
	ChannelTicker      Channel = "ticker"
	ChannelOrders      Channel = "level3"
	ChannelCandles     Channel = "ohlc"
	ChannelTrades      Channel = "trade"
	ChannelInstruments Channel = "instrument"
	ChannelStatus      Channel = "status"
	ChannelHeartbeat   Channel = "heartbeat"
	ChannelExecutions  Channel = "executions"
	ChannelBalances    Channel = "balances"
)
