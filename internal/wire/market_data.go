package wire

import "github.com/shopspring/decimal"

// TickerData is a single symbol's throttled price snapshot.
type TickerData struct {
	Symbol    string          `json:"symbol"`
	Bid       decimal.Decimal `json:"bid"`
	BidQty    decimal.Decimal `json:"bid_qty"`
	Ask       decimal.Decimal `json:"ask"`
	AskQty    decimal.Decimal `json:"ask_qty"`
	Last      decimal.Decimal `json:"last"`
	Volume    decimal.Decimal `json:"volume"`
	VWAP      decimal.Decimal `json:"vwap"`
	Low       decimal.Decimal `json:"low"`
	High      decimal.Decimal `json:"high"`
	Change    decimal.Decimal `json:"change"`
	ChangePct decimal.Decimal `json:"change_pct"`
}

// TickerUpdateResponse is the ticker channel's event envelope.
type TickerUpdateResponse struct {
	Channel string       `json:"channel"` // "ticker"
	Type    string       `json:"type"`    // "snapshot" or "update"
	Data    []TickerData `json:"data"`
}

// TradeData is a single public market trade.
type TradeData struct {
	Symbol    string          `json:"symbol"`
	Side      OrderSide       `json:"side"`
	Price     decimal.Decimal `json:"price"`
	Qty       decimal.Decimal `json:"qty"`
	OrderType OrderType       `json:"ord_type"`
	Timestamp string          `json:"timestamp"`
	TradeID   uint64          `json:"trade_id"`
}

// TradeUpdateResponse is the trade channel's event envelope.
type TradeUpdateResponse struct {
	Channel string      `json:"channel"` // "trade"
	Type    string      `json:"type"`
	Data    []TradeData `json:"data"`
}

// CandleData is one OHLC bar.
type CandleData struct {
	Symbol    string          `json:"symbol"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Trades    int64           `json:"trades"`
	Volume    decimal.Decimal `json:"volume"`
	VWAP      decimal.Decimal `json:"vwap"`
	IntervalBegin string      `json:"interval_begin"`
	Interval  int             `json:"interval"` // minutes
	Timestamp string          `json:"timestamp"`
}

// CandleUpdateResponse is the ohlc channel's event envelope.
type CandleUpdateResponse struct {
	Channel string       `json:"channel"` // "ohlc"
	Type    string       `json:"type"`
	Data    []CandleData `json:"data"`
}

// InstrumentData describes one tradeable pair's static metadata.
type InstrumentData struct {
	Symbol         string          `json:"symbol"`
	Base           string          `json:"base"`
	Quote          string          `json:"quote"`
	Status         string          `json:"status"`
	QtyPrecision   int             `json:"qty_precision"`
	PricePrecision int             `json:"price_precision"`
	QtyIncrement   decimal.Decimal `json:"qty_increment"`
	CostMin        decimal.Decimal `json:"cost_min"`
	MarginTrading  bool            `json:"has_index"`
}

// InstrumentUpdateResponse is the instrument channel's event envelope.
type InstrumentUpdateResponse struct {
	Channel string `json:"channel"` // "instrument"
	Type    string `json:"type"`
	Data    struct {
		Pairs []InstrumentData `json:"pairs"`
	} `json:"data"`
}

// BalanceData is a single asset's account balance.
type BalanceData struct {
	Asset string          `json:"asset"`
	Total decimal.Decimal `json:"balance"`
	Spot  decimal.Decimal `json:"spot"`
	Earn  decimal.Decimal `json:"earn,omitempty"`
}

// BalanceUpdateResponse is the balances channel's event envelope.
type BalanceUpdateResponse struct {
	Channel string        `json:"channel"` // "balances"
	Type    string        `json:"type"`
	Data    []BalanceData `json:"data"`
}
