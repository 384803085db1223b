// Package simulation implements paper-trading fills against live ticker
// data. When simulation mode is active, the order pipeline hands orders to
// an Engine instead of the exchange session; the Engine synthesizes the same
// AddOrderResponse and ExecutionUpdateResponse shapes a real Kraken fill
// would produce, so downstream consumers (the state aggregator, an agent
// bridge) stay unaware they are looking at a simulation.
package simulation

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"krakenmate/internal/wire"
	"krakenmate/pkg/types"
)

// feeRate is Kraken's taker fee rate (0.26%), applied to every simulated
// fill regardless of maker/taker classification.
var feeRate = decimal.NewFromFloat(0.0026)

// Fill is a completed simulated execution, retained for the trade history.
type Fill struct {
	OrderID     string
	Symbol      string
	Side        wire.OrderSide
	Qty         decimal.Decimal
	FillPrice   decimal.Decimal
	Fee         decimal.Decimal
	RealizedPnL decimal.Decimal
	Timestamp   time.Time
}

// Engine simulates order execution using live ticker data. Safe for
// concurrent use.
type Engine struct {
	mu sync.Mutex

	nextOrderID uint64
	nextExecID  uint64
	sequence    int64

	positions  map[string]decimal.Decimal
	avgEntries map[string]decimal.Decimal
	history    []Fill
	realized   decimal.Decimal
	feeRate    decimal.Decimal

	sessionStart time.Time
}

// NewEngine creates a simulation engine with Kraken's default taker fee rate.
func NewEngine() *Engine {
	return &Engine{
		nextOrderID:  1,
		nextExecID:   1,
		sequence:     1,
		positions:    make(map[string]decimal.Decimal),
		avgEntries:   make(map[string]decimal.Decimal),
		feeRate:      feeRate,
		sessionStart: time.Now(),
	}
}

// ExecuteOrder fills params against ticker and returns synthesized exchange
// responses identical in shape to what the real Kraken WebSocket produces.
// If ticker is nil, or a limit order has no limit price, the returned
// AddOrderResponse carries Success=false and an explanatory Error, with a
// nil execution.
func (e *Engine) ExecuteOrder(params wire.AddOrderParams, ticker *wire.TickerData) (wire.AddOrderResponse, *wire.ExecutionUpdateResponse) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ticker == nil {
		return e.failedResponse(fmt.Sprintf("no ticker data for %s", params.Symbol)), nil
	}

	fillPrice, ok := determineFillPrice(params, *ticker)
	if !ok {
		return e.failedResponse(fmt.Sprintf("cannot fill %s %s without limit price", params.OrderType, params.Side)), nil
	}

	orderID := e.newOrderID()
	execID := e.newExecID()
	now := time.Now()
	timestamp := now.UTC().Format("2006-01-02T15:04:05.000000Z")

	qty := params.OrderQty
	cost := qty.Mul(fillPrice)
	fee := types.RoundPrecision(cost.Mul(e.feeRate), 8)
	feeAsset := types.Symbol(params.Symbol).Quote()
	if feeAsset == "" {
		feeAsset = "USD"
	}

	realized := e.updatePosition(params.Symbol, params.Side, qty, fillPrice)
	netPnL := realized.Sub(fee)
	e.realized = e.realized.Add(netPnL)

	e.history = append(e.history, Fill{
		OrderID:     orderID,
		Symbol:      params.Symbol,
		Side:        params.Side,
		Qty:         qty,
		FillPrice:   fillPrice,
		Fee:         fee,
		RealizedPnL: netPnL,
		Timestamp:   now,
	})

	orderResponse := wire.AddOrderResponse{
		Method:  "add_order",
		Success: true,
		Result: &wire.AddOrderResult{
			OrderID:      orderID,
			ClOrdID:      params.ClOrdID,
			OrderUserref: params.OrderUserref,
		},
		TimeIn:  timestamp,
		TimeOut: timestamp,
	}

	seq := e.sequence
	e.sequence++

	execution := &wire.ExecutionUpdateResponse{
		Channel:  "executions",
		Type:     "update",
		Sequence: seq,
		Data: []wire.ExecutionData{{
			ExecType:     "filled",
			OrderID:      orderID,
			ClOrdID:      params.ClOrdID,
			OrderUserref: params.OrderUserref,
			Symbol:       params.Symbol,
			Side:         params.Side,
			OrderType:    params.OrderType,
			OrderStatus:  "filled",
			OrderQty:     qty,
			CumQty:       qty,
			LeavesQty:    decimal.Zero,
			LimitPrice:   params.LimitPrice,
			LastPrice:    &fillPrice,
			LastQty:      &qty,
			AvgPrice:     &fillPrice,
			ExecID:       execID,
			Fees:         []wire.Fee{{Asset: feeAsset, Qty: fee}},
			Timestamp:    timestamp,
			LiquidityInd: "taker",
		}},
	}

	return orderResponse, execution
}

// RealizedPnL returns cumulative realized P&L across all symbols, net of fees.
func (e *Engine) RealizedPnL() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.realized
}

// UnrealizedPnL computes unrealized P&L across all open positions, marking
// longs at each symbol's current bid and shorts at its current ask.
func (e *Engine) UnrealizedPnL(tickers map[string]wire.TickerData) decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()

	pnl := decimal.Zero
	for symbol, qty := range e.positions {
		if qty.IsZero() {
			continue
		}
		entry := e.avgEntries[symbol]
		ticker, ok := tickers[symbol]
		if !ok {
			continue
		}
		mark := ticker.Ask
		if qty.GreaterThan(decimal.Zero) {
			mark = ticker.Bid
		}
		pnl = pnl.Add(mark.Sub(entry).Mul(qty))
	}
	return pnl
}

// Positions returns a snapshot of net position quantity per symbol. Positive
// is long, negative is short; flat symbols are absent.
func (e *Engine) Positions() map[string]decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]decimal.Decimal, len(e.positions))
	for k, v := range e.positions {
		out[k] = v
	}
	return out
}

// AvgEntryPrices returns a snapshot of the weighted-average entry price per
// open position.
func (e *Engine) AvgEntryPrices() map[string]decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]decimal.Decimal, len(e.avgEntries))
	for k, v := range e.avgEntries {
		out[k] = v
	}
	return out
}

// TradeHistory returns every simulated fill in execution order.
func (e *Engine) TradeHistory() []Fill {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Fill, len(e.history))
	copy(out, e.history)
	return out
}

// TradeCount returns the number of simulated fills executed so far.
func (e *Engine) TradeCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.history)
}

// SessionDuration returns how long this engine has been running.
func (e *Engine) SessionDuration() time.Duration {
	return time.Since(e.sessionStart)
}

func (e *Engine) newOrderID() string {
	id := fmt.Sprintf("SIM-%06d", e.nextOrderID)
	e.nextOrderID++
	return id
}

func (e *Engine) newExecID() string {
	id := fmt.Sprintf("SIMX-%06d", e.nextExecID)
	e.nextExecID++
	return id
}

func (e *Engine) failedResponse(reason string) wire.AddOrderResponse {
	now := time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	return wire.AddOrderResponse{
		Method:  "add_order",
		Success: false,
		Error:   reason,
		TimeIn:  now,
		TimeOut: now,
	}
}

// determineFillPrice applies Kraken's marketable-order-crosses-the-spread
// rule: market orders always fill at the opposing touch; limit orders fill
// at the opposing touch when marketable, otherwise rest at the limit price
// itself (simulated as an immediate fill there). Unsupported order types
// fall back to filling at the market touch, same as the original.
func determineFillPrice(params wire.AddOrderParams, ticker wire.TickerData) (decimal.Decimal, bool) {
	switch params.OrderType {
	case wire.OrderTypeMarket:
		if params.Side == wire.SideBuy {
			return ticker.Ask, true
		}
		return ticker.Bid, true
	case wire.OrderTypeLimit:
		if params.LimitPrice == nil {
			return decimal.Decimal{}, false
		}
		limit := *params.LimitPrice
		if params.Side == wire.SideBuy {
			if limit.GreaterThanOrEqual(ticker.Ask) {
				return ticker.Ask, true
			}
			return limit, true
		}
		if limit.LessThanOrEqual(ticker.Bid) {
			return ticker.Bid, true
		}
		return limit, true
	default:
		if params.Side == wire.SideBuy {
			return ticker.Ask, true
		}
		return ticker.Bid, true
	}
}

// updatePosition applies a fill to the running position for symbol and
// returns the realized P&L (before fees) produced by any closing quantity.
func (e *Engine) updatePosition(symbol string, side wire.OrderSide, qty, fillPrice decimal.Decimal) decimal.Decimal {
	currentPos := e.positions[symbol]
	entryPrice := e.avgEntries[symbol]

	signedQty := qty
	if side == wire.SideSell {
		signedQty = qty.Neg()
	}
	newPos := currentPos.Add(signedQty)
	realized := decimal.Zero

	isReducing := (currentPos.GreaterThan(decimal.Zero) && signedQty.LessThan(decimal.Zero)) ||
		(currentPos.LessThan(decimal.Zero) && signedQty.GreaterThan(decimal.Zero))

	if isReducing {
		closeQty := decimal.Min(qty, currentPos.Abs())
		if currentPos.GreaterThan(decimal.Zero) {
			realized = fillPrice.Sub(entryPrice).Mul(closeQty)
		} else {
			realized = entryPrice.Sub(fillPrice).Mul(closeQty)
		}

		crossedZero := (currentPos.GreaterThan(decimal.Zero) && newPos.LessThan(decimal.Zero)) ||
			(currentPos.LessThan(decimal.Zero) && newPos.GreaterThan(decimal.Zero))
		switch {
		case crossedZero:
			e.avgEntries[symbol] = fillPrice
		case newPos.IsZero():
			delete(e.avgEntries, symbol)
		}
		// Partial close in the same direction: entry price is unchanged.
	} else {
		totalCost := entryPrice.Mul(currentPos.Abs()).Add(fillPrice.Mul(qty))
		totalQty := currentPos.Abs().Add(qty)
		if !totalQty.IsZero() {
			e.avgEntries[symbol] = totalCost.Div(totalQty)
		}
	}

	if newPos.IsZero() {
		delete(e.positions, symbol)
	} else {
		e.positions[symbol] = newPos
	}

	return realized
}
