// Package state implements the state aggregator (C8): the single owner of
// every per-symbol and account-wide view a renderer, dashboard, or agent
// bridge reads from. It holds no persistence across runs — every field is
// rebuilt from the session's event stream each time the process starts.
//
// Grounded on the original's tui application state (original_source/src/tui/)
// for what gets held and how it is mutated per event, and on the teacher's
// internal/store/store.go for the RWMutex-guarded-struct-with-snapshot-copy
// ownership idiom — minus persistence, which this package deliberately omits.
package state

import (
	"sync"
	"time"

	"krakenmate/internal/book"
	"krakenmate/internal/session"
	"krakenmate/internal/wire"
)

const (
	tradeRingSize    = 100
	candleRingSize   = 100
	allTradeRingSize = 100
)

// ConnectionState mirrors session.Manager's connection lifecycle for
// display purposes.
type ConnectionState int

const (
	ConnDisconnected ConnectionState = iota
	ConnReconnecting
	ConnConnected
)

func (c ConnectionState) String() string {
	switch c {
	case ConnConnected:
		return "connected"
	case ConnReconnecting:
		return "reconnecting"
	default:
		return "disconnected"
	}
}

// symbolState is everything the aggregator tracks for one trading pair.
type symbolState struct {
	ticker  *wire.TickerData
	trades  *ring[wire.TradeData]
	candles *ring[wire.CandleData]
}

func newSymbolState() *symbolState {
	return &symbolState{
		trades:  newRing[wire.TradeData](tradeRingSize),
		candles: newRing[wire.CandleData](candleRingSize),
	}
}

// Aggregator owns every piece of state a consumer (renderer, dashboard,
// agent bridge) reads. Safe for concurrent use; Apply folds in session
// events, and RecordSubmittedOrder, TrackSymbol and UntrackSymbol are the
// only other mutators.
type Aggregator struct {
	mu sync.RWMutex

	books   *book.Manager
	symbols map[string]*symbolState

	open      *openOrderBook
	executed  *ring[OrderView]
	balances  map[string]wire.BalanceData
	instruments map[string]wire.InstrumentData

	allTrades *ring[wire.TradeData]

	tokenState    session.TokenState
	connState     ConnectionState
	lastHeartbeat time.Time
	lastStatus    *wire.StatusUpdateResponse

	active map[string]bool
}

// New creates an empty aggregator.
func New() *Aggregator {
	return &Aggregator{
		books:       book.NewManager(),
		symbols:     make(map[string]*symbolState),
		open:        newOpenOrderBook(),
		executed:    newRing[OrderView](maxExecutedOrders),
		balances:    make(map[string]wire.BalanceData),
		instruments: make(map[string]wire.InstrumentData),
		allTrades:   newRing[wire.TradeData](allTradeRingSize),
		active:      make(map[string]bool),
	}
}

func (a *Aggregator) symbolFor(sym string) *symbolState {
	s, ok := a.symbols[sym]
	if !ok {
		s = newSymbolState()
		a.symbols[sym] = s
	}
	return s
}

// Apply folds one session event into the aggregator atomically — no
// consumer observes a partially-updated state. Returns any book resync
// actions produced by a book event, for the caller to act on (empty
// otherwise).
func (a *Aggregator) Apply(ev session.Event) []book.Action {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch ev.Kind {
	case session.EventConnected:
		a.connState = ConnConnected
	case session.EventDisconnected:
		a.connState = ConnDisconnected
	case session.EventReconnecting:
		a.connState = ConnReconnecting
	case session.EventTokenState:
		a.tokenState = ev.TokenState
	case session.EventHeartbeat:
		a.lastHeartbeat = time.Now()
	case session.EventStatus:
		a.lastStatus = ev.Status
	case session.EventTicker:
		if ev.Ticker != nil {
			for i := range ev.Ticker.Data {
				t := ev.Ticker.Data[i]
				a.symbolFor(t.Symbol).ticker = &t
			}
		}
	case session.EventBook:
		if ev.Book != nil {
			return a.books.ApplyBatch(*ev.Book)
		}
	case session.EventTrade:
		if ev.Trade != nil {
			for _, t := range ev.Trade.Data {
				a.symbolFor(t.Symbol).trades.push(t)
				a.allTrades.push(t)
			}
		}
	case session.EventCandle:
		if ev.Candle != nil {
			for _, c := range ev.Candle.Data {
				a.symbolFor(c.Symbol).candles.push(c)
			}
		}
	case session.EventInstrument:
		if ev.Instrument != nil {
			for _, inst := range ev.Instrument.Data.Pairs {
				a.instruments[inst.Symbol] = inst
			}
		}
	case session.EventBalance:
		if ev.Balance != nil {
			for _, b := range ev.Balance.Data {
				a.balances[b.Asset] = b
			}
		}
	case session.EventExecution:
		if ev.Execution != nil {
			for _, d := range ev.Execution.Data {
				a.applyExecution(d)
			}
		}
	}
	return nil
}

func (a *Aggregator) applyExecution(d wire.ExecutionData) {
	view := OrderView{
		OrderID:    d.OrderID,
		ClOrdID:    d.ClOrdID,
		Symbol:     d.Symbol,
		Side:       d.Side,
		OrderType:  d.OrderType,
		OrderQty:   d.OrderQty,
		LeavesQty:  d.LeavesQty,
		CumQty:     d.CumQty,
		LimitPrice: d.LimitPrice,
		AvgPrice:   d.AvgPrice,
		Status:     d.OrderStatus,
		Timestamp:  d.Timestamp,
	}
	if isTerminal(d.OrderStatus) {
		a.open.remove(d.OrderID)
		a.executed.push(view)
		return
	}
	a.open.upsert(view)
}

// RecordSubmittedOrder registers an order the pipeline just submitted, so it
// shows as open before any executions-channel confirmation arrives.
func (a *Aggregator) RecordSubmittedOrder(v OrderView) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.open.upsert(v)
}

// TrackSymbol marks symbol active, for dashboard/renderer display of which
// pairs are currently subscribed.
func (a *Aggregator) TrackSymbol(symbol string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active[symbol] = true
}

// UntrackSymbol removes symbol from the active set.
func (a *Aggregator) UntrackSymbol(symbol string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.active, symbol)
}

// ActiveSymbols returns every currently-tracked symbol.
func (a *Aggregator) ActiveSymbols() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]string, 0, len(a.active))
	for s := range a.active {
		out = append(out, s)
	}
	return out
}

// Books returns the underlying book manager, for components (the renderer's
// order-book panel, the dashboard snapshot) that need direct book access.
func (a *Aggregator) Books() *book.Manager { return a.books }

// Ticker returns the last known ticker for symbol, if any.
func (a *Aggregator) Ticker(symbol string) (wire.TickerData, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.symbols[symbol]
	if !ok || s.ticker == nil {
		return wire.TickerData{}, false
	}
	return *s.ticker, true
}

// Tickers returns a snapshot of every symbol's last known ticker.
func (a *Aggregator) Tickers() map[string]wire.TickerData {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make(map[string]wire.TickerData, len(a.symbols))
	for sym, s := range a.symbols {
		if s.ticker != nil {
			out[sym] = *s.ticker
		}
	}
	return out
}

// Trades returns the recent-trades ring for one symbol.
func (a *Aggregator) Trades(symbol string) []wire.TradeData {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.symbols[symbol]
	if !ok {
		return nil
	}
	return s.trades.snapshot()
}

// AllTrades returns the cross-symbol recent-trades ring.
func (a *Aggregator) AllTrades() []wire.TradeData {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.allTrades.snapshot()
}

// Candles returns the recent-candles ring for one symbol.
func (a *Aggregator) Candles(symbol string) []wire.CandleData {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.symbols[symbol]
	if !ok {
		return nil
	}
	return s.candles.snapshot()
}

// OpenOrders returns every currently-open order.
func (a *Aggregator) OpenOrders() []OrderView {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.open.snapshot()
}

// ExecutedOrders returns the recently-executed orders ring.
func (a *Aggregator) ExecutedOrders() []OrderView {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.executed.snapshot()
}

// Balances returns a snapshot of every asset's balance.
func (a *Aggregator) Balances() map[string]wire.BalanceData {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make(map[string]wire.BalanceData, len(a.balances))
	for k, v := range a.balances {
		out[k] = v
	}
	return out
}

// Instruments returns a snapshot of every known pair's static metadata.
func (a *Aggregator) Instruments() map[string]wire.InstrumentData {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make(map[string]wire.InstrumentData, len(a.instruments))
	for k, v := range a.instruments {
		out[k] = v
	}
	return out
}

// TokenState returns the last known private-feed token health.
func (a *Aggregator) TokenState() session.TokenState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tokenState
}

// ConnectionState returns the last known session connection state.
func (a *Aggregator) ConnectionState() ConnectionState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.connState
}

// LastHeartbeat returns the instant the last heartbeat frame was seen (the
// zero Time if none has arrived yet).
func (a *Aggregator) LastHeartbeat() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastHeartbeat
}

// LastStatus returns the last status-channel message, if any has arrived.
func (a *Aggregator) LastStatus() *wire.StatusUpdateResponse {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastStatus
}
