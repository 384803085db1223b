package api

import (
	"time"

	"krakenmate/internal/book"
	"krakenmate/internal/config"
	"krakenmate/internal/risk"
	"krakenmate/internal/session"
	"krakenmate/internal/state"
	"krakenmate/internal/wire"
)

// SnapshotProvider is the read-only state surface the dashboard renders.
// *state.Aggregator satisfies this directly; tests can supply a fake.
type SnapshotProvider interface {
	Tickers() map[string]wire.TickerData
	Books() *book.Manager
	OpenOrders() []state.OrderView
	ExecutedOrders() []state.OrderView
	Balances() map[string]wire.BalanceData
	ActiveSymbols() []string
	TokenState() session.TokenState
	ConnectionState() state.ConnectionState
	LastHeartbeat() time.Time
}

// BuildSnapshot aggregates aggregator and risk-guard state into one
// dashboard snapshot.
func BuildSnapshot(provider SnapshotProvider, guard *risk.Guard, cfg config.Config) DashboardSnapshot {
	tickers := provider.Tickers()
	books := provider.Books()

	symbols := make([]SymbolStatus, 0, len(cfg.Symbols))
	seen := make(map[string]bool, len(cfg.Symbols))
	for _, sym := range cfg.Symbols {
		symbols = append(symbols, symbolStatus(sym, tickers, books))
		seen[sym] = true
	}
	for _, sym := range provider.ActiveSymbols() {
		if !seen[sym] {
			symbols = append(symbols, symbolStatus(sym, tickers, books))
			seen[sym] = true
		}
	}

	open := provider.OpenOrders()
	openStatuses := make([]OrderStatus, len(open))
	for i, v := range open {
		openStatuses[i] = newOrderStatus(v)
	}

	executed := provider.ExecutedOrders()
	executedStatuses := make([]OrderStatus, len(executed))
	for i, v := range executed {
		executedStatuses[i] = newOrderStatus(v)
	}

	balances := provider.Balances()
	balanceStatuses := make([]BalanceStatus, 0, len(balances))
	for _, b := range balances {
		balanceStatuses = append(balanceStatuses, BalanceStatus{
			Asset: b.Asset,
			Total: b.Total,
			Spot:  b.Spot,
			Earn:  b.Earn,
		})
	}

	riskSnap := RiskSnapshot{}
	if guard != nil {
		riskSnap.Limits = guard.Config().DescribeLimits()
	}

	return DashboardSnapshot{
		Timestamp:      time.Now(),
		Connection:     provider.ConnectionState().String(),
		TokenState:     provider.TokenState().String(),
		LastHeartbeat:  provider.LastHeartbeat(),
		Symbols:        symbols,
		OpenOrders:     openStatuses,
		ExecutedOrders: executedStatuses,
		Balances:       balanceStatuses,
		Risk:           riskSnap,
		Config:         NewConfigSummary(cfg),
	}
}

func symbolStatus(sym string, tickers map[string]wire.TickerData, books *book.Manager) SymbolStatus {
	s := SymbolStatus{Symbol: sym}
	if t, ok := tickers[sym]; ok {
		s.Bid, s.Ask, s.Last, s.Volume = t.Bid, t.Ask, t.Last, t.Volume
	}
	if books != nil {
		st := books.Get(sym)
		if bid, ask, ok := st.BestBidAsk(); ok {
			s.BestBid, s.BestAsk, s.HasBook = bid.Price, ask.Price, true
		}
		s.Stale = st.IsStale()
	}
	return s
}
