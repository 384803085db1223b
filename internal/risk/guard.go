package risk

import (
	"fmt"

	"github.com/shopspring/decimal"

	"krakenmate/internal/wire"
)

// Verdict is the outcome of a successful risk check (an error return instead
// means the order is rejected outright).
type Verdict struct {
	RequiresConfirmation bool
	Reason               string
}

// Approved reports whether the order may be submitted without operator
// confirmation.
func (v Verdict) Approved() bool { return !v.RequiresConfirmation }

// CheckErrorKind classifies why check_order rejected an order outright.
type CheckErrorKind int

const (
	NonPositiveQuantity CheckErrorKind = iota
	QuantityExceeded
	NotionalExceeded
	RateLimitExceeded
)

// CheckError is returned when an order fails a hard risk limit.
type CheckError struct {
	Kind    CheckErrorKind
	Symbol  string
	Qty     decimal.Decimal
	Max     decimal.Decimal
	Notional decimal.Decimal
	Period  string
	Count   uint32
	MaxCount uint32
}

func (e *CheckError) Error() string {
	switch e.Kind {
	case NonPositiveQuantity:
		return fmt.Sprintf("order quantity must be positive, got %s", e.Qty)
	case QuantityExceeded:
		return fmt.Sprintf("%s: quantity %s exceeds max %s", e.Symbol, e.Qty, e.Max)
	case NotionalExceeded:
		return fmt.Sprintf("%s: notional value %s exceeds max %s", e.Symbol, e.Notional, e.Max)
	case RateLimitExceeded:
		return fmt.Sprintf("%s: %d trades in %s exceeds limit of %d", e.Symbol, e.Count, e.Period, e.MaxCount)
	default:
		return "risk check failed"
	}
}

// Guard validates orders against configured risk limits before submission.
// Safe for concurrent use.
type Guard struct {
	config  *Config
	tracker *rateTracker
}

// NewGuard creates a risk guard from a loaded config.
func NewGuard(config *Config) *Guard {
	return &Guard{config: config, tracker: newRateTracker()}
}

// Config returns the risk configuration this guard enforces.
func (g *Guard) Config() *Config { return g.config }

// CheckOrder validates params against all risk limits. It does not record
// the submission — call RecordSubmission once the order is actually sent.
// Mirrors original_source/src/risk/mod.rs's RiskGuard::check_order exactly,
// step for step.
func (g *Guard) CheckOrder(params wire.AddOrderParams) (Verdict, error) {
	symbol := params.Symbol
	qty := params.OrderQty
	limits := g.config.LimitsFor(symbol)

	// 1. Reject non-positive quantity.
	if qty.LessThanOrEqual(decimal.Zero) {
		return Verdict{}, &CheckError{Kind: NonPositiveQuantity, Qty: qty}
	}

	// 2. Reject quantity exceeding max.
	if qty.GreaterThan(limits.MaxOrderQty) {
		return Verdict{}, &CheckError{Kind: QuantityExceeded, Symbol: symbol, Qty: qty, Max: limits.MaxOrderQty}
	}

	// 3. Check notional value (only if a limit price is present — market
	// orders carry no limit_price and so skip notional checks entirely).
	if params.LimitPrice != nil {
		notional := qty.Mul(*params.LimitPrice)
		if notional.GreaterThan(limits.MaxNotionalValue) {
			return Verdict{}, &CheckError{Kind: NotionalExceeded, Symbol: symbol, Notional: notional, Max: limits.MaxNotionalValue}
		}
	}

	// 4. Check rate limits: day, then week, then month.
	if daily := g.tracker.countWithin(symbol, secsPerDay); daily >= limits.MaxTradesPerDay {
		return Verdict{}, &CheckError{Kind: RateLimitExceeded, Symbol: symbol, Period: "day", Count: daily, MaxCount: limits.MaxTradesPerDay}
	}
	if weekly := g.tracker.countWithin(symbol, secsPerWeek); weekly >= limits.MaxTradesPerWeek {
		return Verdict{}, &CheckError{Kind: RateLimitExceeded, Symbol: symbol, Period: "week", Count: weekly, MaxCount: limits.MaxTradesPerWeek}
	}
	if monthly := g.tracker.countWithin(symbol, secsPerMonth); monthly >= limits.MaxTradesPerMonth {
		return Verdict{}, &CheckError{Kind: RateLimitExceeded, Symbol: symbol, Period: "month", Count: monthly, MaxCount: limits.MaxTradesPerMonth}
	}

	// 5. Require confirmation above a lower, configurable notional threshold.
	if params.LimitPrice != nil {
		notional := qty.Mul(*params.LimitPrice)
		if notional.GreaterThan(limits.ConfirmAboveNotional) {
			return Verdict{
				RequiresConfirmation: true,
				Reason: fmt.Sprintf("notional value %s exceeds confirmation threshold %s",
					notional, limits.ConfirmAboveNotional),
			}, nil
		}
	}

	// 6. Approved.
	return Verdict{}, nil
}

// RecordSubmission records a successful order submission for rate limiting.
func (g *Guard) RecordSubmission(symbol string) {
	g.tracker.record(symbol)
}

// PruneStaleEntries removes rate tracker entries older than 30 days.
func (g *Guard) PruneStaleEntries() {
	g.tracker.prune()
}
