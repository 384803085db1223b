// Package types defines the small set of shared value types used across
// every layer of krakenmate. It has no dependencies on internal packages,
// so it can be imported by wire, book, risk, simulation, state, and ui alike
// without creating import cycles.
package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Symbol is a Kraken trading pair, e.g. "BTC/USD".
type Symbol string

// Base returns the base asset of the pair ("BTC" in "BTC/USD").
func (s Symbol) Base() string {
	base, _, _ := strings.Cut(string(s), "/")
	return base
}

// Quote returns the quote asset of the pair ("USD" in "BTC/USD").
func (s Symbol) Quote() string {
	_, quote, ok := strings.Cut(string(s), "/")
	if !ok {
		return ""
	}
	return quote
}

// Side is the direction of an order or a fill.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Opposite returns the other side — used when looking up the touch price
// an order would fill against (a buy fills at the best ask, a sell at the
// best bid).
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// RoundPrecision rounds a decimal to the given number of places, rounding
// halves away from zero (decimal.Round). The caller supplies the number of
// places; the simulation engine rounds fees to 8.
func RoundPrecision(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}
