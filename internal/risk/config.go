// Package risk implements the pre-submission guard every order passes
// through: per-symbol quantity/notional/rate limits loaded from a JSON
// config file, merged with global defaults, producing an approve/confirm/
// reject verdict.
//
// Grounded on original_source/src/risk/config.rs (RiskConfig, SymbolLimits,
// SymbolOverrides, limits_for, describe_limits) and
// original_source/src/risk/mod.rs (RiskGuard.check_order's six-step
// algorithm), restructured into the teacher's viper-adjacent Load/Validate
// idiom from internal/config/config.go — except this config is hand-rolled
// JSON, not YAML-via-viper, since the original stores it as operator-edited
// risk.json alongside the main config.
package risk

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
)

// SymbolLimits is a complete set of limits, either the global defaults or a
// symbol's fully-merged effective limits.
type SymbolLimits struct {
	MaxOrderQty          decimal.Decimal `json:"max_order_qty"`
	MaxNotionalValue      decimal.Decimal `json:"max_notional_value"`
	ConfirmAboveNotional decimal.Decimal `json:"confirm_above_notional"`
	MaxTradesPerDay      uint32          `json:"max_trades_per_day"`
	MaxTradesPerWeek     uint32          `json:"max_trades_per_week"`
	MaxTradesPerMonth    uint32          `json:"max_trades_per_month"`
}

// SymbolOverrides carries optional per-symbol overrides; any unset field
// inherits from Config.Defaults.
type SymbolOverrides struct {
	MaxOrderQty          *decimal.Decimal `json:"max_order_qty,omitempty"`
	MaxNotionalValue      *decimal.Decimal `json:"max_notional_value,omitempty"`
	ConfirmAboveNotional *decimal.Decimal `json:"confirm_above_notional,omitempty"`
	MaxTradesPerDay      *uint32          `json:"max_trades_per_day,omitempty"`
	MaxTradesPerWeek     *uint32          `json:"max_trades_per_week,omitempty"`
	MaxTradesPerMonth    *uint32          `json:"max_trades_per_month,omitempty"`
}

// Config is the risk configuration: global defaults plus per-symbol
// overrides, loaded from a JSON file.
type Config struct {
	Defaults SymbolLimits               `json:"defaults"`
	Symbols  map[string]SymbolOverrides `json:"symbols"`
}

// Load reads and parses a risk config JSON file.
func Load(path string) (*Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read risk config %s: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("parse risk config %s: %w", path, err)
	}
	return &cfg, nil
}

// LimitsFor returns the effective limits for a symbol, merging any override
// with the defaults field by field. Symbols with no override entry get the
// defaults unchanged.
func (c *Config) LimitsFor(symbol string) SymbolLimits {
	overrides, ok := c.Symbols[symbol]
	if !ok {
		return c.Defaults
	}
	limits := c.Defaults
	if overrides.MaxOrderQty != nil {
		limits.MaxOrderQty = *overrides.MaxOrderQty
	}
	if overrides.MaxNotionalValue != nil {
		limits.MaxNotionalValue = *overrides.MaxNotionalValue
	}
	if overrides.ConfirmAboveNotional != nil {
		limits.ConfirmAboveNotional = *overrides.ConfirmAboveNotional
	}
	if overrides.MaxTradesPerDay != nil {
		limits.MaxTradesPerDay = *overrides.MaxTradesPerDay
	}
	if overrides.MaxTradesPerWeek != nil {
		limits.MaxTradesPerWeek = *overrides.MaxTradesPerWeek
	}
	if overrides.MaxTradesPerMonth != nil {
		limits.MaxTradesPerMonth = *overrides.MaxTradesPerMonth
	}
	return limits
}

// DescribeLimits renders a human-readable summary of every configured
// limit, for surfacing in an agent system prompt or an operator dashboard.
func (c *Config) DescribeLimits() string {
	out := "Risk limits:\n"
	out += "  Defaults:\n"
	out += fmt.Sprintf("    max_order_qty: %s\n", c.Defaults.MaxOrderQty)
	out += fmt.Sprintf("    max_notional_value: %s\n", c.Defaults.MaxNotionalValue)
	out += fmt.Sprintf("    confirm_above_notional: %s\n", c.Defaults.ConfirmAboveNotional)
	out += fmt.Sprintf("    max_trades_per_day: %d\n", c.Defaults.MaxTradesPerDay)
	out += fmt.Sprintf("    max_trades_per_week: %d\n", c.Defaults.MaxTradesPerWeek)
	out += fmt.Sprintf("    max_trades_per_month: %d\n", c.Defaults.MaxTradesPerMonth)

	for symbol, overrides := range c.Symbols {
		out += fmt.Sprintf("  %s:\n", symbol)
		if overrides.MaxOrderQty != nil {
			out += fmt.Sprintf("    max_order_qty: %s\n", *overrides.MaxOrderQty)
		}
		if overrides.MaxNotionalValue != nil {
			out += fmt.Sprintf("    max_notional_value: %s\n", *overrides.MaxNotionalValue)
		}
		if overrides.ConfirmAboveNotional != nil {
			out += fmt.Sprintf("    confirm_above_notional: %s\n", *overrides.ConfirmAboveNotional)
		}
		if overrides.MaxTradesPerDay != nil {
			out += fmt.Sprintf("    max_trades_per_day: %d\n", *overrides.MaxTradesPerDay)
		}
		if overrides.MaxTradesPerWeek != nil {
			out += fmt.Sprintf("    max_trades_per_week: %d\n", *overrides.MaxTradesPerWeek)
		}
		if overrides.MaxTradesPerMonth != nil {
			out += fmt.Sprintf("    max_trades_per_month: %d\n", *overrides.MaxTradesPerMonth)
		}
	}

	return out
}
