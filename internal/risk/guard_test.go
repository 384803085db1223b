package risk

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"krakenmate/internal/wire"
)

// behaviorTestConfig mirrors original_source/src/risk/mod.rs's test_config():
// small numbers chosen so rate-limit tests don't need dozens of submissions.
func behaviorTestConfig(t *testing.T) *Config {
	t.Helper()
	raw := `{
		"defaults": {
			"max_order_qty": "1.0",
			"max_notional_value": "100000",
			"confirm_above_notional": "50000",
			"max_trades_per_day": 3,
			"max_trades_per_week": 10,
			"max_trades_per_month": 30
		},
		"symbols": {
			"BTC/USD": {"max_order_qty": "0.5"}
		}
	}`
	var cfg Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		t.Fatalf("unmarshal test config: %v", err)
	}
	return &cfg
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func marketOrder(symbol, qty string) wire.AddOrderParams {
	return wire.AddOrderParams{Symbol: symbol, OrderQty: dec(qty)}
}

func limitOrder(symbol, qty, price string) wire.AddOrderParams {
	p := dec(price)
	return wire.AddOrderParams{Symbol: symbol, OrderQty: dec(qty), LimitPrice: &p}
}

func TestCheckOrderRejectsZeroQty(t *testing.T) {
	g := NewGuard(behaviorTestConfig(t))
	_, err := g.CheckOrder(marketOrder("ETH/USD", "0"))
	if err == nil {
		t.Fatal("expected rejection for zero quantity")
	}
	var ce *CheckError
	if !asCheckError(err, &ce) || ce.Kind != NonPositiveQuantity {
		t.Fatalf("got %v, want NonPositiveQuantity", err)
	}
}

func TestCheckOrderRejectsNegativeQty(t *testing.T) {
	g := NewGuard(behaviorTestConfig(t))
	_, err := g.CheckOrder(marketOrder("ETH/USD", "-1"))
	var ce *CheckError
	if !asCheckError(err, &ce) || ce.Kind != NonPositiveQuantity {
		t.Fatalf("got %v, want NonPositiveQuantity", err)
	}
}

func TestCheckOrderRejectsOverMaxQty(t *testing.T) {
	g := NewGuard(behaviorTestConfig(t))
	_, err := g.CheckOrder(marketOrder("BTC/USD", "0.6"))
	var ce *CheckError
	if !asCheckError(err, &ce) || ce.Kind != QuantityExceeded {
		t.Fatalf("got %v, want QuantityExceeded", err)
	}
}

func TestCheckOrderRejectsOverMaxNotional(t *testing.T) {
	g := NewGuard(behaviorTestConfig(t))
	_, err := g.CheckOrder(limitOrder("ETH/USD", "0.9", "200000"))
	var ce *CheckError
	if !asCheckError(err, &ce) || ce.Kind != NotionalExceeded {
		t.Fatalf("got %v, want NotionalExceeded", err)
	}
}

func TestCheckOrderConfirmsAboveThreshold(t *testing.T) {
	g := NewGuard(behaviorTestConfig(t))
	v, err := g.CheckOrder(limitOrder("ETH/USD", "0.9", "60000"))
	if err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
	if !v.RequiresConfirmation {
		t.Fatal("expected confirmation required above confirm_above_notional")
	}
}

func TestCheckOrderApprovesValidOrder(t *testing.T) {
	g := NewGuard(behaviorTestConfig(t))
	v, err := g.CheckOrder(limitOrder("ETH/USD", "0.5", "1000"))
	if err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
	if v.RequiresConfirmation {
		t.Fatal("expected approval without confirmation")
	}
}

func TestCheckOrderMarketOrdersSkipNotionalChecks(t *testing.T) {
	g := NewGuard(behaviorTestConfig(t))
	// Qty within max_order_qty but would blow through notional limits if a
	// limit price were attached; market orders carry no limit_price so the
	// notional/confirmation checks never fire.
	v, err := g.CheckOrder(marketOrder("ETH/USD", "0.9"))
	if err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
	if v.RequiresConfirmation {
		t.Fatal("market orders should never require confirmation on notional grounds")
	}
}

func TestCheckOrderRateLimitAfterNSubmissions(t *testing.T) {
	g := NewGuard(behaviorTestConfig(t))
	for i := 0; i < 3; i++ {
		if _, err := g.CheckOrder(marketOrder("ETH/USD", "0.1")); err != nil {
			t.Fatalf("submission %d unexpectedly rejected: %v", i, err)
		}
		g.RecordSubmission("ETH/USD")
	}
	_, err := g.CheckOrder(marketOrder("ETH/USD", "0.1"))
	var ce *CheckError
	if !asCheckError(err, &ce) || ce.Kind != RateLimitExceeded {
		t.Fatalf("got %v, want RateLimitExceeded after hitting max_trades_per_day", err)
	}
}

func TestCheckOrderRateLimitDifferentSymbolsIndependent(t *testing.T) {
	g := NewGuard(behaviorTestConfig(t))
	for i := 0; i < 3; i++ {
		g.RecordSubmission("ETH/USD")
	}
	if _, err := g.CheckOrder(marketOrder("LTC/USD", "0.1")); err != nil {
		t.Fatalf("unrelated symbol should not share ETH/USD's rate limit: %v", err)
	}
}

func TestPruneStaleEntriesDoesNotPanicOnEmpty(t *testing.T) {
	g := NewGuard(behaviorTestConfig(t))
	g.PruneStaleEntries()
}

func TestCheckErrorDisplayStrings(t *testing.T) {
	cases := []struct {
		err  *CheckError
		want string
	}{
		{&CheckError{Kind: NonPositiveQuantity, Qty: dec("0")}, "order quantity must be positive, got 0"},
		{&CheckError{Kind: QuantityExceeded, Symbol: "BTC/USD", Qty: dec("2"), Max: dec("1")}, "BTC/USD: quantity 2 exceeds max 1"},
		{&CheckError{Kind: NotionalExceeded, Symbol: "BTC/USD", Notional: dec("200000"), Max: dec("100000")}, "BTC/USD: notional value 200000 exceeds max 100000"},
		{&CheckError{Kind: RateLimitExceeded, Symbol: "BTC/USD", Period: "day", Count: 3, MaxCount: 3}, "BTC/USD: 3 trades in day exceeds limit of 3"},
	}
	for _, c := range cases {
		if got := c.err.Error(); got != c.want {
			t.Errorf("Error() = %q, want %q", got, c.want)
		}
	}
}

func asCheckError(err error, target **CheckError) bool {
	ce, ok := err.(*CheckError)
	if ok {
		*target = ce
	}
	return ok
}

// --- config.go parsing/merging tests, grounded on
// original_source/src/risk/config.rs's sample_json() (the realistic, large
// numbers distinct from the small behaviorTestConfig above). ---

func configSampleJSON() string {
	return `{
		"defaults": {
			"max_order_qty": "10.0",
			"max_notional_value": "100000",
			"confirm_above_notional": "50000",
			"max_trades_per_day": 50,
			"max_trades_per_week": 200,
			"max_trades_per_month": 500
		},
		"symbols": {
			"BTC/USD": {
				"max_order_qty": "0.5",
				"max_notional_value": "50000",
				"confirm_above_notional": "25000"
			},
			"ETH/USD": {
				"max_order_qty": "10.0"
			}
		}
	}`
}

func writeSampleConfig(t *testing.T) string {
	t.Helper()
	path := t.TempDir() + "/risk.json"
	if err := os.WriteFile(path, []byte(configSampleJSON()), 0o600); err != nil {
		t.Fatalf("write sample config: %v", err)
	}
	return path
}

func TestLoadParsesValidConfig(t *testing.T) {
	cfg, err := Load(writeSampleConfig(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Defaults.MaxOrderQty.Equal(dec("10.0")) {
		t.Fatalf("defaults.max_order_qty = %s, want 10.0", cfg.Defaults.MaxOrderQty)
	}
	if len(cfg.Symbols) != 2 {
		t.Fatalf("len(Symbols) = %d, want 2", len(cfg.Symbols))
	}
}

func TestLimitsForMergesSymbolOverrides(t *testing.T) {
	cfg, err := Load(writeSampleConfig(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	limits := cfg.LimitsFor("BTC/USD")
	if !limits.MaxOrderQty.Equal(dec("0.5")) {
		t.Fatalf("max_order_qty = %s, want 0.5", limits.MaxOrderQty)
	}
	if !limits.MaxNotionalValue.Equal(dec("50000")) {
		t.Fatalf("max_notional_value = %s, want 50000", limits.MaxNotionalValue)
	}
	if !limits.ConfirmAboveNotional.Equal(dec("25000")) {
		t.Fatalf("confirm_above_notional = %s, want 25000", limits.ConfirmAboveNotional)
	}
	// Rate limits are untouched by the BTC/USD override, so they inherit defaults.
	if limits.MaxTradesPerDay != 50 {
		t.Fatalf("max_trades_per_day = %d, want inherited default 50", limits.MaxTradesPerDay)
	}
}

func TestLimitsForPartialOverrideInheritsDefaults(t *testing.T) {
	cfg, err := Load(writeSampleConfig(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	limits := cfg.LimitsFor("ETH/USD")
	if !limits.MaxOrderQty.Equal(dec("10.0")) {
		t.Fatalf("max_order_qty = %s, want 10.0", limits.MaxOrderQty)
	}
	if !limits.MaxNotionalValue.Equal(dec("100000")) {
		t.Fatalf("max_notional_value = %s, want inherited default 100000", limits.MaxNotionalValue)
	}
}

func TestLimitsForUnknownSymbolGetsDefaults(t *testing.T) {
	cfg, err := Load(writeSampleConfig(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	limits := cfg.LimitsFor("DOGE/USD")
	if !limits.MaxOrderQty.Equal(cfg.Defaults.MaxOrderQty) {
		t.Fatalf("unknown symbol should get defaults verbatim")
	}
}

func TestLoadBadJSONReturnsError(t *testing.T) {
	path := t.TempDir() + "/bad.json"
	if err := os.WriteFile(path, []byte("{not valid json"), 0o600); err != nil {
		t.Fatalf("write bad config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}

func TestLoadMissingSymbolsSectionOK(t *testing.T) {
	path := t.TempDir() + "/defaults_only.json"
	raw := `{"defaults": {"max_order_qty": "1.0", "max_notional_value": "1000",
		"confirm_above_notional": "500", "max_trades_per_day": 1,
		"max_trades_per_week": 1, "max_trades_per_month": 1}}`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	limits := cfg.LimitsFor("ANY/SYM")
	if !limits.MaxOrderQty.Equal(dec("1.0")) {
		t.Fatalf("got %s, want defaults with no symbols section", limits.MaxOrderQty)
	}
}

func TestDescribeLimitsContainsDefaults(t *testing.T) {
	cfg, err := Load(writeSampleConfig(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	desc := cfg.DescribeLimits()
	if !strings.Contains(desc, "max_order_qty: 10") {
		t.Fatalf("description missing defaults: %s", desc)
	}
}

func TestDescribeLimitsContainsOverrides(t *testing.T) {
	cfg, err := Load(writeSampleConfig(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	desc := cfg.DescribeLimits()
	if !strings.Contains(desc, "BTC/USD") {
		t.Fatalf("description missing BTC/USD override section: %s", desc)
	}
}
