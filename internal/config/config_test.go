package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSampleConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := `
exchange:
  api_key: test-key
  secret: test-secret
symbols:
  - BTC/USD
  - ETH/USD
risk:
  config_path: ./risk.json
simulation:
  enabled: true
logging:
  level: info
  format: json
dashboard:
  enabled: false
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write sample config: %v", err)
	}
	return path
}

func TestLoadParsesValidConfig(t *testing.T) {
	cfg, err := Load(writeSampleConfig(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Exchange.ApiKey != "test-key" {
		t.Errorf("api_key = %q, want test-key", cfg.Exchange.ApiKey)
	}
	if len(cfg.Symbols) != 2 {
		t.Errorf("symbols = %d, want 2", len(cfg.Symbols))
	}
	if !cfg.Simulation.Enabled {
		t.Error("expected simulation.enabled = true")
	}
}

func TestLoadEnvOverridesCredentials(t *testing.T) {
	t.Setenv("KRAKENMATE_EXCHANGE_API_KEY", "env-key")
	t.Setenv("KRAKENMATE_EXCHANGE_SECRET", "env-secret")

	cfg, err := Load(writeSampleConfig(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Exchange.ApiKey != "env-key" {
		t.Errorf("api_key = %q, want env override env-key", cfg.Exchange.ApiKey)
	}
	if cfg.Exchange.Secret != "env-secret" {
		t.Errorf("secret = %q, want env override env-secret", cfg.Exchange.Secret)
	}
}

func TestValidateRequiresSymbols(t *testing.T) {
	cfg := &Config{Risk: RiskConfig{ConfigPath: "risk.json"}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error with no symbols configured")
	}
}

func TestValidateRequiresRiskConfigPath(t *testing.T) {
	cfg := &Config{Symbols: []string{"BTC/USD"}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error with no risk config path")
	}
}

func TestValidateRejectsPartialCredentials(t *testing.T) {
	cfg := &Config{
		Symbols: []string{"BTC/USD"},
		Risk:    RiskConfig{ConfigPath: "risk.json"},
		Exchange: ExchangeConfig{
			ApiKey: "only-key-set",
		},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error with only api_key set")
	}
}

func TestValidateAcceptsNoCredentials(t *testing.T) {
	cfg := &Config{
		Symbols: []string{"BTC/USD"},
		Risk:    RiskConfig{ConfigPath: "risk.json"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected public-data-only config to validate, got %v", err)
	}
}

func TestValidateRequiresDashboardPortWhenEnabled(t *testing.T) {
	cfg := &Config{
		Symbols:   []string{"BTC/USD"},
		Risk:      RiskConfig{ConfigPath: "risk.json"},
		Dashboard: DashboardConfig{Enabled: true},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error with dashboard enabled but no port")
	}
}
