// Package config defines all configuration for the krakenmate client.
// Config is loaded from a YAML file (default: configs/config.yaml) with
// sensitive fields overridable via KRAKENMATE_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level configuration. Maps directly to the YAML file structure.
type Config struct {
	Exchange   ExchangeConfig   `mapstructure:"exchange"`
	Symbols    []string         `mapstructure:"symbols"`
	Risk       RiskConfig       `mapstructure:"risk"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Agents     AgentsConfig     `mapstructure:"agents"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Dashboard  DashboardConfig  `mapstructure:"dashboard"`
}

// ExchangeConfig holds the credentials used to authenticate the private
// WebSocket feed. Public market data requires no credentials.
type ExchangeConfig struct {
	ApiKey string `mapstructure:"api_key"`
	Secret string `mapstructure:"secret"`
}

// RiskConfig points at the JSON file describing per-symbol order limits
// (see internal/risk.Config for the shape read from this path).
type RiskConfig struct {
	ConfigPath string `mapstructure:"config_path"`
}

// SimulationConfig controls paper-trading mode: when Enabled, the order
// pipeline fills every order through internal/simulation instead of
// submitting to the exchange.
type SimulationConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// AgentsConfig lists the agent subprocesses to spawn alongside the client.
type AgentsConfig struct {
	ScriptPaths []string `mapstructure:"script_paths"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DashboardConfig controls the optional read-only web dashboard server.
type DashboardConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads config from a YAML file with env var overrides.
// Sensitive fields use env vars: KRAKENMATE_EXCHANGE_API_KEY,
// KRAKENMATE_EXCHANGE_SECRET, KRAKENMATE_SIMULATION_ENABLED.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("KRAKENMATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if key := os.Getenv("KRAKENMATE_EXCHANGE_API_KEY"); key != "" {
		cfg.Exchange.ApiKey = key
	}
	if secret := os.Getenv("KRAKENMATE_EXCHANGE_SECRET"); secret != "" {
		cfg.Exchange.Secret = secret
	}
	if sim := os.Getenv("KRAKENMATE_SIMULATION_ENABLED"); sim == "true" || sim == "1" {
		cfg.Simulation.Enabled = true
	}

	return &cfg, nil
}

// Validate checks all required fields and value ranges. Missing credentials
// are not an error here — C4's session manager runs public-data-only in
// that case — but at least one symbol and a risk config path are required.
func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("symbols: at least one trading pair is required")
	}
	if c.Risk.ConfigPath == "" {
		return fmt.Errorf("risk.config_path is required")
	}
	hasKey := c.Exchange.ApiKey != ""
	hasSecret := c.Exchange.Secret != ""
	if hasKey != hasSecret {
		return fmt.Errorf("exchange: api_key and secret must both be set or both empty")
	}
	if c.Dashboard.Enabled && c.Dashboard.Port == 0 {
		return fmt.Errorf("dashboard.port is required when dashboard.enabled is true")
	}
	return nil
}
