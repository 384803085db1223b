package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"krakenmate/internal/agent"
	"krakenmate/internal/api"
	"krakenmate/internal/config"
	"krakenmate/internal/credentials"
	"krakenmate/internal/pipeline"
	"krakenmate/internal/risk"
	"krakenmate/internal/session"
	"krakenmate/internal/simulation"
	"krakenmate/internal/state"
	"krakenmate/internal/tlsconfig"
	"krakenmate/internal/ui"
)

// runClient loads configuration, wires every component, and blocks until the
// operator quits the dashboard or sends SIGINT/SIGTERM. forceSimulation
// overrides config.Simulation.Enabled for the sim subcommand.
func runClient(cfgPath string, forceSimulation bool) error {
	store, err := openCredentialStore()
	if err != nil {
		// A missing or unavailable OS keyring should not block startup —
		// the operator may be relying entirely on config file values or
		// environment variables.
		fmt.Fprintf(os.Stderr, "credential store unavailable, continuing without it: %s\n", err)
	} else {
		store.PopulateEnv()
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if forceSimulation {
		cfg.Simulation.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := newLogger(cfg.Logging)

	riskCfg, err := risk.Load(cfg.Risk.ConfigPath)
	if err != nil {
		return fmt.Errorf("load risk config: %w", err)
	}
	guard := risk.NewGuard(riskCfg)

	tlsCfg, err := tlsconfig.Build(os.Getenv("KRAKENMATE_TLS_CA_PATH"))
	if err != nil {
		return fmt.Errorf("build tls config: %w", err)
	}

	sess := session.NewManager(cfg.Exchange.ApiKey, cfg.Exchange.Secret, tlsCfg, logger)
	for _, symbol := range cfg.Symbols {
		sess.Commands() <- session.Command{Kind: session.PairSubscribed, Symbol: symbol}
	}

	var sim *simulation.Engine
	if cfg.Simulation.Enabled {
		sim = simulation.NewEngine()
		logger.Warn("simulation mode enabled — orders fill against the paper-trading engine, not the exchange")
	}

	agg := state.New()
	for _, symbol := range cfg.Symbols {
		agg.TrackSymbol(symbol)
	}

	pl := pipeline.New(sess, guard, sim, agg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sess.Run(ctx)
	go pl.Run(ctx)
	go pumpSessionEvents(ctx, sess, agg, logger)

	agents := spawnAgents(ctx, cfg.Agents.ScriptPaths, logger)
	defer stopAgents(agents)

	var dashboard *api.Server
	if cfg.Dashboard.Enabled {
		dashboard = api.NewServer(cfg.Dashboard, agg, guard, *cfg, logger)
		go func() {
			if err := dashboard.Start(); err != nil {
				logger.Error("dashboard server failed", "error", err)
			}
		}()
		logger.Info("dashboard started", "port", cfg.Dashboard.Port)
	}

	uiErrCh := make(chan error, 1)
	go func() {
		uiErrCh <- ui.Run(agg, pl, guard, agents, cfg.Symbols, cfg.Symbols)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-uiErrCh:
		if err != nil {
			logger.Error("dashboard renderer exited", "error", err)
		}
	}

	if dashboard != nil {
		if err := dashboard.Stop(); err != nil {
			logger.Error("failed to stop dashboard", "error", err)
		}
	}
	cancel()
	return nil
}

// pumpSessionEvents folds every session event into the aggregator, issuing a
// resync request back to the session for any book action the aggregator
// reports. Blocks until ctx is done or the session's event channel closes.
func pumpSessionEvents(ctx context.Context, sess *session.Manager, agg *state.Aggregator, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sess.Events():
			if !ok {
				return
			}
			for _, action := range agg.Apply(ev) {
				logger.Warn("requesting book resync", "symbol", action.Symbol)
				select {
				case sess.Commands() <- session.Command{Kind: session.PairSubscribed, Symbol: action.Symbol}:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// spawnAgents launches one subprocess per configured script path, up to the
// three agent slots the renderer and pipeline support. A script that fails
// to spawn is logged and left nil rather than aborting startup.
func spawnAgents(ctx context.Context, scriptPaths []string, logger *slog.Logger) [3]*agent.Handle {
	var agents [3]*agent.Handle
	for i, path := range scriptPaths {
		if i >= len(agents) {
			logger.Warn("ignoring extra agent script beyond the supported slots", "path", path)
			break
		}
		handle, err := agent.Spawn(ctx, i, path, logger)
		if err != nil {
			logger.Error("failed to spawn agent", "index", i, "path", path, "error", err)
			continue
		}
		agents[i] = handle
	}
	return agents
}

func stopAgents(agents [3]*agent.Handle) {
	for _, h := range agents {
		if h != nil {
			h.Stop()
		}
	}
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openCredentialStore() (*credentials.Store, error) {
	return credentials.Open()
}

func credentialKeys() []credentials.Key {
	return credentials.All
}

func credentialKeyFromArg(arg string) (credentials.Key, error) {
	switch arg {
	case "llm":
		return credentials.LLMAPIKey, nil
	case "exchange-key":
		return credentials.ExchangeAPIKey, nil
	case "exchange-secret":
		return credentials.ExchangeSecret, nil
	default:
		return 0, fmt.Errorf("unknown credential %q (want llm, exchange-key, or exchange-secret)", arg)
	}
}
