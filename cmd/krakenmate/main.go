// Command krakenmate is a terminal and optional web dashboard client for
// Kraken's streaming market data and order-entry WebSocket v2 API. It
// maintains local order books and account state, enforces pre-trade risk
// limits, and lets up to three LLM agent subprocesses alongside the human
// operator submit orders through a single confirmation-gated pipeline.
//
// Architecture:
//
//	main.go                 — cobra root command and subcommand wiring
//	app.go                  — shared bootstrap: config, credentials, TLS,
//	                          session, risk, pipeline, agents, renderers
//	internal/config         — YAML config with KRAKENMATE_* env overrides
//	internal/credentials    — OS keyring storage for API keys/secrets
//	internal/tlsconfig      — pinned or system TLS trust for both endpoints
//	internal/auth           — REST token fetch for the private feed
//	internal/session        — the two WebSocket connections, reconnect/backoff
//	internal/book           — local order book reconstruction + checksum
//	internal/state          — the aggregator all renderers read from
//	internal/risk           — pre-trade limit checks and confirmation gating
//	internal/simulation     — paper-trading fill engine for the sim subcommand
//	internal/pipeline       — the single order submission/confirmation funnel
//	internal/agent          — subprocess bridge for LLM trading agents
//	internal/ui             — the bubbletea terminal renderer
//	internal/api            — the optional read-only web dashboard
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "configs/config.yaml", "path to the client config file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(credsCmd)
	credsCmd.AddCommand(credsSetCmd)
	credsCmd.AddCommand(credsListCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "krakenmate",
	Short: "krakenmate streams Kraken market data and routes order entry through a risk-gated pipeline.",
	Long: "krakenmate connects to Kraken's public and private WebSocket v2 feeds, reconstructs local order " +
		"books, and presents a terminal dashboard the operator and any attached agent subprocesses can use to " +
		"place orders, all gated by configurable pre-trade risk limits.",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to the live Kraken feeds and run the terminal dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClient(cfgPath, false)
	},
}

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run against public market data with orders filled by the local paper-trading engine",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClient(cfgPath, true)
	},
}

var credsCmd = &cobra.Command{
	Use:   "creds",
	Short: "Manage stored API credentials in the OS credential store",
}

var credsSetCmd = &cobra.Command{
	Use:   "set [llm|exchange-key|exchange-secret] [value]",
	Short: "Save a credential into the OS credential store",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := credentialKeyFromArg(args[0])
		if err != nil {
			return err
		}
		store, err := openCredentialStore()
		if err != nil {
			return err
		}
		if err := store.Save(key, args[1]); err != nil {
			return err
		}
		fmt.Printf("saved %s\n", key.Label())
		return nil
	},
}

var credsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show which credentials are currently stored",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCredentialStore()
		if err != nil {
			return err
		}
		for _, key := range credentialKeys() {
			state := "not set"
			if store.IsSet(key) {
				state = "set"
			}
			fmt.Printf("%-20s %s\n", key.Label(), state)
		}
		return nil
	},
}
