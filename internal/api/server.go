package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"krakenmate/internal/config"
	"krakenmate/internal/risk"
)

const snapshotBroadcastInterval = 1 * time.Second

// Server runs the HTTP/WebSocket dashboard: a read-only second renderer
// surface over internal/state's aggregator, alongside the in-process TUI.
type Server struct {
	cfg      config.DashboardConfig
	provider SnapshotProvider
	guard    *risk.Guard
	fullCfg  config.Config
	hub      *Hub
	handlers *Handlers
	server   *http.Server
	logger   *slog.Logger

	done chan struct{}
}

// NewServer creates a new dashboard API server.
func NewServer(
	cfg config.DashboardConfig,
	provider SnapshotProvider,
	guard *risk.Guard,
	fullCfg config.Config,
	logger *slog.Logger,
) *Server {
	hub := NewHub(logger)
	handlers := NewHandlers(provider, guard, fullCfg, hub, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("/health", handlers.HandleHealth)
	mux.HandleFunc("/api/snapshot", handlers.HandleSnapshot)
	mux.HandleFunc("/ws", handlers.HandleWebSocket)

	mux.Handle("/", http.FileServer(http.Dir("web")))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		cfg:      cfg,
		provider: provider,
		guard:    guard,
		fullCfg:  fullCfg,
		hub:      hub,
		handlers: handlers,
		server:   server,
		logger:   logger.With("component", "api-server"),
		done:     make(chan struct{}),
	}
}

// Start runs the WebSocket hub, the periodic snapshot broadcaster, and the
// HTTP listener. Blocks until the server is stopped.
func (s *Server) Start() error {
	go s.hub.Run()
	go s.broadcastLoop()

	s.logger.Info("dashboard server starting", "addr", s.server.Addr)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Stop gracefully stops the server.
func (s *Server) Stop() error {
	s.logger.Info("stopping dashboard server")
	close(s.done)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// broadcastLoop periodically pushes a full snapshot to every connected
// client; the aggregator has no per-field change feed, so polling the
// snapshot is simpler than wiring a second fan-out from session.Manager.
func (s *Server) broadcastLoop() {
	ticker := time.NewTicker(snapshotBroadcastInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.hub.BroadcastSnapshot(BuildSnapshot(s.provider, s.guard, s.fullCfg))
		}
	}
}
