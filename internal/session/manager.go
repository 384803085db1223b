package session

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"krakenmate/internal/auth"
	"krakenmate/internal/wire"
	"krakenmate/internal/xerrors"
)

// Manager owns the public and private WebSocket connections, reconnecting
// both with exponential backoff and refreshing the private token ahead of
// its 15-minute expiry. Call Run once in its own goroutine; send Commands
// to track or untrack symbols; range over Events for channel-feed data and
// Responses for order-entry RPC replies; call SendPrivate to submit orders.
type Manager struct {
	tlsConfig *tls.Config
	tokens    *auth.TokenClient
	hasCreds  bool

	logger *slog.Logger

	events    chan Event
	responses chan []byte
	commands  chan Command

	writerMu     sync.Mutex
	publicConn   *websocket.Conn
	privateConn  *websocket.Conn

	subscribedMu sync.RWMutex
	subscribed   map[string]bool

	tokenMu         sync.RWMutex
	currentToken    wire.RedactedToken
	tokenLastUsedAt time.Time
}

// NewManager creates a session manager. Pass an empty apiKey/secret to run
// public-data-only (no private connection, no order entry). tlsConfig may be
// nil to use the system default root store.
func NewManager(apiKey, secret string, tlsConfig *tls.Config, logger *slog.Logger) *Manager {
	m := &Manager{
		tlsConfig:  tlsConfig,
		hasCreds:   apiKey != "" && secret != "",
		logger:     logger.With("component", "session"),
		events:     make(chan Event, eventBufferSize),
		responses:  make(chan []byte, responseBufferSize),
		commands:   make(chan Command, commandBufferSize),
		subscribed: make(map[string]bool),
	}
	if m.hasCreds {
		m.tokens = auth.NewTokenClient(apiKey, secret, "", logger)
	}
	return m
}

// Events returns the channel of public/private channel-feed updates.
func (m *Manager) Events() <-chan Event { return m.events }

// Responses returns the channel of raw order-entry RPC responses (add_order,
// cancel_order, amend_order, batch_add, batch_cancel, ...). The pipeline
// layer correlates these by req_id.
func (m *Manager) Responses() <-chan []byte { return m.responses }

// Commands returns the send side of the command channel.
func (m *Manager) Commands() chan<- Command { return m.commands }

func (m *Manager) trySendEvent(e Event) {
	select {
	case m.events <- e:
	default:
		m.logger.Warn("event channel full, dropping message", "kind", e.Kind)
	}
}

func (m *Manager) trySendResponse(raw []byte) {
	select {
	case m.responses <- raw:
	default:
		m.logger.Warn("response channel full, dropping rpc response")
	}
}

// CurrentToken returns the private-feed token from the most recent
// successful fetch, or "" if none is held (public-only mode, or the last
// fetch failed). The order pipeline binds this into outbound AddOrderParams.
func (m *Manager) CurrentToken() wire.RedactedToken {
	m.tokenMu.RLock()
	defer m.tokenMu.RUnlock()
	return m.currentToken
}

// SendPrivate writes a raw JSON request on the private connection (order
// entry, cancel, amend, and the other authenticated RPCs). Returns an error
// if the private connection isn't currently established.
func (m *Manager) SendPrivate(raw []byte) error {
	m.writerMu.Lock()
	defer m.writerMu.Unlock()
	if m.privateConn == nil {
		return xerrors.New(xerrors.WebSocket, "send private: not connected")
	}
	m.privateConn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return m.privateConn.WriteMessage(websocket.TextMessage, raw)
}

func (m *Manager) sendPublic(v any) error {
	m.writerMu.Lock()
	defer m.writerMu.Unlock()
	if m.publicConn == nil {
		return xerrors.New(xerrors.WebSocket, "send public: not connected")
	}
	m.publicConn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return m.publicConn.WriteJSON(v)
}

// Run connects and maintains both WebSocket connections until ctx is
// cancelled. Blocks; call it in its own goroutine.
func (m *Manager) Run(ctx context.Context) error {
	backoff := initialBackoff

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		m.trySendEvent(Event{Kind: EventReconnecting})

		token, err := m.fetchToken(ctx)
		if err != nil {
			m.logger.Error("fetch token failed", "error", err)
		}
		m.tokenMu.Lock()
		m.currentToken = token
		m.tokenMu.Unlock()
		if token != "" {
			m.trySendEvent(Event{Kind: EventTokenState, TokenState: TokenValid})
		} else {
			m.trySendEvent(Event{Kind: EventTokenState, TokenState: TokenUnavailable})
		}

		publicConn, err := m.dial(ctx, PublicURL)
		if err != nil {
			m.logger.Error("public connect failed", "error", err)
			m.trySendEvent(Event{Kind: EventDisconnected})
			if !sleepOrDone(ctx, backoff) {
				return ctx.Err()
			}
			backoff = nextBackoff(backoff)
			continue
		}

		if err := m.ping(publicConn); err != nil {
			m.logger.Warn("public ping failed", "error", err)
			publicConn.Close()
			m.trySendEvent(Event{Kind: EventDisconnected})
			if !sleepOrDone(ctx, backoff) {
				return ctx.Err()
			}
			backoff = nextBackoff(backoff)
			continue
		}

		m.subscribePublic(publicConn)

		var privateConn *websocket.Conn
		if token != "" {
			privateConn, err = m.dial(ctx, PrivateURL)
			if err != nil {
				m.logger.Warn("private connect failed, continuing public-only", "error", err)
			} else if err := m.ping(privateConn); err != nil {
				m.logger.Warn("private ping failed, continuing public-only", "error", err)
				privateConn.Close()
				privateConn = nil
			} else {
				m.subscribePrivate(privateConn, token)
			}
		}

		m.writerMu.Lock()
		m.publicConn = publicConn
		m.privateConn = privateConn
		m.writerMu.Unlock()
		m.trySendEvent(Event{Kind: EventConnected})

		backoff = initialBackoff

		reason := m.readLoop(ctx, publicConn, privateConn, time.Now())

		m.writerMu.Lock()
		m.publicConn = nil
		m.privateConn = nil
		m.writerMu.Unlock()
		publicConn.Close()
		if privateConn != nil {
			privateConn.Close()
		}

		switch reason {
		case reasonTokenExpired:
			m.trySendEvent(Event{Kind: EventTokenState, TokenState: TokenRefreshing})
			m.logger.Info("token expiring, reconnecting with fresh token")
		case reasonConnectionError:
			m.trySendEvent(Event{Kind: EventDisconnected})
			m.trySendEvent(Event{Kind: EventTokenState, TokenState: TokenRefreshing})
			m.logger.Info("connection lost, backing off", "backoff", backoff)
			if !sleepOrDone(ctx, backoff) {
				return ctx.Err()
			}
			backoff = nextBackoff(backoff)
		case reasonShutdown:
			m.logger.Info("session manager shutting down")
			return ctx.Err()
		}
	}
}

func nextBackoff(cur time.Duration) time.Duration {
	next := cur * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func (m *Manager) fetchToken(ctx context.Context) (wire.RedactedToken, error) {
	if !m.hasCreds {
		return "", nil
	}
	return m.tokens.FetchToken(ctx)
}

func (m *Manager) dial(ctx context.Context, url string) (*websocket.Conn, error) {
	dialer := websocket.Dialer{TLSClientConfig: m.tlsConfig}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return conn, nil
}

func (m *Manager) ping(conn *websocket.Conn) error {
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteJSON(wire.PingRequest{Method: "ping"})
}

func (m *Manager) subscribePublic(conn *websocket.Conn) {
	write := func(v any) {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(v); err != nil {
			m.logger.Warn("public subscribe failed", "error", err)
		}
	}

	write(wire.NewSubscribeRequest(wire.ChannelInstruments, nil, 0))

	m.subscribedMu.RLock()
	symbols := make([]string, 0, len(m.subscribed))
	for s := range m.subscribed {
		symbols = append(symbols, s)
	}
	m.subscribedMu.RUnlock()

	for _, symbol := range symbols {
		one := []string{symbol}
		write(wire.NewSubscribeRequest(wire.ChannelTicker, one, 0))
		write(wire.NewSubscribeRequest(wire.ChannelBook, one, 25))
		write(wire.NewSubscribeRequest(wire.ChannelCandles, one, 0))
		write(wire.NewSubscribeRequest(wire.ChannelTrades, one, 0))
	}
	m.logger.Info("public websocket connected and subscribed", "symbols", len(symbols))
}

func (m *Manager) subscribePrivate(conn *websocket.Conn, token wire.RedactedToken) {
	write := func(v any) {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(v); err != nil {
			m.logger.Warn("private subscribe failed", "error", err)
		}
	}
	write(wire.NewPrivateSubscribeRequest(wire.ChannelExecutions, token))
	write(wire.NewPrivateSubscribeRequest(wire.ChannelBalances, token))
	m.logger.Info("private websocket connected and subscribed")
}
