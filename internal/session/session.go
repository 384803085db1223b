// Package session manages the two Kraken WebSocket v2 connections a client
// needs: a public feed (wss://ws.kraken.com/v2) for market data and a
// private feed (wss://ws-auth.kraken.com/v2) for authenticated channels and
// order entry. It owns reconnection with exponential backoff, token refresh
// ahead of expiry, and re-subscription to every tracked symbol after each
// reconnect.
//
// Grounded on original_source/src/websocket/connection.rs's ConnectionManager
// (the reconnect/backoff/token-refresh state machine) restructured into the
// teacher's internal/exchange/ws.go idiom: a mutex-guarded connection, typed
// output channels consumers range over, and a non-blocking dispatch that
// drops and warns rather than blocking on a full channel.
package session

import (
	"time"
)

const (
	// PublicURL is Kraken's public market-data WebSocket endpoint.
	PublicURL = "wss://ws.kraken.com/v2"
	// PrivateURL is Kraken's authenticated WebSocket endpoint.
	PrivateURL = "wss://ws-auth.kraken.com/v2"

	// tokenRefreshInterval refreshes the private token 3 minutes ahead of
	// Kraken's 15-minute expiry.
	tokenRefreshInterval = 12 * time.Minute
	// tokenWarningThreshold surfaces a TokenState of ExpiringSoon to
	// consumers before the refresh actually happens.
	tokenWarningThreshold = 9 * time.Minute

	initialBackoff = 1 * time.Second
	maxBackoff     = 60 * time.Second

	eventBufferSize    = 256
	responseBufferSize = 64
	commandBufferSize  = 32
	readPumpBufferSize = 32
)

// CommandKind tags a Command sent from a consumer into the session manager.
type CommandKind int

const (
	// PairSubscribed records that symbol should be subscribed to on every
	// future (re)connect.
	PairSubscribed CommandKind = iota
	// PairUnsubscribed removes a symbol from the tracked set.
	PairUnsubscribed
	// TokenUsed records that the current private token was just used for
	// an authenticated operation, for diagnostic age reporting.
	TokenUsed
)

// Command is sent from a consumer (the pipeline or UI layer) into the
// session manager's control loop.
type Command struct {
	Kind   CommandKind
	Symbol string
}

// TokenState describes the health of the private-feed auth token.
type TokenState int

const (
	TokenUnavailable TokenState = iota
	TokenValid
	TokenExpiringSoon
	TokenRefreshing
)

func (s TokenState) String() string {
	switch s {
	case TokenValid:
		return "valid"
	case TokenExpiringSoon:
		return "expiring_soon"
	case TokenRefreshing:
		return "refreshing"
	default:
		return "unavailable"
	}
}

// disconnectReason is why the read loop returned control to Run's outer
// reconnect loop.
type disconnectReason int

const (
	reasonConnectionError disconnectReason = iota
	reasonTokenExpired
	reasonShutdown
)
