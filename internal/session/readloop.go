package session

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
)

// wsMessage is one frame read off either connection, tagged by origin.
type wsMessage struct {
	private bool
	data    []byte
	err     error
}

// readPump reads frames off conn until it errors, forwarding each to out.
// Exits (without closing out, which is shared) once ReadMessage errors —
// the caller always sees a final message with a non-nil err.
func readPump(conn *websocket.Conn, private bool, out chan<- wsMessage) {
	for {
		_, data, err := conn.ReadMessage()
		out <- wsMessage{private: private, data: data, err: err}
		if err != nil {
			return
		}
	}
}

// readLoop reads from both connections (private may be nil) until
// disconnection, token expiry, or shutdown, dispatching channel-feed
// messages to Events and RPC responses to Responses.
func (m *Manager) readLoop(ctx context.Context, public, private *websocket.Conn, tokenFetchedAt time.Time) disconnectReason {
	msgCh := make(chan wsMessage, readPumpBufferSize)
	go readPump(public, false, msgCh)
	if private != nil {
		go readPump(private, true, msgCh)
	}

	var (
		refreshTimer = time.NewTimer(tokenRefreshInterval)
		warningTimer = time.NewTimer(tokenWarningThreshold)
	)
	defer refreshTimer.Stop()
	defer warningTimer.Stop()
	if private == nil {
		// No token in play: these timers should never fire.
		if !refreshTimer.Stop() {
			<-refreshTimer.C
		}
		if !warningTimer.Stop() {
			<-warningTimer.C
		}
	}

	for {
		select {
		case <-ctx.Done():
			return reasonShutdown

		case msg := <-msgCh:
			if msg.err != nil {
				if msg.private {
					m.logger.Warn("private websocket error, continuing with public only", "error", msg.err)
					continue
				}
				m.logger.Warn("public websocket error", "error", msg.err)
				return reasonConnectionError
			}
			m.dispatch(msg.data)

		case cmd := <-m.commands:
			switch cmd.Kind {
			case PairSubscribed:
				m.subscribedMu.Lock()
				m.subscribed[cmd.Symbol] = true
				m.subscribedMu.Unlock()
			case PairUnsubscribed:
				m.subscribedMu.Lock()
				delete(m.subscribed, cmd.Symbol)
				m.subscribedMu.Unlock()
			case TokenUsed:
				m.tokenLastUsedAt = time.Now()
				m.logger.Debug("token used for authenticated operation",
					"token_age", time.Since(tokenFetchedAt))
			}

		case <-warningTimer.C:
			m.trySendEvent(Event{Kind: EventTokenState, TokenState: TokenExpiringSoon})
			m.logger.Info("token approaching expiry", "token_age", time.Since(tokenFetchedAt))

		case <-refreshTimer.C:
			return reasonTokenExpired
		}
	}
}
