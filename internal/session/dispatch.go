package session

import "krakenmate/internal/wire"

// dispatch peeks at one inbound frame's routing fields and forwards it as
// either a correlatable RPC response (order entry replies) or a typed
// Event (channel-feed data), mirroring the peek-then-fully-unmarshal split
// in original_source/src/websocket/handler.rs's dispatch_message.
func (m *Manager) dispatch(raw []byte) {
	kind, method, channel, msgType, err := wire.Peek(raw)
	if err != nil {
		m.logger.Debug("ignoring non-json websocket frame", "error", err)
		return
	}

	switch kind {
	case wire.KindRPCResponse:
		if method == "pong" || method == "subscribe" || method == "unsubscribe" {
			return
		}
		m.trySendResponse(raw)

	case wire.KindChannelEvent:
		m.dispatchChannel(channel, msgType, raw)

	default:
		m.logger.Debug("unrecognized websocket frame", "frame", string(raw))
	}
}

func (m *Manager) dispatchChannel(channel, msgType string, raw []byte) {
	switch channel {
	case "heartbeat":
		m.trySendEvent(Event{Kind: EventHeartbeat})

	case "status":
		var v wire.StatusUpdateResponse
		if err := wire.Unmarshal(raw, &v); err != nil {
			m.logger.Warn("unmarshal status", "error", err)
			return
		}
		m.trySendEvent(Event{Kind: EventStatus, Status: &v})

	case "ticker":
		var v wire.TickerUpdateResponse
		if err := wire.Unmarshal(raw, &v); err != nil {
			m.logger.Warn("unmarshal ticker", "error", err)
			return
		}
		m.trySendEvent(Event{Kind: EventTicker, Ticker: &v})

	case "book":
		var v wire.BookUpdateResponse
		if err := wire.Unmarshal(raw, &v); err != nil {
			m.logger.Warn("unmarshal book", "error", err)
			return
		}
		m.trySendEvent(Event{Kind: EventBook, Book: &v})

	case "trade":
		if msgType != "update" {
			return
		}
		var v wire.TradeUpdateResponse
		if err := wire.Unmarshal(raw, &v); err != nil {
			m.logger.Warn("unmarshal trade", "error", err)
			return
		}
		m.trySendEvent(Event{Kind: EventTrade, Trade: &v})

	case "ohlc":
		var v wire.CandleUpdateResponse
		if err := wire.Unmarshal(raw, &v); err != nil {
			m.logger.Warn("unmarshal ohlc", "error", err)
			return
		}
		m.trySendEvent(Event{Kind: EventCandle, Candle: &v})

	case "instrument":
		var v wire.InstrumentUpdateResponse
		if err := wire.Unmarshal(raw, &v); err != nil {
			m.logger.Warn("unmarshal instrument", "error", err)
			return
		}
		m.trySendEvent(Event{Kind: EventInstrument, Instrument: &v})

	case "executions":
		var v wire.ExecutionUpdateResponse
		if err := wire.Unmarshal(raw, &v); err != nil {
			m.logger.Warn("unmarshal executions", "error", err)
			return
		}
		m.trySendEvent(Event{Kind: EventExecution, Execution: &v})

	case "balances":
		var v wire.BalanceUpdateResponse
		if err := wire.Unmarshal(raw, &v); err != nil {
			m.logger.Warn("unmarshal balances", "error", err)
			return
		}
		m.trySendEvent(Event{Kind: EventBalance, Balance: &v})

	default:
		m.logger.Debug("unknown channel", "channel", channel)
	}
}
