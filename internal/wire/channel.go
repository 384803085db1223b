package wire

// SubscribeParams carries the channel name and the symbols to subscribe to.
type SubscribeParams struct {
	Channel Channel  `json:"channel"`
	Symbol  []string `json:"symbol,omitempty"`
	Token   RedactedToken `json:"token,omitempty"`
	Depth   int      `json:"depth,omitempty"`
}

// SubscribeRequest is the outbound RPC envelope requesting a subscription.
type SubscribeRequest struct {
	Method string          `json:"method"` // "subscribe"
	Params SubscribeParams `json:"params"`
	ReqID  int64           `json:"req_id,omitempty"`
}

// NewSubscribeRequest builds a subscribe RPC for a public channel.
func NewSubscribeRequest(channel Channel, symbols []string, depth int) SubscribeRequest {
	return SubscribeRequest{
		Method: "subscribe",
		Params: SubscribeParams{Channel: channel, Symbol: symbols, Depth: depth},
	}
}

// NewPrivateSubscribeRequest builds a subscribe RPC for a token-gated channel
// (executions, balances).
func NewPrivateSubscribeRequest(channel Channel, token RedactedToken) SubscribeRequest {
	return SubscribeRequest{
		Method: "subscribe",
		Params: SubscribeParams{Channel: channel, Token: token},
	}
}

// UnsubscribeRequest is the outbound RPC envelope requesting an unsubscribe.
type UnsubscribeRequest struct {
	Method string          `json:"method"` // "unsubscribe"
	Params SubscribeParams `json:"params"`
	ReqID  int64           `json:"req_id,omitempty"`
}

// PingRequest keeps the connection alive.
type PingRequest struct {
	Method string `json:"method"` // "ping"
	ReqID  int64  `json:"req_id,omitempty"`
}

// PongResponse is Kraken's reply to a ping.
type PongResponse struct {
	Method   string `json:"method"`
	TimeIn   string `json:"time_in"`
	TimeOut  string `json:"time_out"`
	ReqID    int64  `json:"req_id,omitempty"`
}

// HeartbeatResponse is sent periodically on every connection, subscribed or not.
type HeartbeatResponse struct {
	Channel string `json:"channel"` // "heartbeat"
}

// StatusData describes the API's operating status.
type StatusData struct {
	ApiVersion    string `json:"api_version"`
	ConnectionID  uint64 `json:"connection_id"`
	System        string `json:"system"` // "online", "maintenance", "cancel_only", "post_only"
	Version       string `json:"version"`
}

// StatusUpdateResponse is the status channel's event envelope.
type StatusUpdateResponse struct {
	Channel string       `json:"channel"` // "status"
	Type    string       `json:"type"`    // "update" or "snapshot"
	Data    []StatusData `json:"data"`
}

// RoutingEnvelope is the minimal shape dispatch needs to peek at before
// deciding how to fully unmarshal a message: RPC responses carry "method",
// channel events carry "channel" and "type". Mirrors the two-step parse in
// original_source/src/websocket/handler.rs's dispatch_message.
type RoutingEnvelope struct {
	Method  string `json:"method"`
	Channel string `json:"channel"`
	Type    string `json:"type"`
	Success *bool  `json:"success"`
	ReqID   int64  `json:"req_id"`
}
