package wire

// CancelOrderParams identifies a single order to cancel by order_id or
// cl_ord_id (original_source/src/models/cancel_order.rs).
type CancelOrderParams struct {
	OrderID string        `json:"order_id,omitempty"`
	ClOrdID string        `json:"cl_ord_id,omitempty"`
	Token   RedactedToken `json:"token"`
}

// CancelOrderRequest is the outbound RPC envelope for cancel_order.
type CancelOrderRequest struct {
	Method string            `json:"method"` // "cancel_order"
	Params CancelOrderParams `json:"params"`
	ReqID  int64             `json:"req_id,omitempty"`
}

// CancelOrderResult reports the cancelled order's identifiers.
type CancelOrderResult struct {
	OrderID  string   `json:"order_id"`
	ClOrdID  string   `json:"cl_ord_id,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// CancelOrderResponse is the RPC response envelope for cancel_order.
type CancelOrderResponse struct {
	Method  string             `json:"method"`
	Success bool               `json:"success"`
	Error   string             `json:"error,omitempty"`
	Result  *CancelOrderResult `json:"result,omitempty"`
	ReqID   int64              `json:"req_id,omitempty"`
}

// CancelAllParams cancels every open order on the account.
type CancelAllParams struct {
	Token RedactedToken `json:"token"`
}

// CancelAllRequest is the outbound RPC envelope for cancel_all.
type CancelAllRequest struct {
	Method string          `json:"method"` // "cancel_all"
	Params CancelAllParams `json:"params"`
	ReqID  int64           `json:"req_id,omitempty"`
}

// CancelAllResult reports how many orders were cancelled.
type CancelAllResult struct {
	Count    uint64   `json:"count"`
	Warnings []string `json:"warnings,omitempty"`
}

// CancelAllResponse is the RPC response envelope for cancel_all.
type CancelAllResponse struct {
	Method  string           `json:"method"`
	Success bool             `json:"success"`
	Error   string           `json:"error,omitempty"`
	Result  *CancelAllResult `json:"result,omitempty"`
	ReqID   int64            `json:"req_id,omitempty"`
}

// CancelAllOrdersAfterParams arms (or disarms, with timeout=0) Kraken's
// dead-man's-switch: if no further cancel_all_orders_after RPC refreshes the
// timer within `timeout` seconds, Kraken cancels every resting order for us.
type CancelAllOrdersAfterParams struct {
	Timeout int64         `json:"timeout"` // seconds; 0 disarms
	Token   RedactedToken `json:"token"`
}

// CancelAllOrdersAfterRequest is the outbound RPC envelope.
type CancelAllOrdersAfterRequest struct {
	Method string                      `json:"method"` // "cancel_all_orders_after"
	Params CancelAllOrdersAfterParams  `json:"params"`
	ReqID  int64                       `json:"req_id,omitempty"`
}

// CancelAllOrdersAfterResult reports when the switch will trigger.
type CancelAllOrdersAfterResult struct {
	CurrentTime string `json:"currentTime"`
	TriggerTime string `json:"triggerTime"`
}

// CancelAllOrdersAfterResponse is the RPC response envelope.
type CancelAllOrdersAfterResponse struct {
	Method  string                      `json:"method"`
	Success bool                        `json:"success"`
	Error   string                      `json:"error,omitempty"`
	Result  *CancelAllOrdersAfterResult `json:"result,omitempty"`
	ReqID   int64                       `json:"req_id,omitempty"`
}
