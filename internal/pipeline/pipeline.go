// Package pipeline implements the order-entry pipeline (C7): the path every
// order intent takes from an agent or operator through the risk guard,
// optional operator confirmation, submission (live or simulated), and
// correlation of the exchange's response back to the state aggregator.
//
// Grounded on original_source/src/tui/event.rs's Action::SubmitOrder
// handling for the intake/risk/pending/submit control flow, restructured
// into the teacher's internal/engine/engine.go orchestration style: one
// struct owning references to every collaborator, with a narrow public
// method set consumers (an agent bridge, the renderer, a CLI command) call
// into directly rather than posting onto a generic event bus.
package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"

	"krakenmate/internal/risk"
	"krakenmate/internal/session"
	"krakenmate/internal/simulation"
	"krakenmate/internal/state"
	"krakenmate/internal/wire"
	"krakenmate/internal/xerrors"
)

// Outcome classifies how Submit or Confirm resolved an intent.
type Outcome int

const (
	// Approved means the order was submitted and the exchange (or the
	// simulation engine) accepted it.
	Approved Outcome = iota
	// Rejected means the order was not accepted: a hard risk-limit failure,
	// an operator decline, or a second confirmation-required intent arriving
	// while one is already pending (none of these reach the wire), or an
	// exchange-side error on an order that was sent.
	Rejected
	// PendingConfirmation means the order cleared hard limits but exceeds
	// confirm_above_notional; it is parked awaiting Confirm.
	PendingConfirmation
)

// Intent is an order request arriving from an agent or the operator, not
// yet bound to a live auth token.
type Intent struct {
	Params wire.AddOrderParams
	Source string // e.g. "operator" or "agent:<name>"
}

// Result is the outcome of Submit or Confirm.
type Result struct {
	Outcome Outcome
	Reason  string
	OrderID string
}

type pendingOrder struct {
	intent Intent
	reason string
}

// Pipeline carries an intent through risk checking, confirmation, and
// submission, wiring the result back into the state aggregator.
type Pipeline struct {
	session *session.Manager
	guard   *risk.Guard
	sim     *simulation.Engine // nil in live (non-simulated) mode
	agg     *state.Aggregator
	logger  *slog.Logger

	pendingMu sync.Mutex
	pending   *pendingOrder

	reqID atomic.Int64

	correlateMu sync.Mutex
	correlate   map[int64]chan wire.AddOrderResponse
}

// New creates an order pipeline. Pass a non-nil sim to run every order
// through the paper-trading engine instead of the live exchange.
func New(sess *session.Manager, guard *risk.Guard, sim *simulation.Engine, agg *state.Aggregator, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		session:   sess,
		guard:     guard,
		sim:       sim,
		agg:       agg,
		logger:    logger.With("component", "pipeline"),
		correlate: make(map[int64]chan wire.AddOrderResponse),
	}
}

// Submit runs intent through the risk guard and, if approved outright,
// submits it immediately. If the guard requires confirmation, it is parked
// as the single pending order and Submit returns PendingConfirmation
// without sending anything — call Confirm to resolve it.
func (p *Pipeline) Submit(ctx context.Context, intent Intent) (Result, error) {
	verdict, err := p.guard.CheckOrder(intent.Params)
	if err != nil {
		p.logger.Info("order rejected by risk guard", "symbol", intent.Params.Symbol, "error", err)
		return Result{Outcome: Rejected, Reason: err.Error()}, nil
	}

	if verdict.RequiresConfirmation {
		p.pendingMu.Lock()
		if p.pending != nil {
			p.pendingMu.Unlock()
			return Result{Outcome: Rejected, Reason: "pending confirmation in progress"}, nil
		}
		p.pending = &pendingOrder{intent: intent, reason: verdict.Reason}
		p.pendingMu.Unlock()
		p.logger.Info("order requires confirmation", "symbol", intent.Params.Symbol, "reason", verdict.Reason)
		return Result{Outcome: PendingConfirmation, Reason: verdict.Reason}, nil
	}

	return p.doSubmit(ctx, intent)
}

// Confirm resolves the single pending order: approve dispatches it for
// submission, decline drops it. Returns an error if no order is pending.
func (p *Pipeline) Confirm(ctx context.Context, approve bool) (Result, error) {
	p.pendingMu.Lock()
	pending := p.pending
	p.pending = nil
	p.pendingMu.Unlock()

	if pending == nil {
		return Result{}, xerrors.New(xerrors.Risk, "no order is pending confirmation")
	}
	if !approve {
		p.logger.Info("pending order declined by operator", "symbol", pending.intent.Params.Symbol)
		return Result{Outcome: Rejected, Reason: "declined by operator"}, nil
	}
	return p.doSubmit(ctx, pending.intent)
}

// PendingReason returns the reason string of the currently-pending order,
// and whether one exists.
func (p *Pipeline) PendingReason() (string, bool) {
	p.pendingMu.Lock()
	defer p.pendingMu.Unlock()
	if p.pending == nil {
		return "", false
	}
	return p.pending.reason, true
}

func (p *Pipeline) doSubmit(ctx context.Context, intent Intent) (Result, error) {
	if p.sim != nil {
		return p.submitSimulated(intent)
	}
	return p.submitLive(ctx, intent)
}

func (p *Pipeline) submitSimulated(intent Intent) (Result, error) {
	params := intent.Params
	ticker, ok := p.agg.Ticker(params.Symbol)
	var tickerPtr *wire.TickerData
	if ok {
		tickerPtr = &ticker
	}

	resp, exec := p.sim.ExecuteOrder(params, tickerPtr)
	if !resp.Success {
		return Result{Outcome: Rejected, Reason: resp.Error}, nil
	}

	p.guard.RecordSubmission(params.Symbol)
	if exec != nil {
		p.agg.Apply(session.Event{Kind: session.EventExecution, Execution: exec})
	}
	p.logger.Info("order filled in simulation", "symbol", params.Symbol, "order_id", resp.Result.OrderID)
	return Result{Outcome: Approved, OrderID: resp.Result.OrderID}, nil
}

func (p *Pipeline) submitLive(ctx context.Context, intent Intent) (Result, error) {
	params := intent.Params
	params.Token = p.session.CurrentToken()
	if params.Token == "" {
		return Result{}, xerrors.New(xerrors.Auth, "submit order: no private-feed token available")
	}

	reqID := p.reqID.Add(1)
	raw, err := json.Marshal(wire.AddOrderRequest{Method: "add_order", Params: params, ReqID: reqID})
	if err != nil {
		return Result{}, xerrors.Wrap(xerrors.JSON, err, "marshal add_order request")
	}

	respCh := make(chan wire.AddOrderResponse, 1)
	p.correlateMu.Lock()
	p.correlate[reqID] = respCh
	p.correlateMu.Unlock()
	defer func() {
		p.correlateMu.Lock()
		delete(p.correlate, reqID)
		p.correlateMu.Unlock()
	}()

	if err := p.session.SendPrivate(raw); err != nil {
		return Result{}, xerrors.Wrap(xerrors.WebSocket, err, "submit order")
	}
	select {
	case p.session.Commands() <- session.Command{Kind: session.TokenUsed}:
	default:
	}

	select {
	case resp := <-respCh:
		return p.recordLiveResponse(params, resp)
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (p *Pipeline) recordLiveResponse(params wire.AddOrderParams, resp wire.AddOrderResponse) (Result, error) {
	if !resp.Success || resp.Result == nil {
		return Result{Outcome: Rejected, Reason: resp.Error}, nil
	}

	p.guard.RecordSubmission(params.Symbol)
	p.agg.RecordSubmittedOrder(state.OrderView{
		OrderID:    resp.Result.OrderID,
		ClOrdID:    resp.Result.ClOrdID,
		Symbol:     params.Symbol,
		Side:       params.Side,
		OrderType:  params.OrderType,
		OrderQty:   params.OrderQty,
		LeavesQty:  params.OrderQty,
		LimitPrice: params.LimitPrice,
		Status:     "new",
	})
	p.logger.Info("order submitted", "symbol", params.Symbol, "order_id", resp.Result.OrderID)
	return Result{Outcome: Approved, OrderID: resp.Result.OrderID}, nil
}

// Run drains the session's raw RPC response channel, correlating add_order
// responses back to the Submit call awaiting them. Blocks; call it in its
// own goroutine alongside session.Manager.Run.
func (p *Pipeline) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-p.session.Responses():
			if !ok {
				return
			}
			p.handleResponse(raw)
		}
	}
}

func (p *Pipeline) handleResponse(raw []byte) {
	kind, method, _, _, err := wire.Peek(raw)
	if err != nil || kind != wire.KindRPCResponse || method != "add_order" {
		return
	}

	var resp wire.AddOrderResponse
	if err := wire.Unmarshal(raw, &resp); err != nil {
		p.logger.Warn("malformed add_order response", "error", err)
		return
	}
	if resp.ReqID == 0 {
		return
	}

	p.correlateMu.Lock()
	ch, ok := p.correlate[resp.ReqID]
	p.correlateMu.Unlock()
	if !ok {
		p.logger.Warn("add_order response has no matching pending request", "req_id", resp.ReqID)
		return
	}

	select {
	case ch <- resp:
	default:
		p.logger.Warn("add_order response channel already fulfilled", "req_id", resp.ReqID)
	}
}
