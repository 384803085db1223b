package agent

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"krakenmate/internal/wire"
)

// OrderIntent is a place_order request surfaced from an agent, converted
// from the line's raw string fields into a typed, decimal-backed form the
// pipeline can check against risk limits.
type OrderIntent struct {
	AgentIndex int
	Symbol     string
	Side       wire.OrderSide
	OrderType  wire.OrderType
	Qty        decimal.Decimal
	Price      *decimal.Decimal
	ClOrdID    string
}

// Event is something an agent produced, surfaced to the consumer driving
// the bridge (the renderer, or a headless runner).
type Event struct {
	AgentIndex int
	Output     string       // a raw or [stderr]-prefixed line for the agent panel
	Ready      bool         // the agent signaled it finished initializing
	Order      *OrderIntent // set when the agent requested an order
	Exited     bool
	ExitError  error
}

// Handle is a running agent subprocess. Dropping the process (via Stop or
// process exit) stops its I/O goroutines.
type Handle struct {
	agentIndex int
	cmd        *exec.Cmd
	stdin      *json.Encoder
	stdinMu    sync.Mutex
	limiter    *TokenBucket
	logger     *slog.Logger

	events chan Event
}

// Spawn starts `python3 scriptPath <agentIndex>` and wires its stdio to a
// line-delimited JSON bridge. The child is killed when ctx is cancelled.
func Spawn(ctx context.Context, agentIndex int, scriptPath string, logger *slog.Logger) (*Handle, error) {
	cmd := exec.CommandContext(ctx, "python3", scriptPath, fmt.Sprintf("%d", agentIndex))
	return spawn(ctx, agentIndex, cmd, logger)
}

// SpawnMultiAgent starts the multi-agent Python module via `uv run` in the
// agents directory, the way original_source/src/agent.rs's
// spawn_multi_agent does for the uv-managed virtual environment.
func SpawnMultiAgent(ctx context.Context, agentIndex int, logger *slog.Logger) (*Handle, error) {
	cmd := exec.CommandContext(ctx, "uv", "run", "--directory", "agents", "python", "-m", "multi_agent", fmt.Sprintf("%d", agentIndex))
	return spawn(ctx, agentIndex, cmd, logger)
}

func spawn(ctx context.Context, agentIndex int, cmd *exec.Cmd, logger *slog.Logger) (*Handle, error) {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("agent %d stdout pipe: %w", agentIndex, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("agent %d stderr pipe: %w", agentIndex, err)
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("agent %d stdin pipe: %w", agentIndex, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("spawn agent %d: %w", agentIndex, err)
	}

	h := &Handle{
		agentIndex: agentIndex,
		cmd:        cmd,
		stdin:      json.NewEncoder(stdin),
		limiter:    newOrderIntentLimiter(),
		logger:     logger.With("component", "agent", "agent_index", agentIndex),
		events:     make(chan Event, 64),
	}

	go h.readStdout(ctx, stdout)
	go h.readStderr(stderr)

	return h, nil
}

// Events returns the channel of output lines, ready signals, order
// intents, and exit notifications this agent produces.
func (h *Handle) Events() <-chan Event { return h.events }

func (h *Handle) trySend(e Event) {
	select {
	case h.events <- e:
	default:
		h.logger.Warn("agent event channel full, dropping event")
	}
}

func (h *Handle) readStdout(ctx context.Context, stdout io.Reader) {
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()
		var msg Inbound
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			h.trySend(Event{AgentIndex: h.agentIndex, Output: line})
			continue
		}
		h.handleInbound(ctx, msg, line)
	}
	h.trySend(Event{AgentIndex: h.agentIndex, Exited: true})
}

func (h *Handle) handleInbound(ctx context.Context, msg Inbound, raw string) {
	switch msg.Type {
	case "output":
		h.trySend(Event{AgentIndex: h.agentIndex, Output: msg.Line})
	case "ready":
		h.trySend(Event{AgentIndex: h.agentIndex, Ready: true})
	case "error":
		h.trySend(Event{AgentIndex: h.agentIndex, Output: "[error] " + msg.Message})
	case "place_order":
		if err := h.limiter.Wait(ctx); err != nil {
			return
		}
		intent, err := h.parseOrderIntent(msg)
		if err != nil {
			h.trySend(Event{AgentIndex: h.agentIndex, Output: "[error] " + err.Error()})
			return
		}
		h.trySend(Event{AgentIndex: h.agentIndex, Order: intent})
	default:
		h.trySend(Event{AgentIndex: h.agentIndex, Output: raw})
	}
}

func (h *Handle) parseOrderIntent(msg Inbound) (*OrderIntent, error) {
	qty, err := decimal.NewFromString(msg.Qty)
	if err != nil {
		return nil, fmt.Errorf("place_order: invalid qty %q: %w", msg.Qty, err)
	}

	var price *decimal.Decimal
	if msg.Price != "" {
		p, err := decimal.NewFromString(msg.Price)
		if err != nil {
			return nil, fmt.Errorf("place_order: invalid price %q: %w", msg.Price, err)
		}
		price = &p
	}

	clOrdID := msg.ClOrdID
	if clOrdID == "" {
		clOrdID = uuid.NewString()
	}

	return &OrderIntent{
		AgentIndex: h.agentIndex,
		Symbol:     msg.Symbol,
		Side:       wire.OrderSide(msg.Side),
		OrderType:  wire.OrderType(msg.OrderType),
		Qty:        qty,
		Price:      price,
		ClOrdID:    clOrdID,
	}, nil
}

func (h *Handle) readStderr(stderr io.Reader) {
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		h.trySend(Event{AgentIndex: h.agentIndex, Output: "[stderr] " + scanner.Text()})
	}
}

// Send writes one outbound message to the agent's stdin as a JSON line.
func (h *Handle) Send(msg Outbound) error {
	h.stdinMu.Lock()
	defer h.stdinMu.Unlock()
	if err := h.stdin.Encode(msg); err != nil {
		return fmt.Errorf("agent %d: write stdin: %w", h.agentIndex, err)
	}
	return nil
}

// Stop asks the agent to shut down gracefully and waits for the process to
// exit. The caller's context cancellation (passed to Spawn) kills it
// forcibly if it doesn't exit in time.
func (h *Handle) Stop() error {
	_ = h.Send(ShutdownMessage())
	return h.cmd.Wait()
}
