package session

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNextBackoffDoublesAndCaps(t *testing.T) {
	cur := initialBackoff
	for i := 0; i < 10; i++ {
		cur = nextBackoff(cur)
	}
	if cur != maxBackoff {
		t.Fatalf("backoff should cap at %v, got %v", maxBackoff, cur)
	}
}

func TestDispatchHeartbeatProducesEvent(t *testing.T) {
	m := NewManager("", "", nil, testLogger())
	m.dispatch([]byte(`{"channel":"heartbeat"}`))
	select {
	case ev := <-m.Events():
		if ev.Kind != EventHeartbeat {
			t.Fatalf("kind = %v, want EventHeartbeat", ev.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a heartbeat event")
	}
}

func TestDispatchTradeSnapshotIsIgnored(t *testing.T) {
	m := NewManager("", "", nil, testLogger())
	m.dispatch([]byte(`{"channel":"trade","type":"snapshot","data":[]}`))
	select {
	case ev := <-m.Events():
		t.Fatalf("expected no event for a trade snapshot, got %v", ev.Kind)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDispatchRPCResponsePassesThroughResponses(t *testing.T) {
	m := NewManager("", "", nil, testLogger())
	raw := []byte(`{"method":"add_order","success":true,"result":{"order_id":"O1"}}`)
	m.dispatch(raw)
	select {
	case resp := <-m.Responses():
		if string(resp) != string(raw) {
			t.Fatalf("response = %s, want %s", resp, raw)
		}
	case <-time.After(time.Second):
		t.Fatal("expected an rpc response")
	}
}

func TestDispatchPongIsDropped(t *testing.T) {
	m := NewManager("", "", nil, testLogger())
	m.dispatch([]byte(`{"method":"pong","req_id":1}`))
	select {
	case <-m.Events():
		t.Fatal("pong should not produce an event")
	case <-m.Responses():
		t.Fatal("pong should not produce a response")
	case <-time.After(100 * time.Millisecond):
	}
}
