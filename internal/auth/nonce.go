// Package auth implements Kraken's REST/WebSocket authentication: monotonic
// nonce generation, HMAC-SHA512 request signing, and the GetWebSocketsToken
// bootstrap call that exchanges an API key/secret pair for the short-lived
// token private WebSocket subscriptions require. Grounded directly on
// original_source/src/auth.rs, restructured into the teacher's struct +
// resty client idiom (internal/exchange/auth.go).
package auth

import (
	"sync/atomic"
	"time"
)

// lastNonce holds the last-issued nonce for monotonic generation.
var lastNonce atomic.Uint64

// NextNonce returns a strictly increasing nonce: max(now_ns, prev+1). Kraken
// requires every signed request to carry a nonce greater than the last one
// it saw from this key, so a compare-and-swap loop guarantees monotonicity
// even when two goroutines race to request a nonce concurrently. Mirrors
// original_source/src/auth.rs's next_nonce() exactly.
func NextNonce() uint64 {
	for {
		prev := lastNonce.Load()
		now := uint64(time.Now().UnixNano())
		next := now
		if prev+1 > next {
			next = prev + 1
		}
		if lastNonce.CompareAndSwap(prev, next) {
			return next
		}
	}
}
