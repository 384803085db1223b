package auth

import (
	"encoding/base64"
	"testing"
)

func TestNextNonceIsStrictlyMonotonic(t *testing.T) {
	prev := NextNonce()
	for i := 0; i < 1000; i++ {
		next := NextNonce()
		if next <= prev {
			t.Fatalf("nonce not strictly increasing: prev=%d next=%d", prev, next)
		}
		prev = next
	}
}

func TestSignProducesDeterministicOutput(t *testing.T) {
	secret := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

	sig1, err := Sign(secret, "/0/private/GetWebSocketsToken", "1234567890", "nonce=1234567890")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	sig2, err := Sign(secret, "/0/private/GetWebSocketsToken", "1234567890", "nonce=1234567890")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if sig1 != sig2 {
		t.Fatalf("sign is not deterministic: %q != %q", sig1, sig2)
	}

	sig3, err := Sign(secret, "/0/private/GetWebSocketsToken", "9999999999", "nonce=9999999999")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if sig1 == sig3 {
		t.Fatalf("sign should differ for different nonces")
	}
}

func TestSignRejectsInvalidBase64Secret(t *testing.T) {
	_, err := Sign("not-valid-base64!!!", "/0/private/GetWebSocketsToken", "1", "nonce=1")
	if err == nil {
		t.Fatal("expected error for invalid base64 secret")
	}
}
