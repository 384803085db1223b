package wire

import (
	"encoding/json"
	"log/slog"
)

const redactedPlaceholder = "***REDACTED***"

// RedactedToken wraps the private WebSocket token. It marshals to the real
// value on the wire (Kraken needs the actual token in every private request)
// but never reveals it through String, LogValue, or %v/%s formatting — so a
// logger or a debug dump of a request can never leak it, per spec.md's rule
// that auth tokens must be redacted from any diagnostic rendering of a
// request. Grounded on the `RedactedToken` field referenced throughout
// original_source/src/models/mod.rs (definition not retrieved; reconstructed
// from its call sites and spec.md's redaction requirement).
type RedactedToken string

// MarshalJSON emits the real token value — this is what goes over the wire.
func (t RedactedToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

// UnmarshalJSON accepts the real token value from incoming messages.
func (t *RedactedToken) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = RedactedToken(s)
	return nil
}

// String never returns the real token — used by fmt, logging, and any
// accidental %v/%s formatting of a value containing a token.
func (t RedactedToken) String() string {
	return redactedPlaceholder
}

// LogValue lets slog redact the token even when it is logged as a structured
// attribute rather than interpolated into a message string.
func (t RedactedToken) LogValue() slog.Value {
	return slog.StringValue(redactedPlaceholder)
}

// RedactRequest renders any wire request for diagnostic logging with its
// token field replaced by the fixed placeholder, regardless of whether the
// request's token field type is RedactedToken (plain string tokens, such as
// those embedded in raw outbound JSON the caller builds by hand, are
// redacted the same way before the line ever reaches a logger).
func RedactRequest(raw json.RawMessage) json.RawMessage {
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return raw
	}
	redactField(generic, "token")
	if params, ok := generic["params"].(map[string]any); ok {
		redactField(params, "token")
	}
	out, err := json.Marshal(generic)
	if err != nil {
		return raw
	}
	return out
}

func redactField(m map[string]any, key string) {
	if _, ok := m[key]; ok {
		m[key] = redactedPlaceholder
	}
}
