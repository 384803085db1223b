// Package xerrors defines krakenmate's error-kind taxonomy.
//
// The original Rust client (rommeld/leeson) expresses failure categories as
// a closed thiserror enum (LeesonError). Go idiom favors wrapped sentinel
// errors over a closed enum switch, so this package keeps the same set of
// categories as a Kind and an *Error that wraps a cause, while still letting
// callers branch on category via errors.As and Kind().
package xerrors

import (
	"errors"
	"fmt"
)

// Kind categorizes a failure the way the original's LeesonError enum did,
// plus Auth and Risk for the categories spec.md adds beyond the wire layer.
type Kind int

const (
	Config Kind = iota
	WebSocket
	JSON
	MalformedMessage
	HTTP
	TLS
	IO
	Channel
	Auth
	Risk
)

func (k Kind) String() string {
	switch k {
	case Config:
		return "config"
	case WebSocket:
		return "websocket"
	case JSON:
		return "json"
	case MalformedMessage:
		return "malformed_message"
	case HTTP:
		return "http"
	case TLS:
		return "tls"
	case IO:
		return "io"
	case Channel:
		return "channel"
	case Auth:
		return "auth"
	case Risk:
		return "risk"
	default:
		return "unknown"
	}
}

// Error is a krakenmate error tagged with a Kind and, usually, a wrapped cause.
type Error struct {
	kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

func (e *Error) Unwrap() error { return e.cause }

// Kind returns the error's category.
func (e *Error) Kind() Kind { return e.kind }

// New creates a Kind-tagged error with no wrapped cause.
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Newf creates a Kind-tagged error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap tags cause with a Kind and a message.
func Wrap(kind Kind, cause error, msg string) *Error {
	return &Error{kind: kind, msg: msg, cause: cause}
}

// Wrapf tags cause with a Kind and a formatted message.
func Wrapf(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...), cause: cause}
}

// Is reports whether err is tagged with kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.kind == kind
	}
	return false
}
