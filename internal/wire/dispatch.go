package wire

import (
	"encoding/json"

	"github.com/valyala/fastjson"

	"krakenmate/internal/xerrors"
)

// MessageKind classifies a raw inbound frame before it is fully unmarshalled.
type MessageKind int

const (
	KindUnknown MessageKind = iota
	KindRPCResponse
	KindChannelEvent
)

var peekParserPool fastjson.ParserPool

// Peek inspects a raw frame's routing fields (method / channel / type)
// without paying for a full typed unmarshal, using a pooled fastjson parser.
// This mirrors the two-step dispatch in
// original_source/src/websocket/handler.rs's dispatch_message: peek first,
// then unmarshal into the concrete type the peek identified.
func Peek(raw []byte) (kind MessageKind, method string, channel string, msgType string, err error) {
	p := peekParserPool.Get()
	defer peekParserPool.Put(p)

	v, parseErr := p.ParseBytes(raw)
	if parseErr != nil {
		return KindUnknown, "", "", "", xerrors.Wrap(xerrors.JSON, parseErr, "peek-parse inbound frame")
	}

	if m := v.GetStringBytes("method"); m != nil {
		return KindRPCResponse, string(m), "", "", nil
	}
	if c := v.GetStringBytes("channel"); c != nil {
		t := v.GetStringBytes("type")
		return KindChannelEvent, "", string(c), string(t), nil
	}
	return KindUnknown, "", "", "", nil
}

// Unmarshal is a thin wrapper so call sites don't import encoding/json
// directly alongside wire — keeps the full (non-peek) decode path in one
// place in case it ever needs a faster decoder swapped in.
func Unmarshal(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return xerrors.Wrap(xerrors.JSON, err, "decode inbound frame")
	}
	return nil
}
