package wire

import "github.com/shopspring/decimal"

// PriceLevel is a single bid or ask level, as carried on the wire. The
// original Rust client (original_source/src/models/book.rs) used f64 here;
// this port uses decimal.Decimal throughout every price/qty field on the
// wire, per spec.md's rule that no binary float appears in an order or
// accounting contract.
type PriceLevel struct {
	Price decimal.Decimal `json:"price"`
	Qty   decimal.Decimal `json:"qty"`
}

// BookData is one symbol's book snapshot or delta.
type BookData struct {
	Symbol    string       `json:"symbol"`
	Bids      []PriceLevel `json:"bids"`
	Asks      []PriceLevel `json:"asks"`
	Checksum  uint32       `json:"checksum"`
	Timestamp string       `json:"timestamp,omitempty"`
}

// BookUpdateResponse is the book channel's event envelope. Type is
// "snapshot" (full replace) or "update" (incremental delta) — see
// internal/book for the reconstruction logic driven by this distinction.
type BookUpdateResponse struct {
	Channel string     `json:"channel"` // "book"
	Type    string     `json:"type"`
	Data    []BookData `json:"data"`
}
