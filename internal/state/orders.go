package state

import (
	"github.com/shopspring/decimal"

	"krakenmate/internal/wire"
)

// OrderView is the aggregator's projection of one order's lifecycle, built
// from add_order responses and executions-channel updates.
type OrderView struct {
	OrderID    string
	ClOrdID    string
	Symbol     string
	Side       wire.OrderSide
	OrderType  wire.OrderType
	OrderQty   decimal.Decimal
	LeavesQty  decimal.Decimal
	CumQty     decimal.Decimal
	LimitPrice *decimal.Decimal
	AvgPrice   *decimal.Decimal
	Status     string
	Timestamp  string
}

const (
	maxOpenOrders     = 200
	maxExecutedOrders = 100
)

// openOrderBook holds live orders, oldest-evicted once maxOpenOrders is
// exceeded (an order that's still open when evicted simply falls off the
// view — it is still live at the exchange, only no longer displayed).
type openOrderBook struct {
	order []OrderView
	index map[string]int // orderID -> position in order
}

func newOpenOrderBook() *openOrderBook {
	return &openOrderBook{index: make(map[string]int)}
}

func (b *openOrderBook) upsert(v OrderView) {
	if pos, ok := b.index[v.OrderID]; ok {
		b.order[pos] = v
		return
	}
	b.order = append(b.order, v)
	b.index[v.OrderID] = len(b.order) - 1
	if len(b.order) > maxOpenOrders {
		b.removeAt(0)
	}
}

func (b *openOrderBook) remove(orderID string) (OrderView, bool) {
	pos, ok := b.index[orderID]
	if !ok {
		return OrderView{}, false
	}
	v := b.order[pos]
	b.removeAt(pos)
	return v, true
}

func (b *openOrderBook) removeAt(pos int) {
	removedID := b.order[pos].OrderID
	b.order = append(b.order[:pos], b.order[pos+1:]...)
	delete(b.index, removedID)
	for id, p := range b.index {
		if p > pos {
			b.index[id] = p - 1
		}
	}
}

func (b *openOrderBook) snapshot() []OrderView {
	out := make([]OrderView, len(b.order))
	copy(out, b.order)
	return out
}

// isTerminal reports whether an order_status value ends that order's open
// lifecycle, matching Kraken's executions-channel status vocabulary.
func isTerminal(status string) bool {
	switch status {
	case "filled", "canceled", "expired", "rejected":
		return true
	default:
		return false
	}
}
