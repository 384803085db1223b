// Package book reconstructs Kraken's L2 order books from the snapshot+delta
// stream on the book channel: snapshots replace the whole side, deltas
// find-or-insert/remove individual price levels while preserving sort order,
// and a CRC32 checksum verifies the reconstruction after every delta.
//
// Grounded on original_source/src/tui/event.rs's Message::Book handling (the
// snapshot/delta/resync state machine) and internal/market/book.go's
// concurrency shape (an RWMutex-guarded struct with narrow accessor methods).
package book

import (
	"hash/crc32"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"krakenmate/internal/wire"
	"krakenmate/internal/xerrors"
)

const (
	// MaxDepth bounds how many levels per side are retained after a
	// snapshot or delta apply (spec.md C3's bounded depth D).
	MaxDepth = 25

	// checksumDepth is the number of top-of-book levels per side Kraken's
	// documented checksum algorithm folds in.
	checksumDepth = 10

	// MaxChecksumFailures and ResyncCooldown bound how aggressively a book
	// in a bad state re-requests a snapshot: at most one resync request is
	// allowed every ResyncCooldown, and only while at most MaxChecksumFailures
	// consecutive failures have occurred — beyond that the book is simply marked stale and
	// left for the operator to notice, rather than hammering the feed.
	MaxChecksumFailures = 3
	ResyncCooldown      = 5 * time.Second

	// MaxHistory bounds the (timestamp, best bid, best ask, spread) ring
	// kept per symbol for spread-history display.
	MaxHistory = 512
)

// HistoryEntry is one point in a symbol's best-bid/best-ask/spread history.
type HistoryEntry struct {
	Timestamp time.Time
	BestBid   wire.PriceLevel
	BestAsk   wire.PriceLevel
	Spread    string
}

// State is the reconstructed order book for a single symbol.
type State struct {
	mu sync.RWMutex

	symbol           string
	bids             []wire.PriceLevel // sorted descending by price
	asks             []wire.PriceLevel // sorted ascending by price
	checksum         uint32
	checksumFailures int
	lastResyncAt     *time.Time
	stale            bool
	lastUpdate       time.Time
	history          []HistoryEntry
}

// NewState creates an empty book for a symbol, marked stale until the first
// snapshot arrives.
func NewState(symbol string) *State {
	return &State{symbol: symbol, stale: true}
}

// Snapshot returns a defensive copy of the current bid/ask levels.
func (s *State) Snapshot() (bids, asks []wire.PriceLevel) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]wire.PriceLevel(nil), s.bids...), append([]wire.PriceLevel(nil), s.asks...)
}

// BestBidAsk returns the top of book, or ok=false if either side is empty.
func (s *State) BestBidAsk() (bid, ask wire.PriceLevel, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.bids) == 0 || len(s.asks) == 0 {
		return wire.PriceLevel{}, wire.PriceLevel{}, false
	}
	return s.bids[0], s.asks[0], true
}

// IsStale reports whether the book has never received a snapshot, or the
// checksum has failed more than MaxChecksumFailures consecutive times.
func (s *State) IsStale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stale
}

// History returns a defensive copy of the spread history ring.
func (s *State) History() []HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]HistoryEntry(nil), s.history...)
}

// Manager owns every symbol's book state and enforces the cross-symbol
// resync-request dedup: at most one ResyncBook action is ever emitted per
// ApplyBatch call, no matter how many symbols in that batch failed their
// checksum ("first offender wins", matching the original's resync_action
// being a single Option set at most once per update() call).
type Manager struct {
	mu     sync.Mutex
	books  map[string]*State
}

// NewManager creates an empty book manager.
func NewManager() *Manager {
	return &Manager{books: make(map[string]*State)}
}

// Get returns (creating if necessary) the book state for a symbol.
func (m *Manager) Get(symbol string) *State {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.books[symbol]
	if !ok {
		s = NewState(symbol)
		m.books[symbol] = s
	}
	return s
}

// Symbols returns every symbol currently tracked.
func (m *Manager) Symbols() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.books))
	for sym := range m.books {
		out = append(out, sym)
	}
	return out
}

// ApplyBatch applies every BookData entry in one inbound book-channel
// message, in order, and returns at most one ResyncBook action — the first
// symbol in the batch whose checksum verification failed and which is
// eligible for a resync request under the cooldown/failure-count policy.
func (m *Manager) ApplyBatch(msg wire.BookUpdateResponse) []Action {
	isSnapshot := msg.Type == "snapshot"
	var actions []Action

	for _, data := range msg.Data {
		state := m.Get(data.Symbol)
		resync := state.apply(data, isSnapshot)
		if resync && len(actions) == 0 {
			actions = append(actions, Action{Symbol: data.Symbol})
		}
	}
	return actions
}

// Action is emitted when a book needs an out-of-band resync (a fresh
// subscribe/unsubscribe cycle for that symbol's book channel).
type Action struct {
	Symbol string
}

// apply applies one symbol's snapshot or delta and returns whether this
// apply is eligible to request a resync (checksum failed, under the
// consecutive-failure cap, and the cooldown since the last request has
// elapsed).
func (s *State) apply(data wire.BookData, isSnapshot bool) (resyncEligible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if isSnapshot {
		s.bids = sortedCopy(data.Bids, true)
		s.asks = sortedCopy(data.Asks, false)
		truncate(&s.bids, MaxDepth)
		truncate(&s.asks, MaxDepth)
		s.checksumFailures = 0
		s.lastResyncAt = nil
		s.stale = false
		s.checksum = data.Checksum
		s.lastUpdate = time.Now()
		s.pushHistory()
		return false
	}

	for _, lvl := range data.Bids {
		applyDelta(&s.bids, lvl, true)
	}
	for _, lvl := range data.Asks {
		applyDelta(&s.asks, lvl, false)
	}
	truncate(&s.bids, MaxDepth)
	truncate(&s.asks, MaxDepth)
	s.lastUpdate = time.Now()
	s.pushHistory()

	computed := Checksum(s.asks, s.bids)
	if computed == data.Checksum {
		s.checksumFailures = 0
		s.checksum = data.Checksum
		return false
	}

	s.checksumFailures++
	s.checksum = data.Checksum
	if s.checksumFailures > MaxChecksumFailures {
		s.stale = true
		return false
	}

	cooldownElapsed := s.lastResyncAt == nil || time.Since(*s.lastResyncAt) >= ResyncCooldown
	if !cooldownElapsed {
		return false
	}
	now := time.Now()
	s.lastResyncAt = &now
	return true
}

func (s *State) pushHistory() {
	if len(s.bids) == 0 || len(s.asks) == 0 {
		return
	}
	bid, ask := s.bids[0], s.asks[0]
	spread := ask.Price.Sub(bid.Price).String()
	s.history = append(s.history, HistoryEntry{
		Timestamp: s.lastUpdate,
		BestBid:   bid,
		BestAsk:   ask,
		Spread:    spread,
	})
	if len(s.history) > MaxHistory {
		s.history = s.history[len(s.history)-MaxHistory:]
	}
}

// sortedCopy returns a defensive copy of levels sorted bid-descending or
// ask-ascending, as snapshots are expected to already arrive sorted but a
// defensive sort keeps the invariant even if the feed doesn't guarantee it.
func sortedCopy(levels []wire.PriceLevel, descending bool) []wire.PriceLevel {
	out := append([]wire.PriceLevel(nil), levels...)
	insertionSort(out, descending)
	return out
}

func insertionSort(levels []wire.PriceLevel, descending bool) {
	for i := 1; i < len(levels); i++ {
		j := i
		for j > 0 && less(levels[j], levels[j-1], descending) {
			levels[j], levels[j-1] = levels[j-1], levels[j]
			j--
		}
	}
}

func less(a, b wire.PriceLevel, descending bool) bool {
	if descending {
		return a.Price.GreaterThan(b.Price)
	}
	return a.Price.LessThan(b.Price)
}

func truncate(levels *[]wire.PriceLevel, depth int) {
	if len(*levels) > depth {
		*levels = (*levels)[:depth]
	}
}

// applyDelta finds lvl's price in levels (binary search) and either removes
// it (qty == 0), overwrites its qty in place, or inserts a new level at the
// position that preserves bid-descending / ask-ascending order. Mirrors
// original_source/src/tui/event.rs's delta-application branch.
func applyDelta(levels *[]wire.PriceLevel, lvl wire.PriceLevel, descending bool) {
	ls := *levels
	idx, found := binarySearch(ls, lvl.Price, descending)

	if lvl.Qty.IsZero() {
		if found {
			*levels = append(ls[:idx], ls[idx+1:]...)
		}
		return
	}

	if found {
		ls[idx] = lvl
		return
	}

	ls = append(ls, wire.PriceLevel{})
	copy(ls[idx+1:], ls[idx:])
	ls[idx] = lvl
	*levels = ls
}

// binarySearch finds the index of price within levels (descending or
// ascending order), or the insertion point that preserves order if absent.
func binarySearch(levels []wire.PriceLevel, price decimal.Decimal, descending bool) (int, bool) {
	lo, hi := 0, len(levels)
	for lo < hi {
		mid := (lo + hi) / 2
		cmp := compare(levels[mid].Price, price, descending)
		switch {
		case cmp == 0:
			return mid, true
		case cmp < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return lo, false
}

// compare orders a relative to b the way the book's sort order demands:
// for descending (bids) a larger price sorts first, for ascending (asks) a
// smaller price sorts first.
func compare(a, b decimal.Decimal, descending bool) int {
	cmp := a.Cmp(b)
	if descending {
		return -cmp
	}
	return cmp
}

// Checksum computes Kraken's book checksum: the top checksumDepth ask levels
// then the top checksumDepth bid levels, each price and quantity rendered
// with its decimal point and any leading zero stripped and concatenated,
// hashed with CRC32 (IEEE polynomial). Independently implemented from
// Kraken's public API documentation — the original_source/ filtered file set
// did not include its calculate_checksum definition.
func Checksum(asks, bids []wire.PriceLevel) uint32 {
	var b strings.Builder
	n := checksumDepth
	for i := 0; i < n && i < len(asks); i++ {
		b.WriteString(stripDecimal(asks[i].Price))
		b.WriteString(stripDecimal(asks[i].Qty))
	}
	for i := 0; i < n && i < len(bids); i++ {
		b.WriteString(stripDecimal(bids[i].Price))
		b.WriteString(stripDecimal(bids[i].Qty))
	}
	return crc32.ChecksumIEEE([]byte(b.String()))
}

// stripDecimal renders d as a plain decimal string with no sign, no decimal
// point, and no leading zeros, per Kraken's checksum algorithm.
func stripDecimal(d decimal.Decimal) string {
	s := d.Abs().String()
	s = strings.Replace(s, ".", "", 1)
	s = strings.TrimLeft(s, "0")
	if s == "" {
		s = "0"
	}
	return s
}

// ErrUnknownSymbol is returned when a caller asks for a symbol with no book.
var ErrUnknownSymbol = xerrors.New(xerrors.MalformedMessage, "book: unknown symbol")
