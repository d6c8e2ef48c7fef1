package types

import (
	"sort"

	"arby/internal/money"
)

// Level is a single (price, amount) entry in an order-book side.
type Level struct {
	Price  money.Price
	Amount money.Amount
}

// Ladder is one side of an order book, held in strictly ascending price
// order. It is built once (from a decoded depth frame) and never mutated —
// OrderbookSnapshot values are immutable after construction.
type Ladder struct {
	levels []Level
}

// NewLadder builds a Ladder from unordered levels, sorting ascending by
// price and dropping zero-amount levels (a quantity of 0 means "no longer
// present at this price", the venues' own convention for depth deltas —
// harmless to apply to snapshots too since a snapshot should never carry
// one). Levels are expected to already have unique prices; if a duplicate
// price appears (shouldn't, but frames are untrusted), the later one wins.
func NewLadder(levels []Level) Ladder {
	byPrice := make(map[uint64]Level, len(levels))
	for _, lvl := range levels {
		if lvl.Amount.IsZero() {
			continue
		}
		byPrice[lvl.Price.Units()] = lvl
	}

	out := make([]Level, 0, len(byPrice))
	for _, lvl := range byPrice {
		out = append(out, lvl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price.Less(out[j].Price) })
	return Ladder{levels: out}
}

// Levels returns the ladder's levels in ascending price order. The returned
// slice must not be mutated by the caller.
func (l Ladder) Levels() []Level { return l.levels }

// Len reports the number of price levels.
func (l Ladder) Len() int { return len(l.levels) }

// Lowest returns the level with the smallest price (the ask side's top of
// book).
func (l Ladder) Lowest() (Level, bool) {
	if len(l.levels) == 0 {
		return Level{}, false
	}
	return l.levels[0], true
}

// Highest returns the level with the largest price (the bid side's top of
// book).
func (l Ladder) Highest() (Level, bool) {
	if len(l.levels) == 0 {
		return Level{}, false
	}
	return l.levels[len(l.levels)-1], true
}

// OrderbookSnapshot is a venue-tagged, point-in-time depth book. Once
// constructed it is never mutated; it is safe to share across goroutines.
type OrderbookSnapshot struct {
	Exchange    Exchange
	TimestampMs uint64
	Asks        Ladder // ascending; best ask = Lowest()
	Bids        Ladder // ascending; best bid = Highest()
}

// Quote is a (venue, price, amount) triple describing one side of a book's
// top. Produced on demand from a snapshot; never stored.
type Quote struct {
	Exchange Exchange
	Price    money.Price
	Amount   money.Amount
}

// BestAsk returns the snapshot's top-of-book ask as a Quote, if the ask
// side has depth.
func (s OrderbookSnapshot) BestAsk() (Quote, bool) {
	lvl, ok := s.Asks.Lowest()
	if !ok {
		return Quote{}, false
	}
	return Quote{Exchange: s.Exchange, Price: lvl.Price, Amount: lvl.Amount}, true
}

// BestBid returns the snapshot's top-of-book bid as a Quote, if the bid
// side has depth.
func (s OrderbookSnapshot) BestBid() (Quote, bool) {
	lvl, ok := s.Bids.Highest()
	if !ok {
		return Quote{}, false
	}
	return Quote{Exchange: s.Exchange, Price: lvl.Price, Amount: lvl.Amount}, true
}
