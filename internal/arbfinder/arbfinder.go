// Package arbfinder implements the cross-exchange arbitrage strategy: it
// watches every venue's top of book and, the instant one venue's ask drops
// below another venue's bid (or vice versa), emits a pair of market orders
// to capture the crossing.
package arbfinder

import (
	"context"
	"log"

	"arby/internal/hub"
	"arby/internal/types"
)

// OrderBus is the sink the processor emits PendingOrder values to. Sell leg
// is always emitted before the buy leg for a given opportunity — load
// bearing for reproducibility, not just style.
type OrderBus chan<- types.PendingOrder

// Finder holds the latest snapshot observed per exchange. It is owned
// exclusively by the goroutine running Run; no external synchronization is
// needed.
type Finder struct {
	latest map[types.Exchange]types.OrderbookSnapshot
}

// New returns an empty Finder.
func New() *Finder {
	return &Finder{latest: make(map[types.Exchange]types.OrderbookSnapshot)}
}

// Run consumes snapshots from r until ctx is cancelled or the receiver
// channel closes, updating state and emitting opportunities to bus. A
// closed bus is fatal: the caller's panic-abort policy takes over.
func (f *Finder) Run(ctx context.Context, r *hub.Receiver, bus OrderBus) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-r.C:
			if !ok {
				return
			}
			f.onSnapshot(d.Snapshot, bus)
		}
	}
}

func (f *Finder) onSnapshot(u types.OrderbookSnapshot, bus OrderBus) {
	f.latest[u.Exchange] = u

	bestAsk, haveAsk := u.BestAsk()
	bestBid, haveBid := u.BestBid()
	if !haveAsk || !haveBid {
		return
	}

	for other, snap := range f.latest {
		if other == u.Exchange {
			continue
		}
		otherBid, ok := snap.BestBid()
		if ok && otherBid.Price.Greater(bestAsk.Price) {
			f.emit(types.ArbOpportunity{Buy: bestAsk, Sell: otherBid}, bus)
		}
		otherAsk, ok := snap.BestAsk()
		if ok && otherAsk.Price.Less(bestBid.Price) {
			f.emit(types.ArbOpportunity{Buy: otherAsk, Sell: bestBid}, bus)
		}
	}
}

func (f *Finder) emit(opp types.ArbOpportunity, bus OrderBus) {
	sell := types.NewMarketOrder(opp.Sell.Exchange, types.Sell, opp.Sell.Amount, opp.Sell.Amount.MultiplyPrice(opp.Sell.Price))
	buy := types.NewMarketOrder(opp.Buy.Exchange, types.Buy, opp.Buy.Amount, opp.Buy.Amount.MultiplyPrice(opp.Buy.Price))

	log.Printf("arbfinder: crossing found buy=%s@%s sell=%s@%s", opp.Buy.Amount, opp.Buy.Price, opp.Sell.Amount, opp.Sell.Price)

	bus <- sell
	bus <- buy
}
