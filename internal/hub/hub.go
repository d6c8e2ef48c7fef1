// Package hub implements the in-process fan-out bus that carries
// OrderbookSnapshot values from exchange subscribers to any number of
// downstream processors. There is no ecosystem library in the retrieval
// pack for bounded in-process broadcast with lag-dropping — go-libp2p-pubsub
// and similar are network gossip meant for distributed peers, not
// same-process fan-out — so this is hand-rolled over channels, the way the
// teacher hand-rolls its own orderbook maintenance rather than reaching for
// a framework.
package hub

import (
	"sync"

	"arby/internal/types"
)

// subscriberCapacity bounds each subscriber's private channel. A consumer
// that falls this far behind starts losing its oldest queued items.
const subscriberCapacity = 1024

// Delivery is one item handed to a subscriber: the snapshot plus how many
// prior snapshots were dropped to make room for it because the subscriber
// fell behind.
type Delivery struct {
	Snapshot types.OrderbookSnapshot
	Dropped  int
}

// Receiver is a subscriber's private view of the bus. Only the goroutine
// that called Subscribe should read from C.
type Receiver struct {
	C <-chan Delivery
}

// Hub is a fan-out broadcast bus for OrderbookSnapshot values. The zero
// value is not usable; construct with New.
type Hub struct {
	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

type subscriber struct {
	c       chan Delivery
	dropped int
}

// New returns an empty Hub ready to accept subscribers and publications.
func New() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// Subscribe registers a new receiver that observes every snapshot published
// after this call returns. Safe to call concurrently with Publish and with
// other Subscribe calls.
func (h *Hub) Subscribe() *Receiver {
	sub := &subscriber{c: make(chan Delivery, subscriberCapacity)}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	return &Receiver{C: sub.c}
}

// Unsubscribe removes a receiver. After this call its channel receives no
// further deliveries. Calling it again for the same Receiver is a no-op.
func (h *Hub) Unsubscribe(r *Receiver) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		if sub.c == r.C {
			delete(h.subs, sub)
			return
		}
	}
}

// Publish delivers a snapshot to every current subscriber. A subscriber
// whose buffer is full has its oldest queued item dropped to make room,
// and the Dropped count of the delivery queued in its place records the
// drops made since the previous delivery was queued. Publish never blocks.
func (h *Hub) Publish(snap types.OrderbookSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		d := Delivery{Snapshot: snap}
		select {
		case sub.c <- d:
		default:
			select {
			case <-sub.c:
				sub.dropped++
			default:
			}
			d.Dropped = sub.dropped
			select {
			case sub.c <- d:
				sub.dropped = 0
			default:
				sub.dropped++
			}
		}
	}
}

// Subscribers reports the current subscriber count. Intended for tests and
// diagnostics.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
