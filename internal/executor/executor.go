// Package executor implements the order-dispatch multiplexer: it receives
// PendingOrder values from the strategy processors, routes each to its
// venue's REST client, and reports the submission result.
package executor

import (
	"context"
	"fmt"
	"log"

	"arby/internal/notify"
	"arby/internal/types"
)

// Client is what a venue's REST client must implement to be registered
// with an Executor.
type Client interface {
	Submit(ctx context.Context, order types.PendingOrder) (venueOrderID string, err error)
}

// Executor routes orders to per-venue clients. Built once via Builder and
// then run with Run; clients is immutable after Build.
type Executor struct {
	clients  map[types.Exchange]Client
	notifier *notify.Publisher
}

// Builder accumulates venue clients before producing an Executor, mirroring
// the register-then-build idiom the source's order-submission setup
// already uses.
type Builder struct {
	clients  map[types.Exchange]Client
	notifier *notify.Publisher
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{clients: make(map[types.Exchange]Client)}
}

// With registers the client responsible for submitting orders on exchange.
// A later call for the same exchange overwrites an earlier one.
func (b *Builder) With(exchange types.Exchange, client Client) *Builder {
	b.clients[exchange] = client
	return b
}

// WithNotifier attaches the Redis publisher used for fire-and-forget
// trade-execution notifications. Optional: a nil notifier means submissions
// are never published.
func (b *Builder) WithNotifier(n *notify.Publisher) *Builder {
	b.notifier = n
	return b
}

// Build finalizes the Executor.
func (b *Builder) Build() *Executor {
	return &Executor{clients: b.clients, notifier: b.notifier}
}

// OrderBus is the source the executor reads pending orders from.
type OrderBus <-chan types.PendingOrder

// Run processes orders off bus sequentially until ctx is cancelled or bus
// closes. Each order is routed, submitted, logged, and, if the submission
// succeeded, (best-effort) published to the notifier; none of this is
// retried.
func (e *Executor) Run(ctx context.Context, bus OrderBus) {
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-bus:
			if !ok {
				return
			}
			e.handle(ctx, order)
		}
	}
}

func (e *Executor) handle(ctx context.Context, order types.PendingOrder) {
	client, ok := e.clients[order.Exchange]
	if !ok {
		log.Printf("executor: no client registered for %s, dropping order", order.Exchange)
		return
	}

	venueOrderID, err := client.Submit(ctx, order)
	if err != nil {
		log.Printf("executor: %s", fmt.Errorf("submitting %s %s on %s: %w", order.Direction, order.Amount, order.Exchange, err))
		return
	}

	log.Printf("executor: submitted %s %s on %s, venue order id %s", order.Direction, order.Amount, order.Exchange, venueOrderID)

	if e.notifier != nil {
		e.notifier.PublishTradeExecution(ctx, notify.TradeExecution{
			Exchange:     order.Exchange.String(),
			Direction:    order.Direction.String(),
			Amount:       order.Amount.String(),
			VenueOrderID: venueOrderID,
		})
	}
}
