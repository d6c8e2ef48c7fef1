// Package cashout implements the scheduled sell-down strategy: a target
// daily quantity is sold in small slices at Poisson-distributed intervals,
// each slice routed to whichever venue can currently absorb it at the best
// simulated execution price.
package cashout

import (
	"context"
	"log"
	"math"
	"math/rand"
	"time"

	"arby/internal/hub"
	"arby/internal/money"
	"arby/internal/types"
)

// OrderBus is the sink the processor emits PendingOrder values to.
type OrderBus chan<- types.PendingOrder

// Config parameterizes a Processor. AmountPerIteration defaults to 1% of
// AmountPerDay when zero. AverageInterval defaults to
// (24h * AmountPerIteration) / AmountPerDay when zero.
type Config struct {
	AmountPerDay       money.Amount
	AmountPerIteration money.Amount
	MinPrice           money.Price // zero means unset: no floor
	AverageInterval    time.Duration
}

// resolve fills in derived defaults, matching §4.5's "1% of per-day" and
// "one_day * amount_per_iteration / amount_per_day" rules.
func (c Config) resolve() Config {
	if c.AmountPerIteration.IsZero() {
		onePercent, _ := money.ParsePrice("0.0100")
		c.AmountPerIteration = c.AmountPerDay.MultiplyPrice(onePercent)
	}
	if c.AverageInterval == 0 && !c.AmountPerDay.IsZero() {
		frac := float64(c.AmountPerIteration.Units()) / float64(c.AmountPerDay.Units())
		c.AverageInterval = time.Duration(float64(24*time.Hour) * frac)
	}
	return c
}

// Processor holds the latest ask ladder observed per exchange. Owned
// exclusively by the goroutine running Run.
type Processor struct {
	cfg  Config
	asks map[types.Exchange]types.Ladder
	rng  *rand.Rand
}

// New returns a Processor configured per cfg, with derived defaults
// resolved.
func New(cfg Config) *Processor {
	return &Processor{
		cfg:  cfg.resolve(),
		asks: make(map[types.Exchange]types.Ladder),
		rng:  rand.New(rand.NewSource(1)),
	}
}

// Run consumes snapshots from r and fires sell decisions on a
// Poisson-distributed timer until ctx is cancelled or r's channel closes.
func (p *Processor) Run(ctx context.Context, r *hub.Receiver, bus OrderBus) {
	timer := time.NewTimer(p.nextInterval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-r.C:
			if !ok {
				return
			}
			p.asks[d.Snapshot.Exchange] = d.Snapshot.Asks
		case <-timer.C:
			p.tick(bus)
			timer.Reset(p.nextInterval())
		}
	}
}

// nextInterval draws one Poisson interarrival time: -ln(U) * mean, with U
// uniform on (0,1]. rand.Float64 returns [0,1); a zero draw is retried so
// the logarithm never sees zero (which would yield +Inf).
func (p *Processor) nextInterval() time.Duration {
	if p.cfg.AverageInterval <= 0 {
		return time.Second
	}
	u := p.rng.Float64()
	for u == 0 {
		u = p.rng.Float64()
	}
	seconds := -math.Log(u) * p.cfg.AverageInterval.Seconds()
	return time.Duration(seconds * float64(time.Second))
}

func (p *Processor) tick(bus OrderBus) {
	var bestExchange types.Exchange
	var bestReturn money.Amount
	found := false

	for _, e := range types.Exchanges {
		ladder, ok := p.asks[e]
		if !ok {
			continue
		}
		total, fillable := p.calcReturn(ladder)
		if !fillable {
			continue
		}
		if !found || total.Greater(bestReturn) {
			bestExchange, bestReturn, found = e, total, true
		}
	}

	if !found {
		log.Printf("cashout: no venue can fully fill %s this tick, skipping", p.cfg.AmountPerIteration)
		return
	}

	order := types.NewMarketOrder(bestExchange, types.Sell, p.cfg.AmountPerIteration, bestReturn)
	log.Printf("cashout: selling %s on %s for expected %s", p.cfg.AmountPerIteration, bestExchange, bestReturn)
	bus <- order
}

// calcReturn walks ladder ascending, filling up to AmountPerIteration and
// summing the proceeds, stopping before consuming any level priced below
// MinPrice. Returns (total, true) only if the full target amount was
// filled.
func (p *Processor) calcReturn(ladder types.Ladder) (money.Amount, bool) {
	remaining := p.cfg.AmountPerIteration
	total := money.NewAmountFromUnits(0)

	for _, lvl := range ladder.Levels() {
		if remaining.IsZero() {
			break
		}
		if !p.cfg.MinPrice.IsZero() && lvl.Price.Less(p.cfg.MinPrice) {
			break
		}
		take := remaining.Min(lvl.Amount)
		total = total.Add(take.MultiplyPrice(lvl.Price))
		remaining = remaining.Sub(take)
	}

	return total, remaining.IsZero()
}
