// Package notify publishes fire-and-forget trade-execution telemetry to
// Redis for out-of-process dashboards and back-testers. It never gates
// order flow: an unreachable Redis disables notifications, it does not
// fail startup or submission.
package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// TradeExecutionChannel is the pub/sub channel submitted orders are
// published to.
const TradeExecutionChannel = "arby-trade-execution"

// TradeExecution is the payload published after every successful executor
// submission.
type TradeExecution struct {
	Exchange     string    `json:"exchange"`
	Direction    string    `json:"direction"`
	Amount       string    `json:"amount"`
	VenueOrderID string    `json:"venue_order_id"`
	Timestamp    time.Time `json:"timestamp"`
}

// Publisher wraps a Redis client. A nil *Publisher is not valid; use
// Connect, and check the returned error only to decide whether to log it —
// a non-nil error still yields a Publisher whose methods are safe no-ops.
type Publisher struct {
	client *redis.Client
}

// Connect dials addr and pings it once. If the ping fails, the returned
// Publisher is still usable but every publish call becomes a no-op —
// matching the source's "Redis unavailable disables notifications"
// contract rather than failing startup.
func Connect(addr string) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  failed to connect to redis at %s: %v (trade notifications disabled)", addr, err)
		return &Publisher{client: nil}, err
	}

	log.Printf("✅ connected to redis at %s - trade executions will be published", addr)
	return &Publisher{client: client}, nil
}

// Close shuts down the underlying connection. Safe to call on a disabled
// Publisher.
func (p *Publisher) Close() {
	if p == nil || p.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	p.client.Shutdown(ctx)
	p.client.Close()
}

// PublishTradeExecution publishes trade to the trade-execution channel.
// Failures (disabled publisher, marshal error, publish error) are logged
// and swallowed; this call never blocks order flow on Redis availability.
func (p *Publisher) PublishTradeExecution(ctx context.Context, trade TradeExecution) {
	if p == nil || p.client == nil {
		return
	}

	trade.Timestamp = time.Now()

	jsonData, err := json.Marshal(trade)
	if err != nil {
		log.Printf("❌ failed to marshal trade execution: %v", err)
		return
	}

	publishCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := p.client.Publish(publishCtx, TradeExecutionChannel, jsonData).Err(); err != nil {
		log.Printf("❌ failed to publish trade execution to redis: %v", err)
		return
	}

	log.Printf("📤 published trade execution: %s %s on %s", trade.Direction, trade.Amount, trade.Exchange)
}
