package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"arby/internal/arbfinder"
	"arby/internal/cashout"
	"arby/internal/config"
	"arby/internal/executor"
	"arby/internal/exchanges/bitrue"
	"arby/internal/exchanges/lbank"
	"arby/internal/hub"
	"arby/internal/notify"
	"arby/internal/types"
)

// bitruePair and lbankPair name the single pair this build trades,
// expressed in each venue's own notation.
const (
	bitruePair = "chatusdt"
	lbankPair  = "chat_usdt"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	h := hub.New()
	orderBus := make(chan types.PendingOrder, 1024)

	if cfg.BitrueEnabled {
		sub := bitrue.NewSubscriber(bitrue.DefaultURL, bitruePair)
		spawn(&wg, ctx, func(ctx context.Context) { sub.Run(ctx, h) })
		log.Println("📡 bitrue subscriber started")
	}

	if cfg.LBankEnabled {
		sub := lbank.NewSubscriber(lbank.DefaultURL, lbankPair)
		spawn(&wg, ctx, func(ctx context.Context) { sub.Run(ctx, h) })
		log.Println("📡 lbank subscriber started")
	}

	if cfg.ArbFinderEnabled {
		r := h.Subscribe()
		finder := arbfinder.New()
		spawn(&wg, ctx, func(ctx context.Context) { finder.Run(ctx, r, orderBus) })
		log.Println("🔍 arb-finder started")
	}

	if cfg.CashoutEnabled {
		r := h.Subscribe()
		proc := cashout.New(cashout.Config{
			AmountPerDay:       cfg.CashoutAmountPerDay,
			AmountPerIteration: cfg.CashoutAmountPerIteration,
			MinPrice:           cfg.CashoutMinPrice,
		})
		spawn(&wg, ctx, func(ctx context.Context) { proc.Run(ctx, r, orderBus) })
		log.Println("💸 cashout processor started")
	}

	if cfg.OrderExecutorEnabled {
		publisher, err := notify.Connect(cfg.RedisAddr)
		if err != nil {
			log.Println("⚠️  redis unavailable - trade notifications disabled")
		}
		defer publisher.Close()

		builder := executor.NewBuilder().WithNotifier(publisher)
		if cfg.BitrueEnabled {
			builder = builder.With(types.Bitrue, bitrue.NewClient(bitrue.DefaultRESTBase, cfg.BitrueAPIKey, cfg.BitrueSecretKey, bitruePair))
		}
		if cfg.LBankEnabled {
			builder = builder.With(types.LBank, lbank.NewClient(lbank.DefaultRESTBase, cfg.LBankAPIKey, cfg.LBankSecretKey, lbankPair))
		}
		exec := builder.Build()
		spawn(&wg, ctx, func(ctx context.Context) { exec.Run(ctx, orderBus) })
		log.Println("🚀 order-executor started")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("⏹️  shutdown signal received, stopping")
	cancel()
	wg.Wait()
	log.Println("✅ shutdown complete")
}

// spawn runs fn in its own goroutine under wg, installing the service's
// panic policy: an uncaught panic anywhere is fatal to the whole process,
// not just the one goroutine.
func spawn(wg *sync.WaitGroup, ctx context.Context, fn func(ctx context.Context)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("fatal: panic in background task: %v", r)
				os.Exit(2)
			}
		}()
		fn(ctx)
	}()
}
