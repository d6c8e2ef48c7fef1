// Package config loads process configuration from the environment,
// optionally populated by a ".env" file, matching the teacher's
// godotenv.Load-then-os.Getenv idiom in main.go.
package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"arby/internal/money"
)

// Config is the fully resolved startup configuration.
type Config struct {
	BitrueEnabled bool
	LBankEnabled  bool

	ArbFinderEnabled     bool
	CashoutEnabled       bool
	OrderExecutorEnabled bool

	CashoutAmountPerDay       money.Amount
	CashoutAmountPerIteration money.Amount
	CashoutMinPrice           money.Price

	BitrueAPIKey    string
	BitrueSecretKey string
	LBankAPIKey     string
	LBankSecretKey  string

	RedisAddr string
}

// Load reads ".env" if present (its absence is not an error, matching the
// teacher) and then resolves every recognized key from the process
// environment. Malformed values are a fatal startup error.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  no .env file found, using default values")
	}

	cfg := Config{
		BitrueEnabled:        envBool("BITRUE_ENABLED"),
		LBankEnabled:         envBool("LBANK_ENABLED"),
		ArbFinderEnabled:     envBool("ARB_FINDER_ENABLED"),
		CashoutEnabled:       envBool("CASHOUT_ENABLED"),
		OrderExecutorEnabled: envBool("ORDER_EXECUTOR_ENABLED"),

		BitrueAPIKey:    os.Getenv("BITRUE_API_KEY"),
		BitrueSecretKey: os.Getenv("BITRUE_SECRET_KEY"),
		LBankAPIKey:     os.Getenv("LBANK_API_KEY"),
		LBankSecretKey:  os.Getenv("LBANK_SECRET_KEY"),

		RedisAddr: envOr("REDIS_ADDR", "localhost:6379"),
	}

	if v := os.Getenv("CASHOUT_AMOUNT_PER_DAY"); v != "" {
		a, err := money.ParseAmount(v)
		if err != nil {
			log.Fatalf("config: CASHOUT_AMOUNT_PER_DAY: %v", err)
		}
		cfg.CashoutAmountPerDay = a
	}

	if v := os.Getenv("CASHOUT_AMOUNT_PER_ITERATION"); v != "" {
		a, err := money.ParseAmount(v)
		if err != nil {
			log.Fatalf("config: CASHOUT_AMOUNT_PER_ITERATION: %v", err)
		}
		cfg.CashoutAmountPerIteration = a
	}

	if v := os.Getenv("CASHOUT_MIN_PRICE"); v != "" {
		p, err := money.ParsePrice(v)
		if err != nil {
			log.Fatalf("config: CASHOUT_MIN_PRICE: %v", err)
		}
		cfg.CashoutMinPrice = p
	}

	if cfg.CashoutEnabled && cfg.CashoutAmountPerDay.IsZero() {
		log.Fatal(fmt.Errorf("config: CASHOUT_ENABLED requires CASHOUT_AMOUNT_PER_DAY"))
	}

	return cfg
}

func envBool(key string) bool {
	v := os.Getenv(key)
	switch v {
	case "", "false", "0":
		return false
	case "true", "1":
		return true
	default:
		log.Fatalf("config: %s: invalid boolean %q", key, v)
		return false
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
