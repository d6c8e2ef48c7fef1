package types_test

import (
	"testing"

	"arby/internal/money"
	"arby/internal/types"
)

func level(price, amount string) types.Level {
	p, _ := money.ParsePrice(price)
	a, _ := money.ParseAmount(amount)
	return types.Level{Price: p, Amount: a}
}

func TestNewLadderSortsAscending(t *testing.T) {
	l := types.NewLadder([]types.Level{level("1.5", "1"), level("1.0", "1"), level("1.2", "1")})

	levels := l.Levels()
	for i := 1; i < len(levels); i++ {
		if !levels[i-1].Price.Less(levels[i].Price) {
			t.Fatalf("levels not strictly ascending at index %d", i)
		}
	}
}

func TestNewLadderDropsZeroAmountLevels(t *testing.T) {
	l := types.NewLadder([]types.Level{level("1.0", "0"), level("1.1", "1")})
	if l.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", l.Len())
	}
}

func TestNewLadderDuplicatePriceLastWins(t *testing.T) {
	p, _ := money.ParsePrice("1.0")
	a1, _ := money.ParseAmount("1")
	a2, _ := money.ParseAmount("2")
	l := types.NewLadder([]types.Level{{Price: p, Amount: a1}, {Price: p, Amount: a2}})

	if l.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", l.Len())
	}
	got, _ := l.Lowest()
	if !got.Amount.Equal(a2) {
		t.Errorf("amount = %s, want %s (later duplicate should win)", got.Amount, a2)
	}
}

func TestLowestAndHighest(t *testing.T) {
	l := types.NewLadder([]types.Level{level("1.0", "1"), level("2.0", "1"), level("1.5", "1")})

	low, ok := l.Lowest()
	if !ok || low.Price.String() != "1" {
		t.Errorf("Lowest() = %+v, ok=%v, want price 1", low, ok)
	}
	high, ok := l.Highest()
	if !ok || high.Price.String() != "2" {
		t.Errorf("Highest() = %+v, ok=%v, want price 2", high, ok)
	}
}

func TestEmptyLadderHasNoLowestOrHighest(t *testing.T) {
	l := types.NewLadder(nil)
	if _, ok := l.Lowest(); ok {
		t.Error("expected no Lowest() on empty ladder")
	}
	if _, ok := l.Highest(); ok {
		t.Error("expected no Highest() on empty ladder")
	}
}

func TestBestBidIsHighestBid(t *testing.T) {
	snap := types.OrderbookSnapshot{
		Exchange: types.Bitrue,
		Bids:     types.NewLadder([]types.Level{level("1.0", "1"), level("1.2", "1")}),
		Asks:     types.NewLadder([]types.Level{level("1.3", "1")}),
	}

	bid, ok := snap.BestBid()
	if !ok || bid.Price.String() != "1.2" {
		t.Errorf("BestBid() = %+v, ok=%v, want price 1.2", bid, ok)
	}

	ask, ok := snap.BestAsk()
	if !ok || ask.Price.String() != "1.3" {
		t.Errorf("BestAsk() = %+v, ok=%v, want price 1.3", ask, ok)
	}
}

func TestBestBidAbsentWhenSideEmpty(t *testing.T) {
	snap := types.OrderbookSnapshot{Exchange: types.LBank}
	if _, ok := snap.BestBid(); ok {
		t.Error("expected no BestBid on an empty book")
	}
	if _, ok := snap.BestAsk(); ok {
		t.Error("expected no BestAsk on an empty book")
	}
}

func TestExchangeString(t *testing.T) {
	cases := map[types.Exchange]string{
		types.Bitrue: "bitrue",
		types.LBank:  "lbank",
	}
	for e, want := range cases {
		if got := e.String(); got != want {
			t.Errorf("%v.String() = %s, want %s", e, got, want)
		}
	}
}
