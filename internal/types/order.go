package types

import "arby/internal/money"

// Direction is the side of a PendingOrder.
type Direction int

const (
	Buy Direction = iota
	Sell
)

func (d Direction) String() string {
	if d == Buy {
		return "buy"
	}
	return "sell"
}

// OrderKind distinguishes a PendingOrder's tagged-sum variant.
type OrderKind int

const (
	KindMarket OrderKind = iota
	KindLimit
)

// PendingOrder is the tagged sum the processors emit and the executor
// consumes: a Market order carries only amount and an advisory expected
// return; a Limit order additionally carries a price. Amount is always
// > 0; a Limit order's Price is always > 0. ExpectedReturn is advisory
// only and is never re-validated downstream.
type PendingOrder struct {
	Kind           OrderKind
	Exchange       Exchange
	Direction      Direction
	Amount         money.Amount
	Price          money.Price // zero for Market orders
	ExpectedReturn money.Amount
}

// NewMarketOrder builds a Market PendingOrder.
func NewMarketOrder(exchange Exchange, direction Direction, amount, expectedReturn money.Amount) PendingOrder {
	return PendingOrder{
		Kind:           KindMarket,
		Exchange:       exchange,
		Direction:      direction,
		Amount:         amount,
		ExpectedReturn: expectedReturn,
	}
}

// NewLimitOrder builds a Limit PendingOrder.
func NewLimitOrder(exchange Exchange, direction Direction, amount money.Amount, price money.Price) PendingOrder {
	return PendingOrder{
		Kind:      KindLimit,
		Exchange:  exchange,
		Direction: direction,
		Amount:    amount,
		Price:     price,
	}
}

// ArbOpportunity is an ephemeral pairing of a buy quote on one venue and a
// sell quote on another, with buy.Price < sell.Price and
// buy.Exchange != sell.Exchange. Created, turned into two PendingOrder
// values, then discarded.
type ArbOpportunity struct {
	Buy  Quote
	Sell Quote
}
