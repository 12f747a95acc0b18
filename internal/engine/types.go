// Package engine implements the event-driven backtesting pipeline: the
// simulated broker, portfolio ledger, and the per-bar run loop that ties
// a Strategy to a BarSource.
package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/bar"
)

// Order is a single instruction submitted by a strategy, pending against
// the broker's matching engine until it fills, is cancelled, or is
// rejected.
type Order struct {
	ID        string
	Symbol    string
	Side      bar.Side
	Type      bar.OrderType
	Action    bar.OrderAction
	Quantity  decimal.Decimal
	Price     decimal.Decimal // limit/stop trigger price; zero for market orders
	StopPrice decimal.Decimal // trigger for stop-limit orders
	Tag       string
	Status    bar.OrderStatus
	CreatedAt time.Time
	BarIndex  int
}

// NewOrder allocates an order with a fresh ID and Pending status.
func NewOrder(symbol string, side bar.Side, typ bar.OrderType, action bar.OrderAction, qty decimal.Decimal, tag string) *Order {
	return &Order{
		ID:       uuid.NewString(),
		Symbol:   symbol,
		Side:     side,
		Type:     typ,
		Action:   action,
		Quantity: qty,
		Tag:      tag,
		Status:   bar.Pending,
	}
}

// Fill is the result of an order matching against a bar.
type Fill struct {
	OrderID    string
	Symbol     string
	Side       bar.Side
	Action     bar.OrderAction
	Quantity   decimal.Decimal
	Price      decimal.Decimal
	Commission decimal.Decimal
	Tag        string
	BarIndex   int
	Timestamp  time.Time
}

// Position is an open or closed holding in a single symbol, opened by one
// entry fill and (eventually) closed by one exit/close fill.
type Position struct {
	Symbol       string
	Side         bar.Side
	Quantity     decimal.Decimal
	EntryPrice   decimal.Decimal
	EntryBar     int
	EntryTime    time.Time
	ExitPrice    decimal.Decimal
	ExitBar      int
	ExitTime     time.Time
	EntryTag     string
	ExitTag      string
	Status       bar.PositionStatus
	Commission   decimal.Decimal
}

// Value is the current mark-to-market value of the position at price.
func (p *Position) Value(price decimal.Decimal) decimal.Decimal {
	if p.Side == bar.Short {
		return p.Quantity.Mul(p.EntryPrice.Mul(decimal.NewFromInt(2)).Sub(price))
	}
	return p.Quantity.Mul(price)
}

// UnrealizedPnL is the paper profit/loss of an open position at price.
func (p *Position) UnrealizedPnL(price decimal.Decimal) decimal.Decimal {
	diff := price.Sub(p.EntryPrice)
	if p.Side == bar.Short {
		diff = diff.Neg()
	}
	return p.Quantity.Mul(diff)
}

// RealizedPnL is the closed profit/loss of a finished position, net of
// commission paid on both the entry and exit fills.
func (p *Position) RealizedPnL() decimal.Decimal {
	diff := p.ExitPrice.Sub(p.EntryPrice)
	if p.Side == bar.Short {
		diff = diff.Neg()
	}
	return p.Quantity.Mul(diff).Sub(p.Commission)
}

// TradeResult is a closed position's record in the trade log.
type TradeResult struct {
	Symbol     string
	Side       bar.Side
	Quantity   decimal.Decimal
	EntryPrice decimal.Decimal
	ExitPrice  decimal.Decimal
	EntryBar   int
	ExitBar    int
	EntryTime  time.Time
	ExitTime   time.Time
	EntryTag   string
	ExitTag    string
	PnL        decimal.Decimal
	Commission decimal.Decimal
}

// BarsHeld is the number of bars the position was open.
func (t TradeResult) BarsHeld() int { return t.ExitBar - t.EntryBar }

// EquityPoint is one sample of the portfolio's mark-to-market value,
// recorded once per processed bar.
type EquityPoint struct {
	BarIndex      int
	Timestamp     time.Time
	Equity        decimal.Decimal
	Cash          decimal.Decimal
	PositionValue decimal.Decimal
	Drawdown      decimal.Decimal
}
