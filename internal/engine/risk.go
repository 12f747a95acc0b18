package engine

import (
	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/bar"
)

// RiskCheck is an optional pre-trade gate. It may reject an order before it
// reaches the broker's pending queue. The gate list is empty by default;
// the runner wires checks in only when configured to do so.
type RiskCheck interface {
	Check(order *Order, portfolio *Portfolio, price decimal.Decimal) error
}

// MaxPositionSizeCheck rejects entries whose quantity exceeds Limit.
type MaxPositionSizeCheck struct {
	Limit decimal.Decimal
}

// Check implements RiskCheck.
func (c MaxPositionSizeCheck) Check(order *Order, portfolio *Portfolio, price decimal.Decimal) error {
	if order.Action != bar.Entry {
		return nil
	}
	if order.Quantity.GreaterThan(c.Limit) {
		return &OrderError{Kind: RiskLimit, OrderID: order.ID, Reason: "quantity exceeds max position size"}
	}
	return nil
}

// SufficientCapitalCheck rejects entries whose notional value exceeds the
// portfolio's available cash.
type SufficientCapitalCheck struct{}

// Check implements RiskCheck.
func (SufficientCapitalCheck) Check(order *Order, portfolio *Portfolio, price decimal.Decimal) error {
	if order.Action != bar.Entry {
		return nil
	}
	notional := order.Quantity.Mul(price)
	if notional.GreaterThan(portfolio.Cash()) {
		return &OrderError{Kind: InsufficientCapital, OrderID: order.ID, Reason: "order notional exceeds available cash"}
	}
	return nil
}

// MaxDrawdownCheck rejects new entries once the portfolio's drawdown from
// its running peak equity exceeds Limit (a fraction, e.g. 0.2 for 20%).
type MaxDrawdownCheck struct {
	Limit decimal.Decimal
}

// Check implements RiskCheck.
func (c MaxDrawdownCheck) Check(order *Order, portfolio *Portfolio, price decimal.Decimal) error {
	if order.Action != bar.Entry {
		return nil
	}
	peak := portfolio.PeakEquity()
	if peak.IsZero() {
		return nil
	}
	drawdown := peak.Sub(portfolio.Equity()).Div(peak)
	if drawdown.GreaterThan(c.Limit) {
		return &OrderError{Kind: RiskLimit, OrderID: order.ID, Reason: "portfolio drawdown exceeds max drawdown limit"}
	}
	return nil
}
