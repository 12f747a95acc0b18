package engine

import (
	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/bar"
)

// SlippageModel adjusts a theoretical fill price to account for market
// impact. Applied only to MARKET and STOP fills; LIMIT and STOP_LIMIT
// orders fill at their stated price by construction.
type SlippageModel interface {
	Adjust(price decimal.Decimal, side bar.Side, action bar.OrderAction) decimal.Decimal
}

// ZeroSlippage applies no adjustment.
type ZeroSlippage struct{}

// Adjust implements SlippageModel.
func (ZeroSlippage) Adjust(price decimal.Decimal, side bar.Side, action bar.OrderAction) decimal.Decimal {
	return price
}

// effectiveBuy reports whether a fill of this side/action behaves like a
// buy for slippage-direction purposes: entering long or exiting short.
func effectiveBuy(side bar.Side, action bar.OrderAction) bool {
	isEntry := action == bar.Entry
	isLong := side == bar.Long
	return isEntry == isLong
}

// PercentageSlippage worsens the fill price by a fixed percentage: up on
// an effective buy, down on an effective sell.
type PercentageSlippage struct {
	Rate decimal.Decimal
}

// Adjust implements SlippageModel.
func (s PercentageSlippage) Adjust(price decimal.Decimal, side bar.Side, action bar.OrderAction) decimal.Decimal {
	delta := price.Mul(s.Rate)
	if effectiveBuy(side, action) {
		return price.Add(delta)
	}
	return price.Sub(delta)
}

// FixedSlippage worsens the fill price by a fixed number of points.
type FixedSlippage struct {
	Points decimal.Decimal
}

// Adjust implements SlippageModel.
func (s FixedSlippage) Adjust(price decimal.Decimal, side bar.Side, action bar.OrderAction) decimal.Decimal {
	if effectiveBuy(side, action) {
		return price.Add(s.Points)
	}
	return price.Sub(s.Points)
}
