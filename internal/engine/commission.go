package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CommissionModel computes the commission charged on a fill of qty shares
// at price.
type CommissionModel interface {
	Compute(qty, price decimal.Decimal) decimal.Decimal
}

// ZeroCommission charges nothing.
type ZeroCommission struct{}

// Compute implements CommissionModel.
func (ZeroCommission) Compute(qty, price decimal.Decimal) decimal.Decimal { return decimal.Zero }

// PercentageCommission charges a fixed percentage of notional value.
type PercentageCommission struct {
	Rate decimal.Decimal // e.g. 0.001 for 10 bps
}

// Compute implements CommissionModel.
func (c PercentageCommission) Compute(qty, price decimal.Decimal) decimal.Decimal {
	return qty.Mul(price).Mul(c.Rate)
}

// FixedCommission charges a flat amount per fill, regardless of size.
type FixedCommission struct {
	Amount decimal.Decimal
}

// Compute implements CommissionModel.
func (c FixedCommission) Compute(qty, price decimal.Decimal) decimal.Decimal { return c.Amount }

// TieredCommissionTier is one notional-value threshold and its rate.
type TieredCommissionTier struct {
	Threshold decimal.Decimal
	Rate      decimal.Decimal
}

// TieredCommission charges the rate of the highest threshold the trade's
// notional value meets or exceeds, falling back to the lowest tier's rate
// when the notional is below every threshold.
type TieredCommission struct {
	Tiers []TieredCommissionTier
}

// Compute implements CommissionModel.
func (c TieredCommission) Compute(qty, price decimal.Decimal) decimal.Decimal {
	if len(c.Tiers) == 0 {
		return decimal.Zero
	}
	notional := qty.Mul(price)
	sorted := make([]TieredCommissionTier, len(c.Tiers))
	copy(sorted, c.Tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Threshold.GreaterThan(sorted[j].Threshold) })

	for _, tier := range sorted {
		if notional.GreaterThanOrEqual(tier.Threshold) {
			return notional.Mul(tier.Rate)
		}
	}
	return notional.Mul(sorted[len(sorted)-1].Rate)
}
