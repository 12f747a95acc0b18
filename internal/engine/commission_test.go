package engine_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/engine"
)

func TestZeroCommission(t *testing.T) {
	got := engine.ZeroCommission{}.Compute(decimal.NewFromInt(10), decimal.NewFromInt(100))
	if !got.IsZero() {
		t.Errorf("expected zero commission, got %s", got)
	}
}

func TestPercentageCommission(t *testing.T) {
	c := engine.PercentageCommission{Rate: decimal.NewFromFloat(0.001)}
	got := c.Compute(decimal.NewFromInt(10), decimal.NewFromInt(100))
	want := decimal.NewFromInt(1) // 10*100*0.001
	if !got.Equal(want) {
		t.Errorf("want %s, got %s", want, got)
	}
}

func TestFixedCommission(t *testing.T) {
	c := engine.FixedCommission{Amount: decimal.NewFromFloat(2.5)}
	got := c.Compute(decimal.NewFromInt(1000), decimal.NewFromInt(5))
	if !got.Equal(decimal.NewFromFloat(2.5)) {
		t.Errorf("fixed commission should ignore notional, got %s", got)
	}
}

func TestTieredCommissionPicksHighestMetThreshold(t *testing.T) {
	c := engine.TieredCommission{Tiers: []engine.TieredCommissionTier{
		{Threshold: decimal.NewFromInt(0), Rate: decimal.NewFromFloat(0.01)},
		{Threshold: decimal.NewFromInt(10000), Rate: decimal.NewFromFloat(0.005)},
		{Threshold: decimal.NewFromInt(100000), Rate: decimal.NewFromFloat(0.001)},
	}}

	// notional = 50 * 300 = 15000, meets the 10000 tier but not 100000
	got := c.Compute(decimal.NewFromInt(50), decimal.NewFromInt(300))
	want := decimal.NewFromInt(15000).Mul(decimal.NewFromFloat(0.005))
	if !got.Equal(want) {
		t.Errorf("want %s, got %s", want, got)
	}
}

func TestTieredCommissionFallsBackToLowestTierBelowEveryThreshold(t *testing.T) {
	c := engine.TieredCommission{Tiers: []engine.TieredCommissionTier{
		{Threshold: decimal.NewFromInt(1000), Rate: decimal.NewFromFloat(0.01)},
		{Threshold: decimal.NewFromInt(5000), Rate: decimal.NewFromFloat(0.005)},
	}}

	// notional = 1 * 10 = 10, below every threshold
	got := c.Compute(decimal.NewFromInt(1), decimal.NewFromInt(10))
	want := decimal.NewFromInt(10).Mul(decimal.NewFromFloat(0.01))
	if !got.Equal(want) {
		t.Errorf("want %s, got %s", want, got)
	}
}
