package engine_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/bar"
	"github.com/ggtechco/finsaas/internal/engine"
)

func TestZeroSlippageIsNoop(t *testing.T) {
	got := engine.ZeroSlippage{}.Adjust(decimal.NewFromInt(100), bar.Long, bar.Entry)
	if !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected unchanged price, got %s", got)
	}
}

func TestPercentageSlippageWorsensEffectiveBuy(t *testing.T) {
	s := engine.PercentageSlippage{Rate: decimal.NewFromFloat(0.01)}

	// Entering long is an effective buy: price moves up.
	got := s.Adjust(decimal.NewFromInt(100), bar.Long, bar.Entry)
	if !got.Equal(decimal.NewFromFloat(101)) {
		t.Errorf("long entry: want 101, got %s", got)
	}

	// Exiting long is an effective sell: price moves down.
	got = s.Adjust(decimal.NewFromInt(100), bar.Long, bar.Exit)
	if !got.Equal(decimal.NewFromFloat(99)) {
		t.Errorf("long exit: want 99, got %s", got)
	}

	// Entering short is an effective sell.
	got = s.Adjust(decimal.NewFromInt(100), bar.Short, bar.Entry)
	if !got.Equal(decimal.NewFromFloat(99)) {
		t.Errorf("short entry: want 99, got %s", got)
	}

	// Exiting short is an effective buy.
	got = s.Adjust(decimal.NewFromInt(100), bar.Short, bar.Exit)
	if !got.Equal(decimal.NewFromFloat(101)) {
		t.Errorf("short exit: want 101, got %s", got)
	}
}

func TestFixedSlippagePoints(t *testing.T) {
	s := engine.FixedSlippage{Points: decimal.NewFromFloat(0.5)}
	got := s.Adjust(decimal.NewFromInt(100), bar.Long, bar.Entry)
	if !got.Equal(decimal.NewFromFloat(100.5)) {
		t.Errorf("want 100.5, got %s", got)
	}
}
