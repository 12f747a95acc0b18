package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/bar"
	"github.com/ggtechco/finsaas/internal/context"
	"github.com/ggtechco/finsaas/internal/indicator"
)

// MomentumStrategy enters long on strong positive rate-of-change and short
// on strong negative rate-of-change over Period bars.
type MomentumStrategy struct {
	Period       int
	ThresholdPct decimal.Decimal
}

// NewMomentumStrategy builds a MomentumStrategy with its documented
// defaults.
func NewMomentumStrategy() *MomentumStrategy {
	return &MomentumStrategy{Period: 14, ThresholdPct: decimal.NewFromFloat(2)}
}

func (s *MomentumStrategy) OnInit(ctx *context.Context) {}

func (s *MomentumStrategy) OnBar(ctx *context.Context, submit OrderSubmitter) {
	roc := indicator.ROC(ctx.Close, s.Period)
	switch {
	case roc.GreaterThan(s.ThresholdPct):
		_ = submit.EntryMarket(bar.Long, "momentum_up")
	case roc.LessThan(s.ThresholdPct.Neg()):
		_ = submit.EntryMarket(bar.Short, "momentum_down")
	}
}

func (s *MomentumStrategy) Parameters() []ParamDescriptor {
	return []ParamDescriptor{
		IntParam("period", 14, 5, 100, 1),
		FloatParam("threshold_pct", decimal.NewFromFloat(2), decimal.NewFromFloat(0.1), decimal.NewFromFloat(10), decimal.NewFromFloat(0.1)),
	}
}

func (s *MomentumStrategy) SetParameters(values map[string]any) error {
	if v, ok := values["period"]; ok {
		p, ok := v.(int)
		if !ok {
			return fmt.Errorf("period must be an int, got %T", v)
		}
		s.Period = p
	}
	if v, ok := values["threshold_pct"]; ok {
		t, ok := v.(decimal.Decimal)
		if !ok {
			return fmt.Errorf("threshold_pct must be a decimal.Decimal, got %T", v)
		}
		s.ThresholdPct = t
	}
	return nil
}

// MeanReversionStrategy buys below the lower Bollinger Band and sells
// above the upper band, targeting the basis on reversion.
type MeanReversionStrategy struct {
	Period     int
	StdDevMult decimal.Decimal
}

// NewMeanReversionStrategy builds a MeanReversionStrategy with its
// documented defaults.
func NewMeanReversionStrategy() *MeanReversionStrategy {
	return &MeanReversionStrategy{Period: 20, StdDevMult: decimal.NewFromFloat(2)}
}

func (s *MeanReversionStrategy) OnInit(ctx *context.Context) {}

func (s *MeanReversionStrategy) OnBar(ctx *context.Context, submit OrderSubmitter) {
	bb := indicator.BB(ctx.Close, s.Period, s.StdDevMult)
	price, ok := ctx.Close.Current()
	if !ok {
		return
	}
	switch {
	case price.LessThan(bb.Lower):
		_ = submit.EntryMarket(bar.Long, "mean_reversion_buy")
	case price.GreaterThan(bb.Upper):
		_ = submit.EntryMarket(bar.Short, "mean_reversion_sell")
	}
}

func (s *MeanReversionStrategy) Parameters() []ParamDescriptor {
	return []ParamDescriptor{
		IntParam("period", 20, 10, 100, 1),
		FloatParam("std_dev_mult", decimal.NewFromFloat(2), decimal.NewFromFloat(1), decimal.NewFromFloat(3), decimal.NewFromFloat(0.1)),
	}
}

func (s *MeanReversionStrategy) SetParameters(values map[string]any) error {
	if v, ok := values["period"]; ok {
		p, ok := v.(int)
		if !ok {
			return fmt.Errorf("period must be an int, got %T", v)
		}
		s.Period = p
	}
	if v, ok := values["std_dev_mult"]; ok {
		m, ok := v.(decimal.Decimal)
		if !ok {
			return fmt.Errorf("std_dev_mult must be a decimal.Decimal, got %T", v)
		}
		s.StdDevMult = m
	}
	return nil
}
