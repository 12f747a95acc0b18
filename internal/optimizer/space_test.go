package optimizer_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/optimizer"
	"github.com/ggtechco/finsaas/internal/strategy"
)

func TestGridIterEnumeratesCartesianProduct(t *testing.T) {
	space := optimizer.ParameterSpace{Ranges: []optimizer.ParameterRange{
		{Name: "period", Values: []any{10, 20}},
		{Name: "threshold", Values: []any{1.0, 2.0, 3.0}},
	}}
	combos := space.GridIter()
	if len(combos) != 6 {
		t.Fatalf("want 6 combinations, got %d", len(combos))
	}
	if combos[0]["period"] != 10 || combos[0]["threshold"] != 1.0 {
		t.Errorf("unexpected first combo: %+v", combos[0])
	}
	// first-declared range ("period") varies slowest.
	if combos[3]["period"] != 20 || combos[3]["threshold"] != 1.0 {
		t.Errorf("unexpected fourth combo: %+v", combos[3])
	}
}

func TestGridIterEmptyRangesYieldsNoCombinations(t *testing.T) {
	space := optimizer.ParameterSpace{}
	if combos := space.GridIter(); combos != nil {
		t.Errorf("want nil combos for an empty space, got %v", combos)
	}
}

func TestParameterSpaceSize(t *testing.T) {
	space := optimizer.ParameterSpace{Ranges: []optimizer.ParameterRange{
		{Name: "a", Values: []any{1, 2, 3}},
		{Name: "b", Values: []any{1, 2}},
	}}
	if space.Size() != 6 {
		t.Errorf("want size 6, got %d", space.Size())
	}
}

func TestFromStrategyExpandsIntParamIntoAGrid(t *testing.T) {
	space := optimizer.FromStrategy([]strategy.ParamDescriptor{
		strategy.IntParam("period", 14, 5, 20, 5),
	})
	if len(space.Ranges) != 1 {
		t.Fatalf("want 1 range, got %d", len(space.Ranges))
	}
	r := space.Ranges[0]
	if r.Name != "period" {
		t.Errorf("want range name period, got %s", r.Name)
	}
	want := []any{5, 10, 15, 20}
	if len(r.Values) != len(want) {
		t.Fatalf("want %v, got %v", want, r.Values)
	}
	for i, v := range want {
		if r.Values[i] != v {
			t.Errorf("index %d: want %v, got %v", i, v, r.Values[i])
		}
	}
}

func TestFromStrategyExpandsFloatParamIntoADecimalGrid(t *testing.T) {
	space := optimizer.FromStrategy([]strategy.ParamDescriptor{
		strategy.FloatParam("threshold_pct", decimal.NewFromFloat(1),
			decimal.NewFromFloat(1), decimal.NewFromFloat(2), decimal.NewFromFloat(0.5)),
	})
	r := space.Ranges[0]
	if len(r.Values) != 3 {
		t.Fatalf("want 3 values (1, 1.5, 2), got %d: %v", len(r.Values), r.Values)
	}
	v, ok := r.Values[1].(decimal.Decimal)
	if !ok || !v.Equal(decimal.NewFromFloat(1.5)) {
		t.Errorf("want the middle value to be decimal 1.5, got %v", r.Values[1])
	}
}

func TestFromStrategyExpandsEnumParamIntoItsOptions(t *testing.T) {
	space := optimizer.FromStrategy([]strategy.ParamDescriptor{
		strategy.EnumParam("mode", "fast", "fast", "slow", "adaptive"),
	})
	r := space.Ranges[0]
	if len(r.Values) != 3 || r.Values[0] != "fast" || r.Values[2] != "adaptive" {
		t.Errorf("want the enum's options verbatim, got %v", r.Values)
	}
}

func TestFromStrategyExpandsBoolParamIntoTrueFalse(t *testing.T) {
	space := optimizer.FromStrategy([]strategy.ParamDescriptor{
		strategy.BoolParam("use_filter", true),
	})
	r := space.Ranges[0]
	if len(r.Values) != 2 || r.Values[0] != true || r.Values[1] != false {
		t.Errorf("want {true, false}, got %v", r.Values)
	}
}

func TestFromStrategyMatchesARegisteredStrategysRealDescriptors(t *testing.T) {
	strat := strategy.NewMomentumStrategy()
	space := optimizer.FromStrategy(strat.Parameters())
	if len(space.Ranges) != len(strat.Parameters()) {
		t.Fatalf("want one range per descriptor, got %d ranges for %d descriptors",
			len(space.Ranges), len(strat.Parameters()))
	}
	if space.Size() == 0 {
		t.Error("want a non-empty search space for a real registered strategy")
	}
}
