// Package optimizer implements parameter-space search over backtest runs:
// grid search, a genetic algorithm, and the objective functions and
// parallel trial runner shared by both.
package optimizer

import (
	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/strategy"
)

// ParameterRange is one strategy parameter's discrete set of values to
// search over.
type ParameterRange struct {
	Name   string
	Values []any
}

// ParameterSpace is the full set of parameter ranges a search explores.
// Ranges are declared in the order they should vary: the first range
// varies slowest in a grid walk, matching itertools.product semantics.
type ParameterSpace struct {
	Ranges []ParameterRange
}

// GridIter enumerates the full Cartesian product of the space's ranges,
// the first-declared range varying slowest.
func (ps ParameterSpace) GridIter() []map[string]any {
	if len(ps.Ranges) == 0 {
		return nil
	}
	combos := []map[string]any{{}}
	for _, r := range ps.Ranges {
		next := make([]map[string]any, 0, len(combos)*len(r.Values))
		for _, combo := range combos {
			for _, v := range r.Values {
				merged := make(map[string]any, len(combo)+1)
				for k, val := range combo {
					merged[k] = val
				}
				merged[r.Name] = v
				next = append(next, merged)
			}
		}
		combos = next
	}
	return combos
}

// Size is the total number of grid combinations without materializing
// them.
func (ps ParameterSpace) Size() int {
	total := 1
	for _, r := range ps.Ranges {
		total *= len(r.Values)
	}
	return total
}

// FromStrategy converts a strategy's parameter descriptors into a
// ParameterSpace ready for grid or genetic search: IntParam/FloatParam
// expand into the min/max/step grid, EnumParam into its options, and
// BoolParam into {true, false}. Value types match what the strategy's own
// SetParameters expects (int for ParamInt, decimal.Decimal for ParamFloat).
func FromStrategy(descriptors []strategy.ParamDescriptor) ParameterSpace {
	ranges := make([]ParameterRange, 0, len(descriptors))
	for _, d := range descriptors {
		switch d.Kind {
		case strategy.ParamInt:
			ranges = append(ranges, ParameterRange{Name: d.Name, Values: intGrid(d.Min, d.Max, d.Step)})
		case strategy.ParamFloat:
			ranges = append(ranges, ParameterRange{Name: d.Name, Values: decimalGrid(d.Min, d.Max, d.Step)})
		case strategy.ParamEnum:
			values := make([]any, len(d.Options))
			for i, opt := range d.Options {
				values[i] = opt
			}
			ranges = append(ranges, ParameterRange{Name: d.Name, Values: values})
		case strategy.ParamBool:
			ranges = append(ranges, ParameterRange{Name: d.Name, Values: []any{true, false}})
		}
	}
	return ParameterSpace{Ranges: ranges}
}

// intGrid enumerates min..max (inclusive) in steps of step, as native ints.
// A non-positive step degenerates to the single value min.
func intGrid(min, max, step decimal.Decimal) []any {
	if step.LessThanOrEqual(decimal.Zero) {
		return []any{int(min.IntPart())}
	}
	var values []any
	for v := min; v.LessThanOrEqual(max); v = v.Add(step) {
		values = append(values, int(v.IntPart()))
	}
	return values
}

// decimalGrid enumerates min..max (inclusive) in steps of step, as
// decimal.Decimal values. A non-positive step degenerates to the single
// value min.
func decimalGrid(min, max, step decimal.Decimal) []any {
	if step.LessThanOrEqual(decimal.Zero) {
		return []any{min}
	}
	var values []any
	for v := min; v.LessThanOrEqual(max); v = v.Add(step) {
		values = append(values, v)
	}
	return values
}
