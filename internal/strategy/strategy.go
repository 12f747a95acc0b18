// Package strategy defines the interface a backtested trading strategy
// implements, the parameter-descriptor mechanism used to expose its tunable
// inputs to the optimizer, and the order-submission seam between a
// strategy's per-bar callback and the broker.
package strategy

import (
	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/bar"
	"github.com/ggtechco/finsaas/internal/context"
)

// OrderSubmitter is the narrow seam a strategy uses to place orders,
// implemented by the run loop so a strategy never touches the broker or
// portfolio directly.
type OrderSubmitter interface {
	Entry(side bar.Side, qty decimal.Decimal, tag string) error
	EntryMarket(side bar.Side, tag string) error // sizes to ~99% of available cash
	Exit(tag string) error
	ClosePosition(tag string) error
	CloseAll(tag string) error
}

// Strategy is implemented by every backtested trading strategy.
type Strategy interface {
	// OnInit runs once before the first bar, for series/indicator setup.
	OnInit(ctx *context.Context)
	// OnBar runs once per bar, while that bar is staged and before it is
	// committed; submit places orders for the *next* bar, never the one
	// currently staged.
	OnBar(ctx *context.Context, submit OrderSubmitter)
	// Parameters describes the strategy's tunable inputs for the optimizer
	// and for recording in a run's parameter set.
	Parameters() []ParamDescriptor
	// SetParameters applies a concrete parameter assignment before a run.
	SetParameters(values map[string]any) error
}

// ParamKind distinguishes the shape of a parameter's domain.
type ParamKind string

const (
	ParamInt   ParamKind = "int"
	ParamFloat ParamKind = "float"
	ParamEnum  ParamKind = "enum"
	ParamBool  ParamKind = "bool"
)

// ParamDescriptor documents one tunable strategy input. Go has no
// metaclass/descriptor magic, so strategies expose this explicitly via
// Parameters() rather than via annotated struct fields.
type ParamDescriptor struct {
	Name    string
	Kind    ParamKind
	Default any
	Min     decimal.Decimal // IntParam/FloatParam only
	Max     decimal.Decimal // IntParam/FloatParam only
	Step    decimal.Decimal // IntParam/FloatParam only
	Options []string        // EnumParam only
}

// IntParam describes an integer-valued parameter with an inclusive range.
func IntParam(name string, def, min, max, step int) ParamDescriptor {
	return ParamDescriptor{
		Name: name, Kind: ParamInt, Default: def,
		Min: decimal.NewFromInt(int64(min)), Max: decimal.NewFromInt(int64(max)), Step: decimal.NewFromInt(int64(step)),
	}
}

// FloatParam describes a decimal-valued parameter with an inclusive range.
func FloatParam(name string, def, min, max, step decimal.Decimal) ParamDescriptor {
	return ParamDescriptor{Name: name, Kind: ParamFloat, Default: def, Min: min, Max: max, Step: step}
}

// EnumParam describes a parameter restricted to a fixed set of options.
func EnumParam(name, def string, options ...string) ParamDescriptor {
	return ParamDescriptor{Name: name, Kind: ParamEnum, Default: def, Options: options}
}

// BoolParam describes a boolean toggle.
func BoolParam(name string, def bool) ParamDescriptor {
	return ParamDescriptor{Name: name, Kind: ParamBool, Default: def}
}
