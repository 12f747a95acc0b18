// Package numeric provides fixed-precision decimal arithmetic primitives
// used throughout the indicator library and metrics package. It mirrors the
// math.* namespace of the scripting language the indicator library imitates.
package numeric

import (
	"math"

	"github.com/shopspring/decimal"
)

// sqrtEpsilon is the Newton's-method convergence bound: iteration stops once
// successive guesses differ by less than this absolute residual.
var sqrtEpsilon = decimal.New(1, -20)

var (
	zero = decimal.Zero
	two  = decimal.NewFromInt(2)
)

// Sqrt computes the square root of x to at least 18 significant decimal
// digits via Newton's method. Non-positive inputs return zero rather than
// erroring, matching the indicator library's division-by-zero convention.
func Sqrt(x decimal.Decimal) decimal.Decimal {
	if x.Cmp(zero) <= 0 {
		return zero
	}
	guess := x
	for {
		next := guess.Add(x.Div(guess)).Div(two)
		if guess.Sub(next).Abs().LessThan(sqrtEpsilon) {
			return next
		}
		guess = next
	}
}

// Abs returns the absolute value of x.
func Abs(x decimal.Decimal) decimal.Decimal {
	return x.Abs()
}

// Max returns the greater of a and b.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Min returns the lesser of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Round rounds x to the given number of decimal places, half-away-from-zero.
func Round(x decimal.Decimal, precision int32) decimal.Decimal {
	return x.Round(precision)
}

// Sign returns -1, 0, or 1 according to the sign of x.
func Sign(x decimal.Decimal) int {
	return x.Sign()
}

// Pow computes base raised to exp via float64 exponentiation, matching the
// source's float-roundtrip implementation — Pine's math.pow is not used in
// a context demanding fixed-point precision beyond float64's ~15 digits.
func Pow(base, exp decimal.Decimal) decimal.Decimal {
	b, _ := base.Float64()
	e, _ := exp.Float64()
	return decimal.NewFromFloat(math.Pow(b, e))
}

// Log computes the natural logarithm via float64 math.Log. Non-positive
// inputs return zero.
func Log(x decimal.Decimal) decimal.Decimal {
	if x.Cmp(zero) <= 0 {
		return zero
	}
	f, _ := x.Float64()
	return decimal.NewFromFloat(math.Log(f))
}

// Exp computes e^x via float64 math.Exp.
func Exp(x decimal.Decimal) decimal.Decimal {
	f, _ := x.Float64()
	return decimal.NewFromFloat(math.Exp(f))
}

// Ceil rounds x up to the nearest integer.
func Ceil(x decimal.Decimal) decimal.Decimal {
	return x.Ceil()
}

// Floor rounds x down to the nearest integer.
func Floor(x decimal.Decimal) decimal.Decimal {
	return x.Floor()
}

// SafeDiv divides a by b, returning zero instead of propagating a
// division-by-zero error — the numeric contract of the indicator library
// treats every divide-by-zero as an observable zero, not a fault.
func SafeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return zero
	}
	return a.Div(b)
}
