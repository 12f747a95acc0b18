package indicator

import (
	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/series"
)

// Crossover reports whether a crossed above b on the current bar: a was at
// or below b one bar back, and a is strictly above b now.
func Crossover(a, b *series.Series[decimal.Decimal]) bool {
	prevA, ok1 := atOk(a, 1)
	prevB, ok2 := atOk(b, 1)
	if !ok1 || !ok2 {
		return false
	}
	return prevA.LessThanOrEqual(prevB) && current(a).GreaterThan(current(b))
}

// Crossunder reports whether a crossed below b on the current bar.
func Crossunder(a, b *series.Series[decimal.Decimal]) bool {
	prevA, ok1 := atOk(a, 1)
	prevB, ok2 := atOk(b, 1)
	if !ok1 || !ok2 {
		return false
	}
	return prevA.GreaterThanOrEqual(prevB) && current(a).LessThan(current(b))
}

// Cross reports whether a and b crossed in either direction on the current
// bar. Crossover and Crossunder are mutually exclusive by construction, so
// Cross never double-fires.
func Cross(a, b *series.Series[decimal.Decimal]) bool {
	return Crossover(a, b) || Crossunder(a, b)
}
