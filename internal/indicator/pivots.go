package indicator

import (
	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/series"
)

// PivotHigh confirms a pivot high leftBars+rightBars bars of history after
// the candidate bar: the candidate (rightBars bars back) must be greater
// than or equal to every bar within rightBars bars on the "right" (more recent,
// now-confirmed) side and every bar within leftBars bars on the "left"
// (older) side. Absent until there is enough history to confirm or refute
// the candidate.
func PivotHigh(source *series.Series[decimal.Decimal], leftBars, rightBars int) series.Optional[decimal.Decimal] {
	candidate, ok := atOk(source, rightBars)
	if !ok {
		return series.None[decimal.Decimal]()
	}
	for i := 0; i < rightBars; i++ {
		v, ok := atOk(source, i)
		if !ok {
			return series.None[decimal.Decimal]()
		}
		if v.GreaterThan(candidate) {
			return series.None[decimal.Decimal]()
		}
	}
	for i := rightBars + 1; i <= rightBars+leftBars; i++ {
		v, ok := atOk(source, i)
		if !ok {
			return series.None[decimal.Decimal]()
		}
		if v.GreaterThan(candidate) {
			return series.None[decimal.Decimal]()
		}
	}
	return series.Some(candidate)
}

// PivotLow is the mirror image of PivotHigh: the candidate must be less
// than or equal to every bar on both sides.
func PivotLow(source *series.Series[decimal.Decimal], leftBars, rightBars int) series.Optional[decimal.Decimal] {
	candidate, ok := atOk(source, rightBars)
	if !ok {
		return series.None[decimal.Decimal]()
	}
	for i := 0; i < rightBars; i++ {
		v, ok := atOk(source, i)
		if !ok {
			return series.None[decimal.Decimal]()
		}
		if v.LessThan(candidate) {
			return series.None[decimal.Decimal]()
		}
	}
	for i := rightBars + 1; i <= rightBars+leftBars; i++ {
		v, ok := atOk(source, i)
		if !ok {
			return series.None[decimal.Decimal]()
		}
		if v.LessThan(candidate) {
			return series.None[decimal.Decimal]()
		}
	}
	return series.Some(candidate)
}
