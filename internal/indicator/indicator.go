// Package indicator implements the ta.* technical-indicator namespace: ~40
// deterministic, fixed-precision functions over series.Series[decimal.Decimal],
// each computed against the current staged bar and warmup-safe by
// contract (never panics, returns a documented sentinel instead).
//
// Functions that are fundamentally stateful across bars (EMA, RMA/SMMA,
// SAR, Supertrend, OBV, VWAP — see SPEC_FULL.md §9) take cache series,
// typically obtained from a Context via IndicatorCache, so the recurrence
// updates once per bar in O(1) rather than recomputing from full history.
// Only EMA and RMA/SMMA accept a nil cache, falling back to a bounded
// from-history recompute; the other stateful functions require non-nil
// cache series.
package indicator

import (
	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/numeric"
	"github.com/ggtechco/finsaas/internal/series"
)

var (
	zero    = decimal.Zero
	one     = decimal.NewFromInt(1)
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

func n(i int) decimal.Decimal { return decimal.NewFromInt(int64(i)) }

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// current reads a series' staged-or-last-committed value, defaulting to
// zero if neither exists — the Go analogue of the source's nz(series.current).
func current(s *series.Series[decimal.Decimal]) decimal.Decimal {
	v, ok := s.Current()
	if !ok {
		return zero
	}
	return v
}

// at returns source's value i bars back (0 = current), substituting zero
// on any Series error — indicators must never propagate SeriesIndexError
// or InsufficientDataError to their caller.
func at(s *series.Series[decimal.Decimal], i int) decimal.Decimal {
	return s.GetOr(i, zero)
}

// atOk is like at but also reports whether i was actually available,
// letting warmup-sensitive indicators stop iterating early exactly like
// the source's try/except-break pattern.
func atOk(s *series.Series[decimal.Decimal], i int) (decimal.Decimal, bool) {
	v, err := s.Get(i)
	if err != nil {
		return zero, false
	}
	return v, true
}

// sqrt is the shared Newton's-method square root used by Stdev and
// Correlation, to ≥18 significant decimal digits (numeric.Sqrt).
func sqrt(x decimal.Decimal) decimal.Decimal { return numeric.Sqrt(x) }
