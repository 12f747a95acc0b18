package indicator

import (
	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/series"
)

// Rising reports whether source has strictly increased on every one of the
// last length bar-to-bar steps.
func Rising(source *series.Series[decimal.Decimal], length int) bool {
	for i := 0; i < length; i++ {
		v, ok1 := atOk(source, i)
		p, ok2 := atOk(source, i+1)
		if !ok1 || !ok2 {
			return false
		}
		if !v.GreaterThan(p) {
			return false
		}
	}
	return true
}

// Falling reports whether source has strictly decreased on every one of the
// last length bar-to-bar steps.
func Falling(source *series.Series[decimal.Decimal], length int) bool {
	for i := 0; i < length; i++ {
		v, ok1 := atOk(source, i)
		p, ok2 := atOk(source, i+1)
		if !ok1 || !ok2 {
			return false
		}
		if !v.LessThan(p) {
			return false
		}
	}
	return true
}

// BarsSince is the number of bars since condition was last non-zero,
// 0 meaning the current bar. Returns -1 when condition was never true
// within the bars retained.
func BarsSince(condition *series.Series[decimal.Decimal]) int {
	for i := 0; ; i++ {
		v, ok := atOk(condition, i)
		if !ok {
			return -1
		}
		if !v.IsZero() {
			return i
		}
	}
}

// ValueWhen is the value of source the occurrence-th most recent time
// condition was non-zero (occurrence 0 = most recent). Returns zero if
// there are fewer than occurrence+1 such bars within retained history.
func ValueWhen(condition, source *series.Series[decimal.Decimal], occurrence int) decimal.Decimal {
	count := 0
	for i := 0; ; i++ {
		c, ok := atOk(condition, i)
		if !ok {
			return zero
		}
		if !c.IsZero() {
			if count == occurrence {
				return at(source, i)
			}
			count++
		}
	}
}
