package indicator

import (
	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/series"
)

// OBV is the on-balance volume running total: volume is added on an up
// close, subtracted on a down close, and left unchanged on a flat close.
// cache holds the running total; the first bar (no prior close to compare
// against) leaves the total unchanged.
func OBV(close, volume *series.Series[decimal.Decimal], cache *series.Series[decimal.Decimal]) decimal.Decimal {
	prev := cache.GetOr(0, zero)
	prevClose, ok := atOk(close, 1)
	if !ok {
		cache.SetCurrent(prev)
		return prev
	}
	cur := current(close)
	vol := current(volume)
	var val decimal.Decimal
	switch {
	case cur.GreaterThan(prevClose):
		val = prev.Add(vol)
	case cur.LessThan(prevClose):
		val = prev.Sub(vol)
	default:
		val = prev
	}
	cache.SetCurrent(val)
	return val
}

// VWAP is the cumulative volume-weighted average price: sum(typical_price *
// volume) / sum(volume), anchored at the start of the series. cachePV and
// cacheVol hold the running numerator and denominator.
func VWAP(high, low, close, volume *series.Series[decimal.Decimal], cachePV, cacheVol *series.Series[decimal.Decimal]) decimal.Decimal {
	tp := current(high).Add(current(low)).Add(current(close)).Div(n(3))
	vol := current(volume)
	pv := tp.Mul(vol)

	newPV := cachePV.GetOr(0, zero).Add(pv)
	newVol := cacheVol.GetOr(0, zero).Add(vol)
	cachePV.SetCurrent(newPV)
	cacheVol.SetCurrent(newVol)

	if newVol.IsZero() {
		return zero
	}
	return newPV.Div(newVol)
}

// Cum is the running cumulative sum of source, anchored at the start of the
// series.
func Cum(source *series.Series[decimal.Decimal], cache *series.Series[decimal.Decimal]) decimal.Decimal {
	val := cache.GetOr(0, zero).Add(current(source))
	cache.SetCurrent(val)
	return val
}
