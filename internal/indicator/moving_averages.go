package indicator

import (
	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/series"
)

// SMA is the simple moving average over the last length bars.
func SMA(source *series.Series[decimal.Decimal], length int) decimal.Decimal {
	if length <= 0 {
		return zero
	}
	if source.Len() < length-1 {
		return zero
	}
	total := current(source)
	for i := 1; i < length; i++ {
		v, ok := atOk(source, i)
		if !ok {
			return zero
		}
		total = total.Add(v)
	}
	return total.Div(n(length))
}

// EMA is the exponential moving average, alpha = 2/(length+1), bootstrapped
// with an SMA seed. cache holds cross-bar state (see package docs); pass
// nil to fall back to a bounded from-history recompute.
func EMA(source *series.Series[decimal.Decimal], length int, cache *series.Series[decimal.Decimal]) decimal.Decimal {
	return ewma(source, length, two.Div(n(length).Add(one)), cache)
}

// RMA is Wilder's smoothed moving average, alpha = 1/length. SMMA is an
// alias of RMA in this namespace, matching the scripting language's own
// ta.smma == ta.rma equivalence.
func RMA(source *series.Series[decimal.Decimal], length int, cache *series.Series[decimal.Decimal]) decimal.Decimal {
	return ewma(source, length, one.Div(n(length)), cache)
}

// SMMA is an alias of RMA.
func SMMA(source *series.Series[decimal.Decimal], length int, cache *series.Series[decimal.Decimal]) decimal.Decimal {
	return RMA(source, length, cache)
}

// ewma is the shared exponentially-weighted recurrence behind EMA and RMA.
func ewma(source *series.Series[decimal.Decimal], length int, alpha decimal.Decimal, cache *series.Series[decimal.Decimal]) decimal.Decimal {
	if length <= 0 {
		return zero
	}
	cur := current(source)
	if source.Len() < 1 {
		return cur
	}
	if source.Len()+1 < length {
		return SMA(source, minInt(length, source.Len()+1))
	}

	if cache == nil {
		return emaRecursiveFallback(source, length, alpha)
	}
	if cache.Len() == 0 {
		seed := SMA(source, length)
		cache.SetCurrent(seed)
		return seed
	}
	prev := cache.GetOr(0, cur)
	val := alpha.Mul(cur).Add(one.Sub(alpha).Mul(prev))
	cache.SetCurrent(val)
	return val
}

// emaRecursiveFallback mirrors the source's bounded from-history recompute
// for the no-cache case: it walks back up to 3*length bars, bottoming out
// in a plain average.
func emaRecursiveFallback(source *series.Series[decimal.Decimal], length int, alpha decimal.Decimal) decimal.Decimal {
	maxDepth := minInt(length*3, source.Len())
	prev := emaRecurse(source, length, alpha, 1, maxDepth)
	return alpha.Mul(current(source)).Add(one.Sub(alpha).Mul(prev))
}

func emaRecurse(source *series.Series[decimal.Decimal], length int, alpha decimal.Decimal, offset, maxDepth int) decimal.Decimal {
	if offset >= maxDepth || offset >= source.Len() {
		total := zero
		count := 0
		for i := offset; i < minInt(offset+length, source.Len()); i++ {
			v, ok := atOk(source, i)
			if ok {
				total = total.Add(v)
				count++
			}
		}
		if count == 0 {
			count = 1
		}
		return total.Div(n(count))
	}
	prev := emaRecurse(source, length, alpha, offset+1, maxDepth)
	v := at(source, offset)
	return alpha.Mul(v).Add(one.Sub(alpha).Mul(prev))
}

// WMA is the linearly weighted moving average; bar i (0=current) carries
// weight (length-i).
func WMA(source *series.Series[decimal.Decimal], length int) decimal.Decimal {
	if length <= 0 || source.Len() < length-1 {
		return zero
	}
	weightedSum := zero
	weightSum := zero
	for i := 0; i < length; i++ {
		w := n(length - i)
		v, ok := atOk(source, i)
		if !ok {
			return zero
		}
		weightedSum = weightedSum.Add(w.Mul(v))
		weightSum = weightSum.Add(w)
	}
	if weightSum.IsZero() {
		return zero
	}
	return weightedSum.Div(weightSum)
}

// HMA is the Hull moving average in the source's simplified two-term form:
// 2*WMA(n/2) - WMA(n), without the additional WMA(sqrt(n)) smoothing pass.
func HMA(source *series.Series[decimal.Decimal], length int) decimal.Decimal {
	halfLen := length / 2
	if halfLen < 1 {
		halfLen = 1
	}
	return two.Mul(WMA(source, halfLen)).Sub(WMA(source, length))
}

// VWMA is the volume-weighted moving average: sum(price*volume)/sum(volume).
func VWMA(source, volume *series.Series[decimal.Decimal], length int) decimal.Decimal {
	if length <= 0 || source.Len() < length-1 || volume.Len() < length-1 {
		return zero
	}
	pvSum := zero
	vSum := zero
	for i := 0; i < length; i++ {
		p, ok1 := atOk(source, i)
		v, ok2 := atOk(volume, i)
		if !ok1 || !ok2 {
			return zero
		}
		pvSum = pvSum.Add(p.Mul(v))
		vSum = vSum.Add(v)
	}
	if vSum.IsZero() {
		return zero
	}
	return pvSum.Div(vSum)
}
