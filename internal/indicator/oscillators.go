package indicator

import (
	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/series"
)

var fifty = decimal.NewFromInt(50)

// RSI is the relative strength index via a plain average of gains/losses
// over the window; this package has no RMA-smoothed RSI variant. Returns
// the neutral sentinel 50 before length committed bars exist.
func RSI(source *series.Series[decimal.Decimal], length int) decimal.Decimal {
	if length <= 0 || source.Len() < length {
		return fifty
	}
	gains, losses := zero, zero
	for i := 0; i < length; i++ {
		curr, ok1 := atOk(source, i)
		prev, ok2 := atOk(source, i+1)
		if !ok1 || !ok2 {
			continue
		}
		change := curr.Sub(prev)
		if change.GreaterThan(zero) {
			gains = gains.Add(change)
		} else {
			losses = losses.Add(change.Abs())
		}
	}
	avgGain := gains.Div(n(length))
	avgLoss := losses.Div(n(length))
	if avgLoss.IsZero() {
		return hundred
	}
	rs := avgGain.Div(avgLoss)
	return hundred.Sub(hundred.Div(one.Add(rs)))
}

// Stoch is the stochastic %K: 100*(source-lowest)/(highest-lowest).
func Stoch(source, high, low *series.Series[decimal.Decimal], length int) decimal.Decimal {
	hi := Highest(high, length)
	lo := Lowest(low, length)
	diff := hi.Sub(lo)
	if diff.IsZero() {
		return zero
	}
	return hundred.Mul(current(source).Sub(lo)).Div(diff)
}

// WPR is Williams %R: -100*(highest-close)/(highest-lowest).
func WPR(high, low, close *series.Series[decimal.Decimal], length int) decimal.Decimal {
	hi := Highest(high, length)
	lo := Lowest(low, length)
	diff := hi.Sub(lo)
	if diff.IsZero() {
		return zero
	}
	return hundred.Neg().Mul(hi.Sub(current(close))).Div(diff)
}

// CCI is the commodity channel index: (source-SMA)/(0.015*mean_deviation).
func CCI(source *series.Series[decimal.Decimal], length int) decimal.Decimal {
	if length <= 0 || source.Len() < length-1 {
		return zero
	}
	mean := SMA(source, length)
	devSum := zero
	for i := 0; i < length; i++ {
		v, ok := atOk(source, i)
		if !ok {
			return zero
		}
		devSum = devSum.Add(v.Sub(mean).Abs())
	}
	meanDev := devSum.Div(n(length))
	if meanDev.IsZero() {
		return zero
	}
	return current(source).Sub(mean).Div(decimal.NewFromFloat(0.015).Mul(meanDev))
}

// MFI is the money flow index, RSI-like but weighted by typical price * volume.
func MFI(high, low, close, volume *series.Series[decimal.Decimal], length int) decimal.Decimal {
	if length <= 0 || close.Len() < length {
		return fifty
	}
	posFlow, negFlow := zero, zero
	three := n(3)
	for i := 0; i < length; i++ {
		h, ok1 := atOk(high, i)
		l, ok2 := atOk(low, i)
		c, ok3 := atOk(close, i)
		v, ok4 := atOk(volume, i)
		prevH, ok5 := atOk(high, i+1)
		prevL, ok6 := atOk(low, i+1)
		prevC, ok7 := atOk(close, i+1)
		if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 || !ok7 {
			continue
		}
		tp := h.Add(l).Add(c).Div(three)
		prevTp := prevH.Add(prevL).Add(prevC).Div(three)
		rawMf := tp.Mul(v)
		if tp.GreaterThan(prevTp) {
			posFlow = posFlow.Add(rawMf)
		} else {
			negFlow = negFlow.Add(rawMf)
		}
	}
	if negFlow.IsZero() {
		return hundred
	}
	ratio := posFlow.Div(negFlow)
	return hundred.Sub(hundred.Div(one.Add(ratio)))
}

// Mom is momentum: the difference between current and length bars ago.
func Mom(source *series.Series[decimal.Decimal], length int) decimal.Decimal {
	return Change(source, length)
}

// ROC is rate of change as a percentage.
func ROC(source *series.Series[decimal.Decimal], length int) decimal.Decimal {
	prev, ok := atOk(source, length)
	if !ok || prev.IsZero() {
		return zero
	}
	return hundred.Mul(current(source).Sub(prev)).Div(prev)
}
