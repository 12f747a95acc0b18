package indicator

import (
	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/numeric"
	"github.com/ggtechco/finsaas/internal/series"
)

// TR is the true range: the greatest of high-low, |high-prevClose| and
// |low-prevClose|. Falls back to high-low on the first bar, where there is
// no previous close.
func TR(high, low, close *series.Series[decimal.Decimal]) decimal.Decimal {
	h, l := current(high), current(low)
	hl := h.Sub(l)
	prevClose, ok := atOk(close, 1)
	if !ok {
		return hl
	}
	hc := h.Sub(prevClose).Abs()
	lc := l.Sub(prevClose).Abs()
	return numeric.Max(hl, numeric.Max(hc, lc))
}

// ATR is the average true range: the simple mean of TR over the last
// length bars. trCache is a Series used to stage this bar's TR value so
// SMA can read the window from it; it must be registered with the owning
// Context so it commits alongside the bar. atrCache is not read.
func ATR(high, low, close *series.Series[decimal.Decimal], length int, trCache, atrCache *series.Series[decimal.Decimal]) decimal.Decimal {
	trCache.SetCurrent(TR(high, low, close))
	return SMA(trCache, length)
}

// BollingerBands is the basis/upper/lower triple produced by BB.
type BollingerBands struct {
	Basis, Upper, Lower decimal.Decimal
}

// BB is the Bollinger Bands: an SMA basis with bands mult standard
// deviations above and below.
func BB(source *series.Series[decimal.Decimal], length int, mult decimal.Decimal) BollingerBands {
	basis := SMA(source, length)
	dev := mult.Mul(Stdev(source, length))
	return BollingerBands{Basis: basis, Upper: basis.Add(dev), Lower: basis.Sub(dev)}
}

// BBW is Bollinger Band width as a fraction of the basis: zero when the
// basis is zero, to avoid a division by zero.
func BBW(bb BollingerBands) decimal.Decimal {
	if bb.Basis.IsZero() {
		return zero
	}
	return bb.Upper.Sub(bb.Lower).Div(bb.Basis)
}

// KeltnerChannels is the basis/upper/lower triple produced by KC.
type KeltnerChannels struct {
	Basis, Upper, Lower decimal.Decimal
}

// KC is the Keltner Channels: an EMA basis with bands mult ATRs above and
// below. emaCache and trCache are cross-bar state, as in EMA/ATR; atrCache
// is passed on to ATR, which does not read it.
func KC(source, high, low, close *series.Series[decimal.Decimal], length int, mult decimal.Decimal, emaCache, trCache, atrCache *series.Series[decimal.Decimal]) KeltnerChannels {
	basis := EMA(source, length, emaCache)
	band := mult.Mul(ATR(high, low, close, length, trCache, atrCache))
	return KeltnerChannels{Basis: basis, Upper: basis.Add(band), Lower: basis.Sub(band)}
}

// KCW is Keltner Channel width as a fraction of the basis.
func KCW(kc KeltnerChannels) decimal.Decimal {
	if kc.Basis.IsZero() {
		return zero
	}
	return kc.Upper.Sub(kc.Lower).Div(kc.Basis)
}

// DMIResult is the +DI/-DI/ADX triple produced by DMI.
type DMIResult struct {
	PlusDI, MinusDI, ADX decimal.Decimal
}

// DMICache bundles the cross-bar state DMI needs: two directional-movement
// staging series (committed each bar so their RMA can warm up), the shared
// true-range staging series, and the three RMA recurrence caches.
type DMICache struct {
	PlusDM, MinusDM, TR         *series.Series[decimal.Decimal]
	PlusDMRMA, MinusDMRMA, ATR  *series.Series[decimal.Decimal]
}

// DMI is the directional movement index: Wilder's smoothed +DI/-DI, with
// ADX taken as the single-period DX (|+DI - -DI| / (+DI + -DI) * 100)
// rather than a further RMA smoothing pass of DX.
func DMI(high, low, close *series.Series[decimal.Decimal], length int, c DMICache) DMIResult {
	h, l := current(high), current(low)
	prevH, okH := atOk(high, 1)
	prevL, okL := atOk(low, 1)

	upMove, downMove := zero, zero
	if okH && okL {
		upMove = h.Sub(prevH)
		downMove = prevL.Sub(l)
	}

	plusDM, minusDM := zero, zero
	if upMove.GreaterThan(downMove) && upMove.GreaterThan(zero) {
		plusDM = upMove
	}
	if downMove.GreaterThan(upMove) && downMove.GreaterThan(zero) {
		minusDM = downMove
	}

	c.PlusDM.SetCurrent(plusDM)
	c.MinusDM.SetCurrent(minusDM)
	c.TR.SetCurrent(TR(high, low, close))

	atr := RMA(c.TR, length, c.ATR)
	plusDMSmoothed := RMA(c.PlusDM, length, c.PlusDMRMA)
	minusDMSmoothed := RMA(c.MinusDM, length, c.MinusDMRMA)

	if atr.IsZero() {
		return DMIResult{}
	}
	plusDI := hundred.Mul(plusDMSmoothed).Div(atr)
	minusDI := hundred.Mul(minusDMSmoothed).Div(atr)

	sum := plusDI.Add(minusDI)
	if sum.IsZero() {
		return DMIResult{PlusDI: plusDI, MinusDI: minusDI}
	}
	adx := hundred.Mul(plusDI.Sub(minusDI).Abs()).Div(sum)
	return DMIResult{PlusDI: plusDI, MinusDI: minusDI, ADX: adx}
}

// SupertrendCache bundles the cross-bar state Supertrend needs.
type SupertrendCache struct {
	TR, ATR, Value, Trend *series.Series[decimal.Decimal]
}

// Supertrend is the ATR-banded trend-following overlay. Trend is stored as
// 1 (up) or -1 (down) in cache.Trend; the first bar defaults to up.
func Supertrend(high, low, close *series.Series[decimal.Decimal], length int, mult decimal.Decimal, c SupertrendCache) (value decimal.Decimal, trendUp bool) {
	atr := ATR(high, low, close, length, c.TR, c.ATR)
	hl2 := current(high).Add(current(low)).Div(two)
	upperBand := hl2.Add(mult.Mul(atr))
	lowerBand := hl2.Sub(mult.Mul(atr))

	prevValue := c.Value.GetOr(0, lowerBand)
	prevTrendRaw := c.Trend.GetOr(0, one)
	prevTrendUp := prevTrendRaw.GreaterThan(zero)

	prevClose, ok := atOk(close, 1)
	if !ok {
		c.Value.SetCurrent(lowerBand)
		c.Trend.SetCurrent(one)
		return lowerBand, true
	}

	if prevTrendUp && lowerBand.LessThan(prevValue) {
		lowerBand = prevValue
	}
	if !prevTrendUp && upperBand.GreaterThan(prevValue) {
		upperBand = prevValue
	}

	cur := current(close)
	trendUp = prevTrendUp
	if prevTrendUp && cur.LessThan(lowerBand) {
		trendUp = false
	} else if !prevTrendUp && cur.GreaterThan(upperBand) {
		trendUp = true
	}
	_ = prevClose

	if trendUp {
		value = lowerBand
	} else {
		value = upperBand
	}

	trendEncoded := one
	if !trendUp {
		trendEncoded = one.Neg()
	}
	c.Value.SetCurrent(value)
	c.Trend.SetCurrent(trendEncoded)
	return value, trendUp
}

const (
	sarInitialAF = 0.02
	sarStepAF    = 0.02
	sarMaxAF     = 0.20
)

// SARCache bundles the four scalars the parabolic SAR recurrence carries
// across bars: the SAR value itself, the extreme point, the acceleration
// factor, and the trend direction (encoded 1/-1 in Trend).
type SARCache struct {
	SAR, EP, AF, Trend *series.Series[decimal.Decimal]
}

// SAR is the parabolic stop-and-reverse, maintained as a genuine bar-by-bar
// stateful recurrence (see the design decision on SAR state) rather than a
// bounded walk-back recompute.
func SAR(high, low *series.Series[decimal.Decimal], c SARCache) (value decimal.Decimal, trendUp bool) {
	h, l := current(high), current(low)

	if c.SAR.Len() == 0 {
		initTrendUp := true
		sar := l
		ep := h
		af := decimal.NewFromFloat(sarInitialAF)
		c.SAR.SetCurrent(sar)
		c.EP.SetCurrent(ep)
		c.AF.SetCurrent(af)
		c.Trend.SetCurrent(one)
		return sar, initTrendUp
	}

	prevSAR := c.SAR.GetOr(0, l)
	prevEP := c.EP.GetOr(0, h)
	prevAF := c.AF.GetOr(0, decimal.NewFromFloat(sarInitialAF))
	prevTrendUp := c.Trend.GetOr(0, one).GreaterThan(zero)

	next := prevSAR.Add(prevAF.Mul(prevEP.Sub(prevSAR)))

	var newTrendUp bool
	var ep, af decimal.Decimal

	if prevTrendUp {
		if next.GreaterThan(l) {
			newTrendUp = false
			next = prevEP
			ep = l
			af = decimal.NewFromFloat(sarInitialAF)
		} else {
			newTrendUp = true
			if h.GreaterThan(prevEP) {
				ep = h
				af = numeric.Min(prevAF.Add(decimal.NewFromFloat(sarStepAF)), decimal.NewFromFloat(sarMaxAF))
			} else {
				ep = prevEP
				af = prevAF
			}
		}
	} else {
		if next.LessThan(h) {
			newTrendUp = true
			next = prevEP
			ep = h
			af = decimal.NewFromFloat(sarInitialAF)
		} else {
			newTrendUp = false
			if l.LessThan(prevEP) {
				ep = l
				af = numeric.Min(prevAF.Add(decimal.NewFromFloat(sarStepAF)), decimal.NewFromFloat(sarMaxAF))
			} else {
				ep = prevEP
				af = prevAF
			}
		}
	}

	c.SAR.SetCurrent(next)
	c.EP.SetCurrent(ep)
	c.AF.SetCurrent(af)
	trendEncoded := one
	if !newTrendUp {
		trendEncoded = one.Neg()
	}
	c.Trend.SetCurrent(trendEncoded)
	return next, newTrendUp
}

// MACDResult is the line/signal/histogram triple produced by MACD.
type MACDResult struct {
	MACD, Signal, Histogram decimal.Decimal
}

// MACD is the standard moving-average convergence/divergence: a genuine
// signal line computed as a proper EMA of the MACD line's own history
// (macdLineSeries carries that history; see the design decision on the
// MACD signal line). fastCache/slowCache/signalCache are the three EMA
// recurrence states.
func MACD(source *series.Series[decimal.Decimal], fastLength, slowLength, signalLength int, fastCache, slowCache, signalCache *series.Series[decimal.Decimal], macdLineSeries *series.Series[decimal.Decimal]) MACDResult {
	fastEMA := EMA(source, fastLength, fastCache)
	slowEMA := EMA(source, slowLength, slowCache)
	macd := fastEMA.Sub(slowEMA)
	macdLineSeries.SetCurrent(macd)
	signal := EMA(macdLineSeries, signalLength, signalCache)
	return MACDResult{MACD: macd, Signal: signal, Histogram: macd.Sub(signal)}
}

// MACDSimplified preserves the source's single-bar self-referential
// simplification: the signal line recurses directly off the freshly
// computed MACD scalar each bar rather than off a dedicated, warmed-up
// MACD-line series.
func MACDSimplified(source *series.Series[decimal.Decimal], fastLength, slowLength, signalLength int, fastCache, slowCache, signalCache *series.Series[decimal.Decimal]) MACDResult {
	fastEMA := EMA(source, fastLength, fastCache)
	slowEMA := EMA(source, slowLength, slowCache)
	macd := fastEMA.Sub(slowEMA)

	alpha := two.Div(n(signalLength).Add(one))
	prevSignal := signalCache.GetOr(0, macd)
	signal := alpha.Mul(macd).Add(one.Sub(alpha).Mul(prevSignal))
	signalCache.SetCurrent(signal)

	return MACDResult{MACD: macd, Signal: signal, Histogram: macd.Sub(signal)}
}
