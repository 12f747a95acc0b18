package indicator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/series"
)

// Highest is the maximum value over the last length bars.
func Highest(source *series.Series[decimal.Decimal], length int) decimal.Decimal {
	result := current(source)
	for i := 1; i < length; i++ {
		v, ok := atOk(source, i)
		if !ok {
			break
		}
		if v.GreaterThan(result) {
			result = v
		}
	}
	return result
}

// Lowest is the minimum value over the last length bars.
func Lowest(source *series.Series[decimal.Decimal], length int) decimal.Decimal {
	result := current(source)
	for i := 1; i < length; i++ {
		v, ok := atOk(source, i)
		if !ok {
			break
		}
		if v.LessThan(result) {
			result = v
		}
	}
	return result
}

// HighestBars is the negative bar offset (0=current) to the highest value
// over the last length bars.
func HighestBars(source *series.Series[decimal.Decimal], length int) int {
	best := current(source)
	bestIdx := 0
	for i := 1; i < length; i++ {
		v, ok := atOk(source, i)
		if !ok {
			break
		}
		if v.GreaterThan(best) {
			best = v
			bestIdx = i
		}
	}
	return -bestIdx
}

// LowestBars is the negative bar offset to the lowest value over the last
// length bars.
func LowestBars(source *series.Series[decimal.Decimal], length int) int {
	best := current(source)
	bestIdx := 0
	for i := 1; i < length; i++ {
		v, ok := atOk(source, i)
		if !ok {
			break
		}
		if v.LessThan(best) {
			best = v
			bestIdx = i
		}
	}
	return -bestIdx
}

// Stdev is the population standard deviation over the last length bars.
func Stdev(source *series.Series[decimal.Decimal], length int) decimal.Decimal {
	mean := SMA(source, length)
	if mean.IsZero() && source.Len() < length {
		return zero
	}
	sumSq := zero
	count := 0
	for i := 0; i < length; i++ {
		v, ok := atOk(source, i)
		if !ok {
			break
		}
		diff := v.Sub(mean)
		sumSq = sumSq.Add(diff.Mul(diff))
		count++
	}
	if count <= 1 {
		return zero
	}
	return sqrt(sumSq.Div(n(count)))
}

// Variance is Stdev squared.
func Variance(source *series.Series[decimal.Decimal], length int) decimal.Decimal {
	sd := Stdev(source, length)
	return sd.Mul(sd)
}

// Median is the median value over the last length bars.
func Median(source *series.Series[decimal.Decimal], length int) decimal.Decimal {
	if length <= 0 || source.Len() < length-1 {
		return zero
	}
	vals := make([]decimal.Decimal, 0, length)
	for i := 0; i < length; i++ {
		v, ok := atOk(source, i)
		if !ok {
			break
		}
		vals = append(vals, v)
	}
	if len(vals) == 0 {
		return zero
	}
	sort.Slice(vals, func(i, j int) bool { return vals[i].LessThan(vals[j]) })
	m := len(vals)
	if m%2 == 1 {
		return vals[m/2]
	}
	return vals[m/2-1].Add(vals[m/2]).Div(two)
}

// Correlation is the Pearson correlation coefficient between two series
// over the last length bars.
func Correlation(a, b *series.Series[decimal.Decimal], length int) decimal.Decimal {
	if length <= 0 || a.Len() < length-1 || b.Len() < length-1 {
		return zero
	}
	sumX, sumY, sumXY, sumX2, sumY2 := zero, zero, zero, zero, zero
	for i := 0; i < length; i++ {
		x, ok1 := atOk(a, i)
		y, ok2 := atOk(b, i)
		if !ok1 || !ok2 {
			return zero
		}
		sumX = sumX.Add(x)
		sumY = sumY.Add(y)
		sumXY = sumXY.Add(x.Mul(y))
		sumX2 = sumX2.Add(x.Mul(x))
		sumY2 = sumY2.Add(y.Mul(y))
	}
	nn := n(length)
	num := nn.Mul(sumXY).Sub(sumX.Mul(sumY))
	denomSq := nn.Mul(sumX2).Sub(sumX.Mul(sumX)).Mul(nn.Mul(sumY2).Sub(sumY.Mul(sumY)))
	if denomSq.Cmp(zero) <= 0 {
		return zero
	}
	denom := sqrt(denomSq)
	if denom.IsZero() {
		return zero
	}
	return num.Div(denom)
}

// Linreg is the least-squares linear regression value, evaluated at the
// most recent point minus offset.
func Linreg(source *series.Series[decimal.Decimal], length, offset int) decimal.Decimal {
	if length <= 0 || source.Len() < length-1 {
		return zero
	}
	nn := n(length)
	sumX, sumY, sumXY, sumX2 := zero, zero, zero, zero
	for i := 0; i < length; i++ {
		x := n(length - 1 - i)
		y, ok := atOk(source, i)
		if !ok {
			return zero
		}
		sumX = sumX.Add(x)
		sumY = sumY.Add(y)
		sumXY = sumXY.Add(x.Mul(y))
		sumX2 = sumX2.Add(x.Mul(x))
	}
	denom := nn.Mul(sumX2).Sub(sumX.Mul(sumX))
	if denom.IsZero() {
		return sumY.Div(nn)
	}
	m := nn.Mul(sumXY).Sub(sumX.Mul(sumY)).Div(denom)
	b := sumY.Sub(m.Mul(sumX)).Div(nn)
	evalX := n(length - 1 - offset)
	return m.Mul(evalX).Add(b)
}

// Change is the difference between the current value and the value length
// bars ago.
func Change(source *series.Series[decimal.Decimal], length int) decimal.Decimal {
	prev, ok := atOk(source, length)
	if !ok {
		return zero
	}
	return current(source).Sub(prev)
}
