// Package metrics computes performance statistics over a completed run's
// equity curve and trade log.
package metrics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/engine"
	"github.com/ggtechco/finsaas/internal/numeric"
)

var (
	zero    = decimal.Zero
	hundred = decimal.NewFromInt(100)
	sentinelNoDownside = decimal.NewFromInt(999)
)

// defaultPeriodsPerYear is 252 trading days, the default annualization
// factor for Sharpe/Sortino when the caller doesn't supply one.
const defaultPeriodsPerYear = 252

// topDrawdownEpisodeCount is the number of top drawdown episodes a run
// reports; ComputeAll returns none, and the runner passes the same value
// (5) to DrawdownEpisodes itself.
const topDrawdownEpisodeCount = 5

// drawdownFloorPct discards drawdown episodes shallower than this, so flat
// equity noise doesn't pollute the episode list.
var drawdownFloorPct = decimal.NewFromFloat(0.01)

// TotalReturn is the absolute gain/loss in account-currency units.
func TotalReturn(equity []engine.EquityPoint, initialCapital decimal.Decimal) decimal.Decimal {
	if len(equity) == 0 {
		return zero
	}
	return equity[len(equity)-1].Equity.Sub(initialCapital)
}

// TotalReturnPct is TotalReturn as a percentage of initial capital.
func TotalReturnPct(equity []engine.EquityPoint, initialCapital decimal.Decimal) decimal.Decimal {
	if initialCapital.IsZero() {
		return zero
	}
	return TotalReturn(equity, initialCapital).Div(initialCapital).Mul(hundred)
}

// barReturns converts an equity curve into per-bar simple returns.
func barReturns(equity []engine.EquityPoint) []decimal.Decimal {
	if len(equity) < 2 {
		return nil
	}
	returns := make([]decimal.Decimal, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Equity
		if prev.IsZero() {
			returns = append(returns, zero)
			continue
		}
		returns = append(returns, equity[i].Equity.Sub(prev).Div(prev))
	}
	return returns
}

func mean(xs []decimal.Decimal) decimal.Decimal {
	if len(xs) == 0 {
		return zero
	}
	sum := zero
	for _, x := range xs {
		sum = sum.Add(x)
	}
	return sum.Div(decimal.NewFromInt(int64(len(xs))))
}

func stdev(xs []decimal.Decimal) decimal.Decimal {
	if len(xs) < 2 {
		return zero
	}
	m := mean(xs)
	sumSq := zero
	for _, x := range xs {
		d := x.Sub(m)
		sumSq = sumSq.Add(d.Mul(d))
	}
	return numeric.Sqrt(sumSq.Div(decimal.NewFromInt(int64(len(xs)))))
}

// Sharpe is mean(returns)/stdev(returns)*sqrt(periodsPerYear); zero if
// returns has no variance.
func Sharpe(equity []engine.EquityPoint, periodsPerYear int) decimal.Decimal {
	returns := barReturns(equity)
	sd := stdev(returns)
	if sd.IsZero() {
		return zero
	}
	if periodsPerYear <= 0 {
		periodsPerYear = defaultPeriodsPerYear
	}
	return mean(returns).Div(sd).Mul(numeric.Sqrt(decimal.NewFromInt(int64(periodsPerYear))))
}

// Sortino is like Sharpe but the denominator is the downside deviation
// (stdev of negative returns only). Returns the 999 sentinel when there
// are no downside observations and the excess return is positive.
func Sortino(equity []engine.EquityPoint, periodsPerYear int) decimal.Decimal {
	returns := barReturns(equity)
	if len(returns) == 0 {
		return zero
	}
	downside := make([]decimal.Decimal, 0, len(returns))
	for _, r := range returns {
		if r.LessThan(zero) {
			downside = append(downside, r)
		}
	}
	m := mean(returns)
	if len(downside) == 0 {
		if m.GreaterThan(zero) {
			return sentinelNoDownside
		}
		return zero
	}
	dd := stdev(downside)
	if dd.IsZero() {
		return zero
	}
	if periodsPerYear <= 0 {
		periodsPerYear = defaultPeriodsPerYear
	}
	return m.Div(dd).Mul(numeric.Sqrt(decimal.NewFromInt(int64(periodsPerYear))))
}

// MaxDrawdown is the largest peak-to-trough decline in account-currency
// units over the equity curve.
func MaxDrawdown(equity []engine.EquityPoint) decimal.Decimal {
	if len(equity) == 0 {
		return zero
	}
	peak := equity[0].Equity
	maxDD := zero
	for _, p := range equity {
		if p.Equity.GreaterThan(peak) {
			peak = p.Equity
		}
		dd := peak.Sub(p.Equity)
		if dd.GreaterThan(maxDD) {
			maxDD = dd
		}
	}
	return maxDD
}

// MaxDrawdownPct is MaxDrawdown as a percentage of the peak it fell from.
func MaxDrawdownPct(equity []engine.EquityPoint) decimal.Decimal {
	if len(equity) == 0 {
		return zero
	}
	peak := equity[0].Equity
	maxDDPct := zero
	for _, p := range equity {
		if p.Equity.GreaterThan(peak) {
			peak = p.Equity
		}
		if peak.IsZero() {
			continue
		}
		ddPct := peak.Sub(p.Equity).Div(peak).Mul(hundred)
		if ddPct.GreaterThan(maxDDPct) {
			maxDDPct = ddPct
		}
	}
	return maxDDPct
}

// DrawdownEpisode is one peak-to-trough excursion below the running equity
// peak. RecoveryBar is nil when the curve ended still underwater.
type DrawdownEpisode struct {
	Peak         decimal.Decimal
	Trough       decimal.Decimal
	Amount       decimal.Decimal
	Pct          decimal.Decimal
	PeakBar      int
	TroughBar    int
	RecoveryBar  *int
	DurationBars int
}

// DrawdownEpisodes walks the equity curve end to end, tracking every
// peak-to-trough excursion as its own episode (an episode closes once
// equity recovers to the peak it fell from), and returns up to limit of
// them ranked by depth (Pct, descending). Episodes shallower than
// drawdownFloorPct are dropped.
func DrawdownEpisodes(equity []engine.EquityPoint, limit int) []DrawdownEpisode {
	if len(equity) == 0 {
		return nil
	}

	var episodes []DrawdownEpisode
	peak := equity[0].Equity
	peakBar := 0
	underwater := false
	var cur DrawdownEpisode

	for i, p := range equity {
		if p.Equity.GreaterThanOrEqual(peak) {
			if underwater {
				recoveryBar := i
				cur.RecoveryBar = &recoveryBar
				cur.DurationBars = recoveryBar - cur.PeakBar
				episodes = append(episodes, cur)
				underwater = false
			}
			peak = p.Equity
			peakBar = i
			continue
		}

		dd := peak.Sub(p.Equity)
		ddPct := zero
		if peak.GreaterThan(zero) {
			ddPct = dd.Div(peak).Mul(hundred)
		}
		if !underwater {
			underwater = true
			cur = DrawdownEpisode{
				Peak: peak, Trough: p.Equity, Amount: dd, Pct: ddPct,
				PeakBar: peakBar, TroughBar: i,
			}
			continue
		}
		if dd.GreaterThan(cur.Amount) {
			cur.Trough = p.Equity
			cur.Amount = dd
			cur.Pct = ddPct
			cur.TroughBar = i
		}
	}
	if underwater {
		cur.DurationBars = cur.TroughBar - cur.PeakBar
		episodes = append(episodes, cur)
	}

	filtered := episodes[:0]
	for _, ep := range episodes {
		if ep.Pct.GreaterThanOrEqual(drawdownFloorPct) {
			filtered = append(filtered, ep)
		}
	}
	episodes = filtered

	sort.SliceStable(episodes, func(i, j int) bool { return episodes[i].Pct.GreaterThan(episodes[j].Pct) })
	if limit > 0 && len(episodes) > limit {
		episodes = episodes[:limit]
	}
	return episodes
}

// MaxConsecutiveWins is the longest run of back-to-back winning trades, in
// close order.
func MaxConsecutiveWins(trades []engine.TradeResult) int { return maxStreak(trades, true) }

// MaxConsecutiveLosses is the longest run of back-to-back losing (or
// breakeven) trades, in close order.
func MaxConsecutiveLosses(trades []engine.TradeResult) int { return maxStreak(trades, false) }

func maxStreak(trades []engine.TradeResult, wins bool) int {
	best, cur := 0, 0
	for _, t := range trades {
		hit := t.PnL.GreaterThan(zero)
		if hit == wins {
			cur++
			if cur > best {
				best = cur
			}
		} else {
			cur = 0
		}
	}
	return best
}

// Calmar is total return percentage divided by max drawdown percentage;
// zero if there was no drawdown. The return is not annualized, so
// periodsPerYear is not read.
func Calmar(equity []engine.EquityPoint, initialCapital decimal.Decimal, periodsPerYear int) decimal.Decimal {
	ddPct := MaxDrawdownPct(equity)
	if ddPct.IsZero() {
		return zero
	}
	return TotalReturnPct(equity, initialCapital).Div(ddPct)
}

// WinRate is the fraction of trades with positive PnL, as a percentage.
func WinRate(trades []engine.TradeResult) decimal.Decimal {
	if len(trades) == 0 {
		return zero
	}
	wins := 0
	for _, t := range trades {
		if t.PnL.GreaterThan(zero) {
			wins++
		}
	}
	return decimal.NewFromInt(int64(wins)).Div(decimal.NewFromInt(int64(len(trades)))).Mul(hundred)
}

// ProfitFactor is gross profit / gross loss. Returns the 999 sentinel when
// there were no losing trades but there was at least one winning trade.
func ProfitFactor(trades []engine.TradeResult) decimal.Decimal {
	grossProfit, grossLoss := zero, zero
	for _, t := range trades {
		if t.PnL.GreaterThan(zero) {
			grossProfit = grossProfit.Add(t.PnL)
		} else {
			grossLoss = grossLoss.Add(t.PnL.Abs())
		}
	}
	if grossLoss.IsZero() {
		if grossProfit.GreaterThan(zero) {
			return sentinelNoDownside
		}
		return zero
	}
	return grossProfit.Div(grossLoss)
}

// AvgTradePnL is the mean PnL across all closed trades.
func AvgTradePnL(trades []engine.TradeResult) decimal.Decimal {
	if len(trades) == 0 {
		return zero
	}
	sum := zero
	for _, t := range trades {
		sum = sum.Add(t.PnL)
	}
	return sum.Div(decimal.NewFromInt(int64(len(trades))))
}

// AvgWin is the mean PnL across winning trades only.
func AvgWin(trades []engine.TradeResult) decimal.Decimal { return avgWhere(trades, true) }

// AvgLoss is the mean PnL across losing trades only (a non-positive value).
func AvgLoss(trades []engine.TradeResult) decimal.Decimal { return avgWhere(trades, false) }

func avgWhere(trades []engine.TradeResult, wins bool) decimal.Decimal {
	sum := zero
	count := 0
	for _, t := range trades {
		if (wins && t.PnL.GreaterThan(zero)) || (!wins && !t.PnL.GreaterThan(zero)) {
			sum = sum.Add(t.PnL)
			count++
		}
	}
	if count == 0 {
		return zero
	}
	return sum.Div(decimal.NewFromInt(int64(count)))
}

// LargestWin is the single largest winning trade's PnL.
func LargestWin(trades []engine.TradeResult) decimal.Decimal {
	best := zero
	for _, t := range trades {
		if t.PnL.GreaterThan(best) {
			best = t.PnL
		}
	}
	return best
}

// LargestLoss is the single largest losing trade's PnL (a non-positive
// value).
func LargestLoss(trades []engine.TradeResult) decimal.Decimal {
	worst := zero
	for _, t := range trades {
		if t.PnL.LessThan(worst) {
			worst = t.PnL
		}
	}
	return worst
}

// AvgBarsHeld is the mean number of bars each closed trade was open.
func AvgBarsHeld(trades []engine.TradeResult) decimal.Decimal {
	if len(trades) == 0 {
		return zero
	}
	sum := 0
	for _, t := range trades {
		sum += t.BarsHeld()
	}
	return decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(len(trades))))
}

// TotalCommission is the sum of commission paid across all closed trades.
func TotalCommission(trades []engine.TradeResult) decimal.Decimal {
	sum := zero
	for _, t := range trades {
		sum = sum.Add(t.Commission)
	}
	return sum
}

// Expectancy is the average amount won or lost per trade, weighted by win
// rate: winRate*avgWin + (1-winRate)*avgLoss.
func Expectancy(trades []engine.TradeResult) decimal.Decimal {
	if len(trades) == 0 {
		return zero
	}
	wr := WinRate(trades).Div(hundred)
	return wr.Mul(AvgWin(trades)).Add(decimal.NewFromInt(1).Sub(wr).Mul(AvgLoss(trades)))
}

// RecoveryFactor is total return divided by max drawdown; zero if there
// was no drawdown.
func RecoveryFactor(equity []engine.EquityPoint, initialCapital decimal.Decimal) decimal.Decimal {
	dd := MaxDrawdown(equity)
	if dd.IsZero() {
		return zero
	}
	return TotalReturn(equity, initialCapital).Div(dd)
}

// ComputeAll runs every metric over a completed backtest's trade log and
// equity curve, keyed by metric name for the runner's Result.Metrics. The
// optimizer's objective registry does not read this map; its objectives
// call the individual metric functions under their own names.
func ComputeAll(trades []engine.TradeResult, equity []engine.EquityPoint, initialCapital decimal.Decimal) map[string]decimal.Decimal {
	winning, losing := 0, 0
	for _, t := range trades {
		if t.PnL.GreaterThan(zero) {
			winning++
		} else {
			losing++
		}
	}
	return map[string]decimal.Decimal{
		"total_return":      TotalReturn(equity, initialCapital),
		"total_return_pct":  TotalReturnPct(equity, initialCapital),
		"sharpe_ratio":      Sharpe(equity, 0),
		"sortino_ratio":     Sortino(equity, 0),
		"calmar_ratio":      Calmar(equity, initialCapital, 0),
		"max_drawdown":      MaxDrawdown(equity),
		"max_drawdown_pct":  MaxDrawdownPct(equity),
		"win_rate":          WinRate(trades),
		"profit_factor":     ProfitFactor(trades),
		"total_trades":      decimal.NewFromInt(int64(len(trades))),
		"winning_trades":    decimal.NewFromInt(int64(winning)),
		"losing_trades":     decimal.NewFromInt(int64(losing)),
		"avg_trade_pnl":     AvgTradePnL(trades),
		"avg_win":           AvgWin(trades),
		"avg_loss":          AvgLoss(trades),
		"largest_win":       LargestWin(trades),
		"largest_loss":      LargestLoss(trades),
		"avg_bars_held":     AvgBarsHeld(trades),
		"total_commission":  TotalCommission(trades),
		"expectancy":        Expectancy(trades),
		"recovery_factor":   RecoveryFactor(equity, initialCapital),
		"max_consecutive_wins":   decimal.NewFromInt(int64(MaxConsecutiveWins(trades))),
		"max_consecutive_losses": decimal.NewFromInt(int64(MaxConsecutiveLosses(trades))),
	}
}
