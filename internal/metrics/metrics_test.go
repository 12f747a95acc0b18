package metrics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/engine"
	"github.com/ggtechco/finsaas/internal/metrics"
)

func equityPoint(barIndex int, equity float64) engine.EquityPoint {
	return engine.EquityPoint{BarIndex: barIndex, Timestamp: time.Unix(int64(barIndex), 0), Equity: decimal.NewFromFloat(equity)}
}

func TestTotalReturnPct(t *testing.T) {
	curve := []engine.EquityPoint{equityPoint(0, 10000), equityPoint(1, 11000)}
	got := metrics.TotalReturnPct(curve, decimal.NewFromInt(10000))
	if !got.Equal(decimal.NewFromInt(10)) {
		t.Errorf("want 10%%, got %s", got)
	}
}

func TestMaxDrawdownPct(t *testing.T) {
	curve := []engine.EquityPoint{
		equityPoint(0, 10000),
		equityPoint(1, 12000), // new peak
		equityPoint(2, 9000),  // 25% off peak
		equityPoint(3, 9500),
	}
	got := metrics.MaxDrawdownPct(curve)
	want := decimal.NewFromFloat(25)
	if !got.Equal(want) {
		t.Errorf("want %s, got %s", want, got)
	}
}

func TestMaxDrawdownZeroWhenMonotonicallyRising(t *testing.T) {
	curve := []engine.EquityPoint{equityPoint(0, 10000), equityPoint(1, 11000), equityPoint(2, 12000)}
	if !metrics.MaxDrawdown(curve).IsZero() {
		t.Errorf("want zero drawdown, got %s", metrics.MaxDrawdown(curve))
	}
}

func closedTrade(pnl float64) engine.TradeResult {
	return engine.TradeResult{PnL: decimal.NewFromFloat(pnl)}
}

func TestWinRate(t *testing.T) {
	trades := []engine.TradeResult{closedTrade(100), closedTrade(-50), closedTrade(50), closedTrade(-10)}
	got := metrics.WinRate(trades)
	if !got.Equal(decimal.NewFromInt(50)) {
		t.Errorf("want 50%%, got %s", got)
	}
}

func TestProfitFactor(t *testing.T) {
	trades := []engine.TradeResult{closedTrade(200), closedTrade(-100)}
	got := metrics.ProfitFactor(trades)
	if !got.Equal(decimal.NewFromInt(2)) {
		t.Errorf("want 2, got %s", got)
	}
}

func TestProfitFactorSentinelWhenNoLosses(t *testing.T) {
	trades := []engine.TradeResult{closedTrade(100), closedTrade(50)}
	got := metrics.ProfitFactor(trades)
	if !got.Equal(decimal.NewFromInt(999)) {
		t.Errorf("want the 999 sentinel, got %s", got)
	}
}

func TestProfitFactorZeroWhenNoTrades(t *testing.T) {
	got := metrics.ProfitFactor(nil)
	if !got.IsZero() {
		t.Errorf("want zero, got %s", got)
	}
}

func TestSortinoSentinelWhenNoDownside(t *testing.T) {
	curve := []engine.EquityPoint{equityPoint(0, 10000), equityPoint(1, 10100), equityPoint(2, 10200)}
	got := metrics.Sortino(curve, 252)
	if !got.Equal(decimal.NewFromInt(999)) {
		t.Errorf("want the 999 sentinel, got %s", got)
	}
}

func TestSortinoZeroWhenFlat(t *testing.T) {
	curve := []engine.EquityPoint{equityPoint(0, 10000), equityPoint(1, 10000), equityPoint(2, 10000)}
	got := metrics.Sortino(curve, 252)
	if !got.IsZero() {
		t.Errorf("want zero sortino on a flat curve, got %s", got)
	}
}

func TestExpectancy(t *testing.T) {
	trades := []engine.TradeResult{closedTrade(100), closedTrade(-50)}
	got := metrics.Expectancy(trades)
	// winRate 50%, avgWin 100, avgLoss -50: 0.5*100 + 0.5*-50 = 25
	want := decimal.NewFromInt(25)
	if !got.Equal(want) {
		t.Errorf("want %s, got %s", want, got)
	}
}

func TestRecoveryFactorZeroWhenNoDrawdown(t *testing.T) {
	curve := []engine.EquityPoint{equityPoint(0, 10000), equityPoint(1, 11000)}
	if !metrics.RecoveryFactor(curve, decimal.NewFromInt(10000)).IsZero() {
		t.Error("want zero recovery factor when there was no drawdown")
	}
}

func TestAvgBarsHeld(t *testing.T) {
	trades := []engine.TradeResult{
		{EntryBar: 0, ExitBar: 4},
		{EntryBar: 2, ExitBar: 4},
	}
	got := metrics.AvgBarsHeld(trades)
	if !got.Equal(decimal.NewFromInt(3)) {
		t.Errorf("want avg bars held 3, got %s", got)
	}
}

func TestComputeAllPopulatesEveryKey(t *testing.T) {
	curve := []engine.EquityPoint{equityPoint(0, 10000), equityPoint(1, 10500)}
	trades := []engine.TradeResult{closedTrade(500)}
	all := metrics.ComputeAll(trades, curve, decimal.NewFromInt(10000))

	for _, key := range []string{
		"total_return", "total_return_pct", "sharpe_ratio", "sortino_ratio", "calmar_ratio",
		"max_drawdown", "max_drawdown_pct", "win_rate", "profit_factor", "total_trades",
		"winning_trades", "losing_trades", "avg_trade_pnl", "avg_win", "avg_loss",
		"largest_win", "largest_loss", "avg_bars_held", "total_commission", "expectancy", "recovery_factor",
		"max_consecutive_wins", "max_consecutive_losses",
	} {
		if _, ok := all[key]; !ok {
			t.Errorf("ComputeAll missing key %q", key)
		}
	}
	if !all["total_trades"].Equal(decimal.NewFromInt(1)) {
		t.Errorf("want total_trades 1, got %s", all["total_trades"])
	}
}

func TestMaxConsecutiveWinsAndLosses(t *testing.T) {
	trades := []engine.TradeResult{
		closedTrade(10), closedTrade(10), closedTrade(-5),
		closedTrade(-5), closedTrade(-5), closedTrade(10),
	}
	if got := metrics.MaxConsecutiveWins(trades); got != 2 {
		t.Errorf("want 2 consecutive wins, got %d", got)
	}
	if got := metrics.MaxConsecutiveLosses(trades); got != 3 {
		t.Errorf("want 3 consecutive losses, got %d", got)
	}
}

func TestDrawdownEpisodesDetectsPeakToTroughToRecovery(t *testing.T) {
	curve := []engine.EquityPoint{
		equityPoint(0, 10000),
		equityPoint(1, 12000), // new peak
		equityPoint(2, 9000),  // trough: 25% off peak
		equityPoint(3, 12000), // recovers
		equityPoint(4, 13000), // new peak
		equityPoint(5, 12870), // shallow dip, 1% off peak
	}
	episodes := metrics.DrawdownEpisodes(curve, 5)
	if len(episodes) != 2 {
		t.Fatalf("want 2 episodes, got %d: %+v", len(episodes), episodes)
	}
	first := episodes[0]
	if !first.Pct.Equal(decimal.NewFromInt(25)) {
		t.Errorf("want the 25%% episode ranked first, got %s", first.Pct)
	}
	if first.PeakBar != 1 || first.TroughBar != 2 {
		t.Errorf("want peak_bar=1 trough_bar=2, got peak_bar=%d trough_bar=%d", first.PeakBar, first.TroughBar)
	}
	if first.RecoveryBar == nil || *first.RecoveryBar != 3 {
		t.Fatalf("want recovery_bar=3, got %+v", first.RecoveryBar)
	}
	if first.DurationBars != 2 {
		t.Errorf("want duration_bars=2, got %d", first.DurationBars)
	}
}

func TestDrawdownEpisodesOngoingHasNoRecoveryBar(t *testing.T) {
	curve := []engine.EquityPoint{
		equityPoint(0, 10000),
		equityPoint(1, 8000),
	}
	episodes := metrics.DrawdownEpisodes(curve, 5)
	if len(episodes) != 1 {
		t.Fatalf("want 1 episode, got %d", len(episodes))
	}
	if episodes[0].RecoveryBar != nil {
		t.Errorf("want no recovery bar for a still-open drawdown, got %+v", episodes[0].RecoveryBar)
	}
}

func TestDrawdownEpisodesFloorsShallowDips(t *testing.T) {
	curve := []engine.EquityPoint{
		equityPoint(0, 10000),
		equityPoint(1, 9999.5), // 0.005% dip, below the 0.01% floor
		equityPoint(2, 10000),
	}
	episodes := metrics.DrawdownEpisodes(curve, 5)
	if len(episodes) != 0 {
		t.Errorf("want shallow dips floored out, got %+v", episodes)
	}
}
