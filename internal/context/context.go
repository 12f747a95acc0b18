// Package context implements BarContext: the per-bar environment passed to
// a strategy's OnBar, holding the built-in OHLCV series, the user series
// registry, and the cross-bar indicator state cache.
package context

import (
	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/bar"
	"github.com/ggtechco/finsaas/internal/series"
)

// Committable is satisfied by every *series.Series[T] regardless of T,
// since Commit/Rollback take no type-parameterized arguments. It lets the
// Context batch-commit a registry holding series of different element
// types (decimal series, int64 time series, cached indicator series).
type Committable interface {
	Commit()
	Rollback()
}

// Context is the per-bar state container handed to a strategy's OnBar.
type Context struct {
	barIndex   int
	barState   bar.State
	symbolInfo bar.SymbolInfo
	timeframe  bar.Timeframe
	currentBar *bar.OHLCV

	Open   *series.Series[decimal.Decimal]
	High   *series.Series[decimal.Decimal]
	Low    *series.Series[decimal.Decimal]
	Close  *series.Series[decimal.Decimal]
	Volume *series.Series[decimal.Decimal]
	Time   *series.Series[int64]

	maxBarsBack int
	registry    []Committable
	// indicatorCache holds cross-bar indicator state keyed by
	// "indicator:sourceSeriesName:length" as described in SPEC_FULL.md §9.
	indicatorCache map[string]*series.Series[decimal.Decimal]
}

// New constructs a Context with built-in OHLCV series bounded to
// maxBarsBack (defaults to 5000, matching the engine-wide default).
func New(symbolInfo bar.SymbolInfo, timeframe bar.Timeframe, maxBarsBack int) *Context {
	if maxBarsBack <= 0 {
		maxBarsBack = 5000
	}
	c := &Context{
		barIndex:       -1,
		barState:       bar.StateNew,
		symbolInfo:     symbolInfo,
		timeframe:      timeframe,
		maxBarsBack:    maxBarsBack,
		Open:           series.New[decimal.Decimal]("open", maxBarsBack),
		High:           series.New[decimal.Decimal]("high", maxBarsBack),
		Low:            series.New[decimal.Decimal]("low", maxBarsBack),
		Close:          series.New[decimal.Decimal]("close", maxBarsBack),
		Volume:         series.New[decimal.Decimal]("volume", maxBarsBack),
		Time:           series.New[int64]("time", maxBarsBack),
		indicatorCache: make(map[string]*series.Series[decimal.Decimal]),
	}
	c.registry = []Committable{c.Open, c.High, c.Low, c.Close, c.Volume, c.Time}
	return c
}

// BarIndex is the zero-based index of the bar currently staged.
func (c *Context) BarIndex() int { return c.barIndex }

// BarState reports whether the staged bar has been committed yet.
func (c *Context) BarState() bar.State { return c.barState }

// SymbolInfo is the run's immutable instrument metadata.
func (c *Context) SymbolInfo() bar.SymbolInfo { return c.symbolInfo }

// Timeframe is the run's bar interval tag.
func (c *Context) Timeframe() bar.Timeframe { return c.timeframe }

// CurrentBar is the bar most recently staged via Update, or nil before the
// first bar.
func (c *Context) CurrentBar() *bar.OHLCV { return c.currentBar }

// RegisterSeries adds a user-created series to the batch commit/rollback
// registry.
func (c *Context) RegisterSeries(s Committable) {
	c.registry = append(c.registry, s)
}

// CreateSeries allocates and registers a new decimal user series.
func (c *Context) CreateSeries(name string) *series.Series[decimal.Decimal] {
	s := series.New[decimal.Decimal](name, c.maxBarsBack)
	c.RegisterSeries(s)
	return s
}

// IndicatorCache returns the cached decimal series for key, creating and
// registering it on first use. Indicators that are fundamentally stateful
// across bars (EMA, Supertrend, SAR, OBV, VWAP, RMA-based oscillators) use
// this instead of recomputing from full history each bar.
func (c *Context) IndicatorCache(key string) *series.Series[decimal.Decimal] {
	if s, ok := c.indicatorCache[key]; ok {
		return s
	}
	s := series.New[decimal.Decimal](key, c.maxBarsBack)
	c.indicatorCache[key] = s
	c.RegisterSeries(s)
	return s
}

// Update stages a new bar's OHLCV into the built-in series. Called by the
// event loop at the start of each bar, before the strategy runs.
func (c *Context) Update(b bar.OHLCV, barIndex int) {
	c.currentBar = &b
	c.barIndex = barIndex
	c.barState = bar.StateNew

	c.Open.SetCurrent(b.Open)
	c.High.SetCurrent(b.High)
	c.Low.SetCurrent(b.Low)
	c.Close.SetCurrent(b.Close)
	c.Volume.SetCurrent(b.Volume)
	c.Time.SetCurrent(b.Timestamp.Unix())
}

// CommitAll commits every registered series, finalizing this bar's staged
// values into history.
func (c *Context) CommitAll() {
	for _, s := range c.registry {
		s.Commit()
	}
	c.barState = bar.StateConfirmed
}

// RollbackAll discards every registered series' staged value. Called when
// the strategy returns a recoverable error for the current bar.
func (c *Context) RollbackAll() {
	for _, s := range c.registry {
		s.Rollback()
	}
}
