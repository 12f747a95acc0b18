package engine

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ggtechco/finsaas/internal/bar"
)

// defaultTag is substituted for a fill's tag when the strategy left it
// blank, so every position still has a stable lookup key.
const defaultTag = "default"

// Portfolio tracks cash, the open positions (one per tag, potentially many
// per symbol), the closed trade log, and the equity curve.
type Portfolio struct {
	logger         *zap.Logger
	cash           decimal.Decimal
	initialCapital decimal.Decimal
	positions      map[string]*Position // tag -> open position
	trades         []TradeResult
	equityCurve    []EquityPoint
	peakEquity     decimal.Decimal
}

// NewPortfolio starts a portfolio with initialCapital cash and no
// positions.
func NewPortfolio(logger *zap.Logger, initialCapital decimal.Decimal) *Portfolio {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Portfolio{
		logger:         logger,
		cash:           initialCapital,
		initialCapital: initialCapital,
		positions:      make(map[string]*Position),
		peakEquity:     initialCapital,
	}
}

// Cash is the portfolio's currently available (uninvested) cash.
func (p *Portfolio) Cash() decimal.Decimal { return p.cash }

// PeakEquity is the highest equity value observed so far.
func (p *Portfolio) PeakEquity() decimal.Decimal { return p.peakEquity }

// Position returns the open position tracked under tag, or nil if none is
// open. An empty tag resolves to the default tag, matching ApplyFill.
func (p *Portfolio) Position(tag string) *Position { return p.positions[normalizeTag(tag)] }

// OpenTags is every tag with a currently open position, in no particular
// order.
func (p *Portfolio) OpenTags() []string {
	tags := make([]string, 0, len(p.positions))
	for tag := range p.positions {
		tags = append(tags, tag)
	}
	return tags
}

// Trades is the closed trade log, in close order.
func (p *Portfolio) Trades() []TradeResult { return p.trades }

// EquityCurve is the recorded equity samples, one per processed bar.
func (p *Portfolio) EquityCurve() []EquityPoint { return p.equityCurve }

// Equity is the last recorded mark-to-market portfolio value, or the
// initial capital if no bar has been recorded yet.
func (p *Portfolio) Equity() decimal.Decimal {
	if len(p.equityCurve) == 0 {
		return p.initialCapital
	}
	return p.equityCurve[len(p.equityCurve)-1].Equity
}

func normalizeTag(tag string) string {
	if tag == "" {
		return defaultTag
	}
	return tag
}

// ApplyFill dispatches a fill to the appropriate entry/exit/close handling
// and adjusts cash and commission. Positions are tracked by tag, not
// symbol, so two differently-tagged fills on the same symbol open distinct
// positions.
func (p *Portfolio) ApplyFill(fill *Fill) {
	switch fill.Action {
	case bar.Entry:
		p.applyEntry(fill)
	case bar.Exit, bar.Close:
		p.applyExit(fill)
	}
}

func (p *Portfolio) applyEntry(fill *Fill) {
	tag := normalizeTag(fill.Tag)
	existing := p.positions[tag]
	if existing != nil {
		if existing.Side == fill.Side {
			p.logger.Warn("entry fill ignored: position already open on this tag and side",
				zap.String("symbol", fill.Symbol), zap.String("tag", tag))
			return
		}
		// Opposite side under the same tag: close the existing position, then
		// reopen fresh under that tag.
		p.closePosition(tag, existing, fill.Price, fill.BarIndex, fill.Timestamp, fill.Tag)
	}

	p.positions[tag] = &Position{
		Symbol:     fill.Symbol,
		Side:       fill.Side,
		Quantity:   fill.Quantity,
		EntryPrice: fill.Price,
		EntryBar:   fill.BarIndex,
		EntryTime:  fill.Timestamp,
		EntryTag:   tag,
		Status:     bar.PositionOpen,
		Commission: fill.Commission,
	}
	p.cash = p.cash.Sub(fill.Quantity.Mul(fill.Price)).Sub(fill.Commission)
}

func (p *Portfolio) applyExit(fill *Fill) {
	tag := normalizeTag(fill.Tag)
	pos := p.positions[tag]
	if pos == nil {
		p.logger.Warn("exit fill ignored: no open position under this tag",
			zap.String("symbol", fill.Symbol), zap.String("tag", tag))
		return
	}
	pos.Commission = pos.Commission.Add(fill.Commission)
	p.cash = p.cash.Sub(fill.Commission)
	p.closePosition(tag, pos, fill.Price, fill.BarIndex, fill.Timestamp, fill.Tag)
}

// closePosition realizes the position tracked under tag at exitPrice,
// records the trade, and returns cash to the ledger.
func (p *Portfolio) closePosition(tag string, pos *Position, exitPrice decimal.Decimal, barIndex int, ts time.Time, exitTag string) {
	pos.ExitPrice = exitPrice
	pos.ExitBar = barIndex
	pos.ExitTime = ts
	pos.ExitTag = exitTag
	pos.Status = bar.PositionClosed

	proceeds := pos.Quantity.Mul(exitPrice)
	if pos.Side == bar.Short {
		// Shorting: entry debited qty*entryPrice as collateral; the exit returns
		// that collateral plus the short's gain (entry-exit)*qty.
		proceeds = pos.Quantity.Mul(pos.EntryPrice.Mul(decimal.NewFromInt(2)).Sub(exitPrice))
	}
	p.cash = p.cash.Add(proceeds)

	p.trades = append(p.trades, TradeResult{
		Symbol:     pos.Symbol,
		Side:       pos.Side,
		Quantity:   pos.Quantity,
		EntryPrice: pos.EntryPrice,
		ExitPrice:  pos.ExitPrice,
		EntryBar:   pos.EntryBar,
		ExitBar:    pos.ExitBar,
		EntryTime:  pos.EntryTime,
		ExitTime:   pos.ExitTime,
		EntryTag:   pos.EntryTag,
		ExitTag:    pos.ExitTag,
		PnL:        pos.RealizedPnL(),
		Commission: pos.Commission,
	})
	delete(p.positions, tag)
}

// positionValue sums the mark-to-market value of every open position at
// prices, keyed by symbol.
func (p *Portfolio) positionValue(prices map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, pos := range p.positions {
		price, ok := prices[pos.Symbol]
		if !ok {
			continue
		}
		total = total.Add(pos.Value(price))
	}
	return total
}

// RecordEquity marks every open position to prices and appends an equity
// sample for this bar, including the position value and drawdown off the
// running peak.
func (p *Portfolio) RecordEquity(barIndex int, ts time.Time, prices map[string]decimal.Decimal) {
	posValue := p.positionValue(prices)
	equity := p.cash.Add(posValue)
	if equity.GreaterThan(p.peakEquity) {
		p.peakEquity = equity
	}
	drawdown := decimal.Zero
	if p.peakEquity.GreaterThan(decimal.Zero) {
		drawdown = p.peakEquity.Sub(equity).Div(p.peakEquity)
	}
	p.equityCurve = append(p.equityCurve, EquityPoint{
		BarIndex:      barIndex,
		Timestamp:     ts,
		Equity:        equity,
		Cash:          p.cash,
		PositionValue: posValue,
		Drawdown:      drawdown,
	})
}

// CloseAll force-closes every open position (across every tag) at prices,
// tagging each exit "backtest_end". Called once after the run loop's last
// bar.
func (p *Portfolio) CloseAll(barIndex int, ts time.Time, prices map[string]decimal.Decimal) {
	tags := p.OpenTags()
	for _, tag := range tags {
		pos := p.positions[tag]
		price, ok := prices[pos.Symbol]
		if !ok {
			continue
		}
		p.closePosition(tag, pos, price, barIndex, ts, "backtest_end")
	}
}
