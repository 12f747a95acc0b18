package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ggtechco/finsaas/internal/bar"
	"github.com/ggtechco/finsaas/internal/context"
	"github.com/ggtechco/finsaas/internal/strategy"
)

// BarSource is the external iterator of OHLCV bars feeding a run. Both
// InMemorySource and CSVSource (internal/feed) satisfy it structurally.
type BarSource interface {
	Symbol() string
	Timeframe() bar.Timeframe
	Len() int
	Bar(i int) bar.OHLCV
}

// Loop drives a single Strategy against a single BarSource through the
// fixed six-step per-bar pipeline: commit the previous bar, stage the new
// one, match resting orders, apply fills, run the strategy (rolling the
// bar back and stopping the run on a strategy error), then drain newly
// submitted orders into the broker's pending queue for the *next* bar.
type Loop struct {
	Context   *context.Context
	Source    BarSource
	Broker    *Broker
	Portfolio *Portfolio
	Strategy  strategy.Strategy
	Logger    *zap.Logger
}

// NewLoop wires a run's components together.
func NewLoop(ctx *context.Context, source BarSource, broker *Broker, portfolio *Portfolio, strat strategy.Strategy, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{Context: ctx, Source: source, Broker: broker, Portfolio: portfolio, Strategy: strat, Logger: logger}
}

// Run executes every bar in Source and force-closes any still-open
// position once the source is exhausted. A strategy error rolls that bar
// back and ends the run with the error; the trades and equity recorded up
// to the previous bar stay in Portfolio, and open positions are not
// force-closed.
func (l *Loop) Run() error {
	l.Strategy.OnInit(l.Context)
	symbol := l.Source.Symbol()

	var lastOHLCV bar.OHLCV
	for i := 0; i < l.Source.Len(); i++ {
		if i > 0 {
			l.Context.CommitAll()
		}

		ohlcv := l.Source.Bar(i)
		lastOHLCV = ohlcv
		l.Context.Update(ohlcv, i)

		for _, fill := range l.Broker.MatchAgainst(symbol, ohlcv, i) {
			l.Portfolio.ApplyFill(fill)
			l.Logger.Debug("fill_applied",
				zap.String("order_id", fill.OrderID), zap.String("symbol", fill.Symbol),
				zap.String("price", fill.Price.String()), zap.String("qty", fill.Quantity.String()))
		}

		submitter := &runnerSubmitter{ctx: l.Context, symbol: symbol, portfolio: l.Portfolio}
		if err := l.runStrategy(submitter); err != nil {
			l.Logger.Error("strategy_error", zap.Int("bar_index", i), zap.Error(err))
			l.Context.RollbackAll()
			return err
		}

		for _, order := range submitter.queued {
			refPrice := ohlcv.Close
			if err := l.Broker.Submit(order, l.Portfolio, refPrice); err != nil {
				l.Logger.Warn("order_rejected", zap.String("order_id", order.ID), zap.Error(err))
			} else {
				l.Logger.Debug("order_submitted", zap.String("order_id", order.ID), zap.String("tag", order.Tag))
			}
		}

		prices := map[string]decimal.Decimal{symbol: ohlcv.Close}
		l.Portfolio.RecordEquity(i, ohlcv.Timestamp, prices)
	}

	if l.Source.Len() > 0 {
		l.Portfolio.CloseAll(l.Source.Len()-1, lastOHLCV.Timestamp, map[string]decimal.Decimal{symbol: lastOHLCV.Close})
	}
	l.Logger.Info("run_complete", zap.Int("bars", l.Source.Len()), zap.Int("trades", len(l.Portfolio.Trades())))
	return nil
}

// runStrategy invokes the strategy's OnBar, converting a panic into a
// StrategyError that Run returns after rolling the bar back.
func (l *Loop) runStrategy(submitter *runnerSubmitter) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &StrategyError{BarIndex: l.Context.BarIndex(), Err: fmt.Errorf("%v", r), Recovered: true}
		}
	}()
	l.Strategy.OnBar(l.Context, submitter)
	return nil
}

// runnerSubmitter is the run loop's OrderSubmitter: it queues orders
// during a strategy's OnBar and leaves draining them into the broker to
// the loop, so orders submitted on bar N are only ever matched starting
// at bar N+1.
type runnerSubmitter struct {
	ctx       *context.Context
	symbol    string
	portfolio *Portfolio
	queued    []*Order
}

func (s *runnerSubmitter) Entry(side bar.Side, qty decimal.Decimal, tag string) error {
	s.queued = append(s.queued, NewOrder(s.symbol, side, bar.Market, bar.Entry, qty, tag))
	return nil
}

func (s *runnerSubmitter) EntryMarket(side bar.Side, tag string) error {
	price, ok := s.ctx.Close.Current()
	if !ok || price.IsZero() {
		return fmt.Errorf("cannot size entry: no current price available")
	}
	cash := decimal.Zero
	if s.portfolio != nil {
		cash = s.portfolio.Cash()
	}
	qty := cash.Mul(decimal.NewFromFloat(0.99)).Div(price)
	if qty.IsNegative() {
		qty = decimal.Zero
	}
	return s.Entry(side, qty, tag)
}

func (s *runnerSubmitter) Exit(tag string) error {
	return s.closeOpenPosition(bar.Exit, tag)
}

func (s *runnerSubmitter) ClosePosition(tag string) error {
	return s.closeOpenPosition(bar.Close, tag)
}

// closeOpenPosition queues an order sized and sided to exactly unwind the
// position currently open under tag, if any. Positions are looked up by
// tag, not symbol: this is the same identifier the strategy used to open
// the position.
func (s *runnerSubmitter) closeOpenPosition(action bar.OrderAction, tag string) error {
	if s.portfolio == nil {
		return fmt.Errorf("no portfolio wired to submitter")
	}
	pos := s.portfolio.Position(tag)
	if pos == nil {
		return fmt.Errorf("no open position tagged %q to close", tag)
	}
	s.queued = append(s.queued, NewOrder(s.symbol, pos.Side, bar.Market, action, pos.Quantity, tag))
	return nil
}

// CloseAll queues a close order for every currently open position. Each
// order keeps its position's own tag so the close resolves against the
// right position, the same as closing each tag individually; the tag
// argument here is unused, matching close_all's blanket semantics.
func (s *runnerSubmitter) CloseAll(string) error {
	if s.portfolio == nil {
		return fmt.Errorf("no portfolio wired to submitter")
	}
	for _, openTag := range s.portfolio.OpenTags() {
		pos := s.portfolio.Position(openTag)
		if pos == nil {
			continue
		}
		s.queued = append(s.queued, NewOrder(pos.Symbol, pos.Side, bar.Market, bar.Close, pos.Quantity, openTag))
	}
	return nil
}
