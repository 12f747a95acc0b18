package engine_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ggtechco/finsaas/internal/bar"
	"github.com/ggtechco/finsaas/internal/context"
	"github.com/ggtechco/finsaas/internal/engine"
	"github.com/ggtechco/finsaas/internal/feed"
	"github.com/ggtechco/finsaas/internal/strategy"
)

// enterOnceStrategy submits exactly one market entry on the first bar it
// sees, to pin down when that order actually fills.
type enterOnceStrategy struct {
	entered bool
}

func (s *enterOnceStrategy) OnInit(ctx *context.Context) {}

func (s *enterOnceStrategy) OnBar(ctx *context.Context, submit strategy.OrderSubmitter) {
	if s.entered {
		return
	}
	s.entered = true
	_ = submit.EntryMarket(bar.Long, "enter")
}

func (s *enterOnceStrategy) Parameters() []strategy.ParamDescriptor { return nil }
func (s *enterOnceStrategy) SetParameters(map[string]any) error     { return nil }

func TestLoopNoLookAheadOrderFillsNextBarOpen(t *testing.T) {
	bars := []bar.OHLCV{
		candle(100, 101, 99, 100),
		candle(200, 205, 195, 202), // the order submitted on bar 0 must fill here, at open=200
		candle(300, 305, 295, 302),
	}
	source := feed.NewInMemorySource("BTCUSD", bar.D1, bars)

	ctx := context.New(bar.DefaultSymbolInfo("BTCUSD"), bar.D1, 100)
	broker := engine.NewBroker(engine.ZeroCommission{}, engine.ZeroSlippage{})
	portfolio := engine.NewPortfolio(zap.NewNop(), decimal.NewFromInt(10000))
	strat := &enterOnceStrategy{}

	loop := engine.NewLoop(ctx, source, broker, portfolio, strat, zap.NewNop())
	if err := loop.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	trades := portfolio.Trades()
	if len(trades) != 1 {
		t.Fatalf("expected the position opened on bar 0 to be force-closed at the end, got %d trades", len(trades))
	}
	if !trades[0].EntryPrice.Equal(decimal.NewFromInt(200)) {
		t.Errorf("entry should fill at bar 1's open (200), got %s", trades[0].EntryPrice)
	}
	if trades[0].EntryBar != 1 {
		t.Errorf("entry should be recorded against bar index 1, got %d", trades[0].EntryBar)
	}
}

func TestLoopClosesOpenPositionsAtRunEnd(t *testing.T) {
	bars := []bar.OHLCV{
		candle(100, 101, 99, 100),
		candle(101, 102, 100, 101),
	}
	source := feed.NewInMemorySource("BTCUSD", bar.D1, bars)
	ctx := context.New(bar.DefaultSymbolInfo("BTCUSD"), bar.D1, 100)
	broker := engine.NewBroker(engine.ZeroCommission{}, engine.ZeroSlippage{})
	portfolio := engine.NewPortfolio(zap.NewNop(), decimal.NewFromInt(10000))
	strat := &enterOnceStrategy{}

	loop := engine.NewLoop(ctx, source, broker, portfolio, strat, zap.NewNop())
	if err := loop.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	if portfolio.Position("enter") != nil {
		t.Error("no position should remain open once the run completes")
	}
	if len(portfolio.Trades()) != 1 {
		t.Fatalf("expected exactly one closed trade, got %d", len(portfolio.Trades()))
	}
}
