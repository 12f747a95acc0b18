package context

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/bar"
)

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func TestUpdateStagesOHLCV(t *testing.T) {
	c := New(bar.DefaultSymbolInfo("BTCUSD"), bar.H1, 100)
	c.Update(bar.OHLCV{
		Timestamp: time.Unix(1000, 0),
		Open:      dec(100), High: dec(110), Low: dec(90), Close: dec(105), Volume: dec(1),
	}, 0)

	v, ok := c.Close.Current()
	if !ok || !v.Equal(dec(105)) {
		t.Fatalf("Close.Current() = %v, %v", v, ok)
	}
	if c.BarIndex() != 0 {
		t.Fatalf("BarIndex() = %d, want 0", c.BarIndex())
	}
}

func TestCommitAllThenRollbackAllInvariant(t *testing.T) {
	c := New(bar.DefaultSymbolInfo("BTCUSD"), bar.H1, 100)
	c.Update(bar.OHLCV{Timestamp: time.Unix(0, 0), Open: dec(1), High: dec(1), Low: dec(1), Close: dec(1), Volume: dec(1)}, 0)
	c.CommitAll()

	c.Update(bar.OHLCV{Timestamp: time.Unix(1, 0), Open: dec(2), High: dec(2), Low: dec(2), Close: dec(2), Volume: dec(1)}, 1)
	c.RollbackAll()

	// No committed state should reflect bar 1.
	v, _ := c.Close.Get(0)
	if !v.Equal(dec(1)) {
		t.Fatalf("after rollback, Close[0] = %s, want 1 (bar 0's committed value)", v)
	}
}

func TestIndicatorCacheReuse(t *testing.T) {
	c := New(bar.DefaultSymbolInfo("BTCUSD"), bar.H1, 100)
	s1 := c.IndicatorCache("ema:close:9")
	s2 := c.IndicatorCache("ema:close:9")
	if s1 != s2 {
		t.Fatal("IndicatorCache should return the same series for the same key")
	}
}
