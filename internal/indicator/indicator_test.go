package indicator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/series"
)

func push(t *testing.T, s *series.Series[decimal.Decimal], vals ...float64) {
	t.Helper()
	for _, v := range vals {
		s.SetCurrent(decimal.NewFromFloat(v))
		s.Commit()
	}
}

func TestSMAKnownValues(t *testing.T) {
	s := series.New[decimal.Decimal]("close", 100)
	push(t, s, 1, 2, 3, 4, 5)
	got := SMA(s, 5)
	want := decimal.NewFromFloat(3)
	if !got.Equal(want) {
		t.Fatalf("SMA = %s, want %s", got, want)
	}
}

func TestSMAWarmupIsZeroNotPanic(t *testing.T) {
	s := series.New[decimal.Decimal]("close", 100)
	push(t, s, 1, 2)
	got := SMA(s, 10)
	if !got.IsZero() {
		t.Fatalf("SMA during warmup = %s, want 0", got)
	}
}

func TestCrossoverDuality(t *testing.T) {
	a := series.New[decimal.Decimal]("a", 100)
	b := series.New[decimal.Decimal]("b", 100)

	a.SetCurrent(decimal.NewFromFloat(1))
	b.SetCurrent(decimal.NewFromFloat(2))
	a.Commit()
	b.Commit()

	a.SetCurrent(decimal.NewFromFloat(3))
	b.SetCurrent(decimal.NewFromFloat(2))

	if !Crossover(a, b) {
		t.Fatal("expected Crossover(a,b) true")
	}
	if Crossunder(a, b) {
		t.Fatal("Crossover and Crossunder must be mutually exclusive")
	}
	if !Cross(a, b) {
		t.Fatal("Cross must be true whenever Crossover is true")
	}
}

func TestPivotHighConfirms(t *testing.T) {
	s := series.New[decimal.Decimal]("high", 100)
	// Ascending then a peak then descending: 1,2,3,10,3,2,1 committed in order.
	push(t, s, 1, 2, 3, 10, 3, 2, 1)
	// Newest-to-oldest: 1,2,3,10,3,2,1 — the peak of 10 sits 3 bars back,
	// with 3 lower bars on the newer side and 2 checked on the older side.
	got := PivotHigh(s, 2, 3)
	if series.IsAbsent(got) {
		t.Fatal("expected a confirmed pivot high")
	}
	if !got.Value.Equal(decimal.NewFromFloat(10)) {
		t.Fatalf("pivot high value = %s, want 10", got.Value)
	}
}

func TestPivotHighAbsentDuringWarmup(t *testing.T) {
	s := series.New[decimal.Decimal]("high", 100)
	push(t, s, 1, 2)
	got := PivotHigh(s, 2, 2)
	if !series.IsAbsent(got) {
		t.Fatal("expected absent pivot high before enough history exists")
	}
}

func TestRSISentinelBeforeWarmup(t *testing.T) {
	s := series.New[decimal.Decimal]("close", 100)
	push(t, s, 1, 2)
	got := RSI(s, 14)
	if !got.Equal(fifty) {
		t.Fatalf("RSI during warmup = %s, want 50", got)
	}
}

func TestEMASeedsFromSMA(t *testing.T) {
	source := series.New[decimal.Decimal]("close", 100)
	cache := series.New[decimal.Decimal]("ema:close:3", 100)
	push(t, source, 1, 2, 3)
	got := EMA(source, 3, cache)
	want := decimal.NewFromFloat(2)
	if !got.Equal(want) {
		t.Fatalf("seeded EMA = %s, want %s", got, want)
	}
}
