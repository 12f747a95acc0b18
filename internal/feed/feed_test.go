package feed_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/bar"
	"github.com/ggtechco/finsaas/internal/feed"
)

func TestInMemorySource(t *testing.T) {
	bars := []bar.OHLCV{
		{Open: decimal.NewFromInt(1), High: decimal.NewFromInt(2), Low: decimal.NewFromInt(1), Close: decimal.NewFromInt(2), Volume: decimal.NewFromInt(10)},
		{Open: decimal.NewFromInt(2), High: decimal.NewFromInt(3), Low: decimal.NewFromInt(2), Close: decimal.NewFromInt(3), Volume: decimal.NewFromInt(20)},
	}
	src := feed.NewInMemorySource("ETHUSD", bar.H1, bars)

	if src.Symbol() != "ETHUSD" {
		t.Errorf("want symbol ETHUSD, got %s", src.Symbol())
	}
	if src.Timeframe() != bar.H1 {
		t.Errorf("want timeframe H1, got %s", src.Timeframe())
	}
	if src.Len() != 2 {
		t.Fatalf("want len 2, got %d", src.Len())
	}
	if !src.Bar(1).Close.Equal(decimal.NewFromInt(3)) {
		t.Errorf("want bar 1 close 3, got %s", src.Bar(1).Close)
	}
}

func TestCSVSourceParsesRows(t *testing.T) {
	csvData := "timestamp,open,high,low,close,volume\n" +
		"0,100,105,99,103,1000\n" +
		"86400,103,108,101,106,1500\n"

	src, err := feed.NewCSVSourceFromReader("BTCUSD", bar.D1, strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if src.Len() != 2 {
		t.Fatalf("want 2 bars, got %d", src.Len())
	}
	if !src.Bar(0).Open.Equal(decimal.NewFromInt(100)) {
		t.Errorf("want bar 0 open 100, got %s", src.Bar(0).Open)
	}
	if !src.Bar(1).Close.Equal(decimal.NewFromInt(106)) {
		t.Errorf("want bar 1 close 106, got %s", src.Bar(1).Close)
	}
	if src.Bar(0).Timestamp.Unix() != 0 {
		t.Errorf("want unix 0, got %d", src.Bar(0).Timestamp.Unix())
	}
}

func TestCSVSourceRejectsMalformedRow(t *testing.T) {
	csvData := "timestamp,open,high,low,close,volume\n" +
		"0,not-a-number,105,99,103,1000\n"

	_, err := feed.NewCSVSourceFromReader("BTCUSD", bar.D1, strings.NewReader(csvData))
	if err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestCSVSourceEmptyFileYieldsNoBars(t *testing.T) {
	src, err := feed.NewCSVSourceFromReader("BTCUSD", bar.D1, strings.NewReader("timestamp,open,high,low,close,volume\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if src.Len() != 0 {
		t.Errorf("want 0 bars, got %d", src.Len())
	}
}
