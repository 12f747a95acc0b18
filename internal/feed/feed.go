// Package feed provides bar-source adapters that iterate OHLCV data into
// a backtest run. A persisted database-backed feed is explicitly out of
// scope; these two adapters cover in-memory and CSV-file data.
package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/bar"
)

// InMemorySource serves bars already loaded into a slice. Satisfies
// engine.BarSource structurally.
type InMemorySource struct {
	symbol    string
	timeframe bar.Timeframe
	bars      []bar.OHLCV
}

// NewInMemorySource wraps an already-loaded bar slice.
func NewInMemorySource(symbol string, timeframe bar.Timeframe, bars []bar.OHLCV) *InMemorySource {
	return &InMemorySource{symbol: symbol, timeframe: timeframe, bars: bars}
}

func (s *InMemorySource) Symbol() string          { return s.symbol }
func (s *InMemorySource) Timeframe() bar.Timeframe { return s.timeframe }
func (s *InMemorySource) Len() int                { return len(s.bars) }
func (s *InMemorySource) Bar(i int) bar.OHLCV      { return s.bars[i] }

// CSVSource loads bars from a CSV reader with a header row of
// timestamp,open,high,low,close,volume (unix seconds for timestamp).
type CSVSource struct {
	symbol    string
	timeframe bar.Timeframe
	bars      []bar.OHLCV
}

// NewCSVSourceFromReader parses all rows from r eagerly; a backtest needs
// random access to the full bar sequence, not a streaming cursor.
func NewCSVSourceFromReader(symbol string, timeframe bar.Timeframe, r io.Reader) (*CSVSource, error) {
	reader := csv.NewReader(r)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV bars: %w", err)
	}
	if len(rows) < 2 {
		return &CSVSource{symbol: symbol, timeframe: timeframe}, nil
	}

	bars := make([]bar.OHLCV, 0, len(rows)-1)
	for i, row := range rows[1:] {
		ohlcv, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		bars = append(bars, ohlcv)
	}
	return &CSVSource{symbol: symbol, timeframe: timeframe, bars: bars}, nil
}

func parseRow(row []string) (bar.OHLCV, error) {
	if len(row) < 6 {
		return bar.OHLCV{}, fmt.Errorf("expected 6 columns, got %d", len(row))
	}
	ts, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return bar.OHLCV{}, fmt.Errorf("timestamp: %w", err)
	}
	open, err := decimal.NewFromString(row[1])
	if err != nil {
		return bar.OHLCV{}, fmt.Errorf("open: %w", err)
	}
	high, err := decimal.NewFromString(row[2])
	if err != nil {
		return bar.OHLCV{}, fmt.Errorf("high: %w", err)
	}
	low, err := decimal.NewFromString(row[3])
	if err != nil {
		return bar.OHLCV{}, fmt.Errorf("low: %w", err)
	}
	closeVal, err := decimal.NewFromString(row[4])
	if err != nil {
		return bar.OHLCV{}, fmt.Errorf("close: %w", err)
	}
	volume, err := decimal.NewFromString(row[5])
	if err != nil {
		return bar.OHLCV{}, fmt.Errorf("volume: %w", err)
	}
	return bar.OHLCV{
		Timestamp: time.Unix(ts, 0).UTC(),
		Open:      open, High: high, Low: low, Close: closeVal, Volume: volume,
	}, nil
}

func (s *CSVSource) Symbol() string          { return s.symbol }
func (s *CSVSource) Timeframe() bar.Timeframe { return s.timeframe }
func (s *CSVSource) Len() int                 { return len(s.bars) }
func (s *CSVSource) Bar(i int) bar.OHLCV       { return s.bars[i] }
