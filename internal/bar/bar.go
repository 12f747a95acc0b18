// Package bar defines the core OHLCV bar and the small set of enumerations
// shared by every component downstream of a bar source: side, order type,
// order action/status, position status, timeframe, and bar state.
package bar

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is trade direction.
type Side string

const (
	Long  Side = "long"
	Short Side = "short"
)

// OrderType is the execution type requested for an order.
type OrderType string

const (
	Market    OrderType = "market"
	Limit     OrderType = "limit"
	Stop      OrderType = "stop"
	StopLimit OrderType = "stop_limit"
)

// OrderAction distinguishes opening exposure from reducing or flattening it.
type OrderAction string

const (
	Entry OrderAction = "entry"
	Exit  OrderAction = "exit"
	Close OrderAction = "close"
)

// OrderStatus is the order lifecycle state. Only Pending orders are
// considered for matching.
type OrderStatus string

const (
	Pending   OrderStatus = "pending"
	Filled    OrderStatus = "filled"
	Cancelled OrderStatus = "cancelled"
	Rejected  OrderStatus = "rejected"
)

// PositionStatus is Open until an Exit/Close fill realizes it.
type PositionStatus string

const (
	PositionOpen   PositionStatus = "open"
	PositionClosed PositionStatus = "closed"
)

// Timeframe is a supported bar interval tag, carried into the run hash.
type Timeframe string

const (
	M1  Timeframe = "1m"
	M5  Timeframe = "5m"
	M15 Timeframe = "15m"
	M30 Timeframe = "30m"
	H1  Timeframe = "1h"
	H4  Timeframe = "4h"
	D1  Timeframe = "1D"
	W1  Timeframe = "1W"
	MN1 Timeframe = "1M"
)

// State is the bar's processing state within the event loop for a given
// run; mostly of diagnostic value.
type State string

const (
	StateNew       State = "new"
	StateConfirmed State = "confirmed"
)

// OHLCV is a single, immutable bar sample.
type OHLCV struct {
	Timestamp time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
}

// SymbolInfo is immutable per-run metadata about the traded instrument.
type SymbolInfo struct {
	Ticker        string
	Exchange      string
	AssetType     string
	TickSize      decimal.Decimal
	LotSize       decimal.Decimal
	BaseCurrency  string
	QuoteCurrency string
}

// DefaultSymbolInfo fills in the source's defaults for fields the caller
// leaves zero-valued.
func DefaultSymbolInfo(ticker string) SymbolInfo {
	return SymbolInfo{
		Ticker:        ticker,
		AssetType:     "crypto",
		TickSize:      decimal.NewFromFloat(0.01),
		LotSize:       decimal.NewFromFloat(0.001),
		BaseCurrency:  "USD",
		QuoteCurrency: "USD",
	}
}
