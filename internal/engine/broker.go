package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/bar"
	"github.com/ggtechco/finsaas/internal/numeric"
)

// Broker simulates order matching against bar data: a pending queue of
// resting orders that are evaluated against each new bar in submission
// order, producing zero or more fills. Risk checks, if any, run before an
// order is admitted to the queue.
type Broker struct {
	commission CommissionModel
	slippage   SlippageModel
	riskChecks []RiskCheck
	pending    []*Order

	queueDepth prometheus.Gauge
	fillsTotal *prometheus.CounterVec
}

// BrokerOption configures optional Broker behavior.
type BrokerOption func(*Broker)

// WithRiskChecks wires an ordered list of pre-trade gates; an order is
// rejected by the first check that returns an error.
func WithRiskChecks(checks ...RiskCheck) BrokerOption {
	return func(b *Broker) { b.riskChecks = checks }
}

// WithMetrics registers the broker's queue-depth gauge and fills counter
// against registerer. Safe to omit; metrics are no-ops until wired.
func WithMetrics(registerer prometheus.Registerer) BrokerOption {
	return func(b *Broker) {
		b.queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "finsaas_broker_pending_orders",
			Help: "Number of orders currently resting in the broker's pending queue.",
		})
		b.fillsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "finsaas_broker_fills_total",
			Help: "Total fills produced by the broker, by order type.",
		}, []string{"order_type"})
		if registerer != nil {
			registerer.MustRegister(b.queueDepth, b.fillsTotal)
		}
	}
}

// NewBroker constructs a broker with the given commission/slippage models.
func NewBroker(commission CommissionModel, slippage SlippageModel, opts ...BrokerOption) *Broker {
	b := &Broker{commission: commission, slippage: slippage}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Submit admits an order into the pending queue, running risk checks
// first. Returns an *OrderError if any check rejects it.
func (b *Broker) Submit(order *Order, portfolio *Portfolio, referencePrice decimal.Decimal) error {
	for _, check := range b.riskChecks {
		if err := check.Check(order, portfolio, referencePrice); err != nil {
			order.Status = bar.Rejected
			return err
		}
	}
	b.pending = append(b.pending, order)
	if b.queueDepth != nil {
		b.queueDepth.Set(float64(len(b.pending)))
	}
	return nil
}

// MatchAgainst evaluates every pending order against the bar just closed
// and returns the resulting fills (in submission order), removing matched
// orders from the queue. No look-ahead: orders submitted while processing
// bar N are matched starting at bar N+1 by the run loop's ordering, never
// against the bar on which they were submitted.
func (b *Broker) MatchAgainst(symbol string, ohlcv bar.OHLCV, barIndex int) []*Fill {
	var fills []*Fill
	remaining := b.pending[:0]
	for _, order := range b.pending {
		if order.Symbol != symbol {
			remaining = append(remaining, order)
			continue
		}
		price, matched := b.match(order, ohlcv)
		if !matched {
			remaining = append(remaining, order)
			continue
		}
		price = b.adjustedPrice(order, price)
		commission := b.commission.Compute(order.Quantity, price)
		order.Status = bar.Filled
		fill := &Fill{
			OrderID:    order.ID,
			Symbol:     order.Symbol,
			Side:       order.Side,
			Action:     order.Action,
			Quantity:   order.Quantity,
			Price:      price,
			Commission: commission,
			Tag:        order.Tag,
			BarIndex:   barIndex,
			Timestamp:  ohlcv.Timestamp,
		}
		fills = append(fills, fill)
		if b.fillsTotal != nil {
			b.fillsTotal.WithLabelValues(string(order.Type)).Inc()
		}
	}
	b.pending = remaining
	if b.queueDepth != nil {
		b.queueDepth.Set(float64(len(b.pending)))
	}
	return fills
}

// adjustedPrice applies slippage to MARKET and STOP fills only; LIMIT and
// STOP_LIMIT fill at their stated, unadjusted price.
func (b *Broker) adjustedPrice(order *Order, price decimal.Decimal) decimal.Decimal {
	switch order.Type {
	case bar.Market, bar.Stop:
		return b.slippage.Adjust(price, order.Side, order.Action)
	default:
		return price
	}
}

// match reports whether order fills against ohlcv and, if so, at what
// price, per the exact matching table: a buy is an effective entry-long
// or exit-short; a sell is the opposite.
func (b *Broker) match(order *Order, ohlcv bar.OHLCV) (decimal.Decimal, bool) {
	buy := effectiveBuy(order.Side, order.Action)

	switch order.Type {
	case bar.Market:
		return ohlcv.Open, true

	case bar.Limit:
		if buy {
			if ohlcv.Low.LessThanOrEqual(order.Price) {
				return order.Price, true
			}
			return decimal.Zero, false
		}
		if ohlcv.High.GreaterThanOrEqual(order.Price) {
			return order.Price, true
		}
		return decimal.Zero, false

	case bar.Stop:
		if buy {
			if ohlcv.High.GreaterThanOrEqual(order.Price) {
				return numeric.Max(ohlcv.Open, order.Price), true
			}
			return decimal.Zero, false
		}
		if ohlcv.Low.LessThanOrEqual(order.Price) {
			return numeric.Min(ohlcv.Open, order.Price), true
		}
		return decimal.Zero, false

	case bar.StopLimit:
		triggered := false
		if buy {
			triggered = ohlcv.High.GreaterThanOrEqual(order.StopPrice)
		} else {
			triggered = ohlcv.Low.LessThanOrEqual(order.StopPrice)
		}
		if !triggered {
			return decimal.Zero, false
		}
		if buy {
			if ohlcv.Low.LessThanOrEqual(order.Price) {
				return order.Price, true
			}
			return decimal.Zero, false
		}
		if ohlcv.High.GreaterThanOrEqual(order.Price) {
			return order.Price, true
		}
		return decimal.Zero, false
	}
	return decimal.Zero, false
}

// PendingCount is the number of resting orders, used by the run loop for
// logging and by tests.
func (b *Broker) PendingCount() int { return len(b.pending) }
