package optimizer

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/engine"
	"github.com/ggtechco/finsaas/internal/metrics"
)

// RunResult is the data an objective function scores: a completed
// backtest's equity curve and trade log.
type RunResult struct {
	Equity         []engine.EquityPoint
	Trades         []engine.TradeResult
	InitialCapital decimal.Decimal
}

// ObjectiveFunction scores a RunResult; higher is always better — max_dd
// is negated internally so the registry stays a single "bigger wins"
// contract for both grid and genetic search.
type ObjectiveFunction func(r RunResult) decimal.Decimal

// objectives is the closed registry of supported objective names.
var objectives = map[string]ObjectiveFunction{
	"sharpe": func(r RunResult) decimal.Decimal {
		return metrics.Sharpe(r.Equity, 0)
	},
	"sortino": func(r RunResult) decimal.Decimal {
		return metrics.Sortino(r.Equity, 0)
	},
	"return": func(r RunResult) decimal.Decimal {
		return metrics.TotalReturnPct(r.Equity, r.InitialCapital)
	},
	"max_dd": func(r RunResult) decimal.Decimal {
		// Minimizing drawdown: negate so "higher objective" still means "better".
		return metrics.MaxDrawdownPct(r.Equity).Neg()
	},
	"profit_factor": func(r RunResult) decimal.Decimal {
		return metrics.ProfitFactor(r.Trades)
	},
	"calmar": func(r RunResult) decimal.Decimal {
		return metrics.Calmar(r.Equity, r.InitialCapital, 0)
	},
}

// Objective looks up a registered objective function by name.
func Objective(name string) (ObjectiveFunction, error) {
	fn, ok := objectives[name]
	if !ok {
		return nil, fmt.Errorf("unknown objective %q", name)
	}
	return fn, nil
}
