package engine

import (
	"fmt"

	"github.com/ggtechco/finsaas/internal/config"
)

// NewCommissionFromConfig builds the CommissionModel named by cfg.Model.
func NewCommissionFromConfig(cfg config.CommissionConfig) (CommissionModel, error) {
	switch cfg.Model {
	case "", "zero":
		return ZeroCommission{}, nil
	case "percentage":
		return PercentageCommission{Rate: cfg.Rate}, nil
	case "fixed":
		return FixedCommission{Amount: cfg.Fixed}, nil
	default:
		return nil, fmt.Errorf("unknown commission model %q", cfg.Model)
	}
}

// NewSlippageFromConfig builds the SlippageModel named by cfg.Model.
func NewSlippageFromConfig(cfg config.SlippageConfig) (SlippageModel, error) {
	switch cfg.Model {
	case "", "zero":
		return ZeroSlippage{}, nil
	case "percentage":
		return PercentageSlippage{Rate: cfg.Rate}, nil
	case "fixed":
		return FixedSlippage{Points: cfg.Points}, nil
	default:
		return nil, fmt.Errorf("unknown slippage model %q", cfg.Model)
	}
}

// NewRiskChecksFromConfig builds the ordered risk-check list the config
// enables; any field left at its zero value disables that check.
func NewRiskChecksFromConfig(cfg config.RiskChecksConfig) []RiskCheck {
	var checks []RiskCheck
	if cfg.SufficientCapital {
		checks = append(checks, SufficientCapitalCheck{})
	}
	if !cfg.MaxPositionSize.IsZero() {
		checks = append(checks, MaxPositionSizeCheck{Limit: cfg.MaxPositionSize})
	}
	if !cfg.MaxDrawdown.IsZero() {
		checks = append(checks, MaxDrawdownCheck{Limit: cfg.MaxDrawdown})
	}
	return checks
}
