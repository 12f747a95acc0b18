package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/config"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadRunnerConfig(t *testing.T) {
	path := writeTempConfig(t, `
strategy_name: momentum
symbol: BTCUSD
timeframe: 1h
initial_capital: 10000
max_bars_back: 500
commission:
  model: percentage
  rate: 0.001
slippage:
  model: fixed
  points: 0.1
`)

	cfg, err := config.LoadRunnerConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StrategyName != "momentum" {
		t.Errorf("want momentum, got %s", cfg.StrategyName)
	}
	if !cfg.InitialCapital.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("want initial_capital 10000, got %s", cfg.InitialCapital)
	}
	if cfg.Commission.Model != "percentage" {
		t.Errorf("want commission model percentage, got %s", cfg.Commission.Model)
	}
}

func TestRunnerConfigValidateRejectsEmptyStrategyName(t *testing.T) {
	cfg := &config.RunnerConfig{Symbol: "BTCUSD", InitialCapital: decimal.NewFromInt(1000)}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected a validation error for missing strategy_name")
	}
}

func TestRunnerConfigValidateRejectsNonPositiveCapital(t *testing.T) {
	cfg := &config.RunnerConfig{StrategyName: "momentum", Symbol: "BTCUSD", InitialCapital: decimal.Zero}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected a validation error for non-positive initial_capital")
	}
}

func TestOptimizerConfigValidateRejectsUnknownObjective(t *testing.T) {
	cfg := &config.OptimizerConfig{
		Runner:    config.RunnerConfig{StrategyName: "momentum", Symbol: "BTCUSD", InitialCapital: decimal.NewFromInt(1000)},
		Objective: "not_a_real_objective",
		Method:    "grid",
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected a validation error for unknown objective")
	}
}

func TestOptimizerConfigValidateRejectsUnknownMethod(t *testing.T) {
	cfg := &config.OptimizerConfig{
		Runner:    config.RunnerConfig{StrategyName: "momentum", Symbol: "BTCUSD", InitialCapital: decimal.NewFromInt(1000)},
		Objective: "sharpe",
		Method:    "bayesian",
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected a validation error for unknown method")
	}
}

func TestLoadOptimizerConfig(t *testing.T) {
	path := writeTempConfig(t, `
runner:
  strategy_name: mean_reversion
  symbol: ETHUSD
  initial_capital: 5000
objective: sharpe
method: genetic
parallel: true
workers: 4
population_size: 20
generations: 5
seed: 42
`)

	cfg, err := config.LoadOptimizerConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Method != "genetic" || cfg.Objective != "sharpe" {
		t.Errorf("unexpected method/objective: %s/%s", cfg.Method, cfg.Objective)
	}
	if cfg.Seed != 42 {
		t.Errorf("want seed 42, got %d", cfg.Seed)
	}
}
