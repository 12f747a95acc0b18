package optimizer_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/engine"
	"github.com/ggtechco/finsaas/internal/optimizer"
)

func paramScoreRun(params map[string]any) (optimizer.RunResult, error) {
	period := params["period"].(int)
	return optimizer.RunResult{
		Equity:         []engine.EquityPoint{{Equity: decimal.NewFromInt(int64(period))}},
		InitialCapital: decimal.NewFromInt(1),
	}, nil
}

func scoreByEquity(r optimizer.RunResult) decimal.Decimal {
	return r.Equity[len(r.Equity)-1].Equity
}

func TestGridSearchFindsBestAcrossEveryCombination(t *testing.T) {
	space := optimizer.ParameterSpace{Ranges: []optimizer.ParameterRange{
		{Name: "period", Values: []any{5, 50, 10}},
	}}
	opt := &optimizer.GridSearchOptimizer{Space: space, Objective: scoreByEquity, Run: paramScoreRun}

	result, err := opt.Search()
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(result.Trials) != 3 {
		t.Fatalf("want 3 trials, got %d", len(result.Trials))
	}
	if result.Best.Params["period"] != 50 {
		t.Errorf("want best period 50, got %v", result.Best.Params["period"])
	}
}

func TestGridSearchEmptySpaceErrors(t *testing.T) {
	opt := &optimizer.GridSearchOptimizer{Space: optimizer.ParameterSpace{}, Objective: scoreByEquity, Run: paramScoreRun}
	if _, err := opt.Search(); err == nil {
		t.Fatal("expected an error for an empty parameter space")
	}
}

func TestGridSearchFailedTrialNeverWins(t *testing.T) {
	failingRun := func(params map[string]any) (optimizer.RunResult, error) {
		if params["period"].(int) == 999 {
			return optimizer.RunResult{}, fmt.Errorf("boom")
		}
		return paramScoreRun(params)
	}
	space := optimizer.ParameterSpace{Ranges: []optimizer.ParameterRange{{Name: "period", Values: []any{999, 7}}}}
	opt := &optimizer.GridSearchOptimizer{Space: space, Objective: scoreByEquity, Run: failingRun}

	result, err := opt.Search()
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Best.Params["period"] != 7 {
		t.Errorf("want the surviving trial (period=7) to win, got %v", result.Best.Params["period"])
	}
}
