package optimizer_test

import (
	"testing"

	"github.com/ggtechco/finsaas/internal/optimizer"
)

func TestGeneticOptimizerIsDeterministicForAFixedSeed(t *testing.T) {
	space := optimizer.ParameterSpace{Ranges: []optimizer.ParameterRange{
		{Name: "period", Values: []any{5, 10, 15, 20, 25}},
	}}

	run := func(seed int64) optimizer.GridResult {
		opt := &optimizer.GeneticOptimizer{
			Space: space, Objective: scoreByEquity, Run: paramScoreRun,
			PopulationSize: 6, Generations: 3, Seed: seed,
		}
		result, err := opt.Search()
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		return result
	}

	a := run(42)
	b := run(42)
	if a.Best.Params["period"] != b.Best.Params["period"] {
		t.Errorf("same seed should produce the same best: %v vs %v", a.Best.Params, b.Best.Params)
	}
	if len(a.Trials) != len(b.Trials) {
		t.Errorf("same seed should evaluate the same number of trials: %d vs %d", len(a.Trials), len(b.Trials))
	}
}

func TestGeneticOptimizerEvaluatesEveryGeneration(t *testing.T) {
	space := optimizer.ParameterSpace{Ranges: []optimizer.ParameterRange{{Name: "period", Values: []any{5, 10}}}}
	opt := &optimizer.GeneticOptimizer{
		Space: space, Objective: scoreByEquity, Run: paramScoreRun,
		PopulationSize: 4, Generations: 2, Seed: 1,
	}
	result, err := opt.Search()
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	// initial population (4) + 2 generations of 4 children each = 12.
	if len(result.Trials) != 12 {
		t.Errorf("want 12 trials, got %d", len(result.Trials))
	}
}

func TestGeneticOptimizerRejectsEmptySpace(t *testing.T) {
	opt := &optimizer.GeneticOptimizer{Space: optimizer.ParameterSpace{}, Objective: scoreByEquity, Run: paramScoreRun, PopulationSize: 4, Generations: 1}
	if _, err := opt.Search(); err == nil {
		t.Fatal("expected an error for an empty parameter space")
	}
}

func TestGeneticOptimizerRejectsNonPositivePopulation(t *testing.T) {
	space := optimizer.ParameterSpace{Ranges: []optimizer.ParameterRange{{Name: "period", Values: []any{5, 10}}}}
	opt := &optimizer.GeneticOptimizer{Space: space, Objective: scoreByEquity, Run: paramScoreRun, PopulationSize: 0, Generations: 1}
	if _, err := opt.Search(); err == nil {
		t.Fatal("expected an error for a non-positive population size")
	}
}
