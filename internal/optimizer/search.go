package optimizer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ggtechco/finsaas/internal/config"
	"github.com/ggtechco/finsaas/internal/workers"
)

// Run dispatches cfg.Method ("grid" or "genetic") against space, scoring
// every trial with cfg.Objective and fanning trials out across a pool
// sized to cfg.Workers when cfg.Parallel is set.
func Run(cfg *config.OptimizerConfig, space ParameterSpace, run RunFunc, tm *TrialMetrics, logger *zap.Logger) (GridResult, error) {
	objective, err := Objective(cfg.Objective)
	if err != nil {
		return GridResult{}, err
	}

	var pool *workers.Pool
	if cfg.Parallel {
		if logger == nil {
			logger = zap.NewNop()
		}
		pool = workers.NewPool(logger, workers.TrialPoolConfig("optimizer", cfg.Workers))
		pool.Start()
		defer pool.Stop()
	}

	switch cfg.Method {
	case "grid":
		opt := &GridSearchOptimizer{Space: space, Objective: objective, Run: run, Pool: pool, Metrics: tm}
		return opt.Search()
	case "genetic":
		opt := &GeneticOptimizer{
			Space: space, Objective: objective, Run: run, Pool: pool, Metrics: tm,
			PopulationSize: cfg.PopulationSize, Generations: cfg.Generations, Seed: cfg.Seed,
		}
		return opt.Search()
	default:
		return GridResult{}, fmt.Errorf("unknown optimizer method %q", cfg.Method)
	}
}
