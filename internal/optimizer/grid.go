package optimizer

import (
	"fmt"

	"github.com/ggtechco/finsaas/internal/workers"
)

// GridResult is a completed grid search's outcome.
type GridResult struct {
	Best   Trial
	Trials []Trial
}

// GridSearchOptimizer exhaustively evaluates every combination in a
// ParameterSpace.
type GridSearchOptimizer struct {
	Space     ParameterSpace
	Objective ObjectiveFunction
	Run       RunFunc
	Pool      *workers.Pool // nil runs sequentially
	Metrics   *TrialMetrics
}

// Search runs the full grid and returns the best-scoring trial alongside
// every trial's result.
func (o *GridSearchOptimizer) Search() (GridResult, error) {
	combos := o.Space.GridIter()
	if len(combos) == 0 {
		return GridResult{}, fmt.Errorf("parameter space produced no combinations")
	}

	var trials []Trial
	if o.Pool != nil {
		trials = RunTrialsParallel(combos, o.Run, o.Objective, o.Pool, o.Metrics)
	} else {
		trials = RunTrialsSequential(combos, o.Run, o.Objective, o.Metrics)
	}

	best := trials[0]
	for _, t := range trials[1:] {
		if t.Score.GreaterThan(best.Score) {
			best = t
		}
	}
	return GridResult{Best: best, Trials: trials}, nil
}
