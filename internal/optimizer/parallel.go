package optimizer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/ggtechco/finsaas/internal/workers"
)

// failedTrialSentinel is the score assigned to a trial whose backtest run
// returned an error, so a failed trial never silently wins a search.
var failedTrialSentinel = decimal.NewFromInt(-999)

// RunFunc executes a single backtest with the given parameter assignment.
type RunFunc func(params map[string]any) (RunResult, error)

// Trial is one parameter assignment's outcome.
type Trial struct {
	Index  int
	Params map[string]any
	Score  decimal.Decimal
	Err    error
}

// TrialMetrics are the optional Prometheus instruments RunTrialsParallel
// records against. Nil fields are skipped.
type TrialMetrics struct {
	TrialsTotal    *prometheus.CounterVec
	TrialDuration  prometheus.Histogram
}

// NewTrialMetrics builds and registers the optimizer's trial counter and
// duration histogram.
func NewTrialMetrics(registerer prometheus.Registerer) *TrialMetrics {
	tm := &TrialMetrics{
		TrialsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "finsaas_optimizer_trials_total",
			Help: "Total optimizer trials run, by outcome.",
		}, []string{"outcome"}),
		TrialDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "finsaas_optimizer_trial_duration_seconds",
			Help: "Wall-clock duration of a single optimizer trial.",
		}),
	}
	if registerer != nil {
		registerer.MustRegister(tm.TrialsTotal, tm.TrialDuration)
	}
	return tm
}

func (tm *TrialMetrics) observe(outcome string, start time.Time) {
	if tm == nil {
		return
	}
	if tm.TrialsTotal != nil {
		tm.TrialsTotal.WithLabelValues(outcome).Inc()
	}
	if tm.TrialDuration != nil {
		tm.TrialDuration.Observe(time.Since(start).Seconds())
	}
}

func runOne(index int, params map[string]any, run RunFunc, objective ObjectiveFunction, tm *TrialMetrics) Trial {
	start := time.Now()
	result, err := run(params)
	if err != nil {
		tm.observe("failed", start)
		return Trial{Index: index, Params: params, Score: failedTrialSentinel, Err: err}
	}
	tm.observe("succeeded", start)
	return Trial{Index: index, Params: params, Score: objective(result)}
}

// RunTrialsSequential evaluates every parameter set in order, preserving
// result order by construction.
func RunTrialsSequential(paramSets []map[string]any, run RunFunc, objective ObjectiveFunction, tm *TrialMetrics) []Trial {
	trials := make([]Trial, len(paramSets))
	for i, params := range paramSets {
		trials[i] = runOne(i, params, run, objective, tm)
	}
	return trials
}

// RunTrialsParallel fans trials out across pool and writes each result
// into its trial index's slot, waiting until every trial finishes, so the
// caller sees the same ordering as RunTrialsSequential regardless of
// completion order.
func RunTrialsParallel(paramSets []map[string]any, run RunFunc, objective ObjectiveFunction, pool *workers.Pool, tm *TrialMetrics) []Trial {
	trials := make([]Trial, len(paramSets))
	var wg sync.WaitGroup
	wg.Add(len(paramSets))

	for i, params := range paramSets {
		i, params := i, params
		err := pool.SubmitFunc(func() error {
			defer wg.Done()
			trials[i] = runOne(i, params, run, objective, tm)
			return nil
		})
		if err != nil {
			trials[i] = Trial{Index: i, Params: params, Score: failedTrialSentinel, Err: err}
			wg.Done()
		}
	}
	wg.Wait()
	return trials
}
