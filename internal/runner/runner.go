// Package runner is the top-level orchestrator: it wires a configuration,
// a bar source, and a strategy into a single backtest run, computing the
// run's deterministic hash and aggregate performance metrics.
package runner

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ggtechco/finsaas/internal/bar"
	"github.com/ggtechco/finsaas/internal/config"
	"github.com/ggtechco/finsaas/internal/context"
	"github.com/ggtechco/finsaas/internal/engine"
	"github.com/ggtechco/finsaas/internal/metrics"
	"github.com/ggtechco/finsaas/internal/optimizer"
	"github.com/ggtechco/finsaas/internal/strategy"
)

// Result is a completed backtest's full record: the inputs that produced
// it (as a hash), the realized trades, the equity curve, and every
// computed metric.
type Result struct {
	RunHash        string
	StrategyName   string
	Parameters     map[string]any
	Symbol         string
	Timeframe      bar.Timeframe
	InitialCapital decimal.Decimal
	FinalEquity    decimal.Decimal
	TotalBars      int
	Trades         []engine.TradeResult
	EquityCurve    []engine.EquityPoint
	Metrics        map[string]decimal.Decimal
	DrawdownEpisodes []metrics.DrawdownEpisode
}

// Runner orchestrates a single backtest run end to end.
type Runner struct {
	cfg      *config.RunnerConfig
	registry *strategy.Registry
	logger   *zap.Logger
}

// New builds a Runner from a validated RunnerConfig. A nil logger builds
// one at cfg.LogLevel.
func New(cfg *config.RunnerConfig, registry *strategy.Registry, logger *zap.Logger) *Runner {
	if registry == nil {
		registry = strategy.NewRegistry()
	}
	if logger == nil {
		logger = NewLogger(cfg.LogLevel)
	}
	return &Runner{cfg: cfg, registry: registry, logger: logger}
}

// NewLogger builds the module's standard console zap logger at the given
// level (debug|info|warn|error, defaulting to info).
func NewLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}
	zcfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(zapLevel),
		Development: false,
		Encoding:    "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	logger, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// Run executes source through strat to completion and returns the full
// result, including its deterministic run hash.
func (r *Runner) Run(source engine.BarSource, strat strategy.Strategy, params map[string]any) (*Result, error) {
	commission, err := engine.NewCommissionFromConfig(r.cfg.Commission)
	if err != nil {
		return nil, fmt.Errorf("commission model: %w", err)
	}
	slippage, err := engine.NewSlippageFromConfig(r.cfg.Slippage)
	if err != nil {
		return nil, fmt.Errorf("slippage model: %w", err)
	}
	risks := engine.NewRiskChecksFromConfig(r.cfg.RiskChecks)

	broker := engine.NewBroker(commission, slippage, engine.WithRiskChecks(risks...))
	portfolio := engine.NewPortfolio(r.logger, r.cfg.InitialCapital)
	symbolInfo := bar.DefaultSymbolInfo(source.Symbol())
	ctx := context.New(symbolInfo, source.Timeframe(), r.cfg.MaxBarsBack)

	runHash := r.computeHash(strat, params, source)
	r.logger.Info("backtest_start",
		zap.String("strategy", r.cfg.StrategyName), zap.String("symbol", source.Symbol()), zap.String("run_hash", runHash))

	loop := engine.NewLoop(ctx, source, broker, portfolio, strat, r.logger)
	if err := loop.Run(); err != nil {
		return nil, fmt.Errorf("run loop: %w", err)
	}

	finalEquity := portfolio.Equity()
	trades := portfolio.Trades()
	equity := portfolio.EquityCurve()
	computed := metrics.ComputeAll(trades, equity, r.cfg.InitialCapital)
	episodes := metrics.DrawdownEpisodes(equity, 5)

	r.logger.Info("backtest_complete",
		zap.String("strategy", r.cfg.StrategyName), zap.String("final_equity", finalEquity.String()), zap.Int("total_trades", len(trades)))

	return &Result{
		RunHash:        runHash,
		StrategyName:   r.cfg.StrategyName,
		Parameters:     strategy.CurrentParameters(strat.Parameters(), params),
		Symbol:         source.Symbol(),
		Timeframe:      source.Timeframe(),
		InitialCapital: r.cfg.InitialCapital,
		FinalEquity:    finalEquity,
		TotalBars:      source.Len(),
		Trades:         trades,
		EquityCurve:    equity,
		Metrics:        computed,
		DrawdownEpisodes: episodes,
	}, nil
}

// Optimize resolves cfg.Runner.StrategyName's parameter descriptors into a
// search space via optimizer.FromStrategy, then runs cfg.Method (grid or
// genetic) over it, scoring every trial with a fresh backtest against
// source. This is the end-to-end path from a registered strategy name to
// an optimizer-driven search, with no hand-built ParameterSpace required.
func Optimize(cfg *config.OptimizerConfig, registry *strategy.Registry, source engine.BarSource, logger *zap.Logger) (optimizer.GridResult, error) {
	if registry == nil {
		registry = strategy.NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	probe, err := registry.Create(cfg.Runner.StrategyName, nil)
	if err != nil {
		return optimizer.GridResult{}, fmt.Errorf("resolving parameter space: %w", err)
	}
	space := optimizer.FromStrategy(probe.Parameters())

	runFn := func(params map[string]any) (optimizer.RunResult, error) {
		strat, err := registry.Create(cfg.Runner.StrategyName, params)
		if err != nil {
			return optimizer.RunResult{}, err
		}
		runnerCfg := cfg.Runner
		result, err := New(&runnerCfg, registry, logger).Run(source, strat, params)
		if err != nil {
			return optimizer.RunResult{}, err
		}
		return optimizer.RunResult{
			Equity:         result.EquityCurve,
			Trades:         result.Trades,
			InitialCapital: result.InitialCapital,
		}, nil
	}

	return optimizer.Run(cfg, space, runFn, nil, logger)
}

// computeHash is SHA-256 over pipe-joined {strategy_name, sorted JSON
// parameters, symbol, timeframe, initial capital, total bar count}. Equal
// inputs always produce an equal hash, which is the run's determinism
// guarantee.
func (r *Runner) computeHash(strat strategy.Strategy, params map[string]any, source engine.BarSource) string {
	resolved := strategy.CurrentParameters(strat.Parameters(), params)
	paramsJSON, err := marshalSorted(resolved)
	if err != nil {
		paramsJSON = "{}"
	}
	components := []string{
		r.cfg.StrategyName,
		paramsJSON,
		source.Symbol(),
		string(source.Timeframe()),
		r.cfg.InitialCapital.String(),
		strconv.Itoa(source.Len()),
	}
	raw := components[0]
	for _, c := range components[1:] {
		raw += "|" + c
	}
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// marshalSorted is encoding/json.Marshal over a map with its keys written
// in sorted order, matching Python's json.dumps(..., sort_keys=True) so
// the same parameter set always hashes identically regardless of map
// iteration order.
func marshalSorted(m map[string]any) (string, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf := []byte("{")
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		keyJSON, err := json.Marshal(k)
		if err != nil {
			return "", err
		}
		valJSON, err := json.Marshal(stringify(m[k]))
		if err != nil {
			return "", err
		}
		buf = append(buf, keyJSON...)
		buf = append(buf, ':')
		buf = append(buf, valJSON...)
	}
	buf = append(buf, '}')
	return string(buf), nil
}

// stringify renders decimal.Decimal (and anything else with a String
// method) the same way Python's json.dumps(default=str) would, so the
// hash is stable across decimal internal representations of the same
// value.
func stringify(v any) any {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return v
}
