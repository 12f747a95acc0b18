// Package config loads typed RunnerConfig and OptimizerConfig from YAML
// files, overridable by FINSAAS_-prefixed environment variables, via
// spf13/viper.
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// ConfigError is returned when a loaded configuration fails validation,
// naming the offending field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: field %q invalid: %s", e.Field, e.Reason)
}

// RiskChecksConfig enables the optional pre-trade risk gates.
type RiskChecksConfig struct {
	MaxPositionSize  decimal.Decimal `mapstructure:"max_position_size"`
	MaxDrawdown      decimal.Decimal `mapstructure:"max_drawdown"`
	SufficientCapital bool           `mapstructure:"sufficient_capital"`
}

// CommissionConfig selects and parameterizes a commission model.
type CommissionConfig struct {
	Model string          `mapstructure:"model"` // zero | percentage | fixed (tiered has no config form)
	Rate  decimal.Decimal `mapstructure:"rate"`
	Fixed decimal.Decimal `mapstructure:"fixed"`
}

// SlippageConfig selects and parameterizes a slippage model.
type SlippageConfig struct {
	Model  string          `mapstructure:"model"` // zero | percentage | fixed
	Rate   decimal.Decimal `mapstructure:"rate"`
	Points decimal.Decimal `mapstructure:"points"`
}

// RunnerConfig is a single backtest run's configuration.
type RunnerConfig struct {
	StrategyName   string                 `mapstructure:"strategy_name"`
	Params         map[string]interface{} `mapstructure:"params"`
	Symbol         string                 `mapstructure:"symbol"`
	Timeframe      string                 `mapstructure:"timeframe"`
	InitialCapital decimal.Decimal        `mapstructure:"initial_capital"`
	MaxBarsBack    int                    `mapstructure:"max_bars_back"`
	DataPath       string                 `mapstructure:"data_path"`
	LogLevel       string                 `mapstructure:"log_level"`
	Commission     CommissionConfig       `mapstructure:"commission"`
	Slippage       SlippageConfig         `mapstructure:"slippage"`
	RiskChecks     RiskChecksConfig       `mapstructure:"risk_checks"`
}

// Validate checks field-level invariants not expressible via mapstructure
// tags alone.
func (c *RunnerConfig) Validate() error {
	if c.StrategyName == "" {
		return &ConfigError{Field: "strategy_name", Reason: "must not be empty"}
	}
	if c.Symbol == "" {
		return &ConfigError{Field: "symbol", Reason: "must not be empty"}
	}
	if c.InitialCapital.IsNegative() || c.InitialCapital.IsZero() {
		return &ConfigError{Field: "initial_capital", Reason: "must be positive"}
	}
	switch c.Commission.Model {
	case "", "zero", "percentage", "fixed":
	default:
		return &ConfigError{Field: "commission.model", Reason: "must be zero, percentage or fixed"}
	}
	switch c.Slippage.Model {
	case "", "zero", "percentage", "fixed":
	default:
		return &ConfigError{Field: "slippage.model", Reason: "must be zero, percentage or fixed"}
	}
	return nil
}

// OptimizerConfig is a parameter-search run's configuration.
type OptimizerConfig struct {
	Runner    RunnerConfig `mapstructure:"runner"`
	Objective string       `mapstructure:"objective"` // sharpe | sortino | return | max_dd | profit_factor | calmar
	Method    string       `mapstructure:"method"`    // grid | genetic
	Parallel  bool         `mapstructure:"parallel"`
	Workers   int          `mapstructure:"workers"`

	PopulationSize int `mapstructure:"population_size"` // genetic only
	Generations    int `mapstructure:"generations"`     // genetic only
	Seed           int64 `mapstructure:"seed"`          // genetic only
}

// Validate checks field-level invariants not expressible via mapstructure
// tags alone.
func (c *OptimizerConfig) Validate() error {
	if err := c.Runner.Validate(); err != nil {
		return err
	}
	switch c.Objective {
	case "sharpe", "sortino", "return", "max_dd", "profit_factor", "calmar":
	default:
		return &ConfigError{Field: "objective", Reason: "must be one of sharpe, sortino, return, max_dd, profit_factor, calmar"}
	}
	switch c.Method {
	case "grid", "genetic":
	default:
		return &ConfigError{Field: "method", Reason: "must be grid or genetic"}
	}
	return nil
}

// LoadRunnerConfig reads path (YAML) and overlays FINSAAS_-prefixed
// environment variables, returning a validated RunnerConfig.
func LoadRunnerConfig(path string) (*RunnerConfig, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg RunnerConfig
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decimalHook)); err != nil {
		return nil, fmt.Errorf("decoding runner config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOptimizerConfig reads path (YAML) and overlays FINSAAS_-prefixed
// environment variables, returning a validated OptimizerConfig.
func LoadOptimizerConfig(path string) (*OptimizerConfig, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg OptimizerConfig
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decimalHook)); err != nil {
		return nil, fmt.Errorf("decoding optimizer config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// decimalHook decodes YAML numbers and numeric strings (including
// environment overrides) into decimal.Decimal fields.
func decimalHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(decimal.Decimal{}) {
		return data, nil
	}
	return decimal.NewFromString(fmt.Sprint(data))
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("FINSAAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}
