// Package config provides configuration loading and validation for the
// zaremba search commands.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/zaremba/pkg/observability"
)

// Sentinel validation errors.
var (
	ErrInvalidMaxPrimes   = errors.New("max primes must be positive")
	ErrInvalidRecalcSteps = errors.New("recalc steps must be positive")
	ErrInvalidBatchStep   = errors.New("batch step must be a positive integer")
	ErrInvalidLogFormat   = errors.New("log format must be text or json")
)

// Config holds all configuration for the zaremba commands.
type Config struct {
	Search     SearchConfig     `mapstructure:"search"     yaml:"search"`
	Checkpoint CheckpointConfig `mapstructure:"checkpoint" yaml:"checkpoint"`
	Metrics    MetricsConfig    `mapstructure:"metrics"    yaml:"metrics"`
	Logging    LoggingConfig    `mapstructure:"logging"    yaml:"logging"`
}

// SearchConfig holds search-engine tunables.
type SearchConfig struct {
	// MaxPrimes caps the prime table; exceeding it aborts the run.
	MaxPrimes int `mapstructure:"max_primes" yaml:"max_primes"`

	// RecalcSteps is the walk-step interval between periodic v-step
	// recalculations.
	RecalcSteps int `mapstructure:"recalc_steps" yaml:"recalc_steps"`

	// BatchStep is the bound increment per enumeration batch, decimal
	// string to admit arbitrary precision.
	BatchStep string `mapstructure:"batch_step" yaml:"batch_step"`
}

// CheckpointConfig holds checkpoint persistence settings.
type CheckpointConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// MetricsConfig holds the optional Prometheus endpoint settings.
type MetricsConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Load reads configuration from an optional file plus ZAREMBA_* environment
// variables, applies defaults, and validates.
func Load(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("config")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("$HOME/.zaremba")
	}

	viperCfg.SetEnvPrefix("ZAREMBA")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var cfg Config

	err := viperCfg.Unmarshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	err = validate(&cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Search.MaxPrimes <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxPrimes, cfg.Search.MaxPrimes)
	}

	if cfg.Search.RecalcSteps <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRecalcSteps, cfg.Search.RecalcSteps)
	}

	if !validBatchStep(cfg.Search.BatchStep) {
		return fmt.Errorf("%w: %q", ErrInvalidBatchStep, cfg.Search.BatchStep)
	}

	format := strings.ToLower(cfg.Logging.Format)
	if format != observability.FormatText && format != observability.FormatJSON {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, cfg.Logging.Format)
	}

	err := observability.ValidateLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}

	return nil
}

func validBatchStep(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	// No leading zeros, and zero itself is not a usable step.
	return s[0] != '0'
}
