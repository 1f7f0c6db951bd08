package config

import (
	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/zaremba/pkg/primes"
	"github.com/Sumatoshi-tech/zaremba/pkg/walker"
)

// Search defaults.
const (
	// DefaultBatchStep keeps enumeration batches around a few thousand
	// results in the small-number regime without re-traversing the
	// frontier too often.
	DefaultBatchStep = "1000000"
)

// Default returns a configuration populated with the built-in defaults.
func Default() *Config {
	return &Config{
		Search: SearchConfig{
			MaxPrimes:   primes.DefaultMaxPrimes,
			RecalcSteps: walker.DefaultRecalcSteps,
			BatchStep:   DefaultBatchStep,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	// Search defaults.
	viperCfg.SetDefault("search.max_primes", primes.DefaultMaxPrimes)
	viperCfg.SetDefault("search.recalc_steps", walker.DefaultRecalcSteps)
	viperCfg.SetDefault("search.batch_step", DefaultBatchStep)

	// Checkpoint defaults.
	viperCfg.SetDefault("checkpoint.dir", "")

	// Metrics defaults: endpoint disabled unless an address is configured.
	viperCfg.SetDefault("metrics.addr", "")

	// Logging defaults.
	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.format", "text")
}
