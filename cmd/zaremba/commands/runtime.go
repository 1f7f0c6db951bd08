// Package commands implements CLI command handlers for zaremba.
package commands

import (
	"fmt"
	"log/slog"
	"math/big"
	"os"

	"github.com/Sumatoshi-tech/zaremba/pkg/config"
	"github.com/Sumatoshi-tech/zaremba/pkg/observability"
	"github.com/Sumatoshi-tech/zaremba/pkg/primes"
)

// runtime bundles the shared pieces every command starts from.
type runtime struct {
	cfg    *config.Config
	log    *slog.Logger
	oracle *primes.Oracle
}

// newRuntime loads configuration and builds the logger and prime oracle.
func newRuntime(configPath string) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	return &runtime{
		cfg:    cfg,
		log:    observability.NewLogger(os.Stderr, cfg.Logging.Level, cfg.Logging.Format),
		oracle: primes.New(cfg.Search.MaxPrimes),
	}, nil
}

// parsePositive parses a decimal string as a positive arbitrary-precision
// integer.
func parsePositive(s, what string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() <= 0 {
		return nil, fmt.Errorf("%s must be a positive integer, got %q", what, s)
	}

	return n, nil
}
