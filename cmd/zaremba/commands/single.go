package commands

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/zaremba/pkg/waterfall"
	"github.com/Sumatoshi-tech/zaremba/pkg/zaremba"
)

// SingleCommand holds flags for the single evaluation command.
type SingleCommand struct {
	configPath string
}

// NewSingleCommand creates the single command.
func NewSingleCommand() *cobra.Command {
	sc := &SingleCommand{}

	cmd := &cobra.Command{
		Use:   "single <n>",
		Short: "Evaluate z(n), tau(n) and v(n) for one number",
		Long: `Evaluates Zaremba's z(n), the divisor count tau(n) and the ratio
v(n) = z(n)/ln(tau(n)) for a single n. Waterfall numbers of any size are
evaluated from their factorization; other numbers fall back to direct
divisor enumeration and must fit in 64 bits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return sc.run(args[0])
		},
	}

	cmd.Flags().StringVar(&sc.configPath, "config", "", "config file path")

	return cmd
}

func (sc *SingleCommand) run(arg string) error {
	rt, err := newRuntime(sc.configPath)
	if err != nil {
		return err
	}

	n, err := parsePositive(arg, "n")
	if err != nil {
		return err
	}

	var (
		z   float64
		tau float64
	)

	exps, err := waterfall.Factor(n, rt.oracle)

	switch {
	case err == nil:
		ev := zaremba.NewEvaluator(rt.oracle)

		z, err = ev.Z(exps)
		if err != nil {
			return err
		}

		tau, _ = exps.Tau().Float64()
	case errors.Is(err, waterfall.ErrNotWaterfall):
		if !n.IsUint64() {
			return fmt.Errorf("%s is not a waterfall number and exceeds 64 bits: %w", arg, err)
		}

		var t uint64
		z, t = zaremba.ZTauDirect(n.Uint64())
		tau = float64(t)
	default:
		return err
	}

	v := z / math.Log(tau)

	fmt.Fprintf(os.Stdout, "z(n) = %v\ttau(n) = %v\tz(n)/ln(tau(n)) = %v\n", z, tau, v)

	return nil
}
