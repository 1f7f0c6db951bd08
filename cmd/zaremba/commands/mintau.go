package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/zaremba/pkg/walker"
)

// MinTauCommand holds flags for the mintau command.
type MinTauCommand struct {
	configPath string
	all        bool
	exhaustive bool
}

// NewMinTauCommand creates the mintau command.
func NewMinTauCommand() *cobra.Command {
	mc := &MinTauCommand{}

	cmd := &cobra.Command{
		Use:   "mintau <n> <k>",
		Short: "Smallest divisor count among large k-prime waterfall numbers",
		Long: `Finds the smallest tau over waterfall numbers that use exactly k primes
and are at least n. This bound drives the v-record step size during a
records walk; the command exposes it for inspection.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return mc.run(args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&mc.configPath, "config", "", "config file path")
	cmd.Flags().BoolVar(&mc.all, "all", false, "list every explored candidate")
	cmd.Flags().BoolVar(&mc.exhaustive, "exhaustive", false, "disable the fast usable-only pruning")

	return cmd
}

func (mc *MinTauCommand) run(nArg, kArg string) error {
	rt, err := newRuntime(mc.configPath)
	if err != nil {
		return err
	}

	n, err := parsePositive(nArg, "n")
	if err != nil {
		return err
	}

	k, err := parsePositive(kArg, "k")
	if err != nil {
		return err
	}

	if !k.IsInt64() || k.Int64() > int64(rt.cfg.Search.MaxPrimes) {
		return fmt.Errorf("k = %s exceeds the prime table cap", kArg)
	}

	if !mc.all {
		tau, minErr := walker.MinTau(rt.oracle, n, int(k.Int64()))
		if minErr != nil {
			return minErr
		}

		fmt.Fprintf(os.Stdout, "%d\n", tau)

		return nil
	}

	candidates, err := walker.MinTauCandidates(rt.oracle, n, int(k.Int64()), !mc.exhaustive)
	if err != nil {
		return err
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(os.Stdout)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"exponents", "product", "tau", "usable"})

	for _, c := range candidates {
		tbl.AppendRow(table.Row{
			fmt.Sprintf("%v", []int(c.Exps)),
			c.Product.String(),
			c.Tau,
			c.Usable,
		})
	}

	tbl.Render()

	return nil
}
