// Package main provides the entry point for the zaremba CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/zaremba/cmd/zaremba/commands"
	"github.com/Sumatoshi-tech/zaremba/pkg/version"
)

func main() {
	version.Init()

	rootCmd := &cobra.Command{
		Use:   "zaremba",
		Short: "Record search for the Zaremba divisor sum over waterfall numbers",
		Long: `Zaremba searches for record-setting values of z(n), the sum of ln(d)/d
over the divisors of n, and of v(n) = z(n)/ln(tau(n)), stepping only
through waterfall numbers (OEIS A025487).

Commands:
  records    Walk waterfall numbers emitting every z and v record
  single     Evaluate z, tau and v for one n
  enumerate  List waterfall numbers below a bound
  mintau     Minimum divisor count at or above a target
  plot       Chart a recorded search as HTML`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewRecordsCommand())
	rootCmd.AddCommand(commands.NewSingleCommand())
	rootCmd.AddCommand(commands.NewEnumerateCommand())
	rootCmd.AddCommand(commands.NewMinTauCommand())
	rootCmd.AddCommand(commands.NewPlotCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "zaremba %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
