package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/zaremba/pkg/checkpoint"
	"github.com/Sumatoshi-tech/zaremba/pkg/render"
	"github.com/Sumatoshi-tech/zaremba/pkg/waterfall"
)

// EnumerateCommand holds flags for the enumerate command.
type EnumerateCommand struct {
	configPath    string
	limit         string
	batch         string
	format        string
	resume        bool
	checkpointDir string
	noCheckpoint  bool
}

// NewEnumerateCommand creates the enumerate command.
func NewEnumerateCommand() *cobra.Command {
	ec := &EnumerateCommand{}

	cmd := &cobra.Command{
		Use:   "enumerate",
		Short: "List every waterfall number up to a limit",
		Long: `Enumerates the waterfall numbers in ascending order up to --limit,
working in batches of --batch. The restart frontier is checkpointed after
every batch, so an interrupted enumeration resumes with --resume.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return ec.run()
		},
	}

	cmd.Flags().StringVar(&ec.configPath, "config", "", "config file path")
	cmd.Flags().StringVarP(&ec.limit, "limit", "l", "", "enumerate waterfall numbers up to this value (inclusive)")
	cmd.Flags().StringVarP(&ec.batch, "batch", "b", "", "batch width (default from config)")
	cmd.Flags().StringVarP(&ec.format, "format", "f", render.FormatPlain, "output format: plain, table")
	cmd.Flags().BoolVar(&ec.resume, "resume", false, "continue from the saved checkpoint")
	cmd.Flags().StringVar(&ec.checkpointDir, "checkpoint-dir", "", "checkpoint directory (default ~/.zaremba)")
	cmd.Flags().BoolVar(&ec.noCheckpoint, "no-checkpoint", false, "disable checkpoint writes")

	err := cmd.MarkFlagRequired("limit")
	if err != nil {
		panic(err)
	}

	return cmd
}

func (ec *EnumerateCommand) run() error {
	rt, err := newRuntime(ec.configPath)
	if err != nil {
		return err
	}

	limit, err := parsePositive(ec.limit, "--limit")
	if err != nil {
		return err
	}

	batchStr := ec.batch
	if batchStr == "" {
		batchStr = rt.cfg.Search.BatchStep
	}

	step, err := parsePositive(batchStr, "--batch")
	if err != nil {
		return err
	}

	dir := ec.checkpointDir
	if dir == "" {
		dir = rt.cfg.Checkpoint.Dir
	}

	manager := checkpoint.NewManager(dir)

	restarts, bound, fresh, err := ec.startState(manager, step)
	if err != nil {
		return err
	}

	// limitExcl makes --limit inclusive: batches emit values below the bound.
	limitExcl := new(big.Int).Add(limit, big.NewInt(1))
	if bound.Cmp(limitExcl) > 0 {
		bound.Set(limitExcl)
	}

	enum := waterfall.NewEnumerator(rt.oracle)
	out := ec.newPrinter()

	if fresh && limit.Sign() > 0 {
		out.print(waterfall.Item{N: big.NewInt(1), Exps: waterfall.PrimorialExp{}})
	}

	for {
		items, next, batchErr := enum.Batch(restarts, bound)
		if batchErr != nil {
			return batchErr
		}

		for _, it := range items {
			out.print(it)
		}

		restarts = next

		if !ec.noCheckpoint {
			err = manager.SaveEnum(restarts, bound.String())
			if err != nil {
				return err
			}
		}

		rt.log.Debug("batch complete",
			slog.String("bound", humanize.BigComma(new(big.Int).Set(bound))),
			slog.Int("frontier", len(restarts)),
		)

		if bound.Cmp(limitExcl) >= 0 {
			break
		}

		bound.Add(bound, step)
		if bound.Cmp(limitExcl) > 0 {
			bound.Set(limitExcl)
		}
	}

	out.flush()

	return nil
}

// startState returns the restart frontier and first bound, loading the
// checkpoint when resuming.
func (ec *EnumerateCommand) startState(manager *checkpoint.Manager, step *big.Int) ([]waterfall.Restart, *big.Int, bool, error) {
	if !ec.resume {
		return waterfall.InitialRestarts(), new(big.Int).Set(step), true, nil
	}

	if !manager.HasEnum() {
		return nil, nil, false, errors.New("no checkpoint to resume from; run without --resume first")
	}

	restarts, boundStr, err := manager.LoadEnum()
	if err != nil {
		return nil, nil, false, err
	}

	done, ok := new(big.Int).SetString(boundStr, 10)
	if !ok {
		return nil, nil, false, fmt.Errorf("corrupt checkpoint bound %q", boundStr)
	}

	// The saved bound was fully processed; continue one batch past it.
	return restarts, done.Add(done, step), false, nil
}

type enumPrinter struct {
	tbl   table.Writer
	plain bool
}

func (ec *EnumerateCommand) newPrinter() *enumPrinter {
	if ec.format != render.FormatTable {
		return &enumPrinter{plain: true}
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(os.Stdout)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"n", "exponents", "tau"})

	return &enumPrinter{tbl: tbl}
}

func (p *enumPrinter) print(it waterfall.Item) {
	exps := it.Exps.Primes()

	if p.plain {
		fmt.Fprintf(os.Stdout, "%s\t%v\n", it.N.String(), []int(exps))

		return
	}

	p.tbl.AppendRow(table.Row{it.N.String(), fmt.Sprintf("%v", []int(exps)), exps.Tau().String()})
}

func (p *enumPrinter) flush() {
	if p.tbl != nil {
		p.tbl.Render()
	}
}
