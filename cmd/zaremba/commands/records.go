package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/zaremba/pkg/checkpoint"
	"github.com/Sumatoshi-tech/zaremba/pkg/observability"
	"github.com/Sumatoshi-tech/zaremba/pkg/render"
	"github.com/Sumatoshi-tech/zaremba/pkg/walker"
)

// metricsReadTimeout bounds the scrape endpoint's header read.
const metricsReadTimeout = 10 * time.Second

// RecordsCommand holds flags for the records walk command.
type RecordsCommand struct {
	configPath    string
	format        string
	noColor       bool
	maxN          string
	maxRecords    int
	resume        bool
	checkpointDir string
	noCheckpoint  bool
	metricsAddr   string
}

// NewRecordsCommand creates the records command.
func NewRecordsCommand() *cobra.Command {
	rc := &RecordsCommand{}

	cmd := &cobra.Command{
		Use:   "records",
		Short: "Walk waterfall numbers emitting every z and v record",
		Long: `Walks the waterfall numbers in ascending order, printing each n that sets
a new record for z(n) or v(n) = z(n)/ln(tau(n)). The walk step grows as
records accumulate, derived from analytic bounds that guarantee no record
can be skipped. The walk is unbounded unless --max-n or --max-records is
given; a checkpoint is written after every record so an interrupted run
resumes with --resume.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return rc.run()
		},
	}

	cmd.Flags().StringVar(&rc.configPath, "config", "", "config file path")
	cmd.Flags().StringVarP(&rc.format, "format", "f", render.FormatPlain, "output format: plain, json, table")
	cmd.Flags().BoolVar(&rc.noColor, "no-color", false, "disable colored output")
	cmd.Flags().StringVar(&rc.maxN, "max-n", "", "stop once the walk passes this position")
	cmd.Flags().IntVar(&rc.maxRecords, "max-records", 0, "stop after this many records (0 = unbounded)")
	cmd.Flags().BoolVar(&rc.resume, "resume", false, "continue from the saved checkpoint")
	cmd.Flags().StringVar(&rc.checkpointDir, "checkpoint-dir", "", "checkpoint directory (default ~/.zaremba)")
	cmd.Flags().BoolVar(&rc.noCheckpoint, "no-checkpoint", false, "disable checkpoint writes")
	cmd.Flags().StringVar(&rc.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	return cmd
}

func (rc *RecordsCommand) run() error {
	rt, err := newRuntime(rc.configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if rc.metricsAddr == "" {
		rc.metricsAddr = rt.cfg.Metrics.Addr
	}

	metrics, err := rc.startMetrics(ctx, rt.log)
	if err != nil {
		return err
	}

	opts := walker.Options{
		Logger:      rt.log,
		Metrics:     metrics,
		RecalcSteps: rt.cfg.Search.RecalcSteps,
	}

	dir := rc.checkpointDir
	if dir == "" {
		dir = rt.cfg.Checkpoint.Dir
	}

	manager := checkpoint.NewManager(dir)

	w, err := rc.buildWalker(rt, manager, opts)
	if err != nil {
		return err
	}

	limit, err := rc.parseLimit()
	if err != nil {
		return err
	}

	out := render.NewEventWriter(os.Stdout, rc.format, rc.noColor)
	defer func() {
		closeErr := out.Close()
		if closeErr != nil {
			rt.log.Warn("flush output", slog.Any("error", closeErr))
		}
	}()

	count := 0

	for ev, walkErr := range w.Walk(ctx) {
		if walkErr != nil {
			return walkErr
		}

		if limit != nil && ev.N.Cmp(limit) > 0 {
			break
		}

		err = out.Write(ev)
		if err != nil {
			return err
		}

		if !rc.noCheckpoint {
			err = manager.SaveWalk(w.Checkpoint())
			if err != nil {
				return err
			}
		}

		count++
		if rc.maxRecords > 0 && count >= rc.maxRecords {
			break
		}
	}

	return nil
}

// buildWalker constructs a fresh or resumed walker.
func (rc *RecordsCommand) buildWalker(rt *runtime, manager *checkpoint.Manager, opts walker.Options) (*walker.Walker, error) {
	if !rc.resume {
		return walker.New(rt.oracle, opts), nil
	}

	if !manager.HasWalk() {
		return nil, errors.New("no checkpoint to resume from; run without --resume first")
	}

	cp, err := manager.LoadWalk()
	if err != nil {
		return nil, err
	}

	rt.log.Info("resuming walk",
		slog.String("position", cp.N),
		slog.Int("step_basis", cp.StepBasis),
	)

	return walker.Resume(rt.oracle, cp, opts)
}

func (rc *RecordsCommand) parseLimit() (*big.Int, error) {
	if rc.maxN == "" {
		return nil, nil
	}

	n, err := parsePositive(rc.maxN, "--max-n")
	if err != nil {
		return nil, err
	}

	return n, nil
}

// startMetrics serves the Prometheus endpoint when an address is configured.
func (rc *RecordsCommand) startMetrics(ctx context.Context, log *slog.Logger) (*observability.WalkMetrics, error) {
	if rc.metricsAddr == "" {
		return nil, nil
	}

	meter, handler, err := observability.PrometheusMeter()
	if err != nil {
		return nil, err
	}

	metrics, err := observability.NewWalkMetrics(meter)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	server := &http.Server{
		Addr:              rc.metricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadTimeout,
	}

	go func() {
		serveErr := server.ListenAndServe()
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			log.Error("metrics server", slog.Any("error", serveErr))
		}
	}()

	go func() {
		<-ctx.Done()

		shutdownErr := server.Close()
		if shutdownErr != nil {
			log.Warn("metrics server shutdown", slog.Any("error", shutdownErr))
		}
	}()

	fmt.Fprintf(os.Stderr, "metrics: http://%s/metrics\n", rc.metricsAddr)

	return metrics, nil
}
