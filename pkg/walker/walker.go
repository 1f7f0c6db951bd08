package walker

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"math"
	"math/big"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/zaremba/pkg/observability"
	"github.com/Sumatoshi-tech/zaremba/pkg/primes"
	"github.com/Sumatoshi-tech/zaremba/pkg/waterfall"
	"github.com/Sumatoshi-tech/zaremba/pkg/zaremba"
)

// ErrStepIncompatible indicates the z-oriented and v-oriented step sizes do
// not divide one another. The walker has no sound merge policy for that
// case, so it aborts instead of proceeding with a step that could skip
// records. With primorial step bases this cannot trigger; the assertion
// guards future non-primorial bases.
var ErrStepIncompatible = errors.New("z and v step sizes do not divide one another")

// Kind tags which function a record event improved.
type Kind string

// Record kinds.
const (
	KindZ    Kind = "z"
	KindV    Kind = "v"
	KindBoth Kind = "both"
)

// Event is one record-setting position in the walk.
type Event struct {
	N         *big.Int
	Z         float64
	Tau       *big.Int
	V         float64
	Step      *big.Int
	StepBasis int
	Kind      Kind
}

// Checkpoint captures enough walker state to resume a run. N is the last
// record-setting position, string-encoded to survive arbitrary precision.
type Checkpoint struct {
	N          string  `json:"n"`
	StepBasis  int     `json:"step_basis"`
	VStepBasis int     `json:"v_step_basis"`
	Record     float64 `json:"record"`
	RecordV    float64 `json:"record_v"`
}

// DefaultRecalcSteps is how many walk steps pass between periodic v-step
// recalculations. Measured in steps rather than positions, the interval in
// position terms scales with the current step size automatically, keeping
// the minimum-tau searches a bounded fraction of the work.
const DefaultRecalcSteps = 1024

// progressEvery is the step interval between progress log lines.
const progressEvery = 1 << 20

// maxVBasis caps the v step-basis search as an overflow guard.
const maxVBasis = 64

// Options configures a Walker. The zero value is usable.
type Options struct {
	// Logger receives progress and step-change logs. Nil discards.
	Logger *slog.Logger

	// Metrics instruments the walk. Nil records nothing.
	Metrics *observability.WalkMetrics

	// RecalcSteps overrides DefaultRecalcSteps when positive.
	RecalcSteps int
}

// Walker steps through waterfall numbers emitting z and v records,
// re-deriving its step size from the analytic bounds whenever a record is
// set. Single-consumer; not safe for concurrent use.
type Walker struct {
	oracle  *primes.Oracle
	ev      *zaremba.Evaluator
	bounds  *zaremba.Bounds
	log     *slog.Logger
	metrics *observability.WalkMetrics

	recalcSteps int
	sinceRecalc int
	stepCount   uint64

	pos     *big.Int
	step    *big.Int
	stepExp waterfall.PrimeExp

	zBasis  int
	vBasis  int
	recordZ float64
	recordV float64

	skipCurrent bool
}

// New creates a walker starting from position 1 with step 1.
func New(oracle *primes.Oracle, opts Options) *Walker {
	ev := zaremba.NewEvaluator(oracle)

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	recalc := opts.RecalcSteps
	if recalc <= 0 {
		recalc = DefaultRecalcSteps
	}

	return &Walker{
		oracle:      oracle,
		ev:          ev,
		bounds:      zaremba.NewBounds(ev),
		log:         logger,
		metrics:     opts.Metrics,
		recalcSteps: recalc,
		pos:         big.NewInt(1),
		step:        big.NewInt(1),
		stepExp:     waterfall.PrimeExp{},
	}
}

// Resume creates a walker continuing from a checkpoint taken immediately
// after a record. The walk picks up at the first step position past the
// checkpointed record, so the subsequent record sequence matches an
// uninterrupted run.
func Resume(oracle *primes.Oracle, cp Checkpoint, opts Options) (*Walker, error) {
	w := New(oracle, opts)

	pos, ok := new(big.Int).SetString(cp.N, 10)
	if !ok || pos.Sign() <= 0 {
		return nil, fmt.Errorf("checkpoint position %q is not a positive integer", cp.N)
	}

	if cp.StepBasis < 0 || cp.VStepBasis < 0 {
		return nil, fmt.Errorf("checkpoint step basis %d/%d is negative", cp.StepBasis, cp.VStepBasis)
	}

	w.pos = pos
	w.zBasis = cp.StepBasis
	w.vBasis = cp.VStepBasis
	w.recordZ = cp.Record
	w.recordV = cp.RecordV
	w.skipCurrent = true

	err := w.setStep(min(w.zBasis, w.vBasis))
	if err != nil {
		return nil, err
	}

	return w, nil
}

// Checkpoint snapshots the walker. Meaningful when taken while consuming an
// event, before pulling the next one: the position is then the event's n.
func (w *Walker) Checkpoint() Checkpoint {
	return Checkpoint{
		N:          w.pos.String(),
		StepBasis:  w.zBasis,
		VStepBasis: w.vBasis,
		Record:     w.recordZ,
		RecordV:    w.recordV,
	}
}

// Walk yields record events in ascending-n order, one per z and/or v record.
// The sequence is unbounded; the consumer stops it by breaking out, or via
// ctx cancellation. A non-nil error, if any, is the final element and ends
// the run (prime table exhaustion and step incompatibility are fatal).
func (w *Walker) Walk(ctx context.Context) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for {
			if ctx.Err() != nil {
				return
			}

			if w.skipCurrent {
				w.skipCurrent = false
				w.advance()

				continue
			}

			exps, err := waterfall.FactorWithHint(w.pos, w.stepExp, w.oracle)

			switch {
			case errors.Is(err, waterfall.ErrNotWaterfall):
				// Cannot be a record by the governing conjecture.
				w.tick(ctx)

				continue
			case err != nil:
				yield(Event{}, err)

				return
			}

			z, err := w.ev.Z(exps)
			if err != nil {
				yield(Event{}, err)

				return
			}

			lnTau := zaremba.LnTau(exps)

			v := math.NaN()
			if lnTau > 0 {
				v = z / lnTau
			}

			// A value counts as a record only once a positive record
			// exists to beat; the first positions seed the baselines
			// silently.
			isZ := w.recordZ > 0 && z > w.recordZ
			isV := lnTau > 0 && w.recordV > 0 && v > w.recordV

			if z > w.recordZ {
				w.recordZ = z
			}

			if lnTau > 0 && v > w.recordV {
				w.recordV = v
			}

			if isZ || isV {
				kind := KindBoth

				switch {
				case isZ && !isV:
					kind = KindZ
				case isV && !isZ:
					kind = KindV
				}

				err = w.refreshStep()
				if err != nil {
					yield(Event{}, err)

					return
				}

				w.metrics.Record(ctx, string(kind))
				w.metrics.StepBasis(ctx, min(w.zBasis, w.vBasis))

				ev := Event{
					N:         new(big.Int).Set(w.pos),
					Z:         z,
					Tau:       exps.Tau(),
					V:         v,
					Step:      new(big.Int).Set(w.step),
					StepBasis: min(w.zBasis, w.vBasis),
					Kind:      kind,
				}

				if !yield(ev, nil) {
					return
				}
			}

			w.tick(ctx)
		}
	}
}

// tick accounts for one visited position, runs the periodic v-step
// recalculation when due, and advances.
func (w *Walker) tick(ctx context.Context) {
	w.metrics.Position(ctx)
	w.stepCount++

	if w.stepCount%progressEvery == 0 {
		w.log.Debug("walk progress",
			slog.String("position", humanize.BigComma(new(big.Int).Set(w.pos))),
			slog.Int("step_basis", min(w.zBasis, w.vBasis)),
			slog.Float64("record_z", w.recordZ),
			slog.Float64("record_v", w.recordV),
		)
	}

	w.sinceRecalc++

	if w.sinceRecalc >= w.recalcSteps && w.recordV > 0 && w.vBasis > 0 {
		err := w.recalcVBasis()
		if err == nil {
			err = w.setStep(min(w.zBasis, w.vBasis))
		}

		if err != nil {
			// Periodic tightening is an optimization; the next record
			// will surface a persistent failure.
			w.log.Warn("periodic v-step recalculation failed", slog.Any("error", err))
		}
	}

	w.advance()
}

// advance moves to the smallest multiple of the current step strictly above
// the current position. When the step has not changed this is pos + step;
// after a step increase it also realigns the position.
func (w *Walker) advance() {
	q := new(big.Int).Div(w.pos, w.step)
	q.Add(q, big.NewInt(1))
	w.pos = q.Mul(q, w.step)
}

// refreshStep re-derives both step bases from the current records and
// installs the combined step. Called on every record event; both records
// are positive by then.
func (w *Walker) refreshStep() error {
	zBasis, err := w.bounds.MinZBasis(w.recordZ)
	if err != nil {
		return err
	}

	w.zBasis = zBasis

	err = w.recalcVBasis()
	if err != nil {
		return err
	}

	return w.setStep(min(w.zBasis, w.vBasis))
}

// recalcVBasis finds the smallest prime count k whose analytic v cap,
// ZCap(k)/ln(minTau(pos, k)), still admits a value above the current v
// record. Any future v-record is then divisible by the k-th primorial.
// minTau only grows as the walk advances, so recalculating later can only
// raise the basis; a stale basis is a smaller, still-sound step.
func (w *Walker) recalcVBasis() error {
	w.sinceRecalc = 0

	for k := 1; k <= maxVBasis; k++ {
		zCap, err := w.bounds.ZCap(k)
		if err != nil {
			return err
		}

		minTau, err := MinTau(w.oracle, w.pos, k)
		if err != nil {
			return err
		}

		if zCap/math.Log(float64(minTau)) > w.recordV {
			if k != w.vBasis {
				w.log.Debug("v step basis updated", slog.Int("from", w.vBasis), slog.Int("to", k))
			}

			w.vBasis = k

			return nil
		}
	}

	return fmt.Errorf("no v step basis below %d for record %v", maxVBasis, w.recordV)
}

// setStep installs the step for the given combined basis, asserting that
// the z and v steps are compatible (one divides the other).
func (w *Walker) setStep(basis int) error {
	zStep, err := w.oracle.Primorial(w.zBasis)
	if err != nil {
		return err
	}

	vStep, err := w.oracle.Primorial(w.vBasis)
	if err != nil {
		return err
	}

	smaller, larger := zStep, vStep
	if smaller.Cmp(larger) > 0 {
		smaller, larger = larger, smaller
	}

	var rem big.Int
	if rem.Mod(larger, smaller); rem.Sign() != 0 {
		return fmt.Errorf("z step %s vs v step %s: %w", zStep, vStep, ErrStepIncompatible)
	}

	step, err := w.oracle.Primorial(basis)
	if err != nil {
		return err
	}

	if w.step.Cmp(step) != 0 {
		w.log.Info("step size updated",
			slog.Int("basis", basis),
			slog.String("step", step.String()),
		)
	}

	w.step = new(big.Int).Set(step)

	stepExp := make([]int, basis)
	for i := range stepExp {
		stepExp[i] = 1
	}

	w.stepExp = waterfall.PrimeExp(stepExp)

	return nil
}
