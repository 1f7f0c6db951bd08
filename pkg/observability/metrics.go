package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const attrRecordKind = "kind"

// WalkMetrics instruments the record walk. A nil *WalkMetrics is valid and
// records nothing, so callers never need to branch on whether metrics are
// enabled.
type WalkMetrics struct {
	positions metric.Int64Counter
	records   metric.Int64Counter
	stepBasis metric.Int64Gauge
}

// NewWalkMetrics creates the walk instruments on the given meter.
func NewWalkMetrics(meter metric.Meter) (*WalkMetrics, error) {
	positions, err := meter.Int64Counter(
		"zaremba_walk_positions_total",
		metric.WithDescription("Positions visited by the record walk."),
	)
	if err != nil {
		return nil, fmt.Errorf("create positions counter: %w", err)
	}

	records, err := meter.Int64Counter(
		"zaremba_walk_records_total",
		metric.WithDescription("Record events emitted, by kind."),
	)
	if err != nil {
		return nil, fmt.Errorf("create records counter: %w", err)
	}

	stepBasis, err := meter.Int64Gauge(
		"zaremba_walk_step_basis",
		metric.WithDescription("Leading-prime count of the current step size."),
	)
	if err != nil {
		return nil, fmt.Errorf("create step basis gauge: %w", err)
	}

	return &WalkMetrics{
		positions: positions,
		records:   records,
		stepBasis: stepBasis,
	}, nil
}

// Position counts one visited walk position.
func (m *WalkMetrics) Position(ctx context.Context) {
	if m == nil {
		return
	}

	m.positions.Add(ctx, 1)
}

// Record counts one record event of the given kind.
func (m *WalkMetrics) Record(ctx context.Context, kind string) {
	if m == nil {
		return
	}

	m.records.Add(ctx, 1, metric.WithAttributes(attribute.String(attrRecordKind, kind)))
}

// StepBasis reports the current step's leading-prime count.
func (m *WalkMetrics) StepBasis(ctx context.Context, basis int) {
	if m == nil {
		return
	}

	m.stepBasis.Record(ctx, int64(basis))
}
