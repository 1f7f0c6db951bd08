// Package render formats record events and enumeration results for terminal
// and file output.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/zaremba/pkg/walker"
)

// Output formats accepted by the record commands.
const (
	FormatPlain = "plain"
	FormatJSON  = "json"
	FormatTable = "table"
)

// EventWriter streams record events in a fixed format.
type EventWriter struct {
	w       io.Writer
	format  string
	noColor bool
	events  []walker.Event
}

// NewEventWriter creates a writer emitting events to w in the given format.
// Table output is buffered and flushed by Close; plain and JSON are
// line-at-a-time.
func NewEventWriter(w io.Writer, format string, noColor bool) *EventWriter {
	return &EventWriter{w: w, format: format, noColor: noColor}
}

// Write emits one record event.
func (ew *EventWriter) Write(ev walker.Event) error {
	switch ew.format {
	case FormatJSON:
		return ew.writeJSON(ev)
	case FormatTable:
		ew.events = append(ew.events, ev)

		return nil
	default:
		return ew.writePlain(ev)
	}
}

// Close flushes buffered output.
func (ew *EventWriter) Close() error {
	if ew.format != FormatTable {
		return nil
	}

	_, err := fmt.Fprintln(ew.w, EventTable(ew.events))

	return err
}

// eventRecord is the persisted record-sink schema.
type eventRecord struct {
	N    string   `json:"n"`
	Z    float64  `json:"z"`
	Tau  string   `json:"tau"`
	V    *float64 `json:"v,omitempty"`
	Step string   `json:"step"`
	Kind string   `json:"kind"`
}

func (ew *EventWriter) writeJSON(ev walker.Event) error {
	rec := eventRecord{
		N:    ev.N.String(),
		Z:    ev.Z,
		Tau:  ev.Tau.String(),
		Step: ev.Step.String(),
		Kind: string(ev.Kind),
	}

	if !math.IsNaN(ev.V) {
		v := ev.V
		rec.V = &v
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record event: %w", err)
	}

	_, err = fmt.Fprintln(ew.w, string(data))

	return err
}

func (ew *EventWriter) writePlain(ev walker.Event) error {
	_, err := fmt.Fprintf(ew.w, "%s\trecord=%s\tz(n) = %v\ttau(n) = %s\tv(n) = %v\tstep = %s\n",
		ev.N, ew.kindTag(ev.Kind), ev.Z, ev.Tau, ev.V, ev.Step)

	return err
}

func (ew *EventWriter) kindTag(kind walker.Kind) string {
	if ew.noColor {
		return string(kind)
	}

	switch kind {
	case walker.KindBoth:
		return color.New(color.FgGreen).Sprint(kind)
	case walker.KindZ:
		return color.New(color.FgCyan).Sprint(kind)
	case walker.KindV:
		return color.New(color.FgMagenta).Sprint(kind)
	default:
		return string(kind)
	}
}

// EventTable renders record events as an aligned table.
func EventTable(events []walker.Event) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"n", "kind", "z(n)", "tau(n)", "v(n)", "step"})

	for _, ev := range events {
		t.AppendRow(table.Row{
			ev.N.String(),
			string(ev.Kind),
			fmt.Sprintf("%v", ev.Z),
			ev.Tau.String(),
			fmt.Sprintf("%v", ev.V),
			ev.Step.String(),
		})
	}

	return t.Render()
}
