package render

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/big"

	"github.com/Sumatoshi-tech/zaremba/pkg/walker"
)

// ReadEvents parses a JSONL record stream written by an EventWriter in
// FormatJSON back into events, e.g. to feed the plot command.
func ReadEvents(r io.Reader) ([]walker.Event, error) {
	var events []walker.Event

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	line := 0

	for scanner.Scan() {
		line++

		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}

		var rec eventRecord

		err := json.Unmarshal(text, &rec)
		if err != nil {
			return nil, fmt.Errorf("record line %d: %w", line, err)
		}

		ev, err := rec.event()
		if err != nil {
			return nil, fmt.Errorf("record line %d: %w", line, err)
		}

		events = append(events, ev)
	}

	err := scanner.Err()
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	return events, nil
}

func (rec eventRecord) event() (walker.Event, error) {
	n, ok := new(big.Int).SetString(rec.N, 10)
	if !ok {
		return walker.Event{}, fmt.Errorf("n %q is not an integer", rec.N)
	}

	tau, ok := new(big.Int).SetString(rec.Tau, 10)
	if !ok {
		return walker.Event{}, fmt.Errorf("tau %q is not an integer", rec.Tau)
	}

	step, ok := new(big.Int).SetString(rec.Step, 10)
	if !ok {
		return walker.Event{}, fmt.Errorf("step %q is not an integer", rec.Step)
	}

	v := math.NaN()
	if rec.V != nil {
		v = *rec.V
	}

	return walker.Event{
		N:    n,
		Z:    rec.Z,
		Tau:  tau,
		V:    v,
		Step: step,
		Kind: walker.Kind(rec.Kind),
	}, nil
}
