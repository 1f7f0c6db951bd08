package render_test

import (
	"bytes"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/zaremba/pkg/render"
	"github.com/Sumatoshi-tech/zaremba/pkg/walker"
)

func sampleEvents() []walker.Event {
	return []walker.Event{
		{
			N:         big.NewInt(4),
			Z:         0.6931471805599453,
			Tau:       big.NewInt(3),
			V:         0.6309297535714574,
			Step:      big.NewInt(2),
			StepBasis: 1,
			Kind:      walker.KindBoth,
		},
		{
			N:         big.NewInt(12),
			Z:         1.5650534091363246,
			Tau:       big.NewInt(6),
			V:         0.8734729387592397,
			Step:      big.NewInt(6),
			StepBasis: 2,
			Kind:      walker.KindZ,
		},
	}
}

func TestPlainOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	ew := render.NewEventWriter(&buf, render.FormatPlain, true)

	for _, ev := range sampleEvents() {
		require.NoError(t, ew.Write(ev))
	}

	require.NoError(t, ew.Close())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "4\trecord=both")
	assert.Contains(t, lines[0], "z(n) = 0.6931471805599453")
	assert.Contains(t, lines[0], "tau(n) = 3")
	assert.Contains(t, lines[0], "step = 2")
	assert.Contains(t, lines[1], "12\trecord=z")
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	ew := render.NewEventWriter(&buf, render.FormatJSON, true)

	want := sampleEvents()
	for _, ev := range want {
		require.NoError(t, ew.Write(ev))
	}

	require.NoError(t, ew.Close())

	got, err := render.ReadEvents(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(want))

	for i := range want {
		assert.Zero(t, want[i].N.Cmp(got[i].N), "event %d", i)
		assert.Equal(t, want[i].Z, got[i].Z, "event %d", i)
		assert.Zero(t, want[i].Tau.Cmp(got[i].Tau), "event %d", i)
		assert.Equal(t, want[i].V, got[i].V, "event %d", i)
		assert.Zero(t, want[i].Step.Cmp(got[i].Step), "event %d", i)
		assert.Equal(t, want[i].Kind, got[i].Kind, "event %d", i)
	}
}

func TestJSONOmitsUndefinedV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	ew := render.NewEventWriter(&buf, render.FormatJSON, true)

	ev := sampleEvents()[0]
	ev.V = math.NaN()
	require.NoError(t, ew.Write(ev))

	assert.NotContains(t, buf.String(), `"v"`)

	got, err := render.ReadEvents(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, math.IsNaN(got[0].V))
}

func TestTableOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	ew := render.NewEventWriter(&buf, render.FormatTable, true)

	for _, ev := range sampleEvents() {
		require.NoError(t, ew.Write(ev))
	}

	// Table output is buffered until Close.
	assert.Empty(t, buf.String())

	require.NoError(t, ew.Close())

	out := buf.String()
	assert.Contains(t, out, "N")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "both")
}

func TestReadEventsRejectsBadLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "not json", input: "nonsense\n"},
		{name: "bad n", input: `{"n":"x","z":1,"tau":"2","step":"2","kind":"z"}` + "\n"},
		{name: "bad tau", input: `{"n":"4","z":1,"tau":"x","step":"2","kind":"z"}` + "\n"},
		{name: "bad step", input: `{"n":"4","z":1,"tau":"2","step":"x","kind":"z"}` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := render.ReadEvents(strings.NewReader(tt.input))
			require.Error(t, err)
		})
	}
}

func TestReadEventsSkipsBlankLines(t *testing.T) {
	t.Parallel()

	input := "\n" + `{"n":"4","z":0.69,"tau":"3","step":"2","kind":"both"}` + "\n\n"

	got, err := render.ReadEvents(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
