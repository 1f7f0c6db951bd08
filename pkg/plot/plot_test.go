package plot_test

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/zaremba/pkg/plot"
	"github.com/Sumatoshi-tech/zaremba/pkg/walker"
)

func TestWriteHTML(t *testing.T) {
	t.Parallel()

	events := []walker.Event{
		{N: big.NewInt(4), Z: 0.693, Tau: big.NewInt(3), V: 0.631, Step: big.NewInt(2), Kind: walker.KindBoth},
		{N: big.NewInt(6), Z: 1.011, Tau: big.NewInt(4), V: 0.730, Step: big.NewInt(2), Kind: walker.KindBoth},
		{N: big.NewInt(12), Z: 1.565, Tau: big.NewInt(6), V: 0.873, Step: big.NewInt(6), Kind: walker.KindBoth},
	}

	var buf bytes.Buffer

	require.NoError(t, plot.WriteHTML(events, "record progression", &buf))

	out := buf.String()
	assert.Contains(t, out, "<html>")
	assert.Contains(t, out, "record progression")
	assert.Contains(t, out, "z(n)")
	assert.Contains(t, out, "v(n)")
	assert.Contains(t, out, `"12"`)
}

func TestRecordChartSeries(t *testing.T) {
	t.Parallel()

	events := []walker.Event{
		{N: big.NewInt(4), Z: 0.693, Tau: big.NewInt(3), V: 0.631, Step: big.NewInt(2), Kind: walker.KindBoth},
	}

	line := plot.RecordChart(events, "t")
	require.NotNil(t, line)
	assert.Len(t, line.MultiSeries, 2)
}
