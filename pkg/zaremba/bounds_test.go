package zaremba_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/zaremba/pkg/primes"
	"github.com/Sumatoshi-tech/zaremba/pkg/waterfall"
	"github.com/Sumatoshi-tech/zaremba/pkg/zaremba"
)

func newBounds() *zaremba.Bounds {
	return zaremba.NewBounds(zaremba.NewEvaluator(primes.New(testMaxPrimes)))
}

func TestMertensProduct(t *testing.T) {
	t.Parallel()

	b := newBounds()

	tests := []struct {
		k    int
		want float64
	}{
		{k: 0, want: 1},
		{k: 1, want: 2},
		{k: 2, want: 3},
		{k: 3, want: 3.75},
		{k: 4, want: 4.375},
	}

	for _, tt := range tests {
		got, err := b.MertensProduct(tt.k)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, refEpsilon, "k=%d", tt.k)
	}
}

func TestErdosSum(t *testing.T) {
	t.Parallel()

	b := newBounds()

	got, err := b.ErdosSum(0)
	require.NoError(t, err)
	assert.Zero(t, got)

	got, err = b.ErdosSum(1)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(2), got, refEpsilon)

	got, err = b.ErdosSum(3)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(2)+math.Log(3)/2+math.Log(5)/4, got, refEpsilon)
}

func TestZCapIsIncreasing(t *testing.T) {
	t.Parallel()

	b := newBounds()

	prev := 0.0

	for k := 1; k <= 20; k++ {
		zCap, err := b.ZCap(k)
		require.NoError(t, err)
		assert.Greater(t, zCap, prev, "k=%d", k)

		prev = zCap
	}
}

// Every waterfall number with exactly k distinct primes must evaluate below
// ZCap(k); otherwise the walker's step derivation could skip records.
func TestZCapDominatesActualValues(t *testing.T) {
	t.Parallel()

	oracle := primes.New(testMaxPrimes)
	ev := zaremba.NewEvaluator(oracle)
	b := zaremba.NewBounds(ev)
	enum := waterfall.NewEnumerator(oracle)

	for it, err := range enum.UpTo(big.NewInt(1_000_000)) {
		require.NoError(t, err)

		exps := it.Exps.Primes()
		if len(exps) == 0 {
			continue
		}

		z, err := ev.Z(exps)
		require.NoError(t, err)

		zCap, err := b.ZCap(len(exps))
		require.NoError(t, err)

		assert.Less(t, z, zCap, "n=%s", it.N)
	}
}

func TestMinZBasis(t *testing.T) {
	t.Parallel()

	b := newBounds()

	tests := []struct {
		name   string
		record float64
		want   int
	}{
		{name: "fresh run", record: 0.6931471805599453, want: 1},
		{name: "below first cap", record: 1.38, want: 1},
		{name: "after twelve", record: 1.5650534091363246, want: 2},
		{name: "large record", record: 10, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := b.MinZBasis(tt.record)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// The returned basis is minimal: the cap one step below must
			// not clear the record.
			if got > 1 {
				below, err := b.ZCap(got - 1)
				require.NoError(t, err)
				assert.LessOrEqual(t, below, tt.record)
			}
		})
	}
}
