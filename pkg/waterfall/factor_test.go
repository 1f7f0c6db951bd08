package waterfall_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/zaremba/pkg/primes"
	"github.com/Sumatoshi-tech/zaremba/pkg/waterfall"
)

func TestFactor(t *testing.T) {
	t.Parallel()

	oracle := primes.New(testMaxPrimes)

	tests := []struct {
		name    string
		n       string
		want    []int
		wantErr bool
	}{
		{name: "one", n: "1", want: []int{}},
		{name: "two", n: "2", want: []int{1}},
		{name: "twelve", n: "12", want: []int{2, 1}},
		{name: "primorial", n: "30030", want: []int{1, 1, 1, 1, 1, 1}},
		{name: "deep", n: "129729600", want: []int{6, 4, 2, 1, 1, 1}},
		{name: "huge", n: "446286951930693872026828800000", want: []int{17, 9, 5, 3, 3, 3, 2, 2, 2}},
		{name: "skips two", n: "3", wantErr: true},
		{name: "prime gap", n: "10", wantErr: true},
		{name: "ascending exponents", n: "18", wantErr: true},
		{name: "large non-waterfall", n: "5629499534213120", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n, ok := new(big.Int).SetString(tt.n, 10)
			require.True(t, ok)

			got, err := waterfall.Factor(n, oracle)
			if tt.wantErr {
				require.ErrorIs(t, err, waterfall.ErrNotWaterfall)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, []int(got))

			back, err := got.Value(oracle)
			require.NoError(t, err)
			assert.Zero(t, n.Cmp(back))
		})
	}
}

func TestFactorWithHint(t *testing.T) {
	t.Parallel()

	oracle := primes.New(testMaxPrimes)

	hint, err := waterfall.NewPrimeExp([]int{1, 1})
	require.NoError(t, err)

	tests := []struct {
		name    string
		n       int64
		want    []int
		wantErr bool
	}{
		{name: "exact", n: 6, want: []int{1, 1}},
		{name: "extra power", n: 12, want: []int{2, 1}},
		{name: "extra prime", n: 30, want: []int{1, 1, 1}},
		{name: "both", n: 360, want: []int{3, 2, 1}},
		{name: "ascending cofactor", n: 18, wantErr: true},
		{name: "gap past hint", n: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := waterfall.FactorWithHint(big.NewInt(tt.n), hint, oracle)
			if tt.wantErr {
				require.ErrorIs(t, err, waterfall.ErrNotWaterfall)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, []int(got))
		})
	}
}

func TestFactorWithHintMatchesFactor(t *testing.T) {
	t.Parallel()

	oracle := primes.New(testMaxPrimes)

	hint, err := waterfall.NewPrimeExp([]int{1})
	require.NoError(t, err)

	for n := int64(2); n < 2000; n += 2 {
		plain, plainErr := waterfall.Factor(big.NewInt(n), oracle)
		hinted, hintedErr := waterfall.FactorWithHint(big.NewInt(n), hint, oracle)

		if plainErr != nil {
			require.ErrorIs(t, hintedErr, waterfall.ErrNotWaterfall, "n=%d", n)

			continue
		}

		require.NoError(t, hintedErr, "n=%d", n)
		assert.Equal(t, []int(plain), []int(hinted), "n=%d", n)
	}
}
