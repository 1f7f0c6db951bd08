package waterfall_test

import (
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/zaremba/pkg/primes"
	"github.com/Sumatoshi-tech/zaremba/pkg/waterfall"
)

// waterfallBelow2400 is the ascending sequence of waterfall numbers below
// 2400 (OEIS A025487).
var waterfallBelow2400 = []int64{
	1, 2, 4, 6, 8, 12, 16, 24, 30, 32,
	36, 48, 60, 64, 72, 96, 120, 128, 144, 180,
	192, 210, 216, 240, 256, 288, 360, 384, 420, 432,
	480, 512, 576, 720, 768, 840, 864, 900, 960, 1024,
	1080, 1152, 1260, 1296, 1440, 1536, 1680, 1728, 1800, 1920,
	2048, 2160, 2304, 2310,
}

// collect drains a bounded item sequence into plain integers, failing the
// test on any mid-stream error.
func collect(t *testing.T, seq func(yield func(waterfall.Item, error) bool)) []int64 {
	t.Helper()

	var out []int64

	for it, err := range seq {
		require.NoError(t, err)
		require.True(t, it.N.IsInt64())

		out = append(out, it.N.Int64())
	}

	return out
}

func TestUpToMatchesKnownSequence(t *testing.T) {
	t.Parallel()

	enum := waterfall.NewEnumerator(primes.New(testMaxPrimes))

	got := collect(t, enum.UpTo(big.NewInt(2400)))

	assert.Equal(t, waterfallBelow2400, got)
}

func TestUpToExponentsMatchValues(t *testing.T) {
	t.Parallel()

	oracle := primes.New(testMaxPrimes)
	enum := waterfall.NewEnumerator(oracle)

	for it, err := range enum.UpTo(big.NewInt(100_000)) {
		require.NoError(t, err)

		back, err := waterfall.Unfactor(it.Exps, oracle)
		require.NoError(t, err)
		assert.Zero(t, it.N.Cmp(back), "n=%s exps=%v", it.N, it.Exps)
	}
}

func TestBatchWidthDoesNotChangeTheSequence(t *testing.T) {
	t.Parallel()

	const limit = 2400

	for width := int64(1); width <= 16; width++ {
		t.Run(fmt.Sprintf("width=%d", width), func(t *testing.T) {
			t.Parallel()

			enum := waterfall.NewEnumerator(primes.New(testMaxPrimes))

			got := []int64{1}
			restarts := waterfall.InitialRestarts()

			for bound := width; ; bound += width {
				upper := min(bound, limit)

				items, next, err := enum.Batch(restarts, big.NewInt(upper))
				require.NoError(t, err)

				for _, it := range items {
					require.True(t, it.N.IsInt64())

					got = append(got, it.N.Int64())
				}

				restarts = next

				if upper == limit {
					break
				}
			}

			assert.Equal(t, waterfallBelow2400, got)
		})
	}
}

func TestBatchEmissionsNeverFallBelowThePreviousBound(t *testing.T) {
	t.Parallel()

	enum := waterfall.NewEnumerator(primes.New(testMaxPrimes))

	restarts := waterfall.InitialRestarts()
	prev := big.NewInt(0)

	for bound := int64(500); bound <= 5000; bound += 500 {
		items, next, err := enum.Batch(restarts, big.NewInt(bound))
		require.NoError(t, err)

		for _, it := range items {
			assert.GreaterOrEqual(t, it.N.Cmp(prev), 0, "n=%s prev bound=%s", it.N, prev)
			assert.Negative(t, it.N.Cmp(big.NewInt(bound)), "n=%s bound=%d", it.N, bound)
		}

		restarts = next
		prev = big.NewInt(bound)
	}
}

func TestStreamMatchesUpTo(t *testing.T) {
	t.Parallel()

	const take = 200

	enum := waterfall.NewEnumerator(primes.New(testMaxPrimes))

	var streamed []int64

	for it, err := range enum.Stream(big.NewInt(1000)) {
		require.NoError(t, err)
		require.True(t, it.N.IsInt64())

		streamed = append(streamed, it.N.Int64())
		if len(streamed) == take {
			break
		}
	}

	bounded := collect(t, enum.UpTo(big.NewInt(streamed[take-1]+1)))

	assert.Equal(t, bounded[:take], streamed)
}

func TestForKPrimesAndMaxTau(t *testing.T) {
	t.Parallel()

	enum := waterfall.NewEnumerator(primes.New(testMaxPrimes))

	got := collect(t, enum.ForKPrimesAndMaxTau(2, 12))

	assert.ElementsMatch(t, []int64{6, 12, 24, 36, 48, 72, 96}, got)
}

func TestForKPrimesAndMaxTauSinglePrime(t *testing.T) {
	t.Parallel()

	enum := waterfall.NewEnumerator(primes.New(testMaxPrimes))

	got := collect(t, enum.ForKPrimesAndMaxTau(1, 5))

	// Powers of two with at most four divisors: tau(2^e) = e + 1.
	assert.ElementsMatch(t, []int64{2, 4, 8, 16}, got)
}

func TestForKPrimesAndMaxTauWideVectorsYieldNothing(t *testing.T) {
	t.Parallel()

	enum := waterfall.NewEnumerator(primes.New(testMaxPrimes))

	// Any waterfall number on 65 primes has at least 2^65 divisors, beyond
	// every uint64 bound, so the prune must cut the search at the root.
	got := collect(t, enum.ForKPrimesAndMaxTau(65, math.MaxUint64))

	assert.Empty(t, got)
}

func TestForKPrimesAndMaxTauRejectsZeroPrimes(t *testing.T) {
	t.Parallel()

	enum := waterfall.NewEnumerator(primes.New(testMaxPrimes))

	for _, err := range enum.ForKPrimesAndMaxTau(0, 10) {
		require.ErrorIs(t, err, waterfall.ErrNotWaterfall)
	}
}
