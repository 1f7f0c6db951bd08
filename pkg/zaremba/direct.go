package zaremba

import "math"

// ZTauDirect computes z(n) and tau(n) by direct trial division over divisor
// pairs up to sqrt(n). It makes no waterfall assumption, so it serves
// arbitrary n in the single-value command and acts as the reference
// implementation the decomposition in Z is cross-checked against.
func ZTauDirect(n uint64) (float64, uint64) {
	var (
		sum float64
		tau uint64
	)

	for small := uint64(1); small*small <= n; small++ {
		if n%small != 0 {
			continue
		}

		sum += math.Log(float64(small)) / float64(small)
		tau++

		if large := n / small; large != small {
			sum += math.Log(float64(large)) / float64(large)
			tau++
		}
	}

	return sum, tau
}
