// Package zaremba evaluates the searched number-theoretic functions:
// z(n) = sum over divisors d of n of ln(d)/d, tau(n) = divisor count, and
// v(n) = z(n)/ln(tau(n)), together with the analytic bounds the record
// walker uses to derive safe step sizes.
package zaremba

import (
	"math"

	"github.com/Sumatoshi-tech/zaremba/pkg/primes"
	"github.com/Sumatoshi-tech/zaremba/pkg/waterfall"
)

// Evaluator computes z, tau and v from prime-exponent decompositions without
// materializing divisor lists, which can run to thousands of members for
// record-setting n.
type Evaluator struct {
	oracle *primes.Oracle
}

// NewEvaluator creates an evaluator backed by the given prime oracle.
func NewEvaluator(oracle *primes.Oracle) *Evaluator {
	return &Evaluator{oracle: oracle}
}

// SigmaApprox computes the sum of divisors in closed form:
// the product over primes of (p^(e+1) - 1)/(p - 1).
func (ev *Evaluator) SigmaApprox(exps waterfall.PrimeExp) (float64, error) {
	sigma := 1.0

	for i, e := range exps {
		p, err := ev.prime(i)
		if err != nil {
			return 0, err
		}

		sigma *= (math.Pow(p, float64(e+1)) - 1) / (p - 1)
	}

	return sigma, nil
}

// Z computes sum over divisors d of ln(d)/d via the decomposition
//
//	z(n) = sum_k (sigma(m_k)/m_k) * ln(p_k) * sum_{j=1..e_k} j/p_k^j
//
// where m_k is n with the k-th prime's exponent zeroed. The formula follows
// from splitting ln(d) into per-prime contributions and factoring the
// divisor sum; sum_{d|m} 1/d = sigma(m)/m supplies the weight.
//
// Summation order is fixed for reproducibility: outer loop over ascending
// prime index, inner loop over ascending power. Changing it perturbs the
// last few decimal digits.
func (ev *Evaluator) Z(exps waterfall.PrimeExp) (float64, error) {
	z := 0.0

	for k, ek := range exps {
		pk, err := ev.prime(k)
		if err != nil {
			return 0, err
		}

		// sigma(m_k)/m_k as a product of per-prime factors; the reduced
		// number itself can exceed float64 range, the ratio cannot.
		weight := 1.0

		for i, e := range exps {
			if i == k {
				continue
			}

			p, err := ev.prime(i)
			if err != nil {
				return 0, err
			}

			weight *= (math.Pow(p, float64(e+1)) - 1) / ((p - 1) * math.Pow(p, float64(e)))
		}

		lnP := math.Log(pk)

		inner := 0.0
		for j := 1; j <= ek; j++ {
			inner += float64(j) * lnP / math.Pow(pk, float64(j))
		}

		z += weight * inner
	}

	return z, nil
}

// LnTau returns ln(tau(n)) as a sum of logarithms, exact in float64 range
// even when tau itself is astronomically large.
func LnTau(exps waterfall.PrimeExp) float64 {
	sum := 0.0

	for _, e := range exps {
		sum += math.Log(float64(e + 1))
	}

	return sum
}

// V computes z/ln(tau). Returns NaN when tau is 1 (n = 1), where the ratio
// is undefined.
func (ev *Evaluator) V(exps waterfall.PrimeExp) (float64, error) {
	z, err := ev.Z(exps)
	if err != nil {
		return 0, err
	}

	lnTau := LnTau(exps)
	if lnTau == 0 {
		return math.NaN(), nil
	}

	return z / lnTau, nil
}

func (ev *Evaluator) prime(idx int) (float64, error) {
	p, err := ev.oracle.Nth(idx + 1)
	if err != nil {
		return 0, err
	}

	return float64(p), nil
}
