package zaremba

import "math"

// Bounds derives analytic caps on z over waterfall numbers with a fixed
// count of distinct primes. The record walker uses them to prove that any
// future record-setter must be divisible by the product of the first m
// primes, which is what licenses stepping by that primorial.
type Bounds struct {
	ev *Evaluator
}

// NewBounds creates a bounds calculator sharing the evaluator's oracle.
func NewBounds(ev *Evaluator) *Bounds {
	return &Bounds{ev: ev}
}

// MertensProduct computes the product over the first k primes of p/(p-1),
// an upper bound on sigma(n)/n for any n using only those primes.
func (b *Bounds) MertensProduct(k int) (float64, error) {
	prod := 1.0

	for i := range k {
		p, err := b.ev.prime(i)
		if err != nil {
			return 0, err
		}

		prod *= p / (p - 1)
	}

	return prod, nil
}

// ErdosSum computes the sum over the first k primes of ln(p)/(p-1).
func (b *Bounds) ErdosSum(k int) (float64, error) {
	sum := 0.0

	for i := range k {
		p, err := b.ev.prime(i)
		if err != nil {
			return 0, err
		}

		sum += math.Log(p) / (p - 1)
	}

	return sum, nil
}

// ZCap bounds z(n) over all waterfall numbers with exactly k distinct
// primes: z(n) < MertensProduct(k) * ErdosSum(k).
//
// Derivation: in the per-prime decomposition of z, each term is bounded by
// sigma(m_i)/m_i < MertensProduct(k)*(p_i-1)/p_i and the inner power series
// by its closed form p_i/(p_i-1)^2, leaving ln(p_i)/(p_i-1) per prime.
// The cap is strictly increasing in k.
func (b *Bounds) ZCap(k int) (float64, error) {
	mertens, err := b.MertensProduct(k)
	if err != nil {
		return 0, err
	}

	erdos, err := b.ErdosSum(k)
	if err != nil {
		return 0, err
	}

	return mertens * erdos, nil
}

// MinZBasis returns the smallest count of leading primes k such that a
// waterfall number with only k distinct primes could still exceed record.
// Every future z-record is then divisible by the k-th primorial.
func (b *Bounds) MinZBasis(record float64) (int, error) {
	for k := 1; ; k++ {
		zCap, err := b.ZCap(k)
		if err != nil {
			return 0, err
		}

		if zCap > record {
			return k, nil
		}
	}
}
