// Package waterfall implements the combinatorial core of the record search:
// exponent-vector representations of waterfall numbers (OEIS A025487),
// conversions between them, factorization, and the bounded/resumable
// enumerators that walk the waterfall search space.
//
// A waterfall number is an integer whose prime factorization uses a
// contiguous prefix of primes starting at 2 with non-ascending exponents,
// e.g. 2^4 * 3^2 * 5^2 * 7. Record-setters for the Zaremba-type functions
// searched by this tool are conjectured to occur only among such numbers,
// which is what makes the search space prunable at all.
package waterfall

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/Sumatoshi-tech/zaremba/pkg/primes"
)

// ErrNotWaterfall indicates an integer or exponent vector that violates the
// non-ascending contiguous-prefix constraint. Callers routinely probe
// non-waterfall numbers during the record walk, so this is a typed sentinel
// meant to be branched on cheaply, not a run-ending failure.
var ErrNotWaterfall = errors.New("not a waterfall number")

// PrimeExp is a validated waterfall exponent vector. Entry i is the exponent
// of the (i+1)-th prime. Invariants, enforced by NewPrimeExp: entries are
// non-ascending and every entry is at least 1. The empty vector represents 1.
type PrimeExp []int

// NewPrimeExp validates exps as a waterfall exponent vector.
func NewPrimeExp(exps []int) (PrimeExp, error) {
	for i, e := range exps {
		if e < 1 {
			return nil, fmt.Errorf("exponent %d at index %d: %w", e, i, ErrNotWaterfall)
		}

		if i > 0 && e > exps[i-1] {
			return nil, fmt.Errorf("ascending exponent at index %d: %w", i, ErrNotWaterfall)
		}
	}

	return PrimeExp(exps), nil
}

// Primorials converts prime exponents to primorial exponents by taking
// consecutive differences with a trailing zero pad. Total on any validated
// PrimeExp.
func (e PrimeExp) Primorials() PrimorialExp {
	out := make(PrimorialExp, len(e))

	for i := range e {
		next := 0
		if i+1 < len(e) {
			next = e[i+1]
		}

		out[i] = e[i] - next
	}

	return out
}

// Tau returns the divisor count of the represented number in arbitrary
// precision.
func (e PrimeExp) Tau() *big.Int {
	tau := big.NewInt(1)

	for _, exp := range e {
		tau.Mul(tau, big.NewInt(int64(exp)+1))
	}

	return tau
}

// Value reconstructs the integer represented by the exponent vector.
func (e PrimeExp) Value(oracle *primes.Oracle) (*big.Int, error) {
	v := big.NewInt(1)

	for i, exp := range e {
		p, err := oracle.Nth(i + 1)
		if err != nil {
			return nil, err
		}

		pe := new(big.Int).Exp(new(big.Int).SetUint64(p), big.NewInt(int64(exp)), nil)
		v.Mul(v, pe)
	}

	return v, nil
}

// PrimorialExp is an exponent vector over primorials: entry i is the exponent
// of the (i+1)-th primorial (2, 6, 30, 210, ...). Unlike PrimeExp it carries
// no ordering constraint: every vector of non-negative entries maps to a
// valid waterfall number, which is why the enumerator works in this space.
type PrimorialExp []int

// Primes converts primorial exponents to prime exponents via a reverse
// cumulative sum. The result always satisfies the waterfall invariants.
func (pe PrimorialExp) Primes() PrimeExp {
	out := make([]int, len(pe))

	sum := 0
	for i := len(pe) - 1; i >= 0; i-- {
		sum += pe[i]
		out[i] = sum
	}

	// Trailing zero primorial exponents yield zero prime exponents; trim
	// them so the result is a canonical contiguous prefix.
	for len(out) > 0 && out[len(out)-1] == 0 {
		out = out[:len(out)-1]
	}

	return PrimeExp(out)
}

// Unfactor computes the product of primorial_i ^ exps_i.
func Unfactor(pe PrimorialExp, oracle *primes.Oracle) (*big.Int, error) {
	v := big.NewInt(1)

	for i, exp := range pe {
		if exp == 0 {
			continue
		}

		prim, err := oracle.Primorial(i + 1)
		if err != nil {
			return nil, err
		}

		pow := new(big.Int).Exp(prim, big.NewInt(int64(exp)), nil)
		v.Mul(v, pow)
	}

	return v, nil
}
