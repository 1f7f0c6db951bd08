package waterfall

import (
	"fmt"
	"math/big"

	"github.com/Sumatoshi-tech/zaremba/pkg/primes"
)

// Factor decomposes n into waterfall prime exponents by trial division over
// the oracle's primes. Returns ErrNotWaterfall when any prime in the
// contiguous prefix is missing or the exponents ascend. Factor(1) yields the
// empty vector.
func Factor(n *big.Int, oracle *primes.Oracle) (PrimeExp, error) {
	return FactorWithHint(n, nil, oracle)
}

// FactorWithHint decomposes n seeding from a known divisor's factorization.
// The record walker visits positions that are exact multiples of the current
// step, whose factorization is already known, so only the (much smaller)
// cofactor needs trial division. A nil hint degenerates to a full
// factorization.
//
// The trial division is bounded: once a prime beyond the hint's prefix fails
// to divide the remaining cofactor, the number cannot be waterfall (its
// remaining factors would leave a gap), so the probe stops without searching
// for large prime factors.
func FactorWithHint(n *big.Int, hint PrimeExp, oracle *primes.Oracle) (PrimeExp, error) {
	if n.Sign() <= 0 {
		return nil, fmt.Errorf("non-positive %s: %w", n, ErrNotWaterfall)
	}

	rem := new(big.Int).Set(n)

	exps := make([]int, len(hint))
	copy(exps, hint)

	if len(hint) > 0 {
		hintVal, err := hint.Value(oracle)
		if err != nil {
			return nil, err
		}

		var mod big.Int
		rem.DivMod(rem, hintVal, &mod)

		if mod.Sign() != 0 {
			return nil, fmt.Errorf("%s is not a multiple of its hint: %w", n, ErrNotWaterfall)
		}
	}

	var q, mod big.Int

	one := big.NewInt(1)

	for i := 1; rem.Cmp(one) > 0; i++ {
		p, err := oracle.Nth(i)
		if err != nil {
			return nil, err
		}

		bigP := new(big.Int).SetUint64(p)

		divides := false

		for {
			q.DivMod(rem, bigP, &mod)
			if mod.Sign() != 0 {
				break
			}

			rem.Set(&q)
			divides = true

			if i > len(exps) {
				exps = append(exps, 0)
			}

			exps[i-1]++
		}

		// A non-dividing prime with no exponent recorded so far means the
		// rest of the factorization is non-contiguous.
		if !divides && i > len(exps) {
			return nil, fmt.Errorf("prime gap at index %d factoring %s: %w", i, n, ErrNotWaterfall)
		}
	}

	return NewPrimeExp(exps)
}
