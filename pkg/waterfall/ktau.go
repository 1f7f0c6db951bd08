package waterfall

import (
	"fmt"
	"iter"
)

// ForKPrimesAndMaxTau yields every waterfall number whose factorization uses
// exactly the first k primes (all k exponents at least 1) and whose divisor
// count does not exceed maxTau. Output order is unspecified.
//
// The exploration works in prime-exponent space, choosing exponents left to
// right under the non-ascending constraint. Tau is a product of (exponent+1)
// terms and therefore monotone in every exponent, so a branch is pruned as
// soon as its partial tau, times the factor 2 floor contributed by each
// still-unassigned exponent, exceeds maxTau.
func (e *Enumerator) ForKPrimesAndMaxTau(k int, maxTau uint64) iter.Seq2[Item, error] {
	return func(yield func(Item, error) bool) {
		if k < 1 {
			yield(Item{}, fmt.Errorf("prime count %d: %w", k, ErrNotWaterfall))

			return
		}

		type frame struct {
			exps []int
			tau  uint64
		}

		stack := []frame{{exps: nil, tau: 1}}

		for len(stack) > 0 {
			fr := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if len(fr.exps) == k {
				exps, err := NewPrimeExp(fr.exps)
				if err != nil {
					yield(Item{}, err)

					return
				}

				n, err := exps.Value(e.oracle)
				if err != nil {
					yield(Item{}, err)

					return
				}

				if !yield(Item{N: n, Exps: exps.Primorials()}, nil) {
					return
				}

				continue
			}

			remaining := uint64(k - len(fr.exps) - 1)

			ceiling := int(maxTau) // Effectively unbounded; the tau prune cuts first.
			if len(fr.exps) > 0 {
				ceiling = fr.exps[len(fr.exps)-1]
			}

			for v := 1; v <= ceiling; v++ {
				tau := fr.tau * uint64(v+1)
				// Shift the bound down rather than tau up: tau<<remaining
				// overflows for large k, maxTau>>remaining cannot.
				if tau > maxTau>>remaining {
					break
				}

				exps := append(append([]int{}, fr.exps...), v)
				stack = append(stack, frame{exps: exps, tau: tau})
			}
		}
	}
}
