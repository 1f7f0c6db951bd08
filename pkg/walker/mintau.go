// Package walker drives the unbounded record walk over waterfall numbers
// and the bounded minimum-tau search that validates candidate step sizes.
package walker

import (
	"fmt"
	"math/big"

	"github.com/Sumatoshi-tech/zaremba/pkg/primes"
	"github.com/Sumatoshi-tech/zaremba/pkg/waterfall"
)

// Candidate is one exponent vector surfaced by the minimum-tau exploration.
// Usable marks vectors whose product has reached the target; only those
// participate in the minimum.
type Candidate struct {
	Exps    waterfall.PrimeExp
	Product *big.Int
	Tau     uint64
	Usable  bool
}

// MinTauCandidates explores waterfall exponent vectors over exactly k leading
// primes, starting from all ones and incrementing exponents under the
// non-ascending constraint. A branch stops growing at the first product that
// reaches n: any further increment only raises tau, so such vectors are the
// only ones that can carry the minimum. With fast set, only usable vectors
// (product >= n) are returned; otherwise every explored vector is surfaced
// for diagnostics.
//
// The traversal reaches some vectors along multiple increment orders;
// results are deduplicated before being returned, so the candidate set size
// is stable and the minimum is taken over distinct vectors.
func MinTauCandidates(oracle *primes.Oracle, n *big.Int, k int, fast bool) ([]Candidate, error) {
	if k < 1 {
		return nil, fmt.Errorf("prime count %d: %w", k, waterfall.ErrNotWaterfall)
	}

	start := make([]int, k)
	for i := range start {
		start[i] = 1
	}

	seen := map[string]bool{key(start): true}
	stack := [][]int{start}

	var out []Candidate

	for len(stack) > 0 {
		exps := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cand, err := makeCandidate(oracle, exps, n)
		if err != nil {
			return nil, err
		}

		if cand.Usable || !fast {
			out = append(out, cand)
		}

		if cand.Usable {
			continue
		}

		for i := range k {
			if i > 0 && exps[i] >= exps[i-1] {
				continue
			}

			next := append([]int{}, exps...)
			next[i]++

			if id := key(next); !seen[id] {
				seen[id] = true

				stack = append(stack, next)
			}
		}
	}

	return out, nil
}

// MinTau returns the minimum divisor count among waterfall numbers m >= n
// whose factorization uses exactly the first k primes.
func MinTau(oracle *primes.Oracle, n *big.Int, k int) (uint64, error) {
	cands, err := MinTauCandidates(oracle, n, k, true)
	if err != nil {
		return 0, err
	}

	best := uint64(0)
	for _, c := range cands {
		if best == 0 || c.Tau < best {
			best = c.Tau
		}
	}

	if best == 0 {
		return 0, fmt.Errorf("no usable vector for n=%s k=%d: %w", n, k, waterfall.ErrNotWaterfall)
	}

	return best, nil
}

func makeCandidate(oracle *primes.Oracle, exps []int, n *big.Int) (Candidate, error) {
	pe, err := waterfall.NewPrimeExp(exps)
	if err != nil {
		return Candidate{}, err
	}

	product, err := pe.Value(oracle)
	if err != nil {
		return Candidate{}, err
	}

	tau := uint64(1)
	for _, e := range exps {
		tau *= uint64(e + 1)
	}

	return Candidate{
		Exps:    pe,
		Product: product,
		Tau:     tau,
		Usable:  product.Cmp(n) >= 0,
	}, nil
}

func key(exps []int) string {
	return fmt.Sprint(exps)
}
