package waterfall

import (
	"iter"
	"math/big"
	"sort"

	"github.com/Sumatoshi-tech/zaremba/pkg/primes"
)

// Item is one enumerated waterfall number together with its primorial
// exponent decomposition. Immutable once produced.
type Item struct {
	N    *big.Int
	Exps PrimorialExp
}

// Restart captures a frontier branch of the enumeration so a later pass with
// a higher bound can continue exactly where this one stopped. The branch
// explores primorial index len(Base). A negative Resume means the branch
// stopped before ascending at that index (the primorial itself reached the
// bound); a non-negative Resume records a partially explored ascent, with
// Product = Unfactor(Base) * primorial^Resume already at or past the bound.
type Restart struct {
	Product *big.Int     `json:"product"`
	Base    PrimorialExp `json:"base"`
	Resume  int          `json:"resume"`
}

// Enumerator produces waterfall numbers below a bound via two-directional
// exploration of primorial-exponent space: rightward (advance to the next
// primorial index, keeping the base product) and upward (multiply the base
// by the current primorial, incrementing its exponent). Every waterfall
// number is reachable along exactly one such path, so each is emitted exactly
// once per run and never lost across restarts.
type Enumerator struct {
	oracle *primes.Oracle
}

// NewEnumerator creates an enumerator backed by the given prime oracle.
func NewEnumerator(oracle *primes.Oracle) *Enumerator {
	return &Enumerator{oracle: oracle}
}

// InitialRestarts is the frontier representing a search that has not started:
// one branch at primorial index 0 with base product 1.
func InitialRestarts() []Restart {
	return []Restart{{Product: big.NewInt(1), Base: PrimorialExp{}, Resume: -1}}
}

// Batch expands every restart up to the (exclusive) bound, returning the
// newly found waterfall numbers in ascending order together with the
// frontier for the next batch. All returned values are at least as large as
// the bound that produced the incoming restarts, so consecutive batches with
// increasing bounds yield a globally ascending sequence. The literal 1 is
// never produced here; it corresponds to the empty exponent vector, which
// the exploration cannot reach, and is special-cased by the drivers.
//
// Exhausting the prime table below the bound is a configuration error and
// surfaces as primes.ErrTableExhausted.
func (e *Enumerator) Batch(restarts []Restart, bound *big.Int) ([]Item, []Restart, error) {
	var (
		found []Item
		next  []Restart
	)

	// Explicit work stack instead of call recursion: branch depth grows
	// with the primorial count below the bound.
	stack := make([]Restart, len(restarts))
	copy(stack, restarts)

	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		idx := len(fr.Base)

		prim, err := e.oracle.Primorial(idx + 1)
		if err != nil {
			return nil, nil, err
		}

		var (
			prod *big.Int
			exp  int
		)

		if fr.Resume < 0 {
			if prim.Cmp(bound) >= 0 {
				// No extension fits below this bound; park the branch.
				next = append(next, fr)

				continue
			}

			// Rightward: numbers that skip this primorial entirely.
			base := append(append(PrimorialExp{}, fr.Base...), 0)
			stack = append(stack, Restart{Product: fr.Product, Base: base, Resume: -1})

			prod = new(big.Int).Mul(fr.Product, prim)
			exp = 1
		} else {
			prod = fr.Product
			exp = fr.Resume
		}

		// Upward: keep multiplying by the current primorial. The first
		// product to reach the bound becomes the restart for this ascent.
		for {
			if prod.Cmp(bound) >= 0 {
				next = append(next, Restart{Product: prod, Base: fr.Base, Resume: exp})

				break
			}

			exps := append(append(PrimorialExp{}, fr.Base...), exp)
			found = append(found, Item{N: prod, Exps: exps})

			stack = append(stack, Restart{Product: prod, Base: exps, Resume: -1})

			prod = new(big.Int).Mul(prod, prim)
			exp++
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].N.Cmp(found[j].N) < 0 })

	return found, next, nil
}

// UpTo yields 1 followed by every waterfall number below the exclusive
// bound, in ascending order. A non-nil error, if any, is the final element.
func (e *Enumerator) UpTo(bound *big.Int) iter.Seq2[Item, error] {
	return func(yield func(Item, error) bool) {
		one := big.NewInt(1)

		if bound.Cmp(one) > 0 {
			if !yield(Item{N: one, Exps: PrimorialExp{}}, nil) {
				return
			}
		}

		found, _, err := e.Batch(InitialRestarts(), bound)
		if err != nil {
			yield(Item{}, err)

			return
		}

		for _, it := range found {
			if !yield(it, nil) {
				return
			}
		}
	}
}

// Stream yields the unbounded ascending sequence of waterfall numbers,
// raising the working bound by step per batch. Peak memory is bounded by the
// restart frontier plus one batch of results, at the cost of re-traversal
// overhead proportional to the frontier size. The consumer may stop pulling
// at any time; pending state lives entirely in the frontier.
func (e *Enumerator) Stream(step *big.Int) iter.Seq2[Item, error] {
	return func(yield func(Item, error) bool) {
		if !yield(Item{N: big.NewInt(1), Exps: PrimorialExp{}}, nil) {
			return
		}

		restarts := InitialRestarts()
		bound := new(big.Int)

		for {
			bound = new(big.Int).Add(bound, step)

			found, next, err := e.Batch(restarts, bound)
			if err != nil {
				yield(Item{}, err)

				return
			}

			for _, it := range found {
				if !yield(it, nil) {
					return
				}
			}

			restarts = next
		}
	}
}
