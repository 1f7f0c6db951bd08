// Package primes provides a growable prime table with primorial caching.
// The table extends itself on demand via a sieve of Eratosthenes and is safe
// for use from multiple enumeration contexts: find-or-extend is atomic under
// a single lock, and primes are never re-numbered once assigned.
package primes

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
)

// ErrTableExhausted indicates a prime beyond the configured table cap was
// requested. This is a configuration failure, not a recoverable runtime
// condition: callers are expected to terminate the run.
var ErrTableExhausted = errors.New("prime table exhausted")

// DefaultMaxPrimes caps the table at a size far beyond what any realistic
// record walk needs; step bases observed in practice stay below 20 primes.
const DefaultMaxPrimes = 100_000

// initialSieveLimit is the first sieve bound; it covers the first 25 primes.
const initialSieveLimit = 100

// Oracle is a monotonically growing prime table. The zero value is not
// usable; construct with New.
type Oracle struct {
	mu         sync.Mutex
	primes     []uint64
	primorials []*big.Int // primorials[k-1] = product of first k primes.
	sieveLimit uint64
	maxPrimes  int
}

// New creates an Oracle capped at maxPrimes table entries. A non-positive
// cap selects DefaultMaxPrimes.
func New(maxPrimes int) *Oracle {
	if maxPrimes <= 0 {
		maxPrimes = DefaultMaxPrimes
	}

	return &Oracle{maxPrimes: maxPrimes}
}

// Nth returns the i-th prime, 1-indexed, extending the table if needed.
func (o *Oracle) Nth(i int) (uint64, error) {
	if i < 1 {
		return 0, fmt.Errorf("prime index %d: %w", i, ErrTableExhausted)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	err := o.growLocked(i)
	if err != nil {
		return 0, err
	}

	return o.primes[i-1], nil
}

// Primorial returns the product of the first k primes. Primorial(0) is 1.
// The returned value is shared; callers must not mutate it.
func (o *Oracle) Primorial(k int) (*big.Int, error) {
	if k < 0 {
		return nil, fmt.Errorf("primorial index %d: %w", k, ErrTableExhausted)
	}

	if k == 0 {
		return big.NewInt(1), nil
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	err := o.growLocked(k)
	if err != nil {
		return nil, err
	}

	for len(o.primorials) < k {
		prev := big.NewInt(1)
		if n := len(o.primorials); n > 0 {
			prev = o.primorials[n-1]
		}

		p := new(big.Int).SetUint64(o.primes[len(o.primorials)])
		o.primorials = append(o.primorials, new(big.Int).Mul(prev, p))
	}

	return o.primorials[k-1], nil
}

// Len returns the number of primes currently materialized.
func (o *Oracle) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	return len(o.primes)
}

// growLocked extends the table until it holds at least count primes.
// Must be called with o.mu held.
func (o *Oracle) growLocked(count int) error {
	if count > o.maxPrimes {
		return fmt.Errorf("need %d primes, cap is %d: %w", count, o.maxPrimes, ErrTableExhausted)
	}

	for len(o.primes) < count {
		limit := o.sieveLimit * 2
		if limit < initialSieveLimit {
			limit = initialSieveLimit
		}

		o.sieve(limit)
	}

	return nil
}

// sieve replaces the table with all primes below limit.
func (o *Oracle) sieve(limit uint64) {
	composite := make([]bool, limit)

	var found []uint64

	for n := uint64(2); n < limit; n++ {
		if composite[n] {
			continue
		}

		found = append(found, n)

		for m := n * n; m < limit; m += n {
			composite[m] = true
		}
	}

	if len(found) > o.maxPrimes {
		found = found[:o.maxPrimes]
	}

	o.primes = found
	o.sieveLimit = limit
}
