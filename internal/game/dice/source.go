// Package dice provides the randomness abstraction used by the combat engine.
//
// Every resolved attack draws from its own Source obtained from a Factory, so
// concurrent fights never share mutable generator state.
package dice

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand/v2"
	"sync/atomic"
)

// Source is the randomness provider for combat draws.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Factory produces a fresh Source for one operation.
type Factory func() Source

// Inclusive returns a uniform draw in [0, n].
//
// Precondition: n >= 0.
// Postcondition: 0 <= result <= n.
func Inclusive(src Source, n int) int {
	return src.Intn(n + 1)
}

// cryptoSource implements Source using crypto/rand.
//
// Invariant: All values produced are uniformly distributed in [0, n) for any n > 0.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand. It holds no state and
// is safe for concurrent use.
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
// Panics with "dice: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// CryptoFactory returns a Factory whose sources are crypto/rand backed.
func CryptoFactory() Factory {
	return func() Source { return NewCryptoSource() }
}

// seededSource is a PCG generator owned by a single operation.
//
// Not safe for concurrent use; a Factory hands each operation its own instance.
type seededSource struct {
	r *mathrand.Rand
}

// NewSeededSource returns a deterministic Source for replay and tests.
func NewSeededSource(seed uint64) Source {
	return &seededSource{r: mathrand.New(mathrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Intn returns a deterministic pseudo-random int in [0, n).
//
// Precondition: n > 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	return s.r.IntN(n)
}

// SeededFactory returns a Factory handing out independently seeded sources:
// the k-th source is seeded with seed+k.
func SeededFactory(seed uint64) Factory {
	var next atomic.Uint64
	next.Store(seed)
	return func() Source {
		return NewSeededSource(next.Add(1) - 1)
	}
}
