// Package random provides the single injectable source of randomness used by the simulation.
package random

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// Source is the randomness every simulation draw goes through.
// Implementations must be safe for concurrent use.
type Source interface {
	// Float64 returns a value in [0, 1)
	Float64() float64
	// IntN returns a value in [0, n); n <= 0 returns 0
	IntN(n int) int
}

// LockedSource wraps a seeded PCG generator behind a mutex
type LockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a source seeded with seed; seed 0 picks a time-based seed
func New(seed uint64) *LockedSource {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &LockedSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Float64 returns a value in [0, 1)
func (s *LockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// IntN returns a value in [0, n)
func (s *LockedSource) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// Uniform returns a value in [min, max)
func Uniform(src Source, min, max float64) float64 {
	return src.Float64()*(max-min) + min
}

// Int64N returns a value in [0, n) for int64 bounds; n <= 0 returns 0
func Int64N(src Source, n int64) int64 {
	if n <= 0 {
		return 0
	}
	if n <= math.MaxInt32 {
		return int64(src.IntN(int(n)))
	}
	return int64(src.Float64() * float64(n))
}

// Pick returns a random element of items; items must be non-empty
func Pick[T any](src Source, items []T) T {
	return items[src.IntN(len(items))]
}

// Duration returns a duration in [min, max); max <= min returns min
func Duration(src Source, min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(Int64N(src, int64(max-min)))
}

// Fixed is a Source that always draws the same fraction; useful for exact assertions
type Fixed float64

// Float64 returns the fixed fraction
func (f Fixed) Float64() float64 {
	return float64(f)
}

// IntN scales the fixed fraction into [0, n)
func (f Fixed) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	v := int(float64(f) * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}
