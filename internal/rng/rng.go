// Package rng provides the process-wide seedable random source that makes
// training runs reproducible.
package rng

import (
	"math/rand"
	"sync"
)

// Source wraps a math/rand generator behind a mutex so the training loop and
// item setters can share it. It always starts from seed 0; the seed session
// item reseeds it on activation.
type Source struct {
	mu   sync.Mutex
	rand *rand.Rand
	seed int64
}

// New returns a source seeded with 0.
func New() *Source {
	return &Source{rand: rand.New(rand.NewSource(0))}
}

// Reseed restarts the generator from the given seed.
func (s *Source) Reseed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rand = rand.New(rand.NewSource(seed))
	s.seed = seed
}

// Seed returns the seed the generator was last started from.
func (s *Source) Seed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seed
}

// Perm returns a random permutation of [0, n).
func (s *Source) Perm(n int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rand.Perm(n)
}

// Intn returns a random int in [0, n).
func (s *Source) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rand.Intn(n)
}

// Float64 returns a random float64 in [0, 1).
func (s *Source) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rand.Float64()
}
