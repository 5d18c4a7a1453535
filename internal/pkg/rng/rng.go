// Package rng provides an injectable random source so combat outcomes are
// reproducible under test with a fixed seed.
package rng

import (
	"math/rand"
	"sync"
	"time"
)

//go:generate mockgen -destination=mock/mock.go -package=rngmock github.com/questforge/questforge-api/internal/pkg/rng Roller

// Roller is the subset of randomness the engine needs.
type Roller interface {
	// Intn returns a uniform value in [0, n). n must be > 0.
	Intn(n int) int
	// Shuffle pseudo-randomizes the order of n elements.
	Shuffle(n int, swap func(i, j int))
}

// lockedRoller wraps math/rand.Rand, which is not safe for concurrent use.
type lockedRoller struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Roller seeded with the given value.
func New(seed int64) Roller {
	return &lockedRoller{rnd: rand.New(rand.NewSource(seed))}
}

// NewFromTime returns a Roller seeded from the current time.
func NewFromTime() Roller {
	return New(time.Now().UnixNano())
}

func (r *lockedRoller) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}

func (r *lockedRoller) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rnd.Shuffle(n, swap)
}
