// Package generator supplies the randomness used by game sessions.
package generator

import (
	"math/rand"
	"sync"
	"time"
)

// Generator shuffles and picks items. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Intn returns a uniform integer in [0, n). It returns 0 when n <= 0.
func (g *Generator) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rnd.Intn(n)
}

// Permutation returns a shuffled ordering of [0, n).
func (g *Generator) Permutation(n int) []int {
	if n <= 0 {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rnd.Perm(n)
}

// Shuffled returns a shuffled copy of items; the input is left untouched.
func Shuffled[T any](g *Generator, items []T) []T {
	out := make([]T, len(items))
	for i, idx := range g.Permutation(len(items)) {
		out[i] = items[idx]
	}
	return out
}

// Pick returns one uniformly chosen item, with replacement across calls.
func Pick[T any](g *Generator, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[g.Intn(len(items))], true
}
