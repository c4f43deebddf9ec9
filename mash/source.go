package mash

import (
	"math/rand/v2"
	"sync"
)

// Source yields uniform values in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a generator seeded with seed. A seed of 0 picks a
// random seed, so runs are not reproducible.
func NewSource(seed uint64) Source {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type lockedSource struct {
	mu  sync.Mutex
	src Source
}

// NewLockedSource makes src safe to share between goroutines.
func NewLockedSource(src Source) Source {
	return &lockedSource{src: src}
}

func (l *lockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

// Fixed always returns the same draw.
type Fixed float64

func (f Fixed) Float64() float64 {
	return float64(f)
}
