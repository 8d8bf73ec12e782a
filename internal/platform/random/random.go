// Package random provides the injectable randomness used by the content generators.
package random

import (
	"math/rand/v2"
	"sync"
)

// Source is the subset of math/rand/v2 the generators draw from.
// *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
	Float64() float64
}

type global struct{}

func (global) IntN(n int) int   { return rand.IntN(n) }
func (global) Float64() float64 { return rand.Float64() }

// Default returns a Source backed by the runtime generator. It is safe for
// concurrent use.
func Default() Source {
	return global{}
}

// NewSeeded returns a deterministic Source. It is not safe for concurrent use.
func NewSeeded(seed1, seed2 uint64) Source {
	return rand.New(rand.NewPCG(seed1, seed2))
}

// Synchronized makes src safe for concurrent use.
func Synchronized(src Source) Source {
	if _, ok := src.(global); ok {
		return src
	}
	return &locked{src: src}
}

type locked struct {
	mu  sync.Mutex
	src Source
}

func (l *locked) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.IntN(n)
}

func (l *locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

// Pick returns a uniformly chosen element of items. items must not be empty.
func Pick[T any](src Source, items []T) T {
	return items[src.IntN(len(items))]
}

// Shuffle returns a shuffled copy of items.
func Shuffle[T any](src Source, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Sample returns n distinct elements of items. n is clamped to len(items).
func Sample[T any](src Source, items []T, n int) []T {
	if n > len(items) {
		n = len(items)
	}
	if n <= 0 {
		return []T{}
	}
	return Shuffle(src, items)[:n]
}

// Between returns an int in [lo, hi].
func Between(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.IntN(hi-lo+1)
}

// Scripted replays fixed sequences. It is a test double for code that needs
// exact control over each draw; sequences wrap when exhausted.
type Scripted struct {
	Ints   []int
	Floats []float64
	i, f   int
}

func (s *Scripted) IntN(n int) int {
	if len(s.Ints) == 0 {
		return 0
	}
	v := s.Ints[s.i%len(s.Ints)]
	s.i++
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}

func (s *Scripted) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[s.f%len(s.Floats)]
	s.f++
	return v
}
