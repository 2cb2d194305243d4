// Package rng hands out seeded random sources. Every random choice in the
// simulations (dice, bank outcomes, shuffles, board layouts) goes through one
// so a run can be replayed from its seed.
package rng

import (
	"math/rand"
	"sync"
	"time"

	"github.com/wfunc/turnsim/logger"
)

// Source is the subset of *rand.Rand the simulations use.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// Locked is a *rand.Rand safe for concurrent use.
type Locked struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a source seeded with seed. A zero seed uses the clock and logs
// the chosen seed so the run can be reproduced.
func New(seed int64) *Locked {
	if seed == 0 {
		seed = time.Now().UnixNano()
		logger.Log.Debugw("Using random seed", "seed", seed)
	}
	return &Locked{r: rand.New(rand.NewSource(seed))}
}

func (l *Locked) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *Locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// Sequence replays fixed values, for tests that need exact outcomes. Intn
// returns the next value modulo n; Float64 the next value divided by 100.
type Sequence struct {
	mu     sync.Mutex
	values []int
	pos    int
}

func NewSequence(values ...int) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}

// Intn returns the next value reduced into [0, n). It panics if n <= 0,
// as math/rand does.
func (s *Sequence) Intn(n int) int {
	if n <= 0 {
		panic("invalid argument to Intn")
	}
	return ((s.next() % n) + n) % n
}

func (s *Sequence) Float64() float64 {
	return float64(((s.next()%100)+100)%100) / 100
}
