// Package random provides the randomness source for gameplay: coinflips,
// forage draws and bonus rolls. Services take a Roller so tests can inject a
// fixed sequence.
package random

import (
	"math/rand"
	"time"
)

// Roller is the randomness interface used by gameplay services.
type Roller interface {
	// Intn returns a uniform int in [0, n). Panics if n <= 0.
	Intn(n int) int
	// Float64 returns a uniform float64 in [0.0, 1.0).
	Float64() float64
}

type seededRoller struct {
	rng *rand.Rand
}

// NewRoller returns a Roller seeded from the current time.
func NewRoller() Roller {
	return &seededRoller{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededRoller returns a Roller with a fixed seed, for tests.
func NewSeededRoller(seed int64) Roller {
	return &seededRoller{rng: rand.New(rand.NewSource(seed))}
}

func (r *seededRoller) Intn(n int) int   { return r.rng.Intn(n) }
func (r *seededRoller) Float64() float64 { return r.rng.Float64() }
