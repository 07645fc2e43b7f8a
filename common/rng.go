// Package common holds small utilities shared across the synthesizer packages.
package common

import (
	"math/rand"
	"sync"
)

// Rand is the entropy source consumed by the noise oscillator and the effect
// designers. Implementations must return values in [0, 1).
type Rand interface {
	Random() float64
}

// SeededRNG implements a Mulberry32 seeded pseudo-random number generator.
// Injecting one into a synth makes noise renders byte-identical.
type SeededRNG struct {
	state       uint32
	initialSeed uint32
}

// NewSeededRNG creates a new seeded random number generator.
func NewSeededRNG(seed uint32) *SeededRNG {
	return &SeededRNG{
		state:       seed,
		initialSeed: seed,
	}
}

// SetSeed sets a new seed and resets the generator state.
func (r *SeededRNG) SetSeed(seed uint32) {
	r.state = seed
	r.initialSeed = seed
}

// Reset rewinds the generator to its initial seed.
func (r *SeededRNG) Reset() {
	r.state = r.initialSeed
}

// Random generates the next value of the Mulberry32 sequence.
// Returns a float64 in [0, 1).
func (r *SeededRNG) Random() float64 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// RandomInt generates a random integer in [min, max).
func (r *SeededRNG) RandomInt(min, max int) int {
	return int(r.Random()*float64(max-min)) + min
}

// RandomFloat generates a random float in [min, max).
func (r *SeededRNG) RandomFloat(min, max float64) float64 {
	return r.Random()*(max-min) + min
}

// Uniform generates a random float in [-1, 1), the range the noise table uses.
func (r *SeededRNG) Uniform() float64 {
	return r.Random()*2 - 1
}

type globalRand struct {
	mu sync.Mutex
}

func (g *globalRand) Random() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return rand.Float64()
}

// GlobalRand is the process-wide, unseeded source used when no Rand is
// injected. Renders through it are not reproducible.
var GlobalRand Rand = &globalRand{}
