package sampling

import (
	"crypto/sha256"
	"encoding/binary"
)

// SeedFromIdentity derives a deterministic seed from a learner identifier.
// The same identity always yields the same seed, across calls and processes.
func SeedFromIdentity(id string) int64 {
	sum := sha256.Sum256([]byte(id))
	seed := int64(binary.BigEndian.Uint64(sum[:8]))
	if seed < 0 {
		seed = -seed
	}
	return seed
}

// Generator is a linear-congruential generator yielding a repeatable
// sequence in [0, 1) for a given seed. Two generators built from the same
// seed produce identical sequences.
type Generator struct {
	state int64
}

// lcgMultiplier/lcgIncrement/lcgModulus are small textbook LCG constants
// (9301, 49297, 233280) chosen for exact portability in integer arithmetic;
// the period is short but more than adequate for shuffling question pools.
const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// NewGenerator creates a Generator from a seed.
func NewGenerator(seed int64) *Generator {
	if seed < 0 {
		seed = -seed
	}
	return &Generator{state: seed % lcgModulus}
}

// Float64 returns the next value in [0, 1).
func (g *Generator) Float64() float64 {
	g.state = (g.state*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(g.state) / lcgModulus
}

// Intn returns a value in [0, n). Panics if n <= 0.
func (g *Generator) Intn(n int) int {
	if n <= 0 {
		panic("sampling: Intn called with n <= 0")
	}
	return int(g.Float64() * float64(n))
}
