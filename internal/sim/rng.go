// Package sim rolls the enhancement process forward with random draws. It
// consumes the same probability model the solvers use and exists to sample
// outcome distributions and to cross-check the closed-form estimates.
package sim

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// RandomSource yields uniform floats in [0,1). Monte Carlo runs take one so
// tests can pin the outcome.
type RandomSource interface {
	Float64() float64
}

// osSource draws from the operating system; used when no seed is configured.
type osSource struct{}

func (osSource) Float64() float64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return rand.Float64()
	}
	return float64(binary.LittleEndian.Uint64(b[:])>>11) / (1 << 53)
}

// DefaultRNG is unseeded and not reproducible.
func DefaultRNG() RandomSource { return osSource{} }

// NewSeededRNG returns a reproducible PCG source keyed by the run seed.
func NewSeededRNG(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
