package sim

import (
	"github.com/xtding233/hammer-calc/internal/catalyst"
	"github.com/xtding233/hammer-calc/internal/enhance"
)

// StagePity tracks one amplification stage's pity counter. After
// enhance.MaxPity failures the next attempt is guaranteed; with Hidden set,
// pity 4 and 5 use the elevated base rate.
type StagePity struct {
	Count  int // failures since the last success
	Hidden bool
	RNG    RandomSource
}

// NewStagePity creates a stage at pity 0.
func NewStagePity(hidden bool, rng RandomSource) *StagePity {
	if rng == nil {
		rng = DefaultRNG()
	}
	return &StagePity{Hidden: hidden, RNG: rng}
}

// Prob is the success chance of the next attempt with action.
func (s *StagePity) Prob(action catalyst.Action) (float64, error) {
	return enhance.SuccessProbability(action, false, 0, s.Count, s.Hidden, enhance.Ladder{})
}

// Attempt performs one attempt. Success resets the counter, failure
// increments it.
func (s *StagePity) Attempt(action catalyst.Action) (bool, error) {
	p, err := s.Prob(action)
	if err != nil {
		return false, err
	}
	hit, err := Draw(p, s.RNG)
	if err != nil {
		return false, err
	}
	if hit {
		s.Count = 0
	} else {
		s.Count++
	}
	return hit, nil
}
