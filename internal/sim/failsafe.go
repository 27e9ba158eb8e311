package sim

import (
	"github.com/xtding233/hammer-calc/internal/catalyst"
	"github.com/xtding233/hammer-calc/internal/enhance"
)

// FailsafeLadder is the outer retry layer: each failed final attempt moves
// one tier up the ladder, and the top tier always succeeds.
type FailsafeLadder struct {
	Ladder enhance.Ladder
	Tier   int
	RNG    RandomSource
}

// NewFailsafeLadder starts at tier 0.
func NewFailsafeLadder(l enhance.Ladder, rng RandomSource) *FailsafeLadder {
	if rng == nil {
		rng = DefaultRNG()
	}
	return &FailsafeLadder{Ladder: l, RNG: rng}
}

// Attempt performs the final attempt with action at the current tier.
func (f *FailsafeLadder) Attempt(action catalyst.Action) (bool, error) {
	p, err := enhance.SuccessProbability(action, true, f.Tier, 0, false, f.Ladder)
	if err != nil {
		return false, err
	}
	hit, err := Draw(p, f.RNG)
	if err != nil {
		return false, err
	}
	if !hit && f.Tier < enhance.MaxFailsafe {
		f.Tier++
	}
	return hit, nil
}
