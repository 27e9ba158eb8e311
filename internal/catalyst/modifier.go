package catalyst

import (
	"fmt"
	"math"
)

// ModifierKind tags the evaluation rule of a Modifier.
type ModifierKind uint8

const (
	Identity ModifierKind = iota
	// MultiplicativeCapped scales p by Factor, capped at p+Delta.
	MultiplicativeCapped
	// AdditiveCapped adds Delta to p, capped at Cap.
	AdditiveCapped
	// Deterministic always succeeds.
	Deterministic
)

// Modifier transforms a base success probability for one attempt.
type Modifier struct {
	Kind   ModifierKind
	Factor float64
	Delta  float64
	Cap    float64
}

// Apply evaluates the modifier on p and clamps the result to [0,1].
func (m Modifier) Apply(p float64) float64 {
	var out float64
	switch m.Kind {
	case MultiplicativeCapped:
		out = math.Min(p*m.Factor, p+m.Delta)
	case AdditiveCapped:
		out = math.Min(p+m.Delta, m.Cap)
	case Deterministic:
		out = 1
	default:
		out = p
	}
	return clamp01(out)
}

var modifiers = [NumActions]Modifier{
	NoCatalyst:        {Kind: Identity},
	Catalyst:          {Kind: MultiplicativeCapped, Factor: 1.5, Delta: 0.04},
	PotentCatalyst:    {Kind: MultiplicativeCapped, Factor: 2.0, Delta: 0.07},
	ThreeStarCatalyst: {Kind: Deterministic},
	FourStarCatalyst:  {Kind: Deterministic},
	StableCatalyst:    {Kind: MultiplicativeCapped, Factor: 1.5, Delta: 0.04},
}

// ModifierOf returns the probability modifier of a.
func ModifierOf(a Action) (Modifier, error) {
	if !a.Valid() {
		return Modifier{}, fmt.Errorf("%w: %d", ErrUnknownAction, uint8(a))
	}
	return modifiers[a], nil
}

func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
