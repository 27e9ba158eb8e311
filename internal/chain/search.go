package chain

import (
	"fmt"

	"github.com/xtding233/hammer-calc/internal/catalyst"
	"github.com/xtding233/hammer-calc/internal/enhance"
	"github.com/xtding233/hammer-calc/internal/pricing"
)

// Assignments enumerates every legal fixed assignment for a chain, varying
// the last stage fastest.
func Assignments(chainLength int) ([][]catalyst.Action, error) {
	if chainLength < 1 {
		return nil, fmt.Errorf("%w: chain length %d", catalyst.ErrConfig, chainLength)
	}
	options := make([][]catalyst.Action, chainLength)
	total := 1
	for i := range options {
		legal, err := catalyst.LegalActions(i, chainLength)
		if err != nil {
			return nil, err
		}
		options[i] = legal
		total *= len(legal)
	}

	out := make([][]catalyst.Action, 0, total)
	idx := make([]int, chainLength)
	for {
		cur := make([]catalyst.Action, chainLength)
		for i, j := range idx {
			cur[i] = options[i][j]
		}
		out = append(out, cur)

		// odometer increment
		i := chainLength - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(options[i]) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return out, nil
		}
	}
}

// Search evaluates every assignment and returns the cheapest. The first
// assignment in enumeration order wins ties.
func Search(chainLength int, costs pricing.Costs) (Estimate, error) {
	all, err := Assignments(chainLength)
	if err != nil {
		return Estimate{}, err
	}
	var best Estimate
	for i, a := range all {
		e, err := EstimateCost(a, costs)
		if err != nil {
			return Estimate{}, fmt.Errorf("assignment %v: %w", a, err)
		}
		if i == 0 || e.Cost < best.Cost {
			best = e
		}
	}
	return best, nil
}

// Cycle is the expected cost of reaching the next level: clear the chain,
// take the final attempt with Final, and repeat up the failsafe ladder until
// it succeeds.
type Cycle struct {
	Chain    Estimate
	Final    catalyst.Action
	Fraction float64 // equivalent per-cycle success probability
	Cost     float64
	Taps     float64
	Usage    catalyst.Usage
}

// CycleWith prices a full cycle for one final-attempt catalyst.
func CycleWith(chain Estimate, final catalyst.Action, ladder enhance.Ladder, costs pricing.Costs) (Cycle, error) {
	n := len(chain.Assignment)
	if err := catalyst.CheckLegal(final, n, n); err != nil {
		return Cycle{}, err
	}
	if err := ladder.Validate(); err != nil {
		return Cycle{}, err
	}
	m, err := catalyst.ModifierOf(final)
	if err != nil {
		return Cycle{}, err
	}
	probs := ladder.Modified(m)
	frac, err := enhance.CumulativeFraction(probs[:])
	if err != nil {
		return Cycle{}, err
	}
	perCycle := chain.Usage.AddScaled(catalyst.Unit(final), 1)
	return Cycle{
		Chain:    chain,
		Final:    final,
		Fraction: frac,
		Cost:     (chain.Cost + costs.Of(final)) / frac,
		Taps:     (chain.Taps + 1) / frac,
		Usage:    catalyst.Usage{}.AddScaled(perCycle, 1/frac),
	}, nil
}

// FullCycle picks the final-attempt catalyst that minimizes the full cycle
// cost of an already chosen chain assignment.
func FullCycle(chain Estimate, ladder enhance.Ladder, costs pricing.Costs) (Cycle, error) {
	n := len(chain.Assignment)
	legal, err := catalyst.LegalActions(n, n)
	if err != nil {
		return Cycle{}, err
	}
	var best Cycle
	for i, final := range legal {
		c, err := CycleWith(chain, final, ladder, costs)
		if err != nil {
			return Cycle{}, err
		}
		if i == 0 || c.Cost < best.Cost {
			best = c
		}
	}
	return best, nil
}
