// Package chain estimates the cost of a fixed per-stage catalyst assignment by
// treating the amplification chain as an absorbing Markov chain. Pity is not
// tracked; each stage's attempt probability is collapsed into the equivalent
// single-shot probability of the capped pity ladder.
package chain

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/xtding233/hammer-calc/internal/catalyst"
	"github.com/xtding233/hammer-calc/internal/enhance"
	"github.com/xtding233/hammer-calc/internal/pricing"
)

// ErrSingular means I-Q could not be inverted: some transient stage has no
// way out. Valid tables never produce it.
var ErrSingular = fmt.Errorf("%w: singular transition matrix", catalyst.ErrNumerical)

const rowTolerance = 1e-12

// Estimate is the expected outcome of one fixed assignment.
type Estimate struct {
	Assignment []catalyst.Action
	Cost       float64
	Taps       float64
	Usage      catalyst.Usage
}

// Transition builds the (n+1)x(n+1) row-stochastic matrix of an assignment:
// stage i succeeds to i+1 and fails back to 0; stage n absorbs.
func Transition(assignment []catalyst.Action) (*mat.Dense, error) {
	n := len(assignment)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty assignment", catalyst.ErrConfig)
	}
	p := mat.NewDense(n+1, n+1, nil)
	for i, act := range assignment {
		if err := catalyst.CheckLegal(act, i, n); err != nil {
			return nil, err
		}
		raw, err := enhance.NominalProbability(act)
		if err != nil {
			return nil, err
		}
		q := enhance.ExpectedFraction(raw)
		if q <= 0 || q > 1 {
			return nil, fmt.Errorf("%w: stage %d probability %v", catalyst.ErrNumerical, i, q)
		}
		p.Set(i, 0, 1-q)
		p.Set(i, i+1, q)
	}
	p.Set(n, n, 1)

	for i := 0; i <= n; i++ {
		if sum := mat.Sum(p.RowView(i)); math.Abs(sum-1) > rowTolerance {
			return nil, fmt.Errorf("%w: row %d sums to %v", catalyst.ErrNumerical, i, sum)
		}
	}
	return p, nil
}

// fundamental returns N = (I-Q)^-1 for the leading n transient states of p.
func fundamental(p *mat.Dense, n int) (*mat.Dense, error) {
	q := p.Slice(0, n, 0, n)
	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}
	var iq mat.Dense
	iq.Sub(mat.NewDiagDense(n, ones), q)

	var inv mat.Dense
	if err := inv.Inverse(&iq); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	return &inv, nil
}

// EstimateCost returns expected cost, taps and usage to clear the chain once
// from stage 0 with a fixed catalyst per stage. costs already include the
// base attempt price.
func EstimateCost(assignment []catalyst.Action, costs pricing.Costs) (Estimate, error) {
	p, err := Transition(assignment)
	if err != nil {
		return Estimate{}, err
	}
	n := len(assignment)
	visits, err := fundamental(p, n)
	if err != nil {
		return Estimate{}, err
	}

	out := Estimate{Assignment: append([]catalyst.Action(nil), assignment...)}
	for i, act := range assignment {
		v := visits.At(0, i)
		out.Cost += v * costs.Of(act)
		out.Taps += v
		out.Usage = out.Usage.AddScaled(catalyst.Unit(act), v)
	}
	return out, nil
}
