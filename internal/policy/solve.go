// Package policy computes the cost-minimizing catalyst choice for every
// (failsafe, amp, pity) state by backward induction.
package policy

import (
	"fmt"
	"math"

	"github.com/xtding233/hammer-calc/internal/catalyst"
	"github.com/xtding233/hammer-calc/internal/enhance"
	"github.com/xtding233/hammer-calc/internal/pricing"
)

// Entry is the solved value of one state: the chosen action and the expected
// cost, attempts and catalyst consumption from here on under the policy.
type Entry struct {
	Action catalyst.Action
	Cost   float64
	Taps   float64
	Usage  catalyst.Usage
}

func (e Entry) plus(o Entry) Entry {
	e.Cost += o.Cost
	e.Taps += o.Taps
	e.Usage = e.Usage.AddScaled(o.Usage, 1)
	return e
}

// Result holds the write-once tables of one solve.
type Result struct {
	Model   enhance.Model
	Costs   pricing.Costs
	entries []Entry
	defined []bool
}

func (r *Result) index(s enhance.State) int {
	return (s.Failsafe*(r.Model.ChainLength+1)+s.Amp)*enhance.PityStates + s.Pity
}

// At returns the solved entry of s.
func (r *Result) At(s enhance.State) (Entry, error) {
	if err := s.Validate(r.Model.ChainLength); err != nil {
		return Entry{}, err
	}
	i := r.index(s)
	if !r.defined[i] {
		return Entry{}, fmt.Errorf("%w: state %s not solved", catalyst.ErrConfig, s)
	}
	return r.entries[i], nil
}

// at is At for states the solver already filled in.
func (r *Result) at(f, a, p int) Entry {
	return r.entries[r.index(enhance.State{Failsafe: f, Amp: a, Pity: p})]
}

func (r *Result) set(s enhance.State, e Entry) {
	i := r.index(s)
	r.entries[i] = e
	r.defined[i] = true
}

func checkCosts(costs pricing.Costs) error {
	for _, a := range catalyst.All() {
		c := costs.Of(a)
		if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
			return fmt.Errorf("%w: cost of %s is %v", catalyst.ErrConfig, a, c)
		}
	}
	return nil
}

// Solve fills the cost, policy, tap and usage tables for model under costs.
//
// States are visited with the failsafe tier descending, amp ascending and pity
// descending, so every state a failure can lead to is solved before the state
// itself: a failed amp attempt falls back to the lower stages of the same tier
// and to the next pity of the same stage, and a failed final attempt restarts
// the chain one tier up.
func Solve(model *enhance.Model, costs pricing.Costs) (*Result, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: nil model", catalyst.ErrConfig)
	}
	if err := checkCosts(costs); err != nil {
		return nil, err
	}
	tab, err := model.Table()
	if err != nil {
		return nil, fmt.Errorf("probability table: %w", err)
	}

	n := model.ChainLength
	size := enhance.FailsafeTiers * (n + 1) * enhance.PityStates
	r := &Result{
		Model:   *model,
		Costs:   costs,
		entries: make([]Entry, size),
		defined: make([]bool, size),
	}
	guaranteed := Entry{Action: catalyst.NoCatalyst, Cost: costs.Of(catalyst.NoCatalyst), Taps: 1}

	for f := enhance.MaxFailsafe; f >= 0; f-- {
		for a := 0; a <= n; a++ {
			for p := enhance.MaxPity; p >= 0; p-- {
				s := enhance.State{Failsafe: f, Amp: a, Pity: p}
				switch {
				case a == n && p != 0:
					continue
				case a == n && f == enhance.MaxFailsafe:
					r.set(s, guaranteed)
				case a == n:
					var cont Entry
					for k := 0; k <= n; k++ {
						cont = cont.plus(r.at(f+1, k, 0))
					}
					e, err := r.best(tab, s, cont)
					if err != nil {
						return nil, err
					}
					r.set(s, e)
				case p == enhance.MaxPity:
					r.set(s, guaranteed)
				default:
					var cont Entry
					for k := 0; k < a; k++ {
						cont = cont.plus(r.at(f, k, 0))
					}
					cont = cont.plus(r.at(f, a, p+1))
					e, err := r.best(tab, s, cont)
					if err != nil {
						return nil, err
					}
					r.set(s, e)
				}
			}
		}
	}
	return r, nil
}

// best evaluates every legal action at s against the failure continuation
// cont. Ties keep the earlier action in declaration order.
func (r *Result) best(tab *enhance.Table, s enhance.State, cont Entry) (Entry, error) {
	legal, err := catalyst.LegalActions(s.Amp, r.Model.ChainLength)
	if err != nil {
		return Entry{}, err
	}
	var out Entry
	for i, act := range legal {
		pSuccess, err := tab.At(act, s)
		if err != nil {
			return Entry{}, err
		}
		fail := 1 - pSuccess
		cand := Entry{
			Action: act,
			Cost:   r.Costs.Of(act) + fail*cont.Cost,
			Taps:   1 + fail*cont.Taps,
			Usage:  catalyst.Unit(act).AddScaled(cont.Usage, fail),
		}
		if i == 0 || cand.Cost < out.Cost {
			out = cand
		}
	}
	if math.IsNaN(out.Cost) || math.IsInf(out.Cost, 0) {
		return Entry{}, fmt.Errorf("%w: cost %v at %s", catalyst.ErrNumerical, out.Cost, s)
	}
	return out, nil
}
