package policy

import (
	"fmt"

	"github.com/xtding233/hammer-calc/internal/catalyst"
	"github.com/xtding233/hammer-calc/internal/enhance"
)

// SuccessPath lists the states visited when every attempt from start
// succeeds: start, then each later stage at pity 0 up to the final attempt.
func SuccessPath(start enhance.State, chainLength int) []enhance.State {
	path := []enhance.State{start}
	for a := start.Amp + 1; a <= chainLength; a++ {
		path = append(path, enhance.State{Failsafe: start.Failsafe, Amp: a})
	}
	return path
}

// Summary totals one successful ascent from a start state.
type Summary struct {
	Start enhance.State
	Path  []enhance.State
	Cost  float64
	Taps  float64
	Usage catalyst.Usage
}

// Summary sums cost, taps and usage along the success path from start. The
// figures already weigh in every failure the policy expects on the way, but
// assume the start tier's own final attempt is the last one that matters.
func (r *Result) Summary(start enhance.State) (Summary, error) {
	if err := start.Validate(r.Model.ChainLength); err != nil {
		return Summary{}, fmt.Errorf("start state: %w", err)
	}
	out := Summary{Start: start, Path: SuccessPath(start, r.Model.ChainLength)}
	for _, s := range out.Path {
		e, err := r.At(s)
		if err != nil {
			return Summary{}, err
		}
		out.Cost += e.Cost
		out.Taps += e.Taps
		out.Usage = out.Usage.AddScaled(e.Usage, 1)
	}
	return out, nil
}

// Row is one line of the policy table for display.
type Row struct {
	State  enhance.State
	Label  string
	Action catalyst.Action
	Cost   float64
}

// Rows lists every solved state of a failsafe tier, amp then pity ascending.
func (r *Result) Rows(tier int) ([]Row, error) {
	if tier < 0 || tier > enhance.MaxFailsafe {
		return nil, fmt.Errorf("%w: failsafe %d outside [0,%d]", catalyst.ErrConfig, tier, enhance.MaxFailsafe)
	}
	n := r.Model.ChainLength
	var rows []Row
	for a := 0; a <= n; a++ {
		maxP := enhance.MaxPity
		if a == n {
			maxP = 0
		}
		for p := 0; p <= maxP; p++ {
			s := enhance.State{Failsafe: tier, Amp: a, Pity: p}
			e, err := r.At(s)
			if err != nil {
				return nil, err
			}
			rows = append(rows, Row{
				State:  s,
				Label:  s.Label(r.Model.Level, n),
				Action: e.Action,
				Cost:   e.Cost,
			})
		}
	}
	return rows, nil
}
