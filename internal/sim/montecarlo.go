package sim

import (
	"fmt"
	"math"
	"sort"

	"github.com/xtding233/hammer-calc/internal/catalyst"
	"github.com/xtding233/hammer-calc/internal/enhance"
	"github.com/xtding233/hammer-calc/internal/pricing"
)

// SimParams describes one enhancement run with a fixed catalyst per stage.
type SimParams struct {
	Assignment []catalyst.Action // one per amplification stage
	Final      catalyst.Action   // used on every final attempt
	Ladder     enhance.Ladder
	Hidden     bool
	Costs      pricing.Costs
}

func (p SimParams) validate() error {
	n := len(p.Assignment)
	if n == 0 {
		return fmt.Errorf("%w: empty assignment", catalyst.ErrConfig)
	}
	for i, a := range p.Assignment {
		if err := catalyst.CheckLegal(a, i, n); err != nil {
			return err
		}
	}
	if p.Final != catalyst.StableCatalyst {
		if err := catalyst.CheckLegal(p.Final, n, n); err != nil {
			return fmt.Errorf("final attempt: %w", err)
		}
	}
	return p.Ladder.Validate()
}

// Trial is the outcome of one full run to the next level.
type Trial struct {
	Cost  float64
	Taps  int
	Tier  int // failsafe tier the final success happened at
	Usage catalyst.Usage
}

// Stats summarizes a sample.
type Stats struct {
	Mean   float64
	Var    float64
	StdDev float64
	Min    float64
	Max    float64
	P50    float64
	P90    float64
	P99    float64
	// sorted copy, for Percentile
	Samples []float64 `json:"-"`
}

// Percentile interpolates linearly between order statistics.
func (s Stats) Percentile(p float64) float64 {
	n := len(s.Samples)
	if n == 0 {
		return 0
	}
	if n == 1 || p <= 0 {
		return s.Samples[0]
	}
	if p >= 1 {
		return s.Samples[n-1]
	}
	pos := p * float64(n-1)
	i := int(math.Floor(pos))
	f := pos - float64(i)
	if i+1 >= n {
		return s.Samples[i]
	}
	return s.Samples[i]*(1-f) + s.Samples[i+1]*f
}

// calcStats computes mean, population variance and percentiles.
func calcStats(xs []float64) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	var sum float64
	for _, v := range xs {
		sum += v
	}
	mean := sum / float64(n)

	var acc float64
	for _, v := range xs {
		d := v - mean
		acc += d * d
	}
	variance := acc / float64(n)

	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)
	s := Stats{
		Mean:    mean,
		Var:     variance,
		StdDev:  math.Sqrt(variance),
		Min:     cp[0],
		Max:     cp[n-1],
		Samples: cp,
	}
	s.P50 = s.Percentile(0.50)
	s.P90 = s.Percentile(0.90)
	s.P99 = s.Percentile(0.99)
	return s
}

// simulateOne plays one run: clear the chain with fresh pity counters, take
// the final attempt, and on failure climb a failsafe tier and start over.
func simulateOne(p SimParams, rng RandomSource) (Trial, error) {
	n := len(p.Assignment)
	fs := NewFailsafeLadder(p.Ladder, rng)
	var t Trial
	for {
		stages := make([]*StagePity, n)
		for i := range stages {
			stages[i] = NewStagePity(p.Hidden, rng)
		}
		for amp := 0; amp < n; {
			act := p.Assignment[amp]
			t.Cost += p.Costs.Of(act)
			t.Taps++
			t.Usage = t.Usage.AddScaled(catalyst.Unit(act), 1)
			hit, err := stages[amp].Attempt(act)
			if err != nil {
				return Trial{}, err
			}
			if hit {
				amp++
			} else {
				amp = 0
			}
		}

		t.Cost += p.Costs.Of(p.Final)
		t.Taps++
		t.Usage = t.Usage.AddScaled(catalyst.Unit(p.Final), 1)
		tier := fs.Tier
		hit, err := fs.Attempt(p.Final)
		if err != nil {
			return Trial{}, err
		}
		if hit {
			t.Tier = tier
			return t, nil
		}
	}
}

// Report aggregates a Monte Carlo run.
type Report struct {
	Trials    int
	Cost      Stats
	Taps      Stats
	Tiers     [enhance.FailsafeTiers]int // successes per failsafe tier
	MeanUsage catalyst.Usage
}

// RunMonteCarlo repeats full runs and summarizes them.
func RunMonteCarlo(p SimParams, trials int, rng RandomSource) (Report, error) {
	if trials <= 0 {
		return Report{}, nil
	}
	if err := p.validate(); err != nil {
		return Report{}, err
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	costs := make([]float64, trials)
	taps := make([]float64, trials)
	r := Report{Trials: trials}
	for i := 0; i < trials; i++ {
		t, err := simulateOne(p, rng)
		if err != nil {
			return Report{}, err
		}
		costs[i] = t.Cost
		taps[i] = float64(t.Taps)
		r.Tiers[t.Tier]++
		r.MeanUsage = r.MeanUsage.AddScaled(t.Usage, 1/float64(trials))
	}
	r.Cost = calcStats(costs)
	r.Taps = calcStats(taps)
	return r, nil
}

// AttemptsToClear samples how many attempts one stage takes to clear from
// pity 0 with a fixed action.
func AttemptsToClear(action catalyst.Action, hidden bool, trials int, rng RandomSource) (Stats, error) {
	if trials <= 0 {
		return Stats{}, nil
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	xs := make([]float64, trials)
	for i := range xs {
		stage := NewStagePity(hidden, rng)
		attempts := 0
		for {
			attempts++
			hit, err := stage.Attempt(action)
			if err != nil {
				return Stats{}, err
			}
			if hit {
				break
			}
		}
		xs[i] = float64(attempts)
	}
	return calcStats(xs), nil
}
