// resolve.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xtding233/hammer-calc/internal/catalyst"
	"github.com/xtding233/hammer-calc/internal/chain"
	"github.com/xtding233/hammer-calc/internal/enhance"
	"github.com/xtding233/hammer-calc/internal/pricing"
)

// Overrides carry command-line or environment values that win over every
// profile. Nil fields leave the profile value alone.
type Overrides struct {
	Level           *int
	HiddenRate      *bool
	GoldPerTap      *float64
	ValuePerMillion *float64
	Frame           *string
	Start           *enhance.State
	Trials          *int
	Seed            *uint64
}

// Env variable names read by EnvOverrides.
const (
	EnvLevel           = "HAMMER_LEVEL"
	EnvHidden          = "HAMMER_HIDDEN_RATE"
	EnvGoldPerTap      = "HAMMER_GOLD_PER_TAP"
	EnvValuePerMillion = "HAMMER_VALUE_PER_MILLION"
	EnvFrame           = "HAMMER_FRAME"
	EnvTrials          = "HAMMER_TRIALS"
	EnvSeed            = "HAMMER_SEED"
)

// EnvOverrides reads HAMMER_* variables through lookup (os.LookupEnv when
// nil). Unparseable values are reported together.
func EnvOverrides(lookup func(string) (string, bool)) (Overrides, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	var o Overrides
	var errs []string
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvLevel); ok {
		if n, err := strconv.Atoi(v); err == nil {
			o.Level = &n
		} else {
			errs = append(errs, EnvLevel+" must be an integer")
		}
	}
	if v, ok := get(EnvHidden); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			o.HiddenRate = &b
		} else {
			errs = append(errs, EnvHidden+" must be a boolean")
		}
	}
	if v, ok := get(EnvGoldPerTap); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			o.GoldPerTap = &f
		} else {
			errs = append(errs, EnvGoldPerTap+" must be a number")
		}
	}
	if v, ok := get(EnvValuePerMillion); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			o.ValuePerMillion = &f
		} else {
			errs = append(errs, EnvValuePerMillion+" must be a number")
		}
	}
	if v, ok := get(EnvFrame); ok {
		o.Frame = &v
	}
	if v, ok := get(EnvTrials); ok {
		if n, err := strconv.Atoi(v); err == nil {
			o.Trials = &n
		} else {
			errs = append(errs, EnvTrials+" must be an integer")
		}
	}
	if v, ok := get(EnvSeed); ok {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			o.Seed = &n
		} else {
			errs = append(errs, EnvSeed+" must be an unsigned integer")
		}
	}

	if len(errs) > 0 {
		return Overrides{}, fmt.Errorf("%w: %s", catalyst.ErrConfig, strings.Join(errs, "; "))
	}
	return o, nil
}

// Merge returns o with every field set in p taking precedence.
func (o Overrides) Merge(p Overrides) Overrides {
	if p.Level != nil {
		o.Level = p.Level
	}
	if p.HiddenRate != nil {
		o.HiddenRate = p.HiddenRate
	}
	if p.GoldPerTap != nil {
		o.GoldPerTap = p.GoldPerTap
	}
	if p.ValuePerMillion != nil {
		o.ValuePerMillion = p.ValuePerMillion
	}
	if p.Frame != nil {
		o.Frame = p.Frame
	}
	if p.Start != nil {
		o.Start = p.Start
	}
	if p.Trials != nil {
		o.Trials = p.Trials
	}
	if p.Seed != nil {
		o.Seed = p.Seed
	}
	return o
}

// apply writes the overrides into a copy of cfg.
func (o Overrides) apply(cfg RawConfig) RawConfig {
	if o.Level != nil {
		cfg.Level = o.Level
	}
	if o.HiddenRate != nil {
		cfg.HiddenRate = o.HiddenRate
	}
	if o.GoldPerTap != nil {
		cfg.Pricing.GoldPerTap = o.GoldPerTap
	}
	if o.ValuePerMillion != nil {
		cfg.Pricing.ValuePerMillion = o.ValuePerMillion
	}
	if o.Frame != nil {
		cfg.Pricing.Frame = *o.Frame
	}
	if o.Start != nil {
		s := *o.Start
		cfg.Start = &StartConfig{Failsafe: &s.Failsafe, Amp: &s.Amp, Pity: &s.Pity}
	}
	if o.Trials != nil || o.Seed != nil {
		sim := SimConfig{}
		if cfg.Simulation != nil {
			sim = *cfg.Simulation
		}
		if o.Trials != nil {
			sim.Trials = o.Trials
		}
		if o.Seed != nil {
			sim.Seed = o.Seed
		}
		cfg.Simulation = &sim
	}
	return cfg
}

// Resolve loads the profile, applies overrides, validates, and normalizes
// everything into Params.
func (l *Loader) Resolve(profile string, o Overrides) (RawConfig, Params, error) {
	raw, err := l.LoadMerged(profile)
	if err != nil {
		return RawConfig{}, Params{}, err
	}
	raw = o.apply(raw)
	if err := ValidateRaw(raw); err != nil {
		return raw, Params{}, err
	}
	p, err := Normalize(raw)
	if err != nil {
		return raw, Params{}, err
	}
	p.Profile = profile
	return raw, p, nil
}

// Normalize turns a validated RawConfig into Params, filling level defaults.
func Normalize(raw RawConfig) (Params, error) {
	if raw.Level == nil {
		return Params{}, fmt.Errorf("%w: level is required", ErrConfigFile)
	}
	level := *raw.Level
	hidden := raw.HiddenRate != nil && *raw.HiddenRate
	model, err := enhance.NewModel(level, hidden)
	if err != nil {
		return Params{}, err
	}

	gold, err := enhance.DefaultGoldPerTap(level)
	if err != nil {
		return Params{}, err
	}
	if raw.Pricing.GoldPerTap != nil {
		gold = *raw.Pricing.GoldPerTap
	}
	if raw.Pricing.SparePartsPerTap != nil {
		gold += *raw.Pricing.SparePartsPerTap
	}
	frame, err := pricing.ParseFrame(raw.Pricing.Frame)
	if err != nil {
		return Params{}, err
	}
	vpm := float64(DefaultValuePerMillion)
	if raw.Pricing.ValuePerMillion != nil {
		vpm = *raw.Pricing.ValuePerMillion
	}
	rates := pricing.Rates{BasePerTap: gold, ValuePerMillion: vpm, Frame: frame}

	prices, err := resolvePrices(raw.Catalysts)
	if err != nil {
		return Params{}, err
	}
	costs, err := pricing.NewCosts(rates, prices)
	if err != nil {
		return Params{}, err
	}

	var start enhance.State
	if s := raw.Start; s != nil {
		start = enhance.State{Failsafe: deref(s.Failsafe), Amp: deref(s.Amp), Pity: deref(s.Pity)}
	}
	if err := start.Validate(model.ChainLength); err != nil {
		return Params{}, fmt.Errorf("start: %w", err)
	}

	p := Params{
		Version: raw.Version,
		Level:   level,
		Model:   model,
		Rates:   rates,
		Prices:  prices,
		Costs:   costs,
		Start:   start,
		Trials:  DefaultTrials,
		Final:   DefaultFinalCatalyst,
	}
	if sim := raw.Simulation; sim != nil {
		if sim.Trials != nil {
			p.Trials = *sim.Trials
		}
		p.Seed = sim.Seed
		if sim.FinalCatalyst != "" {
			if p.Final, err = catalyst.ParseAction(sim.FinalCatalyst); err != nil {
				return Params{}, err
			}
		}
		if len(sim.Assignment) > 0 {
			if p.Assignment, err = parseAssignment(sim.Assignment); err != nil {
				return Params{}, err
			}
			if len(p.Assignment) != model.ChainLength {
				return Params{}, fmt.Errorf("%w: simulation.assignment has %d stages, level %d has %d",
					catalyst.ErrConfig, len(p.Assignment), level, model.ChainLength)
			}
			if _, err := chain.Transition(p.Assignment); err != nil {
				return Params{}, fmt.Errorf("simulation.assignment: %w", err)
			}
		}
	}
	return p, nil
}

// resolvePrices overlays configured prices on the default table.
func resolvePrices(m map[string]float64) (catalyst.Prices, error) {
	prices := catalyst.DefaultPrices()
	for key, v := range m {
		a, err := catalyst.ParseAction(key)
		if err != nil {
			return nil, err
		}
		prices[a] = v
	}
	return prices, prices.Validate()
}

func parseAssignment(keys []string) ([]catalyst.Action, error) {
	out := make([]catalyst.Action, len(keys))
	for i, k := range keys {
		a, err := catalyst.ParseAction(k)
		if err != nil {
			return nil, fmt.Errorf("stage %d: %w", i, err)
		}
		out[i] = a
	}
	return out, nil
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
