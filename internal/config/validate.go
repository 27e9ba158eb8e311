package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xtding233/hammer-calc/internal/catalyst"
	"github.com/xtding233/hammer-calc/internal/enhance"
	"github.com/xtding233/hammer-calc/internal/pricing"
)

var ErrConfigFile = fmt.Errorf("%w: invalid config file", catalyst.ErrConfig)

// ValidateRaw checks semantic constraints of a RawConfig and reports every
// problem at once.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	// level
	if cfg.Level == nil {
		errs = append(errs, "level is required")
	} else if *cfg.Level < enhance.MinLevel || *cfg.Level > enhance.MaxLevel {
		errs = append(errs, fmt.Sprintf("level must be in [%d,%d]", enhance.MinLevel, enhance.MaxLevel))
	}

	// pricing
	if p := cfg.Pricing.GoldPerTap; p != nil && *p < 0 {
		errs = append(errs, "pricing.gold_per_tap must be >= 0")
	}
	if p := cfg.Pricing.SparePartsPerTap; p != nil && *p < 0 {
		errs = append(errs, "pricing.spare_parts_per_tap must be >= 0")
	}
	if p := cfg.Pricing.ValuePerMillion; p != nil && *p <= 0 {
		errs = append(errs, "pricing.value_per_million must be > 0")
	}
	if _, err := pricing.ParseFrame(cfg.Pricing.Frame); err != nil {
		errs = append(errs, "pricing.frame must be one of: value, opals, base, gold")
	}

	// catalysts
	for key, price := range cfg.Catalysts {
		if _, err := catalyst.ParseAction(key); err != nil {
			errs = append(errs, fmt.Sprintf("catalysts.%s is not a known catalyst", key))
			continue
		}
		if price < 0 {
			errs = append(errs, fmt.Sprintf("catalysts.%s must be >= 0", key))
		}
	}

	// start
	if s := cfg.Start; s != nil {
		if s.Failsafe != nil && (*s.Failsafe < 0 || *s.Failsafe > enhance.MaxFailsafe) {
			errs = append(errs, fmt.Sprintf("start.failsafe must be in [0,%d]", enhance.MaxFailsafe))
		}
		if s.Amp != nil && *s.Amp < 0 {
			errs = append(errs, "start.amp must be >= 0")
		}
		if s.Pity != nil && (*s.Pity < 0 || *s.Pity > enhance.MaxPity) {
			errs = append(errs, fmt.Sprintf("start.pity must be in [0,%d]", enhance.MaxPity))
		}
	}

	// simulation
	if s := cfg.Simulation; s != nil {
		if s.Trials != nil && *s.Trials <= 0 {
			errs = append(errs, "simulation.trials must be > 0")
		}
		if s.FinalCatalyst != "" {
			if _, err := catalyst.ParseAction(s.FinalCatalyst); err != nil {
				errs = append(errs, "simulation.final_catalyst is not a known catalyst")
			}
		}
		for i, key := range s.Assignment {
			if _, err := catalyst.ParseAction(key); err != nil {
				errs = append(errs, fmt.Sprintf("simulation.assignment[%d] is not a known catalyst", i))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrConfigFile, strings.Join(errs, "; "))
	}
	return nil
}

// IsConfigError reports whether err came from bad configuration rather than
// from a numerical failure.
func IsConfigError(err error) bool {
	return errors.Is(err, catalyst.ErrConfig)
}
