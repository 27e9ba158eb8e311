package enhance

import (
	"fmt"
	"strings"

	"github.com/xtding233/hammer-calc/internal/catalyst"
)

const (
	// MaxPity failures on a stage force the next attempt to succeed.
	MaxPity = 6
	// MaxFailsafe is the guaranteed failsafe tier.
	MaxFailsafe   = 6
	PityStates    = MaxPity + 1
	FailsafeTiers = MaxFailsafe + 1
)

// State is a coordinate (failsafe tier, amplification stage, pity) in the
// enhancement process. Pity is always zero on the final stage.
type State struct {
	Failsafe int
	Amp      int
	Pity     int
}

// Validate checks s against a chain of chainLength stages.
func (s State) Validate(chainLength int) error {
	switch {
	case s.Failsafe < 0 || s.Failsafe > MaxFailsafe:
		return fmt.Errorf("%w: failsafe %d outside [0,%d]", catalyst.ErrConfig, s.Failsafe, MaxFailsafe)
	case s.Amp < 0 || s.Amp > chainLength:
		return fmt.Errorf("%w: amp %d outside [0,%d]", catalyst.ErrConfig, s.Amp, chainLength)
	case s.Pity < 0 || s.Pity > MaxPity:
		return fmt.Errorf("%w: pity %d outside [0,%d]", catalyst.ErrConfig, s.Pity, MaxPity)
	case s.Amp == chainLength && s.Pity != 0:
		return fmt.Errorf("%w: pity %d on final stage", catalyst.ErrConfig, s.Pity)
	}
	return nil
}

func (s State) String() string {
	return fmt.Sprintf("(f=%d, a=%d, p=%d)", s.Failsafe, s.Amp, s.Pity)
}

// Stars renders amp progress, e.g. "★★☆".
func Stars(amp, chainLength int) string {
	if amp < 0 {
		amp = 0
	}
	if amp > chainLength {
		amp = chainLength
	}
	return strings.Repeat("★", amp) + strings.Repeat("☆", chainLength-amp)
}

// Label renders a state the way players read it: "★★☆ (3/6)", or
// "★★★ → +16" on the final stage of level 15.
func (s State) Label(level, chainLength int) string {
	if s.Amp >= chainLength {
		return fmt.Sprintf("%s → +%d", Stars(chainLength, chainLength), level+1)
	}
	return fmt.Sprintf("%s (%d/%d)", Stars(s.Amp, chainLength), s.Pity, MaxPity)
}
