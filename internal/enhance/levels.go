package enhance

import (
	"fmt"

	"github.com/xtding233/hammer-calc/internal/catalyst"
)

// Supported enhancement levels: the attempt from +Level to +Level+1.
const (
	MinLevel = 15
	MaxLevel = 24
)

// chainThresholds: first level at which each chain length applies.
var chainThresholds = []struct{ from, length int }{
	{15, 3},
	{18, 4},
	{20, 5},
	{22, 6},
}

var ladders = map[int]Ladder{
	15: {0.18, 0.22, 0.26, 0.3, 0.4, 0.5, 1},
	16: {0.16, 0.2, 0.25, 0.3, 0.4, 0.5, 1},
	17: {0.14, 0.19, 0.24, 0.3, 0.4, 0.5, 1},
	18: {0.12, 0.18, 0.24, 0.3, 0.4, 0.5, 1},
	19: {0.11, 0.17, 0.23, 0.3, 0.4, 0.5, 1},
	20: {0.1, 0.15, 0.2, 0.25, 0.35, 0.5, 1},
	21: {0.08, 0.13, 0.19, 0.25, 0.35, 0.5, 1},
	22: {0.06, 0.1, 0.15, 0.2, 0.3, 0.5, 1},
	23: {0.04, 0.08, 0.12, 0.18, 0.25, 0.5, 1},
	24: {0.02, 0.04, 0.08, 0.12, 0.25, 0.5, 1},
}

// goldPerTap is the default base-currency price of one attempt (level 60 weapon).
var goldPerTap = map[int]float64{
	15: 150000,
	16: 160000,
	17: 180000,
	18: 200000,
	19: 220000,
	20: 240000,
	21: 260000,
	22: 450000,
	23: 850000,
	24: 1250000,
}

var failsafeNames = [FailsafeTiers]string{
	"No Failsafe!",
	"Failsafe I",
	"Failsafe II",
	"Failsafe III",
	"Failsafe IV",
	"Failsafe V",
	"Failsafe VI :(",
}

func checkLevel(level int) error {
	if level < MinLevel || level > MaxLevel {
		return fmt.Errorf("%w: enhancement level %d outside [%d,%d]", catalyst.ErrConfig, level, MinLevel, MaxLevel)
	}
	return nil
}

// ChainLength returns AMAX for level.
func ChainLength(level int) (int, error) {
	if err := checkLevel(level); err != nil {
		return 0, err
	}
	n := 0
	for _, t := range chainThresholds {
		if level >= t.from {
			n = t.length
		}
	}
	return n, nil
}

// LadderFor returns the failsafe success ladder of level.
func LadderFor(level int) (Ladder, error) {
	if err := checkLevel(level); err != nil {
		return Ladder{}, err
	}
	return ladders[level], nil
}

// DefaultGoldPerTap returns the usual base-currency cost of one attempt.
func DefaultGoldPerTap(level int) (float64, error) {
	if err := checkLevel(level); err != nil {
		return 0, err
	}
	return goldPerTap[level], nil
}

// FailsafeName is the in-game label of a failsafe tier.
func FailsafeName(tier int) string {
	if tier < 0 || tier >= FailsafeTiers {
		return fmt.Sprintf("Failsafe %d", tier)
	}
	return failsafeNames[tier]
}
