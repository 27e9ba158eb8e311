package enhance

import (
	"fmt"

	"github.com/xtding233/hammer-calc/internal/catalyst"
)

// ExpectedAttempts is E[attempts] to clear one stage with per-attempt
// probability p when the seventh attempt is forced by hard pity.
func ExpectedAttempts(p float64) float64 {
	remaining := 1.0
	expected := 0.0
	for i := 1; i <= MaxPity; i++ {
		hit := p * remaining
		expected += hit * float64(i)
		remaining -= hit
	}
	return expected + remaining*float64(MaxPity+1)
}

// ExpectedFraction collapses the pity ladder into one equivalent per-attempt
// probability, 1/E[attempts].
func ExpectedFraction(p float64) float64 {
	return 1 / ExpectedAttempts(p)
}

// CumulativeFraction is ExpectedFraction over an explicit per-attempt ladder
// whose last entry is forced.
func CumulativeFraction(probs []float64) (float64, error) {
	if len(probs) == 0 {
		return 0, fmt.Errorf("%w: empty probability ladder", catalyst.ErrConfig)
	}
	remaining := 1.0
	expected := 0.0
	for i, p := range probs[:len(probs)-1] {
		if p < 0 || p > 1 {
			return 0, fmt.Errorf("%w: ladder[%d]=%v outside [0,1]", catalyst.ErrNumerical, i, p)
		}
		hit := p * remaining
		expected += hit * float64(i+1)
		remaining -= hit
	}
	expected += remaining * float64(len(probs))
	return 1 / expected, nil
}
