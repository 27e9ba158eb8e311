package sim

import (
	"fmt"
	"math"

	"github.com/xtding233/hammer-calc/internal/catalyst"
)

// ErrInvalidProb means a model handed the sampler a probability outside [0,1].
var ErrInvalidProb = fmt.Errorf("%w: probability outside [0,1]", catalyst.ErrNumerical)

// Draw samples one attempt that succeeds with probability p. Certain and
// impossible attempts consume no randomness.
func Draw(p float64, rng RandomSource) (bool, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return false, fmt.Errorf("%w: %v", ErrInvalidProb, p)
	}
	if p == 0 || p == 1 {
		return p == 1, nil
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	return rng.Float64() < p, nil
}
