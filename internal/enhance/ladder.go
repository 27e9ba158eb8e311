package enhance

import (
	"fmt"
	"math"

	"github.com/xtding233/hammer-calc/internal/catalyst"
)

// Ladder holds the final-attempt success probability per failsafe tier.
type Ladder [FailsafeTiers]float64

// Validate requires probabilities in [0,1] and a guaranteed last tier.
func (l Ladder) Validate() error {
	for i, p := range l {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return fmt.Errorf("%w: ladder[%d]=%v outside [0,1]", catalyst.ErrConfig, i, p)
		}
	}
	if l[MaxFailsafe] != 1 {
		return fmt.Errorf("%w: ladder[%d]=%v, last tier must be guaranteed", catalyst.ErrConfig, MaxFailsafe, l[MaxFailsafe])
	}
	return nil
}

// Modified applies m to every tier.
func (l Ladder) Modified(m catalyst.Modifier) Ladder {
	var out Ladder
	for i, p := range l {
		out[i] = m.Apply(p)
	}
	return out
}
