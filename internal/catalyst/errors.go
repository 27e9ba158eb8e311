package catalyst

import (
	"errors"
	"fmt"
)

// ErrConfig marks caller or table mistakes: illegal actions, missing prices,
// out-of-range coordinates. ErrNumerical marks violated numerical invariants.
var (
	ErrConfig    = errors.New("configuration error")
	ErrNumerical = errors.New("numerical invariant violated")
)

var (
	ErrIllegalAction = fmt.Errorf("%w: action not legal at stage", ErrConfig)
	ErrUnknownAction = fmt.Errorf("%w: unknown action", ErrConfig)
	ErrMissingPrice  = fmt.Errorf("%w: missing catalyst price", ErrConfig)
)
