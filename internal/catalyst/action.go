package catalyst

import (
	"fmt"
	"strings"
)

// Action is one catalyst choice for a single attempt. Declaration order is the
// tie-break order used by the solvers.
type Action uint8

const (
	NoCatalyst Action = iota
	Catalyst
	PotentCatalyst
	ThreeStarCatalyst
	FourStarCatalyst
	// StableCatalyst is priced and modelled but never offered by the solvers.
	StableCatalyst
)

// NumActions is the size of every per-action array.
const NumActions = 6

var actionNames = [NumActions]string{
	"No Catalyst",
	"Catalyst",
	"Potent Catalyst",
	"3 Star Catalyst",
	"4 Star Catalyst",
	"Stable Catalyst",
}

// actionKeys are the config-file spellings.
var actionKeys = [NumActions]string{
	"none",
	"catalyst",
	"potent_catalyst",
	"three_star_catalyst",
	"four_star_catalyst",
	"stable_catalyst",
}

// All returns every action in declaration order.
func All() []Action {
	out := make([]Action, NumActions)
	for i := range out {
		out[i] = Action(i)
	}
	return out
}

func (a Action) Valid() bool { return int(a) < NumActions }

func (a Action) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Action(%d)", uint8(a))
	}
	return actionNames[a]
}

// Key returns the config-file spelling of a.
func (a Action) Key() string {
	if !a.Valid() {
		return ""
	}
	return actionKeys[a]
}

// IsStar reports whether a is one of the guaranteed-success star catalysts.
func (a Action) IsStar() bool {
	return a == ThreeStarCatalyst || a == FourStarCatalyst
}

// ParseAction accepts either the display name ("Potent Catalyst") or the
// config key ("potent_catalyst"), case-insensitively.
func ParseAction(s string) (Action, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for i := 0; i < NumActions; i++ {
		if norm == actionKeys[i] || norm == strings.ToLower(actionNames[i]) {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

func (a Action) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAction, uint8(a))
	}
	return []byte(a.Key()), nil
}

func (a *Action) UnmarshalText(b []byte) error {
	v, err := ParseAction(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
