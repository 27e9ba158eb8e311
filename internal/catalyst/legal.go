package catalyst

import "fmt"

// baseActions are legal at every stage, including the final (failsafe) attempt.
var baseActions = []Action{NoCatalyst, Catalyst, PotentCatalyst}

// StarStage reports the star catalyst offered for a chain length and the
// stage it is offered at. Only chains of length 3 and 4 have one.
func StarStage(chainLength int) (Action, int, bool) {
	switch chainLength {
	case 3:
		return ThreeStarCatalyst, chainLength - 1, true
	case 4:
		return FourStarCatalyst, chainLength - 1, true
	}
	return 0, 0, false
}

// LegalActions lists the actions allowed at stage for a chain of chainLength
// amplification stages. Stage chainLength is the final failsafe attempt.
func LegalActions(stage, chainLength int) ([]Action, error) {
	if chainLength < 1 {
		return nil, fmt.Errorf("%w: chain length %d", ErrConfig, chainLength)
	}
	if stage < 0 || stage > chainLength {
		return nil, fmt.Errorf("%w: stage %d outside [0,%d]", ErrConfig, stage, chainLength)
	}
	out := append([]Action(nil), baseActions...)
	if star, at, ok := StarStage(chainLength); ok && stage == at {
		out = append(out, star)
	}
	return out, nil
}

// CheckLegal returns ErrIllegalAction when a may not be used at stage.
func CheckLegal(a Action, stage, chainLength int) error {
	legal, err := LegalActions(stage, chainLength)
	if err != nil {
		return err
	}
	for _, l := range legal {
		if l == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %s at stage %d of %d", ErrIllegalAction, a, stage, chainLength)
}
