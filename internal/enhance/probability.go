package enhance

import (
	"fmt"

	"github.com/xtding233/hammer-calc/internal/catalyst"
)

// Base success probabilities of an amplification attempt.
const (
	BaseRate       = 0.20
	HiddenBaseRate = 0.50
)

// hiddenPity are the pity counts that get HiddenBaseRate when hidden rates are on.
func hiddenPity(pity int) bool { return pity == 4 || pity == 5 }

// SuccessProbability is the chance that one attempt with action succeeds.
// On amplification stages the base rate depends on pity; on the final stage
// it is the ladder value at tier. The action's modifier is applied last and
// the result clamped to [0,1]. It does not check whether action is offered at
// the stage; Model.Probability is the checked entry point. The simulator
// calls it directly to price a stable catalyst on the final attempt.
func SuccessProbability(action catalyst.Action, isFinal bool, tier, pity int, hidden bool, ladder Ladder) (float64, error) {
	if tier < 0 || tier > MaxFailsafe {
		return 0, fmt.Errorf("%w: failsafe %d outside [0,%d]", catalyst.ErrConfig, tier, MaxFailsafe)
	}
	if pity < 0 || pity > MaxPity {
		return 0, fmt.Errorf("%w: pity %d outside [0,%d]", catalyst.ErrConfig, pity, MaxPity)
	}
	m, err := catalyst.ModifierOf(action)
	if err != nil {
		return 0, err
	}

	var base float64
	switch {
	case isFinal:
		base = ladder[tier]
		if tier == MaxFailsafe {
			base = 1
		}
	case pity == MaxPity:
		base = 1
	case hidden && hiddenPity(pity):
		base = HiddenBaseRate
	default:
		base = BaseRate
	}
	if base < 0 || base > 1 {
		return 0, fmt.Errorf("%w: base probability %v at tier %d", catalyst.ErrNumerical, base, tier)
	}
	return m.Apply(base), nil
}

// NominalProbability is the pity-free chance of an amplification attempt with
// action: BaseRate through the action's modifier.
func NominalProbability(action catalyst.Action) (float64, error) {
	return SuccessProbability(action, false, 0, 0, false, Ladder{})
}

// Model binds the probability rules to one chain length and ladder.
type Model struct {
	Level       int // 0 when built from an explicit ladder
	ChainLength int
	Ladder      Ladder
	HiddenRate  bool
}

// NewModel looks up chain length and ladder for level.
func NewModel(level int, hidden bool) (*Model, error) {
	n, err := ChainLength(level)
	if err != nil {
		return nil, err
	}
	l, err := LadderFor(level)
	if err != nil {
		return nil, err
	}
	return &Model{Level: level, ChainLength: n, Ladder: l, HiddenRate: hidden}, nil
}

// NewModelWithLadder builds a model from explicit tables.
func NewModelWithLadder(chainLength int, ladder Ladder, hidden bool) (*Model, error) {
	if chainLength < 1 {
		return nil, fmt.Errorf("%w: chain length %d", catalyst.ErrConfig, chainLength)
	}
	if err := ladder.Validate(); err != nil {
		return nil, err
	}
	return &Model{ChainLength: chainLength, Ladder: ladder, HiddenRate: hidden}, nil
}

// Probability returns the success chance of action in state s.
func (m *Model) Probability(action catalyst.Action, s State) (float64, error) {
	if err := s.Validate(m.ChainLength); err != nil {
		return 0, err
	}
	if err := catalyst.CheckLegal(action, s.Amp, m.ChainLength); err != nil {
		return 0, err
	}
	return SuccessProbability(action, s.Amp == m.ChainLength, s.Failsafe, s.Pity, m.HiddenRate, m.Ladder)
}

// Table is a dense (action, f, a, p) probability array. Illegal combinations
// and undefined final-stage pity values are rejected on lookup.
type Table struct {
	chainLength int
	defined     []bool
	p           []float64
}

func (t *Table) index(action catalyst.Action, s State) int {
	return ((int(action)*FailsafeTiers+s.Failsafe)*(t.chainLength+1)+s.Amp)*PityStates + s.Pity
}

// At looks up one probability.
func (t *Table) At(action catalyst.Action, s State) (float64, error) {
	if !action.Valid() {
		return 0, fmt.Errorf("%w: %d", catalyst.ErrUnknownAction, uint8(action))
	}
	if err := s.Validate(t.chainLength); err != nil {
		return 0, err
	}
	i := t.index(action, s)
	if !t.defined[i] {
		return 0, fmt.Errorf("%w: %s at %s", catalyst.ErrIllegalAction, action, s)
	}
	return t.p[i], nil
}

// Table evaluates every legal combination once.
func (m *Model) Table() (*Table, error) {
	size := catalyst.NumActions * FailsafeTiers * (m.ChainLength + 1) * PityStates
	t := &Table{
		chainLength: m.ChainLength,
		defined:     make([]bool, size),
		p:           make([]float64, size),
	}
	for f := 0; f <= MaxFailsafe; f++ {
		for a := 0; a <= m.ChainLength; a++ {
			legal, err := catalyst.LegalActions(a, m.ChainLength)
			if err != nil {
				return nil, err
			}
			maxP := MaxPity
			if a == m.ChainLength {
				maxP = 0
			}
			for p := 0; p <= maxP; p++ {
				s := State{Failsafe: f, Amp: a, Pity: p}
				for _, act := range legal {
					v, err := SuccessProbability(act, a == m.ChainLength, f, p, m.HiddenRate, m.Ladder)
					if err != nil {
						return nil, err
					}
					i := t.index(act, s)
					t.p[i] = v
					t.defined[i] = true
				}
			}
		}
	}
	return t, nil
}
