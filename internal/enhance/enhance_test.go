package enhance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/hammer-calc/internal/catalyst"
)

func TestChainLength(t *testing.T) {
	want := map[int]int{15: 3, 16: 3, 17: 3, 18: 4, 19: 4, 20: 5, 21: 5, 22: 6, 23: 6, 24: 6}
	for level, n := range want {
		got, err := ChainLength(level)
		require.NoError(t, err)
		assert.Equal(t, n, got, "level %d", level)
	}
	_, err := ChainLength(14)
	assert.ErrorIs(t, err, catalyst.ErrConfig)
	_, err = ChainLength(25)
	assert.ErrorIs(t, err, catalyst.ErrConfig)
}

func TestLaddersAreValid(t *testing.T) {
	for level := MinLevel; level <= MaxLevel; level++ {
		l, err := LadderFor(level)
		require.NoError(t, err)
		assert.NoError(t, l.Validate(), "level %d", level)
		g, err := DefaultGoldPerTap(level)
		require.NoError(t, err)
		assert.Greater(t, g, 0.0)
	}
}

func TestLadderValidate(t *testing.T) {
	bad := Ladder{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.9}
	assert.ErrorIs(t, bad.Validate(), catalyst.ErrConfig)
	bad = Ladder{-0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 1}
	assert.ErrorIs(t, bad.Validate(), catalyst.ErrConfig)
}

func TestSuccessProbabilityAmpStage(t *testing.T) {
	l, _ := LadderFor(15)
	for pity := 0; pity <= MaxPity; pity++ {
		off, err := SuccessProbability(catalyst.NoCatalyst, false, 0, pity, false, l)
		require.NoError(t, err)
		on, err := SuccessProbability(catalyst.NoCatalyst, false, 0, pity, true, l)
		require.NoError(t, err)
		switch pity {
		case 6:
			assert.Equal(t, 1.0, off)
			assert.Equal(t, 1.0, on)
		case 4, 5:
			assert.Equal(t, BaseRate, off)
			assert.Equal(t, HiddenBaseRate, on)
		default:
			assert.Equal(t, BaseRate, off)
			assert.Equal(t, BaseRate, on)
		}
	}
	p, err := SuccessProbability(catalyst.PotentCatalyst, false, 3, 4, true, l)
	require.NoError(t, err)
	assert.InDelta(t, 0.57, p, 1e-12)
}

func TestSuccessProbabilityFinalStage(t *testing.T) {
	l, _ := LadderFor(20)
	for tier := 0; tier <= MaxFailsafe; tier++ {
		p, err := SuccessProbability(catalyst.NoCatalyst, true, tier, 0, true, l)
		require.NoError(t, err)
		assert.Equal(t, l[tier], p)
	}
	p, err := SuccessProbability(catalyst.Catalyst, true, 0, 0, false, l)
	require.NoError(t, err)
	assert.InDelta(t, 0.14, p, 1e-12)

	_, err = SuccessProbability(catalyst.NoCatalyst, true, 7, 0, false, l)
	assert.ErrorIs(t, err, catalyst.ErrConfig)
	_, err = SuccessProbability(catalyst.NoCatalyst, false, 0, -1, false, l)
	assert.ErrorIs(t, err, catalyst.ErrConfig)
}

func TestModelProbabilityBounds(t *testing.T) {
	for level := MinLevel; level <= MaxLevel; level++ {
		for _, hidden := range []bool{false, true} {
			m, err := NewModel(level, hidden)
			require.NoError(t, err)
			tab, err := m.Table()
			require.NoError(t, err)
			for f := 0; f <= MaxFailsafe; f++ {
				for a := 0; a <= m.ChainLength; a++ {
					legal, err := catalyst.LegalActions(a, m.ChainLength)
					require.NoError(t, err)
					for p := 0; p <= MaxPity; p++ {
						s := State{Failsafe: f, Amp: a, Pity: p}
						if a == m.ChainLength && p > 0 {
							_, err := tab.At(catalyst.NoCatalyst, s)
							assert.ErrorIs(t, err, catalyst.ErrConfig)
							continue
						}
						for _, act := range legal {
							v, err := tab.At(act, s)
							require.NoError(t, err)
							assert.GreaterOrEqual(t, v, 0.0)
							assert.LessOrEqual(t, v, 1.0)
							direct, err := m.Probability(act, s)
							require.NoError(t, err)
							assert.Equal(t, direct, v)
						}
					}
				}
			}
		}
	}
}

func TestModelRejectsIllegalAction(t *testing.T) {
	m, err := NewModel(15, true)
	require.NoError(t, err)
	_, err = m.Probability(catalyst.ThreeStarCatalyst, State{Amp: 0})
	assert.ErrorIs(t, err, catalyst.ErrIllegalAction)
	_, err = m.Probability(catalyst.StableCatalyst, State{Amp: m.ChainLength})
	assert.ErrorIs(t, err, catalyst.ErrIllegalAction)

	// the unchecked form prices any action at any stage
	raw, err := SuccessProbability(catalyst.ThreeStarCatalyst, false, 0, 0, false, m.Ladder)
	require.NoError(t, err)
	assert.Equal(t, 1.0, raw)
	p, err := m.Probability(catalyst.ThreeStarCatalyst, State{Amp: 2})
	require.NoError(t, err)
	assert.Equal(t, 1.0, p)

	tab, err := m.Table()
	require.NoError(t, err)
	_, err = tab.At(catalyst.FourStarCatalyst, State{Amp: 2})
	assert.ErrorIs(t, err, catalyst.ErrIllegalAction)
	_, err = m.Probability(catalyst.NoCatalyst, State{Amp: 3, Pity: 2})
	assert.ErrorIs(t, err, catalyst.ErrConfig)
}

func TestNominalProbability(t *testing.T) {
	want := map[catalyst.Action]float64{
		catalyst.NoCatalyst:        0.2,
		catalyst.Catalyst:          0.24,
		catalyst.PotentCatalyst:    0.27,
		catalyst.ThreeStarCatalyst: 1,
		catalyst.FourStarCatalyst:  1,
	}
	for a, p := range want {
		got, err := NominalProbability(a)
		require.NoError(t, err)
		assert.InDelta(t, p, got, 1e-12, a.String())
	}
}

func TestExpectedFraction(t *testing.T) {
	assert.Equal(t, 1.0, ExpectedFraction(1))
	assert.InDelta(t, 1.0/7, ExpectedFraction(0), 1e-12)

	// closed form of the capped geometric mean: (1 - q^7) / p
	p := 0.24
	q := 1 - p
	q7 := q * q * q * q * q * q * q
	assert.InDelta(t, (1-q7)/p, ExpectedAttempts(p), 1e-12)

	ladder := make([]float64, 7)
	for i := range ladder {
		ladder[i] = p
	}
	ladder[6] = 1
	c, err := CumulativeFraction(ladder)
	require.NoError(t, err)
	assert.InDelta(t, ExpectedFraction(p), c, 1e-12)

	_, err = CumulativeFraction(nil)
	assert.ErrorIs(t, err, catalyst.ErrConfig)
}

func TestStateLabel(t *testing.T) {
	assert.Equal(t, "★★☆ (3/6)", State{Amp: 2, Pity: 3}.Label(15, 3))
	assert.Equal(t, "★★★ → +16", State{Amp: 3}.Label(15, 3))
	assert.Equal(t, "No Failsafe!", FailsafeName(0))
	assert.Equal(t, "Failsafe VI :(", FailsafeName(6))
}
