package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/hammer-calc/internal/catalyst"
	"github.com/xtding233/hammer-calc/internal/enhance"
)

func TestSuccessPath(t *testing.T) {
	got := SuccessPath(enhance.State{Failsafe: 2, Amp: 1, Pity: 4}, 3)
	assert.Equal(t, []enhance.State{
		{Failsafe: 2, Amp: 1, Pity: 4},
		{Failsafe: 2, Amp: 2},
		{Failsafe: 2, Amp: 3},
	}, got)
	assert.Len(t, SuccessPath(enhance.State{Amp: 3}, 3), 1)
}

func TestSummarySumsPath(t *testing.T) {
	r := solve(t, 3, ladder15, true, flatCosts(t, 54, catalyst.DefaultPrices()))
	start := enhance.State{Failsafe: 3, Amp: 1, Pity: 2}
	sum, err := r.Summary(start)
	require.NoError(t, err)

	var cost, taps float64
	for _, s := range SuccessPath(start, 3) {
		e, err := r.At(s)
		require.NoError(t, err)
		cost += e.Cost
		taps += e.Taps
	}
	assert.InDelta(t, cost, sum.Cost, 1e-9)
	assert.InDelta(t, taps, sum.Taps, 1e-9)
	assert.GreaterOrEqual(t, sum.Taps, 3.0)

	final, err := r.Summary(enhance.State{Failsafe: 6, Amp: 3})
	require.NoError(t, err)
	assert.Equal(t, 54.0, final.Cost)
}

func TestSummaryRejectsBadStart(t *testing.T) {
	r := solve(t, 3, ladder15, true, flatCosts(t, 54, catalyst.DefaultPrices()))
	_, err := r.Summary(enhance.State{Amp: 3, Pity: 1})
	assert.ErrorIs(t, err, catalyst.ErrConfig)
	_, err = r.Summary(enhance.State{Pity: 7})
	assert.ErrorIs(t, err, catalyst.ErrConfig)
}

func TestRows(t *testing.T) {
	m, err := enhance.NewModel(15, true)
	require.NoError(t, err)
	r, err := Solve(m, flatCosts(t, 54, catalyst.DefaultPrices()))
	require.NoError(t, err)

	rows, err := r.Rows(0)
	require.NoError(t, err)
	require.Len(t, rows, 3*enhance.PityStates+1)
	assert.Equal(t, "☆☆☆ (0/6)", rows[0].Label)
	assert.Equal(t, "★★★ → +16", rows[len(rows)-1].Label)

	_, err = r.Rows(7)
	assert.ErrorIs(t, err, catalyst.ErrConfig)
}
