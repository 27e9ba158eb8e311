package report

import (
	"bytes"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/xtding233/hammer-calc/internal/catalyst"
	"github.com/xtding233/hammer-calc/internal/chain"
	"github.com/xtding233/hammer-calc/internal/enhance"
	"github.com/xtding233/hammer-calc/internal/policy"
	"github.com/xtding233/hammer-calc/internal/pricing"
	"github.com/xtding233/hammer-calc/internal/sim"
)

var rates = pricing.Rates{BasePerTap: 160000, ValuePerMillion: 100, Frame: pricing.FrameValue}

func solved(t *testing.T) *policy.Result {
	t.Helper()
	m, err := enhance.NewModel(16, false)
	require.NoError(t, err)
	costs, err := pricing.NewCosts(rates, catalyst.DefaultPrices())
	require.NoError(t, err)
	r, err := policy.Solve(m, costs)
	require.NoError(t, err)
	return r
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "1,234,567.89", Money(1234567.891))
	assert.Equal(t, "1,000", Money(1000))
	assert.Equal(t, "12.5", Count(12.46))
}

func TestRenderPolicy(t *testing.T) {
	r := solved(t)
	var buf bytes.Buffer
	require.NoError(t, RenderPolicy(&buf, r, 0))
	out := buf.String()
	assert.Contains(t, out, "No Failsafe!")
	assert.Contains(t, out, "★★☆")
	assert.Contains(t, out, "★★★ → +17")
	assert.Contains(t, out, "6/6")

	assert.ErrorIs(t, RenderPolicy(&buf, r, 7), catalyst.ErrConfig)
}

func TestRenderSummary(t *testing.T) {
	r := solved(t)
	s, err := r.Summary(enhance.State{})
	require.NoError(t, err)
	var buf bytes.Buffer
	RenderSummary(&buf, s, rates, 16, 3)
	out := buf.String()
	assert.Contains(t, out, "+16 → +17")
	assert.Contains(t, out, "Expected cost")
	assert.Contains(t, out, Money(s.Cost))
	assert.Contains(t, out, "Potent equivalent")
}

func TestRenderCycleAndAssignment(t *testing.T) {
	costs, err := pricing.NewCosts(rates, catalyst.DefaultPrices())
	require.NoError(t, err)
	best, err := chain.Search(3, costs)
	require.NoError(t, err)
	l, err := enhance.LadderFor(16)
	require.NoError(t, err)
	c, err := chain.FullCycle(best, l, costs)
	require.NoError(t, err)

	var buf bytes.Buffer
	RenderCycle(&buf, c, rates)
	assert.Contains(t, buf.String(), Assignment(best.Assignment))
	assert.Contains(t, buf.String(), c.Final.String())

	assert.Equal(t, "Potent → No → 3 Star",
		Assignment([]catalyst.Action{catalyst.PotentCatalyst, catalyst.NoCatalyst, catalyst.ThreeStarCatalyst}))
}

func TestRenderSimulation(t *testing.T) {
	costs, err := pricing.NewCosts(rates, catalyst.DefaultPrices())
	require.NoError(t, err)
	l, err := enhance.LadderFor(16)
	require.NoError(t, err)
	rep, err := sim.RunMonteCarlo(sim.SimParams{
		Assignment: []catalyst.Action{catalyst.NoCatalyst, catalyst.NoCatalyst, catalyst.ThreeStarCatalyst},
		Final:      catalyst.PotentCatalyst,
		Ladder:     l,
		Costs:      costs,
	}, 200, sim.NewSeededRNG(1))
	require.NoError(t, err)

	var buf bytes.Buffer
	RenderSimulation(&buf, rep, rates)
	out := buf.String()
	assert.Contains(t, out, "Simulation (200 runs)")
	assert.Contains(t, out, "Cost (opals)")
	assert.Contains(t, out, "3 Star Catalyst")
}

func TestWritePolicyXLSX(t *testing.T) {
	r := solved(t)
	path := filepath.Join(t.TempDir(), "out", "policy.xlsx")
	require.NoError(t, WritePolicyXLSX(r, path))

	fx, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer fx.Close()

	sheets := fx.GetSheetList()
	require.Len(t, sheets, enhance.FailsafeTiers)
	assert.Equal(t, "No Failsafe", sheets[0])
	assert.Equal(t, "Failsafe 6", sheets[6])

	start, err := r.At(enhance.State{})
	require.NoError(t, err)
	got, err := fx.GetCellValue("No Failsafe", "B2")
	require.NoError(t, err)
	assert.Equal(t, start.Action.String(), got)

	// cost block starts below the action block: header at row 7 for a 3-stage chain
	raw, err := fx.GetCellValue("No Failsafe", "B8", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	v, err := strconv.ParseFloat(raw, 64)
	require.NoError(t, err)
	assert.InDelta(t, start.Cost, v, 1e-6*start.Cost)

	label, err := fx.GetCellValue("Failsafe 6", "A5")
	require.NoError(t, err)
	assert.Equal(t, "★★★ → +17", label)
}
