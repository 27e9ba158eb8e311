package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/xtding233/hammer-calc/internal/catalyst"
	"github.com/xtding233/hammer-calc/internal/chain"
	"github.com/xtding233/hammer-calc/internal/enhance"
	"github.com/xtding233/hammer-calc/internal/policy"
	"github.com/xtding233/hammer-calc/internal/pricing"
	"github.com/xtding233/hammer-calc/internal/sim"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)
	return t
}

// RenderPolicy prints one failsafe tier of a solved policy as a pivot: one
// row per amplification stage, one column per pity count. Each cell shows
// the chosen action and the expected remaining cost of that stage.
func RenderPolicy(w io.Writer, r *policy.Result, tier int) error {
	rows, err := r.Rows(tier)
	if err != nil {
		return err
	}
	n := r.Model.ChainLength

	t := newTable(w, enhance.FailsafeName(tier))
	header := table.Row{"Stage"}
	for p := 0; p <= enhance.MaxPity; p++ {
		header = append(header, fmt.Sprintf("%d/%d", p, enhance.MaxPity))
	}
	t.AppendHeader(header)

	byAmp := make([]table.Row, n+1)
	for _, row := range rows {
		a := row.State.Amp
		if byAmp[a] == nil {
			label := enhance.Stars(a, n)
			if a == n {
				label = row.Label
			}
			byAmp[a] = table.Row{label}
		}
		byAmp[a] = append(byAmp[a], row.Action.String()+"\n"+Money(row.Cost))
	}
	for _, row := range byAmp {
		t.AppendRow(row)
	}

	configs := []table.ColumnConfig{{Number: 1, Align: text.AlignLeft}}
	for c := 2; c <= enhance.MaxPity+2; c++ {
		configs = append(configs, table.ColumnConfig{Number: c, Align: text.AlignCenter})
	}
	t.SetColumnConfigs(configs)
	t.Render()
	return nil
}

// RenderSummary prints the totals of one ascent from the summary's start.
func RenderSummary(w io.Writer, s policy.Summary, rates pricing.Rates, level, chainLength int) {
	spend := rates.Split(s.Cost, s.Taps)
	u := unit(rates.Frame)

	t := newTable(w, fmt.Sprintf("+%d → +%d from %s, %s", level, level+1,
		s.Start.Label(level, chainLength), enhance.FailsafeName(s.Start.Failsafe)))
	t.AppendRows([]table.Row{
		{"Expected cost", Money(spend.Total) + " " + u},
		{"Attempt spend", Money(spend.Tap) + " " + u},
		{"Catalyst spend", Money(spend.Catalyst) + " " + u},
		{"Attempt spend (gold)", Money(spend.TapBase)},
		{"Taps", Count(s.Taps)},
	})
	t.AppendSeparator()
	t.AppendRows(usageRows(s.Usage))
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
	})
	t.Render()
}

func usageRows(u catalyst.Usage) []table.Row {
	var rows []table.Row
	for _, a := range catalyst.All() {
		if a == catalyst.NoCatalyst || u[a] == 0 {
			continue
		}
		rows = append(rows, table.Row{a.String(), Count(u[a])})
	}
	rows = append(rows,
		table.Row{"Catalysts (plain + stable)", Count(u.Catalysts())},
		table.Row{"Potent equivalent", Count(u.PotentEquivalent())},
	)
	return rows
}

// Assignment renders a fixed assignment as "Potent → No → 3 Star".
func Assignment(as []catalyst.Action) string {
	parts := make([]string, len(as))
	for i, a := range as {
		parts[i] = strings.TrimSuffix(a.String(), " Catalyst")
	}
	return strings.Join(parts, " → ")
}

// RenderCycle prints the best fixed assignment and its full-cycle estimate.
func RenderCycle(w io.Writer, c chain.Cycle, rates pricing.Rates) {
	spend := rates.Split(c.Cost, c.Taps)
	u := unit(rates.Frame)

	t := newTable(w, "Best fixed assignment")
	t.AppendRows([]table.Row{
		{"Stages", Assignment(c.Chain.Assignment)},
		{"Chain cost (one clear)", Money(c.Chain.Cost) + " " + u},
		{"Chain taps (one clear)", Count(c.Chain.Taps)},
		{"Final attempt", c.Final.String()},
		{"Cycle success rate", fmt.Sprintf("%.2f%%", 100*c.Fraction)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Expected cost", Money(spend.Total) + " " + u},
		{"Attempt spend", Money(spend.Tap) + " " + u},
		{"Catalyst spend", Money(spend.Catalyst) + " " + u},
		{"Taps", Count(c.Taps)},
	})
	t.AppendSeparator()
	t.AppendRows(usageRows(c.Usage))
	t.Render()
}

// RenderSimulation prints Monte Carlo statistics.
func RenderSimulation(w io.Writer, r sim.Report, rates pricing.Rates) {
	u := unit(rates.Frame)
	t := newTable(w, fmt.Sprintf("Simulation (%s runs)", Count(float64(r.Trials))))
	t.AppendHeader(table.Row{"", "Mean", "StdDev", "Min", "P50", "P90", "P99", "Max"})
	statRow := func(name string, s sim.Stats, f func(float64) string) table.Row {
		return table.Row{name, f(s.Mean), f(s.StdDev), f(s.Min), f(s.P50), f(s.P90), f(s.P99), f(s.Max)}
	}
	t.AppendRow(statRow("Cost ("+u+")", r.Cost, Money))
	t.AppendRow(statRow("Taps", r.Taps, Count))
	t.Render()

	tiers := newTable(w, "Successful final attempt by failsafe")
	tiers.AppendHeader(table.Row{"Failsafe", "Runs", "Share"})
	for tier, n := range r.Tiers {
		if n == 0 {
			continue
		}
		tiers.AppendRow(table.Row{enhance.FailsafeName(tier), n, fmt.Sprintf("%.1f%%", 100*float64(n)/float64(r.Trials))})
	}
	tiers.Render()

	usage := newTable(w, "Mean usage per run")
	usage.AppendRows(usageRows(r.MeanUsage))
	usage.Render()
}
