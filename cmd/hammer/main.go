package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/xtding233/hammer-calc/internal/chain"
	"github.com/xtding233/hammer-calc/internal/config"
	"github.com/xtding233/hammer-calc/internal/enhance"
	"github.com/xtding233/hammer-calc/internal/report"
	"github.com/xtding233/hammer-calc/internal/sim"
	"github.com/xtding233/hammer-calc/internal/solvecache"
)

const (
	modePolicy   = "policy"
	modeOptimise = "optimise"
	modeSimulate = "simulate"
	modeAll      = "all"
)

type options struct {
	configDir string
	profile   string
	envFile   string
	mode      string
	allTiers  bool
	xlsx      string
	verbose   bool
	overrides config.Overrides
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(opts, os.Stdout); err != nil {
		slog.Error("hammer failed", "error", err)
		if config.IsConfigError(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("hammer", flag.ContinueOnError)
	fs.StringVar(&opts.configDir, "config", "config", "directory holding profiles/*.yaml")
	fs.StringVar(&opts.profile, "profile", "default", "profile name")
	fs.StringVar(&opts.envFile, "env", "", "optional .env file with HAMMER_* overrides")
	fs.StringVar(&opts.mode, "mode", modePolicy, "policy | optimise | simulate | all")
	fs.BoolVar(&opts.allTiers, "all-tiers", false, "print the policy for every failsafe tier")
	fs.StringVar(&opts.xlsx, "xlsx", "", "write the policy tables to this .xlsx file")
	fs.BoolVar(&opts.verbose, "v", false, "debug logging")
	levelFlag := fs.Int("level", 0, "enhancement level to go from (15-24)")
	hidden := fs.Bool("hidden", false, "use the hidden pity rates")
	start := fs.String("start", "", "start state as failsafe,amp,pity")
	trials := fs.Int("trials", 0, "Monte Carlo runs")
	seed := fs.Uint64("seed", 0, "Monte Carlo seed")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	switch opts.mode {
	case modePolicy, modeOptimise, modeSimulate, modeAll:
	case "optimize":
		opts.mode = modeOptimise
	default:
		return options{}, fmt.Errorf("unknown mode %q", opts.mode)
	}

	// only flags the user actually passed override the profile
	var err error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "level":
			opts.overrides.Level = levelFlag
		case "hidden":
			opts.overrides.HiddenRate = hidden
		case "trials":
			opts.overrides.Trials = trials
		case "seed":
			opts.overrides.Seed = seed
		case "start":
			var s enhance.State
			if s, err = parseState(*start); err == nil {
				opts.overrides.Start = &s
			}
		}
	})
	return opts, err
}

// parseState reads "f,a,p".
func parseState(s string) (enhance.State, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return enhance.State{}, fmt.Errorf("start %q: want failsafe,amp,pity", s)
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return enhance.State{}, fmt.Errorf("start %q: %w", s, err)
		}
		v[i] = n
	}
	return enhance.State{Failsafe: v[0], Amp: v[1], Pity: v[2]}, nil
}

func loadEnvFile(envFile string) error {
	if _, err := os.Stat(envFile); err != nil {
		return fmt.Errorf("env file %s not found", envFile)
	}
	return godotenv.Load(envFile)
}

func run(opts options, out io.Writer) error {
	if opts.envFile != "" {
		if err := loadEnvFile(opts.envFile); err != nil {
			return err
		}
		slog.Debug("loaded env file", "path", opts.envFile)
	}
	env, err := config.EnvOverrides(nil)
	if err != nil {
		return err
	}

	loader := config.NewLoader(opts.configDir)
	_, params, err := loader.Resolve(opts.profile, env.Merge(opts.overrides))
	if err != nil {
		return err
	}
	slog.Info("resolved profile",
		"profile", opts.profile,
		"version", params.Version,
		"level", params.Level,
		"chain", params.Model.ChainLength,
		"hidden", params.Model.HiddenRate,
		"frame", params.Rates.Frame,
		"tap_cost", params.Rates.TapCost(),
	)

	reg := prometheus.NewRegistry()
	cache := solvecache.New(reg)
	defer logCacheMetrics(reg)

	if opts.mode == modePolicy || opts.mode == modeAll {
		if err := runPolicy(opts, params, cache, out); err != nil {
			return err
		}
	}
	if opts.mode == modeOptimise || opts.mode == modeAll {
		if err := runOptimise(params, cache, out); err != nil {
			return err
		}
	}
	if opts.mode == modeSimulate || opts.mode == modeAll {
		if err := runSimulate(params, cache, out); err != nil {
			return err
		}
	}
	return nil
}

func runPolicy(opts options, p config.Params, cache *solvecache.Cache, out io.Writer) error {
	r, err := cache.Policy(p.Model, p.Costs)
	if err != nil {
		return fmt.Errorf("solve policy: %w", err)
	}
	s, err := r.Summary(p.Start)
	if err != nil {
		return err
	}
	report.RenderSummary(out, s, p.Rates, p.Level, p.Model.ChainLength)

	tiers := []int{p.Start.Failsafe}
	if opts.allTiers {
		tiers = tiers[:0]
		for f := 0; f <= enhance.MaxFailsafe; f++ {
			tiers = append(tiers, f)
		}
	}
	for _, f := range tiers {
		if err := report.RenderPolicy(out, r, f); err != nil {
			return err
		}
	}

	if opts.xlsx != "" {
		if err := report.WritePolicyXLSX(r, opts.xlsx); err != nil {
			return fmt.Errorf("write %s: %w", opts.xlsx, err)
		}
		slog.Info("policy exported", "path", opts.xlsx)
	}
	return nil
}

func runOptimise(p config.Params, cache *solvecache.Cache, out io.Writer) error {
	best, err := cache.Search(p.Model.ChainLength, p.Costs)
	if err != nil {
		return fmt.Errorf("search assignments: %w", err)
	}
	c, err := chain.FullCycle(best, p.Model.Ladder, p.Costs)
	if err != nil {
		return err
	}
	slog.Debug("best assignment", "stages", report.Assignment(best.Assignment), "final", c.Final)
	report.RenderCycle(out, c, p.Rates)
	return nil
}

func runSimulate(p config.Params, cache *solvecache.Cache, out io.Writer) error {
	assignment := p.Assignment
	if assignment == nil {
		best, err := cache.Search(p.Model.ChainLength, p.Costs)
		if err != nil {
			return fmt.Errorf("search assignments: %w", err)
		}
		assignment = best.Assignment
		slog.Info("simulating searched assignment", "stages", report.Assignment(assignment))
	}

	rng := sim.DefaultRNG()
	if p.Seed != nil {
		rng = sim.NewSeededRNG(*p.Seed)
	}
	rep, err := sim.RunMonteCarlo(sim.SimParams{
		Assignment: assignment,
		Final:      p.Final,
		Ladder:     p.Model.Ladder,
		Hidden:     p.Model.HiddenRate,
		Costs:      p.Costs,
	}, p.Trials, rng)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}
	report.RenderSimulation(out, rep, p.Rates)
	return nil
}

func logCacheMetrics(g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		slog.Warn("gather metrics", "error", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			attrs := []any{"metric", mf.GetName()}
			for _, l := range m.GetLabel() {
				attrs = append(attrs, l.GetName(), l.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				attrs = append(attrs, "value", m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				attrs = append(attrs, "count", m.GetHistogram().GetSampleCount(), "sum", m.GetHistogram().GetSampleSum())
			}
			slog.Debug("solver metrics", attrs...)
		}
	}
}
