package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/hammer-calc/internal/catalyst"
	"github.com/xtding233/hammer-calc/internal/enhance"
	"github.com/xtding233/hammer-calc/internal/pricing"
)

const defaultYAML = `
version: "1"
level: 16
pricing:
  value_per_million: 100
  frame: value
catalysts:
  catalyst: 100
  potent_catalyst: 800
start:
  failsafe: 1
simulation:
  trials: 500
`

func writeProfiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "profiles"), 0o755))
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "profiles", name+".yaml"), []byte(body), 0o644))
	}
	return dir
}

func TestResolveDefault(t *testing.T) {
	dir := writeProfiles(t, map[string]string{"default": defaultYAML})
	_, p, err := NewLoader(dir).Resolve("", Overrides{})
	require.NoError(t, err)

	assert.Equal(t, "1", p.Version)
	assert.Equal(t, 16, p.Level)
	assert.Equal(t, 3, p.Model.ChainLength)
	assert.Equal(t, 160000.0, p.Rates.BasePerTap)
	assert.Equal(t, pricing.FrameValue, p.Rates.Frame)
	assert.Equal(t, enhance.State{Failsafe: 1}, p.Start)
	assert.Equal(t, 500, p.Trials)
	assert.Nil(t, p.Seed)
	assert.Nil(t, p.Assignment)
	assert.Equal(t, catalyst.PotentCatalyst, p.Final, "final attempt defaults to a potent catalyst")

	// 160k gold at 100 opals per million is 16 opals per tap
	assert.InDelta(t, 16, p.Costs.Of(catalyst.NoCatalyst), 1e-9)
	assert.InDelta(t, 816, p.Costs.Of(catalyst.PotentCatalyst), 1e-9)
	assert.InDelta(t, 8016, p.Costs.Of(catalyst.ThreeStarCatalyst), 1e-9)
}

func TestProfileOverridesDefault(t *testing.T) {
	dir := writeProfiles(t, map[string]string{
		"default": defaultYAML,
		"whale": `
level: 22
hidden_rate: true
pricing:
  gold_per_tap: 400000
  spare_parts_per_tap: 50000
  frame: gold
catalysts:
  potent_catalyst: 600
start:
  amp: 2
simulation:
  seed: 9
  final_catalyst: stable_catalyst
  assignment: [potent_catalyst, none, none, none, none, catalyst]
`,
	})
	raw, p, err := NewLoader(dir).Resolve("whale", Overrides{})
	require.NoError(t, err)

	assert.Equal(t, 100.0, raw.Catalysts["catalyst"], "untouched keys survive the merge")
	assert.Equal(t, 600.0, raw.Catalysts["potent_catalyst"])
	assert.Equal(t, 22, p.Level)
	assert.True(t, p.Model.HiddenRate)
	assert.Equal(t, 6, p.Model.ChainLength)
	assert.Equal(t, 450000.0, p.Rates.BasePerTap)
	assert.Equal(t, pricing.FrameBase, p.Rates.Frame)
	assert.Equal(t, enhance.State{Failsafe: 1, Amp: 2}, p.Start)
	assert.Equal(t, 500, p.Trials)
	require.NotNil(t, p.Seed)
	assert.Equal(t, uint64(9), *p.Seed)
	assert.Equal(t, catalyst.StableCatalyst, p.Final)
	assert.Len(t, p.Assignment, 6)
	assert.Equal(t, "whale", p.Profile)

	// base frame: 450k per tap plus 600 opals at 100 per million
	assert.InDelta(t, 450000+6_000_000, p.Costs.Of(catalyst.PotentCatalyst), 1e-6)
}

func TestOverridesWin(t *testing.T) {
	dir := writeProfiles(t, map[string]string{"default": defaultYAML})
	level := 20
	hidden := true
	start := enhance.State{Failsafe: 3, Amp: 1, Pity: 4}
	_, p, err := NewLoader(dir).Resolve("default", Overrides{Level: &level, HiddenRate: &hidden, Start: &start})
	require.NoError(t, err)
	assert.Equal(t, DefaultFinalCatalyst, p.Final)
	assert.Equal(t, 20, p.Level)
	assert.Equal(t, 5, p.Model.ChainLength)
	assert.True(t, p.Model.HiddenRate)
	assert.Equal(t, start, p.Start)
}

func TestValidateAggregatesErrors(t *testing.T) {
	dir := writeProfiles(t, map[string]string{
		"default": defaultYAML,
		"bad": `
level: 30
pricing:
  value_per_million: 0
  frame: gems
catalysts:
  nonsense: 5
  catalyst: -1
simulation:
  trials: 0
`,
	})
	_, _, err := NewLoader(dir).Resolve("bad", Overrides{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigFile)
	assert.True(t, IsConfigError(err))
	for _, want := range []string{
		"level must be in [15,24]",
		"pricing.value_per_million must be > 0",
		"pricing.frame",
		"catalysts.nonsense",
		"catalysts.catalyst must be >= 0",
		"simulation.trials must be > 0",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestMissingFiles(t *testing.T) {
	_, err := NewLoader(t.TempDir()).LoadMerged("")
	assert.ErrorIs(t, err, ErrConfigFile)

	dir := writeProfiles(t, map[string]string{"default": defaultYAML})
	_, err = NewLoader(dir).LoadMerged("nope")
	assert.ErrorIs(t, err, ErrConfigFile)
}

func TestMalformedYAML(t *testing.T) {
	dir := writeProfiles(t, map[string]string{"default": "level: [1"})
	_, err := NewLoader(dir).LoadMerged("")
	assert.ErrorIs(t, err, ErrConfigFile)
}

func TestLoaderCachesUntilInvalidated(t *testing.T) {
	dir := writeProfiles(t, map[string]string{"default": defaultYAML})
	l := NewLoader(dir)
	first, err := l.LoadMerged("")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "profiles", "default.yaml"), []byte("level: 24\n"), 0o644))
	cached, err := l.LoadMerged("")
	require.NoError(t, err)
	assert.Equal(t, *first.Level, *cached.Level)

	l.Invalidate()
	fresh, err := l.LoadMerged("")
	require.NoError(t, err)
	assert.Equal(t, 24, *fresh.Level)
}

func TestAssignmentMustFitLevel(t *testing.T) {
	dir := writeProfiles(t, map[string]string{
		"default": defaultYAML,
		"short":   "simulation:\n  assignment: [none, none]\n",
		"illegal": "simulation:\n  assignment: [three_star_catalyst, none, none]\n",
	})
	l := NewLoader(dir)
	_, _, err := l.Resolve("short", Overrides{})
	assert.ErrorIs(t, err, catalyst.ErrConfig)
	_, _, err = l.Resolve("illegal", Overrides{})
	assert.ErrorIs(t, err, catalyst.ErrIllegalAction)
}

func TestStartStateChecked(t *testing.T) {
	dir := writeProfiles(t, map[string]string{
		"default": defaultYAML,
		"deep":    "start:\n  amp: 3\n  pity: 2\n",
	})
	_, _, err := NewLoader(dir).Resolve("deep", Overrides{})
	assert.ErrorIs(t, err, catalyst.ErrConfig)
}

func TestEnvOverrides(t *testing.T) {
	env := map[string]string{
		EnvLevel:           "18",
		EnvHidden:          "true",
		EnvGoldPerTap:      "250000",
		EnvValuePerMillion: "90",
		EnvFrame:           "gold",
		EnvTrials:          "42",
		EnvSeed:            "3",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }
	o, err := EnvOverrides(lookup)
	require.NoError(t, err)
	assert.Equal(t, 18, *o.Level)
	assert.True(t, *o.HiddenRate)
	assert.Equal(t, 250000.0, *o.GoldPerTap)
	assert.Equal(t, 90.0, *o.ValuePerMillion)
	assert.Equal(t, "gold", *o.Frame)
	assert.Equal(t, 42, *o.Trials)
	assert.Equal(t, uint64(3), *o.Seed)

	env[EnvLevel] = "sixteen"
	env[EnvSeed] = "-1"
	_, err = EnvOverrides(lookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvLevel)
	assert.Contains(t, err.Error(), EnvSeed)

	o, err = EnvOverrides(func(string) (string, bool) { return "", false })
	require.NoError(t, err)
	assert.Equal(t, Overrides{}, o)
}

func TestOverridesMerge(t *testing.T) {
	a, b := 16, 20
	trials := 9
	env := Overrides{Level: &a, Trials: &trials}
	flags := Overrides{Level: &b}
	got := env.Merge(flags)
	assert.Equal(t, 20, *got.Level)
	assert.Equal(t, 9, *got.Trials)
}

func TestShippedProfilesResolve(t *testing.T) {
	l := NewLoader(filepath.Join("..", "..", "config"))
	for _, name := range []string{"default", "whale", "dolphin"} {
		_, p, err := l.Resolve(name, Overrides{})
		require.NoError(t, err, name)
		assert.NotNil(t, p.Model, name)
	}
}
