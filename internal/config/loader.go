package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Paths locates profile files under a base directory.
type Paths struct {
	BaseDir string // e.g. ./config
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "profiles", "default.yaml")
}
func (p Paths) ProfilePath(name string) string {
	return filepath.Join(p.BaseDir, "profiles", name+".yaml")
}

// Loader reads YAML profiles and merges default → profile.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig // key: profile name, "" for default only
}

// NewLoader creates a loader for baseDir.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawConfig),
	}
}

// LoadMerged returns default.yaml overlaid with the named profile. Both files
// must exist; an empty name or "default" loads the default alone.
func (l *Loader) LoadMerged(name string) (RawConfig, error) {
	if name == "default" {
		name = ""
	}
	l.mu.RLock()
	if cfg, ok := l.cache[name]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	defCfg, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	merged := defCfg
	if name != "" {
		profCfg, err := readYAML(l.paths.ProfilePath(name))
		if err != nil {
			return RawConfig{}, fmt.Errorf("read profile %s: %w", name, err)
		}
		merged = mergeRaw(defCfg, profCfg)
	}

	l.mu.Lock()
	l.cache[""] = defCfg
	l.cache[name] = merged
	l.mu.Unlock()
	return merged, nil
}

// Invalidate clears the loader's cache.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
}

// readYAML loads one YAML file into RawConfig.
func readYAML(path string) (RawConfig, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, fmt.Errorf("%w: %s does not exist", ErrConfigFile, path)
		}
		return RawConfig{}, fmt.Errorf("%w: %v", ErrConfigFile, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, fmt.Errorf("%w: %s: %v", ErrConfigFile, path, err)
	}
	return cfg, nil
}

// mergeRaw overlays b on a: every field b sets wins. Maps merge per key and
// slices are replaced whole.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}
	if b.Level != nil {
		out.Level = b.Level
	}
	if b.HiddenRate != nil {
		out.HiddenRate = b.HiddenRate
	}

	// pricing
	if b.Pricing.GoldPerTap != nil {
		out.Pricing.GoldPerTap = b.Pricing.GoldPerTap
	}
	if b.Pricing.SparePartsPerTap != nil {
		out.Pricing.SparePartsPerTap = b.Pricing.SparePartsPerTap
	}
	if b.Pricing.ValuePerMillion != nil {
		out.Pricing.ValuePerMillion = b.Pricing.ValuePerMillion
	}
	if b.Pricing.Frame != "" {
		out.Pricing.Frame = b.Pricing.Frame
	}

	// catalysts
	if len(b.Catalysts) > 0 {
		m := make(map[string]float64, len(a.Catalysts)+len(b.Catalysts))
		maps.Copy(m, a.Catalysts)
		maps.Copy(m, b.Catalysts)
		out.Catalysts = m
	}

	// start
	switch {
	case out.Start == nil && b.Start != nil:
		c := *b.Start
		out.Start = &c
	case out.Start != nil && b.Start != nil:
		c := *out.Start
		if b.Start.Failsafe != nil {
			c.Failsafe = b.Start.Failsafe
		}
		if b.Start.Amp != nil {
			c.Amp = b.Start.Amp
		}
		if b.Start.Pity != nil {
			c.Pity = b.Start.Pity
		}
		out.Start = &c
	}

	// simulation
	switch {
	case out.Simulation == nil && b.Simulation != nil:
		c := *b.Simulation
		c.Assignment = append([]string(nil), b.Simulation.Assignment...)
		out.Simulation = &c
	case out.Simulation != nil && b.Simulation != nil:
		c := *out.Simulation
		if b.Simulation.Trials != nil {
			c.Trials = b.Simulation.Trials
		}
		if b.Simulation.Seed != nil {
			c.Seed = b.Simulation.Seed
		}
		if b.Simulation.FinalCatalyst != "" {
			c.FinalCatalyst = b.Simulation.FinalCatalyst
		}
		if len(b.Simulation.Assignment) > 0 {
			c.Assignment = append([]string(nil), b.Simulation.Assignment...)
		}
		out.Simulation = &c
	}

	return out
}
