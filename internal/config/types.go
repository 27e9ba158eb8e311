// types.go
package config

import (
	"github.com/xtding233/hammer-calc/internal/catalyst"
	"github.com/xtding233/hammer-calc/internal/enhance"
	"github.com/xtding233/hammer-calc/internal/pricing"
)

// RawConfig is one YAML profile. Pointer fields distinguish "unset" from zero
// so profiles can be layered.
type RawConfig struct {
	Version    string             `yaml:"version"`
	Level      *int               `yaml:"level"`
	HiddenRate *bool              `yaml:"hidden_rate,omitempty"`
	Pricing    PricingConfig      `yaml:"pricing"`
	Catalysts  map[string]float64 `yaml:"catalysts,omitempty"` // keyed by catalyst.Action.Key
	Start      *StartConfig       `yaml:"start,omitempty"`
	Simulation *SimConfig         `yaml:"simulation,omitempty"`
	Notes      string             `yaml:"notes,omitempty"`
}

type PricingConfig struct {
	GoldPerTap       *float64 `yaml:"gold_per_tap"` // nil means the level default
	SparePartsPerTap *float64 `yaml:"spare_parts_per_tap"`
	ValuePerMillion  *float64 `yaml:"value_per_million"`
	Frame            string   `yaml:"frame"` // value | base
}

type StartConfig struct {
	Failsafe *int `yaml:"failsafe"`
	Amp      *int `yaml:"amp"`
	Pity     *int `yaml:"pity"`
}

type SimConfig struct {
	Trials        *int     `yaml:"trials"`
	Seed          *uint64  `yaml:"seed,omitempty"`
	FinalCatalyst string   `yaml:"final_catalyst,omitempty"`
	Assignment    []string `yaml:"assignment,omitempty"` // one action key per stage
}

// Params are the normalized inputs every mode runs on.
type Params struct {
	Profile string
	Version string // effective config version for tracing

	Level  int
	Model  *enhance.Model
	Rates  pricing.Rates
	Prices catalyst.Prices
	Costs  pricing.Costs
	Start  enhance.State

	Trials     int
	Seed       *uint64 // nil means unseeded
	Final      catalyst.Action   // DefaultFinalCatalyst unless configured
	Assignment []catalyst.Action // nil means use the searched best
}

const (
	DefaultValuePerMillion = 100
	DefaultTrials          = 10000
	DefaultFinalCatalyst   = catalyst.PotentCatalyst
)
