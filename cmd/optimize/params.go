package main

import (
	"github.com/pthm-cable/klod/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name string  // Human-readable name
	Path string  // Config path for logging
	Min  float64 // Lower bound
	Max  float64 // Upper bound
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of balance parameters. Everything
// here changes how quickly the klod can grow; level content stays fixed.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Input
			{Name: "base_impulse", Path: "input.base_impulse", Min: 0.3, Max: 3.0},
			{Name: "impulse_per_mass", Path: "input.impulse_per_mass", Min: 0.0, Max: 0.5},
			// Physics
			{Name: "linear_damping", Path: "physics.linear_damping", Min: 0.05, Max: 1.0},
			// Klod
			{Name: "max_speed", Path: "klod.max_speed", Min: 10, Max: 50},
			{Name: "pull_in", Path: "klod.pull_in", Min: 0.5, Max: 1.0},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = max(spec.Min, min(spec.Max, v[i]))
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg. Order must match
// Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)
	cfg.Input.BaseImpulse = c[0]
	cfg.Input.ImpulsePerMass = c[1]
	cfg.Physics.LinearDamping = c[2]
	cfg.Klod.MaxSpeed = c[3]
	cfg.Klod.PullIn = c[4]
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Input.BaseImpulse,
		cfg.Input.ImpulsePerMass,
		cfg.Physics.LinearDamping,
		cfg.Klod.MaxSpeed,
		cfg.Klod.PullIn,
	}
}
