package main

import (
	"github.com/pthm-cable/sakamata/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Hunt
			{Name: "hunt_threshold", Path: "hunt.threshold", Min: 0.3, Max: 0.99, Default: 0.8},
			{Name: "eat_range", Path: "hunt.eat_range", Min: 2, Max: 30, Default: 10},
			{Name: "give_up_range", Path: "hunt.give_up_range", Min: 50, Max: 600, Default: 300},
			// Flocking
			{Name: "force_gain", Path: "flocking.force_gain", Min: 1, Max: 10, Default: 5},
			// Predator weights
			{Name: "pred_tracking", Path: "run.predator.tracking", Min: 0, Max: 30, Default: 10},
			{Name: "pred_coherence", Path: "run.predator.coherence", Min: 0, Max: 3, Default: 1},
			{Name: "pred_view_range", Path: "run.predator.view_range", Min: 10, Max: 80, Default: 20},
			// Prey weights
			{Name: "prey_separation", Path: "run.prey.separation", Min: 0, Max: 5, Default: 2},
			{Name: "prey_randomness", Path: "run.prey.randomness", Min: 0, Max: 5, Default: 1},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
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
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	i := 0

	cfg.Hunt.Threshold = clamped[i]; i++
	cfg.Hunt.EatRange = clamped[i]; i++
	cfg.Hunt.GiveUpRange = clamped[i]; i++

	cfg.Flocking.ForceGain = clamped[i]; i++

	cfg.Run.Predator.Tracking = clamped[i]; i++
	cfg.Run.Predator.Coherence = clamped[i]; i++
	cfg.Run.Predator.ViewRange = clamped[i]; i++

	cfg.Run.Prey.Separation = clamped[i]; i++
	cfg.Run.Prey.Randomness = clamped[i]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Hunt.Threshold,
		cfg.Hunt.EatRange,
		cfg.Hunt.GiveUpRange,
		cfg.Flocking.ForceGain,
		cfg.Run.Predator.Tracking,
		cfg.Run.Predator.Coherence,
		cfg.Run.Predator.ViewRange,
		cfg.Run.Prey.Separation,
		cfg.Run.Prey.Randomness,
	}
}
