package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/sakamata/config"
	"github.com/pthm-cable/sakamata/telemetry"
)

func TestParamVector_NormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, back[i], raw[i])
		}
	}
}

func TestParamVector_DefaultsMatchConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()
	got := pv.ExtractFromConfig(cfg)
	if len(got) != pv.Dim() {
		t.Fatalf("extracted %d values, want %d", len(got), pv.Dim())
	}
	for i, spec := range pv.Specs {
		if got[i] != spec.Default {
			t.Errorf("%s: config %v, default %v", spec.Path, got[i], spec.Default)
		}
	}
}

func TestParamVector_ApplyClamps(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()
	values := pv.DefaultVector()
	values[0] = 5 // hunt_threshold above max

	pv.ApplyToConfig(cfg, values)
	if cfg.Hunt.Threshold != pv.Specs[0].Max {
		t.Errorf("threshold = %v, want clamped %v", cfg.Hunt.Threshold, pv.Specs[0].Max)
	}

	round := pv.ExtractFromConfig(cfg)
	for i := 1; i < len(values); i++ {
		if round[i] != values[i] {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, round[i], values[i])
		}
	}
}

func TestComputeQuality(t *testing.T) {
	if q := computeQuality(nil); q != 0 {
		t.Errorf("empty quality = %v, want 0", q)
	}

	windows := []telemetry.WindowStats{
		{PredCount: 10},
		{PredCount: 10, HungerP50: 0.8, HuntsSucceeded: 4, SuccessRate: 1},
		{PredCount: 10, HungerP50: 0.8, HuntsSucceeded: 4, SuccessRate: 1},
	}
	if q := computeQuality(windows); math.Abs(q-1) > 1e-9 {
		t.Errorf("ideal quality = %v, want 1", q)
	}

	windows[1].SuccessRate = 0
	windows[2].SuccessRate = 0
	if q := computeQuality(windows); q >= 1 || q <= 0 {
		t.Errorf("quality without catches = %v, want in (0, 1)", q)
	}
}

func TestComputeFitness_LongerSurvivalIsBetter(t *testing.T) {
	short := computeFitness(&runResult{survivalTicks: 100})
	long := computeFitness(&runResult{survivalTicks: 1000})
	if long >= short {
		t.Errorf("fitness long = %v, short = %v; longer survival should be lower", long, short)
	}
}
