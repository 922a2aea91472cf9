package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Hunger.Rate != 0.001 {
		t.Errorf("hunger.rate = %v, want 0.001", cfg.Hunger.Rate)
	}
	if cfg.Hunger.Replenish != 0.01 {
		t.Errorf("hunger.replenish = %v, want 0.01", cfg.Hunger.Replenish)
	}
	if cfg.Hunt.EatRange != 10 || cfg.Hunt.GiveUpRange != 300 {
		t.Errorf("hunt ranges = (%v, %v), want (10, 300)", cfg.Hunt.EatRange, cfg.Hunt.GiveUpRange)
	}
	if cfg.Flocking.ForceGain != 5 {
		t.Errorf("flocking.force_gain = %v, want 5", cfg.Flocking.ForceGain)
	}
	if !cfg.Derived.UseGrid {
		t.Error("default perception index should be grid")
	}
	if cfg.Derived.TicksPerStats < 1 {
		t.Errorf("TicksPerStats = %d, want >= 1", cfg.Derived.TicksPerStats)
	}
}

func TestLoad_OverlayKeepsUnsetDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := []byte("hunt:\n  threshold: 0.5\nperception:\n  index: pairwise\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Hunt.Threshold != 0.5 {
		t.Errorf("threshold = %v, want 0.5", cfg.Hunt.Threshold)
	}
	if cfg.Hunt.EatRange != 10 {
		t.Errorf("eat_range = %v, want default 10", cfg.Hunt.EatRange)
	}
	if cfg.Derived.UseGrid {
		t.Error("pairwise override should disable the grid")
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero dt", "simulation:\n  dt: 0\n"},
		{"unknown index", "perception:\n  index: quadtree\n"},
		{"unknown picker", "hunt:\n  picker: random\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRunConfigNormalize(t *testing.T) {
	tests := []struct {
		name             string
		in               RunConfig
		wantMin, wantMax int
	}{
		{"valid range untouched", RunConfig{PodSizeMin: 2, PodSizeMax: 5}, 2, 5},
		{"min above max clamps to max", RunConfig{PodSizeMin: 8, PodSizeMax: 3}, 3, 3},
		{"zero sizes become one", RunConfig{PodSizeMin: 0, PodSizeMax: 0}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.in
			r.Normalize()
			if r.PodSizeMin != tt.wantMin || r.PodSizeMax != tt.wantMax {
				t.Errorf("got [%d, %d], want [%d, %d]", r.PodSizeMin, r.PodSizeMax, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestRunConfigNormalize_NegativeCounts(t *testing.T) {
	r := RunConfig{PodCount: -3, PreyCount: -1, PodSizeMin: 1, PodSizeMax: 1}
	r.Normalize()
	if r.PodCount != 0 || r.PreyCount != 0 {
		t.Errorf("counts = (%d, %d), want (0, 0)", r.PodCount, r.PreyCount)
	}
}

func TestRunConfigNormalize_PopulationRanges(t *testing.T) {
	r := RunConfig{PodSizeMin: 1, PodSizeMax: 1}
	r.Predator = PopulationConfig{
		SpeedScaleMin: 12, SpeedScaleMax: 10,
		MassMin: 3000, MassMax: 2000,
		WanderAngle: 720, InitialHunger: 1.5,
	}
	r.Normalize()

	p := r.Predator
	if p.SpeedScaleMin != 10 {
		t.Errorf("speed_scale_min = %v, want 10", p.SpeedScaleMin)
	}
	if p.MassMin != 2000 {
		t.Errorf("mass_min = %v, want 2000", p.MassMin)
	}
	if p.WanderAngle != 359 {
		t.Errorf("wander_angle = %v, want 359", p.WanderAngle)
	}
	if p.InitialHunger != 1 {
		t.Errorf("initial_hunger = %v, want 1", p.InitialHunger)
	}
}

func TestRunConfigNormalize_PreyHungerIgnored(t *testing.T) {
	r := RunConfig{PodSizeMin: 1, PodSizeMax: 1}
	r.Prey.InitialHunger = 0.7
	r.Predator.InitialHunger = 0.7
	r.Normalize()

	if r.Prey.InitialHunger != 0 {
		t.Errorf("prey initial_hunger = %v, want 0", r.Prey.InitialHunger)
	}
	if r.Predator.InitialHunger != 0.7 {
		t.Errorf("predator initial_hunger = %v, want 0.7", r.Predator.InitialHunger)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Run.Prey.InitialHunger != 0 {
		t.Errorf("default prey initial_hunger = %v, want unset", cfg.Run.Prey.InitialHunger)
	}
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Run.PodCount != cfg.Run.PodCount || again.Hunt.Threshold != cfg.Hunt.Threshold {
		t.Error("snapshot did not preserve run settings")
	}
}
