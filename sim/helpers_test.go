package sim

import (
	"testing"

	"github.com/pthm-cable/sakamata/config"
)

// testConfig loads the embedded defaults with a small deterministic run.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	cfg.Run.PodCount = 2
	cfg.Run.PodSizeMin = 3
	cfg.Run.PodSizeMax = 3
	cfg.Run.PreyCount = 20
	return cfg
}

func newTestSim(t *testing.T, cfg *config.Config, seed int64) *Simulation {
	t.Helper()
	s, err := New(Options{Config: cfg, Seed: seed})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
