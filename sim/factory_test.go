package sim

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/sakamata/components"
	"github.com/pthm-cable/sakamata/config"
)

func TestBuildRun_Counts(t *testing.T) {
	cfg := testConfig(t)
	run := cfg.Run
	run.PodCount = 5
	run.PodSizeMin = 2
	run.PodSizeMax = 4
	run.PreyCount = 17

	reqs := BuildRun(run, 0.8, cfg.Names, rand.New(rand.NewSource(1)))

	podSizes := map[components.PodID]int{}
	prey := 0
	for _, req := range reqs {
		switch req.Kind {
		case components.KindPredator:
			podSizes[req.Orca.Pod]++
			if req.Threshold != 0.8 {
				t.Errorf("threshold = %v, want 0.8", req.Threshold)
			}
			if req.Hunger != run.Predator.InitialHunger {
				t.Errorf("hunger = %v, want %v", req.Hunger, run.Predator.InitialHunger)
			}
		case components.KindPrey:
			prey++
		}
	}

	if prey != 17 {
		t.Errorf("prey = %d, want 17", prey)
	}
	if len(podSizes) != 5 {
		t.Fatalf("pods = %d, want 5", len(podSizes))
	}
	for pod, n := range podSizes {
		if n < 2 || n > 4 {
			t.Errorf("pod %d size = %d, want within [2, 4]", pod, n)
		}
	}
}

func TestBuildRun_EnableFlags(t *testing.T) {
	cfg := testConfig(t)
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name           string
		pred, prey     bool
		wantPred, want int
	}{
		{"both", true, true, 6, 26},
		{"predators only", true, false, 6, 6},
		{"prey only", false, true, 0, 20},
		{"neither", false, false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := cfg.Run
			run.EnablePredators = tt.pred
			run.EnablePrey = tt.prey

			reqs := BuildRun(run, 0.8, cfg.Names, rng)
			pred := 0
			for _, req := range reqs {
				if req.Kind == components.KindPredator {
					pred++
				}
			}
			if pred != tt.wantPred || len(reqs) != tt.want {
				t.Errorf("got %d predators of %d, want %d of %d", pred, len(reqs), tt.wantPred, tt.want)
			}
		})
	}
}

func TestBuildRun_PodMembersNearCentre(t *testing.T) {
	run := config.RunConfig{
		EnablePredators: true,
		PodCount:        1,
		PodSizeMin:      6,
		PodSizeMax:      6,
		PodSpread:       100,
	}
	run.Predator.SpawnOffset = 10
	run.Predator.InitialSpeed = 10

	reqs := BuildRun(run, 0.8, nil, rand.New(rand.NewSource(7)))
	if len(reqs) != 6 {
		t.Fatalf("len = %d, want 6", len(reqs))
	}

	first := reqs[0].Position
	for _, req := range reqs[1:] {
		dx, dy := req.Position.X-first.X, req.Position.Y-first.Y
		if dx < -20 || dx > 20 || dy < -20 || dy > 20 {
			t.Errorf("member at (%v, %v) too far from (%v, %v)", req.Position.X, req.Position.Y, first.X, first.Y)
		}
		if req.Orca.Name != "orca" {
			t.Errorf("name = %q, want fallback orca", req.Orca.Name)
		}
		if req.PodName != "pod-0" {
			t.Errorf("pod name = %q, want pod-0", req.PodName)
		}
	}
}
