package sim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/sakamata/components"
	"github.com/pthm-cable/sakamata/config"
	"github.com/pthm-cable/sakamata/systems"
)

// defaultOrcaAge is the age every spawned orca starts with.
const defaultOrcaAge = 20

// BuildRun creates the spawn requests for one run: PodCount pods of predators
// and PreyCount prey, each gated by its enable flag. run must be normalized.
func BuildRun(run config.RunConfig, threshold float64, names []string, rng *rand.Rand) []systems.SpawnRequest {
	var reqs []systems.SpawnRequest

	if run.EnablePredators {
		for pod := 0; pod < run.PodCount; pod++ {
			reqs = appendPod(reqs, run, components.PodID(pod), threshold, names, rng)
		}
	}

	if run.EnablePrey {
		for i := 0; i < run.PreyCount; i++ {
			pos := components.Position{
				X: uniform(rng, run.PreySpread),
				Y: uniform(rng, run.PreySpread),
			}
			reqs = append(reqs, newRequest(components.KindPrey, run.Prey, pos, rng))
		}
	}

	return reqs
}

// appendPod adds one pod's members around a random centre.
func appendPod(reqs []systems.SpawnRequest, run config.RunConfig, pod components.PodID, threshold float64, names []string, rng *rand.Rand) []systems.SpawnRequest {
	size := run.PodSizeMin
	if run.PodSizeMax > run.PodSizeMin {
		size += rng.Intn(run.PodSizeMax - run.PodSizeMin + 1)
	}

	centreX := uniform(rng, run.PodSpread)
	centreY := uniform(rng, run.PodSpread)
	podName := fmt.Sprintf("pod-%d", pod)

	for i := 0; i < size; i++ {
		pos := components.Position{
			X: centreX + uniform(rng, run.Predator.SpawnOffset),
			Y: centreY + uniform(rng, run.Predator.SpawnOffset),
		}
		req := newRequest(components.KindPredator, run.Predator, pos, rng)
		req.Hunger = run.Predator.InitialHunger
		req.Threshold = threshold
		req.PodName = podName
		name := "orca"
		if len(names) > 0 {
			name = names[rng.Intn(len(names))]
		}
		req.Orca = components.Orca{
			Gender:  components.Gender(rng.Intn(2)),
			Age:     defaultOrcaAge,
			Name:    name,
			Ecotype: components.Ecotype(rng.Intn(2)),
			Pod:     pod,
		}
		reqs = append(reqs, req)
	}
	return reqs
}

// newRequest fills the fields shared by both populations.
func newRequest(kind components.Kind, pop config.PopulationConfig, pos components.Position, rng *rand.Rand) systems.SpawnRequest {
	heading := rng.Float64() * 2 * math.Pi
	return systems.SpawnRequest{
		Kind:     kind,
		Position: pos,
		Velocity: components.Velocity{
			X: math.Cos(heading) * pop.InitialSpeed,
			Y: math.Sin(heading) * pop.InitialSpeed,
		},
		Body: components.RigidBody{
			Mass:        between(rng, pop.MassMin, pop.MassMax),
			MaxVelocity: pop.MaxVelocity,
		},
		Sight: components.Sight{
			ViewAngle: pop.ViewAngle,
			ViewRange: pop.ViewRange,
		},
		Movement: components.Movement{
			Coherence:   pop.Coherence,
			Alignment:   pop.Alignment,
			Separation:  pop.Separation,
			Randomness:  pop.Randomness,
			Tracking:    pop.Tracking,
			WanderAngle: pop.WanderAngle,
			SpeedScale:  between(rng, pop.SpeedScaleMin, pop.SpeedScaleMax),
		},
	}
}

// uniform returns a value in [-spread, spread).
func uniform(rng *rand.Rand, spread float64) float64 {
	return (rng.Float64()*2 - 1) * spread
}

// between returns a value in [lo, hi).
func between(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
