package systems

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sakamata/components"
)

// testEnv bundles a world with the shared per-tick state.
type testEnv struct {
	world *ecs.World
	ctx   *Context
	arch  *Archetypes
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	w := ecs.NewWorld()
	return &testEnv{
		world: w,
		ctx: &Context{
			World:    w,
			Commands: NewCommands(),
			Pods:     NewPods(),
			Rng:      rand.New(rand.NewSource(1)),
			DT:       1.0 / 60,
		},
		arch: NewArchetypes(w),
	}
}

func (env *testEnv) spawnPrey(x, y float64) ecs.Entity {
	return env.arch.Create(SpawnRequest{
		Kind:     components.KindPrey,
		Position: components.Position{X: x, Y: y},
		Body:     components.RigidBody{Mass: 5},
		Sight:    components.Sight{ViewRange: 50},
		Movement: components.Movement{Coherence: 1, Alignment: 1, Separation: 1, SpeedScale: 1},
	})
}

func (env *testEnv) spawnPredator(x, y float64, pod components.PodID, hunger float64) ecs.Entity {
	e := env.arch.Create(SpawnRequest{
		Kind:      components.KindPredator,
		Position:  components.Position{X: x, Y: y},
		Body:      components.RigidBody{Mass: 2000},
		Sight:     components.Sight{ViewRange: 50},
		Movement:  components.Movement{Coherence: 1, Alignment: 1, Separation: 1, Tracking: 10, SpeedScale: 10},
		Hunger:    hunger,
		Threshold: 0.8,
		Orca:      components.Orca{Name: "test", Pod: pod},
	})
	env.ctx.Pods.Join(pod, "test-pod", e)
	return e
}

func containsEntity(es []ecs.Entity, e ecs.Entity) bool {
	for _, x := range es {
		if x == e {
			return true
		}
	}
	return false
}
