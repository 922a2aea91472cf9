package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sakamata/components"
)

// Recorder receives hunt lifecycle transitions for telemetry.
type Recorder interface {
	RecordHuntTransition(to components.HuntState)
}

// Context is the per-tick simulation state shared by all phases.
// Phases only mutate their own entities' components; population changes go
// through Commands and are applied by the commit step.
type Context struct {
	World    *ecs.World
	Commands *Commands
	Pods     *Pods
	Rng      *rand.Rand
	Recorder Recorder // may be nil
	DT       float64  // seconds
	Tick     int32
}

func (c *Context) recordHunt(to components.HuntState) {
	if c.Recorder != nil {
		c.Recorder.RecordHuntTransition(to)
	}
}
