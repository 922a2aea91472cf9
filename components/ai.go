package components

import "github.com/mlange-42/ark/ecs"

// Movement holds flocking weights and the optional pursuit target.
type Movement struct {
	Coherence   float64
	Alignment   float64
	Separation  float64
	Randomness  float64
	Tracking    float64
	WanderAngle float64 // degrees, 0..359
	SpeedScale  float64

	Target    ecs.Entity
	HasTarget bool
}

// SetTarget points the tracking force at e.
func (m *Movement) SetTarget(e ecs.Entity) {
	m.Target = e
	m.HasTarget = true
}

// ClearTarget removes the pursuit target.
func (m *Movement) ClearTarget() {
	m.Target = ecs.Entity{}
	m.HasTarget = false
}

// Perception holds the per-tick neighbor sets. Rebuilt from scratch every tick.
type Perception struct {
	Neighbors   []ecs.Entity // same group, within view range
	VisiblePrey []ecs.Entity // predators only
}

// Action is a behavior the utility AI can select.
type Action uint8

const (
	ActionIdle Action = iota
	ActionHunt
)

// HuntState is the lifecycle of a single pursuit.
type HuntState uint8

const (
	HuntIdle HuntState = iota
	HuntRequested
	HuntExecuting
	HuntSuccess
	HuntCancelled
)

// Thinker is the per-predator utility AI state.
type Thinker struct {
	Threshold float64 // picker activation threshold
	Action    Action
	Hunt      HuntState
	Prey      ecs.Entity // valid while Hunt == HuntExecuting
}
