package components

import "gonum.org/v1/gonum/spatial/r2"

// RigidBody holds the integrator inputs for an actor.
// Force accumulates over a tick and is consumed by the integrator.
type RigidBody struct {
	Mass        float64
	MaxVelocity float64 // 0 = uncapped
	Force       r2.Vec
}

// Sight defines what an actor can perceive.
// ViewAngle is carried for future field-of-view culling; only ViewRange is used.
type Sight struct {
	ViewAngle float64 // degrees
	ViewRange float64
}
