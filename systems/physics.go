package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/sakamata/components"
)

// PhysicsSystem integrates accumulated force into velocity and position.
// Reads: RigidBody. Writes: Position, Velocity, RigidBody.Force.
type PhysicsSystem struct {
	filter ecs.Filter3[components.Position, components.Velocity, components.RigidBody]
}

// NewPhysicsSystem creates a new physics system.
func NewPhysicsSystem(w *ecs.World) *PhysicsSystem {
	return &PhysicsSystem{
		filter: *ecs.NewFilter3[components.Position, components.Velocity, components.RigidBody](w),
	}
}

// Update runs the physics system.
func (s *PhysicsSystem) Update(ctx *Context) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel, body := query.Get()
		Integrate(pos, vel, body, ctx.DT)
	}
}

// Integrate applies v += F/m, caps speed at MaxVelocity (0 = uncapped),
// moves p += v*dt and clears the force.
func Integrate(pos *components.Position, vel *components.Velocity, body *components.RigidBody, dt float64) {
	v := vel.Vec()
	if body.Mass > 0 {
		v = r2.Add(v, r2.Scale(1/body.Mass, body.Force))
	}

	if body.MaxVelocity > 0 {
		speed := r2.Norm(v)
		if speed > body.MaxVelocity {
			v = r2.Scale(body.MaxVelocity/speed, v)
		}
	}

	if !isFinite(v) {
		v = r2.Vec{}
	}

	vel.X, vel.Y = v.X, v.Y
	pos.X += v.X * dt
	pos.Y += v.Y * dt
	body.Force = r2.Vec{}
}

// headingOf returns the facing angle for a velocity, or fallback when still.
func headingOf(v r2.Vec, fallback float64) float64 {
	if v.X == 0 && v.Y == 0 {
		return fallback
	}
	return math.Atan2(v.Y, v.X)
}
