package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/sakamata/components"
)

// minSeparationFloor keeps the separation divisor positive even when the
// configured floor is zero.
const minSeparationFloor = 1e-6

// Boid is the kinematic state the steering model reads for one actor.
type Boid struct {
	Pos r2.Vec
	Vel r2.Vec
}

// FlockingSystem accumulates steering force from neighbor sets and sets facing.
// Reads: Position, Velocity, Movement, Perception, neighbor Position/Velocity.
// Writes: RigidBody.Force, Rotation.
type FlockingSystem struct {
	filter ecs.Filter6[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.RigidBody,
		components.Movement,
		components.Perception,
	]
	posMap *ecs.Map[components.Position]
	velMap *ecs.Map[components.Velocity]

	forceGain     float64
	minSeparation float64

	scratch []Boid
}

// NewFlockingSystem creates a flocking system.
func NewFlockingSystem(w *ecs.World, forceGain, minSeparation float64) *FlockingSystem {
	return &FlockingSystem{
		filter: *ecs.NewFilter6[
			components.Position,
			components.Velocity,
			components.Rotation,
			components.RigidBody,
			components.Movement,
			components.Perception,
		](w),
		posMap:        ecs.NewMap[components.Position](w),
		velMap:        ecs.NewMap[components.Velocity](w),
		forceGain:     forceGain,
		minSeparation: minSeparation,
	}
}

// Update runs the flocking system.
func (s *FlockingSystem) Update(ctx *Context) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel, rot, body, mv, perc := query.Get()

		s.scratch = s.scratch[:0]
		for _, n := range perc.Neighbors {
			if !ctx.World.Alive(n) || !s.posMap.Has(n) {
				continue // removed since perception
			}
			s.scratch = append(s.scratch, Boid{
				Pos: s.posMap.Get(n).Vec(),
				Vel: s.velMap.Get(n).Vec(),
			})
		}

		var target *r2.Vec
		if mv.HasTarget && ctx.World.Alive(mv.Target) && s.posMap.Has(mv.Target) {
			t := s.posMap.Get(mv.Target).Vec()
			target = &t
		}

		self := Boid{Pos: pos.Vec(), Vel: vel.Vec()}
		steer := SteeringForce(self, s.scratch, mv, target, ctx.Rng, s.minSeparation)
		if steer != (r2.Vec{}) {
			steer = r2.Scale(s.forceGain*mv.SpeedScale*ctx.DT, steer)
			body.Force = r2.Add(body.Force, steer)
		}

		rot.Heading = headingOf(vel.Vec(), rot.Heading)
	}
}

// SteeringForce sums the weighted wander, alignment, cohesion, separation and
// tracking terms. An empty neighbor set yields the zero vector.
// target is nil when there is no resolvable pursuit target.
func SteeringForce(self Boid, neighbors []Boid, mv *components.Movement, target *r2.Vec, rng *rand.Rand, minSeparation float64) r2.Vec {
	if len(neighbors) == 0 {
		return r2.Vec{}
	}

	var force r2.Vec

	// Wander: deviate from the current heading
	if self.Vel != (r2.Vec{}) && mv.Randomness != 0 {
		force = r2.Add(force, r2.Scale(mv.Randomness, wander(self.Vel, mv.WanderAngle, rng)))
	}

	var sumVel, sumPos r2.Vec
	for _, n := range neighbors {
		sumVel = r2.Add(sumVel, n.Vel)
		sumPos = r2.Add(sumPos, n.Pos)
	}
	inv := 1 / float64(len(neighbors))

	// Alignment
	avgVel := r2.Scale(inv, sumVel)
	alignment := r2.Sub(avgVel, unitOrZero(self.Vel))
	force = r2.Add(force, r2.Scale(mv.Alignment, alignment))

	// Cohesion
	centroid := r2.Scale(inv, sumPos)
	force = r2.Add(force, r2.Scale(mv.Coherence, r2.Sub(centroid, self.Pos)))

	// Separation
	force = r2.Add(force, r2.Scale(mv.Separation, separation(self.Pos, neighbors, rng, minSeparation)))

	// Tracking
	if target != nil {
		force = r2.Add(force, r2.Scale(mv.Tracking, r2.Sub(*target, self.Pos)))
	}

	return force
}

// wander returns a unit vector rotated from vel by a uniform deviation
// in [-spread/2, +spread/2] degrees.
func wander(vel r2.Vec, spread float64, rng *rand.Rand) r2.Vec {
	heading := headingOf(vel, 0)
	deviation := (rng.Float64() - 0.5) * spread
	return fromAngle(heading + degToRad(deviation))
}

// separation sums (self - n) / max(d, minDist) over neighbors, so each
// neighbor beyond the floor pushes with unit strength.
// Coincident neighbors push along a random unit direction.
func separation(self r2.Vec, neighbors []Boid, rng *rand.Rand, minDist float64) r2.Vec {
	minDist = max(minDist, minSeparationFloor)

	var sum r2.Vec
	for _, n := range neighbors {
		away := r2.Sub(self, n.Pos)
		d := r2.Norm(away)
		if d == 0 {
			sum = r2.Add(sum, randomUnit(rng))
			continue
		}
		sum = r2.Add(sum, r2.Scale(1/max(d, minDist), away))
	}
	return sum
}
