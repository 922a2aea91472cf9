package components

import "gonum.org/v1/gonum/spatial/r2"

// Position represents an actor's world position.
type Position struct {
	X, Y float64
}

// Vec returns the position as a gonum vector.
func (p Position) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// Velocity represents an actor's velocity. Owned by the integrator.
type Velocity struct {
	X, Y float64
}

// Vec returns the velocity as a gonum vector.
func (v Velocity) Vec() r2.Vec {
	return r2.Vec{X: v.X, Y: v.Y}
}

// IsZero reports whether the actor is stationary.
func (v Velocity) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Rotation holds the cosmetic facing derived from velocity.
type Rotation struct {
	Heading float64 // radians
}
