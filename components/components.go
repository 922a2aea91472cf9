// Package components defines ECS components for the simulation.
package components

// Kind distinguishes the two actor populations.
type Kind uint8

const (
	KindPredator Kind = iota
	KindPrey
)

// Identity holds an actor's sequential ID and population kind.
// The ID is for logs and telemetry; cross-actor references use ecs.Entity.
type Identity struct {
	ID   uint32
	Kind Kind
}

// Fish tag component for efficient prey queries.
type Fish struct{}
