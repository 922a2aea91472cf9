package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sakamata/components"
)

// DespawnReason explains why an actor is being removed.
type DespawnReason uint8

const (
	ReasonStarvation DespawnReason = iota
	ReasonEaten
	ReasonReset
)

// String returns the reason name used in logs and CSV output.
func (r DespawnReason) String() string {
	switch r {
	case ReasonStarvation:
		return "starvation"
	case ReasonEaten:
		return "eaten"
	case ReasonReset:
		return "simulation_reset"
	}
	return "unknown"
}

// DespawnRequest asks the population manager to remove an actor.
type DespawnRequest struct {
	Entity ecs.Entity
	Reason DespawnReason
}

// SpawnRequest asks the population manager to create an actor.
// Hunger, Thinker and Orca only apply to predators.
type SpawnRequest struct {
	Kind     components.Kind
	Position components.Position
	Velocity components.Velocity
	Body     components.RigidBody
	Sight    components.Sight
	Movement components.Movement

	Hunger    float64
	Threshold float64
	Orca      components.Orca
	PodName   string
}

// Commands is a deferred command buffer. Phases append intents during a tick;
// the commit step drains and applies them between ticks.
type Commands struct {
	resetAll bool
	despawns []DespawnRequest
	pending  map[ecs.Entity]struct{}
	spawns   []SpawnRequest
}

// NewCommands creates an empty command buffer.
func NewCommands() *Commands {
	return &Commands{
		pending: make(map[ecs.Entity]struct{}),
	}
}

// Despawn queues e for removal. Returns false if e was already queued,
// so each actor is removed at most once per commit.
func (c *Commands) Despawn(e ecs.Entity, reason DespawnReason) bool {
	if _, ok := c.pending[e]; ok {
		return false
	}
	c.pending[e] = struct{}{}
	c.despawns = append(c.despawns, DespawnRequest{Entity: e, Reason: reason})
	return true
}

// PendingDespawn reports whether e is queued for removal.
func (c *Commands) PendingDespawn(e ecs.Entity) bool {
	_, ok := c.pending[e]
	return ok
}

// DespawnAll queues removal of the whole population. It is applied before
// any despawn or spawn request in the same commit.
func (c *Commands) DespawnAll() {
	c.resetAll = true
}

// Spawn queues creation of an actor.
func (c *Commands) Spawn(req SpawnRequest) {
	c.spawns = append(c.spawns, req)
}

// Empty reports whether nothing is queued.
func (c *Commands) Empty() bool {
	return !c.resetAll && len(c.despawns) == 0 && len(c.spawns) == 0
}

// Drain returns all queued intents and resets the buffer.
func (c *Commands) Drain() (resetAll bool, despawns []DespawnRequest, spawns []SpawnRequest) {
	resetAll, despawns, spawns = c.resetAll, c.despawns, c.spawns
	c.resetAll = false
	c.despawns = nil
	c.spawns = nil
	clear(c.pending)
	return resetAll, despawns, spawns
}
