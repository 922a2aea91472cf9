package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sakamata/components"
)

// Archetypes creates actors with the full component set for their kind.
type Archetypes struct {
	preyMapper *ecs.Map9[
		components.Identity,
		components.Position,
		components.Velocity,
		components.Rotation,
		components.RigidBody,
		components.Sight,
		components.Movement,
		components.Perception,
		components.Fish,
	]
	predatorMapper *ecs.Map11[
		components.Identity,
		components.Position,
		components.Velocity,
		components.Rotation,
		components.RigidBody,
		components.Sight,
		components.Movement,
		components.Perception,
		components.Hunger,
		components.Thinker,
		components.Orca,
	]

	nextID uint32
}

// NewArchetypes creates the actor factory for w.
func NewArchetypes(w *ecs.World) *Archetypes {
	return &Archetypes{
		preyMapper: ecs.NewMap9[
			components.Identity,
			components.Position,
			components.Velocity,
			components.Rotation,
			components.RigidBody,
			components.Sight,
			components.Movement,
			components.Perception,
			components.Fish,
		](w),
		predatorMapper: ecs.NewMap11[
			components.Identity,
			components.Position,
			components.Velocity,
			components.Rotation,
			components.RigidBody,
			components.Sight,
			components.Movement,
			components.Perception,
			components.Hunger,
			components.Thinker,
			components.Orca,
		](w),
	}
}

// Create builds the actor described by req and returns its entity.
func (a *Archetypes) Create(req SpawnRequest) ecs.Entity {
	id := components.Identity{ID: a.nextID, Kind: req.Kind}
	a.nextID++

	pos := req.Position
	vel := req.Velocity
	rot := components.Rotation{Heading: headingOf(vel.Vec(), 0)}
	body := req.Body
	sight := req.Sight
	mv := req.Movement
	mv.ClearTarget()
	perc := components.Perception{}

	if req.Kind == components.KindPrey {
		return a.preyMapper.NewEntity(&id, &pos, &vel, &rot, &body, &sight, &mv, &perc, &components.Fish{})
	}

	hunger := components.Hunger{Value: clamp01(req.Hunger)}
	th := components.Thinker{Threshold: req.Threshold}
	orca := req.Orca
	return a.predatorMapper.NewEntity(&id, &pos, &vel, &rot, &body, &sight, &mv, &perc, &hunger, &th, &orca)
}

// ResetIDs restarts identity numbering. Used on simulation reset.
func (a *Archetypes) ResetIDs() {
	a.nextID = 0
}
