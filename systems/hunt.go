package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/sakamata/components"
)

// Score is one scorer's desirability for an action, in [0, 1].
type Score struct {
	Action components.Action
	Value  float64
}

// Scorer maps an actor's hunger to a desirability score.
type Scorer func(hunger float64) float64

// ScorerHungry scores hunting by hunger itself.
func ScorerHungry(hunger float64) float64 {
	return clamp01(hunger)
}

// scorers is evaluated in order; pickers that care about order rely on it.
var scorers = []struct {
	action components.Action
	score  Scorer
}{
	{components.ActionHunt, ScorerHungry},
}

// Picker selects an action from scores. ok is false when nothing qualifies.
type Picker func(scores []Score, threshold float64) (action components.Action, ok bool)

// PickHighest selects the highest score at or above threshold.
// Ties keep the earliest entry.
func PickHighest(scores []Score, threshold float64) (components.Action, bool) {
	best := -1
	for i, s := range scores {
		if s.Value < threshold {
			continue
		}
		if best < 0 || s.Value > scores[best].Value {
			best = i
		}
	}
	if best < 0 {
		return components.ActionIdle, false
	}
	return scores[best].Action, true
}

// PickFirstToScore selects the first score at or above threshold.
func PickFirstToScore(scores []Score, threshold float64) (components.Action, bool) {
	for _, s := range scores {
		if s.Value >= threshold {
			return s.Action, true
		}
	}
	return components.ActionIdle, false
}

// HuntParams holds the pursuit distances and the feeding amount.
type HuntParams struct {
	EatRange    float64
	GiveUpRange float64
	Replenish   float64
}

// HuntSystem scores hunger, picks an action and drives the pursuit state machine.
// Reads: Position, Perception, prey Position. Writes: Thinker, Movement target, Hunger.
type HuntSystem struct {
	filter ecs.Filter5[
		components.Position,
		components.Movement,
		components.Thinker,
		components.Hunger,
		components.Perception,
	]
	posMap  *ecs.Map[components.Position]
	fishMap *ecs.Map[components.Fish]

	params HuntParams
	pick   Picker
	scores []Score
}

// NewHuntSystem creates a hunt system. A nil picker defaults to PickHighest.
func NewHuntSystem(w *ecs.World, params HuntParams, pick Picker) *HuntSystem {
	if pick == nil {
		pick = PickHighest
	}
	return &HuntSystem{
		filter: *ecs.NewFilter5[
			components.Position,
			components.Movement,
			components.Thinker,
			components.Hunger,
			components.Perception,
		](w),
		posMap:  ecs.NewMap[components.Position](w),
		fishMap: ecs.NewMap[components.Fish](w),
		params:  params,
		pick:    pick,
	}
}

// Update runs the hunt system.
func (s *HuntSystem) Update(ctx *Context) {
	query := s.filter.Query()
	for query.Next() {
		e := query.Entity()
		if ctx.Commands.PendingDespawn(e) {
			continue // starving this tick
		}
		pos, mv, th, hunger, perc := query.Get()

		s.scores = s.scores[:0]
		for _, sc := range scorers {
			s.scores = append(s.scores, Score{Action: sc.action, Value: sc.score(hunger.Value)})
		}
		action, ok := s.pick(s.scores, th.Threshold)
		if !ok {
			action = components.ActionIdle
		}
		th.Action = action

		if action != components.ActionHunt {
			s.standDown(ctx, mv, th)
			continue
		}
		s.hunt(ctx, pos.Vec(), mv, th, hunger, perc)
	}
}

// standDown leaves the hunt when it is no longer picked.
func (s *HuntSystem) standDown(ctx *Context, mv *components.Movement, th *components.Thinker) {
	switch th.Hunt {
	case components.HuntExecuting:
		s.transition(ctx, th, components.HuntCancelled)
	case components.HuntIdle:
		return
	default:
		th.Hunt = components.HuntIdle
	}
	mv.ClearTarget()
	th.Prey = ecs.Entity{}
}

// hunt advances the pursuit by one tick.
func (s *HuntSystem) hunt(ctx *Context, self r2.Vec, mv *components.Movement, th *components.Thinker, hunger *components.Hunger, perc *components.Perception) {
	if th.Hunt != components.HuntRequested && th.Hunt != components.HuntExecuting {
		s.transition(ctx, th, components.HuntRequested)
	}

	if th.Hunt == components.HuntRequested {
		for _, p := range perc.VisiblePrey {
			if _, ok := s.resolve(ctx, p); ok {
				th.Prey = p
				mv.SetTarget(p)
				s.transition(ctx, th, components.HuntExecuting)
				break
			}
		}
		if th.Hunt == components.HuntRequested {
			return // nothing in sight
		}
	}

	target, ok := s.resolve(ctx, th.Prey)
	if !ok {
		s.finish(ctx, mv, th, components.HuntCancelled)
		return
	}

	dist := r2.Norm(r2.Sub(target, self))
	switch {
	case dist < s.params.EatRange:
		ctx.Commands.Despawn(th.Prey, ReasonEaten)
		Eat(hunger, s.params.Replenish)
		s.finish(ctx, mv, th, components.HuntSuccess)
	case dist > s.params.GiveUpRange:
		s.finish(ctx, mv, th, components.HuntCancelled)
	}
}

// resolve returns the position of a live prey not already queued for removal.
func (s *HuntSystem) resolve(ctx *Context, e ecs.Entity) (r2.Vec, bool) {
	if e == (ecs.Entity{}) || !ctx.World.Alive(e) || ctx.Commands.PendingDespawn(e) {
		return r2.Vec{}, false
	}
	if !s.fishMap.Has(e) || !s.posMap.Has(e) {
		return r2.Vec{}, false
	}
	return s.posMap.Get(e).Vec(), true
}

func (s *HuntSystem) finish(ctx *Context, mv *components.Movement, th *components.Thinker, to components.HuntState) {
	mv.ClearTarget()
	th.Prey = ecs.Entity{}
	s.transition(ctx, th, to)
}

func (s *HuntSystem) transition(ctx *Context, th *components.Thinker, to components.HuntState) {
	th.Hunt = to
	ctx.recordHunt(to)
}
