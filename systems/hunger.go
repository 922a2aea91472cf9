package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sakamata/components"
)

// starvationEpsilon absorbs float drift so 0.999 + 0.001 counts as a breach.
const starvationEpsilon = 1e-9

// HungerSystem depletes hunger and queues starvation despawns.
// Reads/writes: Hunger.
type HungerSystem struct {
	filter ecs.Filter1[components.Hunger]
	rate   float64
}

// NewHungerSystem creates a hunger system gaining rate hunger per second.
func NewHungerSystem(w *ecs.World, rate float64) *HungerSystem {
	return &HungerSystem{
		filter: *ecs.NewFilter1[components.Hunger](w),
		rate:   rate,
	}
}

// Update runs the hunger system.
func (s *HungerSystem) Update(ctx *Context) {
	query := s.filter.Query()
	for query.Next() {
		h := query.Get()
		if Deplete(h, s.rate, ctx.DT) {
			ctx.Commands.Despawn(query.Entity(), ReasonStarvation)
		}
	}
}

// Deplete raises hunger by rate*dt and clamps it to [0, 1].
// Returns true when the unclamped value reached 1 (starvation).
func Deplete(h *components.Hunger, rate, dt float64) bool {
	next := h.Value + rate*dt
	h.Value = clamp01(next)
	return next >= 1-starvationEpsilon
}

// Eat lowers hunger by amount, clamped to [0, 1].
func Eat(h *components.Hunger, amount float64) {
	h.Value = clamp01(h.Value - amount)
}
