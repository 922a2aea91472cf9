package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sakamata/components"
	"github.com/pthm-cable/sakamata/systems"
	"github.com/pthm-cable/sakamata/telemetry"
)

// ApplyResult summarizes one commit.
type ApplyResult struct {
	Reset   bool
	Removed int
	Spawned int
}

// Population is the lifecycle manager. It is the only code that creates or
// removes actors, and it does so only when the command buffer is committed.
type Population struct {
	world *ecs.World
	arch  *systems.Archetypes
	pods  *systems.Pods

	collector *telemetry.Collector // may be nil
	events    *telemetry.EventLog  // may be nil

	allFilter *ecs.Filter1[components.Identity]
	identMap  *ecs.Map[components.Identity]
	orcaMap   *ecs.Map[components.Orca]

	scratch []ecs.Entity
}

// NewPopulation creates a lifecycle manager for w.
func NewPopulation(w *ecs.World, pods *systems.Pods, collector *telemetry.Collector, events *telemetry.EventLog) *Population {
	return &Population{
		world:     w,
		arch:      systems.NewArchetypes(w),
		pods:      pods,
		collector: collector,
		events:    events,
		allFilter: ecs.NewFilter1[components.Identity](w),
		identMap:  ecs.NewMap[components.Identity](w),
		orcaMap:   ecs.NewMap[components.Orca](w),
	}
}

// Apply drains cmds and commits them: a queued reset first, then despawns,
// then spawns. Despawns naming actors that no longer exist are skipped.
func (p *Population) Apply(cmds *systems.Commands, tick int32) ApplyResult {
	resetAll, despawns, spawns := cmds.Drain()
	var res ApplyResult

	if resetAll {
		res.Reset = true
		res.Removed += p.removeAll(tick)
	}

	for _, d := range despawns {
		if !p.world.Alive(d.Entity) {
			continue
		}
		p.record(tick, d.Entity, d.Reason)
		p.world.RemoveEntity(d.Entity)
		res.Removed++
	}

	for _, req := range spawns {
		e := p.arch.Create(req)
		if req.Kind == components.KindPredator {
			p.pods.Join(req.Orca.Pod, req.PodName, e)
		}
		if p.collector != nil {
			p.collector.RecordSpawn(req.Kind)
		}
		if p.events != nil {
			p.events.Add(telemetry.NewSpawnEvent(tick, *p.identMap.Get(e), req.Orca.Name, podOf(req)))
		}
		res.Spawned++
	}

	return res
}

// removeAll removes every actor and forgets all pods.
func (p *Population) removeAll(tick int32) int {
	// Collect first: no structural changes while a query is open
	p.scratch = p.scratch[:0]
	query := p.allFilter.Query()
	for query.Next() {
		p.scratch = append(p.scratch, query.Entity())
	}

	for _, e := range p.scratch {
		p.record(tick, e, systems.ReasonReset)
		p.world.RemoveEntity(e)
	}
	if p.collector != nil {
		p.collector.RecordReset(len(p.scratch))
	}

	p.pods.Clear()
	p.arch.ResetIDs()
	return len(p.scratch)
}

// record reports a removal to telemetry before the actor is gone.
func (p *Population) record(tick int32, e ecs.Entity, reason systems.DespawnReason) {
	if p.collector != nil {
		switch reason {
		case systems.ReasonStarvation:
			p.collector.RecordStarvation()
		case systems.ReasonEaten:
			p.collector.RecordEaten()
		}
	}
	if p.events == nil {
		return
	}

	id := *p.identMap.Get(e)
	name, pod := "", components.NoPod
	if p.orcaMap.Has(e) {
		orca := p.orcaMap.Get(e)
		name, pod = orca.Name, orca.Pod
	}
	p.events.Add(telemetry.NewDespawnEvent(tick, id, name, pod, reason.String()))
}

func podOf(req systems.SpawnRequest) components.PodID {
	if req.Kind != components.KindPredator {
		return components.NoPod
	}
	return req.Orca.Pod
}
