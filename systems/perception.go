package systems

import (
	"cmp"
	"runtime"
	"slices"
	"sync"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/sakamata/components"
)

// parallelThreshold is the minimum actor count to compute perception in parallel.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 256

// perceiver captures the read-only state of one actor for the compute phase.
type perceiver struct {
	entity ecs.Entity
	kind   components.Kind
	pos    r2.Vec
	rng    float64
	pod    components.PodID

	neighbors []ecs.Entity
	prey      []ecs.Entity
}

// PerceptionSystem rebuilds every actor's neighbor and visible prey sets.
// Reads: Identity, Position, Sight, Orca, Fish, pod registry.
// Writes: Perception.
type PerceptionSystem struct {
	actors *ecs.Filter4[components.Identity, components.Position, components.Sight, components.Perception]
	prey   *ecs.Filter2[components.Position, components.Fish]
	orcas  *ecs.Map[components.Orca]
	percs  *ecs.Map1[components.Perception]

	index   NeighborIndex
	workers int

	snaps  []perceiver
	lookup map[ecs.Entity]int
}

// NewPerceptionSystem creates a perception system over the given prey index.
func NewPerceptionSystem(w *ecs.World, index NeighborIndex) *PerceptionSystem {
	return &PerceptionSystem{
		actors:  ecs.NewFilter4[components.Identity, components.Position, components.Sight, components.Perception](w),
		prey:    ecs.NewFilter2[components.Position, components.Fish](w),
		orcas:   ecs.NewMap[components.Orca](w),
		percs:   ecs.NewMap1[components.Perception](w),
		index:   index,
		workers: runtime.GOMAXPROCS(0),
		lookup:  make(map[ecs.Entity]int),
	}
}

// Update replaces every Perception component. Nothing else is touched.
func (s *PerceptionSystem) Update(ctx *Context) {
	// Phase A: snapshot actors and index prey (single-threaded)
	s.index.Clear()
	preyQuery := s.prey.Query()
	for preyQuery.Next() {
		pos, _ := preyQuery.Get()
		s.index.Insert(preyQuery.Entity(), pos.Vec())
	}

	s.snaps = s.snaps[:0]
	clear(s.lookup)
	query := s.actors.Query()
	for query.Next() {
		e := query.Entity()
		id, pos, sight, _ := query.Get()
		snap := perceiver{
			entity: e,
			kind:   id.Kind,
			pos:    pos.Vec(),
			rng:    sight.ViewRange,
			pod:    components.NoPod,
		}
		if id.Kind == components.KindPredator && s.orcas.Has(e) {
			snap.pod = s.orcas.Get(e).Pod
		}
		s.lookup[e] = len(s.snaps)
		s.snaps = append(s.snaps, snap)
	}

	// Phase B: compute sets (read-only, parallel for large populations)
	n := len(s.snaps)
	if n >= parallelThreshold && s.workers > 1 {
		chunk := (n + s.workers - 1) / s.workers
		var wg sync.WaitGroup
		for start := 0; start < n; start += chunk {
			end := min(start+chunk, n)
			wg.Add(1)
			go func(start, end int) {
				defer wg.Done()
				s.computeRange(ctx.Pods, start, end)
			}(start, end)
		}
		wg.Wait()
	} else {
		s.computeRange(ctx.Pods, 0, n)
	}

	// Phase C: write results back
	for i := range s.snaps {
		snap := &s.snaps[i]
		perc := s.percs.Get(snap.entity)
		perc.Neighbors = append(perc.Neighbors[:0], snap.neighbors...)
		perc.VisiblePrey = append(perc.VisiblePrey[:0], snap.prey...)
	}
}

// computeRange fills the sets for snapshots [start, end).
func (s *PerceptionSystem) computeRange(pods *Pods, start, end int) {
	for i := start; i < end; i++ {
		snap := &s.snaps[i]
		snap.neighbors = snap.neighbors[:0]
		snap.prey = snap.prey[:0]

		switch snap.kind {
		case components.KindPrey:
			// Prey school as one group
			snap.neighbors = s.index.QueryRadiusInto(snap.neighbors, snap.pos, snap.rng, snap.entity)
		case components.KindPredator:
			snap.neighbors = s.podNeighbors(pods, snap, snap.neighbors)
			snap.prey = s.index.QueryRadiusInto(snap.prey, snap.pos, snap.rng, ecs.Entity{})
		}

		sortByID(snap.neighbors)
		sortByID(snap.prey)
	}
}

// podNeighbors appends pod members within view range. Removed members are skipped.
func (s *PerceptionSystem) podNeighbors(pods *Pods, snap *perceiver, dst []ecs.Entity) []ecs.Entity {
	if snap.pod == components.NoPod || pods == nil {
		return dst
	}
	pod := pods.Get(snap.pod)
	if pod == nil {
		return dst
	}
	radiusSq := snap.rng * snap.rng
	for _, m := range pod.Members {
		if m == snap.entity {
			continue
		}
		j, ok := s.lookup[m]
		if !ok {
			continue // stale member
		}
		if r2.Norm2(r2.Sub(s.snaps[j].pos, snap.pos)) < radiusSq {
			dst = append(dst, m)
		}
	}
	return dst
}

// sortByID orders a set by entity ID so "first" is deterministic.
func sortByID(es []ecs.Entity) {
	slices.SortFunc(es, func(a, b ecs.Entity) int {
		return cmp.Compare(a.ID(), b.ID())
	})
}
