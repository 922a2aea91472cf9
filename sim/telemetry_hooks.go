package sim

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sakamata/components"
	"github.com/pthm-cable/sakamata/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (s *Simulation) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick, s.samplePopulation())
	perfStats := s.perfCollector.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := s.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := s.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	if err := s.outputManager.WriteEvents(s.events.Drain()); err != nil {
		slog.Error("failed to write events", "error", err)
	}

	for _, bm := range s.bookmarkDetector.Check(stats) {
		if s.logStats {
			bm.LogBookmark()
		}
		if err := s.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if s.snapshotDir != "" {
			s.saveSnapshot(&bm)
		}
	}
}

// samplePopulation collects counts and predator hunger values at window end.
func (s *Simulation) samplePopulation() telemetry.PopulationSample {
	var pop telemetry.PopulationSample
	var neighbors int

	query := s.sampleFilter.Query()
	for query.Next() {
		id, perc := query.Get()
		neighbors += len(perc.Neighbors)
		switch id.Kind {
		case components.KindPredator:
			pop.PredCount++
		case components.KindPrey:
			pop.PreyCount++
		}
	}

	hq := s.hungerFilter.Query()
	for hq.Next() {
		h := hq.Get()
		pop.Hunger = append(pop.Hunger, h.Value)
	}

	if total := pop.PredCount + pop.PreyCount; total > 0 {
		pop.MeanNeighbors = float64(neighbors) / float64(total)
	}
	pop.LivePods = s.ctx.Pods.LiveCount(s.world)
	return pop
}

// saveSnapshot creates and saves a snapshot to disk.
func (s *Simulation) saveSnapshot(bookmark *telemetry.Bookmark) {
	path, err := telemetry.SaveSnapshot(s.CreateSnapshot(bookmark), s.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", s.tick)
}

// CreateSnapshot captures every live actor. bookmark may be nil.
func (s *Simulation) CreateSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snapshot := &telemetry.Snapshot{
		Version:  telemetry.SnapshotVersion,
		RunID:    s.runID,
		RNGSeed:  s.seed,
		Tick:     s.tick,
		Bookmark: bookmark,
	}

	filter := ecs.NewFilter4[components.Identity, components.Position, components.Velocity, components.Rotation](s.world)
	orcas := ecs.NewMap[components.Orca](s.world)
	hungers := ecs.NewMap[components.Hunger](s.world)
	thinkers := ecs.NewMap[components.Thinker](s.world)

	query := filter.Query()
	for query.Next() {
		id, pos, vel, rot := query.Get()
		e := query.Entity()

		state := telemetry.ActorState{
			ID:      id.ID,
			Kind:    id.Kind,
			X:       pos.X,
			Y:       pos.Y,
			VelX:    vel.X,
			VelY:    vel.Y,
			Heading: rot.Heading,
			Pod:     int32(components.NoPod),
		}
		if orcas.Has(e) {
			orca := orcas.Get(e)
			state.Name = orca.Name
			state.Pod = int32(orca.Pod)
		}
		if hungers.Has(e) {
			state.Hunger = hungers.Get(e).Value
		}
		if thinkers.Has(e) {
			state.Hunt = thinkers.Get(e).Hunt.String()
		}
		snapshot.Actors = append(snapshot.Actors, state)
	}

	return snapshot
}
