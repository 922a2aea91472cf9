package telemetry

import (
	"testing"

	"github.com/pthm-cable/sakamata/components"
)

func TestCollector_FlushCountsAndResets(t *testing.T) {
	c := NewCollector(1.0, 0.1)
	c.SetRun("run-a", 0)

	if c.WindowDurationTicks() != 10 {
		t.Fatalf("window = %d ticks, want 10", c.WindowDurationTicks())
	}
	if c.ShouldFlush(9) {
		t.Error("should not flush before the window ends")
	}
	if !c.ShouldFlush(10) {
		t.Error("should flush at the window end")
	}

	c.RecordSpawn(components.KindPredator)
	c.RecordSpawn(components.KindPrey)
	c.RecordSpawn(components.KindPrey)
	c.RecordHuntTransition(components.HuntRequested)
	c.RecordHuntTransition(components.HuntExecuting)
	c.RecordHuntTransition(components.HuntSuccess)
	c.RecordHuntTransition(components.HuntCancelled)
	c.RecordHuntTransition(components.HuntSuccess)
	c.RecordEaten()
	c.RecordStarvation()
	c.RecordReset(4)

	stats := c.Flush(10, PopulationSample{
		PredCount: 3, PreyCount: 7, LivePods: 2,
		Hunger:        []float64{0.9, 0.5, 0.1},
		MeanNeighbors: 1.5,
	})

	if stats.RunID != "run-a" || stats.WindowEndTick != 10 {
		t.Errorf("window = (%q, %d), want (run-a, 10)", stats.RunID, stats.WindowEndTick)
	}
	if stats.SimTimeSec != 1.0 {
		t.Errorf("sim_time = %v, want 1", stats.SimTimeSec)
	}
	if stats.PredSpawns != 1 || stats.PreySpawns != 2 {
		t.Errorf("spawns = (%d, %d), want (1, 2)", stats.PredSpawns, stats.PreySpawns)
	}
	if stats.HuntsSucceeded != 2 || stats.HuntsCancelled != 1 {
		t.Errorf("hunts = (%d, %d), want (2, 1)", stats.HuntsSucceeded, stats.HuntsCancelled)
	}
	if stats.SuccessRate < 0.66 || stats.SuccessRate > 0.67 {
		t.Errorf("success_rate = %v, want 2/3", stats.SuccessRate)
	}
	if stats.PreyEaten != 1 || stats.Starvations != 1 || stats.ResetDespawns != 4 {
		t.Errorf("despawn counters = (%d, %d, %d)", stats.PreyEaten, stats.Starvations, stats.ResetDespawns)
	}
	if stats.HungerP50 != 0.5 {
		t.Errorf("hunger_p50 = %v, want 0.5", stats.HungerP50)
	}

	next := c.Flush(20, PopulationSample{})
	if next.WindowStartTick != 10 || next.PredSpawns != 0 || next.HuntsRequested != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestCollector_SetRunRestartsWindow(t *testing.T) {
	c := NewCollector(1.0, 0.1)
	c.RecordStarvation()
	c.SetRun("run-b", 55)

	if c.ShouldFlush(60) {
		t.Error("window should restart at the new run's tick")
	}
	stats := c.Flush(65, PopulationSample{})
	if stats.Starvations != 0 || stats.WindowStartTick != 55 {
		t.Errorf("stats = %+v, want a fresh window from tick 55", stats)
	}
}
