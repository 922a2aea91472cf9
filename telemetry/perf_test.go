package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few ticks
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhasePerception)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseFlocking)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Verify we got timing data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}

	// Verify phases are tracked
	if len(stats.PhaseAvg) == 0 {
		t.Error("expected phase averages to be populated")
	}

	if _, ok := stats.PhaseAvg[PhasePerception]; !ok {
		t.Error("expected perception phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[PhaseFlocking]; !ok {
		t.Error("expected flocking phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	// Fill window completely
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhasePerception)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Should have data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}

	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate with uneven phase durations
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseHunger)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseFlocking)
		time.Sleep(2 * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct[PhaseHunger]
	slowPct := stats.PhasePct[PhaseFlocking]

	// Slow phase should take more % than fast
	if slowPct <= fastPct {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", slowPct, fastPct)
	}
}

func TestPerfCollector_UnknownPhaseNotAttributed(t *testing.T) {
	pc := NewPerfCollector(4)
	pc.StartTick()
	pc.StartPhase("render")
	time.Sleep(50 * time.Microsecond)
	pc.StartPhase(PhaseHunt)
	pc.EndTick()

	stats := pc.Stats()
	if _, ok := stats.PhaseAvg["render"]; ok {
		t.Error("unknown phase should not be reported")
	}
	if stats.AvgTickDuration < 50*time.Microsecond {
		t.Errorf("tick duration %v should include the unknown phase", stats.AvgTickDuration)
	}
}

func TestPerfCollector_Quantiles(t *testing.T) {
	pc := NewPerfCollector(8)
	for i := 0; i < 8; i++ {
		pc.StartTick()
		pc.StartPhase(PhasePhysics)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.P50TickDuration > stats.P99TickDuration || stats.P99TickDuration > stats.MaxTickDuration {
		t.Errorf("quantiles out of order: p50=%v p99=%v max=%v",
			stats.P50TickDuration, stats.P99TickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	stats := PerfStats{
		AvgTickDuration: 250 * time.Microsecond,
		PhasePct:        map[string]float64{PhasePerception: 60, PhaseFlocking: 25},
	}

	row := stats.ToCSV(600)
	if row.WindowEnd != 600 || row.AvgTickUS != 250 {
		t.Errorf("row = %+v", row)
	}
	if row.PerceptionPct != 60 || row.FlockingPct != 25 || row.HuntPct != 0 {
		t.Errorf("phase columns = (%v, %v, %v), want (60, 25, 0)", row.PerceptionPct, row.FlockingPct, row.HuntPct)
	}
}
