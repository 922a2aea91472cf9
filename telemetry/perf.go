package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase names for the simulation step, in pipeline order.
const (
	PhasePerception = "perception"
	PhaseHunger     = "hunger"
	PhaseHunt       = "hunt"
	PhaseFlocking   = "flocking"
	PhasePhysics    = "physics"
	PhaseCommit     = "commit"
	PhaseTelemetry  = "telemetry"
)

// Phases lists every phase name in pipeline order.
var Phases = []string{
	PhasePerception, PhaseHunger, PhaseHunt, PhaseFlocking,
	PhasePhysics, PhaseCommit, PhaseTelemetry,
}

const numPhases = 7

var phaseIndex = func() map[string]int {
	m := make(map[string]int, len(Phases))
	for i, p := range Phases {
		m[p] = i
	}
	return m
}()

// PerfSample holds timing data for a single tick, phases indexed as in Phases.
type PerfSample struct {
	Tick   time.Duration
	Phases [numPhases]time.Duration
}

// PerfCollector times pipeline phases over a ring of recent ticks.
// Unknown phase names are timed as part of the tick but not attributed.
type PerfCollector struct {
	ring  []PerfSample
	next  int
	count int

	cur        PerfSample
	tickStart  time.Time
	phaseStart time.Time
	phase      int // index into Phases, -1 when none

	scratch []float64
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		ring:  make([]PerfSample, windowSize),
		phase: -1,
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.cur = PerfSample{}
	p.phase = -1
}

// StartPhase closes the running phase and opens the named one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	if i, ok := phaseIndex[phase]; ok {
		p.phase = i
	} else {
		p.phase = -1
	}
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.phase = -1

	p.cur.Tick = now.Sub(p.tickStart)
	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.cur.Phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	P50TickDuration time.Duration
	P99TickDuration time.Duration
	MaxTickDuration time.Duration

	// Average duration and share of tick time per phase
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64
}

// Stats aggregates the samples currently in the ring.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		PhaseAvg: make(map[string]time.Duration),
		PhasePct: make(map[string]float64),
	}
	if p.count == 0 {
		return stats
	}

	p.scratch = p.scratch[:0]
	var phaseSum [numPhases]time.Duration
	for _, s := range p.ring[:p.count] {
		p.scratch = append(p.scratch, float64(s.Tick))
		for i, d := range s.Phases {
			phaseSum[i] += d
		}
	}
	slices.Sort(p.scratch)

	avg := stat.Mean(p.scratch, nil)
	stats.AvgTickDuration = time.Duration(avg)
	stats.P50TickDuration = time.Duration(stat.Quantile(0.5, stat.Empirical, p.scratch, nil))
	stats.P99TickDuration = time.Duration(stat.Quantile(0.99, stat.Empirical, p.scratch, nil))
	stats.MaxTickDuration = time.Duration(p.scratch[len(p.scratch)-1])

	for i, sum := range phaseSum {
		if sum == 0 {
			continue
		}
		mean := sum / time.Duration(p.count)
		stats.PhaseAvg[Phases[i]] = mean
		if avg > 0 {
			stats.PhasePct[Phases[i]] = float64(mean) / avg * 100
		}
	}
	if avg > 0 {
		stats.TicksPerSecond = float64(time.Second) / avg
	}
	return stats
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer for structured logging.
// Phases under 0.1% of the tick are omitted.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("p99_tick_us", s.P99TickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	for _, phase := range Phases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd     int32   `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	P50TickUS     int64   `csv:"p50_tick_us"`
	P99TickUS     int64   `csv:"p99_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	PerceptionPct float64 `csv:"perception_pct"`
	HungerPct     float64 `csv:"hunger_pct"`
	HuntPct       float64 `csv:"hunt_pct"`
	FlockingPct   float64 `csv:"flocking_pct"`
	PhysicsPct    float64 `csv:"physics_pct"`
	CommitPct     float64 `csv:"commit_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		P50TickUS:     s.P50TickDuration.Microseconds(),
		P99TickUS:     s.P99TickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		PerceptionPct: s.PhasePct[PhasePerception],
		HungerPct:     s.PhasePct[PhaseHunger],
		HuntPct:       s.PhasePct[PhaseHunt],
		FlockingPct:   s.PhasePct[PhaseFlocking],
		PhysicsPct:    s.PhasePct[PhasePhysics],
		CommitPct:     s.PhasePct[PhaseCommit],
		TelemetryPct:  s.PhasePct[PhaseTelemetry],
	}
}
