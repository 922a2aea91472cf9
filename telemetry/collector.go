package telemetry

import "github.com/pthm-cable/sakamata/components"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float64
	runID               string

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	predSpawns     int
	preySpawns     int
	starvations    int
	preyEaten      int
	resetDespawns  int
	huntsRequested int
	huntsExecuting int
	huntsSucceeded int
	huntsCancelled int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// SetRun starts a new run: counters and the window restart at tick.
func (c *Collector) SetRun(runID string, tick int32) {
	c.runID = runID
	c.windowStartTick = tick
	c.reset()
}

// RecordHuntTransition counts hunt state changes.
func (c *Collector) RecordHuntTransition(to components.HuntState) {
	switch to {
	case components.HuntRequested:
		c.huntsRequested++
	case components.HuntExecuting:
		c.huntsExecuting++
	case components.HuntSuccess:
		c.huntsSucceeded++
	case components.HuntCancelled:
		c.huntsCancelled++
	}
}

// RecordSpawn records an actor entering the simulation.
func (c *Collector) RecordSpawn(kind components.Kind) {
	if kind == components.KindPrey {
		c.preySpawns++
	} else {
		c.predSpawns++
	}
}

// RecordStarvation records a predator removed by hunger.
func (c *Collector) RecordStarvation() {
	c.starvations++
}

// RecordEaten records a prey removed by a successful hunt.
func (c *Collector) RecordEaten() {
	c.preyEaten++
}

// RecordReset records actors removed by a simulation restart.
func (c *Collector) RecordReset(n int) {
	c.resetDespawns += n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// PopulationSample is the population state sampled at window end.
type PopulationSample struct {
	PredCount     int
	PreyCount     int
	LivePods      int
	Hunger        []float64 // predator hunger values
	MeanNeighbors float64   // mean group neighbor count over all actors
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, pop PopulationSample) WindowStats {
	var successRate float64
	if ended := c.huntsSucceeded + c.huntsCancelled; ended > 0 {
		successRate = float64(c.huntsSucceeded) / float64(ended)
	}

	hungerMean, hungerP10, hungerP50, hungerP90 := ComputeHungerStats(pop.Hunger)

	stats := WindowStats{
		RunID:           c.runID,
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		PredCount: pop.PredCount,
		PreyCount: pop.PreyCount,
		LivePods:  pop.LivePods,

		PredSpawns:    c.predSpawns,
		PreySpawns:    c.preySpawns,
		Starvations:   c.starvations,
		PreyEaten:     c.preyEaten,
		ResetDespawns: c.resetDespawns,

		HuntsRequested: c.huntsRequested,
		HuntsExecuting: c.huntsExecuting,
		HuntsSucceeded: c.huntsSucceeded,
		HuntsCancelled: c.huntsCancelled,
		SuccessRate:    successRate,

		HungerMean: hungerMean,
		HungerP10:  hungerP10,
		HungerP50:  hungerP50,
		HungerP90:  hungerP90,

		MeanNeighbors: pop.MeanNeighbors,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.reset()

	return stats
}

func (c *Collector) reset() {
	c.predSpawns = 0
	c.preySpawns = 0
	c.starvations = 0
	c.preyEaten = 0
	c.resetDespawns = 0
	c.huntsRequested = 0
	c.huntsExecuting = 0
	c.huntsSucceeded = 0
	c.huntsCancelled = 0
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
