// Package sim wires the systems into a fixed-order tick pipeline and owns
// the population lifecycle and telemetry for a run.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sakamata/components"
	"github.com/pthm-cable/sakamata/config"
	"github.com/pthm-cable/sakamata/systems"
	"github.com/pthm-cable/sakamata/telemetry"
)

// Options configures a Simulation.
type Options struct {
	Config         *config.Config // nil = config.Cfg()
	Seed           int64          // 0 = time-based
	LogStats       bool           // log stats windows via slog
	StatsWindowSec float64        // 0 = use config
	OutputDir      string         // CSV output directory (empty = disabled)
	SnapshotDir    string         // population snapshots on bookmarks (empty = disabled)
}

// Simulation holds the complete simulation state.
type Simulation struct {
	cfg  *config.Config
	seed int64

	world *ecs.World
	rng   *rand.Rand
	ctx   *systems.Context

	population *Population
	registry   *systems.SystemRegistry

	perception *systems.PerceptionSystem
	hunger     *systems.HungerSystem
	hunt       *systems.HuntSystem
	flocking   *systems.FlockingSystem
	physics    *systems.PhysicsSystem

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	events           *telemetry.EventLog
	logStats         bool
	snapshotDir      string
	statsCallback    func(telemetry.WindowStats)

	// Read-only lookups for sampling
	sampleFilter *ecs.Filter2[components.Identity, components.Perception]
	hungerFilter *ecs.Filter1[components.Hunger]

	// State
	tick    int32
	simTime float64
	runID   string
	run     config.RunConfig
}

// New creates a simulation and spawns the configured run.
func New(opts Options) (*Simulation, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	outputManager, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := outputManager.WriteConfig(cfg); err != nil {
		outputManager.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	world := ecs.NewWorld()
	rng := rand.New(rand.NewSource(seed))
	collector := telemetry.NewCollector(statsWindow, cfg.Simulation.DT)
	events := &telemetry.EventLog{}
	pods := systems.NewPods()

	var index systems.NeighborIndex
	if cfg.Derived.UseGrid {
		index = systems.NewSpatialGrid(cfg.Perception.GridCellSize)
	} else {
		index = systems.NewBruteForce()
	}

	picker := systems.PickHighest
	if cfg.Derived.FirstToScore {
		picker = systems.PickFirstToScore
	}

	s := &Simulation{
		cfg:   cfg,
		seed:  seed,
		world: world,
		rng:   rng,
		ctx: &systems.Context{
			World:    world,
			Commands: systems.NewCommands(),
			Pods:     pods,
			Rng:      rng,
			Recorder: collector,
			DT:       cfg.Simulation.DT,
		},
		population: NewPopulation(world, pods, collector, events),
		registry:   systems.NewSystemRegistry(),

		perception: systems.NewPerceptionSystem(world, index),
		hunger:     systems.NewHungerSystem(world, cfg.Hunger.Rate),
		hunt: systems.NewHuntSystem(world, systems.HuntParams{
			EatRange:    cfg.Hunt.EatRange,
			GiveUpRange: cfg.Hunt.GiveUpRange,
			Replenish:   cfg.Hunger.Replenish,
		}, picker),
		flocking: systems.NewFlockingSystem(world, cfg.Flocking.ForceGain, cfg.Flocking.MinSeparation),
		physics:  systems.NewPhysicsSystem(world),

		collector:        collector,
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks),
		outputManager:    outputManager,
		events:           events,
		logStats:         opts.LogStats,
		snapshotDir:      opts.SnapshotDir,

		sampleFilter: ecs.NewFilter2[components.Identity, components.Perception](world),
		hungerFilter: ecs.NewFilter1[components.Hunger](world),
	}

	s.Restart(cfg.Run)
	s.Commit()

	slog.Info("simulation created",
		"seed", seed,
		"run_id", s.runID,
		"predators", s.PredatorCount(),
		"prey", s.PreyCount(),
		"pods", pods.Len(),
	)

	return s, nil
}

// Restart queues a reset followed by a fresh population built from run.
// Nothing changes until the next commit, which removes every current actor
// before any new actor is created.
func (s *Simulation) Restart(run config.RunConfig) {
	run.Normalize()
	s.run = run
	s.runID = uuid.NewString()

	s.ctx.Commands.DespawnAll()
	for _, req := range BuildRun(run, s.cfg.Hunt.Threshold, s.cfg.Names, s.rng) {
		s.ctx.Commands.Spawn(req)
	}

	s.collector.SetRun(s.runID, s.tick)
	s.bookmarkDetector.Reset()
	s.events.Add(telemetry.NewRestartEvent(s.tick, s.runID))

	slog.Info("simulation restart queued",
		"run_id", s.runID,
		"tick", s.tick,
		"pod_count", run.PodCount,
		"pod_size_min", run.PodSizeMin,
		"pod_size_max", run.PodSizeMax,
		"prey_count", run.PreyCount,
	)
}

// Commit applies queued spawns and despawns.
func (s *Simulation) Commit() ApplyResult {
	res := s.population.Apply(s.ctx.Commands, s.tick)
	if res.Reset {
		s.simTime = 0
	}
	return res
}

// Step runs a single tick of dt seconds.
func (s *Simulation) Step(dt float64) {
	s.ctx.DT = dt
	s.ctx.Tick = s.tick
	s.perfCollector.StartTick()

	// 1. Perception
	s.perfCollector.StartPhase(systems.PhasePerception)
	s.perception.Update(s.ctx)

	// 2. Hunger
	s.perfCollector.StartPhase(systems.PhaseHunger)
	s.hunger.Update(s.ctx)

	// 3. Hunt decisions
	s.perfCollector.StartPhase(systems.PhaseHunt)
	s.hunt.Update(s.ctx)

	// 4. Flocking force
	s.perfCollector.StartPhase(systems.PhaseFlocking)
	s.flocking.Update(s.ctx)

	// 5. Integrate
	s.perfCollector.StartPhase(systems.PhasePhysics)
	s.physics.Update(s.ctx)

	// 6. Commit population changes
	s.perfCollector.StartPhase(systems.PhaseCommit)
	s.Commit()

	s.tick++
	s.simTime += dt

	// 7. Telemetry
	s.perfCollector.StartPhase(systems.PhaseTelemetry)
	s.flushTelemetry()

	s.perfCollector.EndTick()
}

// SetStatsCallback registers a function called with every flushed stats window.
func (s *Simulation) SetStatsCallback(fn func(telemetry.WindowStats)) {
	s.statsCallback = fn
}

// Close flushes pending events and closes output files.
func (s *Simulation) Close() error {
	if err := s.outputManager.WriteEvents(s.events.Drain()); err != nil {
		slog.Error("failed to write events", "error", err)
	}
	return s.outputManager.Close()
}

// World returns the ECS world.
func (s *Simulation) World() *ecs.World { return s.world }

// Pods returns the pod registry.
func (s *Simulation) Pods() *systems.Pods { return s.ctx.Pods }

// Commands returns the command buffer.
func (s *Simulation) Commands() *systems.Commands { return s.ctx.Commands }

// Registry returns the phase registry.
func (s *Simulation) Registry() *systems.SystemRegistry { return s.registry }

// Tick returns the current tick.
func (s *Simulation) Tick() int32 { return s.tick }

// SimTime returns the seconds simulated since the current run started.
func (s *Simulation) SimTime() float64 { return s.simTime }

// RunID returns the identifier of the current run.
func (s *Simulation) RunID() string { return s.runID }

// Run returns the parameters of the current run.
func (s *Simulation) Run() config.RunConfig { return s.run }

// Seed returns the RNG seed.
func (s *Simulation) Seed() int64 { return s.seed }

// PredatorCount returns the number of live predators.
func (s *Simulation) PredatorCount() int {
	return s.countKind(components.KindPredator)
}

// PreyCount returns the number of live prey.
func (s *Simulation) PreyCount() int {
	return s.countKind(components.KindPrey)
}

func (s *Simulation) countKind(kind components.Kind) int {
	n := 0
	query := s.sampleFilter.Query()
	for query.Next() {
		id, _ := query.Get()
		if id.Kind == kind {
			n++
		}
	}
	return n
}
