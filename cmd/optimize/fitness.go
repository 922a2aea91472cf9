package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/sakamata/config"
	"github.com/pthm-cable/sakamata/sim"
	"github.com/pthm-cable/sakamata/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int32 // ticks until the last predator starved (or maxTicks)
	windowStats   []telemetry.WindowStats
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			results[idx] = seedResult{
				fitness: computeFitness(result),
				quality: computeQuality(result.windowStats),
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless simulation run.
// Runs until every predator has starved or maxTicks, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{survivalTicks: fe.maxTicks}

	s, err := sim.New(sim.Options{
		Config:         cfg,
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
	})
	if err != nil {
		result.survivalTicks = 0
		return result
	}
	defer s.Close()

	s.SetStatsCallback(func(stats telemetry.WindowStats) {
		result.windowStats = append(result.windowStats, stats)
	})

	for s.Tick() < fe.maxTicks {
		s.Step(cfg.Simulation.DT)
		if s.PredatorCount() == 0 {
			result.survivalTicks = s.Tick()
			break
		}
	}
	return result
}

// copyConfig returns a copy of the base config safe to mutate per run.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Names = append([]string(nil), fe.baseConfig.Names...)
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTicks × (1.0 + 0.2 × quality))
func computeFitness(r *runResult) float64 {
	survival := float64(r.survivalTicks)
	quality := computeQuality(r.windowStats)
	return -(survival * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightHunting   = 0.5
	qualityWeightHunger    = 0.3
	qualityWeightStability = 0.2

	qualityWarmupWindows = 1
)

// computeQuality computes hunt quality in [0, 1] from window stats.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var huntScores, hungerScores, predCounts []float64
	for _, w := range valid {
		if w.PredCount == 0 {
			continue
		}
		predCounts = append(predCounts, float64(w.PredCount))

		// Hunger held just under the threshold band is healthy
		hungerScores = append(hungerScores, math.Exp(-math.Pow((w.HungerP50-0.8)/0.15, 2)))

		if ended := w.HuntsSucceeded + w.HuntsCancelled; ended > 0 {
			huntScores = append(huntScores, w.SuccessRate)
		}
	}
	if len(predCounts) == 0 {
		return 0
	}

	huntScore := 0.0
	if len(huntScores) > 0 {
		huntScore = stat.Mean(huntScores, nil)
	}
	hungerScore := stat.Mean(hungerScores, nil)

	stabilityScore := 0.0
	if len(predCounts) >= 2 {
		mean, std := stat.MeanStdDev(predCounts, nil)
		if mean > 0 {
			cv := std / mean
			stabilityScore = math.Exp(-cv * cv)
		}
	}

	quality := qualityWeightHunting*huntScore +
		qualityWeightHunger*hungerScore +
		qualityWeightStability*stabilityScore

	return clamp01(quality)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
