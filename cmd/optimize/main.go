// Command optimize searches hunt and flocking parameters with CMA-ES for
// configurations where pods survive longest on the prey they catch.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/sakamata/config"
)

// tuner wraps the evaluator with progress output and an evaluation log.
type tuner struct {
	params    *ParamVector
	evaluator *FitnessEvaluator
	dt        float64
	maxEvals  int

	log *csv.Writer

	evals       int
	bestFitness float64
	bestParams  []float64
	started     time.Time
}

func newTuner(params *ParamVector, evaluator *FitnessEvaluator, dt float64, maxEvals int, logFile *os.File) *tuner {
	t := &tuner{
		params:      params,
		evaluator:   evaluator,
		dt:          dt,
		maxEvals:    maxEvals,
		log:         csv.NewWriter(logFile),
		bestFitness: 1e9,
		started:     time.Now(),
	}

	header := []string{"eval", "fitness"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	t.log.Write(header)
	return t
}

// objective evaluates a normalized point and records it.
func (t *tuner) objective(x []float64) float64 {
	raw := t.params.Denormalize(x)
	fitness := t.evaluator.Evaluate(raw)
	t.evals++

	// Log the clamped values, which are the ones actually simulated
	clamped := t.params.Clamp(raw)
	if fitness < t.bestFitness {
		t.bestFitness = fitness
		t.bestParams = clamped
	}

	row := []string{strconv.Itoa(t.evals), fmt.Sprintf("%.6f", fitness)}
	for _, v := range clamped {
		row = append(row, fmt.Sprintf("%.6f", v))
	}
	t.log.Write(row)
	t.log.Flush()

	elapsed := time.Since(t.started)
	remaining := time.Duration(t.maxEvals-t.evals) * (elapsed / time.Duration(t.evals))

	// Fitness = -(survivalTicks × (1 + 0.2×quality))
	quality := t.evaluator.LastQuality()
	survivalSec := -fitness / (1.0 + 0.2*quality) * t.dt
	fmt.Printf("Eval %d/%d: survived=%.0fs quality=%.2f (best=%.0f) | elapsed: %s, ETA: %s\n",
		t.evals, t.maxEvals, survivalSec, quality, t.bestFitness,
		formatDuration(elapsed), formatDuration(remaining))

	return fitness
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 72000, "Maximum simulation duration in ticks (cap)")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	// Per-run simulation logs drown the progress output
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	params := NewParamVector()
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, int32(*maxTicks), evalSeeds, baseCfg)

	logFile, err := os.Create(filepath.Join(*outputDir, "optimize_log.csv"))
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	t := newTuner(params, evaluator, baseCfg.Simulation.DT, *maxEvals, logFile)
	defer t.log.Flush()

	popSize := *population
	if popSize == 0 {
		popSize = 4 + 3*params.Dim()/2
	}

	fmt.Printf("Starting CMA-ES optimization with %d parameters, population=%d, max_evals=%d\n",
		params.Dim(), popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, ticks per run: %s\n", *seeds, humanize.Comma(int64(*maxTicks)))

	result, err := optimize.Minimize(
		optimize.Problem{Func: t.objective},
		params.Normalize(params.ExtractFromConfig(baseCfg)),
		&optimize.Settings{FuncEvaluations: *maxEvals},
		&optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize},
	)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	best := t.bestParams
	if best == nil && result != nil {
		best = params.Clamp(params.Denormalize(result.X))
	}
	if best == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", t.evals, formatDuration(time.Since(t.started)))
	fmt.Printf("Best fitness: %s\n", humanize.Comma(int64(t.bestFitness)))
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, best[i])
	}

	bestCfg := evaluator.copyConfig()
	params.ApplyToConfig(bestCfg, best)
	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
		return
	}
	fmt.Printf("\nBest config saved to: %s\n", configOutPath)
}

// formatDuration formats a duration as 1h02m03s or 2m03s.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
