package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	RunID           string  `csv:"run_id"`
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population counts at window end
	PredCount int `csv:"pred"`
	PreyCount int `csv:"prey"`
	LivePods  int `csv:"live_pods"`

	// Population events during window
	PredSpawns    int `csv:"pred_spawns"`
	PreySpawns    int `csv:"prey_spawns"`
	Starvations   int `csv:"starvations"`
	PreyEaten     int `csv:"prey_eaten"`
	ResetDespawns int `csv:"reset_despawns"`

	// Hunting
	HuntsRequested int     `csv:"hunts_requested"`
	HuntsExecuting int     `csv:"hunts_executing"`
	HuntsSucceeded int     `csv:"hunts_succeeded"`
	HuntsCancelled int     `csv:"hunts_cancelled"`
	SuccessRate    float64 `csv:"success_rate"`

	// Predator hunger distribution (sampled at window end)
	HungerMean float64 `csv:"hunger_mean"`
	HungerP10  float64 `csv:"hunger_p10"`
	HungerP50  float64 `csv:"hunger_p50"`
	HungerP90  float64 `csv:"hunger_p90"`

	// Flocking
	MeanNeighbors float64 `csv:"mean_neighbors"`
}

// ComputeHungerStats calculates mean and empirical quantiles of hunger values.
// Returns zeros for an empty slice.
func ComputeHungerStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean = stat.Mean(sorted, nil)
	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", s.RunID),
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("pred", s.PredCount),
		slog.Int("prey", s.PreyCount),
		slog.Int("live_pods", s.LivePods),
		slog.Int("pred_spawns", s.PredSpawns),
		slog.Int("prey_spawns", s.PreySpawns),
		slog.Int("starvations", s.Starvations),
		slog.Int("prey_eaten", s.PreyEaten),
		slog.Int("reset_despawns", s.ResetDespawns),
		slog.Int("hunts_requested", s.HuntsRequested),
		slog.Int("hunts_executing", s.HuntsExecuting),
		slog.Int("hunts_succeeded", s.HuntsSucceeded),
		slog.Int("hunts_cancelled", s.HuntsCancelled),
		slog.Float64("success_rate", s.SuccessRate),
		slog.Float64("hunger_mean", s.HungerMean),
		slog.Float64("hunger_p10", s.HungerP10),
		slog.Float64("hunger_p50", s.HungerP50),
		slog.Float64("hunger_p90", s.HungerP90),
		slog.Float64("mean_neighbors", s.MeanNeighbors),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"pred", s.PredCount,
		"prey", s.PreyCount,
		"live_pods", s.LivePods,
		"starvations", s.Starvations,
		"prey_eaten", s.PreyEaten,
		"hunts_requested", s.HuntsRequested,
		"hunts_succeeded", s.HuntsSucceeded,
		"hunts_cancelled", s.HuntsCancelled,
		"success_rate", s.SuccessRate,
		"hunger_mean", s.HungerMean,
		"hunger_p50", s.HungerP50,
		"hunger_p90", s.HungerP90,
		"mean_neighbors", s.MeanNeighbors,
	)
}
