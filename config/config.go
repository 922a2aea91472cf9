// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Perception PerceptionConfig `yaml:"perception"`
	Flocking   FlockingConfig   `yaml:"flocking"`
	Hunger     HungerConfig     `yaml:"hunger"`
	Hunt       HuntConfig       `yaml:"hunt"`
	Run        RunConfig        `yaml:"run"`
	Names      []string         `yaml:"names"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Bookmarks  BookmarksConfig  `yaml:"bookmarks"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SimulationConfig holds clock parameters.
type SimulationConfig struct {
	DT float64 `yaml:"dt"` // seconds per tick
}

// PerceptionConfig selects the neighbor index used to build perception sets.
type PerceptionConfig struct {
	Index        string  `yaml:"index"`          // "grid" or "pairwise"
	GridCellSize float64 `yaml:"grid_cell_size"` // world units per grid cell
}

// FlockingConfig holds global boid force parameters.
type FlockingConfig struct {
	ForceGain     float64 `yaml:"force_gain"`     // multiplier applied to the summed steering force
	MinSeparation float64 `yaml:"min_separation"` // distance floor for the separation term
}

// HungerConfig holds hunger model constants.
type HungerConfig struct {
	Rate      float64 `yaml:"rate"`      // hunger gained per second
	Replenish float64 `yaml:"replenish"` // hunger removed per feeding
}

// HuntConfig holds hunt decision parameters.
type HuntConfig struct {
	Threshold   float64 `yaml:"threshold"`     // picker activation threshold
	Picker      string  `yaml:"picker"`        // "highest" or "first_to_score"
	EatRange    float64 `yaml:"eat_range"`     // distance at which prey is consumed
	GiveUpRange float64 `yaml:"give_up_range"` // distance at which a pursuit is abandoned
}

// RunConfig is the parameter bundle for one simulation run.
// It is treated as immutable once a run has started.
type RunConfig struct {
	EnablePredators bool `yaml:"enable_predators"`
	EnablePrey      bool `yaml:"enable_prey"`
	PodCount        int  `yaml:"pod_count"`
	PodSizeMin      int  `yaml:"pod_size_min"`
	PodSizeMax      int  `yaml:"pod_size_max"`
	PreyCount       int  `yaml:"prey_count"`

	PodSpread  float64 `yaml:"pod_spread"`  // pod centres are drawn from [-spread, spread]
	PreySpread float64 `yaml:"prey_spread"` // prey positions are drawn from [-spread, spread]

	Predator PopulationConfig `yaml:"predator"`
	Prey     PopulationConfig `yaml:"prey"`
}

// PopulationConfig holds flocking weights and body parameters for one population.
type PopulationConfig struct {
	Coherence   float64 `yaml:"coherence"`
	Alignment   float64 `yaml:"alignment"`
	Separation  float64 `yaml:"separation"`
	Randomness  float64 `yaml:"randomness"`
	Tracking    float64 `yaml:"tracking"`
	WanderAngle float64 `yaml:"wander_angle"` // degrees, 0..359
	ViewRange   float64 `yaml:"view_range"`
	ViewAngle   float64 `yaml:"view_angle"` // degrees; stored, not used for culling

	SpeedScaleMin float64 `yaml:"speed_scale_min"`
	SpeedScaleMax float64 `yaml:"speed_scale_max"`
	MassMin       float64 `yaml:"mass_min"`
	MassMax       float64 `yaml:"mass_max"`
	MaxVelocity   float64 `yaml:"max_velocity"` // 0 = uncapped
	InitialSpeed  float64 `yaml:"initial_speed"`
	InitialHunger float64 `yaml:"initial_hunger"` // predators only; prey carry no hunger
	SpawnOffset   float64 `yaml:"spawn_offset"` // member offset from pod centre
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // seconds
	BookmarkHistorySize int     `yaml:"bookmark_history_size"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	PreyCrash PreyCrashConfig `yaml:"prey_crash"`
	Famine    FamineConfig    `yaml:"famine"`
}

// PreyCrashConfig holds prey crash detection parameters.
type PreyCrashConfig struct {
	DropPercent float64 `yaml:"drop_percent"`
	MinDrop     int     `yaml:"min_drop"`
}

// FamineConfig holds famine detection parameters.
type FamineConfig struct {
	MinStarvations int `yaml:"min_starvations"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	UseGrid       bool // Perception.Index == "grid"
	FirstToScore  bool // Hunt.Picker == "first_to_score"
	TicksPerStats int  // Telemetry.StatsWindow / Simulation.DT
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.Run.Normalize()
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values no run can recover from.
func (c *Config) validate() error {
	if c.Simulation.DT <= 0 {
		return fmt.Errorf("simulation.dt must be positive, got %v", c.Simulation.DT)
	}
	switch c.Perception.Index {
	case "grid", "pairwise":
	default:
		return fmt.Errorf("perception.index must be grid or pairwise, got %q", c.Perception.Index)
	}
	if c.Perception.Index == "grid" && c.Perception.GridCellSize <= 0 {
		return fmt.Errorf("perception.grid_cell_size must be positive, got %v", c.Perception.GridCellSize)
	}
	switch c.Hunt.Picker {
	case "highest", "first_to_score":
	default:
		return fmt.Errorf("hunt.picker must be highest or first_to_score, got %q", c.Hunt.Picker)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.UseGrid = c.Perception.Index == "grid"
	c.Derived.FirstToScore = c.Hunt.Picker == "first_to_score"

	ticks := int(c.Telemetry.StatsWindow / c.Simulation.DT)
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.TicksPerStats = ticks

	if len(c.Names) == 0 {
		c.Names = []string{"Orca"}
	}
}

// Normalize clamps invalid run parameters to usable values.
// A minimum pod size above the maximum is clamped down to the maximum.
func (r *RunConfig) Normalize() {
	if r.PodCount < 0 {
		slog.Warn("run_config_clamped", "field", "pod_count", "from", r.PodCount, "to", 0)
		r.PodCount = 0
	}
	if r.PreyCount < 0 {
		slog.Warn("run_config_clamped", "field", "prey_count", "from", r.PreyCount, "to", 0)
		r.PreyCount = 0
	}
	if r.PodSizeMax < 1 {
		slog.Warn("run_config_clamped", "field", "pod_size_max", "from", r.PodSizeMax, "to", 1)
		r.PodSizeMax = 1
	}
	if r.PodSizeMin < 1 {
		slog.Warn("run_config_clamped", "field", "pod_size_min", "from", r.PodSizeMin, "to", 1)
		r.PodSizeMin = 1
	}
	if r.PodSizeMin > r.PodSizeMax {
		slog.Warn("run_config_clamped", "field", "pod_size_min", "from", r.PodSizeMin, "to", r.PodSizeMax)
		r.PodSizeMin = r.PodSizeMax
	}
	r.Predator.normalize("predator")
	r.Prey.normalize("prey")
	if r.Prey.InitialHunger != 0 {
		slog.Warn("run_config_clamped", "field", "prey.initial_hunger", "from", r.Prey.InitialHunger, "to", 0)
		r.Prey.InitialHunger = 0
	}
}

func (p *PopulationConfig) normalize(name string) {
	if p.SpeedScaleMin > p.SpeedScaleMax {
		slog.Warn("run_config_clamped", "field", name+".speed_scale_min", "from", p.SpeedScaleMin, "to", p.SpeedScaleMax)
		p.SpeedScaleMin = p.SpeedScaleMax
	}
	if p.MassMin > p.MassMax {
		slog.Warn("run_config_clamped", "field", name+".mass_min", "from", p.MassMin, "to", p.MassMax)
		p.MassMin = p.MassMax
	}
	if p.MassMin <= 0 {
		p.MassMin = 1
		if p.MassMax < p.MassMin {
			p.MassMax = p.MassMin
		}
	}
	if p.WanderAngle < 0 {
		p.WanderAngle = 0
	} else if p.WanderAngle > 359 {
		p.WanderAngle = 359
	}
	if p.InitialHunger < 0 {
		p.InitialHunger = 0
	} else if p.InitialHunger > 1 {
		p.InitialHunger = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
