package systems

import "github.com/pthm-cable/sakamata/telemetry"

// Phase identifiers for the tick pipeline, in execution order.
// They double as perf tracker keys.
const (
	PhasePerception = telemetry.PhasePerception
	PhaseHunger     = telemetry.PhaseHunger
	PhaseHunt       = telemetry.PhaseHunt
	PhaseFlocking   = telemetry.PhaseFlocking
	PhasePhysics    = telemetry.PhasePhysics
	PhaseCommit     = telemetry.PhaseCommit
	PhaseTelemetry  = telemetry.PhaseTelemetry
)

// SystemInfo describes a simulation phase for logs and perf tracking.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this phase does
	Category    string // Grouping (e.g., "core", "ai")
}

// SystemRegistry holds metadata about all phases.
// This centralizes phase naming so logs and the perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known phases.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds all known phases in pipeline order.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: PhasePerception, Name: "Perception", Description: "Rebuilds group neighbor and visible prey sets", Category: "core"})
	r.Register(SystemInfo{ID: PhaseHunger, Name: "Hunger", Description: "Depletes hunger and schedules starvation", Category: "core"})
	r.Register(SystemInfo{ID: PhaseHunt, Name: "Hunt", Description: "Utility AI pursue/eat/abandon decisions", Category: "ai"})
	r.Register(SystemInfo{ID: PhaseFlocking, Name: "Flocking", Description: "Accumulates boid steering force", Category: "ai"})
	r.Register(SystemInfo{ID: PhasePhysics, Name: "Physics", Description: "Integrates force into velocity and position", Category: "collaborator"})
	r.Register(SystemInfo{ID: PhaseCommit, Name: "Commit", Description: "Applies queued spawns and despawns", Category: "collaborator"})
	r.Register(SystemInfo{ID: PhaseTelemetry, Name: "Telemetry", Description: "Flushes stats windows", Category: "telemetry"})
}

// Register adds a phase to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns phase info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// All returns all registered phases in pipeline order.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// IDs returns all phase IDs in pipeline order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, s := range r.systems {
		ids[i] = s.ID
	}
	return ids
}
