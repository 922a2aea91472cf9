// Package telemetry provides population tracking, bookmarking, and snapshots.
package telemetry

import "github.com/pthm-cable/sakamata/components"

// EventType identifies telemetry events.
type EventType string

const (
	EventSpawn   EventType = "spawn"
	EventDespawn EventType = "despawn"
	EventRestart EventType = "restart"
)

// Event represents a single population event, written one per row to events.csv.
type Event struct {
	Tick     int32     `csv:"tick"`
	Type     EventType `csv:"type"`
	EntityID uint32    `csv:"entity_id"`
	Kind     string    `csv:"kind"`
	Name     string    `csv:"name"`
	Pod      int32     `csv:"pod"`
	Reason   string    `csv:"reason"`
}

// NewSpawnEvent creates a spawn event. Prey have no name and pod -1.
func NewSpawnEvent(tick int32, id components.Identity, name string, pod components.PodID) Event {
	return Event{
		Tick:     tick,
		Type:     EventSpawn,
		EntityID: id.ID,
		Kind:     id.Kind.String(),
		Name:     name,
		Pod:      int32(pod),
	}
}

// NewDespawnEvent creates a despawn event with its reason.
func NewDespawnEvent(tick int32, id components.Identity, name string, pod components.PodID, reason string) Event {
	return Event{
		Tick:     tick,
		Type:     EventDespawn,
		EntityID: id.ID,
		Kind:     id.Kind.String(),
		Name:     name,
		Pod:      int32(pod),
		Reason:   reason,
	}
}

// NewRestartEvent marks the start of a new run.
func NewRestartEvent(tick int32, runID string) Event {
	return Event{
		Tick:   tick,
		Type:   EventRestart,
		Pod:    int32(components.NoPod),
		Reason: runID,
	}
}

// EventLog buffers events between flushes.
type EventLog struct {
	events []Event
}

// Add appends an event.
func (l *EventLog) Add(ev Event) {
	l.events = append(l.events, ev)
}

// Len returns the number of buffered events.
func (l *EventLog) Len() int {
	return len(l.events)
}

// Drain returns the buffered events and empties the log.
func (l *EventLog) Drain() []Event {
	out := l.events
	l.events = nil
	return out
}
