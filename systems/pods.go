package systems

import (
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sakamata/components"
)

// Pod is a named group of predators sharing perception and alignment context.
// Members are recorded when they spawn and never change afterwards; entries
// for actors that have since been removed are skipped by readers.
type Pod struct {
	ID      components.PodID
	Name    string
	Members []ecs.Entity
}

// Pods is the group membership table. Only the commit step writes to it.
type Pods struct {
	byID map[components.PodID]*Pod
}

// NewPods creates an empty registry.
func NewPods() *Pods {
	return &Pods{byID: make(map[components.PodID]*Pod)}
}

// Join records e as a member of pod id, creating the pod on first use.
func (p *Pods) Join(id components.PodID, name string, e ecs.Entity) {
	if id == components.NoPod {
		return
	}
	pod, ok := p.byID[id]
	if !ok {
		pod = &Pod{ID: id, Name: name}
		p.byID[id] = pod
	}
	pod.Members = append(pod.Members, e)
}

// Get returns the pod with the given ID, or nil.
func (p *Pods) Get(id components.PodID) *Pod {
	return p.byID[id]
}

// Len returns the number of pods ever created since the last Clear.
func (p *Pods) Len() int {
	return len(p.byID)
}

// Clear drops every pod. Used on simulation reset.
func (p *Pods) Clear() {
	clear(p.byID)
}

// All returns pods ordered by ID.
func (p *Pods) All() []*Pod {
	out := make([]*Pod, 0, len(p.byID))
	for _, pod := range p.byID {
		out = append(out, pod)
	}
	slices.SortFunc(out, func(a, b *Pod) int {
		return int(a.ID) - int(b.ID)
	})
	return out
}

// LiveMembers counts the pod's members that are still alive.
func (pod *Pod) LiveMembers(w *ecs.World) int {
	n := 0
	for _, e := range pod.Members {
		if w.Alive(e) {
			n++
		}
	}
	return n
}

// LiveCount returns the number of pods with at least one living member.
func (p *Pods) LiveCount(w *ecs.World) int {
	n := 0
	for _, pod := range p.byID {
		if pod.LiveMembers(w) > 0 {
			n++
		}
	}
	return n
}
