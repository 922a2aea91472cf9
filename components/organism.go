package components

// Gender of a predator.
type Gender uint8

const (
	Male Gender = iota
	Female
)

// Ecotype of a predator.
type Ecotype uint8

const (
	Resident Ecotype = iota
	Transient
)

// PodID identifies a predator group.
type PodID int32

// NoPod marks a predator that belongs to no pod and flocks with no one.
const NoPod PodID = -1

// Orca holds predator-only attributes.
// Pod is a back-reference; the pod registry owns the member list.
type Orca struct {
	Gender  Gender
	Age     uint32
	Name    string
	Ecotype Ecotype
	Pod     PodID
}

// Hunger tracks starvation pressure: 0 = sated, 1 = starving.
type Hunger struct {
	Value float64
}
