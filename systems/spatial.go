// Package systems provides the ECS systems for the simulation.
package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"
)

// NeighborIndex answers radius queries over a set of positioned entities.
// Implementations differ only in cost; they must return the same sets.
type NeighborIndex interface {
	// Clear removes all entries.
	Clear()
	// Insert adds an entity at the given position.
	Insert(e ecs.Entity, pos r2.Vec)
	// QueryRadiusInto appends every entity strictly closer than radius to
	// center, except exclude, and returns the extended slice.
	QueryRadiusInto(dst []ecs.Entity, center r2.Vec, radius float64, exclude ecs.Entity) []ecs.Entity
}

type indexEntry struct {
	e   ecs.Entity
	pos r2.Vec
}

// BruteForce is the pairwise index: every query scans all entries.
type BruteForce struct {
	entries []indexEntry
}

// NewBruteForce creates an empty pairwise index.
func NewBruteForce() *BruteForce {
	return &BruteForce{entries: make([]indexEntry, 0, 64)}
}

// Clear removes all entries.
func (b *BruteForce) Clear() {
	b.entries = b.entries[:0]
}

// Insert adds an entity at the given position.
func (b *BruteForce) Insert(e ecs.Entity, pos r2.Vec) {
	b.entries = append(b.entries, indexEntry{e: e, pos: pos})
}

// QueryRadiusInto appends entities within radius of center.
func (b *BruteForce) QueryRadiusInto(dst []ecs.Entity, center r2.Vec, radius float64, exclude ecs.Entity) []ecs.Entity {
	radiusSq := radius * radius
	for _, en := range b.entries {
		if en.e == exclude {
			continue
		}
		if r2.Norm2(r2.Sub(en.pos, center)) < radiusSq {
			dst = append(dst, en.e)
		}
	}
	return dst
}

type cellKey struct {
	col, row int
}

// SpatialGrid provides neighbor lookups using a hashed cell grid.
// The world is unbounded, so cells are allocated on demand.
type SpatialGrid struct {
	cellSize float64
	cells    map[cellKey][]indexEntry
}

// NewSpatialGrid creates a grid with the given cell size.
func NewSpatialGrid(cellSize float64) *SpatialGrid {
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]indexEntry),
	}
}

// Clear removes all entities from the grid. Cells that stayed empty since
// the previous Clear are dropped so the map tracks only occupied regions.
func (g *SpatialGrid) Clear() {
	for k, c := range g.cells {
		if len(c) == 0 {
			delete(g.cells, k)
			continue
		}
		g.cells[k] = c[:0]
	}
}

// Insert adds an entity to the grid at the given position.
func (g *SpatialGrid) Insert(e ecs.Entity, pos r2.Vec) {
	k := g.cellOf(pos)
	g.cells[k] = append(g.cells[k], indexEntry{e: e, pos: pos})
}

// QueryRadiusInto appends entities within radius of center.
func (g *SpatialGrid) QueryRadiusInto(dst []ecs.Entity, center r2.Vec, radius float64, exclude ecs.Entity) []ecs.Entity {
	if radius <= 0 {
		return dst
	}
	lo := g.cellOf(r2.Vec{X: center.X - radius, Y: center.Y - radius})
	hi := g.cellOf(r2.Vec{X: center.X + radius, Y: center.Y + radius})
	radiusSq := radius * radius

	for col := lo.col; col <= hi.col; col++ {
		for row := lo.row; row <= hi.row; row++ {
			for _, en := range g.cells[cellKey{col, row}] {
				if en.e == exclude {
					continue
				}
				if r2.Norm2(r2.Sub(en.pos, center)) < radiusSq {
					dst = append(dst, en.e)
				}
			}
		}
	}
	return dst
}

// cellOf returns the cell containing a world position.
func (g *SpatialGrid) cellOf(pos r2.Vec) cellKey {
	return cellKey{
		col: int(math.Floor(pos.X / g.cellSize)),
		row: int(math.Floor(pos.Y / g.cellSize)),
	}
}
