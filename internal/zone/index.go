package zone

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/voidfield/voidfield/internal/core/ecs"
)

type placement struct {
	zone Zone
	pos  mgl64.Vec2
}

// Index tracks which live objects sit in which zone, so a bulk despawn can find
// a zone's objects without scanning the whole world. Accessed only from the
// tick goroutine; no locks.
type Index struct {
	grid  Grid
	cells map[Zone]map[ecs.EntityID]struct{}
	where map[ecs.EntityID]placement
}

func NewIndex(g Grid) *Index {
	return &Index{
		grid:  g,
		cells: make(map[Zone]map[ecs.EntityID]struct{}),
		where: make(map[ecs.EntityID]placement),
	}
}

// Place records id at pos, moving it between cells if its zone changed.
func (x *Index) Place(id ecs.EntityID, pos mgl64.Vec2) {
	z := x.grid.Of(pos)
	if old, ok := x.where[id]; ok && old.zone != z {
		x.leave(id, old.zone)
	}
	cell := x.cells[z]
	if cell == nil {
		cell = make(map[ecs.EntityID]struct{})
		x.cells[z] = cell
	}
	cell[id] = struct{}{}
	x.where[id] = placement{zone: z, pos: pos}
}

// Remove forgets id. Unknown ids are ignored.
func (x *Index) Remove(id ecs.EntityID) {
	p, ok := x.where[id]
	if !ok {
		return
	}
	x.leave(id, p.zone)
	delete(x.where, id)
}

func (x *Index) leave(id ecs.EntityID, z Zone) {
	cell := x.cells[z]
	if cell == nil {
		return
	}
	delete(cell, id)
	if len(cell) == 0 {
		delete(x.cells, z)
	}
}

// Position returns the last position recorded for id.
func (x *Index) Position(id ecs.EntityID) (mgl64.Vec2, bool) {
	p, ok := x.where[id]
	return p.pos, ok
}

// In returns the objects currently indexed inside z, in handle order.
func (x *Index) In(z Zone) []ecs.EntityID {
	cell := x.cells[z]
	if len(cell) == 0 {
		return nil
	}
	out := make([]ecs.EntityID, 0, len(cell))
	for id := range cell {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Count returns the number of objects indexed inside z.
func (x *Index) Count(z Zone) int { return len(x.cells[z]) }

// Len returns the number of indexed objects.
func (x *Index) Len() int { return len(x.where) }
