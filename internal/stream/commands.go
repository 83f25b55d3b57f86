package stream

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/voidfield/voidfield/internal/archetype"
	"github.com/voidfield/voidfield/internal/core/ecs"
)

// CreateRequest is one queued object creation.
type CreateRequest struct {
	Archetype archetype.Archetype
	Position  mgl64.Vec2
	Velocity  mgl64.Vec2
}

// Commands buffers creations and removals until the flush point so that
// nothing reading the host world mid-tick sees a half-applied batch.
type Commands struct {
	creates []CreateRequest
	removes []ecs.EntityID
}

func (c *Commands) Create(a archetype.Archetype, pos, vel mgl64.Vec2) {
	c.creates = append(c.creates, CreateRequest{Archetype: a, Position: pos, Velocity: vel})
}

func (c *Commands) Remove(id ecs.EntityID) {
	c.removes = append(c.removes, id)
}

// Pending returns queued creations and removals.
func (c *Commands) Pending() (creates, removes int) {
	return len(c.creates), len(c.removes)
}

// Flush hands removals, then creations, to f and empties the buffer. created
// is called with each new handle in queue order.
func (c *Commands) Flush(f ObjectFactory, created func(ecs.EntityID, CreateRequest)) (nCreated, nRemoved int) {
	for _, id := range c.removes {
		f.Remove(id)
	}
	for _, req := range c.creates {
		id := f.Create(req.Archetype, req.Position, req.Velocity)
		if created != nil {
			created(id, req)
		}
	}
	nCreated, nRemoved = len(c.creates), len(c.removes)
	c.creates = c.creates[:0]
	c.removes = c.removes[:0]
	return nCreated, nRemoved
}
