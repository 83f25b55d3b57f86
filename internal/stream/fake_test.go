package stream

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/voidfield/voidfield/internal/archetype"
	"github.com/voidfield/voidfield/internal/core/ecs"
)

type fakeObject struct {
	archetype archetype.Archetype
	pos, vel  mgl64.Vec2
}

// fakeHost is a static world: objects stay where they were created unless a
// test moves them.
type fakeHost struct {
	next    uint32
	objects map[ecs.EntityID]*fakeObject
	created []CreateRequest
	removed []ecs.EntityID
	log     []string

	player    mgl64.Vec2
	hasPlayer bool
}

func newFakeHost() *fakeHost {
	return &fakeHost{objects: make(map[ecs.EntityID]*fakeObject), hasPlayer: true}
}

func (h *fakeHost) Create(a archetype.Archetype, pos, vel mgl64.Vec2) ecs.EntityID {
	h.next++
	id := ecs.NewEntityID(h.next, 0)
	h.objects[id] = &fakeObject{archetype: a, pos: pos, vel: vel}
	h.created = append(h.created, CreateRequest{Archetype: a, Position: pos, Velocity: vel})
	h.log = append(h.log, "create")
	return id
}

func (h *fakeHost) Remove(id ecs.EntityID) {
	delete(h.objects, id)
	h.removed = append(h.removed, id)
	h.log = append(h.log, "remove")
}

func (h *fakeHost) Position(id ecs.EntityID) (mgl64.Vec2, bool) {
	o, ok := h.objects[id]
	if !ok {
		return mgl64.Vec2{}, false
	}
	return o.pos, true
}

func (h *fakeHost) PlayerPosition() (mgl64.Vec2, bool) {
	return h.player, h.hasPlayer
}

// reset forgets what was created and removed so far.
func (h *fakeHost) reset() {
	h.created, h.removed, h.log = nil, nil, nil
}
