// Package sim is a minimal host world for the streamer: rocks and a ship that
// drift in a plane. It stands in for the game's physics and rendering.
package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/voidfield/voidfield/internal/archetype"
	"github.com/voidfield/voidfield/internal/core/ecs"
)

// Body is an entity's kinematic state.
type Body struct {
	Pos mgl64.Vec2
	Vel mgl64.Vec2
}

// Kind records what a streamed entity was built from.
type Kind struct {
	Archetype archetype.Archetype
	Blueprint archetype.Blueprint
}

// Ship marks the player entity.
type Ship struct {
	Heading float64 // radians
}

// World implements stream.ObjectFactory, stream.Locator and
// stream.PlayerSource on top of the ECS. Accessed only from the tick
// goroutine.
type World struct {
	ecs    *ecs.World
	bodies *ecs.Store[Body]
	kinds  *ecs.Store[Kind]
	ships  *ecs.Store[Ship]
	player ecs.EntityID
	log    *zap.Logger
}

func NewWorld(log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	w := &World{
		ecs:    ecs.NewWorld(),
		bodies: ecs.NewStore[Body](),
		kinds:  ecs.NewStore[Kind](),
		ships:  ecs.NewStore[Ship](),
		log:    log.Named("sim"),
	}
	w.ecs.Register(w.bodies)
	w.ecs.Register(w.kinds)
	w.ecs.Register(w.ships)
	return w
}

// Create assembles an entity from an archetype's blueprint.
func (w *World) Create(a archetype.Archetype, pos, vel mgl64.Vec2) ecs.EntityID {
	id := w.ecs.CreateEntity()
	w.bodies.Set(id, &Body{Pos: pos, Vel: vel})
	w.kinds.Set(id, &Kind{Archetype: a, Blueprint: archetype.Resolve(a)})
	return id
}

// Remove queues id for destruction at the cleanup phase.
func (w *World) Remove(id ecs.EntityID) {
	if !w.ecs.Alive(id) {
		w.log.Debug("remove of dead entity", zap.Uint64("id", uint64(id)))
		return
	}
	w.ecs.MarkForDestruction(id)
}

// Destroy is gameplay destruction (shot down, crushed). The streamer notices
// the entity is gone on its next sense phase and owes nothing back for it.
func (w *World) Destroy(id ecs.EntityID) { w.Remove(id) }

func (w *World) Position(id ecs.EntityID) (mgl64.Vec2, bool) {
	if !w.ecs.Alive(id) || w.ecs.Doomed(id) {
		return mgl64.Vec2{}, false
	}
	b, ok := w.bodies.Get(id)
	if !ok {
		return mgl64.Vec2{}, false
	}
	return b.Pos, true
}

// SpawnPlayer creates the player at pos, replacing any previous ship.
func (w *World) SpawnPlayer(pos mgl64.Vec2) ecs.EntityID {
	if !w.player.IsZero() {
		w.ecs.MarkForDestruction(w.player)
	}
	id := w.ecs.CreateEntity()
	w.bodies.Set(id, &Body{Pos: pos})
	w.ships.Set(id, &Ship{})
	w.player = id
	return id
}

// KillPlayer is game over: the ship and every rock go at the next cleanup.
// The streamer sees the rocks as vanished, so no zone is owed them, and it
// idles until a new ship spawns.
func (w *World) KillPlayer() {
	if w.player.IsZero() {
		return
	}
	w.ecs.MarkForDestruction(w.player)
	w.player = 0
	w.kinds.Each(func(id ecs.EntityID, _ *Kind) {
		w.ecs.MarkForDestruction(id)
	})
}

func (w *World) PlayerPosition() (mgl64.Vec2, bool) {
	if w.player.IsZero() {
		return mgl64.Vec2{}, false
	}
	return w.Position(w.player)
}

// Steer sets the ship's velocity.
func (w *World) Steer(vel mgl64.Vec2) {
	if b, ok := w.bodies.Get(w.player); ok {
		b.Vel = vel
	}
}

// Rocks returns how many streamed entities exist.
func (w *World) Rocks() int { return w.kinds.Len() }

// Census counts live rocks per material.
func (w *World) Census() map[archetype.Material]int {
	out := make(map[archetype.Material]int)
	ecs.Each2(w.kinds, w.bodies, func(_ ecs.EntityID, k *Kind, _ *Body) {
		if r, ok := k.Archetype.(archetype.Rock); ok {
			out[r.Material]++
		}
	})
	return out
}

// Kind returns what id was built from.
func (w *World) Kind(id ecs.EntityID) (Kind, bool) {
	k, ok := w.kinds.Get(id)
	if !ok {
		return Kind{}, false
	}
	return *k, true
}
