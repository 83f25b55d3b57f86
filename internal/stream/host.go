package stream

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/voidfield/voidfield/internal/archetype"
	"github.com/voidfield/voidfield/internal/core/ecs"
)

// ObjectFactory builds and tears down simulated objects on the host side.
// Calls arrive only from the flush phase.
type ObjectFactory interface {
	Create(a archetype.Archetype, pos, vel mgl64.Vec2) ecs.EntityID
	Remove(id ecs.EntityID)
}

// Locator reports where a live object currently is. alive is false once the
// host has destroyed the object for its own reasons.
type Locator interface {
	Position(id ecs.EntityID) (pos mgl64.Vec2, alive bool)
}

// PlayerSource reports the player's position; ok is false when there is no
// player this tick, e.g. after game over.
type PlayerSource interface {
	PlayerPosition() (pos mgl64.Vec2, ok bool)
}
