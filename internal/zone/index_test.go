package zone

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"github.com/voidfield/voidfield/internal/core/ecs"
)

func TestIndexTracksMovesBetweenZones(t *testing.T) {
	x := NewIndex(NewGrid(100))
	a, b := ecs.NewEntityID(1, 0), ecs.NewEntityID(2, 0)

	x.Place(a, mgl64.Vec2{10, 10})
	x.Place(b, mgl64.Vec2{-20, 50})
	assert.Equal(t, []ecs.EntityID{a, b}, x.In(Zone{}))

	x.Place(a, mgl64.Vec2{210, 10})
	assert.Equal(t, []ecs.EntityID{b}, x.In(Zone{}))
	assert.Equal(t, []ecs.EntityID{a}, x.In(Zone{Col: 1}))

	pos, ok := x.Position(a)
	assert.True(t, ok)
	assert.Equal(t, mgl64.Vec2{210, 10}, pos)

	x.Remove(b)
	x.Remove(b)
	assert.Nil(t, x.In(Zone{}))
	assert.Equal(t, 0, x.Count(Zone{}))
	assert.Equal(t, 1, x.Len())
}
