package sim

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/voidfield/voidfield/internal/core/ecs"
	coresys "github.com/voidfield/voidfield/internal/core/system"
)

// MovementSystem integrates every body's velocity. Phase 0 (Simulate).
type MovementSystem struct {
	world *World
}

func NewMovementSystem(w *World) *MovementSystem {
	return &MovementSystem{world: w}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseSimulate }

func (s *MovementSystem) Update(dt time.Duration) {
	secs := dt.Seconds()
	s.world.bodies.Each(func(_ ecs.EntityID, b *Body) {
		b.Pos = b.Pos.Add(b.Vel.Mul(secs))
	})
}

// PilotSystem flies the ship in straight legs, picking a fresh heading from a
// seeded stream every interval. Register it before MovementSystem so a new
// heading applies to the same tick. Phase 0 (Simulate).
type PilotSystem struct {
	world    *World
	rng      *rand.Rand
	speed    float64
	interval time.Duration
	elapsed  time.Duration
	started  bool
}

func NewPilotSystem(w *World, speed float64, interval time.Duration, seed uint64) *PilotSystem {
	return &PilotSystem{
		world:    w,
		rng:      rand.New(rand.NewPCG(seed, seed+1)),
		speed:    speed,
		interval: interval,
	}
}

func (s *PilotSystem) Phase() coresys.Phase { return coresys.PhaseSimulate }

func (s *PilotSystem) Update(dt time.Duration) {
	s.elapsed += dt
	if s.started && s.elapsed < s.interval {
		return
	}
	s.started = true
	s.elapsed = 0
	heading := s.rng.Float64() * 2 * math.Pi
	if ship, ok := s.world.ships.Get(s.world.player); ok {
		ship.Heading = heading
	}
	s.world.Steer(mgl64.Vec2{math.Cos(heading), math.Sin(heading)}.Mul(s.speed))
}

// CleanupSystem flushes the deferred destruction queue at tick end.
// Phase 7 (Cleanup).
type CleanupSystem struct {
	world *World
}

func NewCleanupSystem(w *World) *CleanupSystem {
	return &CleanupSystem{world: w}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.world.ecs.FlushDestroyQueue()
}
