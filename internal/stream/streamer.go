// Package stream keeps the world populated around the player. Each tick it
// evicts what drifted too far, folding evicted objects back into per-zone
// counts, then materializes the player's 3x3 zone neighbourhood.
package stream

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/voidfield/voidfield/internal/archetype"
	"github.com/voidfield/voidfield/internal/config"
	"github.com/voidfield/voidfield/internal/core/ecs"
	"github.com/voidfield/voidfield/internal/core/event"
	"github.com/voidfield/voidfield/internal/population"
	"github.com/voidfield/voidfield/internal/world"
	"github.com/voidfield/voidfield/internal/zone"
)

// Deps are the host collaborators a Streamer talks to.
type Deps struct {
	Factory ObjectFactory
	Locator Locator
	Player  PlayerSource
	Log     *zap.Logger
}

// Stats is a snapshot of streaming bookkeeping. Counters are cumulative.
type Stats struct {
	Live           int
	Zones          int
	Materialized   int
	Dematerialized int
	Owed           int
	Spawned        uint64
	Evicted        uint64
	Vanished       uint64
	ZoneDespawns   uint64
	Violations     uint64
}

// Streamer owns the zone registry and everything needed to drive it. It is
// not safe for concurrent use; all calls come from the tick goroutine.
type Streamer struct {
	cfg      config.StreamConfig
	grid     zone.Grid
	gen      *population.Generator
	zones    *world.Registry
	ledger   *world.Ledger
	index    *zone.Index
	bus      *event.Bus
	cmds     Commands
	drift    *rand.Rand
	maxSpeed float64

	factory ObjectFactory
	locator Locator
	player  PlayerSource
	log     *zap.Logger

	// read once per tick by the sense phase
	playerPos mgl64.Vec2
	present   bool

	stats Stats
}

func New(grid zone.Grid, cfg config.StreamConfig, gen *population.Generator, maxSpeed float64, deps Deps) *Streamer {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	s := &Streamer{
		cfg:      cfg,
		grid:     grid,
		gen:      gen,
		zones:    world.NewRegistry(),
		ledger:   world.NewLedger(),
		index:    zone.NewIndex(grid),
		bus:      event.NewBus(),
		drift:    rand.New(rand.NewPCG(cfg.DriftSeed, ^cfg.DriftSeed)),
		maxSpeed: maxSpeed,
		factory:  deps.Factory,
		locator:  deps.Locator,
		player:   deps.Player,
		log:      log.Named("stream"),
	}
	event.Subscribe(s.bus, s.despawnZone)
	return s
}

// Registry exposes the zone table for inspection.
func (s *Streamer) Registry() *world.Registry { return s.zones }

// Grid returns the zone geometry in use.
func (s *Streamer) Grid() zone.Grid { return s.grid }

// Tracked reports whether id is a live object this streamer spawned.
func (s *Streamer) Tracked(id ecs.EntityID) bool {
	_, ok := s.ledger.Archetype(id)
	return ok
}

// LiveIn returns the tracked objects last seen inside z.
func (s *Streamer) LiveIn(z zone.Zone) []ecs.EntityID { return s.index.In(z) }

func (s *Streamer) Stats() Stats {
	st := s.stats
	st.Live = s.ledger.Len()
	st.Zones = s.zones.Len()
	st.Materialized, st.Dematerialized, st.Owed = s.zones.Counts()
	return st
}

// Bootstrap materializes the origin zone before the first tick, leaving the
// disc of clearRadius around the origin empty so the ship does not start
// inside a rock. If the lattice has no point outside the disc the remaining
// rocks are placed on it anyway, so the zone still holds its whole
// population. The batch is flushed immediately.
func (s *Streamer) Bootstrap(clearRadius float64) {
	origin := zone.Zone{}
	pop, ok := s.zones.Claim(origin, s.gen.Generate)
	if !ok {
		return
	}
	coords := s.gen.Coordinates(origin)
	centre := s.grid.Center(origin)
	crowded := 0
	for _, e := range pop.Entries() {
		for i := 0; i < e.Count; i++ {
			p, ok := coords.NextOutside(centre, clearRadius)
			if !ok {
				p = coords.Next()
				crowded++
			}
			s.cmds.Create(e.Archetype, p, s.velocity())
		}
	}
	if crowded > 0 {
		s.log.Warn("no spawn point outside clear radius",
			zap.Float64("radius", clearRadius),
			zap.Int("placed_inside", crowded),
		)
	}
	s.log.Debug("bootstrap zone materialized", zap.Stringer("zone", origin), zap.Int("objects", pop.Total()))
	s.flush()
}

// EvictObject removes a tracked object from the world and folds its archetype
// into the count owed by the zone it was last seen in. It reports false, after
// flagging an invariant violation, if id is not tracked.
func (s *Streamer) EvictObject(id ecs.EntityID) bool {
	a, ok := s.ledger.Untrack(id)
	if !ok {
		s.violation("evicting an object that is not live", zap.Uint64("id", uint64(id)))
		return false
	}
	pos, ok := s.index.Position(id)
	s.cmds.Remove(id)
	s.stats.Evicted++
	if !ok {
		s.violation("evicted object has no known position", zap.Uint64("id", uint64(id)), zap.Stringer("archetype", a))
		return true
	}
	s.index.Remove(id)
	s.zones.Fold(s.grid.Of(pos), a, s.gen.Generate)
	return true
}

// sense snapshots the player and refreshes object positions. Objects the host
// destroyed on its own are dropped without being owed back to any zone.
func (s *Streamer) sense() {
	s.playerPos, s.present = s.player.PlayerPosition()
	for _, id := range s.ledger.Handles() {
		pos, alive := s.locator.Position(id)
		if !alive {
			s.ledger.Untrack(id)
			s.index.Remove(id)
			s.stats.Vanished++
			continue
		}
		s.index.Place(id, pos)
	}
}

// detect queues a bulk despawn for each materialized zone whose centre is
// beyond the despawn distance.
func (s *Streamer) detect() {
	for _, z := range s.zones.Materialized() {
		if d := s.grid.Distance(z, s.playerPos); d > s.cfg.DespawnDistance {
			event.Emit(s.bus, event.ZoneDespawn{Zone: z, Distance: d})
		}
	}
}

func (s *Streamer) despawnZone(ev event.ZoneDespawn) {
	ids := s.index.In(ev.Zone)
	for _, id := range ids {
		s.EvictObject(id)
	}
	s.zones.Vacate(ev.Zone)
	s.stats.ZoneDespawns++
	s.log.Debug("zone dematerialized",
		zap.Stringer("zone", ev.Zone),
		zap.Int("evicted", len(ids)),
		zap.Float64("distance", ev.Distance),
	)
}

// evictFar removes single objects beyond the far distance, whatever their
// zone's state. It catches objects that drifted away from their home zone.
func (s *Streamer) evictFar() {
	for _, id := range s.ledger.Handles() {
		pos, ok := s.index.Position(id)
		if ok && pos.Sub(s.playerPos).Len() > s.cfg.FarDistance {
			s.EvictObject(id)
		}
	}
}

// spawn materializes every zone in the player's neighbourhood that is not
// already materialized.
func (s *Streamer) spawn() {
	for _, z := range s.grid.Neighbors(s.grid.Of(s.playerPos)) {
		s.spawnZone(z)
	}
}

func (s *Streamer) spawnZone(z zone.Zone) bool {
	pop, ok := s.zones.Claim(z, s.gen.Generate)
	if !ok {
		return false
	}
	coords := s.gen.Coordinates(z)
	for _, e := range pop.Entries() {
		for i := 0; i < e.Count; i++ {
			s.cmds.Create(e.Archetype, coords.Next(), s.velocity())
		}
	}
	s.log.Debug("zone materialized", zap.Stringer("zone", z), zap.Int("objects", pop.Total()))
	return true
}

func (s *Streamer) velocity() mgl64.Vec2 {
	return archetype.DriftVelocity(s.drift, s.maxSpeed)
}

func (s *Streamer) flush() {
	created, _ := s.cmds.Flush(s.factory, func(id ecs.EntityID, req CreateRequest) {
		s.ledger.Track(id, req.Archetype)
		s.index.Place(id, req.Position)
	})
	s.stats.Spawned += uint64(created)
}
