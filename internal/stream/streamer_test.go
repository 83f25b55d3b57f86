package stream

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/voidfield/voidfield/internal/archetype"
	"github.com/voidfield/voidfield/internal/config"
	coresys "github.com/voidfield/voidfield/internal/core/system"
	"github.com/voidfield/voidfield/internal/data"
	"github.com/voidfield/voidfield/internal/population"
	"github.com/voidfield/voidfield/internal/world"
	"github.com/voidfield/voidfield/internal/zone"
)

type harness struct {
	host   *fakeHost
	s      *Streamer
	gen    *population.Generator
	runner *coresys.Runner
	logs   *observer.ObservedLogs
}

func newHarness(t *testing.T, catalog *data.Catalog) *harness {
	t.Helper()
	cfg := config.Defaults()
	require.NoError(t, cfg.Validate())
	require.NoError(t, catalog.Validate())

	grid := zone.NewGrid(cfg.Zone.HalfSize)
	gen := population.NewGenerator(grid, catalog)
	host := newFakeHost()
	core, logs := observer.New(zapcore.DebugLevel)

	s := New(grid, cfg.Stream, gen, catalog.MaxSpeed, Deps{
		Factory: host,
		Locator: host,
		Player:  host,
		Log:     zap.New(core),
	})
	r := coresys.NewRunner()
	r.Register(s.Systems()...)
	return &harness{host: host, s: s, gen: gen, runner: r, logs: logs}
}

func (h *harness) tick() { h.runner.Tick(16 * time.Millisecond) }

// uniformCatalog seeds every zone with exactly n identical rocks.
func uniformCatalog(n int) *data.Catalog {
	c := data.DefaultCatalog()
	c.Count = data.CountRange{Min: n, Max: n + 1}
	c.Size = data.SizeDist{Trials: 15, Probability: 0}
	c.Materials = []data.MaterialWeight{{Material: archetype.Stone, Weight: 1}}
	return c
}

var unitStone = archetype.Rock{Bulk: 1, Material: archetype.Stone}

func zonesOf(g zone.Grid, reqs []CreateRequest) map[zone.Zone]int {
	out := map[zone.Zone]int{}
	for _, r := range reqs {
		out[g.Of(r.Position)]++
	}
	return out
}

func TestNoPlayerSkipsAllWork(t *testing.T) {
	h := newHarness(t, data.DefaultCatalog())
	h.host.hasPlayer = false
	for i := 0; i < 3; i++ {
		h.tick()
	}
	assert.Empty(t, h.host.created)
	assert.Equal(t, 0, h.s.Registry().Len())
}

func TestFirstTickMaterializesNeighbourhood(t *testing.T) {
	h := newHarness(t, data.DefaultCatalog())
	h.tick()

	grid := h.s.Grid()
	want := map[zone.Zone]int{}
	for _, z := range grid.Neighbors(zone.Zone{}) {
		assert.Equal(t, world.Materialized, h.s.Registry().State(z).Status)
		want[z] = h.gen.Generate(z).Total()
	}
	assert.Equal(t, want, zonesOf(grid, h.host.created))
	assert.Equal(t, len(h.host.created), h.s.Stats().Live)
	assert.Len(t, h.s.Registry().Materialized(), 9)
}

func TestMovingOneZoneSpawnsOnlyNewNeighbours(t *testing.T) {
	h := newHarness(t, data.DefaultCatalog())
	h.tick()
	h.host.reset()

	h.host.player = mgl64.Vec2{0, 600} // zone (1,0)
	h.tick()

	grid := h.s.Grid()
	assert.Equal(t, zone.Zone{Row: 1, Col: 0}, grid.Of(h.host.player))
	got := zonesOf(grid, h.host.created)
	assert.Equal(t, map[zone.Zone]int{
		{Row: 2, Col: -1}: h.gen.Generate(zone.Zone{Row: 2, Col: -1}).Total(),
		{Row: 2, Col: 0}:  h.gen.Generate(zone.Zone{Row: 2, Col: 0}).Total(),
		{Row: 2, Col: 1}:  h.gen.Generate(zone.Zone{Row: 2, Col: 1}).Total(),
	}, got)
	for _, z := range grid.Neighbors(zone.Zone{Row: 1}) {
		assert.Equal(t, world.Materialized, h.s.Registry().State(z).Status, "zone %v", z)
	}
	assert.Empty(t, h.host.removed)
}

func TestEvictObjectFromMaterializedZone(t *testing.T) {
	h := newHarness(t, data.DefaultCatalog())
	z := zone.Zone{Row: 2, Col: 3}
	h.host.player = h.s.Grid().Center(z)
	h.tick()
	require.Equal(t, world.Materialized, h.s.Registry().State(z).Status)

	ids := h.s.LiveIn(z)
	require.NotEmpty(t, ids)
	k := h.host.objects[ids[0]].archetype

	require.True(t, h.s.EvictObject(ids[0]))
	assert.Equal(t, world.ZoneState{Status: world.Dematerialized, Owed: population.Population{k: 1}}, h.s.Registry().State(z))
	assert.False(t, h.s.Tracked(ids[0]))

	h.tick()
	_, alive := h.host.Position(ids[0])
	assert.False(t, alive, "removal applied at flush")
}

func TestBulkDespawnFoldsEveryObject(t *testing.T) {
	h := newHarness(t, uniformCatalog(5))
	h.tick()
	origin := zone.Zone{}
	require.Len(t, h.s.LiveIn(origin), 5)

	// zone (0,0) centre is now past the despawn distance but its rocks are
	// still inside the far distance, so only the bulk path can take them
	h.host.player = mgl64.Vec2{1800, 0}
	h.tick()

	assert.Equal(t, world.ZoneState{Status: world.Dematerialized, Owed: population.Population{unitStone: 5}}, h.s.Registry().State(origin))
	assert.Empty(t, h.s.LiveIn(origin))
	for id, o := range h.host.objects {
		assert.False(t, h.s.Grid().Contains(origin, o.pos), "object %v still in origin zone", id)
	}
	assert.Positive(t, h.s.Stats().ZoneDespawns)
}

func TestBulkDespawnOfEmptyZone(t *testing.T) {
	h := newHarness(t, uniformCatalog(3))
	h.tick()
	origin := zone.Zone{}
	for _, id := range h.s.LiveIn(origin) {
		delete(h.host.objects, id) // destroyed by gameplay
	}

	h.host.player = mgl64.Vec2{1800, 0}
	h.tick()

	assert.Equal(t, world.ZoneState{Status: world.Dematerialized, Owed: population.Population{}}, h.s.Registry().State(origin))
	assert.Equal(t, uint64(3), h.s.Stats().Vanished)
}

func TestStationaryPlayerOnBoundaryDoesNotThrash(t *testing.T) {
	h := newHarness(t, data.DefaultCatalog())
	for i := 0; i < 60; i++ {
		// hop across the corner shared by zones (0,0) and (1,1)
		if i%2 == 0 {
			h.host.player = mgl64.Vec2{299.5, 299.5}
		} else {
			h.host.player = mgl64.Vec2{300.5, 300.5}
		}
		h.tick()
	}
	st := h.s.Stats()
	assert.Zero(t, st.ZoneDespawns)
	assert.Zero(t, st.Evicted)
	assert.Empty(t, h.host.removed)
	assert.Len(t, h.s.Registry().Materialized(), 14)
}

func TestFarEvictionCatchesDriftedObjects(t *testing.T) {
	h := newHarness(t, data.DefaultCatalog())
	h.tick()

	ids := h.s.LiveIn(zone.Zone{})
	require.NotEmpty(t, ids)
	drifter := h.host.objects[ids[0]]
	drifter.pos = mgl64.Vec2{5000, 0}
	h.tick()

	assert.False(t, h.s.Tracked(ids[0]))
	assert.Contains(t, h.host.removed, ids[0])

	far := h.s.Grid().Of(mgl64.Vec2{5000, 0})
	owed := h.gen.Generate(far)
	owed.Add(drifter.archetype)
	assert.Equal(t, world.ZoneState{Status: world.Dematerialized, Owed: owed}, h.s.Registry().State(far))
	// the home zone is untouched
	assert.Equal(t, world.Materialized, h.s.Registry().State(zone.Zone{}).Status)
}

func TestRespawnRestoresOwedPopulationOnly(t *testing.T) {
	h := newHarness(t, uniformCatalog(4))
	h.tick()
	origin := zone.Zone{}
	ids := h.s.LiveIn(origin)
	require.Len(t, ids, 4)
	delete(h.host.objects, ids[0]) // shot down

	h.host.player = mgl64.Vec2{3000, 0}
	h.tick()
	require.Equal(t, population.Population{unitStone: 3}, h.s.Registry().State(origin).Owed)

	h.host.reset()
	h.host.player = mgl64.Vec2{}
	h.tick()
	assert.Equal(t, world.Materialized, h.s.Registry().State(origin).Status)
	assert.Equal(t, 3, zonesOf(h.s.Grid(), h.host.created)[origin])
	assert.Len(t, h.s.LiveIn(origin), 3)
}

func TestDoubleEvictionIsIgnored(t *testing.T) {
	if strictInvariants {
		t.Skip("debug build panics on invariant violations")
	}
	h := newHarness(t, uniformCatalog(2))
	h.tick()
	id := h.s.LiveIn(zone.Zone{})[0]

	require.True(t, h.s.EvictObject(id))
	before := h.s.Registry().State(zone.Zone{})
	assert.False(t, h.s.EvictObject(id))

	assert.Equal(t, before, h.s.Registry().State(zone.Zone{}))
	assert.Equal(t, uint64(1), h.s.Stats().Violations)
	assert.Equal(t, 1, h.logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestBootstrapKeepsOriginClear(t *testing.T) {
	h := newHarness(t, data.DefaultCatalog())
	h.s.Bootstrap(30)

	origin := zone.Zone{}
	require.Equal(t, world.Materialized, h.s.Registry().State(origin).Status)
	require.Equal(t, h.gen.Generate(origin).Total(), len(h.host.created))
	for _, c := range h.host.created {
		assert.Greater(t, c.Position.Len(), 30.0)
	}

	h.host.reset()
	h.tick()
	assert.Zero(t, zonesOf(h.s.Grid(), h.host.created)[origin], "origin not spawned twice")
}

func TestBootstrapWithoutRoomKeepsWholePopulation(t *testing.T) {
	c := uniformCatalog(5)
	c.Grid = 1 // the only spawn point is the zone centre
	h := newHarness(t, c)
	h.s.Bootstrap(30)

	origin := zone.Zone{}
	st := h.s.Registry().State(origin)
	assert.Equal(t, world.Materialized, st.Status)
	assert.Len(t, h.host.created, 5)
	assert.Equal(t, 5, h.s.Stats().Live)
	assert.Len(t, h.s.LiveIn(origin), 5)
	assert.Equal(t, 1, h.logs.FilterMessage("no spawn point outside clear radius").Len())
}

func TestSpawnIsReproducible(t *testing.T) {
	a := newHarness(t, data.DefaultCatalog())
	b := newHarness(t, data.DefaultCatalog())
	a.tick()
	b.tick()
	assert.Equal(t, a.host.created, b.host.created)
}

func TestSystemsCoverStreamingPhases(t *testing.T) {
	h := newHarness(t, data.DefaultCatalog())
	var phases []coresys.Phase
	for _, sys := range h.s.Systems() {
		phases = append(phases, sys.Phase())
	}
	assert.Equal(t, []coresys.Phase{
		coresys.PhaseSense,
		coresys.PhaseDetect,
		coresys.PhaseDespawn,
		coresys.PhaseEvict,
		coresys.PhaseSpawn,
		coresys.PhaseFlush,
	}, phases)
}
