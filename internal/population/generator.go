// Package population decides what exists in a zone before it is ever visited.
// Everything here is a pure function of the zone coordinates and the catalog.
package population

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/voidfield/voidfield/internal/archetype"
	"github.com/voidfield/voidfield/internal/data"
	"github.com/voidfield/voidfield/internal/zone"
)

// streamTag separates the two PCG words so they are not trivially related.
const streamTag = 0x9e3779b97f4a7c15

// Generator turns zones into populations and spawn coordinates.
type Generator struct {
	grid    zone.Grid
	catalog *data.Catalog
	weights []float64
}

// NewGenerator expects a catalog that passed Validate.
func NewGenerator(g zone.Grid, c *data.Catalog) *Generator {
	return &Generator{grid: g, catalog: c, weights: c.Weights()}
}

// Seed derives the PCG state for z. Stable across calls and processes: it
// depends only on the coordinates and the catalog salt.
func (g *Generator) Seed(z zone.Zone) (uint64, uint64) {
	var buf [16]byte
	binary.LittleEndian.PutUint32(buf[0:], uint32(z.Row))
	binary.LittleEndian.PutUint32(buf[4:], uint32(z.Col))
	binary.LittleEndian.PutUint64(buf[8:], g.catalog.Salt)
	hi := xxhash.Sum64(buf[:])
	return hi, hi ^ streamTag
}

func (g *Generator) source(z zone.Zone) *rand.PCG {
	return rand.NewPCG(g.Seed(z))
}

// Generate draws z's population. Count, sizes and materials all come off one
// seeded stream, so the result for a given zone never changes.
func (g *Generator) Generate(z zone.Zone) Population {
	src := g.source(z)
	rng := rand.New(src)
	c := g.catalog

	n := c.Count.Min + rng.IntN(c.Count.Max-c.Count.Min)
	size := distuv.Binomial{N: float64(c.Size.Trials), P: c.Size.Probability, Src: src}
	kind := distuv.NewCategorical(g.weights, src)

	pop := make(Population)
	for i := 0; i < n; i++ {
		b := int(size.Rand())
		m := c.Materials[int(kind.Rand())].Material
		pop.Add(archetype.Rock{Bulk: uint16((b + 1) * (b + 1)), Material: m})
	}
	return pop
}

// Coordinates returns z's spawn points: the centres of a Grid×Grid lattice
// inside the zone, shuffled with the zone seed.
func (g *Generator) Coordinates(z zone.Zone) *Coordinates {
	n := g.catalog.Grid
	cell := 2 * g.grid.HalfSize / float64(n)
	lo, _ := g.grid.Bounds(z)
	origin := lo.Add(mgl64.Vec2{cell / 2, cell / 2})

	pts := make([]mgl64.Vec2, 0, n*n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			pts = append(pts, origin.Add(mgl64.Vec2{cell * float64(c), cell * float64(r)}))
		}
	}
	rng := rand.New(g.source(z))
	rng.Shuffle(len(pts), func(i, j int) { pts[i], pts[j] = pts[j], pts[i] })
	return &Coordinates{pts: pts}
}

// Coordinates is an endless cycle over a fixed list of points. Asking for more
// points than the lattice holds repeats them in the same order.
type Coordinates struct {
	pts  []mgl64.Vec2
	next int
}

func (c *Coordinates) Next() mgl64.Vec2 {
	p := c.pts[c.next]
	c.next = (c.next + 1) % len(c.pts)
	return p
}

// Len is the number of distinct points in one cycle.
func (c *Coordinates) Len() int { return len(c.pts) }

// Reset restarts the cycle from its first point.
func (c *Coordinates) Reset() { c.next = 0 }

// NextOutside returns the next point farther than radius from centre, trying
// at most one full cycle. It reports false when no point qualifies.
func (c *Coordinates) NextOutside(centre mgl64.Vec2, radius float64) (mgl64.Vec2, bool) {
	for range c.pts {
		p := c.Next()
		if p.Sub(centre).Len() > radius {
			return p, true
		}
	}
	return mgl64.Vec2{}, false
}
