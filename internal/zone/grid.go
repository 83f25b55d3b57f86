package zone

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Zone is one cell of the infinite square tiling of the plane. Row follows the
// y axis and Col the x axis.
type Zone struct {
	Row int32
	Col int32
}

func (z Zone) Add(dRow, dCol int32) Zone {
	return Zone{Row: z.Row + dRow, Col: z.Col + dCol}
}

// Chebyshev returns the king-move distance between two zones.
func (z Zone) Chebyshev(o Zone) int32 {
	return max(abs32(z.Row-o.Row), abs32(z.Col-o.Col))
}

func (z Zone) String() string {
	return fmt.Sprintf("(%d,%d)", z.Row, z.Col)
}

// Less orders zones row-major; used wherever iteration must be reproducible.
func (z Zone) Less(o Zone) bool {
	if z.Row != o.Row {
		return z.Row < o.Row
	}
	return z.Col < o.Col
}

// adjacent lists neighbourhood offsets with the centre last, matching the
// order zones were historically activated in.
var adjacent = [9][2]int32{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
	{0, 0},
}

// Grid maps continuous positions onto zones of side 2*HalfSize.
type Grid struct {
	HalfSize float64
}

func NewGrid(halfSize float64) Grid {
	return Grid{HalfSize: halfSize}
}

// Of returns the zone containing pos. Coordinates are rounded half up, so each
// zone owns the half-open square [c-h, c+h) on both axes. Zone indices are
// int32: positions past the last zone saturate onto it, and NaN maps to 0.
func (g Grid) Of(pos mgl64.Vec2) Zone {
	return Zone{Row: g.index(pos.Y()), Col: g.index(pos.X())}
}

func (g Grid) index(v float64) int32 {
	f := math.Floor(v/(2*g.HalfSize) + 0.5)
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int32(f)
}

func (g Grid) Center(z Zone) mgl64.Vec2 {
	side := 2 * g.HalfSize
	return mgl64.Vec2{float64(z.Col) * side, float64(z.Row) * side}
}

// Contains reports whether pos lies in z's half-open square. It is defined
// through Of so that every position belongs to exactly one zone even where
// floating point puts a point a hair off a boundary.
func (g Grid) Contains(z Zone, pos mgl64.Vec2) bool {
	return g.Of(pos) == z
}

// Bounds returns the minimum (inclusive) and maximum (exclusive) corners of z.
func (g Grid) Bounds(z Zone) (lo, hi mgl64.Vec2) {
	c := g.Center(z)
	h := mgl64.Vec2{g.HalfSize, g.HalfSize}
	return c.Sub(h), c.Add(h)
}

// Neighbors returns z and its eight Chebyshev-adjacent zones.
func (g Grid) Neighbors(z Zone) [9]Zone {
	var out [9]Zone
	for i, d := range adjacent {
		out[i] = z.Add(d[0], d[1])
	}
	return out
}

// Distance is the Euclidean distance from z's centre to pos.
func (g Grid) Distance(z Zone, pos mgl64.Vec2) float64 {
	return g.Center(z).Sub(pos).Len()
}

// Reach is the farthest a neighbourhood zone's centre can lie from a player
// standing anywhere inside the centre zone: a diagonal neighbour seen from the
// opposite corner, 3h along each axis.
func (g Grid) Reach() float64 {
	return 3 * math.Sqrt2 * g.HalfSize
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
