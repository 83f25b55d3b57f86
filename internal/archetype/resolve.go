package archetype

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	rockRadiusMod = 2.5
	rockLifeMod   = 10
)

// Blueprint is what a host needs to assemble a simulated object: its visual
// and physical footprint and its gameplay stats.
type Blueprint struct {
	Sprite          string
	Radius          float64
	ColliderRadius  float64
	Density         float64
	Health          int
	CollisionDamage int
}

// Resolve maps an archetype onto its blueprint. Adding a variant without a
// case here panics on first use; the sealed interface keeps the set small
// enough that the switch stays the single place to extend.
func Resolve(a Archetype) Blueprint {
	switch a := a.(type) {
	case Rock:
		return Blueprint{
			Sprite:          "rock_" + a.Material.String(),
			Radius:          math.Sqrt(float64(a.Bulk)) * rockRadiusMod,
			ColliderRadius:  1,
			Density:         1,
			Health:          int(a.Bulk) * rockLifeMod,
			CollisionDamage: 1,
		}
	default:
		panic(fmt.Sprintf("archetype: no blueprint for %T", a))
	}
}

// DriftVelocity picks a random heading and a speed in [0, maxSpeed).
func DriftVelocity(rng *rand.Rand, maxSpeed float64) mgl64.Vec2 {
	dir := mgl64.Vec2{rng.Float64()*2 - 1, rng.Float64()*2 - 1}
	l := dir.Len()
	if l == 0 || maxSpeed <= 0 {
		return mgl64.Vec2{}
	}
	return dir.Mul(rng.Float64() * maxSpeed / l)
}
