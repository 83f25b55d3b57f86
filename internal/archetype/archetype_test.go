package archetype

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRockIsComparableKey(t *testing.T) {
	m := map[Archetype]int{}
	m[Rock{Bulk: 4, Material: Ice}]++
	m[Rock{Bulk: 4, Material: Ice}]++
	m[Rock{Bulk: 4, Material: Metal}]++
	assert.Equal(t, 2, m[Rock{Bulk: 4, Material: Ice}])
	assert.Len(t, m, 2)
}

func TestCompareIsTotal(t *testing.T) {
	rocks := []Archetype{
		Rock{Bulk: 9, Material: Stone},
		Rock{Bulk: 1, Material: Metal},
		Rock{Bulk: 1, Material: Stone},
		Rock{Bulk: 4, Material: Ice},
	}
	slices.SortFunc(rocks, Compare)
	assert.Equal(t, []Archetype{
		Rock{Bulk: 1, Material: Stone},
		Rock{Bulk: 1, Material: Metal},
		Rock{Bulk: 4, Material: Ice},
		Rock{Bulk: 9, Material: Stone},
	}, rocks)
	assert.Equal(t, 0, Compare(Rock{Bulk: 4}, Rock{Bulk: 4}))
}

func TestParseMaterial(t *testing.T) {
	m, err := ParseMaterial("Metal")
	require.NoError(t, err)
	assert.Equal(t, Metal, m)

	_, err = ParseMaterial("cheese")
	assert.Error(t, err)

	var u Material
	require.NoError(t, u.UnmarshalText([]byte("ice")))
	assert.Equal(t, Ice, u)
}

func TestResolveRockScalesWithBulk(t *testing.T) {
	small := Resolve(Rock{Bulk: 1, Material: Stone})
	big := Resolve(Rock{Bulk: 16, Material: Metal})

	assert.Equal(t, 10, small.Health)
	assert.Equal(t, 160, big.Health)
	assert.InDelta(t, 2.5, small.Radius, 1e-9)
	assert.InDelta(t, 10.0, big.Radius, 1e-9)
	assert.Equal(t, "rock_metal", big.Sprite)
	assert.Equal(t, 1, big.CollisionDamage)
}

func TestDriftVelocityBoundedAndReproducible(t *testing.T) {
	a := rand.New(rand.NewPCG(1, 2))
	b := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 1000; i++ {
		va := DriftVelocity(a, 5)
		vb := DriftVelocity(b, 5)
		require.Equal(t, va, vb)
		require.Less(t, va.Len(), 5.0+1e-9)
	}
	assert.Equal(t, 0.0, DriftVelocity(a, 0).Len())
}
