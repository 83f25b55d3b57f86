// Package archetype defines the closed set of things the streamer can spawn and
// resolves each one into the components a host needs to build it.
package archetype

import (
	"cmp"
	"fmt"
	"strings"
)

// Archetype identifies one spawnable variant. The set of implementations is
// closed: only types in this package can satisfy it, and Resolve switches over
// all of them. Values are comparable and serve as population map keys.
type Archetype interface {
	fmt.Stringer
	sealed()
}

// Material is the composition of a rock.
type Material uint8

const (
	Stone Material = iota
	Ice
	Metal
)

var materialNames = [...]string{"stone", "ice", "metal"}

func (m Material) String() string {
	if int(m) < len(materialNames) {
		return materialNames[m]
	}
	return fmt.Sprintf("material(%d)", uint8(m))
}

// ParseMaterial maps a catalog name onto a Material.
func ParseMaterial(s string) (Material, error) {
	for i, n := range materialNames {
		if strings.EqualFold(s, n) {
			return Material(i), nil
		}
	}
	return 0, fmt.Errorf("unknown material %q", s)
}

func (m Material) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Material) UnmarshalText(b []byte) error {
	v, err := ParseMaterial(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Rock is an asteroid of a given bulk and material.
type Rock struct {
	Bulk     uint16
	Material Material
}

func (Rock) sealed() {}

func (r Rock) String() string {
	return fmt.Sprintf("rock(%s,%d)", r.Material, r.Bulk)
}

// Compare gives archetypes a total order so populations can be walked
// reproducibly. Variants order by kind first.
func Compare(a, b Archetype) int {
	if c := cmp.Compare(kindOf(a), kindOf(b)); c != 0 {
		return c
	}
	switch a := a.(type) {
	case Rock:
		b := b.(Rock)
		if c := cmp.Compare(a.Bulk, b.Bulk); c != 0 {
			return c
		}
		return cmp.Compare(a.Material, b.Material)
	default:
		panic(fmt.Sprintf("archetype: unhandled variant %T", a))
	}
}

func kindOf(a Archetype) int {
	switch a.(type) {
	case Rock:
		return 0
	default:
		panic(fmt.Sprintf("archetype: unhandled variant %T", a))
	}
}
