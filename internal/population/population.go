package population

import (
	"slices"

	"github.com/voidfield/voidfield/internal/archetype"
)

// Population is how many objects of each archetype a zone is owed.
type Population map[archetype.Archetype]int

// Entry is one archetype and its count.
type Entry struct {
	Archetype archetype.Archetype
	Count     int
}

// Total is the number of objects across all archetypes.
func (p Population) Total() int {
	n := 0
	for _, c := range p {
		n += c
	}
	return n
}

// Add increments a's count, inserting it at 1 if absent.
func (p Population) Add(a archetype.Archetype) { p[a]++ }

// AddN increments a's count by n.
func (p Population) AddN(a archetype.Archetype, n int) {
	if n <= 0 {
		return
	}
	p[a] += n
}

func (p Population) Clone() Population {
	out := make(Population, len(p))
	for a, c := range p {
		out[a] = c
	}
	return out
}

// Entries lists non-empty counts in archetype order so placement of a
// population is reproducible.
func (p Population) Entries() []Entry {
	out := make([]Entry, 0, len(p))
	for a, c := range p {
		if c > 0 {
			out = append(out, Entry{Archetype: a, Count: c})
		}
	}
	slices.SortFunc(out, func(x, y Entry) int { return archetype.Compare(x.Archetype, y.Archetype) })
	return out
}
