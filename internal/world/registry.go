package world

import (
	"slices"

	"github.com/voidfield/voidfield/internal/archetype"
	"github.com/voidfield/voidfield/internal/population"
	"github.com/voidfield/voidfield/internal/zone"
)

// Status is a zone's lifecycle state. Unvisited zones have no registry entry.
type Status uint8

const (
	Unvisited Status = iota
	Materialized
	Dematerialized
)

func (s Status) String() string {
	switch s {
	case Materialized:
		return "materialized"
	case Dematerialized:
		return "dematerialized"
	default:
		return "unvisited"
	}
}

// ZoneState is a registry entry. Owed is only meaningful when Dematerialized:
// it records what must be placed to restore an equivalent population.
type ZoneState struct {
	Status Status
	Owed   population.Population
}

// GenerateFunc produces a zone's initial population.
type GenerateFunc func(zone.Zone) population.Population

// Registry is the authoritative zone → state table. It is owned by one
// streamer and mutated only from its tick systems. Entries are never deleted.
type Registry struct {
	zones map[zone.Zone]*ZoneState
}

func NewRegistry() *Registry {
	return &Registry{zones: make(map[zone.Zone]*ZoneState, 64)}
}

// State returns z's state; a zero ZoneState (Unvisited) if z was never seen.
func (r *Registry) State(z zone.Zone) ZoneState {
	if s, ok := r.zones[z]; ok {
		return *s
	}
	return ZoneState{}
}

// Claim is the spawn transition. An unvisited zone gets a fresh population
// from gen; a dematerialized zone hands back what it is owed. Either way the
// zone becomes materialized and the population to place is returned. Claiming
// a materialized zone is a no-op and reports false.
func (r *Registry) Claim(z zone.Zone, gen GenerateFunc) (population.Population, bool) {
	s, ok := r.zones[z]
	switch {
	case !ok:
		r.zones[z] = &ZoneState{Status: Materialized}
		return gen(z), true
	case s.Status == Materialized:
		return nil, false
	default:
		owed := s.Owed
		s.Status, s.Owed = Materialized, nil
		if owed == nil {
			owed = population.Population{}
		}
		return owed, true
	}
}

// Fold records that one object of archetype a was evicted from z. A
// materialized zone drops to dematerialized owing just that object; a
// dematerialized zone owes one more. An object that drifted into a zone
// nobody ever spawned is added on top of that zone's generated population.
func (r *Registry) Fold(z zone.Zone, a archetype.Archetype, gen GenerateFunc) {
	s, ok := r.zones[z]
	switch {
	case !ok:
		owed := gen(z)
		owed.Add(a)
		r.zones[z] = &ZoneState{Status: Dematerialized, Owed: owed}
	case s.Status == Materialized:
		s.Status, s.Owed = Dematerialized, population.Population{a: 1}
	default:
		if s.Owed == nil {
			s.Owed = population.Population{}
		}
		s.Owed.Add(a)
	}
}

// Vacate closes out a bulk despawn: a zone still materialized after its
// objects were evicted (because it had none) becomes dematerialized with an
// empty population. A dematerialized zone keeps what it owes.
func (r *Registry) Vacate(z zone.Zone) {
	s, ok := r.zones[z]
	if !ok {
		r.zones[z] = &ZoneState{Status: Dematerialized, Owed: population.Population{}}
		return
	}
	if s.Status == Materialized {
		s.Status, s.Owed = Dematerialized, population.Population{}
	}
}

// Materialized lists materialized zones in row-major order.
func (r *Registry) Materialized() []zone.Zone {
	var out []zone.Zone
	for z, s := range r.zones {
		if s.Status == Materialized {
			out = append(out, z)
		}
	}
	slices.SortFunc(out, compareZones)
	return out
}

// Each visits every known zone in row-major order.
func (r *Registry) Each(fn func(zone.Zone, ZoneState)) {
	keys := make([]zone.Zone, 0, len(r.zones))
	for z := range r.zones {
		keys = append(keys, z)
	}
	slices.SortFunc(keys, compareZones)
	for _, z := range keys {
		fn(z, *r.zones[z])
	}
}

// Len is the number of zones ever visited.
func (r *Registry) Len() int { return len(r.zones) }

// Counts tallies zones by status and the objects owed by dematerialized zones.
func (r *Registry) Counts() (materialized, dematerialized, owed int) {
	for _, s := range r.zones {
		if s.Status == Materialized {
			materialized++
			continue
		}
		dematerialized++
		owed += s.Owed.Total()
	}
	return materialized, dematerialized, owed
}

func compareZones(a, b zone.Zone) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	}
	return 0
}
