package world

import (
	"slices"

	"github.com/voidfield/voidfield/internal/archetype"
	"github.com/voidfield/voidfield/internal/core/ecs"
)

// Ledger is the streamer's accounting of which live objects it spawned and
// what archetype each one was. The objects themselves belong to the host.
type Ledger struct {
	live map[ecs.EntityID]archetype.Archetype
}

func NewLedger() *Ledger {
	return &Ledger{live: make(map[ecs.EntityID]archetype.Archetype, 1024)}
}

func (l *Ledger) Track(id ecs.EntityID, a archetype.Archetype) {
	l.live[id] = a
}

// Untrack forgets id and returns its archetype; false if id was not tracked.
func (l *Ledger) Untrack(id ecs.EntityID) (archetype.Archetype, bool) {
	a, ok := l.live[id]
	if ok {
		delete(l.live, id)
	}
	return a, ok
}

func (l *Ledger) Archetype(id ecs.EntityID) (archetype.Archetype, bool) {
	a, ok := l.live[id]
	return a, ok
}

func (l *Ledger) Len() int { return len(l.live) }

// Handles returns every tracked handle in ascending order.
func (l *Ledger) Handles() []ecs.EntityID {
	out := make([]ecs.EntityID, 0, len(l.live))
	for id := range l.live {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
