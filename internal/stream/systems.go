package stream

import (
	"time"

	"github.com/voidfield/voidfield/internal/core/event"
	coresys "github.com/voidfield/voidfield/internal/core/system"
)

// Systems returns the streaming systems, one per phase. Register them all on
// the host's runner.
func (s *Streamer) Systems() []coresys.System {
	return []coresys.System{
		&SenseSystem{s},
		&DetectSystem{s},
		&DespawnSystem{s},
		&EvictSystem{s},
		&SpawnSystem{s},
		&FlushSystem{s},
	}
}

// SenseSystem reads the player position once for the tick and refreshes where
// tracked objects are. Phase 1 (Sense).
type SenseSystem struct{ s *Streamer }

func (sys *SenseSystem) Phase() coresys.Phase { return coresys.PhaseSense }

func (sys *SenseSystem) Update(_ time.Duration) { sys.s.sense() }

// DetectSystem flags materialized zones that fell behind. Phase 2 (Detect).
type DetectSystem struct{ s *Streamer }

func (sys *DetectSystem) Phase() coresys.Phase { return coresys.PhaseDetect }

func (sys *DetectSystem) Update(_ time.Duration) {
	if sys.s.present {
		sys.s.detect()
	}
}

// DespawnSystem applies the bulk despawns flagged this tick. Phase 3 (Despawn).
type DespawnSystem struct{ s *Streamer }

func (sys *DespawnSystem) Phase() coresys.Phase { return coresys.PhaseDespawn }

func (sys *DespawnSystem) Update(_ time.Duration) {
	if !sys.s.present {
		sys.s.bus.Discard()
		return
	}
	event.Dispatch[event.ZoneDespawn](sys.s.bus)
}

// EvictSystem sweeps single objects beyond the far distance. Phase 4 (Evict).
type EvictSystem struct{ s *Streamer }

func (sys *EvictSystem) Phase() coresys.Phase { return coresys.PhaseEvict }

func (sys *EvictSystem) Update(_ time.Duration) {
	if sys.s.present {
		sys.s.evictFar()
	}
}

// SpawnSystem materializes the player's neighbourhood. Phase 5 (Spawn).
type SpawnSystem struct{ s *Streamer }

func (sys *SpawnSystem) Phase() coresys.Phase { return coresys.PhaseSpawn }

func (sys *SpawnSystem) Update(_ time.Duration) {
	if sys.s.present {
		sys.s.spawn()
	}
}

// FlushSystem hands the tick's queued creations and removals to the host.
// Phase 6 (Flush).
type FlushSystem struct{ s *Streamer }

func (sys *FlushSystem) Phase() coresys.Phase { return coresys.PhaseFlush }

func (sys *FlushSystem) Update(_ time.Duration) { sys.s.flush() }
