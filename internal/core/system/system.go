package system

import "time"

// Phase orders systems within one tick. Everything that can remove objects runs
// before anything that can create them, so a zone is never spawned and then
// despawned from the same player snapshot.
type Phase int

const (
	PhaseSimulate Phase = iota // 0: host physics moves bodies and the ship
	PhaseSense                 // 1: snapshot player position, refresh spatial index
	PhaseDetect                // 2: find materialized zones past the despawn distance
	PhaseDespawn               // 3: bulk-evict pending zones
	PhaseEvict                 // 4: per-object far eviction sweep
	PhaseSpawn                 // 5: materialize the player's neighbourhood
	PhaseFlush                 // 6: apply queued creations and removals
	PhaseCleanup               // 7: host destroys entities queued for removal
)

var phaseNames = [...]string{"simulate", "sense", "detect", "despawn", "evict", "spawn", "flush", "cleanup"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
