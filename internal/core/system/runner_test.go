package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	name  string
	phase Phase
	log   *[]string
}

func (r recorder) Phase() Phase { return r.phase }
func (r recorder) Update(_ time.Duration) { *r.log = append(*r.log, r.name) }

func TestRunnerOrdersByPhaseThenRegistration(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(
		recorder{"spawn", PhaseSpawn, &log},
		recorder{"flush", PhaseFlush, &log},
		recorder{"despawn", PhaseDespawn, &log},
		recorder{"detect", PhaseDetect, &log},
		recorder{"spawn-b", PhaseSpawn, &log},
		recorder{"sense", PhaseSense, &log},
	)
	r.Tick(time.Millisecond)
	assert.Equal(t, []string{"sense", "detect", "despawn", "spawn", "spawn-b", "flush"}, log)
	assert.Equal(t, uint64(1), r.Ticks())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "evict", PhaseEvict.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
