package event

import "github.com/voidfield/voidfield/internal/zone"

// ZoneDespawn asks for every live object inside Zone to be evicted. Emitted by
// the detect phase, consumed by the despawn phase of the same tick.
type ZoneDespawn struct {
	Zone     zone.Zone
	Distance float64 // centre-to-player distance when detected
}
