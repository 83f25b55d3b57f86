package stream

import "go.uber.org/zap"

// violation reports a broken bookkeeping invariant. Debug builds (tag
// streamdebug) panic; release builds log and carry on.
func (s *Streamer) violation(msg string, fields ...zap.Field) {
	s.stats.Violations++
	if strictInvariants {
		panic("stream: " + msg)
	}
	s.log.Warn("streaming invariant violated: "+msg, fields...)
}
