// internal/status/tracker.go
package status

import (
	"time"

	"github.com/tamzrod/am2-bridge/internal/poller"
)

// Tracker derives the health of one device from its read passes.
// Not safe for concurrent use.
type Tracker struct {
	last     Snapshot
	errSince time.Time // zero while healthy
}

// NewTracker starts in HealthUnknown.
func NewTracker() *Tracker {
	return &Tracker{last: Snapshot{Health: HealthUnknown}}
}

// Last returns the most recent snapshot.
func (t *Tracker) Last() Snapshot { return t.last }

// Observe folds one pass taken at time at into the device health.
// changed reports whether the snapshot differs from the previous one.
func (t *Tracker) Observe(pass poller.PassResult, at time.Time) (Snapshot, bool) {
	s := Snapshot{FailedReads: pass.Failed}

	switch {
	case pass.Failed == 0:
		s.Health = HealthOK
	case pass.Failed >= pass.Attempted():
		s.Health = HealthError
	default:
		s.Health = HealthStale
	}

	if s.Health == HealthOK {
		t.errSince = time.Time{}
	} else {
		if t.errSince.IsZero() {
			t.errSince = at
		}
		s.SecondsInError = clampSeconds(at.Sub(t.errSince))
	}

	changed := s != t.last
	t.last = s
	return s, changed
}

// ------------------------------------------------------------
// HARD INVARIANT: seconds_in_error MUST NOT wrap
// ------------------------------------------------------------
func clampSeconds(d time.Duration) uint16 {
	sec := int64(d / time.Second)
	if sec < 0 {
		return 0
	}
	if sec > MaxSecondsInError {
		return MaxSecondsInError
	}
	return uint16(sec)
}
