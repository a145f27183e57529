package clock

import (
	"sync"
	"time"
)

// Clock reports monotonic readings relative to an arbitrary origin.
// Readings never decrease for the lifetime of the process and are not
// affected by wall-clock adjustments.
type Clock interface {
	Now() time.Duration
}

// Monotonic reads the runtime monotonic clock.
type Monotonic struct {
	origin time.Time
}

// NewMonotonic creates a clock whose origin is the moment of the call.
func NewMonotonic() *Monotonic {
	return &Monotonic{origin: time.Now()}
}

// Now returns the time elapsed since the clock origin.
func (monotonic *Monotonic) Now() time.Duration {
	// time.Since uses the monotonic reading carried by origin.
	return time.Since(monotonic.origin)
}

// Manual is a hand-driven clock for tests and replays.
type Manual struct {
	mu  sync.Mutex
	now time.Duration
}

// NewManual creates a manual clock starting at the given reading.
func NewManual(start time.Duration) *Manual {
	return &Manual{now: start}
}

// Now returns the current manual reading.
func (manual *Manual) Now() time.Duration {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	return manual.now
}

// Set moves the clock to value. Earlier values are ignored.
func (manual *Manual) Set(value time.Duration) {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	if value > manual.now {
		manual.now = value
	}
}

// Advance moves the clock forward by delta.
func (manual *Manual) Advance(delta time.Duration) {
	if delta <= 0 {
		return
	}
	manual.mu.Lock()
	manual.now += delta
	manual.mu.Unlock()
}
