package timer

import (
	"time"

	"chronos/internal/core/clock"
)

// MinDuration is the smallest duration Start accepts.
const MinDuration = time.Millisecond

// Snapshot is the timer state computed at one clock reading.
type Snapshot struct {
	Elapsed   time.Duration
	Remaining time.Duration
	Progress  float64
}

// PauseLedger tracks paused time so it can be excluded from elapsed time.
type PauseLedger struct {
	Accumulated time.Duration
	PausedAt    time.Duration
	Paused      bool
}

// Engine computes elapsed, remaining and progress for one phase run.
// It is not safe for concurrent use.
type Engine struct {
	clock    clock.Clock
	started  time.Duration
	duration time.Duration
	ledger   PauseLedger
}

// New creates an engine reading the given clock.
func New(source clock.Clock) *Engine {
	return &Engine{clock: source}
}

// Start begins a new run of the given duration and clears the pause ledger.
func (engine *Engine) Start(duration time.Duration) {
	if duration < MinDuration {
		duration = MinDuration
	}
	engine.started = engine.clock.Now()
	engine.duration = duration
	engine.ledger = PauseLedger{}
}

// Pause freezes elapsed time. Pausing twice is a no-op.
func (engine *Engine) Pause() {
	if engine.ledger.Paused {
		return
	}
	engine.ledger.Paused = true
	engine.ledger.PausedAt = engine.clock.Now()
}

// Resume commits the current pause interval. It is a no-op when not paused.
func (engine *Engine) Resume() {
	if !engine.ledger.Paused {
		return
	}
	engine.ledger.Accumulated += engine.clock.Now() - engine.ledger.PausedAt
	engine.ledger.Paused = false
	engine.ledger.PausedAt = 0
}

// Paused reports whether a pause is in progress.
func (engine *Engine) Paused() bool {
	return engine.ledger.Paused
}

// Duration returns the duration of the current run.
func (engine *Engine) Duration() time.Duration {
	return engine.duration
}

// Ledger returns a copy of the pause ledger.
func (engine *Engine) Ledger() PauseLedger {
	return engine.ledger
}

// Snapshot computes the timer state at the current clock reading.
func (engine *Engine) Snapshot() Snapshot {
	if engine.duration <= 0 {
		return Snapshot{}
	}

	now := engine.clock.Now()
	var activePause time.Duration
	if engine.ledger.Paused {
		activePause = now - engine.ledger.PausedAt
	}
	elapsed := now - engine.started - engine.ledger.Accumulated - activePause
	if elapsed < 0 {
		elapsed = 0
	}

	remaining := engine.duration - elapsed
	if remaining < 0 {
		remaining = 0
	}
	progress := float64(elapsed) / float64(engine.duration)
	if progress > 1 {
		progress = 1
	}

	return Snapshot{
		Elapsed:   elapsed,
		Remaining: remaining,
		Progress:  progress,
	}
}
