package introspect

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"chronos/internal/core/model"
	"chronos/internal/core/timer"
	"chronos/internal/ui/animation"

	"golang.org/x/time/rate"
)

// DefaultRefreshRate bounds how often the overlay is redrawn.
const DefaultRefreshRate = rate.Limit(10)

// Source exposes the live session state.
type Source interface {
	Phase() model.Phase
	Paused() bool
	Duration() time.Duration
	Snapshot() timer.Snapshot
}

// AnimationSource exposes the live frame loop state.
type AnimationSource interface {
	Stats() animation.Stats
}

// Snapshot is one read of the internal timer and animation state.
type Snapshot struct {
	Phase            model.Phase
	Paused           bool
	Duration         time.Duration
	Elapsed          time.Duration
	Remaining        time.Duration
	Progress         float64
	AnimatedProgress float64
	FPS              float64
}

// String renders the snapshot as overlay text.
func (snapshot Snapshot) String() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "phase: %s\n", snapshot.Phase)
	fmt.Fprintf(&builder, "paused: %t\n", snapshot.Paused)
	fmt.Fprintf(&builder, "durationMs: %d\n", snapshot.Duration.Milliseconds())
	fmt.Fprintf(&builder, "elapsedMs: %d\n", snapshot.Elapsed.Milliseconds())
	fmt.Fprintf(&builder, "remainingMs: %d\n", snapshot.Remaining.Milliseconds())
	fmt.Fprintf(&builder, "progress: %.6f\n", snapshot.Progress)
	fmt.Fprintf(&builder, "animProgress: %.6f\n", snapshot.AnimatedProgress)
	fmt.Fprintf(&builder, "fps: %.1f", snapshot.FPS)
	return builder.String()
}

// Probe reads diagnostics without affecting the session.
type Probe struct {
	source    Source
	animation AnimationSource

	mu      sync.Mutex
	visible bool
	limiter *rate.Limiter
	publish func(Snapshot)
}

// NewProbe creates a hidden probe. publish receives throttled snapshots
// while the probe is visible; it may be nil.
func NewProbe(source Source, animation AnimationSource, refresh rate.Limit, publish func(Snapshot)) *Probe {
	if refresh <= 0 {
		refresh = DefaultRefreshRate
	}
	if publish == nil {
		publish = func(Snapshot) {}
	}
	return &Probe{
		source:    source,
		animation: animation,
		limiter:   rate.NewLimiter(refresh, 1),
		publish:   publish,
	}
}

// Read returns the current snapshot.
func (probe *Probe) Read() Snapshot {
	timerSnapshot := probe.source.Snapshot()
	snapshot := Snapshot{
		Phase:     probe.source.Phase(),
		Paused:    probe.source.Paused(),
		Duration:  probe.source.Duration(),
		Elapsed:   timerSnapshot.Elapsed,
		Remaining: timerSnapshot.Remaining,
		Progress:  timerSnapshot.Progress,
	}
	if probe.animation != nil {
		stats := probe.animation.Stats()
		snapshot.AnimatedProgress = stats.AnimatedProgress
		snapshot.FPS = stats.FPS
	}
	return snapshot
}

// Toggle flips overlay visibility and returns the new state. Showing the
// overlay publishes a snapshot immediately.
func (probe *Probe) Toggle() bool {
	probe.mu.Lock()
	probe.visible = !probe.visible
	visible := probe.visible
	probe.mu.Unlock()

	if visible {
		probe.publish(probe.Read())
	}
	return visible
}

// Visible reports whether the overlay is shown.
func (probe *Probe) Visible() bool {
	probe.mu.Lock()
	defer probe.mu.Unlock()
	return probe.visible
}

// Refresh publishes a snapshot when visible and the refresh budget allows.
// It reports whether a snapshot was published.
func (probe *Probe) Refresh() bool {
	if !probe.Visible() || !probe.limiter.Allow() {
		return false
	}
	probe.publish(probe.Read())
	return true
}
