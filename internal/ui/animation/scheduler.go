package animation

import (
	"time"

	"chronos/internal/core/model"
	"chronos/internal/core/timer"

	"github.com/rs/zerolog"
)

// Config contains the frame policy of the scheduler.
type Config struct {
	DefaultFrameDelta time.Duration
	MaxFrameDelta     time.Duration
	ResponseTime      time.Duration
	SnapEpsilon       float64
	FPSWindow         time.Duration
	SleepGapWarn      time.Duration

	Logger *zerolog.Logger
}

// Session is the authoritative timer and phase the scheduler follows.
type Session interface {
	Phase() model.Phase
	Snapshot() timer.Snapshot
	CompletePhase(phase model.Phase) bool
}

// Frame is the render payload of one animation frame.
type Frame struct {
	Phase            model.Phase
	AnimatedProgress float64
	Progress         float64
	Remaining        time.Duration
	Elapsed          time.Duration
	Final            bool
}

// Stats is the live scheduler state for diagnostics.
type Stats struct {
	Phase            model.Phase
	Running          bool
	Paused           bool
	AnimatedProgress float64
	FPS              float64
	Frames           uint64
}

// Scheduler runs the per-frame smoothing loop of a timed phase.
//
// It is cooperative: each frame does its work and requests the next one
// from the FrameSource. All methods and frames must run on one goroutine.
type Scheduler struct {
	config  Config
	source  FrameSource
	session Session
	render  func(Frame)
	logger  zerolog.Logger

	target     model.Phase
	generation uint64
	pending    FrameID
	hasPending bool
	running    bool
	paused     bool

	animated     float64
	lastFrame    time.Duration
	hasLastFrame bool
	fpsAccum     time.Duration
	fpsFrames    int
	fps          float64
	frameTotal   uint64
}

// New creates a scheduler. render may be nil.
func New(session Session, source FrameSource, render func(Frame), config Config) *Scheduler {
	defaults := DefaultConfig()
	if config.DefaultFrameDelta <= 0 {
		config.DefaultFrameDelta = defaults.DefaultFrameDelta
	}
	if config.MaxFrameDelta <= 0 {
		config.MaxFrameDelta = defaults.MaxFrameDelta
	}
	if config.ResponseTime <= 0 {
		config.ResponseTime = defaults.ResponseTime
	}
	if config.SnapEpsilon <= 0 {
		config.SnapEpsilon = defaults.SnapEpsilon
	}
	if config.FPSWindow <= 0 {
		config.FPSWindow = defaults.FPSWindow
	}
	if config.SleepGapWarn <= 0 {
		config.SleepGapWarn = defaults.SleepGapWarn
	}
	if render == nil {
		render = func(Frame) {}
	}

	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = config.Logger.With().Str("component", "animation").Logger()
	}

	return &Scheduler{
		config:  config,
		source:  source,
		session: session,
		render:  render,
		logger:  logger,
	}
}

// SetRenderer replaces the render callback.
func (scheduler *Scheduler) SetRenderer(render func(Frame)) {
	if render == nil {
		render = func(Frame) {}
	}
	scheduler.render = render
}

// Start begins a run for phase, canceling any pending frame first.
func (scheduler *Scheduler) Start(phase model.Phase) {
	scheduler.cancelPending()
	scheduler.generation++
	scheduler.target = phase
	scheduler.running = true
	scheduler.paused = false
	scheduler.animated = 0
	scheduler.fps = 0
	scheduler.resetTiming()
	scheduler.request()
}

// Stop cancels the pending frame and clears frame timing.
func (scheduler *Scheduler) Stop() {
	scheduler.cancelPending()
	scheduler.generation++
	scheduler.running = false
	scheduler.paused = false
	scheduler.resetTiming()
}

// Pause suspends frames and keeps the animated progress.
func (scheduler *Scheduler) Pause() {
	if !scheduler.running || scheduler.paused {
		return
	}
	scheduler.cancelPending()
	scheduler.paused = true
	scheduler.resetTiming()
}

// Resume restarts frames after Pause.
func (scheduler *Scheduler) Resume() {
	if !scheduler.running || !scheduler.paused {
		return
	}
	scheduler.paused = false
	scheduler.resetTiming()
	scheduler.request()
}

// Stats returns the current scheduler state.
func (scheduler *Scheduler) Stats() Stats {
	return Stats{
		Phase:            scheduler.target,
		Running:          scheduler.running,
		Paused:           scheduler.paused,
		AnimatedProgress: scheduler.animated,
		FPS:              scheduler.fps,
		Frames:           scheduler.frameTotal,
	}
}

func (scheduler *Scheduler) frame(generation uint64, timestamp time.Duration) {
	if generation != scheduler.generation || !scheduler.running || scheduler.paused {
		return
	}
	scheduler.hasPending = false

	if phase := scheduler.session.Phase(); phase != scheduler.target {
		scheduler.logger.Debug().
			Str("scheduled", scheduler.target.String()).
			Str("phase", phase.String()).
			Msg("stale frame dropped")
		scheduler.running = false
		scheduler.resetTiming()
		return
	}

	delta := scheduler.frameDelta(timestamp)
	snapshot := scheduler.session.Snapshot()
	scheduler.animated = Smooth(scheduler.animated, snapshot.Progress, delta, scheduler.config)
	scheduler.frameTotal++
	scheduler.emit(snapshot, false)

	if snapshot.Remaining <= 0 {
		scheduler.animated = 1
		scheduler.emit(snapshot, true)
		phase := scheduler.target
		scheduler.running = false
		scheduler.resetTiming()
		scheduler.session.CompletePhase(phase)
		return
	}

	scheduler.request()
}

func (scheduler *Scheduler) frameDelta(timestamp time.Duration) time.Duration {
	delta := scheduler.config.DefaultFrameDelta
	if scheduler.hasLastFrame {
		gap := timestamp - scheduler.lastFrame
		if gap > scheduler.config.SleepGapWarn {
			scheduler.logger.Warn().Dur("gap", gap).Msg("long frame gap, host was likely suspended")
		}
		delta = gap
		if delta > scheduler.config.MaxFrameDelta {
			delta = scheduler.config.MaxFrameDelta
		}
		if delta < 0 {
			delta = 0
		}

		scheduler.fpsAccum += delta
		scheduler.fpsFrames++
		if scheduler.fpsAccum > scheduler.config.FPSWindow {
			scheduler.fps = float64(scheduler.fpsFrames) / scheduler.fpsAccum.Seconds()
			scheduler.fpsFrames = 0
			scheduler.fpsAccum = 0
		}
	}
	scheduler.lastFrame = timestamp
	scheduler.hasLastFrame = true
	return delta
}

func (scheduler *Scheduler) emit(snapshot timer.Snapshot, final bool) {
	scheduler.render(Frame{
		Phase:            scheduler.target,
		AnimatedProgress: scheduler.animated,
		Progress:         snapshot.Progress,
		Remaining:        snapshot.Remaining,
		Elapsed:          snapshot.Elapsed,
		Final:            final,
	})
}

func (scheduler *Scheduler) request() {
	generation := scheduler.generation
	scheduler.pending = scheduler.source.RequestFrame(func(timestamp time.Duration) {
		scheduler.frame(generation, timestamp)
	})
	scheduler.hasPending = true
}

func (scheduler *Scheduler) cancelPending() {
	if !scheduler.hasPending {
		return
	}
	scheduler.source.CancelFrame(scheduler.pending)
	scheduler.hasPending = false
}

func (scheduler *Scheduler) resetTiming() {
	scheduler.lastFrame = 0
	scheduler.hasLastFrame = false
	scheduler.fpsAccum = 0
	scheduler.fpsFrames = 0
}
