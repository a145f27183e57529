package animation

import (
	"math"
	"testing"
	"time"

	"chronos/internal/core/clock"
	"chronos/internal/core/model"
	"chronos/internal/core/timekeeper"
	"chronos/internal/core/timer"
)

type manualFrames struct {
	next     FrameID
	pending  map[FrameID]FrameFunc
	canceled []FrameFunc
}

func newManualFrames() *manualFrames {
	return &manualFrames{pending: make(map[FrameID]FrameFunc)}
}

func (frames *manualFrames) RequestFrame(fn FrameFunc) FrameID {
	frames.next++
	frames.pending[frames.next] = fn
	return frames.next
}

func (frames *manualFrames) CancelFrame(id FrameID) {
	if fn, ok := frames.pending[id]; ok {
		frames.canceled = append(frames.canceled, fn)
		delete(frames.pending, id)
	}
}

// fire runs the frames pending at the time of the call.
func (frames *manualFrames) fire(timestamp time.Duration) int {
	due := frames.pending
	frames.pending = make(map[FrameID]FrameFunc)
	for _, fn := range due {
		fn(timestamp)
	}
	return len(due)
}

type fakeSession struct {
	phase     model.Phase
	snapshot  timer.Snapshot
	completed []model.Phase
}

func (session *fakeSession) Phase() model.Phase       { return session.phase }
func (session *fakeSession) Snapshot() timer.Snapshot { return session.snapshot }
func (session *fakeSession) CompletePhase(phase model.Phase) bool {
	session.completed = append(session.completed, phase)
	return true
}

func TestSmoothConvergesAndSnaps(t *testing.T) {
	t.Parallel()
	config := DefaultConfig()

	animated := 0.0
	for i := 0; i < 30; i++ {
		animated = Smooth(animated, 1, 16*time.Millisecond, config)
	}
	if animated != 1 {
		t.Fatalf("animated after 30 frames from 0 = %v, want 1", animated)
	}

	animated = 0.5
	frames := 0
	for animated != 1 {
		animated = Smooth(animated, 1, 16*time.Millisecond, config)
		frames++
		if frames > 200 {
			t.Fatalf("animated = %v after %d frames, want exact convergence", animated, frames)
		}
	}
}

func TestSmoothStaysBetweenValues(t *testing.T) {
	t.Parallel()
	config := DefaultConfig()
	animated := 0.1
	for i := 0; i < 100; i++ {
		animated = Smooth(animated, 0.3, 16*time.Millisecond, config)
		if animated < 0.1 || animated > 0.3 {
			t.Fatalf("frame %d: animated = %v outside [0.1, 0.3]", i, animated)
		}
	}
}

func TestFrameDeltaIsClamped(t *testing.T) {
	t.Parallel()
	session := &fakeSession{phase: model.PhaseWork, snapshot: timer.Snapshot{Progress: 0.2, Remaining: time.Minute}}
	frames := newManualFrames()
	var rendered []Frame
	scheduler := New(session, frames, func(frame Frame) { rendered = append(rendered, frame) }, DefaultConfig())

	scheduler.Start(model.PhaseWork)
	frames.fire(time.Second)
	if got := rendered[0].AnimatedProgress; got != 0.2 {
		t.Fatalf("first frame AnimatedProgress = %v, want 0.2", got)
	}

	session.snapshot.Progress = 0.8
	frames.fire(11 * time.Second)
	want := 0.2 + 0.6*(1-math.Exp(-50.0/200.0))
	if got := rendered[1].AnimatedProgress; math.Abs(got-want) > 1e-12 {
		t.Fatalf("second frame AnimatedProgress = %v, want %v", got, want)
	}
	if got := rendered[1].Remaining; got != time.Minute {
		t.Fatalf("Remaining = %v, want %v", got, time.Minute)
	}
}

func TestCompletionRendersFinalFrameAndHalts(t *testing.T) {
	t.Parallel()
	session := &fakeSession{phase: model.PhaseRest, snapshot: timer.Snapshot{Progress: 1, Elapsed: time.Minute}}
	frames := newManualFrames()
	var rendered []Frame
	scheduler := New(session, frames, func(frame Frame) { rendered = append(rendered, frame) }, DefaultConfig())

	scheduler.Start(model.PhaseRest)
	frames.fire(0)

	if len(rendered) != 2 {
		t.Fatalf("rendered %d frames, want 2", len(rendered))
	}
	last := rendered[1]
	if !last.Final || last.AnimatedProgress != 1 || last.Remaining != 0 {
		t.Fatalf("final frame = %+v", last)
	}
	if len(session.completed) != 1 || session.completed[0] != model.PhaseRest {
		t.Fatalf("completed = %v, want [rest]", session.completed)
	}
	if len(frames.pending) != 0 {
		t.Fatalf("pending frames = %d after completion, want 0", len(frames.pending))
	}
	if scheduler.Stats().Running {
		t.Fatal("Stats().Running = true after completion")
	}
}

func TestStaleFrameIsDropped(t *testing.T) {
	t.Parallel()
	session := &fakeSession{phase: model.PhaseWork, snapshot: timer.Snapshot{Remaining: 0, Progress: 1}}
	frames := newManualFrames()
	renders := 0
	scheduler := New(session, frames, func(Frame) { renders++ }, DefaultConfig())

	scheduler.Start(model.PhaseWork)
	session.phase = model.PhaseIdle
	frames.fire(16 * time.Millisecond)

	if renders != 0 {
		t.Fatalf("renders = %d, want 0", renders)
	}
	if len(session.completed) != 0 {
		t.Fatalf("completed = %v, want none", session.completed)
	}
	if len(frames.pending) != 0 {
		t.Fatalf("pending frames = %d, want 0", len(frames.pending))
	}
}

func TestStopSuppressesLateFrame(t *testing.T) {
	t.Parallel()
	session := &fakeSession{phase: model.PhaseWork, snapshot: timer.Snapshot{Remaining: time.Second}}
	frames := newManualFrames()
	renders := 0
	scheduler := New(session, frames, func(Frame) { renders++ }, DefaultConfig())

	scheduler.Start(model.PhaseWork)
	scheduler.Stop()
	if len(frames.pending) != 0 || len(frames.canceled) != 1 {
		t.Fatalf("pending = %d canceled = %d, want 0 and 1", len(frames.pending), len(frames.canceled))
	}

	// A host that delivers the canceled callback anyway.
	frames.canceled[0](time.Second)
	if renders != 0 {
		t.Fatalf("renders = %d after Stop, want 0", renders)
	}

	scheduler.Start(model.PhaseWork)
	frames.canceled[0](2 * time.Second)
	if renders != 0 {
		t.Fatalf("old generation frame rendered after restart")
	}
	frames.fire(3 * time.Second)
	if renders != 1 {
		t.Fatalf("renders = %d, want 1", renders)
	}
}

func TestStartCancelsPendingFrame(t *testing.T) {
	t.Parallel()
	session := &fakeSession{phase: model.PhaseWork, snapshot: timer.Snapshot{Remaining: time.Second}}
	frames := newManualFrames()
	scheduler := New(session, frames, nil, DefaultConfig())

	scheduler.Start(model.PhaseWork)
	scheduler.Start(model.PhaseWork)
	if len(frames.pending) != 1 {
		t.Fatalf("pending frames = %d, want 1", len(frames.pending))
	}
}

func TestPauseKeepsAnimatedProgress(t *testing.T) {
	t.Parallel()
	session := &fakeSession{phase: model.PhaseWork, snapshot: timer.Snapshot{Progress: 0.4, Remaining: time.Minute}}
	frames := newManualFrames()
	scheduler := New(session, frames, nil, DefaultConfig())

	scheduler.Start(model.PhaseWork)
	frames.fire(0)
	scheduler.Pause()
	if len(frames.pending) != 0 {
		t.Fatalf("pending frames while paused = %d, want 0", len(frames.pending))
	}
	stats := scheduler.Stats()
	if !stats.Paused || stats.AnimatedProgress != 0.4 {
		t.Fatalf("Stats() = %+v", stats)
	}

	scheduler.Resume()
	scheduler.Resume()
	if len(frames.pending) != 1 {
		t.Fatalf("pending frames after Resume = %d, want 1", len(frames.pending))
	}
}

func TestFPSIsMeasured(t *testing.T) {
	t.Parallel()
	session := &fakeSession{phase: model.PhaseWork, snapshot: timer.Snapshot{Remaining: time.Hour}}
	frames := newManualFrames()
	scheduler := New(session, frames, nil, DefaultConfig())

	scheduler.Start(model.PhaseWork)
	for i := 0; i <= 40; i++ {
		frames.fire(time.Duration(i) * 16 * time.Millisecond)
	}
	if fps := scheduler.Stats().FPS; fps < 60 || fps > 65 {
		t.Fatalf("FPS = %v, want about 62.5", fps)
	}
}

func newKeeperScheduler(t *testing.T) (*timekeeper.Keeper, *Scheduler, *manualFrames, *clock.Manual, *[]Frame) {
	t.Helper()
	source := clock.NewManual(0)
	keeper := timekeeper.New(timer.New(source), timekeeper.Collaborators{}, timekeeper.Config{})
	frames := newManualFrames()
	rendered := &[]Frame{}
	scheduler := New(keeper, frames, func(frame Frame) { *rendered = append(*rendered, frame) }, DefaultConfig())
	keeper.SetAnimator(scheduler)
	return keeper, scheduler, frames, source, rendered
}

func TestWorkPhaseRunsToAlert(t *testing.T) {
	t.Parallel()
	keeper, _, frames, source, rendered := newKeeperScheduler(t)
	if err := keeper.StartWork(model.SessionConfig{Work: 6 * time.Second, Rest: time.Minute}); err != nil {
		t.Fatalf("StartWork error: %v", err)
	}

	for step := 0; keeper.Phase() == model.PhaseWork; step++ {
		if step > 1000 {
			t.Fatal("work phase never completed")
		}
		source.Advance(16 * time.Millisecond)
		if frames.fire(source.Now()) == 0 {
			t.Fatalf("no frame pending at step %d", step)
		}
	}

	if keeper.Phase() != model.PhaseAlert {
		t.Fatalf("Phase() = %s, want alert", keeper.Phase())
	}
	previous := 0.0
	for i, frame := range *rendered {
		if frame.AnimatedProgress < previous {
			t.Fatalf("frame %d AnimatedProgress = %v after %v", i, frame.AnimatedProgress, previous)
		}
		previous = frame.AnimatedProgress
	}
	last := (*rendered)[len(*rendered)-1]
	if !last.Final || last.AnimatedProgress != 1 {
		t.Fatalf("last frame = %+v", last)
	}
	if len(frames.pending) != 0 {
		t.Fatalf("pending frames in alert = %d, want 0", len(frames.pending))
	}
}

func TestCancelBeforeCompletionFrame(t *testing.T) {
	t.Parallel()
	keeper, _, frames, source, rendered := newKeeperScheduler(t)
	if err := keeper.StartWork(model.SessionConfig{Work: 6 * time.Second, Rest: time.Minute}); err != nil {
		t.Fatalf("StartWork error: %v", err)
	}
	source.Set(time.Minute)
	pending := make([]FrameFunc, 0, len(frames.pending))
	for _, fn := range frames.pending {
		pending = append(pending, fn)
	}

	if err := keeper.Cancel(); err != nil {
		t.Fatalf("Cancel error: %v", err)
	}
	for _, fn := range pending {
		fn(source.Now())
	}

	if keeper.Phase() != model.PhaseIdle {
		t.Fatalf("Phase() = %s, want idle", keeper.Phase())
	}
	if len(*rendered) != 0 {
		t.Fatalf("rendered %d frames after cancel, want 0", len(*rendered))
	}
}
