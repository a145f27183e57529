package animation

import (
	"sync"
	"time"

	"chronos/internal/core/clock"
)

// FrameID identifies a requested frame.
type FrameID uint64

// FrameFunc receives the clock reading at which the frame runs.
type FrameFunc func(timestamp time.Duration)

// FrameSource schedules single frames, in the manner of a display refresh
// callback. Each request fires at most once.
type FrameSource interface {
	RequestFrame(fn FrameFunc) FrameID
	CancelFrame(id FrameID)
}

// TickerFrames schedules frames with timers. Every frame is handed to post,
// which must run it on the goroutine that owns the scheduler (fyne.Do in
// the desktop app). A frame canceled after its timer fired is still dropped.
type TickerFrames struct {
	interval time.Duration
	clock    clock.Clock
	post     func(func())

	mu      sync.Mutex
	next    FrameID
	pending map[FrameID]*time.Timer
}

// NewTickerFrames creates a timer-driven frame source. A nil post runs
// frames on the timer goroutine.
func NewTickerFrames(interval time.Duration, source clock.Clock, post func(func())) *TickerFrames {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	if post == nil {
		post = func(fn func()) { fn() }
	}
	return &TickerFrames{
		interval: interval,
		clock:    source,
		post:     post,
		pending:  make(map[FrameID]*time.Timer),
	}
}

// RequestFrame schedules fn one interval from now.
func (frames *TickerFrames) RequestFrame(fn FrameFunc) FrameID {
	frames.mu.Lock()
	defer frames.mu.Unlock()

	frames.next++
	id := frames.next
	frames.pending[id] = time.AfterFunc(frames.interval, func() {
		frames.post(func() {
			if !frames.take(id) {
				return
			}
			fn(frames.clock.Now())
		})
	})
	return id
}

// CancelFrame drops a pending frame. Unknown ids are ignored.
func (frames *TickerFrames) CancelFrame(id FrameID) {
	frames.mu.Lock()
	defer frames.mu.Unlock()
	if timer, ok := frames.pending[id]; ok {
		timer.Stop()
		delete(frames.pending, id)
	}
}

// Pending returns the number of frames not yet run or canceled.
func (frames *TickerFrames) Pending() int {
	frames.mu.Lock()
	defer frames.mu.Unlock()
	return len(frames.pending)
}

func (frames *TickerFrames) take(id FrameID) bool {
	frames.mu.Lock()
	defer frames.mu.Unlock()
	if _, ok := frames.pending[id]; !ok {
		return false
	}
	delete(frames.pending, id)
	return true
}
