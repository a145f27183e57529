package timekeeper

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"chronos/internal/core/model"
	"chronos/internal/core/timer"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrInvalidTransition indicates an action that the current phase does not accept.
var ErrInvalidTransition = errors.New("invalid phase transition")

// DefaultReflectModeDelay defers the reflection window until the rest
// screen has been replaced.
const DefaultReflectModeDelay = 500 * time.Millisecond

// Config contains runtime options for the Keeper.
type Config struct {
	ReflectModeDelay time.Duration
	NewSessionID     func() string
	Logger           *zerolog.Logger
}

// Collaborators receive the side effects of transitions.
type Collaborators struct {
	Animator   Animator
	Dispatcher Dispatcher
	Journal    Journal
	Counter    SessionCounter
}

// Keeper is the phase state machine of a work/rest session.
//
// All operations, Close included, must be called from the goroutine that
// owns the UI. Only Subscribe may be used from other goroutines.
type Keeper struct {
	phase     model.Phase
	config    model.SessionConfig
	sessionID string
	timer     *timer.Engine

	animator   Animator
	dispatcher Dispatcher
	journal    Journal
	counter    SessionCounter
	options    Config
	logger     zerolog.Logger

	mu     sync.Mutex
	events []chan Event
	closed bool
}

// New creates a Keeper in the idle phase.
func New(engine *timer.Engine, collaborators Collaborators, options Config) *Keeper {
	if options.ReflectModeDelay < 0 {
		options.ReflectModeDelay = 0
	}
	if options.NewSessionID == nil {
		options.NewSessionID = uuid.NewString
	}

	logger := zerolog.Nop()
	if options.Logger != nil {
		logger = options.Logger.With().Str("component", "timekeeper").Logger()
	}

	keeper := &Keeper{
		phase:   model.PhaseIdle,
		timer:   engine,
		options: options,
		logger:  logger,
	}
	keeper.SetAnimator(collaborators.Animator)
	keeper.dispatcher = collaborators.Dispatcher
	if keeper.dispatcher == nil {
		keeper.dispatcher = DispatcherFunc(func(Command) {})
	}
	keeper.journal = collaborators.Journal
	if keeper.journal == nil {
		keeper.journal = nopJournal{}
	}
	keeper.counter = collaborators.Counter
	if keeper.counter == nil {
		keeper.counter = nopCounter{}
	}
	return keeper
}

// SetAnimator injects the frame loop. It exists because the animator
// itself needs the Keeper to be constructed first.
func (keeper *Keeper) SetAnimator(animator Animator) {
	if animator == nil {
		animator = nopAnimator{}
	}
	keeper.animator = animator
}

// Phase returns the active phase.
func (keeper *Keeper) Phase() model.Phase {
	return keeper.phase
}

// Paused reports whether the running phase is paused.
func (keeper *Keeper) Paused() bool {
	return keeper.phase.Timed() && keeper.timer.Paused()
}

// Config returns the configuration of the current session.
func (keeper *Keeper) Config() model.SessionConfig {
	return keeper.config
}

// SessionID returns the identifier of the current session.
func (keeper *Keeper) SessionID() string {
	return keeper.sessionID
}

// Snapshot returns the timer state of the current phase run.
func (keeper *Keeper) Snapshot() timer.Snapshot {
	return keeper.timer.Snapshot()
}

// Duration returns the length of the current phase run.
func (keeper *Keeper) Duration() time.Duration {
	return keeper.timer.Duration()
}

// Subscribe registers a new observer channel. Sends never block; a full
// channel misses the event.
func (keeper *Keeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	if keeper.closed {
		close(ch)
	} else {
		keeper.events = append(keeper.events, ch)
	}
	keeper.mu.Unlock()
	return ch
}

// Close stops the animator and closes observer channels. It runs on the UI
// goroutine like every other operation; a second call is a no-op.
func (keeper *Keeper) Close() {
	keeper.mu.Lock()
	if keeper.closed {
		keeper.mu.Unlock()
		return
	}
	keeper.closed = true
	keeper.mu.Unlock()

	keeper.animator.Stop()

	keeper.mu.Lock()
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// StartWork begins a work phase with the given configuration.
func (keeper *Keeper) StartWork(config model.SessionConfig) error {
	next, err := keeper.next(ActionStartWork)
	if err != nil {
		return err
	}

	keeper.config = config.Normalized()
	keeper.sessionID = keeper.options.NewSessionID()
	keeper.timer.Start(keeper.config.Work)
	previous := keeper.enter(next)

	keeper.dispatch(Command{Type: CommandWorkMode})
	keeper.dispatch(Command{Type: CommandShowScreen, Phase: next})
	keeper.animator.Start(next)
	keeper.emitChange(previous)
	return nil
}

// StartRest begins the rest phase after the work alert.
func (keeper *Keeper) StartRest() error {
	next, err := keeper.next(ActionStartRest)
	if err != nil {
		return err
	}

	keeper.timer.Start(keeper.config.Rest)
	previous := keeper.enter(next)

	keeper.dispatch(Command{Type: CommandRestMode})
	keeper.dispatch(Command{Type: CommandShowScreen, Phase: next})
	keeper.animator.Start(next)
	keeper.emitChange(previous)
	return nil
}

// CompletePhase ends a timed phase whose remaining time reached zero.
// It reports false, with no side effects, when phase is no longer the
// active phase or when time remains. A cancel that happened first
// therefore wins over a completion observed in the same frame.
func (keeper *Keeper) CompletePhase(phase model.Phase) bool {
	if phase != keeper.phase || !phase.Timed() {
		keeper.logger.Debug().
			Str("signaled", phase.String()).
			Str("phase", keeper.phase.String()).
			Msg("stale completion ignored")
		return false
	}
	if remaining := keeper.timer.Snapshot().Remaining; remaining > 0 {
		keeper.logger.Debug().Dur("remaining", remaining).Msg("premature completion ignored")
		return false
	}
	next, ok := Next(phase, ActionComplete)
	if !ok {
		return false
	}

	keeper.animator.Stop()
	previous := keeper.enter(next)

	switch next {
	case model.PhaseAlert:
		keeper.dispatch(Command{Type: CommandPlayWorkComplete})
		keeper.dispatch(Command{Type: CommandNotifyWorkComplete})
		keeper.dispatch(Command{Type: CommandScreenTakeover})
	case model.PhaseReflect:
		keeper.dispatch(Command{Type: CommandPlayRestComplete})
		keeper.dispatch(Command{Type: CommandReflectMode, Delay: keeper.options.ReflectModeDelay})
	}
	keeper.dispatch(Command{Type: CommandShowScreen, Phase: next})
	keeper.emitChange(previous)
	return true
}

// Cancel returns to the setup screen from a timed phase or from the
// completion screen. The animator is halted before anything else runs.
func (keeper *Keeper) Cancel() error {
	next, err := keeper.next(ActionCancel)
	if err != nil {
		return err
	}
	keeper.returnToSetup(next)
	return nil
}

// Acknowledge dismisses the completion screen.
func (keeper *Keeper) Acknowledge() error {
	next, err := keeper.next(ActionAcknowledge)
	if err != nil {
		return err
	}
	keeper.returnToSetup(next)
	return nil
}

// Pause freezes the running phase. Pausing twice is a no-op.
func (keeper *Keeper) Pause() error {
	if !keeper.phase.Timed() {
		return fmt.Errorf("%w: pause in %s", ErrInvalidTransition, keeper.phase)
	}
	if keeper.timer.Paused() {
		return nil
	}

	keeper.timer.Pause()
	keeper.animator.Pause()
	keeper.dispatch(Command{Type: CommandPauseFeedback, Paused: true})
	keeper.emit(Event{Type: EventPause, Phase: keeper.phase, SessionID: keeper.sessionID, At: time.Now()})
	return nil
}

// Resume continues a paused phase. Resuming a running phase is a no-op.
func (keeper *Keeper) Resume() error {
	if !keeper.phase.Timed() {
		return fmt.Errorf("%w: resume in %s", ErrInvalidTransition, keeper.phase)
	}
	if !keeper.timer.Paused() {
		return nil
	}

	keeper.timer.Resume()
	keeper.animator.Resume()
	keeper.dispatch(Command{Type: CommandPauseFeedback, Paused: false})
	keeper.emit(Event{Type: EventResume, Phase: keeper.phase, SessionID: keeper.sessionID, At: time.Now()})
	return nil
}

// TogglePause pauses a running phase or resumes a paused one.
func (keeper *Keeper) TogglePause() error {
	if keeper.timer.Paused() {
		return keeper.Resume()
	}
	return keeper.Pause()
}

// FinishReflection saves the reflection, or skips it when entry is nil,
// and completes the session. Persistence and counting failures are
// reported in the Outcome and never prevent reaching the complete phase.
func (keeper *Keeper) FinishReflection(entry *model.Reflection) (Outcome, error) {
	next, err := keeper.next(ActionFinish)
	if err != nil {
		return Outcome{}, err
	}

	var result *model.SaveResult
	if entry != nil {
		reflection := entry.Clean()
		if reflection.SessionID == "" {
			reflection.SessionID = keeper.sessionID
		}
		if reflection.WorkMinutes == 0 {
			reflection.WorkMinutes = keeper.config.WorkMinutes()
		}
		if reflection.RestMinutes == 0 {
			reflection.RestMinutes = keeper.config.RestMinutes()
		}
		saved := keeper.journal.SaveReflection(reflection)
		if !saved.Success {
			keeper.logger.Warn().Str("err", saved.Error).Msg("reflection not saved")
		}
		result = &saved
	}

	previous := keeper.enter(next)

	stats, err := keeper.counter.IncrementSessionCount()
	if err != nil {
		keeper.logger.Warn().Err(err).Msg("session count not updated")
	}

	outcome := Outcome{
		Saved:   result != nil && result.Success,
		Message: model.ConfirmationText(result),
		Result:  result,
		Stats:   stats,
	}

	keeper.dispatch(Command{Type: CommandShowScreen, Phase: next})
	keeper.emitChange(previous)
	keeper.emit(Event{
		Type:      EventSessionComplete,
		Phase:     next,
		SessionID: keeper.sessionID,
		Stats:     stats,
		Message:   outcome.Message,
		At:        time.Now(),
	})
	return outcome, nil
}

func (keeper *Keeper) returnToSetup(next model.Phase) {
	keeper.animator.Stop()
	previous := keeper.enter(next)
	keeper.dispatch(Command{Type: CommandSetupMode})
	keeper.dispatch(Command{Type: CommandShowScreen, Phase: next})
	keeper.emitChange(previous)
}

func (keeper *Keeper) next(action Action) (model.Phase, error) {
	next, ok := Next(keeper.phase, action)
	if !ok {
		return keeper.phase, fmt.Errorf("%w: %s in %s", ErrInvalidTransition, action, keeper.phase)
	}
	return next, nil
}

// enter is the only place the phase is assigned.
func (keeper *Keeper) enter(next model.Phase) model.Phase {
	previous := keeper.phase
	keeper.phase = next
	keeper.logger.Debug().
		Str("from", previous.String()).
		Str("to", next.String()).
		Str("session", keeper.sessionID).
		Msg("phase transition")
	return previous
}

func (keeper *Keeper) dispatch(command Command) {
	keeper.dispatcher.Dispatch(command)
}

func (keeper *Keeper) emitChange(previous model.Phase) {
	keeper.emit(Event{
		Type:      EventPhaseChange,
		Phase:     keeper.phase,
		Previous:  previous,
		Duration:  keeper.timer.Duration(),
		SessionID: keeper.sessionID,
		At:        time.Now(),
	})
}

func (keeper *Keeper) emit(event Event) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	for _, ch := range keeper.events {
		select {
		case ch <- event:
		default:
		}
	}
}
