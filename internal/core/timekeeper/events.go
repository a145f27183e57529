package timekeeper

import (
	"time"

	"chronos/internal/core/model"
)

// EventType defines the type of Keeper event.
type EventType string

const (
	EventPhaseChange     EventType = "phase_change"
	EventPause           EventType = "pause"
	EventResume          EventType = "resume"
	EventSessionComplete EventType = "session_complete"
)

// Event represents a Keeper update for observers.
type Event struct {
	Type      EventType
	Phase     model.Phase
	Previous  model.Phase
	Duration  time.Duration
	SessionID string
	Stats     model.SessionStats
	Message   string
	At        time.Time
}

// CommandType names a side effect requested from a collaborator.
type CommandType string

const (
	CommandShowScreen         CommandType = "show_screen"
	CommandWorkMode           CommandType = "work_mode"
	CommandRestMode           CommandType = "rest_mode"
	CommandSetupMode          CommandType = "setup_mode"
	CommandReflectMode        CommandType = "reflect_mode"
	CommandScreenTakeover     CommandType = "screen_takeover"
	CommandPlayWorkComplete   CommandType = "play_work_complete"
	CommandPlayRestComplete   CommandType = "play_rest_complete"
	CommandNotifyWorkComplete CommandType = "notify_work_complete"
	CommandPauseFeedback      CommandType = "pause_feedback"
)

// Command is a fire-and-forget request issued on a transition.
// Phase is set for CommandShowScreen, Paused for CommandPauseFeedback
// and Delay for deferred window requests.
type Command struct {
	Type   CommandType
	Phase  model.Phase
	Paused bool
	Delay  time.Duration
}

// Dispatcher receives the commands issued by the Keeper.
type Dispatcher interface {
	Dispatch(Command)
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(Command)

// Dispatch calls fn(command).
func (fn DispatcherFunc) Dispatch(command Command) {
	fn(command)
}

// Animator drives the per-frame rendering loop of timed phases.
type Animator interface {
	Start(phase model.Phase)
	Stop()
	Pause()
	Resume()
}

// Journal persists reflections.
type Journal interface {
	SaveReflection(model.Reflection) model.SaveResult
}

// SessionCounter records finished sessions.
type SessionCounter interface {
	IncrementSessionCount() (model.SessionStats, error)
}

// Outcome describes the end of a reflection.
type Outcome struct {
	Saved   bool
	Message string
	Result  *model.SaveResult
	Stats   model.SessionStats
}

type nopAnimator struct{}

func (nopAnimator) Start(model.Phase) {}
func (nopAnimator) Stop()             {}
func (nopAnimator) Pause()            {}
func (nopAnimator) Resume()           {}

type nopJournal struct{}

func (nopJournal) SaveReflection(model.Reflection) model.SaveResult {
	return model.SaveResult{Error: "no journal configured"}
}

type nopCounter struct{}

func (nopCounter) IncrementSessionCount() (model.SessionStats, error) {
	return model.SessionStats{}, nil
}
