package app

import (
	"time"

	"chronos/internal/core/model"
	"chronos/internal/core/timekeeper"
	"chronos/internal/ui/window"

	"github.com/rs/zerolog"
)

// Screen is the part of the main window driven by transitions.
type Screen interface {
	ShowScreen(phase model.Phase)
	SetMode(mode window.Mode)
	TakeOver()
	SetPaused(paused bool)
}

// Chimes plays completion cues.
type Chimes interface {
	PlayWorkComplete()
	PlayRestComplete()
}

// Notifier posts desktop notifications.
type Notifier interface {
	WorkComplete()
}

// Effects carries out the commands issued by the Keeper. It runs on the UI
// goroutine; audio is handed to async and deferred window requests to after.
type Effects struct {
	screen   Screen
	chimes   Chimes
	notifier Notifier
	phase    func() model.Phase
	logger   zerolog.Logger

	// after runs fn on the UI goroutine once delay has passed.
	after func(delay time.Duration, fn func())
	async func(fn func())
}

// NewEffects creates the command router. phase reports the current phase
// when a deferred request fires.
func NewEffects(screen Screen, chimes Chimes, notifier Notifier, phase func() model.Phase, after func(time.Duration, func()), logger *zerolog.Logger) *Effects {
	effectsLogger := zerolog.Nop()
	if logger != nil {
		effectsLogger = logger.With().Str("component", "effects").Logger()
	}
	return &Effects{
		screen:   screen,
		chimes:   chimes,
		notifier: notifier,
		phase:    phase,
		logger:   effectsLogger,
		after:    after,
		async:    func(fn func()) { go fn() },
	}
}

// Dispatch implements timekeeper.Dispatcher.
func (effects *Effects) Dispatch(command timekeeper.Command) {
	effects.logger.Debug().Str("command", string(command.Type)).Str("phase", command.Phase.String()).Msg("dispatch")

	switch command.Type {
	case timekeeper.CommandShowScreen:
		effects.screen.ShowScreen(command.Phase)
	case timekeeper.CommandWorkMode:
		effects.screen.SetMode(window.ModeWork)
	case timekeeper.CommandRestMode:
		effects.screen.SetMode(window.ModeRest)
	case timekeeper.CommandSetupMode:
		effects.screen.SetMode(window.ModeSetup)
	case timekeeper.CommandReflectMode:
		effects.deferReflectMode(command.Delay)
	case timekeeper.CommandScreenTakeover:
		effects.screen.TakeOver()
	case timekeeper.CommandPauseFeedback:
		effects.screen.SetPaused(command.Paused)
	case timekeeper.CommandPlayWorkComplete:
		effects.async(effects.chimes.PlayWorkComplete)
	case timekeeper.CommandPlayRestComplete:
		effects.async(effects.chimes.PlayRestComplete)
	case timekeeper.CommandNotifyWorkComplete:
		effects.async(effects.notifier.WorkComplete)
	default:
		effects.logger.Warn().Str("command", string(command.Type)).Msg("unknown command")
	}
}

// deferReflectMode applies the reflect geometry once the rest screen has
// been replaced, unless the user already left the reflect phase.
func (effects *Effects) deferReflectMode(delay time.Duration) {
	apply := func() {
		if phase := effects.phase(); phase != model.PhaseReflect {
			effects.logger.Debug().Str("phase", phase.String()).Msg("reflect mode skipped")
			return
		}
		effects.screen.SetMode(window.ModeReflect)
	}
	if delay <= 0 || effects.after == nil {
		apply()
		return
	}
	effects.after(delay, apply)
}
