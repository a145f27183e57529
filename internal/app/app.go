package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chronos/internal/audio"
	"chronos/internal/core/clock"
	"chronos/internal/core/introspect"
	"chronos/internal/core/model"
	"chronos/internal/core/timekeeper"
	"chronos/internal/core/timer"
	"chronos/internal/journal"
	"chronos/internal/platform"
	"chronos/internal/storage"
	"chronos/internal/ui/animation"
	"chronos/internal/ui/notify"
	"chronos/internal/ui/tray"
	"chronos/internal/ui/window"
	"chronos/resources"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Name is the application name used for the config directory and the
// single instance lock.
const Name = "Chronos"

const appID = "io.chronos.app"

// Options configures Run.
type Options struct {
	// ConfigDir overrides the per-user settings directory.
	ConfigDir string
	// Overrides prefill the setup form without being saved.
	Overrides model.SettingsPatch
	Debug     bool
	Logger    *zerolog.Logger
}

type application struct {
	fyne    fyne.App
	desktop desktop.App
	logger  zerolog.Logger

	store    *storage.SettingsStore
	history  *storage.History
	settings model.Settings

	keeper    *timekeeper.Keeper
	scheduler *animation.Scheduler
	player    *audio.Player
	probe     *introspect.Probe
	view      *window.Window
	tray      *tray.Manager

	trayLimiter *rate.Limiter
	trayIcon    string
}

// Run starts the desktop application and blocks until it quits.
func Run(ctx context.Context, options Options) error {
	logger := zerolog.Nop()
	if options.Logger != nil {
		logger = *options.Logger
	}

	guard, err := platform.AcquireSingleInstance(Name)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			if activateErr := platform.ActivateRunningInstance(Name); activateErr != nil {
				logger.Warn().Err(activateErr).Msg("running instance not reachable")
			}
		}
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	dir := options.ConfigDir
	if dir == "" {
		dir, err = storage.ConfigDir(Name)
		if err != nil {
			return err
		}
	}

	app := &application{
		logger:      logger.With().Str("component", "app").Logger(),
		store:       storage.NewSettingsStore(storage.SettingsPath(dir), &logger),
		trayLimiter: rate.NewLimiter(rate.Every(trayStatusInterval), 1),
	}
	settings, err := app.store.Load()
	if err != nil {
		app.logger.Warn().Err(err).Msg("settings not loaded, using defaults")
	}
	app.settings = settings

	app.history, err = storage.OpenHistory(storage.HistoryPath(dir), storage.WithLogger(&logger))
	if err != nil {
		app.logger.Warn().Err(err).Msg("session history unavailable")
	}
	defer func() {
		_ = app.history.Close()
	}()

	app.fyne = fyneapp.NewWithID(appID)
	app.fyne.SetIcon(resources.MustIcon(resources.IconApp))
	app.player = audio.NewPlayer(audio.Config{Muted: settings.AudioMuted, Logger: &logger})

	app.view = window.New(app.fyne, options.Overrides.Apply(settings), window.Actions{
		StartWork:        app.startWork,
		SettingsChanged:  app.saveSettings,
		TogglePause:      app.action("toggle pause", func() error { return app.keeper.TogglePause() }),
		Cancel:           app.action("cancel", func() error { return app.keeper.Cancel() }),
		BeginRest:        app.action("begin rest", func() error { return app.keeper.StartRest() }),
		FinishReflection: app.finishReflection,
		Acknowledge:      app.action("acknowledge", func() error { return app.keeper.Acknowledge() }),
		ToggleDebug:      app.toggleDebug,
	})

	effects := NewEffects(app.view, app.player, notify.New(app.fyne), func() model.Phase {
		return app.keeper.Phase()
	}, func(delay time.Duration, fn func()) {
		time.AfterFunc(delay, func() { fyne.Do(fn) })
	}, &logger)

	counter := &sessionCounter{history: app.history}
	monotonic := clock.NewMonotonic()
	app.keeper = timekeeper.New(timer.New(monotonic), timekeeper.Collaborators{
		Dispatcher: effects,
		Journal: journal.New(journal.Config{
			Dir:    func() string { return app.settings.LogDir },
			Logger: &logger,
		}),
		Counter: counter,
	}, timekeeper.Config{Logger: &logger})
	counter.keeper = app.keeper

	frames := animation.NewTickerFrames(animation.DefaultFrameInterval, monotonic, fyne.Do)
	app.scheduler = animation.New(app.keeper, frames, app.render, animation.Config{Logger: &logger})
	app.keeper.SetAnimator(app.scheduler)
	defer app.keeper.Close()

	app.probe = introspect.NewProbe(app.keeper, app.scheduler, introspect.DefaultRefreshRate, func(snapshot introspect.Snapshot) {
		app.view.SetDebug(snapshot.String(), true)
	})

	if desk, ok := app.fyne.(desktop.App); ok {
		app.desktop = desk
		app.tray = tray.New(desk, tray.Callbacks{
			OnStop:       app.action("tray stop", func() error { return app.keeper.Cancel() }),
			OnShowWindow: app.view.ShowAndFocus,
			OnQuit:       app.fyne.Quit,
		})
		app.view.SetCloseIntercept(app.view.Hide)
		app.refreshTray(true)
	} else {
		app.logger.Info().Msg("system tray unsupported on this platform")
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	app.watch(watchCtx)
	go guard.Serve(func() {
		fyne.Do(app.view.ShowAndFocus)
	})

	daily := cron.New()
	if _, err := daily.AddFunc("0 0 * * *", app.refreshStatsAsync); err != nil {
		app.logger.Warn().Err(err).Msg("daily rollover not scheduled")
	}
	daily.Start()
	defer daily.Stop()

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			fyne.Do(app.fyne.Quit)
		case <-stopped:
		}
	}()

	app.refreshStats()
	if options.Debug {
		app.toggleDebug()
	}
	app.view.Show()
	app.logger.Info().Str("config_dir", dir).Msg("chronos started")
	app.fyne.Run()
	return nil
}

func (app *application) watch(ctx context.Context) {
	go func() {
		err := app.store.Watch(ctx, storage.DefaultReloadDebounce, func(settings model.Settings) {
			fyne.Do(func() {
				app.applySettings(settings)
			})
		})
		if err != nil {
			app.logger.Warn().Err(err).Msg("settings watcher stopped")
		}
	}()

	events := app.keeper.Subscribe(16)
	go func() {
		for event := range events {
			app.logEvent(event)
			fyne.Do(func() {
				app.refreshTray(true)
				app.probe.Refresh()
			})
		}
	}()
}

func (app *application) logEvent(event timekeeper.Event) {
	switch event.Type {
	case timekeeper.EventSessionComplete:
		app.logger.Info().
			Str("session", event.SessionID).
			Int("total", event.Stats.TotalSessions).
			Int("today", event.Stats.TodaySessions).
			Str("reflection", event.Message).
			Msg("session complete")
	case timekeeper.EventPhaseChange:
		app.logger.Info().
			Str("from", event.Previous.String()).
			Str("to", event.Phase.String()).
			Dur("duration", event.Duration).
			Msg("phase changed")
	}
}

// action adapts a keeper operation to a UI callback. Rejected transitions
// come from stale buttons or repeated keys and are only logged.
func (app *application) action(name string, run func() error) func() {
	return func() {
		if err := run(); err != nil {
			app.logger.Debug().Err(err).Str("action", name).Msg("action rejected")
		}
	}
}

func (app *application) startWork(patch model.SettingsPatch) {
	app.saveSettings(patch)
	if err := app.keeper.StartWork(app.settings.SessionConfig()); err != nil {
		app.logger.Debug().Err(err).Msg("start work rejected")
	}
}

func (app *application) saveSettings(patch model.SettingsPatch) {
	saved, err := app.store.Save(patch)
	if err != nil {
		app.logger.Warn().Err(err).Msg("settings not saved")
		saved = patch.Apply(app.settings)
	}
	app.settings = saved
	app.player.SetMuted(saved.AudioMuted)
}

func (app *application) applySettings(settings model.Settings) {
	app.settings = settings
	app.player.SetMuted(settings.AudioMuted)
	if app.keeper.Phase() == model.PhaseIdle {
		app.view.SetSettings(settings)
	}
}

func (app *application) finishReflection(entry *model.Reflection) {
	outcome, err := app.keeper.FinishReflection(entry)
	if err != nil {
		app.logger.Debug().Err(err).Msg("finish reflection rejected")
		return
	}
	app.view.ShowOutcome(outcome.Message, outcome.Stats)
}

func (app *application) render(frame animation.Frame) {
	app.view.Render(frame)
	app.refreshTray(false)
	app.probe.Refresh()
}

func (app *application) toggleDebug() {
	if !app.probe.Toggle() {
		app.view.SetDebug("", false)
	}
}

func (app *application) refreshTray(force bool) {
	if app.tray == nil {
		return
	}
	if !force && !app.trayLimiter.Allow() {
		return
	}
	phase, paused := app.keeper.Phase(), app.keeper.Paused()
	app.tray.SetStatus(tray.StatusText(phase, app.keeper.Snapshot().Remaining, paused))
	app.tray.SetRunning(phase.Timed())

	if icon := trayIconName(phase, paused); icon != app.trayIcon {
		app.trayIcon = icon
		app.desktop.SetSystemTrayIcon(resources.MustIcon(icon))
	}
}

func (app *application) refreshStats() {
	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()
	stats, err := app.history.Stats(ctx)
	if err != nil {
		app.logger.Debug().Err(err).Msg("session stats unavailable")
		return
	}
	app.view.SetStats(stats)
}

// refreshStatsAsync runs on the cron goroutine at midnight.
func (app *application) refreshStatsAsync() {
	fyne.Do(app.refreshStats)
}
