package timekeeper

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"chronos/internal/core/clock"
	"chronos/internal/core/model"
	"chronos/internal/core/timer"
)

type recorder struct {
	log         []string
	commands    []Command
	reflections []model.Reflection
	saveResult  model.SaveResult
	stats       model.SessionStats
	countErr    error
}

func (rec *recorder) Start(phase model.Phase) { rec.log = append(rec.log, "animator.start:"+phase.String()) }
func (rec *recorder) Stop()                   { rec.log = append(rec.log, "animator.stop") }
func (rec *recorder) Pause()                  { rec.log = append(rec.log, "animator.pause") }
func (rec *recorder) Resume()                 { rec.log = append(rec.log, "animator.resume") }

func (rec *recorder) Dispatch(command Command) {
	rec.commands = append(rec.commands, command)
	entry := string(command.Type)
	if command.Type == CommandShowScreen {
		entry += ":" + command.Phase.String()
	}
	rec.log = append(rec.log, entry)
}

func (rec *recorder) SaveReflection(reflection model.Reflection) model.SaveResult {
	rec.reflections = append(rec.reflections, reflection)
	rec.log = append(rec.log, "journal.save")
	return rec.saveResult
}

func (rec *recorder) IncrementSessionCount() (model.SessionStats, error) {
	rec.log = append(rec.log, "counter.increment")
	return rec.stats, rec.countErr
}

func (rec *recorder) reset() {
	rec.log = nil
	rec.commands = nil
}

func newTestKeeper(t *testing.T) (*Keeper, *recorder, *clock.Manual) {
	t.Helper()
	source := clock.NewManual(0)
	rec := &recorder{}
	keeper := New(timer.New(source), Collaborators{
		Animator:   rec,
		Dispatcher: rec,
		Journal:    rec,
		Counter:    rec,
	}, Config{
		ReflectModeDelay: DefaultReflectModeDelay,
		NewSessionID:     func() string { return "session-1" },
	})
	return keeper, rec, source
}

var testConfig = model.SessionConfig{Work: time.Minute, Rest: 30 * time.Second}

func assertLog(t *testing.T, got []string, want ...string) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("log = %v, want %v", got, want)
	}
}

func TestNextTable(t *testing.T) {
	t.Parallel()
	tests := []struct {
		from   model.Phase
		action Action
		want   model.Phase
		ok     bool
	}{
		{from: model.PhaseIdle, action: ActionStartWork, want: model.PhaseWork, ok: true},
		{from: model.PhaseWork, action: ActionComplete, want: model.PhaseAlert, ok: true},
		{from: model.PhaseWork, action: ActionCancel, want: model.PhaseIdle, ok: true},
		{from: model.PhaseAlert, action: ActionStartRest, want: model.PhaseRest, ok: true},
		{from: model.PhaseRest, action: ActionComplete, want: model.PhaseReflect, ok: true},
		{from: model.PhaseRest, action: ActionCancel, want: model.PhaseIdle, ok: true},
		{from: model.PhaseReflect, action: ActionFinish, want: model.PhaseComplete, ok: true},
		{from: model.PhaseComplete, action: ActionAcknowledge, want: model.PhaseIdle, ok: true},
		{from: model.PhaseComplete, action: ActionCancel, want: model.PhaseIdle, ok: true},
		{from: model.PhaseIdle, action: ActionComplete, ok: false},
		{from: model.PhaseAlert, action: ActionCancel, ok: false},
		{from: model.PhaseReflect, action: ActionStartWork, ok: false},
	}
	for _, tt := range tests {
		got, ok := Next(tt.from, tt.action)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Fatalf("Next(%s, %s) = %s, %v, want %s, %v", tt.from, tt.action, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFullSessionCommands(t *testing.T) {
	t.Parallel()
	keeper, rec, source := newTestKeeper(t)
	rec.saveResult = model.SaveResult{Success: true, Path: "/tmp/x.md"}
	rec.stats = model.SessionStats{TotalSessions: 3, TodaySessions: 1}

	if err := keeper.StartWork(testConfig); err != nil {
		t.Fatalf("StartWork error: %v", err)
	}
	assertLog(t, rec.log, "work_mode", "show_screen:work", "animator.start:work")

	rec.reset()
	source.Set(time.Minute)
	if !keeper.CompletePhase(model.PhaseWork) {
		t.Fatal("CompletePhase(work) = false, want true")
	}
	assertLog(t, rec.log, "animator.stop", "play_work_complete", "notify_work_complete", "screen_takeover", "show_screen:alert")

	rec.reset()
	if err := keeper.StartRest(); err != nil {
		t.Fatalf("StartRest error: %v", err)
	}
	assertLog(t, rec.log, "rest_mode", "show_screen:rest", "animator.start:rest")
	if got := keeper.Duration(); got != 30*time.Second {
		t.Fatalf("Duration() = %v, want %v", got, 30*time.Second)
	}

	rec.reset()
	source.Advance(30 * time.Second)
	if !keeper.CompletePhase(model.PhaseRest) {
		t.Fatal("CompletePhase(rest) = false, want true")
	}
	assertLog(t, rec.log, "animator.stop", "play_rest_complete", "reflect_mode", "show_screen:reflect")
	if delay := rec.commands[1].Delay; delay != DefaultReflectModeDelay {
		t.Fatalf("reflect mode Delay = %v, want %v", delay, DefaultReflectModeDelay)
	}

	rec.reset()
	outcome, err := keeper.FinishReflection(&model.Reflection{
		Task:          "  ship the timer ",
		VirtueRatings: map[string]int{"arete": 4},
	})
	if err != nil {
		t.Fatalf("FinishReflection error: %v", err)
	}
	assertLog(t, rec.log, "journal.save", "counter.increment", "show_screen:complete")
	if !outcome.Saved || outcome.Message != "Reflection saved" {
		t.Fatalf("outcome = %+v, want saved", outcome)
	}
	if outcome.Stats != rec.stats {
		t.Fatalf("Stats = %+v, want %+v", outcome.Stats, rec.stats)
	}
	saved := rec.reflections[0]
	if saved.Task != "ship the timer" || saved.SessionID != "session-1" || saved.WorkMinutes != 1 || saved.RestMinutes != 0.5 {
		t.Fatalf("saved reflection = %+v", saved)
	}

	rec.reset()
	if err := keeper.Acknowledge(); err != nil {
		t.Fatalf("Acknowledge error: %v", err)
	}
	assertLog(t, rec.log, "animator.stop", "setup_mode", "show_screen:idle")
	if keeper.Phase() != model.PhaseIdle {
		t.Fatalf("Phase() = %s, want idle", keeper.Phase())
	}
}

func TestCancelStopsAnimatorFirst(t *testing.T) {
	t.Parallel()
	for _, phase := range []model.Phase{model.PhaseWork, model.PhaseRest} {
		keeper, rec, source := newTestKeeper(t)
		if err := keeper.StartWork(testConfig); err != nil {
			t.Fatalf("StartWork error: %v", err)
		}
		if phase == model.PhaseRest {
			source.Set(time.Minute)
			keeper.CompletePhase(model.PhaseWork)
			if err := keeper.StartRest(); err != nil {
				t.Fatalf("StartRest error: %v", err)
			}
		}

		rec.reset()
		if err := keeper.Cancel(); err != nil {
			t.Fatalf("Cancel in %s error: %v", phase, err)
		}
		assertLog(t, rec.log, "animator.stop", "setup_mode", "show_screen:idle")
	}
}

func TestCancelWinsOverCompletion(t *testing.T) {
	t.Parallel()
	keeper, rec, source := newTestKeeper(t)
	if err := keeper.StartWork(testConfig); err != nil {
		t.Fatalf("StartWork error: %v", err)
	}
	source.Set(2 * time.Minute)

	if err := keeper.Cancel(); err != nil {
		t.Fatalf("Cancel error: %v", err)
	}
	rec.reset()
	if keeper.CompletePhase(model.PhaseWork) {
		t.Fatal("CompletePhase after cancel = true, want false")
	}
	if len(rec.log) != 0 {
		t.Fatalf("log = %v, want no side effects", rec.log)
	}
	if keeper.Phase() != model.PhaseIdle {
		t.Fatalf("Phase() = %s, want idle", keeper.Phase())
	}
}

func TestCompletePhaseIgnoresRemainingTime(t *testing.T) {
	t.Parallel()
	keeper, rec, source := newTestKeeper(t)
	if err := keeper.StartWork(testConfig); err != nil {
		t.Fatalf("StartWork error: %v", err)
	}
	source.Set(59 * time.Second)
	rec.reset()
	if keeper.CompletePhase(model.PhaseWork) {
		t.Fatal("CompletePhase with time remaining = true, want false")
	}
	if len(rec.log) != 0 {
		t.Fatalf("log = %v, want no side effects", rec.log)
	}
}

func TestPauseResume(t *testing.T) {
	t.Parallel()
	keeper, rec, source := newTestKeeper(t)
	if err := keeper.Pause(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Pause in idle error = %v, want ErrInvalidTransition", err)
	}
	if err := keeper.StartWork(testConfig); err != nil {
		t.Fatalf("StartWork error: %v", err)
	}

	rec.reset()
	source.Set(10 * time.Second)
	if err := keeper.TogglePause(); err != nil {
		t.Fatalf("TogglePause error: %v", err)
	}
	if err := keeper.Pause(); err != nil {
		t.Fatalf("second Pause error: %v", err)
	}
	assertLog(t, rec.log, "animator.pause", "pause_feedback")
	if !rec.commands[0].Paused || !keeper.Paused() {
		t.Fatal("expected paused state")
	}

	rec.reset()
	source.Set(40 * time.Second)
	if err := keeper.TogglePause(); err != nil {
		t.Fatalf("TogglePause error: %v", err)
	}
	if err := keeper.Resume(); err != nil {
		t.Fatalf("second Resume error: %v", err)
	}
	assertLog(t, rec.log, "animator.resume", "pause_feedback")
	if rec.commands[0].Paused || keeper.Paused() {
		t.Fatal("expected running state")
	}

	source.Set(45 * time.Second)
	if got := keeper.Snapshot().Elapsed; got != 15*time.Second {
		t.Fatalf("Elapsed = %v, want %v", got, 15*time.Second)
	}
}

func TestInvalidTransitions(t *testing.T) {
	t.Parallel()
	keeper, rec, _ := newTestKeeper(t)
	checks := map[string]func() error{
		"start rest":  keeper.StartRest,
		"cancel":      keeper.Cancel,
		"acknowledge": keeper.Acknowledge,
		"finish": func() error {
			_, err := keeper.FinishReflection(nil)
			return err
		},
	}
	for name, check := range checks {
		if err := check(); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("%s in idle error = %v, want ErrInvalidTransition", name, err)
		}
	}
	if err := keeper.StartWork(testConfig); err != nil {
		t.Fatalf("StartWork error: %v", err)
	}
	if err := keeper.StartWork(testConfig); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("StartWork in work error = %v, want ErrInvalidTransition", err)
	}
	if len(rec.reflections) != 0 {
		t.Fatalf("reflections = %v, want none", rec.reflections)
	}
}

func TestFinishReflectionFailuresStillComplete(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		entry   *model.Reflection
		result  model.SaveResult
		message string
	}{
		{name: "save fails", entry: &model.Reflection{Task: "x"}, result: model.SaveResult{Error: "read-only"}, message: "Reflection not saved"},
		{name: "skip", entry: nil, message: ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			keeper, rec, source := newTestKeeper(t)
			rec.saveResult = tt.result
			rec.countErr = errors.New("database locked")
			_ = keeper.StartWork(testConfig)
			source.Set(time.Minute)
			keeper.CompletePhase(model.PhaseWork)
			_ = keeper.StartRest()
			source.Advance(time.Minute)
			keeper.CompletePhase(model.PhaseRest)

			outcome, err := keeper.FinishReflection(tt.entry)
			if err != nil {
				t.Fatalf("FinishReflection error: %v", err)
			}
			if keeper.Phase() != model.PhaseComplete {
				t.Fatalf("Phase() = %s, want complete", keeper.Phase())
			}
			if outcome.Saved || outcome.Message != tt.message {
				t.Fatalf("outcome = %+v, want message %q", outcome, tt.message)
			}
			if tt.entry == nil && len(rec.reflections) != 0 {
				t.Fatalf("skip saved %d reflections", len(rec.reflections))
			}
		})
	}
}

func TestStartWorkNormalizesConfig(t *testing.T) {
	t.Parallel()
	keeper, _, _ := newTestKeeper(t)
	if err := keeper.StartWork(model.SessionConfig{}); err != nil {
		t.Fatalf("StartWork error: %v", err)
	}
	if got := keeper.Duration(); got != 6*time.Second {
		t.Fatalf("Duration() = %v, want %v", got, 6*time.Second)
	}
	if keeper.SessionID() != "session-1" {
		t.Fatalf("SessionID() = %q", keeper.SessionID())
	}
}

func TestSubscribeReceivesEvents(t *testing.T) {
	t.Parallel()
	keeper, _, _ := newTestKeeper(t)
	events := keeper.Subscribe(4)
	if err := keeper.StartWork(testConfig); err != nil {
		t.Fatalf("StartWork error: %v", err)
	}
	event := <-events
	if event.Type != EventPhaseChange || event.Phase != model.PhaseWork || event.Previous != model.PhaseIdle {
		t.Fatalf("event = %+v", event)
	}
	if event.Duration != time.Minute {
		t.Fatalf("Duration = %v, want %v", event.Duration, time.Minute)
	}

	keeper.Close()
	if _, ok := <-events; ok {
		t.Fatal("channel still open after Close")
	}
	if _, ok := <-keeper.Subscribe(1); ok {
		t.Fatal("Subscribe after Close returned an open channel")
	}
}

func TestCloseStopsAnimatorOnce(t *testing.T) {
	t.Parallel()
	keeper, rec, _ := newTestKeeper(t)
	if err := keeper.StartWork(testConfig); err != nil {
		t.Fatalf("StartWork error: %v", err)
	}
	events := keeper.Subscribe(1)
	rec.reset()

	keeper.Close()
	keeper.Close()

	assertLog(t, rec.log, "animator.stop")
	if _, ok := <-events; ok {
		t.Fatal("channel still open after Close")
	}
}
