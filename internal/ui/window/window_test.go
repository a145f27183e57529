package window

import (
	"testing"

	"chronos/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
)

type actionLog struct {
	calls      []string
	started    []model.SettingsPatch
	reflection []*model.Reflection
}

func newTestWindow(t *testing.T) (*Window, *actionLog) {
	t.Helper()
	app := test.NewTempApp(t)
	log := &actionLog{}
	view := New(app, model.DefaultSettings(), Actions{
		StartWork: func(patch model.SettingsPatch) {
			log.calls = append(log.calls, "start")
			log.started = append(log.started, patch)
		},
		TogglePause: func() { log.calls = append(log.calls, "toggle") },
		Cancel:      func() { log.calls = append(log.calls, "cancel") },
		BeginRest:   func() { log.calls = append(log.calls, "rest") },
		FinishReflection: func(entry *model.Reflection) {
			log.calls = append(log.calls, "finish")
			log.reflection = append(log.reflection, entry)
		},
		Acknowledge: func() { log.calls = append(log.calls, "ack") },
	})
	return view, log
}

func TestKeysFollowVisibleScreen(t *testing.T) {
	view, log := newTestWindow(t)

	view.HandleKey(fyne.KeyReturn)
	view.ShowScreen(model.PhaseWork)
	view.HandleKey(fyne.KeySpace)
	view.HandleKey(fyne.KeyEscape)
	view.ShowScreen(model.PhaseAlert)
	view.HandleKey(fyne.KeyEscape)
	view.ShowScreen(model.PhaseReflect)
	view.HandleKey(fyne.KeyEscape)
	view.ShowScreen(model.PhaseComplete)
	view.HandleKey(fyne.KeyEscape)

	want := []string{"start", "toggle", "cancel", "rest", "finish", "ack"}
	if len(log.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", log.calls, want)
	}
	for i := range want {
		if log.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", log.calls, want)
		}
	}
	if got := *log.started[0].WorkMinutes; got != 25 {
		t.Fatalf("started WorkMinutes = %v, want 25", got)
	}
	if log.reflection[0] != nil {
		t.Fatal("Escape in reflect should skip the reflection")
	}
}

func TestReflectionEntryAndReset(t *testing.T) {
	view, _ := newTestWindow(t)
	view.ShowScreen(model.PhaseReflect)

	view.reflection.task.SetText("parser")
	view.reflection.ratings["arete"].SetValue(4)
	entry := view.reflection.entry()
	if entry.Task != "parser" || entry.VirtueRatings["arete"] != 4 || entry.VirtueRatings["phronesis"] != 0 {
		t.Fatalf("entry = %+v", entry)
	}

	view.ShowScreen(model.PhaseReflect)
	if entry := view.reflection.entry(); entry.Task != "" || entry.VirtueRatings["arete"] != 0 {
		t.Fatalf("entry after reset = %+v", entry)
	}
}

func TestModesAndDebugPanel(t *testing.T) {
	view, _ := newTestWindow(t)
	if view.Mode() != ModeSetup {
		t.Fatalf("initial Mode() = %s, want setup", view.Mode())
	}
	view.SetMode(ModeRest)
	if !view.window.FullScreen() {
		t.Fatal("rest mode is not full screen")
	}
	view.SetMode(ModeWork)
	if view.window.FullScreen() {
		t.Fatal("work mode is full screen")
	}

	view.SetDebug("phase: work", true)
	if !view.debugPanel.Visible() || view.debug.Text != "phase: work" {
		t.Fatal("debug panel not shown")
	}
	view.SetDebug("", false)
	if view.debugPanel.Visible() {
		t.Fatal("debug panel still shown")
	}

	view.ShowOutcome("Reflection saved", model.SessionStats{TotalSessions: 3, TodaySessions: 2})
	if view.confirmation.Text != "Reflection saved" {
		t.Fatalf("confirmation = %q", view.confirmation.Text)
	}
}
