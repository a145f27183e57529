package window

import (
	"chronos/internal/core/model"
	"chronos/internal/ui/animation"
	"chronos/internal/ui/overlay"
	"chronos/internal/ui/preferences"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Mode is the window geometry requested by a phase.
type Mode string

const (
	ModeSetup   Mode = "setup"
	ModeWork    Mode = "work"
	ModeRest    Mode = "rest"
	ModeReflect Mode = "reflect"
)

var (
	setupSize   = fyne.NewSize(460, 540)
	workSize    = fyne.NewSize(240, 280)
	reflectSize = fyne.NewSize(520, 640)
)

// Actions are the user intents the window forwards.
type Actions struct {
	StartWork        func(model.SettingsPatch)
	SettingsChanged  func(model.SettingsPatch)
	TogglePause      func()
	Cancel           func()
	BeginRest        func()
	FinishReflection func(*model.Reflection)
	Acknowledge      func()
	ToggleDebug      func()
}

// Window is the main application window. It shows one screen per phase.
// All methods must run on the UI goroutine.
type Window struct {
	window  fyne.Window
	actions Actions
	phase   model.Phase
	mode    Mode

	setup        *preferences.Form
	workFace     *overlay.Face
	restFace     *overlay.Face
	alertQuote   *widget.Label
	restQuote    *widget.Label
	reflection   *reflectionForm
	confirmation *widget.Label
	sessionStats *widget.Label
	debug        *widget.Label
	debugPanel   fyne.CanvasObject

	screens map[model.Phase]fyne.CanvasObject
	body    *fyne.Container
}

// New creates the main window showing the setup screen.
func New(app fyne.App, settings model.Settings, actions Actions) *Window {
	view := &Window{
		window:       app.NewWindow("Chronos"),
		actions:      withDefaults(actions),
		phase:        model.PhaseIdle,
		workFace:     overlay.NewFace(overlay.WorkStyle),
		restFace:     overlay.NewFace(overlay.RestStyle),
		alertQuote:   wrappedLabel(),
		restQuote:    wrappedLabel(),
		confirmation: widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
		sessionStats: widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{}),
		debug:        widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Monospace: true}),
	}
	if app.Icon() != nil {
		view.window.SetIcon(app.Icon())
	}

	view.setup = preferences.NewForm(settings, view.actions.StartWork, view.actions.SettingsChanged)
	view.reflection = newReflectionForm(view.actions.FinishReflection, func() {
		view.actions.FinishReflection(nil)
	})
	view.screens = view.buildScreens()

	view.debugPanel = container.NewVBox(container.NewHBox(layout.NewSpacer(), widget.NewCard("", "", view.debug)))
	view.debugPanel.Hide()
	view.body = container.NewStack(view.screens[model.PhaseIdle], view.debugPanel)
	view.window.SetContent(view.body)

	view.bindKeys()
	view.SetMode(ModeSetup)
	return view
}

func (view *Window) buildScreens() map[model.Phase]fyne.CanvasObject {
	pauseButton := func() *widget.Button {
		return widget.NewButton("Pause", func() { view.actions.TogglePause() })
	}
	cancelButton := func(label string) *widget.Button {
		return widget.NewButton(label, func() { view.actions.Cancel() })
	}

	work := container.NewBorder(nil,
		container.NewGridWithColumns(2, pauseButton(), cancelButton("Stop")),
		nil, nil, view.workFace.Object())

	beginRest := widget.NewButton("Begin Rest", func() { view.actions.BeginRest() })
	beginRest.Importance = widget.HighImportance
	alert := container.NewBorder(
		widget.NewLabelWithStyle("Work complete", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		beginRest, nil, nil,
		container.NewCenter(view.alertQuote))

	rest := container.NewBorder(nil,
		container.NewVBox(view.restQuote,
			container.NewHBox(layout.NewSpacer(), pauseButton(), cancelButton("End Rest"), layout.NewSpacer())),
		nil, nil, view.restFace.Object())

	newSession := widget.NewButton("New Session", func() { view.actions.Acknowledge() })
	newSession.Importance = widget.HighImportance
	complete := container.NewBorder(
		widget.NewLabelWithStyle("Session complete", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		newSession, nil, nil,
		container.NewCenter(container.NewVBox(view.confirmation, view.sessionStats)))

	return map[model.Phase]fyne.CanvasObject{
		model.PhaseIdle:     view.setup.Object(),
		model.PhaseWork:     work,
		model.PhaseAlert:    alert,
		model.PhaseRest:     rest,
		model.PhaseReflect:  view.reflection.content,
		model.PhaseComplete: complete,
	}
}

func (view *Window) bindKeys() {
	canvas := view.window.Canvas()
	canvas.SetOnTypedKey(func(event *fyne.KeyEvent) {
		view.HandleKey(event.Name)
	})
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyD, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		view.actions.ToggleDebug()
	})
}

// HandleKey runs the intent bound to key in the current phase.
func (view *Window) HandleKey(key fyne.KeyName) {
	switch IntentForKey(view.phase, key) {
	case IntentTogglePause:
		view.actions.TogglePause()
	case IntentStartWork:
		view.setup.Submit()
	case IntentCancel:
		view.actions.Cancel()
	case IntentBeginRest:
		view.actions.BeginRest()
	case IntentSkipReflection:
		view.actions.FinishReflection(nil)
	case IntentAcknowledge:
		view.actions.Acknowledge()
	}
}

// Phase returns the phase of the visible screen.
func (view *Window) Phase() model.Phase {
	return view.phase
}

// ShowScreen swaps in the screen of phase.
func (view *Window) ShowScreen(phase model.Phase) {
	screen, ok := view.screens[phase]
	if !ok {
		return
	}
	switch phase {
	case model.PhaseWork:
		quote := randomQuote().String()
		view.alertQuote.SetText(quote)
		view.restQuote.SetText(quote)
		view.workFace.Reset()
	case model.PhaseRest:
		view.restFace.Reset()
	case model.PhaseReflect:
		view.reflection.reset()
	}
	view.phase = phase
	view.body.Objects = []fyne.CanvasObject{screen, view.debugPanel}
	view.body.Refresh()
}

// SetMode applies the window geometry of mode.
func (view *Window) SetMode(mode Mode) {
	view.mode = mode
	switch mode {
	case ModeRest:
		view.window.Show()
		view.window.SetFullScreen(true)
		view.window.RequestFocus()
		return
	case ModeWork:
		view.window.SetFullScreen(false)
		view.window.Resize(workSize)
	case ModeReflect:
		view.window.SetFullScreen(false)
		view.window.Resize(reflectSize)
		view.window.CenterOnScreen()
		view.window.Show()
		view.window.RequestFocus()
		return
	default:
		view.window.SetFullScreen(false)
		view.window.Resize(setupSize)
		view.window.CenterOnScreen()
	}
}

// Mode returns the last applied window mode.
func (view *Window) Mode() Mode {
	return view.mode
}

// TakeOver raises the window to announce the end of work.
func (view *Window) TakeOver() {
	view.window.SetFullScreen(false)
	view.window.Resize(setupSize)
	view.window.CenterOnScreen()
	view.window.Show()
	view.window.RequestFocus()
}

// Render draws an animation frame on the face of its phase.
func (view *Window) Render(frame animation.Frame) {
	switch frame.Phase {
	case model.PhaseWork:
		view.workFace.Render(frame)
	case model.PhaseRest:
		view.restFace.Render(frame)
	}
}

// SetPaused shows or clears pause feedback on the active face.
func (view *Window) SetPaused(paused bool) {
	switch view.phase {
	case model.PhaseWork:
		view.workFace.SetPaused(paused)
	case model.PhaseRest:
		view.restFace.SetPaused(paused)
	}
}

// ShowOutcome fills the completion screen.
func (view *Window) ShowOutcome(message string, stats model.SessionStats) {
	view.confirmation.SetText(message)
	view.SetStats(stats)
}

// SetStats updates the session counters on the setup and completion screens.
func (view *Window) SetStats(stats model.SessionStats) {
	view.setup.SetStats(stats)
	view.sessionStats.SetText(preferences.StatsText(stats))
}

// SetSettings refreshes the setup form.
func (view *Window) SetSettings(settings model.Settings) {
	view.setup.SetSettings(settings)
}

// SetDebug updates the debug overlay text and visibility.
func (view *Window) SetDebug(text string, visible bool) {
	view.debug.SetText(text)
	if visible {
		view.debugPanel.Show()
	} else {
		view.debugPanel.Hide()
	}
}

// Show displays the window.
func (view *Window) Show() {
	view.window.Show()
}

// ShowAndFocus displays the window and requests focus.
func (view *Window) ShowAndFocus() {
	view.window.Show()
	view.window.RequestFocus()
}

// SetCloseIntercept replaces the close button behavior.
func (view *Window) SetCloseIntercept(intercept func()) {
	view.window.SetCloseIntercept(intercept)
}

// Hide hides the window.
func (view *Window) Hide() {
	view.window.Hide()
}

func wrappedLabel() *widget.Label {
	label := widget.NewLabel("")
	label.Wrapping = fyne.TextWrapWord
	label.Alignment = fyne.TextAlignCenter
	return label
}

func withDefaults(actions Actions) Actions {
	if actions.StartWork == nil {
		actions.StartWork = func(model.SettingsPatch) {}
	}
	if actions.SettingsChanged == nil {
		actions.SettingsChanged = func(model.SettingsPatch) {}
	}
	if actions.TogglePause == nil {
		actions.TogglePause = func() {}
	}
	if actions.Cancel == nil {
		actions.Cancel = func() {}
	}
	if actions.BeginRest == nil {
		actions.BeginRest = func() {}
	}
	if actions.FinishReflection == nil {
		actions.FinishReflection = func(*model.Reflection) {}
	}
	if actions.Acknowledge == nil {
		actions.Acknowledge = func() {}
	}
	if actions.ToggleDebug == nil {
		actions.ToggleDebug = func() {}
	}
	return actions
}
