package preferences

import (
	"chronos/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Form is the setup screen: session lengths, journal directory and mute.
type Form struct {
	content  fyne.CanvasObject
	work     *widget.Entry
	rest     *widget.Entry
	logDir   *widget.Entry
	muted    *widget.Check
	preview  *widget.Label
	stats    *widget.Label
	start    *widget.Button
	onStart  func(model.SettingsPatch)
	onChange func(model.SettingsPatch)
}

// NewForm creates the setup form. onStart receives the submitted values;
// onChange receives edits that should persist without starting.
func NewForm(settings model.Settings, onStart, onChange func(model.SettingsPatch)) *Form {
	form := &Form{
		work:     widget.NewEntry(),
		rest:     widget.NewEntry(),
		logDir:   widget.NewEntry(),
		preview:  widget.NewLabel(""),
		stats:    widget.NewLabel(""),
		onStart:  onStart,
		onChange: onChange,
	}
	form.logDir.SetPlaceHolder("Journal folder (optional)")
	form.muted = widget.NewCheck("Mute chimes", func(bool) {
		form.changed()
	})
	form.work.OnChanged = func(string) {
		form.preview.SetText(form.values().Preview())
	}
	form.work.OnSubmitted = func(string) { form.submit() }
	form.rest.OnSubmitted = func(string) { form.submit() }
	form.start = widget.NewButton("Begin Work", form.submit)
	form.start.Importance = widget.HighImportance

	title := widget.NewLabelWithStyle("Chronos", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	fields := container.NewVBox(
		container.NewBorder(nil, nil, widget.NewLabel("Work (min)"), stepper(form.work, workStep, model.MaxWorkMinutes, form.adjust), form.work),
		form.preview,
		container.NewBorder(nil, nil, widget.NewLabel("Rest (min)"), stepper(form.rest, restStep, model.MaxRestMinutes, form.adjust), form.rest),
		form.logDir,
		form.muted,
	)
	form.content = container.NewBorder(
		title,
		container.NewVBox(form.start, container.NewHBox(layout.NewSpacer(), form.stats, layout.NewSpacer())),
		nil, nil,
		container.NewPadded(fields),
	)
	form.SetSettings(settings)
	return form
}

// Object returns the form content.
func (form *Form) Object() fyne.CanvasObject {
	return form.content
}

// SetSettings replaces the form values.
func (form *Form) SetSettings(settings model.Settings) {
	values := ValuesFromSettings(settings)
	form.work.SetText(values.Work)
	form.rest.SetText(values.Rest)
	form.logDir.SetText(values.LogDir)
	form.muted.Checked = values.AudioMuted
	form.muted.Refresh()
	form.preview.SetText(values.Preview())
}

// SetStats updates the session counters line.
func (form *Form) SetStats(stats model.SessionStats) {
	form.stats.SetText(StatsText(stats))
}

// Submit starts a session with the current values.
func (form *Form) Submit() {
	form.submit()
}

func (form *Form) values() FormValues {
	return FormValues{
		Work:       form.work.Text,
		Rest:       form.rest.Text,
		LogDir:     form.logDir.Text,
		AudioMuted: form.muted.Checked,
	}
}

func (form *Form) submit() {
	if form.onStart != nil {
		form.onStart(form.values().Patch())
	}
}

func (form *Form) changed() {
	if form.onChange != nil {
		form.onChange(form.values().Patch())
	}
}

func (form *Form) adjust(entry *widget.Entry, delta, max float64) {
	current := model.ParseMinutes(entry.Text, 0)
	entry.SetText(model.FormatMinutes(model.AdjustMinutes(current, delta, max)))
}

func stepper(entry *widget.Entry, step, max float64, adjust func(*widget.Entry, float64, float64)) fyne.CanvasObject {
	return container.NewHBox(
		widget.NewButton("−", func() { adjust(entry, -step, max) }),
		widget.NewButton("+", func() { adjust(entry, step, max) }),
	)
}
