package window

import (
	"fmt"

	"chronos/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// reflectionForm collects the journal entry written after rest.
type reflectionForm struct {
	content fyne.CanvasObject
	task    *widget.Entry
	notes   *widget.Entry
	ratings map[string]*widget.Slider
	values  map[string]*widget.Label
}

func newReflectionForm(onSave func(*model.Reflection), onSkip func()) *reflectionForm {
	form := &reflectionForm{
		task:    widget.NewEntry(),
		notes:   widget.NewMultiLineEntry(),
		ratings: make(map[string]*widget.Slider, len(model.VirtueKeys)),
		values:  make(map[string]*widget.Label, len(model.VirtueKeys)),
	}
	form.task.SetPlaceHolder("What did you work on?")
	form.notes.SetPlaceHolder("Notes and reflections")
	form.notes.SetMinRowsVisible(4)

	virtues := container.NewVBox()
	for _, key := range model.VirtueKeys {
		value := widget.NewLabel("0")
		slider := widget.NewSlider(0, model.MaxVirtueRating)
		slider.Step = 1
		slider.OnChanged = func(rating float64) {
			value.SetText(fmt.Sprintf("%.0f", rating))
		}
		form.ratings[key] = slider
		form.values[key] = value
		virtues.Add(container.NewBorder(nil, nil,
			widget.NewLabel(model.VirtueName(key)), value, slider))
	}

	save := widget.NewButton("Save Reflection", func() {
		entry := form.entry()
		onSave(&entry)
	})
	save.Importance = widget.HighImportance
	skip := widget.NewButton("Skip", onSkip)

	form.content = container.NewBorder(
		widget.NewLabelWithStyle("Reflect", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		container.NewHBox(layout.NewSpacer(), skip, save),
		nil, nil,
		container.NewVScroll(container.NewVBox(form.task, form.notes, virtues)),
	)
	return form
}

func (form *reflectionForm) entry() model.Reflection {
	ratings := make(map[string]int, len(form.ratings))
	for key, slider := range form.ratings {
		ratings[key] = int(slider.Value)
	}
	return model.Reflection{
		Task:          form.task.Text,
		Notes:         form.notes.Text,
		VirtueRatings: ratings,
	}
}

func (form *reflectionForm) reset() {
	form.task.SetText("")
	form.notes.SetText("")
	for _, slider := range form.ratings {
		slider.SetValue(0)
	}
}
