package window

import (
	"chronos/internal/core/model"

	"fyne.io/fyne/v2"
)

// Intent is the user action a key press maps to.
type Intent int

const (
	IntentNone Intent = iota
	IntentTogglePause
	IntentStartWork
	IntentCancel
	IntentBeginRest
	IntentSkipReflection
	IntentAcknowledge
)

// IntentForKey maps an unfocused key press in phase to an intent.
func IntentForKey(phase model.Phase, key fyne.KeyName) Intent {
	switch key {
	case fyne.KeySpace:
		if phase.Timed() {
			return IntentTogglePause
		}
	case fyne.KeyReturn, fyne.KeyEnter:
		if phase == model.PhaseIdle {
			return IntentStartWork
		}
	case fyne.KeyEscape:
		switch phase {
		case model.PhaseWork, model.PhaseRest:
			return IntentCancel
		case model.PhaseAlert:
			return IntentBeginRest
		case model.PhaseReflect:
			return IntentSkipReflection
		case model.PhaseComplete:
			return IntentAcknowledge
		}
	}
	return IntentNone
}
