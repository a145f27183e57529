package model

// Phase is one step of the session lifecycle.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseWork     Phase = "work"
	PhaseAlert    Phase = "alert"
	PhaseRest     Phase = "rest"
	PhaseReflect  Phase = "reflect"
	PhaseComplete Phase = "complete"
)

// Timed reports whether the phase runs the timer and the animation loop.
func (phase Phase) Timed() bool {
	return phase == PhaseWork || phase == PhaseRest
}

func (phase Phase) String() string {
	return string(phase)
}
