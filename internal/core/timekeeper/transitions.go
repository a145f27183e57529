package timekeeper

import "chronos/internal/core/model"

// Action is a user or timer event fed to the phase machine.
type Action string

const (
	ActionStartWork   Action = "start_work"
	ActionComplete    Action = "complete"
	ActionCancel      Action = "cancel"
	ActionStartRest   Action = "start_rest"
	ActionFinish      Action = "finish_reflection"
	ActionAcknowledge Action = "acknowledge"
)

var transitions = map[model.Phase]map[Action]model.Phase{
	model.PhaseIdle: {
		ActionStartWork: model.PhaseWork,
	},
	model.PhaseWork: {
		ActionComplete: model.PhaseAlert,
		ActionCancel:   model.PhaseIdle,
	},
	model.PhaseAlert: {
		ActionStartRest: model.PhaseRest,
	},
	model.PhaseRest: {
		ActionComplete: model.PhaseReflect,
		ActionCancel:   model.PhaseIdle,
	},
	model.PhaseReflect: {
		ActionFinish: model.PhaseComplete,
	},
	model.PhaseComplete: {
		ActionCancel:      model.PhaseIdle,
		ActionAcknowledge: model.PhaseIdle,
	},
}

// Next returns the phase reached from `from` on action.
// ok is false when the action is not valid in that phase.
func Next(from model.Phase, action Action) (model.Phase, bool) {
	next, ok := transitions[from][action]
	return next, ok
}
