package app

import (
	"time"

	"chronos/internal/core/model"
	"chronos/resources"
)

// trayStatusInterval bounds how often the tray countdown is rebuilt.
const trayStatusInterval = time.Second

// trayIconName picks the tray icon for the session state.
func trayIconName(phase model.Phase, paused bool) string {
	switch {
	case phase.Timed() && paused:
		return resources.IconPaused
	case phase.Timed():
		return resources.IconRunning
	default:
		return resources.IconApp
	}
}
