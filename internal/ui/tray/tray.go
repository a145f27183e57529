package tray

import (
	"time"

	"chronos/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

const menuTitle = "Chronos"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnStop       func()
	OnShowWindow func()
	OnQuit       func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	callbacks  Callbacks
	statusItem *fyne.MenuItem
	running    bool
	status     string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		status:    StatusText(model.PhaseIdle, 0, false),
	}
	manager.statusItem = fyne.NewMenuItem(manager.status, nil)
	manager.statusItem.Disabled = true
	manager.refreshMenu()
	return manager
}

// SetStatus updates the status line. Unchanged text does not rebuild the menu.
func (manager *Manager) SetStatus(status string) {
	if status == manager.status {
		return
	}
	manager.status = status
	manager.statusItem.Label = status
	manager.refreshMenu()
}

// SetRunning switches the primary item between Stop Timer and Show Window.
func (manager *Manager) SetRunning(running bool) {
	if running == manager.running {
		return
	}
	manager.running = running
	manager.refreshMenu()
}

// Items returns the current menu items.
func (manager *Manager) Items() []*fyne.MenuItem {
	primary := fyne.NewMenuItem("Show Window", manager.callbacks.OnShowWindow)
	if manager.running {
		primary = fyne.NewMenuItem("Stop Timer", manager.callbacks.OnStop)
	}
	return []*fyne.MenuItem{
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		primary,
		fyne.NewMenuItem("Quit Chronos", manager.callbacks.OnQuit),
	}
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(fyne.NewMenu(menuTitle, manager.Items()...))
	}
}

// StatusText describes the session state for the tray status line.
func StatusText(phase model.Phase, remaining time.Duration, paused bool) string {
	var status string
	switch phase {
	case model.PhaseWork:
		status = "Working · " + model.FormatCountdown(remaining)
	case model.PhaseRest:
		status = "Resting · " + model.FormatCountdown(remaining)
	case model.PhaseAlert:
		status = "Work complete"
	case model.PhaseReflect:
		status = "Reflecting"
	case model.PhaseComplete:
		status = "Session complete"
	default:
		return "Ready"
	}
	if paused {
		status += " (paused)"
	}
	return status
}
