package notify

import "fyne.io/fyne/v2"

const (
	workCompleteTitle = "Time to Rest"
	workCompleteBody  = "Your work session is complete. Time to rest, philosopher."
)

// Sender delivers desktop notifications.
type Sender interface {
	SendNotification(*fyne.Notification)
}

// Notifier posts session notifications through the desktop shell.
type Notifier struct {
	sender Sender
}

// New creates a Notifier. A nil sender drops notifications.
func New(sender Sender) *Notifier {
	return &Notifier{sender: sender}
}

// WorkComplete announces the end of a work phase.
func (notifier *Notifier) WorkComplete() {
	if notifier.sender == nil {
		return
	}
	notifier.sender.SendNotification(fyne.NewNotification(workCompleteTitle, workCompleteBody))
}
