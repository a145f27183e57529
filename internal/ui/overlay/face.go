package overlay

import (
	"image/color"

	"chronos/internal/core/model"
	"chronos/internal/ui/animation"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
)

var (
	backgroundColor = color.NRGBA{R: 18, G: 16, B: 24, A: 255}
	textColor       = color.NRGBA{R: 240, G: 232, B: 214, A: 255}
	mutedTextColor  = color.NRGBA{R: 160, G: 150, B: 136, A: 255}
)

// Style selects the accent and text sizes of a Face.
type Style struct {
	Title         string
	Accent        color.NRGBA
	CountdownSize float32
	ShowCountdown bool
}

// WorkStyle is the compact face shown while working.
var WorkStyle = Style{
	Title:         "Focus",
	Accent:        color.NRGBA{R: 232, G: 190, B: 66, A: 255},
	CountdownSize: 28,
	ShowCountdown: true,
}

// RestStyle is the full screen face shown while resting.
var RestStyle = Style{
	Title:         "Rest",
	Accent:        color.NRGBA{R: 110, G: 170, B: 220, A: 255},
	CountdownSize: 96,
	ShowCountdown: true,
}

// Face draws the progress of a timed phase as a fill rising from the
// bottom, with the countdown and pause state on top.
type Face struct {
	style      Style
	root       *fyne.Container
	background *canvas.Rectangle
	fill       *canvas.Rectangle
	title      *canvas.Text
	countdown  *canvas.Text
	status     *canvas.Text
	layout     *faceLayout
}

// NewFace creates a face in the reset state.
func NewFace(style Style) *Face {
	background := canvas.NewRectangle(backgroundColor)
	fill := canvas.NewRectangle(withAlpha(style.Accent, 90))

	title := canvas.NewText(style.Title, textColor)
	title.Alignment = fyne.TextAlignCenter
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.TextSize = 18

	countdown := canvas.NewText("", style.Accent)
	countdown.Alignment = fyne.TextAlignCenter
	countdown.TextStyle = fyne.TextStyle{Monospace: true}
	countdown.TextSize = style.CountdownSize
	countdown.Hidden = !style.ShowCountdown

	status := canvas.NewText("", mutedTextColor)
	status.Alignment = fyne.TextAlignCenter
	status.TextSize = 14

	stack := &faceLayout{}
	face := &Face{
		style:      style,
		background: background,
		fill:       fill,
		title:      title,
		countdown:  countdown,
		status:     status,
		layout:     stack,
	}
	face.root = container.New(stack, background, fill, title, countdown, status)
	return face
}

// Object returns the face content.
func (face *Face) Object() fyne.CanvasObject {
	return face.root
}

// Render draws one animation frame.
func (face *Face) Render(frame animation.Frame) {
	face.layout.progress = float32(frame.AnimatedProgress)
	face.countdown.Text = model.FormatCountdown(frame.Remaining)
	face.countdown.Refresh()
	face.root.Refresh()
}

// SetPaused shows or clears the pause feedback.
func (face *Face) SetPaused(paused bool) {
	if paused {
		face.status.Text = "Paused · Space to resume"
		face.fill.FillColor = withAlpha(face.style.Accent, 40)
	} else {
		face.status.Text = ""
		face.fill.FillColor = withAlpha(face.style.Accent, 90)
	}
	face.status.Refresh()
	face.fill.Refresh()
}

// Reset empties the face for a new run.
func (face *Face) Reset() {
	face.layout.progress = 0
	face.SetPaused(false)
	face.countdown.Text = ""
	face.countdown.Refresh()
	face.root.Refresh()
}

func withAlpha(value color.NRGBA, alpha uint8) color.NRGBA {
	value.A = alpha
	return value
}

// faceLayout stacks background, fill, title, countdown and status.
type faceLayout struct {
	progress float32
}

func (layout *faceLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 5 {
		return
	}
	background, fill, title, countdown, status := objects[0], objects[1], objects[2], objects[3], objects[4]

	background.Move(fyne.NewPos(0, 0))
	background.Resize(size)

	progress := layout.progress
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	fillHeight := size.Height * progress
	fill.Move(fyne.NewPos(0, size.Height-fillHeight))
	fill.Resize(fyne.NewSize(size.Width, fillHeight))

	pad := size.Height * 0.06
	titleSize := title.MinSize()
	title.Move(fyne.NewPos(0, pad))
	title.Resize(fyne.NewSize(size.Width, titleSize.Height))

	countdownSize := countdown.MinSize()
	countdownY := (size.Height - countdownSize.Height) / 2
	if countdownY < pad+titleSize.Height {
		countdownY = pad + titleSize.Height
	}
	countdown.Move(fyne.NewPos(0, countdownY))
	countdown.Resize(fyne.NewSize(size.Width, countdownSize.Height))

	statusSize := status.MinSize()
	statusY := size.Height - pad - statusSize.Height
	if statusY < 0 {
		statusY = 0
	}
	status.Move(fyne.NewPos(0, statusY))
	status.Resize(fyne.NewSize(size.Width, statusSize.Height))
}

func (layout *faceLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 5 {
		return fyne.NewSize(0, 0)
	}
	width := float32(0)
	height := float32(40)
	for _, object := range objects[2:] {
		objectSize := object.MinSize()
		if objectSize.Width > width {
			width = objectSize.Width
		}
		height += objectSize.Height
	}
	return fyne.NewSize(width+20, height)
}
