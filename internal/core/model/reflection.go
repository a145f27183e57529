package model

import "strings"

// VirtueKeys lists the virtues rated during reflection, in display order.
var VirtueKeys = []string{"arete", "sophrosyne", "andreia", "dikaiosyne", "phronesis"}

var virtueNames = map[string]string{
	"arete":      "Areté",
	"sophrosyne": "Sophrosyne",
	"andreia":    "Andreia",
	"dikaiosyne": "Dikaiosyne",
	"phronesis":  "Phronesis",
}

// MaxVirtueRating is the highest rating a virtue can receive.
const MaxVirtueRating = 5

// VirtueName returns the display name of a virtue key.
func VirtueName(key string) string {
	if name, ok := virtueNames[key]; ok {
		return name
	}
	return key
}

// Reflection is the journal entry written after a rest phase.
type Reflection struct {
	SessionID     string
	Task          string
	Notes         string
	VirtueRatings map[string]int
	WorkMinutes   float64
	RestMinutes   float64
}

// Clean returns a copy with trimmed text and ratings clamped to 0..5.
func (reflection Reflection) Clean() Reflection {
	reflection.Task = strings.TrimSpace(reflection.Task)
	reflection.Notes = strings.TrimSpace(reflection.Notes)
	ratings := make(map[string]int, len(reflection.VirtueRatings))
	for key, value := range reflection.VirtueRatings {
		if value < 0 {
			value = 0
		}
		if value > MaxVirtueRating {
			value = MaxVirtueRating
		}
		ratings[key] = value
	}
	reflection.VirtueRatings = ratings
	return reflection
}

// SaveResult reports the outcome of persisting a reflection.
type SaveResult struct {
	Success bool
	Error   string
	Path    string
}

const (
	confirmationSaved    = "Reflection saved"
	confirmationNotSaved = "Reflection not saved"
)

// ConfirmationText returns the text shown on the completion screen.
// A skipped reflection has no confirmation.
func ConfirmationText(result *SaveResult) string {
	if result == nil {
		return ""
	}
	if result.Success {
		return confirmationSaved
	}
	return confirmationNotSaved
}
