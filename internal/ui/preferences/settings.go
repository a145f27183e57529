package preferences

import (
	"strconv"
	"strings"

	"chronos/internal/core/model"
)

const (
	workStep = 5
	restStep = 1
)

// FormValues are the raw texts of the setup form.
type FormValues struct {
	Work       string
	Rest       string
	LogDir     string
	AudioMuted bool
}

// ValuesFromSettings fills a form from settings.
func ValuesFromSettings(settings model.Settings) FormValues {
	return FormValues{
		Work:       model.FormatMinutes(settings.WorkMinutes),
		Rest:       model.FormatMinutes(settings.RestMinutes),
		LogDir:     settings.LogDir,
		AudioMuted: settings.AudioMuted,
	}
}

// Patch converts form values to a full settings update. Invalid minute
// texts fall back to the defaults and every value is clamped.
func (values FormValues) Patch() model.SettingsPatch {
	defaults := model.DefaultSettings()
	work := model.ClampMinutes(model.ParseMinutes(strings.TrimSpace(values.Work), defaults.WorkMinutes), model.MaxWorkMinutes)
	rest := model.ClampMinutes(model.ParseMinutes(strings.TrimSpace(values.Rest), defaults.RestMinutes), model.MaxRestMinutes)
	logDir := strings.TrimSpace(values.LogDir)
	muted := values.AudioMuted
	return model.SettingsPatch{
		WorkMinutes: &work,
		RestMinutes: &rest,
		LogDir:      &logDir,
		AudioMuted:  &muted,
	}
}

// Preview describes the work length entered in the form.
func (values FormValues) Preview() string {
	return model.TimePreview(model.ParseMinutes(strings.TrimSpace(values.Work), model.DefaultSettings().WorkMinutes))
}

// StatsText renders the session counters shown under the form.
func StatsText(stats model.SessionStats) string {
	return plural(stats.TotalSessions, "session") + " total · " + plural(stats.TodaySessions, "session") + " today"
}

func plural(count int, noun string) string {
	text := strconv.Itoa(count) + " " + noun
	if count != 1 {
		text += "s"
	}
	return text
}
