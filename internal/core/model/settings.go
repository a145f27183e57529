package model

// Settings defines persisted user preferences.
type Settings struct {
	WorkMinutes float64
	RestMinutes float64
	LogDir      string
	AudioMuted  bool
}

// DefaultSettings returns the settings used before anything is saved.
func DefaultSettings() Settings {
	return Settings{
		WorkMinutes: 25,
		RestMinutes: 5,
	}
}

// SessionConfig converts settings to a SessionConfig.
func (settings Settings) SessionConfig() SessionConfig {
	return SessionConfigFromMinutes(settings.WorkMinutes, settings.RestMinutes)
}

// SettingsPatch is a partial settings update. Nil fields are left unchanged.
type SettingsPatch struct {
	WorkMinutes *float64
	RestMinutes *float64
	LogDir      *string
	AudioMuted  *bool
}

// Apply returns settings with the patch fields applied.
func (patch SettingsPatch) Apply(settings Settings) Settings {
	if patch.WorkMinutes != nil {
		settings.WorkMinutes = *patch.WorkMinutes
	}
	if patch.RestMinutes != nil {
		settings.RestMinutes = *patch.RestMinutes
	}
	if patch.LogDir != nil {
		settings.LogDir = *patch.LogDir
	}
	if patch.AudioMuted != nil {
		settings.AudioMuted = *patch.AudioMuted
	}
	return settings
}

// SessionStats counts completed sessions.
type SessionStats struct {
	TotalSessions int
	TodaySessions int
}
