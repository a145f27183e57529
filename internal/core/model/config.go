package model

import "time"

const (
	// MinMinutes is the smallest work or rest length accepted from the user.
	MinMinutes = 0.1
	// MaxWorkMinutes bounds the work length input.
	MaxWorkMinutes = 120.0
	// MaxRestMinutes bounds the rest length input.
	MaxRestMinutes = 60.0
)

// SessionConfig holds the phase lengths of one work/rest session.
// It is fixed when work starts and replaced at the next work start.
type SessionConfig struct {
	Work time.Duration
	Rest time.Duration
}

// SessionConfigFromMinutes converts user minutes to a SessionConfig.
// Values below MinMinutes are raised to it.
func SessionConfigFromMinutes(workMinutes, restMinutes float64) SessionConfig {
	return SessionConfig{
		Work: minutesToDuration(workMinutes),
		Rest: minutesToDuration(restMinutes),
	}
}

// Normalized returns a copy with both durations at least MinMinutes long.
func (config SessionConfig) Normalized() SessionConfig {
	minimum := minutesToDuration(MinMinutes)
	if config.Work < minimum {
		config.Work = minimum
	}
	if config.Rest < minimum {
		config.Rest = minimum
	}
	return config
}

// WorkMinutes returns the work length in minutes.
func (config SessionConfig) WorkMinutes() float64 {
	return config.Work.Minutes()
}

// RestMinutes returns the rest length in minutes.
func (config SessionConfig) RestMinutes() float64 {
	return config.Rest.Minutes()
}

func minutesToDuration(minutes float64) time.Duration {
	if minutes < MinMinutes {
		minutes = MinMinutes
	}
	return time.Duration(minutes * float64(time.Minute))
}
