package animation

import "time"

// DefaultFrameInterval approximates a 60Hz display refresh.
const DefaultFrameInterval = time.Second / 60

// DefaultConfig returns the frame policy used by the hourglass views.
func DefaultConfig() Config {
	return Config{
		DefaultFrameDelta: 16 * time.Millisecond,
		MaxFrameDelta:     50 * time.Millisecond,
		ResponseTime:      200 * time.Millisecond,
		SnapEpsilon:       0.0005,
		FPSWindow:         500 * time.Millisecond,
		SleepGapWarn:      5 * time.Second,
	}
}
