package animation

import (
	"math"
	"time"
)

// Smooth moves animated toward target for one frame of length delta.
//
// The step is a first-order exponential decay with the configured response
// time. An animated value of exactly zero jumps straight to a positive
// target so a restarted view does not sweep up from empty. Once the two
// are within SnapEpsilon the target is returned exactly.
func Smooth(animated, target float64, delta time.Duration, config Config) float64 {
	if animated == 0 && target > 0 {
		animated = target
	} else if config.ResponseTime > 0 {
		alpha := 1 - math.Exp(-float64(delta)/float64(config.ResponseTime))
		animated += (target - animated) * alpha
	} else {
		animated = target
	}

	if math.Abs(target-animated) < config.SnapEpsilon {
		animated = target
	}
	return clampUnit(animated)
}

func clampUnit(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
