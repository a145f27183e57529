package model

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// FormatCountdown renders remaining time as m:ss, rounding seconds up.
func FormatCountdown(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	totalSeconds := int(math.Ceil(remaining.Seconds()))
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}

// ClampMinutes bounds a minute value to [MinMinutes, max] with one decimal.
func ClampMinutes(value, max float64) float64 {
	if math.IsNaN(value) {
		value = MinMinutes
	}
	value = math.Max(MinMinutes, math.Min(max, value))
	return math.Round(value*10) / 10
}

// AdjustMinutes adds delta to value and clamps the result.
func AdjustMinutes(value, delta, max float64) float64 {
	return ClampMinutes(value+delta, max)
}

// ParseMinutes parses a minute input, falling back when it is empty or invalid.
func ParseMinutes(text string, fallback float64) float64 {
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return fallback
	}
	return value
}

// FormatMinutes renders a minute value without trailing zeros.
func FormatMinutes(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// TimePreview describes a work length in words.
func TimePreview(minutes float64) string {
	switch {
	case minutes == 1:
		return "1 minute"
	case minutes < 1:
		return fmt.Sprintf("%.0f seconds", minutes*60)
	default:
		return FormatMinutes(minutes) + " minutes"
	}
}
