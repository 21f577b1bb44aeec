// Package units provides shared constants and conversions for angles and frame timing.
package units

import "math"

// DefaultFrameRate is the pose sample rate assumed when a session carries
// no per-frame timestamps. The upstream pose model emits ~30 samples/second.
const DefaultFrameRate = 30.0

// FrameIntervalMs is the per-frame duration fallback at DefaultFrameRate.
const FrameIntervalMs = 33.33

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Round1 rounds to one decimal place. Analytics values are reported at
// tenth-of-a-degree precision.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// FramesToMs converts a frame-count delta to an estimated duration in
// milliseconds, assuming DefaultFrameRate.
func FramesToMs(frames int) float64 {
	return float64(frames) * FrameIntervalMs
}
