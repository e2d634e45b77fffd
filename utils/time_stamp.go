package utils

import "math"

// MicrosPerSecond is the device clock resolution.
const MicrosPerSecond = 1_000_000.0

// MicrosToSeconds converts a device timestamp (µs) to seconds.
func MicrosToSeconds(us float64) float64 {
	return us / MicrosPerSecond
}

// RoundToMillis rounds a time in seconds to the nearest millisecond.
// Halves go to the even millisecond, matching numpy's round.
func RoundToMillis(s float64) float64 {
	return math.RoundToEven(s*1000) / 1000.0
}
