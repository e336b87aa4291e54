package util

import "math"

// Lerp performs linear interpolation between a and b with t in [0,1]
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp restricts a value to be between min and max
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Map remaps a value from one range to another, clamped to the output range.
// A degenerate input range maps everything to outMin.
func Map(value, inMin, inMax, outMin, outMax float64) float64 {
	span := inMax - inMin
	if span == 0 || !IsFinite(span) {
		return outMin
	}
	t := Clamp((value-inMin)/span, 0, 1)
	return outMin + t*(outMax-outMin)
}

// SmoothStep applies the cubic 3t² - 2t³ to t clamped to [0,1]
func SmoothStep(t float64) float64 {
	t = Clamp(t, 0, 1)
	return t * t * (3 - 2*t)
}

// IsFinite reports whether v is neither NaN nor infinite
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// AllFinite reports whether every value is finite
func AllFinite(values ...float64) bool {
	for _, v := range values {
		if !IsFinite(v) {
			return false
		}
	}
	return true
}

// Mean returns the arithmetic mean of data, or 0 for an empty slice
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// MinMax returns the smallest and largest value of data.
// Both are 0 for an empty slice.
func MinMax(data []float64) (float64, float64) {
	if len(data) == 0 {
		return 0, 0
	}
	lo, hi := data[0], data[0]
	for _, v := range data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
