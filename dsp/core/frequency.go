package core

import "math"

// Normalized frequencies are expressed as a fraction of the Nyquist rate:
// 1.0 is sampleRate/2 and an angle of pi radians per sample.

// NormToAbsFreq converts a normalized frequency to Hz.
func NormToAbsFreq(sampleRate, norm float64) float64 {
	return norm * sampleRate / 2
}

// AbsToNormFreq converts a frequency in Hz to normalized units.
func AbsToNormFreq(sampleRate, freq float64) float64 {
	return 2 * freq / sampleRate
}

// AngleToNormFreq converts a per-sample phase increment to normalized units.
func AngleToNormFreq(angle float64) float64 {
	return angle / math.Pi
}

// NormFreqToAngle converts normalized units to a per-sample phase increment.
func NormFreqToAngle(norm float64) float64 {
	return norm * math.Pi
}
