package testutil

import (
	"math"
	"math/rand"
)

// Tone generates a complex exponential at freqHz.
func Tone(freqHz, sampleRate, amplitude float64, length int) []complex128 {
	out := make([]complex128, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		s, c := math.Sincos(step * float64(i))
		out[i] = complex(amplitude*c, amplitude*s)
	}
	return out
}

// ComplexNoise generates circular Gaussian noise with E|x|^2 = power, using
// a fixed seed for reproducibility.
func ComplexNoise(seed int64, power float64, length int) []complex128 {
	out := make([]complex128, length)
	rng := rand.New(rand.NewSource(seed))
	sigma := math.Sqrt(power / 2)
	for i := range out {
		out[i] = complex(sigma*rng.NormFloat64(), sigma*rng.NormFloat64())
	}
	return out
}

// SymbolPattern repeats pattern, holding each symbol for symbolLen samples,
// until length samples have been produced.
func SymbolPattern(pattern []float64, symbolLen, length int) []complex128 {
	out := make([]complex128, length)
	if len(pattern) == 0 || symbolLen <= 0 {
		return out
	}
	for i := range out {
		out[i] = complex(pattern[(i/symbolLen)%len(pattern)], 0)
	}
	return out
}

// Sum adds signals element-wise. The result has the length of the shortest
// input.
func Sum(signals ...[]complex128) []complex128 {
	if len(signals) == 0 {
		return nil
	}
	n := len(signals[0])
	for _, s := range signals[1:] {
		n = min(n, len(s))
	}
	out := make([]complex128, n)
	for _, s := range signals {
		for i := range out {
			out[i] += s[i]
		}
	}
	return out
}
