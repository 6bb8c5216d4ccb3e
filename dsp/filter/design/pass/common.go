package pass

import (
	"math"

	"github.com/cwbudde/algo-sigdetect/dsp/filter/biquad"
)

const defaultQ = 1 / math.Sqrt2

// LowpassRBJ designs a second-order lowpass (RBJ cookbook) at freq Hz with
// quality factor q.
func LowpassRBJ(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		q = defaultQ
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	b0 := (1 - cw) / 2
	b1 := 1 - cw
	b2 := (1 - cw) / 2
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}

// butterworthQ returns the Q of the index-th pole pair of an order-n
// Butterworth prototype.
func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))

	s := math.Sin(theta)
	if s == 0 {
		return defaultQ
	}

	return 1 / (2 * s)
}

func butterworthFirstOrderLP(freq, sampleRate float64) biquad.Coefficients {
	if _, ok := normalizedW0(freq, sampleRate); !ok {
		return biquad.Coefficients{}
	}

	k := math.Tan(math.Pi * freq / sampleRate)
	norm := 1 / (1 + k)

	return biquad.Coefficients{
		B0: k * norm,
		B1: k * norm,
		A1: (k - 1) * norm,
	}
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, false
	}

	nyquist := sampleRate / 2
	if freq <= 0 || freq >= nyquist || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}
