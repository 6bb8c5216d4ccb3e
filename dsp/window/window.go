// Package window generates and applies analysis windows for block spectra.
package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeBlackmanHarris4Term
)

var (
	hannCoeffs            = []float64{0.5, -0.5}
	hammingCoeffs         = []float64{0.54, -0.46}
	blackmanCoeffs        = []float64{0.42, -0.5, 0.08}
	blackmanHarris4Coeffs = []float64{0.35875, -0.48829, 0.14128, -0.01168}
)

var typeNames = map[Type]string{
	TypeRectangular:         "rectangular",
	TypeHann:                "hann",
	TypeHamming:             "hamming",
	TypeBlackman:            "blackman",
	TypeBlackmanHarris4Term: "blackman-harris-4t",
}

// String returns the window name.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic selects the periodic form (FFT framing) instead of the
// symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns window coefficients of the given length. Unknown types
// yield a rectangular window.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = evalWindow(t, samplePosition(i, length, cfg.periodic))
	}

	return out
}

// Apply multiplies buf in place by the selected window.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}

	vecmath.MulBlockInPlace(buf, Generate(t, len(buf), opts...))
}

// ApplyComplex multiplies both rails of buf in place by coeffs.
// It returns errMismatchedLength if the lengths differ.
func ApplyComplex(buf []complex128, coeffs []float64) error {
	if len(buf) != len(coeffs) {
		return errMismatchedLength
	}
	for i, w := range coeffs {
		buf[i] = complex(real(buf[i])*w, imag(buf[i])*w)
	}
	return nil
}

// BlackmanHarris returns 4-term Blackman-Harris coefficients.
func BlackmanHarris(size int, opts ...Option) ([]float64, error) {
	return Generate(TypeBlackmanHarris4Term, size, opts...), validateLength(size)
}

// CoherentGain returns mean(w), the amplitude gain of a windowed tone.
func CoherentGain(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}
	sum := 0.0
	for _, v := range coeffs {
		sum += v
	}
	return sum / float64(len(coeffs)), nil
}

// PowerGain returns mean(w^2), the power gain applied to white noise.
func PowerGain(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}
	sum := 0.0
	for _, v := range coeffs {
		sum += v * v
	}
	return sum / float64(len(coeffs)), nil
}

func evalWindow(t Type, x float64) float64 {
	switch t {
	case TypeHann:
		return cosineFromCoeffs(x, hannCoeffs)
	case TypeHamming:
		return cosineFromCoeffs(x, hammingCoeffs)
	case TypeBlackman:
		return cosineFromCoeffs(x, blackmanCoeffs)
	case TypeBlackmanHarris4Term:
		return cosineFromCoeffs(x, blackmanHarris4Coeffs)
	default:
		return 1
	}
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}
