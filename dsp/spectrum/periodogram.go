package spectrum

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// Periodogram converts complex bins into |X[k]|^2 * scale.
//
// It owns split real/imaginary scratch buffers so repeated calls do not
// allocate.
type Periodogram struct {
	re, im []float64
	scale  float64
}

// NewPeriodogram returns a Periodogram for n bins. scale is applied to every
// output bin, typically 1/n.
func NewPeriodogram(n int, scale float64) (*Periodogram, error) {
	if n <= 0 {
		return nil, fmt.Errorf("periodogram size must be > 0: %d", n)
	}
	return &Periodogram{
		re:    make([]float64, n),
		im:    make([]float64, n),
		scale: scale,
	}, nil
}

// Compute writes the scaled power of bins into dst. Both must have the
// periodogram length.
func (p *Periodogram) Compute(dst []float64, bins []complex128) error {
	if len(dst) != len(p.re) || len(bins) != len(p.re) {
		return fmt.Errorf("periodogram length mismatch: dst=%d bins=%d, want %d", len(dst), len(bins), len(p.re))
	}

	for i, c := range bins {
		p.re[i] = real(c)
		p.im[i] = imag(c)
	}

	vecmath.Power(dst, p.re, p.im)
	if p.scale != 1 {
		vecmath.ScaleBlock(dst, dst, p.scale)
	}
	return nil
}

// Len returns the number of bins.
func (p *Periodogram) Len() int { return len(p.re) }

// PowerFromParts computes |X[k]|^2 = re[k]^2 + im[k]^2 into dst.
// All three slices must have the same length.
func PowerFromParts(dst, re, im []float64) {
	vecmath.Power(dst, re, im)
}

// Smooth updates acc toward x with exponential rate: acc += rate*(x-acc).
func Smooth(acc, x []float64, rate float64) {
	if len(x) == 0 {
		return
	}
	_ = acc[len(x)-1]
	for i, v := range x {
		acc[i] += rate * (v - acc[i])
	}
}
