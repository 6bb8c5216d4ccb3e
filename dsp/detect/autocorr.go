package detect

import (
	"fmt"
	"math/cmplx"

	"github.com/cwbudde/algo-sigdetect/dsp/fft"
)

type autocorr struct {
	lags    []complex128
	inverse *fft.Transform
	acorr   []float64
	alpha   float64
}

func newAutocorr(d *Detector) (*autocorr, error) {
	n := d.params.WindowSize
	m := &autocorr{
		lags:  make([]complex128, n),
		acorr: make([]float64, n),
		alpha: d.params.Alpha,
	}

	inverse, err := fft.Bind(d.plan, fft.Inverse, d.bins, m.lags)
	if err != nil {
		return nil, fmt.Errorf("%w: inverse: %w", ErrPlan, err)
	}
	m.inverse = inverse

	return m, nil
}

func (m *autocorr) spectrum() []float64 { return m.acorr }

func (m *autocorr) process(d *Detector) error {
	if err := d.forward.Execute(); err != nil {
		return fmt.Errorf("detect: forward transform: %w", err)
	}

	for i, x := range d.bins {
		d.bins[i] = x * cmplx.Conj(x)
	}

	if err := m.inverse.Execute(); err != nil {
		return fmt.Errorf("detect: inverse transform: %w", err)
	}

	for i, r := range m.lags {
		m.acorr[i] += m.alpha * (sqAbs(r) - m.acorr[i])
	}

	d.baud = m.estimate(float64(d.params.Decimation) / d.params.SampleRate)

	return nil
}

// estimate locates the first valley of the autocorrelation and refines its
// lag by weighting the valley bin against its lower neighbor. dtau is the
// lag step in seconds.
func (m *autocorr) estimate(dtau float64) float64 {
	a := m.acorr

	for i := 1; i < len(a)-1; i++ {
		prev, this, next := a[i-1], a[i], a[i+1]
		if !(this < prev && this < next) {
			continue
		}

		fi := float64(i)
		var tau float64
		if prev < next {
			tau = dtau * (prev*fi + this*(fi-1)) / (prev + this)
		} else {
			tau = dtau * (next*fi + this*(fi+1)) / (next + this)
		}

		if tau <= 0 {
			return 0
		}
		return 1 / tau
	}

	return 0
}

func sqAbs(x complex128) float64 {
	return real(x)*real(x) + imag(x)*imag(x)
}
