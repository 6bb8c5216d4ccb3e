package detect

import (
	"fmt"

	"github.com/cwbudde/algo-sigdetect/dsp/core"
	"github.com/cwbudde/algo-sigdetect/dsp/spectrum"
	"github.com/cwbudde/algo-sigdetect/dsp/window"
)

// dbFloor keeps log conversions finite on empty bins.
const dbFloor = 1e-15

func powerDB(p float64) float64 {
	return core.LinearPowerToDB(p + dbFloor)
}

// smoothedPSD is the windowed, exponentially averaged periodogram shared by
// the discovery and nonlinear-diff modes.
type smoothedPSD struct {
	coeffs []float64
	pgram  *spectrum.Periodogram
	psd    []float64
	spect  []float64
	alpha  float64
}

func newSmoothedPSD(n int, alpha float64) (*smoothedPSD, error) {
	coeffs, err := window.BlackmanHarris(n)
	if err != nil {
		return nil, fmt.Errorf("%w: window: %w", ErrAllocation, err)
	}

	pgram, err := spectrum.NewPeriodogram(n, 1/float64(n))
	if err != nil {
		return nil, fmt.Errorf("%w: periodogram: %w", ErrAllocation, err)
	}

	return &smoothedPSD{
		coeffs: coeffs,
		pgram:  pgram,
		psd:    make([]float64, n),
		spect:  make([]float64, n),
		alpha:  alpha,
	}, nil
}

// update windows the detector's block in place, transforms it and folds the
// periodogram into the running average.
func (s *smoothedPSD) update(d *Detector) error {
	if err := window.ApplyComplex(d.block, s.coeffs); err != nil {
		return fmt.Errorf("detect: window: %w", err)
	}

	if err := d.forward.Execute(); err != nil {
		return fmt.Errorf("detect: forward transform: %w", err)
	}

	if err := s.pgram.Compute(s.psd, d.bins); err != nil {
		return fmt.Errorf("detect: periodogram: %w", err)
	}

	spectrum.Smooth(s.spect, s.psd, s.alpha)

	return nil
}
