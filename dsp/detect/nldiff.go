package detect

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-sigdetect/dsp/core"
)

type nonlinearDiff struct {
	psd *smoothedPSD
	pd  *PeakDetector
}

func newNonlinearDiff(d *Detector) (*nonlinearDiff, error) {
	psd, err := newSmoothedPSD(d.params.WindowSize, d.params.Alpha)
	if err != nil {
		return nil, err
	}

	pd, err := NewPeakDetector(d.params.PDSize, d.params.PDThreshold)
	if err != nil {
		return nil, err
	}

	return &nonlinearDiff{psd: psd, pd: pd}, nil
}

func (m *nonlinearDiff) spectrum() []float64 { return m.psd.spect }

// process looks for the first significant spectral line of the squared
// derivative above the signal bandwidth. Symbol transitions put a line at
// the baud rate.
func (m *nonlinearDiff) process(d *Detector) error {
	if err := m.psd.update(d); err != nil {
		return err
	}

	d.baud = 0

	spect := m.psd.spect
	n := len(spect)
	fs := d.equivalentRate()
	dbaud := fs / float64(n)

	start := n / 2
	if d.params.Bw != 0 {
		startbin := int(math.Ceil(d.params.Bw/dbaud)) + d.params.PDSize
		if start = n - startbin - 1; start < 0 {
			return fmt.Errorf("%w: bw %g Hz needs %d bins, window has %d", ErrConfigInconsistency, d.params.Bw, startbin+1, n)
		}
	}

	for i := start; i < n; i++ {
		if m.pd.Feed(powerDB(spect[i])) <= 0 {
			continue
		}

		hi := -1
		for j := i + 1; j < n; j++ {
			if spect[j] > spect[j-1] {
				hi = j
				break
			}
		}

		lo := -1
		for j := i - 1; j >= 0; j-- {
			if spect[j] > spect[j+1] {
				lo = j
				break
			}
		}

		if hi < 0 || lo < 0 {
			continue
		}

		floor := 0.5 * (spect[lo] + spect[hi])
		if powerDB(spect[i]/floor) <= d.params.PDSignificance {
			continue
		}

		var acc complex128
		for j := lo + 1; j < hi; j++ {
			acc += complex(spect[j], 0) * cmplx.Exp(complex(0, -2*math.Pi*float64(j)/float64(n)))
		}

		d.baud = core.NormToAbsFreq(fs, core.AngleToNormFreq(cmplx.Phase(acc)))
		break
	}

	return nil
}
