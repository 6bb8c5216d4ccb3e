package detect

import "fmt"

// PeakDetector flags samples that stand out from a sliding window of the
// previous size samples by more than threshold standard deviations.
type PeakDetector struct {
	history []float64
	thr2    float64
	p       int
	count   int
	accum   float64
}

// NewPeakDetector returns a detector with a history of size samples.
func NewPeakDetector(size int, threshold float64) (*PeakDetector, error) {
	if size <= 0 || size > MaxBufferLen {
		return nil, fmt.Errorf("%w: peak detector size %d", ErrAllocation, size)
	}
	if !(threshold > 0) {
		return nil, fmt.Errorf("%w: peak detector threshold must be > 0: %f", ErrInvalidParams, threshold)
	}

	return &PeakDetector{
		history: make([]float64, size),
		thr2:    threshold * threshold,
	}, nil
}

// Feed pushes x and classifies it against the history it displaces.
// It returns +1 for a peak above the mean, -1 for one below it and 0
// otherwise. Nothing is classified until the history is full.
func (pd *PeakDetector) Feed(x float64) int {
	size := len(pd.history)
	peak := 0

	if pd.count < size {
		pd.history[pd.count] = x
		pd.count++
	} else {
		n := float64(size)
		mean := pd.accum / n

		var variance float64
		for _, v := range pd.history {
			d := v - mean
			variance += d * d
		}
		variance /= n

		d := x - mean
		if d*d > pd.thr2*variance {
			if d > 0 {
				peak = 1
			} else {
				peak = -1
			}
		}

		pd.accum -= pd.history[pd.p]
		pd.history[pd.p] = x
		if pd.p++; pd.p == size {
			pd.p = 0
		}
	}

	pd.accum += x

	return peak
}

// Reset empties the history.
func (pd *PeakDetector) Reset() {
	clear(pd.history)
	pd.p = 0
	pd.count = 0
	pd.accum = 0
}

// Len returns the history size.
func (pd *PeakDetector) Len() int { return len(pd.history) }

// Filled reports whether the history is full.
func (pd *PeakDetector) Filled() bool { return pd.count == len(pd.history) }
