package spectrum

import "fmt"

// Envelope tracks per-bin minimum and maximum levels.
//
// A value beyond the current envelope snaps it immediately; otherwise each
// edge relaxes toward the value with rate beta. Noise bins end up with
// Min < level < Max, while steady carriers keep both edges above the floor.
type Envelope struct {
	min, max []float64
	beta     float64
	seeded   bool
}

// NewEnvelope returns an unseeded envelope over n bins.
func NewEnvelope(n int, beta float64) (*Envelope, error) {
	if n <= 0 {
		return nil, fmt.Errorf("envelope size must be > 0: %d", n)
	}
	if beta < 0 || beta > 1 {
		return nil, fmt.Errorf("envelope beta must be in [0,1]: %f", beta)
	}
	return &Envelope{
		min:  make([]float64, n),
		max:  make([]float64, n),
		beta: beta,
	}, nil
}

// Seed sets both edges to x.
func (e *Envelope) Seed(x []float64) {
	copy(e.min, x)
	copy(e.max, x)
	e.seeded = true
}

// Update moves the envelope toward x. The first call on an unseeded
// envelope seeds it.
func (e *Envelope) Update(x []float64) {
	if !e.seeded {
		e.Seed(x)
		return
	}

	for i, v := range x {
		if v < e.min[i] {
			e.min[i] = v
		} else {
			e.min[i] += e.beta * (v - e.min[i])
		}

		if v > e.max[i] {
			e.max[i] = v
		} else {
			e.max[i] += e.beta * (v - e.max[i])
		}
	}
}

// Brackets reports whether level lies strictly inside bin i's envelope.
func (e *Envelope) Brackets(i int, level float64) bool {
	return e.min[i] < level && level < e.max[i]
}

// Mid returns the envelope midpoint at bin i.
func (e *Envelope) Mid(i int) float64 {
	return 0.5 * (e.min[i] + e.max[i])
}

// Min returns the lower edge. The slice aliases internal state.
func (e *Envelope) Min() []float64 { return e.min }

// Max returns the upper edge. The slice aliases internal state.
func (e *Envelope) Max() []float64 { return e.max }

// Seeded reports whether the envelope has been initialized.
func (e *Envelope) Seeded() bool { return e.seeded }
