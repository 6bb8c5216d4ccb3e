// Package osc provides a numerically controlled complex oscillator.
package osc

import (
	"fmt"
	"math"
)

const twoPi = 2 * math.Pi

// Oscillator is a phase-accumulating complex exponential generator.
// Each call to [Oscillator.Next] returns exp(j*phase) and advances the phase
// by 2*pi*freq/sampleRate.
type Oscillator struct {
	sampleRate float64
	freq       float64
	phase      float64
	phaseInc   float64
}

// New creates an oscillator at freq Hz for the given sample rate. Negative
// frequencies rotate clockwise.
func New(freq, sampleRate float64) (*Oscillator, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("oscillator sample rate must be > 0 and finite: %f", sampleRate)
	}

	o := &Oscillator{sampleRate: sampleRate}
	if err := o.SetFrequency(freq); err != nil {
		return nil, err
	}
	return o, nil
}

// SetFrequency retunes the oscillator without resetting its phase.
func (o *Oscillator) SetFrequency(freq float64) error {
	if math.IsNaN(freq) || math.IsInf(freq, 0) {
		return fmt.Errorf("oscillator frequency must be finite: %f", freq)
	}
	o.freq = freq
	o.phaseInc = twoPi * freq / o.sampleRate
	return nil
}

// Frequency returns the configured frequency in Hz.
func (o *Oscillator) Frequency() float64 { return o.freq }

// Phase returns the current phase in [0, 2*pi).
func (o *Oscillator) Phase() float64 { return o.phase }

// Next returns the current unit phasor and advances the phase.
func (o *Oscillator) Next() complex128 {
	s, c := math.Sincos(o.phase)
	o.phase += o.phaseInc
	if o.phase >= twoPi || o.phase < 0 {
		o.phase -= twoPi * math.Floor(o.phase/twoPi)
	}
	return complex(c, s)
}

// Reset returns the phase to zero.
func (o *Oscillator) Reset() {
	o.phase = 0
}
