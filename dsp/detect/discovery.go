package detect

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-sigdetect/dsp/core"
	"github.com/cwbudde/algo-sigdetect/dsp/spectrum"
)

type discovery struct {
	psd   *smoothedPSD
	env   *spectrum.Envelope
	n0    float64
	iters int
}

func newDiscovery(d *Detector) (*discovery, error) {
	n := d.params.WindowSize

	psd, err := newSmoothedPSD(n, d.params.Alpha)
	if err != nil {
		return nil, err
	}

	env, err := spectrum.NewEnvelope(n, d.params.Beta)
	if err != nil {
		return nil, fmt.Errorf("%w: envelope: %w", ErrAllocation, err)
	}

	return &discovery{psd: psd, env: env}, nil
}

func (m *discovery) spectrum() []float64 { return m.psd.spect }

func (m *discovery) process(d *Detector) error {
	if err := m.psd.update(d); err != nil {
		return err
	}

	spect := m.psd.spect

	if !m.env.Seeded() {
		m.env.Seed(spect)
		m.n0 = minOf(spect)
		// The seeding block counts toward MaxAge.
		m.iters = 1
		return nil
	}

	m.env.Update(spect)

	if d.reqSamples == 0 {
		m.updateNoiseFloor(spect)
	}

	if m.iters++; m.iters >= d.params.MaxAge {
		m.iters = 0
		d.channels.Clear()
	}

	if err := m.findChannels(d); err != nil {
		return err
	}

	d.channels.Collect()

	return nil
}

// updateNoiseFloor averages the bins whose envelope still straddles the
// previous floor. Carriers sit above the floor and drop out of the average.
func (m *discovery) updateNoiseFloor(spect []float64) {
	var (
		sum    float64
		count  int
		weak   = -1
		weakPw = math.Inf(1)
	)

	for i, p := range spect {
		if m.env.Brackets(i, m.n0) {
			sum += p
			count++
		}
		if p < weakPw {
			weakPw = p
			weak = i
		}
	}

	switch {
	case count > 0:
		m.n0 = sum / float64(count)
	case weak >= 0:
		m.n0 = m.env.Mid(weak)
	}
}

// findChannels segments the spectrum into runs above the squelch and asserts
// each closed run as a channel observation.
func (m *discovery) findChannels(d *Detector) error {
	spect := m.psd.spect
	n := float64(len(spect))
	fs := d.equivalentRate()
	squelch := d.params.SNR * m.n0
	n0dB := powerDB(m.n0)

	var (
		open  bool
		acc   complex128
		power float64
		peak  float64
		obs   Channel
	)

	for i, p := range spect {
		nfreq := 2 * float64(i) / n

		if p > squelch {
			w := complex(p, 0) * cmplx.Exp(complex(0, math.Pi*nfreq))
			if !open {
				open = true
				acc = w
				power = p
				peak = p
				obs = Channel{FLo: core.NormToAbsFreq(fs, nfreq), Ft: -d.params.Fc}
				continue
			}

			acc += w
			power += p
			if p > peak {
				peak += d.params.Gamma * (p - peak)
			}
			continue
		}

		if !open {
			continue
		}
		open = false

		angle := cmplx.Phase(acc)
		if angle < 0 {
			angle += 2 * math.Pi
		}

		obs.FHi = core.NormToAbsFreq(fs, nfreq)
		obs.Fc = core.NormToAbsFreq(fs, core.AngleToNormFreq(angle))
		obs.Bw = core.NormToAbsFreq(fs, 2*power/(peak*n))
		obs.S0 = powerDB(peak)
		obs.N0 = n0dB

		if err := d.channels.Assert(obs); err != nil {
			return fmt.Errorf("detect: channel at %.1f Hz: %w", obs.Fc, err)
		}
	}

	return nil
}

func minOf(x []float64) float64 {
	m := math.Inf(1)
	for _, v := range x {
		if v < m {
			m = v
		}
	}
	return m
}
