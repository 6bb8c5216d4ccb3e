package detect

import (
	"fmt"
	"math/cmplx"

	"github.com/cwbudde/algo-sigdetect/dsp/fft"
	"github.com/cwbudde/algo-sigdetect/dsp/filter/biquad"
	"github.com/cwbudde/algo-sigdetect/dsp/filter/design/pass"
	"github.com/cwbudde/algo-sigdetect/dsp/osc"
)

const antialiasOrder = 5

// modeHandler consumes one full block.
type modeHandler interface {
	process(d *Detector) error
	// spectrum returns the persistent per-bin state: the smoothed power
	// spectrum or the smoothed autocorrelation.
	spectrum() []float64
}

// Detector turns a stream of complex baseband samples into channel
// estimates or a baud rate estimate, depending on its mode.
//
// A Detector is not safe for concurrent use and must not be copied.
type Detector struct {
	params Params
	opts   options

	block   []complex128
	bins    []complex128
	plan    fft.Plan
	forward *fft.Transform
	ptr     int

	lo        *osc.Oscillator
	antialias *biquad.Chain
	decimPtr  int
	prev      complex128

	mode     modeHandler
	channels *ChannelList
	baud     float64

	reqSamples int
	closed     bool
}

// New validates params and builds a detector. On failure no detector is
// returned.
func New(params Params, opts ...Option) (*Detector, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	n := params.WindowSize
	if n > MaxBufferLen {
		return nil, fmt.Errorf("%w: window size %d exceeds %d", ErrAllocation, n, MaxBufferLen)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	plan, err := fft.NewPlan(n, fft.WithBackend(o.backend))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPlan, err)
	}

	lo, err := osc.New(params.Fc, params.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}

	d := &Detector{
		params:   params,
		opts:     o,
		block:    make([]complex128, n),
		bins:     make([]complex128, n),
		plan:     plan,
		lo:       lo,
		channels: NewChannelList(o.maxChannels),
	}

	d.forward, err = fft.Bind(plan, fft.Forward, d.block, d.bins)
	if err != nil {
		return nil, fmt.Errorf("%w: forward: %w", ErrPlan, err)
	}

	if params.Bw > 0 {
		coeffs := pass.ButterworthLP(params.Bw, antialiasOrder, params.SampleRate)
		if coeffs == nil {
			return nil, fmt.Errorf("%w: no antialias filter for bw %g Hz at %g Hz", ErrInvalidParams, params.Bw, params.SampleRate)
		}
		d.antialias = biquad.NewChain(coeffs)
	}

	switch params.Mode {
	case ModeDiscovery:
		d.mode, err = newDiscovery(d)
	case ModeAutocorrelation:
		d.mode, err = newAutocorr(d)
	case ModeNonlinearDiff:
		d.mode, err = newNonlinearDiff(d)
	}
	if err != nil {
		return nil, err
	}

	return d, nil
}

// Close releases the detector's buffers. Calling it again is a no-op.
func (d *Detector) Close() error {
	if d.closed {
		return nil
	}

	d.closed = true
	d.block = nil
	d.bins = nil
	d.plan = nil
	d.forward = nil
	d.antialias = nil
	d.mode = nil
	d.channels.Clear()

	return nil
}

// Feed pushes one sample through the pipeline. When it completes a block the
// block is analyzed and any analysis error is returned.
func (d *Detector) Feed(x complex128) error {
	if d.closed {
		return ErrClosed
	}

	if d.reqSamples > 0 {
		d.reqSamples--
	}

	x *= cmplx.Conj(d.lo.Next())

	if d.antialias != nil {
		x = d.antialias.ProcessSample(x)
	}

	if d.params.Decimation > 1 {
		if d.decimPtr++; d.decimPtr < d.params.Decimation {
			return nil
		}
		d.decimPtr = 0
	}

	if d.params.Mode == ModeNonlinearDiff {
		diff := (x - d.prev) * complex(d.params.SampleRate, 0)
		d.prev = x
		x = diff * cmplx.Conj(diff)
	}

	d.block[d.ptr] = x
	if d.ptr++; d.ptr < len(d.block) {
		return nil
	}
	d.ptr = 0

	if d.mode == nil {
		return fmt.Errorf("%w: %v", ErrModeNotImplemented, d.params.Mode)
	}

	return d.mode.process(d)
}

// FeedBulk feeds xs in order and stops at the first failure. It returns the
// number of samples consumed before that failure.
func (d *Detector) FeedBulk(xs []complex128) (int, error) {
	for i, x := range xs {
		if err := d.Feed(x); err != nil {
			return i, err
		}
	}
	return len(xs), nil
}

// Params returns the detector's parameters.
func (d *Detector) Params() Params { return d.params }

// RequiredSamples returns how many more samples must be fed before the
// noise floor estimate is updated again.
func (d *Detector) RequiredSamples() int { return d.reqSamples }

// Baud returns the latest baud rate estimate, or 0 when none is available.
func (d *Detector) Baud() float64 { return d.baud }

// Channels returns a snapshot of the tracked channels.
func (d *Detector) Channels() []Channel { return d.channels.Channels() }

// LookupChannel returns the tracked channel containing fc.
func (d *Detector) LookupChannel(fc float64) (Channel, bool) {
	return d.channels.Lookup(fc)
}

// LookupValidChannel returns the tracked channel containing fc, provided the
// configured validity predicate accepts it.
func (d *Detector) LookupValidChannel(fc float64) (Channel, bool) {
	return d.channels.LookupValid(fc, d.opts.valid)
}

// NoiseFloor returns the linear noise floor estimate. It is 0 outside
// discovery mode.
func (d *Detector) NoiseFloor() float64 {
	if m, ok := d.mode.(*discovery); ok {
		return m.n0
	}
	return 0
}

// Spectrum returns a copy of the smoothed spectrum, or of the smoothed
// autocorrelation in autocorrelation mode.
func (d *Detector) Spectrum() []float64 {
	if d.mode == nil {
		return nil
	}
	return append([]float64(nil), d.mode.spectrum()...)
}

// equivalentRate is the sample rate of the decimated stream.
func (d *Detector) equivalentRate() float64 {
	return d.params.EquivalentRate()
}
