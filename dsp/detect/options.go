package detect

import "github.com/cwbudde/algo-sigdetect/dsp/fft"

// Option configures collaborators of a [Detector].
type Option func(*options)

type options struct {
	backend     fft.Backend
	valid       ValidFunc
	maxChannels int
}

func defaultOptions() options {
	return options{
		backend: fft.BackendAlgoFFT,
		valid:   DefaultValidChannel,
	}
}

// WithTransformBackend selects the FFT backend.
func WithTransformBackend(b fft.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithValidChannel sets the predicate used by LookupValidChannel.
// A nil predicate keeps [DefaultValidChannel].
func WithValidChannel(fn ValidFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.valid = fn
		}
	}
}

// WithMaxChannels caps the channel list. Registering a new channel beyond
// the cap fails with [ErrAllocation]. Zero means no cap.
func WithMaxChannels(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxChannels = n
		}
	}
}
