package fft

import (
	"errors"
	"fmt"
	"strings"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// MaxSize bounds the plan length accepted by [NewPlan].
const MaxSize = 1 << 24

var (
	// ErrSize is returned for non-positive or oversized plan lengths.
	ErrSize = errors.New("fft: invalid plan size")
	// ErrLength is returned when a buffer does not match the plan length.
	ErrLength = errors.New("fft: buffer length mismatch")
	// ErrBackend is returned for unknown backends.
	ErrBackend = errors.New("fft: unknown backend")
)

// Backend selects the FFT implementation behind a [Plan].
type Backend int

const (
	BackendAlgoFFT Backend = iota
	BackendGonum
)

// String returns the backend name accepted by [ParseBackend].
func (b Backend) String() string {
	switch b {
	case BackendAlgoFFT:
		return "algofft"
	case BackendGonum:
		return "gonum"
	default:
		return fmt.Sprintf("backend(%d)", int(b))
	}
}

// ParseBackend resolves a backend name (case-insensitive).
func ParseBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "algofft", "algo-fft":
		return BackendAlgoFFT, nil
	case "gonum", "fourier":
		return BackendGonum, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrBackend, name)
	}
}

// Plan is a reusable complex FFT of fixed length.
//
// Forward computes the unnormalized DFT. Inverse computes the inverse DFT
// scaled by 1/Len(). dst and src may alias.
type Plan interface {
	Len() int
	Forward(dst, src []complex128) error
	Inverse(dst, src []complex128) error
}

// Option configures [NewPlan].
type Option func(*config)

type config struct {
	backend Backend
}

// WithBackend selects the FFT backend. Default is [BackendAlgoFFT].
func WithBackend(b Backend) Option {
	return func(c *config) {
		c.backend = b
	}
}

// NewPlan creates an FFT plan of length n.
func NewPlan(n int, opts ...Option) (Plan, error) {
	if n <= 0 || n > MaxSize {
		return nil, fmt.Errorf("%w: %d", ErrSize, n)
	}

	cfg := config{backend: BackendAlgoFFT}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	switch cfg.backend {
	case BackendAlgoFFT:
		p, err := algofft.NewPlan64(n)
		if err != nil {
			return nil, fmt.Errorf("fft: algofft plan of size %d: %w", n, err)
		}
		return &algoPlan{plan: p, n: n}, nil
	case BackendGonum:
		return &gonumPlan{
			fft:     fourier.NewCmplxFFT(n),
			n:       n,
			scratch: make([]complex128, n),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrBackend, cfg.backend)
	}
}

func checkLen(n int, dst, src []complex128) error {
	if len(dst) != n || len(src) != n {
		return fmt.Errorf("%w: dst=%d src=%d, want %d", ErrLength, len(dst), len(src), n)
	}
	return nil
}

type algoPlan struct {
	plan *algofft.Plan[complex128]
	n    int
}

func (p *algoPlan) Len() int { return p.n }

func (p *algoPlan) Forward(dst, src []complex128) error {
	if err := checkLen(p.n, dst, src); err != nil {
		return err
	}
	return p.plan.Forward(dst, src)
}

func (p *algoPlan) Inverse(dst, src []complex128) error {
	if err := checkLen(p.n, dst, src); err != nil {
		return err
	}
	return p.plan.Inverse(dst, src)
}

// gonumPlan adapts fourier.CmplxFFT. gonum's Sequence is unnormalized, so
// Inverse rescales by 1/n to match algo-fft.
type gonumPlan struct {
	fft     *fourier.CmplxFFT
	n       int
	scratch []complex128
}

func (p *gonumPlan) Len() int { return p.n }

func (p *gonumPlan) Forward(dst, src []complex128) error {
	if err := checkLen(p.n, dst, src); err != nil {
		return err
	}
	copy(p.scratch, src)
	p.fft.Coefficients(dst, p.scratch)
	return nil
}

func (p *gonumPlan) Inverse(dst, src []complex128) error {
	if err := checkLen(p.n, dst, src); err != nil {
		return err
	}
	copy(p.scratch, src)
	p.fft.Sequence(dst, p.scratch)

	scale := complex(1/float64(p.n), 0)
	for i := range dst {
		dst[i] *= scale
	}
	return nil
}
