package detect

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mode selects what the detector does with each full block.
type Mode int

const (
	// ModeDiscovery hunts for channels in a smoothed periodogram.
	ModeDiscovery Mode = iota
	// ModeAutocorrelation estimates baud rate from the first valley of the
	// block autocorrelation.
	ModeAutocorrelation
	// ModeNonlinearDiff estimates baud rate from the spectrum of the squared
	// derivative magnitude.
	ModeNonlinearDiff
)

var modeNames = map[Mode]string{
	ModeDiscovery:       "discovery",
	ModeAutocorrelation: "autocorrelation",
	ModeNonlinearDiff:   "nonlinear-diff",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode resolves a mode name. Short aliases "acorr" and "nldiff" are
// accepted.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "discovery", "":
		return ModeDiscovery, nil
	case "autocorrelation", "acorr":
		return ModeAutocorrelation, nil
	case "nonlinear-diff", "nonlinear_diff", "nldiff":
		return ModeNonlinearDiff, nil
	default:
		return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidParams, s)
	}
}

// MarshalYAML encodes the mode by name.
func (m Mode) MarshalYAML() (any, error) {
	return m.String(), nil
}

// UnmarshalYAML decodes a mode name.
func (m *Mode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Params are the immutable settings of a detector.
type Params struct {
	Mode       Mode    `yaml:"mode"`
	SampleRate float64 `yaml:"samp_rate"`   // input sample rate, Hz
	WindowSize int     `yaml:"window_size"` // FFT length, samples after decimation
	Decimation int     `yaml:"decimation"`  // keep 1 of every Decimation samples
	Fc         float64 `yaml:"fc"`          // carrier to mix down to DC, Hz
	Bw         float64 `yaml:"bw"`          // antialias cutoff, Hz; 0 disables the filter

	Alpha float64 `yaml:"alpha"` // spectrum / autocorrelation smoothing rate
	Beta  float64 `yaml:"beta"`  // min/max envelope decay rate
	Gamma float64 `yaml:"gamma"` // in-channel peak smoothing rate

	SNR    float64 `yaml:"snr"`     // squelch, as a multiple of the noise floor
	MaxAge int     `yaml:"max_age"` // discovery cycles between channel list resets

	PDSize         int     `yaml:"pd_size"`   // peak detector history, bins
	PDThreshold    float64 `yaml:"pd_thres"`  // peak detector threshold, in standard deviations
	PDSignificance float64 `yaml:"pd_signif"` // minimum peak significance, dB
}

// DefaultParams returns the baseline detector configuration.
func DefaultParams() Params {
	return Params{
		Mode:           ModeDiscovery,
		SampleRate:     8000,
		WindowSize:     4096,
		Decimation:     1,
		Alpha:          1e-2,
		Beta:           1e-3,
		Gamma:          0.5,
		SNR:            2,
		MaxAge:         40,
		PDSize:         10,
		PDThreshold:    2,
		PDSignificance: 10,
	}
}

// Validate checks p for values the detector cannot run with. Unknown modes
// are accepted here and rejected when the first block is dispatched.
func (p Params) Validate() error {
	switch {
	case !(p.SampleRate > 0) || math.IsInf(p.SampleRate, 0):
		return fmt.Errorf("%w: sample rate must be > 0 and finite: %f", ErrInvalidParams, p.SampleRate)
	case p.WindowSize <= 0:
		return fmt.Errorf("%w: window size must be > 0: %d", ErrInvalidParams, p.WindowSize)
	case p.Decimation <= 0:
		return fmt.Errorf("%w: decimation must be > 0: %d", ErrInvalidParams, p.Decimation)
	case math.IsNaN(p.Fc) || math.IsInf(p.Fc, 0):
		return fmt.Errorf("%w: fc must be finite: %f", ErrInvalidParams, p.Fc)
	case !(p.Bw >= 0) || p.Bw >= p.SampleRate/2:
		return fmt.Errorf("%w: bw must be in [0, %g): %f", ErrInvalidParams, p.SampleRate/2, p.Bw)
	case !(p.Alpha > 0) || p.Alpha > 1:
		return fmt.Errorf("%w: alpha must be in (0,1]: %f", ErrInvalidParams, p.Alpha)
	case !(p.Beta >= 0) || p.Beta > 1:
		return fmt.Errorf("%w: beta must be in [0,1]: %f", ErrInvalidParams, p.Beta)
	case !(p.Gamma >= 0) || p.Gamma > 1:
		return fmt.Errorf("%w: gamma must be in [0,1]: %f", ErrInvalidParams, p.Gamma)
	case !(p.SNR > 0):
		return fmt.Errorf("%w: snr must be > 0: %f", ErrInvalidParams, p.SNR)
	case p.MaxAge <= 0:
		return fmt.Errorf("%w: max age must be > 0: %d", ErrInvalidParams, p.MaxAge)
	}

	if p.Mode == ModeNonlinearDiff {
		if p.PDSize <= 0 {
			return fmt.Errorf("%w: peak detector size must be > 0: %d", ErrInvalidParams, p.PDSize)
		}
		if !(p.PDThreshold > 0) {
			return fmt.Errorf("%w: peak detector threshold must be > 0: %f", ErrInvalidParams, p.PDThreshold)
		}
	}

	return nil
}

// EquivalentRate returns the sample rate seen by the block analysis.
func (p Params) EquivalentRate() float64 {
	return p.SampleRate / float64(p.Decimation)
}

// AdjustToChannel returns p retuned to ch: the carrier moves to the
// channel center, the antialias bandwidth widens to cover the channel, and
// decimation is raised so the decimated rate roughly matches that width.
// A channel at least half the sample rate wide keeps the full band: no
// filter and no decimation.
func AdjustToChannel(p Params, ch Channel) Params {
	width := math.Max(ch.FHi-ch.FLo, ch.Bw)
	switch {
	case width >= p.SampleRate/2:
		p.Bw = 0
		p.Decimation = 1
	case width > 0:
		p.Decimation = int(math.Ceil(p.SampleRate / width))
		if p.Decimation < 1 {
			p.Decimation = 1
		}
		p.Bw = width
	}
	p.Fc = ch.Fc - ch.Ft

	return p
}
