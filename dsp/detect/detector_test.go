package detect

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cwbudde/algo-sigdetect/dsp/fft"
	"github.com/cwbudde/algo-sigdetect/internal/testutil"
)

func discoveryParams() Params {
	p := DefaultParams()
	p.SampleRate = 192000
	p.WindowSize = 1024
	p.Alpha = 0.05
	return p
}

// toneInNoise returns blocks of a 10 kHz tone 20 dB above unit-power noise.
func toneInNoise(p Params, blocks int) []complex128 {
	n := p.WindowSize * blocks
	return testutil.Sum(
		testutil.Tone(10000, p.SampleRate, 10, n),
		testutil.ComplexNoise(1, 1, n),
	)
}

func mustNew(t *testing.T, p Params, opts ...Option) *Detector {
	t.Helper()
	d, err := New(p, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func feedAll(t *testing.T, d *Detector, xs []complex128) {
	t.Helper()
	n, err := d.FeedBulk(xs)
	if err != nil {
		t.Fatalf("FeedBulk() error = %v after %d samples", err, n)
	}
	if n != len(xs) {
		t.Fatalf("FeedBulk() consumed %d, want %d", n, len(xs))
	}
}

func TestDiscoveryFindsTone(t *testing.T) {
	p := discoveryParams()
	d := mustNew(t, p)

	// The list resets at blocks 40, 80, 120 and 160, leaving 26 cycles
	// since the last reset.
	feedAll(t, d, toneInNoise(p, 186))

	binHz := p.SampleRate / float64(p.WindowSize)

	all := d.Channels()
	if len(all) != 1 {
		t.Fatalf("channels = %+v, want exactly one", all)
	}

	var valid []Channel
	for _, c := range all {
		if DefaultValidChannel(c) {
			valid = append(valid, c)
		}
	}
	if len(valid) != 1 {
		t.Fatalf("valid channels = %+v, want exactly one", valid)
	}

	c := valid[0]
	testutil.RequireNear(t, "Fc", c.Fc, 10000, binHz)
	if c.FLo > c.Fc || c.Fc > c.FHi {
		t.Fatalf("Fc %v outside [%v, %v]", c.Fc, c.FLo, c.FHi)
	}
	if minSNR := 10 * math.Log10(p.SNR); c.SNR <= minSNR {
		t.Fatalf("SNR = %v dB, want > %v dB", c.SNR, minSNR)
	}

	got, ok := d.LookupValidChannel(10000)
	if !ok || got != c {
		t.Fatalf("LookupValidChannel(10000) = %+v, %v", got, ok)
	}

	// Unit-power noise spread over the window gives roughly Σw²/N per bin.
	n0 := d.NoiseFloor()
	if n0 < 0.1 || n0 > 0.5 {
		t.Fatalf("NoiseFloor() = %v, want near 0.26", n0)
	}

	spect := d.Spectrum()
	if len(spect) != p.WindowSize {
		t.Fatalf("len(Spectrum()) = %d, want %d", len(spect), p.WindowSize)
	}
	testutil.RequireFinite(t, spect)
}

func TestDiscoverySeedingCycle(t *testing.T) {
	p := discoveryParams()
	d := mustNew(t, p)

	feedAll(t, d, toneInNoise(p, 1))

	if got := len(d.Channels()); got != 0 {
		t.Fatalf("channels after seeding block = %d, want 0", got)
	}
	if d.NoiseFloor() <= 0 {
		t.Fatalf("NoiseFloor() = %v after seeding, want > 0", d.NoiseFloor())
	}
}

func TestDiscoveryMaxAgeResetsList(t *testing.T) {
	p := discoveryParams()
	p.MaxAge = 5
	d := mustNew(t, p)

	xs := toneInNoise(p, 105)
	split := 104 * p.WindowSize

	// Resets land on blocks 5, 10, ..., 100. The tone is re-found on block
	// 100 and tracked through block 104.
	feedAll(t, d, xs[:split])

	c, ok := d.LookupChannel(10000)
	if !ok {
		t.Fatalf("no channel at 10 kHz after 104 blocks: %+v", d.Channels())
	}
	if c.Age != 5 || c.Present != 4 {
		t.Fatalf("Age/Present = %d/%d, want 5/4", c.Age, c.Present)
	}

	feedAll(t, d, xs[split:])

	c, ok = d.LookupChannel(10000)
	if !ok {
		t.Fatalf("no channel at 10 kHz after reset: %+v", d.Channels())
	}
	if c.Age != 1 || c.Present != 0 {
		t.Fatalf("Age/Present after reset = %d/%d, want 1/0", c.Age, c.Present)
	}
}

func TestDiscoveryNoiseFloorFallback(t *testing.T) {
	p := discoveryParams()
	p.Alpha = 1
	p.Beta = 0
	d := mustNew(t, p)

	// No bin's envelope can bracket the seeded floor once the noise power
	// steps up by 40 dB.
	n := p.WindowSize
	feedAll(t, d, testutil.ComplexNoise(3, 1, n))
	feedAll(t, d, testutil.ComplexNoise(4, 1e4, n))

	spect := d.Spectrum()
	weak := 0
	for i, v := range spect {
		if v < spect[weak] {
			weak = i
		}
	}

	env := d.mode.(*discovery).env
	if got, want := d.NoiseFloor(), env.Mid(weak); got != want {
		t.Fatalf("NoiseFloor() = %v, want envelope midpoint %v of bin %d", got, want, weak)
	}
	if lo, hi := env.Min()[weak], env.Max()[weak]; !(lo < d.NoiseFloor() && d.NoiseFloor() < hi) {
		t.Fatalf("NoiseFloor() = %v, want inside weakest bin envelope (%v, %v)", d.NoiseFloor(), lo, hi)
	}
}

func TestDiscoveryPeakTracking(t *testing.T) {
	tests := []struct {
		gamma float64
		peak  float64
	}{
		{gamma: 0, peak: 10},
		{gamma: 0.5, peak: 20},
		{gamma: 1, peak: 30},
	}

	for _, tt := range tests {
		p := DefaultParams()
		p.SampleRate = 8000
		p.WindowSize = 16
		p.Gamma = tt.gamma
		d := mustNew(t, p)

		m := d.mode.(*discovery)
		for i := range m.psd.spect {
			m.psd.spect[i] = 0
		}
		m.psd.spect[2] = 10
		m.psd.spect[3] = 30
		m.n0 = 1

		if err := m.findChannels(d); err != nil {
			t.Fatalf("gamma %v: findChannels() error = %v", tt.gamma, err)
		}

		chans := d.Channels()
		if len(chans) != 1 {
			t.Fatalf("gamma %v: channels = %+v, want one", tt.gamma, chans)
		}
		c := chans[0]

		testutil.RequireNear(t, "S0", c.S0, powerDB(tt.peak), 1e-9)
		testutil.RequireNear(t, "FLo", c.FLo, 1000, 1e-9)
		testutil.RequireNear(t, "FHi", c.FHi, 2000, 1e-9)
		testutil.RequireNear(t, "Bw", c.Bw, p.SampleRate*40/(tt.peak*16), 1e-9)
		if c.Fc < c.FLo || c.Fc > c.FHi {
			t.Fatalf("gamma %v: Fc %v outside [%v, %v]", tt.gamma, c.Fc, c.FLo, c.FHi)
		}
	}
}

func TestDiscoveryMaxChannels(t *testing.T) {
	p := discoveryParams()
	d := mustNew(t, p, WithMaxChannels(1))

	n := p.WindowSize * 40
	xs := testutil.Sum(
		testutil.Tone(10000, p.SampleRate, 10, n),
		testutil.Tone(-40000, p.SampleRate, 10, n),
		testutil.ComplexNoise(2, 1, n),
	)

	_, err := d.FeedBulk(xs)
	if !errors.Is(err, ErrAllocation) {
		t.Fatalf("FeedBulk() error = %v, want ErrAllocation", err)
	}
}

func TestDiscoveryDeterministic(t *testing.T) {
	p := discoveryParams()
	xs := toneInNoise(p, 60)

	run := func(b fft.Backend) ([]Channel, float64) {
		d := mustNew(t, p, WithTransformBackend(b))
		feedAll(t, d, xs)
		return d.Channels(), d.NoiseFloor()
	}

	first, n0 := run(fft.BackendAlgoFFT)
	second, n0Again := run(fft.BackendAlgoFFT)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("channel lists differ (-first +second):\n%s", diff)
	}
	if n0 != n0Again {
		t.Fatalf("noise floor %v != %v", n0, n0Again)
	}
}

func TestAutocorrelationBaud(t *testing.T) {
	p := DefaultParams()
	p.Mode = ModeAutocorrelation
	p.SampleRate = 8000
	p.WindowSize = 1024
	p.Alpha = 0.5

	for _, backend := range []fft.Backend{fft.BackendAlgoFFT, fft.BackendGonum} {
		t.Run(backend.String(), func(t *testing.T) {
			d := mustNew(t, p, WithTransformBackend(backend))

			// 8 samples per symbol at 8 kHz.
			feedAll(t, d, testutil.SymbolPattern([]float64{1, 1, -1, -1}, 8, p.WindowSize*4))

			testutil.RequireNear(t, "Baud()", d.Baud(), 1000, 1e-3)
		})
	}
}

func TestAutocorrelationSilence(t *testing.T) {
	p := DefaultParams()
	p.Mode = ModeAutocorrelation
	p.WindowSize = 64

	d := mustNew(t, p)

	// Silence has no valley to lock onto.
	feedAll(t, d, make([]complex128, p.WindowSize))

	if d.Baud() != 0 {
		t.Fatalf("Baud() = %v, want 0", d.Baud())
	}
}

func nldiffParams() Params {
	p := DefaultParams()
	p.Mode = ModeNonlinearDiff
	p.SampleRate = 8000
	p.WindowSize = 1024
	p.Alpha = 0.1
	// Between the baud line and its first harmonic.
	p.Bw = 625
	return p
}

func TestNonlinearDiffBaud(t *testing.T) {
	p := nldiffParams()
	d := mustNew(t, p)

	n := p.WindowSize * 60
	xs := testutil.Sum(
		testutil.SymbolPattern([]float64{1, -1}, 16, n),
		testutil.ComplexNoise(3, 0.01, n),
	)
	feedAll(t, d, xs)

	binHz := p.SampleRate / float64(p.WindowSize)
	testutil.RequireNear(t, "Baud()", d.Baud(), 500, binHz)
}

func TestNonlinearDiffInconsistentBandwidth(t *testing.T) {
	p := nldiffParams()
	p.WindowSize = 64
	p.Bw = 1000
	p.PDSize = 64

	d := mustNew(t, p)

	xs := testutil.ComplexNoise(4, 1, p.WindowSize)
	n, err := d.FeedBulk(xs)
	if !errors.Is(err, ErrConfigInconsistency) {
		t.Fatalf("FeedBulk() error = %v, want ErrConfigInconsistency", err)
	}
	if n != p.WindowSize-1 {
		t.Fatalf("FeedBulk() consumed %d, want %d", n, p.WindowSize-1)
	}

	// The failed block does not wedge the detector.
	if _, err := d.FeedBulk(xs[:p.WindowSize/2]); err != nil {
		t.Fatalf("FeedBulk() after failure error = %v", err)
	}
}

func TestUnknownModeFailsAtDispatch(t *testing.T) {
	p := DefaultParams()
	p.Mode = Mode(42)
	p.WindowSize = 16

	d := mustNew(t, p)

	xs := make([]complex128, 32)
	n, err := d.FeedBulk(xs)
	if !errors.Is(err, ErrModeNotImplemented) {
		t.Fatalf("FeedBulk() error = %v, want ErrModeNotImplemented", err)
	}
	if n != 15 {
		t.Fatalf("FeedBulk() consumed %d, want 15", n)
	}
	if d.Spectrum() != nil {
		t.Fatal("Spectrum() non-nil for unknown mode")
	}
}

func TestNewRejectsInvalidParams(t *testing.T) {
	p := DefaultParams()
	p.SampleRate = -1
	d, err := New(p)
	if !errors.Is(err, ErrInvalidParams) || d != nil {
		t.Fatalf("New() = %v, %v, want nil, ErrInvalidParams", d, err)
	}

	p = DefaultParams()
	p.WindowSize = MaxBufferLen + 1
	if _, err := New(p); !errors.Is(err, ErrAllocation) {
		t.Fatalf("New(oversized) error = %v, want ErrAllocation", err)
	}

	p = DefaultParams()
	if _, err := New(p, WithTransformBackend(fft.Backend(99))); !errors.Is(err, ErrPlan) {
		t.Fatalf("New(bad backend) error = %v, want ErrPlan", err)
	}
}

func TestCloseIdempotent(t *testing.T) {
	p := DefaultParams()
	p.WindowSize = 32
	d, err := New(p)
	if err != nil {
		t.Fatal(err)
	}

	if err := d.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	if err := d.Feed(1); !errors.Is(err, ErrClosed) {
		t.Fatalf("Feed() after Close error = %v, want ErrClosed", err)
	}
	if n, err := d.FeedBulk([]complex128{1, 2}); n != 0 || !errors.Is(err, ErrClosed) {
		t.Fatalf("FeedBulk() after Close = %d, %v", n, err)
	}
	if len(d.Channels()) != 0 {
		t.Fatal("Channels() non-empty after Close")
	}
}

func TestRequiredSamplesStartsAtZero(t *testing.T) {
	d := mustNew(t, DefaultParams())
	if got := d.RequiredSamples(); got != 0 {
		t.Fatalf("RequiredSamples() = %d, want 0", got)
	}
	if got := d.Params(); got != DefaultParams() {
		t.Fatalf("Params() = %+v", got)
	}
}

func TestDecimationDelaysBlocks(t *testing.T) {
	p := DefaultParams()
	p.Mode = ModeAutocorrelation
	p.WindowSize = 16
	p.Decimation = 4

	d := mustNew(t, p)

	ones := make([]complex128, p.WindowSize*p.Decimation)
	for i := range ones {
		ones[i] = 1
	}

	feedAll(t, d, ones[:len(ones)-1])
	if got := d.Spectrum()[0]; got != 0 {
		t.Fatalf("lag 0 = %v before %d input samples, want 0", got, len(ones))
	}

	feedAll(t, d, ones[len(ones)-1:])
	if got := d.Spectrum()[0]; got <= 0 {
		t.Fatalf("lag 0 = %v after a full block, want > 0", got)
	}
}
