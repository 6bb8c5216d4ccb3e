package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-sigdetect/dsp/detect"
	"github.com/cwbudde/algo-sigdetect/internal/testutil"
)

func encodeCF32(xs []complex128) []byte {
	out := make([]byte, 0, len(xs)*cf32Size)
	for _, x := range xs {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(float32(real(x))))
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(float32(imag(x))))
	}
	return out
}

func TestCF32ReaderDecodes(t *testing.T) {
	want := []complex128{complex(1, -1), complex(0.5, 0.25), complex(-2, 3)}
	r := newCF32Reader(bytes.NewReader(encodeCF32(want)))

	buf := make([]complex128, 2)
	n, err := r.Read(buf)
	if err != nil || n != 2 {
		t.Fatalf("Read() = %d, %v, want 2, nil", n, err)
	}
	if buf[0] != want[0] || buf[1] != want[1] {
		t.Fatalf("decoded %v, want %v", buf, want[:2])
	}

	n, err = r.Read(buf)
	if n != 1 || !errors.Is(err, io.EOF) {
		t.Fatalf("Read() = %d, %v, want 1, EOF", n, err)
	}
	if buf[0] != want[2] {
		t.Fatalf("decoded %v, want %v", buf[0], want[2])
	}

	if n, err := r.Read(buf); n != 0 || !errors.Is(err, io.EOF) {
		t.Fatalf("Read() at end = %d, %v", n, err)
	}
}

func TestCF32ReaderTruncated(t *testing.T) {
	raw := encodeCF32([]complex128{1, 2})
	r := newCF32Reader(bytes.NewReader(raw[:len(raw)-3]))

	buf := make([]complex128, 4)
	n, err := r.Read(buf)
	if n != 1 || !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("Read() = %d, %v, want 1, ErrUnexpectedEOF", n, err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.yaml")
	src := "detector:\n  mode: acorr\n  samp_rate: 48000\nbackend: gonum\n"
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Detector.Mode != detect.ModeAutocorrelation || cfg.Detector.SampleRate != 48000 {
		t.Fatalf("detector = %+v", cfg.Detector)
	}
	if cfg.Detector.WindowSize != detect.DefaultParams().WindowSize {
		t.Fatalf("WindowSize = %d, want default", cfg.Detector.WindowSize)
	}
	if cfg.Backend != "gonum" || cfg.Chunk != defaultChunk {
		t.Fatalf("backend/chunk = %q/%d", cfg.Backend, cfg.Chunk)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("LoadConfig(missing) returned no error")
	}
}

func TestRunDumpConfigFlagsOverride(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"--dump-config", "--mode", "nldiff", "--rate", "96000"}, nil, &out)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	for _, want := range []string{"mode: nonlinear-diff", "samp_rate: 96000", "backend: algofft"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("dump missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunAutocorrelation(t *testing.T) {
	xs := testutil.SymbolPattern([]float64{1, 1, -1, -1}, 8, 4*1024)

	var out bytes.Buffer
	args := []string{"--mode", "acorr", "--rate", "8000", "--window", "1024", "--alpha", "0.5"}
	if err := run(args, bytes.NewReader(encodeCF32(xs)), &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if !strings.Contains(out.String(), "Baud rate: 1000.000") {
		t.Fatalf("unexpected report:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Samples: 4096") {
		t.Fatalf("unexpected sample count:\n%s", out.String())
	}
}

func TestRunDiscoveryReport(t *testing.T) {
	n := 1024 * 20
	xs := testutil.Sum(
		testutil.Tone(10000, 192000, 10, n),
		testutil.ComplexNoise(5, 1, n),
	)

	var out bytes.Buffer
	args := []string{"--rate", "192000", "--window", "1024", "--alpha", "0.05"}
	if err := run(args, bytes.NewReader(encodeCF32(xs)), &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	for _, want := range []string{"Mode: discovery", "Noise floor:", "Fc (Hz)"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("report missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "mode", args: []string{"--mode", "fsk"}},
		{name: "backend", args: []string{"--backend", "fftw"}},
		{name: "rate", args: []string{"--rate", "0"}},
		{name: "file", args: []string{filepath.Join(os.TempDir(), "chanscan-does-not-exist.cf32")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(tt.args, bytes.NewReader(nil), io.Discard); err == nil {
				t.Fatal("run() returned no error")
			}
		})
	}
}
