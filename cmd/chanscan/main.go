// Command chanscan runs the channel detector over a recorded I/Q stream.
//
// Input is interleaved little-endian float32 I/Q (cf32), read from the
// named file or from stdin.
//
// Usage:
//
//	chanscan [flags] [file]
//
// Examples:
//
//	chanscan --rate 192000 capture.cf32
//	chanscan --mode nldiff --rate 48000 --bw 2400 burst.cf32
//	chanscan --config scan.yaml --dump-config
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/cwbudde/algo-sigdetect/dsp/detect"
	"github.com/cwbudde/algo-sigdetect/dsp/fft"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := pflag.NewFlagSet("chanscan", pflag.ContinueOnError)

	var (
		configFile = fs.StringP("config", "c", "", "YAML configuration file")
		mode       = fs.StringP("mode", "m", "discovery", "detector mode (discovery, acorr, nldiff)")
		rate       = fs.Float64P("rate", "r", 8000, "input sample rate in Hz")
		windowSize = fs.IntP("window", "w", 4096, "FFT window size in samples")
		decimation = fs.IntP("decimation", "d", 1, "decimation factor")
		fc         = fs.Float64("fc", 0, "frequency to mix down to DC in Hz")
		bw         = fs.Float64("bw", 0, "antialias bandwidth in Hz (0 disables the filter)")
		alpha      = fs.Float64("alpha", 1e-2, "spectrum smoothing rate")
		snr        = fs.Float64("snr", 2, "squelch as a multiple of the noise floor")
		backend    = fs.String("backend", "algofft", "FFT backend (algofft, gonum)")
		dumpConfig = fs.Bool("dump-config", false, "print the effective configuration and exit")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: chanscan [flags] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Finds channels or estimates the baud rate of a cf32 I/Q recording.\n")
		fmt.Fprintf(os.Stderr, "Reads stdin when no file is given.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := defaultConfig()
	if *configFile != "" {
		loaded, err := LoadConfig(*configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	// Flags given explicitly override the file.
	p := &cfg.Detector
	if fs.Changed("mode") {
		m, err := detect.ParseMode(*mode)
		if err != nil {
			return err
		}
		p.Mode = m
	}
	if fs.Changed("rate") {
		p.SampleRate = *rate
	}
	if fs.Changed("window") {
		p.WindowSize = *windowSize
	}
	if fs.Changed("decimation") {
		p.Decimation = *decimation
	}
	if fs.Changed("fc") {
		p.Fc = *fc
	}
	if fs.Changed("bw") {
		p.Bw = *bw
	}
	if fs.Changed("alpha") {
		p.Alpha = *alpha
	}
	if fs.Changed("snr") {
		p.SNR = *snr
	}
	if fs.Changed("backend") {
		cfg.Backend = *backend
	}

	if *dumpConfig {
		out, err := cfg.Dump()
		if err != nil {
			return err
		}
		_, err = stdout.Write(out)
		return err
	}

	b, err := fft.ParseBackend(cfg.Backend)
	if err != nil {
		return err
	}

	in := stdin
	if fs.NArg() > 0 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	d, err := detect.New(cfg.Detector, detect.WithTransformBackend(b))
	if err != nil {
		return err
	}
	defer d.Close()

	samples, err := scan(d, newCF32Reader(in), cfg.Chunk)
	if err != nil {
		return err
	}

	return printReport(stdout, d, detect.DefaultValidChannel, samples)
}

// scan feeds the whole stream to d and returns the number of samples fed.
// Configuration inconsistencies only cost the affected block.
func scan(d *detect.Detector, r *cf32Reader, chunk int) (int, error) {
	buf := make([]complex128, chunk)
	total := 0

	for {
		n, readErr := r.Read(buf)

		for off := 0; off < n; {
			fed, err := d.FeedBulk(buf[off:n])
			off += fed
			total += fed
			if err == nil {
				break
			}
			if !errors.Is(err, detect.ErrConfigInconsistency) {
				return total, err
			}
			// Skip the sample that completed the rejected block.
			off++
			total++
		}

		if errors.Is(readErr, io.EOF) {
			return total, nil
		}
		if readErr != nil {
			return total, readErr
		}
	}
}
