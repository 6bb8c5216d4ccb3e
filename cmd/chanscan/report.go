package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cwbudde/algo-sigdetect/dsp/detect"
)

func printReport(w io.Writer, d *detect.Detector, valid detect.ValidFunc, samples int) error {
	p := d.Params()

	fmt.Fprintf(w, "Mode: %s  Rate: %g Hz  Window: %d  Decimation: %d  Samples: %d\n\n",
		p.Mode, p.SampleRate, p.WindowSize, p.Decimation, samples)

	if p.Mode != detect.ModeDiscovery {
		fmt.Fprintf(w, "Baud rate: %.3f\n", d.Baud())
		return nil
	}

	fmt.Fprintf(w, "Noise floor: %.4g\n\n", d.NoiseFloor())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Fc (Hz)\tBW (Hz)\tF_lo (Hz)\tF_hi (Hz)\tS0 (dB)\tN0 (dB)\tSNR (dB)\tAge\tPresent\tValid\t\n")

	for _, c := range d.Channels() {
		fmt.Fprintf(tw, "%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%d\t%d\t%t\t\n",
			c.Fc, c.Bw, c.FLo, c.FHi, c.S0, c.N0, c.SNR, c.Age, c.Present, valid(c))
	}

	return tw.Flush()
}
