// Package spectrum provides FFT-adjacent power spectrum utilities.
//
// The package does not implement FFT itself. It turns complex bins from an
// external FFT into periodograms, keeps exponentially smoothed averages of
// them, and tracks per-bin min/max envelopes for noise-floor estimation.
package spectrum
