// Package detect finds channels and estimates symbol rates in a stream of
// complex baseband samples.
//
// Samples pass through a mixer, an optional antialias lowpass and a
// decimator before being collected into fixed-size blocks. Each full block
// is analyzed according to the detector's [Mode]:
//
//   - [ModeDiscovery] smooths a windowed periodogram, tracks a noise floor and
//     reports contiguous regions above the squelch as [Channel] records.
//   - [ModeAutocorrelation] estimates the baud rate from the first valley of
//     the block autocorrelation.
//   - [ModeNonlinearDiff] estimates the baud rate from the spectral line that
//     symbol transitions leave in the squared derivative.
//
// A [Detector] is synchronous and single-owner: Feed does all its work on
// the calling goroutine and never blocks.
package detect
