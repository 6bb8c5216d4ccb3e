// Package pass designs lowpass biquad cascades for antialiasing ahead of
// decimation.
package pass
