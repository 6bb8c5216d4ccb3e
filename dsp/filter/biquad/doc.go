// Package biquad provides second-order IIR sections for complex baseband.
//
// A [Section] holds real coefficients and a complex delay line, so the I and
// Q rails of a sample are filtered by the same real transfer function in a
// single pass. Sections are cascaded with [Chain] to build higher-order
// filters. Coefficient design lives in dsp/filter/design/pass.
package biquad
