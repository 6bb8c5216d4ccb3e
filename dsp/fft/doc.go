// Package fft provides complex FFT plans behind a backend-neutral interface.
//
// Two backends are available: algo-fft ([BackendAlgoFFT], the default) and
// gonum's dsp/fourier ([BackendGonum]). Both produce unnormalized forward
// transforms and 1/N-normalized inverse transforms, so results are
// interchangeable up to floating-point rounding.
//
// A [Transform] binds a plan to fixed input and output buffers, which is the
// shape streaming analyzers want: fill the input, call Execute, read the
// output.
//
//	plan, err := fft.NewPlan(1024)
//	tr, err := fft.Bind(plan, fft.Forward, in, out)
//	err = tr.Execute()
package fft
