package biquad

// Coefficients holds the transfer function coefficients for a single
// second-order section. a0 is normalized to 1 and not stored.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// Section is a single biquad with a complex delay line.
type Section struct {
	Coefficients

	d0, d1 complex128
}

// NewSection returns a Section with the given coefficients and zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one complex sample. Real and imaginary parts see
// the same real-coefficient filter.
func (s *Section) ProcessSample(x complex128) complex128 {
	b0 := complex(s.B0, 0)
	b1 := complex(s.B1, 0)
	b2 := complex(s.B2, 0)
	a1 := complex(s.A1, 0)
	a2 := complex(s.A2, 0)

	y := b0*x + s.d0
	s.d0 = b1*x - a1*y + s.d1
	s.d1 = b2*x - a2*y

	return y
}

// ProcessBlock filters buf in place.
func (s *Section) ProcessBlock(buf []complex128) {
	for i, x := range buf {
		buf[i] = s.ProcessSample(x)
	}
}

// Reset clears the delay line.
func (s *Section) Reset() {
	s.d0 = 0
	s.d1 = 0
}
