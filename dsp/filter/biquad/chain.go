package biquad

// Chain is an ordered cascade of sections processed in series.
type Chain struct {
	sections []Section
	gain     float64
}

type chainConfig struct {
	gain float64
}

// ChainOption configures a Chain.
type ChainOption func(*chainConfig)

// WithGain sets an overall gain applied to the input. Default is 1.
func WithGain(g float64) ChainOption {
	return func(cfg *chainConfig) { cfg.gain = g }
}

// NewChain creates a cascade with one Section per coefficient set.
func NewChain(coeffs []Coefficients, opts ...ChainOption) *Chain {
	cfg := chainConfig{gain: 1}
	for _, o := range opts {
		o(&cfg)
	}

	c := &Chain{
		sections: make([]Section, len(coeffs)),
		gain:     cfg.gain,
	}
	for i := range coeffs {
		c.sections[i].Coefficients = coeffs[i]
	}

	return c
}

// ProcessSample runs x through every section in order.
func (c *Chain) ProcessSample(x complex128) complex128 {
	if c.gain != 1 {
		x *= complex(c.gain, 0)
	}
	for i := range c.sections {
		x = c.sections[i].ProcessSample(x)
	}

	return x
}

// ProcessBlock filters buf in place through the full cascade.
func (c *Chain) ProcessBlock(buf []complex128) {
	for i, x := range buf {
		buf[i] = c.ProcessSample(x)
	}
}

// Reset clears all section states.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}

// NumSections returns the number of sections in the cascade.
func (c *Chain) NumSections() int {
	return len(c.sections)
}

// Section returns the i-th section for inspection.
func (c *Chain) Section(i int) *Section {
	return &c.sections[i]
}
