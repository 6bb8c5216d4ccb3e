package fft

import "fmt"

// Direction selects the transform direction of a bound [Transform].
type Direction int

const (
	Forward Direction = iota
	Inverse
)

// Transform is a plan bound to fixed input and output buffers.
//
// The buffers are owned by the caller; Execute reads in and writes out.
// A Transform must be rebuilt if either buffer is reallocated.
type Transform struct {
	plan Plan
	dir  Direction
	in   []complex128
	out  []complex128
}

// Bind ties plan to the in and out buffers for repeated execution.
func Bind(plan Plan, dir Direction, in, out []complex128) (*Transform, error) {
	if plan == nil {
		return nil, fmt.Errorf("fft: bind: nil plan")
	}
	if err := checkLen(plan.Len(), out, in); err != nil {
		return nil, err
	}
	if dir != Forward && dir != Inverse {
		return nil, fmt.Errorf("fft: bind: invalid direction %d", dir)
	}
	return &Transform{plan: plan, dir: dir, in: in, out: out}, nil
}

// Execute runs the transform over the bound buffers.
func (t *Transform) Execute() error {
	if t.dir == Inverse {
		return t.plan.Inverse(t.out, t.in)
	}
	return t.plan.Forward(t.out, t.in)
}

// In returns the bound input buffer.
func (t *Transform) In() []complex128 { return t.in }

// Out returns the bound output buffer.
func (t *Transform) Out() []complex128 { return t.out }

// Len returns the transform length.
func (t *Transform) Len() int { return t.plan.Len() }
