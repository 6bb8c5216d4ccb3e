package detect

import "errors"

// MaxBufferLen bounds every buffer the detector allocates.
const MaxBufferLen = 1 << 24

var (
	// ErrAllocation reports a buffer or record that could not be allocated:
	// an oversized window, a full channel list, or an empty peak history.
	ErrAllocation = errors.New("detect: allocation failed")
	// ErrPlan reports a transform plan that could not be created or bound.
	ErrPlan = errors.New("detect: transform plan failed")
	// ErrConfigInconsistency reports parameters that only conflict at run
	// time, such as a bandwidth too wide for the decimated rate. The block is
	// skipped; feeding may continue.
	ErrConfigInconsistency = errors.New("detect: configuration inconsistency")
	// ErrModeNotImplemented reports a block dispatched to an unknown mode.
	ErrModeNotImplemented = errors.New("detect: mode not implemented")
	// ErrInvalidParams reports parameters rejected at construction.
	ErrInvalidParams = errors.New("detect: invalid parameters")
	// ErrClosed reports use of a detector after Close.
	ErrClosed = errors.New("detect: detector closed")
)
