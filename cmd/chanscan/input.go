package main

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// cf32Reader decodes interleaved little-endian float32 I/Q pairs.
type cf32Reader struct {
	r   *bufio.Reader
	raw []byte
}

const cf32Size = 8

func newCF32Reader(r io.Reader) *cf32Reader {
	return &cf32Reader{r: bufio.NewReader(r)}
}

// Read fills dst with samples and returns how many were decoded. A trailing
// partial sample is reported as io.ErrUnexpectedEOF.
func (c *cf32Reader) Read(dst []complex128) (int, error) {
	need := len(dst) * cf32Size
	if cap(c.raw) < need {
		c.raw = make([]byte, need)
	}
	raw := c.raw[:need]

	n, err := io.ReadFull(c.r, raw)
	samples := n / cf32Size
	for i := range samples {
		b := raw[i*cf32Size:]
		re := math.Float32frombits(binary.LittleEndian.Uint32(b[0:4]))
		im := math.Float32frombits(binary.LittleEndian.Uint32(b[4:8]))
		dst[i] = complex(float64(re), float64(im))
	}

	switch {
	case err == nil:
		return samples, nil
	case errors.Is(err, io.EOF):
		return 0, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		if n%cf32Size != 0 {
			return samples, fmt.Errorf("truncated sample after %d bytes: %w", n, io.ErrUnexpectedEOF)
		}
		return samples, io.EOF
	default:
		return samples, err
	}
}
