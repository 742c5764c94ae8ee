package sim

import (
	"errors"
	"fmt"

	"github.com/fec-sim/fec-sim/sim/numeric"
)

// ErrUnsupported is returned by a decode entry point the decoder does not provide.
var ErrUnsupported = errors.New("decode entry point not supported by this decoder")

// SISO is the soft-input soft-output contract every iterative decoder
// constituent honors. Buffers are allocated by the caller and written in place;
// a call processes Geometry().NFrames independent frames laid end to end.
//
// Passing a buffer whose length does not match the geometry panics with a
// *ContractViolation.
type SISO[Q numeric.Quant] interface {
	// Geometry returns the per-frame sizes and the batch size.
	Geometry() Geometry

	// DecodeSys decodes a systematic code from separate systematic and parity
	// LLRs and writes the extrinsic information about the systematic bits to
	// ext. len(sys) == len(ext) == SysLength*NFrames, len(par) == ParLength*NFrames.
	DecodeSys(sys, par, ext []Q) error

	// DecodeCombined decodes a complete noisy codeword and writes updated
	// information about every bit of the frame to out.
	// len(y) == len(out) == N*NFrames.
	DecodeCombined(y, out []Q) error

	// TailLength returns the number of trellis termination bits per frame.
	TailLength() int
}

// Geometry holds the sizes a decoder is built for.
type Geometry struct {
	K       int // information bits per frame
	N       int // soft values per frame
	Tail    int // termination bits per frame, included in N
	NFrames int // frames per call
}

// NewGeometry validates K <= N, K + tail <= N and non-negative sizes.
func NewGeometry(k, n, tail, nFrames int) (Geometry, error) {
	switch {
	case k < 0 || n < 0 || tail < 0 || nFrames < 0:
		return Geometry{}, fmt.Errorf("geometry: sizes must be non-negative (K=%d, N=%d, tail=%d, n_frames=%d)", k, n, tail, nFrames)
	case k > n:
		return Geometry{}, fmt.Errorf("geometry: K (%d) exceeds N (%d)", k, n)
	case k+tail > n:
		return Geometry{}, fmt.Errorf("geometry: K + tail (%d + %d) exceeds N (%d)", k, tail, n)
	case tail%2 != 0:
		return Geometry{}, fmt.Errorf("geometry: tail (%d) must split evenly between systematic and parity bits", tail)
	}
	return Geometry{K: k, N: n, Tail: tail, NFrames: nFrames}, nil
}

// SysLength is the per-frame length of the systematic view: the information
// bits plus the systematic half of the tail.
func (g Geometry) SysLength() int { return g.K + g.Tail/2 }

// ParLength is the per-frame length of the parity view.
func (g Geometry) ParLength() int { return g.N - g.SysLength() }

// ContractViolation is the panic value raised when a decode entry point gets
// a buffer of the wrong length.
type ContractViolation struct {
	Op     string
	Buffer string
	Want   int
	Got    int
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("%s: %s has %d values, want %d", e.Op, e.Buffer, e.Got, e.Want)
}

// Base carries the geometry of a SISO and the length checks shared by every
// implementation. Embed it; it answers TailLength with zero, so decoders
// with a terminated trellis must override TailLength.
type Base struct {
	geo Geometry
}

// NewBase returns a Base for g.
func NewBase(g Geometry) Base { return Base{geo: g} }

// Geometry returns the decoder geometry.
func (b *Base) Geometry() Geometry { return b.geo }

// TailLength returns zero.
func (b *Base) TailLength() int { return 0 }

// CheckSys panics unless the buffers match the systematic view.
func (b *Base) CheckSys(op string, sys, par, ext int) {
	sysLen := b.geo.SysLength() * b.geo.NFrames
	parLen := b.geo.ParLength() * b.geo.NFrames
	mustLen(op, "sys", sysLen, sys)
	mustLen(op, "par", parLen, par)
	mustLen(op, "ext", sysLen, ext)
}

// CheckCombined panics unless the buffers match the combined view.
func (b *Base) CheckCombined(op string, y, out int) {
	n := b.geo.N * b.geo.NFrames
	mustLen(op, "input", n, y)
	mustLen(op, "output", n, out)
}

func mustLen(op, buffer string, want, got int) {
	if want != got {
		panic(&ContractViolation{Op: op, Buffer: buffer, Want: want, Got: got})
	}
}
