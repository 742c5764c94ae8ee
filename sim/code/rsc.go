package code

import (
	"fmt"

	"github.com/fec-sim/fec-sim/sim/numeric"
)

// DefaultPolys is the {feedback, feedforward} pair used when none is given.
var DefaultPolys = []int{0o13, 0o15}

// RSC is a recursive systematic convolutional encoder. Its codeword is the
// systematic view followed by the parity view:
//
//	[ u (K) | tail sys (m) | parity (K) | tail parity (m) ]
//
// The tail halves are absent when the trellis is not terminated.
type RSC[B numeric.Bit] struct {
	trellis    *Trellis
	k          int
	terminated bool
}

// NewRSC builds an RSC encoder for k information bits.
func NewRSC[B numeric.Bit](k int, polys []int, terminated bool) (*RSC[B], error) {
	if k <= 0 {
		return nil, fmt.Errorf("rsc: K must be positive, got %d", k)
	}
	t, err := NewTrellis(polys)
	if err != nil {
		return nil, fmt.Errorf("rsc: %w", err)
	}
	return &RSC[B]{trellis: t, k: k, terminated: terminated}, nil
}

// Trellis returns the code trellis.
func (e *RSC[B]) Trellis() *Trellis { return e.trellis }

// Terminated reports whether the encoder closes the trellis.
func (e *RSC[B]) Terminated() bool { return e.terminated }

func (e *RSC[B]) K() int { return e.k }

func (e *RSC[B]) N() int { return 2 * e.HalfLength() }

func (e *RSC[B]) Tail() int {
	if !e.terminated {
		return 0
	}
	return 2 * e.trellis.Memory()
}

// HalfLength is the length of the systematic view, and of the parity view.
func (e *RSC[B]) HalfLength() int { return e.k + e.Tail()/2 }

func (e *RSC[B]) Encode(u, x []B) {
	mustLen("rsc encode", "codeword", e.N(), len(x))
	h := e.HalfLength()
	e.EncodeSysPar(u, x[:h], x[h:])
}

// EncodeSysPar writes the systematic view and the parity view separately.
// len(sys) == len(par) == HalfLength.
func (e *RSC[B]) EncodeSysPar(u, sys, par []B) {
	mustLen("rsc encode", "info", e.k, len(u))
	mustLen("rsc encode", "sys", e.HalfLength(), len(sys))
	mustLen("rsc encode", "par", e.HalfLength(), len(par))

	s := 0
	for i, b := range u {
		in := uint8(b & 1)
		sys[i] = B(in)
		par[i] = B(e.trellis.Parity(s, in))
		s = e.trellis.Next(s, in)
	}
	if !e.terminated {
		return
	}
	for i := e.k; i < e.HalfLength(); i++ {
		in := e.trellis.TailInput(s)
		sys[i] = B(in)
		par[i] = B(e.trellis.Parity(s, in))
		s = e.trellis.Next(s, in)
	}
}
