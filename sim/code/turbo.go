package code

import (
	"fmt"

	"github.com/fec-sim/fec-sim/sim/numeric"
)

// Turbo is the parallel concatenation of two identical RSC encoders, the
// second fed through an interleaver. The codeword is
//
//	[ u (K) | par1 (K) | par2 (K) | sys1 tail (m) | par1 tail (m) | sys2 tail (m) | par2 tail (m) ]
//
// so N = 3K + 4m when terminated and 3K otherwise.
type Turbo[B numeric.Bit] struct {
	rsc *RSC[B]
	itl *Interleaver

	ui, sys, par []B
}

// NewTurbo builds a turbo encoder. The interleaver size must equal k.
func NewTurbo[B numeric.Bit](k int, polys []int, terminated bool, itl *Interleaver) (*Turbo[B], error) {
	rsc, err := NewRSC[B](k, polys, terminated)
	if err != nil {
		return nil, fmt.Errorf("turbo: %w", err)
	}
	if itl.Size() != k {
		return nil, fmt.Errorf("turbo: interleaver size %d, want %d", itl.Size(), k)
	}
	h := rsc.HalfLength()
	return &Turbo[B]{
		rsc: rsc,
		itl: itl,
		ui:  make([]B, k),
		sys: make([]B, h),
		par: make([]B, h),
	}, nil
}

// Constituent returns the RSC encoder both branches use.
func (e *Turbo[B]) Constituent() *RSC[B] { return e.rsc }

// Interleaver returns the permutation feeding the second branch.
func (e *Turbo[B]) Interleaver() *Interleaver { return e.itl }

func (e *Turbo[B]) K() int    { return e.rsc.K() }
func (e *Turbo[B]) N() int    { return 3*e.rsc.K() + e.Tail() }
func (e *Turbo[B]) Tail() int { return 2 * e.rsc.Tail() }

// Encode is not safe for concurrent use; it reuses scratch buffers.
func (e *Turbo[B]) Encode(u, x []B) {
	k := e.K()
	m := e.rsc.Tail() / 2
	mustLen("turbo encode", "info", k, len(u))
	mustLen("turbo encode", "codeword", e.N(), len(x))

	tails := x[3*k:]

	e.rsc.EncodeSysPar(u, e.sys, e.par)
	copy(x[:k], u)
	copy(x[k:2*k], e.par[:k])
	copy(tails[0:m], e.sys[k:])
	copy(tails[m:2*m], e.par[k:])

	Interleave(e.itl, e.ui, u)
	e.rsc.EncodeSysPar(e.ui, e.sys, e.par)
	copy(x[2*k:3*k], e.par[:k])
	copy(tails[2*m:3*m], e.sys[k:])
	copy(tails[3*m:4*m], e.par[k:])
}
