package decoder

import (
	"fmt"

	"github.com/fec-sim/fec-sim/sim"
	"github.com/fec-sim/fec-sim/sim/code"
	"github.com/fec-sim/fec-sim/sim/numeric"
)

// Turbo iterates two RSC SISOs over the codeword layout of code.Turbo,
// exchanging scaled extrinsic information through the interleaver. Only the
// combined entry point is provided.
type Turbo[Q numeric.Quant] struct {
	sim.Base
	siso1, siso2 *RSC[Q]
	itl          *code.Interleaver
	iterations   int
	scaling      float64
	threads      int
	arith        numeric.Arith[Q]
}

// NewTurbo builds a turbo decoder from cfg.K, cfg.Polys, cfg.Terminated,
// cfg.Interleaver, cfg.Iterations and cfg.ScalingFactor.
func NewTurbo[Q numeric.Quant](cfg Config) (*Turbo[Q], error) {
	if cfg.Interleaver == nil || cfg.Interleaver.Size() != cfg.K {
		return nil, fmt.Errorf("turbo decoder: need an interleaver of size %d", cfg.K)
	}
	if cfg.Iterations < 1 {
		return nil, fmt.Errorf("turbo decoder: iterations must be positive, got %d", cfg.Iterations)
	}
	constituent := cfg
	constituent.N = 0
	constituent.NFrames = 1
	constituent.Threads = 1
	siso1, err := NewRSC[Q](constituent)
	if err != nil {
		return nil, fmt.Errorf("turbo decoder: %w", err)
	}
	siso2, err := NewRSC[Q](constituent)
	if err != nil {
		return nil, fmt.Errorf("turbo decoder: %w", err)
	}
	tail := 2 * siso1.TailLength()
	n := 3*cfg.K + tail
	if err := checkN("turbo decoder", cfg.N, n); err != nil {
		return nil, err
	}
	geo, err := sim.NewGeometry(cfg.K, n, tail, cfg.NFrames)
	if err != nil {
		return nil, fmt.Errorf("turbo decoder: %w", err)
	}
	return &Turbo[Q]{
		Base:       sim.NewBase(geo),
		siso1:      siso1,
		siso2:      siso2,
		itl:        cfg.Interleaver,
		iterations: cfg.Iterations,
		scaling:    cfg.ScalingFactor,
		threads:    cfg.Threads,
		arith:      numeric.NewArith[Q](),
	}, nil
}

// TailLength returns the termination bits of both constituents.
func (d *Turbo[Q]) TailLength() int { return d.Geometry().Tail }

// DecodeSys is not provided.
func (d *Turbo[Q]) DecodeSys(_, _, _ []Q) error {
	return fmt.Errorf("turbo DecodeSys: %w", sim.ErrUnsupported)
}

// DecodeCombined writes the a-posteriori LLR of every bit of the frame. The
// information bits take the APP of the second constituent, deinterleaved;
// parity and tail positions take the APP of the constituent that emitted
// them, computed in the last iteration.
func (d *Turbo[Q]) DecodeCombined(y, out []Q) error {
	d.CheckCombined("turbo DecodeCombined", len(y), len(out))
	n := d.Geometry().N
	return forEachFrame(d.threads, d.Geometry().NFrames, func(f int) error {
		return d.decodeFrame(y[f*n:(f+1)*n], out[f*n:(f+1)*n])
	})
}

func (d *Turbo[Q]) decodeFrame(y, out []Q) error {
	a := d.arith
	k := d.Geometry().K
	m := d.siso1.TailLength() / 2
	h := k + m

	ls := y[:k]
	tails := y[3*k:]

	sys1, par1, ext1 := make([]Q, h), make([]Q, h), make([]Q, h)
	sys2, par2, ext2 := make([]Q, h), make([]Q, h), make([]Q, h)
	copy(par1, y[k:2*k])
	copy(sys1[k:], tails[:m])
	copy(par1[k:], tails[m:2*m])
	copy(par2, y[2*k:3*k])
	copy(sys2[k:], tails[2*m:3*m])
	copy(par2[k:], tails[3*m:4*m])

	lsi := make([]Q, k)
	code.Interleave(d.itl, lsi, ls)
	le12, le21, tmp := make([]Q, k), make([]Q, k), make([]Q, k)

	app1, app2 := make([]Q, h), make([]Q, h)
	for it := range d.iterations {
		last := it == d.iterations-1
		for i := range k {
			sys1[i] = a.Add(ls[i], le21[i])
		}
		d.constituent(d.siso1, sys1, par1, ext1, app1, last)
		for i := range k {
			le12[i] = a.Scale(ext1[i], d.scaling)
		}

		code.Interleave(d.itl, tmp, le12)
		for i := range k {
			sys2[i] = a.Add(lsi[i], tmp[i])
		}
		d.constituent(d.siso2, sys2, par2, ext2, app2, last)
		for i := range k {
			tmp[i] = a.Scale(ext2[i], d.scaling)
		}
		code.Deinterleave(d.itl, le21, tmp)
	}

	for i := range k {
		tmp[i] = a.Add(sys2[i], ext2[i])
	}
	code.Deinterleave(d.itl, out[:k], tmp)

	copy(out[k:2*k], app1[:k])
	copy(out[2*k:3*k], app2[:k])
	tailOut := out[3*k:]
	for i := range m {
		tailOut[i] = a.Add(sys1[k+i], ext1[k+i])
		tailOut[2*m+i] = a.Add(sys2[k+i], ext2[k+i])
	}
	copy(tailOut[m:2*m], app1[k:])
	copy(tailOut[3*m:4*m], app2[k:])
	return nil
}

// constituent runs one SISO over a systematic/parity pair and writes the
// extrinsic of the systematic bits to ext. With withPar it also writes the
// parity APPs to appPar.
func (d *Turbo[Q]) constituent(siso *RSC[Q], sys, par, ext, appPar []Q, withPar bool) {
	if !withPar {
		appPar = nil
	}
	siso.app(sys, par, ext, appPar)
	for i := range ext {
		ext[i] = d.arith.Sub(ext[i], sys[i])
	}
}
