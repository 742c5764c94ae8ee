package decoder

import (
	"fmt"

	"github.com/fec-sim/fec-sim/sim"
	"github.com/fec-sim/fec-sim/sim/numeric"
)

// Repetition decodes the block repetition code of code.Repetition. The
// systematic view is the first copy, the parity view the rep-1 others.
type Repetition[Q numeric.Quant] struct {
	sim.Base
	rep     int
	threads int
	arith   numeric.Arith[Q]
}

// NewRepetition builds a repetition decoder from cfg.K and cfg.N.
func NewRepetition[Q numeric.Quant](cfg Config) (*Repetition[Q], error) {
	if cfg.K <= 0 || cfg.N%cfg.K != 0 {
		return nil, fmt.Errorf("repetition decoder: N (%d) must be a positive multiple of K (%d)", cfg.N, cfg.K)
	}
	geo, err := sim.NewGeometry(cfg.K, cfg.N, 0, cfg.NFrames)
	if err != nil {
		return nil, fmt.Errorf("repetition decoder: %w", err)
	}
	return &Repetition[Q]{
		Base:    sim.NewBase(geo),
		rep:     cfg.N / cfg.K,
		threads: cfg.Threads,
		arith:   numeric.NewArith[Q](),
	}, nil
}

// DecodeSys writes, for every information bit, the sum of its rep-1 other
// copies. The systematic input does not contribute to its own extrinsic.
func (d *Repetition[Q]) DecodeSys(sys, par, ext []Q) error {
	d.CheckSys("repetition DecodeSys", len(sys), len(par), len(ext))
	geo := d.Geometry()
	k, p := geo.K, geo.ParLength()
	return forEachFrame(d.threads, geo.NFrames, func(f int) error {
		pf, e := par[f*p:(f+1)*p], ext[f*k:(f+1)*k]
		for i := range e {
			var sum Q
			for j := 0; j < d.rep-1; j++ {
				sum = d.arith.Add(sum, pf[j*k+i])
			}
			e[i] = sum
		}
		return nil
	})
}

// DecodeCombined writes the a-posteriori LLR, the sum of all copies, to
// every copy of each bit.
func (d *Repetition[Q]) DecodeCombined(y, out []Q) error {
	d.CheckCombined("repetition DecodeCombined", len(y), len(out))
	geo := d.Geometry()
	k, n := geo.K, geo.N
	return forEachFrame(d.threads, geo.NFrames, func(f int) error {
		yf, of := y[f*n:(f+1)*n], out[f*n:(f+1)*n]
		for i := range k {
			var sum Q
			for j := range d.rep {
				sum = d.arith.Add(sum, yf[j*k+i])
			}
			for j := range d.rep {
				of[j*k+i] = sum
			}
		}
		return nil
	})
}
