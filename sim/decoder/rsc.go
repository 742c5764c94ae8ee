package decoder

import (
	"fmt"
	"math"

	"github.com/fec-sim/fec-sim/sim"
	"github.com/fec-sim/fec-sim/sim/code"
	"github.com/fec-sim/fec-sim/sim/numeric"
)

// RSC is a max-log-MAP (BCJR) decoder for the recursive systematic
// convolutional code of code.RSC. Per frame the systematic view holds
// K + m values and the parity view K + m values, m being the trellis memory
// when terminated and zero otherwise.
//
// Path metrics are computed in Q with saturating arithmetic.
type RSC[Q numeric.Quant] struct {
	sim.Base
	trellis    *code.Trellis
	terminated bool
	threads    int
	arith      numeric.Arith[Q]
}

// NewRSC builds an RSC decoder from cfg.K, cfg.Polys and cfg.Terminated.
func NewRSC[Q numeric.Quant](cfg Config) (*RSC[Q], error) {
	tr, err := code.NewTrellis(cfg.Polys)
	if err != nil {
		return nil, fmt.Errorf("rsc decoder: %w", err)
	}
	tail := 0
	if cfg.Terminated {
		tail = 2 * tr.Memory()
	}
	n := 2*cfg.K + tail
	if err := checkN("rsc decoder", cfg.N, n); err != nil {
		return nil, err
	}
	geo, err := sim.NewGeometry(cfg.K, n, tail, cfg.NFrames)
	if err != nil {
		return nil, fmt.Errorf("rsc decoder: %w", err)
	}
	return &RSC[Q]{
		Base:       sim.NewBase(geo),
		trellis:    tr,
		terminated: cfg.Terminated,
		threads:    cfg.Threads,
		arith:      numeric.NewArith[Q](),
	}, nil
}

// TailLength returns 2m for a terminated trellis and zero otherwise.
func (d *RSC[Q]) TailLength() int { return d.Geometry().Tail }

// DecodeSys writes ext = APP - sys for every systematic position, tail
// included. ext must not alias sys.
func (d *RSC[Q]) DecodeSys(sys, par, ext []Q) error {
	d.CheckSys("rsc DecodeSys", len(sys), len(par), len(ext))
	h := d.Geometry().SysLength()
	return forEachFrame(d.threads, d.Geometry().NFrames, func(f int) error {
		ls, lp, e := sys[f*h:(f+1)*h], par[f*h:(f+1)*h], ext[f*h:(f+1)*h]
		d.app(ls, lp, e, nil)
		for i := range e {
			e[i] = d.arith.Sub(e[i], ls[i])
		}
		return nil
	})
}

// DecodeCombined writes the a-posteriori LLR of every systematic and parity
// bit. Per frame y and out are laid out [sys view | parity view].
func (d *RSC[Q]) DecodeCombined(y, out []Q) error {
	d.CheckCombined("rsc DecodeCombined", len(y), len(out))
	geo := d.Geometry()
	n, h := geo.N, geo.SysLength()
	return forEachFrame(d.threads, geo.NFrames, func(f int) error {
		yf, of := y[f*n:(f+1)*n], out[f*n:(f+1)*n]
		d.app(yf[:h], yf[h:], of[:h], of[h:])
		return nil
	})
}

// app runs the forward and backward recursions over one frame and writes the
// a-posteriori LLRs of the systematic bits, and of the parity bits when
// appPar is not nil.
func (d *RSC[Q]) app(ls, lp, appSys, appPar []Q) {
	a := d.arith
	tr := d.trellis
	steps := len(ls)
	states := tr.States()
	unreachable := a.MinusInf()
	floor := a.Sat(math.Inf(-1))

	gamma := func(t, s int, u uint8) Q {
		var g Q
		if u == 0 {
			g = ls[t]
		}
		if tr.Parity(s, u) == 0 {
			g = a.Add(g, lp[t])
		}
		return g
	}

	alpha := make([]Q, (steps+1)*states)
	for s := 1; s < states; s++ {
		alpha[s] = unreachable
	}
	for t := range steps {
		cur, nxt := alpha[t*states:(t+1)*states], alpha[(t+1)*states:(t+2)*states]
		for s := range nxt {
			nxt[s] = floor
		}
		for s := range states {
			for u := range uint8(2) {
				ns := tr.Next(s, u)
				nxt[ns] = numeric.Max(nxt[ns], a.Add(cur[s], gamma(t, s, u)))
			}
		}
		normalize(a, nxt)
	}

	beta := make([]Q, (steps+1)*states)
	if d.terminated {
		last := beta[steps*states:]
		for s := 1; s < states; s++ {
			last[s] = unreachable
		}
	}
	for t := steps - 1; t >= 0; t-- {
		cur, nxt := beta[t*states:(t+1)*states], beta[(t+1)*states:(t+2)*states]
		for s := range states {
			m := floor
			for u := range uint8(2) {
				m = numeric.Max(m, a.Add(gamma(t, s, u), nxt[tr.Next(s, u)]))
			}
			cur[s] = m
		}
		normalize(a, cur)
	}

	for t := range steps {
		bestU := [2]Q{floor, floor}
		bestP := [2]Q{floor, floor}
		for s := range states {
			for u := range uint8(2) {
				m := a.Add(a.Add(alpha[t*states+s], gamma(t, s, u)), beta[(t+1)*states+tr.Next(s, u)])
				bestU[u] = numeric.Max(bestU[u], m)
				p := tr.Parity(s, u)
				bestP[p] = numeric.Max(bestP[p], m)
			}
		}
		appSys[t] = a.Sub(bestU[0], bestU[1])
		if appPar != nil {
			appPar[t] = a.Sub(bestP[0], bestP[1])
		}
	}
}

// normalize shifts metrics so the best one is zero.
func normalize[Q numeric.Quant](a numeric.Arith[Q], m []Q) {
	best := m[0]
	for _, v := range m[1:] {
		best = numeric.Max(best, v)
	}
	for i := range m {
		m[i] = a.Sub(m[i], best)
	}
}
