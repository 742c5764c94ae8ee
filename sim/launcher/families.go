package launcher

import (
	"fmt"
	"sort"

	"github.com/go-git/go-billy/v5"

	"github.com/fec-sim/fec-sim/sim"
	"github.com/fec-sim/fec-sim/sim/args"
	"github.com/fec-sim/fec-sim/sim/chain"
	"github.com/fec-sim/fec-sim/sim/code"
	"github.com/fec-sim/fec-sim/sim/decoder"
	"github.com/fec-sim/fec-sim/sim/numeric"
)

// Family names.
const (
	FamilyRSC        = "RSC"
	FamilyRepetition = "REPETITION"
	FamilyTurbo      = "TURBO"
)

// Keys of family specific arguments.
var (
	KeyPoly    = args.NewKey(args.CatEncoder, "poly")
	KeyNoTerm  = args.NewKey(args.CatEncoder, "no-term")
	KeyItlType = args.NewKey(args.CatEncoder, "itl-type")
	KeyItlPath = args.NewKey(args.CatEncoder, "itl-path")
	KeyIte     = args.NewKey(args.CatDecoder, "ite")
	KeyScaling = args.NewKey(args.CatDecoder, "sf")
)

const (
	defaultIterations = 6
	defaultScaling    = 0.75
)

// FamilyNames lists the families NewFamily knows, sorted.
func FamilyNames() []string {
	names := []string{FamilyRSC, FamilyRepetition, FamilyTurbo}
	sort.Strings(names)
	return names
}

// NewFamily returns the family called name.
func NewFamily[B numeric.Bit, R numeric.Real, Q numeric.Quant](name string) (Family[B, R, Q], error) {
	switch name {
	case FamilyRSC:
		return &RSCFamily[B, R, Q]{}, nil
	case FamilyRepetition:
		return &RepetitionFamily[B, R, Q]{}, nil
	case FamilyTurbo:
		return &TurboFamily[B, R, Q]{}, nil
	}
	return nil, fmt.Errorf("unknown code family %q (known: %v)", name, FamilyNames())
}

func declareTrellis(d *args.Declarations) {
	d.Option(KeyPoly, fmt.Sprintf("octal {feedback,feedforward} generator polynomials (default {%o,%o})",
		code.DefaultPolys[0], code.DefaultPolys[1]), args.Polynomials(args.Count[int](2), boundedMemory()))
	d.Option(KeyNoTerm, "do not terminate the trellis", args.Boolean())
}

// boundedMemory rejects polynomials whose trellis would exceed
// code.MaxMemory.
func boundedMemory() args.Range[[]int] {
	limit := 1 << (code.MaxMemory + 1)
	return args.NewRange(fmt.Sprintf("memory at most %d", code.MaxMemory), func(polys []int) error {
		for _, p := range polys {
			if p >= limit {
				return fmt.Errorf("shall hold polynomials below %o (memory at most %d)", limit, code.MaxMemory)
			}
		}
		return nil
	})
}

// storeTrellis stores the polynomials and the termination, and returns the
// trellis memory.
func storeTrellis(v *args.Values, b *sim.ParamsBuilder) (int, error) {
	b.Encoder.Polys = args.GetOr(v, KeyPoly, append([]int(nil), code.DefaultPolys...))
	b.Encoder.Terminated = !args.GetOr(v, KeyNoTerm, false)
	t, err := code.NewTrellis(b.Encoder.Polys)
	if err != nil {
		return 0, err
	}
	return t.Memory(), nil
}

// storeN derives N and checks it against an explicit --code-cw-size.
func storeN(b *sim.ParamsBuilder, n int) error {
	if b.Code.N != 0 && b.Code.N != n {
		return fmt.Errorf("%s: %d does not match the %d bits the code produces", KeyCwSize, b.Code.N, n)
	}
	b.Code.N = n
	return nil
}

func newBFER[B numeric.Bit, R numeric.Real, Q numeric.Quant](p *sim.Params, env Env, enc code.Encoder[B], dec sim.SISO[Q]) (sim.Simulation, error) {
	s, err := chain.NewBFER[B, R, Q](p, enc, dec, chain.WithFilesystem(env.FS))
	if err != nil {
		return nil, err
	}
	return s, nil
}

func decoderConfig(p *sim.Params) decoder.Config {
	c, e, d, s := p.Code(), p.Encoder(), p.Decoder(), p.Simulation()
	return decoder.Config{
		K:             c.K,
		N:             c.N,
		Polys:         e.Polys,
		Terminated:    e.Terminated,
		NFrames:       s.NFrames,
		Threads:       s.Threads,
		Iterations:    d.Iterations,
		ScalingFactor: d.ScalingFactor,
	}
}

// RSCFamily simulates a recursive systematic convolutional code decoded by
// BCJR.
type RSCFamily[B numeric.Bit, R numeric.Real, Q numeric.Quant] struct{}

func (f *RSCFamily[B, R, Q]) Name() string { return FamilyRSC }

func (f *RSCFamily[B, R, Q]) BuildArgs(d *args.Declarations, _ Env) {
	declareTrellis(d)
}

func (f *RSCFamily[B, R, Q]) StoreArgs(v *args.Values, b *sim.ParamsBuilder) error {
	m, err := storeTrellis(v, b)
	if err != nil {
		return err
	}
	if b.Encoder.Terminated {
		b.Code.Tail = 2 * m
	}
	return storeN(b, 2*b.Code.K+b.Code.Tail)
}

func (f *RSCFamily[B, R, Q]) BuildSimu(p *sim.Params, env Env) (sim.Simulation, error) {
	e := p.Encoder()
	enc, err := code.NewRSC[B](p.Code().K, e.Polys, e.Terminated)
	if err != nil {
		return nil, err
	}
	dec, err := decoder.NewRSC[Q](decoderConfig(p))
	if err != nil {
		return nil, err
	}
	return newBFER[B, R, Q](p, env, enc, dec)
}

func (f *RSCFamily[B, R, Q]) AppendHeader(h *Header, p *sim.Params) {
	e := p.Encoder()
	h.Add(args.CatEncoder, "Polynomials", fmt.Sprintf("{%o,%o}", e.Polys[0], e.Polys[1]))
	h.Add(args.CatEncoder, "Terminated", fmt.Sprint(e.Terminated))
	h.Add(args.CatDecoder, "Implementation", "BCJR "+p.Decoder().Implem)
}

// RepetitionFamily simulates a block repetition code. The codeword size is
// required since it sets the repetition factor.
type RepetitionFamily[B numeric.Bit, R numeric.Real, Q numeric.Quant] struct{}

func (f *RepetitionFamily[B, R, Q]) Name() string { return FamilyRepetition }

func (f *RepetitionFamily[B, R, Q]) BuildArgs(d *args.Declarations, _ Env) {
	d.Remove(KeyCwSize)
	d.Require(KeyCwSize, "codeword size (N), a multiple of K", args.Integer(args.Positive[int]()))
}

func (f *RepetitionFamily[B, R, Q]) StoreArgs(_ *args.Values, b *sim.ParamsBuilder) error {
	if b.Code.N%b.Code.K != 0 {
		return fmt.Errorf("%s: %d is not a multiple of K = %d", KeyCwSize, b.Code.N, b.Code.K)
	}
	b.Encoder.Repetition = b.Code.N / b.Code.K
	return nil
}

func (f *RepetitionFamily[B, R, Q]) BuildSimu(p *sim.Params, env Env) (sim.Simulation, error) {
	c := p.Code()
	enc, err := code.NewRepetition[B](c.K, c.N)
	if err != nil {
		return nil, err
	}
	dec, err := decoder.NewRepetition[Q](decoderConfig(p))
	if err != nil {
		return nil, err
	}
	return newBFER[B, R, Q](p, env, enc, dec)
}

func (f *RepetitionFamily[B, R, Q]) AppendHeader(h *Header, p *sim.Params) {
	h.Add(args.CatEncoder, "Repetitions", fmt.Sprint(p.Encoder().Repetition))
}

// TurboFamily simulates the parallel concatenation of two RSC codes.
type TurboFamily[B numeric.Bit, R numeric.Real, Q numeric.Quant] struct{}

func (f *TurboFamily[B, R, Q]) Name() string { return FamilyTurbo }

func (f *TurboFamily[B, R, Q]) BuildArgs(d *args.Declarations, env Env) {
	declareTrellis(d)
	d.Option(KeyItlType, "interleaver (default random)",
		args.Text(args.Including(code.InterleaverRandom, code.InterleaverNone, code.InterleaverFile)))
	d.Option(KeyItlPath, "interleaver file of K whitespace separated indices, for --enc-itl-type file",
		args.NewFileOn(env.FS, args.Read).Clone(args.Extension(".txt")))
	d.Option(KeyIte, fmt.Sprintf("turbo iterations (default %d)", defaultIterations),
		args.Integer(args.Positive[int]()))
	d.Option(KeyScaling, fmt.Sprintf("extrinsic scaling factor (default %v)", defaultScaling),
		args.Real(args.Positive[float64](), args.Max(1.0)))
}

func (f *TurboFamily[B, R, Q]) StoreArgs(v *args.Values, b *sim.ParamsBuilder) error {
	m, err := storeTrellis(v, b)
	if err != nil {
		return err
	}
	if b.Encoder.Terminated {
		b.Code.Tail = 4 * m
	}
	b.Encoder.InterleaverType = args.GetOr(v, KeyItlType, code.InterleaverRandom)
	b.Encoder.InterleaverPath = args.GetOr(v, KeyItlPath, "")
	if b.Encoder.InterleaverPath != "" && b.Encoder.InterleaverType != code.InterleaverFile {
		b.Encoder.InterleaverType = code.InterleaverFile
	}
	b.Decoder.Iterations = args.GetOr(v, KeyIte, defaultIterations)
	b.Decoder.ScalingFactor = args.GetOr(v, KeyScaling, defaultScaling)
	return storeN(b, 3*b.Code.K+b.Code.Tail)
}

func (f *TurboFamily[B, R, Q]) BuildSimu(p *sim.Params, env Env) (sim.Simulation, error) {
	c, e := p.Code(), p.Encoder()
	itl, err := buildInterleaver(e, c.K, p.Simulation().Seed, env.FS)
	if err != nil {
		return nil, err
	}
	enc, err := code.NewTurbo[B](c.K, e.Polys, e.Terminated, itl)
	if err != nil {
		return nil, err
	}
	cfg := decoderConfig(p)
	cfg.Interleaver = itl
	dec, err := decoder.NewTurbo[Q](cfg)
	if err != nil {
		return nil, err
	}
	return newBFER[B, R, Q](p, env, enc, dec)
}

func (f *TurboFamily[B, R, Q]) AppendHeader(h *Header, p *sim.Params) {
	e, d := p.Encoder(), p.Decoder()
	h.Add(args.CatEncoder, "Polynomials", fmt.Sprintf("{%o,%o}", e.Polys[0], e.Polys[1]))
	h.Add(args.CatEncoder, "Terminated", fmt.Sprint(e.Terminated))
	itl := e.InterleaverType
	if itl == code.InterleaverFile {
		itl += " (" + e.InterleaverPath + ")"
	}
	h.Add(args.CatEncoder, "Interleaver", itl)
	h.Add(args.CatDecoder, "Implementation", "BCJR "+d.Implem)
	h.Add(args.CatDecoder, "Iterations", fmt.Sprint(d.Iterations))
	h.Add(args.CatDecoder, "Scaling factor", fmt.Sprint(d.ScalingFactor))
}

func buildInterleaver(e sim.EncoderParams, k int, seed int64, fs billy.Filesystem) (*code.Interleaver, error) {
	switch e.InterleaverType {
	case code.InterleaverNone:
		return code.NewIdentity(k), nil
	case code.InterleaverFile:
		return code.ReadInterleaver(fs, e.InterleaverPath, k)
	}
	rngs := sim.NewPartitionedRNG(sim.NewSimulationKey(seed))
	return code.NewRandom(k, rngs.ForSubsystem(sim.SubsystemInterleaver)), nil
}
