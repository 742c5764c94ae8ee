package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/fec-sim/fec-sim/sim"
	"github.com/fec-sim/fec-sim/sim/code"
	"github.com/fec-sim/fec-sim/sim/hostfs"
	"github.com/fec-sim/fec-sim/sim/numeric"
)

// snrEpsilon absorbs the rounding of repeated step additions so the last
// point of the sweep is not skipped.
const snrEpsilon = 1e-9

// PointResult is the outcome of one SNR point. It is also the document
// written to the result file.
type PointResult struct {
	RunID       string  `yaml:"run_id"`
	Family      string  `yaml:"family"`
	EbN0        float64 `yaml:"ebn0_db"`
	EsN0        float64 `yaml:"esn0_db"`
	Frames      int     `yaml:"frames"`
	BitErrors   int     `yaml:"bit_errors"`
	FrameErrors int     `yaml:"frame_errors"`
	BER         float64 `yaml:"ber"`
	FER         float64 `yaml:"fer"`
	Elapsed     string  `yaml:"elapsed"`
}

// Option configures a BFER simulation.
type Option func(*options)

type options struct {
	fs    billy.Filesystem
	runID uuid.UUID
}

// WithFilesystem sets where the result file is written.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(o *options) { o.fs = fs }
}

// WithRunID fixes the run identifier instead of drawing a random one.
func WithRunID(id uuid.UUID) Option {
	return func(o *options) { o.runID = id }
}

// BFER measures the bit and frame error rates of one code over an SNR sweep.
// Each batch carries NFrames frames through the chain and one
// DecodeCombined call.
type BFER[B numeric.Bit, R numeric.Real, Q numeric.Quant] struct {
	params  *sim.Params
	encoder code.Encoder[B]
	decoder sim.SISO[Q]
	modem   BPSK[B, R]
	quant   *Quantizer[R, Q]
	opts    options

	results []PointResult
}

// NewBFER wires a simulation around enc and dec. Their sizes must agree with
// each other and with the code parameters.
func NewBFER[B numeric.Bit, R numeric.Real, Q numeric.Quant](params *sim.Params, enc code.Encoder[B], dec sim.SISO[Q], opts ...Option) (*BFER[B, R, Q], error) {
	geo := dec.Geometry()
	c := params.Code()
	if enc.K() != geo.K || enc.N() != geo.N || c.K != geo.K || c.N != geo.N {
		return nil, fmt.Errorf("bfer: encoder (K=%d, N=%d), decoder (K=%d, N=%d) and code (K=%d, N=%d) disagree",
			enc.K(), enc.N(), geo.K, geo.N, c.K, c.N)
	}
	if geo.NFrames != params.Simulation().NFrames {
		return nil, fmt.Errorf("bfer: decoder batches %d frames, simulation %d", geo.NFrames, params.Simulation().NFrames)
	}
	ch := params.Channel()
	quant, err := NewQuantizer[R, Q](ch.QuantBits, ch.QuantPoint)
	if err != nil {
		return nil, fmt.Errorf("bfer: %w", err)
	}
	o := options{fs: hostfs.New(), runID: uuid.New()}
	for _, opt := range opts {
		opt(&o)
	}
	return &BFER[B, R, Q]{
		params:  params,
		encoder: enc,
		decoder: dec,
		quant:   quant,
		opts:    o,
	}, nil
}

// RunID identifies this run in logs and in the result file.
func (s *BFER[B, R, Q]) RunID() uuid.UUID { return s.opts.runID }

// Results returns the points measured so far.
func (s *BFER[B, R, Q]) Results() []PointResult {
	return append([]PointResult(nil), s.results...)
}

// Run sweeps Eb/N0 from SNRMin to SNRMax. A point ends after FrameErrors
// frame errors or MaxFrames frames. Without a frame cap, a point over the
// noiseless channel ends after one batch. Run stops early with ctx.Err() when
// ctx is cancelled; points already measured stay in Results.
func (s *BFER[B, R, Q]) Run(ctx context.Context) error {
	sp := s.params.Simulation()
	rngs := sim.NewPartitionedRNG(sim.NewSimulationKey(sp.Seed))
	channel, err := NewChannel[R](s.params.Channel().Type, rngs.ForSubsystem(sim.SubsystemChannel))
	if err != nil {
		return fmt.Errorf("bfer: %w", err)
	}

	var sink *yaml.Encoder
	if sp.OutputPath != "" {
		f, err := s.opts.fs.Create(sp.OutputPath)
		if err != nil {
			return fmt.Errorf("bfer: creating result file: %w", err)
		}
		defer f.Close()
		sink = yaml.NewEncoder(f)
		defer sink.Close()
	}

	logrus.Infof("run %s: %s K=%d N=%d, Eb/N0 %.2f..%.2f dB step %.2f",
		s.opts.runID, sp.Family, s.params.Code().K, s.params.Code().N, sp.SNRMin, sp.SNRMax, sp.SNRStep)

	for i := 0; ; i++ {
		ebN0 := sp.SNRMin + float64(i)*sp.SNRStep
		if ebN0 > sp.SNRMax+snrEpsilon {
			break
		}
		res, err := s.runPoint(ctx, ebN0, channel, rngs)
		if err != nil {
			return err
		}
		s.results = append(s.results, res)
		logrus.Infof("run %s: Eb/N0=%5.2f dB  frames=%d  BE=%d  FE=%d  BER=%.3e  FER=%.3e  (%s)",
			res.RunID, res.EbN0, res.Frames, res.BitErrors, res.FrameErrors, res.BER, res.FER, res.Elapsed)
		if sink != nil {
			if err := sink.Encode(res); err != nil {
				return fmt.Errorf("bfer: writing result: %w", err)
			}
		}
	}
	return nil
}

func (s *BFER[B, R, Q]) runPoint(ctx context.Context, ebN0 float64, channel Channel[R], rngs *sim.PartitionedRNG) (PointResult, error) {
	sp := s.params.Simulation()
	k, n, frames := s.encoder.K(), s.encoder.N(), sp.NFrames
	esN0 := EsN0(ebN0, s.params.CodeRate(), s.modem.BitsPerSymbol())
	sigma := Sigma(esN0)
	channel.SetSigma(sigma)
	source := rngs.ForSubsystem(sim.SubsystemSource)

	u := make([]B, k*frames)
	x := make([]B, n*frames)
	sym := make([]R, n*frames)
	rx := make([]R, n*frames)
	llr := make([]R, n*frames)
	q := make([]Q, n*frames)
	soft := make([]Q, n*frames)

	start := time.Now()
	res := PointResult{RunID: s.opts.runID.String(), Family: sp.Family, EbN0: ebN0, EsN0: esN0}
	for res.FrameErrors < sp.FrameErrors && (sp.MaxFrames == 0 || res.Frames < sp.MaxFrames) {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		for i := range u {
			u[i] = B(source.IntN(2))
		}
		for f := range frames {
			s.encoder.Encode(u[f*k:(f+1)*k], x[f*n:(f+1)*n])
		}
		s.modem.Modulate(x, sym)
		channel.AddNoise(sym, rx)
		s.modem.Demodulate(rx, sigma, llr)
		s.quant.Process(llr, q)
		if err := s.decoder.DecodeCombined(q, soft); err != nil {
			return res, fmt.Errorf("bfer: decoding at %.2f dB: %w", ebN0, err)
		}

		for f := range frames {
			be := 0
			for i := range k {
				var bit B
				if soft[f*n+i] < 0 {
					bit = 1
				}
				if bit != u[f*k+i] {
					be++
				}
			}
			res.BitErrors += be
			if be > 0 {
				res.FrameErrors++
			}
		}
		res.Frames += frames
		if sp.MaxFrames == 0 && isNoiseless(channel) {
			break
		}
	}
	if res.Frames > 0 {
		res.BER = float64(res.BitErrors) / float64(res.Frames*k)
		res.FER = float64(res.FrameErrors) / float64(res.Frames)
	}
	res.Elapsed = time.Since(start).Round(time.Millisecond).String()
	return res, nil
}
