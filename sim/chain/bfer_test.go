package chain

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fec-sim/fec-sim/sim"
	"github.com/fec-sim/fec-sim/sim/code"
	"github.com/fec-sim/fec-sim/sim/decoder"
)

func repetitionParams(t *testing.T, mutate func(b *sim.ParamsBuilder)) *sim.Params {
	t.Helper()
	b := &sim.ParamsBuilder{
		Simulation: sim.SimulationParams{SNRMin: 0, SNRMax: 1, SNRStep: 0.5, FrameErrors: 5, MaxFrames: 20, Seed: 3, NFrames: 2, Family: "REPETITION"},
		Code:       sim.CodeParams{K: 4, N: 12},
		Modulator:  sim.ModulatorParams{Type: "BPSK", BitsPerSymbol: 1},
		Channel:    sim.ChannelParams{Type: "NO", QuantBits: 6, QuantPoint: 2},
		Decoder:    sim.DecoderParams{Iterations: 1, ScalingFactor: 1, Implem: "MAX"},
	}
	if mutate != nil {
		mutate(b)
	}
	p, err := b.Build()
	require.NoError(t, err)
	return p
}

func newRepetitionBFER(t *testing.T, p *sim.Params, opts ...Option) *BFER[int8, float32, int8] {
	t.Helper()
	c := p.Code()
	enc, err := code.NewRepetition[int8](c.K, c.N)
	require.NoError(t, err)
	dec, err := decoder.NewRepetition[int8](decoder.Config{K: c.K, N: c.N, NFrames: p.Simulation().NFrames})
	require.NoError(t, err)
	s, err := NewBFER[int8, float32, int8](p, enc, dec, opts...)
	require.NoError(t, err)
	return s
}

func TestBFER_NoiselessSweepWritesResults(t *testing.T) {
	// GIVEN a noiseless repetition chain writing to an in-memory file
	fs := memfs.New()
	id := uuid.MustParse("00000000-0000-4000-8000-000000000001")
	p := repetitionParams(t, func(b *sim.ParamsBuilder) { b.Simulation.OutputPath = "/out/res.yaml" })
	s := newRepetitionBFER(t, p, WithFilesystem(fs), WithRunID(id))

	// WHEN run
	require.NoError(t, s.Run(context.Background()))

	// THEN three points are measured, error free, capped at max frames
	res := s.Results()
	require.Len(t, res, 3)
	for i, r := range res {
		assert.InDelta(t, 0.5*float64(i), r.EbN0, 1e-9)
		assert.Equal(t, 20, r.Frames)
		assert.Zero(t, r.BitErrors)
		assert.Zero(t, r.FER)
	}

	// AND the result file holds one YAML document per point
	data, err := util.ReadFile(fs, "/out/res.yaml")
	require.NoError(t, err)
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	var docs []PointResult
	for {
		var r PointResult
		if err := dec.Decode(&r); err != nil {
			break
		}
		docs = append(docs, r)
	}
	require.Len(t, docs, 3)
	assert.Equal(t, id.String(), docs[2].RunID)
	assert.Equal(t, "REPETITION", docs[2].Family)
}

func TestBFER_NoiselessWithoutFrameCapEnds(t *testing.T) {
	// GIVEN a noiseless channel and no frame cap, where no frame error can occur
	p := repetitionParams(t, func(b *sim.ParamsBuilder) { b.Simulation.MaxFrames = 0 })
	s := newRepetitionBFER(t, p, WithFilesystem(memfs.New()))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// WHEN run
	require.NoError(t, s.Run(ctx))

	// THEN every point ends after a single error-free batch
	res := s.Results()
	require.Len(t, res, 3)
	for _, r := range res {
		assert.Equal(t, p.Simulation().NFrames, r.Frames)
		assert.Zero(t, r.FrameErrors)
	}
}

func TestBFER_StopsOnFrameErrors(t *testing.T) {
	// GIVEN an AWGN channel far below the waterfall
	p := repetitionParams(t, func(b *sim.ParamsBuilder) {
		b.Simulation.SNRMin, b.Simulation.SNRMax = -15, -15
		b.Simulation.MaxFrames = 0
		b.Channel.Type = "AWGN"
	})
	s := newRepetitionBFER(t, p, WithFilesystem(memfs.New()))

	require.NoError(t, s.Run(context.Background()))

	// THEN the point ends once enough frame errors are seen
	res := s.Results()
	require.Len(t, res, 1)
	assert.GreaterOrEqual(t, res[0].FrameErrors, 5)
	assert.Less(t, res[0].FrameErrors, 5+2)
	assert.Greater(t, res[0].BER, 0.0)
}

func TestBFER_Reproducible(t *testing.T) {
	run := func() []PointResult {
		p := repetitionParams(t, func(b *sim.ParamsBuilder) {
			b.Simulation.SNRMin, b.Simulation.SNRMax = -5, -4
			b.Channel.Type = "AWGN"
		})
		s := newRepetitionBFER(t, p, WithFilesystem(memfs.New()), WithRunID(uuid.Nil))
		require.NoError(t, s.Run(context.Background()))
		out := s.Results()
		for i := range out {
			out[i].Elapsed = ""
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestBFER_Cancelled(t *testing.T) {
	p := repetitionParams(t, nil)
	s := newRepetitionBFER(t, p, WithFilesystem(memfs.New()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Run(ctx)

	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, s.Results())
}

func TestNewBFER_SizeMismatch(t *testing.T) {
	p := repetitionParams(t, nil)
	enc, err := code.NewRepetition[int8](4, 8)
	require.NoError(t, err)
	dec, err := decoder.NewRepetition[int8](decoder.Config{K: 4, N: 12, NFrames: 2})
	require.NoError(t, err)

	_, err = NewBFER[int8, float32, int8](p, enc, dec)
	assert.Error(t, err)
}
