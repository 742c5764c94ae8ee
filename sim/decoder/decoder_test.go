package decoder

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fec-sim/fec-sim/sim"
	"github.com/fec-sim/fec-sim/sim/code"
	"github.com/fec-sim/fec-sim/sim/internal/testutil"
	"github.com/fec-sim/fec-sim/sim/numeric"
)

func TestRSC_Geometry(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		wantN      int
		wantTail   int
		wantFrames int
	}{
		{"open", Config{K: 4, N: 8, Polys: code.DefaultPolys, NFrames: 2}, 8, 0, 2},
		{"terminated", Config{K: 4, Polys: code.DefaultPolys, Terminated: true, NFrames: 1}, 14, 6, 1},
		{"no frames", Config{K: 4, N: 8, Polys: code.DefaultPolys}, 8, 0, 0},
		{"memory two", Config{K: 10, Polys: []int{0o7, 0o5}, Terminated: true, NFrames: 3}, 24, 4, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewRSC[float32](tt.cfg)
			require.NoError(t, err)
			g := d.Geometry()
			assert.Equal(t, tt.wantN, g.N)
			assert.Equal(t, tt.wantTail, d.TailLength())
			assert.Equal(t, tt.wantFrames, g.NFrames)
			assert.LessOrEqual(t, g.K+d.TailLength(), g.N)

			y := make([]float32, g.N*g.NFrames)
			out := make([]float32, len(y))
			require.NoError(t, d.DecodeCombined(y, out))
			assert.Len(t, out, g.N*g.NFrames)
		})
	}

	_, err := NewRSC[float32](Config{K: 4, N: 9, Polys: code.DefaultPolys})
	assert.Error(t, err)
	_, err = NewRSC[float32](Config{K: 4, Polys: code.DefaultPolys, NFrames: -1})
	assert.Error(t, err)
}

func TestDecoders_ZeroFramesDecodeEmptyBuffers(t *testing.T) {
	// GIVEN decoders of every family built for zero frames per call
	rep, err := NewRepetition[int16](Config{K: 2, N: 6})
	require.NoError(t, err)
	rsc, err := NewRSC[int16](Config{K: 4, Polys: code.DefaultPolys, Terminated: true})
	require.NoError(t, err)
	turbo, err := NewTurbo[int16](Config{K: 4, Polys: code.DefaultPolys, Interleaver: code.NewIdentity(4), Iterations: 2, ScalingFactor: 1})
	require.NoError(t, err)

	for _, dec := range []sim.SISO[int16]{rep, rsc, turbo} {
		// WHEN decoding empty buffers THEN the output stays empty
		assert.Zero(t, dec.Geometry().NFrames)
		out := []int16{}
		require.NoError(t, dec.DecodeCombined([]int16{}, out))
		assert.Empty(t, out)
	}
	require.NoError(t, rsc.DecodeSys(nil, nil, nil))
	require.NoError(t, rep.DecodeSys(nil, nil, nil))
}

func testRSCNoiseless[Q numeric.Quant](t *testing.T, mag Q, terminated bool) {
	t.Helper()
	const k, frames = 24, 3
	rng := rand.New(rand.NewPCG(3, 4))
	enc, err := code.NewRSC[int8](k, code.DefaultPolys, terminated)
	require.NoError(t, err)
	dec, err := NewRSC[Q](Config{K: k, Polys: code.DefaultPolys, Terminated: terminated, NFrames: frames, Threads: 2})
	require.NoError(t, err)

	n := enc.N()
	var infos [][]int8
	codewords := make([]int8, 0, n*frames)
	for range frames {
		u := testutil.RandomBits[int8](rng, k)
		x := make([]int8, n)
		enc.Encode(u, x)
		infos = append(infos, u)
		codewords = append(codewords, x...)
	}

	out := make([]Q, n*frames)
	require.NoError(t, dec.DecodeCombined(testutil.NoiselessLLRs(codewords, mag), out))

	decided := testutil.HardDecide(out)
	assert.Equal(t, codewords, decided)
	for f, u := range infos {
		assert.Equal(t, u, decided[f*n:f*n+k], "frame %d", f)
	}
}

func TestRSC_NoiselessDecodesExactly(t *testing.T) {
	t.Run("int8", func(t *testing.T) { testRSCNoiseless[int8](t, 4, true) })
	t.Run("int16", func(t *testing.T) { testRSCNoiseless[int16](t, 8, true) })
	t.Run("float32", func(t *testing.T) { testRSCNoiseless[float32](t, 2, true) })
	t.Run("float64 open", func(t *testing.T) { testRSCNoiseless[float64](t, 2, false) })
}

func TestRSC_DecodeSysExtrinsic(t *testing.T) {
	// GIVEN a terminated codeword split into its two views
	const k = 16
	enc, err := code.NewRSC[int8](k, code.DefaultPolys, true)
	require.NoError(t, err)
	dec, err := NewRSC[float64](Config{K: k, Polys: code.DefaultPolys, Terminated: true, NFrames: 1})
	require.NoError(t, err)

	u := testutil.RandomBits[int8](rand.New(rand.NewPCG(9, 9)), k)
	x := make([]int8, enc.N())
	enc.Encode(u, x)
	h := enc.HalfLength()
	sys := testutil.NoiselessLLRs[int8, float64](x[:h], 1)
	par := testutil.NoiselessLLRs[int8, float64](x[h:], 1)

	// WHEN decoding with the separate views
	ext := make([]float64, h)
	require.NoError(t, dec.DecodeSys(sys, par, ext))

	// THEN the extrinsic alone points at the transmitted bits
	assert.Equal(t, x[:h], testutil.HardDecide(ext))
}

func TestRSC_ContractViolation(t *testing.T) {
	dec, err := NewRSC[int16](Config{K: 4, N: 8, Polys: code.DefaultPolys, NFrames: 2})
	require.NoError(t, err)

	assert.PanicsWithError(t, "rsc DecodeCombined: input has 8 values, want 16", func() {
		_ = dec.DecodeCombined(make([]int16, 8), make([]int16, 16))
	})
	assert.Panics(t, func() {
		_ = dec.DecodeSys(make([]int16, 8), make([]int16, 8), make([]int16, 7))
	})
}

func TestRepetition_ExtrinsicExcludesOwnInput(t *testing.T) {
	// GIVEN K=2, rep=3
	dec, err := NewRepetition[float32](Config{K: 2, N: 6, NFrames: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, dec.TailLength())

	sys := []float32{1000, -1000}
	par := []float32{10, 20, 100, 200}
	ext := make([]float32, 2)

	// WHEN
	require.NoError(t, dec.DecodeSys(sys, par, ext))

	// THEN only the other copies are summed
	assert.Equal(t, []float32{110, 220}, ext)
}

func TestRepetition_CombinedSaturates(t *testing.T) {
	dec, err := NewRepetition[int8](Config{K: 2, N: 6, NFrames: 2})
	require.NoError(t, err)

	y := []int8{
		100, -3, 100, -3, 100, 1,
		1, 2, 3, 4, 5, 6,
	}
	out := make([]int8, len(y))
	require.NoError(t, dec.DecodeCombined(y, out))

	assert.Equal(t, []int8{
		127, -5, 127, -5, 127, -5,
		9, 12, 9, 12, 9, 12,
	}, out)

	_, err = NewRepetition[int8](Config{K: 4, N: 6})
	assert.Error(t, err)
}

func newTestTurbo[Q numeric.Quant](t *testing.T, k, frames int) (*code.Turbo[int8], *Turbo[Q]) {
	t.Helper()
	itl := code.NewRandom(k, rand.New(rand.NewPCG(11, 12)))
	enc, err := code.NewTurbo[int8](k, code.DefaultPolys, true, itl)
	require.NoError(t, err)
	dec, err := NewTurbo[Q](Config{
		K: k, Polys: code.DefaultPolys, Terminated: true, Interleaver: itl,
		Iterations: 4, ScalingFactor: 0.75, NFrames: frames,
	})
	require.NoError(t, err)
	return enc, dec
}

func TestTurbo_DecodeSysUnsupported(t *testing.T) {
	_, dec := newTestTurbo[float32](t, 8, 1)

	err := dec.DecodeSys(nil, nil, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, sim.ErrUnsupported))
	assert.Equal(t, 12, dec.TailLength())
	assert.Equal(t, 3*8+12, dec.Geometry().N)
}

func testTurboNoiseless[Q numeric.Quant](t *testing.T, mag Q) {
	t.Helper()
	const k, frames = 40, 2
	enc, dec := newTestTurbo[Q](t, k, frames)
	rng := rand.New(rand.NewPCG(5, 6))
	n := enc.N()

	var x []int8
	var infos [][]int8
	for range frames {
		u := testutil.RandomBits[int8](rng, k)
		cw := make([]int8, n)
		enc.Encode(u, cw)
		x = append(x, cw...)
		infos = append(infos, u)
	}
	y := testutil.NoiselessLLRs(x, mag)
	out := make([]Q, len(y))
	require.NoError(t, dec.DecodeCombined(y, out))

	for f, u := range infos {
		assert.Equal(t, u, testutil.HardDecide(out[f*n:f*n+k]), "frame %d", f)
		// Parity and tail positions carry APPs that agree with the codeword
		// and are at least as confident as the channel.
		assert.Equal(t, x[f*n+k:(f+1)*n], testutil.HardDecide(out[f*n+k:(f+1)*n]), "frame %d parity", f)
		for i := f*n + k; i < (f+1)*n; i++ {
			assert.GreaterOrEqual(t, math.Abs(float64(out[i])), math.Abs(float64(y[i])), "frame %d position %d", f, i-f*n)
		}
	}
}

func TestTurbo_NoiselessDecodesExactly(t *testing.T) {
	t.Run("int8", func(t *testing.T) { testTurboNoiseless[int8](t, 4) })
	t.Run("float64", func(t *testing.T) { testTurboNoiseless[float64](t, 2) })
}

func TestTurbo_Rejects(t *testing.T) {
	_, err := NewTurbo[float32](Config{K: 8, Polys: code.DefaultPolys, Iterations: 1})
	assert.Error(t, err, "missing interleaver")
	_, err = NewTurbo[float32](Config{K: 8, Polys: code.DefaultPolys, Interleaver: code.NewIdentity(8)})
	assert.Error(t, err, "zero iterations")
	_, err = NewTurbo[float32](Config{K: 8, N: 24, Polys: code.DefaultPolys, Terminated: true, Interleaver: code.NewIdentity(8), Iterations: 1})
	assert.Error(t, err, "N ignores the tail")
}
