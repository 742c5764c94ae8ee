package chain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fec-sim/fec-sim/sim/internal/testutil"
)

func TestBPSK_RoundTrip(t *testing.T) {
	var m BPSK[int8, float32]
	x := []int8{0, 1, 1, 0}
	s := make([]float32, 4)
	m.Modulate(x, s)
	assert.Equal(t, []float32{1, -1, -1, 1}, s)

	l := make([]float32, 4)
	m.Demodulate(s, 0.5, l)
	assert.Equal(t, []float32{8, -8, -8, 8}, l)
}

func TestSigma(t *testing.T) {
	assert.InDelta(t, math.Sqrt(0.5), Sigma(0), 1e-12)
	assert.InDelta(t, math.Sqrt(0.05), Sigma(10), 1e-12)
	// rate 1/2 costs 3 dB
	testutil.AssertFloat64Equal(t, "EsN0", -3.0103, EsN0(0, 0.5, 1), 1e-4)
	testutil.AssertFloat64Equal(t, "EsN0", 2.0, EsN0(2, 1, 1), 1e-12)
}

func TestQuantizer_FixedPointSaturates(t *testing.T) {
	// GIVEN 6 bits with 2 fractional bits: range [-31, 31], step 1/4
	z, err := NewQuantizer[float32, int8](6, 2)
	require.NoError(t, err)

	q := make([]int8, 5)
	z.Process([]float32{1.3, -1.3, 100, -100, 0.1}, q)

	assert.Equal(t, []int8{5, -5, 31, -31, 0}, q)
}

func TestQuantizer_FloatIsExact(t *testing.T) {
	z, err := NewQuantizer[float64, float64](0, 0)
	require.NoError(t, err)
	q := make([]float64, 2)
	z.Process([]float64{1.234, -1e6}, q)
	assert.Equal(t, []float64{1.234, -1e6}, q)
}

func TestQuantizer_Rejects(t *testing.T) {
	_, err := NewQuantizer[float32, int8](9, 2)
	assert.Error(t, err, "9 bits overflow int8")
	_, err = NewQuantizer[float32, int16](6, 6)
	assert.Error(t, err, "point outside the word")
	_, err = NewQuantizer[float32, int16](16, 3)
	assert.NoError(t, err)
}
