// Package testutil provides shared test infrastructure for the decoder and
// chain packages: random frames, ideal channel outputs and tolerance checks.
package testutil

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/fec-sim/fec-sim/sim/numeric"
)

// RandomBits draws n bits from rng.
func RandomBits[B numeric.Bit](rng *rand.Rand, n int) []B {
	u := make([]B, n)
	for i := range u {
		u[i] = B(rng.IntN(2))
	}
	return u
}

// NoiselessLLRs maps bits to LLRs of magnitude mag: 0 -> +mag, 1 -> -mag.
func NoiselessLLRs[B numeric.Bit, Q numeric.Quant](x []B, mag Q) []Q {
	out := make([]Q, len(x))
	for i, b := range x {
		if b == 0 {
			out[i] = mag
		} else {
			out[i] = -mag
		}
	}
	return out
}

// HardDecide returns 1 where soft is negative and 0 elsewhere.
func HardDecide[Q numeric.Quant](soft []Q) []int8 {
	out := make([]int8, len(soft))
	for i, v := range soft {
		if v < 0 {
			out[i] = 1
		}
	}
	return out
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
