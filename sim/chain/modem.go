// Package chain assembles the transmission chain around a code family
// (source, encoder, modem, channel, quantizer, decoder) and runs the
// bit/frame error rate Monte-Carlo loop over it.
package chain

import (
	"fmt"
	"math"

	"github.com/fec-sim/fec-sim/sim/numeric"
)

// BPSK maps bit 0 to +1 and bit 1 to -1.
type BPSK[B numeric.Bit, R numeric.Real] struct{}

// BitsPerSymbol returns 1.
func (m BPSK[B, R]) BitsPerSymbol() int { return 1 }

// Modulate writes the symbols of x to s.
func (m BPSK[B, R]) Modulate(x []B, s []R) {
	for i, b := range x {
		if b == 0 {
			s[i] = 1
		} else {
			s[i] = -1
		}
	}
}

// Demodulate writes the channel LLRs 2y/sigma^2 of y to l.
func (m BPSK[B, R]) Demodulate(y []R, sigma float64, l []R) {
	f := 2 / (sigma * sigma)
	for i, v := range y {
		l[i] = R(float64(v) * f)
	}
}

// EsN0 converts Eb/N0 to Es/N0 (both in dB) for a code rate and a number of
// bits per symbol.
func EsN0(ebN0, rate float64, bitsPerSymbol int) float64 {
	return ebN0 + 10*math.Log10(rate*float64(bitsPerSymbol))
}

// Sigma returns the noise standard deviation of a unit-energy constellation
// at the given Es/N0 (dB).
func Sigma(esN0 float64) float64 {
	return math.Sqrt(1 / (2 * math.Pow(10, esN0/10)))
}

// Quantizer turns real LLRs into decoder soft values. Floating-point Q are
// converted as is; fixed-point Q use bits total bits with point fractional
// bits and saturate symmetrically.
type Quantizer[R numeric.Real, Q numeric.Quant] struct {
	factor float64
	bound  float64
	arith  numeric.Arith[Q]
	exact  bool
}

// NewQuantizer builds a quantizer. bits and point are ignored for
// floating-point Q.
func NewQuantizer[R numeric.Real, Q numeric.Quant](bits, point int) (*Quantizer[R, Q], error) {
	tag := numeric.TagOf[Q]()
	if tag.IsFloat() {
		return &Quantizer[R, Q]{arith: numeric.NewArith[Q](), exact: true}, nil
	}
	_, hi := tag.Bounds()
	if bits < 2 || bits > 32 || float64(int64(1)<<(bits-1)-1) > hi {
		return nil, fmt.Errorf("quantizer: %d bits do not fit in %s", bits, tag)
	}
	if point < 0 || point >= bits {
		return nil, fmt.Errorf("quantizer: point position %d outside [0..%d)", point, bits)
	}
	return &Quantizer[R, Q]{
		factor: float64(int64(1) << point),
		bound:  float64(int64(1)<<(bits-1) - 1),
		arith:  numeric.NewArith[Q](),
	}, nil
}

// Process writes the quantized values of l to q.
func (z *Quantizer[R, Q]) Process(l []R, q []Q) {
	if z.exact {
		for i, v := range l {
			q[i] = Q(v)
		}
		return
	}
	for i, v := range l {
		x := math.Round(float64(v) * z.factor)
		q[i] = z.arith.Sat(math.Max(-z.bound, math.Min(z.bound, x)))
	}
}
