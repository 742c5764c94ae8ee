package numeric

import "math"

// Arith performs saturating arithmetic on decoder soft values. Floating types
// use plain arithmetic; fixed-point types clamp every result to their range so
// path metrics cannot wrap around.
//
// The zero value is not usable; build one with NewArith.
type Arith[Q Quant] struct {
	lo, hi  float64
	isFloat bool
}

// NewArith returns the arithmetic for Q.
func NewArith[Q Quant]() Arith[Q] {
	tag := TagOf[Q]()
	lo, hi := tag.Bounds()
	return Arith[Q]{lo: lo, hi: hi, isFloat: tag.IsFloat()}
}

// Sat converts v to Q, clamping fixed-point types to their range.
func (a Arith[Q]) Sat(v float64) Q {
	if a.isFloat {
		return Q(v)
	}
	switch {
	case math.IsNaN(v):
		return 0
	case v <= a.lo:
		return Q(a.lo)
	case v >= a.hi:
		return Q(a.hi)
	}
	return Q(math.Round(v))
}

// Add returns x+y.
func (a Arith[Q]) Add(x, y Q) Q {
	if a.isFloat {
		return x + y
	}
	return a.Sat(float64(x) + float64(y))
}

// Sub returns x-y.
func (a Arith[Q]) Sub(x, y Q) Q {
	if a.isFloat {
		return x - y
	}
	return a.Sat(float64(x) - float64(y))
}

// Neg returns -x.
func (a Arith[Q]) Neg(x Q) Q {
	if a.isFloat {
		return -x
	}
	return a.Sat(-float64(x))
}

// Scale returns x*f.
func (a Arith[Q]) Scale(x Q, f float64) Q {
	return a.Sat(float64(x) * f)
}

// MinusInf is the metric used for unreachable trellis states. It keeps
// headroom below it so adding branch metrics never overflows.
func (a Arith[Q]) MinusInf() Q {
	v := a.lo / 2
	if a.isFloat {
		v = -1e30
	}
	return Q(v)
}

// Max returns the larger of x and y.
func Max[Q Quant](x, y Q) Q {
	if x > y {
		return x
	}
	return y
}
