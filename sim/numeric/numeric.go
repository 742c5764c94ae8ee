// Package numeric defines the closed sets of numeric representations a simulation
// chain can be instantiated with, and the saturating arithmetic decoders use on
// quantized soft values.
//
// A chain is generic over three parameters:
//   - B: bit storage (source bits, codewords, hard decisions)
//   - R: real values (modulated symbols, channel samples, demodulated LLRs)
//   - Q: quantized soft values consumed and produced by decoders
//
// The supported instantiations mirror the --prec flag:
//
//	prec  B      R        Q
//	8     int8   float32  int8
//	16    int16  float32  int16
//	32    int32  float32  float32
//	64    int64  float64  float64
package numeric

import (
	"fmt"
	"math"
)

// Bit is the constraint for bit-storage types.
type Bit interface {
	int8 | int16 | int32 | int64
}

// Real is the constraint for floating real-value types.
type Real interface {
	float32 | float64
}

// Quant is the constraint for decoder soft-value types, fixed-point or floating.
type Quant interface {
	int8 | int16 | int32 | float32 | float64
}

// Tag enumerates every concrete numeric type a chain may be instantiated with.
type Tag int

const (
	TagInt8 Tag = iota
	TagInt16
	TagInt32
	TagInt64
	TagFloat32
	TagFloat64
)

// tagNames is the static display-name table for Tag.
var tagNames = [...]string{
	TagInt8:    "int8",
	TagInt16:   "int16",
	TagInt32:   "int32",
	TagInt64:   "int64",
	TagFloat32: "float32",
	TagFloat64: "float64",
}

// String returns the Go name of the tagged type.
func (t Tag) String() string {
	if t < 0 || int(t) >= len(tagNames) {
		return fmt.Sprintf("Tag(%d)", int(t))
	}
	return tagNames[t]
}

// IsFloat reports whether the tagged type is a floating-point type.
func (t Tag) IsFloat() bool {
	return t == TagFloat32 || t == TagFloat64
}

// Bounds returns the representable range of the tagged type.
func (t Tag) Bounds() (lo, hi float64) {
	switch t {
	case TagInt8:
		return math.MinInt8, math.MaxInt8
	case TagInt16:
		return math.MinInt16, math.MaxInt16
	case TagInt32:
		return math.MinInt32, math.MaxInt32
	case TagInt64:
		return math.MinInt64, math.MaxInt64
	case TagFloat32:
		return -math.MaxFloat32, math.MaxFloat32
	default:
		return -math.MaxFloat64, math.MaxFloat64
	}
}

// TagOf returns the tag of T. The switch is exhaustive over the union of the
// Bit, Real and Quant constraints.
func TagOf[T Bit | Real | Quant]() Tag {
	var zero T
	switch any(zero).(type) {
	case int8:
		return TagInt8
	case int16:
		return TagInt16
	case int32:
		return TagInt32
	case int64:
		return TagInt64
	case float32:
		return TagFloat32
	case float64:
		return TagFloat64
	}
	panic(fmt.Sprintf("numeric: unhandled type %T", zero))
}

// NameOf returns the display name of T.
func NameOf[T Bit | Real | Quant]() string {
	return TagOf[T]().String()
}

// Param identifies one of the three generic parameters of a chain.
type Param int

const (
	ParamB Param = iota
	ParamR
	ParamQ
)

// String returns the single-letter name used in documentation.
func (p Param) String() string {
	switch p {
	case ParamB:
		return "B"
	case ParamR:
		return "R"
	case ParamQ:
		return "Q"
	}
	return fmt.Sprintf("Param(%d)", int(p))
}
