package code

import (
	"fmt"

	"github.com/fec-sim/fec-sim/sim/numeric"
)

// Encoder maps K information bits to an N-bit codeword, one frame at a time.
type Encoder[B numeric.Bit] interface {
	K() int
	N() int
	// Tail is the number of termination bits included in N.
	Tail() int
	// Encode writes the codeword of u to x. len(u) == K, len(x) == N.
	Encode(u, x []B)
}

// LengthError is the panic value of an encoder called with a buffer of the
// wrong size.
type LengthError struct {
	Op     string
	Buffer string
	Want   int
	Got    int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("code: %s: %s has %d bits, want %d", e.Op, e.Buffer, e.Got, e.Want)
}

func mustLen(op, buffer string, want, got int) {
	if want != got {
		panic(&LengthError{Op: op, Buffer: buffer, Want: want, Got: got})
	}
}
