package code

import (
	"fmt"

	"github.com/fec-sim/fec-sim/sim/numeric"
)

// Repetition sends every information bit rep times, block by block:
// x[j*K+i] = u[i].
type Repetition[B numeric.Bit] struct {
	k, rep int
}

// NewRepetition builds a repetition encoder with N = rep*K.
func NewRepetition[B numeric.Bit](k, n int) (*Repetition[B], error) {
	if k <= 0 || n < k || n%k != 0 {
		return nil, fmt.Errorf("repetition: N (%d) must be a positive multiple of K (%d)", n, k)
	}
	return &Repetition[B]{k: k, rep: n / k}, nil
}

func (e *Repetition[B]) K() int    { return e.k }
func (e *Repetition[B]) N() int    { return e.k * e.rep }
func (e *Repetition[B]) Tail() int { return 0 }

// Rep returns the repetition factor.
func (e *Repetition[B]) Rep() int { return e.rep }

func (e *Repetition[B]) Encode(u, x []B) {
	mustLen("repetition encode", "info", e.k, len(u))
	mustLen("repetition encode", "codeword", e.N(), len(x))
	for j := range e.rep {
		copy(x[j*e.k:(j+1)*e.k], u)
	}
}
