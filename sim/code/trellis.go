// Package code holds the encoders of the simulated code families and the
// turbo interleaver.
package code

import (
	"fmt"
	"math/bits"
)

// MaxMemory bounds the trellis memory, so a trellis has at most 2^MaxMemory
// states and its polynomials are below 01000.
const MaxMemory = 8

// Trellis is the state machine of a recursive systematic convolutional code
// built from a feedback and a feedforward octal polynomial.
//
// A polynomial of memory m has m+1 bits; the coefficient of D^j is bit m-j,
// so 013 reads 1 + D^2 + D^3. Bit j-1 of a state holds the register value
// written j steps ago.
type Trellis struct {
	memory int
	next   [2][]int
	parity [2][]uint8
	tail   []uint8
}

// NewTrellis builds the trellis of polys = {feedback, feedforward}.
func NewTrellis(polys []int) (*Trellis, error) {
	if len(polys) != 2 {
		return nil, fmt.Errorf("trellis: want 2 polynomials, got %d", len(polys))
	}
	fb, ff := polys[0], polys[1]
	if fb <= 0 || ff <= 0 {
		return nil, fmt.Errorf("trellis: polynomials must be positive, got {%o,%o}", fb, ff)
	}
	m := bits.Len(uint(max(fb, ff))) - 1
	if m < 1 {
		return nil, fmt.Errorf("trellis: polynomials {%o,%o} have no memory", fb, ff)
	}
	if m > MaxMemory {
		return nil, fmt.Errorf("trellis: polynomials {%o,%o} have memory %d, at most %d is supported", fb, ff, m, MaxMemory)
	}
	if (fb>>m)&1 == 0 {
		return nil, fmt.Errorf("trellis: feedback polynomial %o lacks the D^0 term", fb)
	}

	states := 1 << m
	t := &Trellis{memory: m, tail: make([]uint8, states)}
	for u := range 2 {
		t.next[u] = make([]int, states)
		t.parity[u] = make([]uint8, states)
	}
	coef := func(g, j int) int { return (g >> (m - j)) & 1 }
	for s := range states {
		fbSum := 0
		for j := 1; j <= m; j++ {
			fbSum ^= coef(fb, j) & (s >> (j - 1))
		}
		fbSum &= 1
		t.tail[s] = uint8(fbSum)
		for u := range 2 {
			w := u ^ fbSum
			p := coef(ff, 0) & w
			for j := 1; j <= m; j++ {
				p ^= coef(ff, j) & (s >> (j - 1))
			}
			t.next[u][s] = ((s << 1) | w) & (states - 1)
			t.parity[u][s] = uint8(p & 1)
		}
	}
	return t, nil
}

// Memory returns m, the number of delay elements.
func (t *Trellis) Memory() int { return t.memory }

// States returns 2^m.
func (t *Trellis) States() int { return len(t.tail) }

// Next returns the state reached from s on input u.
func (t *Trellis) Next(s int, u uint8) int { return t.next[u][s] }

// Parity returns the parity bit emitted from s on input u.
func (t *Trellis) Parity(s int, u uint8) uint8 { return t.parity[u][s] }

// TailInput returns the input that moves s one step closer to state 0.
func (t *Trellis) TailInput(s int) uint8 { return t.tail[s] }
