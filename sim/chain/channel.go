package chain

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/fec-sim/fec-sim/sim/numeric"
)

// Channel kinds accepted on the command line.
const (
	ChannelAWGN = "AWGN"
	ChannelNone = "NO"
)

// Channel corrupts modulated symbols.
type Channel[R numeric.Real] interface {
	// SetSigma sets the noise standard deviation for the next calls.
	SetSigma(sigma float64)
	// AddNoise writes the received samples of x to y.
	AddNoise(x, y []R)
}

// NewChannel returns the channel of the given kind drawing from rng.
func NewChannel[R numeric.Real](kind string, rng *rand.Rand) (Channel[R], error) {
	switch kind {
	case ChannelAWGN:
		return &AWGN[R]{noise: distuv.Normal{Mu: 0, Sigma: 1, Src: rng}}, nil
	case ChannelNone:
		return Noiseless[R]{}, nil
	}
	return nil, fmt.Errorf("unknown channel %q", kind)
}

// AWGN adds white Gaussian noise.
type AWGN[R numeric.Real] struct {
	noise distuv.Normal
}

func (c *AWGN[R]) SetSigma(sigma float64) { c.noise.Sigma = sigma }

func (c *AWGN[R]) AddNoise(x, y []R) {
	for i, v := range x {
		y[i] = v + R(c.noise.Rand())
	}
}

// Noiseless copies its input.
type Noiseless[R numeric.Real] struct{}

func (c Noiseless[R]) SetSigma(float64) {}

func (c Noiseless[R]) AddNoise(x, y []R) { copy(y, x) }

func isNoiseless[R numeric.Real](c Channel[R]) bool {
	_, ok := c.(Noiseless[R])
	return ok
}
