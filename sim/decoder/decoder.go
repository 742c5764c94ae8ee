// Package decoder implements the SISO decoders of the simulated code
// families. Soft values are LLRs log(P(b=0)/P(b=1)), so a positive value
// favours bit 0.
package decoder

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/fec-sim/fec-sim/sim/code"
)

// Config gathers what the decoder constructors need. Each family reads the
// fields it uses; N may be left zero where it is derived from K.
type Config struct {
	K             int
	N             int
	Polys         []int
	Terminated    bool
	NFrames       int
	Threads       int
	Iterations    int
	ScalingFactor float64
	Interleaver   *code.Interleaver
}

func checkN(family string, given, derived int) error {
	if given != 0 && given != derived {
		return fmt.Errorf("%s: codeword size %d does not match the %d the code produces", family, given, derived)
	}
	return nil
}

// forEachFrame runs fn for every frame index on at most threads goroutines
// (GOMAXPROCS when threads <= 0). Each call must touch only its own frame.
func forEachFrame(threads, nFrames int, fn func(f int) error) error {
	if nFrames == 1 {
		return fn(0)
	}
	limit := threads
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for f := range nFrames {
		g.Go(func() error { return fn(f) })
	}
	return g.Wait()
}
