package code

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Interleaver kinds accepted on the command line.
const (
	InterleaverRandom = "random"
	InterleaverNone   = "none"
	InterleaverFile   = "file"
)

// Interleaver is a permutation of K positions: interleaving reads
// dst[i] = src[pi[i]].
type Interleaver struct {
	pi  []int
	inv []int
}

// NewInterleaver validates pi and takes a copy of it.
func NewInterleaver(pi []int) (*Interleaver, error) {
	inv := make([]int, len(pi))
	seen := make([]bool, len(pi))
	for i, p := range pi {
		if p < 0 || p >= len(pi) || seen[p] {
			return nil, fmt.Errorf("interleaver: position %d maps to %d, not a permutation of %d", i, p, len(pi))
		}
		seen[p] = true
		inv[p] = i
	}
	return &Interleaver{pi: append([]int(nil), pi...), inv: inv}, nil
}

// NewIdentity returns the interleaver that changes nothing.
func NewIdentity(k int) *Interleaver {
	pi := make([]int, k)
	for i := range pi {
		pi[i] = i
	}
	it, _ := NewInterleaver(pi)
	return it
}

// NewRandom draws a uniform permutation of k positions from rng.
func NewRandom(k int, rng *rand.Rand) *Interleaver {
	it, _ := NewInterleaver(rng.Perm(k))
	return it
}

// ReadInterleaver loads a permutation from a text file of whitespace
// separated indices. Lines starting with '#' are ignored. The file must hold
// exactly k indices.
func ReadInterleaver(fs billy.Filesystem, path string, k int) (*Interleaver, error) {
	data, err := util.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("interleaver: reading %s: %w", path, err)
	}
	var pi []int
	for n, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, f := range strings.Fields(line) {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("interleaver: %s:%d: %q is not an index", path, n+1, f)
			}
			pi = append(pi, v)
		}
	}
	if len(pi) != k {
		return nil, fmt.Errorf("interleaver: %s holds %d indices, want %d", path, len(pi), k)
	}
	it, err := NewInterleaver(pi)
	if err != nil {
		return nil, fmt.Errorf("%w (in %s)", err, path)
	}
	return it, nil
}

// Size returns K.
func (it *Interleaver) Size() int { return len(it.pi) }

// Perm returns a copy of the permutation.
func (it *Interleaver) Perm() []int { return append([]int(nil), it.pi...) }

// Interleave writes dst[i] = src[pi[i]]. dst and src must not alias.
func Interleave[T any](it *Interleaver, dst, src []T) {
	mustLen("interleave", "dst", len(it.pi), len(dst))
	mustLen("interleave", "src", len(it.pi), len(src))
	for i, p := range it.pi {
		dst[i] = src[p]
	}
}

// Deinterleave undoes Interleave. dst and src must not alias.
func Deinterleave[T any](it *Interleaver, dst, src []T) {
	mustLen("deinterleave", "dst", len(it.pi), len(dst))
	mustLen("deinterleave", "src", len(it.pi), len(src))
	for i, p := range it.inv {
		dst[i] = src[p]
	}
}
