package code

import (
	"math/rand/v2"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterleaver_RoundTrip(t *testing.T) {
	itl := NewRandom(32, rand.New(rand.NewPCG(42, 0)))
	src := make([]int, 32)
	for i := range src {
		src[i] = i * 10
	}
	mid := make([]int, 32)
	back := make([]int, 32)

	Interleave(itl, mid, src)
	Deinterleave(itl, back, mid)

	assert.Equal(t, src, back)
	assert.ElementsMatch(t, src, mid)
}

func TestNewInterleaver_RejectsNonPermutations(t *testing.T) {
	for _, pi := range [][]int{{0, 0}, {0, 2}, {-1, 0}} {
		_, err := NewInterleaver(pi)
		assert.Error(t, err, "%v", pi)
	}
}

func TestNewIdentity(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2, 3}, NewIdentity(4).Perm())
}

func TestReadInterleaver(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "/itl.txt", []byte("# K=4\n3 1\n0 2\n"), 0o644))
	require.NoError(t, util.WriteFile(fs, "/short.txt", []byte("0 1 2\n"), 0o644))
	require.NoError(t, util.WriteFile(fs, "/dup.txt", []byte("0 1 1 2\n"), 0o644))
	require.NoError(t, util.WriteFile(fs, "/junk.txt", []byte("0 1 x 2\n"), 0o644))

	itl, err := ReadInterleaver(fs, "/itl.txt", 4)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 0, 2}, itl.Perm())

	for _, bad := range []string{"/short.txt", "/dup.txt", "/junk.txt", "/missing.txt"} {
		_, err := ReadInterleaver(fs, bad, 4)
		assert.Error(t, err, bad)
	}
}
