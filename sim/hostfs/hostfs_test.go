package hostfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFS_RelativePathsResolveAgainstWorkingDirectory(t *testing.T) {
	// GIVEN a file in the working directory
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "itl.txt"), []byte("1 0"), 0o644))
	t.Chdir(dir)
	fs := New()

	// WHEN it is looked up by its relative name
	info, err := fs.Stat("itl.txt")

	// THEN the working directory copy is found, not one at the root
	require.NoError(t, err)
	assert.False(t, info.IsDir())
	data, err := util.ReadFile(fs, "itl.txt")
	require.NoError(t, err)
	assert.Equal(t, "1 0", string(data))
}

func TestFS_AbsolutePathsAreUsedAsGiven(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "result.yaml")
	fs := New()

	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, util.WriteFile(fs, path, []byte("fer: 0\n"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fer: 0\n", string(data))
}

func TestFS_CreateRelative(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	f, err := New().Create("points.yaml")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = os.Stat(filepath.Join(dir, "points.yaml"))
	assert.NoError(t, err)
}
