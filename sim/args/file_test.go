package args

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFS(t *testing.T, files ...string) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	for _, f := range files {
		require.NoError(t, util.WriteFile(fs, f, []byte("0 1 2 3\n"), 0o644))
	}
	return fs
}

func TestFile_EmptyFailsForEveryMode(t *testing.T) {
	fs := newTestFS(t)
	for _, mode := range []Mode{Read, Write, ReadWrite} {
		t.Run(mode.String(), func(t *testing.T) {
			err := NewFileOn(fs, mode).Check("")
			require.Error(t, err)
			assert.Equal(t, "shall be a file name", err.Error())
			var convErr *ConversionError
			assert.True(t, errors.As(err, &convErr))
		})
	}
}

func TestFile_ReadModeRequiresExistingFile(t *testing.T) {
	fs := newTestFS(t, "/data/itl.txt")
	typ := NewFileOn(fs, Read)

	// WHEN the path exists THEN the check passes
	assert.NoError(t, typ.Check("/data/itl.txt"))

	// WHEN it does not THEN the diagnostic names it
	err := typ.Check("/data/missing.txt")
	require.Error(t, err)
	assert.Equal(t, "does not name an existing file", err.Error())
	var valErr *ValidationError
	assert.True(t, errors.As(err, &valErr))

	// AND a directory is not a file
	assert.EqualError(t, typ.Check("/data"), "does not name an existing file")
}

func TestFile_WriteModesSkipExistence(t *testing.T) {
	fs := newTestFS(t)
	for _, mode := range []Mode{Write, ReadWrite} {
		typ := NewFileOn(fs, mode)
		assert.NoError(t, typ.Check("/nowhere/out.yaml"), mode.String())
		assert.NoError(t, typ.Check("relative.txt"), mode.String())
	}
}

func TestFile_HostFilesystem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	assert.NoError(t, ExistingFile().Check(path))
	assert.EqualError(t, ExistingFile().Check(filepath.Join(dir, "absent.txt")), "does not name an existing file")
}

func TestFile_RelativePathOnHost(t *testing.T) {
	// GIVEN an interleaver file in the working directory
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "itl.txt"), []byte("1 0\n"), 0o644))
	t.Chdir(dir)

	// THEN a read-only file argument accepts its relative name
	assert.NoError(t, NewFile(Read).Check("itl.txt"))
	assert.NoError(t, ExistingFile().Clone(Extension(".txt")).Check("./itl.txt"))
	assert.EqualError(t, NewFile(Read).Check("other.txt"), "does not name an existing file")
}

func TestFile_Titles(t *testing.T) {
	fs := newTestFS(t)
	assert.Equal(t, "file [read only]", NewFileOn(fs, Read).Title())
	assert.Equal(t, "file [write only]", NewFileOn(fs, Write).Title())
	assert.Equal(t, "file [read/write]", NewFileOn(fs, ReadWrite).Title())
	assert.Equal(t, "file [read only], extension .txt", NewFileOn(fs, Read).Clone(Extension(".txt")).Title())
}

func TestFile_CloneAddsRangesWithoutTouchingPrototype(t *testing.T) {
	// GIVEN "any existing file" and two existing files
	fs := newTestFS(t, "/a.txt", "/b.yaml")
	proto := NewFileOn(fs, Read)

	// WHEN specialized to ".txt"
	txt := proto.Clone(Extension(".txt"))

	// THEN the clone keeps the mode and the existence check
	assert.Equal(t, Read, txt.Mode())
	assert.Equal(t, fs, txt.Filesystem())
	assert.EqualError(t, txt.Check("/missing.txt"), "does not name an existing file")

	// AND narrows the accepted set
	assert.NoError(t, txt.Check("/a.txt"))
	assert.EqualError(t, txt.Check("/b.yaml"), "shall have the extension .txt")

	// AND the prototype still accepts what it accepted before
	assert.NoError(t, proto.Check("/b.yaml"))
	assert.Equal(t, "file [read only]", proto.Title())
}

func TestFile_ExtensionRejectsBeforeExistenceOnlyAfterRead(t *testing.T) {
	// Existence is checked before ranges in read mode.
	fs := newTestFS(t)
	typ := NewFileOn(fs, Read, Extension(".txt"))
	assert.EqualError(t, typ.Check("/missing.yaml"), "does not name an existing file")

	// Write mode goes straight to ranges.
	typ = NewFileOn(fs, Write, Extension(".yaml", ".yml"))
	assert.EqualError(t, typ.Check("/out.txt"), "shall have the extension .yaml|.yml")
	assert.NoError(t, typ.Check("/out.YML"))
}
