package args

import (
	"fmt"
	"slices"

	"github.com/go-git/go-billy/v5"

	"github.com/fec-sim/fec-sim/sim/hostfs"
)

// Mode is the access mode a file argument is validated for.
type Mode int

const (
	// Read requires the file to exist and be openable.
	Read Mode = iota
	// Write performs no existence check.
	Write
	// ReadWrite performs no existence check.
	ReadWrite
)

// String returns the mode as shown in argument titles.
func (m Mode) String() string {
	switch m {
	case Read:
		return "read only"
	case Write:
		return "write only"
	case ReadWrite:
		return "read/write"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// File is a path argument validated against an access mode. Existence checks
// go through a billy.Filesystem so callers can validate against any backend.
type File struct {
	mode   Mode
	fs     billy.Filesystem
	ranges []Range[string]
}

// NewFile returns a file type checked against the host filesystem.
func NewFile(mode Mode, ranges ...Range[string]) *File {
	return NewFileOn(hostfs.New(), mode, ranges...)
}

// NewFileOn returns a file type checked against fsys.
func NewFileOn(fsys billy.Filesystem, mode Mode, ranges ...Range[string]) *File {
	return &File{mode: mode, fs: fsys, ranges: slices.Clone(ranges)}
}

// Mode returns the access mode.
func (f *File) Mode() Mode { return f.mode }

// Filesystem returns the filesystem the type checks against.
func (f *File) Filesystem() billy.Filesystem { return f.fs }

// Title returns "file [<mode>]" followed by the range descriptions.
func (f *File) Title() string {
	return composeTitle(fmt.Sprintf("file [%s]", f.mode), f.ranges)
}

// Convert returns raw unchanged; an empty path is not a file name.
func (f *File) Convert(raw string) (string, error) {
	if raw == "" {
		return "", &ConversionError{Value: raw, Msg: "shall be a file name"}
	}
	return raw, nil
}

// Check rejects empty paths, then (read mode only) paths that do not name an
// existing regular file, then values rejected by a range. In read mode a
// directory is rejected even though it can be opened.
func (f *File) Check(raw string) error {
	path, err := f.Convert(raw)
	if err != nil {
		return err
	}
	if f.mode == Read {
		if !f.openable(path) {
			return &ValidationError{Value: raw, Msg: "does not name an existing file"}
		}
	}
	return checkRanges(raw, path, f.ranges)
}

func (f *File) openable(path string) bool {
	info, err := f.fs.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	fh, err := f.fs.Open(path)
	if err != nil {
		return false
	}
	_ = fh.Close()
	return true
}

// Clone returns an independent copy keeping mode, filesystem and ranges, with
// extra ranges appended.
func (f *File) Clone(extra ...Range[string]) *File {
	ranges := make([]Range[string], 0, len(f.ranges)+len(extra))
	ranges = append(ranges, f.ranges...)
	ranges = append(ranges, extra...)
	return &File{mode: f.mode, fs: f.fs, ranges: ranges}
}

// ExistingFile is the shared prototype for read-only file arguments on the
// host filesystem. Clone it to specialize; never mutate it.
func ExistingFile() *File { return NewFile(Read) }
