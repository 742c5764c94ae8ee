// Package hostfs exposes the host filesystem as a billy.Filesystem. Absolute
// paths are used as given; relative paths resolve against the working
// directory of the process, as they would for the os package.
package hostfs

import (
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// FS is the host filesystem rooted at "/".
type FS struct {
	billy.Filesystem
}

// New returns the host filesystem.
func New() *FS {
	return &FS{Filesystem: osfs.New(string(filepath.Separator))}
}

func abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if resolved, err := filepath.Abs(path); err == nil {
		return resolved
	}
	return path
}

func (f *FS) Create(filename string) (billy.File, error) {
	return f.Filesystem.Create(abs(filename))
}

func (f *FS) Open(filename string) (billy.File, error) {
	return f.Filesystem.Open(abs(filename))
}

func (f *FS) OpenFile(filename string, flag int, perm os.FileMode) (billy.File, error) {
	return f.Filesystem.OpenFile(abs(filename), flag, perm)
}

func (f *FS) Stat(filename string) (os.FileInfo, error) {
	return f.Filesystem.Stat(abs(filename))
}

func (f *FS) Lstat(filename string) (os.FileInfo, error) {
	return f.Filesystem.Lstat(abs(filename))
}

func (f *FS) Rename(oldpath, newpath string) error {
	return f.Filesystem.Rename(abs(oldpath), abs(newpath))
}

func (f *FS) Remove(filename string) error {
	return f.Filesystem.Remove(abs(filename))
}

func (f *FS) TempFile(dir, prefix string) (billy.File, error) {
	return f.Filesystem.TempFile(abs(dir), prefix)
}

func (f *FS) ReadDir(path string) ([]os.FileInfo, error) {
	return f.Filesystem.ReadDir(abs(path))
}

func (f *FS) MkdirAll(filename string, perm os.FileMode) error {
	return f.Filesystem.MkdirAll(abs(filename), perm)
}

// Symlink creates link pointing at target; target is stored as given.
func (f *FS) Symlink(target, link string) error {
	return f.Filesystem.Symlink(target, abs(link))
}

func (f *FS) Readlink(link string) (string, error) {
	return f.Filesystem.Readlink(abs(link))
}

func (f *FS) Chroot(path string) (billy.Filesystem, error) {
	return f.Filesystem.Chroot(abs(path))
}
