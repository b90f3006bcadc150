package gofat32

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/afero"
)

// Fs implements afero.Fs for the root directory of a volume.
// Files can be read and new files can be created. Existing files are never
// changed, so removing, renaming and subdirectories are not supported.
type Fs struct {
	source fileSource
}

// New creates the afero.Fs view of the given volume.
func New(volume *Volume) *Fs {
	return &Fs{source: volume}
}

// rootName converts a path into the name inside the root directory.
// The root directory itself is ".".
func rootName(name string) string {
	name = strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(name)), "/")
	if name == "" {
		return "."
	}
	return name
}

// Create creates a new file in the root directory.
// The content is written to the volume when the file is closed.
func (f *Fs) Create(name string) (afero.File, error) {
	return f.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
}

func (f *Fs) Mkdir(name string, perm os.FileMode) error {
	return &os.PathError{Op: "mkdir", Path: name, Err: ErrNotSupported}
}

func (f *Fs) MkdirAll(name string, perm os.FileMode) error {
	return &os.PathError{Op: "mkdir", Path: name, Err: ErrNotSupported}
}

func (f *Fs) Open(name string) (afero.File, error) {
	return f.OpenFile(name, os.O_RDONLY, 0)
}

// OpenFile opens a file for reading or, if os.O_CREATE is set, creates it.
// Created files must not exist yet and must have a valid 8.3 name.
func (f *Fs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	var (
		file *File
		err  error
	)
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_APPEND|os.O_CREATE|os.O_TRUNC) != 0 {
		file, err = f.create(name, flag)
	} else {
		file, err = f.open(name)
	}

	if err != nil {
		return nil, err
	}
	return file, nil
}

func (f *Fs) open(name string) (*File, error) {
	root := rootName(name)
	if root == "." {
		return &File{
			source:      f.source,
			path:        name,
			isDirectory: true,
			stat:        rootFileInfo{},
		}, nil
	}

	if !strings.Contains(root, "/") {
		entries, err := f.source.ListRoot()
		if err != nil {
			return nil, &os.PathError{Op: "open", Path: name, Err: err}
		}

		for _, e := range visibleEntries(entries) {
			if strings.EqualFold(e.FileName(), root) {
				return &File{
					source: f.source,
					path:   name,
					entry:  e,
					stat:   e.FileInfo(),
				}, nil
			}
		}
	}

	return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
}

func (f *Fs) create(name string, flag int) (*File, error) {
	if flag&os.O_CREATE == 0 {
		return nil, &os.PathError{Op: "open", Path: name, Err: ErrNotSupported}
	}

	root := rootName(name)
	if root == "." {
		return nil, &os.PathError{Op: "open", Path: name, Err: syscall.EISDIR}
	}
	if strings.Contains(root, "/") {
		return nil, &os.PathError{Op: "open", Path: name, Err: ErrNotSupported}
	}

	short, err := ShortName(root)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}

	entries, err := f.source.ListRoot()
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}
	for _, e := range entries {
		if !e.IsLongName() && !e.IsVolumeLabel() && e.Name == short {
			return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrExist}
		}
	}

	return &File{
		source:   f.source,
		path:     name,
		writable: true,
		name:     short,
	}, nil
}

func (f *Fs) Remove(name string) error {
	return &os.PathError{Op: "remove", Path: name, Err: ErrNotSupported}
}

func (f *Fs) RemoveAll(name string) error {
	return &os.PathError{Op: "remove", Path: name, Err: ErrNotSupported}
}

func (f *Fs) Rename(oldname, newname string) error {
	return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: ErrNotSupported}
}

func (f *Fs) Stat(name string) (os.FileInfo, error) {
	file, err := f.open(name)
	if err != nil {
		return nil, err
	}
	return file.stat, nil
}

func (f *Fs) Name() string {
	return "gofat32"
}

func (f *Fs) Chmod(name string, mode os.FileMode) error {
	return &os.PathError{Op: "chmod", Path: name, Err: ErrNotSupported}
}

func (f *Fs) Chown(name string, uid, gid int) error {
	return &os.PathError{Op: "chown", Path: name, Err: ErrNotSupported}
}

func (f *Fs) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return &os.PathError{Op: "chtimes", Path: name, Err: ErrNotSupported}
}
