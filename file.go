package gofat32

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"syscall"

	"github.com/aligator/gofat32/checkpoint"
)

// These errors may occur while processing a file.
var (
	ErrReadFile = errors.New("could not read file completely")
	ErrReadDir  = errors.New("could not read the directory")
)

// fileSource provides everything File needs from a volume.
// It mainly exists to be able to mock the Volume in tests.
// Generated mock using mockgen:
//  mockgen -source=file.go -destination=file_mock.go -package gofat32
type fileSource interface {
	ReadFile(e DirEntry) ([]byte, error)
	ListRoot() ([]DirEntry, error)
	CreateFile(name [11]byte, data []byte) error
}

// File is an opened file or the root directory of a volume.
// It implements afero.File.
//
// The content of an existing file is read completely on first access.
// A created file is only writable, its content is kept in memory and
// written to the volume by Close.
type File struct {
	source fileSource
	path   string

	isDirectory bool
	entry       DirEntry
	stat        fs.FileInfo

	reader *bytes.Reader
	offset int

	writable bool
	name     [11]byte
	written  []byte
}

// Close releases the file. A created file is written to the volume now,
// if that fails the file is closed nevertheless and its content is lost.
func (f *File) Close() error {
	if f.source == nil {
		return &fs.PathError{Op: "close", Path: f.path, Err: fs.ErrClosed}
	}

	var err error
	if f.writable {
		err = f.source.CreateFile(f.name, f.written)
	}

	*f = File{path: f.path}
	if err != nil {
		return &fs.PathError{Op: "close", Path: f.path, Err: err}
	}
	return nil
}

func (f *File) Name() string {
	return f.path
}

func (f *File) Stat() (fs.FileInfo, error) {
	if f.source == nil {
		return nil, &fs.PathError{Op: "stat", Path: f.path, Err: fs.ErrClosed}
	}
	if f.writable {
		return DirEntry{Name: f.name, Attributes: AttrArchive, Size: uint32(len(f.written))}.FileInfo(), nil
	}
	return f.stat, nil
}

// load reads the content on first use.
func (f *File) load(op string) error {
	if f.source == nil {
		return &fs.PathError{Op: op, Path: f.path, Err: fs.ErrClosed}
	}
	if f.isDirectory {
		return &fs.PathError{Op: op, Path: f.path, Err: syscall.EISDIR}
	}
	if f.writable {
		return &fs.PathError{Op: op, Path: f.path, Err: syscall.EBADF}
	}
	if f.reader != nil {
		return nil
	}

	data, err := f.source.ReadFile(f.entry)
	if err != nil {
		return &fs.PathError{Op: op, Path: f.path, Err: checkpoint.Wrap(err, ErrReadFile)}
	}
	if len(data) != int(f.entry.Size) {
		return &fs.PathError{Op: op, Path: f.path, Err: checkpoint.New(ErrReadFile, "got %d of %d bytes", len(data), f.entry.Size)}
	}

	f.reader = bytes.NewReader(data)
	return nil
}

func (f *File) Read(p []byte) (int, error) {
	if err := f.load("read"); err != nil {
		return 0, err
	}
	return f.reader.Read(p)
}

func (f *File) ReadAt(p []byte, off int64) (int, error) {
	if err := f.load("read"); err != nil {
		return 0, err
	}
	return f.reader.ReadAt(p, off)
}

// Seek jumps to a specific offset in the file. This affects all Read operation except ReadAt.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	if err := f.load("seek"); err != nil {
		return 0, err
	}
	return f.reader.Seek(offset, whence)
}

// checkWritable fails for closed files and files which were not created.
func (f *File) checkWritable(op string) error {
	if f.source == nil {
		return &fs.PathError{Op: op, Path: f.path, Err: fs.ErrClosed}
	}
	if !f.writable {
		return &fs.PathError{Op: op, Path: f.path, Err: syscall.EBADF}
	}
	return nil
}

// resize grows the written content with zeros or cuts it.
func (f *File) resize(size int) {
	if size <= len(f.written) {
		f.written = f.written[:size]
		return
	}
	f.written = append(f.written, make([]byte, size-len(f.written))...)
}

// Write appends p to a created file.
func (f *File) Write(p []byte) (int, error) {
	if err := f.checkWritable("write"); err != nil {
		return 0, err
	}
	f.written = append(f.written, p...)
	return len(p), nil
}

func (f *File) WriteAt(p []byte, off int64) (int, error) {
	if err := f.checkWritable("writeat"); err != nil {
		return 0, err
	}
	if off < 0 {
		return 0, &fs.PathError{Op: "writeat", Path: f.path, Err: syscall.EINVAL}
	}

	if end := int(off) + len(p); end > len(f.written) {
		f.resize(end)
	}
	return copy(f.written[off:], p), nil
}

func (f *File) WriteString(s string) (int, error) {
	return f.Write([]byte(s))
}

func (f *File) Truncate(size int64) error {
	if err := f.checkWritable("truncate"); err != nil {
		return err
	}
	if size < 0 {
		return &fs.PathError{Op: "truncate", Path: f.path, Err: syscall.EINVAL}
	}

	f.resize(int(size))
	return nil
}

// Sync does nothing as a created file is written on Close.
func (f *File) Sync() error {
	if f.source == nil {
		return &fs.PathError{Op: "sync", Path: f.path, Err: fs.ErrClosed}
	}
	return nil
}

// Readdir reads the contents of the root directory the way os.File.Readdir does.
// Long name slots, the volume label and subdirectories are not listed.
// May return syscall.ENOTDIR if the File is no directory.
func (f *File) Readdir(count int) ([]os.FileInfo, error) {
	if f.source == nil {
		return nil, &fs.PathError{Op: "readdir", Path: f.path, Err: fs.ErrClosed}
	}
	if !f.isDirectory {
		return nil, &fs.PathError{Op: "readdir", Path: f.path, Err: checkpoint.Wrap(syscall.ENOTDIR, ErrReadDir)}
	}

	entries, err := f.source.ListRoot()
	if err != nil {
		return nil, &fs.PathError{Op: "readdir", Path: f.path, Err: checkpoint.Wrap(err, ErrReadDir)}
	}

	content := visibleEntries(entries)
	if f.offset > len(content) {
		f.offset = len(content)
	}
	content = content[f.offset:]

	if count > 0 {
		if len(content) == 0 {
			return nil, io.EOF
		}
		if len(content) > count {
			content = content[:count]
		}
	}
	f.offset += len(content)

	result := make([]os.FileInfo, len(content))
	for i := range content {
		result[i] = content[i].FileInfo()
	}

	return result, nil
}

func (f *File) Readdirnames(n int) ([]string, error) {
	infos, err := f.Readdir(n)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name()
	}
	return names, nil
}

// visibleEntries filters the entries which are shown as files.
func visibleEntries(entries []DirEntry) []DirEntry {
	result := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsLongName() || e.IsVolumeLabel() || e.IsDir() {
			continue
		}
		if name := e.FileName(); !fs.ValidPath(name) || strings.ContainsAny(name, `/\`) {
			continue
		}
		result = append(result, e)
	}
	return result
}
