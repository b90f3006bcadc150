package gofat32

import (
	"io/fs"
	"time"
)

// FileInfo returns the entry as fs.FileInfo.
func (e DirEntry) FileInfo() fs.FileInfo {
	return entryFileInfo{e}
}

type entryFileInfo struct {
	entry DirEntry
}

func (e entryFileInfo) Name() string {
	return e.entry.FileName()
}

func (e entryFileInfo) Size() int64 {
	return int64(e.entry.Size)
}

// Mode is read only as existing files are never changed.
func (e entryFileInfo) Mode() fs.FileMode {
	if e.IsDir() {
		return fs.ModeDir | 0555
	}
	return 0444
}

func (e entryFileInfo) ModTime() time.Time {
	return e.entry.Modified
}

func (e entryFileInfo) IsDir() bool {
	return e.entry.IsDir()
}

func (e entryFileInfo) Sys() interface{} {
	return e.entry
}

// rootFileInfo describes the root directory which has no entry of its own.
type rootFileInfo struct{}

func (rootFileInfo) Name() string       { return "." }
func (rootFileInfo) Size() int64        { return 0 }
func (rootFileInfo) Mode() fs.FileMode  { return fs.ModeDir | 0555 }
func (rootFileInfo) ModTime() time.Time { return time.Time{} }
func (rootFileInfo) IsDir() bool        { return true }
func (rootFileInfo) Sys() interface{}   { return nil }

// dirEntry implements fs.DirEntry.
type dirEntry struct {
	fs.FileInfo
}

func (d dirEntry) Type() fs.FileMode {
	return d.FileInfo.Mode().Type()
}

func (d dirEntry) Info() (fs.FileInfo, error) {
	return d.FileInfo, nil
}
