package gofat32

import (
	"io/fs"
)

// GoFile wraps a File to implement fs.ReadDirFile.
type GoFile struct {
	*File
}

func (g GoFile) ReadDir(count int) ([]fs.DirEntry, error) {
	infos, err := g.File.Readdir(count)
	if err != nil {
		return nil, err
	}

	result := make([]fs.DirEntry, len(infos))
	for i := range infos {
		result[i] = dirEntry{infos[i]}
	}
	return result, nil
}

// GoFs provides the root directory of a volume as fs.FS.
// Only files directly inside the root directory are available.
type GoFs struct {
	*Fs
}

// NewGoFS creates the fs.FS view of the given volume.
func NewGoFS(volume *Volume) *GoFs {
	return &GoFs{New(volume)}
}

func (g GoFs) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	file, err := g.Fs.Open(name)
	if err != nil {
		return nil, err
	}
	return GoFile{file.(*File)}, nil
}

func (g GoFs) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}
	return g.Fs.Stat(name)
}
