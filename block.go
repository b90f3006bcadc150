package gofat32

import (
	"fmt"
	"io"
)

// BlockDevice reads and writes single sectors of SectorSize bytes addressed by
// their logical block address.
// The volume never caches sectors, so a device must return previously written
// data on every read.
//
// Generated mock using mockgen:
//  mockgen -source=block.go -destination=block_mock.go -package gofat32
type BlockDevice interface {
	ReadSector(lba uint64, buf []byte) error
	WriteSector(lba uint64, buf []byte) error
}

// MemDevice is a BlockDevice backed by a byte slice which holds the whole image.
type MemDevice struct {
	Data []byte
}

// NewMemDevice creates an empty image of the given amount of sectors.
func NewMemDevice(sectors int) *MemDevice {
	return &MemDevice{Data: make([]byte, sectors*SectorSize)}
}

func (m *MemDevice) bounds(lba uint64, buf []byte) (uint64, error) {
	if len(buf) != SectorSize {
		return 0, fmt.Errorf("buffer of %d bytes is not a sector", len(buf))
	}
	start := lba * SectorSize
	if lba >= uint64(len(m.Data))/SectorSize {
		return 0, fmt.Errorf("lba %d out of range", lba)
	}
	return start, nil
}

func (m *MemDevice) ReadSector(lba uint64, buf []byte) error {
	start, err := m.bounds(lba, buf)
	if err != nil {
		return err
	}
	copy(buf, m.Data[start:start+SectorSize])
	return nil
}

func (m *MemDevice) WriteSector(lba uint64, buf []byte) error {
	start, err := m.bounds(lba, buf)
	if err != nil {
		return err
	}
	copy(m.Data[start:start+SectorSize], buf)
	return nil
}

// ImageFile is the part of a file needed by FileDevice.
// Both *os.File and afero.File satisfy it.
type ImageFile interface {
	io.ReaderAt
	io.WriterAt
}

// FileDevice is a BlockDevice on top of an image file.
type FileDevice struct {
	file ImageFile
}

// NewFileDevice uses the given file as device. The file is not closed by the device.
func NewFileDevice(file ImageFile) *FileDevice {
	return &FileDevice{file: file}
}

func (f *FileDevice) ReadSector(lba uint64, buf []byte) error {
	if len(buf) != SectorSize {
		return fmt.Errorf("buffer of %d bytes is not a sector", len(buf))
	}

	n, err := f.file.ReadAt(buf, int64(lba)*SectorSize)
	if n == SectorSize {
		// ReadAt may return io.EOF together with the last full sector.
		return nil
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("read lba %d: %w", lba, err)
}

func (f *FileDevice) WriteSector(lba uint64, buf []byte) error {
	if len(buf) != SectorSize {
		return fmt.Errorf("buffer of %d bytes is not a sector", len(buf))
	}

	if _, err := f.file.WriteAt(buf, int64(lba)*SectorSize); err != nil {
		return fmt.Errorf("write lba %d: %w", lba, err)
	}
	return nil
}
