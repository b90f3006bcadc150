package gofat32

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/aligator/gofat32/checkpoint"
)

// FATType is the FAT variant as determined by the cluster count.
type FATType uint8

const (
	FAT12 FATType = iota
	FAT16
	FAT32
)

func (t FATType) String() string {
	switch t {
	case FAT12:
		return "FAT12"
	case FAT16:
		return "FAT16"
	default:
		return "FAT32"
	}
}

// BootSector contains the volume geometry read from the BPB.
// It is parsed once when the volume gets opened and never changed afterwards.
type BootSector struct {
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	FATCount          uint8
	TotalSectors      uint32
	FATSizeSectors    uint32
	RootCluster       uint32

	label [11]byte
}

// ParseBootSector reads the geometry out of the given boot sector.
// Only the BPB fields are used, neither the jump instructions nor the 0x55AA
// signature are checked.
func ParseBootSector(sector []byte) (*BootSector, error) {
	if len(sector) < SectorSize {
		return nil, checkpoint.New(ErrInvalidBootSector, "got %d bytes, need %d", len(sector), SectorSize)
	}

	reader := bytes.NewReader(sector)

	bpb := BPB{}
	if err := binary.Read(reader, binary.LittleEndian, &bpb); err != nil {
		return nil, checkpoint.Wrap(err, ErrInvalidBootSector)
	}

	fat32 := FAT32SpecificData{}
	if err := binary.Read(reader, binary.LittleEndian, &fat32); err != nil {
		return nil, checkpoint.Wrap(err, ErrInvalidBootSector)
	}

	bs := &BootSector{
		BytesPerSector:    bpb.BytesPerSector,
		SectorsPerCluster: bpb.SectorsPerCluster,
		ReservedSectors:   bpb.ReservedSectorCount,
		FATCount:          bpb.NumFATs,
		FATSizeSectors:    fat32.FATSize,
		RootCluster:       fat32.RootCluster,
		label:             fat32.BSVolumeLabel,
	}

	// The 16 bit field is used for small volumes, the 32 bit one otherwise.
	if bpb.TotalSectors16 != 0 {
		bs.TotalSectors = uint32(bpb.TotalSectors16)
	} else {
		bs.TotalSectors = bpb.TotalSectors32
	}

	return bs, nil
}

// ClusterSize returns the size of one cluster in bytes.
func (b *BootSector) ClusterSize() uint32 {
	return uint32(b.BytesPerSector) * uint32(b.SectorsPerCluster)
}

// FATStartLBA returns the first sector of the FAT copy with the given index.
func (b *BootSector) FATStartLBA(index uint8) uint64 {
	return uint64(b.ReservedSectors) + uint64(index)*uint64(b.FATSizeSectors)
}

// DataStartLBA returns the sector of cluster 2.
func (b *BootSector) DataStartLBA() uint64 {
	return uint64(b.ReservedSectors) + uint64(b.FATCount)*uint64(b.FATSizeSectors)
}

// ClusterCount returns the amount of data clusters the volume provides.
func (b *BootSector) ClusterCount() uint32 {
	dataStart := b.DataStartLBA()
	if b.SectorsPerCluster == 0 || uint64(b.TotalSectors) <= dataStart {
		return 0
	}
	return uint32((uint64(b.TotalSectors) - dataStart) / uint64(b.SectorsPerCluster))
}

// FATType determines the FAT variant based on the cluster count.
// This is the only correct way to do it, the type string in the boot sector
// is informational only.
func (b *BootSector) FATType() FATType {
	count := b.ClusterCount()
	switch {
	case count < 4085:
		return FAT12
	case count < 65525:
		return FAT16
	default:
		return FAT32
	}
}

// Label returns the volume label stored in the extended boot record.
func (b *BootSector) Label() string {
	return strings.TrimRight(string(bytes.TrimRight(b.label[:], "\x00")), " ")
}

// check validates everything needed to address clusters.
// Sector buffers are always SectorSize bytes, so other sector sizes are rejected here.
func (b *BootSector) check() error {
	if b.BytesPerSector != SectorSize {
		return checkpoint.New(ErrInvalidBootSector, "unsupported sector size %d", b.BytesPerSector)
	}
	if b.SectorsPerCluster == 0 {
		return checkpoint.New(ErrInvalidBootSector, "sectors per cluster is 0")
	}
	if b.FATSizeSectors == 0 {
		return checkpoint.New(ErrInvalidBootSector, "FAT size is 0")
	}
	return nil
}
