// File model contains the structs which match the direct structures of the FAT32 filesystem.
// They are decoded and encoded using encoding/binary in little endian.

package gofat32

// BPB is the BIOS parameter block common to all FAT variants.
// It spans the first 36 bytes of the boot sector.
type BPB struct {
	BSJumpBoot          [3]byte
	BSOEMName           [8]byte
	BytesPerSector      uint16
	SectorsPerCluster   byte
	ReservedSectorCount uint16
	NumFATs             byte
	RootEntryCount      uint16
	TotalSectors16      uint16
	Media               byte
	FATSize16           uint16
	SectorsPerTrack     uint16
	NumberOfHeads       uint16
	HiddenSectors       uint32
	TotalSectors32      uint32
}

// FAT32SpecificData directly follows the BPB on FAT32 volumes.
type FAT32SpecificData struct {
	FATSize          uint32
	ExtFlags         uint16
	FSVersion        uint16
	RootCluster      uint32
	FSInfo           uint16
	BkBootSector     uint16
	Reserved         [12]byte
	BSDriveNumber    byte
	BSReserved1      byte
	BSBootSignature  byte
	BSVolumeID       uint32
	BSVolumeLabel    [11]byte
	BSFileSystemType [8]byte
}

// EntryHeader is a single 32 byte short name directory entry.
type EntryHeader struct {
	Name            [11]byte
	Attribute       byte
	NTReserved      byte
	CreateTimeTenth byte
	CreateTime      uint16
	CreateDate      uint16
	LastAccessDate  uint16
	FirstClusterHI  uint16
	WriteTime       uint16
	WriteDate       uint16
	FirstClusterLO  uint16
	FileSize        uint32
}

// Possible values of EntryHeader.Attribute.
const (
	AttrReadOnly  = 0x01
	AttrHidden    = 0x02
	AttrSystem    = 0x04
	AttrVolumeID  = 0x08
	AttrDirectory = 0x10
	AttrArchive   = 0x20
	AttrLongName  = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeID
)

const (
	// SectorSize is the size of every buffer passed to a BlockDevice.
	SectorSize = 512

	// EntrySize is the size of a single directory entry on disk.
	EntrySize = 32

	entryUnused  = 0x00
	entryDeleted = 0xE5
)
