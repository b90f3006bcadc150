package gofat32

import (
	"encoding/binary"
	"testing"
)

// testGeometry describes a synthetic image created by newTestImage.
type testGeometry struct {
	sectors           uint32
	sectorsPerCluster uint8
	reservedSectors   uint16
	fatCount          uint8
	fatSize           uint32
	rootCluster       uint32
	label             string
}

// singleFAT is a freshly formatted 100 sector volume with one FAT,
// one sector per cluster and a root directory in cluster 2.
var singleFAT = testGeometry{
	sectors:           100,
	sectorsPerCluster: 1,
	reservedSectors:   1,
	fatCount:          1,
	fatSize:           1,
	rootCluster:       2,
	label:             "GOFAT32",
}

// bootSectorBytes creates a boot sector for the given geometry.
func bootSectorBytes(g testGeometry) []byte {
	sector := make([]byte, SectorSize)

	// BS_jmpBoot
	sector[0] = 0xEB
	sector[1] = 0x58
	sector[2] = 0x90
	copy(sector[3:11], "GOFAT32 ")

	binary.LittleEndian.PutUint16(sector[11:13], SectorSize)
	sector[13] = g.sectorsPerCluster
	binary.LittleEndian.PutUint16(sector[14:16], g.reservedSectors)
	sector[16] = g.fatCount
	sector[21] = 0xF8
	binary.LittleEndian.PutUint32(sector[32:36], g.sectors)
	binary.LittleEndian.PutUint32(sector[36:40], g.fatSize)
	binary.LittleEndian.PutUint32(sector[44:48], g.rootCluster)

	// BS_BootSig, BS_VolLab and BS_FilSysType
	sector[66] = 0x29
	label := []byte("NO NAME    ")
	if g.label != "" {
		label = []byte(g.label + "           ")[:11]
	}
	copy(sector[71:82], label)
	copy(sector[82:90], "FAT32   ")

	binary.LittleEndian.PutUint16(sector[510:512], 0xAA55)
	return sector
}

// newTestImage creates an empty formatted image of the given geometry.
// The root directory occupies a single cluster.
func newTestImage(t *testing.T, g testGeometry) *MemDevice {
	t.Helper()

	dev := NewMemDevice(int(g.sectors))
	copy(dev.Data, bootSectorBytes(g))

	for i := 0; i < int(g.fatCount); i++ {
		fatStart := (int(g.reservedSectors) + i*int(g.fatSize)) * SectorSize
		setFATEntry(dev, fatStart, 0, 0x0FFFFFF8)
		setFATEntry(dev, fatStart, 1, 0xFFFFFFFF)
		setFATEntry(dev, fatStart, g.rootCluster, EndOfChain)
	}

	return dev
}

func setFATEntry(dev *MemDevice, fatStart int, cluster uint32, value uint32) {
	binary.LittleEndian.PutUint32(dev.Data[fatStart+int(cluster)*4:], value)
}

func getFATEntry(dev *MemDevice, fatStart int, cluster uint32) uint32 {
	return binary.LittleEndian.Uint32(dev.Data[fatStart+int(cluster)*4:])
}

// clusterBytes returns the raw content of a data cluster.
func clusterBytes(t *testing.T, dev *MemDevice, g testGeometry, cluster uint32) []byte {
	t.Helper()

	dataStart := int(g.reservedSectors) + int(g.fatCount)*int(g.fatSize)
	start := (dataStart + int(cluster-2)*int(g.sectorsPerCluster)) * SectorSize
	return dev.Data[start : start+int(g.sectorsPerCluster)*SectorSize]
}

// fillDirectory occupies every slot of the directory cluster.
func fillDirectory(t *testing.T, dev *MemDevice, g testGeometry, cluster uint32) {
	t.Helper()

	data := clusterBytes(t, dev, g, cluster)
	for i := 0; i < len(data)/EntrySize; i++ {
		name := [11]byte{'F', 'I', 'L', 'L', byte('A' + i/26%26), byte('A' + i%26), ' ', ' ', 'B', 'I', 'N'}
		raw := EncodeEntry(DirEntry{Name: name, Attributes: AttrArchive})
		copy(data[i*EntrySize:], raw[:])
	}
}

func mustOpen(t *testing.T, dev BlockDevice) *Volume {
	t.Helper()

	v, err := Open(dev)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return v
}
