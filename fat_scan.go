package gofat32

import (
	"encoding/binary"

	"github.com/aligator/gofat32/checkpoint"
)

// ScanFree searches count free clusters directly on the device without
// loading the whole FAT. A FAT sector is only read again when the scan
// crosses into the next one.
// It selects the same clusters as Table.FindFree would for the same FAT,
// but it does not allocate them.
// limit works like Table.SetLimit, 0 scans the whole FAT.
func ScanFree(device BlockDevice, fatStartLBA uint64, fatSizeSectors uint32, limit uint32, count int) ([]uint32, error) {
	if count <= 0 {
		return nil, nil
	}

	end := uint64(fatSizeSectors) * entriesPerSector
	if limit != 0 && uint64(limit) < end {
		end = uint64(limit)
	}

	sector := make([]byte, SectorSize)
	loaded := int64(-1)
	found := make([]uint32, 0, count)

	for cluster := uint64(2); cluster < end; cluster++ {
		offset := cluster * 4
		sectorIndex := offset / SectorSize
		byteIndex := offset % SectorSize

		if int64(sectorIndex) != loaded {
			lba := fatStartLBA + sectorIndex
			if err := device.ReadSector(lba, sector); err != nil {
				return nil, checkpoint.Wrapf(err, ErrIO, "read FAT sector %d", lba)
			}
			loaded = int64(sectorIndex)
		}

		if fatEntry(binary.LittleEndian.Uint32(sector[byteIndex:])).IsFree() {
			found = append(found, uint32(cluster))
			if len(found) == count {
				return found, nil
			}
		}
	}

	return nil, checkpoint.New(ErrNoFreeClusters, "needed %d clusters, only %d free", count, len(found))
}
