package gofat32

import (
	"github.com/aligator/gofat32/checkpoint"
	"github.com/sirupsen/logrus"
)

const entriesPerDirSector = SectorSize / EntrySize

// dirSector is a single sector of a directory chain.
type dirSector struct {
	lba  uint64
	data []byte
}

// walkDirectory reads every sector of the directory chain starting at head
// and passes it to fn until fn returns true.
// The whole chain is visited, a 0x00 slot does not end the directory.
func (v *Volume) walkDirectory(fat *Table, head uint32, fn func(sector dirSector) (bool, error)) (bool, error) {
	chain, err := fat.Chain(head)
	if err != nil {
		return false, checkpoint.From(err)
	}

	sector := dirSector{data: make([]byte, SectorSize)}
	for _, cluster := range chain {
		lba, err := v.ClusterLBA(cluster)
		if err != nil {
			return false, err
		}

		for s := uint64(0); s < uint64(v.boot.SectorsPerCluster); s++ {
			sector.lba = lba + s
			if err := v.device.ReadSector(sector.lba, sector.data); err != nil {
				return false, checkpoint.Wrapf(err, ErrIO, "read directory sector %d of cluster %d", sector.lba, cluster)
			}

			done, err := fn(sector)
			if err != nil || done {
				return done, err
			}
		}
	}

	return false, nil
}

// readEntries decodes all used slots of a directory.
func (v *Volume) readEntries(fat *Table, head uint32) ([]DirEntry, error) {
	var entries []DirEntry

	_, err := v.walkDirectory(fat, head, func(sector dirSector) (bool, error) {
		for i := 0; i < entriesPerDirSector; i++ {
			raw := sector.data[i*EntrySize : (i+1)*EntrySize]
			if slotFree(raw[0]) {
				continue
			}

			entry, err := DecodeEntry(raw)
			if err != nil {
				return false, err
			}
			entries = append(entries, entry)
		}
		return false, nil
	})

	return entries, err
}

// addEntry writes entry into the first free slot of the directory.
// Only the sector containing the slot is written.
func (v *Volume) addEntry(fat *Table, head uint32, entry DirEntry) error {
	raw := EncodeEntry(entry)

	written, err := v.walkDirectory(fat, head, func(sector dirSector) (bool, error) {
		for i := 0; i < entriesPerDirSector; i++ {
			offset := i * EntrySize
			if !slotFree(sector.data[offset]) {
				continue
			}

			copy(sector.data[offset:offset+EntrySize], raw[:])
			if err := v.device.WriteSector(sector.lba, sector.data); err != nil {
				return false, checkpoint.Wrapf(err, ErrIO, "write directory sector %d", sector.lba)
			}

			v.log.WithFields(logrus.Fields{
				"lba":  sector.lba,
				"slot": i,
			}).Debug("wrote directory entry")
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return err
	}

	if !written {
		return checkpoint.New(ErrNoFreeDirectoryEntry, "directory at cluster %d is full", head)
	}
	return nil
}
