package gofat32

import (
	"io"
	"math"
	"time"

	"github.com/aligator/gofat32/checkpoint"
	"github.com/sirupsen/logrus"
)

// Config changes how a volume writes to the device.
type Config struct {
	// MirrorFATs writes the FAT to every copy instead of only the first one.
	MirrorFATs bool

	// Logger receives debug output for every step of a write.
	// Nothing is logged if it is nil.
	Logger logrus.FieldLogger

	// Now provides the timestamp of new entries.
	// If it is nil, new entries have no timestamps.
	Now func() time.Time
}

// Volume is a FAT32 filesystem on a BlockDevice.
// It owns the device exclusively, nothing else may write to it while the volume is used.
// The FAT is read again for every operation, so no state besides the geometry is kept.
// A Volume is not safe for concurrent use.
type Volume struct {
	boot   BootSector
	device BlockDevice
	config Config
	log    logrus.FieldLogger
}

// Open reads the boot sector of the device and returns the volume on it.
func Open(device BlockDevice) (*Volume, error) {
	return OpenWithConfig(device, Config{})
}

// OpenWithConfig works like Open but uses the given configuration.
func OpenWithConfig(device BlockDevice, config Config) (*Volume, error) {
	sector := make([]byte, SectorSize)
	if err := device.ReadSector(0, sector); err != nil {
		return nil, checkpoint.Wrapf(err, ErrIO, "read boot sector")
	}

	boot, err := ParseBootSector(sector)
	if err != nil {
		return nil, checkpoint.From(err)
	}

	log := config.Logger
	if log == nil {
		discard := logrus.New()
		discard.Out = io.Discard
		log = discard
	}

	v := &Volume{
		boot:   *boot,
		device: device,
		config: config,
		log:    log,
	}

	v.log.WithFields(logrus.Fields{
		"clusterSize": boot.ClusterSize(),
		"fatCount":    boot.FATCount,
		"rootCluster": boot.RootCluster,
	}).Debug("opened volume")

	return v, nil
}

// BootSector returns the geometry of the volume.
func (v *Volume) BootSector() BootSector {
	return v.boot
}

// VolumeSize returns the size of the volume in bytes.
func (v *Volume) VolumeSize() uint64 {
	return uint64(v.boot.TotalSectors) * uint64(v.boot.BytesPerSector)
}

// ClusterSize returns the size of one cluster in bytes.
func (v *Volume) ClusterSize() uint32 {
	return v.boot.ClusterSize()
}

// FATCount returns the amount of FAT copies.
func (v *Volume) FATCount() uint8 {
	return v.boot.FATCount
}

// RootCluster returns the first cluster of the root directory.
func (v *Volume) RootCluster() uint32 {
	return v.boot.RootCluster
}

// ClusterLBA returns the first sector of the given data cluster.
// Cluster 0 and 1 do not exist in the data region.
func (v *Volume) ClusterLBA(cluster uint32) (uint64, error) {
	if cluster < 2 {
		return 0, checkpoint.New(ErrInvalidCluster, "cluster %d has no data region", cluster)
	}
	return v.boot.DataStartLBA() + uint64(cluster-2)*uint64(v.boot.SectorsPerCluster), nil
}

// loadFAT reads the first FAT copy.
func (v *Volume) loadFAT() (*Table, error) {
	if err := v.boot.check(); err != nil {
		return nil, err
	}

	fat, err := LoadTable(v.device, v.boot.FATStartLBA(0), v.boot.FATSizeSectors)
	if err != nil {
		return nil, checkpoint.From(err)
	}

	if count := v.boot.ClusterCount(); count > 0 {
		fat.SetLimit(count + 2)
	}
	return fat, nil
}

// flushFAT writes the table to the first FAT copy and, if configured, to all others.
// Without MirrorFATs the other copies become stale.
func (v *Volume) flushFAT(fat *Table) error {
	copies := uint8(1)
	if v.config.MirrorFATs && v.boot.FATCount > 1 {
		copies = v.boot.FATCount
	}

	for i := uint8(0); i < copies; i++ {
		if err := fat.Flush(v.device, v.boot.FATStartLBA(i)); err != nil {
			return checkpoint.From(err)
		}
	}
	return nil
}

// FreeClusters counts the free clusters of the volume.
func (v *Volume) FreeClusters() (int, error) {
	fat, err := v.loadFAT()
	if err != nil {
		return 0, err
	}
	return fat.FreeCount(), nil
}

// NextFree returns the cluster the next allocation would start with.
// It probes the FAT on disk instead of loading it completely.
func (v *Volume) NextFree() (uint32, error) {
	if err := v.boot.check(); err != nil {
		return 0, err
	}

	var limit uint32
	if count := v.boot.ClusterCount(); count > 0 {
		limit = count + 2
	}

	free, err := ScanFree(v.device, v.boot.FATStartLBA(0), v.boot.FATSizeSectors, limit, 1)
	if err != nil {
		return 0, checkpoint.From(err)
	}
	return free[0], nil
}

// writeClusters writes data across the chain. Everything after the end of
// data up to the end of the last cluster is zeroed.
func (v *Volume) writeClusters(chain []uint32, data []byte) error {
	sector := make([]byte, SectorSize)
	offset := 0

	for _, cluster := range chain {
		lba, err := v.ClusterLBA(cluster)
		if err != nil {
			return err
		}

		for s := uint64(0); s < uint64(v.boot.SectorsPerCluster); s++ {
			n := 0
			if offset < len(data) {
				n = copy(sector, data[offset:])
			}
			for i := n; i < SectorSize; i++ {
				sector[i] = 0
			}

			if err := v.device.WriteSector(lba+s, sector); err != nil {
				return checkpoint.Wrapf(err, ErrIO, "write data sector %d of cluster %d", lba+s, cluster)
			}
			offset += SectorSize
		}
	}

	return nil
}

// CreateFile creates a file with the given 8.3 name and content in the root directory.
func (v *Volume) CreateFile(name [11]byte, data []byte) error {
	return v.CreateFileIn(v.boot.RootCluster, name, data)
}

// CreateNamedFile works like CreateFile but takes a name like "README.TXT".
func (v *Volume) CreateNamedFile(name string, data []byte) error {
	short, err := ShortName(name)
	if err != nil {
		return err
	}
	return v.CreateFile(short, data)
}

// CreateFileIn creates a file in the directory starting at dirCluster.
//
// The steps are done strictly in this order:
//  1. load the FAT and allocate a chain
//  2. write the data
//  3. write the FAT
//  4. write the directory entry
// If the process stops in between, the volume contains at most an allocated
// chain no entry points to, never an entry pointing to unwritten data.
// Even an empty file gets one cluster.
//
// If the directory has no free slot, the allocation is reverted and the FAT is
// written again before ErrNoFreeDirectoryEntry is returned. The data written
// to the then free clusters stays on disk.
func (v *Volume) CreateFileIn(dirCluster uint32, name [11]byte, data []byte) error {
	log := v.log.WithFields(logrus.Fields{
		"name": string(name[:]),
		"size": len(data),
	})

	if err := v.boot.check(); err != nil {
		return err
	}
	if uint64(len(data)) > math.MaxUint32 {
		return checkpoint.New(ErrInvalidEntry, "%d bytes do not fit into a FAT32 file", len(data))
	}

	clusterSize := int(v.boot.ClusterSize())
	needed := (len(data) + clusterSize - 1) / clusterSize
	if needed == 0 {
		needed = 1
	}

	fat, err := v.loadFAT()
	if err != nil {
		return err
	}
	log.WithField("state", "FatLoaded").Debug("create file")

	chain, err := fat.AllocateChain(needed)
	if err != nil {
		return checkpoint.From(err)
	}
	log.WithFields(logrus.Fields{"state": "ChainAllocated", "chain": chain}).Debug("create file")

	if err := v.writeClusters(chain, data); err != nil {
		return err
	}
	log.WithField("state", "DataWritten").Debug("create file")

	if err := v.flushFAT(fat); err != nil {
		return err
	}
	log.WithField("state", "FatFlushed").Debug("create file")

	entry := DirEntry{
		Name:         name,
		Attributes:   AttrArchive,
		FirstCluster: chain[0],
		Size:         uint32(len(data)),
	}
	if v.config.Now != nil {
		entry.Modified = v.config.Now()
	}

	if err := v.addEntry(fat, dirCluster, entry); err != nil {
		fat.Free(chain)
		if rollbackErr := v.flushFAT(fat); rollbackErr != nil {
			log.WithError(rollbackErr).Warn("could not release the chain, it stays allocated")
		} else {
			log.WithField("chain", chain).Debug("released the chain again")
		}
		return err
	}
	log.WithFields(logrus.Fields{"state": "DirectoryEntryWritten", "cluster": chain[0]}).Debug("create file")

	return nil
}

// ListRoot returns all used entries of the root directory in on disk order.
func (v *Volume) ListRoot() ([]DirEntry, error) {
	return v.ListDir(v.boot.RootCluster)
}

// ListDir returns all used entries of the directory starting at dirCluster.
// Long name slots and the volume label are returned as they are.
func (v *Volume) ListDir(dirCluster uint32) ([]DirEntry, error) {
	fat, err := v.loadFAT()
	if err != nil {
		return nil, err
	}
	return v.readEntries(fat, dirCluster)
}

// Lookup searches a file or directory by its 8.3 name in the root directory.
func (v *Volume) Lookup(name [11]byte) (DirEntry, error) {
	entries, err := v.ListRoot()
	if err != nil {
		return DirEntry{}, err
	}

	for _, e := range entries {
		if e.IsLongName() || e.IsVolumeLabel() {
			continue
		}
		if e.Name == name {
			return e, nil
		}
	}

	return DirEntry{}, checkpoint.New(ErrNotFound, "%q", string(name[:]))
}

// ReadFile returns the content of the file described by e.
func (v *Volume) ReadFile(e DirEntry) ([]byte, error) {
	fat, err := v.loadFAT()
	if err != nil {
		return nil, err
	}

	data := make([]byte, 0, e.Size)
	if e.Size == 0 {
		return data, nil
	}

	chain, err := fat.Chain(e.FirstCluster)
	if err != nil {
		return nil, checkpoint.From(err)
	}
	if uint64(len(chain))*uint64(v.boot.ClusterSize()) < uint64(e.Size) {
		return nil, checkpoint.New(ErrInvalidCluster, "chain of %d is too short for %d bytes", e.FirstCluster, e.Size)
	}

	sector := make([]byte, SectorSize)
	for _, cluster := range chain {
		lba, err := v.ClusterLBA(cluster)
		if err != nil {
			return nil, err
		}

		for s := uint64(0); s < uint64(v.boot.SectorsPerCluster); s++ {
			if err := v.device.ReadSector(lba+s, sector); err != nil {
				return nil, checkpoint.Wrapf(err, ErrIO, "read data sector %d of cluster %d", lba+s, cluster)
			}

			remaining := int(e.Size) - len(data)
			if remaining <= SectorSize {
				return append(data, sector[:remaining]...), nil
			}
			data = append(data, sector...)
		}
	}

	return data, nil
}
