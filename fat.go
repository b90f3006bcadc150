package gofat32

import (
	"encoding/binary"

	"github.com/aligator/gofat32/checkpoint"
)

const (
	entryMask = 0x0FFFFFFF

	// EndOfChain is written into the last cluster of every chain.
	EndOfChain = 0x0FFFFFFF

	entryBad    = 0x0FFFFFF7
	entryEOCMin = 0x0FFFFFF8

	// entriesPerSector is the amount of FAT32 entries in one sector.
	entriesPerSector = SectorSize / 4
)

// fatEntry is a single value of the FAT. Only the lower 28 bits are used.
type fatEntry uint32

// Value returns the entry without the reserved upper 4 bits.
func (e fatEntry) Value() uint32 {
	return uint32(e) & entryMask
}

// IsFree reports whether the cluster may be allocated.
func (e fatEntry) IsFree() bool {
	return e.Value() == 0
}

// IsBad reports whether the cluster is marked as defective.
func (e fatEntry) IsBad() bool {
	return e.Value() == entryBad
}

// IsEOC reports whether the entry terminates a chain.
func (e fatEntry) IsEOC() bool {
	return e.Value() >= entryEOCMin
}

// IsNext reports whether the entry points to a following cluster.
func (e fatEntry) IsNext() bool {
	v := e.Value()
	return v >= 2 && v < entryBad
}

// Table is an in memory copy of the whole FAT.
// Index 0 and 1 are reserved and never allocated.
// Only the lower 28 bits of every entry are kept, the upper 4 bits are
// always written as zero.
type Table struct {
	entries []uint32

	// limit is the first cluster number which does not exist on the volume.
	// The FAT is usually a bit bigger than needed, the additional entries must
	// not be allocated. 0 means the whole table is usable.
	limit uint32
}

// NewTable creates a table from already known entries.
func NewTable(entries []uint32) *Table {
	t := &Table{
		entries: make([]uint32, len(entries)),
	}
	for i, e := range entries {
		t.entries[i] = e & entryMask
	}
	return t
}

// LoadTable reads fatSizeSectors sectors starting at fatStartLBA.
// The reserved entries 0 and 1 are not validated.
func LoadTable(device BlockDevice, fatStartLBA uint64, fatSizeSectors uint32) (*Table, error) {
	t := &Table{
		entries: make([]uint32, 0, int(fatSizeSectors)*entriesPerSector),
	}

	sector := make([]byte, SectorSize)
	for i := uint64(0); i < uint64(fatSizeSectors); i++ {
		if err := device.ReadSector(fatStartLBA+i, sector); err != nil {
			return nil, checkpoint.Wrapf(err, ErrIO, "read FAT sector %d", fatStartLBA+i)
		}

		for offset := 0; offset < SectorSize; offset += 4 {
			t.entries = append(t.entries, binary.LittleEndian.Uint32(sector[offset:])&entryMask)
		}
	}

	return t, nil
}

// SetLimit restricts allocation to clusters below limit.
func (t *Table) SetLimit(limit uint32) {
	t.limit = limit
}

// end returns the first cluster number which may not be allocated.
func (t *Table) end() uint32 {
	n := uint32(len(t.entries))
	if t.limit != 0 && t.limit < n {
		return t.limit
	}
	return n
}

// Len returns the amount of entries including the two reserved ones.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entry returns the value for the given cluster.
func (t *Table) Entry(cluster uint32) (uint32, error) {
	if int(cluster) >= len(t.entries) {
		return 0, checkpoint.New(ErrInvalidCluster, "cluster %d outside of FAT with %d entries", cluster, len(t.entries))
	}
	return t.entries[cluster], nil
}

func (t *Table) set(cluster uint32, value uint32) {
	t.entries[cluster] = value & entryMask
}

// FindFree returns the lowest free cluster number.
func (t *Table) FindFree() (uint32, bool) {
	for c := uint32(2); c < t.end(); c++ {
		if fatEntry(t.entries[c]).IsFree() {
			return c, true
		}
	}
	return 0, false
}

// FreeCount returns the amount of free clusters.
func (t *Table) FreeCount() int {
	count := 0
	for c := uint32(2); c < t.end(); c++ {
		if fatEntry(t.entries[c]).IsFree() {
			count++
		}
	}
	return count
}

// AllocateChain allocates count clusters and links them in order.
// Each cluster is marked as end of chain before its predecessor points to it,
// so the table never contains a dangling or cyclic chain.
// If not enough clusters are free, nothing is changed and ErrNoFreeClusters is returned.
func (t *Table) AllocateChain(count int) ([]uint32, error) {
	if count < 0 {
		return nil, checkpoint.New(ErrNoFreeClusters, "cannot allocate %d clusters", count)
	}

	chain := make([]uint32, 0, count)

	for i := 0; i < count; i++ {
		c, ok := t.FindFree()
		if !ok {
			t.Free(chain)
			return nil, checkpoint.New(ErrNoFreeClusters, "needed %d clusters, only %d free", count, len(chain))
		}

		t.set(c, EndOfChain)
		if len(chain) > 0 {
			t.set(chain[len(chain)-1], c)
		}
		chain = append(chain, c)
	}

	return chain, nil
}

// Free marks all given clusters as free again.
func (t *Table) Free(chain []uint32) {
	for _, c := range chain {
		if int(c) < len(t.entries) && c >= 2 {
			t.set(c, 0)
		}
	}
}

// Next returns the entry following cluster.
func (t *Table) Next(cluster uint32) (uint32, error) {
	if cluster < 2 {
		return 0, checkpoint.New(ErrInvalidCluster, "cluster %d is reserved", cluster)
	}
	return t.Entry(cluster)
}

// Chain follows the chain starting at head until its end.
func (t *Table) Chain(head uint32) ([]uint32, error) {
	var chain []uint32

	current := head
	for {
		if current < 2 || int(current) >= len(t.entries) {
			return nil, checkpoint.New(ErrInvalidCluster, "cluster %d inside chain of %d", current, head)
		}
		chain = append(chain, current)

		// A chain can never be longer than the table without visiting a cluster twice.
		if len(chain) > len(t.entries) {
			return nil, checkpoint.New(ErrInvalidCluster, "chain of %d is cyclic", head)
		}

		next := fatEntry(t.entries[current])
		switch {
		case next.IsEOC():
			return chain, nil
		case next.IsNext():
			current = next.Value()
		default:
			return nil, checkpoint.New(ErrInvalidCluster, "cluster %d has entry 0x%08X", current, next.Value())
		}
	}
}

// Flush writes the whole table to the sectors starting at fatStartLBA.
func (t *Table) Flush(device BlockDevice, fatStartLBA uint64) error {
	sector := make([]byte, SectorSize)

	for i := 0; i*entriesPerSector < len(t.entries); i++ {
		for j := range sector {
			sector[j] = 0
		}

		for j := 0; j < entriesPerSector; j++ {
			idx := i*entriesPerSector + j
			if idx >= len(t.entries) {
				break
			}
			binary.LittleEndian.PutUint32(sector[j*4:], t.entries[idx])
		}

		lba := fatStartLBA + uint64(i)
		if err := device.WriteSector(lba, sector); err != nil {
			return checkpoint.Wrapf(err, ErrIO, "write FAT sector %d", lba)
		}
	}

	return nil
}
