package gofat32

import (
	"bytes"
	"encoding/binary"
	"strings"
	"time"

	"github.com/aligator/gofat32/checkpoint"
)

// DirEntry is the in memory form of a short name directory entry.
type DirEntry struct {
	// Name is the space padded 8.3 name without the dot.
	Name         [11]byte
	Attributes   uint8
	FirstCluster uint32
	Size         uint32

	// Modified is stored as create, write and access time.
	// A zero value leaves all timestamps empty.
	Modified time.Time
}

// IsDir reports whether the entry describes a directory.
func (e DirEntry) IsDir() bool {
	return e.Attributes&AttrDirectory == AttrDirectory
}

// IsLongName reports whether the slot belongs to a long file name.
func (e DirEntry) IsLongName() bool {
	return e.Attributes&AttrLongName == AttrLongName
}

// IsVolumeLabel reports whether the entry holds the volume label.
func (e DirEntry) IsVolumeLabel() bool {
	return !e.IsLongName() && e.Attributes&AttrVolumeID == AttrVolumeID
}

// FileName returns the name in its usual form, e.g. "HELLO.TXT".
func (e DirEntry) FileName() string {
	name := strings.TrimRight(string(e.Name[:8]), " ")
	ext := strings.TrimRight(string(e.Name[8:11]), " ")

	if ext != "" {
		name += "."
	}

	return name + ext
}

// slotFree reports whether a slot starting with b can take a new entry.
func slotFree(b byte) bool {
	return b == entryUnused || b == entryDeleted
}

// EncodeEntry converts the entry to its 32 byte on disk form.
func EncodeEntry(e DirEntry) [EntrySize]byte {
	var raw [EntrySize]byte

	// DIR_Name
	copy(raw[0:11], e.Name[:])

	// DIR_Attr
	raw[11] = e.Attributes

	if !e.Modified.IsZero() {
		date := FormatDate(e.Modified)
		clock := FormatTime(e.Modified)

		// DIR_CrtTimeTenth counts 10ms units of the odd second.
		raw[13] = byte(e.Modified.Second()%2*100 + e.Modified.Nanosecond()/10000000)
		binary.LittleEndian.PutUint16(raw[14:16], clock)
		binary.LittleEndian.PutUint16(raw[16:18], date)
		binary.LittleEndian.PutUint16(raw[18:20], date)
		binary.LittleEndian.PutUint16(raw[22:24], clock)
		binary.LittleEndian.PutUint16(raw[24:26], date)
	}

	// DIR_FstClusHI and DIR_FstClusLO
	binary.LittleEndian.PutUint16(raw[20:22], uint16(e.FirstCluster>>16))
	binary.LittleEndian.PutUint16(raw[26:28], uint16(e.FirstCluster&0xFFFF))

	// DIR_FileSize
	binary.LittleEndian.PutUint32(raw[28:32], e.Size)

	return raw
}

// DecodeEntry reads an entry from its on disk form.
// The caller has to skip free slots (first byte 0x00 or 0xE5) before.
func DecodeEntry(raw []byte) (DirEntry, error) {
	if len(raw) < EntrySize {
		return DirEntry{}, checkpoint.New(ErrInvalidEntry, "got %d bytes, need %d", len(raw), EntrySize)
	}

	header := EntryHeader{}
	if err := binary.Read(bytes.NewReader(raw[:EntrySize]), binary.LittleEndian, &header); err != nil {
		return DirEntry{}, checkpoint.Wrap(err, ErrInvalidEntry)
	}

	return header.DirEntry(), nil
}

// DirEntry converts the raw header.
func (h EntryHeader) DirEntry() DirEntry {
	e := DirEntry{
		Name:         h.Name,
		Attributes:   h.Attribute,
		FirstCluster: uint32(h.FirstClusterHI)<<16 | uint32(h.FirstClusterLO),
		Size:         h.FileSize,
	}

	// If the date IsZero() it contained an invalid value, the time alone is meaningless then.
	writeDate := ParseDate(h.WriteDate)
	if !writeDate.IsZero() {
		writeTime := ParseTime(h.WriteTime)
		e.Modified = time.Date(writeDate.Year(), writeDate.Month(), writeDate.Day(), writeTime.Hour(), writeTime.Minute(), writeTime.Second(), 0, time.UTC)
	}

	return e
}

// ShortName converts a name like "hello.txt" into the 11 byte form "HELLO   TXT".
// The name is split at the first dot. Names which do not fit into 8.3 or
// contain characters not allowed in short names result in ErrInvalidName,
// they are never shortened silently.
func ShortName(name string) ([11]byte, error) {
	var result [11]byte
	for i := range result {
		result[i] = ' '
	}

	base, ext := name, ""
	if dot := strings.IndexByte(name, '.'); dot >= 0 {
		base, ext = name[:dot], name[dot+1:]
	}
	base = strings.ToUpper(base)
	ext = strings.ToUpper(ext)

	if base == "" || len(base) > 8 || len(ext) > 3 {
		return result, checkpoint.New(ErrInvalidName, "%q does not fit into 8.3", name)
	}

	for _, char := range base + ext {
		if !validShortChar(char) {
			return result, checkpoint.New(ErrInvalidName, "%q contains %q", name, char)
		}
	}

	copy(result[0:8], base)
	copy(result[8:11], ext)
	return result, nil
}

func validShortChar(char rune) bool {
	if char >= 'A' && char <= 'Z' {
		return true
	}

	if char >= '0' && char <= '9' {
		return true
	}

	return strings.ContainsRune("_^$~!#%&-{}()@'`", char)
}
