package gofat32

import "errors"

// These errors may occur while working with a volume.
// They are usually wrapped by a checkpoint, so always compare with errors.Is.
var (
	ErrInvalidBootSector    = errors.New("invalid boot sector")
	ErrIO                   = errors.New("sector i/o failed")
	ErrNotFound             = errors.New("entry not found")
	ErrNoFreeClusters       = errors.New("no free clusters left")
	ErrInvalidCluster       = errors.New("invalid cluster")
	ErrNoFreeDirectoryEntry = errors.New("no free directory entry")
	ErrInvalidName          = errors.New("invalid 8.3 name")
	ErrInvalidEntry         = errors.New("invalid directory entry")
	ErrNotSupported         = errors.New("operation not supported")
)
