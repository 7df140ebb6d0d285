package fs

import "errors"

// Mount-time format errors.
var (
	ErrVolumeTooSmall    = errors.New("volume too small")
	ErrBadMagic          = errors.New("bad superblock signature")
	ErrUnsupportedLayout = errors.New("unsupported volume layout")
)

// Per-operation errors. These are recoverable signals to the caller;
// nothing in the driver retries or unwinds past them.
var (
	ErrNoInode     = errors.New("no inode")
	ErrNotExist    = errors.New("no such file or directory")
	ErrInvalidPath = errors.New("invalid path")
	ErrOutOfRange  = errors.New("file block out of range")
	ErrNoSpace     = errors.New("no space left on volume")
)
