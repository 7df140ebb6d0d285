package fs

import (
	"fmt"

	"github.com/bunnybunbun37204/SnowflakeOS/layout"
)

// ReadDirEntry returns the directory entry at byte offset off within
// dir's data, reading the fixed header first to learn the record size and
// then the full record. Because entries go through the file reader, a
// directory of any size is iterable, not just its first data block.
//
// A nil entry with a nil error means there is nothing at off: the offset
// is at or past the end of the directory, or at the zeroed terminal slot.
// To iterate, advance off by the returned entry's RecLen.
func (fsys *FileSys) ReadDirEntry(dir *layout.Inode, off uint64) (*layout.DirEntry, error) {
	var hdr [layout.DirentHeaderSize]byte
	n, err := fsys.ReadInode(dir, off, hdr[:])
	if err != nil {
		return nil, err
	}
	if n < layout.DirentHeaderSize {
		return nil, nil
	}
	ent, err := layout.DecodeDirentHeader(hdr[:])
	if err != nil {
		return nil, err
	}
	if ent.RecLen == 0 {
		if ent.Inum == 0 {
			// zeroed slot past the last entry
			return nil, nil
		}
		return nil, fmt.Errorf("zero-length directory entry at offset %d", off)
	}

	full := make([]byte, ent.RecLen)
	n, err = fsys.ReadInode(dir, off, full)
	if err != nil {
		return nil, err
	}
	if n < uint64(ent.RecLen) {
		return nil, nil
	}
	e, err := layout.DecodeDirent(full)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
