package fs

import (
	"github.com/bunnybunbun37204/SnowflakeOS/common"
	"github.com/bunnybunbun37204/SnowflakeOS/layout"
	"github.com/bunnybunbun37204/SnowflakeOS/util"
)

// Read copies up to len(buf) bytes of the file identified by inode number
// n, starting at byte offset off, and reports how many bytes were copied.
// Reading at or past the end of the file, from an empty file, or into an
// empty buffer copies zero bytes without error.
func (fsys *FileSys) Read(n common.Inum, off uint64, buf []byte) (uint64, error) {
	ino, err := fsys.GetInode(n)
	if err != nil {
		return 0, err
	}
	return fsys.ReadInode(ino, off, buf)
}

// readFileBlock reads file-relative block n of ino into blk.
func (fsys *FileSys) readFileBlock(ino *layout.Inode, n uint64, blk []byte) error {
	b, err := fsys.BlockMap(ino, n)
	if err != nil {
		return err
	}
	return fsys.ReadBlock(b, blk)
}

// ReadInode is Read for an already-resolved inode.
func (fsys *FileSys) ReadInode(ino *layout.Inode, off uint64, buf []byte) (uint64, error) {
	size := uint64(len(buf))
	fsize := uint64(ino.Size)
	if size == 0 || fsize == 0 || off >= fsize {
		return 0, nil
	}
	end := util.Min(off+size, fsize)

	bs := fsys.blkSize
	startBlk := off / bs
	endBlk := end / bs
	startOff := off % bs
	endOff := end % bs

	tmp := make([]byte, bs)
	if startBlk == endBlk {
		if err := fsys.readFileBlock(ino, startBlk, tmp); err != nil {
			return 0, err
		}
		copy(buf, tmp[startOff:startOff+(end-off)])
		return end - off, nil
	}

	// partial first block
	if err := fsys.readFileBlock(ino, startBlk, tmp); err != nil {
		return 0, err
	}
	copy(buf, tmp[startOff:])
	pos := bs - startOff

	// full middle blocks
	for b := startBlk + 1; b < endBlk; b++ {
		if err := fsys.readFileBlock(ino, b, tmp); err != nil {
			return pos, err
		}
		copy(buf[pos:], tmp)
		pos += bs
	}

	// partial last block, only if the end lands inside it
	if endOff != 0 {
		if err := fsys.readFileBlock(ino, endBlk, tmp); err != nil {
			return pos, err
		}
		copy(buf[pos:], tmp[:endOff])
		pos += endOff
	}
	return pos, nil
}
