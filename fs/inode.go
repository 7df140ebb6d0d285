package fs

import (
	"fmt"

	"github.com/bunnybunbun37204/SnowflakeOS/common"
	"github.com/bunnybunbun37204/SnowflakeOS/layout"
)

// GetInode reads the on-disk record for inode n. Inode numbers are
// 1-based; n == 0 is the "no inode" value and fails with ErrNoInode.
func (fsys *FileSys) GetInode(n common.Inum) (*layout.Inode, error) {
	if n == common.NULLINUM {
		return nil, ErrNoInode
	}
	perGroup := uint64(fsys.sb.InodesPerGroup)
	group := (uint64(n) - 1) / perGroup
	if group >= fsys.ngroups {
		return nil, fmt.Errorf("%w: inode %d", ErrNotExist, n)
	}
	index := (uint64(n) - 1) % perGroup

	isz := fsys.sb.InodeRecordSize()
	tableBlk := uint64(fsys.gds[group].InodeTable)
	blockOff := index * isz / fsys.blkSize
	indexInBlock := index - blockOff*(fsys.blkSize/isz)

	buf, err := fsys.readBlock(tableBlk + blockOff)
	if err != nil {
		return nil, err
	}
	off := indexInBlock * isz
	return layout.DecodeInode(buf[off : off+isz])
}
