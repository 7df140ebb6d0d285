package fs

import (
	"sync"

	"github.com/bunnybunbun37204/SnowflakeOS/common"
	"github.com/bunnybunbun37204/SnowflakeOS/util"
)

// allocator scans the per-group block bitmaps for a free block. The lock
// serializes the whole read-modify-write cycle on a bitmap block, the one
// such hazard in the driver.
type allocator struct {
	lock *sync.Mutex
	next uint64 // first block number to try
}

func mkAllocator(hint uint64) *allocator {
	return &allocator{
		lock: new(sync.Mutex),
		next: hint,
	}
}

// AllocBlock finds a free data block, marks it used and writes the owning
// bitmap block back, then returns the block number. The scan starts at
// the superblock's first-available hint and proceeds sequentially through
// every group. Free counts in the superblock and group descriptors are
// deliberately left untouched; an exhausted volume fails with ErrNoSpace.
func (fsys *FileSys) AllocBlock() (common.Bnum, error) {
	a := fsys.alloc
	a.lock.Lock()
	defer a.lock.Unlock()

	perGroup := uint64(fsys.sb.BlocksPerGroup)
	total := perGroup * fsys.ngroups
	bitmap := make([]byte, fsys.blkSize)
	var bitmapBlk common.Bnum
	curGroup := ^uint64(0)

	for j := a.next; j < total; j++ {
		g := j / perGroup
		if g != curGroup {
			bitmapBlk = common.Bnum(fsys.gds[g].BlockBitmap)
			if err := fsys.ReadBlock(bitmapBlk, bitmap); err != nil {
				return common.NULLBNUM, err
			}
			curGroup = g
		}
		bit := j - g*perGroup
		if bitmap[bit/8]&(1<<(bit%8)) == 0 {
			bitmap[bit/8] |= 1 << (bit % 8)
			if err := fsys.WriteBlock(bitmapBlk, bitmap); err != nil {
				return common.NULLBNUM, err
			}
			// nothing is ever freed, so everything before j stays used
			a.next = j + 1
			util.DPrintf(5, "AllocBlock: block %d from group %d bitmap %d\n", j, g, bitmapBlk)
			return j, nil
		}
	}
	return common.NULLBNUM, ErrNoSpace
}
