package fs

import (
	"fmt"

	"github.com/tchajed/marshal"

	"github.com/bunnybunbun37204/SnowflakeOS/common"
	"github.com/bunnybunbun37204/SnowflakeOS/layout"
	"github.com/bunnybunbun37204/SnowflakeOS/util"
)

// blkPtrGet decodes the i-th block pointer cell of a pointer block.
func blkPtrGet(blk []byte, i uint64) common.Bnum {
	dec := marshal.NewDec(blk[4*i : 4*i+4])
	return common.Bnum(dec.GetInt32())
}

// ptrsPerBlock is the number of pointer cells in one indirect block.
func (fsys *FileSys) ptrsPerBlock() uint64 {
	return fsys.blkSize / 4
}

// BlockMap translates file-relative block n of ino into a physical block
// number. The first NDIRECT blocks come straight from the inode; past
// those, n is decomposed positionally in base p (pointers per block)
// across one, two or three levels of pointer blocks. Beyond the
// triple-indirect capacity there is no physical block to produce.
func (fsys *FileSys) BlockMap(ino *layout.Inode, n uint64) (common.Bnum, error) {
	if n < common.NDIRECT {
		return common.Bnum(ino.Direct[n]), nil
	}
	p := fsys.ptrsPerBlock()

	r := n - common.NDIRECT
	if r < p {
		blk, err := fsys.readBlock(common.Bnum(ino.SingleIndirect))
		if err != nil {
			return common.NULLBNUM, err
		}
		return blkPtrGet(blk, r), nil
	}

	r -= p
	if r < p*p {
		blk, err := fsys.readBlock(common.Bnum(ino.DoubleIndirect))
		if err != nil {
			return common.NULLBNUM, err
		}
		blk, err = fsys.readBlock(blkPtrGet(blk, r/p))
		if err != nil {
			return common.NULLBNUM, err
		}
		return blkPtrGet(blk, r%p), nil
	}

	r -= p * p
	if r < p*p*p {
		blk, err := fsys.readBlock(common.Bnum(ino.TripleIndirect))
		if err != nil {
			return common.NULLBNUM, err
		}
		blk, err = fsys.readBlock(blkPtrGet(blk, r/(p*p)))
		if err != nil {
			return common.NULLBNUM, err
		}
		blk, err = fsys.readBlock(blkPtrGet(blk, (r/p)%p))
		if err != nil {
			return common.NULLBNUM, err
		}
		return blkPtrGet(blk, r%p), nil
	}

	util.DPrintf(1, "BlockMap: file block %d beyond triple-indirect capacity\n", n)
	return common.NULLBNUM, fmt.Errorf("%w: %d", ErrOutOfRange, n)
}
