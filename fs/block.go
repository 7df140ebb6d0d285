package fs

import (
	"fmt"

	"github.com/bunnybunbun37204/SnowflakeOS/common"
	"github.com/bunnybunbun37204/SnowflakeOS/disk"
)

// sectorsPerBlock is how many device sectors one volume block spans.
func (fsys *FileSys) sectorsPerBlock() uint64 {
	return fsys.blkSize / disk.SectorSize
}

// ReadBlock copies block n into buf, which must be exactly one block.
// Addresses beyond the device are an error; the store never wraps or
// resizes.
func (fsys *FileSys) ReadBlock(n common.Bnum, buf []byte) error {
	if uint64(len(buf)) != fsys.blkSize {
		return fmt.Errorf("buffer is not block-sized (%d bytes)", len(buf))
	}
	spb := fsys.sectorsPerBlock()
	for i := uint64(0); i < spb; i++ {
		err := fsys.d.ReadTo(n*spb+i, buf[i*disk.SectorSize:(i+1)*disk.SectorSize])
		if err != nil {
			return fmt.Errorf("block %d: %w", n, err)
		}
	}
	return nil
}

// WriteBlock is the inverse of ReadBlock.
func (fsys *FileSys) WriteBlock(n common.Bnum, buf []byte) error {
	if uint64(len(buf)) != fsys.blkSize {
		return fmt.Errorf("buffer is not block-sized (%d bytes)", len(buf))
	}
	spb := fsys.sectorsPerBlock()
	for i := uint64(0); i < spb; i++ {
		err := fsys.d.Write(n*spb+i, buf[i*disk.SectorSize:(i+1)*disk.SectorSize])
		if err != nil {
			return fmt.Errorf("block %d: %w", n, err)
		}
	}
	return nil
}

func (fsys *FileSys) readBlock(n common.Bnum) ([]byte, error) {
	buf := make([]byte, fsys.blkSize)
	err := fsys.ReadBlock(n, buf)
	return buf, err
}
