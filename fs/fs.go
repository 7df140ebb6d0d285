// Package fs implements the read and block-allocation paths of the
// inode-based on-disk format described in package layout: mounting a
// volume, resolving paths to inodes, reading file contents through the
// direct/indirect block pointer scheme, and allocating data blocks from
// the group bitmaps.
//
// A mounted volume is an explicit *FileSys handle; several volumes can be
// mounted side by side. All operations are synchronous and run to
// completion. The only internal read-modify-write cycle, the block
// allocator's bitmap update, carries its own lock; everything else only
// reads mount-time state and is safe to use from a single caller at a
// time per the format's single-writer assumption.
package fs

import (
	"fmt"

	"github.com/bunnybunbun37204/SnowflakeOS/common"
	"github.com/bunnybunbun37204/SnowflakeOS/disk"
	"github.com/bunnybunbun37204/SnowflakeOS/layout"
	"github.com/bunnybunbun37204/SnowflakeOS/util"
)

// FileSys is a mounted volume.
type FileSys struct {
	d   disk.Disk
	sb  *layout.Superblock
	gds []layout.GroupDescriptor

	blkSize uint64 // bytes per block, 1024 << sb.LogBlockSize
	ngroups uint64

	alloc *allocator
}

// Mount mounts a volume image resident in memory. The image is shared,
// not copied: block writes (the allocator's bitmap write-back) mutate
// img.
func Mount(img []byte) (*FileSys, error) {
	return MountDisk(disk.FromImage(img))
}

// MountDisk mounts the volume on d. On any failure no handle is
// returned and nothing is retained.
func MountDisk(d disk.Disk) (*FileSys, error) {
	nsec, err := d.Size()
	if err != nil {
		return nil, err
	}
	if nsec*disk.SectorSize < common.SUPEROFF+common.SUPERSZ {
		return nil, fmt.Errorf("%w: %d bytes", ErrVolumeTooSmall, nsec*disk.SectorSize)
	}

	raw, err := d.Read(common.SUPEROFF / disk.SectorSize)
	if err != nil {
		return nil, err
	}
	sb, err := layout.DecodeSuperblock(raw)
	if err != nil {
		return nil, err
	}
	if sb.Magic != common.SUPERMAGIC {
		return nil, fmt.Errorf("%w: 0x%x", ErrBadMagic, sb.Magic)
	}
	if sb.LogBlockSize > 6 {
		return nil, fmt.Errorf("%w: block size shift %d", ErrUnsupportedLayout, sb.LogBlockSize)
	}
	if sb.BlocksPerGroup == 0 || sb.InodesPerGroup == 0 {
		return nil, fmt.Errorf("%w: empty block groups", ErrUnsupportedLayout)
	}

	blkSize := sb.BlockSize()
	if uint64(sb.BlocksPerGroup) > 8*blkSize {
		// a group's block bitmap would not fit in one bitmap block
		return nil, fmt.Errorf("%w: %d blocks per group exceeds one bitmap block",
			ErrUnsupportedLayout, sb.BlocksPerGroup)
	}

	ngroups := sb.GroupCount()
	gds, err := readGroupDescriptors(d, ngroups)
	if err != nil {
		return nil, err
	}

	fsys := &FileSys{
		d:       d,
		sb:      sb,
		gds:     gds,
		blkSize: blkSize,
		ngroups: ngroups,
		alloc:   mkAllocator(uint64(sb.FirstAvailable)),
	}
	util.DPrintf(1, "mount: volume of %d KiB, block size %d, %d group(s)\n",
		nsec*disk.SectorSize>>10, blkSize, ngroups)
	return fsys, nil
}

// readGroupDescriptors loads the descriptor array from its fixed byte
// offset right after the superblock's reserved region.
func readGroupDescriptors(d disk.Disk, ngroups uint64) ([]layout.GroupDescriptor, error) {
	nsec := util.RoundUp(ngroups*layout.GroupDescSize, disk.SectorSize)
	buf := make([]byte, nsec*disk.SectorSize)
	first := common.GDOFF / disk.SectorSize
	for i := uint64(0); i < nsec; i++ {
		err := d.ReadTo(first+i, buf[i*disk.SectorSize:(i+1)*disk.SectorSize])
		if err != nil {
			return nil, fmt.Errorf("reading group descriptors: %w", err)
		}
	}
	gds := make([]layout.GroupDescriptor, 0, ngroups)
	for i := uint64(0); i < ngroups; i++ {
		gd, err := layout.DecodeGroupDescriptor(buf[i*layout.GroupDescSize:])
		if err != nil {
			return nil, err
		}
		gds = append(gds, gd)
	}
	return gds, nil
}

// Superblock returns the in-memory superblock copy read at mount time.
// It is authoritative for the life of the handle; the driver never
// rereads it from disk.
func (fsys *FileSys) Superblock() *layout.Superblock {
	return fsys.sb
}

// GroupDescriptors returns the descriptor array read at mount time.
func (fsys *FileSys) GroupDescriptors() []layout.GroupDescriptor {
	return fsys.gds
}

// BlockSize returns the volume block size in bytes.
func (fsys *FileSys) BlockSize() uint64 {
	return fsys.blkSize
}
