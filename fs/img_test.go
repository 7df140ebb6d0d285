package fs

// Test volumes are built directly in memory, block by block, using the
// layout encoders. The builder lays groups out the way a formatter
// would: boot block, superblock, descriptor table, then per group a
// block bitmap, an inode bitmap and a two-block inode table.

import (
	"encoding/binary"
	"testing"

	"github.com/bunnybunbun37204/SnowflakeOS/common"
	"github.com/bunnybunbun37204/SnowflakeOS/layout"
)

const (
	tBlkSize        = 1024
	tInodesPerGroup = 16
	tTableBlocks    = tInodesPerGroup * 128 / tBlkSize // 2
)

type imgBuilder struct {
	t              *testing.T
	img            []byte
	sb             *layout.Superblock
	gds            []layout.GroupDescriptor
	blocksPerGroup uint64
}

// newImg builds a volume of ngroups groups of blocksPerGroup 1024-byte
// blocks each, with all metadata blocks already claimed in the bitmaps.
func newImg(t *testing.T, blocksPerGroup, ngroups uint64) *imgBuilder {
	t.Helper()
	b := &imgBuilder{
		t:              t,
		img:            make([]byte, blocksPerGroup*ngroups*tBlkSize),
		blocksPerGroup: blocksPerGroup,
	}
	b.sb = &layout.Superblock{
		InodesCount:    uint32(tInodesPerGroup * ngroups),
		BlocksCount:    uint32(blocksPerGroup * ngroups),
		LogBlockSize:   0,
		BlocksPerGroup: uint32(blocksPerGroup),
		InodesPerGroup: tInodesPerGroup,
		Magic:          common.SUPERMAGIC,
		VersionMajor:   1,
		InodeSize:      128,
	}
	for g := uint64(0); g < ngroups; g++ {
		base := g * blocksPerGroup
		meta := uint64(0)
		if g == 0 {
			// boot block, superblock and descriptor table come first
			meta = 3
		}
		gd := layout.GroupDescriptor{
			BlockBitmap: uint32(base + meta),
			InodeBitmap: uint32(base + meta + 1),
			InodeTable:  uint32(base + meta + 2),
		}
		b.gds = append(b.gds, gd)
		for j := base; j < base+meta+2+tTableBlocks; j++ {
			b.claim(j)
		}
	}
	b.sb.FirstAvailable = uint32(3 + 2 + tTableBlocks) // first data block of group 0
	b.flushMeta()
	return b
}

// flushMeta rewrites the superblock and descriptor table into the image.
func (b *imgBuilder) flushMeta() {
	copy(b.img[common.SUPEROFF:], b.sb.Encode())
	for i, gd := range b.gds {
		copy(b.img[common.GDOFF+uint64(i)*layout.GroupDescSize:], gd.Encode())
	}
}

// claim marks block j used in its group's block bitmap.
func (b *imgBuilder) claim(j uint64) {
	g := j / b.blocksPerGroup
	bit := j % b.blocksPerGroup
	off := uint64(b.gds[g].BlockBitmap)*tBlkSize + bit/8
	b.img[off] |= 1 << (bit % 8)
}

// bitmapBit reports block j's bit in its group's bitmap.
func (b *imgBuilder) bitmapBit(j uint64) bool {
	g := j / b.blocksPerGroup
	bit := j % b.blocksPerGroup
	off := uint64(b.gds[g].BlockBitmap)*tBlkSize + bit/8
	return b.img[off]&(1<<(bit%8)) != 0
}

// setInode writes ino into inode n's table slot.
func (b *imgBuilder) setInode(n common.Inum, ino *layout.Inode) {
	g := (uint64(n) - 1) / tInodesPerGroup
	index := (uint64(n) - 1) % tInodesPerGroup
	off := uint64(b.gds[g].InodeTable)*tBlkSize + index*128
	copy(b.img[off:], ino.Encode())
}

// fill writes data at the start of block n and claims it.
func (b *imgBuilder) fill(n common.Bnum, data []byte) {
	if uint64(len(data)) > tBlkSize {
		b.t.Fatalf("fill: %d bytes exceed a block", len(data))
	}
	copy(b.img[n*tBlkSize:], data)
	b.claim(n)
}

// ptrBlock builds a pointer block from 32-bit cells.
func ptrBlock(ptrs ...uint32) []byte {
	blk := make([]byte, tBlkSize)
	for i, p := range ptrs {
		binary.LittleEndian.PutUint32(blk[4*i:], p)
	}
	return blk
}

// ent builds a directory entry with the minimal 4-byte-aligned size.
func ent(inum uint32, name string, ftype uint8) layout.DirEntry {
	sz := (layout.DirentHeaderSize + uint64(len(name)) + 3) &^ 3
	return layout.DirEntry{
		Inum:     inum,
		RecLen:   uint16(sz),
		NameLen:  uint8(len(name)),
		FileType: ftype,
		Name:     name,
	}
}

// direntBlock packs entries into one block image; the zeroed remainder
// acts as the end-of-entries sentinel. If pad is true the last entry is
// stretched to the end of the block, the way a formatter fills a full
// directory block.
func (b *imgBuilder) direntBlock(pad bool, entries ...layout.DirEntry) []byte {
	blk := make([]byte, 0, tBlkSize)
	for i, e := range entries {
		if pad && i == len(entries)-1 {
			e.RecLen = uint16(tBlkSize - len(blk))
		}
		raw, err := e.Encode()
		if err != nil {
			b.t.Fatalf("direntBlock: %v", err)
		}
		blk = append(blk, raw...)
	}
	if len(blk) > tBlkSize {
		b.t.Fatalf("direntBlock: %d bytes exceed a block", len(blk))
	}
	return append(blk, make([]byte, tBlkSize-len(blk))...)
}

func (b *imgBuilder) mount() *FileSys {
	b.t.Helper()
	fsys, err := Mount(b.img)
	if err != nil {
		b.t.Fatalf("mount: %v", err)
	}
	return fsys
}

// helloVolume is the canonical scenario volume: the root directory holds
// one file, hello.txt -> inode 12, whose 5 bytes are "world".
func helloVolume(t *testing.T) *imgBuilder {
	t.Helper()
	b := newImg(t, 64, 1)

	root := &layout.Inode{
		Mode:       layout.TypeDir | 0o755,
		Size:       tBlkSize,
		LinksCount: 2,
	}
	root.Direct[0] = 7
	b.setInode(common.ROOTINUM, root)
	b.fill(7, b.direntBlock(false,
		ent(uint32(common.ROOTINUM), ".", layout.FTDir),
		ent(uint32(common.ROOTINUM), "..", layout.FTDir),
		ent(12, "hello.txt", layout.FTRegular),
	))

	file := &layout.Inode{
		Mode:       layout.TypeRegular | 0o644,
		Size:       5,
		LinksCount: 1,
	}
	file.Direct[0] = 8
	b.setInode(12, file)
	b.fill(8, []byte("world"))

	return b
}
