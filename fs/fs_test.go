package fs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bunnybunbun37204/SnowflakeOS/common"
)

func TestMount(t *testing.T) {
	assert := assert.New(t)
	b := newImg(t, 64, 1)
	fsys := b.mount()

	assert.Equal(uint64(1024), fsys.BlockSize())
	assert.Equal(common.SUPERMAGIC, fsys.Superblock().Magic)
	assert.Equal(uint32(64), fsys.Superblock().BlocksCount)
	gds := fsys.GroupDescriptors()
	assert.Equal(1, len(gds))
	assert.Equal(uint32(3), gds[0].BlockBitmap)
	assert.Equal(uint32(5), gds[0].InodeTable)
}

func TestMountTwoGroups(t *testing.T) {
	assert := assert.New(t)
	b := newImg(t, 64, 2)
	fsys := b.mount()

	gds := fsys.GroupDescriptors()
	assert.Equal(2, len(gds))
	assert.Equal(uint32(64), gds[1].BlockBitmap)
	assert.Equal(uint32(66), gds[1].InodeTable)
}

func TestMountTooSmall(t *testing.T) {
	assert := assert.New(t)
	_, err := Mount(make([]byte, 100))
	assert.ErrorIs(err, ErrVolumeTooSmall)
}

func TestMountBadMagic(t *testing.T) {
	assert := assert.New(t)
	b := newImg(t, 64, 1)
	b.img[common.SUPEROFF+56] = 0x00 // clobber the signature
	_, err := Mount(b.img)
	assert.ErrorIs(err, ErrBadMagic)
}

func TestMountOversizedGroup(t *testing.T) {
	assert := assert.New(t)
	b := newImg(t, 64, 1)
	// a group this large needs more than one bitmap block
	b.sb.BlocksPerGroup = 10000
	b.flushMeta()
	_, err := Mount(b.img)
	assert.ErrorIs(err, ErrUnsupportedLayout)
}

func TestMountZeroGroupSize(t *testing.T) {
	assert := assert.New(t)
	b := newImg(t, 64, 1)
	b.sb.BlocksPerGroup = 0
	b.flushMeta()
	_, err := Mount(b.img)
	assert.ErrorIs(err, ErrUnsupportedLayout)
}
