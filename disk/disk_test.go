package disk

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemDiskReadWrite(t *testing.T) {
	assert := assert.New(t)
	d := NewMemDisk(4)

	v := make([]byte, SectorSize)
	v[0] = 0xab
	v[SectorSize-1] = 0xcd
	assert.NoError(d.Write(2, v))

	got, err := d.Read(2)
	assert.NoError(err)
	assert.Equal(v, got)

	zero, err := d.Read(1)
	assert.NoError(err)
	assert.Equal(byte(0), zero[0], "untouched sector stays zero")
}

func TestMemDiskBounds(t *testing.T) {
	assert := assert.New(t)
	d := NewMemDisk(2)

	_, err := d.Read(2)
	assert.Error(err, "read past the end must fail")
	err = d.Write(3, make([]byte, SectorSize))
	assert.Error(err, "write past the end must fail")
	err = d.Write(0, make([]byte, 10))
	assert.Error(err, "short buffers are rejected")
}

func TestFromImageSharesBuffer(t *testing.T) {
	assert := assert.New(t)
	img := make([]byte, 3*SectorSize)
	d := FromImage(img)

	sz, err := d.Size()
	assert.NoError(err)
	assert.Equal(uint64(3), sz)

	v := make([]byte, SectorSize)
	v[7] = 0x42
	assert.NoError(d.Write(1, v))
	assert.Equal(byte(0x42), img[SectorSize+7], "writes land in the caller's buffer")
}

func TestFileDisk(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "vol.img")
	d, err := NewFileDisk(path, 8)
	assert.NoError(err)
	defer d.Close()

	v := make([]byte, SectorSize)
	copy(v, []byte("hello sector"))
	assert.NoError(d.Write(5, v))
	assert.NoError(d.Barrier())

	got, err := d.Read(5)
	assert.NoError(err)
	assert.Equal(v, got)

	d2, err := OpenFileDisk(path)
	assert.NoError(err)
	defer d2.Close()
	sz, err := d2.Size()
	assert.NoError(err)
	assert.Equal(uint64(8), sz)
	got, err = d2.Read(5)
	assert.NoError(err)
	assert.Equal(v, got)
}
