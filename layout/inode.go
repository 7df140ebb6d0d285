package layout

import (
	"encoding/binary"
	"fmt"

	"github.com/bunnybunbun37204/SnowflakeOS/common"
)

// InodeBaseSize is the portion of an inode table slot that carries the
// classic record; slots may be larger (Superblock.InodeRecordSize) but
// the extra space holds extended attributes we do not interpret.
const InodeBaseSize uint64 = 128

// File type bits of Inode.Mode.
const (
	TypeFIFO    uint16 = 0x1000
	TypeChar    uint16 = 0x2000
	TypeDir     uint16 = 0x4000
	TypeBlock   uint16 = 0x6000
	TypeRegular uint16 = 0x8000
	TypeSymlink uint16 = 0xA000
	TypeSocket  uint16 = 0xC000

	typeMask uint16 = 0xF000
	permMask uint16 = 0x0FFF
)

// Inode is one decoded file-system object record.
type Inode struct {
	Mode        uint16
	UID         uint16
	Size        uint32 // low 32 bits; SizeHigh is unused by this driver
	AccessTime  uint32
	CreateTime  uint32
	ModifyTime  uint32
	DeleteTime  uint32
	GID         uint16
	LinksCount  uint16
	SectorsUsed uint32
	Flags       uint32

	Direct         [common.NDIRECT]uint32
	SingleIndirect uint32
	DoubleIndirect uint32
	TripleIndirect uint32

	Generation uint32
	FileACL    uint32
	SizeHigh   uint32
	FragBlock  uint32
}

// Type returns the file type bits of the mode.
func (ino *Inode) Type() uint16 { return ino.Mode & typeMask }

// Perm returns the permission bits of the mode.
func (ino *Inode) Perm() uint16 { return ino.Mode & permMask }

func (ino *Inode) IsDir() bool     { return ino.Type() == TypeDir }
func (ino *Inode) IsRegular() bool { return ino.Type() == TypeRegular }

// DecodeInode decodes an inode table slot. b must hold at least the
// 128-byte base record.
func DecodeInode(b []byte) (*Inode, error) {
	if uint64(len(b)) < InodeBaseSize {
		return nil, fmt.Errorf("inode record truncated: %d bytes", len(b))
	}
	le := binary.LittleEndian
	ino := &Inode{
		Mode:        le.Uint16(b[0:2]),
		UID:         le.Uint16(b[2:4]),
		Size:        le.Uint32(b[4:8]),
		AccessTime:  le.Uint32(b[8:12]),
		CreateTime:  le.Uint32(b[12:16]),
		ModifyTime:  le.Uint32(b[16:20]),
		DeleteTime:  le.Uint32(b[20:24]),
		GID:         le.Uint16(b[24:26]),
		LinksCount:  le.Uint16(b[26:28]),
		SectorsUsed: le.Uint32(b[28:32]),
		Flags:       le.Uint32(b[32:36]),
		// bytes 36:40 are OS-specific, not interpreted
		SingleIndirect: le.Uint32(b[88:92]),
		DoubleIndirect: le.Uint32(b[92:96]),
		TripleIndirect: le.Uint32(b[96:100]),
		Generation:     le.Uint32(b[100:104]),
		FileACL:        le.Uint32(b[104:108]),
		SizeHigh:       le.Uint32(b[108:112]),
		FragBlock:      le.Uint32(b[112:116]),
	}
	for i := uint64(0); i < common.NDIRECT; i++ {
		ino.Direct[i] = le.Uint32(b[40+4*i : 44+4*i])
	}
	return ino, nil
}

// Encode writes the record into a 128-byte slot image.
func (ino *Inode) Encode() []byte {
	b := make([]byte, InodeBaseSize)
	le := binary.LittleEndian
	le.PutUint16(b[0:2], ino.Mode)
	le.PutUint16(b[2:4], ino.UID)
	le.PutUint32(b[4:8], ino.Size)
	le.PutUint32(b[8:12], ino.AccessTime)
	le.PutUint32(b[12:16], ino.CreateTime)
	le.PutUint32(b[16:20], ino.ModifyTime)
	le.PutUint32(b[20:24], ino.DeleteTime)
	le.PutUint16(b[24:26], ino.GID)
	le.PutUint16(b[26:28], ino.LinksCount)
	le.PutUint32(b[28:32], ino.SectorsUsed)
	le.PutUint32(b[32:36], ino.Flags)
	for i := uint64(0); i < common.NDIRECT; i++ {
		le.PutUint32(b[40+4*i:44+4*i], ino.Direct[i])
	}
	le.PutUint32(b[88:92], ino.SingleIndirect)
	le.PutUint32(b[92:96], ino.DoubleIndirect)
	le.PutUint32(b[96:100], ino.TripleIndirect)
	le.PutUint32(b[100:104], ino.Generation)
	le.PutUint32(b[104:108], ino.FileACL)
	le.PutUint32(b[108:112], ino.SizeHigh)
	le.PutUint32(b[112:116], ino.FragBlock)
	return b
}
