package layout

import (
	"encoding/binary"
	"fmt"
)

// GroupDescSize is the on-disk size of one group descriptor record.
const GroupDescSize uint64 = 32

// GroupDescriptor is the per-block-group metadata record. The array of
// descriptors starts at byte offset 2048 on the volume.
type GroupDescriptor struct {
	BlockBitmap uint32 // block number of the group's block bitmap
	InodeBitmap uint32 // block number of the group's inode bitmap
	InodeTable  uint32 // first block of the group's inode table
	FreeBlocks  uint16
	FreeInodes  uint16
	UsedDirs    uint16
}

// DecodeGroupDescriptor decodes one 32-byte record from b.
func DecodeGroupDescriptor(b []byte) (GroupDescriptor, error) {
	if uint64(len(b)) < GroupDescSize {
		return GroupDescriptor{}, fmt.Errorf("group descriptor truncated: %d bytes", len(b))
	}
	le := binary.LittleEndian
	return GroupDescriptor{
		BlockBitmap: le.Uint32(b[0:4]),
		InodeBitmap: le.Uint32(b[4:8]),
		InodeTable:  le.Uint32(b[8:12]),
		FreeBlocks:  le.Uint16(b[12:14]),
		FreeInodes:  le.Uint16(b[14:16]),
		UsedDirs:    le.Uint16(b[16:18]),
	}, nil
}

// Encode writes the record into its 32-byte on-disk form.
func (gd GroupDescriptor) Encode() []byte {
	b := make([]byte, GroupDescSize)
	le := binary.LittleEndian
	le.PutUint32(b[0:4], gd.BlockBitmap)
	le.PutUint32(b[4:8], gd.InodeBitmap)
	le.PutUint32(b[8:12], gd.InodeTable)
	le.PutUint16(b[12:14], gd.FreeBlocks)
	le.PutUint16(b[14:16], gd.FreeInodes)
	le.PutUint16(b[16:18], gd.UsedDirs)
	return b
}
