// Package layout decodes and encodes the on-disk records of the
// filesystem: the superblock, group descriptors, inodes and directory
// entries. All fields are little-endian; every accessor names its byte
// offset explicitly so the wire layout can be checked against the format
// documentation field by field.
package layout

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"

	"github.com/bunnybunbun37204/SnowflakeOS/common"
	"github.com/bunnybunbun37204/SnowflakeOS/util"
)

// Superblock is the decoded 1024-byte record at byte offset 1024 on the
// volume. The whole record is always decoded, including the fields that
// only carry meaning from format revision 1 on.
type Superblock struct {
	InodesCount      uint32
	BlocksCount      uint32
	BlocksSuperuser  uint32
	FreeBlocks       uint32
	FreeInodes       uint32
	SuperblockBlock  uint32
	LogBlockSize     uint32
	LogFragSize      uint32
	BlocksPerGroup   uint32
	FragsPerGroup    uint32
	InodesPerGroup   uint32
	LastMountTime    uint32
	LastWriteTime    uint32
	MountsSinceFsck  uint16
	MountsBeforeFsck uint16
	Magic            uint16
	State            uint16
	OnError          uint16
	VersionMinor     uint16
	LastFsck         uint32
	FsckInterval     uint32
	CreatorOS        uint32
	VersionMajor     uint32
	ReservedUID      uint16
	ReservedGID      uint16

	// Revision >= 1 fields.
	FirstAvailable   uint32 // starting hint for the block allocator
	InodeSize        uint16
	SuperblockGroup  uint16
	OptionalFeatures uint32
	RequiredFeatures uint32
	ROFeatures       uint32
	ID               uuid.UUID
	VolumeName       [16]byte
	LastMountPath    [64]byte
	Compression      uint32
	PreallocFiles    uint8
	PreallocDirs     uint8
	JournalID        uuid.UUID
	JournalInode     uint32
	JournalDevice    uint32
	OrphansInode     uint32
}

// DecodeSuperblock decodes the record from b, which must hold the full
// 1024 reserved bytes. It performs no validation; callers check Magic.
func DecodeSuperblock(b []byte) (*Superblock, error) {
	if uint64(len(b)) < common.SUPERSZ {
		return nil, fmt.Errorf("superblock record truncated: %d bytes", len(b))
	}
	le := binary.LittleEndian
	sb := &Superblock{
		InodesCount:      le.Uint32(b[0:4]),
		BlocksCount:      le.Uint32(b[4:8]),
		BlocksSuperuser:  le.Uint32(b[8:12]),
		FreeBlocks:       le.Uint32(b[12:16]),
		FreeInodes:       le.Uint32(b[16:20]),
		SuperblockBlock:  le.Uint32(b[20:24]),
		LogBlockSize:     le.Uint32(b[24:28]),
		LogFragSize:      le.Uint32(b[28:32]),
		BlocksPerGroup:   le.Uint32(b[32:36]),
		FragsPerGroup:    le.Uint32(b[36:40]),
		InodesPerGroup:   le.Uint32(b[40:44]),
		LastMountTime:    le.Uint32(b[44:48]),
		LastWriteTime:    le.Uint32(b[48:52]),
		MountsSinceFsck:  le.Uint16(b[52:54]),
		MountsBeforeFsck: le.Uint16(b[54:56]),
		Magic:            le.Uint16(b[56:58]),
		State:            le.Uint16(b[58:60]),
		OnError:          le.Uint16(b[60:62]),
		VersionMinor:     le.Uint16(b[62:64]),
		LastFsck:         le.Uint32(b[64:68]),
		FsckInterval:     le.Uint32(b[68:72]),
		CreatorOS:        le.Uint32(b[72:76]),
		VersionMajor:     le.Uint32(b[76:80]),
		ReservedUID:      le.Uint16(b[80:82]),
		ReservedGID:      le.Uint16(b[82:84]),
		FirstAvailable:   le.Uint32(b[84:88]),
		InodeSize:        le.Uint16(b[88:90]),
		SuperblockGroup:  le.Uint16(b[90:92]),
		OptionalFeatures: le.Uint32(b[92:96]),
		RequiredFeatures: le.Uint32(b[96:100]),
		ROFeatures:       le.Uint32(b[100:104]),
		Compression:      le.Uint32(b[200:204]),
		PreallocFiles:    b[204],
		PreallocDirs:     b[205],
		JournalInode:     le.Uint32(b[224:228]),
		JournalDevice:    le.Uint32(b[228:232]),
		OrphansInode:     le.Uint32(b[232:236]),
	}
	copy(sb.ID[:], b[104:120])
	copy(sb.VolumeName[:], b[120:136])
	copy(sb.LastMountPath[:], b[136:200])
	copy(sb.JournalID[:], b[208:224])
	return sb, nil
}

// Encode writes the record back into its 1024-byte on-disk form.
func (sb *Superblock) Encode() []byte {
	b := make([]byte, common.SUPERSZ)
	le := binary.LittleEndian
	le.PutUint32(b[0:4], sb.InodesCount)
	le.PutUint32(b[4:8], sb.BlocksCount)
	le.PutUint32(b[8:12], sb.BlocksSuperuser)
	le.PutUint32(b[12:16], sb.FreeBlocks)
	le.PutUint32(b[16:20], sb.FreeInodes)
	le.PutUint32(b[20:24], sb.SuperblockBlock)
	le.PutUint32(b[24:28], sb.LogBlockSize)
	le.PutUint32(b[28:32], sb.LogFragSize)
	le.PutUint32(b[32:36], sb.BlocksPerGroup)
	le.PutUint32(b[36:40], sb.FragsPerGroup)
	le.PutUint32(b[40:44], sb.InodesPerGroup)
	le.PutUint32(b[44:48], sb.LastMountTime)
	le.PutUint32(b[48:52], sb.LastWriteTime)
	le.PutUint16(b[52:54], sb.MountsSinceFsck)
	le.PutUint16(b[54:56], sb.MountsBeforeFsck)
	le.PutUint16(b[56:58], sb.Magic)
	le.PutUint16(b[58:60], sb.State)
	le.PutUint16(b[60:62], sb.OnError)
	le.PutUint16(b[62:64], sb.VersionMinor)
	le.PutUint32(b[64:68], sb.LastFsck)
	le.PutUint32(b[68:72], sb.FsckInterval)
	le.PutUint32(b[72:76], sb.CreatorOS)
	le.PutUint32(b[76:80], sb.VersionMajor)
	le.PutUint16(b[80:82], sb.ReservedUID)
	le.PutUint16(b[82:84], sb.ReservedGID)
	le.PutUint32(b[84:88], sb.FirstAvailable)
	le.PutUint16(b[88:90], sb.InodeSize)
	le.PutUint16(b[90:92], sb.SuperblockGroup)
	le.PutUint32(b[92:96], sb.OptionalFeatures)
	le.PutUint32(b[96:100], sb.RequiredFeatures)
	le.PutUint32(b[100:104], sb.ROFeatures)
	copy(b[104:120], sb.ID[:])
	copy(b[120:136], sb.VolumeName[:])
	copy(b[136:200], sb.LastMountPath[:])
	le.PutUint32(b[200:204], sb.Compression)
	b[204] = sb.PreallocFiles
	b[205] = sb.PreallocDirs
	copy(b[208:224], sb.JournalID[:])
	le.PutUint32(b[224:228], sb.JournalInode)
	le.PutUint32(b[228:232], sb.JournalDevice)
	le.PutUint32(b[232:236], sb.OrphansInode)
	return b
}

// BlockSize returns the volume's block size in bytes, 1024 << LogBlockSize.
func (sb *Superblock) BlockSize() uint64 {
	return 1024 << sb.LogBlockSize
}

// GroupCount returns the number of block groups on the volume.
func (sb *Superblock) GroupCount() uint64 {
	return util.RoundUp(uint64(sb.BlocksCount), uint64(sb.BlocksPerGroup))
}

// InodeRecordSize returns the size of one inode table slot. Revision 0
// volumes always use 128-byte records regardless of the InodeSize field.
func (sb *Superblock) InodeRecordSize() uint64 {
	if sb.VersionMajor >= 1 && sb.InodeSize != 0 {
		return uint64(sb.InodeSize)
	}
	return 128
}
