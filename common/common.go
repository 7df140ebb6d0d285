package common

// Inum is a 1-based inode number. 0 is the reserved "no inode" value.
type Inum uint64

// Bnum is a physical block number on a volume.
type Bnum = uint64

const (
	NULLINUM Inum = 0
	ROOTINUM Inum = 2
	NULLBNUM Bnum = 0
)

const (
	// SUPERMAGIC is the signature every valid superblock carries.
	SUPERMAGIC uint16 = 0xEF53

	// SUPEROFF is the fixed byte offset of the superblock on the volume,
	// and SUPERSZ the size of the on-disk record. The group descriptor
	// array immediately follows the superblock's reserved region, at
	// GDOFF.
	SUPEROFF uint64 = 1024
	SUPERSZ  uint64 = 1024
	GDOFF    uint64 = 2048

	// NDIRECT is the number of direct block pointers in an inode.
	NDIRECT uint64 = 12
)
