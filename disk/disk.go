package disk

// Sector is a 1024-byte buffer
type Sector = []byte

// SectorSize is the granularity of device access. It is the smallest
// block size a volume can use, so every volume block is a whole number of
// sectors.
const SectorSize uint64 = 1024

// Disk provides access to a logical sector-based device
type Disk interface {
	// Read reads a device sector by address
	//
	// Expects a < Size().
	Read(a uint64) (Sector, error)

	// ReadTo reads the sector at a and stores the result in b
	//
	// Expects a < Size().
	ReadTo(a uint64, b Sector) error

	// Write updates a device sector by address
	//
	// Expects a < Size().
	Write(a uint64, v Sector) error

	// Size reports how big the device is, in sectors
	Size() (uint64, error)

	// Barrier ensures data is persisted.
	//
	// When it returns, all outstanding writes are guaranteed to be durably
	// on disk
	Barrier() error

	// Close releases any resources used by the device and makes it
	// unusable.
	Close() error
}
