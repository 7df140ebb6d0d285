package disk

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

var _ Disk = (*fileDisk)(nil)

type fileDisk struct {
	fd         int
	numSectors uint64
}

// NewFileDisk opens (creating if necessary) a device backed by a regular
// file, sized to numSectors.
func NewFileDisk(path string, numSectors uint64) (fileDisk, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT, 0666)
	if err != nil {
		return fileDisk{}, err
	}
	var stat unix.Stat_t
	err = unix.Fstat(fd, &stat)
	if err != nil {
		return fileDisk{}, err
	}
	if (stat.Mode&unix.S_IFREG) != 0 && uint64(stat.Size) != numSectors*SectorSize {
		err = unix.Ftruncate(fd, int64(numSectors*SectorSize))
		if err != nil {
			return fileDisk{}, err
		}
	}
	return fileDisk{fd, numSectors}, nil
}

// OpenFileDisk opens an existing image file and derives the device size
// from the file size, rounding down to whole sectors.
func OpenFileDisk(path string) (fileDisk, error) {
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return fileDisk{}, err
	}
	var stat unix.Stat_t
	err = unix.Fstat(fd, &stat)
	if err != nil {
		return fileDisk{}, err
	}
	return fileDisk{fd, uint64(stat.Size) / SectorSize}, nil
}

func (d fileDisk) ReadTo(a uint64, buf Sector) error {
	if uint64(len(buf)) != SectorSize {
		return fmt.Errorf("buffer is not sector-sized (%d bytes)", len(buf))
	}
	if a >= d.numSectors {
		return fmt.Errorf("out-of-bounds read at sector %v", a)
	}
	_, err := unix.Pread(d.fd, buf, int64(a*SectorSize))
	if err != nil {
		return fmt.Errorf("read failed: %w", err)
	}
	return nil
}

func (d fileDisk) Read(a uint64) (Sector, error) {
	buf := make([]byte, SectorSize)
	err := d.ReadTo(a, buf)
	return buf, err
}

func (d fileDisk) Write(a uint64, v Sector) error {
	if uint64(len(v)) != SectorSize {
		return fmt.Errorf("v is not sector-sized (%d bytes)", len(v))
	}
	if a >= d.numSectors {
		return fmt.Errorf("out-of-bounds write at sector %v", a)
	}
	_, err := unix.Pwrite(d.fd, v, int64(a*SectorSize))
	if err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return nil
}

func (d fileDisk) Size() (uint64, error) {
	return d.numSectors, nil
}

func (d fileDisk) Barrier() error {
	// NOTE: on macOS, this flushes to the drive but doesn't actually issue
	// a disk barrier; see https://golang.org/src/internal/poll/fd_fsync_darwin.go
	// for more details. The correct replacement is to issue a fcntl syscall
	// with cmd F_FULLFSYNC.
	err := unix.Fsync(d.fd)
	if err != nil {
		return fmt.Errorf("file sync failed: %w", err)
	}
	return nil
}

func (d fileDisk) Close() error {
	return unix.Close(d.fd)
}

/////////////////////////
/////////////////////////

var _ Disk = (*memDisk)(nil)

type memDisk struct {
	l    *sync.RWMutex
	data []byte
}

// NewMemDisk returns a zeroed in-memory device of numSectors sectors.
func NewMemDisk(numSectors uint64) memDisk {
	data := make([]byte, numSectors*SectorSize)
	return memDisk{l: new(sync.RWMutex), data: data}
}

// FromImage wraps a volume image already resident in memory. The device
// shares the caller's buffer: writes through the device mutate img, and
// trailing bytes that do not fill a whole sector are not addressable.
func FromImage(img []byte) memDisk {
	return memDisk{l: new(sync.RWMutex), data: img}
}

func (d memDisk) ReadTo(a uint64, buf Sector) error {
	if uint64(len(buf)) != SectorSize {
		return fmt.Errorf("buffer is not sector-sized (%d bytes)", len(buf))
	}
	d.l.RLock()
	defer d.l.RUnlock()
	if a >= uint64(len(d.data))/SectorSize {
		return fmt.Errorf("out-of-bounds read at sector %v", a)
	}
	copy(buf, d.data[a*SectorSize:(a+1)*SectorSize])
	return nil
}

func (d memDisk) Read(a uint64) (Sector, error) {
	buf := make(Sector, SectorSize)
	err := d.ReadTo(a, buf)
	return buf, err
}

func (d memDisk) Write(a uint64, v Sector) error {
	if uint64(len(v)) != SectorSize {
		return fmt.Errorf("v is not sector-sized (%d bytes)", len(v))
	}
	d.l.Lock()
	defer d.l.Unlock()
	if a >= uint64(len(d.data))/SectorSize {
		return fmt.Errorf("out-of-bounds write at sector %v", a)
	}
	copy(d.data[a*SectorSize:(a+1)*SectorSize], v)
	return nil
}

func (d memDisk) Size() (uint64, error) {
	// this never changes so we assume it's safe to run lock-free
	return uint64(len(d.data)) / SectorSize, nil
}

func (d memDisk) Barrier() error { return nil }

func (d memDisk) Close() error { return nil }
