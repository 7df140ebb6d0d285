package layout

import (
	"encoding/binary"
	"fmt"
)

// DirentHeaderSize is the fixed part of a directory entry, preceding the
// inline name bytes.
const DirentHeaderSize uint64 = 8

// Directory entry file-type tags. FTUnknown doubles as the
// end-of-usable-entries sentinel in a directory's data.
const (
	FTUnknown uint8 = iota
	FTRegular
	FTDir
	FTChar
	FTBlock
	FTFIFO
	FTSocket
	FTSymlink
)

// DirEntry is one variable-length record inside a directory's data.
// RecLen covers the header and the name (plus alignment padding) and is
// the amount to advance to reach the next entry.
type DirEntry struct {
	Inum     uint32
	RecLen   uint16
	NameLen  uint8
	FileType uint8
	Name     string
}

// DecodeDirentHeader decodes only the fixed header, leaving Name empty.
func DecodeDirentHeader(b []byte) (DirEntry, error) {
	if uint64(len(b)) < DirentHeaderSize {
		return DirEntry{}, fmt.Errorf("directory entry header truncated: %d bytes", len(b))
	}
	le := binary.LittleEndian
	return DirEntry{
		Inum:     le.Uint32(b[0:4]),
		RecLen:   le.Uint16(b[4:6]),
		NameLen:  b[6],
		FileType: b[7],
	}, nil
}

// DecodeDirent decodes a full record, including the inline name. b must
// hold the entry's RecLen bytes.
func DecodeDirent(b []byte) (DirEntry, error) {
	e, err := DecodeDirentHeader(b)
	if err != nil {
		return DirEntry{}, err
	}
	if uint64(len(b)) < DirentHeaderSize+uint64(e.NameLen) {
		return DirEntry{}, fmt.Errorf("directory entry name truncated: %d bytes, name length %d",
			len(b), e.NameLen)
	}
	e.Name = string(b[DirentHeaderSize : DirentHeaderSize+uint64(e.NameLen)])
	return e, nil
}

// Encode writes the record into RecLen on-disk bytes. RecLen must be at
// least large enough to cover the header and the name.
func (e DirEntry) Encode() ([]byte, error) {
	if uint64(e.RecLen) < DirentHeaderSize+uint64(len(e.Name)) {
		return nil, fmt.Errorf("entry size %d too small for name %q", e.RecLen, e.Name)
	}
	if int(e.NameLen) != len(e.Name) {
		return nil, fmt.Errorf("name length %d does not match name %q", e.NameLen, e.Name)
	}
	b := make([]byte, e.RecLen)
	le := binary.LittleEndian
	le.PutUint32(b[0:4], e.Inum)
	le.PutUint16(b[4:6], e.RecLen)
	b[6] = e.NameLen
	b[7] = e.FileType
	copy(b[DirentHeaderSize:], e.Name)
	return b, nil
}
