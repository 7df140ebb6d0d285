package fs

import (
	"fmt"
	"strings"

	"github.com/bunnybunbun37204/SnowflakeOS/common"
	"github.com/bunnybunbun37204/SnowflakeOS/layout"
	"github.com/bunnybunbun37204/SnowflakeOS/util"
)

// Lookup resolves an absolute slash-separated path to an inode number.
// "/" is the root directory inode. Relative paths are rejected with
// ErrInvalidPath; a missing component fails with ErrNotExist.
func (fsys *FileSys) Lookup(path string) (common.Inum, error) {
	if len(path) == 0 || path[0] != '/' {
		return common.NULLINUM, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	if path == "/" {
		return common.ROOTINUM, nil
	}

	cur := common.ROOTINUM
	for _, seg := range strings.Split(path[1:], "/") {
		if seg == "" {
			continue
		}
		dir, err := fsys.GetInode(cur)
		if err != nil {
			return common.NULLINUM, err
		}
		next, err := fsys.dirLookup(dir, seg)
		if err != nil {
			return common.NULLINUM, fmt.Errorf("%q: %w", path, err)
		}
		cur = next
	}
	return cur, nil
}

// dirLookup scans dir's entries for an exact name match. An entry with a
// zero inode or a zero type tag marks the end of the usable entries.
func (fsys *FileSys) dirLookup(dir *layout.Inode, name string) (common.Inum, error) {
	for off := uint64(0); ; {
		e, err := fsys.ReadDirEntry(dir, off)
		if err != nil {
			return common.NULLINUM, err
		}
		if e == nil || e.Inum == 0 || e.FileType == layout.FTUnknown {
			break
		}
		if e.Name == name {
			util.DPrintf(10, "dirLookup: %q -> inode %d\n", name, e.Inum)
			return common.Inum(e.Inum), nil
		}
		off += uint64(e.RecLen)
	}
	return common.NULLINUM, fmt.Errorf("%w: %q", ErrNotExist, name)
}
