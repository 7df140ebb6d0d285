package main

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/urfave/cli/v2"

	"github.com/bunnybunbun37204/SnowflakeOS/fs"
	"github.com/bunnybunbun37204/SnowflakeOS/layout"
	"github.com/bunnybunbun37204/SnowflakeOS/util"
)

const envVarPrefix = "EXT2"

type config struct {
	Image string `envconfig:"EXT2_IMAGE"`
	Debug uint64 `envconfig:"EXT2_DEBUG" default:"0"`
}

func main() {
	var cfg config
	if err := envconfig.Process(envVarPrefix, &cfg); err != nil {
		log.Fatal(err)
	}

	app := cli.App{
		Name:  "ext2",
		Usage: "inspect and exercise an ext2 volume image",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "image",
				Aliases: []string{"i"},
				Usage:   "path to the volume image",
				Value:   cfg.Image,
			},
			&cli.Uint64Flag{
				Name:  "debug",
				Usage: "log verbosity",
				Value: cfg.Debug,
			},
		},
		Before: func(ctx *cli.Context) error {
			util.Debug = ctx.Uint64("debug")
			return nil
		},
		Commands: []*cli.Command{{
			Name:        "info",
			Description: "print the volume's superblock and group descriptors",
			Action:      infoAction,
		}, {
			Name:        "ls",
			ArgsUsage:   "PATH",
			Description: "list the entries of a directory",
			Action:      lsAction,
		}, {
			Name:        "cat",
			ArgsUsage:   "PATH",
			Description: "write a file's contents to stdout",
			Action:      catAction,
		}, {
			Name:        "alloc",
			Description: "allocate free data blocks and persist the updated bitmaps",
			Flags: []cli.Flag{
				&cli.Uint64Flag{
					Name:  "count",
					Usage: "how many blocks to allocate",
					Value: 1,
				},
			},
			Action: allocAction,
		}},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadVolume reads the whole image into memory and mounts it. The
// returned buffer is the mounted volume's backing store: mutations
// (allocations) land in it and can be written back to path.
func loadVolume(ctx *cli.Context) (*fs.FileSys, []byte, string, error) {
	path := ctx.String("image")
	if path == "" {
		return nil, nil, "", fmt.Errorf("no volume image: pass --image or set %s_IMAGE", envVarPrefix)
	}
	img, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, "", err
	}
	fsys, err := fs.Mount(img)
	if err != nil {
		return nil, nil, "", fmt.Errorf("mounting %s: %w", path, err)
	}
	return fsys, img, path, nil
}

func cstr(b []byte) string {
	return string(bytes.TrimRight(b, "\x00"))
}

func infoAction(ctx *cli.Context) error {
	fsys, _, _, err := loadVolume(ctx)
	if err != nil {
		return err
	}
	sb := fsys.Superblock()
	fmt.Printf("volume id:        %s\n", sb.ID)
	fmt.Printf("volume name:      %q\n", cstr(sb.VolumeName[:]))
	fmt.Printf("block size:       %d\n", fsys.BlockSize())
	fmt.Printf("blocks:           %d (%d free)\n", sb.BlocksCount, sb.FreeBlocks)
	fmt.Printf("inodes:           %d (%d free)\n", sb.InodesCount, sb.FreeInodes)
	fmt.Printf("blocks per group: %d\n", sb.BlocksPerGroup)
	fmt.Printf("inodes per group: %d\n", sb.InodesPerGroup)
	fmt.Printf("inode size:       %d\n", sb.InodeRecordSize())
	fmt.Printf("revision:         %d.%d\n", sb.VersionMajor, sb.VersionMinor)
	fmt.Printf("first available:  %d\n", sb.FirstAvailable)
	if sb.JournalInode != 0 {
		fmt.Printf("journal:          inode %d, id %s\n", sb.JournalInode, sb.JournalID)
	}
	for i, gd := range fsys.GroupDescriptors() {
		fmt.Printf("group %2d: block bitmap %d, inode bitmap %d, inode table %d, %d dirs\n",
			i, gd.BlockBitmap, gd.InodeBitmap, gd.InodeTable, gd.UsedDirs)
	}
	return nil
}

func typeChar(ft uint8) byte {
	switch ft {
	case layout.FTDir:
		return 'd'
	case layout.FTSymlink:
		return 'l'
	case layout.FTRegular:
		return '-'
	default:
		return '?'
	}
}

func lsAction(ctx *cli.Context) error {
	fsys, _, _, err := loadVolume(ctx)
	if err != nil {
		return err
	}
	path := ctx.Args().First()
	if path == "" {
		path = "/"
	}
	inum, err := fsys.Lookup(path)
	if err != nil {
		return err
	}
	dir, err := fsys.GetInode(inum)
	if err != nil {
		return err
	}
	if !dir.IsDir() {
		return fmt.Errorf("%s: not a directory", path)
	}
	for off := uint64(0); ; {
		e, err := fsys.ReadDirEntry(dir, off)
		if err != nil {
			return err
		}
		if e == nil || e.Inum == 0 || e.FileType == layout.FTUnknown {
			return nil
		}
		fmt.Printf("%c %8d  %s\n", typeChar(e.FileType), e.Inum, e.Name)
		off += uint64(e.RecLen)
	}
}

func catAction(ctx *cli.Context) error {
	fsys, _, _, err := loadVolume(ctx)
	if err != nil {
		return err
	}
	path := ctx.Args().First()
	if path == "" {
		return fmt.Errorf("usage: cat PATH")
	}
	inum, err := fsys.Lookup(path)
	if err != nil {
		return err
	}
	ino, err := fsys.GetInode(inum)
	if err != nil {
		return err
	}
	buf := make([]byte, ino.Size)
	n, err := fsys.ReadInode(ino, 0, buf)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(buf[:n])
	return err
}

func allocAction(ctx *cli.Context) error {
	fsys, img, path, err := loadVolume(ctx)
	if err != nil {
		return err
	}
	count := ctx.Uint64("count")
	for i := uint64(0); i < count; i++ {
		blk, err := fsys.AllocBlock()
		if err != nil {
			return err
		}
		fmt.Printf("allocated block %d\n", blk)
	}
	return os.WriteFile(path, img, 0666)
}
