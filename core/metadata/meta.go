//go:build linux

package metadata

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"rawstat/core/device"
	"rawstat/core/rawstat"
	"rawstat/core/stat"
	"rawstat/core/utils"
)

// FSType is the type of the file system entry.
const (
	FSTypeFile       = "file"
	FSTypeDir        = "dir"
	FSTypeSymlink    = "symlink"
	FSTypeCharDevice = "chardev"
	FSTypeDevice     = "dev"
	FSTypeNamedPipe  = "fifo"
	FSTypeSocket     = "socket"
	FSTypeUnknown    = "unknown"
)

// Source names the call that produced a Meta.
const (
	SourceStatx     = "statx"
	SourceFstatat   = "fstatat"
	SourceReference = "reference"
)

// Options tunes RetrieveFileSystemMeta.
type Options struct {
	// Hash records the MD5 of regular files.
	Hash bool

	// Extended asks statx for birth time, mount id and attributes on top of
	// the basic fields.
	Extended bool
}

func fsTypeOf(ft rawstat.FileType) string {
	switch ft {
	case rawstat.TypeRegular:
		return FSTypeFile
	case rawstat.TypeDirectory:
		return FSTypeDir
	case rawstat.TypeSymlink:
		return FSTypeSymlink
	case rawstat.TypeChar:
		return FSTypeCharDevice
	case rawstat.TypeBlock:
		return FSTypeDevice
	case rawstat.TypeFifo:
		return FSTypeNamedPipe
	case rawstat.TypeSocket:
		return FSTypeSocket
	default:
		return FSTypeUnknown
	}
}

// RetrieveFileSystemMeta reads the metadata of the entry at path with raw
// system calls. Symlinks are not followed.
// Input:
// - path: the path to the entry
// - opts: what to collect on top of the basic fields
// Output:
// - meta: the metadata of the entry
func RetrieveFileSystemMeta(path string, opts Options) (*Meta, error) {
	path, err := filepath.Abs(path) // replace the relative path with the absolute path
	if err != nil {
		return nil, err
	}

	mask := rawstat.MaskBasicStats
	if opts.Extended {
		mask = rawstat.MaskExtended
	}
	info, err := stat.StatxAt(rawstat.AtFdcwd, path, rawstat.AtSymlinkNoFollow, mask)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	meta := &Meta{
		Common: CommonAttrs{
			Path: path,
			Name: filepath.Base(path),
		},
		FileSystem: &FileSystemAttrs{
			Type:    fsTypeOf(info.FileType()),
			Mode:    info.FileMode(),
			ModTime: info.Mtime(),
			UID:     info.UID(),
			GID:     info.GID(),
			Links:   info.Nlink(),
			Inode:   info.Inode(),
			Dev:     info.Dev(),
			Blocks:  info.Blocks(),
			Source:  SourceFstatat,
		},
	}
	if info.Extended() {
		meta.FileSystem.Source = SourceStatx
	}
	if opts.Extended {
		fillExtended(meta.FileSystem, &info)
	}

	switch meta.FileSystem.Type {
	case FSTypeFile:
		meta.Common.Size = uint64(info.Size())
		if opts.Hash {
			meta.Common.Hash, err = utils.MD5Hash(path, info.Inode())
			if err != nil {
				return nil, fmt.Errorf("failed to calculate the md5 hash of the file %s: %w", path, err)
			}
		}
	case FSTypeSymlink:
		meta.FileSystem.LinkTarget, err = os.Readlink(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read the link target of the symlink %s: %w", path, err)
		}
	case FSTypeDevice, FSTypeCharDevice:
		meta.FileSystem.Rdev = info.Rdev()
	case FSTypeUnknown:
		slog.Warn("Unknown file type:", slog.String("Path", path), slog.String("Mode", info.Mode().String()))
	}

	meta.ExtendedAttributes, err = retrieveXAttrs(path)
	if err != nil {
		return nil, err
	}
	return meta, nil
}

func fillExtended(fsAttrs *FileSystemAttrs, info *stat.Info) {
	if btime, ok := info.Btime(); ok {
		fsAttrs.Btime = &btime
	}
	if mntID, ok := info.MountID(); ok {
		fsAttrs.MountID = mntID
	}
	if attrs, ok := info.Attributes(); ok {
		fsAttrs.Attributes = attrs.Names()
	}
}

// Meta is the metadata of one file system entry.
type Meta struct {
	Common     CommonAttrs
	FileSystem *FileSystemAttrs

	ExtendedAttributes ExtendedAttributes
}

// CommonAttrs captures attributes that identify an entry independently of
// the file system it lives on.
type CommonAttrs struct {
	// Path is the absolute source path including the file name. Replacing the
	// source root yields the path in a clone.
	Path string

	// Name is the file name without the directory path.
	Name string

	// Size is the size of a regular file in bytes.
	Size uint64

	// Hash is the hex MD5 of a regular file, when requested. MD5 only guards
	// against accidental corruption here.
	Hash string `json:",omitempty"`
}

// FileSystemAttrs captures what the kernel reports about an entry.
type FileSystemAttrs struct {
	// Type is one of file, dir, symlink, chardev, dev, fifo, socket or unknown.
	Type string

	// Mode holds the permission, setuid, setgid, sticky and type bits.
	Mode os.FileMode

	ModTime rawstat.Timestamp

	UID uint32
	GID uint32

	// Links is the number of hard links.
	Links uint64

	// LinkTarget is the target of a symbolic link.
	LinkTarget string `json:",omitempty"`

	Inode uint64

	// Dev is the device holding the entry; Rdev is the device a device node
	// stands for.
	Dev  device.ID
	Rdev device.ID `json:",omitzero"`

	// Blocks counts allocated 512-byte units.
	Blocks int64

	// Source is statx, fstatat or reference.
	Source string

	// Only filled for extended retrievals, and only when the kernel and the
	// file system report them.
	Btime      *rawstat.Timestamp `json:",omitempty"`
	MountID    uint64             `json:",omitempty"`
	Attributes []string           `json:",omitempty"`
}

// ExtendedAttribute captures the key-value pair of an extended attribute.
type ExtendedAttribute struct {
	Key   string
	Value []byte
}

type ExtendedAttributes []ExtendedAttribute
