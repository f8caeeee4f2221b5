//go:build linux

package metadata

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"rawstat/core/device"
	"rawstat/core/rawstat"
)

// refStat is the x/sys view of an entry, used as an independent reference
// for what the raw calls report.
type refStat unix.Stat_t

func (s *refStat) dev() device.ID  { return device.FromPacked64(uint64(s.Dev)) }
func (s *refStat) rdev() device.ID { return device.FromPacked64(uint64(s.Rdev)) }
func (s *refStat) ino() uint64     { return uint64(s.Ino) }
func (s *refStat) nlink() uint64   { return uint64(s.Nlink) }
func (s *refStat) size() int64     { return int64(s.Size) }
func (s *refStat) blocks() int64   { return int64(s.Blocks) }

func (s *refStat) mtime() rawstat.Timestamp {
	return rawstat.Timestamp{Sec: int64(s.Mtim.Sec), Nsec: uint32(s.Mtim.Nsec)}
}

// typeAndMode decodes st_mode without going through rawstat.Mode.
func (s *refStat) typeAndMode() (string, os.FileMode) {
	mode := os.FileMode(s.Mode & 0o777)
	if s.Mode&unix.S_ISUID != 0 {
		mode |= os.ModeSetuid
	}
	if s.Mode&unix.S_ISGID != 0 {
		mode |= os.ModeSetgid
	}
	if s.Mode&unix.S_ISVTX != 0 {
		mode |= os.ModeSticky
	}

	switch s.Mode & unix.S_IFMT {
	case unix.S_IFREG:
		return FSTypeFile, mode
	case unix.S_IFDIR:
		return FSTypeDir, mode | os.ModeDir
	case unix.S_IFLNK:
		return FSTypeSymlink, mode | os.ModeSymlink
	case unix.S_IFCHR:
		return FSTypeCharDevice, mode | os.ModeDevice | os.ModeCharDevice
	case unix.S_IFBLK:
		return FSTypeDevice, mode | os.ModeDevice
	case unix.S_IFIFO:
		return FSTypeNamedPipe, mode | os.ModeNamedPipe
	case unix.S_IFSOCK:
		return FSTypeSocket, mode | os.ModeSocket
	default:
		return FSTypeUnknown, mode | os.ModeIrregular
	}
}

// RetrieveReferenceMeta reads the metadata of the entry at path through
// golang.org/x/sys instead of the raw calls. Extended attributes and hashes
// are not collected.
// Input:
// - path: the path to the entry
// Output:
// - meta: the metadata of the entry, with Source set to reference
func RetrieveReferenceMeta(path string) (*Meta, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	var st unix.Stat_t
	if err = unix.Lstat(path, &st); err != nil {
		return nil, fmt.Errorf("failed to lstat %s: %w", path, err)
	}
	s := (*refStat)(&st)

	fsType, mode := s.typeAndMode()
	meta := &Meta{
		Common: CommonAttrs{
			Path: path,
			Name: filepath.Base(path),
		},
		FileSystem: &FileSystemAttrs{
			Type:    fsType,
			Mode:    mode,
			ModTime: s.mtime(),
			UID:     s.Uid,
			GID:     s.Gid,
			Links:   s.nlink(),
			Inode:   s.ino(),
			Dev:     s.dev(),
			Blocks:  s.blocks(),
			Source:  SourceReference,
		},
	}

	switch fsType {
	case FSTypeFile:
		meta.Common.Size = uint64(s.size())
	case FSTypeSymlink:
		meta.FileSystem.LinkTarget, err = os.Readlink(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read the link target of the symlink %s: %w", path, err)
		}
	case FSTypeDevice, FSTypeCharDevice:
		meta.FileSystem.Rdev = s.rdev()
	}
	return meta, nil
}
