//go:build linux

// Package rawstat holds the kernel's own stat and statx records, byte for
// byte, and the two calls that fill them.
//
// Stat has one layout per architecture family; Statx is shared. Both keep
// their padding as named fields so a fresh record is fully zeroed before the
// kernel writes into it.
package rawstat

import (
	"fmt"
	"io/fs"
	"runtime"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// HasLegacy reports whether the legacy fstatat call exists on this
// architecture. loong64 only has statx.
const HasLegacy = runtime.GOARCH != "loong64"

// Flags accepted by Fstatat and StatxAt.
const (
	AtFdcwd           = unix.AT_FDCWD
	AtSymlinkNoFollow = unix.AT_SYMLINK_NOFOLLOW
	AtNoAutomount     = unix.AT_NO_AUTOMOUNT
	AtEmptyPath       = unix.AT_EMPTY_PATH
)

// Timestamp is a kernel time value. Nsec is always below one second.
type Timestamp struct {
	Sec  int64
	Nsec uint32
}

func (t Timestamp) Time() time.Time { return time.Unix(t.Sec, int64(t.Nsec)) }

func (t Timestamp) IsZero() bool { return t.Sec == 0 && t.Nsec == 0 }

// Compare orders timestamps chronologically.
func (t Timestamp) Compare(other Timestamp) int {
	switch {
	case t.Sec < other.Sec:
		return -1
	case t.Sec > other.Sec:
		return 1
	case t.Nsec < other.Nsec:
		return -1
	case t.Nsec > other.Nsec:
		return 1
	}
	return 0
}

func (t Timestamp) String() string { return fmt.Sprintf("%d.%09d", t.Sec, t.Nsec) }

// FileType is the S_IFMT part of a mode.
type FileType uint8

const (
	TypeUnknown FileType = iota
	TypeRegular
	TypeDirectory
	TypeSymlink
	TypeBlock
	TypeChar
	TypeFifo
	TypeSocket
)

var fileTypes = [...]struct {
	bits uint16
	name string
}{
	TypeUnknown:   {0, "unknown"},
	TypeRegular:   {unix.S_IFREG, "regular"},
	TypeDirectory: {unix.S_IFDIR, "directory"},
	TypeSymlink:   {unix.S_IFLNK, "symlink"},
	TypeBlock:     {unix.S_IFBLK, "block"},
	TypeChar:      {unix.S_IFCHR, "char"},
	TypeFifo:      {unix.S_IFIFO, "fifo"},
	TypeSocket:    {unix.S_IFSOCK, "socket"},
}

func (t FileType) String() string {
	if int(t) < len(fileTypes) {
		return fileTypes[t].name
	}
	return fmt.Sprintf("FileType(%d)", uint8(t))
}

// Bits returns the S_IFMT value of t, 0 for TypeUnknown.
func (t FileType) Bits() uint16 {
	if int(t) < len(fileTypes) {
		return fileTypes[t].bits
	}
	return 0
}

// Permission is one rwx triplet.
type Permission uint8

const (
	PermExec  Permission = 0o1
	PermWrite Permission = 0o2
	PermRead  Permission = 0o4
)

func (p Permission) Has(q Permission) bool { return p&q == q }

// Mode is the st_mode word: file type, special bits and permissions.
type Mode uint16

func (m Mode) Type() FileType {
	bits := uint16(m) & unix.S_IFMT
	for t, ft := range fileTypes {
		if t != int(TypeUnknown) && ft.bits == bits {
			return FileType(t)
		}
	}
	return TypeUnknown
}

// Perm returns the low nine permission bits.
func (m Mode) Perm() uint16 { return uint16(m) & 0o777 }

func (m Mode) Owner() Permission { return Permission((m >> 6) & 0o7) }
func (m Mode) Group() Permission { return Permission((m >> 3) & 0o7) }
func (m Mode) Other() Permission { return Permission(m & 0o7) }

func (m Mode) Setuid() bool { return uint16(m)&unix.S_ISUID != 0 }
func (m Mode) Setgid() bool { return uint16(m)&unix.S_ISGID != 0 }
func (m Mode) Sticky() bool { return uint16(m)&unix.S_ISVTX != 0 }

// FileMode converts m into the io/fs representation.
func (m Mode) FileMode() fs.FileMode {
	fm := fs.FileMode(m.Perm())
	switch m.Type() {
	case TypeDirectory:
		fm |= fs.ModeDir
	case TypeSymlink:
		fm |= fs.ModeSymlink
	case TypeBlock:
		fm |= fs.ModeDevice
	case TypeChar:
		fm |= fs.ModeDevice | fs.ModeCharDevice
	case TypeFifo:
		fm |= fs.ModeNamedPipe
	case TypeSocket:
		fm |= fs.ModeSocket
	case TypeUnknown:
		fm |= fs.ModeIrregular
	}
	if m.Setuid() {
		fm |= fs.ModeSetuid
	}
	if m.Setgid() {
		fm |= fs.ModeSetgid
	}
	if m.Sticky() {
		fm |= fs.ModeSticky
	}
	return fm
}

// String renders m like ls -l, e.g. "drwxr-xr-t".
func (m Mode) String() string {
	var b [10]byte
	b[0] = "?-dlbcps"[m.Type()]
	triplet := func(dst []byte, p Permission, special bool, on, off byte) {
		dst[0], dst[1], dst[2] = '-', '-', '-'
		if p.Has(PermRead) {
			dst[0] = 'r'
		}
		if p.Has(PermWrite) {
			dst[1] = 'w'
		}
		switch {
		case special && p.Has(PermExec):
			dst[2] = on
		case special:
			dst[2] = off
		case p.Has(PermExec):
			dst[2] = 'x'
		}
	}
	triplet(b[1:4], m.Owner(), m.Setuid(), 's', 'S')
	triplet(b[4:7], m.Group(), m.Setgid(), 's', 'S')
	triplet(b[7:10], m.Other(), m.Sticky(), 't', 'T')
	return string(b[:])
}

// bytesOf views the memory of *p as bytes.
func bytesOf[T any](p *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), unsafe.Sizeof(*p))
}
