//go:build linux

package stat

import (
	"io/fs"

	"rawstat/core/device"
	"rawstat/core/rawstat"
)

// Info is the answer to one query, backed by whichever record the kernel
// filled. The zero Info is a legacy record of zeros.
type Info struct {
	extended bool
	st       rawstat.Stat
	stx      rawstat.Statx
}

// Extended reports whether statx answered the query.
func (i *Info) Extended() bool { return i.extended }

// Legacy returns the legacy record when fstatat answered.
func (i *Info) Legacy() (*rawstat.Stat, bool) {
	if i.extended {
		return nil, false
	}
	return &i.st, true
}

// Statx returns the statx record when statx answered.
func (i *Info) Statx() (*rawstat.Statx, bool) {
	if !i.extended {
		return nil, false
	}
	return &i.stx, true
}

// Mask reports the filled fields. The legacy call always fills the basic set.
func (i *Info) Mask() rawstat.Mask {
	if i.extended {
		return i.stx.Mask()
	}
	return rawstat.MaskBasicStats
}

func (i *Info) Dev() device.ID {
	if i.extended {
		return i.stx.Dev()
	}
	return i.st.Dev()
}

func (i *Info) Rdev() device.ID {
	if i.extended {
		return i.stx.Rdev()
	}
	return i.st.Rdev()
}

func (i *Info) Inode() uint64 {
	if i.extended {
		return i.stx.Ino()
	}
	return i.st.Ino()
}

func (i *Info) Nlink() uint64 {
	if i.extended {
		return i.stx.Nlink()
	}
	return i.st.Nlink()
}

func (i *Info) UID() uint32 {
	if i.extended {
		return i.stx.UID()
	}
	return i.st.UID()
}

func (i *Info) GID() uint32 {
	if i.extended {
		return i.stx.GID()
	}
	return i.st.GID()
}

func (i *Info) Mode() rawstat.Mode {
	if i.extended {
		return i.stx.Mode()
	}
	return i.st.Mode()
}

func (i *Info) FileType() rawstat.FileType { return i.Mode().Type() }

func (i *Info) FileMode() fs.FileMode { return i.Mode().FileMode() }

func (i *Info) IsDir() bool     { return i.FileType() == rawstat.TypeDirectory }
func (i *Info) IsRegular() bool { return i.FileType() == rawstat.TypeRegular }
func (i *Info) IsSymlink() bool { return i.FileType() == rawstat.TypeSymlink }

func (i *Info) Size() int64 {
	if i.extended {
		return i.stx.Size()
	}
	return i.st.Size()
}

func (i *Info) BlockSize() int64 {
	if i.extended {
		return i.stx.BlockSize()
	}
	return i.st.BlockSize()
}

// Blocks counts 512-byte units.
func (i *Info) Blocks() int64 {
	if i.extended {
		return i.stx.Blocks()
	}
	return i.st.Blocks()
}

func (i *Info) Atime() rawstat.Timestamp {
	if i.extended {
		return i.stx.Atime()
	}
	return i.st.Atime()
}

func (i *Info) Mtime() rawstat.Timestamp {
	if i.extended {
		return i.stx.Mtime()
	}
	return i.st.Mtime()
}

func (i *Info) Ctime() rawstat.Timestamp {
	if i.extended {
		return i.stx.Ctime()
	}
	return i.st.Ctime()
}

// Btime returns the creation time, ok only when statx reported one.
func (i *Info) Btime() (ts rawstat.Timestamp, ok bool) {
	if !i.extended || !i.stx.Mask().Has(rawstat.MaskBtime) {
		return rawstat.Timestamp{}, false
	}
	return i.stx.Btime(), true
}

// Attributes returns the statx attribute bits. The legacy record has none.
func (i *Info) Attributes() (rawstat.Attrs, bool) {
	if !i.extended {
		return rawstat.Attrs{}, false
	}
	return i.stx.Attributes(), true
}

// MountID returns the mount id, ok only when statx reported one.
func (i *Info) MountID() (uint64, bool) {
	if !i.extended || !i.stx.Mask().Has(rawstat.MaskMountID) {
		return 0, false
	}
	return i.stx.MountID(), true
}

func (i *Info) String() string {
	if i.extended {
		return i.stx.String()
	}
	return i.st.String()
}
