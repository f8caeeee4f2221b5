//go:build linux

package rawstat

import "rawstat/core/device"

const (
	sysFstatat = 327 // fstatat64
	sysStatx   = 397
)

// Stat is struct stat64 for EABI arm. The C layout aligns 64-bit fields to
// eight bytes while Go aligns them to four, so pad3 and pad4 spell out the
// gaps the C compiler inserts.
type Stat struct {
	dev       uint64
	pad0      [4]byte
	ino32     uint32
	mode      uint32
	nlink     uint32
	uid       uint32
	gid       uint32
	rdev      uint64
	pad3      [8]byte
	size      int64
	blksize   uint32
	pad4      [4]byte
	blocks    uint64
	atime     int32
	atimeNsec uint32
	mtime     int32
	mtimeNsec uint32
	ctime     int32
	ctimeNsec uint32
	ino       uint64
}

func (st *Stat) Dev() device.ID  { return device.FromPacked64(st.dev) }
func (st *Stat) Rdev() device.ID { return device.FromPacked64(st.rdev) }

func (st *Stat) reserved() [][]byte {
	return [][]byte{bytesOf(&st.pad0), bytesOf(&st.pad3), bytesOf(&st.pad4)}
}
