//go:build linux

package rawstat

import "rawstat/core/device"

const (
	sysFstatat = 300 // fstatat64
	sysStatx   = 383
)

// Stat is struct stat64 for i386. ino32 is the truncated inode the kernel
// still fills for old binaries; Ino reads the full one at the end.
type Stat struct {
	dev       uint64
	pad0      [4]byte
	ino32     uint32
	mode      uint32
	nlink     uint32
	uid       uint32
	gid       uint32
	rdev      uint64
	pad3      [4]byte
	size      int64
	blksize   uint32
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
	return [][]byte{bytesOf(&st.pad0), bytesOf(&st.pad3)}
}
