//go:build linux

package rawstat

import "rawstat/core/device"

const (
	sysFstatat = 293 // newfstatat
	sysStatx   = 379
)

// Stat is struct stat from arch/s390/include/uapi/asm/stat.h (64-bit). The
// block size sits after the timestamps here.
type Stat struct {
	dev       uint64
	ino       uint64
	nlink     uint64
	mode      uint32
	uid       uint32
	gid       uint32
	pad1      uint32
	rdev      uint64
	size      uint64
	atime     uint64
	atimeNsec uint64
	mtime     uint64
	mtimeNsec uint64
	ctime     uint64
	ctimeNsec uint64
	blksize   uint64
	blocks    int64
	unused    [3]uint64
}

func (st *Stat) Dev() device.ID  { return device.FromPacked64(st.dev) }
func (st *Stat) Rdev() device.ID { return device.FromPacked64(st.rdev) }

func (st *Stat) reserved() [][]byte {
	return [][]byte{bytesOf(&st.pad1), bytesOf(&st.unused)}
}
