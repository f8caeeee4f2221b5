//go:build linux

package rawstat

import "rawstat/core/device"

const (
	sysFstatat = 262 // newfstatat
	sysStatx   = 332
)

// Stat is struct stat from arch/x86/include/uapi/asm/stat.h.
type Stat struct {
	dev       uint64
	ino       uint64
	nlink     uint64
	mode      uint32
	uid       uint32
	gid       uint32
	pad0      int32
	rdev      uint64
	size      int64
	blksize   int64
	blocks    int64
	atime     int64
	atimeNsec uint64
	mtime     int64
	mtimeNsec uint64
	ctime     int64
	ctimeNsec uint64
	unused    [3]int64
}

func (st *Stat) Dev() device.ID  { return device.FromPacked64(st.dev) }
func (st *Stat) Rdev() device.ID { return device.FromPacked64(st.rdev) }

func (st *Stat) reserved() [][]byte {
	return [][]byte{bytesOf(&st.pad0), bytesOf(&st.unused)}
}
