//go:build linux && (arm64 || riscv64 || loong64)

package rawstat

import "rawstat/core/device"

// asm-generic numbers. loong64 never issues sysFstatat, see HasLegacy.
const (
	sysFstatat = 79
	sysStatx   = 291
)

// Stat is struct stat from include/uapi/asm-generic/stat.h.
type Stat struct {
	dev       uint64
	ino       uint64
	mode      uint32
	nlink     uint32
	uid       uint32
	gid       uint32
	rdev      uint64
	pad1      uint64
	size      int64
	blksize   int32
	pad2      int32
	blocks    int64
	atime     int64
	atimeNsec uint64
	mtime     int64
	mtimeNsec uint64
	ctime     int64
	ctimeNsec uint64
	unused    [2]uint32
}

func (st *Stat) Dev() device.ID  { return device.FromPacked64(st.dev) }
func (st *Stat) Rdev() device.ID { return device.FromPacked64(st.rdev) }

func (st *Stat) reserved() [][]byte {
	return [][]byte{bytesOf(&st.pad1), bytesOf(&st.pad2), bytesOf(&st.unused)}
}
