//go:build linux && (ppc64 || ppc64le)

package rawstat

import "rawstat/core/device"

const (
	sysFstatat = 291 // newfstatat
	sysStatx   = 383
)

// Stat is struct stat from arch/powerpc/include/uapi/asm/stat.h (64-bit).
type Stat struct {
	dev       uint64
	ino       uint64
	nlink     uint64
	mode      uint32
	uid       uint32
	gid       uint32
	pad2      int32
	rdev      uint64
	size      int64
	blksize   uint64
	blocks    uint64
	atime     uint64
	atimeNsec uint64
	mtime     uint64
	mtimeNsec uint64
	ctime     uint64
	ctimeNsec uint64
	unused    [3]uint64
}

func (st *Stat) Dev() device.ID  { return device.FromPacked64(st.dev) }
func (st *Stat) Rdev() device.ID { return device.FromPacked64(st.rdev) }

func (st *Stat) reserved() [][]byte {
	return [][]byte{bytesOf(&st.pad2), bytesOf(&st.unused)}
}
