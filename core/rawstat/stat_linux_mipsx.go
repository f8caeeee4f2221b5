//go:build linux && (mips || mipsle)

package rawstat

import "rawstat/core/device"

// o32 numbers.
const (
	sysFstatat = 4293 // fstatat64
	sysStatx   = 4366
)

// Stat is the o32 struct stat64. The 32-bit device words carry the kernel's
// new_encode_dev layout, which is the low half of the packed 64-bit form.
type Stat struct {
	dev       uint32
	pad0      [3]uint32
	ino       uint64
	mode      uint32
	nlink     uint32
	uid       uint32
	gid       uint32
	rdev      uint32
	pad1      [3]uint32
	size      int64
	atime     int32
	atimeNsec uint32
	mtime     int32
	mtimeNsec uint32
	ctime     int32
	ctimeNsec uint32
	blksize   uint32
	pad2      uint32
	blocks    int64
}

func (st *Stat) Dev() device.ID  { return device.FromPacked64(uint64(st.dev)) }
func (st *Stat) Rdev() device.ID { return device.FromPacked64(uint64(st.rdev)) }

func (st *Stat) reserved() [][]byte {
	return [][]byte{bytesOf(&st.pad0), bytesOf(&st.pad1), bytesOf(&st.pad2)}
}
