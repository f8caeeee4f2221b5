//go:build linux && (mips64 || mips64le)

package rawstat

import "rawstat/core/device"

// n64 numbers.
const (
	sysFstatat = 5252 // newfstatat
	sysStatx   = 5326
)

// Stat is the n64 struct stat. Device numbers are 32-bit words here.
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
	atime     uint32
	atimeNsec uint32
	mtime     uint32
	mtimeNsec uint32
	ctime     uint32
	ctimeNsec uint32
	blksize   uint32
	pad2      uint32
	blocks    uint64
}

// The kernel writes a new_encode_dev word into dev and rdev, the same word
// o32 widens and decodes with the 64-bit layout. n64 keeps the packed 32-bit
// decoding instead, so the two ABIs report the same numbers only while
// major and minor both fit in a byte.
func (st *Stat) Dev() device.ID  { return device.FromPacked32(st.dev) }
func (st *Stat) Rdev() device.ID { return device.FromPacked32(st.rdev) }

func (st *Stat) reserved() [][]byte {
	return [][]byte{bytesOf(&st.pad0), bytesOf(&st.pad1), bytesOf(&st.pad2)}
}
