//go:build linux

package rawstat

import (
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"

	"rawstat/core/device"
	"rawstat/core/errno"
	"rawstat/core/invoke"
)

// Mask selects the statx fields to fill and reports the ones filled.
type Mask uint32

const (
	MaskType       Mask = unix.STATX_TYPE
	MaskMode       Mask = unix.STATX_MODE
	MaskNlink      Mask = unix.STATX_NLINK
	MaskUID        Mask = unix.STATX_UID
	MaskGID        Mask = unix.STATX_GID
	MaskAtime      Mask = unix.STATX_ATIME
	MaskMtime      Mask = unix.STATX_MTIME
	MaskCtime      Mask = unix.STATX_CTIME
	MaskIno        Mask = unix.STATX_INO
	MaskSize       Mask = unix.STATX_SIZE
	MaskBlocks     Mask = unix.STATX_BLOCKS
	MaskBasicStats Mask = unix.STATX_BASIC_STATS
	MaskBtime      Mask = unix.STATX_BTIME
	MaskAll        Mask = unix.STATX_ALL
	MaskMountID    Mask = unix.STATX_MNT_ID
	MaskDioAlign   Mask = unix.STATX_DIOALIGN
	MaskExtended   Mask = MaskBasicStats | MaskBtime | MaskMountID | MaskDioAlign
)

func (m Mask) Has(bits Mask) bool { return m&bits == bits }

// Attr is a statx file attribute bit.
type Attr uint64

const (
	AttrCompressed Attr = unix.STATX_ATTR_COMPRESSED
	AttrImmutable  Attr = unix.STATX_ATTR_IMMUTABLE
	AttrAppend     Attr = unix.STATX_ATTR_APPEND
	AttrNodump     Attr = unix.STATX_ATTR_NODUMP
	AttrEncrypted  Attr = unix.STATX_ATTR_ENCRYPTED
	AttrAutomount  Attr = unix.STATX_ATTR_AUTOMOUNT
	AttrMountRoot  Attr = unix.STATX_ATTR_MOUNT_ROOT
	AttrVerity     Attr = unix.STATX_ATTR_VERITY
	AttrDax        Attr = unix.STATX_ATTR_DAX
)

var attrNames = []struct {
	attr Attr
	name string
}{
	{AttrCompressed, "compressed"},
	{AttrImmutable, "immutable"},
	{AttrAppend, "append"},
	{AttrNodump, "nodump"},
	{AttrEncrypted, "encrypted"},
	{AttrAutomount, "automount"},
	{AttrMountRoot, "mount-root"},
	{AttrVerity, "verity"},
	{AttrDax, "dax"},
}

// Attrs pairs the attribute bits with the mask of bits the filesystem
// actually supports. A bit outside the mask carries no information.
type Attrs struct {
	set  Attr
	mask Attr
}

// Has reports whether every bit of attr is set. known is false when the
// filesystem does not support some bit of attr, in which case set is false too.
func (a Attrs) Has(attr Attr) (set, known bool) {
	if a.mask&attr != attr {
		return false, false
	}
	return a.set&attr == attr, true
}

// Names lists the known, set attributes.
func (a Attrs) Names() []string {
	var names []string
	for _, an := range attrNames {
		if set, _ := a.Has(an.attr); set {
			names = append(names, an.name)
		}
	}
	return names
}

type statxTimestamp struct {
	sec  int64
	nsec uint32
	pad  int32
}

func (t *statxTimestamp) get() Timestamp { return Timestamp{Sec: t.sec, Nsec: t.nsec} }

// Statx is struct statx from include/uapi/linux/stat.h. Its layout does not
// depend on the architecture.
type Statx struct {
	mask           uint32
	blksize        uint32
	attributes     uint64
	nlink          uint32
	uid            uint32
	gid            uint32
	mode           uint16
	spare0         uint16
	ino            uint64
	size           uint64
	blocks         uint64
	attributesMask uint64
	atime          statxTimestamp
	btime          statxTimestamp
	ctime          statxTimestamp
	mtime          statxTimestamp
	rdevMajor      uint32
	rdevMinor      uint32
	devMajor       uint32
	devMinor       uint32
	mntID          uint64
	dioMemAlign    uint32
	dioOffsetAlign uint32
	spare3         [12]uint64
}

// StatxAt fills st with statx, asking for the fields in mask. path must be
// NUL terminated. It returns 0 on success.
func StatxAt(dirfd int, path *byte, flags int, mask Mask, st *Statx) errno.Errno {
	*st = Statx{}
	r := invoke.Syscall6(sysStatx, uintptr(dirfd), uintptr(unsafe.Pointer(path)),
		uintptr(flags), uintptr(mask), uintptr(unsafe.Pointer(st)), 0)
	runtime.KeepAlive(path)
	runtime.KeepAlive(st)
	_, e := errno.FromRaw(r)
	return e
}

// Mask reports which fields the kernel filled.
func (st *Statx) Mask() Mask { return Mask(st.mask) }

func (st *Statx) BlockSize() int64 { return int64(st.blksize) }
func (st *Statx) Nlink() uint64    { return uint64(st.nlink) }
func (st *Statx) UID() uint32      { return st.uid }
func (st *Statx) GID() uint32      { return st.gid }
func (st *Statx) Mode() Mode       { return Mode(st.mode) }
func (st *Statx) Ino() uint64      { return st.ino }
func (st *Statx) Size() int64      { return int64(st.size) }
func (st *Statx) Blocks() int64    { return int64(st.blocks) }

func (st *Statx) Attributes() Attrs {
	return Attrs{set: Attr(st.attributes), mask: Attr(st.attributesMask)}
}

func (st *Statx) AttributesMask() Attr { return Attr(st.attributesMask) }

func (st *Statx) Atime() Timestamp { return st.atime.get() }
func (st *Statx) Btime() Timestamp { return st.btime.get() }
func (st *Statx) Ctime() Timestamp { return st.ctime.get() }
func (st *Statx) Mtime() Timestamp { return st.mtime.get() }

func (st *Statx) Dev() device.ID  { return device.FromPair(st.devMajor, st.devMinor) }
func (st *Statx) Rdev() device.ID { return device.FromPair(st.rdevMajor, st.rdevMinor) }

// MountID is valid only when Mask has MaskMountID.
func (st *Statx) MountID() uint64 { return st.mntID }

// DioMemAlign and DioOffsetAlign are valid only when Mask has MaskDioAlign.
func (st *Statx) DioMemAlign() uint32    { return st.dioMemAlign }
func (st *Statx) DioOffsetAlign() uint32 { return st.dioOffsetAlign }

func (st *Statx) String() string {
	return fmt.Sprintf("statx{mask=%#x dev=%v ino=%d nlink=%d mode=%v uid=%d gid=%d rdev=%v size=%d blksize=%d blocks=%d attrs=%v atime=%v btime=%v mtime=%v ctime=%v}",
		st.mask, st.Dev(), st.Ino(), st.Nlink(), st.Mode(), st.UID(), st.GID(), st.Rdev(),
		st.Size(), st.BlockSize(), st.Blocks(), st.Attributes().Names(),
		st.Atime(), st.Btime(), st.Mtime(), st.Ctime())
}

// reserved skips spare3; recent kernels fill part of it.
func (st *Statx) reserved() [][]byte {
	return [][]byte{
		bytesOf(&st.spare0),
		bytesOf(&st.atime.pad),
		bytesOf(&st.btime.pad),
		bytesOf(&st.ctime.pad),
		bytesOf(&st.mtime.pad),
	}
}
