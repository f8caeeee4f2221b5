//go:build linux

package rawstat

import (
	"fmt"
	"runtime"
	"unsafe"

	"rawstat/core/errno"
	"rawstat/core/invoke"
)

// Fstatat fills st with the legacy call, newfstatat or fstatat64 depending
// on the architecture. path must be NUL terminated. It returns 0 on success.
func Fstatat(dirfd int, path *byte, flags int, st *Stat) errno.Errno {
	if !HasLegacy {
		return errno.ENOSYS
	}
	*st = Stat{}
	r := invoke.Syscall6(sysFstatat, uintptr(dirfd), uintptr(unsafe.Pointer(path)),
		uintptr(unsafe.Pointer(st)), uintptr(flags), 0, 0)
	runtime.KeepAlive(path)
	runtime.KeepAlive(st)
	_, e := errno.FromRaw(r)
	return e
}

func (st *Stat) Ino() uint64      { return uint64(st.ino) }
func (st *Stat) Nlink() uint64    { return uint64(st.nlink) }
func (st *Stat) Mode() Mode       { return Mode(st.mode) }
func (st *Stat) UID() uint32      { return uint32(st.uid) }
func (st *Stat) GID() uint32      { return uint32(st.gid) }
func (st *Stat) Size() int64      { return int64(st.size) }
func (st *Stat) BlockSize() int64 { return int64(st.blksize) }

// Blocks counts 512-byte units.
func (st *Stat) Blocks() int64 { return int64(st.blocks) }

func (st *Stat) Atime() Timestamp {
	return Timestamp{Sec: int64(st.atime), Nsec: uint32(st.atimeNsec)}
}

func (st *Stat) Mtime() Timestamp {
	return Timestamp{Sec: int64(st.mtime), Nsec: uint32(st.mtimeNsec)}
}

func (st *Stat) Ctime() Timestamp {
	return Timestamp{Sec: int64(st.ctime), Nsec: uint32(st.ctimeNsec)}
}

// String lists the decoded fields. Padding is never printed.
func (st *Stat) String() string {
	return fmt.Sprintf("stat{dev=%v ino=%d nlink=%d mode=%v uid=%d gid=%d rdev=%v size=%d blksize=%d blocks=%d atime=%v mtime=%v ctime=%v}",
		st.Dev(), st.Ino(), st.Nlink(), st.Mode(), st.UID(), st.GID(), st.Rdev(),
		st.Size(), st.BlockSize(), st.Blocks(), st.Atime(), st.Mtime(), st.Ctime())
}
