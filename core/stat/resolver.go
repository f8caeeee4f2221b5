//go:build linux

// Package stat answers metadata queries with whichever of statx or the
// legacy fstatat call the running kernel supports.
//
// The first query probes statx. ENOSYS pins the process to the legacy call,
// a successful probe pins it to statx, and any other error leaves the
// decision open for the next query. Pinned decisions are never revisited.
package stat

import (
	"log/slog"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"rawstat/core/errno"
	"rawstat/core/rawstat"
)

// Capability is the cached answer to "does this kernel have statx".
type Capability uint32

const (
	Unknown Capability = iota
	Supported
	Unsupported
)

func (c Capability) String() string {
	switch c {
	case Unknown:
		return "unknown"
	case Supported:
		return "supported"
	case Unsupported:
		return "unsupported"
	default:
		return "invalid"
	}
}

// Kernel issues the two raw calls. The production implementation is backed
// by package rawstat; tests substitute their own.
type Kernel interface {
	Fstatat(dirfd int, path *byte, flags int, st *rawstat.Stat) errno.Errno
	StatxAt(dirfd int, path *byte, flags int, mask rawstat.Mask, st *rawstat.Statx) errno.Errno
}

type sysKernel struct{}

func (sysKernel) Fstatat(dirfd int, path *byte, flags int, st *rawstat.Stat) errno.Errno {
	return rawstat.Fstatat(dirfd, path, flags, st)
}

func (sysKernel) StatxAt(dirfd int, path *byte, flags int, mask rawstat.Mask, st *rawstat.Statx) errno.Errno {
	return rawstat.StatxAt(dirfd, path, flags, mask, st)
}

// SystemKernel returns the Kernel that traps into the running kernel.
func SystemKernel() Kernel { return sysKernel{} }

// capability is shared by every query in the process.
var capability atomic.Uint32

var std = &Resolver{kernel: sysKernel{}, state: &capability}

// Resolver routes queries according to a capability cell.
type Resolver struct {
	kernel Kernel
	state  *atomic.Uint32
}

// NewResolver returns a Resolver over k with its own capability cell,
// starting at Unknown.
func NewResolver(k Kernel) *Resolver {
	return &Resolver{kernel: k, state: new(atomic.Uint32)}
}

// Default returns the process-wide Resolver used by the package functions.
func Default() *Resolver { return std }

// Capability reports the current decision. Architectures without a legacy
// call always report Supported.
func (r *Resolver) Capability() Capability {
	if !rawstat.HasLegacy {
		return Supported
	}
	return Capability(r.state.Load())
}

func (r *Resolver) pin(c Capability) {
	if r.state.CompareAndSwap(uint32(Unknown), uint32(c)) {
		slog.Debug("Pinned statx capability:", slog.String("Capability", c.String()))
	}
}

func (r *Resolver) resolve(dirfd int, path *byte, flags int, mask rawstat.Mask, info *Info) errno.Errno {
	switch r.Capability() {
	case Unsupported:
		return r.legacy(dirfd, path, flags, info)
	case Supported:
		info.extended = true
		return r.kernel.StatxAt(dirfd, path, flags, mask, &info.stx)
	}

	info.extended = true
	switch e := r.kernel.StatxAt(dirfd, path, flags, mask, &info.stx); e {
	case 0:
		r.pin(Supported)
		return 0
	case errno.ENOSYS:
		r.pin(Unsupported)
		return r.legacy(dirfd, path, flags, info)
	default:
		return e
	}
}

func (r *Resolver) legacy(dirfd int, path *byte, flags int, info *Info) errno.Errno {
	info.extended = false
	return r.kernel.Fstatat(dirfd, path, flags, &info.st)
}

// StatxAt queries path relative to dirfd, asking statx for mask. When the
// legacy call answers instead, the result covers the basic fields only;
// check Info.Mask.
func (r *Resolver) StatxAt(dirfd int, path string, flags int, mask rawstat.Mask) (Info, error) {
	p, err := unix.BytePtrFromString(path)
	if err != nil {
		return Info{}, errno.EINVAL
	}
	var info Info
	if e := r.resolve(dirfd, p, flags, mask, &info); e != 0 {
		return Info{}, e
	}
	return info, nil
}

// Fstatat queries path relative to dirfd with the basic field set.
func (r *Resolver) Fstatat(dirfd int, path string, flags int) (Info, error) {
	return r.StatxAt(dirfd, path, flags, rawstat.MaskBasicStats)
}

// Stat follows symlinks.
func (r *Resolver) Stat(path string) (Info, error) {
	return r.Fstatat(rawstat.AtFdcwd, path, 0)
}

func (r *Resolver) Lstat(path string) (Info, error) {
	return r.Fstatat(rawstat.AtFdcwd, path, rawstat.AtSymlinkNoFollow)
}

// Fstat queries an open descriptor. A negative fd fails with EBADF without
// entering the kernel.
func (r *Resolver) Fstat(fd int) (Info, error) {
	if fd < 0 {
		return Info{}, errno.EBADF
	}
	return r.Fstatat(fd, "", rawstat.AtEmptyPath)
}

func Stat(path string) (Info, error)  { return std.Stat(path) }
func Lstat(path string) (Info, error) { return std.Lstat(path) }
func Fstat(fd int) (Info, error)      { return std.Fstat(fd) }

func Fstatat(dirfd int, path string, flags int) (Info, error) {
	return std.Fstatat(dirfd, path, flags)
}

func StatxAt(dirfd int, path string, flags int, mask rawstat.Mask) (Info, error) {
	return std.StatxAt(dirfd, path, flags, mask)
}

// CurrentCapability reports the process-wide decision.
func CurrentCapability() Capability { return std.Capability() }
