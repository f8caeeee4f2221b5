//go:build linux

// Package errno classifies raw kernel result words and names the codes.
package errno

//go:generate go run mkerrno.go -arch generic
//go:generate go run mkerrno.go -arch mipsx
//go:generate go run mkerrno.go -arch ppc64x

import (
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"syscall"
)

// maxErrno is the exclusive upper bound of the kernel's error range.
const maxErrno = 4096

// Errno is a Linux error code as returned (negated) by a raw system call.
type Errno int32

type entry struct {
	name string
	desc string
}

// FromRaw classifies a raw kernel result word. Words in the last 4095 values
// of the word range (-4095..-1 when read as signed) are errors and the
// negated word is returned as the code. Any other word is a successful
// payload and the returned Errno is zero.
func FromRaw(word uintptr) (uintptr, Errno) {
	if word > ^uintptr(maxErrno-1) {
		return 0, Errno(-int32(int(word)))
	}
	return word, 0
}

// IsValid reports whether e lies inside the kernel's error range.
func (e Errno) IsValid() bool { return e < maxErrno }

// Name returns the symbolic name of e, e.g. "ENOENT", or "" if unknown.
func (e Errno) Name() string { return e.lookup().name }

// Description returns the kernel's description of e, or "" if unknown.
func (e Errno) Description() string { return e.lookup().desc }

func (e Errno) lookup() entry {
	if e <= 0 || int(e) >= len(table) {
		return entry{}
	}
	return table[e]
}

// Error renders e. Unknown codes fall back to the numeric magnitude.
func (e Errno) Error() string {
	if ent := e.lookup(); ent.name != "" {
		return fmt.Sprintf("%d %s (%s)", e, ent.name, ent.desc)
	}
	if e.IsValid() {
		return strconv.Itoa(int(e))
	}
	return fmt.Sprintf("unknown errno %#x", int32(e))
}

// GoString implements fmt.GoStringer.
func (e Errno) GoString() string {
	if name := e.Name(); name != "" {
		return name
	}
	return fmt.Sprintf("Errno(%d)", int32(e))
}

// Unwrap exposes e as the identical syscall.Errno so that errors.Is works
// against both syscall/unix constants and fs sentinel errors.
func (e Errno) Unwrap() error { return syscall.Errno(e) }

// Syscall converts e to the standard library representation.
func (e Errno) Syscall() syscall.Errno { return syscall.Errno(e) }

// Temporary reports whether the operation may succeed if repeated.
func (e Errno) Temporary() bool { return e == EINTR || e == EAGAIN || e == EBUSY }

// PathError wraps e in an *fs.PathError for op on path.
func (e Errno) PathError(op, path string) error {
	return &fs.PathError{Op: op, Path: path, Err: e}
}

// Known returns every listed code in ascending order.
func Known() []Errno {
	var codes []Errno
	for i := range table {
		if table[i].name != "" {
			codes = append(codes, Errno(i))
		}
	}
	return codes
}

// Parse accepts a decimal code or a symbolic name such as "enoent". Aliases
// resolve to the code they share.
func Parse(s string) (Errno, error) {
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		if n <= 0 || n >= maxErrno {
			return 0, fmt.Errorf("errno %d out of range", n)
		}
		return Errno(n), nil
	}
	name := strings.ToUpper(s)
	switch name {
	case "EWOULDBLOCK":
		return EWOULDBLOCK, nil
	case "EDEADLOCK":
		return EDEADLOCK, nil
	}
	for i := range table {
		if table[i].name == name {
			return Errno(i), nil
		}
	}
	return 0, fmt.Errorf("unknown errno name %q", s)
}
