//go:build linux && (stat_outline || mips || mipsle)

package invoke

import "golang.org/x/sys/unix"

// Backend names the compiled-in syscall backend.
const Backend = "outline"

// Syscall6 issues the call through the runtime's syscall trampoline and folds
// its (r1, errno) pair into a single word.
//
// nosplit: callers pass stack addresses as uintptr, the stack must not move
// before the kernel has written through them.
//
//go:nosplit
func Syscall6(trap, a1, a2, a3, a4, a5, a6 uintptr) uintptr {
	r1, _, e := unix.Syscall6(trap, a1, a2, a3, a4, a5, a6)
	if e != 0 {
		return -uintptr(e)
	}
	return r1
}
