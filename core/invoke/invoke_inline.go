//go:build linux && !stat_outline && !mips && !mipsle

package invoke

// Backend names the compiled-in syscall backend.
const Backend = "inline"

// Syscall6 traps into the kernel with trap and up to six word arguments.
// Pointers converted to uintptr in the argument list stay valid for the
// duration of the call.
func Syscall6(trap, a1, a2, a3, a4, a5, a6 uintptr) (r1 uintptr)
