//go:build linux

// Package invoke issues raw Linux system calls.
//
// Syscall6 returns the kernel's result word unchanged, except on
// architectures that report failure out of band (mips64x, ppc64x), where the
// word is negated so that every backend reports failure as a negative
// magnitude. Use errno.FromRaw to classify the word.
//
// The inline backend traps directly from Go assembly and does not notify the
// scheduler, so a call that blocks in the kernel holds its P for the
// duration. Build with -tags stat_outline to route through unix.Syscall6
// instead.
package invoke

// Inline reports whether the inline trap backend is compiled in.
func Inline() bool { return Backend == "inline" }
