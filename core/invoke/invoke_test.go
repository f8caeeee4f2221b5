//go:build linux

package invoke_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"rawstat/core/errno"
	"rawstat/core/invoke"
)

func TestSyscall6Getpid(t *testing.T) {
	r := invoke.Syscall6(unix.SYS_GETPID, 0, 0, 0, 0, 0, 0)
	pid, e := errno.FromRaw(r)
	require.Zero(t, e)
	require.Equal(t, uintptr(os.Getpid()), pid)
}

func TestSyscall6NegativeMagnitude(t *testing.T) {
	fd := -1
	r := invoke.Syscall6(unix.SYS_CLOSE, uintptr(fd), 0, 0, 0, 0, 0)
	ebadf := uintptr(unix.EBADF)
	require.Equal(t, -ebadf, r)

	_, e := errno.FromRaw(r)
	require.Equal(t, errno.EBADF, e)
}

func TestSyscall6UnknownNumber(t *testing.T) {
	r := invoke.Syscall6(0xffff, 0, 0, 0, 0, 0, 0)
	_, e := errno.FromRaw(r)
	// seccomp filters may answer EPERM instead of ENOSYS
	require.Contains(t, []errno.Errno{errno.ENOSYS, errno.EPERM}, e)
}

func TestBackend(t *testing.T) {
	require.Contains(t, []string{"inline", "outline"}, invoke.Backend)
	require.Equal(t, invoke.Backend == "inline", invoke.Inline())
}
