//go:build linux

package rawstat

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestFieldOffsets(t *testing.T) {
	var st Stat
	var ref unix.Stat_t
	require.Equal(t, unsafe.Offsetof(ref.Rdev), unsafe.Offsetof(st.rdev))
	require.Equal(t, unsafe.Offsetof(ref.Blocks), unsafe.Offsetof(st.blocks))
	require.Equal(t, unsafe.Offsetof(ref.Ctim), unsafe.Offsetof(st.ctime))
	require.Equal(t, unsafe.Offsetof(ref.Ctim)+8, unsafe.Offsetof(st.ctimeNsec))
	require.Equal(t, unsafe.Sizeof(ref)-unsafe.Offsetof(st.unused), unsafe.Sizeof(st.unused))
	require.Equal(t, uint64(unix.SYS_NEWFSTATAT), uint64(sysFstatat))
}
