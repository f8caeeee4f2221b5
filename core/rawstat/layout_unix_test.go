//go:build linux && !mips && !mipsle && !mips64 && !mips64le

package rawstat

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// x/sys mirrors the kernel record directly everywhere except mips.
func TestLayoutMatchesUnix(t *testing.T) {
	require.Equal(t, unsafe.Sizeof(unix.Stat_t{}), unsafe.Sizeof(Stat{}))
}
