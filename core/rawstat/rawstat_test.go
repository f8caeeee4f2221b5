//go:build linux

package rawstat

import (
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestModeString(t *testing.T) {
	cases := map[Mode]string{
		unix.S_IFDIR | 0o1755: "drwxr-xr-t",
		unix.S_IFDIR | 0o1754: "drwxr-xr-T",
		unix.S_IFREG | 0o4755: "-rwsr-xr-x",
		unix.S_IFREG | 0o2644: "-rw-r-Sr--",
		unix.S_IFLNK | 0o777:  "lrwxrwxrwx",
		unix.S_IFCHR | 0o666:  "crw-rw-rw-",
		unix.S_IFBLK | 0o660:  "brw-rw----",
		unix.S_IFIFO | 0o600:  "prw-------",
		unix.S_IFSOCK | 0o755: "srwxr-xr-x",
		0o644:                 "?rw-r--r--",
	}
	for m, want := range cases {
		require.Equal(t, want, m.String())
	}
}

func TestModeBits(t *testing.T) {
	m := Mode(unix.S_IFREG | 0o6751)
	require.Equal(t, TypeRegular, m.Type())
	require.Equal(t, uint16(0o751), m.Perm())
	require.Equal(t, PermRead|PermWrite|PermExec, m.Owner())
	require.Equal(t, PermRead|PermExec, m.Group())
	require.Equal(t, PermExec, m.Other())
	require.True(t, m.Setuid())
	require.True(t, m.Setgid())
	require.False(t, m.Sticky())
	require.True(t, m.Group().Has(PermRead))
	require.False(t, m.Group().Has(PermWrite))
}

func TestModeFileMode(t *testing.T) {
	require.Equal(t, fs.ModeDir|fs.ModeSticky|0o755, Mode(unix.S_IFDIR|0o1755).FileMode())
	require.Equal(t, fs.ModeDevice|fs.ModeCharDevice|0o666, Mode(unix.S_IFCHR|0o666).FileMode())
	require.Equal(t, fs.FileMode(0o644), Mode(unix.S_IFREG|0o644).FileMode())
}

func TestFileType(t *testing.T) {
	for ft := TypeRegular; ft <= TypeSocket; ft++ {
		require.Equal(t, ft, Mode(ft.Bits()|0o644).Type())
	}
	require.Equal(t, "directory", TypeDirectory.String())
	require.Equal(t, "FileType(42)", FileType(42).String())
	require.Zero(t, FileType(42).Bits())
}

func TestTimestamp(t *testing.T) {
	a := Timestamp{Sec: 10, Nsec: 5}
	b := Timestamp{Sec: 10, Nsec: 6}
	require.Equal(t, -1, a.Compare(b))
	require.Equal(t, 1, b.Compare(a))
	require.Zero(t, a.Compare(a))
	require.Equal(t, 1, Timestamp{Sec: 11}.Compare(b))
	require.Equal(t, time.Unix(10, 5), a.Time())
	require.Equal(t, "10.000000005", a.String())
	require.True(t, Timestamp{}.IsZero())
}

func TestAttrsHas(t *testing.T) {
	a := Attrs{set: Attr(AttrImmutable | AttrDax), mask: Attr(AttrImmutable | AttrAppend)}

	set, known := a.Has(AttrImmutable)
	require.True(t, set)
	require.True(t, known)

	set, known = a.Has(AttrAppend)
	require.False(t, set)
	require.True(t, known)

	// the set bit is meaningless outside the mask
	set, known = a.Has(AttrDax)
	require.False(t, set)
	require.False(t, known)

	require.Equal(t, []string{"immutable"}, a.Names())
}

func TestMask(t *testing.T) {
	require.True(t, MaskBasicStats.Has(MaskIno|MaskSize))
	require.False(t, MaskBasicStats.Has(MaskBtime))
	require.True(t, MaskExtended.Has(MaskBtime|MaskMountID))
}
