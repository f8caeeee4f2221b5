//go:build linux

package stat

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"rawstat/core/device"
	"rawstat/core/errno"
	"rawstat/core/rawstat"
)

// fakeKernel forwards to the running kernel, counting calls and optionally
// answering statx with a canned error.
type fakeKernel struct {
	statxErr    errno.Errno
	statxCalls  atomic.Int32
	legacyCalls atomic.Int32
}

func (k *fakeKernel) Fstatat(dirfd int, path *byte, flags int, st *rawstat.Stat) errno.Errno {
	k.legacyCalls.Add(1)
	return rawstat.Fstatat(dirfd, path, flags, st)
}

func (k *fakeKernel) StatxAt(dirfd int, path *byte, flags int, mask rawstat.Mask, st *rawstat.Statx) errno.Errno {
	k.statxCalls.Add(1)
	if k.statxErr != 0 {
		return k.statxErr
	}
	return rawstat.StatxAt(dirfd, path, flags, mask, st)
}

func requireLegacy(t *testing.T) {
	t.Helper()
	if !rawstat.HasLegacy {
		t.Skip("no legacy stat call on this architecture")
	}
}

func requireStatx(t *testing.T) {
	t.Helper()
	p, err := unix.BytePtrFromString("/")
	require.NoError(t, err)
	var st rawstat.Statx
	if rawstat.StatxAt(rawstat.AtFdcwd, p, 0, rawstat.MaskBasicStats, &st) == errno.ENOSYS {
		t.Skip("statx not available")
	}
}

func TestENOSYSPinsUnsupported(t *testing.T) {
	requireLegacy(t)
	k := &fakeKernel{statxErr: errno.ENOSYS}
	r := NewResolver(k)
	require.Equal(t, Unknown, r.Capability())

	for n := 0; n < 5; n++ {
		info, err := r.Stat("/dev/null")
		require.NoError(t, err)
		require.False(t, info.Extended())
		require.Equal(t, rawstat.TypeChar, info.FileType())
	}
	require.Equal(t, Unsupported, r.Capability())
	require.Equal(t, int32(1), k.statxCalls.Load())
	require.Equal(t, int32(5), k.legacyCalls.Load())
}

func TestKernelENOSYSWordPinsUnsupported(t *testing.T) {
	requireLegacy(t)
	// the word the running architecture's kernel returns for a missing call
	enosys := uintptr(unix.ENOSYS)
	_, e := errno.FromRaw(-enosys)
	require.Equal(t, errno.ENOSYS, e)

	k := &fakeKernel{statxErr: e}
	r := NewResolver(k)
	_, err := r.Lstat("/")
	require.NoError(t, err)
	require.Equal(t, Unsupported, r.Capability())
	require.Equal(t, int32(1), k.legacyCalls.Load())
}

func TestSuccessPinsSupported(t *testing.T) {
	requireStatx(t)
	k := &fakeKernel{}
	r := NewResolver(k)

	for n := 0; n < 3; n++ {
		info, err := r.Stat("/dev/null")
		require.NoError(t, err)
		require.True(t, info.Extended())
	}
	require.Equal(t, Supported, r.Capability())
	require.Equal(t, int32(3), k.statxCalls.Load())
	require.Zero(t, k.legacyCalls.Load())

	// a later ENOSYS does not revert the decision
	k.statxErr = errno.ENOSYS
	_, err := r.Stat("/dev/null")
	require.ErrorIs(t, err, errno.ENOSYS)
	require.Equal(t, Supported, r.Capability())
	require.Zero(t, k.legacyCalls.Load())
}

func TestOtherErrorKeepsUnknown(t *testing.T) {
	requireLegacy(t)
	requireStatx(t)
	k := &fakeKernel{statxErr: errno.EACCES}
	r := NewResolver(k)

	_, err := r.Stat("/dev/null")
	require.ErrorIs(t, err, errno.EACCES)
	require.ErrorIs(t, err, fs.ErrPermission)
	require.Equal(t, Unknown, r.Capability())
	require.Zero(t, k.legacyCalls.Load())

	k.statxErr = 0
	_, err = r.Stat("/dev/null")
	require.NoError(t, err)
	require.Equal(t, Supported, r.Capability())
}

func TestRealErrorWhileUnknown(t *testing.T) {
	requireLegacy(t)
	requireStatx(t)
	k := &fakeKernel{}
	r := NewResolver(k)

	_, err := r.Stat(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, fs.ErrNotExist)

	var e errno.Errno
	require.ErrorAs(t, err, &e)
	require.Equal(t, errno.ENOENT, e)
	require.Equal(t, Unknown, r.Capability())
}

func TestFstatNegativeDescriptor(t *testing.T) {
	k := &fakeKernel{}
	r := NewResolver(k)

	_, err := r.Fstat(-1)
	require.Equal(t, errno.EBADF, err)
	require.Zero(t, k.statxCalls.Load())
	require.Zero(t, k.legacyCalls.Load())
}

func TestPathWithNUL(t *testing.T) {
	k := &fakeKernel{}
	r := NewResolver(k)

	_, err := r.Stat("bad\x00path")
	require.Equal(t, errno.EINVAL, err)
	require.Zero(t, k.statxCalls.Load())
}

func TestConcurrentFirstUse(t *testing.T) {
	requireLegacy(t)
	k := &fakeKernel{statxErr: errno.ENOSYS}
	r := NewResolver(k)

	var g errgroup.Group
	for n := 0; n < 32; n++ {
		g.Go(func() error {
			_, err := r.Lstat("/dev/null")
			return err
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, Unsupported, r.Capability())
	require.GreaterOrEqual(t, k.statxCalls.Load(), int32(1))
	require.LessOrEqual(t, k.statxCalls.Load(), int32(32))
	require.Equal(t, int32(32), k.legacyCalls.Load())

	_, err := r.Lstat("/dev/null")
	require.NoError(t, err)
	require.LessOrEqual(t, k.statxCalls.Load(), int32(32))
	require.Equal(t, int32(33), k.legacyCalls.Load())
}

func TestBothPathsAgree(t *testing.T) {
	requireLegacy(t)
	requireStatx(t)
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, []byte("payload"), 0o600))

	viaStatx, err := NewResolver(&fakeKernel{}).Stat(path)
	require.NoError(t, err)
	viaLegacy, err := NewResolver(&fakeKernel{statxErr: errno.ENOSYS}).Stat(path)
	require.NoError(t, err)

	require.True(t, viaStatx.Extended())
	require.False(t, viaLegacy.Extended())
	require.True(t, viaStatx.Dev().Equal(viaLegacy.Dev()))
	require.Equal(t, device.KindPair, viaStatx.Dev().Kind())
	require.Equal(t, viaLegacy.Inode(), viaStatx.Inode())
	require.Equal(t, viaLegacy.Mode(), viaStatx.Mode())
	require.Equal(t, viaLegacy.Size(), viaStatx.Size())
	require.Equal(t, viaLegacy.Nlink(), viaStatx.Nlink())
	require.Equal(t, viaLegacy.UID(), viaStatx.UID())
	require.Zero(t, viaLegacy.Mtime().Compare(viaStatx.Mtime()))

	st, ok := viaLegacy.Legacy()
	require.True(t, ok)
	require.Equal(t, int64(7), st.Size())
	_, ok = viaLegacy.Statx()
	require.False(t, ok)
	_, ok = viaLegacy.Btime()
	require.False(t, ok)
	_, ok = viaLegacy.Attributes()
	require.False(t, ok)
	require.Equal(t, rawstat.MaskBasicStats, viaLegacy.Mask())
}

func TestPackageFunctions(t *testing.T) {
	var ref unix.Stat_t
	require.NoError(t, unix.Stat("/dev/null", &ref))

	info, err := Stat("/dev/null")
	require.NoError(t, err)
	require.Equal(t, device.Pair{Major: unix.Major(uint64(ref.Rdev)), Minor: unix.Minor(uint64(ref.Rdev))}, info.Rdev().Pair())
	require.Equal(t, uint64(ref.Ino), info.Inode())
	require.NotEqual(t, Unknown, CurrentCapability())

	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	link := filepath.Join(dir, "link")
	require.NoError(t, os.WriteFile(target, nil, 0o644))
	require.NoError(t, os.Chmod(target, 0o644))
	require.NoError(t, os.Symlink(target, link))

	info, err = Lstat(link)
	require.NoError(t, err)
	require.True(t, info.IsSymlink())
	require.Equal(t, fs.ModeSymlink, info.FileMode().Type())

	info, err = Stat(link)
	require.NoError(t, err)
	require.True(t, info.IsRegular())

	f, err := os.Open(dir)
	require.NoError(t, err)
	defer f.Close()
	info, err = Fstat(int(f.Fd()))
	require.NoError(t, err)
	require.True(t, info.IsDir())

	info, err = Fstatat(int(f.Fd()), "target", 0)
	require.NoError(t, err)
	require.True(t, info.IsRegular())

	info, err = StatxAt(rawstat.AtFdcwd, target, 0, rawstat.MaskExtended)
	require.NoError(t, err)
	_, ok := info.Btime()
	require.Equal(t, info.Extended() && info.Mask().Has(rawstat.MaskBtime), ok)
	require.Contains(t, info.String(), "mode=-rw-r--r--")
}

func TestCapabilityString(t *testing.T) {
	require.Equal(t, "unknown", Unknown.String())
	require.Equal(t, "supported", Supported.String())
	require.Equal(t, "unsupported", Unsupported.String())
	require.Equal(t, "invalid", Capability(9).String())
}
