//go:build linux

package metadata

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/pkg/xattr"
	"github.com/stretchr/testify/require"

	"rawstat/core/device"
)

func buildTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "dir"), 0o750))
	require.NoError(t, os.Chmod(filepath.Join(root, "dir"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "hello"), []byte("hello"), 0o640))
	require.NoError(t, os.Symlink("hello", filepath.Join(root, "link")))
	return root
}

func TestRetrieveMatchesReference(t *testing.T) {
	root := buildTree(t)
	paths := []string{
		filepath.Join(root, "dir"),
		filepath.Join(root, "hello"),
		filepath.Join(root, "link"),
		"/dev/null",
	}
	for _, path := range paths {
		for _, opts := range []Options{{}, {Extended: true}} {
			got, err := RetrieveFileSystemMeta(path, opts)
			require.NoError(t, err, path)
			want, err := RetrieveReferenceMeta(path)
			require.NoError(t, err, path)

			require.Empty(t, want.Equals(got, CompareOptions{Identity: true, IgnoreXAttrs: true}), path)
			require.NotEqual(t, SourceReference, got.FileSystem.Source)
			require.Equal(t, SourceReference, want.FileSystem.Source)
		}
	}
}

func TestRetrieveFileSystemMeta(t *testing.T) {
	root := buildTree(t)

	meta, err := RetrieveFileSystemMeta(filepath.Join(root, "hello"), Options{Hash: true})
	require.NoError(t, err)
	require.Equal(t, "hello", meta.Common.Name)
	require.Equal(t, uint64(5), meta.Common.Size)
	require.Equal(t, "5d41402abc4b2a76b9719d911017c592", meta.Common.Hash)
	require.Equal(t, FSTypeFile, meta.FileSystem.Type)
	require.Equal(t, os.FileMode(0o640), meta.FileSystem.Mode)
	require.Equal(t, uint64(1), meta.FileSystem.Links)
	require.True(t, meta.FileSystem.Rdev.IsZero())

	meta, err = RetrieveFileSystemMeta(filepath.Join(root, "link"), Options{Hash: true})
	require.NoError(t, err)
	require.Equal(t, FSTypeSymlink, meta.FileSystem.Type)
	require.Equal(t, "hello", meta.FileSystem.LinkTarget)
	require.Empty(t, meta.Common.Hash)
	require.Zero(t, meta.Common.Size)

	meta, err = RetrieveFileSystemMeta(filepath.Join(root, "dir"), Options{})
	require.NoError(t, err)
	require.Equal(t, FSTypeDir, meta.FileSystem.Type)
	require.Equal(t, os.ModeDir|0o750, meta.FileSystem.Mode)

	meta, err = RetrieveFileSystemMeta("/dev/null", Options{})
	require.NoError(t, err)
	require.Equal(t, FSTypeCharDevice, meta.FileSystem.Type)
	require.Equal(t, device.Pair{Major: 1, Minor: 3}, meta.FileSystem.Rdev.Pair())

	_, err = RetrieveFileSystemMeta(filepath.Join(root, "missing"), Options{})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRetrieveExtended(t *testing.T) {
	root := buildTree(t)

	meta, err := RetrieveFileSystemMeta(filepath.Join(root, "hello"), Options{Extended: true})
	require.NoError(t, err)
	if meta.FileSystem.Source == SourceFstatat {
		require.Nil(t, meta.FileSystem.Btime)
		require.Zero(t, meta.FileSystem.MountID)
		return
	}
	require.Equal(t, SourceStatx, meta.FileSystem.Source)
	if meta.FileSystem.Btime != nil {
		require.LessOrEqual(t, meta.FileSystem.Btime.Compare(meta.FileSystem.ModTime), 0)
	}

	basic, err := RetrieveFileSystemMeta(filepath.Join(root, "hello"), Options{})
	require.NoError(t, err)
	require.Nil(t, basic.FileSystem.Btime)
	require.Zero(t, basic.FileSystem.MountID)
}

func TestRetrieveXAttrs(t *testing.T) {
	root := buildTree(t)
	path := filepath.Join(root, "hello")

	err := xattr.LSet(path, "user.rawstat", []byte("value"))
	var xerr *xattr.Error
	if errors.As(err, &xerr) && (xerr.Err == syscall.ENOTSUP || xerr.Err == syscall.EPERM) {
		t.Skip("user xattrs not supported here")
	}
	require.NoError(t, err)

	meta, err := RetrieveFileSystemMeta(path, Options{})
	require.NoError(t, err)
	value, ok := lookup(meta.ExtendedAttributes, "user.rawstat")
	require.True(t, ok)
	require.Equal(t, []byte("value"), value)

	other := *meta
	other.ExtendedAttributes = nil
	require.Equal(t, []string{"ExtendedAttributes: expect " + keysOf(meta) + ", got []"},
		meta.Equals(&other, CompareOptions{}))
	require.Empty(t, meta.Equals(&other, CompareOptions{IgnoreXAttrs: true}))
}

func TestUnreadableXAttr(t *testing.T) {
	require.False(t, unreadableXAttr(nil))
	require.False(t, unreadableXAttr(syscall.ENODATA))
	require.True(t, unreadableXAttr(&xattr.Error{Op: "xattr.LGet", Path: "/tmp/f", Name: "user.gone", Err: syscall.ENODATA}))
	require.True(t, unreadableXAttr(&xattr.Error{Op: "xattr.LList", Path: "/proc/self", Err: syscall.ENOTSUP}))
	require.False(t, unreadableXAttr(&xattr.Error{Op: "xattr.LList", Path: "/root", Err: syscall.EACCES}))

	_, err := xattr.LGet(filepath.Join(buildTree(t), "hello"), "user.never-set")
	if err != nil {
		require.True(t, unreadableXAttr(err), err.Error())
	}
}

func TestRetrieveXAttrsMissingFile(t *testing.T) {
	_, err := retrieveXAttrs(filepath.Join(t.TempDir(), "missing"))
	var xerr *xattr.Error
	require.ErrorAs(t, err, &xerr)
	require.Equal(t, syscall.ENOENT, xerr.Err)
}

func lookup(x ExtendedAttributes, key string) ([]byte, bool) {
	for _, attr := range x {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return nil, false
}

func keysOf(m *Meta) string {
	s := "["
	for i, k := range m.ExtendedAttributes.Keys() {
		if i > 0 {
			s += " "
		}
		s += k
	}
	return s + "]"
}
