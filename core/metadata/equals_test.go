//go:build linux

package metadata

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"rawstat/core/device"
	"rawstat/core/rawstat"
)

func sampleMeta() *Meta {
	return &Meta{
		Common: CommonAttrs{Path: "/src/a", Name: "a", Size: 3, Hash: "900150983cd24fb0d6963f7d28e17f72"},
		FileSystem: &FileSystemAttrs{
			Type:    FSTypeFile,
			Mode:    0o644,
			ModTime: rawstat.Timestamp{Sec: 1700000000, Nsec: 5},
			UID:     1000,
			GID:     1000,
			Links:   1,
			Inode:   42,
			Dev:     device.FromPair(8, 1),
			Blocks:  8,
			Source:  SourceStatx,
		},
		ExtendedAttributes: ExtendedAttributes{{Key: "user.b", Value: []byte("2")}, {Key: "user.a", Value: []byte("1")}},
	}
}

func TestEqualsClone(t *testing.T) {
	src := sampleMeta()
	clone := sampleMeta()
	clone.Common.Path = "/dst/a"
	clone.FileSystem.Inode = 99
	clone.FileSystem.Dev = device.FromPair(8, 2)
	clone.FileSystem.Links = 2
	clone.FileSystem.Blocks = 16
	clone.FileSystem.ModTime.Nsec = 0
	clone.FileSystem.Source = SourceReference
	clone.ExtendedAttributes = ExtendedAttributes{{Key: "user.a", Value: []byte("1")}, {Key: "user.b", Value: []byte("2")}}

	require.Empty(t, src.Equals(clone, CompareOptions{}))
	require.Equal(t, []string{
		"ModTime: expect 1700000000.000000005, got 1700000000.000000000",
		"Inode: expect 42, got 99",
		"Dev: expect 8:1, got 8:2",
		"Links: expect 1, got 2",
		"Blocks: expect 8, got 16",
	}, src.Equals(clone, CompareOptions{Identity: true}))
}

func TestEqualsReasons(t *testing.T) {
	src := sampleMeta()
	dst := sampleMeta()
	dst.Common.Size = 4
	dst.Common.Hash = "e2fc714c4727ee9395f324cd2e7f331f"
	dst.FileSystem.Mode = 0o600
	dst.FileSystem.UID = 0
	dst.FileSystem.ModTime.Sec++
	dst.ExtendedAttributes = dst.ExtendedAttributes[:1]

	require.Equal(t, []string{
		"Size: expect 3, got 4",
		"Hash: expect 900150983cd24fb0d6963f7d28e17f72, got e2fc714c4727ee9395f324cd2e7f331f",
		"Mode: expect -rw-r--r--, got -rw-------",
		"UID: expect 1000, got 0",
		"ModTime: expect 1700000000.000000005, got 1700000001.000000005",
		"ExtendedAttributes: expect [user.a user.b], got [user.b]",
	}, src.Equals(dst, CompareOptions{}))

	// a missing hash on either side is not a difference
	dst = sampleMeta()
	dst.Common.Hash = ""
	require.Empty(t, src.Equals(dst, CompareOptions{}))
}

func TestEqualsDirectoryAndDevice(t *testing.T) {
	src := sampleMeta()
	src.FileSystem.Type = FSTypeDir
	src.FileSystem.Mode = os.ModeDir | 0o755
	dst := sampleMeta()
	dst.FileSystem.Type = FSTypeDir
	dst.FileSystem.Mode = os.ModeDir | 0o755
	dst.FileSystem.ModTime.Sec += 60
	dst.FileSystem.Links = 5
	require.Empty(t, src.Equals(dst, CompareOptions{Identity: true}))

	src = sampleMeta()
	src.FileSystem.Type = FSTypeCharDevice
	src.FileSystem.Rdev = device.FromPair(1, 3)
	dst = sampleMeta()
	dst.FileSystem.Type = FSTypeCharDevice
	dst.FileSystem.Rdev = device.FromPacked64(uint64(device.Pack64(1, 5)))
	require.Equal(t, []string{"Rdev: expect 1:3, got 1:5"}, src.Equals(dst, CompareOptions{}))

	dst.FileSystem = nil
	require.Equal(t, []string{"FileSystem: expect true, got false"}, src.Equals(dst, CompareOptions{}))
}
