//go:build linux

package datasource

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"rawstat/core/invoke"
	"rawstat/core/metadata"
	"rawstat/core/utils"
)

func buildTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "cache"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "one.txt"), []byte("one"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "b", "two.txt"), []byte("two"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "scratch.tmp"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "cache", "blob"), nil, 0o600))
	require.NoError(t, os.Symlink("one.txt", filepath.Join(root, "a", "link")))
	return root
}

func generate(t *testing.T, src, out string, cfg FileSourceConfig, workers int) MetaHeader {
	t.Helper()
	ds, err := NewFileSource(src, cfg)
	require.NoError(t, err)
	writer, err := NewMetaWriter(src, out, cfg.Meta)
	require.NoError(t, err)

	metaItemC := make(chan *metadata.Meta, 1)
	g, gCtx := errgroup.WithContext(context.Background())
	g.Go(func() error { return ds.Walk(gCtx, out, metaItemC, workers) })
	g.Go(func() error { return writer.Write(gCtx, metaItemC, workers) })
	require.NoError(t, g.Wait())
	return writer.Header()
}

func readMeta(t *testing.T, path string) (MetaHeader, []*metadata.Meta) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	s := NewScanner(f)
	header, err := ReadHeader(s)
	require.NoError(t, err)

	var metas []*metadata.Meta
	for s.Scan() {
		meta, err := metadata.Deserialise(s.Bytes())
		require.NoError(t, err)
		metas = append(metas, meta)
	}
	require.NoError(t, s.Err())
	return header, metas
}

func relPaths(t *testing.T, root string, metas []*metadata.Meta) []string {
	var paths []string
	for _, m := range metas {
		rel, err := filepath.Rel(root, m.Common.Path)
		require.NoError(t, err)
		paths = append(paths, filepath.ToSlash(rel))
	}
	sort.Strings(paths)
	return paths
}

func TestGenerateWithIgnores(t *testing.T) {
	src := buildTree(t)
	out := t.TempDir()

	header := generate(t, src, out, FileSourceConfig{Ignore: []string{"*.tmp", "cache"}}, 4)
	fileHeader, metas := readMeta(t, filepath.Join(out, utils.GetOutputFileName()))

	require.Equal(t, header, fileHeader)
	require.Equal(t, src, fileHeader.SourceDir)
	require.Equal(t, invoke.Backend, fileHeader.Backend)
	require.NotEqual(t, "unknown", fileHeader.Capability)
	_, err := uuid.Parse(fileHeader.RunID)
	require.NoError(t, err)
	require.Equal(t, uint64(len(metas)), fileHeader.ItemCount)

	require.Equal(t, []string{"a", "a/b", "a/b/two.txt", "a/link", "a/one.txt"}, relPaths(t, src, metas))

	for _, m := range metas {
		switch m.Common.Name {
		case "link":
			require.Equal(t, metadata.FSTypeSymlink, m.FileSystem.Type)
			require.Equal(t, "one.txt", m.FileSystem.LinkTarget)
		case "one.txt":
			require.Equal(t, uint64(3), m.Common.Size)
			require.Empty(t, m.Common.Hash)
		}
	}

	_, err = os.Stat(filepath.Join(out, utils.TempDir))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestGenerateIntoSource(t *testing.T) {
	src := buildTree(t)
	require.NoError(t, os.WriteFile(filepath.Join(src, GitignoreFile), []byte("cache/\n*.tmp\n"), 0o644))

	// a stale output from an earlier run must not be listed
	require.NoError(t, os.WriteFile(filepath.Join(src, utils.GetOutputFileName()), []byte("stale"), 0o644))

	generate(t, src, src, FileSourceConfig{RespectGitignore: true, Meta: metadata.Options{Hash: true}}, 1)
	header, metas := readMeta(t, filepath.Join(src, utils.GetOutputFileName()))

	require.True(t, header.Hash)
	require.Equal(t, []string{".gitignore", "a", "a/b", "a/b/two.txt", "a/link", "a/one.txt"}, relPaths(t, src, metas))
	for _, m := range metas {
		if m.Common.Name == "two.txt" {
			require.Equal(t, "b8a9f715dbb64fd5c56e7783c6820a61", m.Common.Hash)
		}
	}
}

func TestReadHeaderErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.out")

	require.NoError(t, os.WriteFile(path, nil, 0o644))
	f, err := os.Open(path)
	require.NoError(t, err)
	_, err = ReadHeader(NewScanner(f))
	require.ErrorContains(t, err, "empty")
	f.Close()

	require.NoError(t, os.WriteFile(path, []byte("{\"SourceDir\":\"/x\"}\n"), 0o644))
	f, err = os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = ReadHeader(NewScanner(f))
	require.ErrorContains(t, err, "run id")
}
