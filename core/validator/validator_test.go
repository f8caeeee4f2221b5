//go:build linux

package validator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"rawstat/core/datasource"
	"rawstat/core/metadata"
	"rawstat/core/utils"
)

func generate(t *testing.T, src, out string) string {
	t.Helper()
	ds, err := datasource.NewFileSource(src, datasource.FileSourceConfig{})
	require.NoError(t, err)
	writer, err := datasource.NewMetaWriter(src, out, metadata.Options{})
	require.NoError(t, err)

	metaItemC := make(chan *metadata.Meta, 1)
	g, gCtx := errgroup.WithContext(context.Background())
	g.Go(func() error { return ds.Walk(gCtx, out, metaItemC, 2) })
	g.Go(func() error { return writer.Write(gCtx, metaItemC, 2) })
	require.NoError(t, g.Wait())
	return filepath.Join(out, utils.GetOutputFileName())
}

func buildTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "dir", "keep"), []byte("keep"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "dir", "gone"), []byte("gone"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "mode"), []byte("mode"), 0o644))
	require.NoError(t, os.Chmod(filepath.Join(root, "mode"), 0o644))
	require.NoError(t, os.Symlink("dir/keep", filepath.Join(root, "link")))
	return root
}

func validate(t *testing.T, target, metaFile string) *Reporter {
	t.Helper()
	reporter, err := NewReporter(filepath.Join(t.TempDir(), "report.txt"))
	require.NoError(t, err)
	v, err := NewFileValidator(target, reporter, false)
	require.NoError(t, err)
	require.NoError(t, v.Validate(context.Background(), metaFile, 4))
	return reporter
}

func TestValidateSameTree(t *testing.T) {
	src := buildTree(t)
	metaFile := generate(t, src, t.TempDir())

	reporter := validate(t, src, metaFile)
	require.Zero(t, reporter.Count(), "%v", reporter.entries)
	require.NoError(t, reporter.Flush())
	_, err := os.Stat(reporter.outputPath)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateDetectsChanges(t *testing.T) {
	src := buildTree(t)
	metaFile := generate(t, src, t.TempDir())

	require.NoError(t, os.Remove(filepath.Join(src, "dir", "gone")))
	require.NoError(t, os.Chmod(filepath.Join(src, "mode"), 0o600))

	reporter := validate(t, src, metaFile)
	require.Equal(t, map[string]int{ReasonFileNotFound: 1, ReasonMetaMismatch: 1}, reporter.Summary())

	reporter.SetRunID("run-1")
	require.NoError(t, reporter.Flush())
	data, err := os.ReadFile(reporter.outputPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "# run run-1", lines[0])
	require.True(t, strings.HasPrefix(lines[1], "["+ReasonFileNotFound+"]"))
	require.Contains(t, lines[2], "Mode: expect -rw-r--r--, got -rw-------")
}

func TestValidateClone(t *testing.T) {
	src := buildTree(t)
	metaFile := generate(t, src, t.TempDir())

	// a clone has fresh inodes; only portable fields are compared
	clone := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(clone, "dir"), 0o755))
	for _, name := range []string{"dir/keep", "dir/gone", "mode"} {
		data, err := os.ReadFile(filepath.Join(src, name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(clone, name), data, 0o644))
		require.NoError(t, os.Chmod(filepath.Join(clone, name), 0o644))
		fi, err := os.Stat(filepath.Join(src, name))
		require.NoError(t, err)
		require.NoError(t, os.Chtimes(filepath.Join(clone, name), fi.ModTime(), fi.ModTime()))
	}
	require.NoError(t, os.Chmod(filepath.Join(src, "dir"), 0o755))
	require.NoError(t, os.Chmod(filepath.Join(clone, "dir"), 0o755))
	require.NoError(t, os.Symlink("dir/keep", filepath.Join(clone, "link")))

	reporter := validate(t, clone, metaFile)
	require.Zero(t, reporter.Count(), "%v", reporter.entries)
}

func TestValidateInvalidRows(t *testing.T) {
	src := buildTree(t)
	metaFile := generate(t, src, t.TempDir())

	f, err := os.OpenFile(metaFile, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.WriteString("not json\n{\"Common\":{\"Path\":\"/elsewhere/x\"}}\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	reporter, err := NewReporter(filepath.Join(t.TempDir(), "report.txt"))
	require.NoError(t, err)
	v, err := NewFileValidator(src, reporter, false)
	require.NoError(t, err)

	// two extra rows break the recorded item count
	require.ErrorContains(t, v.Validate(context.Background(), metaFile, 2), "item count mismatch")
	require.Equal(t, map[string]int{ReasonInvalidJSON: 1, ReasonOutsideSource: 1}, reporter.Summary())
}
