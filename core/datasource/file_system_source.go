//go:build linux

package datasource

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"

	"rawstat/core/metadata"
	"rawstat/core/utils"
)

// GitignoreFile is read from the source root when RespectGitignore is set.
const GitignoreFile = ".gitignore"

type FileSource struct {
	root    string
	matcher *ignore.GitIgnore
	opts    metadata.Options
}

// FileSourceConfig configures NewFileSource.
type FileSourceConfig struct {
	// Ignore holds gitignore-style patterns, evaluated relative to the root.
	Ignore []string

	// RespectGitignore adds the patterns of the root's .gitignore, if any.
	RespectGitignore bool

	Meta metadata.Options
}

type FileItem struct {
	Path string
}

// NewFileSource creates a new FileSource which is a DataSource implementation that reads files from the file system.
// Input:
// - root: the root directory to read files from
// - cfg: ignore patterns and metadata options
func NewFileSource(root string, cfg FileSourceConfig) (DataSource, error) {
	rootPath, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	matcher := ignore.CompileIgnoreLines(cfg.Ignore...)
	if cfg.RespectGitignore {
		gitignore := filepath.Join(rootPath, GitignoreFile)
		if _, err = os.Stat(gitignore); err == nil {
			matcher, err = ignore.CompileIgnoreFileAndLines(gitignore, cfg.Ignore...)
			if err != nil {
				return nil, err
			}
		}
	}

	slog.Info("Success to create file source:", slog.String("Root", rootPath), slog.Int("IgnorePatterns", len(cfg.Ignore)))
	return &FileSource{root: rootPath, matcher: matcher, opts: cfg.Meta}, nil
}

// ignored reports whether the entry at path matches an ignore pattern.
func (s *FileSource) ignored(path string, isDir bool) bool {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if isDir {
		rel += "/"
	}
	return s.matcher.MatchesPath(rel)
}

// Walk walks the file system and sends the metadata of each file to the given channel. 1 scanner goroutine will walk
// the file system and send the file paths to the N worker goroutines. The N worker goroutines will retrieve the
// metadata of the file and send it to the output channel.
// Input:
// - outDir: the directory to save the metadata files to. Its temp directory and output file are filtered out
// - out: the channel to send the metadata to
// - workerCount: the number of workers to use to retrieve the metadata
// Note:
// - There are two types of goroutine in this function:
// --- Scanner: walks the file system and sends the file paths to the worker goroutines
// --- Worker: retrieves the metadata of the file and sends it to the output channel
// The concurrency of Scanner is 1 because we're limited by the function filepath.WalkDir. Workers issue the metadata
// system calls which are more expensive than the path handling of the Scanner, so there are workerCount of them.
// Entries removed between the scan and the stat are skipped with a warning.
func (s *FileSource) Walk(ctx context.Context, outDir string, out chan<- *metadata.Meta, workerCount int) error {
	slog.Info("Start walking the file system:", slog.Int("WorkerCount", workerCount))
	defer close(out) // close the output channel when done

	outputTempPath, err := utils.GetTempPath(outDir)
	if err != nil {
		return err
	}
	outputFilePath, err := utils.GetAbsolutePath(filepath.Join(outDir, utils.GetOutputFileName()))
	if err != nil {
		return err
	}

	itemC := make(chan *FileItem, 1)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { // scanner goroutine
		defer close(itemC) // to notify the workers that there are no more items to process
		return filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			// filter paths
			if path == s.root || path == outputFilePath { // skip the root directory and the output file
				return nil
			}

			isTemp, err := utils.IsSubPath(outputTempPath, path)
			if err != nil {
				return err
			}

			if isTemp || s.ignored(path, d.IsDir()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			// end of filter paths

			select {
			case <-groupCtx.Done():
				return groupCtx.Err()
			case itemC <- &FileItem{Path: path}:
			}
			return nil
		})
	})

	for i := 0; i < workerCount; i++ {
		group.Go(func() error { // worker goroutines
			for {
				select {
				case <-groupCtx.Done():
					return groupCtx.Err()
				case item, ok := <-itemC:
					if !ok {
						return nil
					}

					// retrieve the metadata of the file
					meta, err := metadata.RetrieveFileSystemMeta(item.Path, s.opts)
					if errors.Is(err, fs.ErrNotExist) {
						slog.Warn("Entry vanished during walk:", slog.String("Path", item.Path))
						continue
					}
					if err != nil {
						return err
					}

					select {
					case <-groupCtx.Done():
						return groupCtx.Err()
					case out <- meta:
					}
				}
			}
		})
	}

	return group.Wait()
}
