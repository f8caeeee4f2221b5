//go:build linux

package validator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/sync/errgroup"

	"rawstat/core/datasource"
	"rawstat/core/metadata"
	"rawstat/core/utils"
)

// Report reasons.
const (
	ReasonInvalidJSON      = "InvalidJSON"
	ReasonFileNotFound     = "FileNotFound"
	ReasonOutsideSource    = "OutsideSource"
	ReasonRetrieveMetaFail = "RetrieveMetaFail"
	ReasonMetaMismatch     = "MetaMismatch"
)

type FileValidator struct {
	targetDir string
	reporter  *Reporter
	progress  bool
}

// NewFileValidator returns a Validator that re-reads every recorded entry
// below targetDir through golang.org/x/sys and compares it with the record.
// When targetDir is the recorded source directory itself, identity fields
// such as inode and device are compared too.
func NewFileValidator(targetDir string, reporter *Reporter, progress bool) (Validator, error) {
	targetDir, err := filepath.Abs(targetDir)
	if err != nil {
		return nil, err
	}

	if _, err = os.Stat(targetDir); err != nil {
		return nil, fmt.Errorf("failed to stat target directory: %w", err)
	}
	return &FileValidator{targetDir: targetDir, reporter: reporter, progress: progress}, nil
}

func (fv *FileValidator) Validate(ctx context.Context, filePath string, workerCount int) error {
	filePath, err := filepath.Abs(filePath)
	if err != nil {
		return err
	}
	metaFile, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer metaFile.Close()

	s := datasource.NewScanner(metaFile)
	srcHeader, err := datasource.ReadHeader(s)
	if err != nil {
		return err
	}
	fv.reporter.SetRunID(srcHeader.RunID)

	opts := metadata.CompareOptions{
		Identity:     fv.targetDir == srcHeader.SourceDir,
		IgnoreXAttrs: true,
	}

	slog.Info("Start to validate metadata file:",
		slog.String("MetaFilePath", filePath),
		slog.String("RunID", srcHeader.RunID),
		slog.Bool("Identity", opts.Identity),
	)

	var itemCount atomic.Uint64

	rowC := make(chan []byte, 1)
	group, groupCtx := errgroup.WithContext(ctx)

	if fv.progress {
		watchCtx, stopWatch := context.WithCancel(groupCtx)
		defer stopWatch()
		go ValidateProgressWatch(watchCtx, int64(srcHeader.ItemCount), &itemCount)
	}

	group.Go(func() error {
		defer close(rowC)
		for s.Scan() {
			row := make([]byte, len(s.Bytes()))
			copy(row, s.Bytes())
			select {
			case <-groupCtx.Done():
				return groupCtx.Err()
			case rowC <- row:
			}
		}
		return s.Err()
	})

	for i := 0; i < workerCount; i++ {
		group.Go(func() error {
			for {
				select {
				case <-groupCtx.Done():
					return groupCtx.Err()
				case row, ok := <-rowC:
					if !ok {
						return nil
					}
					itemCount.Add(1)
					fv.validateRow(row, srcHeader.SourceDir, opts)
				}
			}
		})
	}
	err = group.Wait()
	if err != nil {
		return err
	}

	slog.Info("Finish to validate metadata file:", slog.String("MetaFilePath", filePath), slog.Int("ErrorCount", fv.reporter.Count()))

	if total := itemCount.Load(); total != srcHeader.ItemCount {
		return fmt.Errorf("item count mismatch. expect %d, got %d", srcHeader.ItemCount, total)
	}
	return nil
}

func (fv *FileValidator) validateRow(row []byte, sourceDir string, opts metadata.CompareOptions) {
	item, err := metadata.Deserialise(row)
	if err != nil {
		fv.reporter.Record(ReasonInvalidJSON, fmt.Errorf("source: %s, error: %w", string(row), err))
		return
	}

	targetPath, err := utils.RebasePath(item.Common.Path, sourceDir, fv.targetDir)
	if err != nil {
		fv.reporter.Record(ReasonOutsideSource, fmt.Errorf("source: %s, error: %w", item.Common.Path, err))
		return
	}

	targetItem, err := metadata.RetrieveReferenceMeta(targetPath)
	if errors.Is(err, fs.ErrNotExist) {
		fv.reporter.Record(ReasonFileNotFound, fmt.Errorf("source: %s, error: %w", item.Common.Path, err))
		return
	}
	if err != nil {
		fv.reporter.Record(ReasonRetrieveMetaFail, fmt.Errorf("source: %s, error: %w", item.Common.Path, err))
		return
	}

	if reasons := item.Equals(targetItem, opts); len(reasons) > 0 {
		fv.reporter.Record(ReasonMetaMismatch, fmt.Errorf("source: %s, error: %s", item.Common.Path, strings.Join(reasons, ", ")))
	}
}

func ValidateProgressWatch(ctx context.Context, total int64, itemCount *atomic.Uint64) {
	bar := pb.New64(total)
	bar.Start()
	defer bar.Finish()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			bar.SetCurrent(int64(itemCount.Load()))
			return
		case <-ticker.C:
			bar.SetCurrent(int64(itemCount.Load()))
		}
	}
}
