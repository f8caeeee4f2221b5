//go:build linux

package datasource

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"rawstat/core/invoke"
	"rawstat/core/metadata"
	"rawstat/core/stat"
	"rawstat/core/utils"
)

// maxLineSize bounds one metadata line; extended attribute values can be large.
const maxLineSize = 16 << 20

// DataSource indicates the source of the data before it is copied to the destination
type DataSource interface {
	// Walk walks the underlying storage and sends the metadata of each file to the given channel
	// Input:
	// - outDir: the output directory of the metadata file. This directory should be used to store temporary files and
	// 		 the final metadata file. The output directory will be filtered and will not be included in the metadata
	// - out: the channel to send the metadata to
	// - workerCount: the number of workers to use to retrieve the metadata
	Walk(ctx context.Context, outDir string, out chan<- *metadata.Meta, workerCount int) error
}

// MetaHeader is the header of the output metadata file
type MetaHeader struct {
	// SourceDir is the root directory of the source
	SourceDir string

	// ItemCount is the number of items in the metadata file
	ItemCount uint64

	// RunID identifies the generate run. Validation reports repeat it.
	RunID string

	// Backend, Capability and Arch record how the raw calls were issued.
	Backend    string
	Capability string
	Arch       string

	Hash     bool
	Extended bool
}

// ReadHeader consumes the header line of a metadata file.
func ReadHeader(s *bufio.Scanner) (MetaHeader, error) {
	header := MetaHeader{}
	if !s.Scan() {
		if err := s.Err(); err != nil {
			return header, err
		}
		return header, errors.New("metadata file is empty")
	}
	if err := json.Unmarshal(s.Bytes(), &header); err != nil {
		return header, fmt.Errorf("failed to decode metadata header: %w", err)
	}
	if header.RunID == "" {
		return header, errors.New("metadata header has no run id")
	}
	return header, nil
}

// NewScanner returns a line scanner sized for metadata files.
func NewScanner(f *os.File) *bufio.Scanner {
	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 0, 64<<10), maxLineSize)
	return s
}

// MetaWriter is the interface that writes the metadata to the output file
type MetaWriter interface {
	// Write writes the metadata to the output file.
	// Input:
	// - in: the channel to read the metadata from
	// - workerCount: the number of workers to use to write the metadata
	Write(ctx context.Context, in <-chan *metadata.Meta, workerCount int) error

	// Header returns the header as it stands; ItemCount is final once Write
	// returned.
	Header() MetaHeader
}

func NewMetaWriter(srcDir, outDir string, opts metadata.Options) (MetaWriter, error) {
	srcDir, err := filepath.Abs(srcDir)
	if err != nil {
		return nil, err
	}

	outDir, err = filepath.Abs(outDir)
	if err != nil {
		return nil, err
	}

	writer := &MetaWriterImpl{
		SourceDir:     srcDir,
		OutputDir:     outDir,
		OutputTempDir: filepath.Join(outDir, utils.TempDir),
		RunID:         uuid.NewString(),
		Options:       opts,
	}

	err = os.RemoveAll(writer.OutputTempDir)
	if err != nil {
		return nil, err
	}

	err = os.MkdirAll(outDir, 0700)
	if err != nil {
		return nil, err
	}

	err = os.MkdirAll(writer.OutputTempDir, 0700)
	if err != nil {
		return nil, err
	}

	slog.Info("Success to create meta writer:", slog.Any("MetaWriter", writer))
	return writer, nil
}

type MetaWriterImpl struct {
	SourceDir     string
	OutputDir     string
	OutputTempDir string
	RunID         string
	Options       metadata.Options
	ItemCount     atomic.Uint64
}

func (w *MetaWriterImpl) Header() MetaHeader {
	return MetaHeader{
		SourceDir:  w.SourceDir,
		ItemCount:  w.ItemCount.Load(),
		RunID:      w.RunID,
		Backend:    invoke.Backend,
		Capability: stat.CurrentCapability().String(),
		Arch:       runtime.GOARCH,
		Hash:       w.Options.Hash,
		Extended:   w.Options.Extended,
	}
}

func (w *MetaWriterImpl) Write(ctx context.Context, in <-chan *metadata.Meta, workerCount int) error {
	slog.Info("Start writing metadata:", slog.Int("WriterCount", workerCount), slog.String("RunID", w.RunID))

	defer os.RemoveAll(w.OutputTempDir)
	group, groupCtx := errgroup.WithContext(ctx)
	for i := 0; i < workerCount; i++ {
		group.Go(func() error {
			tempFile, err := os.CreateTemp(w.OutputTempDir, "temp-*")
			if err != nil {
				return err
			}
			defer tempFile.Close()

			buf := bufio.NewWriter(tempFile)
			for {
				select {
				case <-groupCtx.Done():
					return groupCtx.Err()
				case meta, ok := <-in:
					if !ok {
						return buf.Flush()
					}

					data, _err := metadata.Serialise(meta)
					if _err != nil {
						return _err
					}

					data = append(data, '\n')
					if _, _err = buf.Write(data); _err != nil {
						return _err
					}
					w.ItemCount.Add(1)
				}
			}
		})
	}
	err := group.Wait()
	if err != nil {
		return err
	}

	outFile, err := os.Create(filepath.Join(w.OutputDir, utils.GetOutputFileName()))
	if err != nil {
		return err
	}
	defer outFile.Close()
	out := bufio.NewWriter(outFile)

	// write header first
	headerData, err := json.Marshal(w.Header())
	if err != nil {
		return err
	}
	_, err = out.Write(append(headerData, '\n'))
	if err != nil {
		return err
	}

	// merge all temp files to final output
	err = filepath.WalkDir(w.OutputTempDir, func(fp string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasPrefix(d.Name(), "temp-") {
			return nil
		}

		tempFile, err := os.Open(fp)
		if err != nil {
			return err
		}
		defer tempFile.Close()

		scanner := NewScanner(tempFile)
		for scanner.Scan() {
			if _, err = out.Write(scanner.Bytes()); err != nil {
				return err
			}
			if err = out.WriteByte('\n'); err != nil {
				return err
			}
		}
		return scanner.Err()
	})
	if err != nil {
		return err
	}
	if err = out.Flush(); err != nil {
		return err
	}

	slog.Info("Finish writing metadata:", slog.String("OutputFile", outFile.Name()), slog.Uint64("ItemCount", w.ItemCount.Load()))
	return nil
}
