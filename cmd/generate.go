//go:build linux

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"rawstat/core/datasource"
	"rawstat/core/metadata"
)

type SourceType string

const FS SourceType = "fs"

var (
	sourceDir        string
	outputDir        string
	generateType     SourceType
	readerCount      int
	writerCount      int
	ignorePatterns   []string
	respectGitignore bool
	hashFiles        bool
	extendedStat     bool

	GenerateCmd = &cobra.Command{
		Use:     "generate",
		Short:   "Generate metadata file from a directory tree",
		Long:    "Walk the source directory and record the raw stat/statx metadata of every entry into a metadata file",
		Example: "./rawstat generate --source ./ --output ./output --reader 16 --writer 16 --ignore '*.tmp'",
		PreRunE: func(cmd *cobra.Command, args []string) error { // pre run to validate flags
			flags := cmd.Flags()
			if !flags.Changed("reader") {
				readerCount = cfg.Generate.Readers
			}
			if !flags.Changed("writer") {
				writerCount = cfg.Generate.Writers
			}
			if !flags.Changed("ignore") {
				ignorePatterns = cfg.Generate.Ignore
			}
			if !flags.Changed("gitignore") {
				respectGitignore = cfg.Generate.RespectGitignore
			}
			if !flags.Changed("hash") {
				hashFiles = cfg.Generate.Hash
			}
			if !flags.Changed("extended") {
				extendedStat = cfg.Generate.Extended
			}

			if sourceDir == "" || outputDir == "" {
				return fmt.Errorf("source and output directory must be specified. "+
					"got source: %s, output: %s", sourceDir, outputDir)
			}

			if readerCount < 1 {
				return fmt.Errorf("reader count must be greater than 0. got %d", readerCount)
			}

			if writerCount < 1 {
				return fmt.Errorf("writer count must be greater than 0. got %d", writerCount)
			}

			if generateType != FS {
				return fmt.Errorf("invalid source type: %s. expect [fs]", generateType)
			}

			slog.Info("Finish to validate flags:",
				slog.String("SourceDir", sourceDir),
				slog.String("OutputDir", outputDir),
				slog.String("SourceType", string(generateType)),
				slog.Int("ReaderCount", readerCount),
				slog.Int("WriterCount", writerCount),
				slog.Any("Ignore", ignorePatterns),
				slog.Bool("Hash", hashFiles),
				slog.Bool("Extended", extendedStat),
			)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			opts := metadata.Options{Hash: hashFiles, Extended: extendedStat}
			ds, err := datasource.NewFileSource(sourceDir, datasource.FileSourceConfig{
				Ignore:           ignorePatterns,
				RespectGitignore: respectGitignore,
				Meta:             opts,
			})
			if err != nil {
				return fmt.Errorf("failed to create file source: %w", err)
			}

			writer, err := datasource.NewMetaWriter(sourceDir, outputDir, opts)
			if err != nil {
				return fmt.Errorf("failed to create meta writer: %w", err)
			}

			metaItemC := make(chan *metadata.Meta, 1)
			g, gCtx := errgroup.WithContext(ctx)
			g.Go(func() error { return ds.Walk(gCtx, outputDir, metaItemC, readerCount) })
			g.Go(func() error { return writer.Write(gCtx, metaItemC, writerCount) })
			if err := g.Wait(); err != nil {
				return fmt.Errorf("failed to generate metadata: %w", err)
			}

			header := writer.Header()
			slog.Info("Finish to generate metadata:",
				slog.String("RunID", header.RunID),
				slog.Uint64("ItemCount", header.ItemCount),
				slog.String("Backend", header.Backend),
				slog.String("Capability", header.Capability),
			)
			return nil
		},
	}
)

func initGenerateCmd() {
	GenerateCmd.PersistentFlags().StringVarP(&sourceDir, "source", "s", "", "source directory")
	GenerateCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "output directory path")
	GenerateCmd.PersistentFlags().IntVarP(&readerCount, "reader", "r", 1, "number of reader to open and load file meta")
	GenerateCmd.PersistentFlags().IntVarP(&writerCount, "writer", "w", 1, "number of writer to write meta to file")
	GenerateCmd.PersistentFlags().StringVarP((*string)(&generateType), "type", "t", "fs", "type of data source to use. [fs]")
	GenerateCmd.PersistentFlags().StringSliceVar(&ignorePatterns, "ignore", nil, "gitignore-style pattern to skip (repeatable)")
	GenerateCmd.PersistentFlags().BoolVar(&respectGitignore, "gitignore", false, "also skip what the source's .gitignore lists")
	GenerateCmd.PersistentFlags().BoolVar(&hashFiles, "hash", false, "record the md5 of regular files")
	GenerateCmd.PersistentFlags().BoolVar(&extendedStat, "extended", false, "record birth time, mount id and attributes when statx reports them")
}
