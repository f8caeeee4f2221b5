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

	"rawstat/core/validator"
)

var (
	targetDir      string
	metaFilePath   string
	validateType   SourceType
	validatorCount int
	reportPath     string
	showProgress   bool

	ValidateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Validate the metadata file",
		Long:  "Validate a metadata file against the target directory, the source itself or a clone of it",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("validator") {
				validatorCount = cfg.Validate.Validators
			}
			if !flags.Changed("report") {
				reportPath = cfg.Validate.Report
			}
			if !flags.Changed("progress") {
				showProgress = cfg.Validate.Progress
			}

			if targetDir == "" || metaFilePath == "" {
				return fmt.Errorf("target directory and metadata file path must be specified. "+
					"got target directory: %s, metadata file path: %s", targetDir, metaFilePath)
			}

			if validatorCount < 1 {
				return fmt.Errorf("validator count must be greater than 0. got %d", validatorCount)
			}

			if validateType != FS {
				return fmt.Errorf("invalid source type: %s. expect [fs]", validateType)
			}

			slog.Info("Finish to validate flags:",
				slog.String("TargetDir", targetDir),
				slog.String("MetaFilePath", metaFilePath),
				slog.String("SourceType", string(validateType)),
				slog.Int("ValidatorCount", validatorCount),
				slog.String("ReportPath", reportPath),
			)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			reporter, err := validator.NewReporter(reportPath)
			if err != nil {
				return fmt.Errorf("failed to create reporter: %w", err)
			}

			v, err := validator.NewFileValidator(targetDir, reporter, showProgress)
			if err != nil {
				return fmt.Errorf("failed to create file validator: %w", err)
			}

			if err = v.Validate(ctx, metaFilePath, validatorCount); err != nil {
				return err
			}
			if err = reporter.Flush(); err != nil {
				return err
			}

			if n := reporter.Count(); n > 0 {
				for reason, count := range reporter.Summary() {
					slog.Warn("Validation failures:", slog.String("Reason", reason), slog.Int("Count", count))
				}
				return fmt.Errorf("validation found %d mismatched entries. see %s", n, reportPath)
			}
			return nil
		},
	}
)

func initValidateCmd() {
	ValidateCmd.PersistentFlags().StringVarP(&targetDir, "target", "t", "", "the target directory")
	ValidateCmd.PersistentFlags().StringVarP(&metaFilePath, "meta", "m", "", "the metadata file path")
	ValidateCmd.PersistentFlags().StringVarP((*string)(&validateType), "type", "y", "fs", "the type of the target. [fs]")
	ValidateCmd.PersistentFlags().IntVarP(&validatorCount, "validator", "v", 16, "the number of validators to use")
	ValidateCmd.PersistentFlags().StringVar(&reportPath, "report", "./error_report.txt", "where to write the error report")
	ValidateCmd.PersistentFlags().BoolVar(&showProgress, "progress", true, "show a progress bar")
}
