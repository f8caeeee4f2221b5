//go:build linux

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"rawstat/core/config"
	"rawstat/core/logging"
)

var (
	configPath string
	logLevel   string
	logFormat  string

	// cfg is loaded before any subcommand runs.
	cfg = config.Default()

	RootCmd = &cobra.Command{
		Use:           "rawstat",
		Short:         "Inspect file metadata through raw stat and statx system calls",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded := config.Default()
			if configPath != "" {
				var err error
				loaded, err = config.Load(configPath)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
			}
			cfg = loaded

			flags := cmd.Flags()
			if flags.Changed("log-level") {
				cfg.Logging.Level = logLevel
			}
			if flags.Changed("log-format") {
				cfg.Logging.Format = logFormat
			}
			if err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr()); err != nil {
				return err
			}

			slog.Debug("Finish to load config:", slog.String("ConfigPath", configPath), slog.Any("Config", cfg))
			return nil
		},
	}
)

func initRootCmd() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level. [debug|info|warn|error]")
	RootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format. [text|json]")
}

func init() {
	initRootCmd()
	initGenerateCmd()
	initValidateCmd()
	initStatCmd()
	initErrnoCmd()
	initProbeCmd()

	RootCmd.AddCommand(GenerateCmd, ValidateCmd, StatCmd, ErrnoCmd, ProbeCmd)
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to execute command: %v\n", err)
		os.Exit(1)
	}
}
