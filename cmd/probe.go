//go:build linux

package cmd

import (
	"fmt"
	"runtime"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"rawstat/core/invoke"
	"rawstat/core/rawstat"
	"rawstat/core/stat"
)

var (
	probePath string

	ProbeCmd = &cobra.Command{
		Use:   "probe",
		Short: "Report how stat calls are issued on this machine",
		Long:  "Print the syscall backend and architecture, then stat a path once to settle whether the kernel has statx",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return resolveFormat(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			before := stat.CurrentCapability()
			if _, err := stat.Lstat(probePath); err != nil {
				return fmt.Errorf("failed to stat %s: %w", probePath, err)
			}

			report := struct {
				Backend    string
				Arch       string
				HasLegacy  bool
				Before     string
				Capability string
			}{
				Backend:    invoke.Backend,
				Arch:       runtime.GOARCH,
				HasLegacy:  rawstat.HasLegacy,
				Before:     before.String(),
				Capability: stat.CurrentCapability().String(),
			}
			if outputFormat == "json" {
				return writeJSON(cmd.OutOrStdout(), report)
			}

			t := newTable(cmd.OutOrStdout(), table.Row{"Property", "Value"})
			t.AppendRows([]table.Row{
				{"Backend", report.Backend},
				{"Arch", report.Arch},
				{"HasLegacy", report.HasLegacy},
				{"Before", report.Before},
				{"Capability", report.Capability},
			})
			t.Render()
			return nil
		},
	}
)

func initProbeCmd() {
	ProbeCmd.Flags().StringVar(&probePath, "path", "/", "the path to stat")
	addFormatFlag(ProbeCmd)
}
