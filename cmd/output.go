//go:build linux

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var outputFormat string

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "table", "output format. [table|json]")
}

// resolveFormat applies the config file default unless --format was given.
func resolveFormat(cmd *cobra.Command) error {
	if !cmd.Flags().Changed("format") {
		outputFormat = cfg.Output.Format
	}
	if outputFormat != "table" && outputFormat != "json" {
		return fmt.Errorf("invalid output format: %s. expect [table|json]", outputFormat)
	}
	return nil
}

func newTable(w io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	return t
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
