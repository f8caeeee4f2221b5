//go:build linux

package cmd

import (
	"errors"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"rawstat/core/errno"
)

var (
	listAllErrno bool

	ErrnoCmd = &cobra.Command{
		Use:     "errno [CODE|NAME]...",
		Short:   "Look up Linux error numbers",
		Example: "./rawstat errno 2 EACCES ewouldblock\n./rawstat errno --all",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !listAllErrno && len(args) == 0 {
				return errors.New("either a code, a name or --all must be specified")
			}
			return resolveFormat(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var codes []errno.Errno
			if listAllErrno {
				codes = errno.Known()
			}
			for _, arg := range args {
				e, err := errno.Parse(arg)
				if err != nil {
					return err
				}
				codes = append(codes, e)
			}

			if outputFormat == "json" {
				type errnoView struct {
					Code        int
					Name        string
					Description string
				}
				views := make([]errnoView, 0, len(codes))
				for _, e := range codes {
					views = append(views, errnoView{Code: int(e), Name: e.Name(), Description: e.Description()})
				}
				return writeJSON(cmd.OutOrStdout(), views)
			}

			t := newTable(cmd.OutOrStdout(), table.Row{"Code", "Name", "Description"})
			for _, e := range codes {
				t.AppendRow(table.Row{int(e), e.Name(), e.Description()})
			}
			t.Render()
			return nil
		},
	}
)

func initErrnoCmd() {
	ErrnoCmd.Flags().BoolVarP(&listAllErrno, "all", "a", false, "list every known code")
	addFormatFlag(ErrnoCmd)
}
