//go:build linux

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"rawstat/core/device"
	"rawstat/core/rawstat"
	"rawstat/core/stat"
)

var (
	dereference bool
	statExtend  bool

	StatCmd = &cobra.Command{
		Use:     "stat PATH...",
		Short:   "Print the metadata of files",
		Long:    "Query each path with statx, or fstatat where statx is missing, and print what the kernel reports",
		Example: "./rawstat stat --extended --format json /dev/null /etc/hostname",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return resolveFormat(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := rawstat.AtSymlinkNoFollow
			if dereference {
				flags = 0
			}
			mask := rawstat.MaskBasicStats
			if statExtend {
				mask = rawstat.MaskExtended
			}

			var views []statView
			var errs []error
			for _, path := range args {
				info, err := stat.StatxAt(rawstat.AtFdcwd, path, flags, mask)
				if err != nil {
					slog.Error("Failed to stat:", slog.String("Path", path), slog.Any("Error", err))
					errs = append(errs, fmt.Errorf("failed to stat %s: %w", path, err))
					continue
				}
				views = append(views, newStatView(path, &info))
			}

			var err error
			if outputFormat == "json" {
				err = writeJSON(cmd.OutOrStdout(), views)
			} else if len(views) > 0 {
				renderStatTable(cmd, views)
			}
			return errors.Join(append(errs, err)...)
		},
	}
)

// statView is the printable form of one stat result.
type statView struct {
	Path      string
	Type      string
	Mode      string
	Size      int64
	Blocks    int64
	BlockSize int64
	Links     uint64
	UID       uint32
	GID       uint32
	Inode     uint64
	Dev       device.ID
	Rdev      device.ID `json:",omitzero"`
	Atime     rawstat.Timestamp
	Mtime     rawstat.Timestamp
	Ctime     rawstat.Timestamp

	// Source is statx or fstatat; Mask lists the statx fields the kernel filled.
	Source string
	Mask   string

	Btime      *rawstat.Timestamp `json:",omitempty"`
	MountID    *uint64            `json:",omitempty"`
	Attributes []string           `json:",omitempty"`
}

func newStatView(path string, info *stat.Info) statView {
	v := statView{
		Path:      path,
		Type:      info.FileType().String(),
		Mode:      info.Mode().String(),
		Size:      info.Size(),
		Blocks:    info.Blocks(),
		BlockSize: info.BlockSize(),
		Links:     info.Nlink(),
		UID:       info.UID(),
		GID:       info.GID(),
		Inode:     info.Inode(),
		Dev:       info.Dev(),
		Atime:     info.Atime(),
		Mtime:     info.Mtime(),
		Ctime:     info.Ctime(),
		Source:    "fstatat",
		Mask:      fmt.Sprintf("%#x", uint32(info.Mask())),
	}
	if ft := info.FileType(); ft == rawstat.TypeBlock || ft == rawstat.TypeChar {
		v.Rdev = info.Rdev()
	}
	if info.Extended() {
		v.Source = "statx"
	}
	if !statExtend {
		return v
	}
	if btime, ok := info.Btime(); ok {
		v.Btime = &btime
	}
	if mntID, ok := info.MountID(); ok {
		v.MountID = &mntID
	}
	if attrs, ok := info.Attributes(); ok {
		v.Attributes = attrs.Names()
	}
	return v
}

func renderStatTable(cmd *cobra.Command, views []statView) {
	header := table.Row{"Path", "Type", "Mode", "Size", "Links", "UID", "GID", "Inode", "Dev", "Rdev", "Mtime", "Source"}
	if statExtend {
		header = append(header, "Btime", "MountID", "Attributes")
	}
	t := newTable(cmd.OutOrStdout(), header)
	for _, v := range views {
		rdev := ""
		if !v.Rdev.IsZero() {
			rdev = v.Rdev.String()
		}
		row := table.Row{v.Path, v.Type, v.Mode, v.Size, v.Links, v.UID, v.GID, v.Inode, v.Dev, rdev, v.Mtime.Time().UTC().Format("2006-01-02 15:04:05.000000000"), v.Source}
		if statExtend {
			btime, mntID := "-", "-"
			if v.Btime != nil {
				btime = v.Btime.Time().UTC().Format("2006-01-02 15:04:05.000000000")
			}
			if v.MountID != nil {
				mntID = fmt.Sprint(*v.MountID)
			}
			row = append(row, btime, mntID, strings.Join(v.Attributes, ","))
		}
		t.AppendRow(row)
	}
	t.Render()
}

func initStatCmd() {
	StatCmd.Flags().BoolVarP(&dereference, "dereference", "L", false, "follow symbolic links")
	StatCmd.Flags().BoolVar(&statExtend, "extended", false, "ask statx for birth time, mount id and attributes")
	addFormatFlag(StatCmd)
}
