//go:build linux

package metadata

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pkg/xattr"
	"golang.org/x/sys/unix"
)

// retrieveXAttrs collects every readable extended attribute of path. The
// attributes of a symlink are its own, the target is never consulted.
func retrieveXAttrs(path string) (ExtendedAttributes, error) {
	names, err := xattr.LList(path)
	if unreadableXAttr(err) {
		return ExtendedAttributes{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list the extended attributes of the file %s: %w", path, err)
	}

	xattrs := make(ExtendedAttributes, 0, len(names))
	for _, name := range names {
		value, err := xattr.LGet(path, name)
		switch {
		case unreadableXAttr(err):
			// removed between the list and the read
			continue
		case err != nil:
			slog.Warn("Failed to get the extended attribute:", slog.String("Path", path), slog.String("XAttr", name), slog.Any("Error", err))
			continue
		}
		xattrs = append(xattrs, ExtendedAttribute{Key: name, Value: value})
	}
	return xattrs, nil
}

// unreadableXAttr reports whether err only says there is nothing to read:
// the file system has no xattr support or the name is gone.
func unreadableXAttr(err error) bool {
	var e *xattr.Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Err == unix.ENOTSUP || e.Err == unix.ENODATA
}
