//go:build linux

package metadata

import (
	"fmt"
	"slices"
)

// CompareOptions selects the fields Equals looks at.
type CompareOptions struct {
	// Identity also compares the fields that only match on the very same
	// entry: inode, device, link count and nanosecond timestamps. Leave it
	// off when comparing a source tree with a clone.
	Identity bool

	// IgnoreXAttrs skips extended attributes, for metas collected without
	// them.
	IgnoreXAttrs bool
}

// Equals compares m with other and returns one reason per differing field.
// An empty result means equal.
func (m *Meta) Equals(other *Meta, opts CompareOptions) []string {
	var reasons []string
	mismatch := func(field string, want, got any) {
		reasons = append(reasons, fmt.Sprintf("%s: expect %v, got %v", field, want, got))
	}

	if m.Common.Name != other.Common.Name {
		mismatch("Name", m.Common.Name, other.Common.Name)
	}
	if m.Common.Size != other.Common.Size {
		mismatch("Size", m.Common.Size, other.Common.Size)
	}
	if m.Common.Hash != "" && other.Common.Hash != "" && m.Common.Hash != other.Common.Hash {
		mismatch("Hash", m.Common.Hash, other.Common.Hash)
	}

	a, b := m.FileSystem, other.FileSystem
	if a == nil || b == nil {
		if a != b {
			mismatch("FileSystem", a != nil, b != nil)
		}
		return reasons
	}

	if a.Type != b.Type {
		mismatch("Type", a.Type, b.Type)
	}
	if a.Mode != b.Mode {
		mismatch("Mode", a.Mode, b.Mode)
	}
	if a.UID != b.UID {
		mismatch("UID", a.UID, b.UID)
	}
	if a.GID != b.GID {
		mismatch("GID", a.GID, b.GID)
	}
	if a.LinkTarget != b.LinkTarget {
		mismatch("LinkTarget", a.LinkTarget, b.LinkTarget)
	}
	if !a.Rdev.Equal(b.Rdev) {
		mismatch("Rdev", a.Rdev, b.Rdev)
	}
	// directory times move whenever an entry is added, e.g. the output file
	if a.Type != FSTypeDir && a.Type != FSTypeSymlink {
		if a.ModTime.Sec != b.ModTime.Sec || (opts.Identity && a.ModTime.Nsec != b.ModTime.Nsec) {
			mismatch("ModTime", a.ModTime, b.ModTime)
		}
	}

	if opts.Identity {
		if a.Inode != b.Inode {
			mismatch("Inode", a.Inode, b.Inode)
		}
		if !a.Dev.Equal(b.Dev) {
			mismatch("Dev", a.Dev, b.Dev)
		}
		if a.Type != FSTypeDir && a.Links != b.Links {
			mismatch("Links", a.Links, b.Links)
		}
		if a.Blocks != b.Blocks {
			mismatch("Blocks", a.Blocks, b.Blocks)
		}
	}

	if !opts.IgnoreXAttrs && !m.ExtendedAttributes.Equal(other.ExtendedAttributes) {
		mismatch("ExtendedAttributes", m.ExtendedAttributes.Keys(), other.ExtendedAttributes.Keys())
	}
	return reasons
}

// Keys returns the attribute names in sorted order.
func (x ExtendedAttributes) Keys() []string {
	keys := make([]string, 0, len(x))
	for _, attr := range x {
		keys = append(keys, attr.Key)
	}
	slices.Sort(keys)
	return keys
}

// Equal compares the attributes regardless of their order.
func (x ExtendedAttributes) Equal(other ExtendedAttributes) bool {
	if len(x) != len(other) {
		return false
	}
	values := make(map[string][]byte, len(x))
	for _, attr := range x {
		values[attr.Key] = attr.Value
	}
	for _, attr := range other {
		v, ok := values[attr.Key]
		if !ok || string(v) != string(attr.Value) {
			return false
		}
	}
	return true
}
