package utils

import (
	"path/filepath"
	"strings"
)

var (
	outputFile = "meta.out"
)

const (
	TempDir = "temp_dir"
)

func SetOutputFileName(name string) {
	outputFile = name
}

func GetOutputFileName() string {
	return outputFile
}

func GetAbsolutePath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	return filepath.Abs(path)
}

func GetTempPath(outDir string) (string, error) {
	outDir, err := GetAbsolutePath(outDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(outDir, TempDir), nil
}

// IsSubPath reports whether child is parent or lies below it. Sibling names
// sharing a prefix, such as /a/out and /a/output, do not match.
func IsSubPath(parent, child string) (bool, error) {
	parent, err := GetAbsolutePath(parent)
	if err != nil {
		return false, err
	}
	child, err = GetAbsolutePath(child)
	if err != nil {
		return false, err
	}
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false, nil
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))), nil
}

// RebasePath moves path from below oldRoot to below newRoot.
func RebasePath(path, oldRoot, newRoot string) (string, error) {
	rel, err := filepath.Rel(oldRoot, path)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &PathOutsideRootError{Path: path, Root: oldRoot}
	}
	return filepath.Join(newRoot, rel), nil
}

// PathOutsideRootError reports a path that does not lie below its root.
type PathOutsideRootError struct {
	Path string
	Root string
}

func (e *PathOutsideRootError) Error() string {
	return "path " + e.Path + " is outside of " + e.Root
}
