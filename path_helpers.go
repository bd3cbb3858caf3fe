package cstyle

import (
	"path/filepath"
	"strings"
)

// NormalizePath converts a path to use forward slashes consistently
// regardless of the operating system and cleans the path.
// Empty paths remain empty.
func NormalizePath(path string) string {
	if path == "" {
		return ""
	}
	cleaned := filepath.Clean(path)
	return strings.ReplaceAll(cleaned, "\\", "/")
}

// JoinPaths joins path elements and normalizes the result
func JoinPaths(elem ...string) string {
	return NormalizePath(filepath.Join(elem...))
}

// IsSubPath checks if childPath is inside parentPath.
// Both paths are normalized before comparison.
func IsSubPath(parentPath, childPath string) bool {
	normalizedParent := NormalizePath(parentPath)
	normalizedChild := NormalizePath(childPath)

	if normalizedParent == "" || normalizedParent == "." {
		return true
	}
	if normalizedParent == normalizedChild {
		return true
	}
	if !strings.HasSuffix(normalizedParent, "/") {
		normalizedParent += "/"
	}
	return strings.HasPrefix(normalizedChild, normalizedParent)
}
