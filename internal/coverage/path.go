package coverage

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

// NormalizePath returns the canonical name of a source file.
// Absolute paths are made relative to the current working directory,
// relative paths are cleaned lexically.
func NormalizePath(p string) string {
	wd, err := os.Getwd()
	if err != nil {
		wd = ""
	}
	return RelativeTo(p, wd)
}

// RelativeTo is NormalizePath with an explicit base directory.
// The filesystem is never touched.
func RelativeTo(p, base string) string {
	if !isAbs(p) || base == "" {
		return canonicalize(p)
	}

	rel, err := filepath.Rel(filepath.Clean(base), filepath.Clean(p))
	if err != nil {
		// Different volumes: nothing to be relative to.
		return canonicalize(p)
	}
	return canonicalize(rel)
}

func canonicalize(p string) string {
	if p == "" {
		return ""
	}
	return path.Clean(strings.ReplaceAll(p, `\`, "/"))
}

func isAbs(p string) bool {
	if filepath.IsAbs(p) {
		return true
	}
	// Reports produced on Windows may reach us on any platform.
	if len(p) >= 3 && p[1] == ':' && (p[2] == '\\' || p[2] == '/') {
		c := p[0] | 0x20
		return c >= 'a' && c <= 'z'
	}
	return false
}
