// Package fsutil holds the small file-path helpers the parser's include
// resolver needs: glob detection and absolute-path testing.
package fsutil

import (
	"os"
	"path/filepath"
	"regexp"
)

var globMagic = regexp.MustCompile(`[*?\[]`)

// HasMagic reports whether pattern contains glob metacharacters
// ('*', '?', '[') and therefore needs directory expansion rather than a
// direct open.
func HasMagic(pattern string) bool {
	return globMagic.MatchString(pattern)
}

// IsAbs reports whether path is already absolute.
func IsAbs(path string) bool {
	return filepath.IsAbs(path)
}

// ResolveAgainst joins pattern onto dir unless pattern is already
// absolute.
func ResolveAgainst(dir, pattern string) string {
	if IsAbs(pattern) {
		return pattern
	}
	return filepath.Join(dir, pattern)
}

// Exists reports whether path names a file or directory that can be
// stat'd (used to accept a literal, non-glob include path the way nginx
// itself validates that the referenced file can be opened).
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
