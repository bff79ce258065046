// SPDX-License-Identifier: MIT

// Package paths normalizes paths stored in project files.
package paths

import (
	"path"
	"strings"

	unorm "golang.org/x/text/unicode/norm"
)

// Normalize converts a stored path into the form handed to the analyzer:
// native Windows separators become forward slashes and the string is
// composed to Unicode NFC. The result is not cleaned, so "./" prefixes and
// trailing separators survive.
func Normalize(p string) string {
	if p == "" {
		return ""
	}
	p = unorm.NFC.String(p)
	return strings.ReplaceAll(p, `\`, "/")
}

// NormalizeAll applies Normalize to every entry and returns a new slice.
// A nil input yields a nil result.
func NormalizeAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, p := range in {
		out[i] = Normalize(p)
	}
	return out
}

// Resolve joins rel onto base unless rel is already absolute. Both inputs are
// normalized first; a drive-letter path ("C:/src") counts as absolute.
func Resolve(base, rel string) string {
	rel = Normalize(rel)
	if rel == "" {
		return Normalize(base)
	}
	if IsAbs(rel) || base == "" {
		return rel
	}
	return path.Join(Normalize(base), rel)
}

// IsAbs reports whether p is absolute in either POSIX or Windows form.
func IsAbs(p string) bool {
	p = Normalize(p)
	if strings.HasPrefix(p, "/") {
		return true
	}
	return len(p) >= 3 && p[1] == ':' && p[2] == '/' && isDriveLetter(p[0])
}

func isDriveLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
