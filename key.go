package stowage

import (
	"fmt"
	"regexp"
	"strings"
)

var keyStripRegex = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// secureSegment normalizes a single path segment into a storage-safe token.
// Backslashes are treated as separators, runs of whitespace collapse into a
// single underscore, every character outside [A-Za-z0-9_.-] is dropped, and
// leading/trailing dots and underscores are stripped.
func secureSegment(segment string) string {
	segment = strings.ReplaceAll(segment, `\`, " ")
	segment = strings.Join(strings.Fields(segment), "_")
	segment = keyStripRegex.ReplaceAllString(segment, "")
	return strings.Trim(segment, "._")
}

// SecureKey sanitizes a caller-supplied name or path into a storage key.
//
// The name is split on "/"; empty, "." and ".." segments are discarded and
// every surviving segment is normalized with secureSegment. Segments that
// normalize to nothing are dropped as well, and the remainder is rejoined
// with "/".
//
// SecureKey is a pure function: same input, same output, no I/O. It returns
// ErrInvalidKey when nothing usable survives (e.g. "", "..", "../..").
func SecureKey(name string) (string, error) {
	var parts []string
	for _, segment := range strings.Split(name, "/") {
		switch segment {
		case "", ".", "..":
			continue
		}
		if s := secureSegment(segment); s != "" {
			parts = append(parts, s)
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("sanitize %q: %w", name, ErrInvalidKey)
	}

	return strings.Join(parts, "/"), nil
}
