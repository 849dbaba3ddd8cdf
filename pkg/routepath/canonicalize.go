package routepath

import (
	"errors"
	"strings"
)

// Path canonicalization errors.
var (
	ErrBackslashInPath = errors.New("path contains backslash")
	ErrNullByteInPath  = errors.New("path contains null byte")
	ErrPathEscapesRoot = errors.New("path escapes root via ..")
)

// Canonicalize normalizes the pathname part of a navigation path:
//   - ensure a leading slash
//   - collapse repeated slashes (/blog//post → /blog/post)
//   - drop "." segments and resolve ".." segments
//   - remove the trailing slash (except for root)
//
// Backslashes, NUL bytes and ".." segments that climb above the root are
// rejected. The input must not contain a query or fragment; use Split first.
func Canonicalize(path string) (string, error) {
	if path == "" {
		return "/", nil
	}
	if strings.Contains(path, "\\") {
		return "", ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return "", ErrNullByteInPath
	}

	segments := strings.Split(path, "/")
	result := make([]string, 0, len(segments))

	for _, seg := range segments {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(result) == 0 {
				return "", ErrPathEscapesRoot
			}
			result = result[:len(result)-1]
		default:
			result = append(result, seg)
		}
	}

	return "/" + strings.Join(result, "/"), nil
}

// Split separates a raw href into pathname, query and fragment.
// The query is returned without "?" and the fragment without "#".
func Split(href string) (path, query, hash string) {
	path, hash, _ = strings.Cut(href, "#")
	path, query, _ = strings.Cut(path, "?")
	return path, query, hash
}

// splitSegments trims surrounding slashes and splits on "/".
// The root path yields no segments.
func splitSegments(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
