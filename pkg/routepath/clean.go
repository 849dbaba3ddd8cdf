package routepath

import "strings"

// Cleaner turns location pathnames into pattern-relative paths and back.
// The zero value has no base path and no locale.
type Cleaner struct {
	// BasePath is the application's mount prefix (e.g. "/app"). "" and "/"
	// mean none.
	BasePath string

	// Locale is a leading path segment (e.g. "en") stripped when present.
	Locale string
}

// Clean strips the base path and locale segment from a pathname and returns
// it without surrounding slashes. The root is returned as "/".
//
//	Cleaner{BasePath: "/app", Locale: "en"}.Clean("/app/en/about/") // "about"
func (c Cleaner) Clean(path string) (string, error) {
	path, err := Canonicalize(path)
	if err != nil {
		return "", err
	}

	path = stripSegmentPrefix(path, c.base())
	if c.Locale != "" {
		path = stripSegmentPrefix(path, "/"+c.Locale)
	}

	if trimmed := strings.Trim(path, "/"); trimmed != "" {
		return trimmed, nil
	}
	return "/", nil
}

// Pathname returns the history pathname for a cleaned path: the locale
// prefix followed by the path, always with a leading slash. The base path is
// left to the history adapter.
func (c Cleaner) Pathname(cleaned string) string {
	cleaned = strings.Trim(cleaned, "/")
	var b strings.Builder
	if c.Locale != "" {
		b.WriteString("/")
		b.WriteString(c.Locale)
	}
	if cleaned != "" {
		b.WriteString("/")
		b.WriteString(cleaned)
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

func (c Cleaner) base() string {
	base := strings.Trim(c.BasePath, "/")
	if base == "" {
		return ""
	}
	return "/" + base
}

// stripSegmentPrefix removes prefix from path when it matches on a segment
// boundary, so "/app" is stripped from "/app/x" but not from "/application".
func stripSegmentPrefix(path, prefix string) string {
	if prefix == "" {
		return path
	}
	if path == prefix {
		return "/"
	}
	if strings.HasPrefix(path, prefix+"/") {
		return path[len(prefix):]
	}
	return path
}
