package routepath

import (
	"errors"
	"fmt"
	"strings"
)

// Pattern compilation errors.
var (
	ErrInvalidPattern = errors.New("invalid route pattern")
	ErrMissingParam   = errors.New("missing route parameter")
)

type segmentKind uint8

const (
	segStatic segmentKind = iota
	segParam
	segCatchAll
)

type segment struct {
	kind      segmentKind
	value     string // static text or parameter name
	paramType string
}

// Pattern is a compiled route pattern. It is immutable and safe for
// concurrent use.
type Pattern struct {
	raw      string
	segments []segment
	keys     []string
}

// Compile parses a route pattern.
func Compile(pattern string) (*Pattern, error) {
	if strings.ContainsAny(pattern, "\\\x00?#") {
		return nil, patternError(pattern, "contains a reserved character")
	}

	p := &Pattern{raw: pattern}
	trimmed := strings.Trim(pattern, "/")
	if trimmed == "" {
		return p, nil
	}

	seen := make(map[string]bool)
	parts := strings.Split(trimmed, "/")
	for i, part := range parts {
		switch {
		case part == "":
			return nil, patternError(pattern, "empty segment")

		case part[0] == '*':
			if i != len(parts)-1 {
				return nil, patternError(pattern, "catch-all %q must be the last segment", part)
			}
			name := part[1:]
			if err := checkName(pattern, name, seen); err != nil {
				return nil, err
			}
			p.segments = append(p.segments, segment{kind: segCatchAll, value: name})
			p.keys = append(p.keys, name)

		case part[0] == ':':
			name, typ := parseParamSegment(part)
			if err := checkName(pattern, name, seen); err != nil {
				return nil, err
			}
			if !knownType(typ) {
				return nil, patternError(pattern, "unknown parameter type %q", typ)
			}
			p.segments = append(p.segments, segment{kind: segParam, value: name, paramType: typ})
			p.keys = append(p.keys, name)

		default:
			p.segments = append(p.segments, segment{kind: segStatic, value: part})
		}
	}

	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the pattern as written.
func (p *Pattern) String() string {
	return p.raw
}

// Keys returns the parameter names in pattern order.
func (p *Pattern) Keys() []string {
	return append([]string(nil), p.keys...)
}

// IsStatic reports whether the pattern declares no parameters.
func (p *Pattern) IsStatic() bool {
	return len(p.keys) == 0
}

// Match matches a concrete path and returns the captured values, one per
// key, in pattern order.
func (p *Pattern) Match(path string) ([]string, bool) {
	parts := splitSegments(path)
	var values []string
	if len(p.keys) > 0 {
		values = make([]string, 0, len(p.keys))
	}

	for i, seg := range p.segments {
		if seg.kind == segCatchAll {
			if i >= len(parts) {
				return nil, false
			}
			return append(values, strings.Join(parts[i:], "/")), true
		}
		if i >= len(parts) {
			return nil, false
		}
		part := parts[i]
		switch seg.kind {
		case segStatic:
			if part != seg.value {
				return nil, false
			}
		case segParam:
			if part == "" || ValidateParam(part, seg.paramType) != nil {
				return nil, false
			}
			values = append(values, part)
		}
	}

	if len(parts) != len(p.segments) {
		return nil, false
	}
	return values, true
}

// Build fills the pattern with params and returns a concrete path with a
// leading slash. Every declared key must be present and valid for its type.
func (p *Pattern) Build(params map[string]string) (string, error) {
	if len(p.segments) == 0 {
		return "/", nil
	}

	parts := make([]string, 0, len(p.segments))
	for _, seg := range p.segments {
		if seg.kind == segStatic {
			parts = append(parts, seg.value)
			continue
		}
		value, ok := params[seg.value]
		if !ok || value == "" {
			return "", fmt.Errorf("%w: %q in %q", ErrMissingParam, seg.value, p.raw)
		}
		if seg.kind == segParam {
			if strings.Contains(value, "/") {
				return "", fmt.Errorf("%w: %q contains a slash", ErrInvalidPattern, seg.value)
			}
			if err := ValidateParam(value, seg.paramType); err != nil {
				return "", fmt.Errorf("parameter %q: %w", seg.value, err)
			}
		}
		parts = append(parts, strings.Trim(value, "/"))
	}

	return "/" + strings.Join(parts, "/"), nil
}

// parseParamSegment extracts name and type from a parameter segment.
// Input: ":id" or ":id:int" -> name="id", type="string" or "int"
func parseParamSegment(seg string) (name, paramType string) {
	seg = seg[1:]
	if idx := strings.Index(seg, ":"); idx != -1 {
		return seg[:idx], seg[idx+1:]
	}
	return seg, TypeString
}

func checkName(pattern, name string, seen map[string]bool) error {
	if name == "" {
		return patternError(pattern, "empty parameter name")
	}
	for i, r := range name {
		ok := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9')
		if !ok {
			return patternError(pattern, "invalid parameter name %q", name)
		}
	}
	if seen[name] {
		return patternError(pattern, "duplicate parameter %q", name)
	}
	seen[name] = true
	return nil
}

func patternError(pattern, format string, args ...any) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidPattern, pattern, fmt.Sprintf(format, args...))
}
