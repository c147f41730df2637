// Package segpath implements a URI path model made of non-empty segments
// and a trailing slash flag.
//
// Paths are built from heterogeneous inputs: strings are split on "/", numbers and other
// scalars are stringified, slices and arrays are flattened, nil values are dropped.
//
//	segpath.Parse("/api", []any{nil, 2, ""}, "users/").String() // "/api/2/users/"
//
// The root path has no segments and always renders as "/".
package segpath

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"
)

// Path is an immutable URI path.
// The zero value is the root path.
type Path struct {
	segments []string
	trailing bool
}

// Root returns the root path.
func Root() Path { return Path{} }

// Parse builds a path from parts.
// The path ends with a slash iff the last non-nil part, after stringification, ends with "/".
func Parse(parts ...any) Path {
	var p Path
	var f flattener
	f.walk(parts)
	p.segments = f.segs
	p.trailing = len(p.segments) > 0 && f.seen && strings.HasSuffix(f.last, "/")
	return p
}

type flattener struct {
	segs []string
	last string
	seen bool
}

func (f *flattener) leaf(s string) {
	f.last, f.seen = s, true
	for seg := range strings.SplitSeq(s, "/") {
		if seg != "" {
			f.segs = append(f.segs, seg)
		}
	}
}

func (f *flattener) walk(v any) {
	switch v := v.(type) {
	case nil:
	case string:
		f.leaf(v)
	case []byte:
		f.leaf(string(v))
	case Path:
		f.leaf(v.String())
	case *Path:
		if v != nil {
			f.leaf(v.String())
		}
	case []string:
		for _, s := range v {
			f.leaf(s)
		}
	case []any:
		for _, e := range v {
			f.walk(e)
		}
	case fmt.Stringer:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return
		}
		f.leaf(v.String())
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			for i := range rv.Len() {
				f.walk(rv.Index(i).Interface())
			}
		case reflect.Pointer, reflect.Interface:
			if !rv.IsNil() {
				f.walk(rv.Elem().Interface())
			}
		default:
			f.leaf(fmt.Sprint(v))
		}
	}
}

// String renders the path. The root path is always "/".
func (p Path) String() string {
	if len(p.segments) == 0 {
		return "/"
	}
	s := "/" + strings.Join(p.segments, "/")
	if p.trailing {
		s += "/"
	}
	return s
}

// Segments returns a copy of the path segments.
func (p Path) Segments() []string { return slices.Clone(p.segments) }

// Len returns the number of segments.
func (p Path) Len() int { return len(p.segments) }

// IsRoot reports whether the path has no segments.
func (p Path) IsRoot() bool { return len(p.segments) == 0 }

// Trailing reports whether the path renders with a trailing slash.
func (p Path) Trailing() bool { return p.trailing }

// WithTrailing returns a copy of the path with the trailing flag set to t.
// It has no effect on the root path.
func (p Path) WithTrailing(t bool) Path {
	if p.IsRoot() {
		return Root()
	}
	return Path{segments: p.Segments(), trailing: t}
}

// Parent returns the path without its last segment.
// The parent of a single-segment path and of the root path is the root path.
func (p Path) Parent() Path {
	if len(p.segments) <= 1 {
		return Root()
	}
	return Path{segments: slices.Clone(p.segments[:len(p.segments)-1])}
}

// Join appends parts to the path.
// The trailing flag is taken from the last non-nil part, or kept when parts add nothing.
func (p Path) Join(parts ...any) Path {
	var f flattener
	f.walk(parts)
	p2 := Path{
		segments: append(p.Segments(), f.segs...),
		trailing: p.trailing,
	}
	if f.seen {
		p2.trailing = strings.HasSuffix(f.last, "/")
	}
	if p2.IsRoot() {
		p2.trailing = false
	}
	return p2
}

// Equal reports whether val is a path with the same segments and trailing flag.
func (p Path) Equal(val any) bool {
	var other Path
	switch v := val.(type) {
	case Path:
		other = v
	case *Path:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return p.trailing == other.trailing && slices.Equal(p.segments, other.segments)
}

// MarshalText implements [encoding.TextMarshaler].
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (p *Path) UnmarshalText(text []byte) error {
	*p = Parse(string(text))
	return nil
}

// LogValue implements [slog.LogValuer].
func (p Path) LogValue() slog.Value {
	return slog.StringValue(p.String())
}
