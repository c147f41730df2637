// Package query encodes nested values into query strings using the bracket notation
// of HTML forms.
//
// A term is a scalar, an ordered mapping or a sequence:
//
//   - mappings are [Map] values, YAML mapping nodes or Go maps (visited in sorted key order);
//   - sequences are slices and arrays (except []byte) or YAML sequence nodes;
//   - anything else is a scalar.
//
// Mapping keys become bracket labels and are never escaped, sequence elements all get
// the same "[]" suffix, scalar values are escaped with [uri.QueryEscape]:
//
//	query.Encode(query.M("foo", query.M("bar", []any{query.M("fizz", "buzz"), []string{"a", "b"}, "fun"})))
//	// foo[bar][][fizz]=buzz&foo[bar][][]=a&foo[bar][][]=b&foo[bar][]=fun
//
// Empty mappings and sequences produce nothing.
package query

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ghettovoice/uribuilder/uri"
)

// Encode encodes the term without a key prefix.
// A scalar term has no key, so it renders as "=value".
func Encode(term any) string { return encode(term, "", false) }

// EncodePrefix encodes the term under the key prefix.
// An empty prefix is still a key, so mapping keys render as "[key]".
func EncodePrefix(term any, prefix string) string { return encode(term, prefix, true) }

func encode(term any, prefix string, hasPrefix bool) string {
	switch kind, v := classify(term); kind {
	case kindMapping:
		var parts []string
		eachPair(v, func(key string, val any) {
			if hasPrefix {
				key = prefix + "[" + key + "]"
			}
			if s := encode(val, key, true); s != "" {
				parts = append(parts, s)
			}
		})
		return strings.Join(parts, "&")
	case kindSequence:
		var parts []string
		eachElem(v, func(val any) {
			if s := encode(val, prefix+"[]", true); s != "" {
				parts = append(parts, s)
			}
		})
		return strings.Join(parts, "&")
	default:
		return prefix + "=" + uri.QueryEscape(scalarString(v))
	}
}

// IsStructured reports whether v is a mapping or a sequence term.
func IsStructured(v any) bool {
	kind, _ := classify(v)
	return kind != kindScalar
}

type termKind int

const (
	kindScalar termKind = iota
	kindMapping
	kindSequence
)

// classify resolves YAML documents and aliases and reports the term kind.
func classify(v any) (termKind, any) {
	switch t := v.(type) {
	case nil:
		return kindScalar, nil
	case Map:
		return kindMapping, t
	case *Map:
		if t == nil {
			return kindScalar, nil
		}
		return kindMapping, *t
	case *yaml.Node:
		n := resolveNode(t)
		switch {
		case n == nil:
			return kindScalar, nil
		case n.Kind == yaml.MappingNode:
			return kindMapping, n
		case n.Kind == yaml.SequenceNode:
			return kindSequence, n
		}
		return kindScalar, n
	case []byte, string:
		return kindScalar, t
	}

	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Map:
		return kindMapping, v
	case reflect.Slice, reflect.Array:
		return kindSequence, v
	case reflect.Pointer:
		if rv.IsNil() {
			return kindScalar, nil
		}
		if _, ok := v.(fmt.Stringer); !ok {
			return classify(rv.Elem().Interface())
		}
	}
	return kindScalar, v
}

func resolveNode(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch {
		case n.Kind == yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case n.Kind == yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

func eachPair(v any, fn func(key string, val any)) {
	switch t := v.(type) {
	case Map:
		for _, p := range t {
			fn(p.Key, p.Value)
		}
	case *yaml.Node:
		for i := 0; i+1 < len(t.Content); i += 2 {
			fn(resolveNode(t.Content[i]).Value, t.Content[i+1])
		}
	default:
		rv := reflect.ValueOf(v)
		type kv struct {
			key string
			val any
		}
		kvs := make([]kv, 0, rv.Len())
		for it := rv.MapRange(); it.Next(); {
			kvs = append(kvs, kv{scalarString(it.Key().Interface()), it.Value().Interface()})
		}
		slices.SortFunc(kvs, func(a, b kv) int { return cmp.Compare(a.key, b.key) })
		for _, p := range kvs {
			fn(p.key, p.val)
		}
	}
}

func eachElem(v any, fn func(val any)) {
	if n, ok := v.(*yaml.Node); ok {
		for _, c := range n.Content {
			fn(c)
		}
		return
	}
	rv := reflect.ValueOf(v)
	for i := range rv.Len() {
		fn(rv.Index(i).Interface())
	}
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case *yaml.Node:
		if t.ShortTag() == "!!null" {
			return ""
		}
		return t.Value
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}

// Merge joins two raw query strings with "&", skipping empty ones.
func Merge(raw, encoded string) string {
	switch {
	case raw == "":
		return encoded
	case encoded == "":
		return raw
	}
	return raw + "&" + encoded
}
