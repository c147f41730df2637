package query

//go:generate go tool errtrace -w .

import (
	"fmt"

	"braces.dev/errtrace"
	"gopkg.in/yaml.v3"

	"github.com/ghettovoice/uribuilder/internal/errorutil"
)

// Pair is a single key-value entry of a [Map].
type Pair struct {
	Key   string
	Value any
}

// Map is a mapping term that keeps keys in insertion order.
type Map []Pair

// M builds a [Map] from alternating keys and values.
// Keys are stringified with [fmt.Sprint]. It panics on an odd number of arguments.
func M(kv ...any) Map {
	if len(kv)%2 != 0 {
		panic(errorutil.NewInvalidArgumentError("query.M: odd number of arguments %d", len(kv)))
	}
	m := make(Map, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		m = append(m, Pair{Key: scalarString(kv[i]), Value: kv[i+1]})
	}
	return m
}

// Get returns the value of the first entry with the key.
func (m Map) Get(key string) (any, bool) {
	for _, p := range m {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Set replaces the value of the first entry with the key, or appends a new entry.
func (m *Map) Set(key string, val any) {
	for i := range *m {
		if (*m)[i].Key == key {
			(*m)[i].Value = val
			return
		}
	}
	*m = append(*m, Pair{Key: key, Value: val})
}

// Del removes all entries with the key.
func (m *Map) Del(key string) {
	out := (*m)[:0]
	for _, p := range *m {
		if p.Key != key {
			out = append(out, p)
		}
	}
	clear((*m)[len(out):])
	*m = out
}

// UnmarshalYAML implements [yaml.Unmarshaler].
// Nested mappings become [Map] values, sequences become []any,
// scalars keep their literal text, null scalars become nil.
func (m *Map) UnmarshalYAML(node *yaml.Node) error {
	n := resolveNode(node)
	if n == nil {
		*m = nil
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("line %d: expected a mapping, got %s", n.Line, n.ShortTag()))
	}
	v, err := decodeNode(n)
	if err != nil {
		return errtrace.Wrap(err)
	}
	*m = v.(Map) //nolint:forcetypeassert
	return nil
}

func decodeNode(n *yaml.Node) (any, error) {
	n = resolveNode(n)
	if n == nil {
		return nil, nil
	}
	switch n.Kind {
	case yaml.MappingNode:
		m := make(Map, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := resolveNode(n.Content[i])
			if k == nil || k.Kind != yaml.ScalarNode {
				return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("line %d: mapping key must be a scalar", n.Content[i].Line))
			}
			v, err := decodeNode(n.Content[i+1])
			if err != nil {
				return nil, errtrace.Wrap(err)
			}
			m = append(m, Pair{Key: k.Value, Value: v})
		}
		return m, nil
	case yaml.SequenceNode:
		s := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := decodeNode(c)
			if err != nil {
				return nil, errtrace.Wrap(err)
			}
			s = append(s, v)
		}
		return s, nil
	default:
		if n.ShortTag() == "!!null" {
			return nil, nil
		}
		return n.Value, nil
	}
}

// DecodeYAML decodes a YAML mapping document into a [Map].
func DecodeYAML(data []byte) (Map, error) {
	var m Map
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError(fmt.Errorf("decode query YAML: %w", err)))
	}
	return m, nil
}
