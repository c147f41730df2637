package query_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gopkg.in/yaml.v3"

	"github.com/ghettovoice/uribuilder/internal/errorutil"
	"github.com/ghettovoice/uribuilder/query"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		term any
		want string
	}{
		{
			"nested sequences and mappings",
			query.M("foo", query.M("bar", []any{query.M("fizz", "buzz"), []string{"a", "b", "c"}, "fun"})),
			"foo[bar][][fizz]=buzz&foo[bar][][]=a&foo[bar][][]=b&foo[bar][][]=c&foo[bar][]=fun",
		},
		{"empties dropped", query.M("a", []any{}, "b", query.M()), ""},
		{"empties between values", query.M("a", 1, "b", []int{}, "c", 2), "a=1&c=2"},
		{"insertion order", query.M("z", 1, "a", 2), "z=1&a=2"},
		{"values escaped", query.M("q", "a b&c", "path", "/x?y"), "q=a+b%26c&path=%2Fx%3Fy"},
		{"keys literal", query.M("a b", "c"), "a b=c"},
		{"nil value", query.M("a", nil), "a="},
		{"go map sorted", map[string]any{"b": 2, "a": []int{1, 2}}, "a[]=1&a[]=2&b=2"},
		{"top-level sequence", []any{"x", query.M("k", "v")}, "[]=x&[][k]=v"},
		{"top-level scalar", "raw", "=raw"},
		{"pointer to map", &query.Map{{Key: "a", Value: true}}, "a=true"},
		{"empty key", query.M("", query.M("a", 1), "b", 2), "[a]=1&b=2"},
		{"empty key scalar", query.M("", "x"), "=x"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got := query.Encode(c.term)
			if got != c.want {
				t.Errorf("query.Encode(%v) = %q, want %q", c.term, got, c.want)
			}
			if again := query.Encode(c.term); again != got {
				t.Errorf("query.Encode(%v) is not deterministic: %q != %q", c.term, again, got)
			}
		})
	}
}

func TestEncodePrefix(t *testing.T) {
	t.Parallel()

	if got, want := query.EncodePrefix([]int{1, 2}, "ids"), "ids[]=1&ids[]=2"; got != want {
		t.Errorf("query.EncodePrefix() = %q, want %q", got, want)
	}
	if got, want := query.EncodePrefix(query.M("x", 1), "filter"), "filter[x]=1"; got != want {
		t.Errorf("query.EncodePrefix() = %q, want %q", got, want)
	}
	if got, want := query.EncodePrefix(query.M("x", 1), ""), "[x]=1"; got != want {
		t.Errorf("query.EncodePrefix() = %q, want %q", got, want)
	}
}

func TestIsStructured(t *testing.T) {
	t.Parallel()

	cases := []struct {
		val  any
		want bool
	}{
		{nil, false},
		{"a=1", false},
		{[]byte("a=1"), false},
		{42, false},
		{query.M(), true},
		{map[string]int{}, true},
		{[]string{}, true},
		{[2]int{}, true},
		{(*query.Map)(nil), false},
	}

	for _, c := range cases {
		if got := query.IsStructured(c.val); got != c.want {
			t.Errorf("query.IsStructured(%#v) = %v, want %v", c.val, got, c.want)
		}
	}
}

func TestMap(t *testing.T) {
	t.Parallel()

	m := query.M("a", 1, "b", 2, "a", 3)
	if v, ok := m.Get("a"); !ok || v != 1 {
		t.Errorf("m.Get(\"a\") = %v, %v, want 1, true", v, ok)
	}
	m.Set("b", 20)
	m.Set("c", 30)
	m.Del("a")
	want := query.Map{{Key: "b", Value: 20}, {Key: "c", Value: 30}}
	if diff := cmp.Diff(m, want); diff != "" {
		t.Errorf("m diff (-got +want):\n%v", diff)
	}
	if _, ok := m.Get("a"); ok {
		t.Errorf("m.Get(\"a\") ok = true after Del, want false")
	}

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("query.M() with odd arguments did not panic")
		}
	}()
	query.M("a")
}

func TestDecodeYAML(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		src     string
		want    query.Map
		wantErr error
	}{
		{"empty", "", nil, nil},
		{
			"nested",
			"z: 1\na:\n  - x\n  - k: v\n  - ~\nb: {c: '1.50'}\n",
			query.Map{
				{Key: "z", Value: "1"},
				{Key: "a", Value: []any{"x", query.Map{{Key: "k", Value: "v"}}, nil}},
				{Key: "b", Value: query.Map{{Key: "c", Value: "1.50"}}},
			},
			nil,
		},
		{"aliases", "base: &b {x: 1}\ncopy: *b\n", query.Map{{Key: "base", Value: query.Map{{Key: "x", Value: "1"}}}, {Key: "copy", Value: query.Map{{Key: "x", Value: "1"}}}}, nil},
		{"not a mapping", "- a\n- b\n", nil, errorutil.ErrInvalidArgument},
		{"syntax error", "a: [\n", nil, errorutil.ErrInvalidArgument},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := query.DecodeYAML([]byte(c.src))
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("query.DecodeYAML() error = %v, want %v\ndiff (-got +want):\n%v", err, c.wantErr, diff)
			}
			if diff := cmp.Diff(got, c.want); diff != "" {
				t.Errorf("query.DecodeYAML() diff (-got +want):\n%v", diff)
			}
		})
	}
}

func TestEncode_YAMLNode(t *testing.T) {
	t.Parallel()

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte("filter:\n  tags: [go, uri]\n  draft: false\npage: 2\nempty: []\nnone: null\n"), &doc); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v, want nil", err)
	}
	want := "filter[tags][]=go&filter[tags][]=uri&filter[draft]=false&page=2&none="
	if got := query.Encode(&doc); got != want {
		t.Errorf("query.Encode(node) = %q, want %q", got, want)
	}

	m, err := query.DecodeYAML([]byte("filter:\n  tags: [go, uri]\n  draft: false\npage: 2\nempty: []\nnone: null\n"))
	if err != nil {
		t.Fatalf("query.DecodeYAML() error = %v, want nil", err)
	}
	if got := query.Encode(m); got != want {
		t.Errorf("query.Encode(DecodeYAML()) = %q, want %q", got, want)
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	cases := []struct{ raw, enc, want string }{
		{"", "", ""},
		{"a=1", "", "a=1"},
		{"", "b=2", "b=2"},
		{"a=1", "b=2", "a=1&b=2"},
	}
	for _, c := range cases {
		if got := query.Merge(c.raw, c.enc); got != c.want {
			t.Errorf("query.Merge(%q, %q) = %q, want %q", c.raw, c.enc, got, c.want)
		}
	}
}
