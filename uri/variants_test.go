package uri_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/uribuilder/uri"
)

type setStep struct {
	comp uri.Component
	val  string
}

func TestURI_Set(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		uri     string
		steps   []setStep
		want    string
		wantErr error
	}{
		{
			"ws path and query",
			"wss://example.com",
			[]setStep{{uri.CompPath, "/chat"}, {uri.CompQuery, "room=1"}, {uri.CompPort, "443"}},
			"wss://example.com/chat?room=1",
			nil,
		},
		{"ws fragment", "ws://example.com/chat", []setStep{{uri.CompFragment, "top"}}, "", uri.ErrUnsupportedComponent},
		{"ws to wss", "ws://example.com:8080", []setStep{{uri.CompScheme, "wss"}}, "wss://example.com:8080", nil},
		{
			"ftp typecode",
			"ftp://ftp.example.com/pub",
			[]setStep{{uri.CompTypecode, "A"}, {uri.CompPort, "21"}},
			"ftp://ftp.example.com/pub;type=a",
			nil,
		},
		{"ftp bad typecode", "ftp://ftp.example.com/pub", []setStep{{uri.CompTypecode, "x"}}, "", uri.ErrInvalidComponent},
		{"ftp query", "ftp://ftp.example.com/pub", []setStep{{uri.CompQuery, "x=1"}}, "", uri.ErrUnsupportedComponent},
		{"file host", "file:///etc/hosts", []setStep{{uri.CompHost, "server"}}, "file://server/etc/hosts", nil},
		{"file port", "file:///etc/hosts", []setStep{{uri.CompPort, "80"}}, "", uri.ErrUnsupportedComponent},
		{
			"mailto",
			"mailto:alice@example.com",
			[]setStep{{uri.CompTo, "alice@example.com,bob@example.com"}, {uri.CompHeaders, "subject=hi"}},
			"mailto:alice@example.com,bob@example.com?subject=hi",
			nil,
		},
		{"mailto fragment", "mailto:alice@example.com", []setStep{{uri.CompFragment, "x"}}, "", uri.ErrUnsupportedComponent},
		{
			"generic authority",
			"example.com/foo",
			[]setStep{{uri.CompPath, "/foo"}, {uri.CompHost, "example.com"}, {uri.CompPort, "8080"}, {uri.CompScheme, "Gopher"}},
			"gopher://example.com:8080/foo",
			nil,
		},
		{
			"generic userinfo and fragment",
			"//example.com/a%20b",
			[]setStep{{uri.CompUserinfo, "alice:secret"}, {uri.CompFragment, "sec%201"}},
			"//alice:secret@example.com/a%20b#sec%201",
			nil,
		},
		{"generic rootless path with host", "//example.com", []setStep{{uri.CompPath, "foo"}}, "", uri.ErrInvalidComponent},
		{"generic host over rootless path", "example.com/foo", []setStep{{uri.CompHost, "api.example.com"}}, "", uri.ErrInvalidComponent},
		{"generic host over empty path", "?a=1", []setStep{{uri.CompHost, "api.example.com"}}, "//api.example.com?a=1", nil},
		{"generic clear host", "//example.com:8080/foo", []setStep{{uri.CompHost, ""}}, "/foo", nil},
		{"generic typecode", "foo", []setStep{{uri.CompTypecode, "a"}}, "", uri.ErrUnsupportedComponent},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			u := uri.MustParse(c.uri)
			var err error
			for _, s := range c.steps {
				if err = u.Set(s.comp, s.val); err != nil {
					break
				}
			}
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("u.Set() error = %v, want %v\ndiff (-got +want):\n%v", err, c.wantErr, diff)
			}
			if err != nil {
				return
			}
			if got := u.String(); got != c.want {
				t.Errorf("u.String() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestGeneric_SetHost_RootlessPath(t *testing.T) {
	t.Parallel()

	u := uri.MustParse("example.com/foo")
	err := u.Set(uri.CompHost, "api.example.com")
	if !cmp.Equal(err, uri.ErrInvalidComponent, cmpopts.EquateErrors()) {
		t.Fatalf("u.Set(host) error = %v, want %v", err, uri.ErrInvalidComponent)
	}
	if got, want := u.String(), "example.com/foo"; got != want {
		t.Errorf("u.String() = %q, want %q", got, want)
	}
	if got, ok := u.Get(uri.CompHost); ok {
		t.Errorf("u.Get(host) = %q, true, want \"\", false", got)
	}

	if err := u.Set(uri.CompPath, "/example.com/foo"); err != nil {
		t.Fatalf("u.Set(path) error = %v, want nil", err)
	}
	if err := u.Set(uri.CompHost, "api.example.com"); err != nil {
		t.Fatalf("u.Set(host) error = %v, want nil", err)
	}
	if got, want := u.String(), "//api.example.com/example.com/foo"; got != want {
		t.Errorf("u.String() = %q, want %q", got, want)
	}
}

func TestURI_Get(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		uri    string
		comp   uri.Component
		want   string
		wantOK bool
	}{
		{"http explicit port", "https://example.com:443", uri.CompPort, "443", true},
		{"http implicit port", "https://example.com", uri.CompPort, "", false},
		{"http ipv6 host", "http://[::1]:8080", uri.CompHost, "[::1]", true},
		{"ftp typecode", "ftp://example.com/a;type=d", uri.CompTypecode, "d", true},
		{"ftp path", "ftp://example.com/a;type=d", uri.CompPath, "/a", true},
		{"file host", "file:///etc/hosts", uri.CompHost, "", false},
		{"mailto to", "mailto:alice@example.com", uri.CompTo, "alice@example.com", true},
		{"generic path", "example.com/foo/bar", uri.CompPath, "example.com/foo/bar", true},
		{"generic scheme", "example.com/foo/bar", uri.CompScheme, "", false},
		{"undeclared", "mailto:alice@example.com", uri.CompHost, "", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, ok := uri.MustParse(c.uri).Get(c.comp)
			if got != c.want || ok != c.wantOK {
				t.Errorf("u.Get(%q) = %q, %v, want %q, %v", c.comp, got, ok, c.want, c.wantOK)
			}
		})
	}
}

func TestURI_Equal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		u1   string
		u2   string
		want bool
	}{
		{"ws default port", "ws://example.com:80/chat", "ws://EXAMPLE.com/chat", true},
		{"ftp typecode", "ftp://example.com/a;type=i", "ftp://example.com/a", false},
		{"file localhost", "file:///etc/hosts", "file://localhost/etc/hosts", true},
		{"mailto case", "mailto:Alice@Example.com", "mailto:alice@example.com", true},
		{"generic host case", "//Example.com/a", "//example.com/a", true},
		{"generic path case", "//example.com/A", "//example.com/a", false},
		{"different types", "http://example.com", "ws://example.com", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := uri.MustParse(c.u1).Equal(uri.MustParse(c.u2)); got != c.want {
				t.Errorf("Equal(%q, %q) = %v, want %v", c.u1, c.u2, got, c.want)
			}
		})
	}
}

func TestURI_MarshalText(t *testing.T) {
	t.Parallel()

	var u uri.HTTP
	if err := u.UnmarshalText([]byte("https://example.com/a?b=c")); err != nil {
		t.Fatalf("u.UnmarshalText() error = %v, want nil", err)
	}
	got, err := u.MarshalText()
	if err != nil || string(got) != "https://example.com/a?b=c" {
		t.Errorf("u.MarshalText() = %q, %v, want %q, nil", got, err, "https://example.com/a?b=c")
	}

	var s uri.SIP
	if err := s.UnmarshalText([]byte("http://example.com")); !cmp.Equal(err, uri.ErrMalformedURI, cmpopts.EquateErrors()) {
		t.Errorf("s.UnmarshalText() error = %v, want %v", err, uri.ErrMalformedURI)
	}
}
