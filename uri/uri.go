package uri

//go:generate go tool errtrace -w .

import (
	"fmt"
	"net/url"
	"slices"

	"braces.dev/errtrace"

	"github.com/ghettovoice/uribuilder/internal/errorutil"
	"github.com/ghettovoice/uribuilder/internal/grammar"
	"github.com/ghettovoice/uribuilder/internal/types"
)

// Addr represents a network address consisting of a host and optional port.
type Addr = types.Addr

// Host creates an Addr from a hostname without a port.
func Host(host string) Addr { return types.Host(host) }

// HostPort creates an Addr from a hostname and port.
func HostPort(host string, port uint16) Addr { return types.HostPort(host, port) }

// Values represents SIP URI parameters or headers as a multi-value map.
type Values = types.Values

// RenderOptions contains options for rendering URIs.
type RenderOptions = types.RenderOptions

// Component names a URI component.
type Component string

const (
	CompScheme   Component = "scheme"
	CompUserinfo Component = "userinfo"
	CompHost     Component = "host"
	CompPort     Component = "port"
	CompPath     Component = "path"
	CompOpaque   Component = "opaque"
	CompQuery    Component = "query"
	CompFragment Component = "fragment"
	CompTypecode Component = "typecode"
	CompTo       Component = "to"
	CompHeaders  Component = "headers"
	CompParams   Component = "params"
)

// ComponentValues maps component names to their string values.
type ComponentValues map[Component]string

// URI represents a URI of one of the supported scheme families.
//
// Components are read and written as strings in their escaped form.
// An empty value written with [URI.Set] clears the component.
type URI interface {
	types.Renderer
	types.Cloneable[URI]
	types.ValidFlag
	types.Equalable
	fmt.Stringer
	// Scheme returns the lower-cased scheme, or an empty string for relative references.
	Scheme() string
	// Components returns the components declared by the URI type.
	Components() []Component
	// Get returns the value of the component and whether it is present.
	Get(c Component) (string, bool)
	// Set assigns the component. The URI is left unchanged when an error is returned.
	Set(c Component, v string) error
}

const (
	// ErrMalformedURI is returned when a string can't be parsed into a URI.
	ErrMalformedURI errorutil.Error = "malformed URI"
	// ErrUnknownScheme is returned for scheme names absent from the registry.
	ErrUnknownScheme errorutil.Error = "unknown scheme"
	// ErrInvalidComponent is returned when a component value is illegal for the URI type.
	ErrInvalidComponent errorutil.Error = "invalid component"
	// ErrUnsupportedComponent is returned when the URI type doesn't declare the component.
	ErrUnsupportedComponent errorutil.Error = "unsupported component"
)

func newMalformedURIErr(args ...any) error {
	return errorutil.NewWrapperError(ErrMalformedURI, args...) //errtrace:skip
}

func newInvalidComponentErr(c Component, v string, reason string) error {
	return errorutil.NewWrapperError(ErrInvalidComponent, "%s %q: %s", c, v, reason) //errtrace:skip
}

func newUnsupportedComponentErr(u URI, c Component) error {
	return errorutil.NewWrapperError(ErrUnsupportedComponent, "%s in %T", c, u) //errtrace:skip
}

// Parse parses any URI from a given input s (string or []byte).
//
// The scheme is detected first: registered schemes (see [Schemes]) produce their own URI type,
// any other URI, including relative references, is returned as [Generic].
func Parse[T ~string | ~[]byte](s T) (URI, error) {
	if len(s) == 0 {
		return nil, errtrace.Wrap(newMalformedURIErr(grammar.ErrEmptyInput))
	}

	str := string(s)
	if name, _, ok := grammar.SplitScheme(str); ok {
		if sch, ok := LookupScheme(name); ok {
			return errtrace.Wrap2(sch.Parse(str))
		}
	}

	u, err := ParseGeneric(str)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return u, nil
}

// MustParse is like [Parse] but panics on error.
func MustParse[T ~string | ~[]byte](s T) URI {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

// QueryEscape escapes s so it can be safely placed inside a query value.
func QueryEscape(s string) string { return url.QueryEscape(s) }

// QueryUnescape does the inverse transformation of [QueryEscape].
func QueryUnescape(s string) (string, error) { return errtrace.Wrap2(url.QueryUnescape(s)) }

// Declares reports whether the URI type declares the component.
func Declares(u URI, c Component) bool {
	return u != nil && slices.Contains(u.Components(), c)
}

// ComponentsOf returns all present components of the URI.
func ComponentsOf(u URI) ComponentValues {
	if u == nil {
		return nil
	}
	vals := make(ComponentValues)
	for _, c := range u.Components() {
		if v, ok := u.Get(c); ok {
			vals[c] = v
		}
	}
	return vals
}
