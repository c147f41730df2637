package uri

import (
	"maps"
	"slices"

	"braces.dev/errtrace"

	"github.com/ghettovoice/uribuilder/internal/errorutil"
	"github.com/ghettovoice/uribuilder/internal/util"
)

// Scheme describes a registered scheme: its name, its default port and
// the components its URI type declares.
type Scheme struct {
	Name        string
	DefaultPort uint16
	Components  []Component

	new   func(name string) URI
	parse func(s string) (URI, error)
}

// Build creates a URI of the scheme from vals.
// Only components declared by the scheme are taken, empty values are skipped.
// The scheme component of vals is ignored.
func (s *Scheme) Build(vals ComponentValues) (URI, error) {
	u := s.new(s.Name)
	for _, c := range s.Components {
		if c == CompScheme {
			continue
		}
		v, ok := vals[c]
		if !ok || v == "" {
			continue
		}
		if err := u.Set(c, v); err != nil {
			return nil, errtrace.Wrap(err)
		}
	}
	if !u.IsValid() {
		return nil, errtrace.Wrap(newInvalidComponentErr(CompHost, "", "incomplete "+s.Name+" URI"))
	}
	return u, nil
}

// Parse parses s as a URI of the scheme.
func (s *Scheme) Parse(str string) (URI, error) {
	return errtrace.Wrap2(s.parse(str))
}

var (
	httpComponents   = []Component{CompScheme, CompUserinfo, CompHost, CompPort, CompPath, CompQuery, CompFragment}
	wsComponents     = []Component{CompScheme, CompUserinfo, CompHost, CompPort, CompPath, CompQuery}
	ftpComponents    = []Component{CompScheme, CompUserinfo, CompHost, CompPort, CompPath, CompTypecode}
	fileComponents   = []Component{CompScheme, CompHost, CompPath}
	mailtoComponents = []Component{CompScheme, CompTo, CompHeaders}
	sipComponents    = []Component{CompScheme, CompUserinfo, CompHost, CompPort, CompParams, CompHeaders}
)

func schemeOf[U URI](name string, port uint16, comps []Component, newFn func(string) U, parseFn func(string) (U, error)) *Scheme {
	return &Scheme{
		Name:        name,
		DefaultPort: port,
		Components:  comps,
		new:         func(name string) URI { return newFn(name) },
		parse: func(s string) (URI, error) {
			u, err := parseFn(s)
			if err != nil {
				return nil, errtrace.Wrap(err)
			}
			return u, nil
		},
	}
}

var registry map[string]*Scheme

func init() {
	registry = map[string]*Scheme{
		"http":   schemeOf("http", 80, httpComponents, newHTTP, ParseHTTP[string]),
		"https":  schemeOf("https", 443, httpComponents, newHTTP, ParseHTTP[string]),
		"ws":     schemeOf("ws", 80, wsComponents, newWS, ParseWS[string]),
		"wss":    schemeOf("wss", 443, wsComponents, newWS, ParseWS[string]),
		"ftp":    schemeOf("ftp", 21, ftpComponents, newFTP, ParseFTP[string]),
		"file":   schemeOf("file", 0, fileComponents, newFile, ParseFile[string]),
		"mailto": schemeOf("mailto", 0, mailtoComponents, newMailto, ParseMailto[string]),
		"sip":    schemeOf("sip", 5060, sipComponents, newSIP, ParseSIP[string]),
		"sips":   schemeOf("sips", 5061, sipComponents, newSIP, ParseSIP[string]),
	}
}

// LookupScheme returns the registered scheme by its case-insensitive name.
func LookupScheme(name string) (*Scheme, bool) {
	s, ok := registry[util.LCase(name)]
	return s, ok
}

// SchemeByName is like [LookupScheme] but returns [ErrUnknownScheme] for unregistered names.
func SchemeByName(name string) (*Scheme, error) {
	if s, ok := LookupScheme(name); ok {
		return s, nil
	}
	return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrUnknownScheme, "%q", name))
}

// Schemes returns names of all registered schemes in sorted order.
func Schemes() []string {
	return slices.Sorted(maps.Keys(registry))
}
