package uri

import (
	"fmt"
	"io"
	"net/url"
	"slices"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/uribuilder/internal/errorutil"
	"github.com/ghettovoice/uribuilder/internal/grammar"
	"github.com/ghettovoice/uribuilder/internal/types"
	"github.com/ghettovoice/uribuilder/internal/util"
)

var genericComponents = []Component{
	CompScheme, CompUserinfo, CompHost, CompPort, CompPath, CompOpaque, CompQuery, CompFragment,
}

// Generic implements a URI of an unregistered scheme or a relative reference.
type Generic struct {
	url.URL
}

// Clone returns a deep copy of the Generic URI.
func (u *Generic) Clone() URI {
	if u == nil {
		return nil
	}
	u2 := *u
	if u.User != nil {
		if pwd, ok := u.User.Password(); ok {
			u2.User = url.UserPassword(u.User.Username(), pwd)
		} else {
			u2.User = url.User(u.User.Username())
		}
	}
	return &u2
}

// Scheme returns the URI scheme.
func (u *Generic) Scheme() string {
	if u == nil {
		return ""
	}
	return u.URL.Scheme
}

// Components returns all components a generic URI can hold.
func (u *Generic) Components() []Component { return slices.Clone(genericComponents) }

func (u *Generic) addr() Addr {
	addr, _ := types.ParseAddr(u.Host)
	return addr
}

// Get returns the escaped value of the component.
func (u *Generic) Get(c Component) (string, bool) {
	if u == nil {
		return "", false
	}
	switch c {
	case CompScheme:
		return u.URL.Scheme, u.URL.Scheme != ""
	case CompUserinfo:
		if u.User == nil {
			return "", false
		}
		return u.User.String(), true
	case CompHost:
		return getHost(u.addr())
	case CompPort:
		return getPort(u.addr())
	case CompPath:
		p := u.EscapedPath()
		return p, p != ""
	case CompOpaque:
		return u.Opaque, u.Opaque != ""
	case CompQuery:
		return u.RawQuery, u.RawQuery != ""
	case CompFragment:
		f := u.EscapedFragment()
		return f, f != ""
	}
	return "", false
}

// Set assigns the escaped value of the component.
func (u *Generic) Set(c Component, v string) error {
	switch c {
	case CompScheme:
		if v != "" && !grammar.IsScheme(v) {
			return errtrace.Wrap(newInvalidComponentErr(c, v, "illegal characters"))
		}
		u.URL.Scheme = util.LCase(v)
		return nil
	case CompUserinfo:
		var ui UserInfo
		if err := setUser(&ui, v); err != nil {
			return errtrace.Wrap(err)
		}
		switch {
		case ui.IsZero():
			u.User = nil
		case ui.hasPass:
			u.User = url.UserPassword(ui.user, ui.pass)
		default:
			u.User = url.User(ui.user)
		}
		return nil
	case CompHost:
		if v != "" && u.Path != "" && u.Path[0] != '/' {
			return errtrace.Wrap(newInvalidComponentErr(c, v, "rootless path "+strconv.Quote(u.EscapedPath())+" cannot follow a host"))
		}
		addr := u.addr()
		if err := setHost(&addr, v); err != nil {
			return errtrace.Wrap(err)
		}
		u.setAddr(addr)
		return nil
	case CompPort:
		addr := u.addr()
		if err := setPort(&addr, v); err != nil {
			return errtrace.Wrap(err)
		}
		u.setAddr(addr)
		return nil
	case CompPath:
		if !grammar.IsPath(v) {
			return errtrace.Wrap(newInvalidComponentErr(c, v, "illegal characters"))
		}
		if u.Host != "" && v != "" && v[0] != '/' {
			return errtrace.Wrap(newInvalidComponentErr(c, v, "must be absolute when a host is present"))
		}
		p, err := url.PathUnescape(v)
		if err != nil {
			return errtrace.Wrap(newInvalidComponentErr(c, v, err.Error()))
		}
		u.Path, u.RawPath = p, v
		return nil
	case CompOpaque:
		if v != "" && !grammar.IsPath(v) {
			return errtrace.Wrap(newInvalidComponentErr(c, v, "illegal characters"))
		}
		u.Opaque = v
		return nil
	case CompQuery:
		if err := checkQuery(c, v); err != nil {
			return errtrace.Wrap(err)
		}
		u.RawQuery, u.ForceQuery = v, false
		return nil
	case CompFragment:
		if err := checkQuery(c, v); err != nil {
			return errtrace.Wrap(err)
		}
		f, err := url.PathUnescape(v)
		if err != nil {
			return errtrace.Wrap(newInvalidComponentErr(c, v, err.Error()))
		}
		u.Fragment, u.RawFragment = f, v
		return nil
	}
	return errtrace.Wrap(newUnsupportedComponentErr(u, c))
}

func (u *Generic) setAddr(addr Addr) {
	if addr.IsZero() {
		u.Host = ""
		return
	}
	u.Host = addr.String()
}

// RenderTo writes the URI to the provided writer.
func (u *Generic) RenderTo(w io.Writer, _ *RenderOptions) (num int, err error) {
	if u == nil {
		return 0, nil
	}
	return errtrace.Wrap2(fmt.Fprint(w, u.URL.String()))
}

// Render returns the string representation of the URI.
func (u *Generic) Render(opts *RenderOptions) string {
	if u == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	u.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

// String returns the string representation of the URI.
func (u *Generic) String() string {
	if u == nil {
		return ""
	}
	return u.Render(nil)
}

// Format implements fmt.Formatter for custom formatting of the Generic URI.
func (u *Generic) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, u.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(u.String()))
		return
	default:
		type hideMethods Generic
		type Generic hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*Generic)(u))
		return
	}
}

// Equal compares this URI with another for equality.
func (u *Generic) Equal(val any) bool {
	var other *Generic
	switch v := val.(type) {
	case Generic:
		other = &v
	case *Generic:
		other = v
	default:
		return false
	}

	if u == other {
		return true
	} else if u == nil || other == nil {
		return false
	}
	a, b := u.URL, other.URL
	a.Host, b.Host = util.LCase(a.Host), util.LCase(b.Host)
	return a.String() == b.String()
}

// IsValid checks whether the Generic URI holds anything besides the scheme.
func (u *Generic) IsValid() bool {
	return u != nil &&
		(util.TrimSP(u.Opaque) != "" ||
			util.TrimSP(u.Host) != "" ||
			util.TrimSP(u.Path) != "" ||
			util.TrimSP(u.RawQuery) != "" ||
			util.TrimSP(u.Fragment) != "")
}

// MarshalText implements [encoding.TextMarshaler].
func (u *Generic) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (u *Generic) UnmarshalText(text []byte) error {
	u1, err := ParseGeneric(string(text))
	if err != nil {
		*u = Generic{}
		return errtrace.Wrap(err)
	}
	*u = *u1
	return nil
}

// ParseGeneric parses an arbitrary URI or relative reference from the given input s (string or []byte).
func ParseGeneric[T ~string | ~[]byte](s T) (*Generic, error) {
	if len(s) == 0 {
		return nil, errtrace.Wrap(newMalformedURIErr(grammar.ErrEmptyInput))
	}

	pu, err := url.Parse(string(s))
	if err != nil {
		return nil, errtrace.Wrap(newMalformedURIErr(errorutil.NewWrapperError(grammar.ErrMalformedInput, err)))
	}
	pu.Scheme = util.LCase(pu.Scheme)
	if pu.Host != "" {
		if _, err := types.ParseAddr(pu.Host); err != nil {
			return nil, errtrace.Wrap(newMalformedURIErr(err))
		}
	}
	return &Generic{URL: *pu}, nil
}
