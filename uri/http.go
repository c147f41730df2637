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
	"github.com/ghettovoice/uribuilder/internal/ioutil"
	"github.com/ghettovoice/uribuilder/internal/types"
	"github.com/ghettovoice/uribuilder/internal/util"
)

// HTTP represents an HTTP or HTTPS URI.
// Path, Query and Fragment are kept in their escaped form.
type HTTP struct {
	User     UserInfo // username and password
	Addr     Addr     // host and port
	Path     string
	Query    string
	Fragment string
	Secured  bool
}

func newHTTP(name string) *HTTP { return &HTTP{Secured: name == "https"} }

// Clone returns a deep copy of the HTTP URI.
func (u *HTTP) Clone() URI {
	if u == nil {
		return nil
	}
	u2 := *u
	u2.Addr = u.Addr.Clone()
	return &u2
}

// Scheme returns the URI scheme.
func (u *HTTP) Scheme() string {
	if u == nil {
		return ""
	}
	if u.Secured {
		return "https"
	}
	return "http"
}

// DefaultPort returns the port implied by the scheme.
func (u *HTTP) DefaultPort() uint16 {
	if u != nil && u.Secured {
		return 443
	}
	return 80
}

func (u *HTTP) Components() []Component { return slices.Clone(httpComponents) }

// Get returns the escaped value of the component.
func (u *HTTP) Get(c Component) (string, bool) {
	if u == nil {
		return "", false
	}
	switch c {
	case CompScheme:
		return u.Scheme(), true
	case CompUserinfo:
		return getUser(u.User)
	case CompHost:
		return getHost(u.Addr)
	case CompPort:
		return getPort(u.Addr)
	case CompPath:
		return u.Path, u.Path != ""
	case CompQuery:
		return u.Query, u.Query != ""
	case CompFragment:
		return u.Fragment, u.Fragment != ""
	}
	return "", false
}

// Set assigns the escaped value of the component.
// The scheme can only be switched between http and https.
func (u *HTTP) Set(c Component, v string) error {
	switch c {
	case CompScheme:
		name, err := checkScheme(v, "http", "https")
		if err != nil {
			return errtrace.Wrap(err)
		}
		u.Secured = name == "https"
		return nil
	case CompUserinfo:
		return errtrace.Wrap(setUser(&u.User, v))
	case CompHost:
		return errtrace.Wrap(setHost(&u.Addr, v))
	case CompPort:
		return errtrace.Wrap(setPort(&u.Addr, v))
	case CompPath:
		if err := checkAbsPath(v); err != nil {
			return errtrace.Wrap(err)
		}
		u.Path = v
		return nil
	case CompQuery:
		if err := checkQuery(c, v); err != nil {
			return errtrace.Wrap(err)
		}
		u.Query = v
		return nil
	case CompFragment:
		if err := checkQuery(c, v); err != nil {
			return errtrace.Wrap(err)
		}
		u.Fragment = v
		return nil
	}
	return errtrace.Wrap(newUnsupportedComponentErr(u, c))
}

// RenderTo writes the HTTP URI to the provided writer.
func (u *HTTP) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if u == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.WriteString(u.Scheme())
	cw.WriteString(":")
	user, _ := getUser(u.User)
	renderAuthority(cw, user, u.Addr, u.DefaultPort(), opts)
	cw.WriteString(u.Path)
	writeOpt(cw, "?", u.Query)
	writeOpt(cw, "#", u.Fragment)
	return errtrace.Wrap2(cw.Result())
}

// Render returns the string representation of the HTTP URI.
func (u *HTTP) Render(opts *RenderOptions) string {
	if u == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	u.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

// String returns the string representation of the HTTP URI.
func (u *HTTP) String() string {
	if u == nil {
		return ""
	}
	return u.Render(nil)
}

// Format implements fmt.Formatter for custom formatting of the HTTP URI.
func (u *HTTP) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, u.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(u.String()))
		return
	default:
		type hideMethods HTTP
		type HTTP hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*HTTP)(u))
		return
	}
}

// Equal compares this HTTP URI with another for equality.
// An absent port equals the default port of the scheme, an empty path equals "/".
func (u *HTTP) Equal(val any) bool {
	var other *HTTP
	switch v := val.(type) {
	case HTTP:
		other = &v
	case *HTTP:
		other = v
	default:
		return false
	}

	if u == other {
		return true
	} else if u == nil || other == nil {
		return false
	}

	return u.Secured == other.Secured &&
		u.User.Equal(other.User) &&
		sameAddr(u.Addr, other.Addr, u.DefaultPort()) &&
		samePath(u.Path, other.Path) &&
		u.Query == other.Query &&
		u.Fragment == other.Fragment
}

func samePath(p1, p2 string) bool {
	if p1 == "" {
		p1 = "/"
	}
	if p2 == "" {
		p2 = "/"
	}
	return p1 == p2
}

// IsValid checks whether the HTTP URI has a valid host.
func (u *HTTP) IsValid() bool {
	return u != nil && u.Addr.IsValid() && grammar.IsAbsPath(u.Path)
}

// MarshalText implements [encoding.TextMarshaler].
func (u *HTTP) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (u *HTTP) UnmarshalText(text []byte) error {
	u1, err := ParseHTTP(text)
	if err != nil {
		*u = HTTP{}
		return errtrace.Wrap(err)
	}
	*u = *u1
	return nil
}

// ParseHTTP parses an HTTP or HTTPS URI from the given input s (string or []byte).
func ParseHTTP[T ~string | ~[]byte](s T) (*HTTP, error) {
	p, err := parseHier(string(s), "http", "https")
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &HTTP{
		User:     p.user,
		Addr:     p.addr,
		Path:     p.path,
		Query:    p.query,
		Fragment: p.fragment,
		Secured:  p.scheme == "https",
	}, nil
}

type hierParts struct {
	scheme   string
	user     UserInfo
	addr     Addr
	path     string
	query    string
	fragment string
}

// parseHier splits a "scheme://authority[/path][?query][#fragment]" string.
// The scheme must be one of names.
func parseHier(s string, names ...string) (hierParts, error) {
	if len(s) == 0 {
		return hierParts{}, errtrace.Wrap(newMalformedURIErr(grammar.ErrEmptyInput))
	}

	pu, err := url.Parse(s)
	if err != nil {
		return hierParts{}, errtrace.Wrap(newMalformedURIErr(errorutil.NewWrapperError(grammar.ErrMalformedInput, err)))
	}

	var p hierParts
	if p.scheme, err = checkScheme(pu.Scheme, names...); err != nil {
		return hierParts{}, errtrace.Wrap(newMalformedURIErr(err))
	}
	if pu.Opaque != "" || pu.Host == "" {
		return hierParts{}, errtrace.Wrap(newMalformedURIErr("missing authority in %q", s))
	}
	if p.addr, err = types.ParseAddr(pu.Host); err != nil {
		return hierParts{}, errtrace.Wrap(newMalformedURIErr(err))
	}
	if pu.User != nil {
		if pass, ok := pu.User.Password(); ok {
			p.user = UserPassword(pu.User.Username(), pass)
		} else {
			p.user = User(pu.User.Username())
		}
	}
	p.path = pu.EscapedPath()
	p.query = pu.RawQuery
	p.fragment = pu.EscapedFragment()
	if !grammar.IsAbsPath(p.path) || !grammar.IsQuery(p.query) || !grammar.IsQuery(p.fragment) {
		return hierParts{}, errtrace.Wrap(newMalformedURIErr(grammar.ErrMalformedInput))
	}
	return p, nil
}
