package uri

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/uribuilder/internal/grammar"
	"github.com/ghettovoice/uribuilder/internal/ioutil"
	"github.com/ghettovoice/uribuilder/internal/util"
)

// WS represents a WebSocket URI (RFC 6455), ws or wss.
// WebSocket URIs have no fragment.
type WS struct {
	User    UserInfo
	Addr    Addr
	Path    string
	Query   string
	Secured bool
}

func newWS(name string) *WS { return &WS{Secured: name == "wss"} }

// Clone returns a deep copy of the WS URI.
func (u *WS) Clone() URI {
	if u == nil {
		return nil
	}
	u2 := *u
	u2.Addr = u.Addr.Clone()
	return &u2
}

// Scheme returns the URI scheme.
func (u *WS) Scheme() string {
	if u == nil {
		return ""
	}
	if u.Secured {
		return "wss"
	}
	return "ws"
}

// DefaultPort returns the port implied by the scheme.
func (u *WS) DefaultPort() uint16 {
	if u != nil && u.Secured {
		return 443
	}
	return 80
}

func (u *WS) Components() []Component { return slices.Clone(wsComponents) }

func (u *WS) Get(c Component) (string, bool) {
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
	}
	return "", false
}

func (u *WS) Set(c Component, v string) error {
	switch c {
	case CompScheme:
		name, err := checkScheme(v, "ws", "wss")
		if err != nil {
			return errtrace.Wrap(err)
		}
		u.Secured = name == "wss"
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
	}
	return errtrace.Wrap(newUnsupportedComponentErr(u, c))
}

// RenderTo writes the WS URI to the provided writer.
func (u *WS) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
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
	return errtrace.Wrap2(cw.Result())
}

// Render returns the string representation of the WS URI.
func (u *WS) Render(opts *RenderOptions) string {
	if u == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	u.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

func (u *WS) String() string {
	if u == nil {
		return ""
	}
	return u.Render(nil)
}

// Format implements fmt.Formatter for custom formatting of the WS URI.
func (u *WS) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, u.String())
	case 'q':
		fmt.Fprint(f, strconv.Quote(u.String()))
	default:
		type hideMethods WS
		type WS hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*WS)(u))
	}
}

// Equal compares this WS URI with another for equality.
func (u *WS) Equal(val any) bool {
	var other *WS
	switch v := val.(type) {
	case WS:
		other = &v
	case *WS:
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
		u.Query == other.Query
}

// IsValid checks whether the WS URI has a valid host.
func (u *WS) IsValid() bool {
	return u != nil && u.Addr.IsValid() && grammar.IsAbsPath(u.Path)
}

// MarshalText implements [encoding.TextMarshaler].
func (u *WS) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (u *WS) UnmarshalText(text []byte) error {
	u1, err := ParseWS(text)
	if err != nil {
		*u = WS{}
		return errtrace.Wrap(err)
	}
	*u = *u1
	return nil
}

// ParseWS parses a ws or wss URI from the given input s (string or []byte).
func ParseWS[T ~string | ~[]byte](s T) (*WS, error) {
	p, err := parseHier(string(s), "ws", "wss")
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if p.fragment != "" {
		return nil, errtrace.Wrap(newMalformedURIErr("fragment is not allowed in %q", string(s)))
	}
	return &WS{
		User:    p.user,
		Addr:    p.addr,
		Path:    p.path,
		Query:   p.query,
		Secured: p.scheme == "wss",
	}, nil
}
