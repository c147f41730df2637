package uri

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/uribuilder/internal/grammar"
	"github.com/ghettovoice/uribuilder/internal/ioutil"
	"github.com/ghettovoice/uribuilder/internal/util"
)

// FTP represents an FTP URI (RFC 1738).
// Typecode is one of "a", "i", "d" or empty; it is rendered as ";type=X" after the path.
type FTP struct {
	User     UserInfo
	Addr     Addr
	Path     string
	Typecode string
}

const typecodePrefix = ";type="

func newFTP(string) *FTP { return &FTP{} }

// Clone returns a deep copy of the FTP URI.
func (u *FTP) Clone() URI {
	if u == nil {
		return nil
	}
	u2 := *u
	u2.Addr = u.Addr.Clone()
	return &u2
}

// Scheme returns the URI scheme.
func (u *FTP) Scheme() string {
	if u == nil {
		return ""
	}
	return "ftp"
}

// DefaultPort returns the port implied by the scheme.
func (*FTP) DefaultPort() uint16 { return 21 }

func (u *FTP) Components() []Component { return slices.Clone(ftpComponents) }

func (u *FTP) Get(c Component) (string, bool) {
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
	case CompTypecode:
		return u.Typecode, u.Typecode != ""
	}
	return "", false
}

func (u *FTP) Set(c Component, v string) error {
	switch c {
	case CompScheme:
		if _, err := checkScheme(v, "ftp"); err != nil {
			return errtrace.Wrap(err)
		}
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
	case CompTypecode:
		if !isTypecode(v) {
			return errtrace.Wrap(newInvalidComponentErr(c, v, `must be one of "a", "i", "d"`))
		}
		u.Typecode = util.LCase(v)
		return nil
	}
	return errtrace.Wrap(newUnsupportedComponentErr(u, c))
}

func isTypecode(v string) bool {
	switch util.LCase(v) {
	case "", "a", "i", "d":
		return true
	}
	return false
}

// RenderTo writes the FTP URI to the provided writer.
func (u *FTP) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if u == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.WriteString("ftp:")
	user, _ := getUser(u.User)
	renderAuthority(cw, user, u.Addr, u.DefaultPort(), opts)
	cw.WriteString(u.Path)
	writeOpt(cw, typecodePrefix, u.Typecode)
	return errtrace.Wrap2(cw.Result())
}

// Render returns the string representation of the FTP URI.
func (u *FTP) Render(opts *RenderOptions) string {
	if u == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	u.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

func (u *FTP) String() string {
	if u == nil {
		return ""
	}
	return u.Render(nil)
}

// Format implements fmt.Formatter for custom formatting of the FTP URI.
func (u *FTP) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, u.String())
	case 'q':
		fmt.Fprint(f, strconv.Quote(u.String()))
	default:
		type hideMethods FTP
		type FTP hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*FTP)(u))
	}
}

// Equal compares this FTP URI with another for equality.
func (u *FTP) Equal(val any) bool {
	var other *FTP
	switch v := val.(type) {
	case FTP:
		other = &v
	case *FTP:
		other = v
	default:
		return false
	}

	if u == other {
		return true
	} else if u == nil || other == nil {
		return false
	}

	return u.User.Equal(other.User) &&
		sameAddr(u.Addr, other.Addr, u.DefaultPort()) &&
		samePath(u.Path, other.Path) &&
		u.Typecode == other.Typecode
}

// IsValid checks whether the FTP URI has a valid host and typecode.
func (u *FTP) IsValid() bool {
	return u != nil && u.Addr.IsValid() && grammar.IsAbsPath(u.Path) && isTypecode(u.Typecode)
}

// MarshalText implements [encoding.TextMarshaler].
func (u *FTP) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (u *FTP) UnmarshalText(text []byte) error {
	u1, err := ParseFTP(text)
	if err != nil {
		*u = FTP{}
		return errtrace.Wrap(err)
	}
	*u = *u1
	return nil
}

// ParseFTP parses an FTP URI from the given input s (string or []byte).
func ParseFTP[T ~string | ~[]byte](s T) (*FTP, error) {
	p, err := parseHier(string(s), "ftp")
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if p.query != "" || p.fragment != "" {
		return nil, errtrace.Wrap(newMalformedURIErr("query and fragment are not allowed in %q", string(s)))
	}

	u := &FTP{User: p.user, Addr: p.addr, Path: p.path}
	if i := strings.LastIndex(util.LCase(u.Path), typecodePrefix); i >= 0 {
		u.Path, u.Typecode = u.Path[:i], util.LCase(u.Path[i+len(typecodePrefix):])
		if !isTypecode(u.Typecode) {
			return nil, errtrace.Wrap(newMalformedURIErr("invalid typecode %q", u.Typecode))
		}
	}
	return u, nil
}
