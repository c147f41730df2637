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

// File represents a file URI (RFC 8089). The host is optional and has no port.
type File struct {
	Addr Addr
	Path string
}

func newFile(string) *File { return &File{} }

// Clone returns a deep copy of the File URI.
func (u *File) Clone() URI {
	if u == nil {
		return nil
	}
	u2 := *u
	u2.Addr = u.Addr.Clone()
	return &u2
}

// Scheme returns the URI scheme.
func (u *File) Scheme() string {
	if u == nil {
		return ""
	}
	return "file"
}

func (u *File) Components() []Component { return slices.Clone(fileComponents) }

func (u *File) Get(c Component) (string, bool) {
	if u == nil {
		return "", false
	}
	switch c {
	case CompScheme:
		return u.Scheme(), true
	case CompHost:
		return getHost(u.Addr)
	case CompPath:
		return u.Path, u.Path != ""
	}
	return "", false
}

func (u *File) Set(c Component, v string) error {
	switch c {
	case CompScheme:
		if _, err := checkScheme(v, "file"); err != nil {
			return errtrace.Wrap(err)
		}
		return nil
	case CompHost:
		return errtrace.Wrap(setHost(&u.Addr, v))
	case CompPath:
		if err := checkAbsPath(v); err != nil {
			return errtrace.Wrap(err)
		}
		u.Path = v
		return nil
	}
	return errtrace.Wrap(newUnsupportedComponentErr(u, c))
}

// RenderTo writes the File URI to the provided writer.
func (u *File) RenderTo(w io.Writer, _ *RenderOptions) (num int, err error) {
	if u == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.WriteString("file://")
	if !u.Addr.IsZero() {
		cw.WriteString(u.Addr.HostString())
	}
	cw.WriteString(u.Path)
	return errtrace.Wrap2(cw.Result())
}

// Render returns the string representation of the File URI.
func (u *File) Render(opts *RenderOptions) string {
	if u == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	u.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

func (u *File) String() string {
	if u == nil {
		return ""
	}
	return u.Render(nil)
}

// Format implements fmt.Formatter for custom formatting of the File URI.
func (u *File) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, u.String())
	case 'q':
		fmt.Fprint(f, strconv.Quote(u.String()))
	default:
		type hideMethods File
		type File hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*File)(u))
	}
}

// Equal compares this File URI with another for equality.
// An empty host equals "localhost".
func (u *File) Equal(val any) bool {
	var other *File
	switch v := val.(type) {
	case File:
		other = &v
	case *File:
		other = v
	default:
		return false
	}

	if u == other {
		return true
	} else if u == nil || other == nil {
		return false
	}

	return sameAddr(fileHost(u.Addr), fileHost(other.Addr), 0) && samePath(u.Path, other.Path)
}

func fileHost(addr Addr) Addr {
	if addr.IsZero() {
		return Host("localhost")
	}
	return addr
}

// IsValid checks whether the File URI has a path or a host.
func (u *File) IsValid() bool {
	if u == nil || !grammar.IsAbsPath(u.Path) {
		return false
	}
	if u.Addr.IsZero() {
		return u.Path != ""
	}
	_, hasPort := u.Addr.Port()
	return u.Addr.IsValid() && !hasPort
}

// MarshalText implements [encoding.TextMarshaler].
func (u *File) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (u *File) UnmarshalText(text []byte) error {
	u1, err := ParseFile(text)
	if err != nil {
		*u = File{}
		return errtrace.Wrap(err)
	}
	*u = *u1
	return nil
}

// ParseFile parses a file URI from the given input s (string or []byte).
func ParseFile[T ~string | ~[]byte](s T) (*File, error) {
	if len(s) == 0 {
		return nil, errtrace.Wrap(newMalformedURIErr(grammar.ErrEmptyInput))
	}

	pu, err := url.Parse(string(s))
	if err != nil {
		return nil, errtrace.Wrap(newMalformedURIErr(errorutil.NewWrapperError(grammar.ErrMalformedInput, err)))
	}
	if _, err := checkScheme(pu.Scheme, "file"); err != nil {
		return nil, errtrace.Wrap(newMalformedURIErr(err))
	}
	if pu.Opaque != "" || pu.User != nil || pu.RawQuery != "" || pu.Fragment != "" || pu.Port() != "" {
		return nil, errtrace.Wrap(newMalformedURIErr("unexpected components in %q", string(s)))
	}

	u := &File{Path: pu.EscapedPath()}
	if pu.Host != "" {
		if u.Addr, err = types.ParseAddr(pu.Host); err != nil {
			return nil, errtrace.Wrap(newMalformedURIErr(err))
		}
	}
	if !u.IsValid() {
		return nil, errtrace.Wrap(newMalformedURIErr("invalid file URI %q", string(s)))
	}
	return u, nil
}
