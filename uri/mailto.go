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

// Mailto represents a mailto URI (RFC 6068).
// To is the escaped comma-separated list of addresses, Headers is the escaped "hname=hvalue&..." list.
type Mailto struct {
	To      string
	Headers string
}

func newMailto(string) *Mailto { return &Mailto{} }

// Clone returns a copy of the Mailto URI.
func (u *Mailto) Clone() URI {
	if u == nil {
		return nil
	}
	u2 := *u
	return &u2
}

// Scheme returns the URI scheme.
func (u *Mailto) Scheme() string {
	if u == nil {
		return ""
	}
	return "mailto"
}

func (u *Mailto) Components() []Component { return slices.Clone(mailtoComponents) }

func (u *Mailto) Get(c Component) (string, bool) {
	if u == nil {
		return "", false
	}
	switch c {
	case CompScheme:
		return u.Scheme(), true
	case CompTo:
		return u.To, u.To != ""
	case CompHeaders:
		return u.Headers, u.Headers != ""
	}
	return "", false
}

func (u *Mailto) Set(c Component, v string) error {
	switch c {
	case CompScheme:
		if _, err := checkScheme(v, "mailto"); err != nil {
			return errtrace.Wrap(err)
		}
		return nil
	case CompTo:
		if !isMailtoAddrs(v) {
			return errtrace.Wrap(newInvalidComponentErr(c, v, "illegal characters"))
		}
		u.To = v
		return nil
	case CompHeaders:
		if err := checkQuery(c, v); err != nil {
			return errtrace.Wrap(err)
		}
		u.Headers = v
		return nil
	}
	return errtrace.Wrap(newUnsupportedComponentErr(u, c))
}

func isMailtoAddrs(v string) bool {
	return v == "" || v[0] != '/' && grammar.IsPath(v)
}

// RenderTo writes the Mailto URI to the provided writer.
func (u *Mailto) RenderTo(w io.Writer, _ *RenderOptions) (num int, err error) {
	if u == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.WriteString("mailto:")
	cw.WriteString(u.To)
	writeOpt(cw, "?", u.Headers)
	return errtrace.Wrap2(cw.Result())
}

// Render returns the string representation of the Mailto URI.
func (u *Mailto) Render(opts *RenderOptions) string {
	if u == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	u.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

func (u *Mailto) String() string {
	if u == nil {
		return ""
	}
	return u.Render(nil)
}

// Format implements fmt.Formatter for custom formatting of the Mailto URI.
func (u *Mailto) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, u.String())
	case 'q':
		fmt.Fprint(f, strconv.Quote(u.String()))
	default:
		type hideMethods Mailto
		type Mailto hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*Mailto)(u))
	}
}

// Equal compares this Mailto URI with another for equality.
// Addresses are compared case-insensitively.
func (u *Mailto) Equal(val any) bool {
	var other *Mailto
	switch v := val.(type) {
	case Mailto:
		other = &v
	case *Mailto:
		other = v
	default:
		return false
	}

	if u == other {
		return true
	} else if u == nil || other == nil {
		return false
	}
	return util.EqFold(u.To, other.To) && u.Headers == other.Headers
}

// IsValid checks whether the Mailto URI components contain only legal characters.
func (u *Mailto) IsValid() bool {
	return u != nil && isMailtoAddrs(u.To) && grammar.IsQuery(u.Headers)
}

// MarshalText implements [encoding.TextMarshaler].
func (u *Mailto) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (u *Mailto) UnmarshalText(text []byte) error {
	u1, err := ParseMailto(text)
	if err != nil {
		*u = Mailto{}
		return errtrace.Wrap(err)
	}
	*u = *u1
	return nil
}

// ParseMailto parses a mailto URI from the given input s (string or []byte).
func ParseMailto[T ~string | ~[]byte](s T) (*Mailto, error) {
	if len(s) == 0 {
		return nil, errtrace.Wrap(newMalformedURIErr(grammar.ErrEmptyInput))
	}

	name, rest, ok := grammar.SplitScheme(string(s))
	if !ok || name != "mailto" {
		return nil, errtrace.Wrap(newMalformedURIErr("not a mailto URI %q", string(s)))
	}
	u := new(Mailto)
	u.To, u.Headers, _ = strings.Cut(rest, "?")
	if !u.IsValid() {
		return nil, errtrace.Wrap(newMalformedURIErr(grammar.ErrMalformedInput))
	}
	return u, nil
}
