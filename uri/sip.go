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
	"github.com/ghettovoice/uribuilder/internal/types"
	"github.com/ghettovoice/uribuilder/internal/util"
)

// SIP represents a SIP or SIPS URI (RFC 3261).
type SIP struct {
	User    UserInfo // username and passwd
	Addr    Addr     // host and port
	Params  Values   // parameters
	Headers Values   // headers
	Secured bool
}

func newSIP(name string) *SIP { return &SIP{Secured: name == "sips"} }

// Clone returns a deep copy of the SIP URI.
func (u *SIP) Clone() URI {
	if u == nil {
		return nil
	}
	u2 := *u
	u2.Addr = u.Addr.Clone()
	u2.Params = u.Params.Clone()
	u2.Headers = u.Headers.Clone()
	return &u2
}

// Scheme returns the URI scheme.
func (u *SIP) Scheme() string {
	if u == nil {
		return ""
	}
	return u.scheme()
}

func (u *SIP) scheme() string {
	if u.Secured {
		return "sips"
	}
	return "sip"
}

// DefaultPort returns the port implied by the scheme.
func (u *SIP) DefaultPort() uint16 {
	if u != nil && u.Secured {
		return 5061
	}
	return 5060
}

func (u *SIP) Components() []Component { return slices.Clone(sipComponents) }

// Get returns the escaped value of the component.
// Params are returned as "name[=value];...", headers as "name=value&...".
func (u *SIP) Get(c Component) (string, bool) {
	if u == nil {
		return "", false
	}
	switch c {
	case CompScheme:
		return u.scheme(), true
	case CompUserinfo:
		if u.User.IsZero() {
			return "", false
		}
		return u.User.render(shouldEscapeSIPUserChar, shouldEscapeSIPPasswdChar), true
	case CompHost:
		return getHost(u.Addr)
	case CompPort:
		return getPort(u.Addr)
	case CompParams:
		if len(u.Params) == 0 {
			return "", false
		}
		return strings.TrimPrefix(u.renderString(u.renderParams), ";"), true
	case CompHeaders:
		if len(u.Headers) == 0 {
			return "", false
		}
		return strings.TrimPrefix(u.renderString(u.renderHeaders), "?"), true
	}
	return "", false
}

// Set assigns the escaped value of the component.
// The scheme can only be switched between sip and sips.
func (u *SIP) Set(c Component, v string) error {
	switch c {
	case CompScheme:
		name, err := checkScheme(v, "sip", "sips")
		if err != nil {
			return errtrace.Wrap(err)
		}
		u.Secured = name == "sips"
		return nil
	case CompUserinfo:
		if v == "" {
			u.User = UserInfo{}
			return nil
		}
		user, pass, _ := strings.Cut(v, ":")
		if user == "" || !isEscapedSeq(user, grammar.IsSIPUserChar) || !isEscapedSeq(pass, grammar.IsSIPPasswdChar) {
			return errtrace.Wrap(newInvalidComponentErr(c, v, "illegal characters"))
		}
		u.User = parseUserInfo(v)
		return nil
	case CompHost:
		return errtrace.Wrap(setHost(&u.Addr, v))
	case CompPort:
		return errtrace.Wrap(setPort(&u.Addr, v))
	case CompParams:
		params, err := parseSIPParams(v)
		if err != nil {
			return errtrace.Wrap(err)
		}
		u.Params = params
		return nil
	case CompHeaders:
		hdrs, err := parseSIPHeaders(v)
		if err != nil {
			return errtrace.Wrap(err)
		}
		u.Headers = hdrs
		return nil
	}
	return errtrace.Wrap(newUnsupportedComponentErr(u, c))
}

// RenderTo writes the SIP URI to the provided writer.
func (u *SIP) RenderTo(w io.Writer, _ *RenderOptions) (num int, err error) {
	if u == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint(u.scheme(), ":")
	if !u.User.IsZero() {
		cw.Fprint(u.User.render(shouldEscapeSIPUserChar, shouldEscapeSIPPasswdChar), "@")
	}
	cw.Fprint(u.Addr)
	cw.Call(u.renderParams)
	cw.Call(u.renderHeaders)
	return errtrace.Wrap2(cw.Result())
}

func (u *SIP) renderString(fn func(io.Writer) (int, error)) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	fn(sb) //nolint:errcheck
	return sb.String()
}

func (u *SIP) renderParams(w io.Writer) (num int, err error) {
	if len(u.Params) == 0 {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	for _, k := range u.Params.Keys() {
		cw.Fprint(";", grammar.Escape(util.LCase(k), shouldEscapeSIPParamChar))
		if v, _ := u.Params.Last(k); v != "" {
			cw.Fprint("=", grammar.Escape(v, shouldEscapeSIPParamChar))
		}
	}
	return errtrace.Wrap2(cw.Result())
}

func (u *SIP) renderHeaders(w io.Writer) (num int, err error) {
	if len(u.Headers) == 0 {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint("?")

	var i int
	for _, k := range u.Headers.Keys() {
		for _, v := range u.Headers[k] {
			if i > 0 {
				cw.Fprint("&")
			}
			cw.Fprint(grammar.Escape(util.LCase(k), shouldEscapeSIPHeaderChar), "=", grammar.Escape(v, shouldEscapeSIPHeaderChar))
			i++
		}
	}
	return errtrace.Wrap2(cw.Result())
}

// Render returns the string representation of the SIP URI.
func (u *SIP) Render(opts *RenderOptions) string {
	if u == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	u.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

// String returns the string representation of the SIP URI.
func (u *SIP) String() string {
	if u == nil {
		return ""
	}
	return u.Render(nil)
}

// Format implements fmt.Formatter for custom formatting of the SIP URI.
func (u *SIP) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		if f.Flag('+') {
			u.RenderTo(f, nil) //nolint:errcheck
			return
		}
		fmt.Fprint(f, u.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(u.String()))
		return
	default:
		type hideMethods SIP
		type SIP hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*SIP)(u))
		return
	}
}

// Equal compares this SIP URI with another for equality according to RFC 3261 Section 19.1.4.
func (u *SIP) Equal(val any) bool {
	var other *SIP
	switch v := val.(type) {
	case SIP:
		other = &v
	case *SIP:
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
		u.Addr.Equal(other.Addr) &&
		u.compareParams(other.Params) &&
		u.compareHeaders(other.Headers)
}

func (u *SIP) compareParams(params Values) bool {
	switch {
	case len(u.Params) == 0 && len(params) == 0:
		return true
	case len(u.Params) == 0:
		return !hasSIPSpecParam(params)
	case len(params) == 0:
		return !hasSIPSpecParam(u.Params)
	}

	checked := map[string]bool{}
	// Any non-special parameters appearing in only one list are ignored.
	for k := range u.Params {
		if params.Has(k) {
			v1, _ := u.Params.Last(k)
			v2, _ := params.Last(k)
			if !util.EqFold(v1, v2) {
				return false
			}
		} else if sipSpecParams[util.LCase(k)] {
			return false
		}
		checked[util.LCase(k)] = true
	}
	for k := range sipSpecParams {
		if !checked[k] && params.Has(k) {
			return false
		}
	}
	return true
}

var sipSpecParams = map[string]bool{
	"transport": true,
	"user":      true,
	"method":    true,
	"maddr":     true,
	"ttl":       true,
	"lr":        true,
}

// sipTokenParams take a token value (RFC 3261 Section 25.1).
var sipTokenParams = map[string]bool{
	"transport": true,
	"user":      true,
	"method":    true,
}

func hasSIPSpecParam(ps Values) bool {
	for k := range sipSpecParams {
		if ps.Has(k) {
			return true
		}
	}
	return false
}

func (u *SIP) compareHeaders(hdrs Values) bool {
	// URI header components are never ignored.
	if len(u.Headers) != len(hdrs) {
		return false
	}
	for k := range u.Headers {
		if !hdrs.Has(k) {
			return false
		}
		v1, v2 := util.LCase(strings.Join(u.Headers.Get(k), ", ")), util.LCase(strings.Join(hdrs.Get(k), ", "))
		if v1 != v2 {
			return false
		}
	}
	return true
}

// IsValid checks whether the SIP URI is syntactically valid.
func (u *SIP) IsValid() bool {
	return u != nil && u.Addr.IsValid() && (u.User.IsZero() || u.User.Username() != "")
}

// MarshalText implements [encoding.TextMarshaler].
func (u *SIP) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (u *SIP) UnmarshalText(text []byte) error {
	u1, err := ParseSIP(string(text))
	if err != nil {
		*u = SIP{}
		return errtrace.Wrap(err)
	}
	*u = *u1
	return nil
}

// Transport returns the value of the "transport" parameter.
func (u *SIP) Transport() (string, bool) {
	return u.Params.Last("transport")
}

// MAddr returns the value of the "maddr" parameter.
func (u *SIP) MAddr() (string, bool) {
	return u.Params.Last("maddr")
}

// LR reports whether the "lr" parameter is present.
func (u *SIP) LR() bool {
	return u.Params.Has("lr")
}

// ParseSIP parses a SIP or SIPS URI from the given input s (string or []byte).
func ParseSIP[T ~string | ~[]byte](s T) (*SIP, error) {
	if len(s) == 0 {
		return nil, errtrace.Wrap(newMalformedURIErr(grammar.ErrEmptyInput))
	}

	str := string(s)
	name, rest, ok := grammar.SplitScheme(str)
	if !ok || name != "sip" && name != "sips" {
		return nil, errtrace.Wrap(newMalformedURIErr("not a SIP URI %q", str))
	}

	u := newSIP(name)
	rest, hdrs, _ := strings.Cut(rest, "?")
	if i := strings.LastIndexByte(rest, '@'); i >= 0 {
		if err := u.Set(CompUserinfo, rest[:i]); err != nil {
			return nil, errtrace.Wrap(newMalformedURIErr(err))
		}
		rest = rest[i+1:]
	}

	hostport, params, _ := strings.Cut(rest, ";")
	addr, err := types.ParseAddr(hostport)
	if err != nil {
		return nil, errtrace.Wrap(newMalformedURIErr(err))
	}
	u.Addr = addr
	if u.Params, err = parseSIPParams(params); err != nil {
		return nil, errtrace.Wrap(newMalformedURIErr(err))
	}
	if u.Headers, err = parseSIPHeaders(hdrs); err != nil {
		return nil, errtrace.Wrap(newMalformedURIErr(err))
	}
	return u, nil
}

func parseSIPParams(s string) (Values, error) {
	if s == "" {
		return nil, nil
	}

	params := make(Values)
	for p := range strings.SplitSeq(s, ";") {
		k, v, _ := strings.Cut(p, "=")
		if k == "" || !isEscapedSeq(k, grammar.IsSIPParamChar) || !isEscapedSeq(v, grammar.IsSIPParamChar) {
			return nil, errtrace.Wrap(newInvalidComponentErr(CompParams, s, "malformed parameter "+strconv.Quote(p)))
		}
		k, v = grammar.Unescape(k), grammar.Unescape(v)
		if sipTokenParams[util.LCase(k)] && !grammar.IsToken(v) {
			return nil, errtrace.Wrap(newInvalidComponentErr(CompParams, s, "parameter "+strconv.Quote(k)+" must be a token"))
		}
		params.Append(k, v)
	}
	return params, nil
}

func parseSIPHeaders(s string) (Values, error) {
	if s == "" {
		return nil, nil
	}

	hdrs := make(Values)
	for h := range strings.SplitSeq(s, "&") {
		k, v, ok := strings.Cut(h, "=")
		if !ok || k == "" || !isEscapedSeq(k, grammar.IsSIPHeaderChar) || !isEscapedSeq(v, grammar.IsSIPHeaderChar) {
			return nil, errtrace.Wrap(newInvalidComponentErr(CompHeaders, s, "malformed header "+strconv.Quote(h)))
		}
		hdrs.Append(grammar.Unescape(k), grammar.Unescape(v))
	}
	return hdrs, nil
}

// isEscapedSeq checks that s consists of chars accepted by isChar and percent-encoded triplets.
func isEscapedSeq(s string, isChar func(byte) bool) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '%' {
			if i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2]) {
				return false
			}
			i += 2
			continue
		}
		if !isChar(s[i]) {
			return false
		}
	}
	return true
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func shouldEscapeSIPUserChar(c byte) bool { return !grammar.IsSIPUserChar(c) }

func shouldEscapeSIPPasswdChar(c byte) bool { return !grammar.IsSIPPasswdChar(c) }

func shouldEscapeSIPParamChar(c byte) bool { return !grammar.IsSIPParamChar(c) }

func shouldEscapeSIPHeaderChar(c byte) bool { return !grammar.IsSIPHeaderChar(c) }
