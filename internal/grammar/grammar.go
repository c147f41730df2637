// Package grammar implements the lexical rules used to validate URI components.
//
// The rules follow RFC 3986 Appendix A, plus the RFC 3261 token rule used by SIP URI
// parameters. They are composed from [abnf] operators and evaluated against the whole input.
package grammar

//go:generate go tool errtrace -w .

import (
	"net"
	"strconv"
	"strings"

	"github.com/ghettovoice/abnf"

	"github.com/ghettovoice/uribuilder/internal/constraints"
)

type Error string

func (e Error) Error() string { return string(e) }

func (Error) Grammar() bool { return true }

const (
	ErrEmptyInput     Error = "empty input"
	ErrMalformedInput Error = "malformed input"
)

func char(c byte) abnf.Operator { return abnf.Literal(string(c), []byte{c}) }

func chars(key, set string) abnf.Operator {
	oprts := make([]abnf.Operator, len(set))
	for i := range len(set) {
		oprts[i] = char(set[i])
	}
	return abnf.AltFirst(key, oprts[0], oprts[1:]...)
}

var (
	alpha = abnf.AltFirst("ALPHA",
		abnf.Range("%x41-5A", []byte{0x41}, []byte{0x5A}),
		abnf.Range("%x61-7A", []byte{0x61}, []byte{0x7A}),
	)
	digit  = abnf.Range("DIGIT", []byte{0x30}, []byte{0x39})
	hexdig = abnf.AltFirst("HEXDIG",
		digit,
		abnf.Range("%x41-46", []byte{0x41}, []byte{0x46}),
		abnf.Range("%x61-66", []byte{0x61}, []byte{0x66}),
	)

	scheme = abnf.Concat("scheme",
		alpha,
		abnf.Repeat0Inf("", abnf.AltFirst("", alpha, digit, chars("", "+-."))),
	)

	unreserved = abnf.AltFirst("unreserved", alpha, digit, chars("", "-._~"))
	pctEncoded = abnf.Concat("pct-encoded", char('%'), hexdig, hexdig)
	subDelims  = chars("sub-delims", "!$&'()*+,;=")
	pchar      = abnf.AltFirst("pchar", unreserved, pctEncoded, subDelims, chars("", ":@"))

	regName  = abnf.Repeat1Inf("reg-name", abnf.AltFirst("", unreserved, pctEncoded, subDelims))
	userinfo = abnf.Repeat0Inf("userinfo", abnf.AltFirst("", unreserved, pctEncoded, subDelims, char(':')))
	port     = abnf.Repeat1Inf("port", digit)

	segment      = abnf.Repeat0Inf("segment", pchar)
	pathAbempty  = abnf.Repeat0Inf("path-abempty", abnf.Concat("", char('/'), segment))
	pathRootless = abnf.Concat("path-rootless",
		abnf.Repeat1Inf("segment-nz", pchar),
		pathAbempty,
	)
	// Square brackets are accepted in queries for the bracket notation of nested form values.
	query = abnf.Repeat0Inf("query", abnf.AltFirst("", pchar, chars("", "/?[]")))

	token = abnf.Repeat1Inf("token", abnf.AltFirst("",
		alpha,
		digit,
		chars("", "-.!%*_+`'~"),
	))
)

// matches reports whether the operator consumes the whole non-empty input.
func matches(op abnf.Operator, s []byte) bool {
	if len(s) == 0 {
		return false
	}

	ns := abnf.NewNodes()
	defer ns.Free()

	if err := op(s, 0, ns); err != nil {
		return false
	}
	return ns.Best().Len() == len(s)
}

// IsScheme checks the scheme rule.
func IsScheme[T constraints.Byteseq](s T) bool { return matches(scheme, []byte(s)) }

// IsHost checks whether s is a registered name, an IPv4 address or a bracketed IP literal.
func IsHost[T constraints.Byteseq](s T) bool {
	if len(s) > 2 && s[0] == '[' && s[len(s)-1] == ']' {
		return net.ParseIP(string(s[1:len(s)-1])) != nil
	}
	return matches(regName, []byte(s))
}

// IsPort checks the port rule and the 16-bit range.
func IsPort[T constraints.Byteseq](s T) bool {
	if !matches(port, []byte(s)) {
		return false
	}
	_, err := strconv.ParseUint(string(s), 10, 16)
	return err == nil
}

// IsUserinfo checks the userinfo rule. An empty userinfo is valid.
func IsUserinfo[T constraints.Byteseq](s T) bool {
	return len(s) == 0 || matches(userinfo, []byte(s))
}

// IsAbsPath checks that s is empty or an absolute path made of pchar segments.
func IsAbsPath[T constraints.Byteseq](s T) bool {
	return len(s) == 0 || s[0] == '/' && matches(pathAbempty, []byte(s))
}

// IsPath checks that s is empty, absolute or rootless.
func IsPath[T constraints.Byteseq](s T) bool {
	if len(s) == 0 {
		return true
	}
	if s[0] == '/' {
		return matches(pathAbempty, []byte(s))
	}
	return matches(pathRootless, []byte(s))
}

// IsQuery checks the query rule. The fragment rule is the same.
func IsQuery[T constraints.Byteseq](s T) bool {
	return len(s) == 0 || matches(query, []byte(s))
}

// IsToken checks the RFC 3261 token rule.
func IsToken[T constraints.Byteseq](s T) bool { return matches(token, []byte(s)) }

// SplitScheme splits s into the scheme and the rest after the colon.
// It returns ok = false when s doesn't start with a valid scheme.
func SplitScheme(s string) (scheme, rest string, ok bool) {
	i := strings.IndexByte(s, ':')
	if i <= 0 || !IsScheme(s[:i]) {
		return "", s, false
	}
	return strings.ToLower(s[:i]), s[i+1:], true
}
