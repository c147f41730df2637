package grammar

import (
	"bytes"

	"github.com/ghettovoice/uribuilder/internal/constraints"
)

// Unescape unescapes s by converting each 3-byte encoded substring of the form "% HEXDIG HEXDIG" into the hex-decoded byte.
func Unescape[T constraints.Byteseq](s T) T {
	if len(s) == 0 {
		return s
	}

	var b bytes.Buffer
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && ishex(s[i+1]) && ishex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		} else {
			b.WriteByte(s[i])
		}
	}
	return T(b.Bytes())
}

// Escape escapes s by replacing each char matched by shouldEscape callback to the hex form "% HEXDIG HEXDIG".
// Already escaped triplets are kept as is. A nil callback escapes everything except RFC 3986 unreserved chars.
func Escape[T constraints.Byteseq](s T, shouldEscape func(c byte) bool) T {
	if len(s) == 0 {
		return s
	}

	if shouldEscape == nil {
		shouldEscape = func(c byte) bool { return !IsUnreserved(c) }
	}

	var b bytes.Buffer
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '%' && i+2 < len(s) && ishex(s[i+1]) && ishex(s[i+2]):
			b.WriteByte(s[i])
			b.WriteByte(s[i+1])
			b.WriteByte(s[i+2])
			i += 2
		case shouldEscape(s[i]):
			b.WriteByte('%')
			b.WriteByte(upperhex[s[i]>>4])
			b.WriteByte(upperhex[s[i]&15])
		default:
			b.WriteByte(s[i])
		}
	}
	return T(b.Bytes())
}

const upperhex = "0123456789ABCDEF"

func ishex(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

// IsAlphanumChar checks alphanum rule.
func IsAlphanumChar(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// IsUnreserved checks the RFC 3986 unreserved rule.
func IsUnreserved(c byte) bool {
	return IsAlphanumChar(c) || c == '-' || c == '.' || c == '_' || c == '~'
}

var sipMarkChars = map[byte]bool{
	'-':  true,
	'_':  true,
	'.':  true,
	'!':  true,
	'~':  true,
	'*':  true,
	'\'': true,
	'(':  true,
	')':  true,
}

// IsSIPUnreserved checks the RFC 3261 unreserved rule (alphanum / mark).
func IsSIPUnreserved(c byte) bool {
	return sipMarkChars[c] || IsAlphanumChar(c)
}

var sipUserUnreservedChars = map[byte]bool{
	'&': true,
	'=': true,
	'+': true,
	'$': true,
	',': true,
	';': true,
	'?': true,
	'/': true,
}

// IsSIPUserChar checks on user-unreserved rule.
func IsSIPUserChar(c byte) bool {
	return sipUserUnreservedChars[c] || IsSIPUnreserved(c)
}

var sipPasswdUnreservedChars = map[byte]bool{
	'&': true,
	'=': true,
	'+': true,
	'$': true,
	',': true,
}

// IsSIPPasswdChar checks on password-unreserved rule.
func IsSIPPasswdChar(c byte) bool {
	return sipPasswdUnreservedChars[c] || IsSIPUnreserved(c)
}

var sipParamUnreservedChars = map[byte]bool{
	'[': true,
	']': true,
	'/': true,
	':': true,
	'&': true,
	'+': true,
	'$': true,
}

// IsSIPParamChar checks on param-unreserved rule.
func IsSIPParamChar(c byte) bool {
	return sipParamUnreservedChars[c] || IsSIPUnreserved(c)
}

var sipHeaderUnreservedChars = map[byte]bool{
	'[': true,
	']': true,
	'/': true,
	'?': true,
	':': true,
	'+': true,
	'$': true,
}

// IsSIPHeaderChar checks on hnv-unreserved rule.
func IsSIPHeaderChar(c byte) bool {
	return sipHeaderUnreservedChars[c] || IsSIPUnreserved(c)
}
