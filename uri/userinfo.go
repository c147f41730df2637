package uri

import (
	"strings"

	"github.com/ghettovoice/uribuilder/internal/grammar"
)

// UserInfo is an immutable encapsulation of username and password details for a URI.
// Both parts are kept unescaped.
type UserInfo struct {
	user    string
	pass    string
	hasPass bool
}

// User returns a [UserInfo] containing the provided username and no password set.
func User(user string) UserInfo {
	return UserInfo{user: user}
}

// UserPassword returns a [UserInfo] containing the provided username and password.
func UserPassword(user, pass string) UserInfo {
	return UserInfo{user: user, pass: pass, hasPass: true}
}

// Username returns the username.
func (ui UserInfo) Username() string { return ui.user }

// Password returns the password in case it is set, and whether it is set.
func (ui UserInfo) Password() (string, bool) { return ui.pass, ui.hasPass }

// String returns the encoded userinfo in the "username[:password]" form.
func (ui UserInfo) String() string {
	return ui.render(shouldEscapeUser, shouldEscapePass)
}

func (ui UserInfo) render(escUser, escPass func(byte) bool) string {
	if !ui.hasPass {
		return grammar.Escape(ui.user, escUser)
	}
	return grammar.Escape(ui.user, escUser) + ":" + grammar.Escape(ui.pass, escPass)
}

// Equal compares this UserInfo with another.
func (ui UserInfo) Equal(val any) bool {
	var other UserInfo
	switch v := val.(type) {
	case UserInfo:
		other = v
	case *UserInfo:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return ui == other
}

// IsValid checks whether the UserInfo has a username or a password.
func (ui UserInfo) IsValid() bool { return ui.user != "" || ui.hasPass }

// IsZero checks whether the UserInfo is empty.
func (ui UserInfo) IsZero() bool { return ui.user == "" && !ui.hasPass }

func parseUserInfo(s string) UserInfo {
	if user, pass, ok := strings.Cut(s, ":"); ok {
		return UserPassword(grammar.Unescape(user), grammar.Unescape(pass))
	}
	return User(grammar.Unescape(s))
}

const subDelims = "!$&'()*+,;="

func shouldEscapeUser(c byte) bool {
	return !grammar.IsUnreserved(c) && strings.IndexByte(subDelims, c) < 0
}

func shouldEscapePass(c byte) bool {
	return c != ':' && shouldEscapeUser(c)
}
