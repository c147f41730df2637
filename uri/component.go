package uri

import (
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/uribuilder/internal/grammar"
	"github.com/ghettovoice/uribuilder/internal/ioutil"
	"github.com/ghettovoice/uribuilder/internal/util"
)

func getUser(ui UserInfo) (string, bool) {
	if ui.IsZero() {
		return "", false
	}
	return ui.String(), true
}

func setUser(ui *UserInfo, v string) error {
	if v == "" {
		*ui = UserInfo{}
		return nil
	}
	if !grammar.IsUserinfo(v) {
		return errtrace.Wrap(newInvalidComponentErr(CompUserinfo, v, "illegal characters"))
	}
	*ui = parseUserInfo(v)
	return nil
}

func getHost(addr Addr) (string, bool) {
	if addr.Host() == "" {
		return "", false
	}
	return addr.HostString(), true
}

// setHost replaces the host keeping the port. An empty value clears the whole address.
func setHost(addr *Addr, v string) error {
	if v == "" {
		*addr = Addr{}
		return nil
	}
	if !grammar.IsHost(v) {
		return errtrace.Wrap(newInvalidComponentErr(CompHost, v, "not a registered name or IP literal"))
	}
	*addr = addr.WithHost(v)
	return nil
}

func getPort(addr Addr) (string, bool) {
	if p, ok := addr.Port(); ok {
		return strconv.Itoa(int(p)), true
	}
	return "", false
}

func setPort(addr *Addr, v string) error {
	if v == "" {
		*addr = addr.WithoutPort()
		return nil
	}
	if addr.Host() == "" {
		return errtrace.Wrap(newInvalidComponentErr(CompPort, v, "port requires a host"))
	}
	if !grammar.IsPort(v) {
		return errtrace.Wrap(newInvalidComponentErr(CompPort, v, "not a 16-bit decimal number"))
	}
	p, _ := strconv.ParseUint(v, 10, 16)
	*addr = addr.WithPort(uint16(p))
	return nil
}

func checkAbsPath(v string) error {
	if !grammar.IsAbsPath(v) {
		return errtrace.Wrap(newInvalidComponentErr(CompPath, v, "must be empty or absolute"))
	}
	return nil
}

func checkQuery(c Component, v string) error {
	if !grammar.IsQuery(v) {
		return errtrace.Wrap(newInvalidComponentErr(c, v, "illegal characters"))
	}
	return nil
}

func checkScheme(v string, names ...string) (string, error) {
	for _, n := range names {
		if util.EqFold(v, n) {
			return n, nil
		}
	}
	return "", errtrace.Wrap(newInvalidComponentErr(CompScheme, v, "scheme family can't be changed in place"))
}

// renderAuthority writes "//[userinfo@]host[:port]". The port is skipped when it equals defPort
// unless opts asks to keep it.
func renderAuthority(cw *ioutil.CountingWriter, user string, addr Addr, defPort uint16, opts *RenderOptions) {
	cw.WriteString("//")
	if user != "" {
		cw.WriteString(user)
		cw.WriteString("@")
	}
	cw.WriteString(addr.HostString())
	if p, ok := addr.Port(); ok && (p != defPort || defPort == 0 || opts != nil && opts.KeepDefaultPort) {
		cw.WriteString(":")
		cw.WriteString(strconv.Itoa(int(p)))
	}
}

// sameAddr compares addresses treating an absent port as defPort.
func sameAddr(a, b Addr, defPort uint16) bool {
	if defPort != 0 {
		if _, ok := a.Port(); !ok {
			a = a.WithPort(defPort)
		}
		if _, ok := b.Port(); !ok {
			b = b.WithPort(defPort)
		}
	}
	return a.Equal(b)
}

func writeOpt(cw *ioutil.CountingWriter, sep, v string) {
	if v != "" {
		cw.WriteString(sep)
		cw.WriteString(v)
	}
}
