package uribuilder

import (
	"braces.dev/errtrace"

	"github.com/ghettovoice/uribuilder/uri"
)

// reconcile re-types u as a URI of the target scheme.
//
// A URI with a scheme or a host is rebuilt from the components the target scheme declares.
// A scheme-less reference without a host carries the host in its path, so "target://path" is parsed
// and the rest of the declared components are copied from u.
// u itself is never modified.
func reconcile(u uri.URI, target string) (uri.URI, error) {
	sch, err := uri.SchemeByName(target)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	vals := uri.ComponentsOf(u)
	if vals[uri.CompScheme] != "" || vals[uri.CompHost] != "" {
		return errtrace.Wrap2(sch.Build(vals))
	}

	nu, err := sch.Parse(sch.Name + "://" + vals[uri.CompPath])
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	for _, c := range sch.Components {
		switch c {
		case uri.CompScheme, uri.CompHost, uri.CompPath:
			continue
		}
		v, ok := vals[c]
		if !ok {
			continue
		}
		if err := nu.Set(c, v); err != nil {
			return nil, errtrace.Wrap(err)
		}
	}
	return nu, nil
}
