// Package uri provides parsing, component access and rendering of the URI types
// the builder works with.
//
// # Overview
//
// Every supported scheme family has its own type, all of them implement the [URI] interface:
//
//   - [HTTP]: http and https URIs with userinfo, host, port, path, query and fragment.
//   - [WS]: ws and wss URIs (RFC 6455). Same as HTTP, but without a fragment.
//   - [FTP]: ftp URIs (RFC 1738) with an optional ";type=" typecode.
//   - [File]: file URIs (RFC 8089) with an optional host and an absolute path.
//   - [Mailto]: mailto URIs (RFC 6068) with a list of addresses and headers.
//   - [SIP]: sip and sips URIs (RFC 3261) with parameters and headers.
//   - [Generic]: any other URI or relative reference, based on [net/url.URL].
//
// # Components
//
// Components are addressed by [Component] names and read or written as escaped strings
// with [URI.Get] and [URI.Set]. Each type declares its components, see [URI.Components].
// Setting an undeclared component fails with [ErrUnsupportedComponent], an illegal value
// fails with [ErrInvalidComponent]. An empty value removes the component.
//
//	u, _ := uri.Parse("https://example.com/docs")
//	_ = u.Set(uri.CompQuery, "page=2")
//	fmt.Println(u) // https://example.com/docs?page=2
//
// # Scheme registry
//
// Registered schemes are described by [Scheme] values, see [LookupScheme] and [Schemes].
// [Scheme.Build] assembles a URI of the scheme from a set of component values, taking
// only the components the scheme declares:
//
//	sch, _ := uri.LookupScheme("sip")
//	u, _ := sch.Build(uri.ComponentValues{uri.CompHost: "example.com", uri.CompPath: "/ignored"})
//	fmt.Println(u) // sip:example.com
//
// # Rendering
//
// Ports equal to the scheme default port are omitted during rendering,
// unless [RenderOptions.KeepDefaultPort] is set. SIP URIs always keep the port.
//
// # Thread Safety
//
// URI types are not safe for concurrent modification. Use Clone to share them across goroutines.
package uri
