package uribuilder

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"braces.dev/errtrace"
	"github.com/go-andiamo/urit"

	"github.com/ghettovoice/uribuilder/internal/errorutil"
	"github.com/ghettovoice/uribuilder/log"
	"github.com/ghettovoice/uribuilder/query"
	"github.com/ghettovoice/uribuilder/segpath"
	"github.com/ghettovoice/uribuilder/uri"
)

// Options are the builder options.
type Options struct {
	// Log is the logger.
	// If nil, the [log.Default] is used.
	Log *slog.Logger
}

func (o *Options) log() *slog.Logger {
	if o == nil || o.Log == nil {
		return log.Default()
	}
	return o.Log
}

// Builder derives a URI from a base URI by chained operations.
//
// Builder is not safe for concurrent use. Use [Builder.Clone] to get an independent copy.
type Builder struct {
	uri uri.URI
	err error
	log *slog.Logger
}

// New creates a builder holding a clone of u.
// A nil u is recorded as [ErrMalformedURI].
// Options are optional, if nil, default values are used (see [Options]).
func New(u uri.URI, opts *Options) *Builder {
	b := &Builder{log: opts.log()}
	if u == nil {
		b.err = errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedURI, "nil URI"))
		return b
	}
	b.uri = u.Clone()
	return b
}

// Parse parses s and creates a builder holding the resulting URI.
func Parse(s string, opts *Options) (*Builder, error) {
	u, err := uri.Parse(s)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return New(u, opts), nil
}

// Build parses s, applies fn to the builder and returns the resulting URI.
func Build(s string, fn func(b *Builder)) (uri.URI, error) {
	b, err := Parse(s, nil)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if fn != nil {
		fn(b)
	}
	return errtrace.Wrap2(b.URI())
}

// Err returns the first error recorded by the builder.
func (b *Builder) Err() error { return b.err }

// URI returns a clone of the held URI, or the recorded error.
func (b *Builder) URI() (uri.URI, error) {
	if b.err != nil {
		return nil, errtrace.Wrap(b.err)
	}
	return b.uri.Clone(), nil
}

// String returns the held URI string.
// Failed operations leave the held URI unchanged, use [Builder.Err] to check them.
func (b *Builder) String() string {
	if b.uri == nil {
		return ""
	}
	return b.uri.String()
}

// Format implements [fmt.Formatter].
func (b *Builder) Format(f fmt.State, verb rune) {
	switch verb {
	case 's', 'q':
		fmt.Fprintf(f, fmt.FormatString(f, verb), b.String())
	case 'v':
		if b.err != nil {
			fmt.Fprintf(f, "%%!v(ERROR=%v)", b.err)
			return
		}
		fmt.Fprintf(f, fmt.FormatString(f, verb), b.uri)
	default:
		fmt.Fprintf(f, "%%!%c(%T=%s)", verb, b, b.String())
	}
}

// Clone returns an independent copy of the builder.
func (b *Builder) Clone() *Builder {
	b2 := *b
	if b.uri != nil {
		b2.uri = b.uri.Clone()
	}
	return &b2
}

func (b *Builder) fail(op string, err error) *Builder {
	b.err = err
	b.log.LogAttrs(context.Background(), slog.LevelDebug, "uri builder operation failed",
		slog.String("operation", op),
		slog.Any("uri", b.uri),
		slog.Any("error", err),
	)
	return b
}

// Set writes the raw component value. An empty value clears the component.
func (b *Builder) Set(c uri.Component, v string) *Builder {
	if b.err != nil {
		return b
	}
	if c == uri.CompScheme {
		return b.Scheme(v)
	}
	if err := b.uri.Set(c, v); err != nil {
		return b.fail("set "+string(c), errtrace.Wrap(err))
	}
	return b
}

// Host sets the URI host. An empty host clears the whole authority address.
func (b *Builder) Host(host string) *Builder { return b.Set(uri.CompHost, host) }

// Port sets the URI port. Zero port clears it.
func (b *Builder) Port(port uint16) *Builder {
	if port == 0 {
		return b.Set(uri.CompPort, "")
	}
	return b.Set(uri.CompPort, strconv.Itoa(int(port)))
}

// Fragment sets the URI fragment.
func (b *Builder) Fragment(frag string) *Builder { return b.Set(uri.CompFragment, frag) }

// ClearFragment removes the URI fragment.
func (b *Builder) ClearFragment() *Builder { return b.Set(uri.CompFragment, "") }

// Scheme re-types the held URI as a URI of the named scheme.
//
// Components declared by the target scheme are carried over, other components are dropped.
// The held URI is replaced only on success.
func (b *Builder) Scheme(name string) *Builder {
	if b.err != nil {
		return b
	}
	nu, err := reconcile(b.uri, name)
	if err != nil {
		return b.fail("scheme", errtrace.Wrap(err))
	}
	b.log.LogAttrs(context.Background(), slog.LevelDebug, "URI scheme reconciled",
		slog.String("target", name),
		slog.Any("from", b.uri),
		slog.Any("to", nu),
	)
	b.uri = nu
	return b
}

// CurrentPath returns the held URI path.
func (b *Builder) CurrentPath() segpath.Path {
	if b.uri == nil {
		return segpath.Root()
	}
	p, _ := b.uri.Get(uri.CompPath)
	return segpath.Parse(p)
}

// Segments returns segments of the held URI path.
func (b *Builder) Segments() []string { return b.CurrentPath().Segments() }

// IsRoot reports whether the held URI path is the root path.
func (b *Builder) IsRoot() bool { return b.CurrentPath().IsRoot() }

func (b *Builder) setPath(op string, p segpath.Path) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.uri.Set(uri.CompPath, p.String()); err != nil {
		return b.fail(op, errtrace.Wrap(err))
	}
	return b
}

// Path replaces the path with the path built from parts (see [segpath.Parse]).
// Without parts the path is set to the root.
func (b *Builder) Path(parts ...any) *Builder { return b.setPath("path", segpath.Parse(parts...)) }

// Join appends parts to the current path.
func (b *Builder) Join(parts ...any) *Builder {
	if b.err != nil {
		return b
	}
	return b.setPath("join", b.CurrentPath().Join(parts...))
}

// Root sets the path to "/".
func (b *Builder) Root() *Builder { return b.setPath("root", segpath.Root()) }

// ClearPath is an alias for [Builder.Root].
func (b *Builder) ClearPath() *Builder { return b.Root() }

// Parent drops the last path segment. The root path stays the root.
func (b *Builder) Parent() *Builder {
	if b.err != nil {
		return b
	}
	return b.setPath("parent", b.CurrentPath().Parent())
}

// TrailingSlash makes the path end with a slash.
func (b *Builder) TrailingSlash() *Builder {
	if b.err != nil {
		return b
	}
	return b.setPath("trailing slash", b.CurrentPath().WithTrailing(true))
}

// ClearTrailingSlash removes the trailing slash of the path.
func (b *Builder) ClearTrailingSlash() *Builder {
	if b.err != nil {
		return b
	}
	return b.setPath("clear trailing slash", b.CurrentPath().WithTrailing(false))
}

// Expand fills the path template (see [urit.NewTemplate]) with vars and sets the result as the path.
//
//	b.Expand("/users/{id}/posts/{post}", urit.Named("id", 42, "post", "first"))
func (b *Builder) Expand(tmpl string, vars urit.PathVars) *Builder {
	if b.err != nil {
		return b
	}
	t, err := urit.NewTemplate(tmpl)
	if err != nil {
		return b.fail("expand", errtrace.Wrap(errorutil.NewInvalidArgumentError(err)))
	}
	p, err := t.PathFrom(vars)
	if err != nil {
		return b.fail("expand", errtrace.Wrap(errorutil.NewInvalidArgumentError(err)))
	}
	return b.setPath("expand", segpath.Parse(p))
}

// Match matches the current path against the path template and returns the extracted vars.
// It returns false for malformed templates.
func (b *Builder) Match(tmpl string) (urit.PathVars, bool) {
	t, err := urit.NewTemplate(tmpl)
	if err != nil {
		return nil, false
	}
	return t.Matches(b.CurrentPath().String())
}

func rawQuery(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	}
	if query.IsStructured(v) {
		return query.Encode(v)
	}
	return fmt.Sprint(v)
}

// Query replaces the query.
//
// Mappings and sequences (see [query.IsStructured]) are encoded with [query.Encode],
// any other value is written as a raw query string. A nil value clears the query.
func (b *Builder) Query(v any) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.uri.Set(uri.CompQuery, rawQuery(v)); err != nil {
		return b.fail("query", errtrace.Wrap(err))
	}
	return b
}

// MergeQuery appends v to the current query. Values are encoded as in [Builder.Query].
func (b *Builder) MergeQuery(v any) *Builder {
	if b.err != nil {
		return b
	}
	cur, _ := b.uri.Get(uri.CompQuery)
	if err := b.uri.Set(uri.CompQuery, query.Merge(cur, rawQuery(v))); err != nil {
		return b.fail("merge query", errtrace.Wrap(err))
	}
	return b
}

// ClearQuery removes the query.
func (b *Builder) ClearQuery() *Builder { return b.Set(uri.CompQuery, "") }
