// Package uribuilder derives URIs from a base URI with chained operations.
//
// A [Builder] holds a clone of the base URI and mutates it in place:
//
//	u, err := uribuilder.New(base, nil).
//		Scheme("https").
//		Join("users", id).
//		Query(query.M("page", 2, "tags", []string{"a", "b"})).
//		URI()
//
// Paths are handled as segment sequences (see [segpath.Path]),
// structured queries are rendered with bracket notation (see [query.Encode]).
// Changing the scheme re-types the URI: components declared by the target scheme are carried over,
// the rest is dropped.
//
// The first failed operation is recorded by the builder.
// Later operations are skipped and the error is reported by [Builder.Err] and [Builder.URI].
package uribuilder

//go:generate go tool errtrace -w .
