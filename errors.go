package uribuilder

import (
	"github.com/ghettovoice/uribuilder/config"
	"github.com/ghettovoice/uribuilder/internal/errorutil"
	"github.com/ghettovoice/uribuilder/uri"
)

const (
	// ErrMalformedURI is returned when the base URI can't be parsed.
	ErrMalformedURI = uri.ErrMalformedURI
	// ErrUnknownScheme is returned by [Builder.Scheme] for unregistered scheme names.
	ErrUnknownScheme = uri.ErrUnknownScheme
	// ErrInvalidComponent is returned when a written component is illegal for the URI scheme.
	ErrInvalidComponent = uri.ErrInvalidComponent
	// ErrUnsupportedComponent is returned when the URI scheme doesn't declare the written component.
	ErrUnsupportedComponent = uri.ErrUnsupportedComponent
	// ErrMissingConfiguration is returned when the base URI is absent from the configuration
	// and no default is given.
	ErrMissingConfiguration = config.ErrMissingValue
	// ErrInvalidArgument is returned for malformed arguments, such as a bad path template.
	ErrInvalidArgument = errorutil.ErrInvalidArgument
)
