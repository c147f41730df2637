package uribuilder

import (
	"braces.dev/errtrace"

	"github.com/ghettovoice/uribuilder/config"
)

// FromConfig creates a builder from the base URI stored under key in src.
// The first of def is used when the key is absent.
// It fails with [ErrMissingConfiguration] when the key is absent and no default is given.
func FromConfig(src config.Source, key string, def ...string) (*Builder, error) {
	s, err := config.Fetch(src, key, def...)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return errtrace.Wrap2(Parse(s, nil))
}

// Env creates a builder from the base URI stored in the environment variable key.
// See [FromConfig] for details.
func Env(key string, def ...string) (*Builder, error) {
	return errtrace.Wrap2(FromConfig(config.Env{}, key, def...))
}
