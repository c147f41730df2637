// Package config provides lookup of named base URIs from the process environment,
// YAML files and in-memory maps.
package config

//go:generate go tool errtrace -w .
//go:generate go tool mockgen -typed -destination=../internal/testutil/configmock/source.go -package=configmock . Source

import (
	"errors"
	"io"
	"os"

	"braces.dev/errtrace"
	"gopkg.in/yaml.v3"

	"github.com/ghettovoice/uribuilder/internal/errorutil"
)

// ErrMissingValue is returned when a key has no value and no default is given.
const ErrMissingValue errorutil.Error = "missing configuration value"

// Source looks up configuration values by key.
// A source reports ok = false for absent keys; empty values count as absent.
type Source interface {
	Lookup(key string) (string, bool)
}

// Fetch returns the value of key from src, or the first of def when the key is absent.
// It fails with [ErrMissingValue] when the key is absent and no default is given.
func Fetch(src Source, key string, def ...string) (string, error) {
	if src != nil {
		if v, ok := src.Lookup(key); ok && v != "" {
			return v, nil
		}
	}
	if len(def) > 0 {
		return def[0], nil
	}
	return "", errtrace.Wrap(errorutil.NewWrapperError(ErrMissingValue, "key %q", key))
}

// Env looks up values in the process environment. Keys are prefixed with Prefix.
type Env struct {
	Prefix string
}

func (e Env) Lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(e.Prefix + key)
	return v, ok && v != ""
}

// Map is an in-memory source.
type Map map[string]string

func (m Map) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok && v != ""
}

// Chain looks up keys in every source in order, the first hit wins.
type Chain []Source

func (c Chain) Lookup(key string) (string, bool) {
	for _, src := range c {
		if src == nil {
			continue
		}
		if v, ok := src.Lookup(key); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// File is a YAML configuration document:
//
//	bases:
//	  api: https://api.example.com/v1
//	  cdn: https://cdn.example.com
type File struct {
	Bases map[string]string `yaml:"bases"`
}

// Lookup returns the base URI by name.
func (f *File) Lookup(key string) (string, bool) {
	if f == nil {
		return "", false
	}
	v, ok := f.Bases[key]
	return v, ok && v != ""
}

// DecodeFile reads a YAML configuration document from r.
func DecodeFile(r io.Reader) (*File, error) {
	f := new(File)
	if err := yaml.NewDecoder(r).Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError(err))
	}
	return f, nil
}

// LoadFile reads a YAML configuration document from the file at path.
func LoadFile(path string) (*File, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	defer fd.Close()
	return errtrace.Wrap2(DecodeFile(fd))
}
