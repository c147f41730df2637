// Command uribuild derives a URI from a base URI and prints it.
//
//	uribuild --scheme https --join users --join 42 --query-yaml '{page: 2}' example.com/api
//	uribuild --env API_BASE --config bases.yaml --expand '/users/{id}' --var id=42
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"braces.dev/errtrace"
	"github.com/go-andiamo/urit"
	"github.com/urfave/cli/v3"

	"github.com/ghettovoice/uribuilder"
	"github.com/ghettovoice/uribuilder/config"
	"github.com/ghettovoice/uribuilder/internal/errorutil"
	"github.com/ghettovoice/uribuilder/log"
	"github.com/ghettovoice/uribuilder/query"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "uribuild:", err)
		stop()
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "uribuild",
		Usage:     "derive a URI from a base URI",
		ArgsUsage: "[BASE]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env", Usage: "read the base URI from the named variable"},
			&cli.StringFlag{Name: "config", Usage: "YAML file with named bases consulted before the environment"},
			&cli.StringFlag{Name: "default", Usage: "base URI used when the variable is absent"},
			&cli.StringFlag{Name: "scheme", Usage: "change the scheme"},
			&cli.StringFlag{Name: "host", Usage: "set the host"},
			&cli.UintFlag{Name: "port", Usage: "set the port, 0 clears it"},
			&cli.StringSliceFlag{Name: "path", Usage: "replace the path"},
			&cli.StringSliceFlag{Name: "join", Usage: "append segments to the path"},
			&cli.BoolFlag{Name: "parent", Usage: "drop the last path segment"},
			&cli.BoolFlag{Name: "root", Usage: "set the path to /"},
			&cli.BoolFlag{Name: "trailing-slash", Usage: "end the path with a slash"},
			&cli.BoolFlag{Name: "clear-trailing-slash", Usage: "remove the trailing slash"},
			&cli.StringFlag{Name: "expand", Usage: "set the path from a template filled with --var values"},
			&cli.StringSliceFlag{Name: "var", Usage: "template variable as `name=value`"},
			&cli.StringFlag{Name: "query", Usage: "replace the query with a raw query string"},
			&cli.StringFlag{Name: "query-yaml", Usage: "replace the query with an encoded YAML mapping"},
			&cli.StringFlag{Name: "merge-query", Usage: "append a raw query string"},
			&cli.BoolFlag{Name: "clear-query", Usage: "remove the query"},
			&cli.StringFlag{Name: "fragment", Usage: "set the fragment"},
			&cli.BoolFlag{Name: "clear-fragment", Usage: "remove the fragment"},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "log level (debug, info, warn, error)"},
			&cli.BoolFlag{Name: "dev-log", Usage: "use the developer log format"},
		},
		Action: run,
	}
}

func newLogger(cmd *cli.Command) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError(err))
	}
	if cmd.Bool("dev-log") {
		return log.Dev(cmd.Root().ErrWriter, lvl), nil
	}
	return log.Console(cmd.Root().ErrWriter, lvl), nil
}

func newBuilder(cmd *cli.Command, opts *uribuilder.Options) (*uribuilder.Builder, error) {
	if key := cmd.String("env"); key != "" {
		src := config.Chain{config.Env{}}
		if path := cmd.String("config"); path != "" {
			f, err := config.LoadFile(path)
			if err != nil {
				return nil, errtrace.Wrap(err)
			}
			src = config.Chain{f, config.Env{}}
		}
		var def []string
		if cmd.IsSet("default") {
			def = append(def, cmd.String("default"))
		}
		s, err := config.Fetch(src, key, def...)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		return errtrace.Wrap2(uribuilder.Parse(s, opts))
	}

	base := cmd.Args().First()
	if base == "" {
		base = cmd.String("default")
	}
	if base == "" {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("missing base URI"))
	}
	return errtrace.Wrap2(uribuilder.Parse(base, opts))
}

func pathVars(cmd *cli.Command) (urit.PathVars, error) {
	vars := urit.Named()
	for _, kv := range cmd.StringSlice("var") {
		name, val, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("malformed template variable %q", kv))
		}
		if err := vars.AddNamedValue(name, val); err != nil {
			return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError(err))
		}
	}
	return vars, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return errtrace.Wrap(err)
	}

	b, err := newBuilder(cmd, &uribuilder.Options{Log: logger})
	if err != nil {
		return errtrace.Wrap(err)
	}

	if cmd.IsSet("scheme") {
		b.Scheme(cmd.String("scheme"))
	}
	if cmd.IsSet("host") {
		b.Host(cmd.String("host"))
	}
	if cmd.IsSet("port") {
		p := cmd.Uint("port")
		if p > math.MaxUint16 {
			return errtrace.Wrap(errorutil.NewInvalidArgumentError("port %d out of range", p))
		}
		b.Port(uint16(p))
	}
	if cmd.IsSet("path") {
		b.Path(cmd.StringSlice("path"))
	}
	if parts := cmd.StringSlice("join"); len(parts) > 0 {
		b.Join(parts)
	}
	if cmd.Bool("parent") {
		b.Parent()
	}
	if cmd.Bool("root") {
		b.Root()
	}
	if tmpl := cmd.String("expand"); tmpl != "" {
		vars, err := pathVars(cmd)
		if err != nil {
			return errtrace.Wrap(err)
		}
		b.Expand(tmpl, vars)
	}
	if cmd.Bool("trailing-slash") {
		b.TrailingSlash()
	}
	if cmd.Bool("clear-trailing-slash") {
		b.ClearTrailingSlash()
	}
	if cmd.IsSet("query") {
		b.Query(cmd.String("query"))
	}
	if doc := cmd.String("query-yaml"); doc != "" {
		m, err := query.DecodeYAML([]byte(doc))
		if err != nil {
			return errtrace.Wrap(err)
		}
		b.Query(m)
	}
	if q := cmd.String("merge-query"); q != "" {
		b.MergeQuery(q)
	}
	if cmd.Bool("clear-query") {
		b.ClearQuery()
	}
	if cmd.IsSet("fragment") {
		b.Fragment(cmd.String("fragment"))
	}
	if cmd.Bool("clear-fragment") {
		b.ClearFragment()
	}

	u, err := b.URI()
	if err != nil {
		return errtrace.Wrap(err)
	}
	logger.LogAttrs(ctx, slog.LevelDebug, "URI built", slog.Any("uri", u))
	_, err = fmt.Fprintln(cmd.Root().Writer, u.String())
	return errtrace.Wrap(err)
}
