package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/uribuilder"
)

func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newCommand()
	cmd.Writer = &out
	cmd.ErrWriter = &errOut
	err := cmd.Run(t.Context(), append([]string{"uribuild"}, args...))
	return out.String(), errOut.String(), err
}

func TestRun(t *testing.T) {
	t.Parallel()

	cfg := filepath.Join(t.TempDir(), "bases.yaml")
	if err := os.WriteFile(cfg, []byte("bases:\n  api: https://api.example.com/v1\n"), 0o600); err != nil {
		t.Fatalf("os.WriteFile() error = %v, want nil", err)
	}

	cases := []struct {
		name    string
		args    []string
		want    string
		wantErr error
	}{
		{
			"scheme and query",
			[]string{"--scheme", "https", "--join", "users", "--join", "42", "--query-yaml", "{page: 2, tags: [a, b]}", "example.com/api"},
			"https://example.com/api/users/42?page=2&tags[]=a&tags[]=b\n",
			nil,
		},
		{
			"expand",
			[]string{"--expand", "/users/{id}", "--var", "id=42", "--fragment", "top", "https://example.com/x"},
			"https://example.com/users/42#top\n",
			nil,
		},
		{
			"port and clear query",
			[]string{"--port", "8080", "--clear-query", "https://example.com/?a=1"},
			"https://example.com:8080/\n",
			nil,
		},
		{
			"parent and trailing slash",
			[]string{"--parent", "--trailing-slash", "--merge-query", "b=2", "https://example.com/a/b/c?a=1"},
			"https://example.com/a/b/?a=1&b=2\n",
			nil,
		},
		{
			"config file",
			[]string{"--env", "api", "--config", cfg, "--join", "items"},
			"https://api.example.com/v1/items\n",
			nil,
		},
		{
			"default base",
			[]string{"--env", "URIBUILD_TEST_MISSING", "--default", "http://localhost:8080", "--path", "health"},
			"http://localhost:8080/health\n",
			nil,
		},
		{
			"missing configuration",
			[]string{"--env", "URIBUILD_TEST_MISSING", "--config", cfg},
			"",
			uribuilder.ErrMissingConfiguration,
		},
		{"unknown scheme", []string{"--scheme", "gopher", "https://example.com"}, "", uribuilder.ErrUnknownScheme},
		{"missing base", []string{"--host", "example.com"}, "", uribuilder.ErrInvalidArgument},
		{"port out of range", []string{"--port", "70000", "https://example.com"}, "", uribuilder.ErrInvalidArgument},
		{"bad log level", []string{"--log-level", "loud", "https://example.com"}, "", uribuilder.ErrInvalidArgument},
		{"bad var", []string{"--expand", "/users/{id}", "--var", "id", "https://example.com"}, "", uribuilder.ErrInvalidArgument},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, _, err := runCmd(t, c.args...)
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("run(%q) error = %v, want %v\ndiff (-got +want):\n%v", c.args, err, c.wantErr, diff)
			}
			if got != c.want {
				t.Errorf("run(%q) output = %q, want %q", c.args, got, c.want)
			}
		})
	}
}

func TestRun_Env(t *testing.T) {
	t.Setenv("URIBUILD_TEST_BASE", "https://example.com/api")

	got, _, err := runCmd(t, "--env", "URIBUILD_TEST_BASE", "--join", "v2")
	if err != nil {
		t.Fatalf("run() error = %v, want nil", err)
	}
	if want := "https://example.com/api/v2\n"; got != want {
		t.Errorf("run() output = %q, want %q", got, want)
	}
}

func TestRun_Log(t *testing.T) {
	t.Parallel()

	for _, dev := range []bool{false, true} {
		args := []string{"--log-level", "debug", "--scheme", "wss", "https://example.com/chat"}
		if dev {
			args = append([]string{"--dev-log"}, args...)
		}

		out, logs, err := runCmd(t, args...)
		if err != nil {
			t.Fatalf("run(%q) error = %v, want nil", args, err)
		}
		if want := "wss://example.com/chat\n"; out != want {
			t.Errorf("run(%q) output = %q, want %q", args, out, want)
		}
		for _, msg := range []string{"URI scheme reconciled", "URI built"} {
			if !strings.Contains(logs, msg) {
				t.Errorf("run(%q) logs do not contain %q:\n%s", args, msg, logs)
			}
		}
	}
}
