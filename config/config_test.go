package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/mock/gomock"

	"github.com/ghettovoice/uribuilder/config"
	"github.com/ghettovoice/uribuilder/internal/errorutil"
	"github.com/ghettovoice/uribuilder/internal/testutil/configmock"
)

func TestFetch(t *testing.T) {
	t.Parallel()

	src := config.Map{"api": "https://api.example.com", "blank": ""}
	cases := []struct {
		name    string
		src     config.Source
		key     string
		def     []string
		want    string
		wantErr error
	}{
		{"hit", src, "api", nil, "https://api.example.com", nil},
		{"hit ignores default", src, "api", []string{"http://localhost"}, "https://api.example.com", nil},
		{"miss with default", src, "cdn", []string{"http://localhost"}, "http://localhost", nil},
		{"blank is absent", src, "blank", []string{"http://localhost"}, "http://localhost", nil},
		{"miss", src, "cdn", nil, "", config.ErrMissingValue},
		{"nil source", nil, "api", nil, "", config.ErrMissingValue},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := config.Fetch(c.src, c.key, c.def...)
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("config.Fetch() error = %v, want %v\ndiff (-got +want):\n%v", err, c.wantErr, diff)
			}
			if got != c.want {
				t.Errorf("config.Fetch() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestEnv_Lookup(t *testing.T) {
	t.Setenv("URIBUILDER_TEST_BASE", "https://example.com")
	t.Setenv("URIBUILDER_TEST_EMPTY", "")

	env := config.Env{Prefix: "URIBUILDER_TEST_"}
	if v, ok := env.Lookup("BASE"); !ok || v != "https://example.com" {
		t.Errorf("env.Lookup(\"BASE\") = %q, %v, want %q, true", v, ok, "https://example.com")
	}
	if _, ok := env.Lookup("EMPTY"); ok {
		t.Errorf("env.Lookup(\"EMPTY\") ok = true, want false")
	}
	if _, ok := env.Lookup("MISSING"); ok {
		t.Errorf("env.Lookup(\"MISSING\") ok = true, want false")
	}
}

func TestChain_Lookup(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	first := configmock.NewMockSource(ctrl)
	second := configmock.NewMockSource(ctrl)

	gomock.InOrder(
		first.EXPECT().Lookup("api").Return("", false),
		second.EXPECT().Lookup("api").Return("https://api.example.com", true),
	)
	first.EXPECT().Lookup("cdn").Return("https://cdn.example.com", true)

	chain := config.Chain{first, nil, second}
	if v, ok := chain.Lookup("api"); !ok || v != "https://api.example.com" {
		t.Errorf("chain.Lookup(\"api\") = %q, %v, want %q, true", v, ok, "https://api.example.com")
	}
	if v, ok := chain.Lookup("cdn"); !ok || v != "https://cdn.example.com" {
		t.Errorf("chain.Lookup(\"cdn\") = %q, %v, want %q, true", v, ok, "https://cdn.example.com")
	}
}

func TestDecodeFile(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		src     string
		want    *config.File
		wantErr error
	}{
		{"empty", "", &config.File{}, nil},
		{
			"bases",
			"bases:\n  api: https://api.example.com/v1\n  cdn: https://cdn.example.com\n",
			&config.File{Bases: map[string]string{"api": "https://api.example.com/v1", "cdn": "https://cdn.example.com"}},
			nil,
		},
		{"malformed", "bases: [\n", nil, errorutil.ErrInvalidArgument},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := config.DecodeFile(strings.NewReader(c.src))
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("config.DecodeFile() error = %v, want %v\ndiff (-got +want):\n%v", err, c.wantErr, diff)
			}
			if diff := cmp.Diff(got, c.want); diff != "" {
				t.Errorf("config.DecodeFile() diff (-got +want):\n%v", diff)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bases.yaml")
	if err := os.WriteFile(path, []byte("bases:\n  api: https://api.example.com\n"), 0o600); err != nil {
		t.Fatalf("os.WriteFile() error = %v, want nil", err)
	}

	f, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("config.LoadFile() error = %v, want nil", err)
	}
	if v, ok := f.Lookup("api"); !ok || v != "https://api.example.com" {
		t.Errorf("f.Lookup(\"api\") = %q, %v, want %q, true", v, ok, "https://api.example.com")
	}

	if _, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); !cmp.Equal(err, os.ErrNotExist, cmpopts.EquateErrors()) {
		t.Errorf("config.LoadFile(missing) error = %v, want %v", err, os.ErrNotExist)
	}

	var nilFile *config.File
	if _, ok := nilFile.Lookup("api"); ok {
		t.Errorf("nil file Lookup ok = true, want false")
	}
}
