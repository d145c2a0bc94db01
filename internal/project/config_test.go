package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseKeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := Parse(`
[check]
throw_on_error = true

[batch]
timeout = "2s"
`)
	if err != nil {
		t.Fatal(err)
	}
	def := Default()
	if !cfg.Check.ThrowOnError || cfg.Batch.Timeout != 2*time.Second {
		t.Fatalf("explicit keys not applied: %+v", cfg)
	}
	if cfg.Check.MaxDiagnostics != def.Check.MaxDiagnostics || cfg.Check.PointerWidth != 64 || !cfg.Batch.Cache {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestParseExplicitZeroOverridesDefault(t *testing.T) {
	cfg, err := Parse("[check]\nmax_diagnostics = 0\n[batch]\ncache = false\n")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Check.MaxDiagnostics != 0 || cfg.Batch.Cache {
		t.Fatalf("explicit zero values ignored: %+v", cfg)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name, text, want string
	}{
		{"pointer width", "[check]\npointer_width = 16\n", "pointer_width"},
		{"timeout", "[batch]\ntimeout = \"soon\"\n", "batch.timeout"},
		{"negative jobs", "[batch]\njobs = -1\n", "batch.jobs"},
		{"unknown key", "[check]\nthrow_on_eror = true\n", "check.throw_on_eror"},
		{"bad toml", "[check\n", "failed to parse"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.text)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %q", err, tc.want)
			}
		})
	}
	if _, err := Parse("[extra]\nx = 1\n"); !errors.Is(err, ErrUnknownKeys) {
		t.Fatalf("unknown section must wrap ErrUnknownKeys, got %v", err)
	}
}

func TestInitRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path, err := Init(dir, "demo", false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Init(dir, "demo", false); !errors.Is(err, ErrManifestExists) {
		t.Fatalf("second Init must refuse, got %v", err)
	}
	if info, err := os.Stat(filepath.Join(dir, "src")); err != nil || !info.IsDir() {
		t.Fatalf("source root not created: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	if cfg.Project.Name != "demo" || cfg.Batch.Timeout != want.Batch.Timeout || cfg.Trace.Level != want.Trace.Level {
		t.Fatalf("round trip changed config: %+v", cfg)
	}
}

func TestLoadNearestWalksUp(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ManifestName), []byte("[project]\nname = \"up\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadNearest(nested)
	if err != nil || cfg.Project.Name != "up" {
		t.Fatalf("LoadNearest = %+v, %v", cfg, err)
	}

	found, ok, err := FindProjectRoot(nested)
	if err != nil || !ok || found != root {
		t.Fatalf("FindProjectRoot = %q %v %v", found, ok, err)
	}
}

func TestResolveSourceRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "file.rx"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ResolveSourceRoot(root, "src"); err != nil {
		t.Fatalf("valid root rejected: %v", err)
	}
	for _, bad := range []string{"", "/abs", "../out", "file.rx", "missing"} {
		if _, err := ResolveSourceRoot(root, bad); err == nil {
			t.Fatalf("root %q accepted", bad)
		}
	}
}
