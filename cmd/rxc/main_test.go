package main

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"rxc/internal/project"
)

func TestReadUIMode(t *testing.T) {
	cases := map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff}
	for in, want := range cases {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatalf("expected error for invalid mode")
	}
	if !shouldUseTUI(uiModeOn) || shouldUseTUI(uiModeOff) {
		t.Fatalf("explicit ui modes ignored")
	}
}

func TestCheckInputsUsesSourceRoots(t *testing.T) {
	dir := t.TempDir()
	if _, err := project.Init(dir, "demo", false); err != nil {
		t.Fatalf("init: %v", err)
	}
	src := filepath.Join(dir, "src")
	for _, name := range []string{"b.rx", "a.rx", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(src, name), []byte("fn main() {}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cfg, err := project.Load(filepath.Join(dir, project.ManifestName))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	paths, base, err := checkInputs(cfg, nil)
	if err != nil {
		t.Fatalf("checkInputs: %v", err)
	}
	want := []string{filepath.Join(src, "a.rx"), filepath.Join(src, "b.rx")}
	if !slices.Equal(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	if base != dir {
		t.Fatalf("base = %q, want %q", base, dir)
	}
}

func TestCheckInputsPrefersArgs(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "x.rx")
	if err := os.WriteFile(file, []byte("fn main() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	paths, base, err := checkInputs(project.Default(), []string{file})
	if err != nil {
		t.Fatalf("checkInputs: %v", err)
	}
	if len(paths) != 1 || paths[0] != file || base != "" {
		t.Fatalf("paths = %v base = %q", paths, base)
	}
}
