// Package diagfmt renders diagnostics and token streams for the terminal
// and for tools.
package diagfmt

import (
	"fmt"
	"path/filepath"
	"strings"

	"rxc/internal/source"
)

// Format selects a diagnostic renderer.
type Format string

const (
	FormatPretty Format = "pretty"
	FormatShort  Format = "short"
	FormatJSON   Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatPretty, FormatShort, FormatJSON:
		return f, nil
	case "":
		return FormatPretty, nil
	}
	return "", fmt.Errorf("unknown format %q (want pretty, short or json)", s)
}

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps relative paths and shortens absolute ones under
	// the base directory.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures Pretty.
type PrettyOpts struct {
	Color bool
	// Context is the number of source lines shown above the primary line.
	Context   int
	PathMode  PathMode
	BaseDir   string
	ShowNotes bool
}

// JSONOpts configures JSON output.
type JSONOpts struct {
	IncludePositions bool
	IncludeNotes     bool
	PathMode         PathMode
	BaseDir          string
	// Max truncates the output; 0 means everything.
	Max int
}

func displayPath(f *source.File, mode PathMode, base string) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeBasename:
		return f.BaseName()
	case PathModeRelative, PathModeAuto:
		if mode == PathModeAuto && !filepath.IsAbs(f.Path) {
			return f.Path
		}
		if base == "" {
			base = "."
		}
		absBase, err1 := filepath.Abs(base)
		absPath, err2 := filepath.Abs(f.Path)
		if err1 == nil && err2 == nil {
			if rel, err := filepath.Rel(absBase, absPath); err == nil && !strings.HasPrefix(rel, "..") {
				return filepath.ToSlash(rel)
			}
		}
	}
	return f.Path
}

// fileOf returns the file sp points into, or nil for spans outside fs.
func fileOf(fs *source.FileSet, sp source.Span) *source.File {
	if fs == nil || int(sp.File) >= fs.Len() {
		return nil
	}
	return fs.Get(sp.File)
}
