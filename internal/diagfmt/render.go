package diagfmt

import (
	"io"

	"rxc/internal/diag"
	"rxc/internal/source"
)

// RenderOpts bundles the settings every renderer understands.
type RenderOpts struct {
	Format   Format
	Color    bool
	PathMode PathMode
	BaseDir  string
	Notes    bool
}

// Render writes bag in the selected format.
func Render(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts RenderOpts) error {
	switch opts.Format {
	case FormatShort:
		return Short(w, bag, fs, opts.PathMode, opts.BaseDir)
	case FormatJSON:
		return JSON(w, bag, fs, JSONOpts{
			IncludePositions: true,
			IncludeNotes:     opts.Notes,
			PathMode:         opts.PathMode,
			BaseDir:          opts.BaseDir,
		})
	}
	return Pretty(w, bag, fs, PrettyOpts{
		Color:     opts.Color,
		Context:   1,
		PathMode:  opts.PathMode,
		BaseDir:   opts.BaseDir,
		ShowNotes: opts.Notes,
	})
}
