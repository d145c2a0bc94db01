package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"rxc/internal/diag"
	"rxc/internal/source"
)

// Short renders one line per diagnostic:
//
//	main.rx:3:5: ERROR SEM3400: cannot assign twice to immutable variable `x`
//
// Diagnostics without a location start with the severity.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode, baseDir string) error {
	var sb strings.Builder
	for _, d := range bag.Items() {
		if f := fileOf(fs, d.Primary); f != nil {
			pos, _ := fs.Resolve(d.Primary)
			fmt.Fprintf(&sb, "%s:%d:%d: ", displayPath(f, mode, baseDir), pos.Line, pos.Col)
		}
		fmt.Fprintf(&sb, "%s %s: %s\n", d.Severity, d.Code.ID(), strings.ReplaceAll(d.Message, "\n", " "))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
