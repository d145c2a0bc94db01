package diag

import (
	"fmt"
	"strings"

	"rxc/internal/source"
)

// FormatShort renders one line per diagnostic:
//
//	error SEM3400 main.rx:3:5 cannot assign twice to immutable variable `x`
//
// Notes follow their diagnostic when includeNotes is set. The output is
// stable and is what golden tests compare against.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	lines := make([]string, 0, len(diags))
	for _, d := range diags {
		lines = append(lines, shortLine(severityLabel(d.Severity), d.Code, fs, d.Primary, d.Message))
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			lines = append(lines, shortLine("note", d.Code, fs, n.Span, n.Msg))
		}
	}
	return strings.Join(lines, "\n")
}

func shortLine(label string, code Code, fs *source.FileSet, sp source.Span, msg string) string {
	path := "?"
	var line, col uint32
	if int(sp.File) < fs.Len() {
		path = fs.Get(sp.File).Path
		start, _ := fs.Resolve(sp)
		line, col = start.Line, start.Col
	}
	return fmt.Sprintf("%s %s %s:%d:%d %s", label, code.ID(), path, line, col, sanitizeMessage(msg))
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
