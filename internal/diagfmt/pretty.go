package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"rxc/internal/diag"
	"rxc/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note, gutter, caret, bold *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgGreen, color.Bold),
		gutter: color.New(color.FgBlue, color.Bold),
		caret:  color.New(color.FgRed, color.Bold),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.gutter, p.caret, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) (*color.Color, string) {
	switch sev {
	case diag.SevError:
		return p.err, "error"
	case diag.SevWarning:
		return p.warn, "warning"
	}
	return p.info, "info"
}

// Pretty renders each diagnostic of bag with a source excerpt:
//
//	error[SEM3400]: cannot assign twice to immutable variable `x`
//	  --> main.rx:3:5
//	   |
//	 3 |     x = 10;
//	   |     ^^^^^^
//	   = note: main.rx:2:9: first assignment
//
// Callers sort the bag first when they want source order.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	var sb strings.Builder
	for i, d := range bag.Items() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		prettyOne(&sb, d, fs, opts, p)
	}
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(&sb, "\n%s %d more diagnostic(s) not shown\n", p.bold.Sprint("..."), dropped)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func prettyOne(sb *strings.Builder, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	c, label := p.severity(d.Severity)
	fmt.Fprintf(sb, "%s%s\n", c.Sprintf("%s[%s]", label, d.Code.ID()), p.bold.Sprint(": "+d.Message))

	file := fileOf(fs, d.Primary)
	if file == nil {
		return
	}
	start, end := fs.Resolve(d.Primary)
	gutterWidth := len(strconv.Itoa(int(start.Line)))
	pad := strings.Repeat(" ", gutterWidth)

	fmt.Fprintf(sb, "%s%s %s:%d:%d\n", pad, p.gutter.Sprint("-->"), displayPath(file, opts.PathMode, opts.BaseDir), start.Line, start.Col)
	fmt.Fprintf(sb, "%s %s\n", pad, p.gutter.Sprint("|"))

	first := uint32(1)
	if ctx := uint32(max(opts.Context, 0)); start.Line > ctx {
		first = start.Line - ctx
	}
	for n := first; n < start.Line; n++ {
		fmt.Fprintf(sb, "%s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, n), expandTabs(file.Line(n)))
	}
	line := file.Line(start.Line)
	fmt.Fprintf(sb, "%s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, start.Line), expandTabs(line))

	from, to := caretRange(line, start, end)
	fmt.Fprintf(sb, "%s %s %s%s\n", pad, p.gutter.Sprint("|"), strings.Repeat(" ", from), p.caret.Sprint(strings.Repeat("^", max(to-from, 1))))

	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		fmt.Fprintf(sb, "%s %s %s", pad, p.gutter.Sprint("="), p.note.Sprint("note"))
		if nf := fileOf(fs, n.Span); nf != nil && !(n.Span.Start == 0 && n.Span.End == 0 && n.Span.File != d.Primary.File) {
			pos, _ := fs.Resolve(n.Span)
			fmt.Fprintf(sb, ": %s:%d:%d", displayPath(nf, opts.PathMode, opts.BaseDir), pos.Line, pos.Col)
		}
		fmt.Fprintf(sb, ": %s\n", n.Msg)
	}
}

// caretRange returns display columns [from, to) under line for a span
// starting at start. Spans running past the line end stop at it.
func caretRange(line string, start, end source.LineCol) (int, int) {
	startByte := min(int(start.Col)-1, len(line))
	endByte := len(line)
	if end.Line == start.Line {
		endByte = min(int(end.Col)-1, len(line))
	}
	startByte = max(startByte, 0)
	endByte = max(endByte, startByte)
	from := displayWidth(line[:startByte])
	return from, from + displayWidth(line[startByte:endByte])
}

func displayWidth(s string) int {
	return runewidth.StringWidth(expandTabs(s))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
